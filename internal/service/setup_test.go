package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/estatehub/estatehub-backend/internal/database"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/gateway"
	"github.com/estatehub/estatehub-backend/internal/migration"
	"github.com/estatehub/estatehub-backend/pkg/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, migration.Run(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role domain.Role) domain.Principal {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: "x", Role: role, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u.Principal()
}

func newListingRequest(city string, price float64, bedrooms int) *domain.CreateListingRequest {
	return &domain.CreateListingRequest{
		Title:        "Flat in " + city,
		Description:  "Well lit, close to the metro",
		PropertyType: "flat",
		ListingType:  "sale",
		Price:        price,
		AreaSqft:     850,
		Bedrooms:     bedrooms,
		Bathrooms:    1,
		City:         city,
		Locality:     "Central",
	}
}

// --- recording publisher ---

type sentEvent struct {
	topic   string
	key     string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []sentEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, sentEvent{topic, key, payload})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.topic)
	}
	return out
}

// --- mock gateway ---

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*gateway.Order, error) {
	args := m.Called(amount, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Order), args.Error(1)
}

func (m *mockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return m.Called(orderID, paymentID, signature).Bool(0)
}

func (m *mockGateway) KeyID() string { return "rzp_test_key" }

// --- in-memory storage ---

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (s *memStorage) Upload(_ context.Context, key string, body io.Reader, contentType string, _ int64) (*storage.UploadResult, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, body)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.objects[key] = buf.Bytes()
	s.mu.Unlock()
	return &storage.UploadResult{Key: key, URL: "/media/" + key, ContentType: contentType, Size: n}, nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *memStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
