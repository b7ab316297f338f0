package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/pkg/cache"
	"github.com/estatehub/estatehub-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = "u-new"
	}
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Update(_ context.Context, user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	return m.Called(id).Error(0)
}

func (m *mockUserRepo) List(_ context.Context, page, pageSize int) ([]*domain.User, int64, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*domain.User), args.Get(1).(int64), args.Error(2)
}

// --- in-memory cache ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) IsAvailable() bool { return true }

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, load func() (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	v, err := load()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func newTestAuth(repo *mockUserRepo, c cache.Service) (AuthService, *jwt.Manager) {
	mgr := jwt.NewManager("test-secret", 900, 3600)
	return NewAuthService(repo, mgr, c), mgr
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_Success(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("ExistsByEmail", "new@example.com").Return(false, nil)
	repo.On("Create", mock.AnythingOfType("*domain.User")).Return(nil)
	svc, mgr := newTestAuth(repo, nil)

	resp, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Email:    "  New@Example.com ",
		Password: "password123",
		Role:     "seller",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, domain.RoleSeller, resp.User.Role)
	assert.NotEqual(t, "password123", resp.User.PasswordHash)

	claims, err := mgr.VerifyAccessToken(resp.Tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, "SELLER", claims.Role)
	repo.AssertExpectations(t)
}

func TestRegister_RejectsAdminAndUnknownRoles(t *testing.T) {
	for _, role := range []string{"ADMIN", "admin", "landlord", ""} {
		repo := &mockUserRepo{}
		svc, _ := newTestAuth(repo, nil)

		_, err := svc.Register(context.Background(), &domain.RegisterRequest{Email: "x@example.com", Password: "password123", Role: role})
		var verr *common.ValidationError
		require.ErrorAs(t, err, &verr, role)
		assert.Contains(t, verr.Fields, "role")
		repo.AssertNotCalled(t, "Create", mock.Anything)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("ExistsByEmail", "taken@example.com").Return(true, nil)
	svc, _ := newTestAuth(repo, nil)

	_, err := svc.Register(context.Background(), &domain.RegisterRequest{Email: "taken@example.com", Password: "password123", Role: "BUYER"})
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestLogin(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "b@example.com", PasswordHash: hashed(t, "password123"), Role: domain.RoleBuyer, IsActive: true}
	disabled := &domain.User{ID: "u2", Email: "off@example.com", PasswordHash: hashed(t, "password123"), Role: domain.RoleBuyer}

	repo := &mockUserRepo{}
	repo.On("FindByEmail", "b@example.com").Return(user, nil)
	repo.On("FindByEmail", "off@example.com").Return(disabled, nil)
	repo.On("FindByEmail", "ghost@example.com").Return(nil, common.ErrUserNotFound)
	svc, _ := newTestAuth(repo, nil)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &domain.LoginRequest{Email: "B@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.Refresh)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "b@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "off@example.com", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrAccountDisabled)
}

func TestRefresh_RotatesAndRevokes(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "b@example.com", Role: domain.RoleBuyer, IsActive: true}
	repo := &mockUserRepo{}
	repo.On("FindByID", "u1").Return(user, nil)
	svc, mgr := newTestAuth(repo, newMemCache())
	ctx := context.Background()

	refresh, err := mgr.GenerateRefreshToken("u1")
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEqual(t, refresh, pair.Refresh)

	_, err = svc.Refresh(ctx, refresh)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, pair.Refresh))
	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	repo := &mockUserRepo{}
	svc, mgr := newTestAuth(repo, nil)

	access, err := mgr.GenerateAccessToken("u1", "b@example.com", "BUYER")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), access)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	repo.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestLogout_IgnoresGarbage(t *testing.T) {
	svc, _ := newTestAuth(&mockUserRepo{}, newMemCache())
	assert.NoError(t, svc.Logout(context.Background(), ""))
	assert.NoError(t, svc.Logout(context.Background(), "not-a-jwt"))
}
