package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testMediaRules() domain.MediaRules {
	return domain.MediaRules{
		domain.MediaImage: {MaxSize: 1 << 10, Extensions: []string{".jpg", ".png"}},
		domain.MediaVideo: {MaxSize: 4 << 10, Extensions: []string{".mp4"}},
	}
}

func jpegUpload(name string, size int) *MediaUpload {
	return &MediaUpload{
		MediaType:   "IMAGE",
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(size),
		Body:        strings.NewReader(strings.Repeat("x", size)),
	}
}

type ledgerFixture struct {
	db        *gorm.DB
	ctx       context.Context
	seller    domain.Principal
	buyer     domain.Principal
	admin     domain.Principal
	public    *domain.Listing
	draft     *domain.Listing
	publisher *recordingPublisher
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db := setupTestDB(t)
	f := &ledgerFixture{
		db:        db,
		ctx:       context.Background(),
		seller:    createUser(t, db, "s@example.com", domain.RoleSeller),
		buyer:     createUser(t, db, "b@example.com", domain.RoleBuyer),
		admin:     createUser(t, db, "a@example.com", domain.RoleAdmin),
		publisher: &recordingPublisher{},
	}
	listings := NewListingService(db, nil, nil, nil, nil)

	var err error
	f.public, err = listings.Create(f.ctx, f.seller, newListingRequest("Pune", 1000, 1))
	require.NoError(t, err)
	f.public, err = NewModerationService(db, nil, nil).Approve(f.ctx, f.admin, f.public.ID)
	require.NoError(t, err)
	f.draft, err = listings.Create(f.ctx, f.seller, newListingRequest("Goa", 2000, 2))
	require.NoError(t, err)
	return f
}

func TestEnquiryCreate(t *testing.T) {
	f := newLedgerFixture(t)
	svc := NewEnquiryService(f.db, f.publisher)

	e, err := svc.Create(f.ctx, f.buyer, &domain.CreateEnquiryRequest{ListingID: f.public.ID, Message: "  Is parking included?  "})
	require.NoError(t, err)
	assert.Equal(t, "Is parking included?", e.Message)
	assert.False(t, e.IsRead)

	// duplicates are allowed
	_, err = svc.Create(f.ctx, f.buyer, &domain.CreateEnquiryRequest{ListingID: f.public.ID, Message: "Is parking included?"})
	require.NoError(t, err)

	assert.Equal(t, []string{events.TopicEnquiryCreated, events.TopicEnquiryCreated}, f.publisher.topics())
	ev := f.publisher.events[0].payload.(events.EnquiryCreated)
	assert.Equal(t, f.seller.UserID, ev.OwnerID)
}

func TestEnquiryEmptyMessageStoresNothing(t *testing.T) {
	f := newLedgerFixture(t)
	svc := NewEnquiryService(f.db, f.publisher)

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(f.ctx, f.buyer, &domain.CreateEnquiryRequest{ListingID: f.public.ID, Message: msg})
		var verr *common.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "message")
	}

	var n int64
	require.NoError(t, f.db.Model(&domain.Enquiry{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Empty(t, f.publisher.topics())
}

func TestEnquiryRules(t *testing.T) {
	f := newLedgerFixture(t)
	svc := NewEnquiryService(f.db, nil)

	_, err := svc.Create(f.ctx, f.buyer, &domain.CreateEnquiryRequest{ListingID: f.draft.ID, Message: "hi"})
	assert.ErrorIs(t, err, common.ErrListingNotFound)

	_, err = svc.Create(f.ctx, f.seller, &domain.CreateEnquiryRequest{ListingID: f.public.ID, Message: "hi"})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestEnquiryPublishFailureIsNotFatal(t *testing.T) {
	f := newLedgerFixture(t)
	f.publisher.err = errors.New("broker down")
	svc := NewEnquiryService(f.db, f.publisher)

	e, err := svc.Create(f.ctx, f.buyer, &domain.CreateEnquiryRequest{ListingID: f.public.ID, Message: "hi"})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
}

func TestInboxAndMarkRead(t *testing.T) {
	f := newLedgerFixture(t)
	svc := NewEnquiryService(f.db, nil)

	e, err := svc.Create(f.ctx, f.buyer, &domain.CreateEnquiryRequest{ListingID: f.public.ID, Message: "hi"})
	require.NoError(t, err)

	inbox, total, err := svc.SellerInbox(f.ctx, f.seller, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	resp := inbox[0].ToResponse()
	assert.Equal(t, "Flat in Pune", resp.ListingTitle)
	assert.Equal(t, "b@example.com", resp.BuyerEmail)

	_, err = svc.MarkRead(f.ctx, f.buyer, e.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	read, err := svc.MarkRead(f.ctx, f.seller, e.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.Equal(t, "hi", read.Message)

	_, err = svc.MarkRead(f.ctx, f.seller, 404)
	assert.ErrorIs(t, err, common.ErrEnquiryNotFound)
}

func TestWishlist(t *testing.T) {
	f := newLedgerFixture(t)
	svc := NewWishlistService(f.db)

	created, err := svc.Add(f.ctx, f.buyer, f.public.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Add(f.ctx, f.buyer, f.public.ID)
	require.NoError(t, err)
	assert.False(t, created)

	entries, err := svc.List(f.ctx, f.buyer)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, f.public.ID, entries[0].ToResponse().Listing.ID)

	_, err = svc.Add(f.ctx, f.buyer, f.draft.ID)
	assert.ErrorIs(t, err, common.ErrListingNotFound)
	_, err = svc.Add(f.ctx, f.seller, f.public.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	require.NoError(t, svc.Remove(f.ctx, f.buyer, f.public.ID))
	require.NoError(t, svc.Remove(f.ctx, f.buyer, f.public.ID))
	require.NoError(t, svc.Remove(f.ctx, f.buyer, "never-saved"))

	entries, err = svc.List(f.ctx, f.buyer)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMediaUpload(t *testing.T) {
	f := newLedgerFixture(t)
	store := newMemStorage()
	svc := NewMediaService(f.db, store, testMediaRules())

	m, err := svc.Upload(f.ctx, f.seller, f.draft.ID, jpegUpload("Front.JPG", 512))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(m.StorageKey, "listings/"+f.draft.ID+"/"))
	assert.True(t, strings.HasSuffix(m.StorageKey, ".jpg"))
	assert.Equal(t, int64(512), m.Size)
	assert.Equal(t, 1, store.count())

	tests := []struct {
		name   string
		upload *MediaUpload
		field  string
	}{
		{"bad extension", jpegUpload("notes.gif", 10), "file"},
		{"too large", jpegUpload("big.jpg", 2<<10), "file"},
		{"bad type", &MediaUpload{MediaType: "AUDIO", Filename: "a.mp3", Size: 1, Body: strings.NewReader("x")}, "media_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(f.ctx, f.seller, f.draft.ID, tt.upload)
			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
	assert.Equal(t, 1, store.count())

	_, err = svc.Upload(f.ctx, f.buyer, f.public.ID, jpegUpload("a.jpg", 10))
	assert.ErrorIs(t, err, common.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(f.ctx, f.seller, f.public.ID, m.ID), common.ErrMediaNotFound)
	require.NoError(t, svc.Delete(f.ctx, f.seller, f.draft.ID, m.ID))
	assert.Zero(t, store.count())
}

func TestAnalyticsDashboard(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := NewEnquiryService(f.db, nil).Create(f.ctx, f.buyer, &domain.CreateEnquiryRequest{ListingID: f.public.ID, Message: "hi"})
	require.NoError(t, err)

	svc := NewAnalyticsService(f.db, nil)
	stats, err := svc.Dashboard(f.ctx, f.admin)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalListings)
	assert.Equal(t, int64(1), stats.ApprovedListings)
	assert.Equal(t, int64(1), stats.PendingListings)
	assert.Equal(t, int64(1), stats.TotalEnquiries)
	assert.Equal(t, []domain.CityCount{{City: "Goa", Count: 1}, {City: "Pune", Count: 1}}, stats.ListingsByCity)

	_, err = svc.Dashboard(f.ctx, f.seller)
	assert.ErrorIs(t, err, common.ErrForbidden)
}
