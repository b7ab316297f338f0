package service

import (
	"context"
	"net/url"
	"time"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/events"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"github.com/estatehub/estatehub-backend/internal/search"
	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
	"gorm.io/gorm"
)

// ModerationService admin approval of listings
type ModerationService interface {
	Approve(ctx context.Context, p domain.Principal, listingID string) (*domain.Listing, error)
	PendingQueue(ctx context.Context, p domain.Principal, query url.Values) (*domain.ListingPage, error)
}

type moderationService struct {
	listingRepo repository.ListingRepository
	now         func() time.Time
	notifier
}

// NewModerationService creates a new ModerationService
func NewModerationService(db *gorm.DB, publisher events.Publisher, indexer search.Indexer) ModerationService {
	return &moderationService{
		listingRepo: repository.NewListingRepository(db),
		now:         time.Now,
		notifier:    newNotifier(publisher, indexer),
	}
}

// Approve publishes a non-public listing. Approving a public listing changes nothing.
func (s *moderationService) Approve(ctx context.Context, p domain.Principal, listingID string) (*domain.Listing, error) {
	if !domain.CanModerate(p) {
		return nil, common.ErrForbidden
	}

	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.Publish(domain.PublishedViaApproval, s.now()) {
		return listing, nil
	}
	if err := s.listingRepo.UpdateModeration(ctx, listing); err != nil {
		return nil, err
	}

	pkglogger.FromContext(ctx).Info().
		Str("listing_id", listing.ID).
		Str("admin_id", p.UserID).
		Msg("listing approved")
	s.published(ctx, listing)
	return listing, nil
}

// PendingQueue non-public listings awaiting moderation
func (s *moderationService) PendingQueue(ctx context.Context, p domain.Principal, query url.Values) (*domain.ListingPage, error) {
	if !domain.CanModerate(p) {
		return nil, common.ErrForbidden
	}
	filter, err := parseFilter(query)
	if err != nil {
		return nil, err
	}
	filter.Unpublished = true

	listings, total, err := s.listingRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewListingPage(listings, total, filter), nil
}
