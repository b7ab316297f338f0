package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/events"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"github.com/estatehub/estatehub-backend/internal/search"
	"github.com/estatehub/estatehub-backend/pkg/cache"
	"github.com/estatehub/estatehub-backend/pkg/storage"
	"gorm.io/gorm"
)

const suggestSize = 10

// ListingService listing store and search
type ListingService interface {
	Create(ctx context.Context, p domain.Principal, req *domain.CreateListingRequest) (*domain.Listing, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.Listing, error)
	Update(ctx context.Context, p domain.Principal, id string, req *domain.UpdateListingRequest) (*domain.Listing, error)
	UpdateStatus(ctx context.Context, p domain.Principal, id string, status string) (*domain.Listing, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
	Search(ctx context.Context, p domain.Principal, query url.Values) (*domain.ListingPage, error)
	Mine(ctx context.Context, p domain.Principal, query url.Values) (*domain.ListingPage, error)
	Suggest(ctx context.Context, prefix string) ([]string, error)
}

type listingService struct {
	listingRepo repository.ListingRepository
	mediaRepo   repository.MediaRepository
	store       storage.Storage
	cache       cache.Service
	notifier
}

// NewListingService creates a new ListingService
func NewListingService(db *gorm.DB, store storage.Storage, c cache.Service, publisher events.Publisher, indexer search.Indexer) ListingService {
	if c == nil {
		c = cache.NewService(nil)
	}
	return &listingService{
		listingRepo: repository.NewListingRepository(db),
		mediaRepo:   repository.NewMediaRepository(db),
		store:       store,
		cache:       c,
		notifier:    newNotifier(publisher, indexer),
	}
}

// Create stores a new draft listing owned by the caller
func (s *listingService) Create(ctx context.Context, p domain.Principal, req *domain.CreateListingRequest) (*domain.Listing, error) {
	if !domain.CanCreateListing(p) {
		return nil, common.ErrForbidden
	}

	verr := &common.ValidationError{}
	propertyType, ok := domain.ParsePropertyType(req.PropertyType)
	if !ok {
		verr.Add("property_type", "must be one of HOUSE, FLAT, LAND, COMMERCIAL")
	}
	listingType, ok := domain.ParseListingType(req.ListingType)
	if !ok {
		verr.Add("listing_type", "must be one of SALE, RENT")
	}
	if strings.TrimSpace(req.Title) == "" {
		verr.Add("title", "is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	listing := &domain.Listing{
		OwnerID:      p.UserID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		PropertyType: propertyType,
		ListingType:  listingType,
		Price:        req.Price,
		AreaSqft:     req.AreaSqft,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		City:         strings.TrimSpace(req.City),
		Locality:     strings.TrimSpace(req.Locality),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Status:       domain.StatusAvailable,
		Moderation:   domain.ModerationDraft,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	listing.Media = []domain.Media{}
	listingsCreatedTotal.Inc()
	return listing, nil
}

// Get returns the listing if the caller may see it; hidden listings are reported as missing
func (s *listingService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewListing(p, listing) {
		return nil, common.ErrListingNotFound
	}
	return listing, nil
}

func (s *listingService) owned(ctx context.Context, p domain.Principal, id string) (*domain.Listing, error) {
	return loadOwned(ctx, s.listingRepo, p, id)
}

// loadOwned loads a listing the caller must own. Non-owners who can see it get
// ErrForbidden, everyone else ErrListingNotFound.
func loadOwned(ctx context.Context, repo repository.ListingRepository, p domain.Principal, id string) (*domain.Listing, error) {
	listing, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.CanManageListing(p, listing) {
		return listing, nil
	}
	if domain.CanViewListing(p, listing) {
		return nil, common.ErrForbidden
	}
	return nil, common.ErrListingNotFound
}

// Update applies a partial edit. Moderation state is unchanged.
func (s *listingService) Update(ctx context.Context, p domain.Principal, id string, req *domain.UpdateListingRequest) (*domain.Listing, error) {
	listing, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	verr := &common.ValidationError{}
	if req.Title != nil {
		if t := strings.TrimSpace(*req.Title); t == "" {
			verr.Add("title", "must not be empty")
		} else {
			listing.Title = t
		}
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.PropertyType != nil {
		if t, ok := domain.ParsePropertyType(*req.PropertyType); ok {
			listing.PropertyType = t
		} else {
			verr.Add("property_type", "must be one of HOUSE, FLAT, LAND, COMMERCIAL")
		}
	}
	if req.ListingType != nil {
		if t, ok := domain.ParseListingType(*req.ListingType); ok {
			listing.ListingType = t
		} else {
			verr.Add("listing_type", "must be one of SALE, RENT")
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if req.Price != nil {
		listing.Price = *req.Price
	}
	if req.AreaSqft != nil {
		listing.AreaSqft = *req.AreaSqft
	}
	if req.Bedrooms != nil {
		listing.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		listing.Bathrooms = *req.Bathrooms
	}
	if req.City != nil {
		listing.City = strings.TrimSpace(*req.City)
	}
	if req.Locality != nil {
		listing.Locality = strings.TrimSpace(*req.Locality)
	}
	if req.Latitude != nil {
		listing.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		listing.Longitude = req.Longitude
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	if listing.IsPublic() {
		s.reindex(ctx, listing)
	}
	return listing, nil
}

// UpdateStatus changes the lifecycle status; SOLD cannot be left
func (s *listingService) UpdateStatus(ctx context.Context, p domain.Principal, id string, status string) (*domain.Listing, error) {
	next, ok := domain.ParseListingStatus(status)
	if !ok {
		return nil, common.NewValidationError("status", "must be one of AVAILABLE, PENDING, SOLD")
	}

	listing, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if listing.Status == domain.StatusSold && next != domain.StatusSold {
		return nil, common.ErrListingSold
	}
	if listing.Status == next {
		return listing, nil
	}

	listing.Status = next
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Delete removes the listing and everything attached to it
func (s *listingService) Delete(ctx context.Context, p domain.Principal, id string) error {
	listing, err := s.owned(ctx, p, id)
	if err != nil {
		return err
	}

	keys, err := s.mediaRepo.StorageKeys(ctx, listing.ID)
	if err != nil {
		return err
	}
	if err := s.listingRepo.DeleteCascade(ctx, listing.ID); err != nil {
		return err
	}

	removeObjects(ctx, s.store, keys)
	s.unindex(ctx, listing.ID)
	s.publish(ctx, events.TopicListingDeleted, listing.ID, events.ListingDeleted{
		ListingID: listing.ID,
		OwnerID:   listing.OwnerID,
	})
	return nil
}

// Search runs a filtered query. Only admins see non-public listings.
func (s *listingService) Search(ctx context.Context, p domain.Principal, query url.Values) (*domain.ListingPage, error) {
	filter, err := parseFilter(query)
	if err != nil {
		return nil, err
	}
	filter.PublicOnly = !domain.SeesUnpublished(p)
	return s.search(ctx, filter)
}

// Mine lists the caller's own listings in every moderation state
func (s *listingService) Mine(ctx context.Context, p domain.Principal, query url.Values) (*domain.ListingPage, error) {
	if !p.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}
	filter, err := parseFilter(query)
	if err != nil {
		return nil, err
	}
	filter.OwnerID = p.UserID
	return s.search(ctx, filter)
}

func (s *listingService) search(ctx context.Context, filter *domain.ListingFilter) (*domain.ListingPage, error) {
	listings, total, err := s.listingRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewListingPage(listings, total, filter), nil
}

// Suggest title autocomplete, cached briefly per prefix
func (s *listingService) Suggest(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return []string{}, nil
	}

	var out []string
	err := s.cache.Remember(ctx, cache.PrefixSuggest+prefix, cache.TTLSuggest, &out, func() (interface{}, error) {
		return s.indexer.Suggest(ctx, prefix, suggestSize)
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func parseFilter(query url.Values) (*domain.ListingFilter, error) {
	filter, verrs := domain.ParseListingQuery(query)
	if !verrs.Empty() {
		verr := &common.ValidationError{}
		for field, msg := range verrs.Fields {
			verr.Add(field, msg)
		}
		return nil, verr
	}
	return filter, nil
}
