package service

import (
	"context"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"gorm.io/gorm"
)

// WishlistService buyer bookmarks
type WishlistService interface {
	Add(ctx context.Context, p domain.Principal, listingID string) (created bool, err error)
	Remove(ctx context.Context, p domain.Principal, listingID string) error
	List(ctx context.Context, p domain.Principal) ([]*domain.WishlistEntry, error)
}

type wishlistService struct {
	listingRepo  repository.ListingRepository
	wishlistRepo repository.WishlistRepository
}

// NewWishlistService creates a new WishlistService
func NewWishlistService(db *gorm.DB) WishlistService {
	return &wishlistService{
		listingRepo:  repository.NewListingRepository(db),
		wishlistRepo: repository.NewWishlistRepository(db),
	}
}

// Add saves a public listing. Adding twice keeps one entry.
func (s *wishlistService) Add(ctx context.Context, p domain.Principal, listingID string) (bool, error) {
	if !domain.CanKeepWishlist(p) {
		return false, common.ErrForbidden
	}
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return false, err
	}
	if !listing.IsPublic() {
		return false, common.ErrListingNotFound
	}
	return s.wishlistRepo.Add(ctx, p.UserID, listing.ID)
}

// Remove is a no-op for a pair that does not exist
func (s *wishlistService) Remove(ctx context.Context, p domain.Principal, listingID string) error {
	if !domain.CanKeepWishlist(p) {
		return common.ErrForbidden
	}
	return s.wishlistRepo.Remove(ctx, p.UserID, listingID)
}

func (s *wishlistService) List(ctx context.Context, p domain.Principal) ([]*domain.WishlistEntry, error) {
	if !domain.CanKeepWishlist(p) {
		return nil, common.ErrForbidden
	}
	return s.wishlistRepo.ListByBuyer(ctx, p.UserID)
}
