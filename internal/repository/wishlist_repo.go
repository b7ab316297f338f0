package repository

import (
	"context"

	"github.com/estatehub/estatehub-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WishlistRepository buyer bookmarks
type WishlistRepository interface {
	Add(ctx context.Context, buyerID, listingID string) (created bool, err error)
	Remove(ctx context.Context, buyerID, listingID string) error
	ListByBuyer(ctx context.Context, buyerID string) ([]*domain.WishlistEntry, error)
	DeleteByBuyer(ctx context.Context, buyerID string) error
}

type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository creates a wishlist repository
func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// Add inserts the pair; an existing pair is left untouched and created is false
func (r *wishlistRepository) Add(ctx context.Context, buyerID, listingID string) (bool, error) {
	entry := &domain.WishlistEntry{BuyerID: buyerID, ListingID: listingID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "buyer_id"}, {Name: "listing_id"}},
			DoNothing: true,
		}).
		Create(entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the pair if present
func (r *wishlistRepository) Remove(ctx context.Context, buyerID, listingID string) error {
	return r.db.WithContext(ctx).
		Where("buyer_id = ? AND listing_id = ?", buyerID, listingID).
		Delete(&domain.WishlistEntry{}).Error
}

// ListByBuyer newest first
func (r *wishlistRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*domain.WishlistEntry, error) {
	var entries []*domain.WishlistEntry
	err := r.db.WithContext(ctx).Preload("Listing").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").Order("id DESC").
		Find(&entries).Error
	return entries, err
}

func (r *wishlistRepository) DeleteByBuyer(ctx context.Context, buyerID string) error {
	return r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).Delete(&domain.WishlistEntry{}).Error
}
