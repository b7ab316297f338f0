package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"gorm.io/gorm"
)

// ListingRepository listing persistence and search
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	UpdateModeration(ctx context.Context, listing *domain.Listing) error
	Search(ctx context.Context, filter *domain.ListingFilter) ([]*domain.Listing, int64, error)
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	DeleteCascade(ctx context.Context, ids ...string) error
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	var listing domain.Listing
	err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Update saves editable columns. Moderation columns are written only by UpdateModeration.
func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	return r.db.WithContext(ctx).Model(listing).
		Select("title", "description", "property_type", "listing_type", "price", "area_sqft",
			"bedrooms", "bathrooms", "city", "locality", "latitude", "longitude", "status", "updated_at",
			"search_text", "city_fold", "locality_fold").
		Updates(listing).Error
}

func (r *listingRepository) UpdateModeration(ctx context.Context, listing *domain.Listing) error {
	return r.db.WithContext(ctx).Model(listing).
		Select("moderation", "published_via", "published_at", "updated_at").
		Updates(listing).Error
}

// Search applies every filter conjunctively, then sorts and paginates
func (r *listingRepository) Search(ctx context.Context, f *domain.ListingFilter) ([]*domain.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Listing{})

	if f.PublicOnly {
		query = query.Where("moderation = ?", domain.ModerationPublished)
	}
	if f.Unpublished {
		query = query.Where("moderation <> ?", domain.ModerationPublished)
	}
	if f.OwnerID != "" {
		query = query.Where("owner_id = ?", f.OwnerID)
	}
	if f.Query != "" {
		query = query.Where("search_text LIKE ? ESCAPE '!'", likePattern(f.Query))
	}
	if f.City != "" {
		query = query.Where("city_fold LIKE ? ESCAPE '!'", likePattern(f.City))
	}
	if f.Locality != "" {
		query = query.Where("locality_fold LIKE ? ESCAPE '!'", likePattern(f.Locality))
	}
	if f.PriceMin != nil {
		query = query.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		query = query.Where("price <= ?", *f.PriceMax)
	}
	if f.AreaMin != nil {
		query = query.Where("area_sqft >= ?", *f.AreaMin)
	}
	if f.AreaMax != nil {
		query = query.Where("area_sqft <= ?", *f.AreaMax)
	}
	if f.Bedrooms != nil {
		query = query.Where("bedrooms = ?", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		query = query.Where("bathrooms = ?", *f.Bathrooms)
	}
	if f.PropertyType != nil {
		query = query.Where("property_type = ?", *f.PropertyType)
	}
	if f.ListingType != nil {
		query = query.Where("listing_type = ?", *f.ListingType)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case domain.SortPriceAsc:
		query = query.Order("price ASC").Order("created_at DESC")
	case domain.SortPriceDesc:
		query = query.Order("price DESC").Order("created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}
	query = query.Order("id ASC")

	var listings []*domain.Listing
	err := query.
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Offset(f.Offset()).Limit(f.PageSize).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *listingRepository) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.Listing{}).
		Where("owner_id = ?", ownerID).Pluck("id", &ids).Error
	return ids, err
}

// DeleteCascade removes listings together with their media rows, wishlist
// entries, enquiries and payments in one transaction
func (r *listingRepository) DeleteCascade(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.Media{}, &domain.WishlistEntry{}, &domain.Enquiry{}, &domain.Payment{},
		} {
			if err := tx.Where("listing_id IN ?", ids).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("id IN ?", ids).Delete(&domain.Listing{}).Error
	})
}

// likePattern lower-cases term and escapes LIKE wildcards with '!'
func likePattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
