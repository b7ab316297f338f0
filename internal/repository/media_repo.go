package repository

import (
	"context"
	"errors"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"gorm.io/gorm"
)

// MediaRepository listing media rows
type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) error
	FindByID(ctx context.Context, id uint64) (*domain.Media, error)
	Delete(ctx context.Context, id uint64) error
	StorageKeys(ctx context.Context, listingIDs ...string) ([]string, error)
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a media repository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *domain.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) FindByID(ctx context.Context, id uint64) (*domain.Media, error) {
	var media domain.Media
	err := r.db.WithContext(ctx).First(&media, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrMediaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.Media{}, id).Error
}

// StorageKeys object keys of all media of the given listings
func (r *mediaRepository) StorageKeys(ctx context.Context, listingIDs ...string) ([]string, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}
	var keys []string
	err := r.db.WithContext(ctx).Model(&domain.Media{}).
		Where("listing_id IN ?", listingIDs).Pluck("storage_key", &keys).Error
	return keys, err
}
