package service

import (
	"context"
	"io"
	"path"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/repository"
	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
	"github.com/estatehub/estatehub-backend/pkg/storage"
	"gorm.io/gorm"
)

// MediaUpload one incoming file
type MediaUpload struct {
	MediaType   string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaService listing images and videos
type MediaService interface {
	Upload(ctx context.Context, p domain.Principal, listingID string, upload *MediaUpload) (*domain.Media, error)
	Delete(ctx context.Context, p domain.Principal, listingID string, mediaID uint64) error
}

type mediaService struct {
	listingRepo repository.ListingRepository
	mediaRepo   repository.MediaRepository
	store       storage.Storage
	rules       domain.MediaRules
}

// NewMediaService creates a new MediaService
func NewMediaService(db *gorm.DB, store storage.Storage, rules domain.MediaRules) MediaService {
	return &mediaService{
		listingRepo: repository.NewListingRepository(db),
		mediaRepo:   repository.NewMediaRepository(db),
		store:       store,
		rules:       rules,
	}
}

// Upload validates the file against the type's rule, stores it, then records it
func (s *mediaService) Upload(ctx context.Context, p domain.Principal, listingID string, upload *MediaUpload) (*domain.Media, error) {
	listing, err := loadOwned(ctx, s.listingRepo, p, listingID)
	if err != nil {
		return nil, err
	}

	mediaType, ok := domain.ParseMediaType(upload.MediaType)
	if !ok {
		return nil, common.NewValidationError("media_type", "must be IMAGE or VIDEO")
	}
	if field, msg, ok := s.rules.Check(mediaType, upload.Filename, upload.Size); !ok {
		return nil, common.NewValidationError(field, msg)
	}

	key := storage.GenerateKey(path.Join("listings", listing.ID), upload.Filename)
	result, err := s.store.Upload(ctx, key, upload.Body, upload.ContentType, upload.Size)
	if err != nil {
		return nil, err
	}

	media := &domain.Media{
		ListingID:   listing.ID,
		MediaType:   mediaType,
		StorageKey:  result.Key,
		URL:         result.URL,
		ContentType: result.ContentType,
		Size:        result.Size,
	}
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		removeObjects(ctx, s.store, []string{result.Key})
		return nil, err
	}

	pkglogger.FromContext(ctx).Info().
		Str("listing_id", listing.ID).
		Uint64("media_id", media.ID).
		Int64("size", media.Size).
		Msg("media uploaded")
	return media, nil
}

// Delete removes one media item of an owned listing
func (s *mediaService) Delete(ctx context.Context, p domain.Principal, listingID string, mediaID uint64) error {
	listing, err := loadOwned(ctx, s.listingRepo, p, listingID)
	if err != nil {
		return err
	}

	media, err := s.mediaRepo.FindByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if media.ListingID != listing.ID {
		return common.ErrMediaNotFound
	}

	if err := s.mediaRepo.Delete(ctx, media.ID); err != nil {
		return err
	}
	removeObjects(ctx, s.store, []string{media.StorageKey})
	return nil
}
