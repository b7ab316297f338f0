package service

import (
	"context"
	"strings"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/events"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"github.com/estatehub/estatehub-backend/internal/search"
	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
	"github.com/estatehub/estatehub-backend/pkg/storage"
	"gorm.io/gorm"
)

// UserService profile management and account removal
type UserService interface {
	Profile(ctx context.Context, p domain.Principal) (*domain.User, error)
	UpdateProfile(ctx context.Context, p domain.Principal, req *domain.UpdateProfileRequest) (*domain.User, error)
	DeleteAccount(ctx context.Context, p domain.Principal) error
	ListUsers(ctx context.Context, p domain.Principal, page, pageSize int) ([]*domain.User, int64, error)
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	store    storage.Storage
	notifier
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, store storage.Storage, publisher events.Publisher, indexer search.Indexer) UserService {
	return &userService{
		db:       db,
		userRepo: repository.NewUserRepository(db),
		store:    store,
		notifier: newNotifier(publisher, indexer),
	}
}

func (s *userService) Profile(ctx context.Context, p domain.Principal) (*domain.User, error) {
	if !p.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}
	return s.userRepo.FindByID(ctx, p.UserID)
}

func (s *userService) UpdateProfile(ctx context.Context, p domain.Principal, req *domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the account with every listing it owns (and their media,
// enquiries, wishlist entries and payments) plus its own enquiries, wishlist and payments
func (s *userService) DeleteAccount(ctx context.Context, p domain.Principal) error {
	if !p.IsAuthenticated() {
		return common.ErrUnauthorized
	}
	if _, err := s.userRepo.FindByID(ctx, p.UserID); err != nil {
		return err
	}

	var (
		listingIDs []string
		keys       []string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listings := repository.NewListingRepository(tx)

		var err error
		if listingIDs, err = listings.ListIDsByOwner(ctx, p.UserID); err != nil {
			return err
		}
		if keys, err = repository.NewMediaRepository(tx).StorageKeys(ctx, listingIDs...); err != nil {
			return err
		}
		if err := listings.DeleteCascade(ctx, listingIDs...); err != nil {
			return err
		}
		if err := repository.NewEnquiryRepository(tx).DeleteByBuyer(ctx, p.UserID); err != nil {
			return err
		}
		if err := repository.NewWishlistRepository(tx).DeleteByBuyer(ctx, p.UserID); err != nil {
			return err
		}
		if err := repository.NewPaymentRepository(tx).DeleteBySeller(ctx, p.UserID); err != nil {
			return err
		}
		return repository.NewUserRepository(tx).Delete(ctx, p.UserID)
	})
	if err != nil {
		return err
	}

	removeObjects(ctx, s.store, keys)
	for _, id := range listingIDs {
		s.unindex(ctx, id)
		s.publish(ctx, events.TopicListingDeleted, id, events.ListingDeleted{ListingID: id, OwnerID: p.UserID})
	}

	pkglogger.FromContext(ctx).Info().
		Str("user_id", p.UserID).
		Int("listings", len(listingIDs)).
		Msg("account deleted")
	return nil
}

// ListUsers admin user directory
func (s *userService) ListUsers(ctx context.Context, p domain.Principal, page, pageSize int) ([]*domain.User, int64, error) {
	if !p.IsAdmin() {
		return nil, 0, common.ErrForbidden
	}
	return s.userRepo.List(ctx, page, pageSize)
}

// removeObjects deletes stored files after the rows are gone; failures only leave orphans
func removeObjects(ctx context.Context, store storage.Storage, keys []string) {
	if store == nil {
		return
	}
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			pkglogger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("stored object delete failed")
		}
	}
}
