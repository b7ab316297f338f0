package migration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Models every table owned by the service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Listing{},
		&domain.Media{},
		&domain.Enquiry{},
		&domain.WishlistEntry{},
		&domain.Payment{},
	}
}

// Run executes AutoMigrate for all tables, then fills folded search columns
// on rows written before they existed. Safe to run repeatedly.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := backfillListingFolds(db); err != nil {
		return fmt.Errorf("backfill listing search columns: %w", err)
	}
	return nil
}

func backfillListingFolds(db *gorm.DB) error {
	var batch []*domain.Listing
	writer := db.Session(&gorm.Session{NewDB: true})
	return db.Select("id", "title", "description", "city", "locality").
		Where("city_fold IS NULL OR city_fold = ''").
		FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
			for _, l := range batch {
				l.Fold()
				err := writer.Model(&domain.Listing{}).Where("id = ?", l.ID).UpdateColumns(map[string]interface{}{
					"search_text":   l.SearchText,
					"city_fold":     l.CityFold,
					"locality_fold": l.LocalityFold,
				}).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
}

// SeedAdmin creates an ADMIN account unless the email is already taken.
// Returns false when the account existed.
func SeedAdmin(ctx context.Context, db *gorm.DB, email, password, fullName string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return false, common.NewValidationError("password", "admin email and a password of at least 8 characters are required")
	}

	users := repository.NewUserRepository(db)
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, common.ErrUserNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	admin := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
