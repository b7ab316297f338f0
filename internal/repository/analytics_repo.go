package repository

import (
	"context"

	"github.com/estatehub/estatehub-backend/internal/domain"
	"gorm.io/gorm"
)

// AnalyticsRepository read-only aggregates for the admin dashboard
type AnalyticsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountListings(ctx context.Context) (total, published int64, err error)
	CountEnquiries(ctx context.Context) (int64, error)
	TopCities(ctx context.Context, limit int) ([]domain.CityCount, error)
	PaymentsByStatus(ctx context.Context) ([]domain.StatusCount, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates an analytics repository
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}

func (r *analyticsRepository) CountListings(ctx context.Context) (int64, int64, error) {
	var total, published int64
	if err := r.db.WithContext(ctx).Model(&domain.Listing{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := r.db.WithContext(ctx).Model(&domain.Listing{}).
		Where("moderation = ?", domain.ModerationPublished).Count(&published).Error
	return total, published, err
}

func (r *analyticsRepository) CountEnquiries(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Enquiry{}).Count(&n).Error
	return n, err
}

// TopCities by listing count, ties broken by city name
func (r *analyticsRepository) TopCities(ctx context.Context, limit int) ([]domain.CityCount, error) {
	rows := []domain.CityCount{}
	err := r.db.WithContext(ctx).Model(&domain.Listing{}).
		Select("city, COUNT(*) AS count").
		Group("city").
		Order("count DESC").Order("city ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) PaymentsByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	rows := []domain.StatusCount{}
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	return rows, err
}
