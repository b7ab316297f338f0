package service

import (
	"context"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"github.com/estatehub/estatehub-backend/pkg/cache"
	"gorm.io/gorm"
)

const dashboardCacheKey = cache.PrefixAnalytics + "dashboard"

// AnalyticsService admin dashboard aggregates
type AnalyticsService interface {
	Dashboard(ctx context.Context, p domain.Principal) (*domain.DashboardStats, error)
}

type analyticsService struct {
	repo  repository.AnalyticsRepository
	cache cache.Service
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(db *gorm.DB, c cache.Service) AnalyticsService {
	if c == nil {
		c = cache.NewService(nil)
	}
	return &analyticsService{
		repo:  repository.NewAnalyticsRepository(db),
		cache: c,
	}
}

// Dashboard read-only; results may be up to cache.TTLAnalytics old
func (s *analyticsService) Dashboard(ctx context.Context, p domain.Principal) (*domain.DashboardStats, error) {
	if !domain.CanViewAnalytics(p) {
		return nil, common.ErrForbidden
	}

	var stats domain.DashboardStats
	err := s.cache.Remember(ctx, dashboardCacheKey, cache.TTLAnalytics, &stats, func() (interface{}, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *analyticsService) compute(ctx context.Context) (*domain.DashboardStats, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	total, published, err := s.repo.CountListings(ctx)
	if err != nil {
		return nil, err
	}
	enquiries, err := s.repo.CountEnquiries(ctx)
	if err != nil {
		return nil, err
	}
	cities, err := s.repo.TopCities(ctx, domain.TopCitiesLimit)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.PaymentsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardStats{
		TotalUsers:       users,
		TotalListings:    total,
		ApprovedListings: published,
		PendingListings:  total - published,
		TotalEnquiries:   enquiries,
		ListingsByCity:   cities,
		PaymentsByStatus: payments,
	}, nil
}
