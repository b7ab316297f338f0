package repository

import (
	"context"
	"errors"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepository listing fee payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	FindByOrderIDForUpdate(ctx context.Context, orderID string) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	ListByListing(ctx context.Context, listingID string) ([]*domain.Payment, error)
	DeleteBySeller(ctx context.Context, sellerID string) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	return r.find(r.db.WithContext(ctx), orderID)
}

// FindByOrderIDForUpdate locks the row where the dialect supports it; call inside a transaction
func (r *paymentRepository) FindByOrderIDForUpdate(ctx context.Context, orderID string) (*domain.Payment, error) {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.find(db, orderID)
}

func (r *paymentRepository) find(db *gorm.DB, orderID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.Where("gateway_order_id = ?", orderID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) ListByListing(ctx context.Context, listingID string) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	err := r.db.WithContext(ctx).Where("listing_id = ?", listingID).
		Order("created_at DESC").Order("id DESC").Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) DeleteBySeller(ctx context.Context, sellerID string) error {
	return r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Delete(&domain.Payment{}).Error
}
