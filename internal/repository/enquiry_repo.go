package repository

import (
	"context"
	"errors"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"gorm.io/gorm"
)

// EnquiryRepository enquiry ledger
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *domain.Enquiry) error
	FindByID(ctx context.Context, id uint64) (*domain.Enquiry, error)
	MarkRead(ctx context.Context, id uint64) error
	ListForOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*domain.Enquiry, int64, error)
	ListByBuyer(ctx context.Context, buyerID string, page, pageSize int) ([]*domain.Enquiry, int64, error)
	DeleteByBuyer(ctx context.Context, buyerID string) error
}

type enquiryRepository struct {
	db *gorm.DB
}

// NewEnquiryRepository creates an enquiry repository
func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &enquiryRepository{db: db}
}

func (r *enquiryRepository) Create(ctx context.Context, enquiry *domain.Enquiry) error {
	return r.db.WithContext(ctx).Create(enquiry).Error
}

func (r *enquiryRepository) FindByID(ctx context.Context, id uint64) (*domain.Enquiry, error) {
	var enquiry domain.Enquiry
	err := r.db.WithContext(ctx).Preload("Listing").Preload("Buyer").First(&enquiry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrEnquiryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// MarkRead touches only is_read; the message is immutable
func (r *enquiryRepository) MarkRead(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(&domain.Enquiry{}).
		Where("id = ?", id).UpdateColumn("is_read", true).Error
}

// ListForOwner enquiries on listings owned by ownerID, newest first
func (r *enquiryRepository) ListForOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*domain.Enquiry, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Enquiry{}).
		Joins("JOIN listings ON listings.id = enquiries.listing_id").
		Where("listings.owner_id = ?", ownerID)
	return r.page(query, page, pageSize)
}

// ListByBuyer enquiries sent by buyerID, newest first
func (r *enquiryRepository) ListByBuyer(ctx context.Context, buyerID string, page, pageSize int) ([]*domain.Enquiry, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Enquiry{}).
		Where("enquiries.buyer_id = ?", buyerID)
	return r.page(query, page, pageSize)
}

func (r *enquiryRepository) DeleteByBuyer(ctx context.Context, buyerID string) error {
	return r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).Delete(&domain.Enquiry{}).Error
}

func (r *enquiryRepository) page(query *gorm.DB, page, pageSize int) ([]*domain.Enquiry, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var enquiries []*domain.Enquiry
	err := query.Preload("Listing").Preload("Buyer").
		Order("enquiries.created_at DESC").Order("enquiries.id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&enquiries).Error
	return enquiries, total, err
}
