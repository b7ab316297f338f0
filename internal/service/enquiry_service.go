package service

import (
	"context"
	"strings"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/events"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"gorm.io/gorm"
)

// EnquiryService buyer-to-seller messages
type EnquiryService interface {
	Create(ctx context.Context, p domain.Principal, req *domain.CreateEnquiryRequest) (*domain.Enquiry, error)
	SellerInbox(ctx context.Context, p domain.Principal, page, pageSize int) ([]*domain.Enquiry, int64, error)
	MyEnquiries(ctx context.Context, p domain.Principal, page, pageSize int) ([]*domain.Enquiry, int64, error)
	MarkRead(ctx context.Context, p domain.Principal, id uint64) (*domain.Enquiry, error)
}

type enquiryService struct {
	listingRepo repository.ListingRepository
	enquiryRepo repository.EnquiryRepository
	notifier
}

// NewEnquiryService creates a new EnquiryService
func NewEnquiryService(db *gorm.DB, publisher events.Publisher) EnquiryService {
	return &enquiryService{
		listingRepo: repository.NewListingRepository(db),
		enquiryRepo: repository.NewEnquiryRepository(db),
		notifier:    newNotifier(publisher, nil),
	}
}

// Create records an enquiry on a public listing and notifies the owner
func (s *enquiryService) Create(ctx context.Context, p domain.Principal, req *domain.CreateEnquiryRequest) (*domain.Enquiry, error) {
	if !domain.CanEnquire(p) {
		return nil, common.ErrForbidden
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, common.NewValidationError("message", "must not be empty")
	}

	listing, err := s.listingRepo.FindByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsPublic() {
		return nil, common.ErrListingNotFound
	}

	enquiry := &domain.Enquiry{
		BuyerID:   p.UserID,
		ListingID: listing.ID,
		Message:   message,
	}
	if err := s.enquiryRepo.Create(ctx, enquiry); err != nil {
		return nil, err
	}
	enquiry.Listing = listing
	enquiriesTotal.Inc()

	s.publish(ctx, events.TopicEnquiryCreated, listing.ID, events.EnquiryCreated{
		EnquiryID: enquiry.ID,
		ListingID: listing.ID,
		OwnerID:   listing.OwnerID,
		BuyerID:   p.UserID,
		Message:   message,
	})
	return enquiry, nil
}

// SellerInbox enquiries on the caller's listings
func (s *enquiryService) SellerInbox(ctx context.Context, p domain.Principal, page, pageSize int) ([]*domain.Enquiry, int64, error) {
	if !p.IsAuthenticated() {
		return nil, 0, common.ErrUnauthorized
	}
	return s.enquiryRepo.ListForOwner(ctx, p.UserID, page, pageSize)
}

// MyEnquiries enquiries the caller sent
func (s *enquiryService) MyEnquiries(ctx context.Context, p domain.Principal, page, pageSize int) ([]*domain.Enquiry, int64, error) {
	if !p.IsAuthenticated() {
		return nil, 0, common.ErrUnauthorized
	}
	return s.enquiryRepo.ListByBuyer(ctx, p.UserID, page, pageSize)
}

// MarkRead only the owner of the enquired listing may flip the read flag
func (s *enquiryService) MarkRead(ctx context.Context, p domain.Principal, id uint64) (*domain.Enquiry, error) {
	enquiry, err := s.enquiryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanManageListing(p, enquiry.Listing) {
		if enquiry.BuyerID == p.UserID {
			return nil, common.ErrForbidden
		}
		return nil, common.ErrEnquiryNotFound
	}
	if enquiry.IsRead {
		return enquiry, nil
	}
	if err := s.enquiryRepo.MarkRead(ctx, enquiry.ID); err != nil {
		return nil, err
	}
	enquiry.IsRead = true
	return enquiry, nil
}
