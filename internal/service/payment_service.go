package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/events"
	"github.com/estatehub/estatehub-backend/internal/gateway"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"github.com/estatehub/estatehub-backend/internal/search"
	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListingFee what a seller pays to publish without approval
type ListingFee struct {
	Amount   float64
	Currency string
}

// PaymentService pay-to-publish flow
type PaymentService interface {
	Initiate(ctx context.Context, p domain.Principal, listingID string) (*domain.CheckoutResponse, error)
	Confirm(ctx context.Context, req *domain.ConfirmPaymentRequest) (*domain.Payment, error)
}

type paymentService struct {
	db          *gorm.DB
	listingRepo repository.ListingRepository
	paymentRepo repository.PaymentRepository
	gateway     gateway.PaymentGateway
	fee         ListingFee
	now         func() time.Time
	notifier
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(db *gorm.DB, gw gateway.PaymentGateway, fee ListingFee, publisher events.Publisher, indexer search.Indexer) PaymentService {
	return &paymentService{
		db:          db,
		listingRepo: repository.NewListingRepository(db),
		paymentRepo: repository.NewPaymentRepository(db),
		gateway:     gw,
		fee:         fee,
		now:         time.Now,
		notifier:    newNotifier(publisher, indexer),
	}
}

// Initiate creates a gateway order for a non-public listing owned by the caller.
// Nothing is written when the gateway call fails.
func (s *paymentService) Initiate(ctx context.Context, p domain.Principal, listingID string) (*domain.CheckoutResponse, error) {
	listing, err := loadOwned(ctx, s.listingRepo, p, listingID)
	if err != nil {
		return nil, err
	}
	if listing.IsPublic() {
		return nil, common.ErrAlreadyPublished
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("payment gateway not configured: %w", common.ErrGatewayUnavailable)
	}

	order, err := s.gateway.CreateOrder(ctx, s.fee.Amount, s.fee.Currency, listing.ID)
	if err != nil {
		if !errors.Is(err, common.ErrGatewayUnavailable) {
			err = fmt.Errorf("%v: %w", err, common.ErrGatewayUnavailable)
		}
		pkglogger.FromContext(ctx).Warn().Err(err).Str("listing_id", listing.ID).Msg("create order failed")
		return nil, err
	}

	payment := &domain.Payment{
		SellerID:       p.UserID,
		ListingID:      listing.ID,
		Amount:         s.fee.Amount,
		Currency:       s.fee.Currency,
		GatewayOrderID: order.ID,
		Status:         domain.PaymentPending,
	}
	if len(order.Raw) > 0 {
		payment.GatewayOrder = datatypes.JSON(order.Raw)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewPaymentRepository(tx).Create(ctx, payment); err != nil {
			return err
		}
		listing.Moderation = domain.ModerationPendingPayment
		return repository.NewListingRepository(tx).UpdateModeration(ctx, listing)
	})
	if err != nil {
		return nil, err
	}
	paymentsTotal.WithLabelValues(string(domain.PaymentPending)).Inc()

	return &domain.CheckoutResponse{
		PaymentID: payment.ID,
		OrderID:   payment.GatewayOrderID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		KeyID:     s.gateway.KeyID(),
		ListingID: listing.ID,
	}, nil
}

// Confirm settles a PENDING order. A valid signature publishes the listing; an
// invalid one fails the order, returns the listing to draft unless another order
// is still pending, and reports common.ErrPaymentVerification. Without a gateway
// nothing is written.
func (s *paymentService) Confirm(ctx context.Context, req *domain.ConfirmPaymentRequest) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if payment.IsTerminal() {
		return nil, common.ErrPaymentNotPending
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("payment gateway not configured: %w", common.ErrGatewayUnavailable)
	}

	valid := s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature)

	var (
		listing   *domain.Listing
		published bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := repository.NewPaymentRepository(tx)
		listings := repository.NewListingRepository(tx)

		locked, err := payments.FindByOrderIDForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if locked.IsTerminal() {
			return common.ErrPaymentNotPending
		}
		payment = locked
		payment.GatewayPaymentID = req.PaymentID

		if listing, err = listings.FindByID(ctx, payment.ListingID); err != nil {
			return err
		}

		if !valid {
			payment.Status = domain.PaymentFailed
			if err := payments.Update(ctx, payment); err != nil {
				return err
			}
			return s.revertToDraft(ctx, payments, listings, listing)
		}

		payment.Status = domain.PaymentSuccess
		payment.Signature = req.Signature
		if err := payments.Update(ctx, payment); err != nil {
			return err
		}
		if published = listing.Publish(domain.PublishedViaPayment, s.now()); published {
			return listings.UpdateModeration(ctx, listing)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	paymentsTotal.WithLabelValues(string(payment.Status)).Inc()

	if !valid {
		pkglogger.FromContext(ctx).Warn().
			Str("order_id", payment.GatewayOrderID).
			Str("listing_id", payment.ListingID).
			Msg("payment signature verification failed")
		s.publish(ctx, events.TopicPaymentFailed, payment.GatewayOrderID, events.PaymentFailed{
			PaymentID: payment.ID,
			OrderID:   payment.GatewayOrderID,
			ListingID: payment.ListingID,
			SellerID:  payment.SellerID,
		})
		return payment, common.ErrPaymentVerification
	}

	if published {
		s.published(ctx, listing)
	}
	return payment, nil
}

func (s *paymentService) revertToDraft(ctx context.Context, payments repository.PaymentRepository, listings repository.ListingRepository, listing *domain.Listing) error {
	if listing.Moderation != domain.ModerationPendingPayment {
		return nil
	}
	others, err := payments.ListByListing(ctx, listing.ID)
	if err != nil {
		return err
	}
	for _, other := range others {
		if other.Status == domain.PaymentPending {
			return nil
		}
	}
	listing.Moderation = domain.ModerationDraft
	return listings.UpdateModeration(ctx, listing)
}
