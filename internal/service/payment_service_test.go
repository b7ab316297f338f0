package service

import (
	"context"
	"errors"
	"testing"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/events"
	"github.com/estatehub/estatehub-backend/internal/gateway"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testFee = ListingFee{Amount: 499, Currency: "INR"}

func reloadListing(t *testing.T, f *ledgerFixture, id string) *domain.Listing {
	t.Helper()
	l, err := repository.NewListingRepository(f.db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return l
}

func TestInitiatePayment(t *testing.T) {
	f := newLedgerFixture(t)
	gw := &mockGateway{}
	gw.On("CreateOrder", 499.0, "INR", f.draft.ID).
		Return(&gateway.Order{ID: "order_1", Amount: 49900, Currency: "INR", Raw: []byte(`{"id":"order_1"}`)}, nil).Once()
	svc := NewPaymentService(f.db, gw, testFee, f.publisher, nil)

	checkout, err := svc.Initiate(f.ctx, f.seller, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_1", checkout.OrderID)
	assert.Equal(t, "rzp_test_key", checkout.KeyID)
	assert.Equal(t, 499.0, checkout.Amount)

	assert.Equal(t, domain.ModerationPendingPayment, reloadListing(t, f, f.draft.ID).Moderation)
	payment, err := repository.NewPaymentRepository(f.db).FindByOrderID(f.ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.Equal(t, f.seller.UserID, payment.SellerID)
	gw.AssertExpectations(t)
}

func TestInitiatePaymentRules(t *testing.T) {
	f := newLedgerFixture(t)
	gw := &mockGateway{}
	svc := NewPaymentService(f.db, gw, testFee, nil, nil)

	_, err := svc.Initiate(f.ctx, f.seller, f.public.ID)
	assert.ErrorIs(t, err, common.ErrAlreadyPublished)

	_, err = svc.Initiate(f.ctx, f.buyer, f.draft.ID)
	assert.ErrorIs(t, err, common.ErrListingNotFound)

	_, err = NewPaymentService(f.db, nil, testFee, nil, nil).Initiate(f.ctx, f.seller, f.draft.ID)
	assert.ErrorIs(t, err, common.ErrGatewayUnavailable)

	gw.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiatePaymentGatewayFailureWritesNothing(t *testing.T) {
	f := newLedgerFixture(t)
	gw := &mockGateway{}
	gw.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	svc := NewPaymentService(f.db, gw, testFee, nil, nil)

	_, err := svc.Initiate(f.ctx, f.seller, f.draft.ID)
	assert.ErrorIs(t, err, common.ErrGatewayUnavailable)

	var n int64
	require.NoError(t, f.db.Model(&domain.Payment{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Equal(t, domain.ModerationDraft, reloadListing(t, f, f.draft.ID).Moderation)
}

func TestConfirmPaymentFailThenRetry(t *testing.T) {
	f := newLedgerFixture(t)
	gw := &mockGateway{}
	gw.On("CreateOrder", 499.0, "INR", f.draft.ID).Return(&gateway.Order{ID: "order_1"}, nil).Once()
	gw.On("CreateOrder", 499.0, "INR", f.draft.ID).Return(&gateway.Order{ID: "order_2"}, nil).Once()
	gw.On("VerifySignature", "order_1", "pay_1", "forged").Return(false)
	gw.On("VerifySignature", "order_2", "pay_2", "good").Return(true)
	svc := NewPaymentService(f.db, gw, testFee, f.publisher, nil)

	_, err := svc.Initiate(f.ctx, f.seller, f.draft.ID)
	require.NoError(t, err)

	failed, err := svc.Confirm(f.ctx, &domain.ConfirmPaymentRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: "forged"})
	assert.ErrorIs(t, err, common.ErrPaymentVerification)
	require.NotNil(t, failed)
	assert.Equal(t, domain.PaymentFailed, failed.Status)
	assert.Equal(t, domain.ModerationDraft, reloadListing(t, f, f.draft.ID).Moderation)
	assert.Equal(t, []string{events.TopicPaymentFailed}, f.publisher.topics())

	// a settled order cannot be replayed
	_, err = svc.Confirm(f.ctx, &domain.ConfirmPaymentRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: "forged"})
	assert.ErrorIs(t, err, common.ErrPaymentNotPending)

	_, err = svc.Initiate(f.ctx, f.seller, f.draft.ID)
	require.NoError(t, err)
	ok, err := svc.Confirm(f.ctx, &domain.ConfirmPaymentRequest{OrderID: "order_2", PaymentID: "pay_2", Signature: "good"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSuccess, ok.Status)
	assert.Equal(t, "pay_2", ok.GatewayPaymentID)

	l := reloadListing(t, f, f.draft.ID)
	assert.True(t, l.IsPublic())
	require.NotNil(t, l.PublishedVia)
	assert.Equal(t, domain.PublishedViaPayment, *l.PublishedVia)
	assert.Equal(t, []string{events.TopicPaymentFailed, events.TopicListingPublished}, f.publisher.topics())

	_, err = svc.Confirm(f.ctx, &domain.ConfirmPaymentRequest{OrderID: "order_2", PaymentID: "pay_2", Signature: "good"})
	assert.ErrorIs(t, err, common.ErrPaymentNotPending)

	_, err = svc.Confirm(f.ctx, &domain.ConfirmPaymentRequest{OrderID: "order_9", PaymentID: "p", Signature: "s"})
	assert.ErrorIs(t, err, common.ErrPaymentNotFound)
}

func TestConfirmWithoutGatewayLeavesOrderPending(t *testing.T) {
	f := newLedgerFixture(t)
	gw := &mockGateway{}
	gw.On("CreateOrder", 499.0, "INR", f.draft.ID).Return(&gateway.Order{ID: "order_p"}, nil).Once()
	_, err := NewPaymentService(f.db, gw, testFee, nil, nil).Initiate(f.ctx, f.seller, f.draft.ID)
	require.NoError(t, err)

	// keys lost between checkout and callback
	unconfigured := NewPaymentService(f.db, nil, testFee, f.publisher, nil)
	payment, err := unconfigured.Confirm(f.ctx, &domain.ConfirmPaymentRequest{OrderID: "order_p", PaymentID: "pay_p", Signature: "sig"})
	assert.ErrorIs(t, err, common.ErrGatewayUnavailable)
	assert.Nil(t, payment)

	stored, err := repository.NewPaymentRepository(f.db).FindByOrderID(f.ctx, "order_p")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, stored.Status)
	assert.Empty(t, stored.GatewayPaymentID)
	assert.Equal(t, domain.ModerationPendingPayment, reloadListing(t, f, f.draft.ID).Moderation)
	assert.Empty(t, f.publisher.topics())
}

func TestFailedPaymentKeepsPendingWhileAnotherOrderIsOpen(t *testing.T) {
	f := newLedgerFixture(t)
	gw := &mockGateway{}
	gw.On("CreateOrder", 499.0, "INR", f.draft.ID).Return(&gateway.Order{ID: "order_a"}, nil).Once()
	gw.On("CreateOrder", 499.0, "INR", f.draft.ID).Return(&gateway.Order{ID: "order_b"}, nil).Once()
	gw.On("VerifySignature", "order_a", "pay_a", "bad").Return(false)
	svc := NewPaymentService(f.db, gw, testFee, nil, nil)

	_, err := svc.Initiate(f.ctx, f.seller, f.draft.ID)
	require.NoError(t, err)
	_, err = svc.Initiate(f.ctx, f.seller, f.draft.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(f.ctx, &domain.ConfirmPaymentRequest{OrderID: "order_a", PaymentID: "pay_a", Signature: "bad"})
	assert.ErrorIs(t, err, common.ErrPaymentVerification)
	assert.Equal(t, domain.ModerationPendingPayment, reloadListing(t, f, f.draft.ID).Moderation)
}

func TestPaymentAfterApprovalKeepsApproval(t *testing.T) {
	f := newLedgerFixture(t)
	gw := &mockGateway{}
	gw.On("CreateOrder", 499.0, "INR", f.draft.ID).Return(&gateway.Order{ID: "order_x"}, nil).Once()
	gw.On("VerifySignature", "order_x", "pay_x", "good").Return(true)
	svc := NewPaymentService(f.db, gw, testFee, f.publisher, nil)

	_, err := svc.Initiate(f.ctx, f.seller, f.draft.ID)
	require.NoError(t, err)
	_, err = NewModerationService(f.db, nil, nil).Approve(f.ctx, f.admin, f.draft.ID)
	require.NoError(t, err)

	payment, err := svc.Confirm(f.ctx, &domain.ConfirmPaymentRequest{OrderID: "order_x", PaymentID: "pay_x", Signature: "good"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSuccess, payment.Status)

	l := reloadListing(t, f, f.draft.ID)
	require.NotNil(t, l.PublishedVia)
	assert.Equal(t, domain.PublishedViaApproval, *l.PublishedVia)
	assert.Empty(t, f.publisher.topics())
}
