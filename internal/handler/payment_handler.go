package handler

import (
	"errors"
	"net/http"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/middleware"
	"github.com/estatehub/estatehub-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// PaymentHandler handles the pay-to-publish checkout
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Initiate handles POST /api/listings/:id/payments
// @Summary Create a gateway order for the listing fee
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 201 {object} common.APIResponse{data=domain.CheckoutResponse}
// @Failure 409 {object} common.APIResponse
// @Failure 503 {object} common.APIResponse
// @Router /listings/{id}/payments [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	checkout, err := h.paymentService.Initiate(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Created(c, checkout)
}

// Confirm handles POST /api/payments/confirm
// Accepts a JSON body or the gateway's form post (razorpay_order_id, razorpay_payment_id, razorpay_signature).
// @Summary Confirm a checkout
// @Tags payments
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body domain.ConfirmPaymentRequest true "Gateway callback"
// @Success 200 {object} common.APIResponse{data=domain.Payment}
// @Failure 402 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /payments/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req domain.ConfirmPaymentRequest
	if err := c.ShouldBindWith(&req, binding.Default(c.Request.Method, c.ContentType())); err != nil {
		common.AbortWithError(c, common.FromBindError(err))
		return
	}

	payment, err := h.paymentService.Confirm(c.Request.Context(), &req)
	if errors.Is(err, common.ErrPaymentVerification) && payment != nil {
		c.JSON(http.StatusPaymentRequired, common.APIResponse{
			Success: false,
			Data:    payment,
			Error:   &common.ErrorInfo{Code: "PAYMENT_VERIFICATION_FAILED", Message: err.Error()},
		})
		return
	}
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, payment)
}
