package handler

import (
	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/middleware"
	"github.com/estatehub/estatehub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// EnquiryHandler handles buyer enquiries and the seller inbox
type EnquiryHandler struct {
	enquiryService service.EnquiryService
}

// NewEnquiryHandler creates a new EnquiryHandler
func NewEnquiryHandler(enquiryService service.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiryService: enquiryService}
}

// Create handles POST /api/enquiries
// @Summary Send an enquiry about a public listing
// @Tags enquiries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateEnquiryRequest true "Enquiry"
// @Success 201 {object} common.APIResponse{data=domain.EnquiryResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /enquiries [post]
func (h *EnquiryHandler) Create(c *gin.Context) {
	var req domain.CreateEnquiryRequest
	if !bindJSON(c, &req) {
		return
	}

	enquiry, err := h.enquiryService.Create(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Created(c, enquiry.ToResponse())
}

// SellerInbox handles GET /api/enquiries/seller
// @Summary Enquiries on the caller's listings, newest first
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20)"
// @Success 200 {object} common.APIResponse{data=[]domain.EnquiryResponse}
// @Router /enquiries/seller [get]
func (h *EnquiryHandler) SellerInbox(c *gin.Context) {
	page, pageSize := pagination(c)
	enquiries, total, err := h.enquiryService.SellerInbox(c.Request.Context(), middleware.GetPrincipal(c), page, pageSize)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.SuccessWithMeta(c, enquiryResponses(enquiries), common.NewMeta(page, pageSize, total))
}

// Mine handles GET /api/enquiries/mine
// @Summary Enquiries the caller sent
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20)"
// @Success 200 {object} common.APIResponse{data=[]domain.EnquiryResponse}
// @Router /enquiries/mine [get]
func (h *EnquiryHandler) Mine(c *gin.Context) {
	page, pageSize := pagination(c)
	enquiries, total, err := h.enquiryService.MyEnquiries(c.Request.Context(), middleware.GetPrincipal(c), page, pageSize)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.SuccessWithMeta(c, enquiryResponses(enquiries), common.NewMeta(page, pageSize, total))
}

// MarkRead handles PATCH /api/enquiries/:id/read
// @Summary Mark an enquiry read
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enquiry ID"
// @Success 200 {object} common.APIResponse{data=domain.EnquiryResponse}
// @Failure 403 {object} common.APIResponse
// @Router /enquiries/{id}/read [patch]
func (h *EnquiryHandler) MarkRead(c *gin.Context) {
	id, ok := paramUint64(c, "id", common.ErrEnquiryNotFound)
	if !ok {
		return
	}

	enquiry, err := h.enquiryService.MarkRead(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, enquiry.ToResponse())
}

func enquiryResponses(enquiries []*domain.Enquiry) []*domain.EnquiryResponse {
	out := make([]*domain.EnquiryResponse, 0, len(enquiries))
	for _, e := range enquiries {
		out = append(out, e.ToResponse())
	}
	return out
}
