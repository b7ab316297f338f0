package handler

import (
	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/middleware"
	"github.com/estatehub/estatehub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler moderation queue, user directory and dashboard
type AdminHandler struct {
	moderation service.ModerationService
	users      service.UserService
	analytics  service.AnalyticsService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(moderation service.ModerationService, users service.UserService, analytics service.AnalyticsService) *AdminHandler {
	return &AdminHandler{moderation: moderation, users: users, analytics: analytics}
}

// Approve handles PUT /api/admin/listings/:id/approve
// @Summary Publish a listing by approval
// @Description Approving a listing that is already public returns it unchanged.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 200 {object} common.APIResponse{data=domain.ListingResponse}
// @Router /admin/listings/{id}/approve [put]
func (h *AdminHandler) Approve(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	listing, err := h.moderation.Approve(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, listing.ToResponse())
}

// Pending handles GET /api/admin/listings/pending
// @Summary Listings awaiting moderation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.ListingPage}
// @Router /admin/listings/pending [get]
func (h *AdminHandler) Pending(c *gin.Context) {
	page, err := h.moderation.PendingQueue(c.Request.Context(), middleware.GetPrincipal(c), c.Request.URL.Query())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, page)
}

// Users handles GET /api/admin/users
// @Summary User directory
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20)"
// @Success 200 {object} common.APIResponse{data=[]domain.User}
// @Router /admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	page, pageSize := pagination(c)
	users, total, err := h.users.ListUsers(c.Request.Context(), middleware.GetPrincipal(c), page, pageSize)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.SuccessWithMeta(c, users, common.NewMeta(page, pageSize, total))
}

// Analytics handles GET /api/admin/analytics
// @Summary Marketplace dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.DashboardStats}
// @Router /admin/analytics [get]
func (h *AdminHandler) Analytics(c *gin.Context) {
	stats, err := h.analytics.Dashboard(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, stats)
}
