package handler

import (
	"net/http"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/middleware"
	"github.com/estatehub/estatehub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// WishlistHandler handles saved listings
type WishlistHandler struct {
	wishlistService service.WishlistService
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// List handles GET /api/wishlist
// @Summary Saved listings, newest first
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=[]domain.WishlistItemResponse}
// @Router /wishlist [get]
func (h *WishlistHandler) List(c *gin.Context) {
	entries, err := h.wishlistService.List(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	items := make([]*domain.WishlistItemResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.ToResponse())
	}
	common.Success(c, items)
}

// Add handles POST /api/wishlist/:id
// Adding a saved listing again returns 200 instead of 201.
// @Summary Save a listing
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 201 {object} common.APIResponse
// @Success 200 {object} common.APIResponse
// @Router /wishlist/{id} [post]
func (h *WishlistHandler) Add(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	created, err := h.wishlistService.Add(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, common.APIResponse{Success: true, Data: gin.H{"listing_id": id, "created": created}})
}

// Remove handles DELETE /api/wishlist/:id
// @Summary Unsave a listing
// @Tags wishlist
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 204
// @Router /wishlist/{id} [delete]
func (h *WishlistHandler) Remove(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
