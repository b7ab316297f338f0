package handler

import (
	"net/http"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/middleware"
	"github.com/estatehub/estatehub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ListingHandler handles listing CRUD and search
type ListingHandler struct {
	listingService service.ListingService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// Search handles GET /api/listings
// @Summary Search listings
// @Description Non-admin callers only ever see public listings.
// @Tags listings
// @Produce json
// @Param q query string false "Text over title, description, city, locality"
// @Param city query string false "City substring"
// @Param locality query string false "Locality substring"
// @Param price_min query number false "Minimum price"
// @Param price_max query number false "Maximum price"
// @Param area_min query int false "Minimum area (sqft)"
// @Param area_max query int false "Maximum area (sqft)"
// @Param bedrooms query int false "Exact bedroom count"
// @Param bathrooms query int false "Exact bathroom count"
// @Param property_type query string false "HOUSE, FLAT, LAND, COMMERCIAL"
// @Param listing_type query string false "SALE, RENT"
// @Param status query string false "AVAILABLE, PENDING, SOLD"
// @Param sort query string false "newest, price_asc, price_desc"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} common.APIResponse{data=domain.ListingPage}
// @Failure 400 {object} common.APIResponse
// @Router /listings [get]
func (h *ListingHandler) Search(c *gin.Context) {
	page, err := h.listingService.Search(c.Request.Context(), middleware.GetPrincipal(c), c.Request.URL.Query())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, page)
}

// Mine handles GET /api/listings/mine
// @Summary The caller's own listings in every moderation state
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.ListingPage}
// @Router /listings/mine [get]
func (h *ListingHandler) Mine(c *gin.Context) {
	page, err := h.listingService.Mine(c.Request.Context(), middleware.GetPrincipal(c), c.Request.URL.Query())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, page)
}

// Suggest handles GET /api/listings/suggest
// @Summary Title autocomplete
// @Tags listings
// @Produce json
// @Param prefix query string true "Title prefix"
// @Success 200 {object} common.APIResponse{data=[]string}
// @Router /listings/suggest [get]
func (h *ListingHandler) Suggest(c *gin.Context) {
	suggestions, err := h.listingService.Suggest(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, suggestions)
}

// Get handles GET /api/listings/:id
// @Summary Listing detail
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} common.APIResponse{data=domain.ListingResponse}
// @Failure 404 {object} common.APIResponse
// @Router /listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	listing, err := h.listingService.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, listing.ToResponse())
}

// Create handles POST /api/listings
// @Summary Create a draft listing
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateListingRequest true "Listing"
// @Success 201 {object} common.APIResponse{data=domain.ListingResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Router /listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	var req domain.CreateListingRequest
	if !bindJSON(c, &req) {
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Created(c, listing.ToResponse())
}

// Update handles PATCH /api/listings/:id
// @Summary Edit a listing
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body domain.UpdateListingRequest true "Changed fields"
// @Success 200 {object} common.APIResponse{data=domain.ListingResponse}
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /listings/{id} [patch]
func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	var req domain.UpdateListingRequest
	if !bindJSON(c, &req) {
		return
	}

	listing, err := h.listingService.Update(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, listing.ToResponse())
}

// UpdateStatus handles PATCH /api/listings/:id/status
// @Summary Change lifecycle status
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body domain.UpdateStatusRequest true "New status"
// @Success 200 {object} common.APIResponse{data=domain.ListingResponse}
// @Failure 409 {object} common.APIResponse
// @Router /listings/{id}/status [patch]
func (h *ListingHandler) UpdateStatus(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	var req domain.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	listing, err := h.listingService.UpdateStatus(c.Request.Context(), middleware.GetPrincipal(c), id, req.Status)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, listing.ToResponse())
}

// Delete handles DELETE /api/listings/:id
// @Summary Delete a listing and its media, enquiries and wishlist entries
// @Tags listings
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 204
// @Router /listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	if err := h.listingService.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
