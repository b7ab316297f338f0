package handler

import (
	"net/http"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/middleware"
	"github.com/estatehub/estatehub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// MediaHandler handles listing photo and video uploads
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload handles POST /api/listings/:id/media
// @Summary Attach a photo or video
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param file formData file true "Media file"
// @Param media_type formData string true "IMAGE or VIDEO"
// @Success 201 {object} common.APIResponse{data=domain.Media}
// @Failure 400 {object} common.APIResponse
// @Router /listings/{id}/media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.AbortWithError(c, common.NewValidationError("file", "is required"))
		return
	}
	body, err := file.Open()
	if err != nil {
		common.AbortWithError(c, common.NewValidationError("file", "could not be read"))
		return
	}
	defer body.Close()

	media, err := h.mediaService.Upload(c.Request.Context(), middleware.GetPrincipal(c), id, &service.MediaUpload{
		MediaType:   c.PostForm("media_type"),
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        body,
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Created(c, media)
}

// Delete handles DELETE /api/listings/:id/media/:media_id
// @Summary Remove a media item
// @Tags media
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param media_id path int true "Media ID"
// @Success 204
// @Router /listings/{id}/media/{media_id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	mediaID, ok := paramUint64(c, "media_id", common.ErrMediaNotFound)
	if !ok {
		return
	}

	if err := h.mediaService.Delete(c.Request.Context(), middleware.GetPrincipal(c), id, mediaID); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
