package handler

import (
	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/middleware"
	"github.com/estatehub/estatehub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler handles the caller's own profile
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Profile handles GET /api/users/profile
// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.User}
// @Router /users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userService.Profile(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, user)
}

// UpdateProfile handles PUT /api/users/profile
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} common.APIResponse{data=domain.User}
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, user)
}

// DeleteAccount handles DELETE /api/users/profile
// @Summary Delete the account and everything it owns
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse
// @Router /users/profile [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.userService.DeleteAccount(c.Request.Context(), middleware.GetPrincipal(c)); err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.Success(c, gin.H{"message": "account deleted"})
}
