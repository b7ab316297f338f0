package handler

import (
	"net/http"
	"time"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/middleware"
	"github.com/estatehub/estatehub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and token endpoints
type AuthHandler struct {
	authService   service.AuthService
	accessTTL     time.Duration
	refreshTTL    time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, accessTTL, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

// Register handles POST /api/auth/register
// @Summary Register a buyer or seller account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Account"
// @Success 201 {object} common.APIResponse{data=domain.AuthResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	h.setTokenCookies(c, resp.Tokens)
	common.Created(c, resp)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} common.APIResponse{data=domain.AuthResponse}
// @Failure 401 {object} common.APIResponse
// @Failure 429 {object} common.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	h.setTokenCookies(c, resp.Tokens)
	common.Success(c, resp)
}

// Refresh handles POST /api/auth/refresh
// The refresh cookie is preferred; the JSON body is accepted for non-browser clients.
// @Summary Rotate tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RefreshRequest false "Refresh token"
// @Success 200 {object} common.APIResponse{data=domain.TokenPair}
// @Failure 401 {object} common.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := h.refreshToken(c)
	if token == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "refresh token required", nil)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearTokenCookies(c)
		common.AbortWithError(c, err)
		return
	}

	h.setTokenCookies(c, *pair)
	common.Success(c, pair)
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	_ = h.authService.Logout(c.Request.Context(), h.refreshToken(c))
	h.clearTokenCookies(c)
	common.Success(c, gin.H{"message": "logged out"})
}

func (h *AuthHandler) refreshToken(c *gin.Context) string {
	if cookie, err := c.Cookie(middleware.RefreshCookie); err == nil && cookie != "" {
		return cookie
	}
	var req domain.RefreshRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&req)
	}
	return req.Refresh
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, tokens domain.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, tokens.Access, int(h.accessTTL.Seconds()), "/", "", h.secureCookies, true)
	c.SetCookie(middleware.RefreshCookie, tokens.Refresh, int(h.refreshTTL.Seconds()), "/api/auth", "", h.secureCookies, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/api/auth", "", h.secureCookies, true)
}
