package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// AccessCookie and RefreshCookie carry the tokens for browser clients
const (
	AccessCookie  = "access"
	RefreshCookie = "refresh"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errBadHeader    = errors.New("invalid authorization header format")
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"
	ctxRole   = "role"
)

// JWTAuth requires a valid access token from the Authorization header or the access cookie
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			common.ErrorResponse(c, http.StatusUnauthorized, err.Error(), nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyAccessToken(tokenString)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "token expired"
			}
			common.ErrorResponse(c, http.StatusUnauthorized, msg, nil)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth identifies the caller when a valid token is present and lets
// everyone else through as anonymous
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, err := extractToken(c); err == nil {
			if claims, err := jwtManager.VerifyAccessToken(tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", errBadHeader
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errMissingToken
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxRole, claims.Role)
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetRole extracts the caller's role; empty for anonymous requests
func GetRole(c *gin.Context) domain.Role {
	role, _ := domain.ParseRole(c.GetString(ctxRole))
	return role
}

// GetPrincipal the caller identity handed to services
func GetPrincipal(c *gin.Context) domain.Principal {
	userID := GetUserID(c)
	if userID == "" {
		return domain.Anonymous()
	}
	return domain.Principal{UserID: userID, Role: GetRole(c)}
}
