package routes

import (
	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/config"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/handler"
	"github.com/estatehub/estatehub-backend/internal/middleware"
	"github.com/estatehub/estatehub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers every HTTP handler mounted under /api
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Listing  *handler.ListingHandler
	Media    *handler.MediaHandler
	Enquiry  *handler.EnquiryHandler
	Wishlist *handler.WishlistHandler
	Payment  *handler.PaymentHandler
	Admin    *handler.AdminHandler
}

// Setup configures all API routes. redisClient may be nil, which disables rate limiting.
func Setup(router *gin.Engine, h Handlers, jwtManager *jwt.Manager, redisClient *redis.Client, limits config.RateLimitConfig) {
	common.RegisterValidators()

	authRequired := middleware.JWTAuth(jwtManager)
	loginLimit := middleware.RateLimit(redisClient, middleware.LoginRateLimit(limits.LoginPerMinute))

	api := router.Group("/api",
		middleware.OptionalJWTAuth(jwtManager),
		middleware.RateLimit(redisClient, middleware.GlobalRateLimit(limits.GlobalPerHour)),
	)

	// Accounts
	auth := api.Group("/auth")
	auth.POST("/register", loginLimit, h.Auth.Register)
	auth.POST("/login", loginLimit, h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	users := api.Group("/users", authRequired)
	users.GET("/profile", h.User.Profile)
	users.PUT("/profile", h.User.UpdateProfile)
	users.DELETE("/profile", h.User.DeleteAccount)

	// Listings (public reads, owner writes)
	listings := api.Group("/listings")
	{
		listings.GET("", h.Listing.Search)
		listings.GET("/suggest", h.Listing.Suggest)
		listings.GET("/mine", authRequired, h.Listing.Mine)
		listings.GET("/:id", h.Listing.Get)
		listings.POST("", authRequired, middleware.RequireRole(domain.RoleSeller), h.Listing.Create)
		listings.PATCH("/:id", authRequired, h.Listing.Update)
		listings.PATCH("/:id/status", authRequired, h.Listing.UpdateStatus)
		listings.DELETE("/:id", authRequired, h.Listing.Delete)

		listings.POST("/:id/media", authRequired, h.Media.Upload)
		listings.DELETE("/:id/media/:media_id", authRequired, h.Media.Delete)

		listings.POST("/:id/payments", authRequired, h.Payment.Initiate)
	}

	// Gateway checkout callback; the signature authenticates it
	api.POST("/payments/confirm", h.Payment.Confirm)

	enquiries := api.Group("/enquiries", authRequired)
	enquiries.POST("", middleware.RateLimit(redisClient, middleware.EnquiryRateLimit(limits.EnquiryPerHour)), h.Enquiry.Create)
	enquiries.GET("/seller", h.Enquiry.SellerInbox)
	enquiries.GET("/mine", h.Enquiry.Mine)
	enquiries.PATCH("/:id/read", h.Enquiry.MarkRead)

	wishlist := api.Group("/wishlist", authRequired)
	wishlist.GET("", h.Wishlist.List)
	wishlist.POST("/:id", h.Wishlist.Add)
	wishlist.DELETE("/:id", h.Wishlist.Remove)

	admin := api.Group("/admin", authRequired, middleware.RequireAdmin())
	admin.GET("/listings/pending", h.Admin.Pending)
	admin.PUT("/listings/:id/approve", h.Admin.Approve)
	admin.GET("/users", h.Admin.Users)
	admin.GET("/analytics", h.Admin.Analytics)
}
