package handler

import (
	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// bindJSON binds the body into dst, writing a 400 with field details on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		common.AbortWithError(c, common.FromBindError(err))
		return false
	}
	return true
}

// listingID the :id path parameter; malformed ids are reported as a missing listing
func listingID(c *gin.Context) (string, bool) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.AbortWithError(c, common.ErrListingNotFound)
		return "", false
	}
	return id, true
}

func pagination(c *gin.Context) (page, pageSize int) {
	return ginutil.QueryPage(c, "page", 1, domain.MaxPage), ginutil.QueryPage(c, "page_size", defaultPageSize, maxPageSize)
}

// paramUint64 a numeric path id; malformed ids are reported as notFound
func paramUint64(c *gin.Context, key string, notFound error) (uint64, bool) {
	id, err := ginutil.ParamID(c, key)
	if err != nil {
		common.AbortWithError(c, notFound)
		return 0, false
	}
	return id, true
}
