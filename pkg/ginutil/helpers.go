package ginutil

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errZeroID = errors.New("id must be positive")

// QueryPage reads a positive integer query parameter. Missing, malformed or
// non-positive values yield def; values above max are clamped to max (max <= 0
// disables the ceiling).
func QueryPage(c *gin.Context, key string, def, max int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// ParamID parses a positive numeric path parameter
func ParamID(c *gin.Context, key string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errZeroID
	}
	return id, nil
}

// ParamUUID parses a UUID path parameter into its canonical form
func ParamUUID(c *gin.Context, key string) (string, error) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
