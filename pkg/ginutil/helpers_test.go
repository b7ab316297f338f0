package ginutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(target string, params gin.Params) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	c.Params = params
	return c
}

func TestQueryPage(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 20},
		{"?n=abc", 20},
		{"?n=0", 20},
		{"?n=-3", 20},
		{"?n=7", 7},
		{"?n=500", 100},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryPage(testContext("/"+tt.query, nil), "n", 20, 100))
		})
	}

	assert.Equal(t, 500, QueryPage(testContext("/?n=500", nil), "n", 1, 0))
}

func TestParamID(t *testing.T) {
	id, err := ParamID(testContext("/", gin.Params{{Key: "id", Value: "42"}}), "id")
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	_, err = ParamID(testContext("/", gin.Params{{Key: "id", Value: "0"}}), "id")
	assert.Error(t, err)
	_, err = ParamID(testContext("/", gin.Params{{Key: "id", Value: "x"}}), "id")
	assert.Error(t, err)
}

func TestParamUUID(t *testing.T) {
	id, err := ParamUUID(testContext("/", gin.Params{{Key: "id", Value: "6BA7B810-9DAD-11D1-80B4-00C04FD430C8"}}), "id")
	assert.NoError(t, err)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", id)

	_, err = ParamUUID(testContext("/", gin.Params{{Key: "id", Value: "not-a-uuid"}}), "id")
	assert.Error(t, err)
}
