package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(domain.KeyRequestID), "req-1")
		c.Next()
	})
	r.GET("/", h, func(c *gin.Context) {
		c.Header("X-Reached", "yes")
	})
	return r
}

func serve(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestEnvelopes(t *testing.T) {
	t.Run("Success carries data and request id", func(t *testing.T) {
		w := serve(newRouter(func(c *gin.Context) {
			response.Success(c, http.StatusOK, "ok", map[string]int{"id": 3})
		}))

		var body response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "req-1", body.RequestID)
		assert.Equal(t, map[string]interface{}{"id": float64(3)}, body.Data)
	})

	t.Run("Abort stops the chain", func(t *testing.T) {
		w := serve(newRouter(func(c *gin.Context) {
			response.Abort(c, http.StatusForbidden, "nope")
		}))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("X-Reached"))

		var body response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "nope", body.Message)
		assert.Equal(t, "req-1", body.RequestID)
	})

	t.Run("Attachment has no envelope", func(t *testing.T) {
		w := serve(newRouter(func(c *gin.Context) {
			response.Attachment(c, http.StatusOK, "text/csv", "candidates 1.csv", []byte("id\n"))
		}))

		assert.Equal(t, "id\n", w.Body.String())
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="candidates 1.csv"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	})
}
