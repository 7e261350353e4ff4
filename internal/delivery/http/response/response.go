package response

import (
	"mime"

	"go-ats-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every non-file reply.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, envelope(c, true, message, data, nil))
}

func Error(c *gin.Context, code int, message string, err interface{}) {
	c.JSON(code, envelope(c, false, message, nil, err))
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, envelope(c, false, message, nil, nil))
}

// Attachment sends data as a download named filename. The request id is echoed
// in a header since the body carries no envelope.
func Attachment(c *gin.Context, code int, contentType, filename string, data []byte) {
	if id := RequestID(c); id != "" {
		c.Header("X-Request-ID", id)
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(code, contentType, data)
}

// RequestID returns the id stored by the request id middleware, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}

func envelope(c *gin.Context, ok bool, message string, data, err interface{}) Response {
	return Response{
		Success:   ok,
		Message:   message,
		Data:      data,
		Error:     err,
		RequestID: RequestID(c),
	}
}
