package response

import (
	"anduber-forms-backend/pkg/validation"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message,omitempty"`
	Data       interface{}             `json:"data,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Errors     []validation.FieldError `json:"errors,omitempty"`
	RetryAfter int                     `json:"retryAfter,omitempty"`
	RequestID  string                  `json:"request_id,omitempty"`
}

// MethodNotAllowedBody is the 405 payload. It carries only an error string.
type MethodNotAllowedBody struct {
	Error string `json:"error"`
}

func requestID(c *gin.Context) string {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string) // Safe type assertion
	return idStr
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Success:   false,
		Error:     message,
		RequestID: requestID(c),
	})
}

// ValidationFailed sends 400 with one entry per offending field
func ValidationFailed(c *gin.Context, errs []validation.FieldError) {
	c.JSON(http.StatusBadRequest, Response{
		Success:   false,
		Error:     "Validation failed",
		Errors:    errs,
		RequestID: requestID(c),
	})
}

// TooManyRequests sends 429 with the seconds until the window resets
func TooManyRequests(c *gin.Context, message string, retryAfter int) {
	c.JSON(http.StatusTooManyRequests, Response{
		Success:    false,
		Error:      message,
		RetryAfter: retryAfter,
		RequestID:  requestID(c),
	})
}

// MethodNotAllowed sends 405 with an Allow header
func MethodNotAllowed(c *gin.Context, allow string) {
	c.Header("Allow", allow)
	c.JSON(http.StatusMethodNotAllowed, MethodNotAllowedBody{Error: "Method not allowed"})
}
