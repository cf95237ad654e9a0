package middleware

import (
	"context"
	"strconv"
	"strings"
	"time"

	"anduber-forms-backend/internal/delivery/http/response"
	"anduber-forms-backend/internal/domain"
	"anduber-forms-backend/pkg/logger"
	"anduber-forms-backend/pkg/metrics"
	"anduber-forms-backend/pkg/ratelimit"
	"anduber-forms-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const rateLimitedMessage = "Too many requests. Please try again later."

// UnknownClient is the shared bucket for requests without proxy headers.
const UnknownClient = "unknown"

// ClientIdentifier derives the rate limit key: the first X-Forwarded-For
// entry, then X-Real-IP, then UnknownClient.
func ClientIdentifier(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return UnknownClient
}

// RateLimit consumes one unit from the form's bucket for the client. Store
// failures let the request through.
func RateLimit(limiter *ratelimit.Limiter, form string, secLogger *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := ClientIdentifier(c)
		c.Set("ClientID", clientID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), domain.KeyClientID, clientID))

		res, err := limiter.CheckAndConsume(c.Request.Context(), form+":"+clientID)
		if err != nil {
			// Fail open for availability
			metrics.IncrementRateLimitDecision(form, "store_error")
			logger.Log.Error("Rate limit store unavailable", "form", form, "error", err)
			secLogger.Log(c.Request.Context(), security.SecurityEvent{
				Event:       security.EventRateLimitError,
				Form:        form,
				SubjectType: "system",
				IP:          clientID,
				RequestID:   c.GetString("RequestID"),
				Details:     map[string]interface{}{"error": err.Error()},
			})
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", res.ResetAt.UTC().Format(time.RFC3339))

		if !res.Allowed {
			metrics.IncrementRateLimitDecision(form, "denied")
			c.Header("Retry-After", strconv.Itoa(res.RetryAfterSeconds))
			secLogger.LogRateLimitTriggered(c.Request.Context(), form, clientID, c.GetHeader("User-Agent"), c.GetString("RequestID"), res.RetryAfterSeconds)

			response.TooManyRequests(c, rateLimitedMessage, res.RetryAfterSeconds)
			c.Abort()
			return
		}

		metrics.IncrementRateLimitDecision(form, "allowed")
		c.Next()
	}
}
