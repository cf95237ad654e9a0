package middleware

import (
	"net"
	"net/url"
	"strings"

	"anduber-forms-backend/pkg/apperror"
	"anduber-forms-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const invalidOriginMessage = "Invalid request origin."

// OriginGuard rejects browser submissions whose Origin host differs from the
// Host the request was sent to. Requests without an Origin header pass.
// The 403 body is rendered by ErrorHandler.
func OriginGuard(secLogger *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if !SameHost(origin, c.Request.Host) {
			secLogger.LogOriginRejected(c.Request.Context(), origin, c.Request.Host, ClientIdentifier(c), c.GetString("RequestID"))
			c.Error(apperror.Forbidden(invalidOriginMessage))
			c.Abort()
			return
		}

		c.Next()
	}
}

// SameHost reports whether origin's host equals host, ignoring case and
// default ports. Unparsable or opaque origins such as "null" never match.
func SameHost(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" || host == "" {
		return false
	}
	return strings.EqualFold(normalizeHost(u.Host, u.Scheme), normalizeHost(host, u.Scheme))
}

func normalizeHost(hostport, scheme string) string {
	h, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport
	}
	if (scheme == "https" && port == "443") || (scheme == "http" && port == "80") {
		return h
	}
	return hostport
}
