package admission

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownClientIP is the shared bucket for clients with no derivable
// address. Lumping them together fails safe rather than open.
const UnknownClientIP = "unknown"

// ClientIP derives the caller address from proxy headers. The first
// X-Forwarded-For entry wins, then X-Real-IP, then the unknown sentinel.
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	return UnknownClientIP
}

// DeviceSummary classifies the caller's user agent into a coarse bucket
// for submission metadata. It is descriptive only and never gates anything.
func DeviceSummary(userAgent string) string {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	switch {
	case ua == "":
		return "unknown"
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return "mobile"
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"):
		return "tablet"
	case strings.Contains(ua, "curl"), strings.Contains(ua, "bot"), strings.Contains(ua, "python"):
		return "script"
	default:
		return "desktop"
	}
}
