package admission

import (
	"net/url"
	"strings"
)

// IsAllowedOrigin compares the Origin header's host against the allowed
// hosts, usually the request host plus an optional configured site host.
// An absent origin is treated as same-origin so non-browser clients are
// not locked out; a malformed origin is a denial, never an error.
func IsAllowedOrigin(origin string, hosts ...string) bool {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return true
	}
	parsed, errParse := url.Parse(origin)
	if errParse != nil || parsed.Host == "" {
		return false
	}
	for _, host := range hosts {
		host = strings.TrimSpace(host)
		if host == "" {
			continue
		}
		if strings.EqualFold(parsed.Host, host) {
			return true
		}
	}
	return false
}
