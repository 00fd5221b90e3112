package ratelimit

import "strings"

// Key builds a limiter key namespaced per endpoint so the same client IP
// carries an independent budget on each endpoint.
func Key(endpoint, clientIP string) string {
	endpoint = strings.TrimSpace(endpoint)
	clientIP = strings.TrimSpace(clientIP)
	if endpoint == "" || clientIP == "" {
		return ""
	}
	return endpoint + ":" + clientIP
}
