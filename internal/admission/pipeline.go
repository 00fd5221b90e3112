// Package admission gates public mutation endpoints behind a fixed chain
// of checks: method, CORS preflight, origin, rate limit, required fields,
// sanitization, and format validation. The first failing gate produces the
// terminal response; only fully admitted requests reach the business action.
package admission

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/ratelimit"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/sanitize"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/validate"
	log "github.com/sirupsen/logrus"
)

// DefaultActionTimeout bounds the persist-and-notify step so a stalled
// downstream never leaves the client with a hung connection.
const DefaultActionTimeout = 5 * time.Second

// Request carries the admitted submission into the business action.
type Request struct {
	Fields   map[string]string // Sanitized field values keyed by field name.
	ClientIP string            // Derived caller address or the unknown sentinel.
	Device   string            // Coarse user-agent bucket.
}

// Action is the persist-and-notify side effect run after all gates pass.
// It returns the client-facing confirmation message and optional data.
type Action func(ctx context.Context, req *Request) (string, gin.H, error)

// Limiter is the admission view of the rate limiter.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error)
}

// FieldRule validates one sanitized field.
type FieldRule struct {
	Field string                        // Field name in the payload.
	Check func(string) validate.Result // Predicate over the sanitized value.
}

// Endpoint configures one public mutation endpoint.
type Endpoint struct {
	Name           string                  // Rate-limit key namespace.
	RequiredFields []string                // Fields that must be present and truthy.
	OptionalFields []string                // Fields sanitized when present.
	Rules          []FieldRule             // Ordered format checks, first failure wins.
	Limits         func() ratelimit.Limits // Per-endpoint rate-limit parameters.
	Action         Action                  // Business action after admission.
}

// Pipeline executes the gate chain for one endpoint.
type Pipeline struct {
	endpoint  Endpoint
	limiter   Limiter
	sanitizer func() *sanitize.Sanitizer
	siteHost  func() string
	timeout   time.Duration
}

// NewPipeline constructs the gate chain for an endpoint. The sanitizer and
// site host are resolved per request, like the rate limits, so dashboard
// edits take effect without re-registering routes. Either may be nil.
func NewPipeline(endpoint Endpoint, limiter Limiter, sanitizer func() *sanitize.Sanitizer, siteHost func() string) *Pipeline {
	if sanitizer == nil {
		sanitizer = func() *sanitize.Sanitizer { return sanitize.New(sanitize.DefaultMaxLength) }
	}
	if siteHost == nil {
		siteHost = func() string { return "" }
	}
	return &Pipeline{
		endpoint:  endpoint,
		limiter:   limiter,
		sanitizer: sanitizer,
		siteHost:  siteHost,
		timeout:   DefaultActionTimeout,
	}
}

// Handle runs the gates in order and dispatches the business action at
// most once. Register it for every verb so the method gate owns the 405.
func (p *Pipeline) Handle(c *gin.Context) {
	applyHardeningHeaders(c)

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		respondError(c, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if !IsAllowedOrigin(c.GetHeader("Origin"), c.Request.Host, p.siteHost()) {
		respondError(c, http.StatusForbidden, "Origin not allowed")
		return
	}

	clientIP := ClientIP(c)
	limits := p.endpoint.Limits()
	key := ratelimit.Key(p.endpoint.Name, clientIP)
	verdict, errAllow := p.limiter.Allow(c.Request.Context(), key, limits.MaxAttempts, limits.Window)
	if errAllow != nil {
		log.WithError(errAllow).WithField("endpoint", p.endpoint.Name).Warn("rate limit check failed, admitting request")
	} else if !verdict.Allowed {
		respondError(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var raw map[string]any
	if errBind := c.ShouldBindJSON(&raw); errBind != nil {
		respondError(c, http.StatusBadRequest, "Missing required fields")
		return
	}
	for _, field := range p.endpoint.RequiredFields {
		if isFalsy(raw[field]) {
			respondError(c, http.StatusBadRequest, "Missing required fields")
			return
		}
	}

	cleaner := p.sanitizer()
	fields := make(map[string]string, len(p.endpoint.RequiredFields)+len(p.endpoint.OptionalFields))
	for _, field := range p.endpoint.RequiredFields {
		fields[field] = cleaner.Clean(raw[field])
	}
	for _, field := range p.endpoint.OptionalFields {
		if value, ok := raw[field]; ok {
			fields[field] = cleaner.Clean(value)
		}
	}

	for _, rule := range p.endpoint.Rules {
		if result := rule.Check(fields[rule.Field]); !result.OK {
			respondError(c, http.StatusBadRequest, result.Reason)
			return
		}
	}

	req := &Request{
		Fields:   fields,
		ClientIP: clientIP,
		Device:   DeviceSummary(c.GetHeader("User-Agent")),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), p.timeout)
	defer cancel()

	message, data, errAction := p.endpoint.Action(ctx, req)
	if errAction != nil {
		log.WithError(errAction).WithFields(log.Fields{
			"endpoint":  p.endpoint.Name,
			"client_ip": clientIP,
		}).Error("admission action failed")
		respondError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}
	respondSuccess(c, message, data)
}

// isFalsy reports whether a decoded JSON value counts as missing for the
// required-field gate: absent, null, empty string, false, or zero.
func isFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	default:
		return false
	}
}
