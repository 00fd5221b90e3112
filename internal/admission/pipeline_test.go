package admission

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/ratelimit"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/sanitize"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/validate"
)

// countingLimiter wraps the memory limiter and records how many checks ran,
// so tests can assert a gate short-circuited before the limiter.
type countingLimiter struct {
	inner *ratelimit.MemoryLimiter
	calls int
}

func (l *countingLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error) {
	l.calls++
	return l.inner.Allow(ctx, key, limit, window, time.Now())
}

func contactEndpoint(limits ratelimit.Limits, action Action) Endpoint {
	return Endpoint{
		Name:           "contact",
		RequiredFields: []string{"name", "email", "subject", "message", "token"},
		Rules: []FieldRule{
			{Field: "name", Check: validate.Name},
			{Field: "email", Check: func(v string) validate.Result { return validate.EmailField("email", v) }},
			{Field: "subject", Check: validate.Subject},
			{Field: "message", Check: validate.Message},
		},
		Limits: func() ratelimit.Limits { return limits },
		Action: action,
	}
}

func okAction(ctx context.Context, req *Request) (string, gin.H, error) {
	return "Thanks for reaching out. We'll reply soon.", nil, nil
}

func newContactRouter(t *testing.T, limits ratelimit.Limits, action Action) (*gin.Engine, *countingLimiter) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	limiter := &countingLimiter{inner: ratelimit.NewMemoryLimiter()}
	pipeline := NewPipeline(contactEndpoint(limits, action), limiter, nil, nil)
	r := gin.New()
	r.Any("/api/contact", pipeline.Handle)
	return r, limiter
}

func contactBody(overrides map[string]any) string {
	body := map[string]any{
		"name":    "Jordan Lee",
		"email":   "jordan@example.com",
		"subject": "Hello there",
		"message": "This is a test message.",
		"token":   "tok-123",
	}
	for k, v := range overrides {
		if v == nil {
			delete(body, k)
			continue
		}
		body[k] = v
	}
	raw, _ := json.Marshal(body)
	return string(raw)
}

func doContact(r *gin.Engine, method, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/api/contact", reader)
	req.Host = "kamunity.ai"
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if errDecode := json.Unmarshal(w.Body.Bytes(), &envelope); errDecode != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), errDecode)
	}
	return envelope
}

func TestPipelineSuccess(t *testing.T) {
	r, _ := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, okAction)
	w := doContact(r, http.MethodPost, contactBody(nil), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	envelope := decodeEnvelope(t, w)
	if envelope["success"] != true {
		t.Fatalf("expected success=true, got %v", envelope["success"])
	}
	if envelope["message"] == "" {
		t.Fatalf("expected a confirmation message")
	}
}

func TestPipelineHardeningHeaders(t *testing.T) {
	r, _ := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, okAction)
	w := doContact(r, http.MethodPost, contactBody(nil), nil)
	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
	}
	for name, value := range want {
		if got := w.Header().Get(name); got != value {
			t.Fatalf("expected header %s=%q, got %q", name, value, got)
		}
	}
}

func TestPipelinePreflight(t *testing.T) {
	r, limiter := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, okAction)
	w := doContact(r, http.MethodOptions, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", w.Code)
	}
	if limiter.calls != 0 {
		t.Fatalf("preflight must not reach the rate limiter, got %d calls", limiter.calls)
	}
}

func TestPipelineMethodNotAllowed(t *testing.T) {
	r, limiter := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, okAction)
	w := doContact(r, http.MethodGet, "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if limiter.calls != 0 {
		t.Fatalf("method gate must short-circuit, got %d limiter calls", limiter.calls)
	}
}

func TestPipelineOriginRejectedBeforeRateLimit(t *testing.T) {
	r, limiter := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, okAction)
	w := doContact(r, http.MethodPost, contactBody(nil), map[string]string{"Origin": "https://evil.example"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if limiter.calls != 0 {
		t.Fatalf("origin rejection must not increment the rate limiter, got %d calls", limiter.calls)
	}
	envelope := decodeEnvelope(t, w)
	if envelope["success"] != false {
		t.Fatalf("expected success=false, got %v", envelope["success"])
	}
}

func TestPipelineRateLimitSixthSubmission(t *testing.T) {
	r, _ := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, okAction)
	for i := 0; i < 5; i++ {
		w := doContact(r, http.MethodPost, contactBody(nil), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("submission %d: expected 200, got %d", i+1, w.Code)
		}
	}
	w := doContact(r, http.MethodPost, contactBody(nil), nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("6th submission: expected 429, got %d", w.Code)
	}
}

func TestPipelineMissingTokenGenericMessage(t *testing.T) {
	r, _ := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, okAction)
	w := doContact(r, http.MethodPost, contactBody(map[string]any{"token": nil}), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	envelope := decodeEnvelope(t, w)
	if envelope["error"] != "Missing required fields" {
		t.Fatalf("expected generic missing-fields message, got %v", envelope["error"])
	}
}

func TestPipelineShortNameFieldSpecificMessage(t *testing.T) {
	r, _ := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, okAction)
	w := doContact(r, http.MethodPost, contactBody(map[string]any{"name": "J"}), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	envelope := decodeEnvelope(t, w)
	errMsg, _ := envelope["error"].(string)
	if !strings.Contains(errMsg, "name") {
		t.Fatalf("expected name-specific message, got %q", errMsg)
	}
}

func TestPipelineInvalidJSONBody(t *testing.T) {
	r, _ := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, okAction)
	w := doContact(r, http.MethodPost, "{not json", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPipelineActionFailureGenericMessage(t *testing.T) {
	failing := func(ctx context.Context, req *Request) (string, gin.H, error) {
		return "", nil, errors.New("smtp: connection refused to inbox@internal")
	}
	r, _ := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, failing)
	w := doContact(r, http.MethodPost, contactBody(nil), nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	envelope := decodeEnvelope(t, w)
	errMsg, _ := envelope["error"].(string)
	if strings.Contains(errMsg, "smtp") || strings.Contains(errMsg, "internal") {
		t.Fatalf("internal detail leaked to client: %q", errMsg)
	}
}

func TestPipelineSanitizesFieldsBeforeAction(t *testing.T) {
	var seen map[string]string
	capture := func(ctx context.Context, req *Request) (string, gin.H, error) {
		seen = req.Fields
		return "ok", nil, nil
	}
	r, _ := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, capture)
	w := doContact(r, http.MethodPost, contactBody(map[string]any{"name": "  <b>Jordan</b>  "}), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if seen["name"] != "bJordan/b" {
		t.Fatalf("expected angle brackets stripped and trimmed, got %q", seen["name"])
	}
}

func TestPipelineOriginAllowedViaSiteHost(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := &countingLimiter{inner: ratelimit.NewMemoryLimiter()}
	siteHost := "kamunity.ai"
	pipeline := NewPipeline(
		contactEndpoint(ratelimit.Limits{MaxAttempts: 50, Window: time.Minute}, okAction),
		limiter, nil, func() string { return siteHost },
	)
	r := gin.New()
	r.Any("/api/contact", pipeline.Handle)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(contactBody(nil)))
		req.Host = "backend.internal:8318"
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", "https://kamunity.ai")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("expected site host to admit the origin, got %d: %s", w.Code, w.Body.String())
	}

	// The host is resolved per request, so clearing it closes the gate.
	siteHost = ""
	if w := do(); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without a matching host, got %d", w.Code)
	}
}

func TestPipelineSanitizerCeilingReadPerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ceiling := sanitize.DefaultMaxLength
	var seen map[string]string
	capture := func(ctx context.Context, req *Request) (string, gin.H, error) {
		seen = req.Fields
		return "ok", nil, nil
	}
	limiter := &countingLimiter{inner: ratelimit.NewMemoryLimiter()}
	pipeline := NewPipeline(
		contactEndpoint(ratelimit.Limits{MaxAttempts: 50, Window: time.Minute}, capture),
		limiter,
		func() *sanitize.Sanitizer { return sanitize.New(ceiling) },
		nil,
	)
	r := gin.New()
	r.Any("/api/contact", pipeline.Handle)

	long := strings.Repeat("a", 100)
	w := doContact(r, http.MethodPost, contactBody(map[string]any{"message": long}), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(seen["message"]) != 100 {
		t.Fatalf("expected full message under the default ceiling, got %d runes", len(seen["message"]))
	}

	ceiling = 40
	w = doContact(r, http.MethodPost, contactBody(map[string]any{"message": long}), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(seen["message"]) != 40 {
		t.Fatalf("expected the lowered ceiling to apply without rebuild, got %d runes", len(seen["message"]))
	}
}

func TestPipelineActionRunsAtMostOnce(t *testing.T) {
	runs := 0
	counting := func(ctx context.Context, req *Request) (string, gin.H, error) {
		runs++
		return "ok", nil, nil
	}
	r, _ := newContactRouter(t, ratelimit.Limits{MaxAttempts: 5, Window: 15 * time.Minute}, counting)
	doContact(r, http.MethodPost, contactBody(nil), nil)
	if runs != 1 {
		t.Fatalf("expected exactly one action run, got %d", runs)
	}
}
