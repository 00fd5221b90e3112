package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/config"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const analyticsTimeout = 3 * time.Second

// Reporter records analytics events. Every event is persisted locally for
// the admin dashboard; forwarding to the remote provider is best-effort and
// never fails the request that produced the event.
type Reporter struct {
	db     *gorm.DB
	client *http.Client
	url    string
	key    string
}

// NewReporter constructs a reporter. A blank provider URL disables
// forwarding; local persistence still runs.
func NewReporter(db *gorm.DB, cfg config.NotifyConfig) *Reporter {
	return &Reporter{
		db:     db,
		client: &http.Client{Timeout: analyticsTimeout},
		url:    cfg.AnalyticsURL,
		key:    cfg.AnalyticsKey,
	}
}

// Report persists the event row and forwards it to the provider. The
// returned error covers persistence only.
func (r *Reporter) Report(ctx context.Context, kind, endpoint, clientIP string) error {
	event := models.AnalyticsEvent{
		Kind:     kind,
		Endpoint: endpoint,
		ClientIP: clientIP,
	}
	if errCreate := r.db.WithContext(ctx).Create(&event).Error; errCreate != nil {
		return fmt.Errorf("notify: persist analytics event: %w", errCreate)
	}

	if r.url == "" {
		return nil
	}
	if errForward := r.forward(ctx, kind, endpoint); errForward != nil {
		log.WithError(errForward).WithField("kind", kind).Warn("analytics forwarding failed")
	}
	return nil
}

func (r *Reporter) forward(ctx context.Context, kind, endpoint string) error {
	payload, errMarshal := json.Marshal(map[string]string{
		"event":    kind,
		"endpoint": endpoint,
	})
	if errMarshal != nil {
		return fmt.Errorf("notify: marshal analytics payload: %w", errMarshal)
	}

	ctx, cancel := context.WithTimeout(ctx, analyticsTimeout)
	defer cancel()

	req, errRequest := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if errRequest != nil {
		return fmt.Errorf("notify: build analytics request: %w", errRequest)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.key != "" {
		req.Header.Set("Authorization", "Bearer "+r.key)
	}

	resp, errDo := r.client.Do(req)
	if errDo != nil {
		return fmt.Errorf("notify: post analytics event: %w", errDo)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: analytics provider returned %d", resp.StatusCode)
	}
	return nil
}
