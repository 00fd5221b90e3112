package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/admission"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/notify"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/ratelimit"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/validate"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SubscribeFrontHandler captures email subscriptions. Notification here is
// best-effort: the subscription is saved even when the welcome email or
// analytics call fails.
type SubscribeFrontHandler struct {
	db       *gorm.DB
	sink     notify.Sink
	reporter *notify.Reporter
}

// NewSubscribeFrontHandler constructs a SubscribeFrontHandler.
func NewSubscribeFrontHandler(db *gorm.DB, sink notify.Sink, reporter *notify.Reporter) *SubscribeFrontHandler {
	return &SubscribeFrontHandler{db: db, sink: sink, reporter: reporter}
}

// Endpoint describes the admission gates for subscription capture.
func (h *SubscribeFrontHandler) Endpoint() admission.Endpoint {
	return admission.Endpoint{
		Name:           "subscribe",
		RequiredFields: []string{"email", "token"},
		OptionalFields: []string{"source"},
		Rules: []admission.FieldRule{
			{Field: "email", Check: func(v string) validate.Result { return validate.EmailField("email", v) }},
		},
		Limits: ratelimit.SubscribeLimits,
		Action: h.capture,
	}
}

func (h *SubscribeFrontHandler) capture(ctx context.Context, req *admission.Request) (string, gin.H, error) {
	email := strings.ToLower(req.Fields["email"])
	source := req.Fields["source"]
	if source == "" {
		source = "website"
	}

	// Re-subscribing is idempotent so the form never reveals whether an
	// address is already on the list.
	var existing models.Subscriber
	errFind := h.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case errFind == nil:
		return "You're on the list. Thanks for subscribing!", nil, nil
	case !errors.Is(errFind, gorm.ErrRecordNotFound):
		return "", nil, fmt.Errorf("subscribe: lookup subscriber: %w", errFind)
	}

	subscriber := models.Subscriber{
		Email:    email,
		Source:   source,
		Token:    uuid.NewString(),
		ClientIP: req.ClientIP,
		Device:   req.Device,
	}
	if errCreate := h.db.WithContext(ctx).Create(&subscriber).Error; errCreate != nil {
		return "", nil, fmt.Errorf("subscribe: persist subscriber: %w", errCreate)
	}

	event := notify.Event{
		Kind:    "subscribe",
		Subject: "New subscriber",
		Body:    fmt.Sprintf("Email: %s\nSource: %s", subscriber.Email, subscriber.Source),
	}
	if errNotify := h.sink.Notify(ctx, event); errNotify != nil {
		log.WithError(errNotify).Warn("subscribe notification failed")
	}
	if errReport := h.reporter.Report(ctx, models.EventSubscribeCaptured, "subscribe", req.ClientIP); errReport != nil {
		log.WithError(errReport).Warn("subscribe analytics report failed")
	}

	return "You're on the list. Thanks for subscribing!", nil, nil
}
