package handlers

import (
	"context"
	"fmt"

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

// ContactFrontHandler persists contact-form submissions and notifies the
// operator inbox. Notification failure is fatal for this endpoint: the
// operator must see every message, so the client is told to retry.
type ContactFrontHandler struct {
	db       *gorm.DB
	sink     notify.Sink
	reporter *notify.Reporter
}

// NewContactFrontHandler constructs a ContactFrontHandler.
func NewContactFrontHandler(db *gorm.DB, sink notify.Sink, reporter *notify.Reporter) *ContactFrontHandler {
	return &ContactFrontHandler{db: db, sink: sink, reporter: reporter}
}

// Endpoint describes the admission gates for contact submissions.
func (h *ContactFrontHandler) Endpoint() admission.Endpoint {
	return admission.Endpoint{
		Name:           "contact",
		RequiredFields: []string{"name", "email", "subject", "message", "token"},
		Rules: []admission.FieldRule{
			{Field: "name", Check: validate.Name},
			{Field: "email", Check: func(v string) validate.Result { return validate.EmailField("email", v) }},
			{Field: "subject", Check: validate.Subject},
			{Field: "message", Check: validate.Message},
		},
		Limits: ratelimit.ContactLimits,
		Action: h.submit,
	}
}

func (h *ContactFrontHandler) submit(ctx context.Context, req *admission.Request) (string, gin.H, error) {
	record := models.ContactMessage{
		Reference: uuid.NewString(),
		Name:      req.Fields["name"],
		Email:     req.Fields["email"],
		Subject:   req.Fields["subject"],
		Message:   req.Fields["message"],
		Token:     req.Fields["token"],
		ClientIP:  req.ClientIP,
		Device:    req.Device,
		Status:    models.ContactStatusUnread,
	}
	if errCreate := h.db.WithContext(ctx).Create(&record).Error; errCreate != nil {
		return "", nil, fmt.Errorf("contact: persist message: %w", errCreate)
	}

	event := notify.Event{
		Kind:    "contact",
		Subject: fmt.Sprintf("New contact message: %s", record.Subject),
		Body: fmt.Sprintf("From: %s <%s>\nReference: %s\n\n%s",
			record.Name, record.Email, record.Reference, record.Message),
		ReplyTo: record.Email,
	}
	if errNotify := h.sink.Notify(ctx, event); errNotify != nil {
		return "", nil, fmt.Errorf("contact: notify operator: %w", errNotify)
	}

	if errReport := h.reporter.Report(ctx, models.EventContactSubmitted, "contact", req.ClientIP); errReport != nil {
		log.WithError(errReport).Warn("contact analytics report failed")
	}

	return "Thanks for reaching out. We'll get back to you soon.", gin.H{"reference": record.Reference}, nil
}
