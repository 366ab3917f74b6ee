package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/ohc-assist/internal/knowledge"
	"github.com/wolfman30/ohc-assist/internal/observability/metrics"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// Notifier tells the office about new requests.
type Notifier interface {
	NotifyBooking(ctx context.Context, booking *Booking) error
	NotifyInquiry(ctx context.Context, inquiry *Inquiry) error
}

// Intake validates form submissions and forwards them to the office. Nothing
// is stored; the notification is the record.
type Intake struct {
	facts    knowledge.CompanyFacts
	notifier Notifier
	metrics  *metrics.IntakeMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewIntake creates an intake service.
func NewIntake(facts knowledge.CompanyFacts, notifier Notifier, m *metrics.IntakeMetrics, logger *logging.Logger) *Intake {
	if notifier == nil {
		panic("leads: notifier cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Intake{
		facts:    facts,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Book validates an appointment request and notifies the office.
func (i *Intake) Book(ctx context.Context, req BookingRequest) (*Booking, error) {
	now := i.now()
	if err := req.Validate(i.facts, now); err != nil {
		i.metrics.ObserveSubmission("booking", "invalid")
		return nil, err
	}

	svc, _ := i.facts.ServiceByID(req.ServiceID)
	booking := &Booking{
		ConfirmationID: uuid.New().String(),
		Step:           StepConfirmed,
		Service:        svc.Title,
		Date:           req.Date,
		Window:         req.Window,
		Contact:        req.Contact,
		Notes:          req.Notes,
		CreatedAt:      now.UTC(),
	}

	if err := i.notifier.NotifyBooking(ctx, booking); err != nil {
		i.metrics.ObserveSubmission("booking", "failed")
		i.logger.Error("booking notification failed", "error", err, "confirmation_id", booking.ConfirmationID)
		return nil, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	i.metrics.ObserveSubmission("booking", "accepted")
	i.logger.Info("booking accepted",
		"confirmation_id", booking.ConfirmationID,
		"service", booking.Service,
		"date", booking.Date,
		"contact_hash", contactHash(booking.Contact.Phone),
	)
	return booking, nil
}

// Inquire validates a contact form submission and notifies the office.
func (i *Intake) Inquire(ctx context.Context, req InquiryRequest) (*Inquiry, error) {
	if err := req.Validate(i.facts); err != nil {
		i.metrics.ObserveSubmission("contact", "invalid")
		return nil, err
	}

	inquiry := &Inquiry{
		ID:        uuid.New().String(),
		Contact:   req.Contact,
		Service:   canonicalOption(i.facts.ContactServices, req.Service),
		Message:   req.Message,
		CreatedAt: i.now().UTC(),
	}

	if err := i.notifier.NotifyInquiry(ctx, inquiry); err != nil {
		i.metrics.ObserveSubmission("contact", "failed")
		i.logger.Error("inquiry notification failed", "error", err, "id", inquiry.ID)
		return nil, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	i.metrics.ObserveSubmission("contact", "accepted")
	i.logger.Info("inquiry accepted",
		"id", inquiry.ID,
		"service", inquiry.Service,
		"contact_hash", contactHash(inquiry.Contact.Phone),
		"message", preview(inquiry.Message),
	)
	return inquiry, nil
}

func canonicalOption(options []string, value string) string {
	for _, opt := range options {
		if strings.EqualFold(opt, value) {
			return opt
		}
	}
	return value
}
