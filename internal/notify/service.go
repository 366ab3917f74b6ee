package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/ohc-assist/internal/leads"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// Service emails the office inbox about new bookings and inquiries.
type Service struct {
	email   EmailSender
	inbox   string
	company string
	logger  *logging.Logger
}

// NewService creates a notification service that writes to inbox.
func NewService(email EmailSender, inbox, company string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if email == nil {
		email = NewStubEmailSender(logger)
	}
	if company == "" {
		company = DefaultFromName
	}
	return &Service{
		email:   email,
		inbox:   inbox,
		company: company,
		logger:  logger,
	}
}

// NotifyBooking sends the booking to the office; replies go to the customer.
func (s *Service) NotifyBooking(ctx context.Context, booking *leads.Booking) error {
	if booking == nil {
		return fmt.Errorf("notify: booking is nil")
	}
	body := fmt.Sprintf(`New appointment request

Service: %s
Date: %s
Window: %s

Name: %s
Phone: %s
Email: %s
Notes: %s

Confirmation: %s
Sent from the %s website`,
		booking.Service, booking.Date, booking.Window.Label(),
		booking.Contact.Name, booking.Contact.Phone, booking.Contact.Email, valueOrDash(booking.Notes),
		booking.ConfirmationID, s.company)

	return s.email.Send(ctx, EmailMessage{
		To:      s.inbox,
		ReplyTo: booking.Contact.Email,
		Subject: fmt.Sprintf("New booking: %s on %s (%s)", booking.Service, booking.Date, booking.Window),
		Body:    body,
		Lead:    LeadBooking,
		LeadID:  booking.ConfirmationID,
	})
}

// NotifyInquiry sends a contact form submission to the office.
func (s *Service) NotifyInquiry(ctx context.Context, inquiry *leads.Inquiry) error {
	if inquiry == nil {
		return fmt.Errorf("notify: inquiry is nil")
	}
	body := fmt.Sprintf(`New contact form inquiry

Service needed: %s

Name: %s
Phone: %s
Email: %s
Message: %s

Sent from the %s website`,
		inquiry.Service,
		inquiry.Contact.Name, inquiry.Contact.Phone, inquiry.Contact.Email, valueOrDash(inquiry.Message),
		s.company)

	return s.email.Send(ctx, EmailMessage{
		To:      s.inbox,
		ReplyTo: inquiry.Contact.Email,
		Subject: fmt.Sprintf("New inquiry - %s: %s", inquiry.Service, truncate(inquiry.Contact.Name, 40)),
		Body:    body,
		Lead:    LeadContact,
		LeadID:  inquiry.ID,
	})
}

var _ leads.Notifier = (*Service)(nil)

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
