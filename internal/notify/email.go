package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// DefaultFromName signs outgoing mail when no sender name is configured.
const DefaultFromName = "Ontario Heating and Cooling"

// LeadKind tags office mail with the form that produced it.
type LeadKind string

const (
	LeadBooking LeadKind = "booking"
	LeadContact LeadKind = "contact"
)

// leadCategory groups all website lead mail in provider dashboards.
const leadCategory = "website-lead"

// leadIDHeader carries the confirmation or inquiry id so office replies can
// be matched to the form submission.
const leadIDHeader = "X-OHC-Lead-ID"

// EmailSender delivers one message. SendGrid, SES and the stub implement it.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is one office notification. ReplyTo is the customer's address.
type EmailMessage struct {
	To      string
	ToName  string
	ReplyTo string
	Subject string
	Body    string
	HTML    string

	Lead   LeadKind
	LeadID string
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender sends lead mail through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *logging.Logger
}

// NewSendGridSender returns nil without an API key.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultFromName
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}

	response, err := s.client.SendWithContext(ctx, sendGridMessage(s.from, msg))
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "lead", msg.Lead, "lead_id", msg.LeadID)
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid rejected lead mail", "status", response.StatusCode, "body", response.Body, "lead_id", msg.LeadID)
		return fmt.Errorf("notify: sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("lead mail sent via sendgrid", "lead", msg.Lead, "lead_id", msg.LeadID, "status", response.StatusCode)
	return nil
}

// sendGridMessage builds the v3 payload. Leads are categorised by form and
// carry their id as a header and a custom arg for event webhooks.
func sendGridMessage(from *mail.Email, msg EmailMessage) *mail.SGMailV3 {
	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(from, msg.Subject, mail.NewEmail(msg.ToName, msg.To), msg.Body, html)
	if msg.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}
	if msg.Lead != "" {
		message.AddCategories(leadCategory, string(msg.Lead))
	}
	if msg.LeadID != "" {
		message.SetHeader(leadIDHeader, msg.LeadID)
		message.SetCustomArg("lead_id", msg.LeadID)
	}
	return message
}

// StubEmailSender logs lead mail instead of sending it. EMAIL_PROVIDER=stub.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: lead mail not sent",
		"lead", msg.Lead,
		"lead_id", msg.LeadID,
		"subject", msg.Subject,
	)
	return nil
}
