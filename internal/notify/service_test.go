package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wolfman30/ohc-assist/internal/leads"
)

type mockEmailSender struct {
	sent []EmailMessage
	err  error
}

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestService_NotifyBooking(t *testing.T) {
	email := &mockEmailSender{}
	svc := NewService(email, "info@hvacohc.ca", "", nil)

	err := svc.NotifyBooking(context.Background(), &leads.Booking{
		ConfirmationID: "conf-1",
		Service:        "Heat Pumps",
		Date:           "2026-03-12",
		Window:         leads.WindowAfternoon,
		Contact:        leads.Contact{Name: "Jane Doe", Phone: "416-555-0123", Email: "jane@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(email.sent))
	}

	msg := email.sent[0]
	if msg.To != "info@hvacohc.ca" || msg.ReplyTo != "jane@example.com" {
		t.Errorf("unexpected addressing %+v", msg)
	}
	if msg.Lead != LeadBooking || msg.LeadID != "conf-1" {
		t.Errorf("expected booking lead tagging, got %q %q", msg.Lead, msg.LeadID)
	}
	if msg.Subject != "New booking: Heat Pumps on 2026-03-12 (afternoon)" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"Afternoon (12 PM - 4 PM)", "416-555-0123", "conf-1", "Notes: -", DefaultFromName} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestService_NotifyInquiry(t *testing.T) {
	email := &mockEmailSender{}
	svc := NewService(email, "info@hvacohc.ca", "OHC", nil)

	err := svc.NotifyInquiry(context.Background(), &leads.Inquiry{
		ID:      "inq-7",
		Contact: leads.Contact{Name: "Sam", Phone: "647-555-0199", Email: "sam@example.com"},
		Service: "Emergency Repair",
		Message: "No heat since last night",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := email.sent[0]
	if !strings.Contains(msg.Subject, "Emergency Repair") || !strings.Contains(msg.Body, "No heat since last night") {
		t.Errorf("unexpected message %+v", msg)
	}
	if msg.Lead != LeadContact || msg.LeadID != "inq-7" {
		t.Errorf("expected contact lead tagging, got %q %q", msg.Lead, msg.LeadID)
	}
}

func TestService_PropagatesSendError(t *testing.T) {
	svc := NewService(&mockEmailSender{err: errors.New("sendgrid 500")}, "info@hvacohc.ca", "", nil)
	if err := svc.NotifyInquiry(context.Background(), &leads.Inquiry{Service: "Furnace Repair"}); err == nil {
		t.Fatal("expected send error")
	}
	if err := svc.NotifyBooking(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil booking")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("unexpected %q", got)
	}
	if got := truncate(strings.Repeat("a", 20), 10); got != "aaaaaaa..." {
		t.Errorf("unexpected %q", got)
	}
}
