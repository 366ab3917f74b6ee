package leads

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/wolfman30/ohc-assist/internal/knowledge"
)

// Step is the booking modal's position.
type Step string

const (
	StepSelectService Step = "select_service"
	StepDetails       Step = "details"
	StepConfirmed     Step = "confirmed"
)

// Window is a preferred arrival window.
type Window string

const (
	WindowMorning   Window = "morning"
	WindowAfternoon Window = "afternoon"
	WindowEvening   Window = "evening"
)

// Label is the window as shown on the booking form.
func (w Window) Label() string {
	switch w {
	case WindowMorning:
		return "Morning (8 AM - 12 PM)"
	case WindowAfternoon:
		return "Afternoon (12 PM - 4 PM)"
	case WindowEvening:
		return "Evening (4 PM - 8 PM)"
	default:
		return string(w)
	}
}

const dateLayout = "2006-01-02"

// Contact holds the fields every form shares.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (c *Contact) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
}

func (c Contact) validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, ErrInvalidName)
	}
	if countDigits(c.Phone) < 10 {
		errs = append(errs, ErrInvalidPhone)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil || !strings.Contains(c.Email, "@") {
		errs = append(errs, ErrInvalidEmail)
	}
	return errors.Join(errs...)
}

// BookingRequest is the body of the appointment booking modal.
type BookingRequest struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	Window    Window `json:"window"`
	Contact
	Notes string `json:"notes"`
}

// Validate checks the request against the service catalog. today is the
// current date in the office's time zone.
func (r *BookingRequest) Validate(facts knowledge.CompanyFacts, today time.Time) error {
	r.ServiceID = strings.TrimSpace(r.ServiceID)
	r.Date = strings.TrimSpace(r.Date)
	r.Window = Window(strings.ToLower(strings.TrimSpace(string(r.Window))))
	r.Notes = strings.TrimSpace(r.Notes)
	r.Contact.normalize()

	var errs []error
	if _, ok := facts.ServiceByID(r.ServiceID); !ok {
		errs = append(errs, ErrUnknownService)
	}
	if date, err := time.ParseInLocation(dateLayout, r.Date, today.Location()); err != nil || date.Before(startOfDay(today)) {
		errs = append(errs, ErrInvalidDate)
	}
	switch r.Window {
	case WindowMorning, WindowAfternoon, WindowEvening:
	default:
		errs = append(errs, ErrInvalidWindow)
	}
	if err := r.Contact.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Booking is an accepted appointment request.
type Booking struct {
	ConfirmationID string    `json:"confirmation_id"`
	Step           Step      `json:"step"`
	Service        string    `json:"service"`
	Date           string    `json:"date"`
	Window         Window    `json:"window"`
	Contact        Contact   `json:"contact"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// InquiryRequest is the body of the contact form.
type InquiryRequest struct {
	Contact
	Service string `json:"service"`
	Message string `json:"message"`
}

// Validate checks the request against the contact form's service options.
func (r *InquiryRequest) Validate(facts knowledge.CompanyFacts) error {
	r.Service = strings.TrimSpace(r.Service)
	r.Message = strings.TrimSpace(r.Message)
	r.Contact.normalize()

	var errs []error
	if !containsFold(facts.ContactServices, r.Service) {
		errs = append(errs, ErrUnknownService)
	}
	if err := r.Contact.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Inquiry is an accepted contact form submission.
type Inquiry struct {
	ID        string    `json:"id"`
	Contact   Contact   `json:"contact"`
	Service   string    `json:"service"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func containsFold(options []string, value string) bool {
	for _, opt := range options {
		if strings.EqualFold(opt, value) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
