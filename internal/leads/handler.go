package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// Handler handles HTTP requests for bookings and contact inquiries
type Handler struct {
	intake *Intake
	logger *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(intake *Intake, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		intake: intake,
		logger: logger,
	}
}

// CreateBooking handles POST /api/bookings requests
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode booking request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	booking, err := h.intake.Book(r.Context(), req)
	if err != nil {
		h.writeIntakeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// CreateInquiry handles POST /api/contact requests
func (h *Handler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req InquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode contact request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inquiry, err := h.intake.Inquire(r.Context(), req)
	if err != nil {
		h.writeIntakeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inquiry)
}

func (h *Handler) writeIntakeError(w http.ResponseWriter, err error) {
	switch {
	case IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotificationFailed):
		writeError(w, http.StatusBadGateway, ErrNotificationFailed.Error())
	default:
		h.logger.Error("intake failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
