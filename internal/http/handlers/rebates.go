package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/wolfman30/ohc-assist/internal/assistant"
	"github.com/wolfman30/ohc-assist/internal/pipeline"
	"github.com/wolfman30/ohc-assist/internal/rebates"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// RebateService is the estimator half of assistant.Service.
type RebateService interface {
	StartEstimator() *assistant.RebateSession
	EstimateRebate(ctx context.Context, sessionID string, params rebates.Params) (pipeline.DisplayResult[rebates.Summary], error)
	CompareRebatePaths(ctx context.Context, sessionID string, params rebates.Params) (pipeline.DisplayResult[rebates.Comparison], error)
}

// RebateHandler serves the rebate estimator widget.
type RebateHandler struct {
	rebates RebateService
	logger  *logging.Logger
}

func NewRebateHandler(svc RebateService, logger *logging.Logger) *RebateHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &RebateHandler{rebates: svc, logger: logger}
}

type rebateRequest struct {
	rebates.Params
	SessionID string `json:"session_id,omitempty"`
}

// StartSession handles POST /api/rebates/sessions.
func (h *RebateHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	session := h.rebates.StartEstimator()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": session.ID()})
}

// Estimate handles POST /api/rebates/estimate.
func (h *RebateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	result, err := h.rebates.EstimateRebate(r.Context(), req.SessionID, req.Params)
	if err != nil {
		writeAssistantError(w, h.logger, req.SessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Compare handles POST /api/rebates/compare.
func (h *RebateHandler) Compare(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	result, err := h.rebates.CompareRebatePaths(r.Context(), req.SessionID, req.Params)
	if err != nil {
		writeAssistantError(w, h.logger, req.SessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *RebateHandler) decode(w http.ResponseWriter, r *http.Request) (rebateRequest, bool) {
	var req rebateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode rebate request", "error", err)
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return req, false
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	return req, true
}
