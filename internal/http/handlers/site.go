package handlers

import (
	"net/http"

	"github.com/wolfman30/ohc-assist/internal/knowledge"
)

// SiteHandler serves the static content the marketing pages render from.
type SiteHandler struct {
	base *knowledge.Base
}

func NewSiteHandler(base *knowledge.Base) *SiteHandler {
	if base == nil {
		base = knowledge.Default()
	}
	return &SiteHandler{base: base}
}

type siteService struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MaxRebate   int    `json:"max_rebate"`
	RebateLabel string `json:"rebate_label"`
}

type siteResponse struct {
	CompanyName     string                    `json:"company_name"`
	Tagline         string                    `json:"tagline"`
	Phone           string                    `json:"phone"`
	Email           string                    `json:"email"`
	Address         string                    `json:"address"`
	ServiceAreas    []string                  `json:"service_areas"`
	HeadlineRebate  string                    `json:"headline_rebate"`
	Services        []siteService             `json:"services"`
	Programs        []knowledge.RebateProgram `json:"programs"`
	ContactServices []string                  `json:"contact_services"`
	Questions       []string                  `json:"questions"`
	Timeline        []knowledge.TimelineStep  `json:"timeline"`
	Reviews         []knowledge.Review        `json:"reviews"`
}

// GetSite returns company facts, the service catalog, FAQ questions, the
// install timeline and reviews.
func (h *SiteHandler) GetSite(w http.ResponseWriter, r *http.Request) {
	facts := h.base.Facts()
	services := make([]siteService, 0, len(facts.Services))
	for _, s := range facts.Services {
		services = append(services, siteService{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			MaxRebate:   s.MaxRebate,
			RebateLabel: s.RebateLabel(),
		})
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, siteResponse{
		CompanyName:     facts.CompanyName,
		Tagline:         facts.Tagline,
		Phone:           facts.Phone,
		Email:           facts.Email,
		Address:         facts.Address,
		ServiceAreas:    facts.ServiceAreas,
		HeadlineRebate:  knowledge.FormatDollars(facts.HeadlineRebate),
		Services:        services,
		Programs:        facts.Programs,
		ContactServices: facts.ContactServices,
		Questions:       h.base.Questions(),
		Timeline:        h.base.Timeline(),
		Reviews:         h.base.Reviews(),
	})
}

// HealthCheck handles GET /health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
