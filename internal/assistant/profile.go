package assistant

import (
	"time"

	"github.com/wolfman30/ohc-assist/internal/knowledge"
	"github.com/wolfman30/ohc-assist/internal/pipeline"
)

// DefaultGreeting opens every chat transcript.
const DefaultGreeting = "Hi! I am the OHC Assistant. How can I help you with your heating, cooling, or rebates today?"

// DefaultHistoryWindow is how many prior turns accompany a chat message.
const DefaultHistoryWindow = 4

// Profile configures one chat widget variant.
type Profile struct {
	Name           string        `json:"name"`
	Greeting       string        `json:"greeting"`
	QuickQuestions []string      `json:"quick_questions"`
	SuccessFloor   time.Duration `json:"-"`
	FallbackFloor  time.Duration `json:"-"`
	HistoryWindow  int           `json:"-"`
}

// DefaultProfile offers the FAQ questions as quick questions.
func DefaultProfile(base *knowledge.Base) Profile {
	if base == nil {
		base = knowledge.Default()
	}
	return Profile{
		Name:           "site",
		Greeting:       DefaultGreeting,
		QuickQuestions: base.Questions(),
		SuccessFloor:   pipeline.DefaultSuccessFloor,
		FallbackFloor:  pipeline.DefaultFallbackFloor,
		HistoryWindow:  DefaultHistoryWindow,
	}
}

func (p Profile) withDefaults(base *knowledge.Base) Profile {
	def := DefaultProfile(base)
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.Greeting == "" {
		p.Greeting = def.Greeting
	}
	if p.QuickQuestions == nil {
		p.QuickQuestions = def.QuickQuestions
	}
	if p.SuccessFloor <= 0 {
		p.SuccessFloor = def.SuccessFloor
	}
	if p.FallbackFloor <= 0 {
		p.FallbackFloor = def.FallbackFloor
	}
	if p.HistoryWindow <= 0 {
		p.HistoryWindow = def.HistoryWindow
	}
	return p
}
