package knowledge

import "fmt"

// Entry is one canned question/answer pair matched by keyword.
type Entry struct {
	Question string   `json:"question" yaml:"question"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Answer   string   `json:"answer" yaml:"answer"`
}

// Service is one line of the service catalog.
type Service struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	// MaxRebate is the program cap in whole dollars; zero means no rebate applies.
	MaxRebate int `json:"max_rebate" yaml:"max_rebate"`
}

// RebateLabel renders the cap the way the site shows it ("Up to $10,500").
func (s Service) RebateLabel() string {
	if s.MaxRebate <= 0 {
		return ""
	}
	return "Up to " + FormatDollars(s.MaxRebate)
}

// RebateProgram describes a provincial or utility incentive program.
type RebateProgram struct {
	Name        string `json:"name" yaml:"name"`
	MaxAmount   int    `json:"max_amount" yaml:"max_amount"`
	Description string `json:"description" yaml:"description"`
}

// CompanyFacts is the process-wide grounding record for prompts and fallbacks.
type CompanyFacts struct {
	CompanyName     string          `json:"company_name" yaml:"company_name"`
	Tagline         string          `json:"tagline" yaml:"tagline"`
	Phone           string          `json:"phone" yaml:"phone"`
	Email           string          `json:"email" yaml:"email"`
	Address         string          `json:"address" yaml:"address"`
	ServiceAreas    []string        `json:"service_areas" yaml:"service_areas"`
	Services        []Service       `json:"services" yaml:"services"`
	Programs        []RebateProgram `json:"programs" yaml:"programs"`
	HeadlineRebate  int             `json:"headline_rebate" yaml:"headline_rebate"`
	ContactServices []string        `json:"contact_services" yaml:"contact_services"`
}

// ServiceByID returns the catalog entry with the given id.
func (f CompanyFacts) ServiceByID(id string) (Service, bool) {
	for _, svc := range f.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

// TimelineStep is one stage of the install journey shown on the site.
type TimelineStep struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Review is a customer testimonial.
type Review struct {
	Author string `json:"author" yaml:"author"`
	Rating int    `json:"rating" yaml:"rating"`
	Text   string `json:"text" yaml:"text"`
	Date   string `json:"date" yaml:"date"`
}

// Base is the immutable knowledge base. Accessors hand out copies so callers
// cannot mutate the shared tables after load.
type Base struct {
	facts    CompanyFacts
	entries  []Entry
	timeline []TimelineStep
	reviews  []Review
}

// NewBase builds a knowledge base from the given tables. The slices are copied.
func NewBase(facts CompanyFacts, entries []Entry, timeline []TimelineStep, reviews []Review) *Base {
	return &Base{
		facts:    cloneFacts(facts),
		entries:  cloneEntries(entries),
		timeline: append([]TimelineStep(nil), timeline...),
		reviews:  append([]Review(nil), reviews...),
	}
}

// Facts returns a copy of the company facts.
func (b *Base) Facts() CompanyFacts { return cloneFacts(b.facts) }

// Entries returns the FAQ table in declaration order.
func (b *Base) Entries() []Entry { return cloneEntries(b.entries) }

func (b *Base) Timeline() []TimelineStep { return append([]TimelineStep(nil), b.timeline...) }

func (b *Base) Reviews() []Review { return append([]Review(nil), b.reviews...) }

// Questions lists the FAQ questions in declaration order; the chat widget
// offers them as suggested quick questions.
func (b *Base) Questions() []string {
	out := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e.Question)
	}
	return out
}

func cloneFacts(f CompanyFacts) CompanyFacts {
	f.ServiceAreas = append([]string(nil), f.ServiceAreas...)
	f.Services = append([]Service(nil), f.Services...)
	f.Programs = append([]RebateProgram(nil), f.Programs...)
	f.ContactServices = append([]string(nil), f.ContactServices...)
	return f
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Keywords = append([]string(nil), e.Keywords...)
		out[i] = e
	}
	return out
}

// FormatDollars renders whole dollars with thousands separators, e.g. $10,500.
func FormatDollars(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var out []byte
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	if neg {
		return "-$" + string(out)
	}
	return "$" + string(out)
}
