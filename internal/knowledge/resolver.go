package knowledge

import (
	"fmt"
	"strings"
)

// Match is the outcome of a fallback lookup.
type Match struct {
	Text string
	// Question is the matched entry's question; empty for the generic reply.
	Question string
	Matched  bool
}

// Resolver answers free text from the static knowledge base. It has no side
// effects and never fails, so it is safe to call on any error path.
type Resolver struct {
	base    *Base
	generic string
	// normalized keyword and question text, aligned with base.entries
	keywords  [][]string
	questions []string
}

// NewResolver prepares a resolver over base. A nil base uses Default().
func NewResolver(base *Base) *Resolver {
	if base == nil {
		base = Default()
	}
	r := &Resolver{
		base:      base,
		generic:   GenericReply(base.facts),
		keywords:  make([][]string, len(base.entries)),
		questions: make([]string, len(base.entries)),
	}
	for i, e := range base.entries {
		kws := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			if kw = normalize(kw); kw != "" {
				kws = append(kws, kw)
			}
		}
		r.keywords[i] = kws
		r.questions[i] = normalize(e.Question)
	}
	return r
}

// Resolve returns the answer of the first entry, in declaration order, whose
// keyword appears in the input or whose question the input contains. When
// nothing matches it returns the generic phone-redirect reply.
func (r *Resolver) Resolve(input string) Match {
	text := normalize(input)
	if text != "" {
		for i, e := range r.base.entries {
			if r.matches(i, text) {
				return Match{Text: e.Answer, Question: e.Question, Matched: true}
			}
		}
	}
	return Match{Text: r.generic}
}

func (r *Resolver) matches(i int, text string) bool {
	for _, kw := range r.keywords[i] {
		if strings.Contains(text, kw) {
			return true
		}
	}
	q := r.questions[i]
	return q != "" && strings.Contains(text, q)
}

// GenericReply is the no-match answer. It always carries the phone number and
// the headline rebate so the visitor has a next step.
func GenericReply(facts CompanyFacts) string {
	headline := facts.HeadlineRebate
	if headline <= 0 {
		headline = defaultFacts.HeadlineRebate
	}
	phone := facts.Phone
	if strings.TrimSpace(phone) == "" {
		phone = defaultFacts.Phone
	}
	return fmt.Sprintf(
		"I'm not exactly sure about that, but I'd love to help! For specific inquiries, please call our 24/7 line at %s or ask about our %s heat pump rebates.",
		phone, FormatDollars(headline),
	)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
