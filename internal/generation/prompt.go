package generation

import (
	"fmt"
	"strings"

	"github.com/wolfman30/ohc-assist/internal/knowledge"
)

// BuildInstruction renders the grounding instruction sent with every call.
func BuildInstruction(facts knowledge.CompanyFacts) string {
	var b strings.Builder

	name := facts.CompanyName
	if name == "" {
		name = "the company"
	}
	fmt.Fprintf(&b, "You are the OHC Assistant, the website helper for %s, a residential heating and cooling contractor in Ontario.\n\n", name)

	b.WriteString("COMPANY FACTS:\n")
	fmt.Fprintf(&b, "- Phone (24/7): %s\n", facts.Phone)
	if facts.Email != "" {
		fmt.Fprintf(&b, "- Email: %s\n", facts.Email)
	}
	if facts.Address != "" {
		fmt.Fprintf(&b, "- Address: %s\n", facts.Address)
	}
	if len(facts.ServiceAreas) > 0 {
		fmt.Fprintf(&b, "- Service area: %s and the rest of the Greater Toronto Area\n", strings.Join(facts.ServiceAreas, ", "))
	}
	if len(facts.Services) > 0 {
		b.WriteString("- Services:\n")
		for _, svc := range facts.Services {
			if label := svc.RebateLabel(); label != "" {
				fmt.Fprintf(&b, "  - %s (rebates: %s)\n", svc.Title, strings.ToLower(label[:1])+label[1:])
			} else {
				fmt.Fprintf(&b, "  - %s\n", svc.Title)
			}
		}
	}
	if len(facts.Programs) > 0 {
		b.WriteString("- Rebate programs:\n")
		for _, p := range facts.Programs {
			fmt.Fprintf(&b, "  - %s, up to %s: %s\n", p.Name, knowledge.FormatDollars(p.MaxAmount), p.Description)
		}
	}
	if facts.HeadlineRebate > 0 {
		fmt.Fprintf(&b, "- Combined rebates available: up to %s\n", knowledge.FormatDollars(facts.HeadlineRebate))
	}

	b.WriteString("\nRULES:\n")
	b.WriteString("- Be concise: two to four sentences, plain text.\n")
	fmt.Fprintf(&b, "- For bookings, quotes or site visits, direct the customer to call %s or use the Book Appointment button.\n", facts.Phone)
	b.WriteString("- Only state rebate amounts, services and areas listed above. Never invent prices or availability.\n")
	b.WriteString("- If a question is outside heating, cooling, water heaters or rebates, politely steer back.\n")

	return b.String()
}
