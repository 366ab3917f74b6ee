package rebates

import (
	"fmt"
	"strings"
)

// EstimatePrompt asks for a Summary for one upgrade.
func EstimatePrompt(p Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Estimate the Ontario rebates a homeowner can claim for a %s upgrade.\n", p.Upgrade.Label())
	fmt.Fprintf(&b, "Postal code: %s\n", p.PostalCode)
	fmt.Fprintf(&b, "Home size: %s\n", p.HomeSizeLabel())
	b.WriteString("Return totalAmount as a dollar range, a breakdown per rebate program, ")
	b.WriteString("the steps to claim the rebates in order, and two or three practical tips.")
	return b.String()
}

// ComparePrompt asks for a Comparison of the heat pump, furnace and AC paths.
func ComparePrompt(p Params) string {
	var b strings.Builder
	b.WriteString("Compare the heat pump, high-efficiency furnace and central air conditioner upgrade paths for this home.\n")
	fmt.Fprintf(&b, "Postal code: %s\n", p.PostalCode)
	fmt.Fprintf(&b, "Home size: %s\n", p.HomeSizeLabel())
	b.WriteString("For each path give the rebate amount, the program that pays it, pros, cons, a one sentence summary ")
	b.WriteString("and an efficiencyRating from 1 to 10. Finish with an overall recommendation and a short disclaimer ")
	b.WriteString("that final amounts depend on the program's energy audit.")
	return b.String()
}
