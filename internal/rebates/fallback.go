package rebates

import (
	"fmt"

	"github.com/wolfman30/ohc-assist/internal/knowledge"
)

// rangeSpread is how far below the cap the low end of an estimate sits.
const rangeSpread = 2000

// Cap returns the maximum rebate for an upgrade from the service catalog.
// UpgradeAll is capped by the headline figure.
func Cap(facts knowledge.CompanyFacts, upgrade UpgradeType) int {
	if id := upgrade.serviceID(); id != "" {
		if svc, ok := facts.ServiceByID(id); ok {
			return svc.MaxRebate
		}
	}
	return facts.HeadlineRebate
}

// FormatRange renders "$low - $high" for a cap.
func FormatRange(limit int) string {
	low := limit - rangeSpread
	if low < 0 {
		low = 0
	}
	return fmt.Sprintf("%s - %s", knowledge.FormatDollars(low), knowledge.FormatDollars(limit))
}

// FallbackSummary builds an estimate from local catalog data only.
func FallbackSummary(facts knowledge.CompanyFacts, upgrade UpgradeType) Summary {
	limit := Cap(facts, upgrade)
	return Summary{
		TotalAmount: FormatRange(limit),
		Breakdown:   allocate(facts.Programs, limit),
		Steps: []string{
			"Book a pre-upgrade energy audit with a registered energy advisor.",
			fmt.Sprintf("Install your %s with a licensed contractor such as %s.", upgrade.Label(), companyName(facts)),
			"Complete the post-upgrade audit and submit the rebate application.",
			"Receive your rebate cheque, typically within 8-12 weeks.",
		},
		Tips: []string{
			"Heat pumps qualify for the largest combined incentives.",
			"Keep every invoice and model number for the application.",
			fmt.Sprintf("Call %s and we will handle the rebate paperwork for you.", facts.Phone),
		},
	}
}

// FallbackComparison builds a comparison of the three main upgrade paths from
// local catalog data only.
func FallbackComparison(facts knowledge.CompanyFacts) Comparison {
	program := func(limit int) string {
		items := allocate(facts.Programs, limit)
		if len(items) == 0 {
			return "Manufacturer promotions"
		}
		return items[0].Source
	}
	hp, furnace, ac := Cap(facts, UpgradeHeatPump), Cap(facts, UpgradeFurnace), Cap(facts, UpgradeAC)

	return Comparison{
		Comparison: []Option{
			{
				Type:         string(UpgradeHeatPump),
				Label:        "Cold-Climate Heat Pump",
				RebateAmount: "Up to " + knowledge.FormatDollars(hp),
				Program:      program(hp),
				Pros: []string{
					"Heats and cools with one system",
					"Largest rebates available",
					"Lowest operating emissions",
				},
				Cons: []string{
					"Higher upfront cost",
					"May need a backup heat source in extreme cold",
				},
				Summary:          "The best long-term value for most GTA homes once rebates are applied.",
				EfficiencyRating: 9,
			},
			{
				Type:         string(UpgradeFurnace),
				Label:        "High-Efficiency Gas Furnace",
				RebateAmount: "Up to " + knowledge.FormatDollars(furnace),
				Program:      program(furnace),
				Pros: []string{
					"Lower upfront cost",
					"Reliable heat in the coldest weather",
				},
				Cons: []string{
					"Heating only",
					"Ongoing natural gas costs",
				},
				Summary:          "A dependable, budget-friendly replacement for an ageing furnace.",
				EfficiencyRating: 7,
			},
			{
				Type:         string(UpgradeAC),
				Label:        "Central Air Conditioner",
				RebateAmount: "Up to " + knowledge.FormatDollars(ac),
				Program:      program(ac),
				Pros: []string{
					"Whole-home summer comfort",
					"Quick single-day install",
				},
				Cons: []string{
					"Cooling only",
					"Smallest rebate of the three",
				},
				Summary:          "Good for homes that already have a modern furnace.",
				EfficiencyRating: 6,
			},
		},
		OverallRecommendation: fmt.Sprintf("A heat pump unlocks up to %s in combined rebates and replaces both furnace and AC. Call %s to book your free audit.",
			knowledge.FormatDollars(facts.HeadlineRebate), facts.Phone),
		Disclaimer: "Estimates are based on current Enbridge HER+ and Save on Energy program caps. Final amounts depend on your energy audit and program eligibility.",
	}
}

// allocate splits limit across programs in declaration order, each capped at
// its own maximum.
func allocate(programs []knowledge.RebateProgram, limit int) []BreakdownItem {
	remaining := limit
	items := []BreakdownItem{}
	for _, p := range programs {
		if remaining <= 0 {
			break
		}
		amount := p.MaxAmount
		if amount > remaining {
			amount = remaining
		}
		if amount <= 0 {
			continue
		}
		items = append(items, BreakdownItem{
			Source:      p.Name,
			Amount:      knowledge.FormatDollars(amount),
			Description: p.Description,
		})
		remaining -= amount
	}
	return items
}

func companyName(facts knowledge.CompanyFacts) string {
	if facts.CompanyName == "" {
		return "our team"
	}
	return facts.CompanyName
}
