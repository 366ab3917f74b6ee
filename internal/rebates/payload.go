package rebates

import "github.com/wolfman30/ohc-assist/internal/generation"

// BreakdownItem is one program's share of an estimate.
type BreakdownItem struct {
	Source      string `json:"source"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// Summary is the structured estimate for one upgrade.
type Summary struct {
	TotalAmount string          `json:"totalAmount"`
	Breakdown   []BreakdownItem `json:"breakdown"`
	Steps       []string        `json:"steps"`
	Tips        []string        `json:"tips"`
}

// Option is one upgrade path in a comparison.
type Option struct {
	Type             string   `json:"type"`
	Label            string   `json:"label"`
	RebateAmount     string   `json:"rebateAmount"`
	Program          string   `json:"program"`
	Pros             []string `json:"pros"`
	Cons             []string `json:"cons"`
	Summary          string   `json:"summary"`
	EfficiencyRating float64  `json:"efficiencyRating"`
}

// Comparison weighs several upgrade paths against each other.
type Comparison struct {
	Comparison            []Option `json:"comparison"`
	OverallRecommendation string   `json:"overallRecommendation"`
	Disclaimer            string   `json:"disclaimer"`
}

var (
	minRating = 1.0
	maxRating = 10.0
)

// amountPattern requires at least one digit in a dollar figure.
const amountPattern = `\d`

func stringList(desc string) *generation.Schema {
	return &generation.Schema{
		Type:        generation.TypeArray,
		Description: desc,
		Items:       &generation.Schema{Type: generation.TypeString},
	}
}

// SummarySchema declares the shape of Summary.
func SummarySchema() *generation.Schema {
	return &generation.Schema{
		Type:     generation.TypeObject,
		Required: []string{"totalAmount", "breakdown", "steps", "tips"},
		Properties: map[string]*generation.Schema{
			"totalAmount": {
				Type:        generation.TypeString,
				Description: "Estimated total rebate, e.g. \"$8,500 - $10,500\"",
				MinLength:   1,
				Pattern:     amountPattern,
			},
			"breakdown": {
				Type:     generation.TypeArray,
				MinItems: 1,
				Items: &generation.Schema{
					Type:     generation.TypeObject,
					Required: []string{"source", "amount", "description"},
					Properties: map[string]*generation.Schema{
						"source":      {Type: generation.TypeString, Description: "Program name"},
						"amount":      {Type: generation.TypeString, Description: "Dollar amount from this program"},
						"description": {Type: generation.TypeString},
					},
				},
			},
			"steps": stringList("Ordered steps to claim the rebates"),
			"tips":  stringList("Short money-saving tips"),
		},
	}
}

// ComparisonSchema declares the shape of Comparison.
func ComparisonSchema() *generation.Schema {
	return &generation.Schema{
		Type:     generation.TypeObject,
		Required: []string{"comparison", "overallRecommendation", "disclaimer"},
		Properties: map[string]*generation.Schema{
			"comparison": {
				Type:     generation.TypeArray,
				MinItems: 1,
				Items: &generation.Schema{
					Type:     generation.TypeObject,
					Required: []string{"type", "label", "rebateAmount", "program", "pros", "cons", "summary", "efficiencyRating"},
					Properties: map[string]*generation.Schema{
						"type":         {Type: generation.TypeString, Description: "heat-pump, furnace or ac"},
						"label":        {Type: generation.TypeString},
						"rebateAmount": {Type: generation.TypeString, MinLength: 1},
						"program":      {Type: generation.TypeString},
						"pros":         stringList(""),
						"cons":         stringList(""),
						"summary":      {Type: generation.TypeString},
						"efficiencyRating": {
							Type:        generation.TypeNumber,
							Description: "Energy efficiency from 1 (poor) to 10 (best)",
							Minimum:     &minRating,
							Maximum:     &maxRating,
						},
					},
				},
			},
			"overallRecommendation": {Type: generation.TypeString, MinLength: 1},
			"disclaimer":            {Type: generation.TypeString},
		},
	}
}
