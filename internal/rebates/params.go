package rebates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidParams is returned when estimator inputs fail validation.
var ErrInvalidParams = errors.New("rebates: invalid parameters")

// UpgradeType is the planned equipment upgrade.
type UpgradeType string

const (
	UpgradeHeatPump UpgradeType = "heat-pump"
	UpgradeFurnace  UpgradeType = "furnace"
	UpgradeAC       UpgradeType = "ac"
	UpgradeAll      UpgradeType = "all"
)

// Label is the human form used in prompts and fallback copy.
func (u UpgradeType) Label() string {
	switch u {
	case UpgradeHeatPump:
		return "heat pump"
	case UpgradeFurnace:
		return "high-efficiency furnace"
	case UpgradeAC:
		return "central air conditioner"
	case UpgradeAll:
		return "full heating and cooling system"
	default:
		return string(u)
	}
}

// serviceID maps an upgrade to the catalog entry whose cap bounds it.
func (u UpgradeType) serviceID() string {
	switch u {
	case UpgradeHeatPump:
		return "heat-pumps"
	case UpgradeFurnace:
		return "furnace-repair"
	case UpgradeAC:
		return "ac-install"
	default:
		return ""
	}
}

// UpgradeTypes lists accepted upgrade types in display order.
var UpgradeTypes = []UpgradeType{UpgradeHeatPump, UpgradeFurnace, UpgradeAC, UpgradeAll}

// HomeSizes maps each square-footage bucket to its label.
var HomeSizes = map[int]string{
	1000: "Up to 1,500 sqft",
	2000: "1,500 - 2,500 sqft",
	3500: "2,500 - 4,000 sqft",
	5000: "4,000+ sqft",
}

// DefaultHomeSize is preselected by the site form.
const DefaultHomeSize = 2000

var postalCodePattern = regexp.MustCompile(`^[A-Z]\d[A-Z] ?\d[A-Z]\d$`)

// Params are the estimator form inputs.
type Params struct {
	PostalCode string      `json:"postal_code"`
	HomeSize   int         `json:"home_size"`
	Upgrade    UpgradeType `json:"upgrade_type,omitempty"`
}

// Normalize upper-cases the postal code and inserts the canonical space.
func (p Params) Normalize() Params {
	code := strings.ToUpper(strings.Join(strings.Fields(p.PostalCode), ""))
	if len(code) == 6 {
		code = code[:3] + " " + code[3:]
	}
	p.PostalCode = code
	p.Upgrade = UpgradeType(strings.ToLower(strings.TrimSpace(string(p.Upgrade))))
	return p
}

// Validate checks the fields an estimate needs. Comparisons skip the upgrade
// type because they cover every path.
func (p Params) Validate(requireUpgrade bool) error {
	var problems []string
	if !postalCodePattern.MatchString(p.PostalCode) {
		problems = append(problems, fmt.Sprintf("postal code %q is not a Canadian postal code", p.PostalCode))
	}
	if _, ok := HomeSizes[p.HomeSize]; !ok {
		problems = append(problems, fmt.Sprintf("home size %d is not one of 1000, 2000, 3500, 5000", p.HomeSize))
	}
	if requireUpgrade && !validUpgrade(p.Upgrade) {
		problems = append(problems, fmt.Sprintf("upgrade type %q is not supported", p.Upgrade))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(problems, "; "))
	}
	return nil
}

// HomeSizeLabel returns the bucket label for p.HomeSize.
func (p Params) HomeSizeLabel() string {
	if label, ok := HomeSizes[p.HomeSize]; ok {
		return label
	}
	return fmt.Sprintf("about %d sqft", p.HomeSize)
}

func validUpgrade(u UpgradeType) bool {
	for _, t := range UpgradeTypes {
		if t == u {
			return true
		}
	}
	return false
}
