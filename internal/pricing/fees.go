package pricing

import (
	"strings"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

// Recognized override area tags.
const (
	AreaInside  = "inside"
	AreaOutside = "outside"
)

// FeeRule matches a destination against one delivery tier. Districts
// are compared exactly after normalization; Substrings are searched in
// both the district and the address line, for suburb zones the
// district field alone does not capture.
type FeeRule struct {
	Districts  []string
	Substrings []string
	Fee        float64
	Label      string
}

// FeeTable is an ordered decision table: an explicit override wins,
// else the first matching rule, else the default. The table is plain
// data so the tiering can be changed without touching resolver logic.
type FeeTable struct {
	Rules        []FeeRule
	DefaultFee   float64
	DefaultLabel string
	InsideLabel  string
	OutsideLabel string
}

// DefaultFeeTable returns the production tiering for the Dhaka region.
func DefaultFeeTable() FeeTable {
	return FeeTable{
		Rules: []FeeRule{
			{Districts: []string{"dhaka"}, Fee: 80, Label: "Inside Dhaka"},
			{Districts: []string{"narayanganj", "gazipur"}, Fee: 120, Label: "Dhaka Suburb"},
			{Substrings: []string{"savar", "keraniganj"}, Fee: 120, Label: "Dhaka Suburb"},
		},
		DefaultFee:   150,
		DefaultLabel: "Outside Dhaka",
		InsideLabel:  "Inside Dhaka",
		OutsideLabel: "Outside Dhaka",
	}
}

// Resolve maps a destination (or explicit override) to a delivery fee
// and area label. Deterministic: same inputs always yield the same
// result.
func (t FeeTable) Resolve(addr domain.Address, override *domain.DeliveryOverride) domain.DeliveryMeta {
	if override != nil && override.Fee >= 0 {
		switch strings.ToLower(strings.TrimSpace(override.Area)) {
		case AreaInside:
			return domain.DeliveryMeta{Fee: override.Fee, Label: t.InsideLabel, Source: "override"}
		case AreaOutside:
			return domain.DeliveryMeta{Fee: override.Fee, Label: t.OutsideLabel, Source: "override"}
		}
	}

	district := strings.ToLower(strings.TrimSpace(addr.District))
	line := strings.ToLower(addr.AddressLine1)

	for _, rule := range t.Rules {
		for _, d := range rule.Districts {
			if district == d {
				return domain.DeliveryMeta{Fee: rule.Fee, Label: rule.Label, Source: "address"}
			}
		}
		for _, sub := range rule.Substrings {
			if strings.Contains(district, sub) || strings.Contains(line, sub) {
				return domain.DeliveryMeta{Fee: rule.Fee, Label: rule.Label, Source: "address"}
			}
		}
	}
	return domain.DeliveryMeta{Fee: t.DefaultFee, Label: t.DefaultLabel, Source: "address"}
}
