package tier

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier pairs a badge (a guild role) with the lifetime total required for it.
type Tier struct {
	Name      string
	BadgeID   string
	Threshold decimal.Decimal
}

// String renders the tier as "Name (threshold)".
func (t Tier) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.Threshold.String())
}

// Table is an ordered tier list, highest threshold first.
type Table struct {
	tiers []Tier
}

// New builds a Table from tiers already ordered by descending threshold.
// The slice is copied so later mutation by the caller cannot break ordering.
//
// Returns every ValidationError found, joined, rather than the first one.
func New(tiers []Tier) (*Table, error) {
	if errs := validate(tiers); len(errs) > 0 {
		return nil, joinValidation(errs)
	}

	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return &Table{tiers: cp}, nil
}

// Resolve returns the first tier whose threshold is <= total.
// The second result is false when total is below every threshold.
func (t *Table) Resolve(total decimal.Decimal) (Tier, bool) {
	for _, tr := range t.tiers {
		if total.GreaterThanOrEqual(tr.Threshold) {
			return tr, true
		}
	}
	return Tier{}, false
}

// Below returns the tiers whose threshold is strictly less than ref's,
// in table order.
func (t *Table) Below(ref Tier) []Tier {
	var out []Tier
	for _, tr := range t.tiers {
		if tr.Threshold.LessThan(ref.Threshold) {
			out = append(out, tr)
		}
	}
	return out
}

// Tiers returns a copy of the table in order.
func (t *Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// Len returns the number of tiers.
func (t *Table) Len() int {
	return len(t.tiers)
}
