package tier

import (
	"errors"
	"fmt"
)

// Validation error codes (E200-E299)
const (
	ErrCodeEmptyTable        = "E200" // at least one tier required
	ErrCodeEmptyBadge        = "E201" // badge id is required
	ErrCodeNegativeThreshold = "E202" // thresholds must be >= 0
	ErrCodeUnordered         = "E203" // thresholds must be strictly descending
	ErrCodeDuplicateBadge    = "E204" // badge used by more than one tier
	ErrCodeSchema            = "E205" // tiers.yaml does not satisfy tiers.cue
	ErrCodeParse             = "E206" // tiers.yaml is not valid YAML
)

// ValidationError describes one problem with a tier table.
type ValidationError struct {
	Index   int    `json:"index"` // position in the table, -1 when not tied to a tier
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("[%s] tier %d: %s", e.Code, e.Index, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// HasCode reports whether err contains a ValidationError with the given code.
func HasCode(err error, code string) bool {
	var multi interface{ Unwrap() []error }
	if errors.As(err, &multi) {
		for _, e := range multi.Unwrap() {
			if HasCode(e, code) {
				return true
			}
		}
		return false
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}

func validate(tiers []Tier) []ValidationError {
	if len(tiers) == 0 {
		return []ValidationError{{Index: -1, Code: ErrCodeEmptyTable, Message: "at least one tier is required"}}
	}

	var errs []ValidationError
	badges := make(map[string]int, len(tiers))
	for i, t := range tiers {
		if t.BadgeID == "" {
			errs = append(errs, ValidationError{Index: i, Code: ErrCodeEmptyBadge, Message: "badge id is required"})
		} else if first, dup := badges[t.BadgeID]; dup {
			errs = append(errs, ValidationError{
				Index:   i,
				Code:    ErrCodeDuplicateBadge,
				Message: fmt.Sprintf("badge %s already used by tier %d", t.BadgeID, first),
			})
		} else {
			badges[t.BadgeID] = i
		}

		if t.Threshold.IsNegative() {
			errs = append(errs, ValidationError{
				Index:   i,
				Code:    ErrCodeNegativeThreshold,
				Message: fmt.Sprintf("threshold %s is negative", t.Threshold),
			})
		}

		// Equal thresholds fail here too, which keeps them unique.
		if i > 0 && !t.Threshold.LessThan(tiers[i-1].Threshold) {
			errs = append(errs, ValidationError{
				Index:   i,
				Code:    ErrCodeUnordered,
				Message: fmt.Sprintf("threshold %s is not below previous threshold %s", t.Threshold, tiers[i-1].Threshold),
			})
		}
	}
	return errs
}

func joinValidation(errs []ValidationError) error {
	all := make([]error, len(errs))
	for i, e := range errs {
		all[i] = e
	}
	return errors.Join(all...)
}
