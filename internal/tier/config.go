package tier

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed tiers.yaml
var defaultTiersYAML []byte

//go:embed tiers.cue
var tiersSchemaCUE string

// document mirrors tiers.yaml. The json tags are what CUE sees when the
// document is encoded for schema validation.
type document struct {
	Tiers []tierSpec `yaml:"tiers" json:"tiers"`
}

type tierSpec struct {
	Name      string  `yaml:"name" json:"name"`
	Badge     string  `yaml:"badge" json:"badge"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

// Default returns the table shipped in the embedded tiers.yaml.
func Default() (*Table, error) {
	return Parse(defaultTiersYAML)
}

// Parse decodes a tiers YAML document, checks it against the tiers.cue
// schema, and builds a Table from it.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ValidationError{Index: -1, Code: ErrCodeParse, Message: err.Error()}
	}

	if err := checkSchema(doc); err != nil {
		return nil, err
	}

	tiers := make([]Tier, len(doc.Tiers))
	for i, s := range doc.Tiers {
		tiers[i] = Tier{
			Name:      s.Name,
			BadgeID:   s.Badge,
			Threshold: decimal.NewFromFloat(s.Threshold),
		}
	}
	return New(tiers)
}

// checkSchema unifies the decoded document with the embedded CUE schema.
func checkSchema(doc document) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(tiersSchemaCUE, cue.Filename("tiers.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile tier schema: %w", err)
	}

	value := schema.Unify(ctx.Encode(doc))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return ValidationError{Index: -1, Code: ErrCodeSchema, Message: err.Error()}
	}
	return nil
}
