package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/donobot/internal/tier"
)

// tierRow is one tier as printed by the tiers command.
type tierRow struct {
	Name      string `json:"name"`
	BadgeID   string `json:"badge"`
	Threshold string `json:"threshold"`
}

// NewTiersCommand creates the tiers command.
func NewTiersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tiers",
		Short:         "Print the tier table",
		Long:          "Print the built-in tier table, highest threshold first.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTiers(rootOpts, cmd)
		},
	}

	return cmd
}

func runTiers(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	table, err := tier.Default()
	if err != nil {
		return fail(formatter, ErrCodeTiers, "invalid tier table", err)
	}

	tiers := table.Tiers()
	if formatter.Format == "json" {
		rows := make([]tierRow, 0, len(tiers))
		for _, t := range tiers {
			rows = append(rows, tierRow{Name: t.Name, BadgeID: t.BadgeID, Threshold: t.Threshold.String()})
		}
		return formatter.Success(rows)
	}

	for _, t := range tiers {
		line := fmt.Sprintf("%-10s %8s  %s", t.Name, t.Threshold.String(), t.BadgeID)
		if err := formatter.Success(line); err != nil {
			return err
		}
	}
	return nil
}
