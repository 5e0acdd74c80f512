package cli

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/donobot/internal/ledger"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LedgerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every member's donation total",
		Long: `Print all ledger entries, largest total first, with the tier each
total resolves to.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}
	addLedgerFlags(cmd, opts)

	return cmd
}

func runList(opts *LedgerOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	o, err := openOffline(cmd.Context(), opts, formatter)
	if err != nil {
		return err
	}
	defer o.Close()

	entries := o.store.Entries()
	if formatter.Format == "json" {
		donors := make([]donor, 0, len(entries))
		for _, e := range entries {
			donors = append(donors, o.donor(e))
		}
		return formatter.Success(donors)
	}

	if len(entries) == 0 {
		return formatter.Success("No donations recorded.")
	}
	for _, e := range entries {
		if err := formatter.Success(o.line(e)); err != nil {
			return err
		}
	}
	return nil
}

func entryOf(userID string, total decimal.Decimal) ledger.Entry {
	return ledger.Entry{UserID: userID, Total: total}
}
