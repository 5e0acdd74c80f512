package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LedgerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <user-id>",
		Short: "Print one member's donation total",
		Long: `Print a member's lifetime donation total and tier from the ledger.

Reads the ledger directly; the bot does not need to be running.

Example:
  donobot check 1345839570041835591
  donobot check --backend sqlite --ledger ./donations.db 1345839570041835591`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}
	addLedgerFlags(cmd, opts)

	return cmd
}

func runCheck(opts *LedgerOptions, userID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	o, err := openOffline(cmd.Context(), opts, formatter)
	if err != nil {
		return err
	}
	defer o.Close()

	total, ok := o.store.Total(userID)
	if formatter.Format == "json" {
		if !ok {
			return formatter.Success(donor{UserID: userID, Total: "0"})
		}
		return formatter.Success(o.donor(entryOf(userID, total)))
	}

	if !ok {
		return formatter.Success(fmt.Sprintf("%s has not donated anything yet.", userID))
	}
	return formatter.Success(o.line(entryOf(userID, total)))
}
