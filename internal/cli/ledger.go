package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/donobot/internal/dispatch"
	"github.com/roach88/donobot/internal/infra"
	"github.com/roach88/donobot/internal/ledger"
	"github.com/roach88/donobot/internal/tier"
)

// LedgerOptions holds flags shared by the offline ledger commands.
type LedgerOptions struct {
	*RootOptions
	Ledger  string
	Backend string
}

func addLedgerFlags(cmd *cobra.Command, opts *LedgerOptions) {
	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "ledger path (default from LEDGER_PATH)")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "ledger backend json|sqlite (default from LEDGER_BACKEND)")
}

// offline is everything an offline command needs to read the ledger.
type offline struct {
	cfg     *infra.Config
	store   *ledger.Store
	tiers   *tier.Table
	amounts *dispatch.Formatter
	closer  func() error
}

// openOffline resolves configuration, letting flags override the
// environment, and loads the ledger. It never creates a ledger: a missing
// JSON file reads as empty and a missing SQLite database is an error.
func openOffline(ctx context.Context, opts *LedgerOptions, f *OutputFormatter) (*offline, error) {
	infra.LoadDotEnv()
	cfg, err := infra.LoadLedgerConfig()
	if err != nil {
		return nil, fail(f, ErrCodeConfig, "invalid configuration", err)
	}

	if opts.Backend != "" && opts.Backend != cfg.LedgerBackend {
		path, ok := infra.DefaultLedgerPath(opts.Backend)
		if !ok {
			return nil, fail(f, ErrCodeConfig, "invalid --backend",
				fmt.Errorf("%q is not a ledger backend", opts.Backend))
		}
		cfg.LedgerBackend = opts.Backend
		if os.Getenv("LEDGER_PATH") == "" {
			cfg.LedgerPath = path
		}
	}
	if opts.Ledger != "" {
		cfg.LedgerPath = opts.Ledger
	}
	f.VerboseLog("Reading %s ledger at %s", cfg.LedgerBackend, cfg.LedgerPath)

	if cfg.LedgerBackend == ledger.BackendSQLite {
		if _, err := os.Stat(cfg.LedgerPath); err != nil {
			return nil, fail(f, ErrCodeLedger, "ledger not found", err)
		}
	}

	backend, err := ledger.OpenBackend(cfg.LedgerBackend, cfg.LedgerPath)
	if err != nil {
		return nil, fail(f, ErrCodeLedger, "failed to open ledger", err)
	}
	store, err := ledger.Open(ctx, backend)
	if err != nil {
		_ = backend.Close()
		return nil, fail(f, ErrCodeLedger, "failed to load ledger", err)
	}

	tiers, err := tier.Default()
	if err != nil {
		_ = backend.Close()
		return nil, fail(f, ErrCodeTiers, "invalid tier table", err)
	}

	return &offline{
		cfg:     cfg,
		store:   store,
		tiers:   tiers,
		amounts: dispatch.NewFormatter(cfg.Locale, cfg.CurrencySymbol),
		closer:  backend.Close,
	}, nil
}

func (o *offline) Close() error {
	return o.closer()
}

// donor is one ledger row as printed by check and list.
type donor struct {
	UserID string `json:"user_id"`
	Total  string `json:"total"`
	Tier   string `json:"tier,omitempty"`
}

func (o *offline) donor(e ledger.Entry) donor {
	d := donor{UserID: e.UserID, Total: e.Total.String()}
	if t, ok := o.tiers.Resolve(e.Total); ok {
		d.Tier = t.Name
	}
	return d
}

func (o *offline) line(e ledger.Entry) string {
	d := o.donor(e)
	if d.Tier == "" {
		d.Tier = "-"
	}
	return fmt.Sprintf("%-20s %12s  %s", d.UserID, o.amounts.Amount(e.Total), d.Tier)
}
