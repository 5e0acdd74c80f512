package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/donobot/internal/discord"
	"github.com/roach88/donobot/internal/dispatch"
	"github.com/roach88/donobot/internal/infra"
	"github.com/roach88/donobot/internal/ledger"
	"github.com/roach88/donobot/internal/tier"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	// RequestIDs overrides the request id generator (for testing).
	// If nil, the loop uses UUIDv7 ids.
	RequestIDs dispatch.RequestIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and handle slash commands",
		Long: `Connect to Discord and serve /donate and /checkdono.

Configuration comes from the environment, with .env.local and .env read if
present. BOT_TOKEN is required. The ledger is loaded once at startup and
rewritten after every donation.

Example:
  BOT_TOKEN=... GUILD_ID=... donobot run
  APP_ENV=development donobot run --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(opts, cmd)
		},
	}

	return cmd
}

func runBot(opts *RunOptions, cmd *cobra.Command) error {
	infra.LoadDotEnv()
	cfg, err := infra.LoadConfig()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	log := infra.NewLogger(cfg.AppEnv, opts.Verbose)

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}

	log.Info().Str("backend", cfg.LedgerBackend).Str("path", cfg.LedgerPath).Msg("opening ledger")
	backend, err := ledger.OpenBackend(cfg.LedgerBackend, cfg.LedgerPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer func() {
		if closeErr := backend.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing ledger")
		}
	}()

	store, err := ledger.Open(parentCtx, backend)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load ledger", err)
	}
	log.Info().Int("entries", store.Len()).Msg("ledger loaded")

	tiers, err := tier.Default()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid tier table", err)
	}
	log.Debug().Int("tiers", tiers.Len()).Msg("tier table loaded")

	session, err := discord.NewSession(cfg.BotToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create session", err)
	}
	guild := discord.NewGuild(session, cfg.GuildID)

	var loopOpts []dispatch.LoopOption
	if opts.RequestIDs != nil {
		loopOpts = append(loopOpts, dispatch.WithRequestIDs(opts.RequestIDs))
	}
	d := dispatch.New(store, tiers, guild, dispatch.NewFormatter(cfg.Locale, cfg.CurrencySymbol))
	loop := dispatch.NewLoop(d, log, loopOpts...)
	bot := discord.NewBot(session, guild, loop, log)

	// The loop gets its own context so queued commands still drain after
	// a signal stops new interactions from arriving.
	loopCtx, cancelLoop := context.WithCancel(parentCtx)
	defer cancelLoop()
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(loopCtx)
	}()

	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := bot.Start(ctx); err != nil {
		_ = bot.Close()
		loop.Stop()
		<-loopDone
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return WrapExitError(ExitFailure, "failed to start bot", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Bot started. Listening for slash commands...")
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	<-ctx.Done()

	if err := bot.Close(); err != nil {
		log.Error().Err(err).Msg("error closing discord session")
	}
	loop.Stop()
	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "command loop error", err)
	}

	log.Info().Msg("bot stopped gracefully")
	return nil
}
