package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/roach88/donobot/internal/ledger"
	"github.com/roach88/donobot/internal/tier"
)

// Reply texts that do not depend on amounts.
const (
	msgPermissionDenied = "You don't have permission to use this command."
	msgInvalidAmount    = "Amount must be a finite number."
	msgPersistFailed    = "Something went wrong saving that donation. Nothing was recorded; please try again."
)

// Dispatcher executes commands against the ledger, tier table, and guild.
type Dispatcher struct {
	ledger *ledger.Store
	tiers  *tier.Table
	guild  Guild
	format *Formatter
}

// New creates a Dispatcher.
func New(store *ledger.Store, tiers *tier.Table, guild Guild, format *Formatter) *Dispatcher {
	return &Dispatcher{
		ledger: store,
		tiers:  tiers,
		guild:  guild,
		format: format,
	}
}

// RecordDonation handles /donate.
//
// The returned Reply is always the one to send. A non-nil error describes
// what went wrong for logging: ErrPermissionDenied, ledger.ErrInvalidAmount
// and ledger.ErrNegativeTotal come with a private explanation and no state
// change; ledger.ErrPersistence comes with a generic private failure;
// ErrReconcile comes with the normal public confirmation because the
// donation itself was recorded.
func (d *Dispatcher) RecordDonation(ctx context.Context, cmd RecordDonation) (Reply, error) {
	if !cmd.Caller.Admin {
		return Reply{Content: msgPermissionDenied, Private: true}, ErrPermissionDenied
	}

	amount, err := ledger.AmountFromFloat(cmd.Amount)
	if err != nil {
		return Reply{Content: msgInvalidAmount, Private: true}, err
	}

	total, err := d.ledger.AddDonation(ctx, cmd.Target.ID, amount)
	switch {
	case errors.Is(err, ledger.ErrNegativeTotal):
		return Reply{
			Content: fmt.Sprintf("That would take %s below zero; their total is %s.",
				cmd.Target.Name, d.format.Amount(total)),
			Private: true,
		}, err
	case err != nil:
		return Reply{Content: msgPersistFailed, Private: true}, err
	}

	zerolog.Ctx(ctx).Info().
		Str("user_id", cmd.Target.ID).
		Str("amount", amount.String()).
		Str("total", total.String()).
		Msg("donation recorded")

	reply := Reply{
		Content: fmt.Sprintf("✅ Added %s to %s. They now have **%s** in total donations.",
			d.format.Amount(amount), cmd.Target.Name, d.format.Amount(total)),
	}

	if resolved, ok := d.tiers.Resolve(total); ok {
		if err := d.reconcile(ctx, cmd.Target.ID, resolved); err != nil {
			return reply, err
		}
	}
	return reply, nil
}

// CheckDonation handles /checkdono.
func (d *Dispatcher) CheckDonation(ctx context.Context, cmd CheckDonation) Reply {
	total, ok := d.ledger.Total(cmd.Target.ID)
	if !ok {
		return Reply{
			Content: fmt.Sprintf("%s has not donated anything yet.", cmd.Target.Name),
			Private: true,
		}
	}
	return Reply{
		Content: fmt.Sprintf("💰 %s has donated a total of **%s**.", cmd.Target.Name, d.format.Amount(total)),
	}
}

// reconcile revokes held badges below target, then grants target's badge.
func (d *Dispatcher) reconcile(ctx context.Context, userID string, target tier.Tier) error {
	log := zerolog.Ctx(ctx)

	badges, err := d.guild.MemberBadges(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: fetch member %s: %w", ErrReconcile, userID, err)
	}
	held := make(map[string]bool, len(badges))
	for _, b := range badges {
		held[b] = true
	}

	for _, lower := range d.tiers.Below(target) {
		if !held[lower.BadgeID] {
			continue
		}
		if err := d.guild.RevokeBadge(ctx, userID, lower.BadgeID); err != nil {
			return fmt.Errorf("%w: revoke %s: %w", ErrReconcile, lower.Name, err)
		}
		log.Debug().Str("user_id", userID).Str("badge", lower.Name).Msg("badge revoked")
	}

	if held[target.BadgeID] {
		return nil
	}
	if err := d.guild.GrantBadge(ctx, userID, target.BadgeID); err != nil {
		return fmt.Errorf("%w: grant %s: %w", ErrReconcile, target.Name, err)
	}
	log.Info().Str("user_id", userID).Str("badge", target.Name).Msg("badge granted")
	return nil
}
