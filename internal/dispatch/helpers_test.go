package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/donobot/internal/ledger"
	"github.com/roach88/donobot/internal/tier"
)

// fakeGuild is an in-memory Guild that records every mutating call.
type fakeGuild struct {
	badges   map[string]map[string]bool
	ops      []string
	fetchErr error
	failOp   string // "grant <badge>" or "revoke <badge>" to fail
}

func newFakeGuild() *fakeGuild {
	return &fakeGuild{badges: make(map[string]map[string]bool)}
}

func (g *fakeGuild) give(userID string, badges ...string) {
	if g.badges[userID] == nil {
		g.badges[userID] = make(map[string]bool)
	}
	for _, b := range badges {
		g.badges[userID][b] = true
	}
}

func (g *fakeGuild) held(userID string) []string {
	var out []string
	for b := range g.badges[userID] {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// drain returns and clears the recorded calls.
func (g *fakeGuild) drain() []string {
	ops := g.ops
	g.ops = nil
	return ops
}

func (g *fakeGuild) MemberBadges(ctx context.Context, userID string) ([]string, error) {
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	return g.held(userID), nil
}

func (g *fakeGuild) GrantBadge(ctx context.Context, userID, badgeID string) error {
	if g.failOp == "grant "+badgeID {
		return fmt.Errorf("missing access")
	}
	g.ops = append(g.ops, fmt.Sprintf("grant %s %s", userID, badgeID))
	g.give(userID, badgeID)
	return nil
}

func (g *fakeGuild) RevokeBadge(ctx context.Context, userID, badgeID string) error {
	if g.failOp == "revoke "+badgeID {
		return fmt.Errorf("missing access")
	}
	g.ops = append(g.ops, fmt.Sprintf("revoke %s %s", userID, badgeID))
	delete(g.badges[userID], badgeID)
	return nil
}

// scenarioTable has the 150/100/50 thresholds used by the worked scenarios.
func scenarioTable(t *testing.T) *tier.Table {
	t.Helper()
	tbl, err := tier.New([]tier.Tier{
		{Name: "Platinum", BadgeID: "b150", Threshold: decimal.NewFromInt(150)},
		{Name: "Gold", BadgeID: "b100", Threshold: decimal.NewFromInt(100)},
		{Name: "Silver", BadgeID: "b50", Threshold: decimal.NewFromInt(50)},
	})
	require.NoError(t, err)
	return tbl
}

type fixture struct {
	dispatcher *Dispatcher
	store      *ledger.Store
	guild      *fakeGuild
}

func newFixture(t *testing.T, tbl *tier.Table) *fixture {
	t.Helper()
	return newFixtureAt(t, tbl, filepath.Join(t.TempDir(), "donations.json"))
}

func newFixtureAt(t *testing.T, tbl *tier.Table, path string) *fixture {
	t.Helper()
	store, err := ledger.Open(context.Background(), ledger.NewJSONFile(path))
	require.NoError(t, err)

	guild := newFakeGuild()
	return &fixture{
		dispatcher: New(store, tbl, guild, NewFormatter(language.BritishEnglish, "£")),
		store:      store,
		guild:      guild,
	}
}

func (f *fixture) total(userID string) string {
	total, ok := f.store.Total(userID)
	if !ok {
		return "none"
	}
	return total.String()
}

var (
	admin   = Caller{User: User{ID: "9000", Name: "admin"}, Admin: true}
	mallory = Caller{User: User{ID: "6666", Name: "mallory"}}
	alice   = User{ID: "1001", Name: "alice"}
	bob     = User{ID: "1002", Name: "bob"}
)
