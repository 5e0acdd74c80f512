package discord

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuild_Calls(t *testing.T) {
	s := newFakeSession()
	s.roles["1001"] = []string{"r1", "r2"}
	g := NewGuild(s, "g1")
	ctx := context.Background()

	badges, err := g.MemberBadges(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, badges)

	require.NoError(t, g.GrantBadge(ctx, "1001", "r3"))
	require.NoError(t, g.RevokeBadge(ctx, "1001", "r1"))

	assert.Equal(t, []string{
		"member g1 1001",
		"add g1 1001 r3",
		"remove g1 1001 r1",
	}, s.calls)
}

func TestGuild_NoIDYet(t *testing.T) {
	g := NewGuild(newFakeSession(), "")
	ctx := context.Background()

	_, err := g.MemberBadges(ctx, "1")
	assert.ErrorIs(t, err, ErrNoGuild)
	assert.ErrorIs(t, g.GrantBadge(ctx, "1", "r"), ErrNoGuild)
	assert.ErrorIs(t, g.RevokeBadge(ctx, "1", "r"), ErrNoGuild)
}

func TestGuild_AdoptKeepsConfiguredID(t *testing.T) {
	configured := NewGuild(newFakeSession(), "g1")
	assert.Equal(t, "g1", configured.adopt("g2"))

	discovered := NewGuild(newFakeSession(), "")
	assert.Equal(t, "g2", discovered.adopt("g2"))
	assert.Equal(t, "g2", discovered.ID())
}

func TestGuild_ErrorsPropagate(t *testing.T) {
	s := newFakeSession()
	s.err = errBoom
	g := NewGuild(s, "g1")

	_, err := g.MemberBadges(context.Background(), "1")
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, g.GrantBadge(context.Background(), "1", "r"), errBoom)
}
