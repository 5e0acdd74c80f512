package discord

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// ErrNoGuild is returned when no guild id is known yet.
var ErrNoGuild = errors.New("guild id not known: set GUILD_ID or wait for the ready event")

// session is the subset of *discordgo.Session the adapter calls.
type session interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Guild implements dispatch.Guild with guild member role calls.
// Discord treats adding a held role and removing an absent one as no-ops.
type Guild struct {
	s session

	mu sync.RWMutex
	id string
}

// NewGuild returns a Guild for guildID. An empty id is filled in later by
// the bot from the ready event.
func NewGuild(s session, guildID string) *Guild {
	return &Guild{s: s, id: guildID}
}

// ID returns the guild id, or "" if not yet known.
func (g *Guild) ID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.id
}

// adopt sets the guild id if none is configured. Returns the id in use.
func (g *Guild) adopt(id string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.id == "" {
		g.id = id
	}
	return g.id
}

// MemberBadges returns the member's role ids.
func (g *Guild) MemberBadges(ctx context.Context, userID string) ([]string, error) {
	id := g.ID()
	if id == "" {
		return nil, ErrNoGuild
	}
	m, err := g.s.GuildMember(id, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return m.Roles, nil
}

// GrantBadge adds the role to the member.
func (g *Guild) GrantBadge(ctx context.Context, userID, badgeID string) error {
	id := g.ID()
	if id == "" {
		return ErrNoGuild
	}
	return g.s.GuildMemberRoleAdd(id, userID, badgeID, discordgo.WithContext(ctx))
}

// RevokeBadge removes the role from the member.
func (g *Guild) RevokeBadge(ctx context.Context, userID, badgeID string) error {
	id := g.ID()
	if id == "" {
		return ErrNoGuild
	}
	return g.s.GuildMemberRoleRemove(id, userID, badgeID, discordgo.WithContext(ctx))
}
