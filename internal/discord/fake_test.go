package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/roach88/donobot/internal/dispatch"
)

// fakeSession records calls made through the session interface.
type fakeSession struct {
	mu        sync.Mutex
	roles     map[string][]string
	calls     []string
	responses []*discordgo.InteractionResponse
	err       error
}

func newFakeSession() *fakeSession {
	return &fakeSession{roles: make(map[string][]string)}
}

func (f *fakeSession) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("member %s %s", guildID, userID)
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Member{User: &discordgo.User{ID: userID}, Roles: f.roles[userID]}, nil
}

func (f *fakeSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("add %s %s %s", guildID, userID, roleID)
	return f.err
}

func (f *fakeSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("remove %s %s %s", guildID, userID, roleID)
	return f.err
}

func (f *fakeSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return f.err
}

func (f *fakeSession) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("edit %s", *newresp.Content)
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Message{Content: *newresp.Content}, nil
}

func (f *fakeSession) InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete %s", interaction.ID)
	return f.err
}

func (f *fakeSession) FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("followup %s ephemeral=%t", data.Content, data.Flags&discordgo.MessageFlagsEphemeral != 0)
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Message{Content: data.Content}, nil
}

func (f *fakeSession) allCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSession) ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("overwrite %s %s %d", appID, guildID, len(commands))
	if f.err != nil {
		return nil, f.err
	}
	return commands, nil
}

func (f *fakeSession) allResponses() []*discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.InteractionResponse(nil), f.responses...)
}

// echoHandler answers every command with a reply naming it.
type echoHandler struct{}

func (echoHandler) RecordDonation(ctx context.Context, cmd dispatch.RecordDonation) (dispatch.Reply, error) {
	if !cmd.Caller.Admin {
		return dispatch.Reply{Content: "denied", Private: true}, dispatch.ErrPermissionDenied
	}
	return dispatch.Reply{Content: fmt.Sprintf("donate %s %v", cmd.Target.Name, cmd.Amount)}, nil
}

func (echoHandler) CheckDonation(ctx context.Context, cmd dispatch.CheckDonation) dispatch.Reply {
	return dispatch.Reply{Content: "check " + cmd.Target.Name, Private: true}
}

var errBoom = errors.New("boom")

// commandInteraction builds an application command interaction in guild "g1".
func commandInteraction(name string, admin bool, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	var perms int64
	if admin {
		perms = discordgo.PermissionAdministrator
	}
	return &discordgo.Interaction{
		ID:      "i-" + name,
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "g1",
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: "9000", Username: "admin"},
			Permissions: perms,
		},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: opts,
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Users: map[string]*discordgo.User{
					"1001": {ID: "1001", Username: "alice"},
				},
			},
		},
	}
}

func playerOpt(id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  optionPlayer,
		Type:  discordgo.ApplicationCommandOptionUser,
		Value: id,
	}
}

func amountOpt(v float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  optionAmount,
		Type:  discordgo.ApplicationCommandOptionNumber,
		Value: v,
	}
}
