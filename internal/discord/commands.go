package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/roach88/donobot/internal/dispatch"
)

// Slash command and option names.
const (
	CommandDonate    = "donate"
	CommandCheckDono = "checkdono"

	optionPlayer = "player"
	optionAmount = "amount"
)

var (
	// ErrUnknownCommand is returned for interactions this bot does not own.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadOption is returned when a required option is absent or mistyped.
	ErrBadOption = errors.New("missing or invalid option")
)

// Commands returns the application commands registered at startup.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandDonate,
			Description: "Track a player's donation.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        optionPlayer,
					Description: "The player who donated",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        optionAmount,
					Description: "Amount donated",
					Required:    true,
				},
			},
		},
		{
			Name:        CommandCheckDono,
			Description: "Check a player's total donation.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        optionPlayer,
					Description: "The player to check",
					Required:    true,
				},
			},
		},
	}
}

// decodeCommand turns an application command interaction into a
// dispatch.Command without a responder.
func decodeCommand(i *discordgo.Interaction) (dispatch.Command, error) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return dispatch.Command{}, fmt.Errorf("%w: interaction type %s", ErrUnknownCommand, i.Type)
	}

	data := i.ApplicationCommandData()
	if data.Name != CommandDonate && data.Name != CommandCheckDono {
		return dispatch.Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, data.Name)
	}

	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, o := range data.Options {
		opts[o.Name] = o
	}

	target, err := userOption(data, opts[optionPlayer])
	if err != nil {
		return dispatch.Command{}, err
	}

	switch data.Name {
	case CommandDonate:
		amount, err := numberOption(opts[optionAmount])
		if err != nil {
			return dispatch.Command{}, err
		}
		return dispatch.Command{
			Type: dispatch.CommandRecordDonation,
			Record: &dispatch.RecordDonation{
				Caller: caller(i),
				Target: target,
				Amount: amount,
			},
		}, nil

	default:
		return dispatch.Command{
			Type:  dispatch.CommandCheckDonation,
			Check: &dispatch.CheckDonation{Target: target},
		}, nil
	}
}

// caller reads the invoking member and whether they hold Administrator.
// Interactions outside a guild carry User instead of Member and never count
// as admin.
func caller(i *discordgo.Interaction) dispatch.Caller {
	if i.Member != nil && i.Member.User != nil {
		return dispatch.Caller{
			User:  dispatch.User{ID: i.Member.User.ID, Name: i.Member.User.Username},
			Admin: i.Member.Permissions&discordgo.PermissionAdministrator != 0,
		}
	}
	if i.User != nil {
		return dispatch.Caller{User: dispatch.User{ID: i.User.ID, Name: i.User.Username}}
	}
	return dispatch.Caller{}
}

// userOption resolves a user option to an id and username. Discord sends the
// user object in the resolved data; the id is used as the name if it is absent.
func userOption(data discordgo.ApplicationCommandInteractionData, o *discordgo.ApplicationCommandInteractionDataOption) (dispatch.User, error) {
	if o == nil || o.Type != discordgo.ApplicationCommandOptionUser {
		return dispatch.User{}, fmt.Errorf("%w: %s", ErrBadOption, optionPlayer)
	}
	id, ok := o.Value.(string)
	if !ok || id == "" {
		return dispatch.User{}, fmt.Errorf("%w: %s", ErrBadOption, optionPlayer)
	}

	u := dispatch.User{ID: id, Name: id}
	if data.Resolved != nil {
		if resolved, ok := data.Resolved.Users[id]; ok && resolved != nil {
			u.Name = resolved.Username
		}
	}
	return u, nil
}

func numberOption(o *discordgo.ApplicationCommandInteractionDataOption) (float64, error) {
	if o == nil || o.Type != discordgo.ApplicationCommandOptionNumber {
		return 0, fmt.Errorf("%w: %s", ErrBadOption, optionAmount)
	}
	v, ok := o.Value.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrBadOption, optionAmount)
	}
	return v, nil
}

// response converts a dispatch.Reply into an interaction response.
func response(r dispatch.Reply) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{
		Content: r.Content,
		// Replies name users by username; never ping anyone.
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if r.Private {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}
