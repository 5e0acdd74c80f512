package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/roach88/donobot/internal/dispatch"
)

const (
	msgWrongGuild   = "This bot only tracks donations for one server."
	msgShuttingDown = "The bot is restarting; please try again in a moment."
	msgMalformed    = "That command could not be read; please try again."
)

// NewSession creates a bot session for token. The session is not opened.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	return s, nil
}

// Bot wires a discordgo session to a dispatch.Loop.
type Bot struct {
	session *discordgo.Session
	api     session
	guild   *Guild
	loop    *dispatch.Loop
	log     zerolog.Logger
	ready   chan error
}

// NewBot creates a Bot. guild must wrap the same session.
func NewBot(s *discordgo.Session, guild *Guild, loop *dispatch.Loop, log zerolog.Logger) *Bot {
	b := newBot(s, guild, loop, log)
	b.session = s
	return b
}

func newBot(api session, guild *Guild, loop *dispatch.Loop, log zerolog.Logger) *Bot {
	return &Bot{
		api:   api,
		guild: guild,
		loop:  loop,
		log:   log,
		ready: make(chan error, 1),
	}
}

// Start opens the gateway connection and waits until the slash commands are
// registered or ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	select {
	case err := <-b.ready:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the gateway connection.
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Msg("connected to discord")

	var first string
	if len(r.Guilds) > 0 {
		first = r.Guilds[0].ID
	}
	err := b.register(r.User.ID, first)

	select {
	case b.ready <- err:
	default:
		// Reconnect; Start is no longer waiting.
		if err != nil {
			b.log.Error().Err(err).Msg("command registration failed")
		}
	}
}

// register adopts the first guild when none is configured and overwrites
// that guild's commands with Commands(). Overwriting makes it idempotent.
func (b *Bot) register(appID, firstGuild string) error {
	guildID := b.guild.adopt(firstGuild)
	if guildID == "" {
		return ErrNoGuild
	}

	cmds, err := b.api.ApplicationCommandBulkOverwrite(appID, guildID, Commands())
	if err != nil {
		return fmt.Errorf("register commands in guild %s: %w", guildID, err)
	}
	b.log.Info().Str("guild_id", guildID).Int("commands", len(cmds)).Msg("commands registered")
	return nil
}

func (b *Bot) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	b.handle(ic.Interaction)
}

// handle decodes and queues one interaction. Runs on a discordgo goroutine.
func (b *Bot) handle(i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if i.GuildID == "" || i.GuildID != b.guild.ID() {
		b.reply(i, dispatch.Reply{Content: msgWrongGuild, Private: true})
		return
	}

	cmd, err := decodeCommand(i)
	if errors.Is(err, ErrUnknownCommand) {
		b.log.Debug().Err(err).Msg("ignoring interaction")
		return
	}
	if err != nil {
		b.log.Warn().Err(err).Str("interaction_id", i.ID).Msg("malformed interaction")
		b.reply(i, dispatch.Reply{Content: msgMalformed, Private: true})
		return
	}

	// Discord drops interactions not answered within three seconds. Behind
	// a backlog, acknowledge now and send the real reply as an edit later.
	deferred := b.loop.Backlog() > 0 && b.deferReply(i)

	cmd.Respond = func(ctx context.Context, r dispatch.Reply) error {
		if deferred {
			return b.followUp(ctx, i, r)
		}
		return b.api.InteractionRespond(i, response(r), discordgo.WithContext(ctx))
	}
	if !b.loop.Submit(cmd) {
		shutdown := dispatch.Reply{Content: msgShuttingDown, Private: true}
		if deferred {
			if err := b.followUp(context.Background(), i, shutdown); err != nil {
				b.log.Error().Err(err).Str("interaction_id", i.ID).Msg("failed to send reply")
			}
			return
		}
		b.reply(i, shutdown)
	}
}

// deferReply sends a "thinking" acknowledgement. Reports whether it was sent.
func (b *Bot) deferReply(i *discordgo.Interaction) bool {
	ack := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if err := b.api.InteractionRespond(i, ack); err != nil {
		b.log.Warn().Err(err).Str("interaction_id", i.ID).Msg("failed to defer reply")
		return false
	}
	return true
}

// followUp delivers r after deferReply. The acknowledgement is public, so
// a public reply replaces it and a private one deletes it and follows up
// with an ephemeral message.
func (b *Bot) followUp(ctx context.Context, i *discordgo.Interaction, r dispatch.Reply) error {
	noPings := &discordgo.MessageAllowedMentions{}
	if !r.Private {
		content := r.Content
		_, err := b.api.InteractionResponseEdit(i, &discordgo.WebhookEdit{
			Content:         &content,
			AllowedMentions: noPings,
		}, discordgo.WithContext(ctx))
		return err
	}

	if err := b.api.InteractionResponseDelete(i, discordgo.WithContext(ctx)); err != nil {
		b.log.Warn().Err(err).Str("interaction_id", i.ID).Msg("failed to delete deferred reply")
	}
	_, err := b.api.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content:         r.Content,
		Flags:           discordgo.MessageFlagsEphemeral,
		AllowedMentions: noPings,
	}, discordgo.WithContext(ctx))
	return err
}

func (b *Bot) reply(i *discordgo.Interaction, r dispatch.Reply) {
	if err := b.api.InteractionRespond(i, response(r)); err != nil {
		b.log.Error().Err(err).Str("interaction_id", i.ID).Msg("failed to send reply")
	}
}
