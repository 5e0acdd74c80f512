// Package discord adapts a discordgo session to the dispatch package: it
// registers the slash commands, decodes interactions into dispatch.Commands,
// sends replies, and implements dispatch.Guild on top of guild role calls.
package discord
