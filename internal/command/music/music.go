// Package music holds the entrance-clip commands.
package music

import (
	"github.com/keshon/zara-music-bot/internal/command"
	"github.com/keshon/zara-music-bot/pkg/cmd"
	"github.com/keshon/zara-music-bot/pkg/ratelimit"
)

// DefaultReservedName is the display name the bot runs under.
const DefaultReservedName = "zara-music-bot"

// Deps are the collaborators shared by the music commands.
type Deps struct {
	Store    command.ClipStore
	Sessions command.Sessions
	Voice    command.VoiceLocator

	// ReservedName is never allowed to register a clip.
	ReservedName string
}

// Commands returns the music commands in priority order. lim may be nil.
func Commands(d Deps, lim *ratelimit.Keyed) []cmd.Command {
	if d.ReservedName == "" {
		d.ReservedName = DefaultReservedName
	}
	limited := command.WithRateLimit(lim)
	return []cmd.Command{
		&HelpCommand{},
		cmd.Apply(&MeCommand{Store: d.Store}, limited),
		cmd.Apply(&UpdateCommand{Store: d.Store, ReservedName: d.ReservedName}, limited),
		&StopCommand{Sessions: d.Sessions},
		cmd.Apply(&PlayCommand{Store: d.Store, Sessions: d.Sessions, Voice: d.Voice}, command.WithGuildOnly(), limited),
	}
}
