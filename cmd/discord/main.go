package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/keshon/zara-music-bot/internal/command"
	"github.com/keshon/zara-music-bot/internal/command/chat"
	"github.com/keshon/zara-music-bot/internal/command/music"
	"github.com/keshon/zara-music-bot/internal/config"
	"github.com/keshon/zara-music-bot/internal/discord"
	"github.com/keshon/zara-music-bot/internal/metrics"
	"github.com/keshon/zara-music-bot/internal/music/player"
	"github.com/keshon/zara-music-bot/internal/music/stream"
	"github.com/keshon/zara-music-bot/internal/presence"
	"github.com/keshon/zara-music-bot/internal/storage"
	"github.com/keshon/zara-music-bot/internal/voice"
	"github.com/keshon/zara-music-bot/pkg/cmd"
	"github.com/keshon/zara-music-bot/pkg/ratelimit"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	setupLogger("info", "console")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(cfg.LogLevel, cfg.LogFormat)

	log.Info().Str("app", config.AppName).Msg("starting bot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, storage.Options{
		Backend:          cfg.StoreBackend,
		FilePath:         cfg.StoragePath,
		AutoSaveInterval: cfg.StorageAutosave,
		Firestore: storage.FirestoreCredentials{
			ProjectID:   cfg.FirebaseProjectID,
			ClientEmail: cfg.FirebaseClientEmail,
			PrivateKey:  cfg.FirebasePrivateKey,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open clip store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("closing clip store")
		}
	}()
	clips := storage.NewClips(store)

	registry := stream.NewRegistry(cfg.YouTubeProxy)
	if err := registry.Validate(cfg.PlaybackParsers); err != nil {
		log.Fatal().Err(err).Msg("invalid parser order")
	}

	mode, err := voice.ParseMode(cfg.SinkMode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid sink mode")
	}

	dg, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Discord session")
	}

	sessions := voice.NewManager(discord.NewTransport(dg), player.New(registry, cfg.PlaybackParsers), mode)
	defer sessions.Close()

	watcher := presence.NewWatcher(clips, sessions, cfg.ReservedName)
	defer watcher.Close()

	commands := []cmd.Command{
		&chat.HelloCommand{},
		chat.NewGreetCommand(cfg.GreetingTrigger, cfg.GreetingReply),
	}
	commands = append(commands, music.Commands(music.Deps{
		Store:        clips,
		Sessions:     sessions,
		Voice:        discord.NewVoiceLocator(dg),
		ReservedName: cfg.ReservedName,
	}, ratelimit.NewKeyed(cfg.CommandRate, cfg.CommandBurst))...)

	router := command.NewRouter(discord.NewResponder(dg), command.Options{
		ReportRejections: cfg.ReportRejections,
	}, commands...)

	if cfg.MetricsAddr != "" {
		go metrics.Serve(ctx, cfg.MetricsAddr)
	}

	for _, c := range router.Commands() {
		log.Debug().Str("command", c.Name()).Str("trigger", c.Trigger().String()).Msg(c.Description())
	}
	log.Info().
		Str("sink", string(sessions.Mode())).
		Strs("parsers", cfg.PlaybackParsers).
		Int("commands", len(router.Commands())).
		Msg("components ready")

	err = discord.NewBot(dg, router, watcher).Run(ctx)
	sessions.StopAll()
	if err != nil {
		log.Error().Err(err).Msg("Discord bot error")
		return
	}
	log.Info().Msg("Discord bot exited cleanly")
}

func setupLogger(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}
