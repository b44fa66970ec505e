package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sukalov/hibiki/internal/bot"
	"github.com/sukalov/hibiki/internal/bot/admin"
	"github.com/sukalov/hibiki/internal/bot/client"
	"github.com/sukalov/hibiki/internal/config"
	"github.com/sukalov/hibiki/internal/db"
	"github.com/sukalov/hibiki/internal/logger"
	"github.com/sukalov/hibiki/internal/lyrics"
	"github.com/sukalov/hibiki/internal/redis"
	"github.com/sukalov/hibiki/internal/state"
	"github.com/sukalov/hibiki/internal/users"
	"github.com/sukalov/hibiki/internal/utils/e"
)

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), a.cfg)
		},
	}
}

func runBot(ctx context.Context, cfg config.Config) (err error) {
	defer e.WrapIfErr("bot", &err)

	if err := cfg.RequireBot(); err != nil {
		return err
	}

	clientBot, err := bot.New("hibiki", cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	defer clientBot.Stop()

	if cfg.Bot.LogChannelID != 0 {
		logger.SetChannel(clientBot, cfg.Bot.LogChannelID)
	}

	var (
		cache      lyrics.Cache
		prefsStore state.Store
	)
	if cfg.RedisEnabled() {
		redisCache, err := redis.NewCache(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.TTL.Duration)
		if err != nil {
			return err
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn(fmt.Sprintf("redis is not reachable, rendering without cache: %v", err))
		} else {
			cache = redisCache
			prefsStore = redisCache
		}
	}

	var (
		songStore lyrics.SongStore
		songIndex client.SongIndex
		songbook  *db.Songbook
	)
	if cfg.RequireDatabase() == nil {
		database, err := db.Open(ctx, cfg.Database.URL, cfg.Database.AuthToken)
		if err != nil {
			return err
		}
		defer database.Close()

		songbook = db.NewSongbook(database)
		if err := songbook.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := logger.LogWithErr("songbook load", songbook.Load(ctx)); err != nil {
			return err
		}
		songStore = songbook
		songIndex = songbook
		logger.Debug(fmt.Sprintf("songbook has %d songs", songbook.Len()))
	} else {
		logger.Warn("TURSO_DATABASE_URL is not set, running without a songbook")
	}

	service := lyrics.NewService(cache, songStore, nil)

	preferences := state.NewPreferences(prefsStore, cfg.SectionBreaks)
	if err := preferences.Init(ctx); err != nil {
		logger.Warn(err.Error())
	}

	sessions := users.NewSessionManager(users.DefaultSessionTTL)
	handlers := client.NewClientHandlers(service, songIndex, sessions, preferences)

	var adminCommands map[string]bot.HandlerFunc
	if songbook != nil && len(cfg.Bot.Admins) > 0 {
		adminCommands = admin.NewAdminHandlers(songbook, service, cfg.Bot.Admins).CommandHandlers()
	}

	done := client.SetupHandlers(clientBot, handlers, adminCommands)
	// runs before the database and cache are closed
	defer func() {
		clientBot.Stop()
		<-done
	}()
	logger.Success("hibiki bot started")

	ticker := time.NewTicker(users.DefaultSessionTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info(fmt.Sprintf("hibiki bot stopping, dropping %d open sessions", len(sessions.GetAll())))
			return nil
		case <-ticker.C:
			if n := sessions.Prune(); n > 0 {
				logger.Debug(fmt.Sprintf("pruned %d stale sessions", n))
			}
		}
	}
}
