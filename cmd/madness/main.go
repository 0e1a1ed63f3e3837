package main

import (
	"context"
	"fmt"
	"log"

	"github.com/sukalov/karaokemadness/internal/bot"
	"github.com/sukalov/karaokemadness/internal/bot/game"
	"github.com/sukalov/karaokemadness/internal/db"
	"github.com/sukalov/karaokemadness/internal/logger"
	"github.com/sukalov/karaokemadness/internal/redis"
	"github.com/sukalov/karaokemadness/internal/schedule"
	"github.com/sukalov/karaokemadness/internal/songbook"
	"github.com/sukalov/karaokemadness/internal/state"
	"github.com/sukalov/karaokemadness/internal/utils"
)

func main() {
	ctx := context.Background()

	env, err := utils.LoadEnv([]string{"BOT_TOKEN"})
	if err != nil {
		log.Fatal("required env missing")
	}

	if err := db.Init(); err != nil {
		log.Fatalf("database initialization failed: %v", err)
	}
	defer db.Close()

	skipped, err := songbook.Init(ctx)
	if err != nil {
		log.Fatalf("failed to load songbook: %v", err)
	}

	madnessBot, err := bot.New("madness", env["BOT_TOKEN"])
	if err != nil {
		log.Fatalf("failed to start bot: %v", err)
	}

	if err := logger.Init(madnessBot); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	for _, reason := range skipped {
		logger.Error(fmt.Sprintf("song skipped, bad timed lyrics\n%s", reason))
	}

	redisManager := redis.NewDBManager()
	gameManager := state.NewManager(redisManager, state.Config{
		MinPlayers:        2,
		MaxPlayers:        6,
		DefaultDifficulty: schedule.DifficultyLine,
	})

	// Running games survive a redeploy: sessions come back from redis and
	// every assignment is regenerated from its stored seed.
	err = gameManager.Init(ctx, func(songID string) ([]schedule.Line, []schedule.SectionInfo, bool) {
		entry, found := songbook.FindSongByID(songID)
		if !found {
			return nil, nil, false
		}
		return entry.Timing.Lines, entry.Timing.Sections, true
	})
	if err != nil {
		log.Fatalf("failed to restore sessions: %v", err)
	}

	handlers := game.NewGameHandlers(gameManager, redisManager)
	logger.Info("karaoke madness is up")
	madnessBot.Start(handlers.GetCommandHandlers(), handlers.GetMessageHandlers())
}
