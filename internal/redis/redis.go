package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/karaokemadness/internal/state"
	"github.com/sukalov/karaokemadness/internal/utils"
)

type DBManager struct {
	client *redisClient.Client
}

func NewDBManager() *DBManager {
	env, err := utils.LoadEnv([]string{"REDIS_URL", "REDIS_PASSWORD"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load redis env %s.", err)
		os.Exit(1)
	}
	opt, _ := redisClient.ParseURL(fmt.Sprintf("rediss://default:%s@%s", env["REDIS_PASSWORD"], env["REDIS_URL"]))
	client := redisClient.NewClient(opt)

	return &DBManager{client: client}
}

// SetSessions stores the full list of running game sessions
func (redis *DBManager) SetSessions(ctx context.Context, sessions []state.Session) error {
	sessionsJSON, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return redis.client.Set(ctx, "sessions", sessionsJSON, 0).Err()
}

// GetSessions retrieves the list of running game sessions
func (redis *DBManager) GetSessions(ctx context.Context) ([]state.Session, error) {
	data, err := redis.client.Get(ctx, "sessions").Bytes()
	if err != nil {
		if err == redisClient.Nil {
			return []state.Session{}, nil
		}
		return nil, err
	}
	var sessions []state.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// IncrementWinCount bumps the most-words counter for a player name within
// a chat.
func (redis *DBManager) IncrementWinCount(ctx context.Context, chatID int64, playerName string) error {
	key := fmt.Sprintf("wins:%d", chatID)
	if err := redis.client.HIncrBy(ctx, key, playerName, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment win count for %s in chat %d: %v", playerName, chatID, err)
	}
	return nil
}

// GetWinCounts retrieves the per-player win counts for a chat
func (redis *DBManager) GetWinCounts(ctx context.Context, chatID int64) (map[string]int, error) {
	result := make(map[string]int)
	raw, err := redis.client.HGetAll(ctx, fmt.Sprintf("wins:%d", chatID)).Result()
	if err != nil {
		if err == redisClient.Nil {
			return result, nil
		}
		return nil, err
	}
	for name, count := range raw {
		countInt, err := strconv.Atoi(count)
		if err != nil {
			continue // skip invalid counts
		}
		result[name] = countInt
	}
	return result, nil
}
