package db

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const topTenKey = "triline:leaderboard:top10"

// LeaderboardMirror pushes the encoded top-ten snapshot into Redis so
// external readers can consume it without touching the game server. The
// in-memory ranking stays authoritative; an unreachable Redis disables
// the mirror and never fails startup.
type LeaderboardMirror struct {
	client  *redis.Client
	enabled bool
}

func NewLeaderboardMirror(addr, password string) *LeaderboardMirror {
	if addr == "" {
		return &LeaderboardMirror{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[REDIS] Warning: could not connect to Redis: %v. Leaderboard mirror disabled.", err)
		client.Close()
		return &LeaderboardMirror{}
	}

	log.Println("[REDIS] Connected successfully")
	return &LeaderboardMirror{client: client, enabled: true}
}

// PublishTop stores the snapshot. Fire-and-forget: a failed write is
// logged and the next ranking change overwrites it anyway.
func (m *LeaderboardMirror) PublishTop(encoded string) {
	if !m.enabled {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.client.Set(ctx, topTenKey, encoded, 0).Err(); err != nil {
			log.Printf("[REDIS] failed to mirror leaderboard: %v", err)
		}
	}()
}

func (m *LeaderboardMirror) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
