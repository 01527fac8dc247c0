package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port              string
	RestartDelay      time.Duration // pause between a finished round and the board reset
	BroadcastInterval time.Duration // leaderboard push cadence
	WinPoints         int
	DrawPoints        int
	BotUsername       string
	BotMinResponse    time.Duration
	BotMaxResponse    time.Duration
	RedisURL          string
	RedisPassword     string
}

func Load() *Config {
	cfg := &Config{
		Port:              GetEnv("PORT", "8080"),
		RestartDelay:      time.Duration(GetEnvAsInt("RESTART_DELAY_MS", 2000)) * time.Millisecond,
		BroadcastInterval: time.Duration(GetEnvAsInt("LEADERBOARD_INTERVAL_MS", 2000)) * time.Millisecond,
		WinPoints:         GetEnvAsInt("WIN_POINTS", 100),
		DrawPoints:        GetEnvAsInt("DRAW_POINTS", 10),
		BotUsername:       GetEnv("BOT_USERNAME", "The machine"),
		BotMinResponse:    time.Duration(GetEnvAsInt("BOT_MIN_RESPONSE_MS", 1000)) * time.Millisecond,
		BotMaxResponse:    time.Duration(GetEnvAsInt("BOT_MAX_RESPONSE_MS", 1000)) * time.Millisecond,
		RedisURL:          GetEnv("REDIS_URL", ""),
		RedisPassword:     GetEnv("REDIS_PASSWORD", ""),
	}

	log.Printf("Config loaded: RestartDelay=%v, BroadcastInterval=%v, BotUsername=%s",
		cfg.RestartDelay, cfg.BroadcastInterval, cfg.BotUsername)
	return cfg
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
