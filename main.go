package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"triline/bot"
	"triline/config"
	"triline/db"
	"triline/handlers"
	"triline/middlewares"
	"triline/ranking"
	"triline/server"
	"triline/websocket"
)

func main() {
	log.Println("Starting triline server...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	scores := ranking.New()
	coordinator := server.NewCoordinator(scores, server.Options{
		RestartDelay:      cfg.RestartDelay,
		BroadcastInterval: cfg.BroadcastInterval,
		WinPoints:         cfg.WinPoints,
		DrawPoints:        cfg.DrawPoints,
		LeaderboardSize:   10,
	})

	mirror := db.NewLeaderboardMirror(cfg.RedisURL, cfg.RedisPassword)
	defer mirror.Close()
	coordinator.SetMirror(mirror)

	virtual := bot.NewAdapter(coordinator, bot.HeuristicSelector{}, cfg.BotUsername, cfg.BotMinResponse, cfg.BotMaxResponse)
	coordinator.SetVirtualOpponent(virtual)

	coordinator.Start()
	defer coordinator.Stop()

	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.CreateUpgrader()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("Error during connection upgrade:", err)
			return
		}

		websocket.HandleConnection(conn, coordinator)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/leaderboard", handlers.MakeLeaderboardHandler(scores))

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middlewares.EnableCORS(mux),
	}

	log.Printf("Server is listening on port %s\n", cfg.Port)

	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Server is shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
