// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/damas-online/damas/internal/auth"
	"github.com/damas-online/damas/internal/cache"
	"github.com/damas-online/damas/internal/database"
	"github.com/damas-online/damas/internal/handlers"
	"github.com/damas-online/damas/internal/match"
	"github.com/damas-online/damas/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	var journal match.Journal
	if err := cache.ConnectRedis(); err != nil {
		logger.WithError(err).Warn("redis unavailable; match journal disabled")
	} else {
		journal = cache.Journal{Log: logger}
	}

	store := database.Store{}
	orchestrator := match.NewOrchestrator(
		match.DefaultConfig(), logger, match.NewSessionStore(), store, store, journal,
	)

	mux := http.NewServeMux()

	// match endpoints
	mux.Handle("/match/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CreateMatchHandler(logger, orchestrator),
	)))
	mux.Handle("/match/list", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ListMatchesHandler(logger, orchestrator),
	)))

	// match websocket
	mux.Handle("/match/ws/", http.HandlerFunc(
		handlers.MatchWSHandler(logger, orchestrator),
	))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
