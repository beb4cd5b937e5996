package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"promptduel/internal/auth"
	"promptduel/internal/handlers"
	"promptduel/internal/journal"
	"promptduel/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	jrnl, err := journal.Connect()
	if err != nil {
		// The journal is optional; the game runs entirely in memory without it.
		logger.Warnf("action journal disabled: %v", err)
		jrnl = nil
	} else if jrnl != nil {
		logger.Info("action journal connected")
		defer jrnl.Close()
	}

	srv := handlers.NewGameServer(logger, jrnl)

	mux := http.NewServeMux()

	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomWSHandler(logger, srv),
	)))
	mux.Handle("/rooms", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ListRoomsHandler(srv),
	)))
	mux.HandleFunc("/healthz", handlers.HealthzHandler())

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
