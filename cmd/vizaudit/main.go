package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for API keys; absence is fine.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("VIZAUDIT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
