package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment. A local .env
// file is honored when present; real deployments set the variables directly.
type Config struct {
	Addr         string        // listen address
	CardData     string        // path to the card catalog JSON; empty = built-in set
	TickInterval time.Duration // authoritative tick period
	DatabaseURL  string        // optional postgres DSN for the match archive
	Dev          bool          // development logging
}

func Load() Config {
	_ = godotenv.Load() // .env is optional

	return Config{
		Addr:         getenv("ADDR", ":8080"),
		CardData:     os.Getenv("CARD_DATA"),
		TickInterval: time.Duration(getint("TICK_MS", 500)) * time.Millisecond,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Dev:          os.Getenv("DEV_MODE") == "1",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
