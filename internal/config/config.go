// Package config reads settings from the environment and an optional .env
// file. Command-line flags override what is loaded here.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	RelayURL   string
	HistoryURL string
	Room       string
	User       string

	ListenAddr string
	MDNS       bool

	LogFile  string
	LogLevel string

	MinZoom  float64
	MaxZoom  float64
	Throttle time.Duration

	// Observability; empty disables tracing.
	JaegerEndpoint string
}

// Load reads .env files (missing ones are ignored) and the SKETCH_*
// variables.
func Load(files ...string) *Config {
	_ = godotenv.Load(files...)

	return &Config{
		RelayURL:   getEnv("SKETCH_RELAY_URL", "ws://localhost:8080/ws"),
		HistoryURL: getEnv("SKETCH_HISTORY_URL", "http://localhost:8080"),
		Room:       getEnv("SKETCH_ROOM", "lobby"),
		User:       getEnv("SKETCH_USER", uuid.NewString()),

		ListenAddr: getEnv("SKETCH_LISTEN_ADDR", ":8080"),
		MDNS:       getEnvBool("SKETCH_MDNS", true),

		LogFile:  getEnv("SKETCH_LOG_FILE", "sketchroom.log"),
		LogLevel: getEnv("SKETCH_LOG_LEVEL", "info"),

		MinZoom:  getEnvFloat("SKETCH_MIN_ZOOM", 0.1),
		MaxZoom:  getEnvFloat("SKETCH_MAX_ZOOM", 5),
		Throttle: time.Duration(getEnvInt("SKETCH_THROTTLE_MS", 50)) * time.Millisecond,

		JaegerEndpoint: getEnv("SKETCH_JAEGER_ENDPOINT", ""),
	}
}

// ListenPort returns the numeric port of ListenAddr, or 0.
func (c *Config) ListenPort() int {
	i := strings.LastIndex(c.ListenAddr, ":")
	if i < 0 {
		return 0
	}
	p, err := strconv.Atoi(c.ListenAddr[i+1:])
	if err != nil {
		return 0
	}
	return p
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
