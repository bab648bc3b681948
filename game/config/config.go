// Package config centralizes every gameplay tunable and server setting.
//
// Values come from the environment (optionally via a .env file) with the
// game's canonical defaults as fallbacks, so a bare `go run .` always starts
// a playable server.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server settings and gameplay constants.
type Config struct {
	// HTTP server
	Host string
	Port int

	// Persistence
	DatabasePath string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Telemetry
	LogLevel string

	// Player defaults
	InitialTreasury     int
	InitialSatisfaction int
	InitialStars        int

	// Order resolution rewards and penalties
	PenaltyGold            int
	PenaltySatisfaction    int
	SatisfactionReward     int
	VIPPenaltyGold         int
	VIPPenaltySatisfaction int
	VIPSatisfactionReward  int

	// Order generation
	OrderIntervalMin   time.Duration
	OrderIntervalMax   time.Duration
	OrderTimeout       time.Duration
	VIPOrderTimeout    time.Duration
	FirstOrderDelay    time.Duration
	DefaultRecipePrice int
	VIPChance          float64
	VIPPriceMultiplier int

	// Perishable stock
	DefaultShelfLife time.Duration
	SweepInterval    time.Duration
}

// Load reads configuration from the environment, falling back to the game's
// canonical defaults. A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Host: envStr("PETITCHEF_HOST", "0.0.0.0"),
		Port: envInt("PETITCHEF_PORT", 5000),

		DatabasePath: envStr("PETITCHEF_DB", "petitchef.db"),

		JWTSecret: envStr("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:  envDur("TOKEN_TTL", 7*24*time.Hour),

		LogLevel: envStr("LOG_LEVEL", "info"),

		InitialTreasury:     envInt("INITIAL_TREASURY", 500),
		InitialSatisfaction: envInt("INITIAL_SATISFACTION", 20),
		InitialStars:        envInt("INITIAL_STARS", 3),

		PenaltyGold:            envInt("PENALTY_GOLD", 15),
		PenaltySatisfaction:    envInt("PENALTY_SATISFACTION", 10),
		SatisfactionReward:     envInt("SATISFACTION_REWARD", 1),
		VIPPenaltyGold:         envInt("VIP_PENALTY_GOLD", 50),
		VIPPenaltySatisfaction: envInt("VIP_PENALTY_SATISFACTION", 15),
		VIPSatisfactionReward:  envInt("VIP_SATISFACTION_REWARD", 5),

		OrderIntervalMin:   envDur("ORDER_INTERVAL_MIN", 5*time.Second),
		OrderIntervalMax:   envDur("ORDER_INTERVAL_MAX", 12*time.Second),
		OrderTimeout:       envDur("ORDER_TIMEOUT", 30*time.Second),
		VIPOrderTimeout:    envDur("VIP_ORDER_TIMEOUT", 20*time.Second),
		FirstOrderDelay:    envDur("FIRST_ORDER_DELAY", 2*time.Second),
		DefaultRecipePrice: envInt("DEFAULT_RECIPE_PRICE", 50),
		VIPChance:          envFloat("VIP_CHANCE", 0.2),
		VIPPriceMultiplier: envInt("VIP_PRICE_MULTIPLIER", 3),

		DefaultShelfLife: envDur("DEFAULT_SHELF_LIFE", 3*time.Hour),
		SweepInterval:    envDur("EXPIRATION_SWEEP_INTERVAL", 60*time.Second),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
