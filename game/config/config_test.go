package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 5000 {
		t.Errorf("Expected default port 5000, got %d", cfg.Port)
	}
	if cfg.InitialTreasury != 500 {
		t.Errorf("Expected initial treasury 500, got %d", cfg.InitialTreasury)
	}
	if cfg.InitialSatisfaction != 20 {
		t.Errorf("Expected initial satisfaction 20, got %d", cfg.InitialSatisfaction)
	}
	if cfg.InitialStars != 3 {
		t.Errorf("Expected initial stars 3, got %d", cfg.InitialStars)
	}
	if cfg.PenaltyGold != 15 || cfg.PenaltySatisfaction != 10 {
		t.Errorf("Expected penalty 15G/10 satisfaction, got %dG/%d", cfg.PenaltyGold, cfg.PenaltySatisfaction)
	}
	if cfg.VIPPenaltyGold != 50 || cfg.VIPPenaltySatisfaction != 15 {
		t.Errorf("Expected VIP penalty 50G/15 satisfaction, got %dG/%d", cfg.VIPPenaltyGold, cfg.VIPPenaltySatisfaction)
	}
	if cfg.OrderTimeout != 30*time.Second {
		t.Errorf("Expected order timeout 30s, got %s", cfg.OrderTimeout)
	}
	if cfg.VIPOrderTimeout != 20*time.Second {
		t.Errorf("Expected VIP order timeout 20s, got %s", cfg.VIPOrderTimeout)
	}
	if cfg.VIPChance != 0.2 {
		t.Errorf("Expected VIP chance 0.2, got %f", cfg.VIPChance)
	}
	if cfg.VIPPriceMultiplier != 3 {
		t.Errorf("Expected VIP price multiplier 3, got %d", cfg.VIPPriceMultiplier)
	}
	if cfg.DefaultShelfLife != 3*time.Hour {
		t.Errorf("Expected default shelf life 3h, got %s", cfg.DefaultShelfLife)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PETITCHEF_PORT", "8080")
	t.Setenv("INITIAL_TREASURY", "1000")
	t.Setenv("VIP_CHANCE", "0.5")
	t.Setenv("ORDER_TIMEOUT", "45s")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.InitialTreasury != 1000 {
		t.Errorf("Expected treasury 1000, got %d", cfg.InitialTreasury)
	}
	if cfg.VIPChance != 0.5 {
		t.Errorf("Expected VIP chance 0.5, got %f", cfg.VIPChance)
	}
	if cfg.OrderTimeout != 45*time.Second {
		t.Errorf("Expected order timeout 45s, got %s", cfg.OrderTimeout)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PETITCHEF_PORT", "not-a-number")
	t.Setenv("ORDER_TIMEOUT", "soon")

	cfg := Load()

	if cfg.Port != 5000 {
		t.Errorf("Expected fallback port 5000, got %d", cfg.Port)
	}
	if cfg.OrderTimeout != 30*time.Second {
		t.Errorf("Expected fallback order timeout 30s, got %s", cfg.OrderTimeout)
	}
}
