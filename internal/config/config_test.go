package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.Width != 800 || cfg.Game.Height != 600 {
		t.Errorf("playfield = %vx%v, want 800x600", cfg.Game.Width, cfg.Game.Height)
	}
	if cfg.Game.FireCooldown != 200*time.Millisecond {
		t.Errorf("cooldown = %v, want 200ms", cfg.Game.FireCooldown)
	}
	if cfg.Game.MaxBullets != 5 {
		t.Errorf("max bullets = %d, want 5", cfg.Game.MaxBullets)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beestrike.yaml")
	data := []byte("game:\n  width: 1024\n  fire_cooldown: 150ms\n  max_bullets: 3\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MAX_BULLETS", "7")
	t.Setenv("SSH_PORT", "2323")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.Width != 1024 {
		t.Errorf("width = %v, want 1024", cfg.Game.Width)
	}
	if cfg.Game.Height != 600 {
		t.Errorf("height = %v, want default 600", cfg.Game.Height)
	}
	if cfg.Game.FireCooldown != 150*time.Millisecond {
		t.Errorf("cooldown = %v, want 150ms", cfg.Game.FireCooldown)
	}
	if cfg.Game.MaxBullets != 7 {
		t.Errorf("env override lost: max bullets = %d", cfg.Game.MaxBullets)
	}
	if cfg.SSH.Port != "2323" || cfg.Log.Level != "debug" {
		t.Errorf("ssh port %q, log level %q", cfg.SSH.Port, cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Game)
	}{
		{"tiny playfield", func(g *Game) { g.Width = 40 }},
		{"spawn rate above one", func(g *Game) { g.EnemySpawnRate = 1.5 }},
		{"negative bullets", func(g *Game) { g.MaxBullets = -1 }},
		{"no lives", func(g *Game) { g.InitialLives = 0 }},
		{"negative speed", func(g *Game) { g.PlayerSpeed = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Default().Game
			tt.mutate(&g)
			if err := g.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate = %v, want ErrInvalid", err)
			}
		})
	}
	if err := Default().Game.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("BS_INT", "12")
	t.Setenv("BS_BAD", "twelve")
	t.Setenv("BS_BOOL", "false")
	t.Setenv("BS_DUR", "2s")

	if got := GetEnvInt("BS_INT", 1); got != 12 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("BS_BAD", 1); got != 1 {
		t.Errorf("GetEnvInt fallback = %d", got)
	}
	if got := GetEnvBool("BS_BOOL", true); got {
		t.Errorf("GetEnvBool = %v", got)
	}
	if got := GetEnvDuration("BS_DUR", time.Second); got != 2*time.Second {
		t.Errorf("GetEnvDuration = %v", got)
	}
	if got := GetEnv("BS_UNSET_KEY", "x"); got != "x" {
		t.Errorf("GetEnv fallback = %q", got)
	}
}

func TestFireCooldownFromEnv(t *testing.T) {
	t.Setenv("FIRE_COOLDOWN", "350ms")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.FireCooldown != 350*time.Millisecond {
		t.Errorf("fire cooldown = %v, want 350ms", cfg.Game.FireCooldown)
	}
}
