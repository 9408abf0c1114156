package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Largest entity edge; the playfield must fit it.
const minPlayfieldEdge = 80

// Config is the full runtime configuration shared by all hosts.
type Config struct {
	Game   Game   `yaml:"game"`
	Audio  Audio  `yaml:"audio"`
	Scores Scores `yaml:"scores"`
	Log    Log    `yaml:"log"`
	SSH    SSH    `yaml:"ssh"`
}

// Game holds the simulation tuning a player may want to change.
type Game struct {
	Width          float64       `yaml:"width"`
	Height         float64       `yaml:"height"`
	PlayerSpeed    float64       `yaml:"player_speed"`
	BulletSpeed    float64       `yaml:"bullet_speed"`
	EnemySpawnRate float64       `yaml:"enemy_spawn_rate"`
	MaxBullets     int           `yaml:"max_bullets"`
	FireCooldown   time.Duration `yaml:"fire_cooldown"`
	StarCount      int           `yaml:"star_count"`
	InitialLives   int           `yaml:"initial_lives"`
}

type Audio struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
}

type Scores struct {
	Path string `yaml:"path"` // empty keeps scores in memory
}

type Log struct {
	Level string `yaml:"level"`
}

type SSH struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	HostKeyPath string `yaml:"host_key_path"`
	StatusAddr  string `yaml:"status_addr"`  // HTTP landing page and leaderboard; empty disables
	DisplayHost string `yaml:"display_host"` // host name shown in the connect command
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Game: Game{
			Width:          800,
			Height:         600,
			PlayerSpeed:    5,
			BulletSpeed:    8,
			EnemySpawnRate: 0.02,
			MaxBullets:     5,
			FireCooldown:   200 * time.Millisecond,
			StarCount:      100,
			InitialLives:   3,
		},
		Audio: Audio{
			Enabled: true,
			Volume:  0.3,
		},
		Scores: Scores{
			Path: "beestrike_high_score.yaml",
		},
		Log: Log{
			Level: "info",
		},
		SSH: SSH{
			Host:        "::",
			Port:        "2222",
			HostKeyPath: "/app/keys/host_key",
			StatusAddr:  ":8080",
			DisplayHost: "localhost",
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (if path is
// non-empty), then environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Game.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Audio.Volume < 0 || cfg.Audio.Volume > 1 {
		return Config{}, fmt.Errorf("%w: audio volume %v outside [0,1]", ErrInvalid, cfg.Audio.Volume)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.SSH.Host = GetEnv("SSH_HOST", c.SSH.Host)
	c.SSH.Port = GetEnv("SSH_PORT", c.SSH.Port)
	c.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", c.SSH.HostKeyPath)
	c.SSH.StatusAddr = GetEnv("STATUS_ADDR", c.SSH.StatusAddr)
	c.SSH.DisplayHost = GetEnv("SSH_DISPLAY_HOST", c.SSH.DisplayHost)
	c.Scores.Path = GetEnv("HIGH_SCORE_PATH", c.Scores.Path)
	c.Audio.Enabled = GetEnvBool("AUDIO_ENABLED", c.Audio.Enabled)
	c.Audio.Volume = GetEnvFloat("AUDIO_VOLUME", c.Audio.Volume)
	c.Log.Level = GetEnv("LOG_LEVEL", c.Log.Level)
	c.Game.Width = GetEnvFloat("PLAYFIELD_WIDTH", c.Game.Width)
	c.Game.Height = GetEnvFloat("PLAYFIELD_HEIGHT", c.Game.Height)
	c.Game.EnemySpawnRate = GetEnvFloat("ENEMY_SPAWN_RATE", c.Game.EnemySpawnRate)
	c.Game.MaxBullets = GetEnvInt("MAX_BULLETS", c.Game.MaxBullets)
	c.Game.FireCooldown = GetEnvDuration("FIRE_COOLDOWN", c.Game.FireCooldown)
}

// Validate rejects settings the simulation cannot run with.
func (g Game) Validate() error {
	switch {
	case g.Width < minPlayfieldEdge || g.Height < minPlayfieldEdge:
		return fmt.Errorf("%w: playfield %vx%v smaller than %d", ErrInvalid, g.Width, g.Height, minPlayfieldEdge)
	case g.PlayerSpeed < 0 || g.BulletSpeed < 0:
		return fmt.Errorf("%w: negative speed", ErrInvalid)
	case g.EnemySpawnRate < 0 || g.EnemySpawnRate > 1:
		return fmt.Errorf("%w: spawn rate %v outside [0,1]", ErrInvalid, g.EnemySpawnRate)
	case g.MaxBullets < 0:
		return fmt.Errorf("%w: negative bullet cap", ErrInvalid)
	case g.FireCooldown < 0:
		return fmt.Errorf("%w: negative fire cooldown", ErrInvalid)
	case g.InitialLives < 1:
		return fmt.Errorf("%w: initial lives must be at least 1", ErrInvalid)
	case g.StarCount < 0:
		return fmt.Errorf("%w: negative star count", ErrInvalid)
	}
	return nil
}
