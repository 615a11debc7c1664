package engine

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/monstergarden/monstergarden/engine/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	Server ServerConfig      `toml:"server"`
	DB     database.DBConfig `toml:"db"`
	Game   GameConfig        `toml:"game"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// GameConfig tunes the reward economy. Zero values fall back to the built-in
// defaults so a minimal config file still boots.
type GameConfig struct {
	StartingBalance   int64         `toml:"starting_balance"`
	BaseXP            int64         `toml:"base_xp"`
	BaseCost          int64         `toml:"base_cost"`
	ActionCoinReward  int64         `toml:"action_coin_reward"`
	MatchedStateBonus int64         `toml:"matched_state_bonus"`
	ActionXPReward    int64         `toml:"action_xp_reward"`
	ActionCooldown    time.Duration `toml:"action_cooldown"`
	DailyActionLimit  int           `toml:"daily_action_limit"`
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Game.StartingBalance == 0 {
		c.Game.StartingBalance = 100
	}
	if c.Game.BaseXP == 0 {
		c.Game.BaseXP = 100
	}
	if c.Game.BaseCost == 0 {
		c.Game.BaseCost = 100
	}
	if c.Game.ActionCoinReward == 0 {
		c.Game.ActionCoinReward = 5
	}
	if c.Game.MatchedStateBonus == 0 {
		c.Game.MatchedStateBonus = 2
	}
	if c.Game.ActionXPReward == 0 {
		c.Game.ActionXPReward = 25
	}
}
