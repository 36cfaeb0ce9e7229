package domain

import (
	"log/slog"
	"time"
)

type Config struct {
	DataDir string       `json:"data_dir"`
	Logger  *slog.Logger `json:"-"`

	Engine EngineConfig `json:"engine"`
	Hooks  HooksConfig  `json:"hooks"`
	Store  StoreConfig  `json:"store"`
}

type EngineConfig struct {
	MaxConcurrency     int           `json:"max_concurrency"`
	NodeTimeout        time.Duration `json:"node_timeout"`
	RetryCount         int           `json:"retry_count"`
	DefaultStrategy    StrategyType  `json:"default_strategy"`
	WorkSimulationSeed int64         `json:"work_simulation_seed,omitempty"`
}

type HooksConfig struct {
	Enabled        bool          `json:"enabled"`
	CallbackBudget time.Duration `json:"callback_budget"`
}

type StoreConfig struct {
	Persistent   bool `json:"persistent"`
	HistoryLimit int  `json:"history_limit"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine: DefaultEngineConfig(),
		Hooks: HooksConfig{
			Enabled:        true,
			CallbackBudget: 30 * time.Second,
		},
		Store: StoreConfig{
			Persistent:   false,
			HistoryLimit: 1000,
		},
	}
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxConcurrency:  4,
		NodeTimeout:     5 * time.Minute,
		RetryCount:      0,
		DefaultStrategy: StrategySequential,
	}
}

func (c *Config) Validate() error {
	if c.Engine.MaxConcurrency < 1 {
		return ErrInvalidConfig
	}
	if c.Store.Persistent && c.DataDir == "" {
		return ErrInvalidConfig
	}
	return nil
}
