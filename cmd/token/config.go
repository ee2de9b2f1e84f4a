package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config describes a ledger deployment.
type Config struct {
	Name          string `yaml:"name"`
	Symbol        string `yaml:"symbol"`
	Decimals      uint8  `yaml:"decimals"`
	InitialSupply string `yaml:"initial_supply"`
	Creator       string `yaml:"creator"`
	Stream        string `yaml:"stream"`
}

func loadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Creator == "" {
		return Config{}, fmt.Errorf("config %s: creator is required", path)
	}
	if cfg.InitialSupply == "" {
		cfg.InitialSupply = "0"
	}
	if cfg.Stream == "" {
		cfg.Stream = "ledger"
	}
	return cfg, nil
}
