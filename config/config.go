// Package config loads, validates, and persists the simulation
// configuration. Files are YAML or JSON; the format is chosen by
// extension on save and detected on load.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradesim/exec"
	"github.com/rustyeddy/tradesim/policy"
	"github.com/rustyeddy/tradesim/risk"
	"github.com/rustyeddy/tradesim/sim"
)

// Config is the complete configuration for a simulation run.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Policy     PolicyConfig     `json:"policy" yaml:"policy"`
	Risk       risk.Limits      `json:"risk" yaml:"risk"`
	Execution  ExecutionConfig  `json:"execution" yaml:"execution"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// SimulationConfig contains episode parameters.
type SimulationConfig struct {
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
	FeeRate        float64 `json:"fee_rate" yaml:"fee_rate"`
	WindowSize     int     `json:"window_size" yaml:"window_size"`
}

// Sim converts the section into the simulator's own config type.
func (s SimulationConfig) Sim() sim.Config {
	return sim.Config{
		InitialBalance: s.InitialBalance,
		FeeRate:        s.FeeRate,
		WindowSize:     s.WindowSize,
	}
}

// PolicyConfig names the decision policy and its seed.
type PolicyConfig struct {
	Name string `json:"name" yaml:"name"`
	Seed int64  `json:"seed" yaml:"seed"`
}

// ExecutionConfig contains trade execution parameters. FallbackPrice
// is used when the venue cannot quote; zero disables the fallback.
type ExecutionConfig struct {
	Mode          string  `json:"mode" yaml:"mode"` // "paper" or "live"
	FallbackPrice float64 `json:"fallback_price,omitempty" yaml:"fallback_price,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file, YAML or JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, YAML for .yaml/.yml paths and
// indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Simulation.InitialBalance <= 0 {
		return fmt.Errorf("simulation.initial_balance must be positive")
	}
	if c.Simulation.FeeRate < 0 || c.Simulation.FeeRate >= 1 {
		return fmt.Errorf("simulation.fee_rate must be in [0, 1)")
	}
	if c.Simulation.WindowSize < 1 {
		return fmt.Errorf("simulation.window_size must be at least 1")
	}
	if _, err := policy.ByName(c.Policy.Name, c.Policy.Seed); err != nil {
		return fmt.Errorf("policy.name: %w", err)
	}
	if c.Risk.MaxRiskPerTrade <= 0 || c.Risk.MaxRiskPerTrade > 100 {
		return fmt.Errorf("risk.max_risk_per_trade must be in (0, 100]")
	}
	if c.Risk.MaxPositionSize <= 0 {
		return fmt.Errorf("risk.max_position_size must be positive")
	}
	if c.Risk.StopLossPct <= 0 {
		return fmt.Errorf("risk.stop_loss_percent must be positive")
	}
	if c.Risk.TakeProfitPct <= 0 {
		return fmt.Errorf("risk.take_profit_percent must be positive")
	}
	if c.Risk.MinBalance < 0 {
		return fmt.Errorf("risk.min_balance must not be negative")
	}
	if c.Risk.MaxOpenPositions < 1 {
		return fmt.Errorf("risk.max_open_positions must be at least 1")
	}
	switch exec.Mode(c.Execution.Mode) {
	case exec.ModePaper, exec.ModeLive:
	default:
		return fmt.Errorf("execution.mode must be %q or %q", exec.ModePaper, exec.ModeLive)
	}
	if c.Execution.FallbackPrice < 0 {
		return fmt.Errorf("execution.fallback_price must not be negative")
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults: the
// simulator's stock episode settings, the small spot-account risk
// profile, paper execution, and a SQLite journal.
func Default() *Config {
	sc := sim.DefaultConfig()
	return &Config{
		Account: AccountConfig{
			ID:       "SIM-001",
			Currency: "USD",
			Balance:  sc.InitialBalance,
		},
		Simulation: SimulationConfig{
			InitialBalance: sc.InitialBalance,
			FeeRate:        sc.FeeRate,
			WindowSize:     sc.WindowSize,
		},
		Policy: PolicyConfig{
			Name: "momentum",
			Seed: 42,
		},
		Risk: risk.DefaultLimits(),
		Execution: ExecutionConfig{
			Mode: string(exec.ModePaper),
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./tradesim.db",
		},
	}
}
