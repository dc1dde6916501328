package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the overrides read from the process environment. Unset
// variables leave the matching field nil.
type Env struct {
	DataDir   string   `env:"DEMSIM_DATA"`
	Dt        *float64 `env:"DEMSIM_DT"`
	TMax      *float64 `env:"DEMSIM_T_MAX"`
	SaveCount *int     `env:"DEMSIM_SAVE_COUNT"`
	Precision *int     `env:"DEMSIM_PRECISION"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadEnv() (Env, error) {
	var e Env
	err := ParseEnv(&e)
	return e, err
}

// ApplyEnv overwrites the run parameters that are set in e.
func (c *Config) ApplyEnv(e Env) {
	if e.Dt != nil {
		c.Dt = *e.Dt
	}
	if e.TMax != nil {
		c.TMax = *e.TMax
	}
	if e.SaveCount != nil {
		c.SaveCount = *e.SaveCount
	}
	if e.Precision != nil {
		c.Precision = *e.Precision
	}
}
