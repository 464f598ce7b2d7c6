// Package config loads CLI configuration from flags, environment
// variables, and an optional project file, in that precedence order,
// using github.com/spf13/viper -- the teacher repo's own config
// package was a thin os.Getenv wrapper around a single hardcoded
// Postgres connection string; nothing in this analyzer talks to a
// database, so the shape here is new, but the "env vars drive
// defaults" idiom it replaces is kept.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds every setting a CLI subcommand can read, after flags,
// env vars, and an optional .oblibeny.yaml file have been merged.
type Config struct {
	Format     string // "text" | "dot", for call-graph rendering
	JSON       bool
	Pretty     bool
	Verbose    bool
	ExplainKey string // OBLIBENY_EXPLAIN_API_KEY
}

// Load builds a Config from the process environment and an optional
// project file named .oblibeny.yaml (searched for in the current
// directory and the user's home directory). Flag values passed in by
// the caller (already parsed by cobra) take precedence over both.
func Load(flagFormat string, flagJSON, flagPretty, flagVerbose bool) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("oblibeny")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("format", "text")
	v.SetDefault("json", false)
	v.SetDefault("pretty", false)
	v.SetDefault("verbose", false)

	v.SetConfigName(".oblibeny")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	cfg := &Config{
		Format:     v.GetString("format"),
		JSON:       v.GetBool("json"),
		Pretty:     v.GetBool("pretty"),
		Verbose:    v.GetBool("verbose"),
		ExplainKey: v.GetString("explain_api_key"),
	}

	if flagFormat != "" {
		cfg.Format = flagFormat
	}
	if flagJSON {
		cfg.JSON = true
	}
	if flagPretty {
		cfg.Pretty = true
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// HasExplainKey reports whether an explain-stage API key is configured.
func (c *Config) HasExplainKey() bool { return c.ExplainKey != "" }
