// Package config implements vault profile loading (D2) via
// `spf13/viper` and struct-tag validation (D9) via
// `go-playground/validator/v10`, grounded on the teacher's
// `resolveVault`/Obsidian-config conventions (`vault.go`) generalized
// into first-class, file-backed profiles.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/RamXX/vlt/internal/vlterrors"
)

// Profile is one named vault configuration (spec §3 Profile).
type Profile struct {
	Name                  string `mapstructure:"name" validate:"required"`
	VaultRoot             string `mapstructure:"vault_root" validate:"required"`
	MaxFileSizeBytes      int64  `mapstructure:"max_file_size_bytes" validate:"omitempty,gt=0"`
	RelatedDefaultHops    int    `mapstructure:"related_default_hops" validate:"omitempty,gt=0"`
	ResolverCaseSensitive bool   `mapstructure:"resolver_case_sensitive"`
}

// Config is the top-level on-disk configuration: a set of named profiles
// plus the active one.
type Config struct {
	ActiveProfile string             `mapstructure:"active_profile"`
	Profiles      map[string]Profile `mapstructure:"profiles" validate:"dive"`
}

var validate = validator.New()

// Load reads configuration from the given path (or the conventional
// search locations if empty) via viper, then validates every profile.
// Environment variables prefixed VLT_ override file values, matching the
// teacher's existing VLT_VAULT_PATH fallback convention in vault.go.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("vlt")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("vlt")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vlt")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, vlterrors.Wrap(vlterrors.ConfigError, err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, vlterrors.Wrap(vlterrors.ConfigError, err, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate runs struct-tag validation over every profile, translating the
// first failure into a vlterrors.ValidationError.
func (c *Config) Validate() error {
	for name, p := range c.Profiles {
		if err := validate.Struct(p); err != nil {
			return vlterrors.Wrap(vlterrors.ValidationError, err, "profile %q failed validation", name)
		}
	}
	if c.ActiveProfile != "" {
		if _, ok := c.Profiles[c.ActiveProfile]; !ok {
			return vlterrors.New(vlterrors.ValidationError, "active_profile %q is not defined", c.ActiveProfile)
		}
	}
	return nil
}

// Active returns the currently active profile, or the single configured
// profile if exactly one exists and none is marked active.
func (c *Config) Active() (Profile, bool) {
	if c.ActiveProfile != "" {
		p, ok := c.Profiles[c.ActiveProfile]
		return p, ok
	}
	if len(c.Profiles) == 1 {
		for _, p := range c.Profiles {
			return p, true
		}
	}
	return Profile{}, false
}

// DefaultMaxFileSizeBytes is the 10 MiB default file-size limit. Load does
// not fill it into a Profile that leaves MaxFileSizeBytes unset.
const DefaultMaxFileSizeBytes = 10 * 1024 * 1024
