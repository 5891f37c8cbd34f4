// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	defaultExtension = "yaml"
	defaultTagName   = "yaml"

	// keyDelimiter replaces viper's "." so that host names can be map keys.
	keyDelimiter = "::"

	// DefaultEnvPrefix is the environment prefix used when none is supplied.
	DefaultEnvPrefix = "HTTPCHAIN"
)

// Loader reads a Config from a file system and the environment.
type Loader struct {
	afero.Fs
}

// NewLoader creates a Loader backed by the given file system.  A nil fs
// means the operating system's file system.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Loader{fs}
}

// Load reads the optional yaml file at path over the Default configuration,
// applies environment overrides, and validates the result.  Environment
// variables use envPrefix and the yaml keys joined by underscores, for
// example HTTPCHAIN_BUSY_MAX_REQUESTS.
func (l *Loader) Load(path, envPrefix string) (Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetFs(l.Fs)
	v.SetConfigType(defaultExtension)

	defaults, err := Marshal(Default())
	if err != nil {
		return Config{}, err
	}

	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, fmt.Errorf("read defaults: %w", err)
	}

	if len(path) > 0 {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if len(envPrefix) == 0 {
		envPrefix = DefaultEnvPrefix
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	var cfg Config
	err = v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = defaultTagName
	})

	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Marshal renders a Config as yaml.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return data, nil
}
