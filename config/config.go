// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/filesystem"
	"github.com/yamanami-choir/yamanami/key"
	"github.com/yamanami-choir/yamanami/where"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// SiteRoot returns the absolute site root. Relative values are resolved against the working directory.
func SiteRoot() string {
	root := viper.GetString(key.SiteRoot)
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

// ContentDir returns the directory holding every content collection.
func ContentDir() string {
	return filepath.Join(SiteRoot(), filepath.FromSlash(constant.ContentDir))
}

// PollInterval returns the embedded player sampling interval, never below 10ms.
func PollInterval() time.Duration {
	ms := viper.GetInt(key.PlayerPollInterval)
	if ms < 10 {
		ms = 10
	}
	return time.Duration(ms) * time.Millisecond
}
