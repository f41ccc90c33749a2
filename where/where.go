// Package where resolves the directories yamanami keeps its own files in.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/filesystem"
)

// EnvConfigPath overrides the config directory.
const EnvConfigPath = "YAMANAMI_CONFIG_PATH"

// mkdir creates path if needed and returns it.
func mkdir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// appDir is the yamanami directory below a per-user base. fallback is used when the
// platform has no such base.
func appDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		dir = fallback
	}
	return mkdir(filepath.Join(dir, constant.App))
}

// Config holds yamanami.toml and the logs. YAMANAMI_CONFIG_PATH takes precedence.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return mkdir(custom)
	}
	return appDir(os.UserConfigDir, ".")
}

// Cache holds data that can be fetched again, such as probe results.
func Cache() string {
	return appDir(os.UserCacheDir, "cache")
}

// Logs holds one file per day.
func Logs() string {
	return mkdir(filepath.Join(Config(), "logs"))
}

// Probes is the cache file of hosted video metadata.
func Probes() string {
	return filepath.Join(Cache(), "probes.json")
}

// Temp holds encoded uploads until they are published.
func Temp() string {
	return mkdir(filepath.Join(os.TempDir(), constant.App))
}
