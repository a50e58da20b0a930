package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tyqualters/voidtools/internal/scripts"
)

const (
	defaultConfigFile = "voidtools.toml"
	EnvConfigPath     = "VOIDTOOLS_CONFIG"
)

type fileConfig struct {
	PackagePath     string `toml:"package-path"`
	PackageCPath    string `toml:"package-cpath"`
	ScriptsDir      string `toml:"scripts-dir"`
	MetricsTextfile string `toml:"metrics-textfile"`
}

type appConfig struct {
	PackagePath     string
	PackageCPath    string
	ScriptsDir      string
	MetricsTextfile string
}

type packagePaths struct {
	Path  string
	CPath string
}

func defaultAppConfig() appConfig {
	return appConfig{ScriptsDir: scripts.DefaultDir}
}

// loadAppConfig reads path over the defaults. A missing file is not an error.
func loadAppConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return appConfig{}, fmt.Errorf("load voidtools config: %w", err)
	}

	if meta.IsDefined("package-path") {
		cfg.PackagePath = strings.TrimSpace(raw.PackagePath)
	}
	if meta.IsDefined("package-cpath") {
		cfg.PackageCPath = strings.TrimSpace(raw.PackageCPath)
	}
	if meta.IsDefined("scripts-dir") {
		if dir := strings.TrimSpace(raw.ScriptsDir); dir != "" {
			cfg.ScriptsDir = dir
		}
	}
	if meta.IsDefined("metrics-textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.MetricsTextfile)
	}
	return cfg, nil
}

// packagePaths reports false when neither search path is configured.
func (c appConfig) packagePaths() (packagePaths, bool) {
	if c.PackagePath == "" && c.PackageCPath == "" {
		return packagePaths{}, false
	}
	return packagePaths{Path: c.PackagePath, CPath: c.PackageCPath}, true
}
