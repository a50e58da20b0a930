package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tyqualters/voidtools/internal/scripts"
	"github.com/tyqualters/voidtools/internal/testutil/testlog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voidtools.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppConfigMissingFileUsesDefaults(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadAppConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ScriptsDir != scripts.DefaultDir {
		t.Fatalf("unexpected scripts dir: %q", cfg.ScriptsDir)
	}
	if _, ok := cfg.packagePaths(); ok {
		t.Fatalf("expected no package paths")
	}
}

func TestLoadAppConfigOverrides(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
package-path = " ./lib/?.lua "
package-cpath = "./lib/?.so"
scripts-dir = "/opt/voidtools/scripts"
metrics-textfile = "/var/lib/node_exporter/voidtools.prom"
`)
	cfg, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ScriptsDir != "/opt/voidtools/scripts" {
		t.Fatalf("unexpected scripts dir: %q", cfg.ScriptsDir)
	}
	if cfg.MetricsTextfile != "/var/lib/node_exporter/voidtools.prom" {
		t.Fatalf("unexpected metrics textfile: %q", cfg.MetricsTextfile)
	}
	paths, ok := cfg.packagePaths()
	if !ok {
		t.Fatalf("expected package paths")
	}
	if paths.Path != "./lib/?.lua" || paths.CPath != "./lib/?.so" {
		t.Fatalf("unexpected package paths: %+v", paths)
	}
}

func TestPackagePathsEitherKeySuffices(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadAppConfig(writeConfig(t, `package-cpath = "./?.so"`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	paths, ok := cfg.packagePaths()
	if !ok || paths.Path != "" || paths.CPath != "./?.so" {
		t.Fatalf("unexpected package paths: %+v ok=%v", paths, ok)
	}
}

func TestLoadAppConfigEmptyScriptsDirKeepsDefault(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadAppConfig(writeConfig(t, `scripts-dir = "  "`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ScriptsDir != scripts.DefaultDir {
		t.Fatalf("unexpected scripts dir: %q", cfg.ScriptsDir)
	}
}

func TestLoadAppConfigBadSyntax(t *testing.T) {
	testlog.Start(t)
	if _, err := loadAppConfig(writeConfig(t, `package-path = `)); err == nil {
		t.Fatalf("expected parse error")
	}
}
