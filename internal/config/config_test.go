package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate 把 HOME 和工作目录指向临时目录，并清空 SHEETSYNC_* 变量
// isolate points HOME and the working directory at temp dirs and clears SHEETSYNC_* vars.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{
		"SHEETSYNC_HOME", "SHEETSYNC_AUTO_CONNECT", "SHEETSYNC_LOG_LEVEL",
		"SHEETSYNC_ELEVATION", "SHEETSYNC_CONFIG_PATH",
	} {
		t.Setenv(k, "")
	}
	work = t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	return home, work
}

func TestDefaults(t *testing.T) {
	home, _ := isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.BaseDir != filepath.Join(home, ".sheetsync") {
		t.Fatalf("base_dir=%q", cfg.Storage.BaseDir)
	}
	if cfg.DBPath() != filepath.Join(home, ".sheetsync", DefaultDBName) {
		t.Fatalf("db path=%q", cfg.DBPath())
	}
	if cfg.Permission.Elevation != ElevationAsk {
		t.Fatalf("elevation=%q", cfg.Permission.Elevation)
	}
	if !cfg.Append.AutoConnect {
		t.Fatal("auto_connect should default to true")
	}
	if cfg.Picker.DefaultName != DefaultWorkbookName {
		t.Fatalf("default_name=%q", cfg.Picker.DefaultName)
	}
}

func TestLoadJSONCAndPrecedence(t *testing.T) {
	home, _ := isolate(t)

	globalDir := filepath.Join(home, ".sheetsync")
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	globalCfg := `{
  // global
  "permission": {"elevation": "deny"},
  "log": {"level": "debug"},
  "append": {"auto_connect": false}
}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalCfg), 0o644); err != nil {
		t.Fatal(err)
	}
	projectCfg := `{
  /* project wins */
  "permission": {"elevation": "ALLOW"},
  "picker": {"default_name": "orders.xlsx"}
}`
	if err := os.WriteFile("sheetsync.config.json", []byte(projectCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Permission.Elevation != ElevationAllow {
		t.Fatalf("elevation=%q", cfg.Permission.Elevation)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log.level=%q", cfg.Log.Level)
	}
	if cfg.Append.AutoConnect {
		t.Fatal("auto_connect expected false from global config")
	}
	if cfg.Picker.DefaultName != "orders.xlsx" {
		t.Fatalf("default_name=%q", cfg.Picker.DefaultName)
	}
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	custom := t.TempDir()
	t.Setenv("SHEETSYNC_HOME", custom)
	t.Setenv("SHEETSYNC_AUTO_CONNECT", "false")
	t.Setenv("SHEETSYNC_ELEVATION", "deny")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.BaseDir != custom {
		t.Fatalf("base_dir=%q", cfg.Storage.BaseDir)
	}
	if cfg.Append.AutoConnect {
		t.Fatal("auto_connect expected false")
	}
	if cfg.Permission.Elevation != ElevationDeny {
		t.Fatalf("elevation=%q", cfg.Permission.Elevation)
	}
}

func TestInvalidValues(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("sheetsync.config.json", []byte(`{"permission":{"elevation":"sometimes"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid elevation")
	}

	t.Setenv("SHEETSYNC_AUTO_CONNECT", "maybe")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for invalid SHEETSYNC_AUTO_CONNECT")
	}
}

func TestLogPath(t *testing.T) {
	cfg := Default()
	cfg.Storage.BaseDir = "/var/lib/sheetsync"
	if got := cfg.LogPath(); got != filepath.Join("/var/lib/sheetsync", DefaultLogFile) {
		t.Fatalf("LogPath=%q", got)
	}
	cfg.Log.File = ""
	if got := cfg.LogPath(); got != "" {
		t.Fatalf("LogPath=%q, want empty", got)
	}
}

func TestScaffoldAndWriteElevation(t *testing.T) {
	_, work := isolate(t)

	path, err := InitProjectConfigScaffold(work)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(work, ".sheetsync", "config.json") {
		t.Fatalf("path=%q", path)
	}
	if err := WriteElevation(work, "Deny"); err != nil {
		t.Fatal(err)
	}
	// 已存在时不覆盖 / an existing scaffold is kept
	if _, err := InitProjectConfigScaffold(work); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Permission.Elevation != ElevationDeny {
		t.Fatalf("elevation=%q", cfg.Permission.Elevation)
	}
	if err := WriteElevation(work, ""); err == nil {
		t.Fatal("expected error for empty elevation")
	}
	if err := WriteElevation(work, "never"); err == nil {
		t.Fatal("expected error for unknown elevation")
	}
}
