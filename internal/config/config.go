package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type StorageConfig struct {
	BaseDir string `json:"base_dir"`
	DBName  string `json:"db_name"`
}

type PermissionConfig struct {
	// Elevation 目标文件不可写时的处理：allow 自动提升，ask 询问用户，deny 直接拒绝。
	// Elevation decides what happens when the target is not writable: allow elevates silently, ask prompts, deny refuses.
	Elevation string `json:"elevation"`
}

type PickerConfig struct {
	// Mode 选择目标文件的方式：line（行输入）或 tui（全屏对话框）。
	// Mode selects how the target is picked: line (readline prompt) or tui (full-screen dialog).
	Mode        string `json:"mode"`
	DefaultName string `json:"default_name"`
}

type AppendConfig struct {
	AutoConnect bool `json:"auto_connect"`
}

type LogConfig struct {
	Level string `json:"level"`
	// File 相对路径基于 storage.base_dir；空字符串表示输出到 stderr。
	// File is relative to storage.base_dir; empty means stderr.
	File string `json:"file"`
}

type Config struct {
	Storage    StorageConfig    `json:"storage"`
	Permission PermissionConfig `json:"permission"`
	Picker     PickerConfig     `json:"picker"`
	Append     AppendConfig     `json:"append"`
	Log        LogConfig        `json:"log"`
	Locale     string           `json:"locale"`
}

type fileAppendConfig struct {
	AutoConnect *bool `json:"auto_connect"`
}

type fileLogConfig struct {
	Level *string `json:"level"`
	File  *string `json:"file"`
}

type fileConfig struct {
	Storage    *StorageConfig    `json:"storage"`
	Permission *PermissionConfig `json:"permission"`
	Picker     *PickerConfig     `json:"picker"`
	Append     *fileAppendConfig `json:"append"`
	Log        *fileLogConfig    `json:"log"`
	Locale     *string           `json:"locale"`
}

func Default() Config {
	return Config{
		Storage: StorageConfig{
			BaseDir: DefaultBaseDir,
			DBName:  DefaultDBName,
		},
		Permission: PermissionConfig{Elevation: ElevationAsk},
		Picker: PickerConfig{
			Mode:        PickerModeLine,
			DefaultName: DefaultWorkbookName,
		},
		Append: AppendConfig{AutoConnect: true},
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogFile,
		},
	}
}

// DBPath 返回 SQLite 文件的完整路径 / DBPath returns the full SQLite file path
func (c Config) DBPath() string {
	return filepath.Join(c.Storage.BaseDir, c.Storage.DBName)
}

// LogPath 返回日志文件路径；空表示 stderr / LogPath returns the log file path; empty means stderr
func (c Config) LogPath() string {
	f := strings.TrimSpace(c.Log.File)
	if f == "" {
		return ""
	}
	if filepath.IsAbs(f) {
		return f
	}
	return filepath.Join(c.Storage.BaseDir, f)
}

func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("SHEETSYNC_CONFIG_PATH")); envPath != "" && resolvedPath == "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".sheetsync", "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"sheetsync.config.json",
		".sheetsync/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Storage != nil {
		if strings.TrimSpace(fc.Storage.BaseDir) != "" {
			cfg.Storage.BaseDir = fc.Storage.BaseDir
		}
		if strings.TrimSpace(fc.Storage.DBName) != "" {
			cfg.Storage.DBName = fc.Storage.DBName
		}
	}
	if fc.Permission != nil && strings.TrimSpace(fc.Permission.Elevation) != "" {
		cfg.Permission.Elevation = fc.Permission.Elevation
	}
	if fc.Picker != nil {
		if strings.TrimSpace(fc.Picker.Mode) != "" {
			cfg.Picker.Mode = fc.Picker.Mode
		}
		if strings.TrimSpace(fc.Picker.DefaultName) != "" {
			cfg.Picker.DefaultName = fc.Picker.DefaultName
		}
	}
	if fc.Append != nil && fc.Append.AutoConnect != nil {
		cfg.Append.AutoConnect = *fc.Append.AutoConnect
	}
	if fc.Log != nil {
		if fc.Log.Level != nil {
			cfg.Log.Level = *fc.Log.Level
		}
		if fc.Log.File != nil {
			cfg.Log.File = *fc.Log.File
		}
	}
	if fc.Locale != nil {
		cfg.Locale = *fc.Locale
	}
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Storage.BaseDir) == "" {
		cfg.Storage.BaseDir = Default().Storage.BaseDir
	}
	baseDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	cfg.Storage.BaseDir = baseDir
	cfg.Storage.DBName = strings.TrimSpace(cfg.Storage.DBName)
	if cfg.Storage.DBName == "" {
		cfg.Storage.DBName = DefaultDBName
	}

	elevation, ok := normalizeChoice(cfg.Permission.Elevation, ElevationAllow, ElevationAsk, ElevationDeny)
	if !ok {
		return fmt.Errorf("invalid permission.elevation: %q", cfg.Permission.Elevation)
	}
	cfg.Permission.Elevation = elevation

	mode, ok := normalizeChoice(cfg.Picker.Mode, PickerModeLine, PickerModeTUI)
	if !ok {
		return fmt.Errorf("invalid picker.mode: %q", cfg.Picker.Mode)
	}
	cfg.Picker.Mode = mode
	cfg.Picker.DefaultName = strings.TrimSpace(cfg.Picker.DefaultName)
	if cfg.Picker.DefaultName == "" {
		cfg.Picker.DefaultName = DefaultWorkbookName
	}

	level, ok := normalizeChoice(cfg.Log.Level, "debug", "info", "warn", "error")
	if !ok {
		return fmt.Errorf("invalid log.level: %q", cfg.Log.Level)
	}
	cfg.Log.Level = level
	cfg.Log.File = strings.TrimSpace(cfg.Log.File)
	cfg.Locale = strings.TrimSpace(cfg.Locale)
	return nil
}

// normalizeChoice lowercases raw and checks it against allowed; empty picks allowed[0].
func normalizeChoice(raw string, allowed ...string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" && len(allowed) > 0 {
		return allowed[0], true
	}
	for _, a := range allowed {
		if s == a {
			return s, true
		}
	}
	return "", false
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("SHEETSYNC_HOME")); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SHEETSYNC_AUTO_CONNECT")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHEETSYNC_AUTO_CONNECT: %q", v)
		}
		cfg.Append.AutoConnect = b
	}
	if v := strings.TrimSpace(os.Getenv("SHEETSYNC_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("SHEETSYNC_ELEVATION")); v != "" {
		cfg.Permission.Elevation = v
	}

	return cfg, normalize(&cfg)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
