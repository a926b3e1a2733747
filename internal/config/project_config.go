package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InitProjectConfigScaffold 在 projectDir 下初始化项目级配置模板（./.sheetsync/config.json），已存在则保持不变。
// InitProjectConfigScaffold writes a project-level config scaffold (./.sheetsync/config.json) under projectDir.
// An existing file is left untouched. It returns the config path.
func InitProjectConfigScaffold(projectDir string) (string, error) {
	dir := filepath.Join(strings.TrimSpace(projectDir), ".sheetsync")
	path := filepath.Join(dir, "config.json")

	// 尊重用户现有配置 / respect an existing config
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("project config path is a directory: %s", path)
		}
		return path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat project config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir .sheetsync: %w", err)
	}

	cfg := Default()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write project config: %w", err)
	}
	return path, nil
}

// WriteElevation 将 permission.elevation 写入项目配置，保留其它字段
// WriteElevation sets permission.elevation in the project config, keeping other keys.
func WriteElevation(projectDir, decision string) error {
	if strings.TrimSpace(decision) == "" {
		return errors.New("elevation is empty")
	}
	normalized, ok := normalizeChoice(decision, ElevationAllow, ElevationAsk, ElevationDeny)
	if !ok {
		return fmt.Errorf("invalid elevation %q", decision)
	}
	dir := filepath.Join(strings.TrimSpace(projectDir), ".sheetsync")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir .sheetsync: %w", err)
	}
	path := filepath.Join(dir, "config.json")

	var root map[string]any
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(stripJSONComments(data), &root); err != nil {
			root = nil
		}
	}
	if root == nil {
		root = make(map[string]any)
	}
	perm, _ := root["permission"].(map[string]any)
	if perm == nil {
		perm = make(map[string]any)
	}
	perm["elevation"] = normalized
	root["permission"] = perm

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
