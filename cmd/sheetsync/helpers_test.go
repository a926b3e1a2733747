package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testEnv struct {
	dir    string
	config string
}

// newTestEnv 隔离 HOME、工作目录与 SHEETSYNC_* 变量，写入测试配置
// newTestEnv isolates HOME, the working directory and SHEETSYNC_* vars, and writes a config.
func newTestEnv(t *testing.T, extra string) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("USERPROFILE", dir)
	t.Setenv("NO_COLOR", "1")
	for _, k := range []string{
		"SHEETSYNC_HOME", "SHEETSYNC_AUTO_CONNECT", "SHEETSYNC_LOG_LEVEL",
		"SHEETSYNC_ELEVATION", "SHEETSYNC_CONFIG_PATH", "SHEETSYNC_LANG",
	} {
		t.Setenv(k, "")
	}
	oldwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	base := filepath.ToSlash(filepath.Join(dir, "state"))
	cfg := `{
  "storage": {"base_dir": "` + base + `"},
  "log": {"file": "sheetsync.log"},
  "locale": "en"` + extra + `
}`
	path := filepath.Join(dir, "test.config.json")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return testEnv{dir: dir, config: path}
}

// run 执行一次命令，stdin 为 input / runs one command with input as stdin
func (e testEnv) run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(input), &out, &errOut)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e testEnv) target(name string) string {
	return filepath.Join(e.dir, name)
}
