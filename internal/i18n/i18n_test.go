package i18n

import "testing"

func TestNew_English(t *testing.T) {
	i := New("en")
	if i.Locale() != "en" {
		t.Fatalf("Locale()=%q, want en", i.Locale())
	}
	got := i.T("status.not_connected")
	if got != "Not connected" {
		t.Fatalf("T(status.not_connected)=%q, want Not connected", got)
	}
}

func TestNew_Chinese(t *testing.T) {
	i := New("zh-CN")
	if i.Locale() != "zh-CN" {
		t.Fatalf("Locale()=%q, want zh-CN", i.Locale())
	}
	got := i.T("status.not_connected")
	if got != "未连接" {
		t.Fatalf("T(status.not_connected)=%q, want 未连接", got)
	}
}

func TestNew_ChineseFromLang(t *testing.T) {
	i := New("zh_CN.UTF-8")
	if i.Locale() != "zh-CN" {
		t.Fatalf("Locale()=%q, want zh-CN", i.Locale())
	}
	got := i.T("disconnect.ok")
	if got != "已断开连接" {
		t.Fatalf("T(disconnect.ok)=%q, want 已断开连接", got)
	}
}

func TestT_WithArgs(t *testing.T) {
	i := New("en")
	got := i.T("status.connected", "customer_data.xlsx")
	if got != "Connected: customer_data.xlsx" {
		t.Fatalf("T with args=%q", got)
	}
}

func TestT_MissingKey(t *testing.T) {
	i := New("en")
	got := i.T("nonexistent.key")
	if got != "nonexistent.key" {
		t.Fatalf("T missing key=%q, want key itself", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for k := range EnMessages {
		if _, ok := ZhCNMessages[k]; !ok {
			t.Errorf("zh-CN catalog missing %q", k)
		}
	}
	for k := range ZhCNMessages {
		if _, ok := EnMessages[k]; !ok {
			t.Errorf("en catalog missing %q", k)
		}
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en_US.UTF-8", "en"},
		{"zh_CN.UTF-8", "zh-CN"},
		{"zh_TW", "zh-CN"},
		{"en", "en"},
		{"", "en"},
		{"C", "en"},
		{"fr_FR", "fr-FR"},
		{"de_DE@euro", "de-DE"},
		{"POSIX", "en"},
	}
	for _, tt := range tests {
		got := normalizeLocale(tt.input)
		if got != tt.expected {
			t.Errorf("normalizeLocale(%q)=%q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{"sheetsync wins", map[string]string{"SHEETSYNC_LANG": "zh_CN.UTF-8", "LC_ALL": "en_US.UTF-8"}, "zh-CN"},
		{"LC_ALL over LANG", map[string]string{"LANG": "en_US.UTF-8", "LC_ALL": "zh_CN.UTF-8"}, "zh-CN"},
		{"LC_MESSAGES over LANG", map[string]string{"LANG": "zh_CN.UTF-8", "LC_MESSAGES": "en_GB"}, "en"},
		{"LC_ALL over LC_MESSAGES", map[string]string{"LC_MESSAGES": "en_GB", "LC_ALL": "zh_TW"}, "zh-CN"},
		{"LANG only", map[string]string{"LANG": "zh_CN.UTF-8"}, "zh-CN"},
		{"nothing set", map[string]string{}, "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range localeEnv {
				t.Setenv(k, tt.env[k])
			}
			if got := DetectLocale(); got != tt.expected {
				t.Fatalf("DetectLocale()=%q, want %q", got, tt.expected)
			}
		})
	}
}

func TestT_FallsBackToEnglish(t *testing.T) {
	i := &I18n{locale: "zh-CN", primary: map[string]string{}}
	if got := i.T("disconnect.ok"); got != EnMessages["disconnect.ok"] {
		t.Fatalf("T(disconnect.ok)=%q, want English fallback", got)
	}
}

func TestNew_OtherLocaleUsesEnglish(t *testing.T) {
	i := New("fr_FR.UTF-8")
	if i.Locale() != "fr-FR" {
		t.Fatalf("Locale()=%q, want fr-FR", i.Locale())
	}
	if got := i.T("status.not_connected"); got != "Not connected" {
		t.Fatalf("T(status.not_connected)=%q", got)
	}
}

func TestGlobal(t *testing.T) {
	g := Global()
	if g == nil {
		t.Fatal("Global() should not be nil")
	}
	// 应该返回同一实例 / Should return same instance
	g2 := Global()
	if g != g2 {
		t.Fatal("Global() should return same instance")
	}
}

func TestInit(t *testing.T) {
	Init("zh-CN")
	t.Cleanup(func() { Init("en") })
	if got := T("disconnect.ok"); got != "已断开连接" {
		t.Fatalf("T(disconnect.ok)=%q after Init(zh-CN)", got)
	}
	if Global().Locale() != "zh-CN" {
		t.Fatalf("Global().Locale()=%q", Global().Locale())
	}
}
