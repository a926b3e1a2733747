package i18n

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

const (
	localeEN   = "en"
	localeZhCN = "zh-CN"
)

// localeEnv 按 POSIX 优先级排列，SHEETSYNC_LANG 最先
// localeEnv is in POSIX precedence order, with SHEETSYNC_LANG ahead of it.
var localeEnv = []string{"SHEETSYNC_LANG", "LC_ALL", "LC_MESSAGES", "LANG"}

// I18n 状态文案目录。primary 缺少的键回退到英文目录
// I18n resolves status strings. Keys missing from primary fall back to the English catalog.
type I18n struct {
	locale  string
	primary map[string]string
}

var (
	globalMu sync.Mutex
	global   *I18n
)

// Global 返回全局实例，首次调用时按环境检测语言
// Global returns the process-wide instance, detected from the environment on first use.
func Global() *I18n {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = New("")
	}
	return global
}

// Init 以配置的语言替换全局实例 / Init replaces the global instance with the configured locale
func Init(locale string) {
	i := New(locale)
	globalMu.Lock()
	global = i
	globalMu.Unlock()
}

func T(key string, args ...any) string {
	return Global().T(key, args...)
}

// New 为 locale 选择目录；空 locale 时自动检测
// New picks the catalog for locale, detecting it when empty.
func New(locale string) *I18n {
	if strings.TrimSpace(locale) == "" {
		locale = DetectLocale()
	}
	locale = normalizeLocale(locale)
	return &I18n{locale: locale, primary: catalogFor(locale)}
}

func catalogFor(locale string) map[string]string {
	if locale == localeZhCN {
		return ZhCNMessages
	}
	return EnMessages
}

func (i *I18n) T(key string, args ...any) string {
	tmpl, ok := i.primary[key]
	if !ok {
		if tmpl, ok = EnMessages[key]; !ok {
			return key
		}
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

func (i *I18n) Locale() string {
	return i.locale
}

// DetectLocale 返回第一个非空语言变量对应的 locale，默认 en
// DetectLocale returns the locale of the first non-empty variable in localeEnv, en otherwise.
func DetectLocale() string {
	for _, env := range localeEnv {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return normalizeLocale(v)
		}
	}
	return localeEN
}

// normalizeLocale 把 POSIX 语言值（zh_CN.UTF-8、C）转成 BCP 47；中文统一为 zh-CN
// normalizeLocale turns POSIX values such as zh_CN.UTF-8 or C into BCP 47 tags.
// Every Chinese variant maps to zh-CN, the only Chinese catalog.
func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, ".@"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || strings.EqualFold(s, "C") || strings.EqualFold(s, "POSIX") {
		return localeEN
	}

	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	switch base, _ := tag.Base(); base.String() {
	case "zh":
		return localeZhCN
	case "en":
		return localeEN
	}
	return tag.String()
}
