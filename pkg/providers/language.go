package providers

import (
	"strings"

	"golang.org/x/text/language"
)

// AutoDetect 源语言自动检测的哨兵值
const AutoDetect = "auto"

var languageNames = map[string]string{
	"chinese":    "zh",
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"japanese":   "ja",
	"korean":     "ko",
	"portuguese": "pt",
	"russian":    "ru",
	"italian":    "it",
}

// IsAutoDetect 是否为自动检测哨兵（空字符串同样视为自动检测）
func IsAutoDetect(lang string) bool {
	lang = strings.TrimSpace(lang)
	return lang == "" || strings.EqualFold(lang, AutoDetect)
}

// NormalizeLanguageCode 标准化语言代码为 BCP 47 形式，如 "zh_cn" -> "zh-CN"
func NormalizeLanguageCode(lang string) string {
	lang = strings.TrimSpace(lang)
	if IsAutoDetect(lang) {
		return AutoDetect
	}
	if code, ok := languageNames[strings.ToLower(lang)]; ok {
		return code
	}

	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return lang
	}
	return tag.String()
}

// BaseLanguage 返回语言代码的主语言部分，如 "zh-CN" -> "zh"
func BaseLanguage(lang string) string {
	normalized := NormalizeLanguageCode(lang)
	if normalized == AutoDetect {
		return AutoDetect
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return strings.ToLower(normalized)
	}
	base, _ := tag.Base()
	return base.String()
}
