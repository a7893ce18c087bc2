package settings

import (
	"strings"
)

// BlockType 翻译结果的包裹样式
type BlockType string

const (
	// BlockCodeblock 围栏代码块
	BlockCodeblock BlockType = "codeblock"
	// BlockQuotation 引用块
	BlockQuotation BlockType = "quotation"
	// BlockCallout 可折叠的 callout
	BlockCallout BlockType = "callout"
)

const (
	// AutoDetect 交给翻译后端自动检测源语言
	AutoDetect = "auto"

	// DefaultTargetLanguage 目标语言被清空时的回退值
	DefaultTargetLanguage = "en"

	// DefaultBlockType 默认包裹样式
	DefaultBlockType = BlockCodeblock
)

// BlockTypes 返回全部合法的包裹样式（设置界面只提供这三项）
func BlockTypes() []BlockType {
	return []BlockType{BlockCodeblock, BlockQuotation, BlockCallout}
}

// Valid 是否为合法的包裹样式
func (b BlockType) Valid() bool {
	switch b {
	case BlockCodeblock, BlockQuotation, BlockCallout:
		return true
	default:
		return false
	}
}

// String 实现 fmt.Stringer
func (b BlockType) String() string {
	return string(b)
}

// ParseBlockType 解析包裹样式，非法值回退到默认值
func ParseBlockType(s string) (BlockType, bool) {
	b := BlockType(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return DefaultBlockType, false
	}
	return b, true
}

// Settings 进程级的翻译设置
type Settings struct {
	BlockType          BlockType `mapstructure:"block_type" yaml:"block_type"`
	PreferredLanguages []string  `mapstructure:"preferred_languages" yaml:"preferred_languages"`
	TargetLanguage     string    `mapstructure:"target_language" yaml:"target_language"`
}

// Default 返回硬编码的默认设置
func Default() Settings {
	return Settings{
		BlockType:          DefaultBlockType,
		PreferredLanguages: []string{},
		TargetLanguage:     DefaultTargetLanguage,
	}
}

// SourceHint 源语言提示：首选语言列表的第一项，列表为空时自动检测
func (s Settings) SourceHint() string {
	if len(s.PreferredLanguages) > 0 {
		return s.PreferredLanguages[0]
	}
	return AutoDetect
}

// Normalize 修正设置中违反约束的字段
func (s *Settings) Normalize() {
	if !s.BlockType.Valid() {
		s.BlockType = DefaultBlockType
	}
	s.PreferredLanguages = cleanLanguages(s.PreferredLanguages)
	s.TargetLanguage = coerceTarget(s.TargetLanguage)
}

// Clone 深拷贝，调用方拿到的切片与内部状态互不影响
func (s Settings) Clone() Settings {
	langs := make([]string, len(s.PreferredLanguages))
	copy(langs, s.PreferredLanguages)
	s.PreferredLanguages = langs
	return s
}

// ParseLanguageList 解析逗号分隔的语言列表，去除空白并丢弃空项
func ParseLanguageList(raw string) []string {
	return cleanLanguages(strings.Split(raw, ","))
}

// FormatLanguageList 以设置界面使用的形式输出语言列表
func FormatLanguageList(langs []string) string {
	return strings.Join(langs, ", ")
}

func cleanLanguages(langs []string) []string {
	cleaned := make([]string, 0, len(langs))
	for _, lang := range langs {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		cleaned = append(cleaned, lang)
	}
	return cleaned
}

func coerceTarget(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return DefaultTargetLanguage
	}
	return target
}

// Source 只读的设置来源，组件在每次调用时读取最新值
type Source interface {
	Current() Settings
}

// Static 固定不变的设置来源
type Static Settings

// Current 实现 Source
func (s Static) Current() Settings {
	return Settings(s).Clone()
}
