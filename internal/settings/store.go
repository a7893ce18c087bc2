package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	keyBlockType          = "block_type"
	keyPreferredLanguages = "preferred_languages"
	keyTargetLanguage     = "target_language"
)

// Partial 持久化的部分设置，nil 字段表示未保存过
type Partial struct {
	BlockType          *BlockType
	PreferredLanguages []string
	HasLanguages       bool
	TargetLanguage     *string
}

// Apply 将持久化的值逐字段覆盖到 base 上
func (p *Partial) Apply(base Settings) Settings {
	if p == nil {
		return base
	}
	if p.BlockType != nil {
		base.BlockType = *p.BlockType
	}
	if p.HasLanguages {
		base.PreferredLanguages = p.PreferredLanguages
	}
	if p.TargetLanguage != nil {
		base.TargetLanguage = *p.TargetLanguage
	}
	base.Normalize()
	return base
}

// Store 设置持久化接口
type Store interface {
	// Load 读取持久化的设置，首次运行时返回 nil
	Load() (*Partial, error)

	// Save 保存完整的设置
	Save(s Settings) error
}

// FileStore 基于 viper 的文件存储
type FileStore struct {
	path string
}

// NewFileStore 创建文件存储，path 为空时使用默认位置
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	return &FileStore{path: path}
}

// Path 返回设置文件路径
func (s *FileStore) Path() string {
	return s.path
}

// DefaultPath 返回默认的设置文件路径
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "inline-translator", "settings.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".inline-translator", "settings.yaml")
	}
	return "inline-translator-settings.yaml"
}

// Load 实现 Store
func (s *FileStore) Load() (*Partial, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat settings file: %w", err)
	}

	v := s.newViper()
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read settings file %s: %w", s.path, err)
	}

	partial := &Partial{}
	if v.IsSet(keyBlockType) {
		b, _ := ParseBlockType(v.GetString(keyBlockType))
		partial.BlockType = &b
	}
	if v.IsSet(keyPreferredLanguages) {
		partial.PreferredLanguages = decodeLanguages(v.Get(keyPreferredLanguages))
		partial.HasLanguages = true
	}
	if v.IsSet(keyTargetLanguage) {
		target := v.GetString(keyTargetLanguage)
		partial.TargetLanguage = &target
	}
	return partial, nil
}

// Save 实现 Store
func (s *FileStore) Save(settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	v := s.newViper()
	v.Set(keyBlockType, string(settings.BlockType))
	v.Set(keyPreferredLanguages, settings.PreferredLanguages)
	v.Set(keyTargetLanguage, settings.TargetLanguage)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings file %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	if filepath.Ext(s.path) == "" {
		v.SetConfigType("yaml")
	}
	return v
}

// decodeLanguages 兼容列表和逗号分隔字符串两种保存形式
func decodeLanguages(raw interface{}) []string {
	switch val := raw.(type) {
	case nil:
		return []string{}
	case string:
		return ParseLanguageList(val)
	case []string:
		return cleanLanguages(val)
	case []interface{}:
		langs := make([]string, 0, len(val))
		for _, item := range val {
			langs = append(langs, strings.TrimSpace(fmt.Sprint(item)))
		}
		return cleanLanguages(langs)
	default:
		return ParseLanguageList(fmt.Sprint(val))
	}
}

// MemoryStore 内存存储，用于测试和 --no-persist 运行
type MemoryStore struct {
	partial *Partial
	saved   []Settings
}

// NewMemoryStore 创建内存存储，partial 可为 nil
func NewMemoryStore(partial *Partial) *MemoryStore {
	return &MemoryStore{partial: partial}
}

// Load 实现 Store
func (m *MemoryStore) Load() (*Partial, error) {
	return m.partial, nil
}

// Save 实现 Store
func (m *MemoryStore) Save(s Settings) error {
	s = s.Clone()
	m.saved = append(m.saved, s)
	target := s.TargetLanguage
	block := s.BlockType
	m.partial = &Partial{
		BlockType:          &block,
		PreferredLanguages: s.PreferredLanguages,
		HasLanguages:       true,
		TargetLanguage:     &target,
	}
	return nil
}

// Saved 返回每次保存的快照
func (m *MemoryStore) Saved() []Settings {
	return m.saved
}
