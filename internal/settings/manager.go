package settings

import (
	"fmt"
	"sync"

	"github.com/nerdneilsfield/go-inline-translator/internal/logger"
	"go.uber.org/zap"
)

// Manager 管理设置的生命周期：默认值 -> 加载覆盖 -> 修改即保存
type Manager struct {
	mu      sync.RWMutex
	current Settings
	store   Store
	logger  logger.Logger
}

// NewManager 创建设置管理器，初始值为默认设置
func NewManager(store Store, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		current: Default(),
		store:   store,
		logger:  log,
	}
}

// Load 用持久化的值覆盖默认值；损坏或缺失的设置静默回退到默认值
func (m *Manager) Load() Settings {
	partial, err := m.store.Load()
	if err != nil {
		m.logger.Warn("读取设置失败，使用默认值", zap.Error(err))
		partial = nil
	}

	m.mu.Lock()
	m.current = partial.Apply(Default())
	loaded := m.current.Clone()
	m.mu.Unlock()

	m.logger.Debug("设置已加载",
		zap.String("block_type", loaded.BlockType.String()),
		zap.Strings("preferred_languages", loaded.PreferredLanguages),
		zap.String("target_language", loaded.TargetLanguage))
	return loaded
}

// Current 实现 Source
func (m *Manager) Current() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// SetBlockType 修改包裹样式并立即保存
func (m *Manager) SetBlockType(b BlockType) error {
	if !b.Valid() {
		return fmt.Errorf("invalid block type %q", b)
	}
	return m.update(func(s *Settings) {
		s.BlockType = b
	})
}

// SetPreferredLanguages 从逗号分隔的输入设置首选语言并立即保存
func (m *Manager) SetPreferredLanguages(raw string) error {
	return m.update(func(s *Settings) {
		s.PreferredLanguages = ParseLanguageList(raw)
	})
}

// SetTargetLanguage 设置目标语言并立即保存，清空时回退为 "en"
func (m *Manager) SetTargetLanguage(raw string) error {
	return m.update(func(s *Settings) {
		s.TargetLanguage = coerceTarget(raw)
	})
}

func (m *Manager) update(mutate func(s *Settings)) error {
	m.mu.Lock()
	mutate(&m.current)
	m.current.Normalize()
	snapshot := m.current.Clone()
	m.mu.Unlock()

	if err := m.store.Save(snapshot); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
