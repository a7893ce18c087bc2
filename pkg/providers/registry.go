package providers

import (
	"fmt"
	"sort"
	"sync"
)

// Options 创建提供商所需的通用参数
type Options struct {
	BaseConfig

	// LLM 类后端使用的模型与温度
	Model       string
	Temperature float64

	// DeepL 免费版端点
	UseFreeAPI bool
}

// Constructor 提供商构造函数
type Constructor func(opts Options) (Provider, error)

// Descriptor 注册表中的提供商描述
type Descriptor struct {
	Name           string
	Description    string
	RequiresAPIKey bool
	New            Constructor
}

// Registry 提供商注册表
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewRegistry 创建新的注册表
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]Descriptor),
	}
}

// Register 注册提供商
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.Name == "" || d.New == nil {
		return fmt.Errorf("provider descriptor requires a name and constructor")
	}
	if _, exists := r.descriptors[d.Name]; exists {
		return fmt.Errorf("provider %s already registered", d.Name)
	}

	r.descriptors[d.Name] = d
	return nil
}

// Get 获取提供商描述
func (r *Registry) Get(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.descriptors[name]
	if !exists {
		return Descriptor{}, fmt.Errorf("provider %s not found", name)
	}

	return d, nil
}

// Create 按名称创建提供商
func (r *Registry) Create(name string, opts Options) (Provider, error) {
	d, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if d.RequiresAPIKey && opts.APIKey == "" {
		return nil, fmt.Errorf("provider %s requires an API key", name)
	}
	return d.New(opts)
}

// List 按名称排序列出所有提供商
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return list
}

// Names 列出所有提供商名称
func (r *Registry) Names() []string {
	list := r.List()
	names := make([]string, 0, len(list))
	for _, d := range list {
		names = append(names, d.Name)
	}
	return names
}
