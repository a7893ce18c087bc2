package stats

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ProviderStats 后端调用统计
type ProviderStats struct {
	ProviderName       string           `json:"provider_name"`
	ModelName          string           `json:"model_name"`
	TotalRequests      int64            `json:"total_requests"`
	SuccessfulRequests int64            `json:"successful_requests"`
	FailedRequests     int64            `json:"failed_requests"`
	TotalTokensIn      int64            `json:"total_tokens_in"`
	TotalTokensOut     int64            `json:"total_tokens_out"`
	TotalCharacters    int64            `json:"total_characters"`
	AverageLatency     time.Duration    `json:"average_latency"`
	MinLatency         time.Duration    `json:"min_latency"`
	MaxLatency         time.Duration    `json:"max_latency"`
	TotalLatency       time.Duration    `json:"total_latency"`
	ErrorTypes         map[string]int64 `json:"error_types"`
	FirstRequestTime   time.Time        `json:"first_request_time"`
	LastRequestTime    time.Time        `json:"last_request_time"`
}

// SuccessRate 成功率（百分比）
func (ps *ProviderStats) SuccessRate() float64 {
	if ps.TotalRequests == 0 {
		return 0
	}
	return float64(ps.SuccessfulRequests) / float64(ps.TotalRequests) * 100
}

// RequestResult 单次请求结果
type RequestResult struct {
	Success    bool
	Latency    time.Duration
	TokensIn   int
	TokensOut  int
	Characters int
	ErrorType  string
}

// StatsManager 统计管理器
type StatsManager struct {
	mu    sync.RWMutex
	stats map[string]*ProviderStats // key: provider:model
}

// NewStatsManager 创建统计管理器
func NewStatsManager() *StatsManager {
	return &StatsManager{
		stats: make(map[string]*ProviderStats),
	}
}

func key(provider, model string) string {
	return fmt.Sprintf("%s:%s", provider, model)
}

// RecordRequest 记录请求结果
func (sm *StatsManager) RecordRequest(provider, model string, result RequestResult) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	k := key(provider, model)
	stats, ok := sm.stats[k]
	if !ok {
		stats = &ProviderStats{
			ProviderName: provider,
			ModelName:    model,
			ErrorTypes:   make(map[string]int64),
			MinLatency:   result.Latency,
		}
		sm.stats[k] = stats
	}

	now := time.Now()
	if stats.FirstRequestTime.IsZero() {
		stats.FirstRequestTime = now
	}
	stats.LastRequestTime = now

	stats.TotalRequests++
	if result.Success {
		stats.SuccessfulRequests++
	} else {
		stats.FailedRequests++
		if result.ErrorType != "" {
			stats.ErrorTypes[result.ErrorType]++
		}
	}

	stats.TotalTokensIn += int64(result.TokensIn)
	stats.TotalTokensOut += int64(result.TokensOut)
	stats.TotalCharacters += int64(result.Characters)

	// 延迟统计
	stats.TotalLatency += result.Latency
	if result.Latency < stats.MinLatency {
		stats.MinLatency = result.Latency
	}
	if result.Latency > stats.MaxLatency {
		stats.MaxLatency = result.Latency
	}
	stats.AverageLatency = stats.TotalLatency / time.Duration(stats.TotalRequests)
}

// GetStats 获取指定后端的统计副本，没有记录时返回 nil
func (sm *StatsManager) GetStats(provider, model string) *ProviderStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	stats, ok := sm.stats[key(provider, model)]
	if !ok {
		return nil
	}
	return stats.clone()
}

// GetAllStats 按后端名称排序返回全部统计副本
func (sm *StatsManager) GetAllStats() []*ProviderStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	all := make([]*ProviderStats, 0, len(sm.stats))
	for _, s := range sm.stats {
		all = append(all, s.clone())
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ProviderName != all[j].ProviderName {
			return all[i].ProviderName < all[j].ProviderName
		}
		return all[i].ModelName < all[j].ModelName
	})
	return all
}

// WriteTable 以表格形式输出统计
func (sm *StatsManager) WriteTable(w io.Writer) {
	all := sm.GetAllStats()
	if len(all) == 0 {
		fmt.Fprintln(w, "No backend calls recorded.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Provider", "Model", "Requests", "Success %", "Avg latency", "Chars", "Tokens out"})
	for _, s := range all {
		t.AppendRow(table.Row{
			s.ProviderName,
			s.ModelName,
			s.TotalRequests,
			fmt.Sprintf("%.1f", s.SuccessRate()),
			s.AverageLatency.Round(time.Millisecond),
			s.TotalCharacters,
			s.TotalTokensOut,
		})
	}
	t.Render()
}

func (ps *ProviderStats) clone() *ProviderStats {
	c := *ps
	c.ErrorTypes = make(map[string]int64, len(ps.ErrorTypes))
	for k, v := range ps.ErrorTypes {
		c.ErrorTypes[k] = v
	}
	return &c
}
