// Package notify 提供瞬时通知和剪贴板两个外部协作者的实现。
package notify

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-runewidth"
	"github.com/nerdneilsfield/go-inline-translator/internal/logger"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

// Notifier 向用户显示非阻塞的瞬时消息
type Notifier interface {
	Notify(msg string)
}

// Clipboard 系统剪贴板
type Clipboard interface {
	WriteText(text string) error
}

// Terminal 在终端输出通知
type Terminal struct {
	printer *pterm.PrefixPrinter
	width   int
}

// NewTerminal 创建终端通知器，width<=0 时使用终端宽度
func NewTerminal(w io.Writer, width int) *Terminal {
	if w == nil {
		w = os.Stderr
	}
	if width <= 0 {
		width = pterm.GetTerminalWidth()
	}
	return &Terminal{
		printer: pterm.Info.WithWriter(w),
		width:   width,
	}
}

// Notify 实现 Notifier，每行按终端宽度截断
func (t *Terminal) Notify(msg string) {
	t.printer.Println(Truncate(msg, t.width))
}

// Truncate 按显示宽度截断每一行，width<=0 时不截断
func Truncate(msg string, width int) string {
	if width <= 0 {
		return msg
	}
	// 留出前缀 " INFO  " 的宽度
	limit := width - 8
	if limit < 10 {
		limit = 10
	}
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		if runewidth.StringWidth(line) > limit {
			lines[i] = runewidth.Truncate(line, limit, "…")
		}
	}
	return strings.Join(lines, "\n")
}

// Log 将通知写入日志
type Log struct {
	logger logger.Logger
}

// NewLog 创建日志通知器
func NewLog(log logger.Logger) *Log {
	return &Log{logger: log}
}

// Notify 实现 Notifier
func (l *Log) Notify(msg string) {
	l.logger.Info("通知", zap.String("message", msg))
}

// Recorder 记录通知内容，用于测试
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Notify 实现 Notifier
func (r *Recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages 返回已记录的通知
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// SystemClipboard 系统剪贴板
type SystemClipboard struct{}

// WriteText 实现 Clipboard
func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// Supported 当前平台是否有可用的剪贴板工具
func (SystemClipboard) Supported() bool {
	return !clipboard.Unsupported
}

// MemoryClipboard 进程内剪贴板
type MemoryClipboard struct {
	mu      sync.Mutex
	content string
	written bool
}

// WriteText 实现 Clipboard
func (m *MemoryClipboard) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = text
	m.written = true
	return nil
}

// Content 返回剪贴板内容以及是否被写入过
func (m *MemoryClipboard) Content() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content, m.written
}
