package engine

import (
	"context"
	"errors"
)

// ErrLineOutOfRange 行号超出文档范围
var ErrLineOutOfRange = errors.New("line out of range")

// Position 文档中的位置，行和列都从 0 开始，列按字符计
type Position struct {
	Line int
	Ch   int
}

// Before 是否严格位于 other 之前
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Ch < other.Ch
}

// Selection 当前选区
type Selection struct {
	From Position
	To   Position
	Text string
}

// Editor 被翻译的文档
type Editor interface {
	// Line 返回第 i 行的文本（不含换行符）
	Line(i int) (string, error)
	LineCount() int
	// Selection 返回当前选区；没有选区或选区为空时 ok 为 false
	Selection() (sel Selection, ok bool)
	Cursor() Position
	// ReplaceRange 用 text 替换 [from, to) 区间
	ReplaceRange(from, to Position, text string) error
	ReplaceSelection(text string) error
}

// Notifier 瞬时通知
type Notifier interface {
	Notify(msg string)
}

// Clipboard 系统剪贴板
type Clipboard interface {
	WriteText(text string) error
}

// Translator 翻译一段文本，失败时返回原文
type Translator interface {
	Translate(ctx context.Context, text string) string
}
