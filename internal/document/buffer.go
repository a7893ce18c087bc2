// Package document 提供基于内存行缓冲的编辑器，可以从文件加载并写回。
package document

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/nerdneilsfield/go-inline-translator/internal/engine"
)

// Buffer 文本行缓冲，实现 engine.Editor
// 每行保留自己的换行符，编辑只改动被替换区间所在的行
type Buffer struct {
	lines []string
	eols  []string // 每行之后的换行符，最后一行没有换行时为空

	cursor    engine.Position
	selFrom   engine.Position
	selTo     engine.Position
	selection bool
}

var _ engine.Editor = (*Buffer)(nil)

// FromString 从文本创建缓冲
func FromString(s string) *Buffer {
	b := &Buffer{}
	parts := strings.Split(s, "\n")
	for i, part := range parts {
		last := i == len(parts)-1
		if last {
			// 以换行结尾时最后一段为空，不构成一行
			if part != "" || len(b.lines) == 0 {
				b.lines = append(b.lines, part)
				b.eols = append(b.eols, "")
			}
			break
		}
		eol := "\n"
		if strings.HasSuffix(part, "\r") {
			part = strings.TrimSuffix(part, "\r")
			eol = "\r\n"
		}
		b.lines = append(b.lines, part)
		b.eols = append(b.eols, eol)
	}
	return b
}

// Read 从 reader 读取全部内容
func Read(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return FromString(string(data)), nil
}

// Load 从文件加载
func Load(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// String 返回完整文本，每行保留原有的换行符
func (b *Buffer) String() string {
	var sb strings.Builder
	for i, line := range b.lines {
		sb.WriteString(line)
		sb.WriteString(b.eols[i])
	}
	return sb.String()
}

// WriteTo 实现 io.WriterTo
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Save 写回文件，保留原文件权限
func (b *Buffer) Save(path string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(b.String()), mode); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Lines 返回全部行的副本
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

// Line 实现 engine.Editor
func (b *Buffer) Line(i int) (string, error) {
	if i < 0 || i >= len(b.lines) {
		return "", fmt.Errorf("%w: %d (document has %d lines)", engine.ErrLineOutOfRange, i, len(b.lines))
	}
	return b.lines[i], nil
}

// LineCount 实现 engine.Editor
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Cursor 实现 engine.Editor
func (b *Buffer) Cursor() engine.Position {
	return b.cursor
}

// SetCursor 移动光标并清除选区
func (b *Buffer) SetCursor(pos engine.Position) error {
	pos, err := b.clip(pos)
	if err != nil {
		return err
	}
	b.cursor = pos
	b.selection = false
	return nil
}

// SetSelection 设置选区，from 与 to 顺序无关，光标移到选区末尾
func (b *Buffer) SetSelection(from, to engine.Position) error {
	from, err := b.clip(from)
	if err != nil {
		return err
	}
	to, err = b.clip(to)
	if err != nil {
		return err
	}
	if to.Before(from) {
		from, to = to, from
	}
	b.selFrom, b.selTo = from, to
	b.selection = true
	b.cursor = to
	return nil
}

// ClearSelection 清除选区
func (b *Buffer) ClearSelection() {
	b.selection = false
}

// Selection 实现 engine.Editor；空选区视为没有选区
func (b *Buffer) Selection() (engine.Selection, bool) {
	if !b.selection || b.selFrom == b.selTo {
		return engine.Selection{}, false
	}
	return engine.Selection{
		From: b.selFrom,
		To:   b.selTo,
		Text: b.text(b.selFrom, b.selTo),
	}, true
}

// text 返回 [from, to) 区间的原始字节，行之间以 "\n" 连接
func (b *Buffer) text(from, to engine.Position) string {
	first := b.lines[from.Line]
	start := byteIndex(first, from.Ch)
	if from.Line == to.Line {
		return first[start:byteIndex(first, to.Ch)]
	}
	parts := make([]string, 0, to.Line-from.Line+1)
	parts = append(parts, first[start:])
	parts = append(parts, b.lines[from.Line+1:to.Line]...)
	last := b.lines[to.Line]
	parts = append(parts, last[:byteIndex(last, to.Ch)])
	return strings.Join(parts, "\n")
}

// ReplaceRange 实现 engine.Editor，光标和选区保持不变
func (b *Buffer) ReplaceRange(from, to engine.Position, text string) error {
	_, err := b.replace(from, to, text)
	return err
}

// ReplaceSelection 实现 engine.Editor；没有选区时在光标处插入
// 替换后清除选区，光标移到插入文本末尾
func (b *Buffer) ReplaceSelection(text string) error {
	from, to := b.cursor, b.cursor
	if b.selection {
		from, to = b.selFrom, b.selTo
	}
	end, err := b.replace(from, to, text)
	if err != nil {
		return err
	}
	b.selection = false
	b.cursor = end
	return nil
}

// replace 替换区间并返回插入文本的结束位置
// 只拼接首尾两行的字节，其余行原样保留
func (b *Buffer) replace(from, to engine.Position, text string) (engine.Position, error) {
	from, err := b.clip(from)
	if err != nil {
		return engine.Position{}, err
	}
	to, err = b.clip(to)
	if err != nil {
		return engine.Position{}, err
	}
	if to.Before(from) {
		from, to = to, from
	}

	first, last := b.lines[from.Line], b.lines[to.Line]
	prefix := first[:byteIndex(first, from.Ch)]
	suffix := last[byteIndex(last, to.Ch):]
	tailEOL := b.eols[to.Line]
	lineBreak := b.lineBreak(from.Line)

	parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	end := engine.Position{
		Line: from.Line + len(parts) - 1,
		Ch:   utf8.RuneCountInString(parts[len(parts)-1]),
	}
	if len(parts) == 1 {
		end.Ch += from.Ch
	}

	lines := make([]string, len(parts))
	eols := make([]string, len(parts))
	for i, part := range parts {
		lines[i] = part
		eols[i] = lineBreak
	}
	lines[0] = prefix + lines[0]
	lines[len(lines)-1] += suffix
	eols[len(eols)-1] = tailEOL

	b.lines = splice(b.lines, from.Line, to.Line+1, lines)
	b.eols = splice(b.eols, from.Line, to.Line+1, eols)
	return end, nil
}

// lineBreak 在第 i 行插入的换行符：沿用该行的换行，最后一行沿用上一行
func (b *Buffer) lineBreak(i int) string {
	if b.eols[i] != "" {
		return b.eols[i]
	}
	if i > 0 {
		return b.eols[i-1]
	}
	return "\n"
}

// splice 用 repl 替换 s[i:j]
func splice(s []string, i, j int, repl []string) []string {
	out := make([]string, 0, len(s)-(j-i)+len(repl))
	out = append(out, s[:i]...)
	out = append(out, repl...)
	return append(out, s[j:]...)
}

// clip 校验行号，并把列限制在行内
func (b *Buffer) clip(pos engine.Position) (engine.Position, error) {
	if pos.Line < 0 || pos.Line >= len(b.lines) {
		return pos, fmt.Errorf("%w: %d (document has %d lines)", engine.ErrLineOutOfRange, pos.Line, len(b.lines))
	}
	n := utf8.RuneCountInString(b.lines[pos.Line])
	if pos.Ch < 0 {
		pos.Ch = 0
	}
	if pos.Ch > n {
		pos.Ch = n
	}
	return pos, nil
}

// byteIndex 把字符列转换为字节下标；非法 UTF-8 字节各计为一个字符
func byteIndex(line string, ch int) int {
	n := 0
	for i := range line {
		if n == ch {
			return i
		}
		n++
	}
	return len(line)
}
