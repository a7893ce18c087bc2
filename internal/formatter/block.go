// Package formatter 将译文包裹为代码块、引用或可折叠 callout。
//
// 这里的函数都是纯字符串变换。LinesAdded 给出单行译文包裹后占用的物理行数，
// 批量引擎依赖它与实际插入的行数一致。
package formatter

import (
	"strings"

	"github.com/nerdneilsfield/go-inline-translator/internal/settings"
)

const (
	// Fence 代码块的围栏行
	Fence = "```"

	// QuotePrefix 引用块的行前缀
	QuotePrefix = "> "

	// CalloutHeader 可折叠的 translation callout 声明行
	CalloutHeader = "> [!translation]-"
)

// Format 按包裹样式格式化译文，未知样式原样返回
func Format(text string, blockType settings.BlockType) string {
	switch blockType {
	case settings.BlockCodeblock:
		return Fence + "\n" + text + "\n" + Fence
	case settings.BlockQuotation:
		return quote(text)
	case settings.BlockCallout:
		return CalloutHeader + "\n" + quote(text)
	default:
		return text
	}
}

// LinesAdded 单行译文包裹后占用的行数
func LinesAdded(blockType settings.BlockType) int {
	switch blockType {
	case settings.BlockCodeblock:
		return 3
	case settings.BlockQuotation:
		return 1
	case settings.BlockCallout:
		return 2
	default:
		return 1
	}
}

// LineCount 字符串占用的物理行数
func LineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

// Block 已格式化的译文块
type Block struct {
	Text string
	Type settings.BlockType
}

// New 格式化译文并返回 Block
func New(translated string, blockType settings.BlockType) Block {
	return Block{
		Text: Format(translated, blockType),
		Type: blockType,
	}
}

// LineCount 块实际占用的行数；多行译文时大于 LinesAdded
func (b Block) LineCount() int {
	return LineCount(b.Text)
}

// String 实现 fmt.Stringer
func (b Block) String() string {
	return b.Text
}

func quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = QuotePrefix + line
	}
	return strings.Join(lines, "\n")
}
