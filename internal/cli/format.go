package cli

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/nerdneilsfield/go-inline-translator/internal/engine"
)

// parsePosition 解析 1 起始的 LINE[:COL]；未给出列时 end 决定取行首还是行尾
func parsePosition(s string, end bool) (engine.Position, error) {
	linePart, colPart, hasCol := strings.Cut(strings.TrimSpace(s), ":")

	line, err := strconv.Atoi(linePart)
	if err != nil || line < 1 {
		return engine.Position{}, fmt.Errorf("invalid line %q", linePart)
	}
	pos := engine.Position{Line: line - 1}

	switch {
	case hasCol:
		col, err := strconv.Atoi(colPart)
		if err != nil || col < 1 {
			return engine.Position{}, fmt.Errorf("invalid column %q", colPart)
		}
		pos.Ch = col - 1
	case end:
		// 由缓冲截断到行尾
		pos.Ch = math.MaxInt32
	}
	return pos, nil
}

// suggest 为输入找最接近的候选值，没有足够接近的返回空字符串
func suggest(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	// 先按子序列匹配，例如 "call" -> "callout"
	if ranks := fuzzy.RankFindNormalizedFold(input, candidates); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	// 再按编辑距离匹配拼写错误，例如 "qoutation" -> "quotation"
	best, bestDistance := "", math.MaxInt
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(input, strings.ToLower(c))
		if d < bestDistance {
			best, bestDistance = c, d
		}
	}
	if bestDistance <= 3 {
		return best
	}
	return ""
}

// unknownValueError 构造带建议的错误
func unknownValueError(kind, value string, valid []string) error {
	msg := fmt.Sprintf("unknown %s %q", kind, value)
	if s := suggest(value, valid); s != "" {
		msg += fmt.Sprintf(", did you mean %q?", s)
	}
	return fmt.Errorf("%s (valid: %s)", msg, strings.Join(valid, ", "))
}

// newTable 创建输出到 w 的表格
func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}
