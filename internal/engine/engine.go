// Package engine 实现逐行翻译追加以及两种选区翻译命令。
package engine

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nerdneilsfield/go-inline-translator/internal/formatter"
	"github.com/nerdneilsfield/go-inline-translator/internal/logger"
	"github.com/nerdneilsfield/go-inline-translator/internal/settings"
	"go.uber.org/zap"
)

// NoSelectionNotice 选区命令在没有选区时显示的通知
const NoSelectionNotice = "No text selected for translation."

// Step 记录逐行命令处理一行后的位置
// ResumeAt 是循环自增之前的游标（Line + LinesAdded + 1），下一次读取的行是 ResumeAt+1，
// ResumeAt 本身是替换文本末尾换行产生的空行
type Step struct {
	Line       int // 被翻译的原始行
	LinesAdded int // 插入块占用的物理行数
	ResumeAt   int
}

// Report 一次命令执行的结果
type Report struct {
	RunID          string
	Command        string
	NoSelection    bool
	LinesInspected int
	Translations   int
	LinesInserted  int
	Translated     string // 选区命令的译文
	Steps          []Step
}

// Engine 批量翻译引擎
type Engine struct {
	editor     Editor
	translator Translator
	settings   settings.Source
	notifier   Notifier
	clipboard  Clipboard
	logger     logger.Logger
}

// Option 引擎选项
type Option func(*Engine)

// WithLogger 设置日志记录器
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New 创建引擎；clipboard 可以为 nil，此时只显示通知
func New(editor Editor, translator Translator, source settings.Source, notifier Notifier, clipboard Clipboard, opts ...Option) *Engine {
	e := &Engine{
		editor:     editor,
		translator: translator,
		settings:   source,
		notifier:   notifier,
		clipboard:  clipboard,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) begin(command string) (Report, logger.Logger) {
	report := Report{RunID: uuid.NewString(), Command: command}
	return report, e.logger.With(zap.String("run_id", report.RunID), zap.String("command", command))
}

// TranslateLines 逐行翻译并把译文块追加到每个非空行之后
func (e *Engine) TranslateLines(ctx context.Context) (Report, error) {
	report, log := e.begin(CommandTranslateLines)

	var start, end int
	if sel, ok := e.editor.Selection(); ok {
		start, end = sel.From.Line, sel.To.Line
	} else {
		cursor := e.editor.Cursor()
		start, end = cursor.Line, cursor.Line
	}
	blockType := e.settings.Current().BlockType
	log.Debug("translating lines",
		zap.Int("start", start),
		zap.Int("end", end),
		zap.String("block_type", blockType.String()))

	for i := start; i <= end; i++ {
		line, err := e.editor.Line(i)
		if err != nil {
			return report, fmt.Errorf("read line %d: %w", i, err)
		}
		report.LinesInspected++

		if strings.TrimSpace(line) == "" {
			continue
		}

		translated := e.translator.Translate(ctx, line)
		report.Translations++

		block := formatter.New(translated, blockType)
		replacement := line + "\n" + block.String() + "\n"
		from := Position{Line: i}
		to := Position{Line: i, Ch: utf8.RuneCountInString(line)}
		if err := e.editor.ReplaceRange(from, to, replacement); err != nil {
			return report, fmt.Errorf("replace line %d: %w", i, err)
		}

		// 块本身的行数加上替换引入的边界行
		added := block.LineCount()
		offset := added + 1
		original := i
		i += offset
		end += offset

		report.LinesInserted += offset
		report.Steps = append(report.Steps, Step{Line: original, LinesAdded: added, ResumeAt: i})
		log.Debug("line translated",
			zap.Int("line", original),
			zap.Int("lines_added", added),
			zap.Int("resume_at", i),
			zap.Int("end", end))
	}

	log.Info("lines translated",
		zap.Int("inspected", report.LinesInspected),
		zap.Int("translations", report.Translations),
		zap.Int("lines_inserted", report.LinesInserted))
	return report, nil
}

// TranslateSelectionToNotice 翻译选区，以通知显示并写入剪贴板
func (e *Engine) TranslateSelectionToNotice(ctx context.Context) (Report, error) {
	report, log := e.begin(CommandTranslateSelectionNotice)

	sel, ok := e.selection()
	if !ok {
		report.NoSelection = true
		e.notifier.Notify(NoSelectionNotice)
		log.Debug("no selection")
		return report, nil
	}

	translated := e.translator.Translate(ctx, sel.Text)
	report.Translations = 1
	report.Translated = translated

	e.notifier.Notify(translated)
	if e.clipboard != nil {
		if err := e.clipboard.WriteText(translated); err != nil {
			log.Warn("copy to clipboard failed", zap.Error(err))
			e.notifier.Notify("Could not copy translation to clipboard: " + err.Error())
		}
	}

	log.Info("selection translated to notice", zap.Int("chars", utf8.RuneCountInString(sel.Text)))
	return report, nil
}

// TranslateSelectionAndInsert 翻译选区并把译文块插入到选区之后
func (e *Engine) TranslateSelectionAndInsert(ctx context.Context) (Report, error) {
	report, log := e.begin(CommandTranslateSelectionInsert)

	sel, ok := e.selection()
	if !ok {
		report.NoSelection = true
		e.notifier.Notify(NoSelectionNotice)
		log.Debug("no selection")
		return report, nil
	}

	translated := e.translator.Translate(ctx, sel.Text)
	report.Translations = 1
	report.Translated = translated

	block := formatter.New(translated, e.settings.Current().BlockType)
	if err := e.editor.ReplaceSelection(sel.Text + "\n" + block.String()); err != nil {
		return report, fmt.Errorf("replace selection: %w", err)
	}
	report.LinesInserted = block.LineCount()
	report.Steps = []Step{{Line: sel.To.Line, LinesAdded: report.LinesInserted, ResumeAt: sel.To.Line + report.LinesInserted}}

	log.Info("selection translated and inserted",
		zap.Int("from_line", sel.From.Line),
		zap.Int("to_line", sel.To.Line),
		zap.Int("lines_inserted", report.LinesInserted))
	return report, nil
}

func (e *Engine) selection() (Selection, bool) {
	sel, ok := e.editor.Selection()
	if !ok || sel.Text == "" {
		return Selection{}, false
	}
	return sel, true
}
