package engine

import (
	"context"
	"errors"
	"fmt"
)

// 命令 ID，对宿主保持稳定
const (
	CommandTranslateLines           = "translate-lines-append"
	CommandTranslateSelectionNotice = "translate-selection-notice"
	CommandTranslateSelectionInsert = "translate-selection-insert"
)

// ErrUnknownCommand 未知的命令 ID
var ErrUnknownCommand = errors.New("unknown command")

// Command 对宿主暴露的命令
type Command struct {
	ID   string
	Name string
}

// Commands 列出全部命令
func Commands() []Command {
	return []Command{
		{ID: CommandTranslateLines, Name: "Translate each line and append"},
		{ID: CommandTranslateSelectionNotice, Name: "Translate selection to clipboard/notice"},
		{ID: CommandTranslateSelectionInsert, Name: "Translate selection and insert below"},
	}
}

// LookupCommand 按 ID 查找命令
func LookupCommand(id string) (Command, bool) {
	for _, c := range Commands() {
		if c.ID == id {
			return c, true
		}
	}
	return Command{}, false
}

// Run 按 ID 执行命令
func (e *Engine) Run(ctx context.Context, id string) (Report, error) {
	switch id {
	case CommandTranslateLines:
		return e.TranslateLines(ctx)
	case CommandTranslateSelectionNotice:
		return e.TranslateSelectionToNotice(ctx)
	case CommandTranslateSelectionInsert:
		return e.TranslateSelectionAndInsert(ctx)
	}
	return Report{}, fmt.Errorf("%w: %q", ErrUnknownCommand, id)
}
