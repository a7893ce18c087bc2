package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/nerdneilsfield/go-inline-translator/internal/document"
	"github.com/nerdneilsfield/go-inline-translator/internal/engine"
	"github.com/nerdneilsfield/go-inline-translator/internal/translator"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers/stats"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// targetFlags 选择翻译范围的标志
type targetFlags struct {
	line   int
	from   string
	to     string
	dryRun bool
}

func (f *targetFlags) register(cmd *cobra.Command, withLine, withDryRun bool) {
	if withLine {
		cmd.Flags().IntVar(&f.line, "line", 0, "1-based line under the cursor")
	}
	cmd.Flags().StringVar(&f.from, "from", "", "selection start, LINE[:COL] (1-based)")
	cmd.Flags().StringVar(&f.to, "to", "", "selection end, LINE[:COL] (1-based, default end of line)")
	if withDryRun {
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the result instead of writing the file")
	}
}

// apply 把光标或选区设置到缓冲上
func (f *targetFlags) apply(buf *document.Buffer) error {
	if f.from != "" || f.to != "" {
		if f.from == "" || f.to == "" {
			return fmt.Errorf("--from and --to must be given together")
		}
		from, err := parsePosition(f.from, false)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		to, err := parsePosition(f.to, true)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}
		return buf.SetSelection(from, to)
	}
	if f.line > 0 {
		return buf.SetCursor(engine.Position{Line: f.line - 1})
	}
	return nil
}

func newLinesCommand(a *app) *cobra.Command {
	var flags targetFlags
	cmd := &cobra.Command{
		Use:   "lines FILE",
		Short: "Translate each line of the selection (or the cursor line) and append the translation",
		Example: `  inline-translator lines notes.md --line 3
  inline-translator lines notes.md --from 2 --to 10 --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCommand(cmd, engine.CommandTranslateLines, args[0], &flags)
		},
	}
	flags.register(cmd, true, true)
	cmd.MarkFlagsMutuallyExclusive("line", "from")
	return cmd
}

func newNoticeCommand(a *app) *cobra.Command {
	var flags targetFlags
	cmd := &cobra.Command{
		Use:     "notice FILE",
		Short:   "Translate the selection, show it as a notice and copy it to the clipboard",
		Example: `  inline-translator notice notes.md --from 4:1 --to 4:20`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCommand(cmd, engine.CommandTranslateSelectionNotice, args[0], &flags)
		},
	}
	flags.register(cmd, false, false)
	return cmd
}

func newInsertCommand(a *app) *cobra.Command {
	var flags targetFlags
	cmd := &cobra.Command{
		Use:     "insert FILE",
		Short:   "Translate the selection and insert the formatted block below it",
		Example: `  inline-translator insert notes.md --from 2 --to 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCommand(cmd, engine.CommandTranslateSelectionInsert, args[0], &flags)
		},
	}
	flags.register(cmd, false, true)
	return cmd
}

func newRunCommand(a *app) *cobra.Command {
	var flags targetFlags
	cmd := &cobra.Command{
		Use:   "run COMMAND_ID FILE",
		Short: "Run a command by its stable id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := engine.LookupCommand(args[0]); !ok {
				ids := make([]string, 0, len(engine.Commands()))
				for _, c := range engine.Commands() {
					ids = append(ids, c.ID)
				}
				return unknownValueError("command", args[0], ids)
			}
			return a.runCommand(cmd, args[0], args[1], &flags)
		},
	}
	flags.register(cmd, true, true)
	return cmd
}

// runCommand 加载文件、执行引擎命令并写回
func (a *app) runCommand(cmd *cobra.Command, id, path string, flags *targetFlags) error {
	buf, err := document.Load(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if err := flags.apply(buf); err != nil {
		return err
	}

	provider, err := a.factory.CreateProvider(a.cfg.Provider, a.cfg.Active())
	if err != nil {
		return err
	}
	backend := stats.NewLoggingMiddleware(provider, a.log.GetZapLogger(), a.stats, a.cfg.Active().Model)

	notifier := a.notifierFor(cmd.ErrOrStderr())
	adapter := translator.New(backend, a.settings, notifier, a.log)
	e := engine.New(buf, adapter, a.settings, notifier, a.clipboardFor(), engine.WithLogger(a.log))

	report, err := e.Run(cmd.Context(), id)
	if err != nil {
		return err
	}

	if report.LinesInserted > 0 {
		if flags.dryRun {
			if _, err := buf.WriteTo(cmd.OutOrStdout()); err != nil {
				return err
			}
		} else if err := buf.Save(path); err != nil {
			return err
		}
	}

	a.log.Debug("command finished",
		zap.String("run_id", report.RunID),
		zap.String("command", id),
		zap.String("file", path),
		zap.Bool("dry_run", flags.dryRun))

	printSummary(cmd, report, path, flags.dryRun)
	if a.showStats {
		a.stats.WriteTable(cmd.ErrOrStderr())
	}
	return nil
}

func printSummary(cmd *cobra.Command, report engine.Report, path string, dryRun bool) {
	w := cmd.ErrOrStderr()
	if report.NoSelection {
		return
	}
	ok := color.New(color.FgGreen, color.Bold)
	switch report.Command {
	case engine.CommandTranslateLines:
		ok.Fprintf(w, "✔ %d line(s) translated, %d line(s) inserted", report.Translations, report.LinesInserted)
	case engine.CommandTranslateSelectionInsert:
		ok.Fprintf(w, "✔ selection translated, %d line(s) inserted", report.LinesInserted)
	default:
		ok.Fprintln(w, "✔ selection translated")
		return
	}
	if dryRun {
		fmt.Fprintln(w, " (dry run)")
		return
	}
	fmt.Fprintf(w, " in %s\n", path)
}
