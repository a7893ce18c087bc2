package cli

import (
	"fmt"
	"io"

	"github.com/nerdneilsfield/go-inline-translator/internal/config"
	"github.com/nerdneilsfield/go-inline-translator/internal/logger"
	"github.com/nerdneilsfield/go-inline-translator/internal/notify"
	"github.com/nerdneilsfield/go-inline-translator/internal/settings"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers/factory"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers/stats"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app 保存一次命令执行期间共享的状态
type app struct {
	// 命令行标志
	cfgFile      string
	providerName string
	settingsFile string
	debugMode    bool
	quietMode    bool
	noClipboard  bool
	showStats    bool

	cfg          *config.Config
	log          *logger.ZapLogger
	settings     *settings.Manager
	settingsPath string
	factory      *factory.ProviderFactory
	stats        *stats.StatsManager

	// 测试时可替换
	notifier  notify.Notifier
	clipboard notify.Clipboard
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	return newRootCommand(&app{}, version, commit, buildDate)
}

func newRootCommand(a *app, version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "inline-translator",
		Short: "Translate lines or selections of a text file in place",
		Long: `inline-translator 把翻译结果以代码块、引用或可折叠 callout 的形式插入到原文之后。

Supported backends:
  - google: Google Cloud Translation
  - deepl: DeepL API
  - deeplx: self-hosted DeepLX
  - libretranslate: LibreTranslate
  - openai: OpenAI chat models
  - ollama: local models via Ollama
  - raw: passthrough, no network`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default $HOME/.inline-translator.yaml)")
	flags.StringVar(&a.providerName, "provider", "", "translation backend (google, deepl, deeplx, libretranslate, openai, ollama, raw)")
	flags.StringVar(&a.settingsFile, "settings", "", "settings file (default "+settings.DefaultPath()+")")
	flags.BoolVar(&a.debugMode, "debug", false, "enable debug logging")
	flags.BoolVar(&a.quietMode, "quiet", false, "write notices to the log instead of the terminal")
	flags.BoolVar(&a.noClipboard, "no-clipboard", false, "never touch the system clipboard")
	flags.BoolVar(&a.showStats, "stats", false, "print backend call statistics after the command")

	rootCmd.AddCommand(newLinesCommand(a))
	rootCmd.AddCommand(newNoticeCommand(a))
	rootCmd.AddCommand(newInsertCommand(a))
	rootCmd.AddCommand(newRunCommand(a))
	rootCmd.AddCommand(newCommandsCommand(a))
	rootCmd.AddCommand(newProvidersCommand(a))
	rootCmd.AddCommand(newSettingsCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))

	return rootCmd
}

// init 加载配置、日志与设置；命令行标志优先于配置文件
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = a.providerName
	}
	if flags.Changed("settings") {
		cfg.SettingsFile = a.settingsFile
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debugMode
	}
	if flags.Changed("quiet") {
		cfg.Quiet = a.quietMode
	}
	if flags.Changed("no-clipboard") {
		cfg.NoClipboard = a.noClipboard
	}
	a.cfg = cfg

	if a.log == nil {
		a.log = logger.NewZapLogger(cfg.Debug)
	}

	store := settings.NewFileStore(cfg.SettingsFile)
	a.settingsPath = store.Path()
	a.settings = settings.NewManager(store, a.log)
	a.settings.Load()

	a.factory = factory.New()
	a.stats = stats.NewStatsManager()

	a.log.Debug("config loaded",
		zap.String("provider", cfg.Provider),
		zap.String("settings_file", cfg.SettingsFile),
		zap.Bool("quiet", cfg.Quiet),
		zap.Bool("no_clipboard", cfg.NoClipboard))
	return nil
}

// notifierFor 选择通知方式
func (a *app) notifierFor(errOut io.Writer) notify.Notifier {
	if a.notifier != nil {
		return a.notifier
	}
	if a.cfg.Quiet {
		return notify.NewLog(a.log)
	}
	return notify.NewTerminal(errOut, 0)
}

// clipboardFor 选择剪贴板；系统不支持时退回进程内剪贴板
func (a *app) clipboardFor() notify.Clipboard {
	if a.clipboard != nil {
		return a.clipboard
	}
	system := notify.SystemClipboard{}
	if a.cfg.NoClipboard || !system.Supported() {
		a.log.Debug("system clipboard disabled")
		return &notify.MemoryClipboard{}
	}
	return system
}
