package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/go-inline-translator/internal/config"
	"github.com/nerdneilsfield/go-inline-translator/internal/settings"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newSettingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the translation settings",
	}
	cmd.AddCommand(newSettingsShowCommand(a))
	cmd.AddCommand(newSettingsSetCommand(a))
	return cmd
}

func newSettingsShowCommand(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := a.settings.Current()
			w := cmd.OutOrStdout()

			if asYAML {
				out, err := yaml.Marshal(current)
				if err != nil {
					return fmt.Errorf("encode settings: %w", err)
				}
				_, err = w.Write(out)
				return err
			}

			languages := settings.FormatLanguageList(current.PreferredLanguages)
			if languages == "" {
				languages = "(auto-detect)"
			}
			t := newTable(w, table.Row{"Setting", "Value"})
			t.AppendRows([]table.Row{
				{"block-type", current.BlockType},
				{"languages", languages},
				{"target", current.TargetLanguage},
				{"file", a.settingsPath},
			})
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")
	return cmd
}

func newSettingsSetCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one setting; the change is saved immediately",
	}

	blockTypeCmd := &cobra.Command{
		Use:       "block-type TYPE",
		Short:     "Wrap translations in a codeblock, quotation or callout",
		Args:      cobra.ExactArgs(1),
		ValidArgs: blockTypeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			bt, ok := settings.ParseBlockType(args[0])
			if !ok {
				return unknownValueError("block type", args[0], blockTypeNames())
			}
			if err := a.settings.SetBlockType(bt); err != nil {
				return err
			}
			return a.printSaved(cmd, "block-type", bt.String())
		},
	}

	languagesCmd := &cobra.Command{
		Use:   "languages LIST",
		Short: `Preferred source languages, comma separated; "" clears the list`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.settings.SetPreferredLanguages(args[0]); err != nil {
				return err
			}
			value := settings.FormatLanguageList(a.settings.Current().PreferredLanguages)
			return a.printSaved(cmd, "languages", value)
		},
	}

	targetCmd := &cobra.Command{
		Use:   "target CODE",
		Short: `Target language; "" resets it to "en"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.settings.SetTargetLanguage(args[0]); err != nil {
				return err
			}
			return a.printSaved(cmd, "target", a.settings.Current().TargetLanguage)
		},
	}

	cmd.AddCommand(blockTypeCmd, languagesCmd, targetCmd)
	return cmd
}

func (a *app) printSaved(cmd *cobra.Command, key, value string) error {
	if value == "" {
		value = "(empty)"
	}
	_, err := color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s = %s (saved to %s)\n", key, value, a.settingsPath)
	return err
}

func blockTypeNames() []string {
	types := settings.BlockTypes()
	names := make([]string, len(types))
	for i, bt := range types {
		names[i] = bt.String()
	}
	return names
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var (
		path  string
		force bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				target = a.cfgFile
			}
			if target == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = p
			}

			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", target)
			}
			if err := config.SaveConfig(config.NewDefaultConfig(), target); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			a.log.Info("config written", zap.String("path", target))
			_, err := color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✔ wrote %s\n", target)
			return err
		},
	}
	initCmd.Flags().StringVar(&path, "path", "", "where to write the file (default: --config or $HOME/.inline-translator.yaml)")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
