package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/auftraggeber/WHZ-graph-builder/cmd/graphbuilder/internal/config"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	Long: `Show and change settings.

Keys:
  ` + strings.Join(config.Keys(), "\n  "),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		rows := make(settingTable, 0, len(config.Keys()))
		for _, k := range config.Keys() {
			v, _ := cfg.Get(k)
			if k == "s3.secret_access_key" && v != "" {
				v = "********"
			}
			rows = append(rows, setting{Key: k, Value: v})
		}
		return printResult(cmd, rows)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		v, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "%s updated", args[0])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file and workspace paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "config:    %s\n", cfg.Path())
		fmt.Fprintf(w, "workspace: %s\n", cfg.WorkspaceDir())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

type setting struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

type settingTable []setting

func (settingTable) Header() []string {
	return []string{"KEY", "VALUE"}
}

func (t settingTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, s := range t {
		rows = append(rows, []string{s.Key, s.Value})
	}
	return rows
}
