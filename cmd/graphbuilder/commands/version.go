package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/auftraggeber/WHZ-graph-builder/cmd/graphbuilder/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, build.String())
		if IsVerbose() {
			fmt.Fprintf(w, "  go:        %s\n", runtime.Version())
			if cfg, err := GetConfig(); err == nil {
				fmt.Fprintf(w, "  config:    %s\n", cfg.Dir)
				fmt.Fprintf(w, "  workspace: %s\n", cfg.WorkspaceDir())
			} else {
				fmt.Fprintf(w, "  config:    (unavailable: %v)\n", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
