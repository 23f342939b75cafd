package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/cli"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/codec"
)

var edgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Connect and disconnect nodes",
}

var edgeAddCmd = &cobra.Command{
	Use:   "add <id1> <id2> <weight>",
	Short: "Connect two nodes",
	Long: `Connect two nodes with a positive integer weight.

Ids without a node become placeholders (LazyNode). Complete them later
with 'graphbuilder node set'.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var created []string
		err := withWorkspace(cmd.Context(), true, func(ws *workspace) error {
			missing := make(map[string]bool)
			for _, id := range args[:2] {
				missing[id] = !ws.session.Exists(id)
			}
			if _, err := ws.session.Connect(args[0], args[1], args[2]); err != nil {
				return err
			}
			for _, id := range args[:2] {
				if missing[id] {
					created = append(created, id)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		cli.PrintSuccess(w, "Connected %s and %s (weight %s)", args[0], args[1], args[2])
		for _, id := range created {
			cli.PrintWarning(w, "%q is a placeholder %s", id, lazyMarker)
		}
		return nil
	},
}

var edgeRemoveCmd = &cobra.Command{
	Use:   "remove <id1> <id2>",
	Short: "Disconnect two nodes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := withWorkspace(cmd.Context(), true, func(ws *workspace) error {
			return ws.session.Disconnect(args[0], args[1])
		})
		if err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Disconnected %s and %s", args[0], args[1])
		return nil
	},
}

var edgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all edges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var edges []codec.EdgeRecord
		err := withWorkspace(cmd.Context(), false, func(ws *workspace) error {
			edges = ws.session.Snapshot().Edges
			return nil
		})
		if err != nil {
			return err
		}
		if len(edges) == 0 {
			cli.PrintInfo(cmd.OutOrStdout(), "No edges")
			return nil
		}
		return printResult(cmd, edgeTable(edges))
	},
}

func init() {
	edgeCmd.AddCommand(edgeAddCmd)
	edgeCmd.AddCommand(edgeRemoveCmd)
	edgeCmd.AddCommand(edgeListCmd)
	rootCmd.AddCommand(edgeCmd)
}

type edgeTable []codec.EdgeRecord

func (edgeTable) Header() []string {
	return []string{"A", "B", "WEIGHT"}
}

func (t edgeTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, e := range t {
		rows = append(rows, []string{e.A, e.B, strconv.Itoa(e.Weight)})
	}
	return rows
}
