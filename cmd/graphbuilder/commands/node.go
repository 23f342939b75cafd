package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/cli"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/editor"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
)

// lazyMarker replaces the name of placeholders in listings.
const lazyMarker = "(LazyNode)"

var nodeType string

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Create, edit, list and remove nodes",
}

var nodeSetCmd = &cobra.Command{
	Use:   "set <id> [field=value ...]",
	Short: "Create a node or change its attributes",
	Long: `Create a node or change its attributes.

Fields not given keep their value on an existing node and are empty on a
new one. An empty value (field=) clears a nullable field. Committing a
placeholder turns it into a complete node and keeps its edges.

Use 'graphbuilder node fields' to list the fields of a node type.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := parseInputs(args[1:])
		if err != nil {
			return err
		}
		var views []attr.View
		err = withWorkspace(cmd.Context(), true, func(ws *workspace) error {
			merged := withCurrent(ws.session, args[0], inputs)
			if _, err := ws.session.Commit(args[0], nodeType, merged); err != nil {
				return err
			}
			views, err = ws.session.Fields(args[0])
			return err
		})
		if err != nil {
			return err
		}
		return printResult(cmd, viewTable(views))
	},
}

var nodeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show the attributes of a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var views []attr.View
		err := withWorkspace(cmd.Context(), false, func(ws *workspace) error {
			var err error
			views, err = ws.session.Fields(args[0])
			return err
		})
		if err != nil {
			return err
		}
		return printResult(cmd, viewTable(views))
	},
}

var nodeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all nodes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var nodes []editor.Summary
		err := withWorkspace(cmd.Context(), false, func(ws *workspace) error {
			nodes = ws.session.List()
			return nil
		})
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			cli.PrintInfo(cmd.OutOrStdout(), "No nodes")
			return nil
		}
		return printResult(cmd, summaryTable(nodes))
	},
}

var nodeRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a node and its edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := withWorkspace(cmd.Context(), true, func(ws *workspace) error {
			return ws.session.Remove(args[0])
		})
		if err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Node %q removed", args[0])
		return nil
	},
}

var nodeNeighborsCmd = &cobra.Command{
	Use:   "neighbors <id>",
	Short: "List the nodes connected to a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var nb []editor.Neighbor
		err := withWorkspace(cmd.Context(), false, func(ws *workspace) error {
			var err error
			nb, err = ws.session.Neighbors(args[0])
			return err
		})
		if err != nil {
			return err
		}
		if len(nb) == 0 {
			cli.PrintInfo(cmd.OutOrStdout(), "Node %q has no connections", args[0])
			return nil
		}
		return printResult(cmd, neighborTable(nb))
	},
}

var nodeFieldsCmd = &cobra.Command{
	Use:   "fields [type]",
	Short: "List the fields of a node type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName := ""
		if len(args) == 1 {
			typeName = args[0]
		}
		sess := editor.New(nil, editor.WithLogger(logger))
		views, err := sess.Blank(typeName)
		if err != nil {
			return err
		}
		return printResult(cmd, viewTable(views))
	},
}

var nodeTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the node types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(cmd, editor.New(nil).Registry().Types())
	},
}

func init() {
	nodeSetCmd.Flags().StringVarP(&nodeType, "type", "t", "", "node type (default room, or the type of the existing node)")

	nodeCmd.AddCommand(nodeSetCmd)
	nodeCmd.AddCommand(nodeGetCmd)
	nodeCmd.AddCommand(nodeListCmd)
	nodeCmd.AddCommand(nodeRemoveCmd)
	nodeCmd.AddCommand(nodeNeighborsCmd)
	nodeCmd.AddCommand(nodeFieldsCmd)
	nodeCmd.AddCommand(nodeTypesCmd)
	rootCmd.AddCommand(nodeCmd)
}

// parseInputs splits field=value arguments.
func parseInputs(args []string) ([]attr.Input, error) {
	inputs := make([]attr.Input, 0, len(args))
	for _, a := range args {
		name, raw, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q, want name=value", a)
		}
		inputs = append(inputs, attr.Input{Name: name, Raw: raw})
	}
	return inputs, nil
}

// withCurrent prepends the current values of the node stored under id, so
// fields not given keep their value. Later inputs win.
func withCurrent(s *editor.Session, id string, inputs []attr.Input) []attr.Input {
	n, ok := s.Lookup(id)
	if !ok || graph.IsPlaceholder(n) || (nodeType != "" && nodeType != n.TypeName()) {
		return inputs
	}
	views, err := s.Fields(id)
	if err != nil {
		return inputs
	}
	merged := make([]attr.Input, 0, len(views)+len(inputs))
	for _, v := range views {
		merged = append(merged, attr.Input{Name: v.Name, Raw: v.Value})
	}
	return append(merged, inputs...)
}

type viewTable []attr.View

func (viewTable) Header() []string {
	return []string{"FIELD", "KIND", "VALUE", "DESCRIPTION"}
}

func (t viewTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, v := range t {
		kind := v.Kind.String()
		if v.Nullable {
			kind += "?"
		}
		rows = append(rows, []string{v.Name, kind, v.Value, v.Description})
	}
	return rows
}

type summaryTable []editor.Summary

func (summaryTable) Header() []string {
	return []string{"ID", "TYPE", "NAME", "EDGES"}
}

func (t summaryTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, s := range t {
		name := s.Name
		if s.Placeholder {
			name = lazyMarker
		}
		rows = append(rows, []string{s.ID, s.Type, name, strconv.Itoa(s.Degree)})
	}
	return rows
}

type neighborTable []editor.Neighbor

func (neighborTable) Header() []string {
	return []string{"ID", "TYPE", "WEIGHT"}
}

func (t neighborTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, n := range t {
		id := n.ID
		if n.Placeholder {
			id += " " + lazyMarker
		}
		rows = append(rows, []string{id, n.Type, strconv.Itoa(n.Weight)})
	}
	return rows
}
