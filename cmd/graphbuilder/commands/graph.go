package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/cli"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/codec"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/editor"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/room"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/storage"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/translate"
)

var (
	location      string
	translateType string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export, import, query, translate and clear the graph",
}

var graphExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write the graph to a .grser file",
	Long: `Write the graph to a .grser file.

The location is a local directory or s3://bucket/prefix and defaults to
the 'export' config key. The .grser extension is added when missing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		err := withWorkspace(cmd.Context(), false, func(ws *workspace) error {
			fs, err := openLocation(cmd, ws)
			if err != nil {
				return err
			}
			path, err = ws.session.Export(cmd.Context(), fs, args[0])
			return err
		})
		if err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Graph exported to %s", path)
		return nil
	},
}

var graphImportCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Merge a .grser file into the graph",
	Long: `Merge a .grser file into the graph.

Nodes of the file replace nodes with the same id. Nothing changes if the
file cannot be read.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var res editor.ImportResult
		err := withWorkspace(cmd.Context(), true, func(ws *workspace) error {
			fs, err := openLocation(cmd, ws)
			if err != nil {
				return err
			}
			res, err = ws.session.Import(cmd.Context(), fs, args[0])
			return err
		})
		if err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Imported %d nodes and %d edges from %s", res.Nodes, res.Edges, res.Path)
		return nil
	},
}

var graphFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the .grser files at the location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		fs, err := storage.Open(cmd.Context(), locationOr(cfg.ExportLocation()), cfg.S3)
		if err != nil {
			return err
		}
		files, err := fs.List(cmd.Context(), codec.Extension)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			cli.PrintInfo(cmd.OutOrStdout(), "No %s files", codec.Extension)
			return nil
		}
		return printResult(cmd, files)
	},
}

var graphDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a .grser file at the location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		fs, err := storage.Open(cmd.Context(), locationOr(cfg.ExportLocation()), cfg.S3)
		if err != nil {
			return err
		}
		path := codec.WithExtension(args[0])
		ok, err := fs.Exists(cmd.Context(), path)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: %w", path, os.ErrNotExist)
		}
		if err := fs.Delete(cmd.Context(), path); err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Deleted %s", path)
		return nil
	},
}

var graphQueryCmd = &cobra.Command{
	Use:   "query <jq expression>",
	Short: "Run a jq expression over the graph",
	Long: `Run a jq expression over the graph.

The input is {"nodes": [{id, type, placeholder, attrs}], "edges": [{a, b, weight}]}.

Examples:
  graphbuilder graph query '.nodes[] | select(.placeholder) | .id'
  graphbuilder graph query '[.edges[].weight] | add'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var results []any
		err := withWorkspace(cmd.Context(), false, func(ws *workspace) error {
			var err error
			results, err = ws.session.Query(cmd.Context(), args[0])
			return err
		})
		if err != nil {
			return err
		}
		for _, r := range results {
			if err := printResult(cmd, r); err != nil {
				return err
			}
		}
		return nil
	},
}

var graphTranslateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Convert every node to another type",
	Long: `Convert every node to another type.

Ids, edges and attributes with the same name are kept. Nodes whose
attributes do not fit the new type are dropped with a warning, together
with their edges. Placeholders stay placeholders.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var report translate.Report
		err := withWorkspace(cmd.Context(), true, func(ws *workspace) error {
			factory, ok := ws.session.Registry().Lookup(translateType)
			if !ok || translateType == graph.LazyTypeName {
				return fmt.Errorf("%w: %q", editor.ErrUnknownType, translateType)
			}
			var out *graph.Graph
			err := ws.session.Do(func(g *graph.Graph) error {
				var err error
				out, report, err = translate.Translate(cmd.Context(), g, factory, translate.WithLogger(logger))
				return err
			})
			if err != nil {
				return err
			}
			ws.session.Replace(out)
			return nil
		})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		cli.PrintSuccess(w, "Translated %d nodes and %d edges to %s", report.Nodes, report.Edges, translateType)
		if report.SkippedNodes > 0 || report.SkippedEdges > 0 {
			cli.PrintWarning(w, "Skipped %d nodes and %d edges", report.SkippedNodes, report.SkippedEdges)
		}
		return nil
	},
}

var graphSchemaCmd = &cobra.Command{
	Use:   "schema [type]",
	Short: "Print the JSON Schema of a node type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName := room.TypeName
		if len(args) == 1 {
			typeName = args[0]
		}
		factory, ok := editor.New(nil).Registry().Lookup(typeName)
		if !ok {
			return fmt.Errorf("%w: %q", editor.ErrUnknownType, typeName)
		}
		sc, ok := attr.SchemaOf(factory())
		if !ok {
			return fmt.Errorf("%w: %s", editor.ErrNotEditable, typeName)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(attr.JSONSchema(sc))
	},
}

var graphClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every node and edge",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := withWorkspace(cmd.Context(), false, func(ws *workspace) error {
			return ws.graphs.Clear(cmd.Context())
		})
		if err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Graph cleared")
		return nil
	},
}

// graphStats is the result of 'graph stats'.
type graphStats struct {
	Nodes        int `json:"nodes" yaml:"nodes"`
	Placeholders int `json:"placeholders" yaml:"placeholders"`
	Edges        int `json:"edges" yaml:"edges"`
}

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count nodes, placeholders and edges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var st graphStats
		err := withWorkspace(cmd.Context(), false, func(ws *workspace) error {
			for _, s := range ws.session.List() {
				st.Nodes++
				if s.Placeholder {
					st.Placeholders++
				}
			}
			return ws.session.Do(func(g *graph.Graph) error {
				st.Edges = g.EdgeCount()
				return nil
			})
		})
		if err != nil {
			return err
		}
		return printResult(cmd, st)
	},
}

func init() {
	for _, c := range []*cobra.Command{graphExportCmd, graphImportCmd, graphFilesCmd, graphDeleteCmd} {
		c.Flags().StringVarP(&location, "location", "l", "", "directory or s3://bucket/prefix (default from config)")
	}
	graphTranslateCmd.Flags().StringVar(&translateType, "to", room.TypeName, "target node type")

	graphCmd.AddCommand(graphExportCmd)
	graphCmd.AddCommand(graphImportCmd)
	graphCmd.AddCommand(graphFilesCmd)
	graphCmd.AddCommand(graphDeleteCmd)
	graphCmd.AddCommand(graphQueryCmd)
	graphCmd.AddCommand(graphTranslateCmd)
	graphCmd.AddCommand(graphSchemaCmd)
	graphCmd.AddCommand(graphClearCmd)
	graphCmd.AddCommand(graphStatsCmd)
	rootCmd.AddCommand(graphCmd)
}

func locationOr(def string) string {
	if location != "" {
		return location
	}
	return def
}

func openLocation(cmd *cobra.Command, ws *workspace) (storage.FileStore, error) {
	return storage.Open(cmd.Context(), locationOr(ws.cfg.ExportLocation()), ws.cfg.S3)
}
