// Package main is the entry point for the graphbuilder CLI.
//
// Usage:
//
//	graphbuilder [flags] <command> [subcommand] [args]
//
// Commands:
//
//	node       - Create, edit, list and remove nodes
//	edge       - Connect and disconnect nodes
//	graph      - Export, import, query, translate and clear the graph
//	config     - Show and change settings
//	version    - Show version information
package main

import (
	"os"

	"github.com/auftraggeber/WHZ-graph-builder/cmd/graphbuilder/commands"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/cli"
)

func main() {
	if err := commands.Execute(); err != nil {
		cli.PrintError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
