// Command roomplan lays out rooms, shelves and boxes described by relative
// placement rules and writes the result as an OpenSCAD script, an STL mesh
// or a Graphviz tree.
//
//	roomplan resolve examples/house.csv
//	roomplan scad examples/house.plan -o house.scad
//	roomplan mesh examples/house.csv -o house.stl
//	roomplan tree examples/house.csv -o house.svg
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := New(os.Stderr, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(log.DebugLevel)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
