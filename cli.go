package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/roomplan/pkg/config"
	"github.com/chazu/roomplan/pkg/layout"
)

const appName = "roomplan"

// ErrUnresolved is returned by --strict when some entities were left out.
var ErrUnresolved = errors.New("plan has unresolved entities")

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	format     string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Roomplan lays out rooms from relative placement rules",
		Long:         `Roomplan reads a table or script of rooms, shelves, boxes, doors and windows placed relative to one another, resolves their absolute positions and writes OpenSCAD, STL or Graphviz output.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	root.PersistentFlags().StringVar(&c.format, "format", "", "input format: csv or plan (default from the file extension)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.scadCommand())
	root.AddCommand(c.meshCommand())
	root.AddCommand(c.treeCommand())

	return root
}

// setup attaches the logger to the command context and builds the App.
func (c *CLI) setup(cmd *cobra.Command) (context.Context, *App, error) {
	ctx := withLogger(cmd.Context(), c.Logger)

	path := c.configPath
	if path == "" {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("config loaded", "path", path, "wall", cfg.Defaults.WallThickness, "mesh_cells", cfg.Output.MeshCells)

	return ctx, NewApp(ctx, cfg), nil
}

// resolveOutput resolves input and rejects failed layouts. Partial layouts
// are logged and passed on.
func (c *CLI) resolveOutput(ctx context.Context, app *App, input string) (*layout.Result, error) {
	prog := newProgress(c.Logger)
	res, err := app.Resolve(ctx, input, c.format)
	if err != nil {
		return nil, err
	}
	if res.Status == layout.StatusPartial {
		c.Logger.Warn("some entities were not placed", "unresolved", strings.Join(res.UnresolvedNames(), ", "))
	}
	prog.done(fmt.Sprintf("Resolved %s", filepath.Base(input)))
	return res, nil
}

func (c *CLI) resolveCommand() *cobra.Command {
	var (
		asJSON bool
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "resolve [input]",
		Short: "Resolve a plan and print the placements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := c.setup(cmd)
			if err != nil {
				return err
			}
			res, err := app.Resolve(ctx, args[0], c.format)
			if res == nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if jerr := enc.Encode(newReport(res)); jerr != nil {
					return jerr
				}
			} else {
				printReport(out, res)
			}

			if err != nil {
				return err
			}
			if strict && res.Status != layout.StatusOK {
				return fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(res.UnresolvedNames(), ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail if any entity is unresolved")
	return cmd
}

func (c *CLI) scadCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "scad [input]",
		Short: "Write an OpenSCAD script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := c.setup(cmd)
			if err != nil {
				return err
			}
			res, err := c.resolveOutput(ctx, app, args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, func(w io.Writer) error {
				return app.WriteSCAD(ctx, w, res)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) meshCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "mesh [input]",
		Short: "Write the volumes as an STL or JSON mesh",
		Long:  `Tessellates every placed volume. Output ending in .json is written as JSON mesh data with colours, anything else as binary STL.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := c.setup(cmd)
			if err != nil {
				return err
			}
			res, err := c.resolveOutput(ctx, app, args[0])
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			if strings.EqualFold(filepath.Ext(output), ".json") {
				meshes, err := app.ExportMeshes(ctx, res)
				if err != nil {
					return err
				}
				err = writeOutput(cmd, output, func(w io.Writer) error {
					return json.NewEncoder(w).Encode(meshes)
				})
				if err != nil {
					return err
				}
			} else if output == "-" {
				if err := writeOutput(cmd, output, func(w io.Writer) error {
					return app.WriteSTL(ctx, w, res)
				}); err != nil {
					return err
				}
			} else if err := app.SaveSTL(ctx, output, res); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Wrote %d volumes to %s", len(res.Placed()), output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.stl or .json)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (c *CLI) treeCommand() *cobra.Command {
	var (
		output   string
		svg      bool
		detailed bool
	)
	cmd := &cobra.Command{
		Use:   "tree [input]",
		Short: "Draw the adjacency tree as Graphviz DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := c.setup(cmd)
			if err != nil {
				return err
			}
			// The tree is drawn for failed layouts too; it shows what went wrong.
			res, err := app.Resolve(ctx, args[0], c.format)
			if res == nil {
				return err
			}
			if err != nil {
				c.Logger.Warn("layout failed", "err", err)
			}

			svg = svg || strings.EqualFold(filepath.Ext(output), ".svg")
			return writeOutput(cmd, output, func(w io.Writer) error {
				return app.WriteTree(ctx, w, res, svg, detailed)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .svg renders SVG (default DOT on stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG instead of DOT")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include sizes and positions in node labels")
	return cmd
}

// writeOutput runs write against path, or the command's stdout when path
// is empty or "-".
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
