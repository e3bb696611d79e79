package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/chazu/roomplan/pkg/colour"
	"github.com/chazu/roomplan/pkg/config"
	"github.com/chazu/roomplan/pkg/engine"
	"github.com/chazu/roomplan/pkg/graph"
	"github.com/chazu/roomplan/pkg/kernel"
	"github.com/chazu/roomplan/pkg/kernel/sdfx"
	"github.com/chazu/roomplan/pkg/layout"
	"github.com/chazu/roomplan/pkg/scad"
	"github.com/chazu/roomplan/pkg/stl"
	"github.com/chazu/roomplan/pkg/table"
	"github.com/chazu/roomplan/pkg/tessellate"
	"github.com/chazu/roomplan/pkg/treeviz"
)

// colorPalette is a default palette used to assign distinct colors to
// volumes that do not name one.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Input formats.
const (
	FormatTable  = "csv"
	FormatScript = "plan"
)

var ErrUnknownFormat = errors.New("unknown input format")

// App runs the pipeline from an input file to a resolved layout and its
// outputs.
type App struct {
	cfg     *config.Config
	engine  *engine.Engine
	kernel  kernel.Kernel
	colours *colour.Table
}

// MeshData is the JSON mesh format written by the mesh command.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a plan script error with its location.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ScriptError collects the errors of a plan script that failed to evaluate.
type ScriptError struct {
	Path   string
	Errors []EvalErrorData
}

func (e *ScriptError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		if ee.Line > 0 {
			msgs[i] = fmt.Sprintf("%s:%d: %s", e.Path, ee.Line, ee.Message)
		} else {
			msgs[i] = fmt.Sprintf("%s: %s", e.Path, ee.Message)
		}
	}
	return strings.Join(msgs, "\n")
}

// NewApp creates an App from cfg with the sdfx kernel. A nil cfg uses the
// builtin settings.
func NewApp(ctx context.Context, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	logger := loggerFromContext(ctx)

	colours, err := colour.Open(cfg.Colour.RGBFile)
	if err != nil {
		logger.Debug("using builtin colours", "err", err)
	}

	return &App{
		cfg:     cfg,
		engine:  engine.NewEngine(),
		kernel:  sdfx.New(sdfx.WithMeshCells(cfg.Output.MeshCells)),
		colours: colours,
	}
}

// detectFormat picks the input format from an explicit override or from
// the file extension.
func detectFormat(path, override string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(override))
	if f == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			f = FormatTable
		case ".plan", ".lisp", ".zy":
			f = FormatScript
		}
	}
	switch f {
	case FormatTable, FormatScript:
		return f, nil
	case "":
		return "", fmt.Errorf("%w for %s, use --format csv or --format plan", ErrUnknownFormat, path)
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, override)
	}
}

// Load reads the plan at path in the given format.
func (a *App) Load(ctx context.Context, path, format string) (*graph.Plan, error) {
	f, err := detectFormat(path, format)
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)
	logger.Debug("loading plan", "path", path, "format", f)

	if f == FormatTable {
		return table.ReadFile(path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	p, evalErrs, err := a.engine.Evaluate(string(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		se := &ScriptError{Path: path}
		for _, e := range evalErrs {
			se.Errors = append(se.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return nil, se
	}
	return p, nil
}

// Resolve loads the plan at path and lays it out with the configured
// default constants. The result is returned whenever the plan could be
// loaded, even if resolution failed.
func (a *App) Resolve(ctx context.Context, path, format string) (*layout.Result, error) {
	p, err := a.Load(ctx, path, format)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx)
	res, err := layout.Resolve(p, layout.WithDefaults(a.cfg.Defaults.Constants()))
	if res != nil {
		for _, w := range res.Warnings() {
			logger.Warn(w.Message, "entity", w.Entity, "code", w.Code)
		}
		for _, e := range res.Errors() {
			logger.Debug(e.Message, "entity", e.Entity, "code", e.Code)
		}
		logger.Debug("resolved", "status", res.Status, "root", res.Root, "placed", len(res.Placed()))
	}
	return res, err
}

// WriteSCAD writes res as an OpenSCAD script.
func (a *App) WriteSCAD(ctx context.Context, w io.Writer, res *layout.Result) error {
	return scad.Write(w, res, scad.Options{
		Opacity: a.cfg.Output.Opacity,
		Colours: a.colours,
		Logger:  loggerFromContext(ctx),
	})
}

// Meshes tessellates every placed volume of res.
func (a *App) Meshes(ctx context.Context, res *layout.Result) ([]*kernel.Mesh, error) {
	return tessellate.Tessellate(ctx, res, a.kernel)
}

// WriteSTL tessellates res and writes the meshes as binary STL.
func (a *App) WriteSTL(ctx context.Context, w io.Writer, res *layout.Result) error {
	meshes, err := a.Meshes(ctx, res)
	if err != nil {
		return err
	}
	return stl.Write(w, stlHeader(res), meshes)
}

// SaveSTL tessellates res and writes the meshes to an STL file at path.
func (a *App) SaveSTL(ctx context.Context, path string, res *layout.Result) error {
	meshes, err := a.Meshes(ctx, res)
	if err != nil {
		return err
	}
	return stl.WriteFile(path, stlHeader(res), meshes)
}

func stlHeader(res *layout.Result) string {
	return "roomplan " + res.Root
}

// ExportMeshes tessellates res and converts the meshes to the JSON format.
// Volumes without a known colour take the next palette entry.
func (a *App) ExportMeshes(ctx context.Context, res *layout.Result) ([]MeshData, error) {
	meshes, err := a.Meshes(ctx, res)
	if err != nil {
		return nil, err
	}

	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		color := colorPalette[i%len(colorPalette)]
		if v, ok := res.Plan.Volume(m.Name); ok && v.Colour != "" {
			if c, ok := a.colours.Lookup(v.Colour); ok {
				color = colorful.Color{R: c.R, G: c.G, B: c.B}.Hex()
			}
		}
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.Name,
			Color:    color,
		})
	}
	return out, nil
}

// WriteTree writes the adjacency tree of res as DOT, or as SVG when svg
// is set.
func (a *App) WriteTree(ctx context.Context, w io.Writer, res *layout.Result, svg, detailed bool) error {
	dot := treeviz.ToDOT(res, treeviz.Options{Detailed: detailed})
	if !svg {
		_, err := io.WriteString(w, dot)
		return err
	}
	out, err := treeviz.RenderSVG(ctx, dot)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
