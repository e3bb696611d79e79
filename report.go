package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/chazu/roomplan/pkg/graph"
	"github.com/chazu/roomplan/pkg/layout"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleName    = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// Report is the JSON form of a layout result.
type Report struct {
	Status     string             `json:"status"`
	Root       string             `json:"root,omitempty"`
	Order      []string           `json:"order"`
	Constants  map[string]float64 `json:"constants"`
	Volumes    []VolumeReport     `json:"volumes"`
	Openings   []OpeningReport    `json:"openings"`
	Unresolved map[string]string  `json:"unresolved,omitempty"`
	Findings   []FindingReport    `json:"findings,omitempty"`
}

// VolumeReport is one placed volume.
type VolumeReport struct {
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Position   [3]float64 `json:"position"`
	Dimensions [3]float64 `json:"dimensions"`
	Openings   []string   `json:"openings,omitempty"`
}

// OpeningReport is one attached opening with its cut transform.
type OpeningReport struct {
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	Volume    string     `json:"volume"`
	Wall      string     `json:"wall"`
	Cut       [3]float64 `json:"cut"`
	PreShift  [3]float64 `json:"preShift"`
	Rotation  [3]float64 `json:"rotation"`
	PostShift [3]float64 `json:"postShift"`
}

// FindingReport is one validation finding.
type FindingReport struct {
	Entity   string `json:"entity,omitempty"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func vec(v graph.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func newReport(res *layout.Result) Report {
	r := Report{
		Status:    res.Status.String(),
		Root:      res.Root,
		Order:     append([]string{}, res.Order...),
		Constants: res.Constants,
		Volumes:   []VolumeReport{},
		Openings:  []OpeningReport{},
	}
	for _, v := range res.Placed() {
		vr := VolumeReport{
			Name:       v.Name,
			Kind:       v.VolumeKind.String(),
			Position:   vec(v.Position),
			Dimensions: vec(v.Dimensions),
		}
		for _, o := range v.Openings {
			vr.Openings = append(vr.Openings, o.Name)
		}
		r.Volumes = append(r.Volumes, vr)
	}
	for _, o := range res.Plan.Openings() {
		if !o.Attached {
			continue
		}
		r.Openings = append(r.Openings, OpeningReport{
			Name:      o.Name,
			Kind:      o.OpeningKind.String(),
			Volume:    o.Adjacent,
			Wall:      o.Wall.String(),
			Cut:       vec(o.CutSize()),
			PreShift:  vec(o.PreShift),
			Rotation:  vec(o.Rotation),
			PostShift: vec(o.PostShift),
		})
	}
	if len(res.Unresolved) > 0 {
		r.Unresolved = make(map[string]string, len(res.Unresolved))
		for n, reason := range res.Unresolved {
			r.Unresolved[n] = string(reason)
		}
	}
	for _, f := range res.Findings {
		r.Findings = append(r.Findings, FindingReport{
			Entity:   f.Entity,
			Code:     string(f.Code),
			Severity: f.Severity.String(),
			Message:  f.Message,
		})
	}
	return r
}

// printReport writes a human-readable summary of res.
func printReport(w io.Writer, res *layout.Result) {
	fmt.Fprintln(w, styleTitle.Render("Layout")+" "+styleDim.Render(res.Summary()))

	for _, v := range res.Placed() {
		fmt.Fprintf(w, "%s %s %s %s %s\n",
			styleIconSuccess.Render(iconSuccess),
			styleName.Render(v.Name),
			styleDim.Render(v.VolumeKind.String()),
			v.Position,
			styleDim.Render("size "+v.Dimensions.String()))
		for _, o := range v.Openings {
			fmt.Fprintf(w, "    %s %s %s\n", iconArrow, o.Name,
				styleDim.Render(fmt.Sprintf("%s on %s wall", o.OpeningKind, o.Wall)))
		}
	}

	names := res.UnresolvedNames()
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "%s %s %s\n",
			styleIconError.Render(iconError), n, styleDim.Render(string(res.Unresolved[n])))
	}

	for _, f := range res.Findings {
		icon := styleIconError.Render(iconError)
		msg := f.Error()
		if f.Severity == graph.SeverityWarning {
			icon = styleIconWarning.Render(iconWarning)
			msg = styleWarning.Render(msg)
		}
		fmt.Fprintln(w, icon+" "+msg)
	}
}
