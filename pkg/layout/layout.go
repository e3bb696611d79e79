// Package layout resolves relative placement rules into absolute positions.
//
// Resolve builds the adjacency tree of a plan (each entity hangs off the
// entity named by its Adjacent field, the root hangs off "start"), turns
// interior room sizes into exterior ones and walks the tree depth-first,
// fixing every volume's position and attaching every opening to the wall
// of its volume. Resolution is a pure function of the plan: the input is
// cloned and never mutated.
package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/roomplan/pkg/graph"
)

var (
	ErrNilPlan       = errors.New("layout: nil plan")
	ErrMissingRoot   = errors.New("layout: no starting point")
	ErrDuplicateRoot = errors.New("layout: more than one starting point")
	ErrInvalidRoot   = errors.New("layout: starting point is not a volume")
	ErrCycle         = errors.New("layout: cyclic adjacency")
)

// Status summarises the outcome of a resolution.
type Status int

const (
	StatusOK      Status = iota // every entity placed or attached
	StatusPartial               // reachable subtree resolved, some entities unresolved
	StatusFailed                // nothing resolved
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Reason explains why an entity was left unresolved.
type Reason string

const (
	ReasonDangling    Reason = "dangling"    // adjacent entity does not exist
	ReasonBadTarget   Reason = "bad-target"  // adjacent entity cannot carry it
	ReasonCycle       Reason = "cycle"       // part of or below a cycle
	ReasonUnreachable Reason = "unreachable" // below an unresolved entity
	ReasonNoRoot      Reason = "no-root"     // resolution failed outright
	ReasonMalformed   Reason = "malformed"   // geometry cannot be built
)

// Result is the outcome of Resolve.
type Result struct {
	Plan       *graph.Plan     // resolved clone of the input
	Constants  graph.Constants // constants used for resolution
	Root       string          // root entity, empty if none was found
	Order      []string        // depth-first resolution order, root first
	Unresolved map[string]Reason
	Findings   []graph.ValidationError
	Status     Status
}

// OK reports whether every entity was resolved.
func (r *Result) OK() bool {
	return r.Status == StatusOK
}

// UnresolvedNames returns the unresolved entity names in plan order.
func (r *Result) UnresolvedNames() []string {
	var names []string
	for _, e := range r.Plan.Entities() {
		if _, ok := r.Unresolved[e.EntityName()]; ok {
			names = append(names, e.EntityName())
		}
	}
	return names
}

// Errors returns the blocking findings.
func (r *Result) Errors() []graph.ValidationError {
	var errs []graph.ValidationError
	for _, f := range r.Findings {
		if f.Severity == graph.SeverityError {
			errs = append(errs, f)
		}
	}
	return errs
}

// Warnings returns the advisory findings.
func (r *Result) Warnings() []graph.ValidationError {
	var ws []graph.ValidationError
	for _, f := range r.Findings {
		if f.Severity == graph.SeverityWarning {
			ws = append(ws, f)
		}
	}
	return ws
}

// Placed returns the placed volumes in plan order.
func (r *Result) Placed() []*graph.Volume {
	var vs []*graph.Volume
	for _, v := range r.Plan.Volumes() {
		if v.Placed {
			vs = append(vs, v)
		}
	}
	return vs
}

type options struct {
	defaults graph.Constants
}

// Option configures Resolve.
type Option func(*options)

// WithDefaults replaces the builtin constant defaults. Constant rows in the
// plan still take precedence. Missing thickness names fall back to the
// builtin values.
func WithDefaults(c graph.Constants) Option {
	return func(o *options) {
		d := graph.DefaultConstants()
		for k, v := range c {
			d[k] = v
		}
		o.defaults = d
	}
}

// Resolve places every volume reachable from the root and attaches every
// reachable opening. It returns a non-nil error only when resolution failed
// outright (missing, duplicate or invalid root, or a cycle); the Result is
// returned in every case for reporting.
func Resolve(p *graph.Plan, opts ...Option) (*Result, error) {
	if p == nil {
		return nil, ErrNilPlan
	}
	o := options{defaults: graph.DefaultConstants()}
	for _, opt := range opts {
		opt(&o)
	}

	plan := p.Clone()
	res := &Result{
		Plan:       plan,
		Constants:  plan.Constants(o.defaults),
		Unresolved: make(map[string]Reason),
	}

	v := graph.ValidateAll(plan)
	res.Findings = append(res.Findings, v.Errors...)
	for _, w := range v.Warnings {
		res.Findings = append(res.Findings, graph.ValidationError{
			Entity:   w.Entity,
			Code:     w.Code,
			Message:  w.Message,
			Severity: graph.SeverityWarning,
		})
	}

	if err := fatal(res.Findings); err != nil {
		res.Status = StatusFailed
		for _, e := range plan.Entities() {
			if e.Kind() != graph.KindConstant {
				res.Unresolved[e.EntityName()] = ReasonNoRoot
			}
		}
		for _, f := range res.Findings {
			if f.Code == graph.CodeCycle || f.Code == graph.CodeSelfReference {
				for _, n := range f.Related {
					res.Unresolved[n] = ReasonCycle
				}
			}
		}
		return res, err
	}

	idx := buildIndex(plan)
	res.Root = idx.root
	if res.Root == "" {
		// Nothing to place: the plan holds only constants.
		res.Status = StatusOK
		return res, nil
	}

	adjustDimensions(plan, res.Constants)

	w := &walker{
		plan:    plan,
		idx:     idx,
		consts:  res.Constants,
		res:     res,
		visited: make(map[string]bool),
		blocked: malformedEntities(res.Findings),
	}
	w.resolve()

	classifyUnresolved(res, w.visited)
	if len(res.Unresolved) > 0 {
		res.Status = StatusPartial
	}
	return res, nil
}

// fatal converts the findings that prevent any resolution into an error.
func fatal(findings []graph.ValidationError) error {
	var errs []error
	for _, f := range findings {
		if f.Severity != graph.SeverityError {
			continue
		}
		switch f.Code {
		case graph.CodeMissingRoot:
			errs = append(errs, ErrMissingRoot)
		case graph.CodeDuplicateRoot:
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateRoot, strings.Join(f.Related, ", ")))
		case graph.CodeInvalidRoot:
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidRoot, f.Entity))
		case graph.CodeCycle, graph.CodeSelfReference:
			errs = append(errs, fmt.Errorf("%w: %s", ErrCycle, strings.Join(f.Related, " -> ")))
		}
	}
	return errors.Join(errs...)
}

// malformedEntities returns the entities whose geometry failed validation.
// The walk skips them and everything below them.
func malformedEntities(findings []graph.ValidationError) map[string]bool {
	bad := make(map[string]bool)
	for _, f := range findings {
		if f.Severity == graph.SeverityError && f.Code == graph.CodeDimension {
			bad[f.Entity] = true
		}
	}
	return bad
}

// classifyUnresolved records why each entity the walk did not reach was
// left out. Dangling and bad-target entities come straight from the
// findings; entities below them are unreachable.
func classifyUnresolved(res *Result, visited map[string]bool) {
	direct := make(map[string]Reason)
	for _, f := range res.Findings {
		if f.Severity != graph.SeverityError {
			continue
		}
		switch f.Code {
		case graph.CodeDangling:
			direct[f.Entity] = ReasonDangling
		case graph.CodeBadTarget:
			direct[f.Entity] = ReasonBadTarget
		case graph.CodeDimension:
			direct[f.Entity] = ReasonMalformed
		}
	}
	for _, e := range res.Plan.Entities() {
		name := e.EntityName()
		if e.Kind() == graph.KindConstant || visited[name] {
			continue
		}
		if r, ok := direct[name]; ok {
			res.Unresolved[name] = r
		} else {
			res.Unresolved[name] = ReasonUnreachable
		}
	}
}

// Summary returns a one-line description of the result.
func (r *Result) Summary() string {
	placed, attached := 0, 0
	for _, v := range r.Plan.Volumes() {
		if v.Placed {
			placed++
		}
	}
	for _, o := range r.Plan.Openings() {
		if o.Attached {
			attached++
		}
	}
	s := fmt.Sprintf("%s: %d volumes placed, %d openings attached", r.Status, placed, attached)
	if n := len(r.Unresolved); n > 0 {
		names := r.UnresolvedNames()
		sort.Strings(names)
		s += fmt.Sprintf(", %d unresolved (%s)", n, strings.Join(names, ", "))
	}
	return s
}
