package graph

import (
	"fmt"
	"strings"
)

// ValidationSeverity indicates whether a validation finding blocks
// resolution or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks resolution of the entity
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// FindingCode classifies a validation finding.
type FindingCode string

const (
	CodeMissingRoot   FindingCode = "missing-root"
	CodeDuplicateRoot FindingCode = "duplicate-root"
	CodeInvalidRoot   FindingCode = "invalid-root"
	CodeSelfReference FindingCode = "self-reference"
	CodeCycle         FindingCode = "cycle"
	CodeDangling      FindingCode = "dangling"
	CodeBadTarget     FindingCode = "bad-target"
	CodeDimension     FindingCode = "dimension"
	CodeOverride      FindingCode = "override"
	CodeFit           FindingCode = "fit"
)

// ValidationError describes a single validation finding.
type ValidationError struct {
	Entity   string             // offending entity (empty if plan-level)
	Related  []string           // other entities involved, e.g. cycle members
	Code     FindingCode        // machine-readable class
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Entity, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Entity  string
	Code    FindingCode
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from structural and geometric validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks on the plan's adjacency graph and
// returns the findings in a deterministic order. It never mutates the plan.
func Validate(p *Plan) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRoots(p)...)
	errs = append(errs, validateReferences(p)...)
	errs = append(errs, validateAcyclic(p)...)
	return errs
}

// ValidateAll runs structural and geometric validation and returns errors
// and warnings separately.
func ValidateAll(p *Plan) ValidationResult {
	var result ValidationResult
	all := append(Validate(p), validateGeometry(p)...)
	for _, e := range all {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Entity:  e.Entity,
				Code:    e.Code,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// Roots returns the names of all entities placed at "start", in plan order.
func Roots(p *Plan) []string {
	var roots []string
	for _, e := range p.order {
		if e.Kind() != KindConstant && e.AdjacentTo() == Start {
			roots = append(roots, e.EntityName())
		}
	}
	return roots
}

// validateRoots checks that exactly one volume claims "start".
func validateRoots(p *Plan) []ValidationError {
	var placeable int
	for _, e := range p.order {
		if e.Kind() != KindConstant {
			placeable++
		}
	}
	roots := Roots(p)

	switch {
	case len(roots) == 0 && placeable > 0:
		return []ValidationError{{
			Code:     CodeMissingRoot,
			Message:  fmt.Sprintf("no starting point given: no entity is adjacent to %q", Start),
			Severity: SeverityError,
		}}
	case len(roots) > 1:
		return []ValidationError{{
			Entity:   roots[0],
			Related:  roots,
			Code:     CodeDuplicateRoot,
			Message:  fmt.Sprintf("%d entities are adjacent to %q: %s", len(roots), Start, strings.Join(roots, ", ")),
			Severity: SeverityError,
		}}
	case len(roots) == 1:
		if _, ok := p.index[roots[0]].(*Volume); !ok {
			return []ValidationError{{
				Entity:   roots[0],
				Code:     CodeInvalidRoot,
				Message:  fmt.Sprintf("root must be a room, shelf or box, got %s", p.index[roots[0]].Kind()),
				Severity: SeverityError,
			}}
		}
	}
	return nil
}

// validateReferences checks every adjacency target exists and has a kind
// that can carry the dependent.
func validateReferences(p *Plan) []ValidationError {
	var errs []ValidationError
	for _, e := range p.order {
		if e.Kind() == KindConstant {
			continue
		}
		name, target := e.EntityName(), e.AdjacentTo()
		if target == Start || target == name {
			// Self reference is reported as a cycle.
			continue
		}
		parent, ok := p.index[target]
		if !ok {
			errs = append(errs, ValidationError{
				Entity:   name,
				Related:  []string{target},
				Code:     CodeDangling,
				Message:  fmt.Sprintf("adjacent entity %q does not exist", target),
				Severity: SeverityError,
			})
			continue
		}
		if parent.Kind() != KindVolume {
			errs = append(errs, ValidationError{
				Entity:   name,
				Related:  []string{target},
				Code:     CodeBadTarget,
				Message:  fmt.Sprintf("adjacent entity %q is a %s, not a volume", target, parent.Kind()),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateAcyclic follows adjacency edges with 3-colour marking. Each entity
// has exactly one outgoing edge, so a walk either reaches "start", leaves the
// plan, or re-enters its own gray path (a cycle).
func validateAcyclic(p *Plan) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var errs []ValidationError

	for _, e := range p.order {
		if e.Kind() == KindConstant || color[e.EntityName()] != white {
			continue
		}

		var path []string
		cur := e.EntityName()
		for {
			next, ok := p.index[cur]
			if !ok || next.Kind() == KindConstant || color[cur] == black {
				break
			}
			if color[cur] == gray {
				start := 0
				for i, n := range path {
					if n == cur {
						start = i
						break
					}
				}
				members := append([]string(nil), path[start:]...)
				errs = append(errs, cycleError(members))
				break
			}
			color[cur] = gray
			path = append(path, cur)
			cur = next.AdjacentTo()
			if cur == Start {
				break
			}
		}
		for _, n := range path {
			color[n] = black
		}
	}
	return errs
}

func cycleError(members []string) ValidationError {
	if len(members) == 1 {
		return ValidationError{
			Entity:   members[0],
			Related:  members,
			Code:     CodeSelfReference,
			Message:  "entity is adjacent to itself",
			Severity: SeverityError,
		}
	}
	return ValidationError{
		Entity:   members[0],
		Related:  members,
		Code:     CodeCycle,
		Message:  fmt.Sprintf("cycle detected: %s -> %s", strings.Join(members, " -> "), members[0]),
		Severity: SeverityError,
	}
}
