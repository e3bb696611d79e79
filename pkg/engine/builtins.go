package engine

import (
	"fmt"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/roomplan/pkg/graph"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms plan script source before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: living-room -> living_room
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
//  3. Line comments: ; and ;; become // (the zygomys comment marker).
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if _, seen := result.kw[name]; !seen {
				result.order = append(result.order, name)
			}
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// unknown returns the keywords of a that are not in allowed, sorted.
func (a kwArgs) unknown(allowed map[string]bool) []string {
	var bad []string
	for _, k := range a.order {
		if !allowed[k] {
			bad = append(bad, ":"+k)
		}
	}
	sort.Strings(bad)
	return bad
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_right) and plain strings ("right").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toAlignment accepts a single keyword or string ("left bottom") or a list
// of them and returns the space-joined edge names.
func toAlignment(s zygo.Sexp) (string, error) {
	switch s.(type) {
	case *zygo.SexpStr:
		return toKeywordString(s)
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return "", fmt.Errorf("expected edge keyword or list of edges: %w", err)
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		n, err := toKeywordString(it)
		if err != nil {
			return "", err
		}
		names = append(names, n)
	}
	return strings.Join(names, " "), nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// exprText renders a builtin call back into source form for SourceRef.
func exprText(fn string, args []zygo.Sexp) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(fn)
	for _, a := range args {
		sb.WriteString(" ")
		if kw, ok := isKW(a); ok {
			sb.WriteString(":" + kw)
			continue
		}
		sb.WriteString(a.SexpString(nil))
	}
	sb.WriteString(")")
	return sb.String()
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

var volumeKeywords = map[string]bool{
	"width": true, "depth": true, "height": true,
	"adjacent": true, "direction": true,
	"align": true, "alignment": true, "offset": true,
	"colour": true, "color": true,
}

var openingKeywords = map[string]bool{
	"width": true, "span": true, "from-floor": true,
	"adjacent": true, "wall": true, "offset": true,
}

// registerBuiltins installs the plan builtins into a zygomys environment.
// Each builtin adds one entity to p and returns its name, so the result
// can be bound with def and used as an :adjacent value.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, p *graph.Plan) {

	// (room "hall" :width 400 :depth 400 :height 250 :adjacent "start")
	// (shelf "pantry" ... :align (list :left :bottom) :offset 5 :colour "khaki")
	// (box "crate" ... :adjacent "hall" :direction :above)
	for _, label := range []string{"room", "shelf", "box"} {
		env.AddFunction(label, volumeBuiltin(p, label))
	}

	// (door "front-door" :width 90 :span 210 :from-floor 0 :adjacent "hall" :wall :front :offset 50)
	// (window "w1" :width 120 :span 100 :from-floor 90 :adjacent "kitchen" :wall :back)
	for _, label := range []string{"door", "window"} {
		env.AddFunction(label, openingBuiltin(p, label))
	}

	// (constant "wall_thickness" 12)
	env.AddFunction("constant", func(env *zygo.Zlisp, fn string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("constant requires a name")
		}
		name, err := toKeywordString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("constant: name: %w", err)
		}
		raw, ok := pa.kw["value"]
		if !ok {
			if len(pa.positional) < 2 {
				return zygo.SexpNull, fmt.Errorf("constant %q requires a value", name)
			}
			raw = pa.positional[1]
		}
		v, err := toFloat64(raw)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("constant %q: %w", name, err)
		}
		return addEntity(p, graph.EntitySpec{
			Label:  "constant",
			Name:   name,
			Width:  graph.Float(v),
			Source: graph.SourceRef{Text: exprText(fn, args)},
		})
	})
}

func volumeBuiltin(p *graph.Plan, label string) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, fn string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		name, err := entityName(fn, pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if bad := pa.unknown(volumeKeywords); len(bad) > 0 {
			return zygo.SexpNull, fmt.Errorf("%s %q: unknown keywords %s", fn, name, strings.Join(bad, " "))
		}

		spec := graph.EntitySpec{
			Label:  label,
			Name:   name,
			Source: graph.SourceRef{Text: exprText(fn, args)},
		}
		if spec.Width, err = optionalNumber(pa, "width"); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, name, err)
		}
		if spec.Depth, err = optionalNumber(pa, "depth"); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, name, err)
		}
		if spec.Height, err = optionalNumber(pa, "height"); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, name, err)
		}
		if err := placement(pa, &spec); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, name, err)
		}
		if v, ok := pa.kw["direction"]; ok {
			if spec.Direction, err = toKeywordString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: direction: %w", fn, name, err)
			}
		}
		for _, k := range []string{"align", "alignment"} {
			if v, ok := pa.kw[k]; ok {
				if spec.Alignment, err = toAlignment(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("%s %q: %s: %w", fn, name, k, err)
				}
			}
		}
		for _, k := range []string{"colour", "color"} {
			if v, ok := pa.kw[k]; ok {
				if spec.Colour, err = toKeywordString(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("%s %q: %s: %w", fn, name, k, err)
				}
			}
		}
		return addEntity(p, spec)
	}
}

func openingBuiltin(p *graph.Plan, label string) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, fn string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		name, err := entityName(fn, pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if bad := pa.unknown(openingKeywords); len(bad) > 0 {
			return zygo.SexpNull, fmt.Errorf("%s %q: unknown keywords %s", fn, name, strings.Join(bad, " "))
		}

		spec := graph.EntitySpec{
			Label:  label,
			Name:   name,
			Source: graph.SourceRef{Text: exprText(fn, args)},
		}
		if spec.Width, err = optionalNumber(pa, "width"); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, name, err)
		}
		// Openings keep the table layout: depth is the span and height
		// the distance from the floor.
		if spec.Depth, err = optionalNumber(pa, "span"); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, name, err)
		}
		if spec.Height, err = optionalNumber(pa, "from-floor"); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, name, err)
		}
		if err := placement(pa, &spec); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, name, err)
		}
		if v, ok := pa.kw["wall"]; ok {
			if spec.Direction, err = toKeywordString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: wall: %w", fn, name, err)
			}
		}
		return addEntity(p, spec)
	}
}

func entityName(fn string, pa kwArgs) (string, error) {
	if len(pa.positional) != 1 {
		return "", fmt.Errorf("%s requires exactly one name argument, got %d", fn, len(pa.positional))
	}
	name, err := toKeywordString(pa.positional[0])
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", fn, err)
	}
	return name, nil
}

func optionalNumber(pa kwArgs, key string) (*float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return nil, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &f, nil
}

// placement fills the fields shared by volumes and openings.
func placement(pa kwArgs, spec *graph.EntitySpec) error {
	if v, ok := pa.kw["adjacent"]; ok {
		s, err := toKeywordString(v)
		if err != nil {
			return fmt.Errorf("adjacent: %w", err)
		}
		spec.Adjacent = s
	}
	if v, ok := pa.kw["offset"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("offset: %w", err)
		}
		spec.Offset = f
	}
	return nil
}

func addEntity(p *graph.Plan, spec graph.EntitySpec) (zygo.Sexp, error) {
	e, err := graph.NewEntity(spec)
	if err != nil {
		return zygo.SexpNull, err
	}
	if err := p.Add(e); err != nil {
		return zygo.SexpNull, err
	}
	return &zygo.SexpStr{S: spec.Name}, nil
}
