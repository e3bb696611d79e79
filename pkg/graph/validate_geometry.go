package graph

import "fmt"

// ---------------------------------------------------------------------------
// Geometric validation (errors and warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all geometric checks.
func validateGeometry(p *Plan) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNonZeroDimensions(p)...)
	errs = append(errs, validateDirectionOverride(p)...)
	errs = append(errs, validateRootPlacement(p)...)
	errs = append(errs, validateOpeningFit(p)...)
	return errs
}

// validateNonZeroDimensions checks that every volume has positive sizes and
// every opening a positive width and span. NewEntity already enforces this;
// plans assembled by hand may not.
func validateNonZeroDimensions(p *Plan) []ValidationError {
	var errs []ValidationError

	for _, e := range p.order {
		switch v := e.(type) {
		case *Volume:
			for _, ax := range Axes {
				if d := v.Dimensions.Get(ax); d <= 0 {
					errs = append(errs, ValidationError{
						Entity:   v.Name,
						Code:     CodeDimension,
						Message:  fmt.Sprintf("dimension %s is %.4f, must be positive", ax, d),
						Severity: SeverityError,
					})
				}
			}
		case *Opening:
			if v.Dimensions.X <= 0 || v.Dimensions.Y <= 0 {
				errs = append(errs, ValidationError{
					Entity:   v.Name,
					Code:     CodeDimension,
					Message:  fmt.Sprintf("opening size %.4fx%.4f must be positive", v.Dimensions.X, v.Dimensions.Y),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateDirectionOverride warns when a volume's alignment names the same
// axis as its direction; the alignment wins.
func validateDirectionOverride(p *Plan) []ValidationError {
	var warnings []ValidationError

	for _, v := range p.Volumes() {
		if v.Adjacent == Start {
			continue
		}
		ax, ok := v.Direction.Axis()
		if !ok {
			continue
		}
		if v.Alignment.Low(ax) || v.Alignment.High(ax) {
			warnings = append(warnings, ValidationError{
				Entity:   v.Name,
				Code:     CodeOverride,
				Message:  fmt.Sprintf("alignment %q overrides direction %q on axis %s", v.Alignment, v.Direction, ax),
				Severity: SeverityWarning,
			})
		}
	}

	return warnings
}

// validateRootPlacement warns that the root's own placement fields are
// ignored.
func validateRootPlacement(p *Plan) []ValidationError {
	var warnings []ValidationError

	for _, v := range p.Volumes() {
		if v.Adjacent != Start {
			continue
		}
		if v.Direction != DirNone || v.Alignment != 0 || v.Offset != 0 {
			warnings = append(warnings, ValidationError{
				Entity:   v.Name,
				Code:     CodeOverride,
				Message:  "root is always placed at the origin; its direction, alignment and offset are ignored",
				Severity: SeverityWarning,
			})
		}
	}

	return warnings
}

// wallLength returns the interior length of the wall w of volume v.
func wallLength(v *Volume, w Wall) float64 {
	if w == WallLeft || w == WallRight {
		return v.Dimensions.Y
	}
	return v.Dimensions.X
}

// validateOpeningFit warns when an opening extends past the end or the top
// of its wall. Sizes are compared against the parent's input dimensions.
func validateOpeningFit(p *Plan) []ValidationError {
	var warnings []ValidationError

	for _, o := range p.Openings() {
		parent, ok := p.Volume(o.Adjacent)
		if !ok {
			continue // dangling or bad target, reported by the structural checks
		}
		if length := wallLength(parent, o.Wall); o.Offset < 0 || o.Offset+o.Dimensions.X > length {
			warnings = append(warnings, ValidationError{
				Entity:  o.Name,
				Related: []string{parent.Name},
				Code:    CodeFit,
				Message: fmt.Sprintf("opening spans %.1f..%.1f along the %s wall of %q, which is %.1f long",
					o.Offset, o.Offset+o.Dimensions.X, o.Wall, parent.Name, length),
				Severity: SeverityWarning,
			})
		}
		if top := o.HeightFromFloor + o.Dimensions.Y; top > parent.Dimensions.Z {
			warnings = append(warnings, ValidationError{
				Entity:  o.Name,
				Related: []string{parent.Name},
				Code:    CodeFit,
				Message: fmt.Sprintf("opening top at %.1f is above the %.1f height of %q",
					top, parent.Dimensions.Z, parent.Name),
				Severity: SeverityWarning,
			})
		}
	}

	return warnings
}
