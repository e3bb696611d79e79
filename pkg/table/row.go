package table

import (
	"errors"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/chazu/roomplan/pkg/graph"
)

// row holds the raw cells of one data row. The json tags name the fields in
// validation errors.
type row struct {
	Type      string `json:"type"`
	Location  string `json:"location"`
	Width     string `json:"width"`
	Depth     string `json:"depth"`
	Height    string `json:"height"`
	Adjacent  string `json:"adjacent"`
	Direction string `json:"direction"`
	Alignment string `json:"alignment"`
	Offset    string `json:"offset"`
	Colour    string `json:"colour"`
}

var (
	volumeLabels  = []any{"room", "shelf", "shelves", "box"}
	openingLabels = []any{"door", "window"}
	directions    = []any{"left", "right", "front", "behind", "above", "below"}
	walls         = []any{"front", "back", "left", "right"}
)

var errNotNumber = errors.New("must be a number")

// number accepts an empty cell or anything strconv can parse as a float.
var number = validation.By(func(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return errNotNumber
	}
	return nil
})

func isOneOf(s string, set []any) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Validate checks the cells against the rules of the row's kind. An empty
// type is a room.
func (r *row) Validate() error {
	if r.Type == "" {
		r.Type = "room"
	}
	isVolume := isOneOf(r.Type, volumeLabels)
	isOpening := isOneOf(r.Type, openingLabels)
	isConstant := r.Type == "constant"

	labels := append(append(append([]any{}, volumeLabels...), openingLabels...), "constant")

	return validation.ValidateStruct(r,
		validation.Field(&r.Type, validation.Required, validation.In(labels...)),
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.Width, validation.Required, number),
		validation.Field(&r.Depth, validation.When(isVolume || isOpening, validation.Required), number),
		validation.Field(&r.Height, validation.When(isVolume, validation.Required), number),
		validation.Field(&r.Offset, number),
		validation.Field(&r.Adjacent, validation.When(!isConstant, validation.Required)),
		validation.Field(&r.Direction,
			validation.When(isVolume, validation.In(directions...)),
			validation.When(isOpening, validation.Required, validation.In(walls...)),
		),
	)
}

// spec validates the row and converts it for graph.NewEntity.
func (r *row) spec(line int, text string) (graph.EntitySpec, error) {
	if err := r.Validate(); err != nil {
		return graph.EntitySpec{}, err
	}
	return graph.EntitySpec{
		Label:     r.Type,
		Name:      r.Location,
		Width:     optional(r.Width),
		Depth:     optional(r.Depth),
		Height:    optional(r.Height),
		Adjacent:  r.Adjacent,
		Direction: r.Direction,
		Alignment: r.Alignment,
		Offset:    value(r.Offset),
		Colour:    r.Colour,
		Source:    graph.SourceRef{Line: line, Text: text},
	}, nil
}

// optional parses an already validated cell; empty is nil.
func optional(s string) *float64 {
	if s == "" {
		return nil
	}
	f, _ := strconv.ParseFloat(s, 64)
	return &f
}

func value(s string) float64 {
	if f := optional(s); f != nil {
		return *f
	}
	return 0
}
