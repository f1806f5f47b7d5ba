package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownShape is returned when a dataset shape has no generator.
var ErrUnknownShape = errors.New("unknown dataset shape")

// DefaultDisorderRatio is the fraction of elements disturbed in a partially sorted dataset.
const DefaultDisorderRatio = 0.1

// ShapeKind enumerates dataset arrangements.
type ShapeKind int

// Shape kinds in declaration order.
const (
	Random ShapeKind = iota
	Sorted
	ReverseSorted
	PartiallySorted
)

var shapeIDs = [...]string{
	Random:          "random",
	Sorted:          "sorted",
	ReverseSorted:   "reverse_sorted",
	PartiallySorted: "partially_sorted",
}

// String returns the stable identifier of the kind.
func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeIDs) {
		return fmt.Sprintf("shape(%d)", int(k))
	}
	return shapeIDs[k]
}

// Valid reports whether k is a declared kind.
func (k ShapeKind) Valid() bool {
	return k >= 0 && int(k) < len(shapeIDs)
}

// Shape is an immutable descriptor driving dataset generation.
// DisorderRatio is only meaningful for PartiallySorted.
type Shape struct {
	Kind          ShapeKind
	DisorderRatio float64
}

// NewShape returns a shape of the given kind with default parameters.
func NewShape(kind ShapeKind) Shape {
	s := Shape{Kind: kind}
	if kind == PartiallySorted {
		s.DisorderRatio = DefaultDisorderRatio
	}
	return s
}

// String returns the stable identifier, e.g. "reverse_sorted".
func (s Shape) String() string {
	return s.Kind.String()
}

// AllShapes returns every shape kind with default parameters.
func AllShapes() []Shape {
	out := make([]Shape, 0, len(shapeIDs))
	for i := range shapeIDs {
		out = append(out, NewShape(ShapeKind(i)))
	}
	return out
}

// ParseShape resolves a stable identifier. Dashes are accepted in place of underscores.
func ParseShape(id string) (Shape, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), "-", "_")
	for i, known := range shapeIDs {
		if normalized == known {
			return NewShape(ShapeKind(i)), nil
		}
	}
	return Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, id)
}

// ShapeOrder returns the declaration index for a shape identifier, or
// len(kinds) for unknown identifiers so they sort last.
func ShapeOrder(id string) int {
	for i, known := range shapeIDs {
		if id == known {
			return i
		}
	}
	return len(shapeIDs)
}
