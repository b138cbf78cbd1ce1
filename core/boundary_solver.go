package core

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/signalsfoundry/search-planner/model"
)

// Objective selects the direction of a boundary extreme query.
type Objective int

const (
	Minimize Objective = iota
	Maximize
)

func (o Objective) String() string {
	if o == Maximize {
		return "max"
	}
	return "min"
}

// BoundarySolver finds extreme coordinates of the region enclosed by a
// polygon given in local metres.
//
// The region is the intersection of one half-plane per edge, including the
// closing edge from the last vertex to the first. For an edge P1→P2 the
// feasible side is
//
//	a·x + b·y ≥ c,  a = -(P2.Y-P1.Y),  b = P2.X-P1.X,  c = a·P1.X + b·P1.Y
//
// which is the left of the edge, i.e. the interior of a counter-clockwise
// polygon. Implementations must bring the boundary into that winding (see
// NormalizeWinding) before building constraints; a clockwise boundary used
// as-is describes an empty region.
//
// The half-plane intersection equals the polygon only when the polygon is
// convex. For a concave boundary the region is smaller than the polygon.
//
// Queries with no feasible or no bounded optimum return an error wrapping
// ErrInfeasibleBoundary, never a default value.
type BoundarySolver interface {
	// ExtremeX returns the smallest or largest x inside the region on the
	// line y = fixedY.
	ExtremeX(boundary []model.Point, fixedY float64, obj Objective) (float64, error)
	// ExtremeY returns the smallest or largest y inside the region.
	ExtremeY(boundary []model.Point, obj Objective) (float64, error)
}

// HalfPlane is the constraint A·x + B·y ≥ C.
type HalfPlane struct {
	A, B, C float64
}

// Contains reports whether (x, y) satisfies the constraint within tol.
func (h HalfPlane) Contains(x, y, tol float64) bool {
	return h.A*x+h.B*y >= h.C-tol
}

// HalfPlanes builds the edge constraints of boundary in the order given.
// Zero-length edges carry no constraint and are skipped.
func HalfPlanes(boundary []model.Point) []HalfPlane {
	n := len(boundary)
	out := make([]HalfPlane, 0, n)
	for i := range n {
		p1 := boundary[i]
		p2 := boundary[(i+1)%n]
		a := -(p2.Y - p1.Y)
		b := p2.X - p1.X
		if a == 0 && b == 0 {
			continue
		}
		out = append(out, HalfPlane{A: a, B: b, C: a*p1.X + b*p1.Y})
	}
	return out
}

// snapScale sets the grid results are snapped to: 1/snapScale metres.
const snapScale = 1e9

// SimplexSolver solves boundary queries with gonum's simplex method.
type SimplexSolver struct {
	// Tol is the pivoting tolerance handed to lp.Simplex.
	Tol float64
}

// NewSimplexSolver returns a solver with a pivoting tolerance suited to
// boundaries measured in metres.
func NewSimplexSolver() *SimplexSolver {
	return &SimplexSolver{Tol: 1e-10}
}

// ExtremeX implements BoundarySolver.
func (s *SimplexSolver) ExtremeX(boundary []model.Point, fixedY float64, obj Objective) (float64, error) {
	v, err := s.solve(boundary, axisX, obj, &fixedY)
	if err != nil {
		return 0, fmt.Errorf("%s x at y=%.3f: %w", obj, fixedY, err)
	}
	return v, nil
}

// ExtremeY implements BoundarySolver.
func (s *SimplexSolver) ExtremeY(boundary []model.Point, obj Objective) (float64, error) {
	v, err := s.solve(boundary, axisY, obj, nil)
	if err != nil {
		return 0, fmt.Errorf("%s y: %w", obj, err)
	}
	return v, nil
}

type axis int

const (
	axisX axis = iota
	axisY
)

func (a axis) String() string {
	if a == axisY {
		return "y"
	}
	return "x"
}

// solve writes the query in standard form
//
//	minimize cᵀz  subject to  Az = b, z ≥ 0
//
// with z = [x⁺ x⁻ y⁺ y⁻ s₁ … sₘ]: the free coordinates split into
// non-negative parts and one surplus variable per edge constraint.
func (s *SimplexSolver) solve(boundary []model.Point, ax axis, obj Objective, fixedY *float64) (float64, error) {
	if len(boundary) < 3 {
		return 0, fmt.Errorf("boundary has %d vertices: %w", len(boundary), ErrInfeasibleBoundary)
	}
	polygon := NormalizeWinding(boundary)
	if SignedArea(polygon) == 0 {
		return 0, fmt.Errorf("boundary encloses no area: %w", ErrInfeasibleBoundary)
	}
	edges := HalfPlanes(polygon)

	rows := len(edges)
	if fixedY != nil {
		rows++
	}
	cols := 4 + len(edges)

	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	for i, e := range edges {
		A.Set(i, 0, e.A)
		A.Set(i, 1, -e.A)
		A.Set(i, 2, e.B)
		A.Set(i, 3, -e.B)
		A.Set(i, 4+i, -1)
		b[i] = e.C
	}
	if fixedY != nil {
		A.Set(rows-1, 2, 1)
		A.Set(rows-1, 3, -1)
		b[rows-1] = *fixedY
	}
	for i := range b {
		if b[i] < 0 {
			b[i] = -b[i]
			for j := range cols {
				A.Set(i, j, -A.At(i, j))
			}
		}
	}

	col := 0
	if ax == axisY {
		col = 2
	}
	sign := 1.0
	if obj == Maximize {
		sign = -1
	}
	c := make([]float64, cols)
	c[col] = sign
	c[col+1] = -sign

	_, z, err := lp.Simplex(c, A, b, s.Tol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) || errors.Is(err, lp.ErrUnbounded) {
			return 0, fmt.Errorf("%v: %w", err, ErrInfeasibleBoundary)
		}
		return 0, fmt.Errorf("simplex: %v: %w", err, ErrInfeasibleBoundary)
	}

	v := z[col] - z[col+1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite optimum: %w", ErrInfeasibleBoundary)
	}
	return math.Round(v*snapScale) / snapScale, nil
}
