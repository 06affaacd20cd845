package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ScreenTransform maps image pixel coordinates to screen pixel coordinates.
// It is implemented by AffineTransform and PerspectiveTransform.
type ScreenTransform interface {
	Apply(Point2D) Point2D
}

// PerspectiveTransform represents a projective (quad-to-quad) transform:
//
//	x' = (A*x + B*y + C) / (G*x + H*y + 1)
//	y' = (D*x + E*y + F) / (G*x + H*y + 1)
//
// Unlike AffineTransform it can map a rectangle onto an arbitrary convex
// quadrilateral, including perspective-like distortion.
type PerspectiveTransform struct {
	A, B, C float64
	D, E, F float64
	G, H    float64
}

// Apply applies the transform to a point.
func (t PerspectiveTransform) Apply(p Point2D) Point2D {
	den := t.G*p.X + t.H*p.Y + 1
	return Point2D{
		X: (t.A*p.X + t.B*p.Y + t.C) / den,
		Y: (t.D*p.X + t.E*p.Y + t.F) / den,
	}
}

// IsAffine reports whether the transform has no projective component.
func (t PerspectiveTransform) IsAffine() bool {
	return t.G == 0 && t.H == 0
}

// Affine returns the affine part of the transform. Only meaningful when
// IsAffine is true.
func (t PerspectiveTransform) Affine() AffineTransform {
	return AffineTransform{A: t.A, B: t.B, TX: t.C, C: t.D, D: t.E, TY: t.F}
}

// Inverse returns the inverse transform via the adjoint of the underlying
// 3x3 matrix. Projective transforms are scale-invariant, so the adjoint is
// renormalized to keep the bottom-right entry at 1.
func (t PerspectiveTransform) Inverse() PerspectiveTransform {
	adjA := t.E - t.F*t.H
	adjB := t.C*t.H - t.B
	adjC := t.B*t.F - t.C*t.E
	adjD := t.F*t.G - t.D
	adjE := t.A - t.C*t.G
	adjF := t.C*t.D - t.A*t.F
	adjG := t.D*t.H - t.E*t.G
	adjH := t.B*t.G - t.A*t.H
	adjI := t.A*t.E - t.B*t.D

	if adjI != 0 {
		inv := 1.0 / adjI
		adjA *= inv
		adjB *= inv
		adjC *= inv
		adjD *= inv
		adjE *= inv
		adjF *= inv
		adjG *= inv
		adjH *= inv
	}
	return PerspectiveTransform{
		A: adjA, B: adjB, C: adjC,
		D: adjD, E: adjE, F: adjF,
		G: adjG, H: adjH,
	}
}

// SolvePerspective computes the projective transform mapping each corner of
// src to the corresponding corner of dst. The eight unknown coefficients are
// solved as a dense 8x8 linear system. A degenerate (e.g. collinear) corner
// configuration makes the system singular and returns an error.
func SolvePerspective(src, dst Quad) (PerspectiveTransform, error) {
	// Each correspondence (x,y) -> (x',y') contributes two equations:
	//   a*x + b*y + c - g*x*x' - h*y*x' = x'
	//   d*x + e*y + f - g*x*y' - h*y*y' = y'
	A := mat.NewDense(8, 8, nil)
	B := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -x*xp)
		A.Set(i*2, 7, -y*xp)
		B.SetVec(i*2, xp)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -x*yp)
		A.Set(i*2+1, 7, -y*yp)
		B.SetVec(i*2+1, yp)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return PerspectiveTransform{}, fmt.Errorf("degenerate quad correspondence: %w", err)
	}

	return PerspectiveTransform{
		A: params.AtVec(0),
		B: params.AtVec(1),
		C: params.AtVec(2),
		D: params.AtVec(3),
		E: params.AtVec(4),
		F: params.AtVec(5),
		G: params.AtVec(6),
		H: params.AtVec(7),
	}, nil
}
