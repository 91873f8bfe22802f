package transform

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/yogeshw/ncrads9/pkg/geometry"
)

// ErrInsufficientPoints is returned when an affine fit is attempted
// with fewer than three point pairs.
var ErrInsufficientPoints = errors.New("transform: affine fit needs at least 3 point pairs")

// FitTransform computes the least-squares affine transform mapping src
// points onto dst points. At least three pairs are required; collinear
// or duplicate points make the system singular.
func FitTransform(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	if len(src) != len(dst) {
		return geometry.Identity(), fmt.Errorf("transform: point count mismatch (%d vs %d)", len(src), len(dst))
	}
	if len(src) < 3 {
		return geometry.Identity(), ErrInsufficientPoints
	}

	n := len(src)
	a := mat.NewDense(2*n, 6, nil)
	b := mat.NewVecDense(2*n, nil)
	for i, p := range src {
		a.SetRow(2*i, []float64{p.X, p.Y, 1, 0, 0, 0})
		a.SetRow(2*i+1, []float64{0, 0, 0, p.X, p.Y, 1})
		b.SetVec(2*i, dst[i].X)
		b.SetVec(2*i+1, dst[i].Y)
	}

	var qr mat.QR
	qr.Factorize(a)
	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, b); err != nil {
		return geometry.Identity(), fmt.Errorf("transform: affine fit failed: %w", err)
	}

	return geometry.AffineTransform{
		A: params.AtVec(0), B: params.AtVec(1), TX: params.AtVec(2),
		C: params.AtVec(3), D: params.AtVec(4), TY: params.AtVec(5),
	}, nil
}
