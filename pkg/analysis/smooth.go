// Package analysis provides pixel analysis over image buffers: display
// smoothing, region statistics, and histograms. Smoothing runs through
// OpenCV on float32 planes; everything is NaN-aware so blank or masked
// samples neither spread nor bias their neighbours.
package analysis

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/yogeshw/ncrads9/pkg/imagedata"
)

// ErrBadSmoothParam reports a non-positive kernel parameter.
var ErrBadSmoothParam = errors.New("analysis: smoothing parameter must be positive")

// SmoothMethod selects the smoothing kernel shape.
type SmoothMethod int

const (
	SmoothGaussian SmoothMethod = iota
	SmoothBoxcar
	SmoothTophat
)

func (m SmoothMethod) String() string {
	switch m {
	case SmoothGaussian:
		return "gaussian"
	case SmoothBoxcar:
		return "boxcar"
	case SmoothTophat:
		return "tophat"
	}
	return "unknown"
}

// SmoothParams bundles a method with its kernel parameter. Only the
// field matching the method is consulted.
type SmoothParams struct {
	Method SmoothMethod
	Sigma  float64 // Gaussian standard deviation in pixels
	Size   int     // boxcar kernel width in pixels
	Radius float64 // tophat disc radius in pixels
}

// DefaultSmoothParams returns a mild Gaussian, the usual starting point
// for display smoothing.
func DefaultSmoothParams() SmoothParams {
	return SmoothParams{Method: SmoothGaussian, Sigma: 1.0, Size: 3, Radius: 2.0}
}

// Smooth applies the parameterized smoothing and returns a new buffer
// with a fresh generation id. The input buffer is not modified.
func Smooth(buf *imagedata.Buffer, p SmoothParams) (*imagedata.Buffer, error) {
	switch p.Method {
	case SmoothGaussian:
		return GaussianSmooth(buf, p.Sigma)
	case SmoothBoxcar:
		return BoxcarSmooth(buf, p.Size)
	case SmoothTophat:
		return TophatSmooth(buf, p.Radius)
	}
	return nil, fmt.Errorf("analysis: unknown smooth method %d", p.Method)
}

// GaussianSmooth convolves the buffer with a Gaussian of the given
// sigma. The kernel is truncated at four sigma on each side.
func GaussianSmooth(buf *imagedata.Buffer, sigma float64) (*imagedata.Buffer, error) {
	if sigma <= 0 {
		return nil, ErrBadSmoothParam
	}
	ksize := 2*int(math.Ceil(4*sigma)) + 1
	return smoothNaN(buf, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.GaussianBlur(src, dst, image.Pt(ksize, ksize), sigma, sigma, gocv.BorderConstant)
	})
}

// BoxcarSmooth convolves the buffer with a normalized size x size mean
// kernel.
func BoxcarSmooth(buf *imagedata.Buffer, size int) (*imagedata.Buffer, error) {
	if size <= 0 {
		return nil, ErrBadSmoothParam
	}
	weight := 1.0 / float64(size*size)
	kernel := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(weight, 0, 0, 0), size, size, gocv.MatTypeCV32F)
	defer kernel.Close()
	return smoothNaN(buf, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.Filter2D(src, dst, gocv.MatTypeCV32F, kernel, image.Pt(-1, -1), 0, gocv.BorderConstant)
	})
}

// TophatSmooth convolves the buffer with a normalized circular pillbox
// of the given radius.
func TophatSmooth(buf *imagedata.Buffer, radius float64) (*imagedata.Buffer, error) {
	if radius <= 0 {
		return nil, ErrBadSmoothParam
	}
	kernel, err := tophatKernel(radius)
	if err != nil {
		return nil, err
	}
	defer kernel.Close()
	return smoothNaN(buf, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.Filter2D(src, dst, gocv.MatTypeCV32F, kernel, image.Pt(-1, -1), 0, gocv.BorderConstant)
	})
}

// tophatKernel builds a normalized disc kernel. Cells whose center lies
// within radius of the kernel center get equal weight.
func tophatKernel(radius float64) (gocv.Mat, error) {
	size := 2*int(math.Ceil(radius)) + 1
	kernel := gocv.NewMatWithSize(size, size, gocv.MatTypeCV32F)
	data, err := kernel.DataPtrFloat32()
	if err != nil {
		kernel.Close()
		return gocv.Mat{}, fmt.Errorf("analysis: kernel data: %w", err)
	}
	center := size / 2
	count := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x - center)
			dy := float64(y - center)
			if math.Hypot(dx, dy) <= radius {
				data[y*size+x] = 1
				count++
			} else {
				data[y*size+x] = 0
			}
		}
	}
	norm := float32(count)
	for i := range data {
		data[i] /= norm
	}
	return kernel, nil
}

// smoothNaN runs op over a zero-filled copy of the samples and over a
// parallel weight plane (1 where finite, 0 where not), then divides the
// results so missing samples are renormalized out instead of dragging
// their neighbourhood toward zero. Positions that were non-finite in
// the input come back as NaN. op must use zero-padded borders; the
// padding then cancels in the division and edge pixels average only
// in-bounds samples.
func smoothNaN(buf *imagedata.Buffer, op func(src gocv.Mat, dst *gocv.Mat)) (*imagedata.Buffer, error) {
	if buf == nil {
		return nil, imagedata.ErrEmptyBuffer
	}
	w, h := buf.Width(), buf.Height()

	src := gocv.NewMatWithSize(h, w, gocv.MatTypeCV32F)
	defer src.Close()
	weight := gocv.NewMatWithSize(h, w, gocv.MatTypeCV32F)
	defer weight.Close()

	sdata, err := src.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("analysis: mat data: %w", err)
	}
	wdata, err := weight.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("analysis: mat data: %w", err)
	}

	in := buf.Data()
	for i, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			sdata[i] = 0
			wdata[i] = 0
		} else {
			sdata[i] = float32(v)
			wdata[i] = 1
		}
	}

	smoothed := gocv.NewMat()
	defer smoothed.Close()
	weightSmoothed := gocv.NewMat()
	defer weightSmoothed.Close()
	op(src, &smoothed)
	op(weight, &weightSmoothed)

	odata, err := smoothed.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("analysis: mat data: %w", err)
	}
	owdata, err := weightSmoothed.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("analysis: mat data: %w", err)
	}

	out := make([]float64, len(in))
	for i := range out {
		switch {
		case wdata[i] == 0:
			out[i] = math.NaN()
		case owdata[i] > 0:
			out[i] = float64(odata[i] / owdata[i])
		default:
			out[i] = math.NaN()
		}
	}
	return imagedata.New(out, w, h)
}
