package plotexpr

import (
	"errors"
	"math"
	"strconv"
)

// Point is a sample of an expression.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the visible range of x.
type Viewport struct {
	XMin float64 `json:"xMin"`
	XMax float64 `json:"xMax"`
}

// SampleRequest is a request to sample an expression for a canvas.
type SampleRequest struct {
	PixelWidth int      `json:"pixelWidth"`
	Viewport   Viewport `json:"viewport"`
}

const (
	// Oversample is the number of samples taken per pixel of canvas width.
	Oversample = 4.5
	// Span is the width of the sampled range in viewports. The samples start
	// one viewport to the left of the visible range so that panning doesn't
	// need new samples right away.
	Span = 3
	// MaxPixelWidth is the largest canvas width Sample accepts.
	MaxPixelWidth = 1 << 16
)

// Validate checks that a request describes a non-empty grid.
func (r SampleRequest) Validate() error {
	switch {
	case r.PixelWidth <= 0:
		return &RequestError{Req: r, Reason: "pixel width " + strconv.Itoa(r.PixelWidth) + " is not positive"}
	case r.PixelWidth > MaxPixelWidth:
		return &RequestError{Req: r, Reason: "pixel width " + strconv.Itoa(r.PixelWidth) + " is too large"}
	case !finite(r.Viewport.XMin) || !finite(r.Viewport.XMax):
		return &RequestError{Req: r, Reason: "viewport bounds are not finite"}
	case r.Viewport.XMin >= r.Viewport.XMax:
		return &RequestError{Req: r, Reason: "viewport is empty or inverted"}
	case !finite(2*r.Viewport.XMin-r.Viewport.XMax) || !finite(2*r.Viewport.XMax-r.Viewport.XMin):
		return &RequestError{Req: r, Reason: "viewport is too wide"}
	}
	return nil
}

// Len returns the number of points Sample produces for the request.
func (r SampleRequest) Len() int {
	return int(Oversample*float64(r.PixelWidth)) + 1
}

// Sample evaluates the expression on a grid covering three viewport widths,
// starting one width to the left of v, with Oversample points per pixel.
func (e *Expr) Sample(v Viewport, pixelWidth int) ([]Point, error) {
	return e.SampleFor(SampleRequest{PixelWidth: pixelWidth, Viewport: v})
}

// SampleFor is like Sample with the arguments in a request.
func (e *Expr) SampleFor(r SampleRequest) ([]Point, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	v := r.Viewport
	first := 2*v.XMin - v.XMax
	dx := Span * (v.XMax - v.XMin) / (Oversample * float64(r.PixelWidth))
	pts := make([]Point, r.Len())
	for i := range pts {
		x := first + float64(i)*dx
		pts[i] = Point{X: x, Y: e.n.eval(x)}
	}
	return pts, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// ErrBadRequest matches every RequestError using errors.Is.
var ErrBadRequest = errors.New("plotexpr: bad sample request")

// RequestError is an error indicating a sample request that doesn't describe
// a usable grid.
type RequestError struct {
	// Req is the rejected request.
	Req SampleRequest
	// Reason describes what is wrong with the request.
	Reason string
}

func (err *RequestError) Error() string {
	return "bad sample request: " + err.Reason
}

func (err *RequestError) Unwrap() error {
	return ErrBadRequest
}
