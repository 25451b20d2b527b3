// Package signature captures freehand pen strokes and exports them as a PNG
// raster, mirroring a browser signature pad. The pad is purely in-memory and
// never touches storage.
package signature

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"
)

const (
	// Default surface dimensions match the capture canvas (px).
	DefaultWidth  = 400
	DefaultHeight = 150

	penWidth = 2.5
)

// Point is a pen position on the capture surface, in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pad accumulates freehand strokes on a fixed-size surface.
// The zero value is not usable; construct with NewPad.
type Pad struct {
	width   int
	height  int
	begun   bool
	strokes [][]Point
}

// NewPad returns a pad with the given surface size. Non-positive dimensions
// fall back to the defaults.
func NewPad(width, height int) *Pad {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Pad{width: width, height: height}
}

// Begin initializes the capture surface. Calling it again while already
// initialized is a no-op.
func (p *Pad) Begin() {
	if p.begun {
		return
	}
	p.begun = true
	p.strokes = p.strokes[:0]
}

// Clear discards all captured strokes. It has no effect on a pad that was
// never begun.
func (p *Pad) Clear() {
	if !p.begun {
		return
	}
	p.strokes = p.strokes[:0]
}

// Stroke appends one pen stroke (a polyline of at least one point).
// The surface is initialized lazily on the first stroke.
func (p *Pad) Stroke(points ...Point) {
	p.Begin()
	if len(points) == 0 {
		return
	}
	stroke := make([]Point, len(points))
	copy(stroke, points)
	p.strokes = append(p.strokes, stroke)
}

// Empty reports whether nothing has been drawn.
func (p *Pad) Empty() bool {
	return len(p.strokes) == 0
}

// Export renders the current surface to a PNG: white background, black pen.
// A pad with no strokes exports a blank surface. Export never fails.
func (p *Pad) Export() []byte {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if !p.Empty() {
		r := vector.NewRasterizer(p.width, p.height)
		for _, stroke := range p.strokes {
			traceStroke(r, stroke)
		}
		r.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{})
	}

	var buf bytes.Buffer
	// Encoding an in-memory RGBA to a bytes.Buffer cannot fail.
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// traceStroke adds the filled outline of a polyline to the rasterizer: one
// quad per segment plus a square dot per point so joints and single-point
// strokes stay visible.
func traceStroke(r *vector.Rasterizer, stroke []Point) {
	half := float32(penWidth / 2)

	for _, pt := range stroke {
		x, y := float32(pt.X), float32(pt.Y)
		r.MoveTo(x-half, y-half)
		r.LineTo(x+half, y-half)
		r.LineTo(x+half, y+half)
		r.LineTo(x-half, y+half)
		r.ClosePath()
	}

	for i := 1; i < len(stroke); i++ {
		x0, y0 := float32(stroke[i-1].X), float32(stroke[i-1].Y)
		x1, y1 := float32(stroke[i].X), float32(stroke[i].Y)
		dx, dy := x1-x0, y1-y0
		length := float32(math.Hypot(float64(dx), float64(dy)))
		if length == 0 {
			continue
		}
		// Unit normal scaled to half the pen width.
		nx, ny := -dy/length*half, dx/length*half

		r.MoveTo(x0+nx, y0+ny)
		r.LineTo(x1+nx, y1+ny)
		r.LineTo(x1-nx, y1-ny)
		r.LineTo(x0-nx, y0-ny)
		r.ClosePath()
	}
}
