package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Rasterize strokes the command list onto dst in order. It is the
// software reference backend; hosts with a native canvas translate the
// commands instead.
func Rasterize(dst *image.RGBA, cmds []Command) {
	for _, cmd := range cmds {
		switch cmd.Op {
		case OpPolyline:
			rasterPolyline(dst, cmd)
		case OpEllipse:
			rasterEllipse(dst, cmd)
		case OpMarker:
			rasterMarker(dst, cmd)
		case OpLabel:
			rasterLabel(dst, cmd.Text, int(cmd.Center.X), int(cmd.Center.Y), cmd.Color)
		}
	}
}

func rasterPolyline(dst *image.RGBA, cmd Command) {
	pts := cmd.Points
	if len(pts) < 2 {
		return
	}
	n := len(pts)
	last := n - 1
	if cmd.Closed {
		last = n
	}
	for i := 0; i < last; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		drawLine(dst, int(a.X), int(a.Y), int(b.X), int(b.Y), cmd.Color, cmd.Width, cmd.Dashed)
	}
}

// drawLine strokes a segment with Bresenham stepping, stamping a
// thickness block at each step. Dashed lines use a four-on/four-off
// pixel pattern.
func drawLine(dst *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int, dashed bool) {
	bounds := dst.Bounds()
	if thickness < 1 {
		thickness = 1
	}

	dx := x2 - x1
	if dx < 0 {
		dx = -dx
	}
	dy := y2 - y1
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	step := 0
	for {
		if !dashed || (step/4)%2 == 0 {
			for t := -thickness / 2; t <= thickness/2; t++ {
				for s := -thickness / 2; s <= thickness/2; s++ {
					px, py := x1+s, y1+t
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						dst.SetRGBA(px, py, col)
					}
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}
		step++
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// rasterEllipse strokes an ellipse ring: the outer boundary at the
// command radii, the inner boundary pulled in by the stroke width.
// Radii smaller than the width degenerate to a filled disc.
func rasterEllipse(dst *image.RGBA, cmd Command) {
	rx, ry := cmd.RadiusX, cmd.RadiusY
	if rx <= 0 || ry <= 0 {
		return
	}
	w := float64(cmd.Width)
	if w < 1.5 {
		w = 1.5
	}

	bounds := dst.Bounds()
	cx, cy := cmd.Center.X, cmd.Center.Y
	rad := cmd.Angle * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	ext := math.Max(rx, ry) + w
	minX := int(cx - ext - 1)
	maxX := int(cx + ext + 1)
	minY := int(cy - ext - 1)
	maxY := int(cy + ext + 1)

	irx := rx - w
	iry := ry - w

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			if cmd.Dashed && (x+y)%4 >= 2 {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			lx := dx*cos + dy*sin
			ly := -dx*sin + dy*cos
			if sq(lx/rx)+sq(ly/ry) > 1 {
				continue
			}
			if irx > 0 && iry > 0 && sq(lx/irx)+sq(ly/iry) < 1 {
				continue
			}
			dst.SetRGBA(x, y, cmd.Color)
		}
	}
}

// rasterMarker draws a fixed screen-size marker. Styles follow the
// region marker vocabulary; arrow and unknown styles fall back to a
// cross.
func rasterMarker(dst *image.RGBA, cmd Command) {
	x := int(cmd.Center.X)
	y := int(cmd.Center.Y)
	half := cmd.Size / 2
	if half < 1 {
		half = 1
	}
	w := cmd.Width
	if w < 1 {
		w = 1
	}
	col := cmd.Color

	switch cmd.Marker {
	case "box":
		drawBoxMarker(dst, x, y, half, col, w)
	case "diamond":
		drawLine(dst, x, y-half, x+half, y, col, w, false)
		drawLine(dst, x+half, y, x, y+half, col, w, false)
		drawLine(dst, x, y+half, x-half, y, col, w, false)
		drawLine(dst, x-half, y, x, y-half, col, w, false)
	case "x":
		drawLine(dst, x-half, y-half, x+half, y+half, col, w, false)
		drawLine(dst, x-half, y+half, x+half, y-half, col, w, false)
	case "circle":
		drawCircleOutline(dst, x, y, half, col)
	case "boxcircle":
		drawBoxMarker(dst, x, y, half, col, w)
		drawCircleOutline(dst, x, y, half, col)
	default:
		drawLine(dst, x-half, y, x+half, y, col, w, false)
		drawLine(dst, x, y-half, x, y+half, col, w, false)
	}
}

func drawBoxMarker(dst *image.RGBA, x, y, half int, col color.RGBA, w int) {
	drawLine(dst, x-half, y-half, x+half, y-half, col, w, false)
	drawLine(dst, x+half, y-half, x+half, y+half, col, w, false)
	drawLine(dst, x+half, y+half, x-half, y+half, col, w, false)
	drawLine(dst, x-half, y+half, x-half, y-half, col, w, false)
}

// drawCircleOutline plots a circle with the midpoint algorithm.
func drawCircleOutline(dst *image.RGBA, cx, cy, radius int, col color.RGBA) {
	x := radius
	y := 0
	err := 0

	for x >= y {
		setPixel(dst, cx+x, cy+y, col)
		setPixel(dst, cx+y, cy+x, col)
		setPixel(dst, cx-y, cy+x, col)
		setPixel(dst, cx-x, cy+y, col)
		setPixel(dst, cx-x, cy-y, col)
		setPixel(dst, cx-y, cy-x, col)
		setPixel(dst, cx+y, cy-x, col)
		setPixel(dst, cx+x, cy-y, col)

		y++
		err += 1 + 2*y
		if 2*(err-x)+1 > 0 {
			x--
			err += 1 - 2*x
		}
	}
}

// rasterLabel draws text centered on (cx, cy) with the builtin 7x13
// face.
func rasterLabel(dst *image.RGBA, s string, cx, cy int, col color.RGBA) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	advance := font.MeasureString(face, s)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(cx-advance.Round()/2, cy+face.Metrics().Ascent.Round()/2),
	}
	d.DrawString(s)
}

func setPixel(dst *image.RGBA, x, y int, col color.RGBA) {
	b := dst.Bounds()
	if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
		dst.SetRGBA(x, y, col)
	}
}

func sq(v float64) float64 { return v * v }
