package canvas

import "image"

// Drawable yields the coordinates a shape covers.
type Drawable interface {
	// Coordinates returns every pixel the shape covers, in walk
	// order for paths and raster order for filled shapes.
	Coordinates() []image.Point
}

// Line is a straight segment between two points, both inclusive.
type Line struct {
	Start image.Point
	End   image.Point
}

// Coordinates walks the segment with Bresenham's algorithm. The walk
// starts at Start, ends at End, advances one pixel per step in any of
// the eight directions and never visits a pixel twice. A zero-length
// line yields its single point.
func (l Line) Coordinates() []image.Point {
	x0, y0 := l.Start.X, l.Start.Y
	x1, y1 := l.End.X, l.End.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	pts := make([]image.Point, 0, max(dx, -dy)+1)
	err := dx + dy
	for {
		pts = append(pts, image.Point{X: x0, Y: y0})
		if x0 == x1 && y0 == y1 {
			return pts
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Rectangle is an axis-aligned filled box, both corners inclusive.
type Rectangle struct {
	TopLeft     image.Point
	BottomRight image.Point
}

// Coordinates returns every pixel of the box in raster order. A box
// whose corners cross yields nothing.
func (r Rectangle) Coordinates() []image.Point {
	w := r.BottomRight.X - r.TopLeft.X + 1
	h := r.BottomRight.Y - r.TopLeft.Y + 1
	if w <= 0 || h <= 0 {
		return nil
	}
	pts := make([]image.Point, 0, w*h)
	for y := r.TopLeft.Y; y <= r.BottomRight.Y; y++ {
		for x := r.TopLeft.X; x <= r.BottomRight.X; x++ {
			pts = append(pts, image.Point{X: x, Y: y})
		}
	}
	return pts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
