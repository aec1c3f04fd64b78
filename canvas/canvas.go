// Package canvas provides the in-memory frame representation for Inky
// e-paper panels, along with integer shape rasterization and the bit
// packing used to stream a frame into the controller's RAM.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Color is one of the four ink states a panel pixel can take. The zero
// value is White, matching a freshly cleared panel.
type Color uint8

// Ink states.
const (
	White Color = iota
	Black
	Red
	Yellow
)

// RGBA implements color.Color. Red and Yellow map to their saturated
// sRGB equivalents so a canvas composed with image/draw renders
// sensibly on screen as well as on panel.
func (c Color) RGBA() (r, g, b, a uint32) {
	switch c {
	case Black:
		return 0, 0, 0, 0xFFFF
	case Red:
		return 0xFFFF, 0, 0, 0xFFFF
	case Yellow:
		return 0xFFFF, 0xFFFF, 0, 0xFFFF
	default:
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
}

// String returns the single-character code used when dumping frames.
func (c Color) String() string {
	switch c {
	case Black:
		return "B"
	case Red:
		return "R"
	case Yellow:
		return "Y"
	default:
		return "."
	}
}

// bit returns the black/white plane bit: 0 drives the pixel black, 1
// leaves it white or hands it to the color plane.
func (c Color) bit() byte {
	if c == Black {
		return 0
	}
	return 1
}

// Model converts any color.Color to the nearest of the four inks.
var Model = color.ModelFunc(toColor)

var palette = color.Palette{White, Black, Red, Yellow}

func toColor(c color.Color) color.Color {
	if cc, ok := c.(Color); ok {
		return cc
	}
	return palette.Convert(c)
}

// Canvas is an in-memory frame, one Color per pixel.
type Canvas struct {
	// Pix holds the pixels in row-major order.
	Pix []Color
	// Stride is the Pix stride between vertically adjacent pixels.
	Stride int
	// Rect is the canvas bounds.
	Rect image.Rectangle
}

var _ draw.Image = &Canvas{}

// New returns an all-White canvas of the given size.
//
// New panics if either dimension is negative.
func New(width, height int) *Canvas {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("canvas: negative dimensions %dx%d", width, height))
	}
	return &Canvas{
		Pix:    make([]Color, width*height),
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.Rect.Dx()
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.Rect.Dy()
}

// SetPixel sets the pixel at (x, y).
//
// SetPixel panics if (x, y) is outside the canvas; use Set for
// clipping writes.
func (c *Canvas) SetPixel(x, y int, px Color) {
	if !(image.Point{X: x, Y: y}).In(c.Rect) {
		panic(fmt.Sprintf("canvas: pixel (%d,%d) outside %dx%d canvas", x, y, c.Rect.Dx(), c.Rect.Dy()))
	}
	c.Pix[y*c.Stride+x] = px
}

// PixelAt returns the pixel at (x, y).
//
// PixelAt panics if (x, y) is outside the canvas; use At for clipping
// reads.
func (c *Canvas) PixelAt(x, y int) Color {
	if !(image.Point{X: x, Y: y}).In(c.Rect) {
		panic(fmt.Sprintf("canvas: pixel (%d,%d) outside %dx%d canvas", x, y, c.Rect.Dx(), c.Rect.Dy()))
	}
	return c.Pix[y*c.Stride+x]
}

// Draw renders d onto the canvas in Black.
//
// Draw panics if d yields a coordinate outside the canvas.
func (c *Canvas) Draw(d Drawable) {
	for _, pt := range d.Coordinates() {
		c.SetPixel(pt.X, pt.Y, Black)
	}
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle {
	return c.Rect
}

// At implements image.Image. Unlike PixelAt it returns White for
// coordinates outside the canvas.
func (c *Canvas) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(c.Rect) {
		return White
	}
	return c.Pix[y*c.Stride+x]
}

// Set implements draw.Image. The color is converted through Model;
// coordinates outside the canvas are ignored.
func (c *Canvas) Set(x, y int, px color.Color) {
	if !(image.Point{X: x, Y: y}).In(c.Rect) {
		return
	}
	c.Pix[y*c.Stride+x] = toColor(px).(Color)
}

// Pack flattens the canvas to the controller's black/white RAM format:
// row-major pixel order, eight pixels per byte, least significant bit
// first, bit 0 for Black and 1 for every other ink. The final byte of
// a frame whose pixel count is not a multiple of eight is padded with
// zero bits.
func (c *Canvas) Pack() []byte {
	out := make([]byte, 0, (len(c.Pix)+7)/8)
	var cur byte
	nbits := uint(0)
	for _, px := range c.Pix {
		cur |= px.bit() << nbits
		nbits++
		if nbits == 8 {
			out = append(out, cur)
			cur, nbits = 0, 0
		}
	}
	if nbits > 0 {
		out = append(out, cur)
	}
	return out
}
