// Package color565 provides the 16-bit RGB565 pixel format used by the ST7735.
//
// The ST7735 transmits each pixel as a 16-bit value with 5 bits of red, 6 bits
// of green and 5 bits of blue, most significant byte first. This package
// provides the Color type, a color.Model for conversions from arbitrary colors,
// and the Image implementation used for bulk transfers.
package color565

import (
	"encoding/binary"
	"image"
	"image/color"
)

// Color is a packed RGB565 color: bits 15-11 red, 10-5 green, 4-0 blue.
type Color uint16

// Common colors in packed form.
const (
	Black Color = 0x0000
	White Color = 0xFFFF
	Red   Color = 0xF800
	Green Color = 0x0400
	Blue  Color = 0x001F
)

// FromRGB packs the three components into a Color.
//
// The components are masked to their field widths (red and blue 5 bits,
// green 6 bits) before packing, so no component can overflow into another.
func FromRGB(r, g, b uint16) Color {
	return Color((r&0x1F)<<11 | (g&0x3F)<<5 | b&0x1F)
}

// FromHex creates a Color from an already packed 565 value.
func FromHex(hex uint16) Color {
	return Color(hex)
}

// R returns the 5-bit red field.
func (c Color) R() uint16 { return uint16(c) >> 11 }

// G returns the 6-bit green field.
func (c Color) G() uint16 { return uint16(c) >> 5 & 0x3F }

// B returns the 5-bit blue field.
func (c Color) B() uint16 { return uint16(c) & 0x1F }

// BigEndian returns the two wire bytes, most significant first.
func (c Color) BigEndian() (hi, lo byte) {
	return byte(c >> 8), byte(c)
}

// RGBA converts the packed color to standard RGBA.
// Each field is expanded to 8 bits by replicating its high bits, so full
// scale in a field maps to 0xFFFF.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R())
	g = uint32(c.G())
	b = uint32(c.B())
	r = (r<<3 | r>>2) * 0x101
	g = (g<<2 | g>>4) * 0x101
	b = (b<<3 | b>>2) * 0x101
	return r, g, b, 0xFFFF
}

// toColor converts any color.Color to a packed Color.
func toColor(c color.Color) color.Color {
	if c5, ok := c.(Color); ok {
		return c5
	}
	r, g, b, _ := c.RGBA()
	// RGBA returns 16-bit components; keep the top 5/6/5 bits.
	return FromRGB(uint16(r>>11), uint16(g>>10), uint16(b>>11))
}

// Model converts colors to Color.
var Model = color.ModelFunc(toColor)

// Image is an RGB565 image with two bytes per pixel, most significant first.
// The layout matches the controller's memory-write format so a full frame can
// be transmitted without conversion.
type Image struct {
	Pix    []byte          // Pixel data (2 bytes per pixel, big-endian)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// New creates a new Image with the specified bounds.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r}
	}
	stride := w * 2
	return &Image{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the packed color of the pixel at (x, y).
func (p *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Black
	}
	o := p.pixOffset(x, y)
	return Color(binary.BigEndian.Uint16(p.Pix[o : o+2]))
}

// Set sets the color of the pixel at (x, y).
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Model.Convert(c).(Color))
}

// SetRGB565 sets the packed color of the pixel at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	o := p.pixOffset(x, y)
	binary.BigEndian.PutUint16(p.Pix[o:], uint16(c))
}

// pixOffset returns the byte offset of the pixel at (x, y).
func (p *Image) pixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}
