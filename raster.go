package st7735

import (
	"math"

	"periph.io/x/devices/v3/st7735/color565"
)

// DrawPixel paints a single pixel.
func (d *Dev) DrawPixel(x, y int, c color565.Color) error {
	if d.halted {
		return errHalted
	}
	if err := d.setAddressWindow(x, y, x, y); err != nil {
		return err
	}
	return d.streamColor(c, 1)
}

// FillRect fills the rectangle spanned by the two corners, both inclusive,
// with a single bulk write. The protocol overhead is constant regardless of
// the area.
func (d *Dev) FillRect(x0, y0, x1, y1 int, c color565.Color) error {
	if d.halted {
		return errHalted
	}
	if err := d.setAddressWindow(x0, y0, x1, y1); err != nil {
		return err
	}
	return d.streamColor(c, (x1-x0+1)*(y1-y0+1))
}

// DrawRect draws the outline of the rectangle spanned by the two corners.
// Corner pixels are written by both adjoining edges; writes are idempotent so
// this is harmless.
func (d *Dev) DrawRect(x0, y0, x1, y1 int, c color565.Color) error {
	if err := d.DrawHLine(x0, x1, y0, c); err != nil {
		return err
	}
	if err := d.DrawHLine(x0, x1, y1, c); err != nil {
		return err
	}
	if err := d.DrawVLine(x0, y0, y1, c); err != nil {
		return err
	}
	return d.DrawVLine(x1, y0, y1, c)
}

// DrawHLine draws a horizontal line from (x0,y) to (x1,y), endpoints
// inclusive.
func (d *Dev) DrawHLine(x0, x1, y int, c color565.Color) error {
	if d.halted {
		return errHalted
	}
	if err := d.setAddressWindow(x0, y, x1, y); err != nil {
		return err
	}
	return d.streamColor(c, x1-x0+1)
}

// DrawVLine draws a vertical line from (x,y0) to (x,y1), endpoints inclusive.
func (d *Dev) DrawVLine(x, y0, y1 int, c color565.Color) error {
	if d.halted {
		return errHalted
	}
	if err := d.setAddressWindow(x, y0, x, y1); err != nil {
		return err
	}
	return d.streamColor(c, y1-y0+1)
}

// DrawLine draws a straight segment between the two points.
//
// Axis-aligned segments are routed to the dedicated line primitives before
// any slope arithmetic. The general case walks the dominant axis one pixel at
// a time and truncates the computed minor coordinate toward zero.
func (d *Dev) DrawLine(x0, y0, x1, y1 int, c color565.Color) error {
	if x0 == x1 {
		return d.DrawVLine(x0, y0, y1, c)
	}
	if y0 == y1 {
		return d.DrawHLine(x0, x1, y1, c)
	}

	m := float32(abs(y1-y0)) / float32(abs(x1-x0))
	if m < 1 {
		for x := x0; x <= x1; x++ {
			y := float32(x-x0)*m + float32(y0)
			if err := d.DrawPixel(x, int(y), c); err != nil {
				return err
			}
		}
		return nil
	}
	for y := y0; y <= y1; y++ {
		x := float32(y-y0)/m + float32(x0)
		if err := d.DrawPixel(int(x), y, c); err != nil {
			return err
		}
	}
	return nil
}

// DrawCircle draws the outline of the circle of the given radius around
// (xc,yc).
//
// Only the first octant is computed; the other seven points come from
// symmetry. The iteration stops just past radius/sqrt(2) so the 45 degree
// boundary is plotted exactly once.
func (d *Dev) DrawCircle(xc, yc, r int, c color565.Color) error {
	xEnd := int(0.7071*float32(r) + 1)
	for x := 0; x < xEnd; x++ {
		y := isqrt(r*r - x*x)
		points := [8][2]int{
			{xc + x, yc + y}, {xc + x, yc - y},
			{xc - x, yc + y}, {xc - x, yc - y},
			{xc + y, yc + x}, {xc + y, yc - x},
			{xc - y, yc + x}, {xc - y, yc - x},
		}
		for _, p := range points {
			if err := d.DrawPixel(p[0], p[1], c); err != nil {
				return err
			}
		}
	}
	return nil
}

// FillCircle fills the circle of the given radius around (xc,yc) as one pair
// of vertical lines per column. The radius must not exceed either center
// coordinate.
func (d *Dev) FillCircle(xc, yc, r int, c color565.Color) error {
	if r > xc || r > yc {
		return errRadiusRange
	}
	for x := 0; x < r; x++ {
		y := isqrt(r*r - x*x)
		if err := d.DrawVLine(xc+x, yc-y, yc+y, c); err != nil {
			return err
		}
		if err := d.DrawVLine(xc-x, yc-y, yc+y, c); err != nil {
			return err
		}
	}
	return nil
}

// DrawChar renders a single glyph with its anchor at (x,y).
//
// Glyph columns grow toward decreasing x and rows toward decreasing y, so the
// character occupies [x-4,x] by [y-6,y]. This mirrored layout is long-standing
// behavior; existing callers position text around it.
func (d *Dev) DrawChar(r rune, x, y int, c color565.Color, f Font) error {
	cols := f.Glyph(r)
	for row := 0; row < 7; row++ {
		for col := 0; col < 5; col++ {
			if cols[col]&(1<<row) == 0 {
				continue
			}
			if err := d.DrawPixel(x-col, y-row, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// DrawText renders s one glyph at a time, advancing the anchor by the glyph
// width plus a one column gap per character.
func (d *Dev) DrawText(s string, x, y int, c color565.Color, f Font) error {
	for _, r := range s {
		if err := d.DrawChar(r, x, y, c, f); err != nil {
			return err
		}
		x += 6
	}
	return nil
}

// FillScreen paints the whole panel with c.
func (d *Dev) FillScreen(c color565.Color) error {
	return d.FillRect(0, 0, Width-1, Height-1, c)
}

// ClearScreen blanks the panel to black.
func (d *Dev) ClearScreen() error {
	return d.FillScreen(color565.Black)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func isqrt(v int) int {
	return int(math.Sqrt(float64(v)))
}
