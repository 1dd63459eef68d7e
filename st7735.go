// Package st7735 controls a ST7735 TFT LCD display over SPI or bit-banged GPIO.
//
// The ST7735 is a 16-bit color (RGB565) TFT controller driving 128x160 panels.
//
// See the examples for how to use this package.
package st7735

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"periph.io/x/devices/v3/st7735/color565"
)

// Panel extent in pixels.
const (
	Width  = 128
	Height = 160
)

var (
	errHalted      = errors.New("st7735: halted")
	errWindowOrder = errors.New("st7735: address window bounds out of order")
	errRadiusRange = errors.New("st7735: circle radius exceeds center coordinate")
)

// transport moves bytes to the controller while driving the data/command line.
//
// The two implementations are electrically different but logically identical,
// so everything above this interface is transport-agnostic.
type transport interface {
	// write sends p with the D/C line high (data) or low (command).
	write(p []byte, data bool) error

	// stream sends n copies of the two-byte pixel px as data.
	stream(px [2]byte, n int) error
}

func dcLevel(data bool) gpio.Level {
	if data {
		return gpio.High
	}
	return gpio.Low
}

// spiLink drives the controller over a hardware SPI channel.
type spiLink struct {
	c         conn.Conn
	dc        gpio.PinOut
	maxTxSize int
}

func (l *spiLink) write(p []byte, data bool) error {
	if err := l.dc.Out(dcLevel(data)); err != nil {
		return fmt.Errorf("st7735: failed to set D/C: %w", err)
	}
	for len(p) != 0 {
		chunk := p
		if l.maxTxSize > 0 && len(chunk) > l.maxTxSize {
			chunk = p[:l.maxTxSize]
		}
		if err := l.c.Tx(chunk, nil); err != nil {
			return fmt.Errorf("st7735: write failed: %w", err)
		}
		p = p[len(chunk):]
	}
	return nil
}

// stream concatenates all pixels into one buffer so the transfer has no
// per-pixel overhead.
func (l *spiLink) stream(px [2]byte, n int) error {
	buf := make([]byte, 2*n)
	for i := 0; i < len(buf); i += 2 {
		buf[i], buf[i+1] = px[0], px[1]
	}
	return l.write(buf, true)
}

// bitBangLink clocks bytes out manually over three GPIO lines. Much slower
// than hardware SPI but works on any host with free pins.
type bitBangLink struct {
	clk  gpio.PinOut
	mosi gpio.PinOut
	dc   gpio.PinOut
}

func (l *bitBangLink) write(p []byte, data bool) error {
	if err := l.dc.Out(dcLevel(data)); err != nil {
		return fmt.Errorf("st7735: failed to set D/C: %w", err)
	}
	for _, b := range p {
		// MSB first, one clock pulse per bit.
		for bit := 0; bit < 8; bit++ {
			if err := l.mosi.Out(gpio.Level(b&(0x80>>bit) != 0)); err != nil {
				return fmt.Errorf("st7735: failed to set data out: %w", err)
			}
			if err := l.clk.Out(gpio.High); err != nil {
				return fmt.Errorf("st7735: failed to pulse clock: %w", err)
			}
			if err := l.clk.Out(gpio.Low); err != nil {
				return fmt.Errorf("st7735: failed to pulse clock: %w", err)
			}
		}
	}
	return nil
}

func (l *bitBangLink) stream(px [2]byte, n int) error {
	for i := 0; i < n; i++ {
		if err := l.write(px[:], true); err != nil {
			return err
		}
	}
	return nil
}

// Opts is the configuration for the ST7735 display.
type Opts struct {
	// RST is the optional hardware reset pin (nil if not wired).
	RST gpio.PinIO
}

// Dev is the device handle for the ST7735 display.
//
// A Dev is not safe for concurrent use; callers sharing one across goroutines
// must serialize access themselves.
type Dev struct {
	link transport
	rst  gpio.PinIO

	// sleep implements settle delays; swapped out in tests.
	sleep func(time.Duration)

	halted bool
}

// NewSPI creates a new ST7735 device connected via hardware SPI.
//
// The SPI port is configured for 20MHz, Mode0 (CPOL=0, CPHA=0), 8-bit
// transfers. The dc (Data/Command) GPIO pin must be provided and configured
// as an output.
//
// opts can be nil to use defaults.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if p == nil {
		return nil, errors.New("st7735: SPI port is required")
	}
	if dc == nil {
		return nil, errors.New("st7735: data/command pin is required")
	}

	c, err := p.Connect(20*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7735: failed to connect: %w", err)
	}

	// Get the maxTxSize from the conn if it implements the conn.Limits
	// interface, otherwise use 4096 bytes.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096 // Use a conservative default.
	}

	d := newDev(&spiLink{c: c, dc: dc, maxTxSize: maxTxSize}, opts)
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewBitBang creates a new ST7735 device driven by manually clocking three
// GPIO lines (clock, data out and data/command).
//
// opts can be nil to use defaults.
func NewBitBang(clk, mosi, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if clk == nil || mosi == nil || dc == nil {
		return nil, errors.New("st7735: clock, data out and data/command pins are required")
	}

	// The clock idles low; every bit is a high-then-low pulse from there.
	if err := clk.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("st7735: failed to idle clock: %w", err)
	}

	d := newDev(&bitBangLink{clk: clk, mosi: mosi, dc: dc}, opts)
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func newDev(link transport, opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	return &Dev{
		link:  link,
		rst:   opts.RST,
		sleep: time.Sleep,
	}
}

// init hard-resets the panel when a reset pin is wired, then runs the
// power-on script.
func (d *Dev) init() error {
	if d.rst != nil {
		if err := d.HardReset(); err != nil {
			return err
		}
	}
	for _, cmd := range initSequence {
		if err := d.execute(cmd); err != nil {
			return err
		}
	}
	return nil
}

// HardReset toggles the reset line, returning the controller to its power-on
// state. The init sequence must be re-run afterwards to make the panel usable.
//
// Fails if the device was created without a reset pin.
func (d *Dev) HardReset() error {
	if d.rst == nil {
		return errors.New("st7735: no reset pin")
	}
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("st7735: failed to pull RST high: %w", err)
	}
	d.sleep(50 * time.Millisecond)
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("st7735: failed to pull RST low: %w", err)
	}
	d.sleep(50 * time.Millisecond)
	return nil
}

// SetOrientation sets the controller's scan direction. The setting lives in
// the controller and persists until the next call.
func (d *Dev) SetOrientation(o Orientation) error {
	if d.halted {
		return errHalted
	}
	return d.execute(command{ins: memoryDAC, args: []byte{byte(o)}})
}

// Invert inverts the display colors.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errHalted
	}
	ins := inverseOff
	if invert {
		ins = inverseOn
	}
	return d.execute(command{ins: ins})
}

// Sleep puts the controller into or out of its minimum power mode. Display
// RAM is retained while asleep.
func (d *Dev) Sleep(enter bool) error {
	if d.halted {
		return errHalted
	}
	ins := sleepOut
	if enter {
		ins = sleepIn
	}
	return d.execute(command{ins: ins})
}

// Halt turns the display off.
// After calling Halt, the display will not respond to further drawing until
// the device is re-initialized.
func (d *Dev) Halt() error {
	d.halted = true
	return d.execute(command{ins: displayOff})
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("st7735.Dev{%dx%d}", Width, Height)
}

// setAddressWindow selects the rectangle of controller memory that subsequent
// memory writes fill, both corners inclusive. The controller is not trusted
// to retain it, so it is re-issued before every write.
func (d *Dev) setAddressWindow(x0, y0, x1, y1 int) error {
	if x0 > x1 || y0 > y1 {
		return errWindowOrder
	}
	if err := d.execute(command{ins: columnAddress, args: window16(x0, x1)}); err != nil {
		return err
	}
	return d.execute(command{ins: rowAddress, args: window16(y0, y1)})
}

// window16 lays out two window bounds as big-endian 16-bit values.
func window16(a, b int) []byte {
	return []byte{byte(a >> 8), byte(a), byte(b >> 8), byte(b)}
}

// streamColor writes n pixels of c into the current address window. Exactly n
// pixels are emitted.
func (d *Dev) streamColor(c color565.Color, n int) error {
	if err := d.link.write([]byte{byte(memoryWrite)}, false); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}
	hi, lo := c.BigEndian()
	return d.link.stream([2]byte{hi, lo}, n)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return color565.Model
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// Draw draws an image onto the display.
// The dst rectangle specifies the destination region on the display, clipped
// to the panel; sp is the source offset within src.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}

	dst = dst.Intersect(d.Bounds())
	if dst.Empty() {
		return nil
	}

	if err := d.setAddressWindow(dst.Min.X, dst.Min.Y, dst.Max.X-1, dst.Max.Y-1); err != nil {
		return err
	}
	if err := d.link.write([]byte{byte(memoryWrite)}, false); err != nil {
		return err
	}

	// Fast path: a packed RGB565 full frame transmits as-is.
	if img, ok := src.(*color565.Image); ok {
		zeroPoint := image.Point{}
		if dst == d.Bounds() && sp == zeroPoint && img.Rect == d.Bounds() {
			return d.link.write(img.Pix, true)
		}
	}

	buf := make([]byte, dst.Dx()*dst.Dy()*2)
	i := 0
	for y := 0; y < dst.Dy(); y++ {
		for x := 0; x < dst.Dx(); x++ {
			c := color565.Model.Convert(src.At(sp.X+x, sp.Y+y)).(color565.Color)
			binary.BigEndian.PutUint16(buf[i:], uint16(c))
			i += 2
		}
	}
	return d.link.write(buf, true)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
