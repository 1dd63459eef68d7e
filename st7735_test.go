package st7735

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"periph.io/x/devices/v3/st7735/color565"
)

var errTest = errors.New("transport broke")

func TestSPILinkWrite(t *testing.T) {
	rec := &conntest.Record{}
	dc := &gpiotest.Pin{N: "DC"}
	l := &spiLink{c: rec, dc: dc, maxTxSize: 4096}

	if err := l.write([]byte{0x2C}, false); err != nil {
		t.Fatal(err)
	}
	if dc.L != gpio.Low {
		t.Error("D/C should be low for a command")
	}

	if err := l.write([]byte{0xAA, 0xBB}, true); err != nil {
		t.Fatal(err)
	}
	if dc.L != gpio.High {
		t.Error("D/C should be high for data")
	}

	if len(rec.Ops) != 2 {
		t.Fatalf("got %d transactions, want 2", len(rec.Ops))
	}
	if !bytes.Equal(rec.Ops[0].W, []byte{0x2C}) {
		t.Errorf("transaction 0 = % X, want 2C", rec.Ops[0].W)
	}
	if !bytes.Equal(rec.Ops[1].W, []byte{0xAA, 0xBB}) {
		t.Errorf("transaction 1 = % X, want AA BB", rec.Ops[1].W)
	}
}

func TestSPILinkWriteChunks(t *testing.T) {
	rec := &conntest.Record{}
	l := &spiLink{c: rec, dc: &gpiotest.Pin{N: "DC"}, maxTxSize: 4}

	if err := l.write(make([]byte, 10), true); err != nil {
		t.Fatal(err)
	}

	want := []int{4, 4, 2}
	if len(rec.Ops) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(rec.Ops), len(want))
	}
	for i, n := range want {
		if len(rec.Ops[i].W) != n {
			t.Errorf("transaction %d has %d bytes, want %d", i, len(rec.Ops[i].W), n)
		}
	}
}

func TestSPILinkStreamSingleTransfer(t *testing.T) {
	rec := &conntest.Record{}
	l := &spiLink{c: rec, dc: &gpiotest.Pin{N: "DC"}, maxTxSize: 4096}

	if err := l.stream([2]byte{0xF8, 0x00}, 3); err != nil {
		t.Fatal(err)
	}

	if len(rec.Ops) != 1 {
		t.Fatalf("got %d transactions, want one concatenated buffer", len(rec.Ops))
	}
	if !bytes.Equal(rec.Ops[0].W, []byte{0xF8, 0x00, 0xF8, 0x00, 0xF8, 0x00}) {
		t.Errorf("buffer = % X", rec.Ops[0].W)
	}
}

// bitRecorder reassembles the byte stream from the clock and data-out lines.
// A bit is sampled on every rising clock edge.
type bitRecorder struct {
	mosi gpio.Level
	bits []gpio.Level
}

func (r *bitRecorder) bytes() []byte {
	var out []byte
	for i := 0; i+7 < len(r.bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if r.bits[i+j] {
				b |= 1
			}
		}
		out = append(out, b)
	}
	return out
}

type mosiPin struct {
	gpiotest.Pin
	rec *bitRecorder
}

func (p *mosiPin) Out(l gpio.Level) error {
	p.rec.mosi = l
	return p.Pin.Out(l)
}

type clkPin struct {
	gpiotest.Pin
	rec *bitRecorder
}

func (p *clkPin) Out(l gpio.Level) error {
	if l == gpio.High {
		p.rec.bits = append(p.rec.bits, p.rec.mosi)
	}
	return p.Pin.Out(l)
}

func bitBangHarness() (*bitBangLink, *bitRecorder, *gpiotest.Pin) {
	rec := &bitRecorder{}
	dc := &gpiotest.Pin{N: "DC"}
	l := &bitBangLink{
		clk:  &clkPin{Pin: gpiotest.Pin{N: "CLK"}, rec: rec},
		mosi: &mosiPin{Pin: gpiotest.Pin{N: "MOSI"}, rec: rec},
		dc:   dc,
	}
	return l, rec, dc
}

func TestBitBangWriteFraming(t *testing.T) {
	l, rec, dc := bitBangHarness()

	if err := l.write([]byte{0xA5, 0x01}, true); err != nil {
		t.Fatal(err)
	}

	if dc.L != gpio.High {
		t.Error("D/C should be high for data")
	}
	if len(rec.bits) != 16 {
		t.Fatalf("clocked %d bits, want 16", len(rec.bits))
	}
	// MSB first.
	if got := rec.bytes(); !bytes.Equal(got, []byte{0xA5, 0x01}) {
		t.Errorf("reassembled % X, want A5 01", got)
	}
}

func TestBitBangCommandLevel(t *testing.T) {
	l, rec, dc := bitBangHarness()

	if err := l.write([]byte{0x2C}, false); err != nil {
		t.Fatal(err)
	}
	if dc.L != gpio.Low {
		t.Error("D/C should be low for a command")
	}
	if got := rec.bytes(); !bytes.Equal(got, []byte{0x2C}) {
		t.Errorf("reassembled % X, want 2C", got)
	}
}

func TestBitBangStreamPerPixel(t *testing.T) {
	l, rec, _ := bitBangHarness()

	if err := l.stream([2]byte{0x07, 0xE0}, 4); err != nil {
		t.Fatal(err)
	}

	if got := rec.bytes(); !bytes.Equal(got, []byte{0x07, 0xE0, 0x07, 0xE0, 0x07, 0xE0, 0x07, 0xE0}) {
		t.Errorf("reassembled % X", got)
	}
}

func TestNewSPIValidation(t *testing.T) {
	if _, err := NewSPI(nil, &gpiotest.Pin{N: "DC"}, nil); err == nil {
		t.Error("nil port should be rejected")
	}
}

func TestNewBitBangValidation(t *testing.T) {
	clk := &gpiotest.Pin{N: "CLK"}
	mosi := &gpiotest.Pin{N: "MOSI"}
	dc := &gpiotest.Pin{N: "DC"}

	if _, err := NewBitBang(nil, mosi, dc, nil); err == nil {
		t.Error("nil clock pin should be rejected")
	}
	if _, err := NewBitBang(clk, nil, dc, nil); err == nil {
		t.Error("nil data out pin should be rejected")
	}
	if _, err := NewBitBang(clk, mosi, nil, nil); err == nil {
		t.Error("nil data/command pin should be rejected")
	}
}

func TestNewBitBang(t *testing.T) {
	// End to end over fake pins: construction runs the full init script.
	rec := &bitRecorder{}
	clk := &clkPin{Pin: gpiotest.Pin{N: "CLK"}, rec: rec}
	mosi := &mosiPin{Pin: gpiotest.Pin{N: "MOSI"}, rec: rec}
	dc := &gpiotest.Pin{N: "DC"}

	d, err := NewBitBang(clk, mosi, dc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d == nil {
		t.Fatal("nil device")
	}

	stream := rec.bytes()
	if len(stream) == 0 {
		t.Fatal("no bytes clocked out during init")
	}
	// The script starts with SWRESET and ends with DISPON.
	if stream[0] != 0x01 {
		t.Errorf("first byte 0x%02X, want SWRESET (0x01)", stream[0])
	}
	if stream[len(stream)-1] != 0x29 {
		t.Errorf("last byte 0x%02X, want DISPON (0x29)", stream[len(stream)-1])
	}
}

func TestHardReset(t *testing.T) {
	rst := &gpiotest.Pin{N: "RST"}
	d, _, slept := testDev()
	d.rst = rst

	if err := d.HardReset(); err != nil {
		t.Fatal(err)
	}
	if rst.L != gpio.Low {
		t.Error("RST should end low")
	}
	if len(*slept) != 2 || (*slept)[0] != 50*time.Millisecond {
		t.Errorf("slept %v, want two 50ms settles", *slept)
	}
}

func TestHardResetWithoutPin(t *testing.T) {
	d, _, _ := testDev()
	if err := d.HardReset(); err == nil {
		t.Error("HardReset without a reset pin should fail")
	}
}

func TestString(t *testing.T) {
	d, _, _ := testDev()
	if got, want := d.String(), "st7735.Dev{128x160}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBounds(t *testing.T) {
	d, _, _ := testDev()
	if got, want := d.Bounds(), image.Rect(0, 0, 128, 160); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestColorModel(t *testing.T) {
	d, _, _ := testDev()
	if d.ColorModel() != color565.Model {
		t.Error("ColorModel() did not return color565.Model")
	}
}

func TestDrawFullFrameFastPath(t *testing.T) {
	d, f, _ := testDev()
	img := color565.New(d.Bounds())
	img.SetRGB565(5, 5, color565.Red)

	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}

	// Window + memory write + one transfer of the raw frame.
	last := f.ops[len(f.ops)-1]
	if !last.data || len(last.p) != Width*Height*2 {
		t.Fatalf("final op = data:%t len:%d, want a %d-byte frame", last.data, len(last.p), Width*Height*2)
	}
	if !bytes.Equal(last.p, img.Pix) {
		t.Error("frame bytes should be transmitted verbatim")
	}
}

func TestDrawConverts(t *testing.T) {
	d, f, _ := testDev()
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.White)

	if err := d.Draw(image.Rect(0, 0, 2, 2), src, image.Point{}); err != nil {
		t.Fatal(err)
	}

	last := f.ops[len(f.ops)-1]
	if !last.data || len(last.p) != 8 {
		t.Fatalf("final op = data:%t len:%d, want 8 bytes of pixels", last.data, len(last.p))
	}
	if last.p[0] != 0xFF || last.p[1] != 0xFF {
		t.Errorf("pixel (0,0) = % X, want FF FF (white)", last.p[:2])
	}
	if last.p[2] != 0x00 || last.p[3] != 0x00 {
		t.Errorf("pixel (1,0) = % X, want 00 00 (black)", last.p[2:4])
	}
}

func TestDrawClipped(t *testing.T) {
	d, f, _ := testDev()
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))

	// Entirely outside the panel: nothing is transmitted.
	if err := d.Draw(image.Rect(200, 200, 204, 204), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(f.ops) != 0 {
		t.Errorf("got %d ops for an off-panel draw, want 0", len(f.ops))
	}
}
