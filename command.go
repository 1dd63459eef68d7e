package st7735

import "time"

// instruction is a one-byte ST7735 opcode.
type instruction byte

// ST7735 instruction set. The byte values come from the ST7735 datasheet and
// must not change.
const (
	nop           instruction = 0x00
	softwareRst   instruction = 0x01
	readID        instruction = 0x04
	readStatus    instruction = 0x09
	sleepIn       instruction = 0x10
	sleepOut      instruction = 0x11
	partialOn     instruction = 0x12
	normalOn      instruction = 0x13
	inverseOff    instruction = 0x20
	inverseOn     instruction = 0x21
	displayOff    instruction = 0x28
	displayOn     instruction = 0x29
	columnAddress instruction = 0x2A
	rowAddress    instruction = 0x2B
	memoryWrite   instruction = 0x2C
	memoryRead    instruction = 0x2E
	partialArea   instruction = 0x30
	memoryDAC     instruction = 0x36
	pixelFormat   instruction = 0x3A

	// Frame rate control
	frameControl1 instruction = 0xB1
	frameControl2 instruction = 0xB2
	frameControl3 instruction = 0xB3

	invControl  instruction = 0xB4
	displaySet5 instruction = 0xB6

	// Power control
	powerControl1 instruction = 0xC0
	powerControl2 instruction = 0xC1
	powerControl3 instruction = 0xC2
	powerControl4 instruction = 0xC3
	powerControl5 instruction = 0xC4
	vmControl1    instruction = 0xC5

	readID1       instruction = 0xDA
	readID2       instruction = 0xDB
	readID3       instruction = 0xDC
	readID4       instruction = 0xDD
	powerControl6 instruction = 0xFC

	// Gamma control
	gammaControlPositive instruction = 0xE0
	gammaControlNegative instruction = 0xE1
)

// command is one atomic exchange with the controller: an opcode followed by
// either its argument bytes or a settle pause.
type command struct {
	ins  instruction
	args []byte

	// delay is the settle pause issued instead of transmitting args. It is
	// honored only when args is non-empty; a command carrying a delay and no
	// arguments neither sleeps nor sends data.
	delay time.Duration
}

// execute writes the command's opcode, then exactly one of: the settle pause,
// or the argument bytes in order.
func (d *Dev) execute(cmd command) error {
	if err := d.link.write([]byte{byte(cmd.ins)}, false); err != nil {
		return err
	}
	if cmd.delay > 0 {
		if len(cmd.args) > 0 {
			d.sleep(cmd.delay)
		}
		return nil
	}
	if len(cmd.args) > 0 {
		return d.link.write(cmd.args, true)
	}
	return nil
}

// Orientation selects the controller's memory access (scan) direction.
// It is controller-resident state: it persists until the next MADCTL command
// and is not cached by the driver.
type Orientation byte

// MADCTL argument bytes for the four panel orientations.
const (
	Portrait         Orientation = 0x00
	Landscape        Orientation = 0x60
	PortraitSwapped  Orientation = 0xC0
	LandscapeSwapped Orientation = 0xA0
)

// initSequence is the power-on script. The order and byte values must match
// the panel exactly for hardware compatibility.
var initSequence = []command{
	{ins: softwareRst, delay: 200 * time.Millisecond},
	{ins: sleepOut, delay: 200 * time.Millisecond},
	{ins: pixelFormat, args: []byte{0x05}}, // 16-bit color
	{ins: frameControl1, args: []byte{0x01, 0x2C, 0x2D}},
	{ins: frameControl2, args: []byte{0x01, 0x2C, 0x2D}},
	{ins: frameControl3, args: []byte{0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D}},
	{ins: invControl, args: []byte{0x07}},
	{ins: powerControl1, args: []byte{0xA2, 0x02, 0x84}},
	{ins: powerControl2, args: []byte{0xC5}},
	{ins: powerControl3, args: []byte{0x0A, 0x00}},
	{ins: powerControl4, args: []byte{0x8A, 0x2A}},
	{ins: powerControl5, args: []byte{0x8A, 0xEE}},
	{ins: vmControl1, args: []byte{0x0E}},
	{ins: inverseOff},
	{ins: memoryDAC, args: []byte{byte(Portrait)}},
	{ins: displayOn},
}
