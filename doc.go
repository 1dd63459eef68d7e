// Package st7735 controls a ST7735 TFT LCD display via SPI or bit-banged GPIO.
//
// The ST7735 is a single-chip controller for 262K-color TFT panels; this
// driver targets the common 128×160 modules and speaks RGB565 (16-bit color).
//
// # Hardware Connection
//
// Connect the display to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCK/CLK     → SPI Clock (SCLK)
//	SDA/MOSI    → SPI Data (MOSI)
//	A0/DC       → GPIO (any available pin)
//	CS          → SPI Chip Select (or GND if always selected)
//	RESET       → Optional: GPIO for hardware reset
//
// On hosts without a usable SPI peripheral, the same signals can be driven
// from plain GPIOs instead (see NewBitBang); it is much slower but
// electrically equivalent.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/st7735"
//		"periph.io/x/devices/v3/st7735/color565"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open SPI bus
//		spiBus, _ := spireg.Open("")
//
//		// Get Data/Command GPIO pin
//		dcPin := gpioreg.ByName("GPIO25")
//
//		// Create device
//		dev, _ := st7735.NewSPI(spiBus, dcPin, nil)
//		defer dev.Halt()
//
//		dev.ClearScreen()
//		dev.FillCircle(64, 80, 20, color565.Blue)
//		dev.DrawRect(10, 10, 117, 149, color565.Red)
//	}
//
// # Using a Bit-Banged Transport
//
// When no SPI port is available, drive the clock and data lines manually:
//
//	clk := gpioreg.ByName("GPIO24")
//	mosi := gpioreg.ByName("GPIO23")
//	dc := gpioreg.ByName("GPIO25")
//
//	dev, _ := st7735.NewBitBang(clk, mosi, dc, nil)
//
// # Using a Hardware Reset Pin (Optional)
//
// If the display's RESET pin is connected to a GPIO, provide it in the Opts
// struct and the driver will toggle it before running the initialization
// script:
//
//	dev, _ := st7735.NewSPI(spiBus, dcPin, &st7735.Opts{
//		RST: gpioreg.ByName("GPIO22"),
//	})
//
// # Drawing
//
// The driver exposes raster primitives expressed directly in controller
// writes: DrawPixel, DrawLine, DrawHLine, DrawVLine, DrawRect, FillRect,
// DrawCircle, FillCircle, DrawChar, DrawText, FillScreen and ClearScreen.
// There is no frame buffer; every call is transmitted immediately.
//
// Filled rectangles (and FillScreen) set the controller's address window once
// and stream the pixel run in a single transfer, so their cost is dominated
// by bandwidth, not protocol overhead.
//
// # Colors
//
// Colors are 16-bit RGB565 values from the color565 subpackage:
//
//	red := color565.Red
//	teal := color565.FromRGB(0, 50, 20) // 5/6/5-bit components
//	raw := color565.FromHex(0x07E0)
//
// # Text
//
// Glyphs come from a caller-supplied Font capability that maps a rune to a
// 5-column, 7-row bitmap. Note that glyphs render mirrored relative to
// conventional reading order: columns extend toward decreasing x and rows
// toward decreasing y from the anchor point.
//
// # Compatibility with periph.io
//
// Dev implements the display.Drawer interface from periph.io, so any
// image.Image can be pushed to the panel with Draw. A *color565.Image that
// covers the full panel is transmitted without conversion.
//
// # Datasheet
//
// https://www.displayfuture.com/Display/datasheet/controller/ST7735.pdf
package st7735
