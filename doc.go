// Package inkywhat controls a Pimoroni Inky wHAT e-paper display via SPI.
//
// The Inky wHAT is a 400×300 electrophoretic display for the Raspberry Pi,
// built around an SSD1675-class controller and sold in black/white, red and
// yellow variants. This driver implements the display.Drawer interface from
// periph.io.
//
// # Display Characteristics
//
// - 400×300 pixels, one bit per pixel on the wire
// - Black, red and yellow panel variants, each with a tuned refresh waveform
// - Full-panel refresh only; a refresh takes several seconds
// - Identification EEPROM on I2C describing the connected panel
// - Controller deep sleep after every refresh
//
// # Hardware Connection
//
// The wHAT sits directly on the Raspberry Pi 40-pin header and uses:
//
//	Panel Signal → Raspberry Pi Pin
//	MOSI         → GPIO10 (SPI0 MOSI)
//	SCLK         → GPIO11 (SPI0 SCLK)
//	CS           → GPIO8 (SPI0 CE0)
//	DC           → GPIO22
//	RESET        → GPIO27
//	BUSY         → GPIO17
//	EEPROM SDA   → GPIO2 (I2C1 SDA)
//	EEPROM SCL   → GPIO3 (I2C1 SCL)
//
// # Basic Usage
//
// Example of creating and using the display:
//
//	package main
//
//	import (
//		"image"
//
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/inkywhat"
//		"periph.io/x/devices/v3/inkywhat/canvas"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open SPI port and control pins
//		port, _ := spireg.Open("")
//		dc := gpioreg.ByName("GPIO22")
//		rst := gpioreg.ByName("GPIO27")
//		busy := gpioreg.ByName("GPIO17")
//
//		// Create device for the standard 400x300 black wHAT
//		dev, _ := inkywhat.New(port, dc, rst, busy, &inkywhat.WHAT400x300)
//		defer dev.Halt()
//
//		// Draw on the frame canvas
//		c := dev.Canvas()
//		c.Draw(canvas.Line{
//			Start: image.Point{X: 0, Y: 0},
//			End:   image.Point{X: 399, Y: 299},
//		})
//
//		// Push the frame to the panel
//		dev.Reset()
//		dev.Update()
//	}
//
// # Panel Detection
//
// Every Inky board carries an identification EEPROM at I2C address 0x50.
// DetectOpts reads it and returns the matching configuration, so one binary
// can drive any wHAT variant:
//
//	bus, _ := i2creg.Open("")
//	opts, err := inkywhat.DetectOpts(bus)
//	bus.Close()
//	if err != nil {
//		// Not a wHAT, or no EEPROM answered.
//	}
//	dev, _ := inkywhat.New(port, dc, rst, busy, opts)
//
// Panels outside the wHAT family are reported with an
// *UnsupportedVariantError carrying the variant found.
//
// # Colors
//
// The canvas package models the four ink states:
//
//	canvas.White  // paper background
//	canvas.Black  // black ink
//	canvas.Red    // red ink, red panels only
//	canvas.Yellow // yellow ink, yellow panels only
//
// Standard Go colors are converted to the nearest ink when drawn through
// the image/draw machinery.
//
// # Refresh Model
//
// E-paper holds its image without power, and the controller sleeps between
// refreshes. Every refresh is therefore a full cycle:
//
//	dev.Reset()   // wake and soft-reset the controller
//	dev.Update()  // configure, load the frame, refresh, deep sleep
//
// Update refuses to run on a controller that has not been Reset since the
// last refresh. The Draw method bundles the whole cycle behind the
// display.Drawer interface. Expect Update to block for the seconds the
// panel needs; the BUSY line paces the driver.
//
// A transport failure mid-refresh surfaces as a *ProtocolSequenceError and
// voids the controller state until the next Reset.
//
// # Datasheet
//
// For detailed register descriptions and timing information, see:
// https://cdn-learn.adafruit.com/assets/assets/000/092/748/original/SSD1675_0.pdf
//
// # Compatibility with periph.io
//
// This driver implements the display.Drawer interface from periph.io:
// https://pkg.go.dev/periph.io/x/conn/v3/display
//
// It can be used with any periph.io tool or library expecting a display.Drawer.
package inkywhat
