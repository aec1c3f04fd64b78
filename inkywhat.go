package inkywhat

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/inkywhat/canvas"
	"periph.io/x/devices/v3/inkywhat/eeprom"
)

// Opts is the configuration for an Inky wHAT panel.
type Opts struct {
	// Display dimensions in pixels
	Width  int // Must be a positive multiple of 8, at most 2048
	Height int // Must fit the controller's 16-bit gate count

	// ModelColor selects the default waveform table: canvas.Red and
	// canvas.Yellow pick their tuned tables, everything else the
	// black/white one.
	ModelColor canvas.Color

	// Board identity as read from the EEPROM, informational
	PCBVariant     eeprom.PCBVariant
	DisplayVariant eeprom.DisplayVariant

	// LUT overrides the waveform table. Must be 70 bytes when set.
	LUT LUT

	// BusyTimeout bounds each wait on the BUSY line. Zero or
	// negative waits forever, the controller's own behavior.
	BusyTimeout time.Duration
}

// WHAT400x300 is the standard 400x300 black wHAT, the panel this
// driver is written against.
var WHAT400x300 = Opts{
	Width:          400,
	Height:         300,
	ModelColor:     canvas.Black,
	PCBVariant:     eeprom.PCB12,
	DisplayVariant: 3,
}

// validate checks opts against the controller's addressing limits.
func (o *Opts) validate() error {
	if o.Width <= 0 || o.Width%8 != 0 {
		return fmt.Errorf("inkywhat: width must be a positive multiple of 8, got %d", o.Width)
	}
	// The RAM X window end is a single byte counting 8-pixel columns.
	if o.Width > 2048 {
		return fmt.Errorf("inkywhat: width must be at most 2048, got %d", o.Width)
	}
	if o.Height <= 0 || o.Height > 0xFFFF {
		return fmt.Errorf("inkywhat: height must be between 1 and 65535, got %d", o.Height)
	}
	if o.LUT != nil && len(o.LUT) != lutLen {
		return fmt.Errorf("inkywhat: LUT must be %d bytes, got %d", lutLen, len(o.LUT))
	}
	return nil
}

// DetectOpts reads the identification EEPROM on bus and returns the
// Opts matching the panel found there. Panels outside the wHAT family
// yield an *UnsupportedVariantError.
func DetectOpts(bus i2c.Bus) (*Opts, error) {
	rec, err := eeprom.Detect(bus)
	if err != nil {
		return nil, fmt.Errorf("inkywhat: failed to detect panel: %w", err)
	}
	if rec.DisplayVariant.Model() != eeprom.WHAT {
		return nil, &UnsupportedVariantError{Variant: rec.DisplayVariant}
	}

	opts := &Opts{
		Width:          int(rec.Width),
		Height:         int(rec.Height),
		PCBVariant:     rec.PCBVariant,
		DisplayVariant: rec.DisplayVariant,
	}
	switch rec.Color {
	case eeprom.Black:
		opts.ModelColor = canvas.Black
	case eeprom.Red:
		opts.ModelColor = canvas.Red
	case eeprom.Yellow:
		opts.ModelColor = canvas.Yellow
	default:
		return nil, fmt.Errorf("inkywhat: no waveform for %s panels", rec.Color)
	}
	// An EEPROM can claim any u16 geometry; reject what the
	// controller cannot address rather than forward it.
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// UnsupportedVariantError reports an EEPROM that identifies a panel
// this driver cannot drive.
type UnsupportedVariantError struct {
	Variant eeprom.DisplayVariant
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("inkywhat: unsupported panel %s (variant %d)", e.Variant, uint8(e.Variant))
}

// ProtocolSequenceError reports a refresh that failed partway. The
// controller is left in an undefined state and needs a Reset before
// the next Update.
type ProtocolSequenceError struct {
	// Cmd is the command being issued when the failure hit.
	Cmd byte
	Err error
}

func (e *ProtocolSequenceError) Error() string {
	return fmt.Sprintf("inkywhat: refresh failed at command 0x%02X: %v", e.Cmd, e.Err)
}

func (e *ProtocolSequenceError) Unwrap() error {
	return e.Err
}

// state tracks where the controller is in its refresh lifecycle.
type state uint8

const (
	stateUninitialized state = iota
	stateReset
	stateConfiguring
	stateBufferLoaded
	stateUpdating
	stateSleeping
)

func (s state) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateReset:
		return "reset"
	case stateConfiguring:
		return "configuring"
	case stateBufferLoaded:
		return "buffer loaded"
	case stateUpdating:
		return "updating"
	case stateSleeping:
		return "sleeping"
	default:
		return "invalid"
	}
}

// Dev is the device handle for an Inky wHAT panel.
type Dev struct {
	// Communication
	c    conn.Conn   // SPI connection
	dc   gpio.PinOut // Data/Command pin
	rst  gpio.PinOut // Reset pin
	busy gpio.PinIn  // Busy pin, falling edge means idle

	// Display geometry and frame
	rect   image.Rectangle
	canvas *canvas.Canvas

	// Refresh tuning
	lut         LUT
	busyTimeout time.Duration

	// State
	mu     sync.Mutex
	state  state
	halted bool
}

var _ display.Drawer = &Dev{}

// New opens a handle to the panel controller connected via SPI.
//
// The SPI port is configured for 488kHz, Mode0, 8-bit transfers. The
// busy pin is armed for falling-edge waits. No traffic reaches the
// panel until Reset; the controller starts out uninitialized.
//
// opts can be nil to drive the standard 400x300 black wHAT.
func New(p spi.Port, dc, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	// Apply defaults and validate options
	if opts == nil {
		opts = &WHAT400x300
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	// Establish SPI connection. The controller tops out well below
	// 1MHz, unlike most SSD-series parts.
	c, err := p.Connect(488*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	// Pin setup: BUSY falls when the controller goes idle, DC idles
	// low, RST idles high.
	if err := busy.In(gpio.Float, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("inkywhat: failed to configure BUSY pin: %w", err)
	}
	if err := dc.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("inkywhat: failed to initialize DC pin: %w", err)
	}
	if err := rst.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("inkywhat: failed to initialize RST pin: %w", err)
	}

	lut := opts.LUT
	if lut == nil {
		switch opts.ModelColor {
		case canvas.Red:
			lut = LUTRed
		case canvas.Yellow:
			lut = LUTYellow
		default:
			lut = LUTBlack
		}
	}

	timeout := opts.BusyTimeout
	if timeout <= 0 {
		timeout = -1
	}

	return &Dev{
		c:           c,
		dc:          dc,
		rst:         rst,
		busy:        busy,
		rect:        image.Rect(0, 0, opts.Width, opts.Height),
		canvas:      canvas.New(opts.Width, opts.Height),
		lut:         lut,
		busyTimeout: timeout,
	}, nil
}

// Canvas returns the frame the next Update pushes to the panel.
// Mutating it is how shapes land on screen.
func (d *Dev) Canvas() *canvas.Canvas {
	return d.canvas
}

// Reset pulses the RST line and soft-resets the controller, leaving
// it ready for Update. It is the only way into that state, both after
// New and after a failed refresh.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reset()
}

func (d *Dev) reset() error {
	if d.halted {
		return errors.New("inkywhat: halted")
	}
	d.state = stateUninitialized

	// Hardware reset pulse
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("inkywhat: failed to pull RST low: %w", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("inkywhat: failed to pull RST high: %w", err)
	}
	time.Sleep(100 * time.Millisecond)

	// Soft reset, then wait for the controller to settle
	if err := d.sendPacket(command(softReset)); err != nil {
		return fmt.Errorf("inkywhat: soft reset failed: %w", err)
	}
	if err := d.waitUntilIdle(); err != nil {
		return err
	}

	d.state = stateReset
	return nil
}

// Update pushes the frame to the panel: full configuration, buffer
// load, refresh, then deep sleep. The controller must have been Reset
// first, and sleeps afterwards, so every Update needs its own Reset.
// A refresh takes several seconds of panel time.
func (d *Dev) Update() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.update()
}

func (d *Dev) update() error {
	if d.halted {
		return errors.New("inkywhat: halted")
	}
	if d.state != stateReset {
		return fmt.Errorf("inkywhat: controller is %s; call Reset before Update", d.state)
	}
	if err := d.configure(); err != nil {
		return err
	}
	if err := d.loadFrame(); err != nil {
		return err
	}
	if err := d.refresh(); err != nil {
		return err
	}
	d.state = stateSleeping
	return nil
}

// configure programs geometry, voltages, timings and the waveform
// table, and homes the RAM pointers.
func (d *Dev) configure() error {
	d.state = stateConfiguring
	w, h := d.rect.Dx(), d.rect.Dy()
	return d.sendSequence([]packet{
		command(setAnalogBlockControl, analogBlockEnable),
		command(setDigitalBlockControl, digitalBlockEnable),
		command(gateSetting, byte(h), byte(h>>8), 0x00),
		command(gateDrivingVoltage, gateVoltage),
		command(sourceDrivingVoltage, sourceVSH1, sourceVSH2, sourceVSL),
		command(dummyLinePeriod, dummyLine),
		command(gateLineWidth, gateWidth),
		command(dataEntryMode, dataEntryIncXY),
		command(vcomRegister, vcomValue),
		command(gsTransition, borderWhite),
		command(setLUT, d.lut...),
		command(setRAMXStartEnd, 0x00, byte(w/8-1)),
		command(setRAMYStartEnd, 0x00, 0x00, byte(h), byte(h>>8)),
		command(setRAMXPointer, 0x00),
		command(setRAMYPointer, 0x00, 0x00),
	})
}

// loadFrame streams the packed canvas into the black/white RAM.
func (d *Dev) loadFrame() error {
	if err := d.sendSequence([]packet{
		command(setBWBuffer, d.canvas.Pack()...),
	}); err != nil {
		return err
	}
	d.state = stateBufferLoaded
	return nil
}

// refresh triggers the panel update, waits it out and puts the
// controller to sleep.
func (d *Dev) refresh() error {
	if err := d.sendSequence([]packet{
		command(displayUpdateSequence, updateSequenceFull),
		command(triggerDisplayUpdate),
	}); err != nil {
		return err
	}
	d.state = stateUpdating

	// Give BUSY time to assert before arming the wait.
	time.Sleep(50 * time.Millisecond)
	if err := d.waitUntilIdle(); err != nil {
		d.state = stateUninitialized
		return &ProtocolSequenceError{Cmd: triggerDisplayUpdate, Err: err}
	}

	return d.sendSequence([]packet{
		command(enterDeepSleep, deepSleepMode),
	})
}

// sendSequence transmits packets in order, halting at the first
// failure. A failure voids the controller state: the caller's caller
// must Reset before trying again.
func (d *Dev) sendSequence(seq []packet) error {
	for _, pkt := range seq {
		if err := d.sendPacket(pkt); err != nil {
			d.state = stateUninitialized
			return &ProtocolSequenceError{Cmd: pkt.cmd, Err: err}
		}
	}
	return nil
}

// sendPacket latches the command byte with DC low, then streams its
// data with DC high in bursts the transport can absorb.
func (d *Dev) sendPacket(pkt packet) error {
	if pkt.hasCmd {
		if err := d.dc.Out(gpio.Low); err != nil {
			return fmt.Errorf("inkywhat: failed to pull DC low: %w", err)
		}
		if err := d.c.Tx([]byte{pkt.cmd}, nil); err != nil {
			return fmt.Errorf("inkywhat: failed to send command 0x%02X: %w", pkt.cmd, err)
		}
	}
	if len(pkt.data) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("inkywhat: failed to pull DC high: %w", err)
	}
	for off := 0; off < len(pkt.data); off += maxTransfer {
		end := min(off+maxTransfer, len(pkt.data))
		if err := d.c.Tx(pkt.data[off:end], nil); err != nil {
			return fmt.Errorf("inkywhat: failed to send data for command 0x%02X: %w", pkt.cmd, err)
		}
	}
	return nil
}

// waitUntilIdle blocks until the BUSY line falls, or busyTimeout
// elapses.
func (d *Dev) waitUntilIdle() error {
	if !d.busy.WaitForEdge(d.busyTimeout) {
		return fmt.Errorf("inkywhat: timeout after %s waiting for BUSY to clear", d.busyTimeout)
	}
	return nil
}

// ColorModel returns the color model of the panel.
func (d *Dev) ColorModel() color.Model {
	return canvas.Model
}

// Bounds returns the image bounds of the panel.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw composites src into the frame and runs a full Reset and Update
// cycle, so one Draw is one complete panel refresh. Expect it to block
// for the seconds the panel needs.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return errors.New("inkywhat: halted")
	}

	// Clip to panel bounds
	dstRect = dstRect.Intersect(d.rect)
	if dstRect.Empty() {
		return nil
	}
	draw.Draw(d.canvas, dstRect, src, sp, draw.Src)

	if err := d.reset(); err != nil {
		return err
	}
	return d.update()
}

// Halt puts the controller into deep sleep. After calling Halt the
// device refuses further operations; open a new handle to resume.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return nil
	}
	d.halted = true

	// Already asleep, or in no state to accept commands.
	if d.state == stateUninitialized || d.state == stateSleeping {
		return nil
	}
	return d.sendPacket(command(enterDeepSleep, deepSleepMode))
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("inkywhat.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}
