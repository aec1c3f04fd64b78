// Package eeprom reads and decodes the identification EEPROM fitted
// to Pimoroni Inky e-paper boards.
//
// The EEPROM sits at I2C address 0x50 and holds a 29 byte record laid
// out as follows:
//
//	offset  size  field
//	0       2     panel width, little endian
//	2       2     panel height, little endian
//	4       1     ink color
//	5       1     PCB variant
//	6       1     display variant
//	7       22    write time, length-prefixed string
//
// Unprogrammed bytes of the write-time field read back as 0xFF and
// are filtered out, wherever they sit, before the string is
// interpreted.
package eeprom

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// Addr is the I2C address of the identification EEPROM.
const Addr uint16 = 0x50

// DefaultTries is how often Detect retries a flaky read before giving
// up.
const DefaultTries = 10

const (
	recordLen = 29
	sentinel  = 0xFF
)

// Color identifies the ink set a panel was manufactured with.
type Color uint8

// Ink sets.
const (
	Black      Color = 1
	Red        Color = 2
	Yellow     Color = 3
	SevenColor Color = 5
)

func (c Color) valid() bool {
	switch c {
	case Black, Red, Yellow, SevenColor:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case SevenColor:
		return "7-colour"
	default:
		return fmt.Sprintf("unknown color %d", uint8(c))
	}
}

// PCBVariant identifies the board revision, scaled by ten: revision
// 1.2 is stored as 12.
type PCBVariant uint8

// Known board revisions.
const (
	PCB12 PCBVariant = 12
)

func (p PCBVariant) valid() bool {
	return p == PCB12
}

// String implements fmt.Stringer.
func (p PCBVariant) String() string {
	return fmt.Sprintf("%d.%d", p/10, p%10)
}

// DisplayVariant is the raw panel code from the EEPROM. Several codes
// share one controller family; Model folds them down.
type DisplayVariant uint8

var displayVariantName = map[DisplayVariant]string{
	1:  "Red pHAT (High-Temp)",
	2:  "Yellow wHAT",
	3:  "Black wHAT",
	4:  "Black pHAT",
	5:  "Yellow pHAT",
	6:  "Red wHAT",
	7:  "Red wHAT (High-Temp)",
	8:  "Red wHAT",
	10: "Black pHAT (SSD1608)",
	11: "Red pHAT (SSD1608)",
	12: "Yellow pHAT (SSD1608)",
	14: "7-Colour (UC8159)",
	15: "7-Colour 640x400 (UC8159)",
	16: "7-Colour 640x400 (UC8159)",
	17: "Black wHAT (SSD1683)",
	18: "Red wHAT (SSD1683)",
	19: "Yellow wHAT (SSD1683)",
	20: "7-Colour 800x480 (AC073TC1A)",
}

// String returns the marketing name for the panel code.
func (d DisplayVariant) String() string {
	if name, ok := displayVariantName[d]; ok {
		return name
	}
	return fmt.Sprintf("unknown variant %d", uint8(d))
}

// Model returns the controller family for the panel code, or
// ModelUnknown for a code outside the known set.
func (d DisplayVariant) Model() Model {
	switch d {
	case 1, 4, 5:
		return PHAT
	case 10, 11, 12:
		return PHAT2
	case 2, 3, 6, 7, 8:
		return WHAT
	case 17, 18, 19:
		return WHAT2
	case 14:
		return IMPRESSION57
	case 15, 16:
		return IMPRESSION4
	case 20:
		return IMPRESSION73
	default:
		return ModelUnknown
	}
}

// Model is the controller family a panel code belongs to.
type Model int

// Controller families.
const (
	ModelUnknown Model = iota
	PHAT
	PHAT2
	WHAT
	WHAT2
	IMPRESSION57
	IMPRESSION4
	IMPRESSION73
)

// String implements fmt.Stringer.
func (m Model) String() string {
	switch m {
	case PHAT:
		return "pHAT"
	case PHAT2:
		return "pHAT (SSD1608)"
	case WHAT:
		return "wHAT"
	case WHAT2:
		return "wHAT (SSD1683)"
	case IMPRESSION57:
		return "Impression 5.7"
	case IMPRESSION4:
		return "Impression 4"
	case IMPRESSION73:
		return "Impression 7.3"
	default:
		return "unknown model"
	}
}

// PascalString is a length-prefixed string as stored in the EEPROM:
// one length byte followed by the payload. Its capacity counts the
// length byte itself, so a PascalString of capacity n holds at most
// n-1 payload bytes.
type PascalString struct {
	capacity byte
	data     []byte
}

// NewPascalString returns a PascalString holding s with the smallest
// capacity that fits it. Strings beyond 254 bytes are truncated, the
// longest payload a single length byte can describe.
func NewPascalString(s string) PascalString {
	if len(s) > 254 {
		s = s[:254]
	}
	return PascalString{capacity: byte(len(s) + 1), data: []byte(s)}
}

// parsePascalString interprets b as a length byte followed by payload.
// Payload beyond the declared length is dropped and a short slice
// yields a short string; parsing never fails. An empty slice is the
// empty string.
func parsePascalString(b []byte) PascalString {
	if len(b) == 0 {
		return PascalString{}
	}
	data := b[1:]
	if n := int(b[0]); n < len(data) {
		data = data[:n]
	}
	return PascalString{
		capacity: b[0] + 1,
		data:     append([]byte(nil), data...),
	}
}

// Capacity returns the declared capacity, including the length byte.
func (p PascalString) Capacity() int {
	return int(p.capacity)
}

// Bytes returns the payload.
func (p PascalString) Bytes() []byte {
	return p.data
}

// String implements fmt.Stringer.
func (p PascalString) String() string {
	return string(p.data)
}

func (p PascalString) encode() []byte {
	if p.capacity == 0 {
		return nil
	}
	out := make([]byte, 0, 1+len(p.data))
	out = append(out, p.capacity-1)
	return append(out, p.data...)
}

// DecodeError reports a record field holding a value outside its
// known set.
type DecodeError struct {
	Field string
	Value byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("eeprom: invalid %s value %d", e.Field, e.Value)
}

// Record is a decoded identification record.
type Record struct {
	Width          uint16
	Height         uint16
	Color          Color
	PCBVariant     PCBVariant
	DisplayVariant DisplayVariant
	WriteTime      PascalString
}

// String implements fmt.Stringer.
func (r *Record) String() string {
	return fmt.Sprintf("%s %dx%d (pcb %s)", r.DisplayVariant, r.Width, r.Height, r.PCBVariant)
}

// Decode parses the first 29 bytes of b into a Record. A field value
// outside its known set yields a *DecodeError and no record.
func Decode(b []byte) (*Record, error) {
	if len(b) < recordLen {
		return nil, fmt.Errorf("eeprom: record too short: got %d bytes, want %d", len(b), recordLen)
	}
	r := &Record{
		Width:          binary.LittleEndian.Uint16(b[0:2]),
		Height:         binary.LittleEndian.Uint16(b[2:4]),
		Color:          Color(b[4]),
		PCBVariant:     PCBVariant(b[5]),
		DisplayVariant: DisplayVariant(b[6]),
	}
	if !r.Color.valid() {
		return nil, &DecodeError{Field: "color", Value: b[4]}
	}
	if !r.PCBVariant.valid() {
		return nil, &DecodeError{Field: "pcb variant", Value: b[5]}
	}
	if r.DisplayVariant.Model() == ModelUnknown {
		return nil, &DecodeError{Field: "display variant", Value: b[6]}
	}
	// Unprogrammed cells read back as the sentinel and can sit anywhere
	// in the write-time region, not only at its tail.
	wt := make([]byte, 0, recordLen-7)
	for _, v := range b[7:recordLen] {
		if v != sentinel {
			wt = append(wt, v)
		}
	}
	r.WriteTime = parsePascalString(wt)
	return r, nil
}

// Encode serializes r to the wire format, padded with sentinel bytes
// to the full record length, so Decode(Encode(r)) reproduces r. A
// write time too long for its 22 byte field is truncated.
func (r *Record) Encode() []byte {
	out := make([]byte, 0, recordLen)
	out = binary.LittleEndian.AppendUint16(out, r.Width)
	out = binary.LittleEndian.AppendUint16(out, r.Height)
	out = append(out, byte(r.Color), byte(r.PCBVariant), byte(r.DisplayVariant))
	wt := r.WriteTime.encode()
	if len(wt) > recordLen-7 {
		wt = wt[:recordLen-7]
	}
	out = append(out, wt...)
	for len(out) < recordLen {
		out = append(out, sentinel)
	}
	return out
}

// writeTimeLayout is the timestamp format the Pimoroni flashing tool
// stores, with an optional fractional second.
const writeTimeLayout = "2006-01-02 15:04:05"

// WrittenAt parses the write-time field as a timestamp. A record with
// a malformed write time is otherwise intact, so the failure is
// reported here rather than by Decode.
func (r *Record) WrittenAt() (time.Time, error) {
	t, err := time.Parse(writeTimeLayout, r.WriteTime.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("eeprom: invalid write time %q: %w", r.WriteTime.String(), err)
	}
	return t, nil
}

// Detect reads and decodes the identification record from the EEPROM
// on bus, retrying flaky reads up to DefaultTries times.
func Detect(bus i2c.Bus) (*Record, error) {
	return DetectTries(bus, DefaultTries)
}

// DetectTries is Detect with a caller-chosen retry budget. Transport
// errors, short reads and undecodable records all consume a try;
// attempts are spaced 100ms apart.
func DetectTries(bus i2c.Bus, maxTries int) (*Record, error) {
	if maxTries < 1 {
		return nil, errors.New("eeprom: tries must be positive")
	}
	var lastErr error
	for try := 0; try < maxTries; try++ {
		if try > 0 {
			time.Sleep(100 * time.Millisecond)
		}
		buf := make([]byte, recordLen)
		if err := bus.Tx(Addr, []byte{0x00, 0x00}, buf); err != nil {
			lastErr = fmt.Errorf("eeprom: failed to read record: %w", err)
			continue
		}
		r, err := Decode(buf)
		if err != nil {
			lastErr = err
			continue
		}
		return r, nil
	}
	return nil, fmt.Errorf("eeprom: failed to read identity record in %d tries: %w", maxTries, lastErr)
}
