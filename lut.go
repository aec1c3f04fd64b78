package inkywhat

// LUT is a waveform lookup table for the controller's 70 byte LUT
// register: five rows of seven voltage-selection bytes, one row per
// waveform, followed by seven rows of five phase timing bytes.
type LUT []byte

// lutLen is the size of the controller's LUT register.
const lutLen = 70

// LUTBlack is the waveform for black/white panels.
var LUTBlack = LUT{
	// Voltage selection, phases 0-6.
	0b01001000, 0b10100000, 0b00010000, 0b00010000, 0b00010011, 0b00000000, 0b00000000, // LUT0: black
	0b01001000, 0b10100000, 0b10000000, 0b00000000, 0b00000011, 0b00000000, 0b00000000, // LUT1: white
	0b01001000, 0b10100101, 0b00000000, 0b10111011, 0b00000000, 0b00000000, 0b00000000, // LUT2: unused
	0b01001000, 0b10100101, 0b00000000, 0b10111011, 0b00000000, 0b00000000, 0b00000000, // LUT3: color plane
	0b00000000, 0b00000000, 0b00000000, 0b00000000, 0b00000000, 0b00000000, 0b00000000, // LUT4: VCOM
	// Phase timings A-D plus repeat count.
	0x10, 0x04, 0x04, 0x04, 0x04, // phase 0: flash
	0x10, 0x04, 0x04, 0x04, 0x04, // phase 1: clear
	0x04, 0x08, 0x08, 0x10, 0x10, // phase 2: drive black
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
}

// LUTRed is the waveform for black/white/red panels.
var LUTRed = LUT{
	// Voltage selection, phases 0-6.
	0b01001000, 0b10100000, 0b00010000, 0b00010000, 0b00010011, 0b00000000, 0b00000000, // LUT0: black
	0b01001000, 0b10100000, 0b10000000, 0b00000000, 0b00000011, 0b00000000, 0b00000000, // LUT1: white
	0b01001000, 0b10100101, 0b00000000, 0b10111011, 0b00000000, 0b00000000, 0b00000000, // LUT2: unused
	0b01001000, 0b10100101, 0b00000000, 0b10111011, 0b00000000, 0b00000000, 0b00000000, // LUT3: red
	0b00000000, 0b00000000, 0b00000000, 0b00000000, 0b00000000, 0b00000000, 0b00000000, // LUT4: VCOM
	// Phase timings A-D plus repeat count.
	0x40, 0x0C, 0x20, 0x0C, 0x06, // phase 0: flash
	0x10, 0x08, 0x04, 0x04, 0x06, // phase 1: clear
	0x04, 0x08, 0x08, 0x10, 0x10, // phase 2: drive black
	0x02, 0x02, 0x02, 0x40, 0x20, // phase 3: drive red
	0x02, 0x02, 0x02, 0x02, 0x02, // phase 4: settle red
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
}

// LUTRedHighTemp is the red waveform tuned for panels run above 35C.
var LUTRedHighTemp = LUT{
	// Voltage selection, phases 0-6.
	0b01001000, 0b10100000, 0b00010000, 0b00010000, 0b00010011, 0b00000000, 0b00000000, // LUT0: black
	0b01001000, 0b10100000, 0b10000000, 0b00000000, 0b00000011, 0b00000000, 0b00000000, // LUT1: white
	0b01001000, 0b10100101, 0b00000000, 0b10111011, 0b00000000, 0b00000000, 0b00000000, // LUT2: unused
	0b01001000, 0b10100101, 0b00000000, 0b10111011, 0b00000000, 0b00000000, 0b00000000, // LUT3: red
	0b00000000, 0b00000000, 0b00000000, 0b00000000, 0b00000000, 0b00000000, 0b00000000, // LUT4: VCOM
	// Phase timings A-D plus repeat count.
	0x43, 0x0C, 0x25, 0x0C, 0x06, // phase 0: flash, longer at heat
	0x10, 0x08, 0x04, 0x04, 0x06, // phase 1: clear
	0x04, 0x08, 0x08, 0x10, 0x10, // phase 2: drive black
	0x02, 0x02, 0x02, 0x40, 0x20, // phase 3: drive red
	0x02, 0x02, 0x02, 0x02, 0x02, // phase 4: settle red
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
}

// LUTYellow is the waveform for black/white/yellow panels.
var LUTYellow = LUT{
	// Voltage selection, phases 0-6.
	0b11111010, 0b10010100, 0b10001100, 0b11000000, 0b11010000, 0b00000000, 0b00000000, // LUT0: black
	0b11111010, 0b10010100, 0b00101100, 0b10000000, 0b11100000, 0b00000000, 0b00000000, // LUT1: white
	0b11111010, 0b10010100, 0b10111100, 0b10000000, 0b11010000, 0b00000000, 0b00000000, // LUT2: unused
	0b11111010, 0b10010100, 0b01001100, 0b10000000, 0b00010000, 0b00000000, 0b00000000, // LUT3: yellow
	0b10111111, 0b01011000, 0b11111100, 0b10000000, 0b11010000, 0b00000000, 0b00000000, // LUT4: VCOM
	// Phase timings A-D plus repeat count.
	0x40, 0x10, 0x40, 0x10, 0x08, // phase 0: flash
	0x08, 0x10, 0x04, 0x04, 0x10, // phase 1: clear
	0x08, 0x08, 0x03, 0x08, 0x20, // phase 2: drive black
	0x08, 0x04, 0x00, 0x00, 0x10, // phase 3: drive yellow
	0x0A, 0x0A, 0x00, 0x0A, 0x30, // phase 4: settle yellow
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
}
