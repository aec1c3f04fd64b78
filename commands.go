package inkywhat

// Commands understood by the SSD1675 class controller. A command byte
// is latched with DC low; the bytes that follow with DC high are its
// parameters.
const (
	gateSetting            byte = 0x01
	gateDrivingVoltage     byte = 0x03
	sourceDrivingVoltage   byte = 0x04
	enterDeepSleep         byte = 0x10
	dataEntryMode          byte = 0x11
	softReset              byte = 0x12
	triggerDisplayUpdate   byte = 0x20
	displayUpdateSequence  byte = 0x22
	setBWBuffer            byte = 0x24
	setRYBuffer            byte = 0x26
	vcomRegister           byte = 0x2C
	setLUT                 byte = 0x32
	dummyLinePeriod        byte = 0x3A
	gateLineWidth          byte = 0x3B
	gsTransition           byte = 0x3C
	setRAMXStartEnd        byte = 0x44
	setRAMYStartEnd        byte = 0x45
	setRAMXPointer         byte = 0x4E
	setRAMYPointer         byte = 0x4F
	setAnalogBlockControl  byte = 0x74
	setDigitalBlockControl byte = 0x7E
)

// Register values
const (
	analogBlockEnable  byte = 0x54
	digitalBlockEnable byte = 0x3B
	gateVoltage        byte = 0x17
	sourceVSH1         byte = 0x41
	sourceVSH2         byte = 0xAC
	sourceVSL          byte = 0x32
	dummyLine          byte = 0x07
	gateWidth          byte = 0x04
	dataEntryIncXY     byte = 0x03 // X and Y increment, X direction first
	vcomValue          byte = 0x3C
	// borderWhite is the waveform holding the border electrode white
	// during refresh.
	borderWhite byte = 0b00110001
	// updateSequenceFull runs clock, analog, full display and
	// shutdown in one go.
	updateSequenceFull byte = 0xC7
	deepSleepMode      byte = 0x01
)

// maxTransfer is the largest data burst sent in one SPI transaction.
const maxTransfer = 4096

// packet is one command byte and its parameter bytes. Either part may
// be absent: a bare command carries no data and a packet with neither
// transmits nothing.
type packet struct {
	cmd    byte
	hasCmd bool
	data   []byte
}

func command(cmd byte, data ...byte) packet {
	return packet{cmd: cmd, hasCmd: true, data: data}
}
