package duocore

// SPI models the earlier-variant CPU's SPI bus from spec.md §12: SPICNT at
// offset 0 and SPIDATA at offset 2. Only the firmware chip device is
// modeled (power management and touchscreen devices are host-I/O and are
// Non-goals); grounded on original_source/core/hardware/spi.rs's
// device-select + command-byte-then-address-bytes-then-data protocol.
type SPI struct {
	sys *System

	cnt  uint16
	data uint16

	firmware []byte

	cmd       uint8
	cmdByte   int
	addr      uint32
	addrBytes int
	writeEn   bool
}

const spiDeviceFirmware = 0

func newSPI(sys *System, firmware []byte) *SPI {
	if firmware == nil {
		firmware = make([]byte, 256*1024)
	}
	return &SPI{sys: sys, firmware: firmware}
}

func (s *SPI) reset() {
	s.cnt = 0
	s.data = 0
	s.cmdByte = 0
	s.addrBytes = 0
	s.writeEn = false
}

func (s *SPI) device() uint8    { return uint8((s.cnt >> 8) & 0x3) }
func (s *SPI) enabled() bool    { return s.cnt&(1<<15) != 0 }
func (s *SPI) holdChipSel() bool { return s.cnt&(1<<11) != 0 }

func (s *SPI) readReg(off uint32) uint16 {
	switch off & 2 {
	case 0:
		return s.cnt
	default:
		return s.data
	}
}

func (s *SPI) writeReg(off uint32, val, mask uint16) {
	switch off & 2 {
	case 0:
		s.cnt = mergeMasked16(s.cnt, val, mask)
		if !s.holdChipSel() {
			s.cmdByte = 0
			s.addrBytes = 0
		}
	default:
		s.data = 0
		if s.enabled() && s.device() == spiDeviceFirmware {
			s.data = uint16(s.transferFirmware(uint8(val)))
		}
	}
}

// transferFirmware implements the firmware chip's JEDEC-style command set:
// 0x03 READ takes 3 address bytes then streams data bytes back.
func (s *SPI) transferFirmware(in uint8) uint8 {
	if s.cmdByte == 0 {
		s.cmd = in
		s.cmdByte++
		s.addrBytes = 0
		s.addr = 0
		return 0
	}
	switch s.cmd {
	case 0x03: // READ
		if s.addrBytes < 3 {
			s.addr = (s.addr << 8) | uint32(in)
			s.addrBytes++
			return 0
		}
		v := uint8(0xFF)
		if int(s.addr) < len(s.firmware) {
			v = s.firmware[s.addr]
		}
		s.addr++
		return v
	case 0x9F: // JEDEC ID
		return 0x20
	default:
		return 0
	}
}
