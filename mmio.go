package duocore

// MMIO is the central dispatch table from spec.md §4.5: every register is
// keyed by address>>2 (word-aligned index); handlers receive a byte-lane
// mask and update only the live bytes, grounded on the teacher's
// registers.go central address map and file_io.go's HandleRead/HandleWrite
// shape.
type MMIO struct {
	sys *System
}

func newMMIO(sys *System) *MMIO {
	return &MMIO{sys: sys}
}

const mmioBase = 0x04000000

// read dispatches a 32-bit-aligned MMIO read for the given CPU.
func (m *MMIO) read(cpu *armCore, addr uint32) uint32 {
	off := addr - mmioBase

	// Earlier-variant-only block.
	if !cpu.later {
		switch off {
		case 0x1C0, 0x1C2:
			return uint32(m.sys.spi.readReg(off))
		case 0x138:
			return uint32(m.sys.rtc.readReg())
		case 0x500:
			return 0 // SOUNDCNT: audio mixing is a Non-goal, stubbed
		}
	}

	switch {
	case off == 0x000:
		return uint32(m.sys.ppuA.dispcnt)
	case off == 0x1000:
		return uint32(m.sys.ppuB.dispcnt)
	case off == 0x004:
		return uint32(m.sys.video.dispstat[cpuIndex(cpu)]) | uint32(m.sys.video.vcount)<<16
	case off >= 0x008 && off <= 0x05F:
		return m.sys.ppuA.readReg(off)
	case off >= 0x1008 && off <= 0x105F:
		return m.sys.ppuB.readReg(off - 0x1000)
	case off >= 0x0B0 && off <= 0x0DF:
		return m.readDMA(cpu, off)
	case off >= 0x0E0 && off <= 0x0EF:
		return 0 // DMAFILL: write-mostly, read back as last write (not modeled)
	case off >= 0x100 && off <= 0x10F:
		return m.readTimer(cpu, off)
	case off == 0x130:
		return uint32(m.sys.input.keyinput())
	case off == 0x132:
		return uint32(m.sys.input.keycnt)
	case off == 0x180:
		return uint32(m.sys.ipc.ReadSync(cpuIndex(cpu)))
	case off == 0x184:
		return uint32(m.sys.ipc.ReadFifoCnt(cpuIndex(cpu)))
	case off == 0x208:
		return cpu.irq.ReadIME()
	case off == 0x210:
		return cpu.irq.ReadIE()
	case off == 0x214:
		return cpu.irq.ReadIF()
	case off >= 0x240 && off <= 0x249:
		return uint32(m.sys.vram.bank[off-0x240].cnt)
	case off >= 0x280 && off <= 0x2BF && cpu.later:
		return m.sys.math.readReg(off - 0x280)
	case off == 0x300:
		return uint32(m.sys.postflg)
	case off == 0x304:
		return m.sys.powcnt1
	case off == 0x100000:
		return m.sys.ipc.Recv(cpuIndex(cpu))
	case off == 0x1A0:
		return uint32(m.sys.cart.auxspicnt)
	case off == 0x1A4:
		return m.sys.cart.romctrl
	case off == 0x100010:
		return m.sys.cart.ReadData()
	}
	m.sys.log.Warnf("unmapped MMIO read at %#08x (%s)", addr, cpu.name)
	return 0
}

// write dispatches a (possibly byte-lane-masked) MMIO write.
func (m *MMIO) write(cpu *armCore, addr uint32, val, mask uint32) {
	off := addr - mmioBase

	if !cpu.later {
		switch off {
		case 0x1C0, 0x1C2:
			m.sys.spi.writeReg(off, uint16(val), uint16(mask))
			return
		case 0x138:
			m.sys.rtc.writeReg(uint8(val))
			return
		case 0x500:
			return
		}
	}

	switch {
	case off == 0x000:
		m.sys.ppuA.dispcnt = mergeMasked(m.sys.ppuA.dispcnt, val, mask)
		return
	case off == 0x1000:
		m.sys.ppuB.dispcnt = mergeMasked(m.sys.ppuB.dispcnt, val, mask)
		return
	case off == 0x004:
		m.sys.video.dispstat[cpuIndex(cpu)] = mergeMasked16(m.sys.video.dispstat[cpuIndex(cpu)], uint16(val), uint16(mask))
		return
	case off >= 0x008 && off <= 0x05F:
		m.sys.ppuA.writeReg(off, val, mask)
		return
	case off >= 0x1008 && off <= 0x105F:
		m.sys.ppuB.writeReg(off-0x1000, val, mask)
		return
	case off >= 0x0B0 && off <= 0x0DF:
		m.writeDMA(cpu, off, val, mask)
		return
	case off >= 0x0E0 && off <= 0x0EF:
		return
	case off >= 0x100 && off <= 0x10F:
		m.writeTimer(cpu, off, val, mask)
		return
	case off == 0x130:
		return // KEYINPUT is read-only
	case off == 0x132:
		m.sys.input.keycnt = mergeMasked16(m.sys.input.keycnt, uint16(val), uint16(mask))
		return
	case off == 0x180:
		m.sys.ipc.WriteSync(cpuIndex(cpu), mergeMasked16(m.sys.ipc.ReadSync(cpuIndex(cpu)), uint16(val), uint16(mask)&0x7F00))
		return
	case off == 0x184:
		m.sys.ipc.WriteFifoCnt(cpuIndex(cpu), uint16(val))
		return
	case off == 0x188:
		m.sys.ipc.Send(cpuIndex(cpu), val)
		return
	case off == 0x208:
		cpu.irq.WriteIME(val, mask)
		return
	case off == 0x210:
		cpu.irq.WriteIE(val, mask)
		return
	case off == 0x214:
		cpu.irq.WriteIF(val, mask)
		return
	case off >= 0x240 && off <= 0x249:
		m.sys.vram.WriteVRAMCNT(int(off-0x240), uint8(val))
		return
	case off >= 0x280 && off <= 0x2BF && cpu.later:
		m.sys.math.writeReg(off-0x280, val, mask)
		return
	case off == 0x300:
		m.sys.postflg = uint8(val)
		return
	case off == 0x304:
		m.sys.powcnt1 = mergeMasked(m.sys.powcnt1, val, mask)
		return
	case off == 0x1A0:
		m.sys.cart.auxspicnt = mergeMasked16(m.sys.cart.auxspicnt, uint16(val), uint16(mask))
		return
	case off == 0x1A4:
		wasActive := m.sys.cart.romctrl&(1<<31) != 0
		m.sys.cart.romctrl = mergeMasked(m.sys.cart.romctrl, val, mask)
		if !wasActive && m.sys.cart.romctrl&(1<<31) != 0 {
			m.sys.cart.WriteCommand(m.sys.cart.command)
		}
		return
	case off >= 0x1A8 && off <= 0x1AC:
		b := off - 0x1A8
		for i := uint32(0); i < 4; i++ {
			if mask&(0xFF<<(8*i)) != 0 {
				m.sys.cart.command[b+i] = uint8(val >> (8 * i))
			}
		}
		return
	}
	m.sys.log.Warnf("unmapped MMIO write at %#08x = %#08x mask=%#08x (%s)", addr, val, mask, cpu.name)
}

func (m *MMIO) readDMA(cpu *armCore, off uint32) uint32 {
	ch := int((off - 0xB0) / 12)
	if ch >= 4 {
		return 0
	}
	reg := (off - 0xB0) % 12
	c := &m.sys.dma[cpuIndex(cpu)].channel[ch]
	switch {
	case reg < 4:
		return c.source
	case reg < 8:
		return c.destination
	default:
		return c.length | c.control
	}
}

func (m *MMIO) writeDMA(cpu *armCore, off uint32, val, mask uint32) {
	ch := int((off - 0xB0) / 12)
	if ch >= 4 {
		return
	}
	reg := (off - 0xB0) % 12
	d := m.sys.dma[cpuIndex(cpu)]
	c := &d.channel[ch]
	switch {
	case reg < 4:
		c.source = mergeMasked(c.source, val, mask)
	case reg < 8:
		c.destination = mergeMasked(c.destination, val, mask)
	default:
		if mask&0xFFFF != 0 {
			c.length = mergeMasked(c.length&0xFFFF, val&0xFFFF, mask&0xFFFF)
		}
		if mask&0xFFFF0000 != 0 {
			d.WriteControl(ch, mergeMasked(c.control, val, mask))
		}
	}
}

func (m *MMIO) readTimer(cpu *armCore, off uint32) uint32 {
	ch := int((off - 0x100) / 4)
	if ch >= 4 {
		return 0
	}
	t := m.sys.timers[cpuIndex(cpu)]
	return uint32(t.ReadCounter(ch)) | uint32(t.channel[ch].control)<<16
}

func (m *MMIO) writeTimer(cpu *armCore, off uint32, val, mask uint32) {
	ch := int((off - 0x100) / 4)
	if ch >= 4 {
		return
	}
	t := m.sys.timers[cpuIndex(cpu)]
	if mask&0xFFFF != 0 {
		t.WriteReload(ch, uint16(mergeMasked(uint32(t.channel[ch].reload), val, mask&0xFFFF)))
	}
	if mask&0xFFFF0000 != 0 {
		t.WriteControl(ch, mergeMasked(t.channel[ch].control, val, mask)&0xFFFF)
	}
}

func cpuIndex(cpu *armCore) int {
	if cpu.later {
		return 0
	}
	return 1
}

func mergeMasked(old, val, mask uint32) uint32 {
	return (old &^ mask) | (val & mask)
}

func mergeMasked16(old, val, mask uint16) uint16 {
	return (old &^ mask) | (val & mask)
}
