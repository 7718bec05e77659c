package duocore

// DMA timing triggers, per spec.md §4.7.
type dmaTiming int

const (
	dmaImmediate dmaTiming = iota
	dmaVBlank
	dmaHBlank
	dmaStartOfDisplay
	dmaMainMemoryDisplay
	dmaSlot1
	dmaSlot2
	dmaGeometryFifo
)

type dmaAddrCtrl int

const (
	addrIncrement dmaAddrCtrl = iota
	addrDecrement
	addrFixed
	addrReload
)

// dmaChannel is one of 4 channels per CPU, per spec.md §4.7.
type dmaChannel struct {
	source, destination, length, control uint32
	internalSource, internalDestination  uint32
	internalLength                       uint32

	enabled bool
	index   int
}

// dmaUnit owns the 4 channels for one CPU.
type dmaUnit struct {
	sys     *System
	cpu     *armCore
	channel [4]dmaChannel
	pending [4]bool // timing trigger already scheduled, not re-triggered
}

func newDMAUnit(sys *System, cpu *armCore) *dmaUnit {
	d := &dmaUnit{sys: sys, cpu: cpu}
	for i := range d.channel {
		d.channel[i].index = i
	}
	return d
}

func (d *dmaUnit) reset() {
	for i := range d.channel {
		d.channel[i] = dmaChannel{index: i}
		d.pending[i] = false
	}
}

func (d *dmaUnit) destControl(ctrl uint32) dmaAddrCtrl { return dmaAddrCtrl((ctrl >> 5) & 3) }
func (d *dmaUnit) srcControl(ctrl uint32) dmaAddrCtrl  { return dmaAddrCtrl((ctrl >> 7) & 3) }
func (d *dmaUnit) timing(ctrl uint32) dmaTiming {
	field := (ctrl >> 11) & 0x7
	if !d.cpu.later {
		// Earlier-variant CPU encodes timing in a narrower field; per
		// spec.md §9 Open Questions, right-shift by 1 before comparing.
		field = (ctrl >> 12) & 0x3
		field >>= 1
	}
	return dmaTiming(field)
}
func (d *dmaUnit) transferWords(ctrl uint32) bool { return ctrl&(1<<10) != 0 }
func (d *dmaUnit) repeat(ctrl uint32) bool         { return ctrl&(1<<9) != 0 }
func (d *dmaUnit) irqEnabled(ctrl uint32) bool     { return ctrl&(1<<14) != 0 }
func (d *dmaUnit) enableBit(ctrl uint32) bool       { return ctrl&(1<<15) != 0 }

// WriteControl handles a CNT_H write, detecting the 0->1 enable transition
// per spec.md §4.7.
func (d *dmaUnit) WriteControl(ch int, val uint32) {
	c := &d.channel[ch]
	wasEnabled := d.enableBit(c.control)
	c.control = val
	nowEnabled := d.enableBit(c.control)
	if !wasEnabled && nowEnabled {
		d.activate(ch)
	}
	if !nowEnabled {
		c.enabled = false
	}
}

func (d *dmaUnit) activate(ch int) {
	c := &d.channel[ch]
	c.internalSource = c.source
	c.internalDestination = c.destination
	c.internalLength = c.length
	if c.internalLength == 0 {
		if d.cpu.later {
			c.internalLength = 1 << 21
		} else {
			c.internalLength = 1 << 16
		}
	}
	c.enabled = true
	if d.timing(c.control) == dmaImmediate {
		d.scheduleTrigger(ch)
	}
}

func (d *dmaUnit) scheduleTrigger(ch int) {
	if d.pending[ch] {
		return
	}
	d.pending[ch] = true
	d.sys.sched.Schedule(1, "dma-transfer", func(sys *System) {
		d.pending[ch] = false
		d.transfer(ch)
	})
}

// TriggerTiming is called by the video unit / other sources when a timing
// event (vblank, hblank, ...) occurs: every enabled channel whose timing
// matches is scheduled once, per spec.md §4.7.
func (d *dmaUnit) TriggerTiming(t dmaTiming) {
	for i := range d.channel {
		c := &d.channel[i]
		if c.enabled && d.timing(c.control) == t {
			d.scheduleTrigger(i)
		}
	}
}

var dmaStepTable = [2][4]int32{
	{4, -4, 0, 4},  // word transfers
	{2, -2, 0, 2},  // halfword transfers
}

func (d *dmaUnit) transfer(ch int) {
	c := &d.channel[ch]
	words := d.transferWords(c.control)
	row := 1
	if words {
		row = 0
	}
	srcStep := dmaStepTable[row][d.srcControl(c.control)]
	dstStep := dmaStepTable[row][d.destControl(c.control)]

	mem := d.cpu.router
	for i := uint32(0); i < c.internalLength; i++ {
		if words {
			mem.Write32(c.internalDestination, mem.Read32(c.internalSource))
		} else {
			mem.Write16(c.internalDestination, mem.Read16(c.internalSource))
		}
		c.internalSource = uint32(int32(c.internalSource) + srcStep)
		c.internalDestination = uint32(int32(c.internalDestination) + dstStep)
	}

	if d.irqEnabled(c.control) {
		d.cpu.irq.Raise(uint32(IRQDMA0) << uint(ch))
	}

	if d.repeat(c.control) && d.timing(c.control) != dmaImmediate {
		if d.destControl(c.control) == addrReload {
			c.internalDestination = c.destination
		}
		c.internalLength = c.length
		if c.internalLength == 0 {
			if d.cpu.later {
				c.internalLength = 1 << 21
			} else {
				c.internalLength = 1 << 16
			}
		}
	} else {
		c.enabled = false
		c.control &^= 1 << 15
	}
}
