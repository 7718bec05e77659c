package duocore

// Scanline timing constants from spec.md's video-timing MODULE.
const (
	cyclesVisible     = 1606
	cyclesHBlank      = 524
	cyclesPerLine     = cyclesVisible + cyclesHBlank
	visibleLines      = 192
	totalLines        = 263
)

// videoUnit drives both PPUs through one scanline at a time via the shared
// event scheduler, raising the vblank/hblank/vcount-match IRQs and DMA
// timing triggers at the documented cycle offsets.
type videoUnit struct {
	sys *System

	vcount   uint16
	dispstat [2]uint16 // indexed by cpu (0 = later, 1 = earlier), per spec.md's MMIO mirror

	framebufferA [256 * 192]uint16
	framebufferB [256 * 192]uint16
}

func newVideoUnit(sys *System) *videoUnit {
	return &videoUnit{sys: sys}
}

func (v *videoUnit) reset() {
	v.vcount = 0
	v.dispstat = [2]uint16{}
}

func (v *videoUnit) inVBlank() bool { return int(v.vcount) >= visibleLines }

func (v *videoUnit) lycMatch(cpuIdx int) bool {
	ds := v.dispstat[cpuIdx]
	lyc := (ds>>8)&0xFF | (ds>>6&1)<<8
	return lyc == v.vcount
}

// start schedules the first line-start event; called once at boot.
func (v *videoUnit) start() {
	v.beginLine()
}

func (v *videoUnit) beginLine() {
	if v.vcount < visibleLines {
		v.sys.ppuA.RenderScanline(int(v.vcount))
		v.sys.ppuB.RenderScanline(int(v.vcount))
		copy(v.framebufferA[int(v.vcount)*256:], v.sys.ppuA.scanline[:])
		copy(v.framebufferB[int(v.vcount)*256:], v.sys.ppuB.scanline[:])
	}

	for cpu := 0; cpu < 2; cpu++ {
		v.dispstat[cpu] &^= 1 << 1 // clear hblank flag at line start
		if v.lycMatch(cpu) {
			v.dispstat[cpu] |= 1 << 2
			if v.dispstat[cpu]&(1<<5) != 0 {
				v.cpuFor(cpu).irq.Raise(IRQVCount)
			}
		} else {
			v.dispstat[cpu] &^= 1 << 2
		}
	}

	if v.vcount == visibleLines {
		for cpu := 0; cpu < 2; cpu++ {
			v.dispstat[cpu] |= 1 << 0
			if v.dispstat[cpu]&(1<<3) != 0 {
				v.cpuFor(cpu).irq.Raise(IRQVBlank)
			}
		}
		v.sys.dma[0].TriggerTiming(dmaVBlank)
		v.sys.dma[1].TriggerTiming(dmaVBlank)
	} else if v.vcount == 0 {
		for cpu := 0; cpu < 2; cpu++ {
			v.dispstat[cpu] &^= 1 << 0
		}
	}

	v.sys.sched.Schedule(cyclesVisible, "hblank-start", func(sys *System) {
		v.beginHBlank()
	})
}

func (v *videoUnit) beginHBlank() {
	for cpu := 0; cpu < 2; cpu++ {
		v.dispstat[cpu] |= 1 << 1
		if v.dispstat[cpu]&(1<<4) != 0 {
			v.cpuFor(cpu).irq.Raise(IRQHBlank)
		}
	}
	if int(v.vcount) < visibleLines {
		v.sys.dma[0].TriggerTiming(dmaHBlank)
		v.sys.dma[1].TriggerTiming(dmaHBlank)
	}
	v.sys.sched.Schedule(cyclesHBlank, "line-end", func(sys *System) {
		v.vcount++
		if int(v.vcount) >= totalLines {
			v.vcount = 0
		}
		v.beginLine()
	})
}

func (v *videoUnit) cpuFor(idx int) *armCore {
	if idx == 0 {
		return v.sys.cpuLater
	}
	return v.sys.cpuEarlier
}
