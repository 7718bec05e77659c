package duocore

// PPU is one picture-processing engine (there are two, A and B, sharing the
// same register layout and rendering pipeline) from spec.md's display MODULE:
// tiled/affine/bitmap backgrounds, objects, and window/blend compositing,
// rendered one scanline at a time by the video unit.
//
// Register storage is a flat byte buffer addressed the same way the real
// bus does, so 16/32-bit partial writes from the MMIO dispatcher land on the
// right bytes without each register needing its own accessor.
type PPU struct {
	sys     *System
	engineB bool

	dispcnt uint32
	regs    [0x60]byte

	// BG2/BG3 internal affine reference-point accumulators: the MMIO
	// registers at 0x28/0x2C/0x38/0x3C are write-only latches; the live
	// accumulator advances by PB/PD each scanline and is reloaded from the
	// latch whenever the CPU rewrites it.
	affineX, affineY [2]int32

	layer     [4][256]uint16
	layerOn   [4][256]bool
	objLine   [256]objPixel
	objLineOn [256]bool

	scanline [256]uint16
}

type objPixel struct {
	color    uint16
	priority uint8
	semi     bool
	window   bool
}

func newPPU(sys *System, engineB bool) *PPU {
	return &PPU{sys: sys, engineB: engineB}
}

func (p *PPU) reset() {
	p.dispcnt = 0
	for i := range p.regs {
		p.regs[i] = 0
	}
	p.affineX = [2]int32{}
	p.affineY = [2]int32{}
}

func (p *PPU) readReg(off uint32) uint32 {
	if off+4 > uint32(len(p.regs)) {
		return 0
	}
	return readLE32(p.regs[:], off)
}

func (p *PPU) writeReg(off, val, mask uint32) {
	if off+4 > uint32(len(p.regs)) {
		return
	}
	cur := readLE32(p.regs[:], off)
	writeLE32(p.regs[:], off, mergeMasked(cur, val, mask))
	p.latchAffineWrite(off)
}

func (p *PPU) reg16(off uint32) uint16 { return readLE16(p.regs[:], off) }

func (p *PPU) bgcnt(bg int) uint16  { return p.reg16(uint32(0x08 + 2*bg)) }
func (p *PPU) bghofs(bg int) uint16 { return p.reg16(uint32(0x10+4*bg)) & 0x1FF }
func (p *PPU) bgvofs(bg int) uint16 { return p.reg16(uint32(0x10+4*bg+2)) & 0x1FF }

func (p *PPU) bgMode() uint8     { return uint8(p.dispcnt & 0x7) }
func (p *PPU) bgEnabled(bg int) bool { return p.dispcnt&(1<<(8+uint(bg))) != 0 }
func (p *PPU) objEnabled() bool      { return p.dispcnt&(1<<12) != 0 }
func (p *PPU) win0Enabled() bool     { return p.dispcnt&(1<<13) != 0 }
func (p *PPU) win1Enabled() bool     { return p.dispcnt&(1<<14) != 0 }
func (p *PPU) objWinEnabled() bool   { return p.dispcnt&(1<<15) != 0 }
func (p *PPU) forceBlank() bool      { return p.dispcnt&(1<<7) != 0 }

func (p *PPU) affineBase(which int) uint32 {
	if which == 0 {
		return 0x20
	}
	return 0x30
}

// affine parameters PA/PB/PC/PD, 1.7.8 fixed point, for BG2 (which=0) / BG3 (which=1).
func (p *PPU) affineParams(which int) (pa, pb, pc, pd int16) {
	base := p.affineBase(which)
	pa = int16(p.reg16(base + 0))
	pb = int16(p.reg16(base + 2))
	pc = int16(p.reg16(base + 4))
	pd = int16(p.reg16(base + 6))
	return
}

func (p *PPU) latchAffineWrite(off uint32) {
	for which, base := range [2]uint32{0x28, 0x38} {
		if off == base || off == base+4 {
			x := int32(readLE32(p.regs[:], base))
			p.affineX[which] = signExtend28(x)
		}
		if off == base+4 {
			y := int32(readLE32(p.regs[:], base+4))
			p.affineY[which] = signExtend28(y)
		}
	}
}

func signExtend28(v int32) int32 {
	v &= 0x0FFFFFFF
	if v&0x08000000 != 0 {
		v |= ^int32(0x0FFFFFFF)
	}
	return v
}

// bgPaletteBase/objPaletteBase select this engine's half of the shared 2 KiB
// palette RAM, per spec.md §4.4's 0x05xxxxxx region layout.
func (p *PPU) bgPaletteBase() int {
	if p.engineB {
		return 0x400
	}
	return 0x000
}

func (p *PPU) objPaletteBase() int {
	if p.engineB {
		return 0x600
	}
	return 0x200
}

func (p *PPU) oamBase() int {
	if p.engineB {
		return 0x400
	}
	return 0x000
}

func (p *PPU) bgDataRegion() vramRegion {
	if p.engineB {
		return regionBGB
	}
	return regionBGA
}

func (p *PPU) objDataRegion() vramRegion {
	if p.engineB {
		return regionOBJB
	}
	return regionOBJA
}

func (p *PPU) paletteColor(index int) uint16 {
	off := index * 2
	if off+2 > len(p.sys.paletteRAM) {
		return 0
	}
	return readLE16(p.sys.paletteRAM[:], uint32(off))
}

// RenderScanline fills p.scanline with 15-bit BGR555 colors for display line
// `line`, running the full background/object/window/blend pipeline, per
// spec.md's display MODULE.
func (p *PPU) RenderScanline(line int) {
	if p.forceBlank() {
		for i := range p.scanline {
			p.scanline[i] = 0x7FFF
		}
		return
	}

	for l := range p.layerOn {
		for x := range p.layerOn[l] {
			p.layerOn[l][x] = false
		}
	}
	for x := range p.objLineOn {
		p.objLineOn[x] = false
	}

	switch p.bgMode() {
	case 0:
		for bg := 0; bg < 4; bg++ {
			if p.bgEnabled(bg) {
				p.renderText(bg, line)
			}
		}
	case 1:
		for bg := 0; bg < 2; bg++ {
			if p.bgEnabled(bg) {
				p.renderText(bg, line)
			}
		}
		if p.bgEnabled(2) {
			p.renderAffine(2, 0, line)
		}
	case 2:
		if p.bgEnabled(2) {
			p.renderAffine(2, 0, line)
		}
		if p.bgEnabled(3) {
			p.renderAffine(3, 1, line)
		}
	case 3:
		if p.bgEnabled(2) {
			p.renderBitmapDirect(2, line)
		}
	case 4:
		if p.bgEnabled(2) {
			p.renderBitmapPaletted(2, line)
		}
	case 5:
		if p.bgEnabled(2) {
			p.renderBitmapSmall(2, line)
		}
	}

	if p.objEnabled() {
		p.renderObjects(line)
	}
	for which := 0; which < 2; which++ {
		p.affineX[which] += int32(mustPB(p, which))
		p.affineY[which] += int32(mustPD(p, which))
	}

	p.compose(line)
}

func mustPB(p *PPU, which int) int16 { _, pb, _, _ := p.affineParams(which); return pb }
func mustPD(p *PPU, which int) int16 { _, _, _, pd := p.affineParams(which); return pd }
