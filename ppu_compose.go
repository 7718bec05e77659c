package duocore

// compose merges the four background layers and the object layer for one
// scanline into p.scanline, applying windows and the blend unit, per
// spec.md's compositing MODULE.
func (p *PPU) compose(line int) {
	bgPriority := [4]uint8{}
	for bg := 0; bg < 4; bg++ {
		bgPriority[bg] = uint8(p.bgcnt(bg) & 0x3)
	}

	win0 := p.windowRect(0x40, 0x44)
	win1 := p.windowRect(0x42, 0x46)
	winIn := p.reg16(0x48)
	winOut := p.reg16(0x4A)

	bldcnt := p.reg16(0x50)
	bldalpha := p.reg16(0x52)
	bldy := p.reg16(0x54)
	blendMode := (bldcnt >> 6) & 0x3

	backdrop := p.paletteColor(p.bgPaletteBase() / 2)

	anyWindow := p.win0Enabled() || p.win1Enabled() || p.objWinEnabled()

	for x := 0; x < 256; x++ {
		enableMask := uint16(0x3F) // all layers+obj enabled by default when no window active
		if anyWindow {
			switch {
			case p.win0Enabled() && win0.contains(x, line):
				enableMask = winIn & 0x3F
			case p.win1Enabled() && win1.contains(x, line):
				enableMask = (winIn >> 8) & 0x3F
			case p.objWinEnabled() && p.objLineOn[x] && p.objLine[x].window:
				enableMask = (winOut >> 8) & 0x3F
			default:
				enableMask = winOut & 0x3F
			}
		}

		type candidate struct {
			color    uint16
			priority uint8
			layer    int // 0-3 bg, 4 obj, 5 backdrop
			semi     bool
		}
		top := candidate{color: backdrop, priority: 4, layer: 5}
		second := top

		consider := func(c candidate) {
			if c.priority < top.priority || (c.priority == top.priority && c.layer < top.layer) {
				second = top
				top = c
			} else if c.priority < second.priority || (c.priority == second.priority && c.layer < second.layer) {
				second = c
			}
		}

		for bg := 0; bg < 4; bg++ {
			if enableMask&(1<<uint(bg)) == 0 || !p.layerOn[bg][x] {
				continue
			}
			consider(candidate{color: p.layer[bg][x], priority: bgPriority[bg], layer: bg})
		}
		if enableMask&(1<<4) != 0 && p.objLineOn[x] {
			consider(candidate{color: p.objLine[x].color, priority: p.objLine[x].priority, layer: 4, semi: p.objLine[x].semi})
		}

		result := top.color
		effectsEnabled := enableMask&(1<<5) != 0
		if effectsEnabled {
			target1 := bldcnt&(1<<uint(top.layer)) != 0
			target2 := bldcnt&(uint16(1)<<(8+uint(second.layer))) != 0
			switch {
			case top.semi && target2:
				result = blendAlpha(top.color, second.color, bldalpha)
			case blendMode == 1 && target1 && target2:
				result = blendAlpha(top.color, second.color, bldalpha)
			case blendMode == 2 && target1:
				result = blendBrighten(top.color, bldy)
			case blendMode == 3 && target1:
				result = blendDarken(top.color, bldy)
			}
		}
		p.scanline[x] = result
	}
}

type windowRect struct{ x1, y1, x2, y2 int }

func (w windowRect) contains(x, y int) bool {
	xok := x >= w.x1 && x < w.x2
	if w.x2 < w.x1 {
		xok = x >= w.x1 || x < w.x2
	}
	yok := y >= w.y1 && y < w.y2
	if w.y2 < w.y1 {
		yok = y >= w.y1 || y < w.y2
	}
	return xok && yok
}

func (p *PPU) windowRect(hOff, vOff uint32) windowRect {
	h := p.reg16(hOff)
	v := p.reg16(vOff)
	x1, x2 := int(h>>8), int(h&0xFF)
	y1, y2 := int(v>>8), int(v&0xFF)
	if x2 > 256 || x2 < x1 {
		x2 = 256
	}
	if y2 > 192 || y2 < y1 {
		y2 = 192
	}
	return windowRect{x1, y1, x2, y2}
}

func channel5(c uint16, shift uint) uint16 { return (c >> shift) & 0x1F }

func blendAlpha(a, b uint16, bldalpha uint16) uint16 {
	eva := int(bldalpha & 0x1F)
	evb := int((bldalpha >> 8) & 0x1F)
	blend := func(ca, cb uint16) uint16 {
		v := (int(ca)*eva + int(cb)*evb + 8) / 16
		if v > 31 {
			v = 31
		}
		return uint16(v)
	}
	r := blend(channel5(a, 0), channel5(b, 0))
	g := blend(channel5(a, 5), channel5(b, 5))
	bch := blend(channel5(a, 10), channel5(b, 10))
	return r | g<<5 | bch<<10
}

func blendBrighten(c uint16, bldy uint16) uint16 {
	evy := int(bldy & 0x1F)
	adj := func(ch uint16) uint16 {
		v := int(ch) + (31-int(ch))*evy/16
		if v > 31 {
			v = 31
		}
		return uint16(v)
	}
	r, g, b := adj(channel5(c, 0)), adj(channel5(c, 5)), adj(channel5(c, 10))
	return r | g<<5 | b<<10
}

func blendDarken(c uint16, bldy uint16) uint16 {
	evy := int(bldy & 0x1F)
	adj := func(ch uint16) uint16 {
		v := int(ch) - int(ch)*evy/16
		if v < 0 {
			v = 0
		}
		return uint16(v)
	}
	r, g, b := adj(channel5(c, 0)), adj(channel5(c, 5)), adj(channel5(c, 10))
	return r | g<<5 | b<<10
}
