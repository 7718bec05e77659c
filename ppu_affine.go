package duocore

// renderAffine draws one scanline of a rotation/scale background (BG2/BG3 in
// modes 1-2) into layer[bg], per spec.md's affine-background MODULE: each
// screen pixel's map coordinate is the reference point plus the per-pixel
// PA/PC step, with either wraparound or out-of-bounds transparency depending
// on the overflow bit.
func (p *PPU) renderAffine(bg int, which int, line int) {
	cnt := p.bgcnt(bg)
	charBase := int(cnt>>2&0xF) * 0x4000
	screenBase := int(cnt>>8&0x1F) * 0x800
	sizeTiles := affineScreenDimTiles((cnt >> 14) & 0x3)
	wrap := cnt&(1<<13) != 0
	region := p.bgDataRegion()

	pa, _, pc, _ := p.affineParams(which)
	refX := p.affineX[which]
	refY := p.affineY[which]

	for x := 0; x < 256; x++ {
		mx := (refX + int32(x)*int32(pa)) >> 8
		my := (refY + int32(x)*int32(pc)) >> 8

		sizePixels := int32(sizeTiles * 8)
		if wrap {
			mx = ((mx % sizePixels) + sizePixels) % sizePixels
			my = ((my % sizePixels) + sizePixels) % sizePixels
		} else if mx < 0 || my < 0 || mx >= sizePixels || my >= sizePixels {
			continue
		}

		tileCol := int(mx) / 8
		tileRow := int(my) / 8
		fineX := int(mx) % 8
		fineY := int(my) % 8

		mapOffset := screenBase + tileRow*sizeTiles + tileCol
		tileID := int(p.sys.vram.readRegion(region, mapOffset))

		tileOffset := charBase + tileID*64 + fineY*8 + fineX
		colorIndex := int(p.sys.vram.readRegion(region, tileOffset))
		if colorIndex == 0 {
			continue
		}
		p.layer[bg][x] = p.paletteColor(p.bgPaletteBase()/2 + colorIndex)
		p.layerOn[bg][x] = true
	}
}

func affineScreenDimTiles(size uint16) int {
	switch size {
	case 0:
		return 16
	case 1:
		return 32
	case 2:
		return 64
	default:
		return 128
	}
}

// renderBitmapDirect implements mode 3: a 16-bit-per-pixel direct-color
// bitmap spanning the full 256x192 frame, affine-addressed like any other
// BG2, per spec.md's bitmap-background MODULE.
func (p *PPU) renderBitmapDirect(bg int, line int) {
	region := p.bgDataRegion()
	pa, _, pc, _ := p.affineParams(0)
	refX, refY := p.affineX[0], p.affineY[0]
	for x := 0; x < 256; x++ {
		mx := (refX + int32(x)*int32(pa)) >> 8
		my := (refY + int32(x)*int32(pc)) >> 8
		if mx < 0 || my < 0 || mx >= 256 || my >= 192 {
			continue
		}
		off := (int(my)*256 + int(mx)) * 2
		lo := p.sys.vram.readRegion(region, off)
		hi := p.sys.vram.readRegion(region, off+1)
		color := uint16(lo) | uint16(hi)<<8
		if color&0x8000 == 0 {
			continue // alpha bit 15 clear means transparent in mode 3
		}
		p.layer[bg][x] = color &^ 0x8000
		p.layerOn[bg][x] = true
	}
}

// renderBitmapPaletted implements mode 4: an 8-bit-per-pixel palette bitmap,
// optionally double-buffered via the DISPCNT display-area-select bit.
func (p *PPU) renderBitmapPaletted(bg int, line int) {
	region := p.bgDataRegion()
	frameOffset := 0
	if p.dispcnt&(1<<4) != 0 {
		frameOffset = 0xA000
	}
	pa, _, pc, _ := p.affineParams(0)
	refX, refY := p.affineX[0], p.affineY[0]
	for x := 0; x < 256; x++ {
		mx := (refX + int32(x)*int32(pa)) >> 8
		my := (refY + int32(x)*int32(pc)) >> 8
		if mx < 0 || my < 0 || mx >= 256 || my >= 192 {
			continue
		}
		off := frameOffset + int(my)*256 + int(mx)
		idx := int(p.sys.vram.readRegion(region, off))
		if idx == 0 {
			continue
		}
		p.layer[bg][x] = p.paletteColor(p.bgPaletteBase()/2 + idx)
		p.layerOn[bg][x] = true
	}
}

// renderBitmapSmall implements mode 5: a 16-bit direct-color bitmap reduced
// to 128x128, same double-buffering as mode 4.
func (p *PPU) renderBitmapSmall(bg int, line int) {
	region := p.bgDataRegion()
	frameOffset := 0
	if p.dispcnt&(1<<4) != 0 {
		frameOffset = 0xA000
	}
	pa, _, pc, _ := p.affineParams(0)
	refX, refY := p.affineX[0], p.affineY[0]
	for x := 0; x < 256; x++ {
		mx := (refX + int32(x)*int32(pa)) >> 8
		my := (refY + int32(x)*int32(pc)) >> 8
		if mx < 0 || my < 0 || mx >= 128 || my >= 128 {
			continue
		}
		off := frameOffset + (int(my)*128+int(mx))*2
		lo := p.sys.vram.readRegion(region, off)
		hi := p.sys.vram.readRegion(region, off+1)
		color := uint16(lo) | uint16(hi)<<8
		if color&0x8000 == 0 {
			continue
		}
		p.layer[bg][x] = color &^ 0x8000
		p.layerOn[bg][x] = true
	}
}
