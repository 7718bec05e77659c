package duocore

// objAttrs is one OAM entry's decoded fields, per spec.md's object MODULE:
// 3 attribute words of 16 bits each, 128 entries per engine.
type objAttrs struct {
	y, x           int
	shape, size    uint8
	affine         bool
	doubleSize     bool
	disabled       bool
	mode           uint8 // 0 normal, 1 semi-transparent, 2 obj-window, 3 bitmap
	mosaic         bool
	is8bpp         bool
	hflip, vflip   bool
	tileID         int
	priority       uint8
	paletteBank    uint8
	affineIndex    uint8
}

var objShapeSize = map[[2]uint8][2]int{
	{0, 0}: {8, 8}, {0, 1}: {16, 16}, {0, 2}: {32, 32}, {0, 3}: {64, 64},
	{1, 0}: {16, 8}, {1, 1}: {32, 8}, {1, 2}: {32, 16}, {1, 3}: {64, 32},
	{2, 0}: {8, 16}, {2, 1}: {8, 32}, {2, 2}: {16, 32}, {2, 3}: {32, 64},
}

func decodeOAMEntry(oam []byte, base, idx int) objAttrs {
	o := base + idx*8
	if o+6 > len(oam) {
		return objAttrs{disabled: true}
	}
	a0 := uint16(oam[o]) | uint16(oam[o+1])<<8
	a1 := uint16(oam[o+2]) | uint16(oam[o+3])<<8
	a2 := uint16(oam[o+4]) | uint16(oam[o+5])<<8

	var a objAttrs
	a.y = int(a0 & 0xFF)
	a.affine = a0&(1<<8) != 0
	a.doubleSize = a.affine && a0&(1<<9) != 0
	a.disabled = !a.affine && a0&(1<<9) != 0
	a.mode = uint8((a0 >> 10) & 0x3)
	a.mosaic = a0&(1<<12) != 0
	a.is8bpp = a0&(1<<13) != 0
	a.shape = uint8((a0 >> 14) & 0x3)

	a.x = int(a1 & 0x1FF)
	if a.x >= 256 {
		a.x -= 512
	}
	if a.affine {
		a.affineIndex = uint8((a1 >> 9) & 0x1F)
	} else {
		a.hflip = a1&(1<<12) != 0
		a.vflip = a1&(1<<13) != 0
	}
	a.size = uint8((a1 >> 14) & 0x3)

	a.tileID = int(a2 & 0x3FF)
	a.priority = uint8((a2 >> 10) & 0x3)
	a.paletteBank = uint8((a2 >> 12) & 0xF)
	return a
}

func affineParamsFor(oam []byte, base int, group uint8) (pa, pb, pc, pd int16) {
	o := base + int(group)*32 + 6
	read := func(i int) int16 {
		if o+i*8+1 >= len(oam) {
			return 0
		}
		return int16(uint16(oam[o+i*8]) | uint16(oam[o+i*8+1])<<8)
	}
	return read(0), read(1), read(2), read(3)
}

// renderObjects draws every enabled, on-scanline sprite into p.objLine,
// walking OAM from the last entry to the first. A pixel already held by an
// object with a lower priority value is kept; otherwise the entry overwrites
// it, so at equal screen priority the lower OAM index wins -- matching real
// hardware's index-0-wins-ties order.
func (p *PPU) renderObjects(line int) {
	oam := p.sys.oam[p.oamBase() : p.oamBase()+0x400]
	region := p.objDataRegion()
	is1D := p.dispcnt&(1<<4) != 0 // OBJ character mapping mode

	for idx := 127; idx >= 0; idx-- {
		a := decodeOAMEntry(oam, 0, idx)
		if a.disabled || a.mode == 3 {
			continue
		}
		w, h := objShapeSize[[2]uint8{a.shape, a.size}][0], objShapeSize[[2]uint8{a.shape, a.size}][1]
		boundW, boundH := w, h
		if a.doubleSize {
			boundW, boundH = w*2, h*2
		}

		y0 := a.y
		if y0+boundH > 256 {
			y0 -= 256
		}
		if line < y0 || line >= y0+boundH {
			continue
		}

		var pa16, pb16, pc16, pd16 int16 = 256, 0, 0, 256
		if a.affine {
			pa16, pb16, pc16, pd16 = affineParamsFor(oam, 0, a.affineIndex)
		}

		cx, cy := boundW/2, boundH/2
		localY := line - y0 - cy

		for sx := 0; sx < boundW; sx++ {
			screenX := a.x + sx
			if screenX < 0 || screenX >= 256 {
				continue
			}
			localX := sx - cx

			var tx, ty int
			if a.affine {
				rx := (int32(pa16)*int32(localX) + int32(pb16)*int32(localY)) >> 8
				ry := (int32(pc16)*int32(localX) + int32(pd16)*int32(localY)) >> 8
				tx = int(rx) + w/2
				ty = int(ry) + h/2
				if tx < 0 || ty < 0 || tx >= w || ty >= h {
					continue
				}
			} else {
				tx, ty = localX+w/2, localY+h/2
				if a.hflip {
					tx = w - 1 - tx
				}
				if a.vflip {
					ty = h - 1 - ty
				}
			}

			colorIndex := p.objPixelColorIndex(region, a, tx, ty, w, is1D)
			if colorIndex == 0 {
				continue
			}
			pal := p.objPaletteBase()/2 + colorIndex
			if !a.is8bpp {
				pal = p.objPaletteBase()/2 + int(a.paletteBank)*16 + colorIndex
			}
			if p.objLineOn[screenX] && p.objLine[screenX].priority < a.priority {
				continue
			}
			p.objLine[screenX] = objPixel{
				color:    p.paletteColor(pal),
				priority: a.priority,
				semi:     a.mode == 1,
				window:   a.mode == 2,
			}
			p.objLineOn[screenX] = true
		}
	}
}

func (p *PPU) objPixelColorIndex(region vramRegion, a objAttrs, tx, ty, widthPixels int, is1D bool) int {
	tileX, fineX := tx/8, tx%8
	tileY, fineY := ty/8, ty%8
	tilesWide := widthPixels / 8

	var tileOffset int
	if is1D {
		tileIndex := a.tileID + (tileY*tilesWide+tileX)*boundaryFactor(a.is8bpp)
		tileOffset = tileIndex * 32
	} else {
		tileIndex := a.tileID + tileY*32 + tileX*boundaryFactor(a.is8bpp)
		tileOffset = tileIndex * 32
	}

	if a.is8bpp {
		return int(p.sys.vram.readRegion(region, tileOffset+fineY*8+fineX))
	}
	b := p.sys.vram.readRegion(region, tileOffset+fineY*4+fineX/2)
	if fineX%2 == 0 {
		return int(b & 0xF)
	}
	return int(b >> 4)
}

func boundaryFactor(is8bpp bool) int {
	if is8bpp {
		return 2
	}
	return 1
}
