package duocore

// renderText draws one scanline of a tiled ("text") background into
// layer[bg], per spec.md's tiled-background MODULE: an 8x8-tile screen map
// with 256-color or 16-color-per-tile character data, horizontal/vertical
// wraparound, and configurable screen/character base blocks (2 KiB / 16
// KiB units within this engine's BG VRAM region).
func (p *PPU) renderText(bg int, line int) {
	cnt := p.bgcnt(bg)
	charBase := int(cnt>>2&0xF) * 0x4000
	screenBase := int(cnt>>8&0x1F) * 0x800
	is8bpp := cnt&(1<<7) != 0
	screenSize := (cnt >> 14) & 0x3

	widthTiles, heightTiles := textScreenDims(screenSize)

	scrollX := int(p.bghofs(bg))
	scrollY := int(p.bgvofs(bg))
	y := (line + scrollY) % (heightTiles * 8)
	tileRow := y / 8
	fineY := y % 8

	region := p.bgDataRegion()

	for x := 0; x < 256; x++ {
		gx := (x + scrollX) % (widthTiles * 8)
		tileCol := gx / 8
		fineX := gx % 8

		mapOffset := screenBase + textMapEntryOffset(tileCol, tileRow, widthTiles, heightTiles)
		entryLo := p.sys.vram.readRegion(region, mapOffset)
		entryHi := p.sys.vram.readRegion(region, mapOffset+1)
		entry := uint16(entryLo) | uint16(entryHi)<<8

		tileID := int(entry & 0x3FF)
		hflip := entry&(1<<10) != 0
		vflip := entry&(1<<11) != 0
		paletteBank := int(entry>>12) & 0xF

		px, py := fineX, fineY
		if hflip {
			px = 7 - px
		}
		if vflip {
			py = 7 - py
		}

		var colorIndex int
		if is8bpp {
			tileOffset := charBase + tileID*64 + py*8 + px
			colorIndex = int(p.sys.vram.readRegion(region, tileOffset))
		} else {
			tileOffset := charBase + tileID*32 + py*4 + px/2
			b := p.sys.vram.readRegion(region, tileOffset)
			if px%2 == 0 {
				colorIndex = int(b & 0xF)
			} else {
				colorIndex = int(b >> 4)
			}
			if colorIndex != 0 {
				colorIndex += paletteBank * 16
			}
		}

		if colorIndex == 0 {
			continue
		}
		p.layer[bg][x] = p.paletteColor(p.bgPaletteBase()/2 + colorIndex)
		p.layerOn[bg][x] = true
	}
}

func textScreenDims(size uint16) (widthTiles, heightTiles int) {
	switch size {
	case 0:
		return 32, 32
	case 1:
		return 64, 32
	case 2:
		return 32, 64
	default:
		return 64, 64
	}
}

// textMapEntryOffset locates a tile's 2-byte map entry, accounting for the
// four independent 32x32 screen blocks composing larger map sizes.
func textMapEntryOffset(tileCol, tileRow, widthTiles, heightTiles int) int {
	blockCol := tileCol / 32
	blockRow := tileRow / 32
	blocksPerRow := widthTiles / 32
	block := blockRow*blocksPerRow + blockCol
	localCol := tileCol % 32
	localRow := tileRow % 32
	return block*0x800 + (localRow*32+localCol)*2
}
