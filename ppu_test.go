package duocore

import "testing"

// TestPPUTextScanlineRendersMappedTile exercises the text-background
// scanline-rendering scenario end to end: a VRAM bank mapped as engine A's
// background data, one 4bpp tile, one map entry, and a palette color, all
// composited with no window/blend active.
func TestPPUTextScanlineRendersMappedTile(t *testing.T) {
	sys := NewSystem(BootConfig{})
	sys.vram.WriteVRAMCNT(0, (1<<7)|1) // bank A -> BGA, offset 0

	// Map entry for tile (0,0): tile ID 0, no flip, palette bank 0.
	sys.vram.writeRegion(regionBGA, 0, 0x00)
	sys.vram.writeRegion(regionBGA, 1, 0x00)

	// Tile 0's pixel (0,0) is color index 1 (low nibble of byte 0), with
	// charBase == screenBase == 0 so it reuses the same map-entry bytes'
	// region but at a disjoint tile-data offset in a real layout; here
	// charBase is moved past the map block so the two don't alias.
	const charBaseBlocks = 1 // charBase = 1 * 0x4000
	p := sys.ppuA
	p.writeReg(0x08, uint32(charBaseBlocks<<2), 0xFFFFFFFF) // BG0CNT: char base block 1
	sys.vram.writeRegion(regionBGA, charBaseBlocks*0x4000, 0x01)

	p.dispcnt = 1 << 8 // mode 0 (bits 0-2 clear), BG0 enable (bit 8); DISPCNT is
	// tracked as its own field rather than inside regs, since mmio.go writes
	// it through a dedicated path (see mmio.go's DISPCNT case).

	sys.paletteRAM[2] = 0x1F // palette index 1 = BGR555 0x001F (pure red channel)
	sys.paletteRAM[3] = 0x00

	p.RenderScanline(0)

	if p.scanline[0] != 0x001F {
		t.Fatalf("scanline[0] = %#x, want 0x001f", p.scanline[0])
	}
}

func TestPPUForceBlankFillsWhite(t *testing.T) {
	sys := NewSystem(BootConfig{})
	p := sys.ppuA
	p.dispcnt = 1 << 7 // force-blank

	p.RenderScanline(0)
	for i, c := range p.scanline {
		if c != 0x7FFF {
			t.Fatalf("scanline[%d] = %#x, want 0x7fff (force-blank white)", i, c)
		}
	}
}
