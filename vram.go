package duocore

// Logical VRAM regions named in spec.md §3.
type vramRegion int

const (
	regionBGA vramRegion = iota
	regionBGB
	regionOBJA
	regionOBJB
	regionLCDC
	regionARM7
	regionTexData
	regionTexPal
	regionBGAExtPal
	regionBGBExtPal
	regionOBJAExtPal
	regionOBJBExtPal
	numRegions
)

const vramPageSize = 4 * 1024

// regionPage is one 4 KiB page of a logical region: a mutable list of
// host-bank pointers mapped onto it (each a bank buffer sliced at the
// page's offset within that bank), per spec.md §3 ("Reads OR together the
// contents of all mapped banks... writes broadcast to all mapped banks").
type regionPage struct {
	banks [][]byte
}

// vramBank is one of the nine physical buffers, per spec.md §4.11.
type vramBank struct {
	id      int
	size    int
	buf     []byte
	cnt     uint8 // VRAMCNT: mst:3, offset:2, enable:1
}

func (b *vramBank) enabled() bool { return b.cnt&(1<<7) != 0 }
func (b *vramBank) mst() uint8    { return b.cnt & 0x7 }
func (b *vramBank) offset() uint8 { return (b.cnt >> 3) & 0x3 }

// bankSizes in bytes, per real NDS hardware: A-D 128K, E 64K, F/G 16K, H 32K, I 16K.
var vramBankSizes = [9]int{128 * 1024, 128 * 1024, 128 * 1024, 128 * 1024, 64 * 1024, 16 * 1024, 16 * 1024, 32 * 1024, 16 * 1024}

// VRAM owns the 9 banks and the logical region page tables from spec.md §4.11/§C12.
type VRAM struct {
	sys    *System
	bank   [9]vramBank
	region [numRegions][]regionPage

	vramstat uint8
}

// regionSizeBytes is a generous fixed size per logical region (in 4 KiB
// pages) sized to the largest real assignment for that region.
var regionPageCounts = [numRegions]int{128, 32, 64, 16, 176, 32, 32, 8, 8, 8, 8, 8}

func newVRAM(sys *System) *VRAM {
	v := &VRAM{sys: sys}
	for i := range v.bank {
		v.bank[i] = vramBank{id: i, size: vramBankSizes[i], buf: make([]byte, vramBankSizes[i])}
	}
	for r := range v.region {
		v.region[r] = make([]regionPage, regionPageCounts[r])
	}
	return v
}

func (v *VRAM) reset() {
	for i := range v.bank {
		v.bank[i].cnt = 0
		for j := range v.bank[i].buf {
			v.bank[i].buf[j] = 0
		}
	}
	for r := range v.region {
		for p := range v.region[r] {
			v.region[r][p].banks = nil
		}
	}
	v.vramstat = 0
}

// vramAssignment is one row of the hardware-defined MST/offset -> region
// mapping table from spec.md §4.11, grounded on original_source's
// core/video/vram.rs bank-assignment tables.
type vramAssignment struct {
	bankID        int
	mst           uint8
	offset        uint8
	region        vramRegion
	regionOffset  int // in pages
	lengthPages   int
}

func vramAssignmentTable() []vramAssignment {
	return []vramAssignment{
		// Bank A-D: MST 0 = LCDC, 1 = BG (offset selects 128K slot), 2 = OBJ, 3 = texture data, 4 = tex palette (A/B only)
		{0, 1, 0, regionBGA, 0, 32}, {0, 1, 1, regionBGA, 32, 32}, {0, 1, 2, regionBGA, 64, 32}, {0, 1, 3, regionBGA, 96, 32},
		{0, 2, 0, regionOBJA, 0, 32}, {0, 2, 1, regionOBJA, 32, 32},
		{0, 3, 0, regionTexData, 0, 32}, {0, 3, 1, regionTexData, 32, 32}, {0, 3, 2, regionTexData, 64, 32}, {0, 3, 3, regionTexData, 96, 32},
		{1, 1, 0, regionBGA, 0, 32}, {1, 1, 1, regionBGA, 32, 32}, {1, 1, 2, regionBGA, 64, 32}, {1, 1, 3, regionBGA, 96, 32},
		{1, 2, 0, regionOBJA, 0, 32}, {1, 2, 1, regionOBJA, 32, 32},
		{1, 3, 0, regionTexData, 0, 32}, {1, 3, 1, regionTexData, 32, 32}, {1, 3, 2, regionTexData, 64, 32}, {1, 3, 3, regionTexData, 96, 32},
		{2, 1, 0, regionBGA, 0, 16}, {2, 1, 1, regionBGA, 16, 16}, {2, 1, 2, regionBGA, 32, 16}, {2, 1, 3, regionBGA, 48, 16},
		{2, 2, 0, regionARM7, 0, 16}, {2, 2, 1, regionARM7, 16, 16},
		{2, 4, 0, regionTexPal, 0, 16},
		{3, 1, 0, regionBGA, 0, 16}, {3, 1, 1, regionBGA, 16, 16}, {3, 1, 2, regionBGA, 32, 16}, {3, 1, 3, regionBGA, 48, 16},
		{3, 2, 0, regionARM7, 0, 16}, {3, 2, 1, regionARM7, 16, 16},
		{3, 4, 0, regionTexPal, 16, 16},
		{4, 1, 0, regionBGA, 0, 16},
		{4, 2, 0, regionOBJA, 0, 16},
		{4, 3, 0, regionTexPal, 0, 4},
		{4, 4, 0, regionBGAExtPal, 0, 8},
		{5, 1, 0, regionBGA, 0, 4}, {5, 1, 1, regionBGA, 4, 4}, {5, 1, 2, regionBGA, 16, 4}, {5, 1, 3, regionBGA, 20, 4},
		{5, 2, 0, regionOBJA, 0, 4}, {5, 2, 1, regionOBJA, 4, 4}, {5, 2, 2, regionOBJA, 16, 4}, {5, 2, 3, regionOBJA, 20, 4},
		{5, 3, 0, regionTexPal, 0, 1}, {5, 3, 1, regionTexPal, 1, 1}, {5, 3, 2, regionTexPal, 4, 1}, {5, 3, 3, regionTexPal, 5, 1},
		{5, 4, 0, regionBGAExtPal, 0, 4}, {5, 4, 2, regionOBJAExtPal, 0, 4},
		{6, 1, 0, regionBGA, 0, 4}, {6, 1, 1, regionBGA, 4, 4}, {6, 1, 2, regionBGA, 16, 4}, {6, 1, 3, regionBGA, 20, 4},
		{6, 2, 0, regionOBJA, 0, 4}, {6, 2, 1, regionOBJA, 4, 4}, {6, 2, 2, regionOBJA, 16, 4}, {6, 2, 3, regionOBJA, 20, 4},
		{6, 3, 0, regionTexPal, 0, 1}, {6, 3, 1, regionTexPal, 1, 1}, {6, 3, 2, regionTexPal, 4, 1}, {6, 3, 3, regionTexPal, 5, 1},
		{6, 4, 0, regionBGAExtPal, 0, 4}, {6, 4, 2, regionOBJAExtPal, 0, 4},
		{7, 1, 0, regionBGB, 0, 32}, {7, 1, 1, regionBGB, 32, 32},
		{7, 2, 0, regionTexData, 0, 8},
		{7, 3, 0, regionBGBExtPal, 0, 8},
		{8, 1, 0, regionOBJB, 0, 16},
		{8, 2, 0, regionTexData, 0, 4},
		{8, 3, 0, regionOBJBExtPal, 0, 8},
	}
}

// WriteVRAMCNT implements spec.md §4.11's write procedure: clear all pages
// belonging to any bank, then remap every enabled bank per the assignment
// table, then update VRAMSTAT.
func (v *VRAM) WriteVRAMCNT(bankIdx int, val uint8) {
	v.bank[bankIdx].cnt = val
	v.remap()
}

func (v *VRAM) remap() {
	for r := range v.region {
		for p := range v.region[r] {
			v.region[r][p].banks = nil
		}
	}
	for _, a := range vramAssignmentTable() {
		b := &v.bank[a.bankID]
		if !b.enabled() || b.mst() != a.mst || b.offset() != a.offset {
			continue
		}
		for p := 0; p < a.lengthPages; p++ {
			ridx := a.regionOffset + p
			if ridx >= len(v.region[a.region]) {
				break
			}
			start := p * vramPageSize
			if start >= len(b.buf) {
				break
			}
			v.region[a.region][ridx].banks = append(v.region[a.region][ridx].banks, b.buf[start:])
		}
	}
	v.vramstat = 0
	if v.bank[2].enabled() && v.bank[2].mst() == 2 {
		v.vramstat |= 1
	}
	if v.bank[3].enabled() && v.bank[3].mst() == 2 {
		v.vramstat |= 2
	}
}

func (v *VRAM) readRegion(region vramRegion, offset int) uint8 {
	page := offset / vramPageSize
	if page >= len(v.region[region]) {
		return 0
	}
	banks := v.region[region][page].banks
	if len(banks) == 0 {
		return 0
	}
	within := offset % vramPageSize
	var acc uint8
	for _, buf := range banks {
		if within < len(buf) {
			acc |= buf[within]
		}
	}
	return acc
}

func (v *VRAM) writeRegion(region vramRegion, offset int, val uint8) {
	page := offset / vramPageSize
	if page >= len(v.region[region]) {
		return
	}
	within := offset % vramPageSize
	for _, buf := range v.region[region][page].banks {
		if within < len(buf) {
			buf[within] = val
		}
	}
}

// read32/write32/read16/write16/write8 service the 0x06xxxxxx bus range
// from the memory router, routing by (addr>>20)&0xF to the logical region
// per spec.md §4.4.
func addrToRegion(addr uint32) (vramRegion, int) {
	slot := (addr >> 20) & 0xF
	switch {
	case slot < 8:
		return regionBGA, int(addr & 0xFFFFF)
	case slot < 10:
		return regionOBJA, int(addr & 0x3FFFF)
	default:
		return regionLCDC, int(addr & 0xFFFFF)
	}
}

func (v *VRAM) read32(addr uint32) uint32 {
	region, off := addrToRegion(addr)
	off &^= 3
	var val uint32
	for i := 0; i < 4; i++ {
		val |= uint32(v.readRegion(region, off+i)) << (8 * i)
	}
	return val
}

func (v *VRAM) write32(addr, val uint32) {
	region, off := addrToRegion(addr)
	off &^= 3
	for i := 0; i < 4; i++ {
		v.writeRegion(region, off+i, uint8(val>>(8*i)))
	}
}

func (v *VRAM) write16(addr uint32, val uint16) {
	region, off := addrToRegion(addr)
	off &^= 1
	v.writeRegion(region, off, uint8(val))
	v.writeRegion(region, off+1, uint8(val>>8))
}

func (v *VRAM) write8(addr uint32, val uint8) {
	region, off := addrToRegion(addr)
	v.writeRegion(region, off, val)
}
