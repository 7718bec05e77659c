package duocore

import "testing"

func TestPageTableMapLookupUnmap(t *testing.T) {
	pt := NewPageTable()
	buf := make([]byte, 64*1024)
	for i := range buf {
		buf[i] = byte(i)
	}

	pt.Map(0x02000000, 0x02010000, buf, 0xFFFF)

	host, off := pt.Lookup(0x02000010)
	if host == nil {
		t.Fatal("expected mapped page, got nil host")
	}
	if off != 0x10 {
		t.Fatalf("offset = %#x, want 0x10", off)
	}
	if host[off] != buf[0x10] {
		t.Fatalf("host[off] = %d, want %d", host[off], buf[0x10])
	}

	pt.Unmap(0x02000000, 0x02010000)
	host, _ = pt.Lookup(0x02000010)
	if host != nil {
		t.Fatal("expected unmapped page to return nil host")
	}
}

func TestPageTableLookupUnmappedReturnsNil(t *testing.T) {
	pt := NewPageTable()
	host, off := pt.Lookup(0x05000000)
	if host != nil || off != 0 {
		t.Fatalf("Lookup on empty table = (%v, %#x), want (nil, 0)", host, off)
	}
}

// TestPageTableMirroring exercises the mainRAM-mirroring use the memory
// router relies on: a buffer smaller than the mapped range, with an
// offsetMask that wraps addresses back into the buffer.
func TestPageTableMirroring(t *testing.T) {
	pt := NewPageTable()
	buf := make([]byte, pageSize) // one page, mirrored across a larger range
	buf[0] = 0xAB

	// offsetMask clears the low pageMask bits of the buffer's rounded-up
	// size, the same formula system.go's mapSharedMemory uses: a
	// single-page buffer mirrors with offsetMask == 0.
	pt.Map(0x02000000, 0x02000000+4*pageSize, buf, 0)

	for _, addr := range []uint32{0x02000000, 0x02000000 + pageSize, 0x02000000 + 3*pageSize} {
		host, off := pt.Lookup(addr)
		if host == nil {
			t.Fatalf("addr %#x: expected mapped", addr)
		}
		if off != 0 {
			t.Fatalf("addr %#x: offset = %#x, want 0 (mirrored)", addr, off)
		}
		if host[off] != 0xAB {
			t.Fatalf("addr %#x: mirrored byte = %#x, want 0xAB", addr, host[off])
		}
	}
}
