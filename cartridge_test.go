package duocore

import (
	"encoding/binary"
	"testing"
)

func makeTestROM(arm9Entry, arm7Entry uint32) []byte {
	rom := make([]byte, 0x200)
	binary.LittleEndian.PutUint32(rom[0x20:0x24], 0x1000)       // arm9 rom offset
	binary.LittleEndian.PutUint32(rom[0x24:0x28], arm9Entry)    // arm9 entry
	binary.LittleEndian.PutUint32(rom[0x28:0x2C], 0x02000000)   // arm9 ram addr
	binary.LittleEndian.PutUint32(rom[0x2C:0x30], 0)            // arm9 size (nothing to copy, rom is short)
	binary.LittleEndian.PutUint32(rom[0x30:0x34], 0x1000)       // arm7 rom offset
	binary.LittleEndian.PutUint32(rom[0x34:0x38], arm7Entry)    // arm7 entry
	binary.LittleEndian.PutUint32(rom[0x38:0x3C], 0x02380000)   // arm7 ram addr
	binary.LittleEndian.PutUint32(rom[0x3C:0x40], 0)            // arm7 size
	return rom
}

func TestParseCartridgeHeader(t *testing.T) {
	rom := makeTestROM(0x02000000, 0x02380000)
	h := parseCartridgeHeader(rom)
	if h.arm9RomOffset != 0x1000 {
		t.Fatalf("arm9RomOffset = %#x, want 0x1000", h.arm9RomOffset)
	}
	if h.arm9EntryAddr != 0x02000000 {
		t.Fatalf("arm9EntryAddr = %#x, want 0x02000000", h.arm9EntryAddr)
	}
	if h.arm7EntryAddr != 0x02380000 {
		t.Fatalf("arm7EntryAddr = %#x, want 0x02380000", h.arm7EntryAddr)
	}
}

func TestParseCartridgeHeaderTooShort(t *testing.T) {
	h := parseCartridgeHeader(make([]byte, 0x10))
	if h.arm9EntryAddr != 0 {
		t.Fatal("short ROM should parse to a zero header, not panic")
	}
}

func TestDirectBootPrimesBothCPUs(t *testing.T) {
	rom := makeTestROM(0x02000000, 0x02380000)
	sys := NewSystem(BootConfig{ROM: rom, DirectBoot: true})

	arm9 := sys.CPU(0)
	arm7 := sys.CPU(1)

	if pc := arm9.GetPC(); pc != 0x02000000 {
		t.Fatalf("arm9 PC = %#x, want 0x02000000", pc)
	}
	if pc := arm7.GetPC(); pc != 0x02380000 {
		t.Fatalf("arm7 PC = %#x, want 0x02380000", pc)
	}
	if sp, ok := arm9.GetRegister("SP"); !ok || sp != 0x03002F7C {
		t.Fatalf("arm9 SP = %#x, ok=%v, want 0x03002F7C", sp, ok)
	}
	if sp, ok := arm7.GetRegister("SP"); !ok || sp != 0x0380FD80 {
		t.Fatalf("arm7 SP = %#x, ok=%v, want 0x0380FD80", sp, ok)
	}
}

func TestCartridgeRomctrlBlockReadStream(t *testing.T) {
	rom := makeTestROM(0x02000000, 0x02380000)
	rom = append(rom, make([]byte, 0x1000)...) // extend past the 0x1000 read offset
	binary.LittleEndian.PutUint32(rom[0x1000:0x1004], 0xCAFEBABE)
	c := newCartridge(nil, rom)
	c.romctrl = 1 << 24 // shift=1 -> blockSize 0x200

	c.WriteCommand([8]byte{0xB7, 0x00, 0x00, 0x10, 0x00})
	if c.transferComplete() {
		t.Fatal("expected pending transfer right after WriteCommand")
	}
	word := c.ReadData()
	if word != 0xCAFEBABE {
		t.Fatalf("ReadData() = %#x, want 0xCAFEBABE", word)
	}
}
