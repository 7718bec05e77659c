package duocore

import "testing"

func TestCompilePattern(t *testing.T) {
	mask, value := compilePattern("00x1")
	if mask != 0b1101 {
		t.Fatalf("mask = %04b, want 1101", mask)
	}
	if value != 0b0001 {
		t.Fatalf("value = %04b, want 0001", value)
	}
}

func TestArmDecodeIndexExtractsBits27to20And7to4(t *testing.T) {
	// bits [27:20] = 0xE5, bits [7:4] = 0x1
	instr := uint32(0xE5<<20) | uint32(0x1<<4)
	got := armDecodeIndex(instr)
	want := uint32(0xE5<<4) | 0x1
	if got != want {
		t.Fatalf("armDecodeIndex = %#x, want %#x", got, want)
	}
}

func TestThumbDecodeIndexExtractsTop10Bits(t *testing.T) {
	instr := uint16(0x3FF << 6)
	if got := thumbDecodeIndex(instr); got != 0x3FF {
		t.Fatalf("thumbDecodeIndex = %#x, want 0x3ff", got)
	}
}

func TestBuildArmTableMoreSpecificPatternWins(t *testing.T) {
	var genericHit, specificHit bool
	generic := func(c *armCore, instr uint32) { genericHit = true }
	specific := func(c *armCore, instr uint32) { specificHit = true }

	patterns := []decodePattern{
		{pattern: "xxxxxxxxxxxx", handler: armHandler(generic)},
		{pattern: "000000000001", handler: armHandler(specific)},
	}
	table := buildArmTable(patterns)
	table[1](nil, 0)
	if !specificHit || genericHit {
		t.Fatalf("specificHit=%v genericHit=%v, want specific pattern to win index 1", specificHit, genericHit)
	}

	genericHit, specificHit = false, false
	table[2](nil, 0)
	if !genericHit || specificHit {
		t.Fatalf("specificHit=%v genericHit=%v, want generic pattern to match index 2", specificHit, genericHit)
	}
}

func TestBuildArmTableUnmatchedIndexIsIllegal(t *testing.T) {
	table := buildArmTable(nil)
	for idx := range table {
		if table[idx] == nil {
			t.Fatalf("index %d has a nil handler, want armIllegal fallback", idx)
		}
	}
}
