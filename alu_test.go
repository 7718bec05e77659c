package duocore

import "testing"

func TestBarrelShiftImmediateSpecialCases(t *testing.T) {
	cases := []struct {
		name       string
		shiftType  uint8
		value      uint32
		amount     uint8
		carryIn    bool
		wantValue  uint32
		wantCarry  bool
	}{
		{"LSL#0 passthrough", 0, 0xABCD1234, 0, true, 0xABCD1234, true},
		{"LSR#0 means >>32", 1, 0x80000000, 0, false, 0, true},
		{"LSR#0 zero MSB", 1, 0x7FFFFFFF, 0, false, 0, false},
		{"ASR#0 means arithmetic >>32, negative", 2, 0x80000000, 0, false, 0xFFFFFFFF, true},
		{"ASR#0 means arithmetic >>32, positive", 2, 0x7FFFFFFF, 0, false, 0, false},
		{"ROR#0 means RRX with carry in", 3, 0x00000002, 0, true, 0x80000001, false},
		{"ROR#0 means RRX with no carry in", 3, 0x00000003, 0, false, 0x00000001, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := barrelShiftImmediate(c.shiftType, c.value, c.amount, c.carryIn)
			if got.value != c.wantValue || got.carryOut != c.wantCarry {
				t.Fatalf("got {%#x, %v}, want {%#x, %v}", got.value, got.carryOut, c.wantValue, c.wantCarry)
			}
		})
	}
}

func TestBarrelShiftRegisterAmountZeroIsIdentity(t *testing.T) {
	for shiftType := uint8(0); shiftType < 4; shiftType++ {
		got := barrelShiftRegister(shiftType, 0x12345678, 0, true)
		if got.value != 0x12345678 || !got.carryOut {
			t.Fatalf("shiftType %d: amount 0 changed value/carry: %+v", shiftType, got)
		}
	}
}

func TestBarrelShiftRegisterLSLBy32(t *testing.T) {
	got := barrelShiftRegister(0, 0x00000001, 32, false)
	if got.value != 0 || !got.carryOut {
		t.Fatalf("LSL by 32 of bit0-set value: got %+v, want {0, true}", got)
	}
}

func TestBarrelShiftRegisterLSLByMoreThan32IsZero(t *testing.T) {
	got := barrelShiftRegister(0, 0xFFFFFFFF, 33, true)
	if got.value != 0 || got.carryOut {
		t.Fatalf("LSL by 33: got %+v, want {0, false}", got)
	}
}

func TestAddWithCarryOverflowFlag(t *testing.T) {
	res := addWithCarry(0x7FFFFFFF, 1, false)
	if !res.v {
		t.Fatal("expected signed overflow flag set for INT32_MAX + 1")
	}
	if res.value != 0x80000000 {
		t.Fatalf("value = %#x, want 0x80000000", res.value)
	}
}

func TestSubWithCarryBorrow(t *testing.T) {
	res := subWithCarry(0, 1, true)
	if res.c {
		t.Fatal("expected carry clear (borrow occurred) for 0 - 1")
	}
	if res.value != 0xFFFFFFFF {
		t.Fatalf("value = %#x, want 0xffffffff", res.value)
	}
}
