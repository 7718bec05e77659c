package duocore

import "testing"

func TestMathUnitDivide32(t *testing.T) {
	u := newMathUnit(nil)
	u.writeReg(0x10, 100, 0xFFFFFFFF) // numer low word
	u.writeReg(0x18, 7, 0xFFFFFFFF)   // denom low word
	if got := int32(u.quot); got != 14 {
		t.Fatalf("quot = %d, want 14", got)
	}
	if got := int32(u.rem); got != 2 {
		t.Fatalf("rem = %d, want 2", got)
	}
}

func TestMathUnitDivideByZero(t *testing.T) {
	u := newMathUnit(nil)
	u.writeReg(0x10, 0xFFFFFFCE, 0xFFFFFFFF) // numer = -50
	u.writeReg(0x18, 0, 0xFFFFFFFF)
	if u.divcnt&(1<<14) == 0 {
		t.Fatal("expected division-by-zero flag set")
	}
	if got := int32(uint32(u.quot)); got != 1 {
		t.Fatalf("quot = %d, want +1 for a negative numerator", got)
	}
	if int32(u.rem) != -50 {
		t.Fatalf("rem = %d, want numerator echoed back", int32(u.rem))
	}

	u.writeReg(0x10, 5, 0xFFFFFFFF)
	u.writeReg(0x18, 0, 0xFFFFFFFF)
	if got := int32(uint32(u.quot)); got != -1 {
		t.Fatalf("quot = %d, want -1 (all-ones) for a positive numerator", got)
	}
	if int32(u.rem) != 5 {
		t.Fatalf("rem = %d, want numerator echoed back", int32(u.rem))
	}

	u.writeReg(0x10, 0, 0xFFFFFFFF)
	u.writeReg(0x18, 0, 0xFFFFFFFF)
	if got := int32(uint32(u.quot)); got != -1 {
		t.Fatalf("quot = %d, want -1 (all-ones) for a zero numerator", got)
	}
	if u.rem != 0 {
		t.Fatalf("rem = %d, want 0", u.rem)
	}
}

func TestMathUnitDivideMinIntOverflow(t *testing.T) {
	u := newMathUnit(nil)
	u.writeReg(0x00, 0, 0xFFFF) // mode 0: 32/32
	u.writeReg(0x10, 0x80000000, 0xFFFFFFFF) // numer = INT32_MIN
	u.writeReg(0x18, 0xFFFFFFFF, 0xFFFFFFFF) // denom = -1
	if u.quot != 0x80000000 {
		t.Fatalf("quot = %#x, want 0x80000000 (MIN_INT echoed back)", u.quot)
	}
	if u.rem != 0 {
		t.Fatalf("rem = %d, want 0", u.rem)
	}
}

func TestMathUnitSqrt(t *testing.T) {
	u := newMathUnit(nil)
	u.writeReg(0x38, 144, 0xFFFFFFFF)
	if u.sqrtResult != 12 {
		t.Fatalf("sqrtResult = %d, want 12", u.sqrtResult)
	}

	u.writeReg(0x38, 150, 0xFFFFFFFF)
	if u.sqrtResult != 12 {
		t.Fatalf("sqrtResult = %d, want 12 (floor of sqrt(150))", u.sqrtResult)
	}
}

func TestMathUnitReset(t *testing.T) {
	u := newMathUnit(nil)
	u.writeReg(0x38, 144, 0xFFFFFFFF)
	u.reset()
	if u.sqrtResult != 0 || u.sqrtParam != 0 {
		t.Fatal("reset did not clear math unit state")
	}
}
