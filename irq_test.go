package duocore

import "testing"

func TestIRQWriteIFClearsOnWriteOne(t *testing.T) {
	cpu := &armCore{later: true}
	r := newIRQController(cpu)
	r.iF = IRQVBlank | IRQHBlank
	r.WriteIF(IRQVBlank, 0xFFFFFFFF)
	if r.iF&IRQVBlank != 0 {
		t.Fatal("write-1-to-clear should have cleared IRQVBlank")
	}
	if r.iF&IRQHBlank == 0 {
		t.Fatal("IRQHBlank was not targeted and should remain set")
	}
}

func TestIRQLaterVariantWakesOnlyWithIME(t *testing.T) {
	cpu := &armCore{later: true}
	cpu.halted = true
	r := newIRQController(cpu)
	r.WriteIE(IRQTimer0, 0xFFFFFFFF)

	r.Raise(IRQTimer0)
	if !cpu.halted {
		t.Fatal("later-variant CPU should stay halted while IME is clear")
	}

	r.WriteIME(1, 1)
	cpu.halted = true
	r.Raise(IRQTimer0)
	if cpu.halted {
		t.Fatal("later-variant CPU should wake once IME is set and IE matches")
	}
}

func TestIRQEarlierVariantWakesOnIEAloneRegardlessOfIME(t *testing.T) {
	cpu := &armCore{later: false}
	cpu.halted = true
	r := newIRQController(cpu)
	r.WriteIE(IRQTimer0, 0xFFFFFFFF)

	r.Raise(IRQTimer0)
	if cpu.halted {
		t.Fatal("earlier-variant CPU should wake on IE alone, even with IME clear")
	}
}

func TestIRQLineAssertedRequiresIMEAndMatchingBits(t *testing.T) {
	cpu := &armCore{later: true}
	r := newIRQController(cpu)
	r.WriteIE(IRQDMA0, 0xFFFFFFFF)
	r.Raise(IRQDMA0)
	if r.line() {
		t.Fatal("line should not assert while IME is clear")
	}
	r.WriteIME(1, 1)
	if !r.line() {
		t.Fatal("line should assert once IME is set and IE&IF is non-zero")
	}
}
