package duocore

// Exception kinds and their vector offsets, per spec.md §4.2.
type exceptionKind int

const (
	excUndef exceptionKind = iota
	excSWI
	excIRQ
	excFIQ
	excAbort
)

func (e exceptionKind) targetMode() cpuMode {
	switch e {
	case excUndef:
		return modeUND
	case excSWI:
		return modeSVC
	case excIRQ:
		return modeIRQ
	case excFIQ:
		return modeFIQ
	case excAbort:
		return modeABT
	}
	return modeSVC
}

func (e exceptionKind) vectorOffset() uint32 {
	switch e {
	case excUndef:
		return 0x04
	case excSWI:
		return 0x08
	case excAbort:
		return 0x10
	case excIRQ:
		return 0x18
	case excFIQ:
		return 0x1C
	}
	return 0x00
}

// lrBackOffset returns how far behind the current (already-pipelined-ahead)
// PC the correct return address sits, per spec.md §4.2's "return address in
// LR adjusted by +0/+4/+8 depending on exception type and prior mode." At
// entry r15 already holds instr_addr+8 (32-bit) or instr_addr+4 (16-bit)
// thanks to the two-slot prefetch, so all trap kinds here resolve to "the
// instruction after the one that trapped."
func (e exceptionKind) lrBackOffset(thumbAtEntry bool) uint32 {
	if thumbAtEntry {
		return 2
	}
	return 4
}

// enterException implements spec.md §4.2's exception-entry sequence:
// save CPSR to target bank's SPSR, switch mode, set irq_disable (and
// fiq_disable for FIQ), clear Thumb, record LR, load PC from the vector
// base, and flush the pipeline in 32-bit mode.
func (c *armCore) enterException(kind exceptionKind) {
	thumbAtEntry := c.cpsr.thumb
	returnPC := c.r[15] - kind.lrBackOffset(thumbAtEntry)

	savedCPSR := c.cpsr
	target := kind.targetMode()
	c.switchMode(target)
	*c.currentSPSRForBank(bankForMode(target)) = savedCPSR

	c.r[14] = returnPC
	c.cpsr.irqDisabl = true
	if kind == excFIQ {
		c.cpsr.fiqDisabl = true
	}
	c.cpsr.thumb = false

	c.halted = false
	c.writePC(c.exceptionVectorBase() + kind.vectorOffset())
}

// currentSPSRForBank returns the SPSR slot for an arbitrary bank (used right
// after switchMode, when cpsr.mode already reflects the new bank).
func (c *armCore) currentSPSRForBank(b bankID) *psr {
	if b == bankUSR {
		return &c.cpsr
	}
	return &c.spsr[b]
}

// exceptionVectorBase returns the CPU's vectorBase field. Both variants start
// at the low (0x00000000) bank and nothing in this engine changes it, so the
// later variant's high vector bank is not modelled.
func (c *armCore) exceptionVectorBase() uint32 {
	return c.vectorBase
}
