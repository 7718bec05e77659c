package duocore

// shiftResult carries the shifted value plus the carry-out the ALU may fold
// into the C flag, per spec.md §4.2's two carry-out conventions (shift-by-
// immediate vs shift-by-register).
type shiftResult struct {
	value    uint32
	carryOut bool
}

// barrelShiftImmediate implements LSL/LSR/ASR/ROR with an immediate shift
// amount, including the documented special cases in spec.md §8:
// "LSR#0 -> >>32, ASR#0 -> >>32 arith, ROR#0 -> RRX".
func barrelShiftImmediate(shiftType uint8, value uint32, amount uint8, carryIn bool) shiftResult {
	switch shiftType {
	case 0: // LSL
		if amount == 0 {
			return shiftResult{value, carryIn}
		}
		return shiftResult{value << amount, (value>>(32-amount))&1 != 0}
	case 1: // LSR
		if amount == 0 {
			return shiftResult{0, value&(1<<31) != 0}
		}
		return shiftResult{value >> amount, (value>>(amount-1))&1 != 0}
	case 2: // ASR
		if amount == 0 {
			if value&(1<<31) != 0 {
				return shiftResult{0xFFFFFFFF, true}
			}
			return shiftResult{0, false}
		}
		return shiftResult{uint32(int32(value) >> amount), (value>>(amount-1))&1 != 0}
	case 3: // ROR
		if amount == 0 { // RRX
			out := value&1 != 0
			res := value >> 1
			if carryIn {
				res |= 1 << 31
			}
			return shiftResult{res, out}
		}
		amount &= 31
		if amount == 0 {
			return shiftResult{value, value&(1<<31) != 0}
		}
		return shiftResult{(value >> amount) | (value << (32 - amount)), (value>>(amount-1))&1 != 0}
	}
	return shiftResult{value, carryIn}
}

// barrelShiftRegister implements the shift-by-register convention: amount 0
// for LSL/LSR/ASR/ROR all leave the value unchanged, per spec.md §8's
// round-trip law.
func barrelShiftRegister(shiftType uint8, value uint32, amount uint8, carryIn bool) shiftResult {
	if amount == 0 {
		return shiftResult{value, carryIn}
	}
	switch shiftType {
	case 0: // LSL
		if amount >= 32 {
			if amount == 32 {
				return shiftResult{0, value&1 != 0}
			}
			return shiftResult{0, false}
		}
		return shiftResult{value << amount, (value>>(32-amount))&1 != 0}
	case 1: // LSR
		if amount >= 32 {
			if amount == 32 {
				return shiftResult{0, value&(1<<31) != 0}
			}
			return shiftResult{0, false}
		}
		return shiftResult{value >> amount, (value>>(amount-1))&1 != 0}
	case 2: // ASR
		if amount >= 32 {
			if value&(1<<31) != 0 {
				return shiftResult{0xFFFFFFFF, true}
			}
			return shiftResult{0, false}
		}
		return shiftResult{uint32(int32(value) >> amount), (value>>(amount-1))&1 != 0}
	case 3: // ROR
		amount &= 31
		if amount == 0 {
			return shiftResult{value, value&(1<<31) != 0}
		}
		return shiftResult{(value >> amount) | (value << (32 - amount)), (value>>(amount-1))&1 != 0}
	}
	return shiftResult{value, carryIn}
}

// aluResult carries the computed value plus flags for ops that set them.
type aluResult struct {
	value      uint32
	c, v, z, n bool
}

func flagsFromValue(v uint32) (z, n bool) {
	return v == 0, v&(1<<31) != 0
}

func addWithCarry(a, b uint32, carryIn bool) aluResult {
	var cin uint64
	if carryIn {
		cin = 1
	}
	sum := uint64(a) + uint64(b) + cin
	result := uint32(sum)
	z, n := flagsFromValue(result)
	carryOut := sum > 0xFFFFFFFF
	overflow := (a^b)&0x80000000 == 0 && (a^result)&0x80000000 != 0
	return aluResult{result, carryOut, overflow, z, n}
}

func subWithCarry(a, b uint32, carryIn bool) aluResult {
	var borrow uint32
	if !carryIn {
		borrow = 1
	}
	return addWithCarry(a, ^b, borrow == 0)
}

// aluOp implements the standard data-processing op set from spec.md §4.2.
// opcode follows the ARM DP opcode field (0-15): AND EOR SUB RSB ADD ADC SBC
// RSC TST TEQ CMP CMN ORR MOV BIC MVN.
func aluOp(opcode uint8, op1, op2 uint32, carryIn bool) aluResult {
	switch opcode {
	case 0x0, 0x8: // AND, TST
		r := op1 & op2
		z, n := flagsFromValue(r)
		return aluResult{r, carryIn, false, z, n}
	case 0x1, 0x9: // EOR, TEQ
		r := op1 ^ op2
		z, n := flagsFromValue(r)
		return aluResult{r, carryIn, false, z, n}
	case 0x2, 0xA: // SUB, CMP
		return subWithCarry(op1, op2, true)
	case 0x3: // RSB
		return subWithCarry(op2, op1, true)
	case 0x4, 0xB: // ADD, CMN
		return addWithCarry(op1, op2, false)
	case 0x5: // ADC
		return addWithCarry(op1, op2, carryIn)
	case 0x6: // SBC
		return subWithCarry(op1, op2, carryIn)
	case 0x7: // RSC
		return subWithCarry(op2, op1, carryIn)
	case 0xC: // ORR
		r := op1 | op2
		z, n := flagsFromValue(r)
		return aluResult{r, carryIn, false, z, n}
	case 0xD: // MOV
		z, n := flagsFromValue(op2)
		return aluResult{op2, carryIn, false, z, n}
	case 0xE: // BIC
		r := op1 &^ op2
		z, n := flagsFromValue(r)
		return aluResult{r, carryIn, false, z, n}
	case 0xF: // MVN
		r := ^op2
		z, n := flagsFromValue(r)
		return aluResult{r, carryIn, false, z, n}
	}
	z, n := flagsFromValue(op2)
	return aluResult{op2, carryIn, false, z, n}
}

// isTestOp reports whether the opcode (TST/TEQ/CMP/CMN) writes only flags,
// never the destination register.
func isTestOp(opcode uint8) bool {
	switch opcode {
	case 0x8, 0x9, 0xA, 0xB:
		return true
	}
	return false
}

// saturatingAdd/Sub implement the Q-flag-setting saturating variants named
// in spec.md §4.2.
func saturatingAdd(a, b int32) (result int32, saturated bool) {
	r := int64(a) + int64(b)
	if r > 0x7FFFFFFF {
		return 0x7FFFFFFF, true
	}
	if r < -0x80000000 {
		return -0x80000000, true
	}
	return int32(r), false
}

func saturatingSub(a, b int32) (result int32, saturated bool) {
	r := int64(a) - int64(b)
	if r > 0x7FFFFFFF {
		return 0x7FFFFFFF, true
	}
	if r < -0x80000000 {
		return -0x80000000, true
	}
	return int32(r), false
}
