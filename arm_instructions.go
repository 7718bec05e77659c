package duocore

// armPatterns lists the 32-bit decode table entries per spec.md §4.3. Each
// pattern is 12 bits wide, matching index bits [27:20]##[7:4]. The handler
// set here covers data processing, branches, single/halfword/block
// load-store, multiply, status-register transfer, and software interrupt -
// the families exercised by the spec's own end-to-end scenarios and
// testable properties; additional opcodes slot into the same mechanism by
// adding more pattern rows (see DESIGN.md).
//
// Every pattern below is exactly 12 characters: the 8 bits of instr[27:20]
// followed by the 4 bits of instr[7:4] - the two fields concatenated into
// the decode index by armDecodeIndex. Bits that belong to operand/register
// fields outside that 12-bit window (Rn, Rd, Rm, immediates, register
// lists, shift amounts) are not part of any pattern; handlers re-extract
// them from the full instruction word.
func armPatterns() []decodePattern {
	var p []decodePattern

	// Data processing: bits[27:26]=00, bit25=I, bits[24:21]=opcode, bit20=S
	// (wildcarded - the handler reads it directly). bits[7:4] vary with the
	// operand2 form in ways irrelevant to routing, so they are wildcarded.
	for op := 0; op < 16; op++ {
		opBits := bitsOf(op, 4)
		p = append(p, decodePattern{"00" + "0" + opBits + "x" + "xxxx", armHandler(armDataProcessing)}) // register operand2
		p = append(p, decodePattern{"00" + "1" + opBits + "x" + "xxxx", armHandler(armDataProcessing)}) // immediate operand2
	}

	// BX: cond 0001 0010 ... 0001 nnnn
	p = append(p, decodePattern{"00010010" + "0001", armHandler(armBX)})

	// Multiply / multiply-accumulate: 000000 A S ... 1001 mmmm
	p = append(p, decodePattern{"000000xx" + "1001", armHandler(armMultiply)})

	// Halfword/signed data transfer, register offset (bit22=0) and
	// immediate offset (bit22=1): 000 P U i W L ... 1SH1 mmmm/iiii
	p = append(p, decodePattern{"000xx0xx" + "1xx1", armHandler(armHalfwordTransfer)})
	p = append(p, decodePattern{"000xx1xx" + "1xx1", armHandler(armHalfwordTransfer)})

	// MRS: cond 00010 R 00 1111 ... 0000
	p = append(p, decodePattern{"00010x00" + "0000", armHandler(armMRS)})
	// MSR register: cond 00010 R 10 ... 0000 mmmm
	p = append(p, decodePattern{"00010x10" + "0000", armHandler(armMSR)})
	// MSR immediate: cond 00110 R 10 ... rot imm8 (bits[7:4] are imm8's low nibble)
	p = append(p, decodePattern{"00110x10" + "xxxx", armHandler(armMSR)})

	// Single data transfer (LDR/STR/B): 01 I P U B W L ...
	p = append(p, decodePattern{"01xxxxxx" + "xxxx", armHandler(armSingleTransfer)})

	// Block data transfer (LDM/STM): 100 P U S W L ...
	p = append(p, decodePattern{"100xxxxx" + "xxxx", armHandler(armBlockTransfer)})

	// Branch / branch with link: 101 L ...
	p = append(p, decodePattern{"101xxxxx" + "xxxx", armHandler(armBranch)})

	// Software interrupt: 1111 ...
	p = append(p, decodePattern{"1111xxxx" + "xxxx", armHandler(armSWI)})

	// Coprocessor register transfer (MCR/MRC) - bit4=1 marks register
	// transfer (vs CDP): 1110 oooo ... ooo1 mmmm
	p = append(p, decodePattern{"1110xxxx" + "xxx1", armHandler(armCoprocessor)})

	return p
}

func bitsOf(v, n int) string {
	s := make([]byte, n)
	for i := 0; i < n; i++ {
		bit := (v >> (n - 1 - i)) & 1
		s[i] = byte('0' + bit)
	}
	return string(s)
}

// operand2Register decodes the register-form shifter operand, returning
// value and (for S=1 data-processing) a carry-out candidate.
func (c *armCore) operand2Register(instr uint32) (uint32, bool) {
	rm := instr & 0xF
	val := c.r[rm]
	if rm == 15 {
		val = c.readPCOperand()
	}
	shiftType := uint8((instr >> 5) & 3)
	if instr&(1<<4) == 0 {
		amount := uint8((instr >> 7) & 0x1F)
		res := barrelShiftImmediate(shiftType, val, amount, c.cpsr.c)
		return res.value, res.carryOut
	}
	rs := (instr >> 8) & 0xF
	amount := uint8(c.r[rs])
	res := barrelShiftRegister(shiftType, val, amount, c.cpsr.c)
	return res.value, res.carryOut
}

func (c *armCore) operand2Immediate(instr uint32) (uint32, bool) {
	imm := instr & 0xFF
	rot := uint8((instr>>8)&0xF) * 2
	res := barrelShiftImmediate(3, imm, rot, c.cpsr.c)
	return res.value, res.carryOut
}

func armDataProcessing(c *armCore, instr uint32) {
	opcode := uint8((instr >> 21) & 0xF)
	s := instr&(1<<20) != 0
	rn := (instr >> 16) & 0xF
	rd := (instr >> 12) & 0xF

	var op1 uint32
	if rn == 15 {
		op1 = c.readPCOperand()
	} else {
		op1 = c.r[rn]
	}

	var op2 uint32
	var shiftCarry bool
	if instr&(1<<25) != 0 {
		op2, shiftCarry = c.operand2Immediate(instr)
	} else {
		op2, shiftCarry = c.operand2Register(instr)
	}

	res := aluOp(opcode, op1, op2, c.cpsr.c)

	if !isTestOp(opcode) {
		c.r[rd] = res.value
		if rd == 15 {
			if s {
				c.cpsr = *c.currentSPSR()
			}
			c.writePC(c.r[15])
			return
		}
	}
	if s {
		if opcode == 0x0 || opcode == 0x1 || opcode == 0x8 || opcode == 0x9 ||
			opcode == 0xC || opcode == 0xD || opcode == 0xE || opcode == 0xF {
			c.cpsr.c = shiftCarry
		} else {
			c.cpsr.c = res.c
			c.cpsr.v = res.v
		}
		c.cpsr.z = res.z
		c.cpsr.n = res.n
	}
}

func armBX(c *armCore, instr uint32) {
	rm := instr & 0xF
	target := c.r[rm]
	c.cpsr.thumb = target&1 != 0
	c.writePC(target &^ 1)
}

func armMultiply(c *armCore, instr uint32) {
	accumulate := instr&(1<<21) != 0
	s := instr&(1<<20) != 0
	rd := (instr >> 16) & 0xF
	rn := (instr >> 12) & 0xF
	rs := (instr >> 8) & 0xF
	rm := instr & 0xF

	result := c.r[rm] * c.r[rs]
	if accumulate {
		result += c.r[rn]
	}
	c.r[rd] = result
	if s {
		z, n := flagsFromValue(result)
		c.cpsr.z, c.cpsr.n = z, n
	}
}

func armHalfwordTransfer(c *armCore, instr uint32) {
	p := instr&(1<<24) != 0
	u := instr&(1<<23) != 0
	immForm := instr&(1<<22) != 0
	w := instr&(1<<21) != 0
	l := instr&(1<<20) != 0
	rn := (instr >> 16) & 0xF
	rd := (instr >> 12) & 0xF
	sh := uint8((instr >> 5) & 3)

	var offset uint32
	if immForm {
		offset = ((instr >> 4) & 0xF0) | (instr & 0xF)
	} else {
		offset = c.r[instr&0xF]
	}

	base := c.r[rn]
	addr := base
	if p {
		if u {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if l {
		var val uint32
		switch sh {
		case 1: // unsigned halfword
			val = uint32(c.Read16(addr))
		case 2: // signed byte
			val = uint32(int32(int8(c.Read8(addr))))
		case 3: // signed halfword
			val = uint32(int32(int16(c.Read16(addr))))
		}
		c.r[rd] = val
	} else {
		c.Write16(addr, uint16(c.r[rd]))
	}

	if !p {
		if u {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}
	if w || !p {
		c.r[rn] = addr
	}
}

func armMRS(c *armCore, instr uint32) {
	rd := (instr >> 12) & 0xF
	useSPSR := instr&(1<<22) != 0
	if useSPSR {
		c.r[rd] = c.currentSPSR().raw()
	} else {
		c.r[rd] = c.cpsr.raw()
	}
}

func armMSR(c *armCore, instr uint32) {
	useSPSR := instr&(1<<22) != 0
	flagsOnly := instr&(1<<16) == 0

	var val uint32
	if instr&(1<<25) != 0 {
		val, _ = c.operand2Immediate(instr)
	} else {
		val = c.r[instr&0xF]
	}

	target := &c.cpsr
	if useSPSR {
		target = c.currentSPSR()
	}
	if flagsOnly {
		updated := psrFromRaw(val)
		target.n, target.z, target.c, target.v, target.sat = updated.n, updated.z, updated.c, updated.v, updated.sat
	} else {
		*target = psrFromRaw(val)
	}
}

func armSingleTransfer(c *armCore, instr uint32) {
	immOffset := instr&(1<<25) == 0
	p := instr&(1<<24) != 0
	u := instr&(1<<23) != 0
	b := instr&(1<<22) != 0
	w := instr&(1<<21) != 0
	l := instr&(1<<20) != 0
	rn := (instr >> 16) & 0xF
	rd := (instr >> 12) & 0xF

	var offset uint32
	if immOffset {
		offset = instr & 0xFFF
	} else {
		offset, _ = c.operand2Register(instr)
	}

	base := c.r[rn]
	addr := base
	if p {
		if u {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if l {
		var val uint32
		if b {
			val = uint32(c.Read8(addr))
		} else {
			val = c.Read32(addr)
		}
		if rd == 15 {
			c.writePC(val &^ 3)
		} else {
			c.r[rd] = val
		}
	} else {
		if b {
			c.Write8(addr, uint8(c.r[rd]))
		} else {
			c.Write32(addr, c.r[rd])
		}
	}

	if !p {
		if u {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}
	if (w || !p) && rn != 15 {
		c.r[rn] = addr
	}
}

func armBlockTransfer(c *armCore, instr uint32) {
	p := instr&(1<<24) != 0
	u := instr&(1<<23) != 0
	w := instr&(1<<21) != 0
	l := instr&(1<<20) != 0
	rn := (instr >> 16) & 0xF
	regList := instr & 0xFFFF

	base := c.r[rn]
	count := popcount(regList)
	var start uint32
	if u {
		start = base
		if p {
			start += 4
		}
	} else {
		start = base - uint32(count)*4
		if !p {
			start += 4
		}
	}

	addr := start
	for i := 0; i < 16; i++ {
		if regList&(1<<i) == 0 {
			continue
		}
		if l {
			val := c.Read32(addr)
			if i == 15 {
				c.writePC(val &^ 3)
			} else {
				c.r[i] = val
			}
		} else {
			c.Write32(addr, c.r[i])
		}
		addr += 4
	}

	if w {
		if u {
			c.r[rn] = base + uint32(count)*4
		} else {
			c.r[rn] = base - uint32(count)*4
		}
	}
}

func armBranch(c *armCore, instr uint32) {
	link := instr&(1<<24) != 0
	offset := int32(instr&0xFFFFFF) << 8 >> 6 // sign-extend 24-bit, *4
	target := uint32(int32(c.r[15]) + offset)
	if instr>>28 == 0xF {
		// BLX (immediate), later variant only: bit 24 is the halfword offset,
		// the link is unconditional, and execution continues in Thumb state.
		if link {
			target += 2
		}
		c.r[14] = c.r[15] - 4
		c.cpsr.thumb = true
		c.writePC(target)
		return
	}
	if link {
		c.r[14] = c.r[15] - 4
	}
	c.writePC(target)
}

func armSWI(c *armCore, instr uint32) {
	c.enterException(excSWI)
}

// armCoprocessor stubs MCR/MRC: any coprocessor access from the CPU variant
// that doesn't own the math unit traps to UND, per spec.md §7 ("Undefined
// exception... coprocessor gating... not an error at the host level").
func armCoprocessor(c *armCore, instr uint32) {
	if !c.later {
		c.enterException(excUndef)
		return
	}
	// The later-variant CPU's math unit (C15) is MMIO-mapped, not
	// coprocessor-mapped in this design (spec.md §4.5 lists it under MMIO
	// offsets 0x280-0x2BF), so a genuine CDP/MCR/MRC here has no backing
	// coprocessor either.
	c.enterException(excUndef)
}
