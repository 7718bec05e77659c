package duocore

// thumbPatterns lists the 16-bit decode table entries per spec.md §4.3.
// Each pattern is exactly 10 characters, matching index bits[15:6].
func thumbPatterns() []decodePattern {
	var p []decodePattern

	// Format 1: move shifted register (LSL/LSR/ASR, op 0-2).
	for op := 0; op < 3; op++ {
		p = append(p, decodePattern{"000" + bitsOf(op, 2) + "xxxxx", thumbHandler(thumbMoveShifted)})
	}
	// Format 2: add/subtract (register or immediate operand).
	p = append(p, decodePattern{"00011xxxxx", thumbHandler(thumbAddSub)})
	// Format 3: move/compare/add/subtract immediate.
	for op := 0; op < 4; op++ {
		p = append(p, decodePattern{"001" + bitsOf(op, 2) + "xxxxx", thumbHandler(thumbImmediateOp)})
	}
	// Format 4: ALU operations.
	for op := 0; op < 16; op++ {
		p = append(p, decodePattern{"010000" + bitsOf(op, 4), thumbHandler(thumbALU)})
	}
	// Format 5: hi register operations / branch exchange.
	for op := 0; op < 4; op++ {
		p = append(p, decodePattern{"010001" + bitsOf(op, 2) + "xx", thumbHandler(thumbHiRegOps)})
	}
	// Format 6: PC-relative load.
	p = append(p, decodePattern{"01001xxxxx", thumbHandler(thumbPCRelLoad)})
	// Format 7: load/store with register offset.
	p = append(p, decodePattern{"0101xx0xxx", thumbHandler(thumbLoadStoreReg)})
	// Format 8: load/store sign-extended byte/halfword.
	p = append(p, decodePattern{"0101xx1xxx", thumbHandler(thumbLoadStoreSignExt)})
	// Format 9: load/store with immediate offset.
	p = append(p, decodePattern{"011xxxxxxx", thumbHandler(thumbLoadStoreImm)})
	// Format 10: load/store halfword.
	p = append(p, decodePattern{"1000xxxxxx", thumbHandler(thumbLoadStoreHalf)})
	// Format 11: SP-relative load/store.
	p = append(p, decodePattern{"1001xxxxxx", thumbHandler(thumbSPRelLoadStore)})
	// Format 12: load address (into Rd from PC or SP).
	p = append(p, decodePattern{"1010xxxxxx", thumbHandler(thumbLoadAddress)})
	// Format 13: add offset to stack pointer.
	p = append(p, decodePattern{"10110000xx", thumbHandler(thumbAddSPOffset)})
	// Format 14: push/pop registers.
	p = append(p, decodePattern{"1011x10xxx", thumbHandler(thumbPushPop)})
	// Format 15: multiple load/store.
	p = append(p, decodePattern{"1100xxxxxx", thumbHandler(thumbMultipleLoadStore)})
	// Format 17: software interrupt (checked before format 16's wildcard cond space).
	p = append(p, decodePattern{"11011111xx", thumbHandler(thumbSWI)})
	// Format 16: conditional branch.
	for cond := 0; cond < 14; cond++ {
		p = append(p, decodePattern{"1101" + bitsOf(cond, 4) + "xx", thumbHandler(thumbCondBranch)})
	}
	// Format 18: unconditional branch.
	p = append(p, decodePattern{"11100xxxxx", thumbHandler(thumbBranch)})
	// Format 19: long branch with link.
	p = append(p, decodePattern{"1111xxxxxx", thumbHandler(thumbBranchLinkLong)})

	return p
}

func thumbMoveShifted(c *armCore, instr uint16) {
	op := uint8((instr >> 11) & 3)
	offset := uint8((instr >> 6) & 0x1F)
	rs := (instr >> 3) & 7
	rd := instr & 7
	res := barrelShiftImmediate(op, c.r[rs], offset, c.cpsr.c)
	c.r[rd] = res.value
	c.cpsr.c = res.carryOut
	c.cpsr.z, c.cpsr.n = flagsFromValue(res.value)
}

func thumbAddSub(c *armCore, instr uint16) {
	immediate := instr&(1<<10) != 0
	sub := instr&(1<<9) != 0
	rnOrImm := uint32((instr >> 6) & 7)
	rs := (instr >> 3) & 7
	rd := instr & 7

	op2 := rnOrImm
	if !immediate {
		op2 = c.r[rnOrImm]
	}
	var res aluResult
	if sub {
		res = subWithCarry(c.r[rs], op2, true)
	} else {
		res = addWithCarry(c.r[rs], op2, false)
	}
	c.r[rd] = res.value
	c.cpsr.c, c.cpsr.v, c.cpsr.z, c.cpsr.n = res.c, res.v, res.z, res.n
}

func thumbImmediateOp(c *armCore, instr uint16) {
	op := uint8((instr >> 11) & 3)
	rd := (instr >> 8) & 7
	imm := uint32(instr & 0xFF)

	switch op {
	case 0: // MOV
		c.r[rd] = imm
		c.cpsr.z, c.cpsr.n = flagsFromValue(imm)
	case 1: // CMP
		res := subWithCarry(c.r[rd], imm, true)
		c.cpsr.c, c.cpsr.v, c.cpsr.z, c.cpsr.n = res.c, res.v, res.z, res.n
	case 2: // ADD
		res := addWithCarry(c.r[rd], imm, false)
		c.r[rd] = res.value
		c.cpsr.c, c.cpsr.v, c.cpsr.z, c.cpsr.n = res.c, res.v, res.z, res.n
	case 3: // SUB
		res := subWithCarry(c.r[rd], imm, true)
		c.r[rd] = res.value
		c.cpsr.c, c.cpsr.v, c.cpsr.z, c.cpsr.n = res.c, res.v, res.z, res.n
	}
}

func thumbALU(c *armCore, instr uint16) {
	op := uint8((instr >> 6) & 0xF)
	rs := (instr >> 3) & 7
	rd := instr & 7

	// Map the 16 Thumb ALU ops onto the shared ARM opcode space where they
	// coincide (AND EOR SUB CMP ADD ADC SBC ORR MOV/TST BIC MVN), and handle
	// the shift/multiply/negate forms that have no direct ARM DP equivalent.
	a, b := c.r[rd], c.r[rs]
	switch op {
	case 0x0: // AND
		res := aluOp(0x0, a, b, c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.z, c.cpsr.n = res.z, res.n
	case 0x1: // EOR
		res := aluOp(0x1, a, b, c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.z, c.cpsr.n = res.z, res.n
	case 0x2: // LSL
		res := barrelShiftRegister(0, a, uint8(b), c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.c = res.carryOut
		c.cpsr.z, c.cpsr.n = flagsFromValue(res.value)
	case 0x3: // LSR
		res := barrelShiftRegister(1, a, uint8(b), c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.c = res.carryOut
		c.cpsr.z, c.cpsr.n = flagsFromValue(res.value)
	case 0x4: // ASR
		res := barrelShiftRegister(2, a, uint8(b), c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.c = res.carryOut
		c.cpsr.z, c.cpsr.n = flagsFromValue(res.value)
	case 0x5: // ADC
		res := addWithCarry(a, b, c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.c, c.cpsr.v, c.cpsr.z, c.cpsr.n = res.c, res.v, res.z, res.n
	case 0x6: // SBC
		res := subWithCarry(a, b, c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.c, c.cpsr.v, c.cpsr.z, c.cpsr.n = res.c, res.v, res.z, res.n
	case 0x7: // ROR
		res := barrelShiftRegister(3, a, uint8(b), c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.c = res.carryOut
		c.cpsr.z, c.cpsr.n = flagsFromValue(res.value)
	case 0x8: // TST
		res := aluOp(0x8, a, b, c.cpsr.c)
		c.cpsr.z, c.cpsr.n = res.z, res.n
	case 0x9: // NEG
		res := subWithCarry(0, b, true)
		c.r[rd] = res.value
		c.cpsr.c, c.cpsr.v, c.cpsr.z, c.cpsr.n = res.c, res.v, res.z, res.n
	case 0xA: // CMP
		res := subWithCarry(a, b, true)
		c.cpsr.c, c.cpsr.v, c.cpsr.z, c.cpsr.n = res.c, res.v, res.z, res.n
	case 0xB: // CMN
		res := addWithCarry(a, b, false)
		c.cpsr.c, c.cpsr.v, c.cpsr.z, c.cpsr.n = res.c, res.v, res.z, res.n
	case 0xC: // ORR
		res := aluOp(0xC, a, b, c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.z, c.cpsr.n = res.z, res.n
	case 0xD: // MUL
		c.r[rd] = a * b
		c.cpsr.z, c.cpsr.n = flagsFromValue(c.r[rd])
	case 0xE: // BIC
		res := aluOp(0xE, a, b, c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.z, c.cpsr.n = res.z, res.n
	case 0xF: // MVN
		res := aluOp(0xF, a, b, c.cpsr.c)
		c.r[rd] = res.value
		c.cpsr.z, c.cpsr.n = res.z, res.n
	}
}

func thumbHiRegOps(c *armCore, instr uint16) {
	op := uint8((instr >> 8) & 3)
	h1 := instr&(1<<7) != 0
	h2 := instr&(1<<6) != 0
	rs := uint32((instr >> 3) & 7)
	rd := uint32(instr & 7)
	if h2 {
		rs += 8
	}
	if h1 {
		rd += 8
	}
	switch op {
	case 0: // ADD
		c.r[rd] += c.r[rs]
		if rd == 15 {
			c.writePC(c.r[15] &^ 1)
		}
	case 1: // CMP
		res := subWithCarry(c.r[rd], c.r[rs], true)
		c.cpsr.c, c.cpsr.v, c.cpsr.z, c.cpsr.n = res.c, res.v, res.z, res.n
	case 2: // MOV
		c.r[rd] = c.r[rs]
		if rd == 15 {
			c.writePC(c.r[15] &^ 1)
		}
	case 3: // BX (and BLX for the later variant, both branch-exchange here)
		target := c.r[rs]
		c.cpsr.thumb = target&1 != 0
		c.writePC(target &^ 1)
	}
}

func thumbPCRelLoad(c *armCore, instr uint16) {
	rd := (instr >> 8) & 7
	word8 := uint32(instr&0xFF) << 2
	base := (c.r[15] &^ 3)
	c.r[rd] = c.Read32(base + word8)
}

func thumbLoadStoreReg(c *armCore, instr uint16) {
	l := instr&(1<<11) != 0
	b := instr&(1<<10) != 0
	ro := (instr >> 6) & 7
	rb := (instr >> 3) & 7
	rd := instr & 7
	addr := c.r[rb] + c.r[ro]
	if l {
		if b {
			c.r[rd] = uint32(c.Read8(addr))
		} else {
			c.r[rd] = c.Read32(addr)
		}
	} else {
		if b {
			c.Write8(addr, uint8(c.r[rd]))
		} else {
			c.Write32(addr, c.r[rd])
		}
	}
}

func thumbLoadStoreSignExt(c *armCore, instr uint16) {
	h := instr&(1<<11) != 0
	s := instr&(1<<10) != 0
	ro := (instr >> 6) & 7
	rb := (instr >> 3) & 7
	rd := instr & 7
	addr := c.r[rb] + c.r[ro]
	switch {
	case !s && !h: // STRH
		c.Write16(addr, uint16(c.r[rd]))
	case !s && h: // LDRH
		c.r[rd] = uint32(c.Read16(addr))
	case s && !h: // LDSB
		c.r[rd] = uint32(int32(int8(c.Read8(addr))))
	case s && h: // LDSH
		c.r[rd] = uint32(int32(int16(c.Read16(addr))))
	}
}

func thumbLoadStoreImm(c *armCore, instr uint16) {
	b := instr&(1<<12) != 0
	l := instr&(1<<11) != 0
	offset5 := uint32((instr >> 6) & 0x1F)
	rb := (instr >> 3) & 7
	rd := instr & 7
	var addr uint32
	if b {
		addr = c.r[rb] + offset5
	} else {
		addr = c.r[rb] + offset5*4
	}
	if l {
		if b {
			c.r[rd] = uint32(c.Read8(addr))
		} else {
			c.r[rd] = c.Read32(addr)
		}
	} else {
		if b {
			c.Write8(addr, uint8(c.r[rd]))
		} else {
			c.Write32(addr, c.r[rd])
		}
	}
}

func thumbLoadStoreHalf(c *armCore, instr uint16) {
	l := instr&(1<<11) != 0
	offset5 := uint32((instr>>6)&0x1F) * 2
	rb := (instr >> 3) & 7
	rd := instr & 7
	addr := c.r[rb] + offset5
	if l {
		c.r[rd] = uint32(c.Read16(addr))
	} else {
		c.Write16(addr, uint16(c.r[rd]))
	}
}

func thumbSPRelLoadStore(c *armCore, instr uint16) {
	l := instr&(1<<11) != 0
	rd := (instr >> 8) & 7
	word8 := uint32(instr&0xFF) << 2
	addr := c.r[13] + word8
	if l {
		c.r[rd] = c.Read32(addr)
	} else {
		c.Write32(addr, c.r[rd])
	}
}

func thumbLoadAddress(c *armCore, instr uint16) {
	sp := instr&(1<<11) != 0
	rd := (instr >> 8) & 7
	word8 := uint32(instr&0xFF) << 2
	if sp {
		c.r[rd] = c.r[13] + word8
	} else {
		c.r[rd] = (c.r[15] &^ 3) + word8
	}
}

func thumbAddSPOffset(c *armCore, instr uint16) {
	neg := instr&(1<<7) != 0
	sword7 := uint32(instr&0x7F) << 2
	if neg {
		c.r[13] -= sword7
	} else {
		c.r[13] += sword7
	}
}

func thumbPushPop(c *armCore, instr uint16) {
	l := instr&(1<<11) != 0
	pclr := instr&(1<<8) != 0
	rlist := instr & 0xFF

	if l { // POP
		addr := c.r[13]
		for i := 0; i < 8; i++ {
			if rlist&(1<<i) != 0 {
				c.r[i] = c.Read32(addr)
				addr += 4
			}
		}
		if pclr {
			target := c.Read32(addr)
			addr += 4
			c.writePC(target &^ 1)
		}
		c.r[13] = addr
	} else { // PUSH
		count := popcount(uint32(rlist))
		if pclr {
			count++
		}
		addr := c.r[13] - uint32(count)*4
		c.r[13] = addr
		for i := 0; i < 8; i++ {
			if rlist&(1<<i) != 0 {
				c.Write32(addr, c.r[i])
				addr += 4
			}
		}
		if pclr {
			c.Write32(addr, c.r[14])
		}
	}
}

func thumbMultipleLoadStore(c *armCore, instr uint16) {
	l := instr&(1<<11) != 0
	rb := (instr >> 8) & 7
	rlist := instr & 0xFF
	addr := c.r[rb]
	for i := 0; i < 8; i++ {
		if rlist&(1<<i) == 0 {
			continue
		}
		if l {
			c.r[i] = c.Read32(addr)
		} else {
			c.Write32(addr, c.r[i])
		}
		addr += 4
	}
	c.r[rb] = addr
}

func thumbCondBranch(c *armCore, instr uint16) {
	cond := uint8((instr >> 8) & 0xF)
	if !c.conditionPasses(cond) {
		return
	}
	offset := int32(int8(instr&0xFF)) * 2
	c.writePC(uint32(int32(c.r[15]) + offset))
}

func thumbSWI(c *armCore, instr uint16) {
	c.enterException(excSWI)
}

func thumbBranch(c *armCore, instr uint16) {
	offset := signExtend(uint32(instr&0x7FF), 11) * 2
	c.writePC(uint32(int32(c.r[15]) + offset))
}

// thumbBranchLinkLong handles both halves of BL (H=0 sets LR to the target
// high bits, H=1 completes the branch using the low 11 bits and LR).
func thumbBranchLinkLong(c *armCore, instr uint16) {
	high := instr&(1<<11) == 0
	offset11 := uint32(instr & 0x7FF)
	if high {
		off := signExtend(offset11, 11) << 12
		c.r[14] = uint32(int32(c.r[15]) + off)
		return
	}
	next := c.r[15] - 1
	target := c.r[14] + offset11<<1
	c.r[14] = next | 1
	c.writePC(target)
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}
