package duocore

import "sync"

var (
	sharedArmTable   [4096]armHandler
	sharedThumbTable [1024]thumbHandler
	tableOnce        sync.Once
)

func decodeTables() ([4096]armHandler, [1024]thumbHandler) {
	tableOnce.Do(func() {
		sharedArmTable = buildArmTable(armPatterns())
		sharedThumbTable = buildThumbTable(thumbPatterns())
	})
	return sharedArmTable, sharedThumbTable
}

// armCore is one of the two heterogeneous CPUs named in spec.md §1: the
// later variant (32-bit+16-bit encodings, TCM, math unit, full PPU MMIO) and
// the earlier variant (restricted MMIO subset, no TCM/math unit, adds
// SPI/SPU/RTC). Both share this same struct; `later` distinguishes them.
type armCore struct {
	cpuState
	name  string
	later bool

	sys    *System
	router *MemoryRouter
	irq    *IRQController
	vectorBase uint32

	armTable   [4096]armHandler
	thumbTable [1024]thumbHandler

	// debug/inspection state, adapted from the teacher's DebuggableCPU.
	breakpoints    map[uint32]*breakpoint
	watchpoints    []*watchpoint
	hitCounts      map[uint32]uint64
	stepping       bool

	// branched is set by writePC when the instruction just executed wrote
	// R15 directly (branch, BX, data-processing into PC, exception entry);
	// tickArm/tickThumb check it to skip the sequential PC advance that
	// would otherwise double-count the jump.
	branched bool
}

func newARMCore(sys *System, name string, later bool) *armCore {
	c := &armCore{
		cpuState:  *newCPUState(),
		name:      name,
		later:     later,
		sys:       sys,
		breakpoints: make(map[uint32]*breakpoint),
		hitCounts:   make(map[uint32]uint64),
	}
	c.armTable, c.thumbTable = decodeTables()
	c.router = newMemoryRouter(sys, c, later)
	c.irq = newIRQController(c)
	return c
}

func (c *armCore) Read32(a uint32) uint32    { return c.router.Read32(a) }
func (c *armCore) Read16(a uint32) uint16    { return c.router.Read16(a) }
func (c *armCore) Read8(a uint32) uint8      { return c.router.Read8(a) }
func (c *armCore) Write32(a, v uint32)       { c.router.Write32(a, v) }
func (c *armCore) Write16(a uint32, v uint16) { c.router.Write16(a, v) }
func (c *armCore) Write8(a uint32, v uint8)  { c.router.Write8(a, v) }

// Run advances the CPU by up to `cycles` instructions, per spec.md §4.2:
// "one instruction per tick in this design; exact cycle timings are out of
// scope." Returns the number of instructions actually executed: less than
// cycles when the CPU is or becomes halted, or is frozen by a breakpoint
// (the instruction that reaches the breakpoint is not counted).
func (c *armCore) Run(cycles int) int {
	executed := 0
	for ; executed < cycles; executed++ {
		if c.halted || c.stepping {
			break
		}
		if c.irq.line() && !c.cpsr.irqDisabl {
			c.enterException(excIRQ)
		}
		if c.halted {
			break
		}
		c.tick()
		c.checkBreakpoints()
		if c.stepping {
			break
		}
	}
	return executed
}

func (c *armCore) tick() {
	if c.cpsr.thumb {
		c.tickThumb()
	} else {
		c.tickArm()
	}
}

// tickArm executes the instruction in the decode slot while R15 still holds
// the value the instruction itself must observe (instr address + 8, per
// spec.md invariant §8), then advances the pipeline. The sequential +4
// advance is applied only if the handler didn't already retarget R15 via
// writePC.
func (c *armCore) tickArm() {
	instr := c.pipe.slot[0]
	c.pipe.slot[0] = c.pipe.slot[1]
	pc := c.r[15] &^ 3
	c.pipe.slot[1] = c.Read32(pc)

	cond := uint8(instr >> 28)
	if c.conditionPasses32(cond) {
		idx := armDecodeIndex(instr)
		c.branched = false
		c.armTable[idx](c, instr)
		if c.branched {
			return
		}
	}
	c.r[15] += 4
}

// tickThumb mirrors tickArm with R15 = instr address + 4 during the handler.
func (c *armCore) tickThumb() {
	instr := uint16(c.pipe.slot[0])
	c.pipe.slot[0] = c.pipe.slot[1]
	pc := c.r[15] &^ 1
	c.pipe.slot[1] = uint32(c.Read16(pc))

	idx := thumbDecodeIndex(instr)
	c.branched = false
	c.thumbTable[idx](c, instr)
	if c.branched {
		return
	}
	c.r[15] += 2
}

// conditionPasses32 lets the "never" (0xF) condition code through on the
// later variant, where armBranch decodes it as the unconditional BLX
// (immediate) form, per spec.md §4.2.
func (c *armCore) conditionPasses32(cond uint8) bool {
	if cond == 0xF {
		return c.later
	}
	return c.conditionPasses(cond)
}

// flushPipeline reloads both fetch slots after any PC write, per spec.md
// §4.2: 16-bit mode aligns to 2 and advances PC by 4 total; 32-bit mode
// aligns to 4 and advances PC by 8 total.
func (c *armCore) flushPipeline() {
	if c.cpsr.thumb {
		pc := c.r[15] &^ 1
		c.pipe.slot[0] = uint32(c.Read16(pc))
		c.pipe.slot[1] = uint32(c.Read16(pc + 2))
		c.r[15] = pc + 4
	} else {
		pc := c.r[15] &^ 3
		c.pipe.slot[0] = c.Read32(pc)
		c.pipe.slot[1] = c.Read32(pc + 4)
		c.r[15] = pc + 8
	}
}

// writePC sets R15 and flushes the pipeline; every branch/load-to-PC
// handler funnels through here.
func (c *armCore) writePC(target uint32) {
	c.r[15] = target
	c.flushPipeline()
	c.branched = true
}

func (c *armCore) illegal(instr uint32) {
	panic(errIllegalInstruction(c.name, c.r[15], instr))
}

func (c *armCore) readPCOperand() uint32 {
	return c.pcForRead()
}
