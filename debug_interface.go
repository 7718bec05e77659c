package duocore

// DebuggableCPU is the inspection interface both ARM cores implement,
// adapted from the teacher's machine-monitor adapter to this engine's
// 32-bit address space and named-register set (R0-R15, CPSR).
type DebuggableCPU interface {
	CPUName() string
	AddressWidth() int

	GetRegisters() []RegisterInfo
	GetRegister(name string) (uint64, bool)
	SetRegister(name string, value uint64) bool
	GetPC() uint64
	SetPC(addr uint64)

	IsRunning() bool
	Freeze()
	Resume()

	Step() int

	SetBreakpoint(addr uint32) bool
	SetConditionalBreakpoint(addr uint32, cond *BreakpointCondition) bool
	ClearBreakpoint(addr uint32) bool
	ClearAllBreakpoints()
	ListBreakpoints() []uint32
	HasBreakpoint(addr uint32) bool

	SetWatchpoint(addr uint32) bool
	ClearWatchpoint(addr uint32) bool
	ClearAllWatchpoints()

	ReadMemory(addr uint32, size int) []byte
	WriteMemory(addr uint32, data []byte)
}

// RegisterInfo describes one CPU register for display, per the teacher's
// monitor-facing shape.
type RegisterInfo struct {
	Name  string
	Value uint64
	Group string
}

// ConditionOp/ConditionSource/BreakpointCondition mirror the teacher's
// condition grammar, narrowed to this engine's 32-bit addresses.
type ConditionOp int

const (
	CondOpEqual ConditionOp = iota
	CondOpNotEqual
	CondOpLess
	CondOpGreater
	CondOpLessEqual
	CondOpGreaterEqual
)

type ConditionSource int

const (
	CondSourceRegister ConditionSource = iota
	CondSourceMemory
	CondSourceHitCount
)

type BreakpointCondition struct {
	Source  ConditionSource
	RegName string
	MemAddr uint32
	Op      ConditionOp
	Value   uint64
}

type breakpoint struct {
	addr     uint32
	cond     *BreakpointCondition
	hitCount uint64
}

type watchpoint struct {
	addr      uint32
	lastValue uint8
}

func (c *armCore) CPUName() string   { return c.name }
func (c *armCore) AddressWidth() int { return 32 }

func (c *armCore) GetRegisters() []RegisterInfo {
	regs := make([]RegisterInfo, 0, 17)
	for i := 0; i < 16; i++ {
		name := regName(i)
		regs = append(regs, RegisterInfo{Name: name, Value: uint64(c.r[i]), Group: "general"})
	}
	regs = append(regs, RegisterInfo{Name: "CPSR", Value: uint64(c.cpsr.raw()), Group: "status"})
	return regs
}

func regName(i int) string {
	switch i {
	case 13:
		return "SP"
	case 14:
		return "LR"
	case 15:
		return "PC"
	default:
		return "R" + itoa(i)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func (c *armCore) GetRegister(name string) (uint64, bool) {
	switch name {
	case "CPSR":
		return uint64(c.cpsr.raw()), true
	case "PC":
		return uint64(c.r[15]), true
	case "SP":
		return uint64(c.r[13]), true
	case "LR":
		return uint64(c.r[14]), true
	}
	for i := 0; i < 16; i++ {
		if name == "R"+itoa(i) {
			return uint64(c.r[i]), true
		}
	}
	return 0, false
}

func (c *armCore) SetRegister(name string, value uint64) bool {
	for i := 0; i < 16; i++ {
		if name == regName(i) || name == "R"+itoa(i) {
			c.r[i] = uint32(value)
			if i == 15 {
				c.writePC(uint32(value))
			}
			return true
		}
	}
	return false
}

// GetPC returns the address of the next instruction to execute; R15 itself
// runs two fetches ahead of it (+8 in ARM state, +4 in Thumb state).
func (c *armCore) GetPC() uint64 {
	if c.cpsr.thumb {
		return uint64(c.r[15] - 4)
	}
	return uint64(c.r[15] - 8)
}
func (c *armCore) SetPC(addr uint64) { c.writePC(uint32(addr)) }

func (c *armCore) IsRunning() bool { return !c.halted && !c.stepping }
func (c *armCore) Freeze()         { c.stepping = true }
func (c *armCore) Resume()         { c.stepping = false }

func (c *armCore) Step() int {
	before := c.halted
	c.tick()
	c.checkBreakpoints()
	if before != c.halted {
		return 0
	}
	return 1
}

func (c *armCore) SetBreakpoint(addr uint32) bool {
	return c.SetConditionalBreakpoint(addr, nil)
}

func (c *armCore) SetConditionalBreakpoint(addr uint32, cond *BreakpointCondition) bool {
	c.breakpoints[addr] = &breakpoint{addr: addr, cond: cond}
	return true
}

func (c *armCore) ClearBreakpoint(addr uint32) bool {
	if _, ok := c.breakpoints[addr]; !ok {
		return false
	}
	delete(c.breakpoints, addr)
	return true
}

func (c *armCore) ClearAllBreakpoints() {
	c.breakpoints = make(map[uint32]*breakpoint)
}

func (c *armCore) ListBreakpoints() []uint32 {
	addrs := make([]uint32, 0, len(c.breakpoints))
	for a := range c.breakpoints {
		addrs = append(addrs, a)
	}
	return addrs
}

func (c *armCore) HasBreakpoint(addr uint32) bool {
	_, ok := c.breakpoints[addr]
	return ok
}

func (c *armCore) SetWatchpoint(addr uint32) bool {
	c.watchpoints = append(c.watchpoints, &watchpoint{addr: addr, lastValue: c.Read8(addr)})
	return true
}

func (c *armCore) ClearWatchpoint(addr uint32) bool {
	for i, w := range c.watchpoints {
		if w.addr == addr {
			c.watchpoints = append(c.watchpoints[:i], c.watchpoints[i+1:]...)
			return true
		}
	}
	return false
}

func (c *armCore) ClearAllWatchpoints() { c.watchpoints = nil }

func (c *armCore) ReadMemory(addr uint32, size int) []byte {
	out := make([]byte, size)
	for i := 0; i < size; i++ {
		out[i] = c.Read8(addr + uint32(i))
	}
	return out
}

func (c *armCore) WriteMemory(addr uint32, data []byte) {
	for i, b := range data {
		c.Write8(addr+uint32(i), b)
	}
}

// checkBreakpoints halts the CPU when the current PC matches an
// (optionally conditional) breakpoint, incrementing its hit count first so
// hitcount-sourced conditions observe the post-increment value, per the
// teacher's trapLoop convention.
func (c *armCore) checkBreakpoints() {
	if len(c.breakpoints) == 0 {
		return
	}
	bp, ok := c.breakpoints[uint32(c.GetPC())]
	if !ok {
		return
	}
	bp.hitCount++
	if c.hitCounts == nil {
		c.hitCounts = make(map[uint32]uint64)
	}
	c.hitCounts[bp.addr] = bp.hitCount
	if evaluateConditionWithHitCount(bp.cond, c, bp.hitCount) {
		c.stepping = true
	}
}
