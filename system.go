package duocore

// System owns every shared component and the wiring between them, resolving
// the cyclic dependency graph spec.md §9 describes (CPUs need the IRQ
// controllers and memory router, which need the MMIO dispatcher, which
// needs the CPUs) by constructing components first and wiring cross-
// references in a second pass.
type System struct {
	log   *Logger
	sched *Scheduler

	mmio *MMIO
	vram *VRAM
	cart *Cartridge

	ppuA, ppuB *PPU
	video      *videoUnit

	dma    [2]*dmaUnit
	timers [2]*timerUnit
	ipc    *IPC
	input  *inputUnit
	math   *mathUnit
	rtc    *RTC
	spi    *SPI

	cpuLater   *armCore
	cpuEarlier *armCore

	mainRAM     []byte
	sharedWRAM  []byte
	arm7WRAM    []byte
	paletteRAM  [2048]byte
	oam         [2048]byte

	postflg uint8
	powcnt1 uint32

	biosLater   []byte
	biosEarlier []byte
}

const (
	mainRAMSize    = 4 * 1024 * 1024
	sharedWRAMSize = 32 * 1024
	arm7WRAMSize   = 64 * 1024
)

// BootConfig selects how the system comes up, per SPEC_FULL.md §10.4.
type BootConfig struct {
	ROM         []byte
	Firmware    []byte
	DirectBoot  bool
	Debug       bool
}

// NewSystem builds and wires every component. The two armCores are
// constructed last since they pull in the already-built router/irq/mmio
// dependency chain through newARMCore.
func NewSystem(cfg BootConfig) *System {
	sys := &System{
		log:        &Logger{Debug: cfg.Debug},
		mainRAM:    make([]byte, mainRAMSize),
		sharedWRAM: make([]byte, sharedWRAMSize),
		arm7WRAM:   make([]byte, arm7WRAMSize),
	}
	sys.sched = newScheduler()
	sys.vram = newVRAM(sys)
	sys.cart = newCartridge(sys, cfg.ROM)
	sys.ppuA = newPPU(sys, false)
	sys.ppuB = newPPU(sys, true)
	sys.video = newVideoUnit(sys)
	sys.ipc = newIPC(sys)
	sys.input = newInputUnit(sys)
	sys.math = newMathUnit(sys)
	sys.rtc = newRTC(sys)
	sys.spi = newSPI(sys, cfg.Firmware)
	sys.mmio = newMMIO(sys)

	sys.cpuLater = newARMCore(sys, "cpu9", true)
	sys.cpuEarlier = newARMCore(sys, "cpu7", false)

	sys.dma[0] = newDMAUnit(sys, sys.cpuLater)
	sys.dma[1] = newDMAUnit(sys, sys.cpuEarlier)
	sys.timers[0] = newTimerUnit(sys, sys.cpuLater)
	sys.timers[1] = newTimerUnit(sys, sys.cpuEarlier)

	sys.mapSharedMemory()
	sys.Reset(cfg)
	return sys
}

// mapSharedMemory installs the main-RAM and WRAM mappings common to both
// CPUs' page tables, per spec.md §3's "shared main memory" model.
func (sys *System) mapSharedMemory() {
	mirrorMask := func(size int) uint32 {
		n := uint32(1)
		for int(n) < size {
			n <<= 1
		}
		return (n - 1) &^ pageMask
	}

	ramMask := mirrorMask(len(sys.mainRAM))
	for _, cpu := range []*armCore{sys.cpuLater, sys.cpuEarlier} {
		cpu.router.readPT.Map(0x02000000, 0x03000000, sys.mainRAM, ramMask)
		cpu.router.writePT.Map(0x02000000, 0x03000000, sys.mainRAM, ramMask)
	}

	wramMask := mirrorMask(len(sys.sharedWRAM))
	sys.cpuLater.router.readPT.Map(0x03000000, 0x03800000, sys.sharedWRAM, wramMask)
	sys.cpuLater.router.writePT.Map(0x03000000, 0x03800000, sys.sharedWRAM, wramMask)

	arm7Mask := mirrorMask(len(sys.arm7WRAM))
	sys.cpuEarlier.router.readPT.Map(0x03800000, 0x04000000, sys.arm7WRAM, arm7Mask)
	sys.cpuEarlier.router.writePT.Map(0x03800000, 0x04000000, sys.arm7WRAM, arm7Mask)
	sys.cpuEarlier.router.readPT.Map(0x03000000, 0x03800000, sys.sharedWRAM, wramMask)
	sys.cpuEarlier.router.writePT.Map(0x03000000, 0x03800000, sys.sharedWRAM, wramMask)

	if len(sys.cpuLater.router.itcm.buf) == 0 {
		sys.cpuLater.router.itcm = tcmRegion{base: 0, limit: 32 * 1024, mask: 32*1024 - 1, buf: make([]byte, 32*1024), enableReads: true, enableWrites: true}
		sys.cpuLater.router.dtcm = tcmRegion{base: 0x00800000, limit: 16 * 1024, mask: 16*1024 - 1, buf: make([]byte, 16*1024), enableReads: true, enableWrites: true}
	}
}

// cpuByIndex returns CPU 0 (later/"cpu9") or CPU 1 (earlier/"cpu7"), the
// indexing convention shared by ipc.go and the video/DMA units.
func (sys *System) cpuByIndex(idx int) *armCore {
	if idx == 0 {
		return sys.cpuLater
	}
	return sys.cpuEarlier
}

// CPU exposes CPU 0 (later-variant) or CPU 1 (earlier-variant) through the
// DebuggableCPU adapter, for host-side tooling such as cmd/duocore's
// interactive console.
func (sys *System) CPU(idx int) DebuggableCPU {
	return sys.cpuByIndex(idx)
}

// cartridgeSlotEnabled reports whether the given CPU currently owns the
// cartridge bus, per spec.md §4.4's EXMEMCNT-style single-owner rule.
// Ownership defaults to the earlier-variant CPU, matching real hardware's
// post-boot handoff; the later-variant CPU can be granted it through
// EXMEMCNT, which is out of the expanded register map this engine models.
func (sys *System) cartridgeSlotEnabled(cpu *armCore) bool {
	return !cpu.later
}

// Reset restores every component to its power-on state and, if requested,
// performs the direct-boot memory synthesis described in spec.md §4.15.
func (sys *System) Reset(cfg BootConfig) {
	sys.sched.reset()
	sys.vram.reset()
	sys.cart.reset()
	sys.ppuA.reset()
	sys.ppuB.reset()
	sys.video.reset()
	sys.ipc.reset()
	sys.input.reset()
	sys.math.reset()
	sys.rtc.reset()
	sys.spi.reset()
	for i := range sys.dma {
		sys.dma[i].reset()
		sys.timers[i].reset()
	}
	sys.cpuLater.irq.reset()
	sys.cpuEarlier.irq.reset()
	*sys.cpuLater.pageState() = *newCPUState()
	*sys.cpuEarlier.pageState() = *newCPUState()

	if cfg.DirectBoot && sys.cart.inserted() {
		sys.directBoot()
	}
	sys.video.start()
}

func (cpu *armCore) pageState() *cpuState { return &cpu.cpuState }

// directBoot synthesizes the post-bootloader state real firmware would have
// produced: both entry binaries copied into RAM, stack pointers primed per
// bank, and each CPU's PC set to its entry point with IRQ unmasked in
// system mode, per spec.md §4.15/§8 scenario 1.
func (sys *System) directBoot() {
	arm9Entry, arm9Sp, arm7Entry, arm7Sp := sys.cart.synthesizeDirectBoot(sys.mainRAM)

	bootCPU := func(cpu *armCore, entry, sp uint32) {
		cpu.r[13] = sp
		for b := bankFIQ; b <= bankUND; b++ {
			cpu.bank[b][5] = sp // index 5 = R13/SP within the R8..R14 bank slice
		}
		cpu.cpsr = psrFromRaw(uint32(modeSYS))
		cpu.cpsr.thumb = entry&1 != 0
		cpu.writePC(entry &^ 1)
	}
	bootCPU(sys.cpuLater, arm9Entry, arm9Sp)
	bootCPU(sys.cpuEarlier, arm7Entry, arm7Sp)

	sys.postflg = 1
}

// RunFrame advances the whole system by one display frame (totalLines
// scanlines), running each CPU in turn up to the next scheduled event and
// then firing that event, per spec.md §5's single-threaded cooperative model.
func (sys *System) RunFrame() {
	const instructionsPerFrameBudget = 1 << 20
	lastLine := sys.video.vcount
	linesDone := 0
	for {
		cyclesToNext := sys.sched.CyclesToNextEvent()
		if cyclesToNext == 0 {
			cyclesToNext = 1
		}
		budget := int(cyclesToNext)
		sys.cpuLater.Run(budget)
		sys.cpuEarlier.Run(budget)
		sys.sched.Advance(sys, uint64(budget))

		if sys.video.vcount != lastLine {
			lastLine = sys.video.vcount
			linesDone++
		}
		if linesDone >= totalLines {
			break
		}
		if budget >= instructionsPerFrameBudget {
			break
		}
	}
}
