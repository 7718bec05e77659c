// Command duocore runs a cartridge image against the duocore engine,
// optionally dropping into an interactive debug console.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/duocore-emu/duocore"
)

func main() {
	romPath := flag.String("rom", "", "Path to the cartridge ROM image")
	firmwarePath := flag.String("firmware", "", "Path to the firmware image (SPI boot chip)")
	directBoot := flag.Bool("direct-boot", false, "Skip firmware and synthesize post-bootloader state")
	debug := flag.Bool("debug", false, "Drop into the interactive debug console before running")
	frames := flag.Int("frames", 60, "Number of frames to run in headless mode")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: duocore -rom game.rom [options]\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *romPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	dir := "."
	loader := duocore.NewFirmwareLoader(dir)

	rom, err := loader.LoadROM(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading ROM: %v\n", err)
		os.Exit(1)
	}

	var firmware []byte
	if *firmwarePath != "" {
		firmware, err = loader.LoadFirmware(*firmwarePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading firmware: %v\n", err)
			os.Exit(1)
		}
	}

	sys := duocore.NewSystem(duocore.BootConfig{
		ROM:        rom,
		Firmware:   firmware,
		DirectBoot: *directBoot,
		Debug:      *debug,
	})

	if *debug {
		newConsole(sys).run()
		return
	}

	for i := 0; i < *frames; i++ {
		sys.RunFrame()
	}
}

// console is a line-oriented debug REPL in the teacher's machine-monitor
// style (terminal_host.go's raw-mode stdin reader), but driving
// DebuggableCPU rather than a guest terminal device. Runs on plain
// line-buffered stdin since commands are typed, not single keystrokes.
type console struct {
	sys     *duocore.System
	cpu     duocore.DebuggableCPU
	scanner *bufio.Scanner
}

func newConsole(sys *duocore.System) *console {
	return &console{
		sys:     sys,
		cpu:     sys.CPU(0),
		scanner: bufio.NewScanner(os.Stdin),
	}
}

func (c *console) run() {
	fmt.Println("duocore debug console -- type 'help' for commands")
	for {
		fmt.Printf("(%s) ", c.cpu.CPUName())
		if !c.scanner.Scan() {
			return
		}
		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "help":
			c.help()
		case "quit", "q":
			return
		case "cpu":
			c.switchCPU(fields)
		case "step", "s":
			c.step(fields)
		case "continue", "c":
			c.continueRun()
		case "frame", "f":
			c.sys.RunFrame()
		case "regs", "r":
			c.regs()
		case "break", "b":
			c.setBreak(fields)
		case "clear":
			c.clearBreak(fields)
		case "list":
			c.listBreaks()
		case "mem", "m":
			c.mem(fields)
		default:
			fmt.Printf("unknown command: %s (try 'help')\n", fields[0])
		}
	}
}

func (c *console) help() {
	fmt.Println(`commands:
  cpu [0|1]        select the later-variant (0) or earlier-variant (1) CPU
  step [n]         execute n instructions (default 1)
  continue         run until the next breakpoint
  frame            run one full display frame
  regs             dump general-purpose registers and CPSR
  break <addr>     set a breakpoint ($hex, 0xhex, or decimal)
  clear <addr>     clear a breakpoint
  list             list active breakpoints
  mem <addr> <n>   dump n bytes starting at addr
  quit             exit`)
}

func (c *console) switchCPU(fields []string) {
	if len(fields) < 2 {
		fmt.Println("usage: cpu [0|1]")
		return
	}
	switch fields[1] {
	case "0":
		c.cpu = c.sys.CPU(0)
	case "1":
		c.cpu = c.sys.CPU(1)
	default:
		fmt.Println("cpu index must be 0 or 1")
	}
}

func (c *console) step(fields []string) {
	n := 1
	if len(fields) > 1 {
		if v, err := strconv.Atoi(fields[1]); err == nil {
			n = v
		}
	}
	c.cpu.Resume()
	for i := 0; i < n; i++ {
		c.cpu.Step()
	}
	c.regs()
}

func (c *console) continueRun() {
	c.cpu.Resume()
	for c.cpu.IsRunning() {
		if c.cpu.Step() == 0 {
			break
		}
	}
	fmt.Printf("stopped at PC=$%08X\n", c.cpu.GetPC())
}

func (c *console) regs() {
	for _, r := range c.cpu.GetRegisters() {
		fmt.Printf("%-5s $%08X\n", r.Name, r.Value)
	}
}

func (c *console) setBreak(fields []string) {
	if len(fields) < 2 {
		fmt.Println("usage: break <addr> [condition]")
		return
	}
	addr, ok := duocore.ParseAddress(fields[1])
	if !ok {
		fmt.Println("invalid address")
		return
	}
	if len(fields) > 2 {
		cond, err := duocore.ParseCondition(strings.Join(fields[2:], ""))
		if err != nil {
			fmt.Printf("invalid condition: %v\n", err)
			return
		}
		c.cpu.SetConditionalBreakpoint(uint32(addr), cond)
		return
	}
	c.cpu.SetBreakpoint(uint32(addr))
}

func (c *console) clearBreak(fields []string) {
	if len(fields) < 2 {
		fmt.Println("usage: clear <addr>")
		return
	}
	addr, ok := duocore.ParseAddress(fields[1])
	if !ok {
		fmt.Println("invalid address")
		return
	}
	c.cpu.ClearBreakpoint(uint32(addr))
}

func (c *console) listBreaks() {
	for _, a := range c.cpu.ListBreakpoints() {
		fmt.Printf("$%08X\n", a)
	}
}

func (c *console) mem(fields []string) {
	if len(fields) < 3 {
		fmt.Println("usage: mem <addr> <n>")
		return
	}
	addr, ok := duocore.ParseAddress(fields[1])
	if !ok {
		fmt.Println("invalid address")
		return
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil || n <= 0 {
		fmt.Println("invalid length")
		return
	}
	data := c.cpu.ReadMemory(uint32(addr), n)
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Printf("$%08X: % X\n", uint32(addr)+uint32(i), data[i:end])
	}
}
