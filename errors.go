package duocore

import "fmt"

// EngineError is the fatal-path error type named in spec.md §7: illegal CPU
// instructions and missing boot firmware. Everything else the spec lists
// (unmapped MMIO, unmapped memory, unknown cartridge command, IPC
// over/underflow) is non-fatal by design and never produces one of these.
type EngineError struct {
	Kind        string
	PC          uint32
	Instruction uint32
	CPUName     string
	Path        string
}

func (e *EngineError) Error() string {
	switch e.Kind {
	case "illegal-instruction":
		return fmt.Sprintf("%s: illegal instruction %#08x at PC=%#08x", e.CPUName, e.Instruction, e.PC)
	case "missing-firmware":
		return fmt.Sprintf("missing firmware file: %s", e.Path)
	default:
		return fmt.Sprintf("engine error: %s", e.Kind)
	}
}

func errIllegalInstruction(cpuName string, pc, instr uint32) error {
	return &EngineError{Kind: "illegal-instruction", PC: pc, Instruction: instr, CPUName: cpuName}
}

func errMissingFirmware(path string) error {
	return &EngineError{Kind: "missing-firmware", Path: path}
}
