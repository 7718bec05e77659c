package duocore

import (
	"os"
	"path/filepath"
	"strings"
)

// FirmwareLoader loads cartridge ROM and firmware images from a sandboxed
// host directory, adapted from the teacher's FileIODevice sandboxing
// convention (reject absolute paths and "..", then verify the resolved path
// still lives under baseDir) -- applied here to the host-side boot-asset
// loader rather than a guest-addressable MMIO device, since guest file
// access is outside spec.md's scope.
type FirmwareLoader struct {
	baseDir string
}

func NewFirmwareLoader(baseDir string) *FirmwareLoader {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		abs = baseDir
	}
	return &FirmwareLoader{baseDir: abs}
}

func (l *FirmwareLoader) sanitize(path string) (string, bool) {
	if filepath.IsAbs(path) || strings.Contains(path, "..") {
		return "", false
	}
	full := filepath.Join(l.baseDir, path)
	rel, err := filepath.Rel(l.baseDir, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return full, true
}

// LoadROM reads a cartridge image relative to the sandbox root.
func (l *FirmwareLoader) LoadROM(name string) ([]byte, error) {
	return l.load(name)
}

// LoadFirmware reads a firmware image relative to the sandbox root.
func (l *FirmwareLoader) LoadFirmware(name string) ([]byte, error) {
	return l.load(name)
}

func (l *FirmwareLoader) load(name string) ([]byte, error) {
	full, ok := l.sanitize(name)
	if !ok {
		return nil, errMissingFirmware(name)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, errMissingFirmware(full)
	}
	return data, nil
}
