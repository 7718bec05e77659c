package duocore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFirmwareLoaderLoadsWithinSandbox(t *testing.T) {
	dir := t.TempDir()
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := os.WriteFile(filepath.Join(dir, "game.rom"), want, 0644); err != nil {
		t.Fatal(err)
	}

	l := NewFirmwareLoader(dir)
	got, err := l.LoadROM("game.rom")
	if err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("LoadROM content = %v, want %v", got, want)
	}
}

func TestFirmwareLoaderRejectsAbsolutePath(t *testing.T) {
	l := NewFirmwareLoader(t.TempDir())
	if _, err := l.LoadROM("/etc/passwd"); err == nil {
		t.Fatal("expected error for absolute path")
	}
}

func TestFirmwareLoaderRejectsParentTraversal(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(filepath.Dir(dir), "secret.bin")
	if err := os.WriteFile(outside, []byte("secret"), 0644); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(outside)

	l := NewFirmwareLoader(dir)
	if _, err := l.LoadFirmware("../secret.bin"); err == nil {
		t.Fatal("expected error for parent-directory traversal")
	}
}

func TestFirmwareLoaderMissingFileReturnsEngineError(t *testing.T) {
	l := NewFirmwareLoader(t.TempDir())
	_, err := l.LoadROM("missing.rom")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	ee, ok := err.(*EngineError)
	if !ok || ee.Kind != "missing-firmware" {
		t.Fatalf("err = %v, want *EngineError{Kind: missing-firmware}", err)
	}
}
