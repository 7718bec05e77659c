package duocore

import (
	"encoding/binary"
	"testing"
)

func TestDMAImmediateWordCopy(t *testing.T) {
	sys := NewSystem(BootConfig{})
	binary.LittleEndian.PutUint32(sys.mainRAM[0:4], 0x12345678)
	binary.LittleEndian.PutUint32(sys.mainRAM[4:8], 0x9ABCDEF0)

	d := sys.dma[0]
	ch := &d.channel[0]
	ch.source = 0x02000000
	ch.destination = 0x02001000
	ch.length = 2
	d.WriteControl(0, (1<<15)|(1<<10)) // enable, word transfer, timing=immediate

	sys.sched.Advance(sys, 1)

	if got := binary.LittleEndian.Uint32(sys.mainRAM[0x1000:0x1004]); got != 0x12345678 {
		t.Fatalf("dest[0] = %#x, want 0x12345678", got)
	}
	if got := binary.LittleEndian.Uint32(sys.mainRAM[0x1004:0x1008]); got != 0x9ABCDEF0 {
		t.Fatalf("dest[1] = %#x, want 0x9abcdef0", got)
	}
	if d.channel[0].enabled {
		t.Fatal("non-repeating channel should clear enabled after a one-shot transfer")
	}
}

func TestDMATriggerTimingSchedulesMatchingChannelsOnly(t *testing.T) {
	sys := NewSystem(BootConfig{})
	d := sys.dma[0]

	d.channel[1].source = 0x02000000
	d.channel[1].destination = 0x02002000
	d.channel[1].length = 1
	// timing = vblank (field value 1) in bits 11-13.
	d.WriteControl(1, (1<<15)|(1<<10)|(1<<11))

	d.channel[2].source = 0x02000000
	d.channel[2].destination = 0x02003000
	d.channel[2].length = 1
	// timing = hblank (field value 2): must not fire on a vblank trigger.
	d.WriteControl(2, (1<<15)|(1<<10)|(2<<11))

	d.TriggerTiming(dmaVBlank)
	sys.sched.Advance(sys, 1)

	if d.channel[1].enabled {
		t.Fatal("vblank-triggered one-shot channel should have fired and cleared")
	}
	if !d.channel[2].enabled {
		t.Fatal("hblank-timed channel should not fire on a vblank trigger")
	}
}
