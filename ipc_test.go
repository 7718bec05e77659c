package duocore

import "testing"

func TestIPCSyncHandshakeRaisesIRQ(t *testing.T) {
	sys := NewSystem(BootConfig{})
	ipc := sys.ipc

	// CPU9 (idx 0) enables receive-IRQ and clears its output; CPU7 (idx 1)
	// then writes its sync register with the send-irq bit set.
	ipc.WriteSync(0, 1<<14)
	ipc.WriteSync(1, (5<<8)|(1<<13))

	if got := ipc.ReadSync(0); got&0xF != 5 {
		t.Fatalf("CPU9 sync input = %#x, want mirrored output 5", got&0xF)
	}
	if sys.cpuLater.irq.iF&IRQIPCSync == 0 {
		t.Fatal("expected IPCSYNC IRQ flag raised on CPU9")
	}
}

func TestIPCFifoSendRecvRoundTrip(t *testing.T) {
	sys := NewSystem(BootConfig{})
	ipc := sys.ipc

	ipc.WriteFifoCnt(0, 1<<15) // enable CPU9's fifo
	ipc.WriteFifoCnt(1, 1<<15) // enable CPU7's fifo

	ipc.Send(0, 0xDEADBEEF)
	got := ipc.Recv(1)
	if got != 0xDEADBEEF {
		t.Fatalf("Recv = %#x, want 0xDEADBEEF", got)
	}
	if !ipc.fifoA.empty() {
		t.Fatal("fifoA should be empty after the single word is received")
	}
}

func TestIPCFifoRecvEmptySetsErrorBit(t *testing.T) {
	sys := NewSystem(BootConfig{})
	ipc := sys.ipc
	ipc.WriteFifoCnt(0, 1<<15)
	ipc.WriteFifoCnt(1, 1<<15)

	ipc.Recv(1)
	if !ipc.side[1].errorBit {
		t.Fatal("expected error bit set after receiving from an empty FIFO")
	}
}

func TestIPCFifoFullRejectsPush(t *testing.T) {
	sys := NewSystem(BootConfig{})
	ipc := sys.ipc
	ipc.WriteFifoCnt(0, 1<<15)

	for i := 0; i < 16; i++ {
		ipc.Send(0, uint32(i))
	}
	ipc.Send(0, 999) // 17th push should fail
	if !ipc.side[0].errorBit {
		t.Fatal("expected error bit set after overflowing the FIFO")
	}
}
