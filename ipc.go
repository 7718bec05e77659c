package duocore

// ipcFifo is a 16-word ring buffer, one per direction, per spec.md §4.10.
// Grounded on the original_source ringbuf shape (util/ringbuf.rs).
type ipcFifo struct {
	data     [16]uint32
	head     int
	len      int
	lastWord uint32 // latched last-returned word, read back when empty
}

func (f *ipcFifo) empty() bool { return f.len == 0 }
func (f *ipcFifo) full() bool  { return f.len == 16 }

func (f *ipcFifo) push(v uint32) bool {
	if f.full() {
		return false
	}
	f.data[(f.head+f.len)%16] = v
	f.len++
	return true
}

func (f *ipcFifo) pop() (uint32, bool) {
	if f.empty() {
		return f.lastWord, false
	}
	v := f.data[f.head]
	f.head = (f.head + 1) % 16
	f.len--
	f.lastWord = v
	return v, true
}

func (f *ipcFifo) clear() {
	f.head, f.len = 0, 0
}

// ipcSide holds one CPU's view of the sync register and FIFO control bits,
// per spec.md §4.10.
type ipcSide struct {
	input, output    uint8 // 4 bits each
	sendIRQPulse     bool
	enableRecvIRQ    bool

	sendEmptyIRQEn bool
	recvEmptyIRQEn bool
	errorBit       bool
	fifosEnabled   bool

	fifo *ipcFifo // this side's own outgoing FIFO
}

// IPC is the inter-processor communication unit from spec.md §4.10: two
// symmetric sides indexed by CPU, each with a 16-word FIFO.
type IPC struct {
	sys     *System
	side    [2]ipcSide // 0 = CPU9 (later), 1 = CPU7 (earlier)
	fifoA   ipcFifo    // CPU9 -> CPU7
	fifoB   ipcFifo    // CPU7 -> CPU9
}

func newIPC(sys *System) *IPC {
	ipc := &IPC{sys: sys}
	ipc.side[0].fifo = &ipc.fifoA
	ipc.side[1].fifo = &ipc.fifoB
	return ipc
}

func (ipc *IPC) reset() {
	ipc.fifoA.clear()
	ipc.fifoB.clear()
	ipc.side[0] = ipcSide{fifo: &ipc.fifoA}
	ipc.side[1] = ipcSide{fifo: &ipc.fifoB}
}

func other(i int) int { return 1 - i }

// WriteSync implements the IPCSYNC register write, per spec.md §4.10: write
// mask restricted to bits 8-14, mirror output into the other side's input,
// and conditionally raise IPCSYNC IRQ on the receiver.
func (ipc *IPC) WriteSync(cpuIdx int, val uint16) {
	s := &ipc.side[cpuIdx]
	if val&(1<<13) != 0 {
		s.sendIRQPulse = true
	} else {
		s.sendIRQPulse = false
	}
	s.enableRecvIRQ = val&(1<<14) != 0
	s.output = uint8((val >> 8) & 0xF)

	peer := &ipc.side[other(cpuIdx)]
	peer.input = s.output

	if s.sendIRQPulse && peer.enableRecvIRQ {
		ipc.sys.cpuByIndex(other(cpuIdx)).irq.Raise(IRQIPCSync)
	}
}

func (ipc *IPC) ReadSync(cpuIdx int) uint16 {
	s := &ipc.side[cpuIdx]
	var v uint16
	v |= uint16(s.input)
	v |= uint16(s.output) << 8
	if s.enableRecvIRQ {
		v |= 1 << 14
	}
	return v
}

// WriteFifoCnt implements FIFOCNT, per spec.md §4.10.
func (ipc *IPC) WriteFifoCnt(cpuIdx int, val uint16) {
	s := &ipc.side[cpuIdx]
	s.sendEmptyIRQEn = val&(1<<2) != 0
	if val&(1<<3) != 0 {
		s.fifo.clear()
	}
	s.recvEmptyIRQEn = val&(1<<10) != 0
	if val&(1<<14) != 0 {
		s.errorBit = false
	}
	s.fifosEnabled = val&(1<<15) != 0
}

func (ipc *IPC) ReadFifoCnt(cpuIdx int) uint16 {
	s := &ipc.side[cpuIdx]
	peer := &ipc.side[other(cpuIdx)]
	var v uint16
	if s.fifo.empty() {
		v |= 1 << 0
	}
	if s.fifo.full() {
		v |= 1 << 1
	}
	if s.sendEmptyIRQEn {
		v |= 1 << 2
	}
	if peer.fifo.empty() {
		v |= 1 << 8
	}
	if peer.fifo.full() {
		v |= 1 << 9
	}
	if s.recvEmptyIRQEn {
		v |= 1 << 10
	}
	if s.errorBit {
		v |= 1 << 14
	}
	if s.fifosEnabled {
		v |= 1 << 15
	}
	return v
}

// Send pushes a word onto cpuIdx's own outgoing FIFO, per spec.md §4.10.
func (ipc *IPC) Send(cpuIdx int, val uint32) {
	s := &ipc.side[cpuIdx]
	if !s.fifosEnabled {
		return
	}
	wasEmpty := s.fifo.empty()
	if !s.fifo.push(val) {
		s.errorBit = true
		return
	}
	_ = wasEmpty
	peer := &ipc.side[other(cpuIdx)]
	if peer.recvEmptyIRQEn {
		ipc.sys.cpuByIndex(other(cpuIdx)).irq.Raise(IRQIPCRecvNonEmpty)
	}
}

// Recv reads (and, if enabled, pops) the head of the other side's FIFO.
func (ipc *IPC) Recv(cpuIdx int) uint32 {
	peer := &ipc.side[other(cpuIdx)]
	s := &ipc.side[cpuIdx]
	if !s.fifosEnabled {
		return 0
	}
	if peer.fifo.empty() {
		s.errorBit = true
		return peer.fifo.lastWord
	}
	wasFull := peer.fifo.full()
	_ = wasFull
	v, _ := peer.fifo.pop()
	if peer.fifo.empty() && peer.sendEmptyIRQEn {
		ipc.sys.cpuByIndex(other(cpuIdx)).irq.Raise(IRQIPCSendEmpty)
	}
	return v
}
