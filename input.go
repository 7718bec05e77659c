package duocore

// inputUnit mirrors host key events into KEYINPUT/KEYCNT, per spec.md's
// button-state MODULE. All bits are active-low: a pressed button clears
// its bit. Host windowing/event polling itself is a Non-goal; SetKeys is
// the sole entry point a host front-end calls.
type inputUnit struct {
	sys *System

	pressed uint16 // active-high internal state
	keycnt  uint16
}

// Button bit positions, per spec.md's KEYINPUT layout.
const (
	KeyA = 1 << iota
	KeyB
	KeySelect
	KeyStart
	KeyRight
	KeyLeft
	KeyUp
	KeyDown
	KeyR
	KeyL
)

func newInputUnit(sys *System) *inputUnit {
	return &inputUnit{sys: sys}
}

func (in *inputUnit) reset() {
	in.pressed = 0
	in.keycnt = 0
}

// SetKeys replaces the full pressed-button mask and, if KEYCNT's IRQ-enable
// bit is set, raises the keypad IRQ when the selected condition is met.
func (in *inputUnit) SetKeys(mask uint16) {
	in.pressed = mask
	if in.keycnt&(1<<14) == 0 {
		return
	}
	selected := in.keycnt & 0x3FF
	logicAND := in.keycnt&(1<<15) != 0
	hit := false
	if logicAND {
		hit = in.pressed&selected == selected
	} else {
		hit = in.pressed&selected != 0
	}
	if hit {
		in.sys.cpuLater.irq.Raise(IRQInput)
		in.sys.cpuEarlier.irq.Raise(IRQInput)
	}
}

func (in *inputUnit) keyinput() uint16 {
	return ^in.pressed & 0x3FF
}
