package duocore

import "testing"

func TestTimerOverflowFiresAtReloadDelay(t *testing.T) {
	sys := NewSystem(BootConfig{})
	u := sys.timers[0]

	u.WriteReload(0, 0xFFF0) // counter starts 16 ticks from overflow
	u.WriteControl(0, 1<<7|1<<6) // start, prescaler=0, irq enabled

	sys.sched.Advance(sys, 15)
	if sys.cpuLater.irq.iF&IRQTimer0 != 0 {
		t.Fatal("timer fired before its reload delay elapsed")
	}

	sys.sched.Advance(sys, 1)
	if sys.cpuLater.irq.iF&IRQTimer0 == 0 {
		t.Fatal("expected timer 0 overflow IRQ after 16 ticks")
	}
}

func TestTimerCountUpChaining(t *testing.T) {
	sys := NewSystem(BootConfig{})
	u := sys.timers[0]

	// Channel 1 runs in count-up mode, incrementing once per channel 0
	// overflow rather than on its own prescaled clock.
	u.WriteReload(1, 0xFFFE)
	u.WriteControl(1, 1<<7|1<<2) // start, count_up

	u.WriteReload(0, 0xFFFF) // overflows after 1 tick
	u.WriteControl(0, 1<<7)

	sys.sched.Advance(sys, 1)
	if u.channel[1].counter != 0xFFFF {
		t.Fatalf("channel 1 counter = %#x, want 0xFFFF after one chained increment", u.channel[1].counter)
	}
}

func TestTimerStopCancelsScheduledOverflow(t *testing.T) {
	sys := NewSystem(BootConfig{})
	u := sys.timers[0]

	u.WriteReload(0, 0xFFF0)
	u.WriteControl(0, 1<<7|1<<6)
	u.WriteControl(0, 0) // stop

	sys.sched.Advance(sys, 100)
	if sys.cpuLater.irq.iF&IRQTimer0 != 0 {
		t.Fatal("stopped timer should never raise its overflow IRQ")
	}
}
