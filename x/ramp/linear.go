package ramp

import (
	"time"

	"dualmotor-go/x/mathx"
)

// Step applies a new level in [0..top].
type Step func(level uint16)

// Tick waits for d and reports whether to continue (false => cancelled).
type Tick func(d time.Duration) bool

// StartLinear walks from cur to to in steps equal intervals spread over
// duration, calling set whenever the integer level changes. It runs on the
// caller's goroutine; tick owns timing and cancellation. steps==0 or a zero
// duration jumps straight to the target. The final level is always set
// unless tick cancels.
func StartLinear(cur, to, top uint16, duration time.Duration, steps uint16, tick Tick, set Step) {
	to = mathx.Min(to, top)
	if steps == 0 || duration <= 0 {
		set(to)
		return
	}
	interval := mathx.Max(duration/time.Duration(steps), time.Millisecond)

	span := int32(to) - int32(cur)
	n := int32(steps)
	level := int32(cur)
	var acc int32
	for i := uint16(1); i < steps; i++ {
		if !tick(interval) {
			return
		}
		// Carry the remainder so rounding never accumulates.
		acc += span
		if inc := acc / n; inc != 0 {
			acc -= inc * n
			level = mathx.Clamp(level+inc, 0, int32(top))
			set(uint16(level))
		}
	}
	if !tick(interval) {
		return
	}
	set(to)
}
