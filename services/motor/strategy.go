package motor

import (
	"dualmotor-go/errcode"
	"dualmotor-go/services/hal/halcore"
	"dualmotor-go/x/mathx"
)

// Strategy is one way of wiring PWM into the H-bridge. Exactly one is selected
// per build (see Selected); both stay compiled so each can be tested alone.
type Strategy interface {
	Name() string
	// Init puts a bridge into its stopped state.
	Init(b halcore.Bridge)
	// SetSpeed writes the duty and direction for speed. reversed swaps the
	// half-bridges for a motor mounted the other way round.
	SetSpeed(b halcore.Bridge, speed int8, reversed bool)
	// Speed reads back the raw duty register(s) for diagnostics.
	Speed(b halcore.Bridge) uint8
	// DecodeSpeed turns a Speed readback into the signed speed that produced it.
	DecodeSpeed(raw uint8) int8
	SetEnable(b halcore.Bridge, on bool)
	SetDisable(b halcore.Bridge, on bool) error
	Disabled(b halcore.Bridge) (bool, error)
}

// setEnable is shared by both strategies: the enable line puts the bridge in
// and out of sleep, and the compare outputs follow it.
func setEnable(b halcore.Bridge, on bool) {
	b.SetLine(halcore.LineEnable, on)
	b.GateOutputs(on)
}

// -----------------------------------------------------------------------------
// Braking PWM
// -----------------------------------------------------------------------------

// Braking applies PWM to both direction inputs. During the off phase both
// inputs are low and the motor brakes. The disable input is a free line.
type Braking struct{}

func (Braking) Name() string { return "braking" }

func (Braking) Init(b halcore.Bridge) {
	b.SetCompare(halcore.CompareA, 0)
	b.SetCompare(halcore.CompareB, 0)
}

func (Braking) SetSpeed(b halcore.Bridge, speed int8, reversed bool) {
	in1, in2 := DutyFor(speed)
	if reversed {
		in1, in2 = in2, in1
	}
	// Clear the idle side first so both compares are never non-zero together.
	if in1 == 0 {
		b.SetCompare(halcore.CompareA, 0)
		b.SetCompare(halcore.CompareB, in2)
		return
	}
	b.SetCompare(halcore.CompareB, 0)
	b.SetCompare(halcore.CompareA, in1)
}

func (Braking) Speed(b halcore.Bridge) uint8 {
	return b.Compare(halcore.CompareA) | b.Compare(halcore.CompareB)
}

func (Braking) DecodeSpeed(raw uint8) int8 { return DecodeDuty(raw) }

func (Braking) SetEnable(b halcore.Bridge, on bool) { setEnable(b, on) }

// SetDisable drives the bridge's disable input; high forces Hi-Z outputs.
func (Braking) SetDisable(b halcore.Bridge, on bool) error {
	b.SetLine(halcore.LineDisable, on)
	return nil
}

func (Braking) Disabled(b halcore.Bridge) (bool, error) {
	return b.Line(halcore.LineDisable), nil
}

// -----------------------------------------------------------------------------
// Coasting PWM
// -----------------------------------------------------------------------------

// Coasting applies PWM to the bridge's disable input and sets direction with
// static IN1/IN2 lines. During the off phase the outputs float and the motor
// coasts. A higher compare value keeps the bridge disabled longer, so the
// stored value is inverted (255 - duty).
//
// Verify the inversion against the PWM polarity of the target before use.
type Coasting struct{}

func (Coasting) Name() string { return "coasting" }

func (Coasting) Init(b halcore.Bridge) {
	b.SetCompare(halcore.CompareA, 0xFF)
}

func (Coasting) SetSpeed(b halcore.Bridge, speed int8, reversed bool) {
	if speed == 0 {
		b.SetCompare(halcore.CompareA, 0xFF)
		return
	}
	fwd, rev := DutyFor(speed)
	forward := speed > 0
	if reversed {
		forward = !forward
	}
	if forward {
		b.SetLine(halcore.LineIn2, false)
		b.SetLine(halcore.LineIn1, true)
	} else {
		b.SetLine(halcore.LineIn1, false)
		b.SetLine(halcore.LineIn2, true)
	}
	b.SetCompare(halcore.CompareA, 0xFF-mathx.Max(fwd, rev))
}

func (Coasting) Speed(b halcore.Bridge) uint8 { return b.Compare(halcore.CompareA) }

func (Coasting) DecodeSpeed(raw uint8) int8 { return DecodeDuty(0xFF - raw) }

func (Coasting) SetEnable(b halcore.Bridge, on bool) { setEnable(b, on) }

// The disable input carries the PWM under this wiring.
func (Coasting) SetDisable(halcore.Bridge, bool) error {
	return errcode.New(errcode.NotImplemented, "disable", "Not implemented.")
}

func (Coasting) Disabled(halcore.Bridge) (bool, error) {
	return false, errcode.New(errcode.NotImplemented, "disable", "Not implemented.")
}
