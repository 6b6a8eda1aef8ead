// services/hal/halcore/types.go
package halcore

import "context"

// ---- Bridge (one H-bridge channel) ----

// Compare selects one of the two PWM output-compare registers feeding a bridge.
type Compare uint8

const (
	CompareA Compare = iota
	CompareB
)

// Line selects one of the static digital lines of a bridge.
// Which lines are wired depends on the drive strategy the board is built for.
type Line uint8

const (
	LineEnable Line = iota
	LineDisable
	LineIn1
	LineIn2
	lineCount
)

// LineCount is the number of addressable bridge lines.
const LineCount = int(lineCount)

func (l Line) String() string {
	switch l {
	case LineEnable:
		return "enable"
	case LineDisable:
		return "disable"
	case LineIn1:
		return "in1"
	case LineIn2:
		return "in2"
	default:
		return "?"
	}
}

// Bridge is the register-level view of one motor's H-bridge. Implementations
// must not block; they are driven from the foreground command loop.
type Bridge interface {
	// SetCompare writes an 8-bit duty value into the compare register.
	SetCompare(c Compare, duty uint8)
	// Compare reads back the last value written to the compare register.
	Compare(c Compare) uint8
	// GateOutputs connects (true) or disconnects (false) both compare outputs
	// from their pins without touching the stored compare values.
	GateOutputs(on bool)
	SetLine(l Line, level bool)
	Line(l Line) bool
}

// ---- ADC ----

// ADC is a single converter with a channel multiplexer and a
// conversion-complete notification.
type ADC interface {
	// SetIRQ installs the conversion-complete handler. The handler runs in
	// interrupt context: it must be short and must not block.
	SetIRQ(handler func()) error
	// Select programs the multiplexer for the next conversion.
	Select(ch uint8)
	// Start triggers one conversion on the selected channel.
	Start()
	// Result returns the value of the last finished conversion.
	Result() uint16
}

// ---------------- UART abstractions ----------------

type UARTPort interface {
	Write(p []byte) (int, error)
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
}
