// services/hal/platform/plan.go
package platform

import "dualmotor-go/types"

// NoPin marks a function that is not wired in the selected plan.
const NoPin = -1

// BridgePlan specifies wiring for one motor channel.
// PWM pins are compare outputs; the rest are static GPIO lines.
type BridgePlan struct {
	PWMA, PWMB int // compare A/B output pins
	Enable     int
	Disable    int
	In1, In2   int
	// Reversed is set when the motor is mounted rotated, so forward drive
	// goes to the second half-bridge.
	Reversed bool
	ADCPin   int // current-sense input
}

// Plan specifies wiring and operating parameters for the whole board.
type Plan struct {
	Motors   [types.MotorCount]BridgePlan
	PWMFreq  uint32 // Hz
	UARTID   string // e.g. "uart0"
	UARTTX   int
	UARTRX   int
	UARTBaud uint32
}
