// services/hal/platform/board.go
package platform

import (
	"dualmotor-go/services/hal/halcore"
	"dualmotor-go/types"
)

// Board bundles the port capabilities the firmware core is built on.
type Board struct {
	Bridges  [types.MotorCount]halcore.Bridge
	Reversed [types.MotorCount]bool
	ADC      halcore.ADC
	// ADCChannels maps each motor to its multiplexer channel.
	ADCChannels [types.MotorCount]uint8
	UART        halcore.UARTPort
}
