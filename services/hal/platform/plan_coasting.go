//go:build coasting

package platform

// SelectedPlan wires both bridges for coasting PWM: compare A drives the
// bridge's disable input, IN1/IN2 become static direction lines. On this
// wiring M2's direction lines already follow M1's sense, so neither motor
// is marked reversed.
var SelectedPlan = Plan{
	Motors: [2]BridgePlan{
		{PWMA: 7, PWMB: NoPin, Enable: 6, Disable: NoPin, In1: 2, In2: 3, ADCPin: 26},
		{PWMA: 9, PWMB: NoPin, Enable: 8, Disable: NoPin, In1: 4, In2: 5, ADCPin: 27},
	},
	PWMFreq:  10_000,
	UARTID:   "uart0",
	UARTTX:   0,
	UARTRX:   1,
	UARTBaud: 115_200,
}
