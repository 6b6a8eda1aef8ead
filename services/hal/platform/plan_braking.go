//go:build !coasting

package platform

// SelectedPlan wires both bridges for braking PWM: the compare outputs drive
// IN1/IN2 directly and the disable input stays a free GPIO line.
var SelectedPlan = Plan{
	Motors: [2]BridgePlan{
		{PWMA: 2, PWMB: 3, Enable: 6, Disable: 7, In1: NoPin, In2: NoPin, ADCPin: 26},
		{PWMA: 4, PWMB: 5, Enable: 8, Disable: 9, In1: NoPin, In2: NoPin, ADCPin: 27, Reversed: true},
	},
	PWMFreq:  10_000,
	UARTID:   "uart0",
	UARTTX:   0,
	UARTRX:   1,
	UARTBaud: 115_200,
}
