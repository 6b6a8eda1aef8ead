package motor

import "dualmotor-go/x/mathx"

// DutyFor maps a signed speed onto the two direction duty values.
//
// The int8 input has 128 negative and 127 positive codes; the 8-bit duty has
// 256. Forward speeds take the even codes 2..254, reverse speeds take the odd
// codes 1..255, so -128 reaches full duty instead of being clamped. At most
// one of the two results is non-zero.
func DutyFor(speed int8) (fwd, rev uint8) {
	switch {
	case speed > 0:
		return uint8(speed) << 1, 0
	case speed < 0:
		return 0, uint8(mathx.Abs(int16(speed))<<1 - 1)
	default:
		return 0, 0
	}
}

// DecodeDuty is the inverse of DutyFor for a single non-inverted duty value:
// even codes are forward, odd codes are reverse.
func DecodeDuty(duty uint8) int8 {
	switch {
	case duty == 0:
		return 0
	case duty&1 == 0:
		return int8(duty >> 1)
	default:
		return int8(-((int16(duty) + 1) >> 1))
	}
}
