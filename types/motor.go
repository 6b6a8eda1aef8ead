package types

// MotorID identifies one of the two bridge channels on the board.
type MotorID uint8

const (
	M1 MotorID = iota
	M2
)

// MotorCount is fixed by the board; there is no dynamic motor list.
const MotorCount = 2

func (m MotorID) Valid() bool { return m < MotorCount }

// Other returns the opposite motor. Used by the sampler's round robin.
func (m MotorID) Other() MotorID {
	if m == M1 {
		return M2
	}
	return M1
}

func (m MotorID) String() string {
	switch m {
	case M1:
		return "m1"
	case M2:
		return "m2"
	default:
		return "m?"
	}
}

// Motors returns both IDs in board order.
func Motors() [MotorCount]MotorID { return [MotorCount]MotorID{M1, M2} }
