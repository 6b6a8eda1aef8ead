// services/command/interpreter.go
package command

import (
	"errors"

	"dualmotor-go/errcode"
	"dualmotor-go/types"
	"dualmotor-go/x/conv"
)

// Motors is the motor driver as seen by the interpreter.
type Motors interface {
	SetSpeed(m types.MotorID, speed int8) error
	Speed(m types.MotorID) (uint8, error)
	SetEnable(m types.MotorID, on bool) error
	Enabled(m types.MotorID) (bool, error)
	SetDisable(m types.MotorID, on bool) error
	Disabled(m types.MotorID) (bool, error)
}

// Feedback is the sampler as seen by the interpreter.
type Feedback interface {
	ReadLast(m types.MotorID) uint16
}

// Reply is the result of a successful dispatch. Sets have no value.
type Reply struct {
	Value    uint32
	HasValue bool
}

var (
	errNotImplemented = errcode.New(errcode.NotImplemented, "dispatch", msgNotImplemented)
	errNonValidAction = errcode.New(errcode.UnsupportedAction, "set", msgNonValidAction)
)

// Interpreter routes parsed commands to the motor driver and sampler.
type Interpreter struct {
	motors Motors
	fb     Feedback
}

func NewInterpreter(motors Motors, fb Feedback) *Interpreter {
	return &Interpreter{motors: motors, fb: fb}
}

// Dispatch executes cmd. A rejected set leaves all state untouched.
func (in *Interpreter) Dispatch(cmd Command) (Reply, error) {
	info := cmd.Property.info()
	switch cmd.Action {
	case ActionGet:
		return in.get(info)
	case ActionSet:
		if !cmd.HasValue {
			return Reply{}, errSetParams
		}
		return Reply{}, in.set(info, cmd.Value)
	default:
		return Reply{}, errInvalidCommand
	}
}

func (in *Interpreter) get(p propInfo) (Reply, error) {
	switch p.kind {
	case kindSpeed:
		v, err := in.motors.Speed(p.motor)
		return value(uint32(v), err)
	case kindDisable:
		on, err := in.motors.Disabled(p.motor)
		return value(boolWord(on), err)
	case kindEnable:
		on, err := in.motors.Enabled(p.motor)
		return value(boolWord(on), err)
	case kindCurrent:
		if in.fb == nil {
			return Reply{}, errNotImplemented
		}
		return value(uint32(in.fb.ReadLast(p.motor)), nil)
	case kindLED:
		return Reply{}, errNotImplemented
	default:
		return Reply{}, errInvalidProp
	}
}

func (in *Interpreter) set(p propInfo, v int8) error {
	switch p.kind {
	case kindSpeed:
		return in.motors.SetSpeed(p.motor, v)
	case kindDisable:
		return in.motors.SetDisable(p.motor, v != 0)
	case kindEnable:
		return in.motors.SetEnable(p.motor, v != 0)
	case kindCurrent:
		return errNonValidAction
	case kindLED:
		return errNotImplemented
	default:
		return errInvalidProp
	}
}

func value(v uint32, err error) (Reply, error) {
	if err != nil {
		return Reply{}, err
	}
	return Reply{Value: v, HasValue: true}, nil
}

func boolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Execute parses and dispatches one line and appends the wire response to
// dst. Empty lines produce no response.
func (in *Interpreter) Execute(dst []byte, line []byte) []byte {
	if len(line) == 0 {
		return dst
	}
	cmd, err := ParseLine(string(line))
	if err != nil {
		return AppendError(dst, err)
	}
	r, err := in.Dispatch(cmd)
	if err != nil {
		return AppendError(dst, err)
	}
	return AppendReply(dst, r)
}

// AppendReply renders a successful reply: "0x<HEX>\r\n" for values, nothing
// for a silent set.
func AppendReply(dst []byte, r Reply) []byte {
	if !r.HasValue {
		return dst
	}
	dst = conv.AppendHex(dst, r.Value)
	return append(dst, '\r', '\n')
}

// AppendError renders err as a protocol error line.
func AppendError(dst []byte, err error) []byte {
	var e *errcode.E
	if errors.As(err, &e) && e.Op == opCommand {
		dst = append(dst, e.Msg...)
		return append(dst, '\r', '\n')
	}
	dst = append(dst, "Error: "...)
	dst = append(dst, errcode.Message(err)...)
	return append(dst, '\r', '\n')
}
