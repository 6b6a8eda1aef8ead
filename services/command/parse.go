// services/command/parse.go
package command

import (
	"strings"

	"dualmotor-go/errcode"
)

// Command is one parsed line. Value is meaningful only when HasValue is set,
// which is always the case for ActionSet.
type Command struct {
	Action   Action
	Property Property
	Value    int8
	HasValue bool
}

// Protocol messages. These are the exact texts written back on the wire.
const (
	msgInvalidCommand = "Invalid command"
	msgSetParams      = "Set requires at least 2 parameters."
	msgGetParams      = "Get requires a property to fetch."
	msgInvalidProp    = "Invalid property."
	msgExpectedInt    = "Expected integer."
	msgNotImplemented = "Not implemented."
	msgNonValidAction = "Non-valid Action."
)

// opCommand marks errors about the verb itself; they are reported without
// the "Error: " prefix.
const opCommand = "command"

var (
	errInvalidCommand = errcode.New(errcode.UnknownToken, opCommand, msgInvalidCommand)
	errSetParams      = errcode.New(errcode.MissingParameter, "set", msgSetParams)
	errGetParams      = errcode.New(errcode.MissingParameter, "get", msgGetParams)
	errInvalidProp    = errcode.New(errcode.UnknownToken, "property", msgInvalidProp)
	errExpectedInt    = errcode.New(errcode.InvalidInteger, "value", msgExpectedInt)
)

// ParseLine parses `CMD SP PROPERTY (SP VALUE)?`. Tokens are split on single
// spaces; anything after the value is ignored. The property is checked before
// the value, so `set bogus x` reports the unknown property.
func ParseLine(line string) (Command, error) {
	verb, rest, more := strings.Cut(line, " ")

	var cmd Command
	switch verb {
	case "get":
		cmd.Action = ActionGet
	case "set":
		cmd.Action = ActionSet
	default:
		return Command{}, errInvalidCommand
	}

	if !more {
		if cmd.Action == ActionSet {
			return Command{}, errSetParams
		}
		return Command{}, errGetParams
	}

	name, rest, more := strings.Cut(rest, " ")
	p, ok := LookupProperty(name)
	if !ok {
		return Command{}, errInvalidProp
	}
	cmd.Property = p

	if cmd.Action == ActionGet {
		return cmd, nil
	}
	if !more {
		return Command{}, errSetParams
	}
	tok, _, _ := strings.Cut(rest, " ")
	v, err := parseInt8(tok)
	if err != nil {
		return Command{}, err
	}
	cmd.Value, cmd.HasValue = v, true
	return cmd, nil
}

// parseInt8 accepts an optional leading '-' followed by one or more ASCII
// digits, in [-128, 127].
func parseInt8(s string) (int8, error) {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, errExpectedInt
	}
	limit := 127
	if neg {
		limit = 128
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errExpectedInt
		}
		n = n*10 + int(c-'0')
		if n > limit {
			return 0, errExpectedInt
		}
	}
	if neg {
		n = -n
	}
	return int8(n), nil
}
