// services/command/property.go
package command

import "dualmotor-go/types"

// Action is the top-level verb of a command line.
type Action uint8

const (
	ActionGet Action = iota + 1
	ActionSet
)

func (a Action) String() string {
	switch a {
	case ActionGet:
		return "get"
	case ActionSet:
		return "set"
	default:
		return "?"
	}
}

// Property is one entry of the closed property table.
type Property uint8

const (
	PropNone Property = iota
	PropM1Speed
	PropM2Speed
	PropM1Disable
	PropM2Disable
	PropLED1
	PropLED2
	PropLED3
	PropLED4
	PropM1Current
	PropM2Current
	PropM1Enable
	PropM2Enable
)

// kind groups properties that share a read/write path.
type kind uint8

const (
	kindNone kind = iota
	kindSpeed
	kindDisable
	kindEnable
	kindCurrent
	kindLED
)

type propInfo struct {
	name  string
	kind  kind
	motor types.MotorID
}

// Matching is exact and case-sensitive.
var props = [...]propInfo{
	PropNone:      {},
	PropM1Speed:   {"m1speed", kindSpeed, types.M1},
	PropM2Speed:   {"m2speed", kindSpeed, types.M2},
	PropM1Disable: {"m1disable", kindDisable, types.M1},
	PropM2Disable: {"m2disable", kindDisable, types.M2},
	PropLED1:      {"led1", kindLED, 0},
	PropLED2:      {"led2", kindLED, 0},
	PropLED3:      {"led3", kindLED, 0},
	PropLED4:      {"led4", kindLED, 0},
	PropM1Current: {"m1current", kindCurrent, types.M1},
	PropM2Current: {"m2current", kindCurrent, types.M2},
	PropM1Enable:  {"m1enable", kindEnable, types.M1},
	PropM2Enable:  {"m2enable", kindEnable, types.M2},
}

// LookupProperty maps a protocol name to its Property.
func LookupProperty(name string) (Property, bool) {
	if name == "" {
		return PropNone, false
	}
	for i := 1; i < len(props); i++ {
		if props[i].name == name {
			return Property(i), true
		}
	}
	return PropNone, false
}

func (p Property) info() propInfo {
	if int(p) >= len(props) {
		return propInfo{}
	}
	return props[p]
}

func (p Property) String() string {
	if n := p.info().name; n != "" {
		return n
	}
	return "?"
}

// Motor returns the motor a per-motor property addresses.
func (p Property) Motor() types.MotorID { return p.info().motor }

// Properties lists every recognised property in table order.
func Properties() []Property {
	out := make([]Property, 0, len(props)-1)
	for i := 1; i < len(props); i++ {
		out = append(out, Property(i))
	}
	return out
}
