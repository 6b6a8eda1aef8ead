package motor

import (
	"dualmotor-go/errcode"
	"dualmotor-go/services/hal/halcore"
	"dualmotor-go/types"
)

// Channel is the wiring of one motor: its bridge and its sign convention.
type Channel struct {
	Bridge   halcore.Bridge
	Reversed bool
}

// Driver owns both bridges and applies the selected strategy to them.
// It is not safe for concurrent use; the console loop is its only caller.
type Driver struct {
	strat Strategy
	ch    [types.MotorCount]Channel
}

// New initialises both bridges to stopped and disabled.
func New(strat Strategy, chans [types.MotorCount]Channel) *Driver {
	d := &Driver{strat: strat, ch: chans}
	for _, c := range d.ch {
		if c.Bridge == nil {
			continue
		}
		strat.Init(c.Bridge)
		strat.SetEnable(c.Bridge, false)
	}
	return d
}

func (d *Driver) Strategy() Strategy { return d.strat }

func (d *Driver) bridge(m types.MotorID) (Channel, error) {
	if !m.Valid() || d.ch[m].Bridge == nil {
		return Channel{}, errcode.UnknownMotor
	}
	return d.ch[m], nil
}

func (d *Driver) SetSpeed(m types.MotorID, speed int8) error {
	c, err := d.bridge(m)
	if err != nil {
		return err
	}
	d.strat.SetSpeed(c.Bridge, speed, c.Reversed)
	return nil
}

// Speed returns the raw duty readback. It does not undo the coasting
// inversion; use Strategy().DecodeSpeed for that.
func (d *Driver) Speed(m types.MotorID) (uint8, error) {
	c, err := d.bridge(m)
	if err != nil {
		return 0, err
	}
	return d.strat.Speed(c.Bridge), nil
}

// SetEnable wakes or sleeps the bridge. Stored duty values survive a disable
// and are output again on re-enable.
func (d *Driver) SetEnable(m types.MotorID, on bool) error {
	c, err := d.bridge(m)
	if err != nil {
		return err
	}
	d.strat.SetEnable(c.Bridge, on)
	return nil
}

func (d *Driver) Enabled(m types.MotorID) (bool, error) {
	c, err := d.bridge(m)
	if err != nil {
		return false, err
	}
	return c.Bridge.Line(halcore.LineEnable), nil
}

func (d *Driver) SetDisable(m types.MotorID, on bool) error {
	c, err := d.bridge(m)
	if err != nil {
		return err
	}
	return d.strat.SetDisable(c.Bridge, on)
}

func (d *Driver) Disabled(m types.MotorID) (bool, error) {
	c, err := d.bridge(m)
	if err != nil {
		return false, err
	}
	return d.strat.Disabled(c.Bridge)
}
