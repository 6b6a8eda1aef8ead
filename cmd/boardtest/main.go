// cmd/boardtest/main.go
//go:build rp2040

package main

import (
	"time"

	"tinygo.org/x/drivers"

	"dualmotor-go/services/feedback"
	"dualmotor-go/services/hal/platform"
	"dualmotor-go/services/motor"
	"dualmotor-go/types"
	"dualmotor-go/x/ramp"
)

// ---------- Configuration ----------

const (
	// Sweep timing
	rampDuration = 2 * time.Second
	rampSteps    = 32
	dwell        = time.Second

	// Sweep limits as signed speeds.
	sweepTop    = 127
	sweepBottom = -128

	// Cycles: 0 = loop forever
	cyclesToRun = 0
)

// Ramp levels run 0..255 and map onto speeds -128..127.
const levelOffset = 128

func speedOf(level uint16) int8 { return int8(int(level) - levelOffset) }
func levelOf(speed int8) uint16 { return uint16(int(speed) + levelOffset) }

// ---------- Helpers ----------

func report(drv *motor.Driver, s *feedback.Sampler, m types.MotorID, speed int8) {
	if err := s.Update(drivers.Voltage); err != nil {
		println("[boardtest] sampler update failed:", err.Error())
		return
	}
	raw, _ := drv.Speed(m)
	println("[boardtest]", m.String(),
		"speed", speed,
		"duty", raw,
		"m1current", s.Value(types.M1),
		"m2current", s.Value(types.M2))
}

func sweep(drv *motor.Driver, s *feedback.Sampler, m types.MotorID, from, to int8) {
	ramp.StartLinear(levelOf(from), levelOf(to), 0xFF, rampDuration, rampSteps,
		func(d time.Duration) bool {
			time.Sleep(d)
			return true
		},
		func(level uint16) {
			speed := speedOf(level)
			_ = drv.SetSpeed(m, speed)
			report(drv, s, m, speed)
		})
	time.Sleep(dwell)
}

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[boardtest] start")

	board := platform.DefaultBoard()
	var chans [types.MotorCount]motor.Channel
	for _, m := range types.Motors() {
		chans[m] = motor.Channel{Bridge: board.Bridges[m], Reversed: board.Reversed[m]}
	}
	drv := motor.New(motor.Selected(), chans)
	s := feedback.New(board.ADC, board.ADCChannels)
	if err := s.Arm(); err != nil {
		println("[boardtest] sampler arm failed:", err.Error())
		return
	}
	println("[boardtest] strategy", drv.Strategy().Name())

	for cycle := 1; cyclesToRun == 0 || cycle <= cyclesToRun; cycle++ {
		println("[boardtest] cycle", cycle)
		for _, m := range types.Motors() {
			_ = drv.SetEnable(m, true)
			sweep(drv, s, m, 0, sweepTop)
			sweep(drv, s, m, sweepTop, sweepBottom)
			sweep(drv, s, m, sweepBottom, 0)
			_ = drv.SetEnable(m, false)
		}
	}
	println("[boardtest] done")
}
