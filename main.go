package main

import (
	"context"
	"time"

	"dualmotor-go/services/command"
	"dualmotor-go/services/console"
	"dualmotor-go/services/feedback"
	"dualmotor-go/services/hal/platform"
	"dualmotor-go/services/heartbeat"
	"dualmotor-go/services/motor"
	"dualmotor-go/types"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	board := platform.DefaultBoard()

	var chans [types.MotorCount]motor.Channel
	for _, m := range types.Motors() {
		chans[m] = motor.Channel{Bridge: board.Bridges[m], Reversed: board.Reversed[m]}
	}
	drv := motor.New(motor.Selected(), chans)
	println("[main] drive strategy:", drv.Strategy().Name())

	// Bridges come up stopped; wake them so set commands take effect at once.
	for _, m := range types.Motors() {
		_ = drv.SetEnable(m, true)
	}

	sampler := feedback.New(board.ADC, board.ADCChannels)
	if err := sampler.Arm(); err != nil {
		println("[main] feedback sampler not armed:", err.Error())
	}

	con := console.New(console.Config{
		Port:   board.UART,
		Echo:   true,
		Banner: "\r\nmotor controller ready\r\n",
	}, command.NewInterpreter(drv, sampler))

	ctx := context.Background()
	hb := heartbeat.New(heartbeat.Config{
		Interval: 10 * time.Second,
		Stats: []heartbeat.Stat{
			{Name: "lines", Value: con.Lines},
			{Name: "overflows", Value: con.Overflows},
			{Name: "conversions", Value: sampler.Conversions},
			{Name: "m1current", Value: func() uint32 { return uint32(sampler.ReadLast(types.M1)) }},
			{Name: "m2current", Value: func() uint32 { return uint32(sampler.ReadLast(types.M2)) }},
		},
	})
	_ = hb.Start(ctx)

	println("[main] console running")
	_ = con.Run(ctx)
}
