// services/hal/platform/factories_rp2xxx.go
//go:build rp2040

package platform

import (
	"context"
	"machine"
	"runtime"
	"sync/atomic"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"dualmotor-go/services/hal/halcore"
	"dualmotor-go/types"
	"dualmotor-go/x/timex"
)

// -----------------------------------------------------------------------------
// PWM internals (RP2040)
// -----------------------------------------------------------------------------

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// Select controller handle for a given slice number (0..7).
func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// -----------------------------------------------------------------------------
// Bridge
// -----------------------------------------------------------------------------

// rp2Bridge keeps the 8-bit compare values in software and scales them onto
// the slice's wrap value. Gating is modelled as "drive stored duty" vs
// "drive 0", the RP2040 has no per-channel compare-output enable.
type rp2Bridge struct {
	ctrl  [2]pwmCtrl
	ch    [2]uint8
	top   [2]uint32
	wired [2]bool
	duty  [2]uint8
	gated bool

	lines [halcore.LineCount]machine.Pin
	has   [halcore.LineCount]bool
}

func newRP2Bridge(p BridgePlan, freqHz uint32) *rp2Bridge {
	b := &rp2Bridge{}
	for i, pin := range [2]int{p.PWMA, p.PWMB} {
		if pin == NoPin {
			continue
		}
		slice, err := machine.PWMPeripheral(machine.Pin(pin))
		if err != nil {
			println("[platform] pwm: no slice for pin", pin)
			continue
		}
		ctrl := pwmGroupBySlice(slice)
		if err := ctrl.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(freqHz)}); err != nil {
			println("[platform] pwm: configure failed for pin", pin)
			continue
		}
		ch, err := ctrl.Channel(machine.Pin(pin))
		if err != nil {
			println("[platform] pwm: channel failed for pin", pin)
			continue
		}
		ctrl.Set(ch, 0)
		b.ctrl[i], b.ch[i], b.top[i], b.wired[i] = ctrl, ch, ctrl.Top(), true
	}
	for l, pin := range [halcore.LineCount]int{p.Enable, p.Disable, p.In1, p.In2} {
		if pin == NoPin {
			continue
		}
		mp := machine.Pin(pin)
		mp.Configure(machine.PinConfig{Mode: machine.PinOutput})
		mp.Low()
		b.lines[l], b.has[l] = mp, true
	}
	return b
}

func (b *rp2Bridge) writeHW(i int) {
	if !b.wired[i] {
		return
	}
	var v uint32
	if b.gated {
		v = uint32(b.duty[i]) * b.top[i] / 0xFF
	}
	b.ctrl[i].Set(b.ch[i], v)
}

func (b *rp2Bridge) SetCompare(c halcore.Compare, duty uint8) {
	i := int(c & 1)
	b.duty[i] = duty
	b.writeHW(i)
}

func (b *rp2Bridge) Compare(c halcore.Compare) uint8 { return b.duty[c&1] }

func (b *rp2Bridge) GateOutputs(on bool) {
	b.gated = on
	b.writeHW(0)
	b.writeHW(1)
}

func (b *rp2Bridge) SetLine(l halcore.Line, level bool) {
	if int(l) < halcore.LineCount && b.has[l] {
		b.lines[l].Set(level)
	}
}

func (b *rp2Bridge) Line(l halcore.Line) bool {
	if int(l) < halcore.LineCount && b.has[l] {
		return b.lines[l].Get()
	}
	return false
}

// -----------------------------------------------------------------------------
// ADC
// -----------------------------------------------------------------------------

// rp2ADC emulates a free-running converter with a completion interrupt. The
// machine package only offers blocking reads, so a dedicated goroutine
// performs each triggered conversion and then calls the handler.
type rp2ADC struct {
	inputs []machine.ADC
	sel    uint8
	result atomic.Uint32
	start  chan struct{}
	irq    func()
	pace   time.Duration
}

func newRP2ADC(pins []machine.Pin, pace time.Duration) *rp2ADC {
	machine.InitADC()
	a := &rp2ADC{start: make(chan struct{}, 1), pace: pace}
	for _, p := range pins {
		in := machine.ADC{Pin: p}
		in.Configure(machine.ADCConfig{})
		a.inputs = append(a.inputs, in)
	}
	go a.run()
	return a
}

func (a *rp2ADC) run() {
	for range a.start {
		if ch := a.sel; int(ch) < len(a.inputs) {
			// machine.ADC scales to 16 bits; keep 10 bits like the reference board.
			a.result.Store(uint32(a.inputs[ch].Get() >> 6))
		}
		if h := a.irq; h != nil {
			h()
		}
		if a.pace > 0 {
			time.Sleep(a.pace)
		} else {
			runtime.Gosched()
		}
	}
}

func (a *rp2ADC) SetIRQ(handler func()) error { a.irq = handler; return nil }
func (a *rp2ADC) Select(ch uint8)              { a.sel = ch }
func (a *rp2ADC) Result() uint16               { return uint16(a.result.Load()) }

func (a *rp2ADC) Start() {
	select {
	case a.start <- struct{}{}:
	default:
	}
}

// -----------------------------------------------------------------------------
// UART: adapts uartx to halcore.UARTPort
// -----------------------------------------------------------------------------

type rp2SerialPort struct{ u *uartx.UART }

func (p *rp2SerialPort) Write(b []byte) (int, error) { return p.u.Write(b) }
func (p *rp2SerialPort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return p.u.RecvSomeContext(ctx, buf)
}

func newRP2Serial(plan Plan) *rp2SerialPort {
	hw := uartx.UART0
	if plan.UARTID == "uart1" {
		hw = uartx.UART1
	}
	// Defaults inside uartx apply if zero.
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: plan.UARTBaud,
		TX:       machine.Pin(plan.UARTTX),
		RX:       machine.Pin(plan.UARTRX),
	})
	return &rp2SerialPort{u: hw}
}

// -----------------------------------------------------------------------------
// Board
// -----------------------------------------------------------------------------

// adcPace spaces conversions so the sampler goroutine yields to the console.
const adcPace = 500 * time.Microsecond

// DefaultBoard configures the peripherals named by SelectedPlan.
func DefaultBoard() *Board {
	b := &Board{}
	var adcPins []machine.Pin
	for _, m := range types.Motors() {
		mp := SelectedPlan.Motors[m]
		b.Bridges[m] = newRP2Bridge(mp, SelectedPlan.PWMFreq)
		b.Reversed[m] = mp.Reversed
		b.ADCChannels[m] = uint8(len(adcPins))
		adcPins = append(adcPins, machine.Pin(mp.ADCPin))
	}
	b.ADC = newRP2ADC(adcPins, adcPace)
	b.UART = newRP2Serial(SelectedPlan)
	return b
}
