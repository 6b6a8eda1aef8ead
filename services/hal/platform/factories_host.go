// services/hal/platform/factories_host.go
//go:build !rp2040

package platform

import (
	"context"
	"sync"

	"dualmotor-go/services/hal/halcore"
	"dualmotor-go/types"
)

// ----------------------------- Bridge (host) ---------------------------------

// CompareWrite is one recorded compare-register write.
type CompareWrite struct {
	C    halcore.Compare
	Duty uint8
}

// FakeBridge implements halcore.Bridge for host-side tests. It records every
// compare write so tests can check intermediate register states.
type FakeBridge struct {
	mu     sync.Mutex
	cmp    [2]uint8
	lines  [halcore.LineCount]bool
	gated  bool
	writes []CompareWrite
}

func (b *FakeBridge) SetCompare(c halcore.Compare, duty uint8) {
	b.mu.Lock()
	b.cmp[c&1] = duty
	b.writes = append(b.writes, CompareWrite{C: c, Duty: duty})
	b.mu.Unlock()
}

func (b *FakeBridge) Compare(c halcore.Compare) uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cmp[c&1]
}

func (b *FakeBridge) GateOutputs(on bool) {
	b.mu.Lock()
	b.gated = on
	b.mu.Unlock()
}

func (b *FakeBridge) SetLine(l halcore.Line, level bool) {
	if int(l) >= halcore.LineCount {
		return
	}
	b.mu.Lock()
	b.lines[l] = level
	b.mu.Unlock()
}

func (b *FakeBridge) Line(l halcore.Line) bool {
	if int(l) >= halcore.LineCount {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lines[l]
}

// Gated reports whether the compare outputs are connected to their pins.
func (b *FakeBridge) Gated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gated
}

// Writes returns a copy of the compare write log.
func (b *FakeBridge) Writes() []CompareWrite {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]CompareWrite(nil), b.writes...)
}

// ResetWrites clears the compare write log.
func (b *FakeBridge) ResetWrites() {
	b.mu.Lock()
	b.writes = b.writes[:0]
	b.mu.Unlock()
}

// ----------------------------- ADC (host) ------------------------------------

// FakeADC implements halcore.ADC. Conversions finish only when a test calls
// Complete, which runs the handler synchronously like an ISR would.
type FakeADC struct {
	mu      sync.Mutex
	sel     uint8
	result  uint16
	pending bool
	starts  int
	selects []uint8
	irq     func()
}

func (a *FakeADC) SetIRQ(handler func()) error {
	a.mu.Lock()
	a.irq = handler
	a.mu.Unlock()
	return nil
}

func (a *FakeADC) Select(ch uint8) {
	a.mu.Lock()
	a.sel = ch
	a.selects = append(a.selects, ch)
	a.mu.Unlock()
}

func (a *FakeADC) Start() {
	a.mu.Lock()
	a.pending = true
	a.starts++
	a.mu.Unlock()
}

func (a *FakeADC) Result() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Complete finishes the pending conversion with raw and fires the handler.
// It reports false if no conversion was started.
func (a *FakeADC) Complete(raw uint16) bool {
	a.mu.Lock()
	if !a.pending {
		a.mu.Unlock()
		return false
	}
	a.pending = false
	a.result = raw
	irq := a.irq
	a.mu.Unlock()
	if irq != nil {
		irq()
	}
	return true
}

// Selected returns the channel the multiplexer currently points at.
func (a *FakeADC) Selected() uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sel
}

// Selects returns the history of multiplexer programming.
func (a *FakeADC) Selects() []uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uint8(nil), a.selects...)
}

// Starts returns how many conversions were triggered.
func (a *FakeADC) Starts() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.starts
}

// ----------------------------- UART (host) -----------------------------------

// HostUART implements halcore.UARTPort over in-memory buffers.
type HostUART struct {
	mu sync.Mutex
	rx []byte
	tx []byte
	rd chan struct{}
}

func NewHostUART() *HostUART { return &HostUART{rd: make(chan struct{}, 1)} }

// Inject queues bytes as if they arrived on the wire.
func (u *HostUART) Inject(b []byte) {
	u.mu.Lock()
	u.rx = append(u.rx, b...)
	if len(u.rd) == 0 {
		u.rd <- struct{}{}
	}
	u.mu.Unlock()
}

func (u *HostUART) Write(p []byte) (int, error) {
	u.mu.Lock()
	u.tx = append(u.tx, p...)
	u.mu.Unlock()
	return len(p), nil
}

// Output drains and returns everything written so far.
func (u *HostUART) Output() []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := u.tx
	u.tx = nil
	return out
}

func (u *HostUART) read(p []byte) int {
	u.mu.Lock()
	n := copy(p, u.rx)
	u.rx = u.rx[n:]
	u.mu.Unlock()
	return n
}

func (u *HostUART) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	if n := u.read(p); n > 0 {
		return n, nil
	}
	select {
	case <-u.rd:
		return u.read(p), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// ----------------------------- Board (host) ----------------------------------

// HostBoard is a Board whose ports are the fakes above, kept typed for tests.
type HostBoard struct {
	Board
	FakeBridges [types.MotorCount]*FakeBridge
	FakeADC     *FakeADC
	FakeUART    *HostUART
}

// NewHostBoard builds an inert board from a plan. Only the plan's sign
// conventions matter on host; pins are ignored.
func NewHostBoard(plan Plan) *HostBoard {
	hb := &HostBoard{
		FakeADC:  &FakeADC{},
		FakeUART: NewHostUART(),
	}
	for _, m := range types.Motors() {
		hb.FakeBridges[m] = &FakeBridge{}
		hb.Bridges[m] = hb.FakeBridges[m]
		hb.Reversed[m] = plan.Motors[m].Reversed
		hb.ADCChannels[m] = uint8(m)
	}
	hb.ADC = hb.FakeADC
	hb.UART = hb.FakeUART
	return hb
}

// DefaultBoard provides a host board for the selected plan.
func DefaultBoard() *Board { return &NewHostBoard(SelectedPlan).Board }
