// services/feedback/sampler.go
package feedback

import (
	"sync/atomic"

	"tinygo.org/x/drivers"

	"dualmotor-go/services/hal/halcore"
	"dualmotor-go/types"
)

// MaxSample is the largest value a 10-bit conversion can produce.
const MaxSample = 0x3FF

// Sampler keeps one fresh current-feedback sample per motor. Conversions
// alternate M1, M2, M1, ... and are chained from the completion handler, so
// the foreground never waits for the converter.
type Sampler struct {
	adc   halcore.ADC
	chans [types.MotorCount]uint8

	// Written only by the completion handler.
	next types.MotorID

	// Seqlock: odd while the handler is storing a sample.
	seq  atomic.Uint32
	last [types.MotorCount]atomic.Uint32

	// Captured by Update.
	snap [types.MotorCount]uint16
}

var _ drivers.Sensor = (*Sampler)(nil)

// New binds a sampler to adc. chans maps each motor to its converter input.
func New(adc halcore.ADC, chans [types.MotorCount]uint8) *Sampler {
	return &Sampler{adc: adc, chans: chans}
}

// Arm connects the completion handler, selects M1 and starts the first
// conversion. Call it once at startup.
func (s *Sampler) Arm() error {
	if err := s.adc.SetIRQ(s.irq); err != nil {
		return err
	}
	s.next = types.M1
	s.adc.Select(s.chans[types.M1])
	s.adc.Start()
	return nil
}

func (s *Sampler) irq() { s.OnConversionComplete(s.adc.Result()) }

// OnConversionComplete stores raw for the channel that was just converted,
// then arms the other channel and restarts the converter. It runs in
// interrupt context and must not block.
func (s *Sampler) OnConversionComplete(raw uint16) {
	done := s.next
	s.seq.Add(1)
	s.last[done].Store(uint32(raw & MaxSample))
	s.seq.Add(1)

	s.next = done.Other()
	s.adc.Select(s.chans[s.next])
	s.adc.Start()
}

// ReadLast returns the most recent sample for m, or 0 for an unknown motor.
func (s *Sampler) ReadLast(m types.MotorID) uint16 {
	if !m.Valid() {
		return 0
	}
	return uint16(s.last[m].Load())
}

// Snapshot returns both samples as they stood at a single instant.
func (s *Sampler) Snapshot() [types.MotorCount]uint16 {
	var out [types.MotorCount]uint16
	for {
		v := s.seq.Load()
		if v&1 != 0 {
			continue
		}
		for _, m := range types.Motors() {
			out[m] = uint16(s.last[m].Load())
		}
		if s.seq.Load() == v {
			return out
		}
	}
}

// Update implements drivers.Sensor. Only drivers.Voltage is meaningful; the
// captured pair is then available from Value. The values are raw 10-bit ADC
// codes at the current-sense pins, not millivolts.
func (s *Sampler) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return nil
	}
	s.snap = s.Snapshot()
	return nil
}

// Value returns the raw ADC code (0..MaxSample) for m captured by the last
// Update.
func (s *Sampler) Value(m types.MotorID) uint16 {
	if !m.Valid() {
		return 0
	}
	return s.snap[m]
}

// Conversions returns how many samples have been stored since boot.
func (s *Sampler) Conversions() uint32 { return s.seq.Load() / 2 }
