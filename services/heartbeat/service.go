package heartbeat

import (
	"context"
	"strings"
	"time"

	"dualmotor-go/x/mathx"
	"dualmotor-go/x/strconvx"
)

// Stat is one named counter shown on every beat.
type Stat struct {
	Name  string
	Value func() uint32
}

type Config struct {
	Interval time.Duration // clamp 100ms..1m, default 5s
	Stats    []Stat
	// Out receives each heartbeat line. Defaults to println.
	Out func(line string)
}

type Service struct {
	interval time.Duration
	stats    []Stat
	out      func(string)
}

func New(cfg Config) *Service {
	iv := cfg.Interval
	if iv == 0 {
		iv = 5 * time.Second
	}
	out := cfg.Out
	if out == nil {
		out = func(line string) { println(line) }
	}
	return &Service{
		interval: mathx.Clamp(iv, 100*time.Millisecond, time.Minute),
		stats:    cfg.Stats,
		out:      out,
	}
}

func (s *Service) serviceLoop(ctx context.Context) {
	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.out("[heartbeat] stopping")
			return
		case t := <-tick.C:
			s.out(s.Line(t))
		}
	}
}

// Line renders one heartbeat: the time followed by name=value pairs.
func (s *Service) Line(t time.Time) string {
	var b strings.Builder
	b.WriteString("[heartbeat] ")
	b.WriteString(t.Format("15:04:05"))
	for _, st := range s.stats {
		b.WriteByte(' ')
		b.WriteString(st.Name)
		b.WriteByte('=')
		b.WriteString(strconvx.FormatUint(uint64(st.Value()), 10))
	}
	return b.String()
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context) error {
	go s.serviceLoop(ctx)
	return nil
}
