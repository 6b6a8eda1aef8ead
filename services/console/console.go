// services/console/console.go
package console

import (
	"context"
	"sync/atomic"
	"time"

	"dualmotor-go/services/command"
	"dualmotor-go/services/hal/halcore"
	"dualmotor-go/x/mathx"
)

// Executor turns one command line into its wire response.
type Executor interface {
	Execute(dst []byte, line []byte) []byte
}

type Config struct {
	Port        halcore.UARTPort
	ReadChunk   int           // clamp 16..256
	RecvTimeout time.Duration // clamp 10ms..2s, default 250ms
	Echo        bool          // echo accepted bytes, CRLF on line end
	Banner      string        // written once when Run starts
}

const (
	defaultChunk   = 64
	defaultTimeout = 250 * time.Millisecond
)

// Console is the foreground loop: it reads the serial link, assembles lines
// and writes back one response per line.
type Console struct {
	cfg  Config
	exec Executor
	lb   command.LineBuffer
	out  []byte
	rx   []byte

	lines    atomic.Uint32
	overflow atomic.Uint32
}

func New(cfg Config, exec Executor) *Console {
	if cfg.ReadChunk == 0 {
		cfg.ReadChunk = defaultChunk
	}
	cfg.ReadChunk = mathx.Clamp(cfg.ReadChunk, 16, 256)
	if cfg.RecvTimeout == 0 {
		cfg.RecvTimeout = defaultTimeout
	}
	cfg.RecvTimeout = mathx.Clamp(cfg.RecvTimeout, 10*time.Millisecond, 2*time.Second)
	return &Console{
		cfg:  cfg,
		exec: exec,
		out:  make([]byte, 0, command.LineCap+8),
		rx:   make([]byte, cfg.ReadChunk),
	}
}

// Run serves the link until ctx is cancelled and returns ctx.Err().
func (c *Console) Run(ctx context.Context) error {
	if c.cfg.Banner != "" {
		_, _ = c.cfg.Port.Write([]byte(c.cfg.Banner))
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Bound the blocking wait so cancellation is noticed.
		rctx, cancel := context.WithTimeout(ctx, c.cfg.RecvTimeout)
		n, _ := c.cfg.Port.RecvSomeContext(rctx, c.rx)
		cancel()
		if n <= 0 {
			continue
		}
		c.Process(c.rx[:n])
	}
}

// Process feeds received bytes through the line buffer and answers every
// completed line.
func (c *Console) Process(p []byte) {
	for _, b := range p {
		if c.cfg.Echo && c.lb.Accepts(b) {
			_, _ = c.cfg.Port.Write([]byte{b})
		}
		wasFull := c.lb.Overflowed()
		line, ok := c.lb.Feed(b)
		if !wasFull && c.lb.Overflowed() {
			c.overflow.Add(1)
			println("[console] line too long, dropping input until end of line")
		}
		if !ok {
			continue
		}
		c.out = c.out[:0]
		if c.cfg.Echo {
			c.out = append(c.out, '\r', '\n')
		}
		if len(line) > 0 {
			c.lines.Add(1)
		}
		c.out = c.exec.Execute(c.out, line)
		if len(c.out) > 0 {
			_, _ = c.cfg.Port.Write(c.out)
		}
	}
}

// Lines is the number of non-empty lines executed.
func (c *Console) Lines() uint32 { return c.lines.Load() }

// Overflows is the number of lines that were truncated.
func (c *Console) Overflows() uint32 { return c.overflow.Load() }
