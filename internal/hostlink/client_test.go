package hostlink

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"dualmotor-go/errcode"
	"dualmotor-go/services/command"
	"dualmotor-go/services/console"
	"dualmotor-go/services/feedback"
	"dualmotor-go/services/hal/platform"
	"dualmotor-go/services/motor"
	"dualmotor-go/types"
)

// boardLink runs the firmware command stack in-process behind an
// io.ReadWriter, the way a serial port would present it.
type boardLink struct {
	con  *console.Console
	uart *platform.HostUART
	adc  *platform.FakeADC

	mu     sync.Mutex
	buf    []byte
	ready  chan struct{}
	closed bool
}

func newBoardLink(strat motor.Strategy, echo bool) *boardLink {
	hb := platform.NewHostBoard(platform.SelectedPlan)
	var chans [types.MotorCount]motor.Channel
	for _, m := range types.Motors() {
		chans[m] = motor.Channel{Bridge: hb.Bridges[m], Reversed: hb.Reversed[m]}
	}
	s := feedback.New(hb.ADC, hb.ADCChannels)
	_ = s.Arm()
	con := console.New(console.Config{Port: hb.FakeUART, Echo: echo},
		command.NewInterpreter(motor.New(strat, chans), s))
	l := &boardLink{con: con, uart: hb.FakeUART, adc: hb.FakeADC, ready: make(chan struct{}, 1)}
	if echo {
		l.push([]byte("\r\nmotor controller ready\r\n"))
	}
	return l
}

func (l *boardLink) push(p []byte) {
	l.mu.Lock()
	l.buf = append(l.buf, p...)
	l.mu.Unlock()
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *boardLink) Write(p []byte) (int, error) {
	l.con.Process(p)
	l.push(l.uart.Output())
	return len(p), nil
}

func (l *boardLink) Read(p []byte) (int, error) {
	for {
		l.mu.Lock()
		if len(l.buf) > 0 {
			n := copy(p, l.buf)
			l.buf = l.buf[n:]
			l.mu.Unlock()
			return n, nil
		}
		if l.closed {
			l.mu.Unlock()
			return 0, io.EOF
		}
		l.mu.Unlock()
		<-l.ready
	}
}

func (l *boardLink) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// laggingLink holds back the board's answer to the first line it receives.
// Later lines queue behind it, so the board still answers in order.
type laggingLink struct {
	*boardLink
	in chan []byte
}

func newLaggingLink(lag time.Duration) *laggingLink {
	l := &laggingLink{boardLink: newBoardLink(motor.Braking{}, false), in: make(chan []byte, 16)}
	go func() {
		first := true
		for p := range l.in {
			if first {
				time.Sleep(lag)
				first = false
			}
			_, _ = l.boardLink.Write(p)
		}
	}()
	return l
}

func (l *laggingLink) Write(p []byte) (int, error) {
	l.in <- append([]byte(nil), p...)
	return len(p), nil
}

func (l *laggingLink) Close() {
	close(l.in)
	l.boardLink.Close()
}

// scriptedBoard answers each CR-terminated line with reply(line). An empty
// answer stays silent, the way a successful set does.
type scriptedBoard struct {
	*io.PipeReader
	out   *io.PipeWriter
	reply func(line string) string
	pend  []byte
}

func newScriptedBoard(reply func(string) string) *scriptedBoard {
	r, w := io.Pipe()
	return &scriptedBoard{PipeReader: r, out: w, reply: reply}
}

func (b *scriptedBoard) Write(p []byte) (int, error) {
	b.pend = append(b.pend, p...)
	for {
		i := bytes.IndexByte(b.pend, '\r')
		if i < 0 {
			return len(p), nil
		}
		line := string(b.pend[:i])
		b.pend = b.pend[i+1:]
		if a := b.reply(line); a != "" {
			if _, err := io.WriteString(b.out, a+"\r\n"); err != nil {
				return 0, err
			}
		}
	}
}

func ctxShort() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

func TestParseReply(t *testing.T) {
	Convey("ParseReply classifies board lines", t, func() {
		r, ok := ParseReply("0x1F\r\n")
		So(ok, ShouldBeTrue)
		So(r.Value, ShouldEqual, 0x1F)
		So(r.Err, ShouldBeNil)

		r, ok = ParseReply("Error: Not implemented.")
		So(ok, ShouldBeTrue)
		So(r.Err.C, ShouldEqual, errcode.NotImplemented)

		r, ok = ParseReply("Invalid command")
		So(ok, ShouldBeTrue)
		So(r.Err.C, ShouldEqual, errcode.UnknownToken)

		r, ok = ParseReply("Error: something new")
		So(ok, ShouldBeTrue)
		So(r.Err.C, ShouldEqual, errcode.Error)

		Convey("echo, banner and blank lines are not replies", func() {
			for _, l := range []string{"", "get m1speed", "motor controller ready", "0xZZ"} {
				_, ok := ParseReply(l)
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Normalize collapses whitespace", t, func() {
		s, err := Normalize("  set   m1speed\t-20 ")
		So(err, ShouldBeNil)
		So(s, ShouldEqual, "set m1speed -20")

		Convey("quoted tokens stay whole", func() {
			s, err := Normalize(`get "m2speed"`)
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "get m2speed")
		})

		Convey("empty input is rejected", func() {
			_, err := Normalize("   ")
			So(errcode.Of(err), ShouldEqual, errcode.InvalidParams)
		})
	})
}

func TestClientAgainstFirmware(t *testing.T) {
	for _, echo := range []bool{false, true} {
		link := newBoardLink(motor.Braking{}, echo)
		c := NewClient(link)

		Convey("with a braking board (echo="+map[bool]string{false: "off", true: "on"}[echo]+")", t, func() {
			ctx, cancel := ctxShort()
			defer cancel()

			Convey("set confirms through the readback", func() {
				v, err := c.Set(ctx, "m1speed", 10)
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 0x14)

				v, err = c.Get(ctx, "m1speed")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 0x14)
			})

			Convey("a rejected set reports the board error and stays in sync", func() {
				_, err := c.Set(ctx, "led1", 1)
				So(IsRemote(err), ShouldBeTrue)
				So(errcode.Of(err), ShouldEqual, errcode.NotImplemented)

				_, err = c.Set(ctx, "m1current", 5)
				So(errcode.Of(err), ShouldEqual, errcode.UnsupportedAction)

				v, err := c.Get(ctx, "m2enable")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 0)
			})

			Convey("Do routes free-form lines", func() {
				v, err := c.Do(ctx, "set  m2speed  -1")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 1)

				_, err = c.Do(ctx, "spin m1")
				So(errcode.Of(err), ShouldEqual, errcode.UnknownToken)

				_, err = c.Do(ctx, "set m1speed fast")
				So(errcode.Of(err), ShouldEqual, errcode.InvalidInteger)
				So(IsRemote(err), ShouldBeFalse)
			})

			Convey("current readings come from the sampler", func() {
				link.adc.Complete(0x155)
				link.adc.Complete(0x0AA)
				v, err := c.Get(ctx, "m1current")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 0x155)
			})
		})
		link.Close()
	}
}

func TestClientTimeoutAndClose(t *testing.T) {
	Convey("a silent link times out", t, func() {
		r, w := io.Pipe()
		defer r.Close()
		go func() { _, _ = io.Copy(io.Discard, r) }()
		c := NewClient(struct {
			io.Reader
			io.Writer
		}{Reader: blockingReader{}, Writer: w})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_, err := c.Get(ctx, "m1speed")
		So(errcode.Of(err), ShouldEqual, errcode.Timeout)
	})

	Convey("a closed link reports EOF", t, func() {
		link := newBoardLink(motor.Braking{}, false)
		c := NewClient(link)
		link.Close()
		ctx, cancel := ctxShort()
		defer cancel()
		_, err := c.Do(ctx, "frobnicate")
		// The reply may already be buffered when the link closes.
		if err != nil && !IsRemote(err) {
			So(err.Error(), ShouldContainSubstring, "link closed")
		}
	})
}

func TestClientLateReply(t *testing.T) {
	Convey("a reply that arrives after its call timed out", t, func() {
		link := newLaggingLink(50 * time.Millisecond)
		defer link.Close()
		c := NewClient(link)
		link.adc.Complete(0x2A)

		short, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := c.Get(short, "m1speed")
		cancel()
		So(errcode.Of(err), ShouldEqual, errcode.Timeout)

		Convey("is discarded instead of answering the next call", func() {
			ctx, cancel := ctxShort()
			defer cancel()

			v, err := c.Get(ctx, "m1current")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0x2A)

			v, err = c.Set(ctx, "m1speed", 10)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0x14)

			v, err = c.Get(ctx, "m1current")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0x2A)
		})
	})
}

func TestClientSetWithoutReadback(t *testing.T) {
	Convey("a set the board accepts on a property it cannot read back", t, func() {
		b := newScriptedBoard(func(line string) string {
			switch line {
			case "set led1 1":
				return ""
			case "get":
				return "Error: Get requires a property to fetch."
			case "get led1":
				return "Error: Not implemented."
			}
			return "0x7"
		})
		defer b.Close()
		c := NewClient(b)
		ctx, cancel := ctxShort()
		defer cancel()

		_, err := c.Set(ctx, "led1", 1)
		So(errcode.Of(err), ShouldEqual, errcode.NotImplemented)
		So(ctx.Err(), ShouldBeNil)

		v, err := c.Get(ctx, "m1speed")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 7)
	})

	Convey("a bare get is answered with the board's own error", t, func() {
		link := newBoardLink(motor.Braking{}, false)
		defer link.Close()
		c := NewClient(link)
		ctx, cancel := ctxShort()
		defer cancel()

		_, err := c.Do(ctx, "get")
		So(errcode.Of(err), ShouldEqual, errcode.MissingParameter)

		v, err := c.Set(ctx, "m2speed", -1)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 1)
	})
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }
