// Package hostlink talks to the motor controller's line protocol from a host.
package hostlink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/google/shlex"

	"dualmotor-go/errcode"
)

// RemoteError is an error line reported by the board.
type RemoteError struct {
	C   errcode.Code
	Msg string
}

func (e *RemoteError) Error() string     { return "board: " + e.Msg }
func (e *RemoteError) Code() errcode.Code { return e.C }

// remoteCodes maps the board's error texts back to codes.
var remoteCodes = map[string]errcode.Code{
	"Invalid command":                     errcode.UnknownToken,
	"Invalid property.":                   errcode.UnknownToken,
	"Set requires at least 2 parameters.": errcode.MissingParameter,
	"Get requires a property to fetch.":   errcode.MissingParameter,
	"Expected integer.":                   errcode.InvalidInteger,
	"Not implemented.":                    errcode.NotImplemented,
	"Non-valid Action.":                   errcode.UnsupportedAction,
}

// Reply is one parsed response line.
type Reply struct {
	Value uint32
	Err   *RemoteError
}

// ParseReply classifies a response line. ok is false for lines that are not
// responses (echo, banner, blank).
func ParseReply(line string) (r Reply, ok bool) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case strings.HasPrefix(line, "0x"):
		v, err := strconv.ParseUint(line[2:], 16, 32)
		if err != nil {
			return Reply{}, false
		}
		return Reply{Value: uint32(v)}, true
	case line == "Invalid command":
		return Reply{Err: &RemoteError{C: errcode.UnknownToken, Msg: line}}, true
	case strings.HasPrefix(line, "Error: "):
		msg := strings.TrimPrefix(line, "Error: ")
		c, known := remoteCodes[msg]
		if !known {
			c = errcode.Error
		}
		return Reply{Err: &RemoteError{C: c, Msg: msg}}, true
	}
	return Reply{}, false
}

// Normalize splits line with shell quoting rules and rejoins it with single
// spaces, which is the only separator the board accepts.
func Normalize(line string) (string, error) {
	toks, err := shlex.Split(line)
	if err != nil {
		return "", &errcode.E{C: errcode.InvalidParams, Op: "normalize", Msg: err.Error(), Err: err}
	}
	if len(toks) == 0 {
		return "", errcode.New(errcode.InvalidParams, "normalize", "empty command")
	}
	return strings.Join(toks, " "), nil
}

// syncLine draws a fixed error reply from the board and changes nothing, so
// its reply marks a known point in the reply stream.
const (
	syncLine = "get"
	syncMsg  = "Get requires a property to fetch."
)

func isMarker(r Reply) bool { return r.Err != nil && r.Err.Msg == syncMsg }

// Client sends commands over a serial link and waits for their replies.
// Calls are serialised; replies are matched to requests in order. A call that
// times out leaves the client stale, and the next call first discards
// everything up to a fresh sync marker.
type Client struct {
	w     io.Writer
	lines chan string
	done  chan struct{}
	err   error

	mu      sync.Mutex
	markers int  // sync replies still owed by the board
	stale   bool // a reply for an abandoned request may still arrive
}

// NewClient starts reading rw. The reader stops when rw returns an error.
func NewClient(rw io.ReadWriter) *Client {
	c := &Client{
		w:     rw,
		lines: make(chan string, 16),
		done:  make(chan struct{}),
	}
	go c.pump(rw)
	return c
}

func (c *Client) pump(r io.Reader) {
	defer close(c.done)
	sc := bufio.NewScanner(r)
	sc.Split(scanCRorLF)
	for sc.Scan() {
		c.lines <- sc.Text()
	}
	c.err = sc.Err()
	if c.err == nil {
		c.err = io.EOF
	}
}

// scanCRorLF splits on CR, LF or CRLF.
func scanCRorLF(data []byte, atEOF bool) (int, []byte, error) {
	for i, b := range data {
		if b == '\r' || b == '\n' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func (c *Client) send(line string) error {
	_, err := io.WriteString(c.w, line+"\r")
	return err
}

func (c *Client) sendSync() error {
	if err := c.send(syncLine); err != nil {
		return err
	}
	c.markers++
	return nil
}

func (c *Client) next(ctx context.Context) (Reply, error) {
	r, err := c.recv(ctx)
	if err == nil && isMarker(r) && c.markers > 0 {
		c.markers--
	}
	return r, err
}

func (c *Client) recv(ctx context.Context) (Reply, error) {
	for {
		select {
		case l := <-c.lines:
			if r, ok := ParseReply(l); ok {
				return r, nil
			}
		case <-c.done:
			// Drain anything read before the link closed.
			select {
			case l := <-c.lines:
				if r, ok := ParseReply(l); ok {
					return r, nil
				}
				continue
			default:
			}
			return Reply{}, fmt.Errorf("link closed: %w", c.err)
		case <-ctx.Done():
			c.stale = true
			return Reply{}, &errcode.E{C: errcode.Timeout, Op: "recv", Err: ctx.Err()}
		}
	}
}

// settle reads and discards replies until every sync marker sent so far
// has come back.
func (c *Client) settle(ctx context.Context) error {
	for c.markers > 0 {
		if _, err := c.next(ctx); err != nil {
			return err
		}
	}
	return nil
}

// resync drops late replies left by calls that timed out.
func (c *Client) resync(ctx context.Context) error {
	if !c.stale {
		return nil
	}
	if err := c.sendSync(); err != nil {
		return err
	}
	if err := c.settle(ctx); err != nil {
		return err
	}
	c.stale = false
	return nil
}

func result(r Reply) (uint32, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	return r.Value, nil
}

// Get reads a property.
func (c *Client) Get(ctx context.Context, prop string) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.resync(ctx); err != nil {
		return 0, err
	}
	return c.get(ctx, prop)
}

func (c *Client) get(ctx context.Context, prop string) (uint32, error) {
	if err := c.send("get " + prop); err != nil {
		return 0, err
	}
	r, err := c.next(ctx)
	if err != nil {
		return 0, err
	}
	return result(r)
}

// Set writes a property and reads it back. A successful set is silent on the
// wire, so a sync marker follows it: an error ahead of the marker belongs to
// the set, otherwise the readback confirms the new value.
func (c *Client) Set(ctx context.Context, prop string, v int) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.resync(ctx); err != nil {
		return 0, err
	}
	if err := c.send("set " + prop + " " + strconv.Itoa(v)); err != nil {
		return 0, err
	}
	if err := c.sendSync(); err != nil {
		return 0, err
	}
	first, err := c.next(ctx)
	if err != nil {
		return 0, err
	}
	if !isMarker(first) {
		if err := c.settle(ctx); err != nil {
			return 0, err
		}
		return result(first)
	}
	return c.get(ctx, prop)
}

// Do runs one free-form command line. get and set go through Get and Set;
// anything else is sent as is and its single reply returned.
func (c *Client) Do(ctx context.Context, line string) (uint32, error) {
	norm, err := Normalize(line)
	if err != nil {
		return 0, err
	}
	toks := strings.Split(norm, " ")
	switch {
	case toks[0] == "get" && len(toks) >= 2:
		return c.Get(ctx, toks[1])
	case toks[0] == "set" && len(toks) >= 3:
		v, err := strconv.Atoi(toks[2])
		if err != nil {
			return 0, &errcode.E{C: errcode.InvalidInteger, Op: "set", Msg: toks[2], Err: err}
		}
		return c.Set(ctx, toks[1], v)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.resync(ctx); err != nil {
		return 0, err
	}
	// A bare get draws the marker reply, so count it like one.
	if norm == syncLine {
		err = c.sendSync()
	} else {
		err = c.send(norm)
	}
	if err != nil {
		return 0, err
	}
	r, err := c.next(ctx)
	if err != nil {
		return 0, err
	}
	return result(r)
}

// IsRemote reports whether err came from the board rather than the link.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
