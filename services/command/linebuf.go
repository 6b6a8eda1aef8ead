// services/command/linebuf.go
package command

// LineCap is the number of usable bytes in a command line.
const LineCap = 127

// LineBuffer assembles bytes from the serial link into command lines.
// CR or LF ends a line. Bytes outside printable ASCII are dropped, and once
// the buffer is full further bytes are dropped until the terminator.
type LineBuffer struct {
	buf      [LineCap]byte
	n        int
	overflow bool
}

// Feed adds one byte. It reports true when b completed a line; the returned
// slice aliases the buffer and is valid until the next Feed.
func (lb *LineBuffer) Feed(b byte) ([]byte, bool) {
	switch {
	case b == '\r' || b == '\n':
		line := lb.buf[:lb.n]
		lb.n = 0
		lb.overflow = false
		return line, true
	case b < 0x20 || b > 0x7E:
		return nil, false
	case lb.n >= LineCap:
		lb.overflow = true
		return nil, false
	}
	lb.buf[lb.n] = b
	lb.n++
	return nil, false
}

// Accepts reports whether Feed would store b rather than drop it or end a line.
func (lb *LineBuffer) Accepts(b byte) bool {
	return b >= 0x20 && b <= 0x7E && lb.n < LineCap
}

// Overflowed reports whether bytes were dropped from the current line.
func (lb *LineBuffer) Overflowed() bool { return lb.overflow }

// Len is the number of bytes held for the current line.
func (lb *LineBuffer) Len() int { return lb.n }

// Reset discards the current line.
func (lb *LineBuffer) Reset() {
	lb.n = 0
	lb.overflow = false
}
