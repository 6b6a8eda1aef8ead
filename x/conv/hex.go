package conv

const hexd = "0123456789ABCDEF"

// Hex writes uppercase hex without 0x and without padding ("0" for zero).
// buf should be length >= 8. Returns the used tail of buf.
func Hex(buf []byte, n uint32) []byte {
	if len(buf) < 8 {
		return buf[:0]
	}
	i := len(buf)
	for {
		i--
		buf[i] = hexd[n&0xF]
		n >>= 4
		if n == 0 {
			break
		}
	}
	return buf[i:]
}

// AppendHex appends "0x" and the uppercase hex rendering of n to dst.
func AppendHex(dst []byte, n uint32) []byte {
	var tmp [8]byte
	dst = append(dst, '0', 'x')
	return append(dst, Hex(tmp[:], n)...)
}
