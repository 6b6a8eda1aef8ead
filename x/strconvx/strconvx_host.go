//go:build !rp2040

package strconvx

import "strconv"

// Signature parity with strconv; delegate straight through.

func Itoa(i int) string                    { return strconv.Itoa(i) }
func FormatUint(u uint64, base int) string { return strconv.FormatUint(u, base) }
