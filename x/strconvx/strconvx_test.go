package strconvx

import "testing"

func TestItoa(t *testing.T) {
	for _, c := range []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{-128, "-128"},
		{1023, "1023"},
	} {
		if got := Itoa(c.in); got != c.want {
			t.Fatalf("Itoa(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatUintBases(t *testing.T) {
	type C struct {
		u    uint64
		base int
		want string
	}
	for _, c := range []C{
		{0, 2, "0"},
		{5, 2, "101"},
		{255, 16, "ff"},
		{255, 10, "255"},
		{35, 36, "z"},
	} {
		if got := FormatUint(c.u, c.base); got != c.want {
			t.Fatalf("FormatUint(%d,%d) = %q, want %q", c.u, c.base, got, c.want)
		}
	}
}
