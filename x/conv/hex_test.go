package conv

import "testing"

func TestHex(t *testing.T) {
	cases := []struct {
		n    uint32
		want string
	}{
		{0, "0"},
		{0x14, "14"},
		{0xFF, "FF"},
		{1023, "3FF"},
		{0xABCDEF01, "ABCDEF01"},
	}
	var buf [8]byte
	for _, c := range cases {
		if got := string(Hex(buf[:], c.n)); got != c.want {
			t.Fatalf("Hex(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestHex_ShortBuffer(t *testing.T) {
	if got := Hex(make([]byte, 4), 1); len(got) != 0 {
		t.Fatalf("expected empty result for short buffer, got %q", got)
	}
}

func TestAppendHex(t *testing.T) {
	got := string(AppendHex([]byte("v="), 0x3A))
	if got != "v=0x3A" {
		t.Fatalf("AppendHex = %q", got)
	}
}
