package mathx

import "testing"

func TestClampSwapsBounds(t *testing.T) {
	if got := Clamp(300, 256, 16); got != 256 {
		t.Fatalf("Clamp(300,256,16) = %d", got)
	}
	if got := Clamp(4, 16, 256); got != 16 {
		t.Fatalf("Clamp(4,16,256) = %d", got)
	}
}

func TestAbsInt8Edge(t *testing.T) {
	// -128 has no positive int8 counterpart; callers widen first.
	if got := Abs(int16(-128)); got != 128 {
		t.Fatalf("Abs(-128) = %d", got)
	}
	if got := Max[uint8](0, 7); got != 7 {
		t.Fatalf("Max = %d", got)
	}
}
