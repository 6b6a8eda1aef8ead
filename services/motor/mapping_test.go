package motor

import (
	"math"
	"testing"
)

func TestDutyFor_AllSpeeds(t *testing.T) {
	for s := math.MinInt8; s <= math.MaxInt8; s++ {
		speed := int8(s)
		fwd, rev := DutyFor(speed)
		switch {
		case speed > 0:
			if want := uint8(2 * s); fwd != want || rev != 0 {
				t.Fatalf("DutyFor(%d) = (%d,%d), want (%d,0)", s, fwd, rev, want)
			}
			if fwd&1 != 0 {
				t.Fatalf("forward duty %d must be even", fwd)
			}
		case speed < 0:
			if want := uint8(2*(-s) - 1); rev != want || fwd != 0 {
				t.Fatalf("DutyFor(%d) = (%d,%d), want (0,%d)", s, fwd, rev, want)
			}
			if rev&1 != 1 {
				t.Fatalf("reverse duty %d must be odd", rev)
			}
		default:
			if fwd != 0 || rev != 0 {
				t.Fatalf("DutyFor(0) = (%d,%d)", fwd, rev)
			}
		}
	}
}

func TestDutyFor_Extremes(t *testing.T) {
	if fwd, _ := DutyFor(127); fwd != 254 {
		t.Fatalf("DutyFor(127) fwd = %d, want 254", fwd)
	}
	if _, rev := DutyFor(-128); rev != 255 {
		t.Fatalf("DutyFor(-128) rev = %d, want 255", rev)
	}
	if _, rev := DutyFor(-1); rev != 1 {
		t.Fatalf("DutyFor(-1) rev = %d, want 1", rev)
	}
}

func TestDecodeDuty_RoundTrip(t *testing.T) {
	for s := math.MinInt8; s <= math.MaxInt8; s++ {
		fwd, rev := DutyFor(int8(s))
		if got := DecodeDuty(fwd | rev); got != int8(s) {
			t.Fatalf("DecodeDuty(DutyFor(%d)) = %d", s, got)
		}
	}
}
