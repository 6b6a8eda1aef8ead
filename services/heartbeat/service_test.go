package heartbeat

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLine(t *testing.T) {
	n := uint32(0)
	s := New(Config{Stats: []Stat{
		{Name: "lines", Value: func() uint32 { n++; return n }},
		{Name: "m1current", Value: func() uint32 { return 1023 }},
	}})
	at := time.Date(2024, 1, 2, 13, 4, 5, 0, time.UTC)
	if got, want := s.Line(at), "[heartbeat] 13:04:05 lines=1 m1current=1023"; got != want {
		t.Fatalf("Line = %q, want %q", got, want)
	}
	if got := s.Line(at); !strings.Contains(got, "lines=2") {
		t.Fatalf("stat not re-read: %q", got)
	}
}

func TestNew_ClampsInterval(t *testing.T) {
	if s := New(Config{}); s.interval != 5*time.Second {
		t.Fatalf("default interval = %v", s.interval)
	}
	if s := New(Config{Interval: time.Millisecond}); s.interval != 100*time.Millisecond {
		t.Fatalf("clamped interval = %v", s.interval)
	}
}

func TestStart_BeatsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := make(chan string, 16)
	s := New(Config{
		Interval: 100 * time.Millisecond,
		Stats:    []Stat{{Name: "x", Value: func() uint32 { return 42 }}},
		Out: func(l string) {
			select {
			case lines <- l:
			default:
			}
		},
	})
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case l := <-lines:
		if !strings.HasSuffix(l, " x=42") {
			t.Fatalf("beat = %q", l)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no heartbeat")
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case l := <-lines:
			if l == "[heartbeat] stopping" {
				return
			}
		case <-deadline:
			t.Fatal("service did not stop")
		}
	}
}
