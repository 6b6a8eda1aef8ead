package errcode

import (
	"errors"
	"testing"
)

func TestOf(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, OK},
		{InvalidInteger, InvalidInteger},
		{New(NotImplemented, "get", "Not implemented."), NotImplemented},
		{errors.New("boom"), Error},
	}
	for _, c := range cases {
		if got := Of(c.err); got != c.want {
			t.Fatalf("Of(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestE_IsAndUnwrap(t *testing.T) {
	cause := errors.New("cause")
	e := &E{C: UnknownToken, Op: "command", Msg: "Invalid command", Err: cause}
	if !errors.Is(e, UnknownToken) {
		t.Fatal("errors.Is should match the wrapped code")
	}
	if errors.Is(e, MissingParameter) {
		t.Fatal("errors.Is matched the wrong code")
	}
	if !errors.Is(e, cause) {
		t.Fatal("errors.Is should reach the cause")
	}
	if got := e.Error(); got != "unknown_token: Invalid command" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(New(InvalidInteger, "set", "Expected integer.")); got != "Expected integer." {
		t.Fatalf("Message = %q", got)
	}
	if got := Message(UnsupportedAction); got != "unsupported_action" {
		t.Fatalf("Message(code) = %q", got)
	}
	if got := Message(nil); got != "" {
		t.Fatalf("Message(nil) = %q", got)
	}
}
