package erruser

import (
	"errors"
	"testing"
)

func TestNew_withCause(t *testing.T) {
	t.Parallel()
	cause := errors.New("exit status 128")
	err := New("Could not create commit.", cause)
	if err.Error() != "Could not create commit." {
		t.Errorf("Error() = %q, want the user-facing message only", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable via errors.Is")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap() should return the cause")
	}
}

func TestNew_withoutCause(t *testing.T) {
	t.Parallel()
	err := New("Set OPENAI_API_KEY first.", nil)
	if err.Error() != "Set OPENAI_API_KEY first." {
		t.Errorf("Error() = %q", err.Error())
	}
	if errors.Unwrap(err) != nil {
		t.Error("plain message should have no Unwrap")
	}
}

func TestErr_nilReceiver(t *testing.T) {
	t.Parallel()
	var e *Err
	if e.Error() != "" || e.Unwrap() != nil {
		t.Error("nil receiver should be safe")
	}
}
