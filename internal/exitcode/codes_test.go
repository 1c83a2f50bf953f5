package exitcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrValidation, "name is required")
	if err.Code != ErrValidation {
		t.Errorf("Code = %d, want %d", err.Code, ErrValidation)
	}
	if err.Message != "name is required" {
		t.Errorf("Message = %q, want %q", err.Message, "name is required")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exec: \"pnpm\": executable file not found in $PATH")
	err := Wrap(ErrLaunch, "install failed", cause)

	if err.Code != ErrLaunch {
		t.Errorf("Code = %d, want %d", err.Code, ErrLaunch)
	}
	if !errors.Is(err, cause) {
		t.Error("Wrap should preserve cause for errors.Is")
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrBusy, "a session is already running"),
			want: "a session is already running",
		},
		{
			name: "with cause",
			err:  Wrap(ErrProcess, "build failed", errors.New("exit status 1")),
			want: "build failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, Success},
		{"coded error", New(ErrPrecondition, "missing node_modules"), ErrPrecondition},
		{"wrapped coded", fmt.Errorf("outer: %w", Wrap(ErrPersistence, "save", errors.New("disk full"))), ErrPersistence},
		{"plain error", errors.New("plain"), ErrGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := Usage("unknown flag %q", "--wat")
	if !Is(err, ErrUsage) {
		t.Error("Is(err, ErrUsage) = false, want true")
	}
	if Is(err, ErrBusy) {
		t.Error("Is(err, ErrBusy) = true, want false")
	}
	if err.Error() != `unknown flag "--wat"` {
		t.Errorf("Error() = %q", err.Error())
	}
}
