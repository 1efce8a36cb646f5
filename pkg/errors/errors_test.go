package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "plain",
			err:  New(ErrCodeInvalidLayout, "device index %d out of range", 7),
			want: "INVALID_LAYOUT: device index 7 out of range",
		},
		{
			name: "wrapped",
			err:  Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "open %s", "chip.layout"),
			want: "FILE_NOT_FOUND: open chip.layout: file does not exist",
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

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeSolverFailed, fs.ErrPermission, "run idle")
	if errors.Unwrap(err) != fs.ErrPermission {
		t.Errorf("Unwrap() = %v, want the permission error", errors.Unwrap(err))
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is lost the cause")
	}
}

func TestCodeLookup(t *testing.T) {
	nested := Wrap(ErrCodeSolverFailed, New(ErrCodeInvalidParam, "rows"), "solve layout_gen")

	tests := []struct {
		name    string
		err     error
		code    Code
		matches bool
		want    Code
	}{
		{"direct", New(ErrCodeInvalidParam, "rows"), ErrCodeInvalidParam, true, ErrCodeInvalidParam},
		{"other code", New(ErrCodeInvalidParam, "rows"), ErrCodeNotFound, false, ErrCodeInvalidParam},
		{"outermost wins", nested, ErrCodeSolverFailed, true, ErrCodeSolverFailed},
		{"through fmt", fmt.Errorf("load: %w", New(ErrCodeInvalidLayout, "x")), ErrCodeInvalidLayout, true, ErrCodeInvalidLayout},
		{"plain error", errors.New("boom"), ErrCodeInternal, false, ""},
		{"nil", nil, ErrCodeInternal, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.matches {
				t.Errorf("Is(%v) = %v, want %v", tt.code, got, tt.matches)
			}
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeSolverNotFound, "no such solver %q", "anneal"), `no such solver "anneal"`},
		{Wrap(ErrCodeInternal, errors.New("disk full"), "save tab"), "save tab"},
		{fmt.Errorf("cli: %w", New(ErrCodeInvalidNetMode, "bad mode")), "bad mode"},
		{errors.New("plain"), "plain"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidLayout, "bad"), 400},
		{New(ErrCodeInvalidName, "bad"), 400},
		{New(ErrCodeSolverNotFound, "x"), 404},
		{New(ErrCodeFileNotFound, "x"), 404},
		{New(ErrCodeValidationFailed, "x"), 422},
		{New(ErrCodeSolverFailed, "x"), 500},
		{New(ErrCodeUnsupported, "x"), 501},
		{errors.New("plain"), 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
