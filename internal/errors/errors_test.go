package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestBlazeError_Error(t *testing.T) {
	err := New(ExitConfigError, "bad config")
	if err.Error() != "bad config" {
		t.Errorf("Error() = %q, want %q", err.Error(), "bad config")
	}

	cause := stderrors.New("underlying")
	wrapped := Wrap(ExitVCSError, "git failed", cause)
	if !strings.Contains(wrapped.Error(), "git failed") || !strings.Contains(wrapped.Error(), "underlying") {
		t.Errorf("wrapped Error() = %q, want message and cause", wrapped.Error())
	}
}

func TestBlazeError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	wrapped := Wrap(ExitStampError, "stamp failed", cause)

	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config error", ConfigError("bad", nil), ExitConfigError},
		{"vcs error", VCSError("bad", nil), ExitVCSError},
		{"not a repo", NotARepo("/tmp/x"), ExitVCSError},
		{"stamp error", StampError("bad", nil), ExitStampError},
		{"lint error", LintError("bad", nil), ExitLintError},
		{"findings", FindingsError(3), ExitLintError},
		{"compute error", ComputeError("bad", nil), ExitComputeError},
		{"validation", ValidationError("bad"), ExitGeneralError},
		{"plain error", stderrors.New("plain"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindingsError_Message(t *testing.T) {
	err := FindingsError(2)
	if !strings.Contains(err.Error(), "2 lint finding") {
		t.Errorf("FindingsError message = %q", err.Error())
	}
}
