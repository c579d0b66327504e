package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := New(CodeCharacterAlreadyLinked, "already linked")
	if !errors.Is(err, New(CodeCharacterAlreadyLinked, "different message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(err, New(CodeCharacterNotFound, "already linked")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("disk full")
	err := Wrap(CodeUnknown, "write snapshot", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found in chain")
	}
}

func TestCodeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{
			name: "domain error",
			err:  New(CodeVaultCharacterNotFound, "missing"),
			want: CodeVaultCharacterNotFound,
		},
		{
			name: "wrapped domain error",
			err:  fmt.Errorf("op: %w", New(CodeSyncDirectionDenied, "denied")),
			want: CodeSyncDirectionDenied,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("boom"),
			want: CodeUnknown,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CodeOf(tc.err); got != tc.want {
				t.Fatalf("expected code %s, got %s", tc.want, got)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		want int
	}{
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeCharacterDesignatedElsewhere, http.StatusForbidden},
		{CodeVaultCharacterNotFound, http.StatusNotFound},
		{CodeUnlinkMergeMissing, http.StatusNotFound},
		{CodeCharacterAlreadyLinked, http.StatusBadRequest},
		{CodeUnlinkInvalidMode, http.StatusBadRequest},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.want, got)
		}
	}
}
