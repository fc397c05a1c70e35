package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelMatching(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"direct match", ErrNotFound, ErrNotFound, true},
		{"wrapped with %w", fmt.Errorf("faculty sharma: %w", ErrNotFound), ErrNotFound, true},
		{"double wrapped", fmt.Errorf("lookup: %w", fmt.Errorf("session: %w", ErrSessionExpired)), ErrSessionExpired, true},
		{"joined", errors.Join(ErrUnauthorized, errors.New("token abc")), ErrUnauthorized, true},
		{"distinct sentinels do not match", ErrInvalidInput, ErrNotFound, false},
		{"plain error does not match", errors.New("resource not found"), ErrNotFound, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errors.Is(tc.err, tc.target); got != tc.want {
				t.Errorf("errors.Is = %v, want %v", got, tc.want)
			}
		})
	}
}
