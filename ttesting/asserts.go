// Package ttesting contains assertion helpers shared by the package tests.
package ttesting

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualUint32(t *testing.T, name string, got, want uint32) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

// AssertEqualBytes compares two byte slices, reporting the first differing
// offset rather than dumping both slices.
func AssertEqualBytes(t *testing.T, name string, got, want []byte) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if bytes.Equal(got, want) {
			return
		}
		if len(got) != len(want) {
			t.Errorf("got %d bytes; want %d", len(got), len(want))
		}
		for i := 0; i < len(got) && i < len(want); i++ {
			if got[i] != want[i] {
				t.Errorf("first difference at %d: got 0x%02x; want 0x%02x", i, got[i], want[i])
				return
			}
		}
	})
}

// AssertErrorIs checks that err wraps want.
func AssertErrorIs(t *testing.T, name string, err, want error) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if !errors.Is(err, want) {
			t.Errorf("got error %v; want %v", err, want)
		}
	})
}
