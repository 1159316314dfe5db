// Package testutil holds assertion helpers shared by the package tests.
package testutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected (err == nil), got: %v", err)
	}
}

// AssertErrorAs fails unless err matches target as errors.As does, and
// returns the match.
func AssertErrorAs[E error](t *testing.T, err error) E {
	t.Helper()
	var target E
	if !errors.As(err, &target) {
		t.Fatalf("Expected error of type %T, got: %v", target, err)
	}
	return target
}

func ExpectEq[T comparable](t *testing.T, want, got T) {
	t.Helper()
	if want != got {
		t.Errorf("Expected %v, got: %v", want, got)
	}
}

func ExpectContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func ExpectNoDiff(t *testing.T, a, b string) {
	t.Helper()
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "want",
		ToFile:   "got",
		Context:  5,
	})
	if diff != "" {
		t.Error(diff)
	}
}
