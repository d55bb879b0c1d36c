// Package testkit provides small helpers shared by the package tests
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustNotPanic asserts that fn completes without panicking
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain asserts that haystack contains needle
// on failure the haystack is written to a temp file so large payloads stay readable
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		tmpfile := filepath.Join(t.TempDir(), "test_output.txt")
		_ = os.WriteFile(tmpfile, []byte(haystack), 0o600)
		t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, tmpfile)
	}
}

var seamMu sync.Mutex

// Swap replaces a package-level seam for the duration of the test and restores it after
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial runs the whole test under a global lock so tests that mutate shared
// seams cannot interfere with each other
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(func() { seamMu.Unlock() })
}
