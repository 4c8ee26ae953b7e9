package testutil

import (
	"testing"

	"github.com/tempbox/tempbox/internal/directory"
)

// NewTestDirectory creates an in-memory account directory with all
// migrations applied. It automatically closes the store when the test
// completes.
func NewTestDirectory(t *testing.T) *directory.Store {
	t.Helper()

	s, err := directory.Open(":memory:")
	if err != nil {
		t.Fatalf("creating test directory: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test directory: %v", err)
		}
	})

	return s
}
