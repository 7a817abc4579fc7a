package store

import (
	"testing"
)

// Compile-time checks that the interface is importable and usable.
func TestGoalStoreInterfaceExists(t *testing.T) {
	// This test simply validates that the GoalStore interface compiles
	// and the sentinel errors are accessible.
	_ = ErrGoalNotFound
	_ = ErrConcurrentModification
	_ = ErrUserNotFound
	_ = ErrValidation
	_ = RecordProgressParams{}

	// Ensure the interface is non-nil type.
	var _ GoalStore
}
