package testutil

import (
	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 { return &v }
