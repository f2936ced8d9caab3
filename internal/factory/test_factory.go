package factory

import (
	"log/slog"
	"time"

	"github.com/jswain/turfsplit/internal/dependencies/mocks"
	"github.com/jswain/turfsplit/internal/services/identity"
	"github.com/jswain/turfsplit/internal/storage/memory"
	"github.com/jswain/turfsplit/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIdent *mocks.MockGenerator
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithLogger(testutil.NopLogger())
}

// NewTestAppWithLogger creates a test App with a caller-supplied logger
func NewTestAppWithLogger(logger *slog.Logger) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	mockIdent := mocks.NewMockGenerator()

	app := newWithDependencies(store, mockClock, mockIdent, identity.DefaultConfig(), logger)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIdent: mockIdent,
	}
}
