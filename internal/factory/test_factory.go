package factory

import (
	"time"

	"github.com/sala-livre/batepapo/internal/dependencies/mocks"
	"github.com/sala-livre/batepapo/internal/storage/memory"
	"github.com/sala-livre/batepapo/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// MockClock lets tests control time, e.g. to trigger evictions
	MockClock *mocks.MockClock
}

// TestAppOptions tunes the wired reaper for tests
type TestAppOptions struct {
	PresenceTimeout time.Duration
	ReapInterval    time.Duration
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithOptions(TestAppOptions{})
}

// NewTestAppWithOptions creates a test App with explicit reaper settings
func NewTestAppWithOptions(opts TestAppOptions) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, opts.PresenceTimeout, opts.ReapInterval, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
