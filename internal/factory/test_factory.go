package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/nickchat/internal/dependencies/mocks"
	"github.com/mcoot/nickchat/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an in-memory App with a controllable clock
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
