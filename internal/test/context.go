package test

import (
	"context"
	"time"
)

// DefaultTimeout is the timeout used by [Context].
const DefaultTimeout = 3 * time.Second

// Context returns a context that is cancelled when the test completes, or
// after [DefaultTimeout] elapses.
func Context(t TestingT) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	t.Cleanup(cancel)

	return ctx
}
