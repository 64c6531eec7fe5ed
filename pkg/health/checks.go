package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// MaxGoroutines returns a liveness probe that trips when the process holds
// more than limit goroutines, which usually means a leak in a request path.
func MaxGoroutines(limit int) ProbeFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > limit {
			return errors.Errorf("%d goroutines, limit %d", n, limit)
		}
		return nil
	}
}
