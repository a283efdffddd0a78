package metrics

import (
	"context"
	"errors"
)

// ErrUnavailable is wrapped by sources whose backing device or driver is
// absent on this host (for example no NVIDIA GPU). Renderers treat it as a
// permanent state rather than a transient failure.
var ErrUnavailable = errors.New("unavailable")

// Source produces one metric domain per call. Implementations may keep delta
// bases between calls but must be safe to call once per tick from a single
// goroutine.
type Source[T any] interface {
	Sample(ctx context.Context) (T, error)
}

// ProcessSource lists the top n processes ordered by CPU usage descending.
type ProcessSource interface {
	ListTop(ctx context.Context, n int) ([]ProcessInfo, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc[T any] func(ctx context.Context) (T, error)

// Sample calls f.
func (f SourceFunc[T]) Sample(ctx context.Context) (T, error) {
	return f(ctx)
}

// IsUnavailable reports whether err marks a permanently missing source.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
