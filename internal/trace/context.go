package trace

import "context"

// Nop discards everything.
var Nop Tracer = nopTracer{}

type nopTracer struct{}

func (nopTracer) Emit(*Event) {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// carrier is the single value trace keeps in a context: the tracer and
// the innermost open span, 0 at the root.
type carrier struct {
	tracer Tracer
	span   uint64
}

type carrierKey struct{}

func carried(ctx context.Context) carrier {
	if ctx != nil {
		if c, ok := ctx.Value(carrierKey{}).(carrier); ok {
			return c
		}
	}
	return carrier{tracer: Nop}
}

// FromContext returns the context's tracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	return carried(ctx).tracer
}

// WithTracer attaches t to ctx. Spans already open in ctx are forgotten.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, carrierKey{}, carrier{tracer: t})
}

// CurrentSpan is the id of the innermost span opened with Start, or 0.
func CurrentSpan(ctx context.Context) uint64 {
	return carried(ctx).span
}

func withSpan(ctx context.Context, span uint64) context.Context {
	c := carried(ctx)
	c.span = span
	return context.WithValue(ctx, carrierKey{}, c)
}
