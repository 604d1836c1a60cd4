// Package trace records where jssema spends its time.
//
// Enable it from the command line:
//
//	jssema check --trace=- --trace-level=detail src/
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelPhase: driver and phase boundaries (parse, semantic, lint, transform, codegen)
//   - LevelDetail: one span per file as well
//   - LevelDebug: everything, including traversal passes
//
// # Context propagation
//
// The tracer and the current span travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePhase, "semantic")
//	defer span.End("")
package trace
