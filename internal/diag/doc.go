// Package diag defines the diagnostic model shared by every phase.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier (see codes.go) with a stable string form.
//   - Message: short, actionable text.
//   - Primary: the source.Span the finding points at.
//   - Notes: optional secondary spans with extra context.
//   - Fixes: optional structured edits.
//
// Producers emit through the Reporter interface and never depend on how
// diagnostics are stored or rendered. BagReporter collects into a Bag;
// DedupReporter filters repeats before forwarding.
//
// Rendering for the terminal lives in the CLI. This package only provides the
// stable one-line form used by golden tests and the "short" output format.
package diag
