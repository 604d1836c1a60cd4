// Package fuzztests holds fuzz harnesses for the analysis pipeline
// (source -> frontend -> semantic model -> passes -> codegen). They guard
// against panics, hangs and broken model invariants on arbitrary input.
package fuzztests
