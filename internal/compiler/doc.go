// Package compiler compiles filter operations into query predicates.
//
// Compile is the fail-fast path used when building a query: it stops at
// the first unbound property or unconvertible operand. Check is the
// reporting path used by tooling: it validates a whole criteria set and
// returns every Diagnostic found.
//
// Criteria combine by conjunction only. Conjunction of zero predicates is
// the always-true predicate.
package compiler
