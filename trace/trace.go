// Package trace renders JVM class events as a disassembled text
// listing. Each tracer implements the matching bytecode visitor
// interface, renders every event into a fragment buffer and forwards it
// to an optional downstream visitor, so a tracer can sit in the middle
// of a visitor chain without disturbing it.
//
// Member bodies arrive through sub-visitors after the surrounding class
// events, so the listing is assembled from nested fragment buffers and
// flattened only once, when the class ends.
package trace

import "fmt"

// ContractError reports a caller-contract violation: an event delivered
// after its scope ended, or with inconsistent operands. Tracers panic
// with it rather than emit a truncated listing.
type ContractError struct {
	Op     string
	Reason string
}

func (e *ContractError) Error() string {
	return "trace: " + e.Op + ": " + e.Reason
}

func violate(op, format string, args ...any) {
	panic(&ContractError{Op: op, Reason: fmt.Sprintf(format, args...)})
}
