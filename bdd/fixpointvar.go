// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// FixpointVar is a mutable wrapper around a single BDD value that detects
// convergence across successive updates, the building block of the nested
// mu/nu fixpoints computed by the synthesis engine. Equality between
// iterations is structural identity, since the manager's node table is
// canonical: two handles denote the same function iff they are the same
// node.
type FixpointVar struct {
	value   Node
	reached bool
}

// NewFixpointVar seeds a fixpoint variable with its initial value (normally
// True for a greatest fixpoint, False for a least fixpoint).
func NewFixpointVar(seed Node) *FixpointVar {
	return &FixpointVar{value: seed}
}

// Value returns the variable's current value.
func (f *FixpointVar) Value() Node {
	return f.value
}

// Update stores newValue and records whether it differs from the previous
// one. It returns the stored value for convenience when chaining.
func (f *FixpointVar) Update(newValue Node) Node {
	f.reached = *f.value == *newValue
	f.value = newValue
	return f.value
}

// Reached reports whether the most recent Update left the value unchanged,
// i.e. whether the fixpoint has converged.
func (f *FixpointVar) Reached() bool {
	return f.reached
}
