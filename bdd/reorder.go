// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// reorderState tracks whether a caller has asked the manager to suspend
// variable reordering (see FreezeReordering). It has no effect on any
// operation today: this Manager fixes the variable order at New and never
// reorders. The field exists so FreezeReordering/UnfreezeReordering are a
// real, inspectable state transition rather than silent no-ops, ready for a
// future sifting pass to consult.
type reorderState struct {
	frozen bool
}

// FreezeReordering suspends variable reordering for the lifetime of a
// sensitive computation, such as strategy extraction, where handles are used
// as map keys and a mid-extraction reorder would silently invalidate them.
// Because this Manager never reorders variables (the order is fixed by
// declaration order at construction), this call has no effect on node
// identity; it is kept so extractors can state the precondition from
// SPEC_FULL.md §4.5 at the call site, and so a later reordering
// implementation has a suspension point already wired into every caller.
func (m *Manager) FreezeReordering() {
	m.reorderState.frozen = true
}

// UnfreezeReordering reverses FreezeReordering. Safe to call even if
// reordering was never frozen.
func (m *Manager) UnfreezeReordering() {
	m.reorderState.frozen = false
}

// ReorderingFrozen reports whether FreezeReordering is currently in effect.
func (m *Manager) ReorderingFrozen() bool {
	return m.reorderState.frozen
}
