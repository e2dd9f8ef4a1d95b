// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "fmt"

// Error returns the manager's sticky error, or an empty string if there is
// none.
func (m *Manager) Error() string {
	if m.err == nil {
		return ""
	}
	return m.err.Error()
}

// Errored reports whether this manager has recorded an error. Once set, the
// error is never cleared: a manager that errored should be discarded.
func (m *Manager) Errored() bool {
	return m.err != nil
}

// seterror records the first error encountered by the manager and returns
// nil, so it can be used directly as the return value of a Node-returning
// method. Subsequent errors are chained onto the first one rather than
// overwriting it.
func (m *Manager) seterror(format string, a ...interface{}) Node {
	next := fmt.Errorf(format, a...)
	if m.err != nil {
		m.err = fmt.Errorf("%w; %s", m.err, next)
		m.log.Error().Err(next).Msg("bdd: additional error while manager already errored")
		return nil
	}
	m.err = next
	m.log.Error().Err(next).Msg("bdd: manager error")
	return nil
}

// checkptr validates that n addresses a live node of this manager.
func (m *Manager) checkptr(n Node) error {
	if n == nil {
		return fmt.Errorf("bdd: nil node")
	}
	if *n < 0 || *n >= len(m.nodes) {
		return fmt.Errorf("bdd: node index %d out of range", *n)
	}
	if *n >= 2 && m.nodes[*n].low == -1 {
		return fmt.Errorf("bdd: node index %d is not allocated", *n)
	}
	return nil
}
