// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Restrict specializes n by fixing every variable in the cube varset to the
// polarity it has there (BuDDy's bdd_restrict). It is a cheap syntactic
// simplification: the result denotes the same function as n only on the
// subspace where varset holds, and may disagree with n elsewhere.
func (m *Manager) Restrict(n, varset Node) Node {
	if m.checkptr(n) != nil {
		return m.seterror("bdd: wrong node in Restrict")
	}
	if m.checkptr(varset) != nil {
		return m.seterror("bdd: wrong varset in Restrict")
	}
	if *varset < 2 {
		return n
	}
	m.restrictcache.id = *varset
	if err := m.varset2svartable(*varset); err != nil {
		return m.seterror("bdd: %s", err)
	}
	m.initref()
	m.pushref(*n)
	res := m.restrict(*n)
	m.popref(1)
	return m.retnode(res)
}

// svartable records, for every level, whether it is restricted and to which
// polarity: 0 means restricted to false, 1 means restricted to true, -1
// means free (not in varset).
func (m *Manager) varset2svartable(n int) error {
	if cap(m.svartable) < int(m.varnum) {
		m.svartable = make([]int8, m.varnum)
	}
	for i := range m.svartable {
		m.svartable[i] = -1
	}
	for v := n; v > 1; {
		if m.low(v) == 0 {
			m.svartable[m.level(v)] = 1
			v = m.high(v)
		} else if m.high(v) == 0 {
			m.svartable[m.level(v)] = 0
			v = m.low(v)
		} else {
			return errNotACube
		}
	}
	return nil
}

func (m *Manager) restrict(n int) int {
	if n < 2 || int(m.level(n)) > len(m.svartable) {
		return n
	}
	switch m.svartable[m.level(n)] {
	case 0:
		return m.restrict(m.low(n))
	case 1:
		return m.restrict(m.high(n))
	}
	if res := m.restrictcache.matchrestrict(n); res >= 0 {
		return res
	}
	low := m.pushref(m.restrict(m.low(n)))
	high := m.pushref(m.restrict(m.high(n)))
	res, _ := m.makenode(m.level(n), low, high)
	m.popref(2)
	return m.restrictcache.setrestrict(n, res)
}

// MinimizeUsingCareset rewrites n into a (generally smaller) BDD that agrees
// with n on every point where careset holds, using don't-cares elsewhere to
// pick the cheapest cofactor at each level (CUDD's generalized cofactor /
// "restrict" operator, not to be confused with the literal-cube Restrict
// above). Unlike Restrict, careset need not be a cube.
func (m *Manager) MinimizeUsingCareset(n, careset Node) Node {
	if m.checkptr(n) != nil {
		return m.seterror("bdd: wrong node in MinimizeUsingCareset")
	}
	if m.checkptr(careset) != nil {
		return m.seterror("bdd: wrong careset in MinimizeUsingCareset")
	}
	m.initref()
	m.pushref(*n)
	m.pushref(*careset)
	res := m.minimize(*n, *careset)
	m.popref(2)
	return m.retnode(res)
}

func (m *Manager) minimize(n, care int) int {
	if care == 0 {
		return 0
	}
	if care == 1 || n < 2 {
		return n
	}
	if n == care {
		return 1
	}
	if res := m.minimizecache.matchminimize(n, care); res >= 0 {
		return res
	}

	carelvl, nlvl := m.level(care), m.level(n)
	var res int
	switch {
	case carelvl < nlvl:
		// care branches before n does: follow whichever cofactor of care is
		// non-false, recursing with n unchanged at this level.
		if m.low(care) == 0 {
			res = m.minimize(n, m.high(care))
		} else if m.high(care) == 0 {
			res = m.minimize(n, m.low(care))
		} else {
			low := m.pushref(m.minimize(n, m.low(care)))
			high := m.pushref(m.minimize(n, m.high(care)))
			res, _ = m.makenode(carelvl, low, high)
			m.popref(2)
		}
	case nlvl < carelvl:
		low := m.pushref(m.minimize(m.low(n), care))
		high := m.pushref(m.minimize(m.high(n), care))
		res, _ = m.makenode(nlvl, low, high)
		m.popref(2)
	default:
		switch {
		case m.low(care) == 0:
			res = m.minimize(m.high(n), m.high(care))
		case m.high(care) == 0:
			res = m.minimize(m.low(n), m.low(care))
		default:
			low := m.pushref(m.minimize(m.low(n), m.low(care)))
			high := m.pushref(m.minimize(m.high(n), m.high(care)))
			res, _ = m.makenode(nlvl, low, high)
			m.popref(2)
		}
	}
	return m.minimizecache.setminimize(n, care, res)
}
