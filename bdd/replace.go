// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Replacer describes a parallel substitution of variables by other
// variables, as built by NewReplacer. It is a per-level mapping: every
// level holds the same substitution for all nodes using it, which is what
// lets Replace memoize its recursion in a single pass instead of one Apply
// per pair.
type Replacer struct {
	m        *Manager
	pairs    []int32 // pairs[level] == new level, or level itself if unchanged
	last     int32   // highest level touched by this replacer
	id       int
}

// replacerGen hands out a fresh cache id to every Replacer so results from
// two different replacements are never confused in replaceCache.
var replacerGen int

// NewReplacer builds a Replacer substituting, for each (from, to) pair, every
// occurrence of variable from by variable to. Pairs must be disjoint on
// both sides: a variable may not appear twice as a source, nor twice as a
// target, across the given pairs.
func (m *Manager) NewReplacer(pairs [][2]int) (*Replacer, error) {
	r := &Replacer{m: m, pairs: make([]int32, m.varnum)}
	for i := range r.pairs {
		r.pairs[i] = int32(i)
	}
	seenFrom := make(map[int]bool, len(pairs))
	seenTo := make(map[int]bool, len(pairs))
	for _, p := range pairs {
		from, to := p[0], p[1]
		if from < 0 || from >= int(m.varnum) || to < 0 || to >= int(m.varnum) {
			m.seterror("bdd: replace pair (%d,%d) out of range", from, to)
			return nil, m.err
		}
		if seenFrom[from] || seenTo[to] {
			m.seterror("bdd: replace pairs must be disjoint, got duplicate around (%d,%d)", from, to)
			return nil, m.err
		}
		seenFrom[from] = true
		seenTo[to] = true
		r.pairs[from] = int32(to)
		if int32(from) > r.last {
			r.last = int32(from)
		}
	}
	replacerGen++
	r.id = replacerGen
	return r, nil
}

// NewSwap builds a Replacer that exchanges left[i] with right[i] for every
// index, a common case (e.g. unprime a transition relation) that would
// otherwise require two overlapping NewReplacer pairs.
func (m *Manager) NewSwap(left, right []int) (*Replacer, error) {
	if len(left) != len(right) {
		m.seterror("bdd: NewSwap requires equal-length variable lists")
		return nil, m.err
	}
	pairs := make([][2]int, 0, 2*len(left))
	for i := range left {
		pairs = append(pairs, [2]int{left[i], right[i]}, [2]int{right[i], left[i]})
	}
	return m.NewReplacer(pairs)
}

// Replace substitutes variables in n according to r, returning a new node.
func (m *Manager) Replace(n Node, r *Replacer) Node {
	if m.checkptr(n) != nil {
		return m.seterror("bdd: wrong node in Replace")
	}
	m.replacecache.id = r.id
	m.initref()
	m.pushref(*n)
	res := m.replace(*n, r)
	m.popref(1)
	return m.retnode(res)
}

func (m *Manager) replace(n int, r *Replacer) int {
	if n < 2 || m.level(n) > r.last {
		return n
	}
	if res := m.replacecache.matchreplace(n); res >= 0 {
		return res
	}
	low := m.pushref(m.replace(m.low(n), r))
	high := m.pushref(m.replace(m.high(n), r))
	res := m.correctify(r.pairs[m.level(n)], low, high)
	m.popref(2)
	return m.replacecache.setreplace(n, res)
}

// correctify builds the node for (level, low, high), re-sorting the triple
// if substitution pushed level below one of its children's levels (this can
// happen when a replacer maps a high-order variable onto a low-order one).
func (m *Manager) correctify(level int32, low, high int) int {
	if level < m.level(low) && level < m.level(high) {
		res, _ := m.makenode(level, low, high)
		return res
	}
	if level == m.level(low) || level == m.level(high) {
		m.seterror("bdd: replace target variable already occurs below node")
		return 0
	}
	if m.level(low) == m.level(high) {
		newlow := m.pushref(m.correctify(level, m.low(low), m.low(high)))
		newhigh := m.pushref(m.correctify(level, m.high(low), m.high(high)))
		res, _ := m.makenode(m.level(low), newlow, newhigh)
		m.popref(2)
		return res
	}
	if m.level(low) < m.level(high) {
		newlow := m.pushref(m.correctify(level, m.low(low), high))
		newhigh := m.pushref(m.correctify(level, m.high(low), high))
		res, _ := m.makenode(m.level(low), newlow, newhigh)
		m.popref(2)
		return res
	}
	newlow := m.pushref(m.correctify(level, low, m.low(high)))
	newhigh := m.pushref(m.correctify(level, low, m.high(high)))
	res, _ := m.makenode(m.level(high), newlow, newhigh)
	m.popref(2)
	return res
}
