// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "math/big"

// Satcount returns the number of satisfying variable assignments of n, over
// the full set of declared variables (not just those that appear in n). The
// result can be astronomically large, hence the arbitrary-precision integer.
func (m *Manager) Satcount(n Node) *big.Int {
	if m.checkptr(n) != nil {
		m.seterror("bdd: wrong node in Satcount")
		return big.NewInt(0)
	}
	if *n == 0 {
		return big.NewInt(0)
	}
	size := new(big.Int).Lsh(big.NewInt(1), uint(m.level(*n)))
	cache := make(map[int]*big.Int)
	return new(big.Int).Mul(size, m.satcount(*n, cache))
}

// satcount's cache is allocated fresh per top-level call rather than kept on
// the Manager: node ids are recycled by gc, so a cache surviving across
// calls could return a count keyed to a node that no longer exists.
func (m *Manager) satcount(n int, cache map[int]*big.Int) *big.Int {
	if n == 0 {
		return big.NewInt(0)
	}
	if n == 1 {
		return big.NewInt(1)
	}
	if c, ok := cache[n]; ok {
		return c
	}
	low, high := m.low(n), m.high(n)
	cl := new(big.Int).Lsh(big.NewInt(1), uint(m.level(low)-m.level(n)-1))
	cl.Mul(cl, m.satcount(low, cache))
	ch := new(big.Int).Lsh(big.NewInt(1), uint(m.level(high)-m.level(n)-1))
	ch.Mul(ch, m.satcount(high, cache))
	res := new(big.Int).Add(cl, ch)
	cache[n] = res
	return res
}

// AllsatCallback receives one satisfying assignment at a time, encoded as one
// byte per declared variable: 0, 1, or -1 for don't-care. Allsat stops the
// enumeration as soon as a callback invocation returns false.
type AllsatCallback func(assignment []int8) bool

// Allsat enumerates every satisfying assignment of n via f, in don't-care
// compressed form (a variable with no node on the path to True yields one
// assignment with a -1 in that position rather than two full assignments).
func (m *Manager) Allsat(n Node, f AllsatCallback) {
	if m.checkptr(n) != nil {
		m.seterror("bdd: wrong node in Allsat")
		return
	}
	buf := make([]int8, m.varnum)
	for i := range buf {
		buf[i] = -1
	}
	m.allsat(*n, buf, f)
}

func (m *Manager) allsat(n int, buf []int8, f AllsatCallback) bool {
	if n == 0 {
		return true
	}
	if n == 1 {
		return f(buf)
	}
	buf[m.level(n)] = 0
	if !m.allsat(m.low(n), buf, f) {
		buf[m.level(n)] = -1
		return false
	}
	buf[m.level(n)] = 1
	if !m.allsat(m.high(n), buf, f) {
		buf[m.level(n)] = -1
		return false
	}
	buf[m.level(n)] = -1
	return true
}

// AllnodesCallback is invoked once per internal node reachable from the
// BDDs passed to Allnodes, bottom-up, so a child is always visited before
// its parent. It receives the node's table index as id, its level, and the
// table indices of its low/high children: 0 for False, 1 for True, or the id
// of an internal node already passed to the callback. The constants
// themselves are never passed to the callback.
type AllnodesCallback func(id, level int, low, high int)

// Allnodes performs a shared, single bottom-up traversal of every BDD in ns,
// invoking f once per distinct internal node, used for exporting or
// translating an entire forest of BDDs (e.g. a strategy dump) without
// re-walking shared subgraphs.
func (m *Manager) Allnodes(ns []Node, f AllnodesCallback) error {
	for _, n := range ns {
		if m.checkptr(n) != nil {
			return m.err
		}
	}
	seen := map[int]bool{0: true, 1: true}
	var visit func(n int)
	visit = func(n int) {
		if n < 2 || seen[n] {
			return
		}
		seen[n] = true
		visit(m.low(n))
		visit(m.high(n))
		f(n, int(m.level(n)), m.low(n), m.high(n))
	}
	for _, n := range ns {
		visit(*n)
	}
	return nil
}
