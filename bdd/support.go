// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "sort"

// Support returns the sorted, deduplicated levels of every variable that n
// structurally depends on. It is used by callers that must check a formula
// only references variables of an allowed type, since quantification and
// Apply give no cheaper way to inspect a node's free variables.
func (m *Manager) Support(n Node) []int {
	if m.checkptr(n) != nil {
		m.seterror("bdd: wrong node in Support")
		return nil
	}
	seen := make(map[int32]bool)
	var order []int32
	var visit func(int)
	marked := make(map[int]bool)
	visit = func(x int) {
		if x < 2 || marked[x] {
			return
		}
		marked[x] = true
		lvl := m.level(x)
		if !seen[lvl] {
			seen[lvl] = true
			order = append(order, lvl)
		}
		visit(m.low(x))
		visit(m.high(x))
	}
	visit(*n)
	res := make([]int, len(order))
	for i, l := range order {
		res[i] = int(l)
	}
	sort.Ints(res)
	return res
}
