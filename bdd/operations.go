// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Makeset returns the cube (conjunction, in positive form) of the variables
// named by levels. It is the dual of Scanset. It sets the manager's error and
// returns False if one of the levels is out of range.
func (m *Manager) Makeset(levels []int) Node {
	res := bddone
	for _, level := range levels {
		tmp := m.Apply(res, m.Ithvar(level), OPand)
		if m.err != nil {
			return bddzero
		}
		res = tmp
	}
	return res
}

// Scanset returns the levels found while following the high branch of a
// cube built with Makeset. The result is nil if n is not a valid node.
func (m *Manager) Scanset(n Node) []int {
	if m.checkptr(n) != nil {
		return nil
	}
	if *n < 2 {
		return nil
	}
	res := []int{}
	for i := *n; i > 1; i = m.high(i) {
		res = append(res, int(m.level(i)))
	}
	return res
}

// Ithvar returns the BDD for the i'th declared variable, in positive form.
func (m *Manager) Ithvar(i int) Node {
	if i < 0 || i >= int(m.varnum) {
		return m.seterror("bdd: variable %d out of range", i)
	}
	return m.retnode(m.varset[i][1])
}

// NIthvar returns the BDD for the negation of the i'th declared variable.
func (m *Manager) NIthvar(i int) Node {
	if i < 0 || i >= int(m.varnum) {
		return m.seterror("bdd: variable %d out of range", i)
	}
	return m.retnode(m.varset[i][0])
}

// Not returns the negation of n.
func (m *Manager) Not(n Node) Node {
	if m.checkptr(n) != nil {
		return m.seterror("bdd: wrong operand in Not")
	}
	m.initref()
	m.pushref(*n)
	res := m.not(*n)
	m.popref(1)
	return m.retnode(res)
}

func (m *Manager) not(n int) int {
	if n == 0 {
		return 1
	}
	if n == 1 {
		return 0
	}
	if res := m.applycache.matchnot(n); res >= 0 {
		return res
	}
	low := m.pushref(m.not(m.low(n)))
	high := m.pushref(m.not(m.high(n)))
	res, _ := m.makenode(m.level(n), low, high)
	m.popref(2)
	return m.applycache.setnot(n, res)
}

// Apply computes one of the basic binary operations (see Operator) over two
// nodes.
func (m *Manager) Apply(n1, n2 Node, op Operator) Node {
	if op == opnot || int(op) > int(OPinvimp) {
		return m.seterror("bdd: operator %s not valid in Apply", op)
	}
	if m.checkptr(n1) != nil {
		return m.seterror("bdd: wrong left operand in Apply %s", op)
	}
	if m.checkptr(n2) != nil {
		return m.seterror("bdd: wrong right operand in Apply %s", op)
	}
	m.applycache.op = int(op)
	m.initref()
	m.pushref(*n1)
	m.pushref(*n2)
	res := m.apply(*n1, *n2)
	m.popref(2)
	return m.retnode(res)
}

func (m *Manager) apply(left, right int) int {
	switch Operator(m.applycache.op) {
	case OPand:
		switch {
		case left == right:
			return left
		case left == 0 || right == 0:
			return 0
		case left == 1:
			return right
		case right == 1:
			return left
		}
	case OPor:
		switch {
		case left == right:
			return left
		case left == 1 || right == 1:
			return 1
		case left == 0:
			return right
		case right == 0:
			return left
		}
	case OPxor:
		switch {
		case left == right:
			return 0
		case left == 0:
			return right
		case right == 0:
			return left
		}
	case OPnand:
		if left == 0 || right == 0 {
			return 1
		}
	case OPnor:
		if left == 1 || right == 1 {
			return 0
		}
	case OPimp:
		switch {
		case left == 0:
			return 1
		case left == 1:
			return right
		case right == 1:
			return 1
		case left == right:
			return 1
		}
	case OPbiimp:
		switch {
		case left == right:
			return 1
		case left == 1:
			return right
		case right == 1:
			return left
		}
	case OPdiff:
		switch {
		case left == right:
			return 0
		case right == 1:
			return 0
		case left == 0:
			return 0
		}
	case OPless:
		switch {
		case left == right || left == 1:
			return 0
		case left == 0:
			return right
		}
	case OPinvimp:
		switch {
		case right == 0:
			return 1
		case right == 1:
			return left
		case left == 1:
			return 1
		case left == right:
			return 1
		}
	default:
		return -1
	}

	if left < 2 && right < 2 {
		return opres[m.applycache.op][left][right]
	}
	if res := m.applycache.matchapply(left, right); res >= 0 {
		return res
	}
	leftlvl, rightlvl := m.level(left), m.level(right)
	var res int
	switch {
	case leftlvl == rightlvl:
		low := m.pushref(m.apply(m.low(left), m.low(right)))
		high := m.pushref(m.apply(m.high(left), m.high(right)))
		res, _ = m.makenode(leftlvl, low, high)
	case leftlvl < rightlvl:
		low := m.pushref(m.apply(m.low(left), right))
		high := m.pushref(m.apply(m.high(left), right))
		res, _ = m.makenode(leftlvl, low, high)
	default:
		low := m.pushref(m.apply(left, m.low(right)))
		high := m.pushref(m.apply(left, m.high(right)))
		res, _ = m.makenode(rightlvl, low, high)
	}
	m.popref(2)
	return m.applycache.setapply(left, right, res)
}

// Ite computes [(f & g) | (!f & h)] in one pass.
func (m *Manager) Ite(f, g, h Node) Node {
	if m.checkptr(f) != nil || m.checkptr(g) != nil || m.checkptr(h) != nil {
		return m.seterror("bdd: wrong operand in Ite")
	}
	m.initref()
	m.pushref(*f)
	m.pushref(*g)
	m.pushref(*h)
	res := m.ite(*f, *g, *h)
	m.popref(3)
	return m.retnode(res)
}

func min3(p, q, r int32) int32 {
	if p <= q {
		if p <= r {
			return p
		}
		return r
	}
	if q <= r {
		return q
	}
	return r
}

func (m *Manager) iteLow(p, q, r int32, n int) int {
	if p > q || p > r {
		return n
	}
	return m.low(n)
}

func (m *Manager) iteHigh(p, q, r int32, n int) int {
	if p > q || p > r {
		return n
	}
	return m.high(n)
}

func (m *Manager) ite(f, g, h int) int {
	switch {
	case f == 1:
		return g
	case f == 0:
		return h
	case g == h:
		return g
	case g == 1 && h == 0:
		return f
	case g == 0 && h == 1:
		return m.not(f)
	}
	if res := m.itecache.matchite(f, g, h); res >= 0 {
		return res
	}
	p, q, r := m.level(f), m.level(g), m.level(h)
	low := m.pushref(m.ite(m.iteLow(p, q, r, f), m.iteLow(q, p, r, g), m.iteLow(r, p, q, h)))
	high := m.pushref(m.ite(m.iteHigh(p, q, r, f), m.iteHigh(q, p, r, g), m.iteHigh(r, p, q, h)))
	res, _ := m.makenode(min3(p, q, r), low, high)
	m.popref(2)
	return m.itecache.setite(f, g, h, res)
}

// Exist returns the existential abstraction of n over the variables in
// varset (a cube built with Makeset).
func (m *Manager) Exist(n, varset Node) Node {
	return m.quantify(n, varset, cacheidEXIST, OPor)
}

// Forall returns the universal abstraction of n over varset. It is the dual
// of Exist, sharing the same recursive traversal but combining cofactors
// with conjunction instead of disjunction.
func (m *Manager) Forall(n, varset Node) Node {
	return m.quantify(n, varset, cacheidFORALL, OPand)
}

func (m *Manager) quantify(n, varset Node, id int, combine Operator) Node {
	if m.checkptr(n) != nil {
		return m.seterror("bdd: wrong node in quantification")
	}
	if m.checkptr(varset) != nil {
		return m.seterror("bdd: wrong varset in quantification")
	}
	if err := m.quantset2cache(*varset); err != nil {
		return nil
	}
	if *varset < 2 {
		return n
	}
	m.quantcache.id = id
	m.applycache.op = int(combine)
	m.initref()
	m.pushref(*n)
	m.pushref(*varset)
	res := m.quant(*n, *varset)
	m.popref(2)
	return m.retnode(res)
}

func (m *Manager) quant(n, varset int) int {
	if n < 2 || m.level(n) > m.quantcache.quantlast {
		return n
	}
	if res := m.quantcache.matchquant(n, varset); res >= 0 {
		return res
	}
	low := m.pushref(m.quant(m.low(n), varset))
	high := m.pushref(m.quant(m.high(n), varset))
	var res int
	if m.quantcache.quantset[m.level(n)] == m.quantcache.quantsetID {
		res = m.apply(low, high)
	} else {
		res, _ = m.makenode(m.level(n), low, high)
	}
	m.popref(2)
	return m.quantcache.setquant(n, varset, res)
}

// AppEx computes n1 op n2 then existentially quantifies the variables in
// varset, in one pass; equivalent to, but far cheaper than, Exist(Apply(...)).
// When op is OPand this is the relational product of n1 and n2.
func (m *Manager) AppEx(n1, n2 Node, op Operator, varset Node) Node {
	switch op {
	case OPand, OPor, OPxor, OPnand, OPnor:
	default:
		return m.seterror("bdd: operator %s not supported in AppEx", op)
	}
	if m.checkptr(varset) != nil {
		return m.seterror("bdd: wrong varset in AppEx")
	}
	if *varset < 2 {
		return m.Apply(n1, n2, op)
	}
	if m.checkptr(n1) != nil {
		return m.seterror("bdd: wrong left operand in AppEx %s", op)
	}
	if m.checkptr(n2) != nil {
		return m.seterror("bdd: wrong right operand in AppEx %s", op)
	}
	if err := m.quantset2cache(*varset); err != nil {
		return nil
	}
	m.applycache.op = int(OPor)
	m.appexcache.op = int(op)
	m.appexcache.id = (*varset << 3) | m.appexcache.op
	m.quantcache.id = (m.appexcache.id << 3) | cacheidAPPEX
	m.initref()
	m.pushref(*n1)
	m.pushref(*n2)
	m.pushref(*varset)
	res := m.appquant(*n1, *n2, *varset)
	m.popref(3)
	return m.retnode(res)
}

// AndExist is the relational product of n1 and n2 over varset, i.e.
// ∃varset. (n1 ∧ n2).
func (m *Manager) AndExist(n1, n2, varset Node) Node {
	return m.AppEx(n1, n2, OPand, varset)
}

func (m *Manager) appquant(left, right, varset int) int {
	switch Operator(m.appexcache.op) {
	case OPand:
		switch {
		case left == 0 || right == 0:
			return 0
		case left == right:
			return m.quant(left, varset)
		case left == 1:
			return m.quant(right, varset)
		case right == 1:
			return m.quant(left, varset)
		}
	case OPor:
		switch {
		case left == 1 || right == 1:
			return 1
		case left == right:
			return m.quant(left, varset)
		case left == 0:
			return m.quant(right, varset)
		case right == 0:
			return m.quant(left, varset)
		}
	case OPxor:
		switch {
		case left == right:
			return 0
		case left == 0:
			return m.quant(right, varset)
		case right == 0:
			return m.quant(left, varset)
		}
	case OPnand:
		if left == 0 || right == 0 {
			return 1
		}
	case OPnor:
		if left == 1 || right == 1 {
			return 0
		}
	}

	if left < 2 && right < 2 {
		return opres[m.appexcache.op][left][right]
	}

	if m.level(left) > m.quantcache.quantlast && m.level(right) > m.quantcache.quantlast {
		oldop := m.applycache.op
		m.applycache.op = m.appexcache.op
		res := m.apply(left, right)
		m.applycache.op = oldop
		return res
	}

	if res := m.appexcache.matchappex(left, right); res >= 0 {
		return res
	}
	leftlvl, rightlvl := m.level(left), m.level(right)
	var res int
	switch {
	case leftlvl == rightlvl:
		low := m.pushref(m.appquant(m.low(left), m.low(right), varset))
		high := m.pushref(m.appquant(m.high(left), m.high(right), varset))
		if m.quantcache.quantset[leftlvl] == m.quantcache.quantsetID {
			res = m.apply(low, high)
		} else {
			res, _ = m.makenode(leftlvl, low, high)
		}
	case leftlvl < rightlvl:
		low := m.pushref(m.appquant(m.low(left), right, varset))
		high := m.pushref(m.appquant(m.high(left), right, varset))
		if m.quantcache.quantset[leftlvl] == m.quantcache.quantsetID {
			res = m.apply(low, high)
		} else {
			res, _ = m.makenode(leftlvl, low, high)
		}
	default:
		low := m.pushref(m.appquant(left, m.low(right), varset))
		high := m.pushref(m.appquant(left, m.high(right), varset))
		if m.quantcache.quantset[rightlvl] == m.quantcache.quantsetID {
			res = m.apply(low, high)
		} else {
			res, _ = m.makenode(rightlvl, low, high)
		}
	}
	m.popref(2)
	return m.appexcache.setappex(left, right, res)
}
