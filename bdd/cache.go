// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// pair bijectively maps a pair of non-negative integers into a single
// integer, then folds it into [0, size) with a modulo.
func pair(a, b, size int) int {
	ua, ub := uint64(a), uint64(b)
	return int((((ua+ub)*(ua+ub+1))/2 + ua) % uint64(size))
}

func triple(a, b, c, size int) int {
	return pair(c, pair(a, b, size), size)
}

// Cache ids used to distinguish quantification variants (exist/forall) and
// to let AppEx reuse the apply/quantification caches under a combined key.
const (
	cacheidEXIST  = 0x0
	cacheidFORALL = 0x1
	cacheidAPPEX  = 0x3
)

type entry4 struct {
	res, a, b, c int
}

type table4 struct {
	ratio  int
	opHit  int
	opMiss int
	table  []entry4
}

func (t *table4) init(size, ratio int) {
	size = primeGte(size)
	t.table = make([]entry4, size)
	t.ratio = ratio
	t.reset()
}

func (t *table4) resize(nodesize int) {
	if t.ratio > 0 {
		size := primeGte((nodesize * t.ratio) / 100)
		t.table = make([]entry4, size)
	}
	t.reset()
}

func (t *table4) reset() {
	for k := range t.table {
		t.table[k].a = -1
	}
}

type entry3 struct {
	res, a, c int
}

type table3 struct {
	ratio  int
	opHit  int
	opMiss int
	table  []entry3
}

func (t *table3) init(size, ratio int) {
	size = primeGte(size)
	t.table = make([]entry3, size)
	t.ratio = ratio
	t.reset()
}

func (t *table3) resize(nodesize int) {
	if t.ratio > 0 {
		size := primeGte((nodesize * t.ratio) / 100)
		t.table = make([]entry3, size)
	}
	t.reset()
}

func (t *table3) reset() {
	for k := range t.table {
		t.table[k].a = -1
	}
}

func (m *Manager) cacheinit(c *configs) {
	size := 10000
	if c.cachesize != 0 {
		size = c.cachesize
	}
	m.applycache = &applyCache{}
	m.applycache.init(size, c.cacheratio)
	m.itecache = &iteCache{}
	m.itecache.init(size, c.cacheratio)
	m.quantcache = &quantCache{}
	m.quantcache.init(size, c.cacheratio)
	m.quantcache.quantset = make([]int32, m.varnum)
	m.appexcache = &appexCache{}
	m.appexcache.init(size, c.cacheratio)
	m.replacecache = &replaceCache{}
	m.replacecache.init(size, c.cacheratio)
	m.restrictcache = &restrictCache{}
	m.restrictcache.init(size, c.cacheratio)
	m.minimizecache = &minimizeCache{}
	m.minimizecache.init(size, c.cacheratio)
}

func (m *Manager) cachereset() {
	m.applycache.reset()
	m.itecache.reset()
	m.quantcache.reset()
	m.appexcache.reset()
	m.replacecache.reset()
	m.restrictcache.reset()
	m.minimizecache.reset()
}

func (m *Manager) cacheresize(nodesize int) {
	m.applycache.resize(nodesize)
	m.itecache.resize(nodesize)
	m.quantcache.resize(nodesize)
	m.appexcache.resize(nodesize)
	m.replacecache.resize(nodesize)
	m.restrictcache.resize(nodesize)
	m.minimizecache.resize(nodesize)
}

// quantset2cache records, in quantcache.quantset, which levels belong to
// varset (a cube), tagged with a fresh generation id so membership can be
// tested with a single integer comparison instead of rescanning the cube.
func (m *Manager) quantset2cache(n int) error {
	if n < 2 {
		return nil
	}
	m.quantcache.quantsetID++
	if m.quantcache.quantsetID == 1<<31-1 {
		m.quantcache.quantset = make([]int32, m.varnum)
		m.quantcache.quantsetID = 1
	}
	for i := n; i > 1; i = m.high(i) {
		m.quantcache.quantset[m.level(i)] = m.quantcache.quantsetID
		m.quantcache.quantlast = m.level(i)
	}
	return nil
}

// The hash for Apply is #(left, right, op).

type applyCache struct {
	table4
	op int
}

func (c *applyCache) matchapply(left, right int) int {
	e := c.table[triple(left, right, c.op, len(c.table))]
	if e.a == left && e.b == right && e.c == c.op {
		c.opHit++
		return e.res
	}
	c.opMiss++
	return -1
}

func (c *applyCache) setapply(left, right, res int) int {
	c.table[triple(left, right, c.op, len(c.table))] = entry4{res: res, a: left, b: right, c: c.op}
	return res
}

// The hash for Not(n) is simply n.

func (c *applyCache) matchnot(n int) int {
	e := c.table[n%len(c.table)]
	if e.a == n && e.c == int(opnot) {
		c.opHit++
		return e.res
	}
	c.opMiss++
	return -1
}

func (c *applyCache) setnot(n, res int) int {
	c.table[n%len(c.table)] = entry4{res: res, a: n, c: int(opnot)}
	return res
}

// The hash for Ite is #(f, g, h).

type iteCache struct {
	table4
}

func (c *iteCache) matchite(f, g, h int) int {
	e := c.table[triple(f, g, h, len(c.table))]
	if e.a == f && e.b == g && e.c == h {
		c.opHit++
		return e.res
	}
	c.opMiss++
	return -1
}

func (c *iteCache) setite(f, g, h, res int) int {
	c.table[triple(f, g, h, len(c.table))] = entry4{res: res, a: f, b: g, c: h}
	return res
}

// The hash for quantification is (n, varset, quantid).

type quantCache struct {
	table4
	quantset   []int32
	quantsetID int32
	quantlast  int32
	id         int
}

func (c *quantCache) matchquant(n, varset int) int {
	e := c.table[pair(n, varset, len(c.table))]
	if e.a == n && e.b == varset && e.c == c.id {
		c.opHit++
		return e.res
	}
	c.opMiss++
	return -1
}

func (c *quantCache) setquant(n, varset, res int) int {
	c.table[pair(n, varset, len(c.table))] = entry4{res: res, a: n, b: varset, c: c.id}
	return res
}

// AppEx mixes the apply and quantification caches: the hash is
// #(left, right, id) where id folds in both the operator and the varset.

type appexCache struct {
	table4
	op int
	id int
}

func (c *appexCache) matchappex(left, right int) int {
	e := c.table[triple(left, right, c.id, len(c.table))]
	if e.a == left && e.b == right && e.c == c.id {
		c.opHit++
		return e.res
	}
	c.opMiss++
	return -1
}

func (c *appexCache) setappex(left, right, res int) int {
	c.table[triple(left, right, c.id, len(c.table))] = entry4{res: res, a: left, b: right, c: c.id}
	return res
}

// The hash for Replace(n) is simply n.

type replaceCache struct {
	table3
	id int
}

func (c *replaceCache) matchreplace(n int) int {
	e := c.table[n%len(c.table)]
	if e.a == n && e.c == c.id {
		c.opHit++
		return e.res
	}
	c.opMiss++
	return -1
}

func (c *replaceCache) setreplace(n, res int) int {
	c.table[n%len(c.table)] = entry3{res: res, a: n, c: c.id}
	return res
}

// restrictCache and minimizeCache back the new Restrict/MinimizeUsingCareset
// operations (see restrict.go). Both vary over two BDD operands that are not
// a fixed operator, so neither reuses applyCache's operator-indexed scheme:
// restrictCache tags its entries with the varset as cache id, and
// minimizeCache keys its entries on both the node and the care-set.

type restrictCache struct {
	table3
	id int
}

func (c *restrictCache) matchrestrict(n int) int {
	e := c.table[n%len(c.table)]
	if e.a == n && e.c == c.id {
		c.opHit++
		return e.res
	}
	c.opMiss++
	return -1
}

func (c *restrictCache) setrestrict(n, res int) int {
	c.table[n%len(c.table)] = entry3{res: res, a: n, c: c.id}
	return res
}

type minimizeCache struct {
	table4
}

func (c *minimizeCache) matchminimize(n, care int) int {
	e := c.table[pair(n, care, len(c.table))]
	if e.a == n && e.b == care {
		c.opHit++
		return e.res
	}
	c.opMiss++
	return -1
}

func (c *minimizeCache) setminimize(n, care, res int) int {
	c.table[pair(n, care, len(c.table))] = entry4{res: res, a: n, b: care}
	return res
}
