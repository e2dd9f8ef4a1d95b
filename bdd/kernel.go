// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// number of bytes needed to hash a (level, low, high) triple. Adapted from
// uintSize in the math/bits package: we need 4 bytes for level and either 4
// or 8 bytes for each of low and high, depending on the host's int size.
const nodekeysize = (2*(32<<(^uint(0)>>32&1)) + 32) / 8 // 12 (32 bits) or 20 (64 bits)

// minFreeNodesDefault is the minimal percentage of nodes that has to be left
// after a garbage collection unless a resize should be attempted instead.
const minFreeNodesDefault int = 20

// maxVar is the maximal number of levels in the manager. We only use the
// lowest 21 bits of a node's level field to store the level itself and
// reserve a higher bit for the mark used during garbage collection.
const maxVar int32 = 0x1FFFFF

// maxRefcount is the maximal value of a node's reference counter. It is also
// used to pin nodes that should never be collected, such as the two constants
// and the variables themselves.
const maxRefcount int32 = 0x3FF

// maxNodeIncreaseDefault bounds how many nodes a single resize can add
// (roughly one million).
const maxNodeIncreaseDefault int = 1 << 20

// Sentinel errors surfaced by the manager. errResize and errReset are
// internal control-flow values: makenode uses them to report what kind of
// garbage-collection event happened, they never escape the package.
var (
	// ErrResourceExhausted is returned when the manager cannot grow the node
	// table any further, either because a configured maximum was reached or
	// because memory could not be allocated.
	ErrResourceExhausted = errors.New("bdd: unable to grow or resize node table")

	errResize = errors.New("bdd: resized node table")
	errReset  = errors.New("bdd: reclaimed node table without resizing")

	errNotACube = errors.New("bdd: varset passed to Restrict is not a cube")
)

// node is an entry of the shared node table.
type node struct {
	level  int32 // order of the variable in the BDD, or mark bit in bit 21
	low    int   // index of the false branch
	high   int   // index of the true branch
	refcou int32 // number of external (finalizer-tracked) references
}

// Manager owns a single shared, canonical BDD graph together with the
// variables declared over it. Every Node returned by this package is only
// meaningful relative to the Manager that produced it. A Manager is not safe
// for concurrent use by multiple goroutines; see SPEC_FULL.md §5.
type Manager struct {
	nodes  []node                  // node table; 0 and 1 are always the constants
	unique map[[nodekeysize]byte]int
	hbuff  [nodekeysize]byte // scratch space for hashing a node

	freepos int // first free slot in nodes, or 0 if none
	freenum int // number of free slots
	produced int

	varnum   int32
	varset   [][2]int // varset[level] == {negative-literal, positive-literal}
	refstack []int    // stack of transient node references, protected during gc

	nodefinalizer func(*int)

	svartable []int8 // scratch space for Restrict, one entry per level

	err error

	runID uuid.UUID
	log   zerolog.Logger

	gcHistory []gcPoint

	applycache   *applyCache
	itecache     *iteCache
	quantcache   *quantCache
	appexcache   *appexCache
	replacecache *replaceCache
	restrictcache *restrictCache
	minimizecache *minimizeCache

	stats runtimeStats

	reorderState reorderState

	configs
}

type runtimeStats struct {
	uniqueAccess int
	uniqueHit    int
	uniqueMiss   int
	setfinalizers    uint64
	calledfinalizers uint64
}

// Node is a reference to a node of a Manager's shared BDD. It is the atomic
// unit of interaction with this package: algebraic operations take and
// return values of this type. Copying a Node is cheap and safe; the
// underlying node is kept alive for as long as any copy is reachable.
type Node *int

// bddzero and bddone are shared so that callers comparing against True/False
// can do so without another call into the manager.
var bddzero = new(int)
var bddone = func() *int { v := 1; return &v }()

// New builds a fresh Manager with varnum boolean variables, numbered
// [0..varnum). Extra behavior (initial table size, cache sizing, growth
// limits) is configured with the functional options in config.go. New
// returns an error if varnum is out of range or if the initial node table
// could not be allocated.
func New(varnum int, options ...func(*configs)) (*Manager, error) {
	if varnum < 1 || varnum > int(maxVar) {
		return nil, errors.New("bdd: bad number of variables")
	}
	cfg := makeconfigs(varnum)
	for _, f := range options {
		f(cfg)
	}
	m := &Manager{
		configs: *cfg,
		runID:   uuid.New(),
	}
	m.varnum = int32(varnum)
	m.varset = make([][2]int, varnum)
	m.refstack = make([]int, 0, 2*varnum+4)

	nodesize := cfg.nodesize
	m.nodes = make([]node, nodesize)
	for k := range m.nodes {
		m.nodes[k] = node{level: 0, low: -1, high: k + 1, refcou: 0}
	}
	m.nodes[nodesize-1].high = 0
	m.unique = make(map[[nodekeysize]byte]int, nodesize)

	m.nodes[0] = node{level: int32(varnum), low: 0, high: 0, refcou: maxRefcount}
	m.nodes[1] = node{level: int32(varnum), low: 1, high: 1, refcou: maxRefcount}
	m.freepos = 2
	m.freenum = len(m.nodes) - 2

	m.initref()
	for k := 0; k < varnum; k++ {
		v0, err := m.makenode(int32(k), 0, 1)
		if err != nil && err != errResize && err != errReset {
			return nil, err
		}
		m.nodes[v0].refcou = maxRefcount
		m.pushref(v0)
		v1, err := m.makenode(int32(k), 1, 0)
		if err != nil && err != errResize && err != errReset {
			return nil, err
		}
		m.nodes[v1].refcou = maxRefcount
		m.popref(1)
		m.varset[k] = [2]int{v1, v0}
	}

	m.nodefinalizer = func(n *int) {
		if *n < 2 {
			return
		}
		m.stats.calledfinalizers++
		if m.nodes[*n].refcou > 0 && m.nodes[*n].refcou < maxRefcount {
			m.nodes[*n].refcou--
		}
	}
	m.cacheinit(cfg)
	return m, nil
}

// SetLogger attaches a structured logger to the manager. The zero value
// (a disabled logger) is used by default, so the package is silent unless a
// caller opts in.
func (m *Manager) SetLogger(l zerolog.Logger) {
	m.log = l
}

// RunID returns the identifier stamped on every log record emitted by this
// manager, so logs from concurrent managers or successive runs can be told
// apart.
func (m *Manager) RunID() uuid.UUID {
	return m.runID
}

// Varnum returns the number of variables declared on this manager.
func (m *Manager) Varnum() int {
	return int(m.varnum)
}

// True returns the handle for the constant function true.
func (m *Manager) True() Node {
	return bddone
}

// False returns the handle for the constant function false.
func (m *Manager) False() Node {
	return bddzero
}

// From returns the constant handle matching a boolean value.
func (m *Manager) From(v bool) Node {
	if v {
		return bddone
	}
	return bddzero
}
