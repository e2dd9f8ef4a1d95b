// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "math"

// gcPoint is a snapshot of the node table's occupancy at the time of a
// garbage collection, kept so Stats can report a history of collections.
type gcPoint struct {
	nodes            int
	freenodes        int
	setfinalizers    int
	calledfinalizers int
}

// gbc reclaims nodes that are no longer reachable from either the
// refstack (nodes currently being built by a recursive operation) or from a
// node with a positive reference count (external handles, plus variables and
// constants which are pinned at maxRefcount).
func (m *Manager) gbc() {
	m.log.Debug().Int("nodes", len(m.nodes)).Int("free", m.freenum).Msg("bdd: starting gc")

	m.gcHistory = append(m.gcHistory, gcPoint{
		nodes:            len(m.nodes),
		freenodes:        m.freenum,
		setfinalizers:    int(m.stats.setfinalizers),
		calledfinalizers: int(m.stats.calledfinalizers),
	})
	m.stats.setfinalizers = 0
	m.stats.calledfinalizers = 0

	for _, r := range m.refstack {
		m.markrec(r)
	}
	for k := range m.nodes {
		if m.nodes[k].refcou > 0 {
			m.markrec(k)
		}
	}

	m.freepos = 0
	m.freenum = 0
	for n := len(m.nodes) - 1; n > 1; n-- {
		if m.ismarked(n) && m.nodes[n].low != -1 {
			m.unmarknode(n)
		} else {
			if m.nodes[n].low != -1 {
				m.delnode(m.nodes[n])
			}
			m.nodes[n].low = -1
			m.nodes[n].high = m.freepos
			m.freepos = n
			m.freenum++
		}
	}
	m.log.Debug().Int("free", m.freenum).Msg("bdd: gc done")
}

func (m *Manager) markrec(n int) {
	if n < 2 || m.ismarked(n) || m.nodes[n].low == -1 {
		return
	}
	m.marknode(n)
	m.markrec(m.nodes[n].low)
	m.markrec(m.nodes[n].high)
}

func (m *Manager) unmarkall() {
	for k, v := range m.nodes {
		if k < 2 || !m.ismarked(k) || v.low == -1 {
			continue
		}
		m.unmarknode(k)
	}
}

// noderesize doubles (bounded by maxnodeincrease and maxnodesize) the node
// table's capacity. It is only attempted when a garbage collection did not
// free enough nodes (see Minfreenodes).
func (m *Manager) noderesize() error {
	oldsize := len(m.nodes)
	if m.maxnodesize > 0 && oldsize >= m.maxnodesize {
		return ErrResourceExhausted
	}
	nodesize := oldsize
	if oldsize > (math.MaxInt32 >> 1) {
		nodesize = math.MaxInt32 - 1
	} else {
		nodesize <<= 1
	}
	if m.maxnodeincrease > 0 && nodesize > oldsize+m.maxnodeincrease {
		nodesize = oldsize + m.maxnodeincrease
	}
	if m.maxnodesize > 0 && nodesize > m.maxnodesize {
		nodesize = m.maxnodesize
	}
	if nodesize <= oldsize {
		return ErrResourceExhausted
	}

	m.log.Debug().Int("from", oldsize).Int("to", nodesize).Msg("bdd: resizing node table")

	tmp := m.nodes
	m.nodes = make([]node, nodesize)
	copy(m.nodes, tmp)
	for n := oldsize; n < nodesize; n++ {
		m.nodes[n] = node{level: 0, low: -1, high: n + 1, refcou: 0}
	}
	m.nodes[nodesize-1].high = m.freepos
	m.freepos = oldsize
	m.freenum += nodesize - oldsize

	m.cacheresize(nodesize)
	return errResize
}
