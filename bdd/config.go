// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// configs stores the values of the tunable parameters of a Manager.
type configs struct {
	varnum           int // number of declared variables
	nodesize         int // initial size of the node table
	cachesize        int // initial size of the operation caches
	cacheratio       int // cache growth ratio (0 means caches never grow)
	maxnodesize      int // hard limit on node table size (0 means no limit)
	maxnodeincrease  int // maximum growth per resize (0 means no limit)
	minfreenodes     int // free-node percentage required after a gc
	reordermaxblowup int // accepted but unused, see ReorderMaxBlowup
}

func makeconfigs(varnum int) *configs {
	c := &configs{varnum: varnum}
	c.minfreenodes = minFreeNodesDefault
	c.maxnodeincrease = maxNodeIncreaseDefault
	// enough nodes to hold the two constants and every declared variable
	c.nodesize = 2*varnum + 2
	return c
}

// Nodesize sets the preferred initial size of the node table. The table
// grows during computation regardless of this value; setting it only avoids
// an early resize. The default is large enough to hold every declared
// variable.
func Nodesize(size int) func(*configs) {
	return func(c *configs) {
		if size >= 2*c.varnum+2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize bounds the number of nodes a Manager may ever allocate. An
// operation that would grow the table past this limit fails with
// ErrResourceExhausted instead. Zero (the default) means no limit.
func Maxnodesize(size int) func(*configs) {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// Maxnodeincrease bounds how many nodes a single resize may add. Below this
// limit the table size typically doubles at each resize. The default is
// about one million nodes; zero removes the limit.
func Maxnodeincrease(size int) func(*configs) {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Minfreenodes sets the percentage of free nodes that must remain after a
// garbage collection before a resize is triggered instead. The default is
// 20.
func Minfreenodes(ratio int) func(*configs) {
	return func(c *configs) {
		c.minfreenodes = ratio
	}
}

// Cachesize sets the initial number of entries in each operation cache. The
// default is 10 000. See also Cacheratio.
func Cachesize(size int) func(*configs) {
	return func(c *configs) {
		c.cachesize = size
	}
}

// Cacheratio sets the percentage of cache entries maintained per node-table
// slot; with a ratio r, a resize that grows the node table also grows each
// cache to keep r entries per 100 table slots. The default, zero, keeps
// caches at a fixed size.
func Cacheratio(ratio int) func(*configs) {
	return func(c *configs) {
		c.cacheratio = ratio
	}
}

// MemoryCapMB sets an approximate memory budget, in megabytes, translated
// into a node-table ceiling at construction time. It is a convenience over
// Maxnodesize for callers who think in terms of memory rather than node
// counts.
func MemoryCapMB(mb int) func(*configs) {
	return func(c *configs) {
		const bytesPerNode = 24 // level + low + high + refcou, rounded up
		c.maxnodesize = (mb * 1024 * 1024) / bytesPerNode
	}
}

// ReorderMaxBlowup sets the percentage growth in node count a dynamic
// variable-reordering pass would be allowed before giving up and restoring
// the previous order. This Manager orders variables once, by declaration
// order, and never reorders them, so the value is stored and returned by
// Stats but otherwise unused: there is no sifting algorithm for it to bound.
// The option exists so a Manager built with it round-trips the same
// construction call as a manager that does reorder, and so a future
// reordering pass has a tunable already wired at the call site.
func ReorderMaxBlowup(percent int) func(*configs) {
	return func(c *configs) {
		c.reordermaxblowup = percent
	}
}
