// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"

	"github.com/c2h5oh/datasize"
)

// Stats is a snapshot of a Manager's node table and cache usage, reported in
// human-readable units since these numbers are mostly consulted by an
// operator sizing a MemoryCapMB budget rather than by code.
type Stats struct {
	Varnum         int
	NodeTableSize  int
	NodesInUse     int
	NodesFree      int
	MemoryEstimate datasize.ByteSize

	UniqueAccess int
	UniqueHit    int
	UniqueMiss   int

	GCRuns int

	// ReorderMaxBlowup is the value passed to the ReorderMaxBlowup option at
	// construction, reported for completeness even though this Manager
	// never reorders variables.
	ReorderMaxBlowup int
}

// Stats reports the current occupancy of the manager's node table and
// unique-table hit rate.
func (m *Manager) Stats() Stats {
	const bytesPerNode = 24
	s := Stats{
		Varnum:        int(m.varnum),
		NodeTableSize: len(m.nodes),
		NodesFree:     m.freenum,
		NodesInUse:    len(m.nodes) - m.freenum,
		UniqueAccess:  m.stats.uniqueAccess,
		UniqueHit:     m.stats.uniqueHit,
		UniqueMiss:    m.stats.uniqueMiss,
		GCRuns:        len(m.gcHistory),

		ReorderMaxBlowup: m.reordermaxblowup,
	}
	s.MemoryEstimate = datasize.ByteSize(len(m.nodes) * bytesPerNode)
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"bdd: %d/%d nodes in use (%s), %d variables, %d gc runs, unique table %d/%d hit/access",
		s.NodesInUse, s.NodeTableSize, s.MemoryEstimate.HumanReadable(), s.Varnum, s.GCRuns, s.UniqueHit, s.UniqueAccess,
	)
}
