// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package strategy extracts explicit-state or symbolic strategies (and
// counterstrategies) from the winning-positions predicate computed by
// package fixpoint, and writes them out in a slugs-compatible format.
package strategy

import (
	"github.com/dalzilio/gr1synth/bdd"
)

// Determinize picks one concrete cube over vars that is consistent with bf,
// by fixing each variable in turn to 1 whenever that keeps bf satisfiable
// and to 0 otherwise. It leaves bf's dependence on any variable outside
// vars untouched. Grounded on the per-variable cofactor-preference test of
// BFAbstractionLibrary/BFCuddMintermEnumerator.cpp.
func Determinize(m *bdd.Manager, bf bdd.Node, vars []int) bdd.Node {
	result := bf
	for _, v := range vars {
		positive := m.Apply(result, m.Ithvar(v), bdd.OPand)
		if *positive != 0 {
			result = positive
			continue
		}
		result = m.Apply(result, m.NIthvar(v), bdd.OPand)
	}
	return result
}
