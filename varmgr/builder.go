// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package varmgr

import (
	"fmt"
	"sort"

	"github.com/dalzilio/gr1synth/bdd"
)

// Cube returns the conjunction of every declared bit whose type is one of
// types (or a descendant of one of them), suitable as the varset argument to
// bdd.Exist/Forall/AppEx. Mirrors SlugsVarCube, which let callers declare a
// quantification set as a union of up to a handful of variable classes.
func (v *Manager) Cube(types ...Type) (bdd.Node, error) {
	if !v.frozen {
		return nil, fmt.Errorf("varmgr: Cube called before Freeze")
	}
	idx := v.vectorOf(types)
	return v.m.Makeset(idx), nil
}

// Vector returns the ordered bit indices of every declared bit whose type
// matches types, in declaration order, suitable as one side of a
// bdd.Manager.NewSwap pair. Mirrors SlugsVarVector.
func (v *Manager) Vector(types ...Type) ([]int, error) {
	if !v.frozen {
		return nil, fmt.Errorf("varmgr: Vector called before Freeze")
	}
	return v.vectorOf(types), nil
}

// VectorOfHandles is Vector, with each index resolved to its BDD handle.
// Mirrors SlugsVectorOfVarBFs.
func (v *Manager) VectorOfHandles(types ...Type) ([]bdd.Node, error) {
	idx, err := v.Vector(types...)
	if err != nil {
		return nil, err
	}
	res := make([]bdd.Node, len(idx))
	for i, b := range idx {
		res[i] = v.bits[b].handle
	}
	return res, nil
}

// CheckSupport reports an error if n structurally depends on any declared
// bit whose type is not one of allowed (or a descendant of one of them).
// Mirrors the allowedTypes check the original ran while parsing each
// section of the specification file.
func (v *Manager) CheckSupport(n bdd.Node, allowed ...Type) error {
	if !v.frozen {
		return fmt.Errorf("varmgr: CheckSupport called before Freeze")
	}
	ok := make(map[int]bool)
	for _, t := range allowed {
		for _, b := range v.BitsOfType(t, true) {
			ok[b] = true
		}
	}
	for _, lvl := range v.m.Support(n) {
		if !ok[lvl] {
			return fmt.Errorf("varmgr: variable %q of type %s is not allowed here", v.bits[lvl].name, v.bits[lvl].typ)
		}
	}
	return nil
}

func (v *Manager) vectorOf(types []Type) []int {
	seen := make(map[int]bool)
	var res []int
	for _, t := range types {
		for _, b := range v.BitsOfType(t, true) {
			if seen[b] {
				continue
			}
			seen[b] = true
			res = append(res, b)
		}
	}
	sort.Ints(res)
	return res
}

// PreToPostSwap builds a Replacer exchanging every pre bit with its matching
// post bit (the "prime" pairing declared by AddVariable), used to move a
// predicate across one round of the game.
func (v *Manager) PreToPostSwap() (*bdd.Replacer, error) {
	if !v.frozen {
		return nil, fmt.Errorf("varmgr: PreToPostSwap called before Freeze")
	}
	pre := v.vectorOf([]Type{Pre})
	post := make([]int, 0, len(pre))
	for _, p := range pre {
		name := v.bits[p].name
		postIdx, ok := v.byName[name+"'"]
		if !ok {
			return nil, fmt.Errorf("varmgr: pre variable %q has no matching post bit", name)
		}
		post = append(post, postIdx)
	}
	return v.m.NewSwap(pre, post)
}
