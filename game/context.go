// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package game holds the GR(1) game context: the five BDDs and two BDD lists
// that describe an environment/system pair exchanging inputs and outputs
// under safety and liveness constraints.
package game

import (
	"fmt"

	"github.com/dalzilio/gr1synth/bdd"
	"github.com/dalzilio/gr1synth/varmgr"
)

// Context is the fully assembled game: initial-state constraints, safety
// transition relations, and ordered liveness lists for both players.
type Context struct {
	Vars *varmgr.Manager

	InitE bdd.Node // initial-state constraint for the environment, pre-input only
	InitS bdd.Node // initial-state constraint for the system, pre-input and pre-output

	SafeE bdd.Node // environment safety transition, pre-input/pre-output/post-input
	SafeS bdd.Node // system safety transition, all four

	LivE []bdd.Node // environment liveness assumptions
	LivG []bdd.Node // system liveness guarantees
}

// NewContext validates and assembles a Context from its parts. It enforces
// the variable-usage invariants a parser would otherwise have checked line
// by line (see SPEC_FULL.md §3), and the empty-liveness-list convention:
// an empty livE or livG is replaced by a single constant-true element so the
// nested fixpoint still runs at least one iteration per level.
func NewContext(vars *varmgr.Manager, initE, initS, safeE, safeS bdd.Node, livE, livG []bdd.Node) (*Context, error) {
	if err := vars.CheckSupport(initE, varmgr.PreInput); err != nil {
		return nil, fmt.Errorf("game: initE: %w", err)
	}
	if err := vars.CheckSupport(initS, varmgr.PreInput, varmgr.PreOutput); err != nil {
		return nil, fmt.Errorf("game: initS: %w", err)
	}
	if err := vars.CheckSupport(safeE, varmgr.PreInput, varmgr.PreOutput, varmgr.PostInput); err != nil {
		return nil, fmt.Errorf("game: safeE: %w", err)
	}
	if err := vars.CheckSupport(safeS, varmgr.PreInput, varmgr.PreOutput, varmgr.PostInput, varmgr.PostOutput); err != nil {
		return nil, fmt.Errorf("game: safeS: %w", err)
	}
	for i, l := range livE {
		if err := vars.CheckSupport(l, varmgr.PreInput, varmgr.PreOutput, varmgr.PostInput); err != nil {
			return nil, fmt.Errorf("game: livE[%d]: %w", i, err)
		}
	}
	for j, l := range livG {
		if err := vars.CheckSupport(l, varmgr.PreInput, varmgr.PreOutput, varmgr.PostInput, varmgr.PostOutput); err != nil {
			return nil, fmt.Errorf("game: livG[%d]: %w", j, err)
		}
	}

	c := &Context{
		Vars:  vars,
		InitE: initE,
		InitS: initS,
		SafeE: safeE,
		SafeS: safeS,
		LivE:  append([]bdd.Node{}, livE...),
		LivG:  append([]bdd.Node{}, livG...),
	}
	if len(c.LivE) == 0 {
		c.LivE = []bdd.Node{vars.BddManager().True()}
	}
	if len(c.LivG) == 0 {
		c.LivG = []bdd.Node{vars.BddManager().True()}
	}
	return c, nil
}
