// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package strategy

import (
	"github.com/dalzilio/gr1synth/bdd"
	"github.com/dalzilio/gr1synth/fixpoint"
	"github.com/dalzilio/gr1synth/game"
	"github.com/dalzilio/gr1synth/varmgr"
)

// State is one node of an extracted explicit-state strategy: a concrete
// valuation of every pre variable, the system-liveness goal currently being
// pursued, and the states reachable by following the strategy for one
// round.
type State struct {
	ID         int
	Rank       int
	Valuation  bdd.Node
	Values     []bool
	Successors []int
}

// ExplicitStrategy is a winning positional strategy for the system,
// represented as an explicit graph over (valuation, goal-rank) pairs. The
// format mirrors slugs' JTLV-compatible explicit-state dump.
type ExplicitStrategy struct {
	Variables []string
	States    []State
}

// stateKey identifies an explicit state by the hash of its BDD node (the
// node table is canonical, so the node id itself is a valid hash) and the
// goal rank being pursued.
type stateKey struct {
	node int
	rank int
}

// ExtractExplicit freezes variable reordering (the node ids computed below
// are used as map keys throughout), walks the winning-positions predicate in
// result starting from every initial state, rotating the pursued goal with
// the stuttering-avoidance rule, and returns the resulting explicit strategy
// graph. Grounded on extensionExtractExplicitStrategy.hpp's
// computeAndPrintExplicitStateStrategy.
func ExtractExplicit(ctx *game.Context, result *fixpoint.Result) (*ExplicitStrategy, error) {
	if !result.Realizable {
		return nil, ErrNotRealizable
	}
	m := ctx.Vars.BddManager()
	m.FreezeReordering()
	defer m.UnfreezeReordering()

	preVars, err := ctx.Vars.Vector(varmgr.Pre)
	if err != nil {
		return nil, err
	}
	postVars, err := ctx.Vars.Vector(varmgr.Post)
	if err != nil {
		return nil, err
	}
	preCube, err := ctx.Vars.Cube(varmgr.Pre)
	if err != nil {
		return nil, err
	}
	postOutputCube, err := ctx.Vars.Cube(varmgr.PostOutput)
	if err != nil {
		return nil, err
	}
	swap, err := ctx.Vars.PreToPostSwap()
	if err != nil {
		return nil, err
	}

	positional, err := positionalStrategiesPerGoal(m, ctx, result.Log, len(ctx.LivG), postOutputCube)
	if err != nil {
		return nil, err
	}

	lookup := make(map[stateKey]int)
	var states []State

	var todo []stateKey
	todoInit := m.Apply(m.Apply(result.Winning, ctx.InitS, bdd.OPand), ctx.InitE, bdd.OPand)
	for *todoInit != 0 {
		concrete := Determinize(m, todoInit, preVars)
		key := stateKey{node: *concrete, rank: 0}
		lookup[key] = len(states)
		states = append(states, State{ID: len(states), Rank: 0, Valuation: concrete, Values: valuationBits(m, concrete, preVars)})
		todoInit = m.Apply(todoInit, m.Not(concrete), bdd.OPand)
		todo = append(todo, key)
	}

	for len(todo) > 0 {
		current := todo[0]
		todo = todo[1:]
		id := lookup[current]
		currentPossibilities := m.Apply(states[id].Valuation, positional[current.rank], bdd.OPand)
		remaining := m.Apply(currentPossibilities, ctx.SafeE, bdd.OPand)

		for *remaining != 0 {
			newCombination := Determinize(m, remaining, postVars)

			nextRank := current.rank
			first := true
			for (nextRank != current.rank || first) && *m.Apply(ctx.LivG[nextRank], newCombination, bdd.OPand) != 0 {
				nextRank = (nextRank + 1) % len(ctx.LivG)
				first = false
			}

			inputCaptured := m.Exist(newCombination, postOutputCube)
			successorState := m.Replace(m.Exist(newCombination, preCube), swap)
			remaining = m.Apply(remaining, m.Not(inputCaptured), bdd.OPand)

			targetKey := stateKey{node: *successorState, rank: nextRank}
			target, ok := lookup[targetKey]
			if !ok {
				target = len(states)
				lookup[targetKey] = target
				states = append(states, State{ID: target, Rank: nextRank, Valuation: successorState, Values: valuationBits(m, successorState, preVars)})
				todo = append(todo, targetKey)
			}
			states[id].Successors = append(states[id].Successors, target)
		}
	}

	names, err := preVariableNames(ctx.Vars)
	if err != nil {
		return nil, err
	}
	return &ExplicitStrategy{Variables: names, States: states}, nil
}

// valuationBits tests, for every bit index in vars (in order), whether it
// holds in the concrete cube valuation.
func valuationBits(m *bdd.Manager, valuation bdd.Node, vars []int) []bool {
	bits := make([]bool, len(vars))
	for i, v := range vars {
		bits[i] = *m.Apply(valuation, m.Ithvar(v), bdd.OPand) != 0
	}
	return bits
}

// positionalStrategiesPerGoal builds, for every goal rank, the union of
// preferred transitions recorded under that rank in log, resolving
// overlapping input valuations in log order ("first case wins"). Computed
// sequentially, one goal at a time, since the shared BDD manager is not
// safe for concurrent operations.
func positionalStrategiesPerGoal(m *bdd.Manager, ctx *game.Context, log []fixpoint.LoggedTransition, numGoals int, postOutputCube bdd.Node) ([]bdd.Node, error) {
	strategies := make([]bdd.Node, numGoals)
	for goal := 0; goal < numGoals; goal++ {
		casesCovered := m.False()
		strategy := m.False()
		for _, entry := range log {
			if entry.Goal != goal {
				continue
			}
			newCases := m.Apply(m.Exist(entry.Transitions, postOutputCube), m.Not(casesCovered), bdd.OPand)
			strategy = m.Apply(strategy, m.Apply(newCases, entry.Transitions, bdd.OPand), bdd.OPor)
			casesCovered = m.Apply(casesCovered, newCases, bdd.OPor)
		}
		strategies[goal] = strategy
	}
	return strategies, nil
}

func preVariableNames(v *varmgr.Manager) ([]string, error) {
	idx, err := v.Vector(varmgr.Pre)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(idx))
	for i, b := range idx {
		names[i] = v.Name(b)
	}
	return names, nil
}
