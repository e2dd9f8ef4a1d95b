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

// CounterState is one node of an extracted counterstrategy: a concrete
// valuation over the relevant variables, the (assumption, goal) rank pair
// being pursued, and its successors. A state with no successors and
// Deadlock set is a terminal state where the environment has forced the
// system into violating its safety constraint.
type CounterState struct {
	ID         int
	Assumption int
	Goal       int
	Valuation  bdd.Node
	Values     []bool
	Deadlock   bool
	Successors []int
}

// Counterstrategy is a winning positional strategy for the environment,
// extracted from an unrealizable game.
type Counterstrategy struct {
	Variables []string
	States    []CounterState
}

type counterKey struct {
	node       int
	assumption int
	goal       int
}

// ExtractCounterstrategy mirrors ExtractExplicit but for the dual,
// environment-side fixpoint, including the deadlock terminal-state
// convention: once the environment can force every system move to violate
// safetySys, it records a successor-less state exposing only the captured
// input. Grounded on extensionExtractExplicitCounterstrategy.hpp.
func ExtractCounterstrategy(ctx *game.Context, result *fixpoint.CounterResult) (*Counterstrategy, error) {
	if !result.Unrealizable {
		return nil, ErrNotUnrealizable
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
	postInputVars, err := ctx.Vars.Vector(varmgr.PostInput)
	if err != nil {
		return nil, err
	}
	postOutputVars, err := ctx.Vars.Vector(varmgr.PostOutput)
	if err != nil {
		return nil, err
	}
	preCube, err := ctx.Vars.Cube(varmgr.Pre)
	if err != nil {
		return nil, err
	}
	postCube, err := ctx.Vars.Cube(varmgr.Post)
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

	positional, err := positionalCounterStrategies(m, ctx, result.Log, postCube, postOutputCube)
	if err != nil {
		return nil, err
	}

	lookup := make(map[counterKey]int)
	var states []CounterState
	var todo []counterKey

	todoInit := m.Apply(m.Apply(result.Losing, ctx.InitE, bdd.OPand), ctx.InitS, bdd.OPand)
	for *todoInit != 0 {
		concrete := Determinize(m, todoInit, preVars)

		goal := 0
		for j := range ctx.LivG {
			if *m.Apply(concrete, positional[0][j], bdd.OPand) != 0 {
				goal = j
				break
			}
		}

		key := counterKey{node: *concrete, assumption: 0, goal: goal}
		lookup[key] = len(states)
		states = append(states, CounterState{ID: len(states), Assumption: 0, Goal: goal, Valuation: concrete, Values: valuationBits(m, concrete, preVars)})
		todoInit = m.Apply(todoInit, m.Not(concrete), bdd.OPand)
		todo = append(todo, key)
	}

	for len(todo) > 0 {
		current := todo[0]
		todo = todo[1:]
		id := lookup[current]
		valuation := states[id].Valuation

		deadlockInput := m.Forall(m.Apply(m.Apply(valuation, ctx.SafeE, bdd.OPand), m.Not(ctx.SafeS), bdd.OPand), postOutputCube)
		if *deadlockInput != 0 {
			target := addDeadlockState(m, deadlockInput, current, preVars, postVars, preCube, postOutputCube, swap, lookup, &states)
			states[id].Successors = append(states[id].Successors, target)
			continue
		}

		// Some goal's positional strategy must be non-empty here: valuation
		// was reached from the losing-positions predicate, which guarantees
		// at least one rank has a move once the deadlock case above is ruled
		// out.
		nextGoal := current.goal
		for *m.Apply(valuation, positional[current.assumption][nextGoal], bdd.OPand) == 0 {
			nextGoal = (nextGoal + 1) % len(ctx.LivG)
		}
		possibilities := m.Apply(valuation, positional[current.assumption][nextGoal], bdd.OPand)

		remaining := possibilities
		withoutAssumption := m.Apply(remaining, m.Not(ctx.LivE[current.assumption]), bdd.OPand)
		if *withoutAssumption != 0 {
			remaining = withoutAssumption
		}
		remaining = Determinize(m, remaining, postInputVars)

		for *m.Apply(remaining, ctx.SafeS, bdd.OPand) != 0 {
			safeTransition := m.Apply(remaining, ctx.SafeS, bdd.OPand)
			newCombination := Determinize(m, safeTransition, postOutputVars)

			nextAssumption := current.assumption
			first := true
			for (nextAssumption != current.assumption || first) && *m.Apply(ctx.LivE[nextAssumption], newCombination, bdd.OPand) != 0 {
				nextAssumption = (nextAssumption + 1) % len(ctx.LivE)
				first = false
			}

			remaining = m.Apply(remaining, m.Not(newCombination), bdd.OPand)
			successorState := m.Replace(m.Exist(newCombination, preCube), swap)

			targetKey := counterKey{node: *successorState, assumption: nextAssumption, goal: nextGoal}
			target, ok := lookup[targetKey]
			if !ok {
				target = len(states)
				lookup[targetKey] = target
				states = append(states, CounterState{ID: target, Assumption: nextAssumption, Goal: nextGoal, Valuation: successorState, Values: valuationBits(m, successorState, preVars)})
				todo = append(todo, targetKey)
			}
			states[id].Successors = append(states[id].Successors, target)
		}
	}

	names, err := preVariableNames(ctx.Vars)
	if err != nil {
		return nil, err
	}
	return &Counterstrategy{Variables: names, States: states}, nil
}

func addDeadlockState(m *bdd.Manager, targetCandidate bdd.Node, current counterKey, preVars, postVars []int, preCube, postOutputCube bdd.Node, swap *bdd.Replacer, lookup map[counterKey]int, states *[]CounterState) int {
	newCombination := Determinize(m, targetCandidate, postVars)
	newCombination = m.Replace(m.Exist(m.Exist(newCombination, postOutputCube), preCube), swap)

	key := counterKey{node: *newCombination, assumption: current.assumption, goal: current.goal}
	if id, ok := lookup[key]; ok {
		return id
	}
	id := len(*states)
	lookup[key] = id
	*states = append(*states, CounterState{ID: id, Assumption: current.assumption, Goal: current.goal, Valuation: newCombination, Values: valuationBits(m, newCombination, preVars), Deadlock: true})
	return id
}

// positionalCounterStrategies builds, for every (assumption, goal) rank
// pair, the union of preferred transitions recorded under that pair in
// log. Mirrors the original's positionalStrategiesForTheIndividualGoals:
// the preference reduction universally abstracts only the system's
// post-output move (postOutputCube), leaving the environment's post-input
// move free, and separately checks coverage over the full post cube
// (postCube). Computed
// sequentially, one assumption at a time, since the shared BDD manager is
// not safe for concurrent operations.
func positionalCounterStrategies(m *bdd.Manager, ctx *game.Context, log []fixpoint.LoggedCounterTransition, postCube, postOutputCube bdd.Node) ([][]bdd.Node, error) {
	result := make([][]bdd.Node, len(ctx.LivE))
	for i := range ctx.LivE {
		row := make([]bdd.Node, len(ctx.LivG))
		for j := range row {
			row[j] = m.False()
		}
		for _, entry := range log {
			if entry.Assumption != i {
				continue
			}
			covered := m.Exist(row[entry.Goal], postCube)
			newCases := m.Apply(m.Forall(entry.Transitions, postOutputCube), m.Not(covered), bdd.OPand)
			row[entry.Goal] = m.Apply(row[entry.Goal], newCases, bdd.OPor)
		}
		result[i] = row
	}
	return result, nil
}
