// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package fixpoint

import (
	"github.com/dalzilio/gr1synth/bdd"
	"github.com/dalzilio/gr1synth/game"
	"github.com/dalzilio/gr1synth/varmgr"
)

// LoggedCounterTransition is one entry of the dual preferred-transition log
// produced while computing losing positions: the environment-liveness
// assumption index and system-liveness goal index it was recorded under
// (§4.6), and the transition relation preferred for that pair.
type LoggedCounterTransition struct {
	Assumption  int
	Goal        int
	Transitions bdd.Node
}

// CounterResult bundles the outcome of ComputeLosingPositions.
type CounterResult struct {
	Losing       bdd.Node
	Unrealizable bool
	Log          []LoggedCounterTransition
	Iterations   int
}

// ComputeLosingPositions runs the dualized GR(1) nested fixpoint
//
//	losing = muZ. OR_j nuY. AND_i muX. cox_env( (NOT livG[j] OR swap(Z)) AND
//	            swap(Y) AND (swap(X) OR livE[i]) )
//
// over ctx, computing a winning strategy for the environment. Shares the
// (assumption, goal)-indexed transition log shape with §4.6, and the same
// robotics-semantics switch as the classical direction.
func (e *Engine) ComputeLosingPositions(ctx *game.Context) (*CounterResult, error) {
	m := ctx.Vars.BddManager()

	swap, err := ctx.Vars.PreToPostSwap()
	if err != nil {
		return nil, err
	}
	postInputCube, err := ctx.Vars.Cube(varmgr.PostInput)
	if err != nil {
		return nil, err
	}
	postOutputCube, err := ctx.Vars.Cube(varmgr.PostOutput)
	if err != nil {
		return nil, err
	}

	log := []LoggedCounterTransition{}
	iterations := 0

	mu2 := bdd.NewFixpointVar(m.False())
	for !mu2.Reached() {
		iterations++
		log = log[:0]

		nextForGoals := m.False()
		for j, goal := range ctx.LivG {
			liveTransitions := m.Apply(m.Not(goal), m.Replace(mu2.Value(), swap), bdd.OPor)

			nu1 := bdd.NewFixpointVar(m.True())
			for !nu1.Reached() {
				liveTransitions = m.Apply(liveTransitions, m.Replace(nu1.Value(), swap), bdd.OPand)

				goodForAllAssumptions := nu1.Value()
				for i, assumption := range ctx.LivE {
					foundPaths := m.False()

					mu0 := bdd.NewFixpointVar(m.False())
					for !mu0.Reached() {
						foundPaths = m.Apply(liveTransitions,
							m.Apply(m.Replace(mu0.Value(), swap), assumption, bdd.OPor), bdd.OPand)
						foundPaths = e.coxEnv(m, ctx, foundPaths, postOutputCube)

						log = append(log, LoggedCounterTransition{Assumption: i, Goal: j, Transitions: foundPaths})

						mu0.Update(m.Exist(foundPaths, postInputCube))
					}

					goodForAllAssumptions = m.Apply(goodForAllAssumptions, mu0.Value(), bdd.OPand)
				}

				nu1.Update(goodForAllAssumptions)
			}

			nextForGoals = m.Apply(nextForGoals, nu1.Value(), bdd.OPor)
		}

		mu2.Update(nextForGoals)
	}

	losing := mu2.Value()
	unrealizable, err := e.checkCounterRealizability(m, ctx, losing)
	if err != nil {
		return nil, err
	}

	e.log.Debug().Str("run", e.runID.String()).Int("iterations", iterations).Bool("unrealizable", unrealizable).Msg("fixpoint: losing positions computed")

	return &CounterResult{Losing: losing, Unrealizable: unrealizable, Log: log, Iterations: iterations}, nil
}

// coxEnv is the environment's enforceable-predecessor operator: from which
// positions can the environment force a transition in t, against any system
// move, while respecting its own safety constraint. Concretely
// safeE AND forall postOutput. (safeS => exists postInput. t).
func (e *Engine) coxEnv(m *bdd.Manager, ctx *game.Context, t, postOutputCube bdd.Node) bdd.Node {
	imp := m.Apply(ctx.SafeS, t, bdd.OPimp)
	univ := m.Forall(imp, postOutputCube)
	return m.Apply(ctx.SafeE, univ, bdd.OPand)
}

// checkCounterRealizability mirrors checkRealizability but over the losing-
// positions predicate, with the classical/robotics switch inverted per
// extensions/Counterstrategy.hpp's specialRoboticsSemantics flag.
func (e *Engine) checkCounterRealizability(m *bdd.Manager, ctx *game.Context, losing bdd.Node) (bool, error) {
	preInputCube, err := ctx.Vars.Cube(varmgr.PreInput)
	if err != nil {
		return false, err
	}
	preOutputCube, err := ctx.Vars.Cube(varmgr.PreOutput)
	if err != nil {
		return false, err
	}

	var result bdd.Node
	if e.RoboticsSemantics {
		initBoth := m.Apply(m.Apply(ctx.InitE, ctx.InitS, bdd.OPand), losing, bdd.OPand)
		result = m.Exist(m.Exist(initBoth, preOutputCube), preInputCube)
	} else {
		inner := m.Forall(m.Apply(ctx.InitS, losing, bdd.OPimp), preOutputCube)
		result = m.Exist(m.Apply(ctx.InitE, inner, bdd.OPand), preInputCube)
	}

	if *result != 0 && *result != 1 {
		return false, ErrNonConstantResult
	}
	return *result == 1, nil
}
