// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package fixpoint computes the winning (and, dually, losing) positions of
// a GR(1) game by nested mu/nu fixpoint iteration, and decides
// realizability.
package fixpoint

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dalzilio/gr1synth/bdd"
	"github.com/dalzilio/gr1synth/game"
	"github.com/dalzilio/gr1synth/varmgr"
)

// ErrNonConstantResult is the fatal invariant violation of §4.4/§4.6: the
// realizability test must always reduce to a constant BDD. Seeing anything
// else means the fixpoint computation itself is broken.
var ErrNonConstantResult = errors.New("fixpoint: realizability test did not reduce to a constant")

// LoggedTransition is one entry of a preferred-transition log: the
// system-liveness goal it was recorded under, and the transition relation
// (over pre and post variables) preferred for that goal.
type LoggedTransition struct {
	Goal        int
	Transitions bdd.Node
}

// Result bundles the outcome of ComputeWinningPositions: the winning-states
// predicate, the realizability verdict, and the transition log consumed by
// strategy extraction.
type Result struct {
	Winning     bdd.Node
	Realizable  bool
	Log         []LoggedTransition
	Iterations  int
}

// Engine owns the configuration needed to run the nested fixpoint over a
// game.Context: whether to use classical or "robotics" realizability
// semantics, and a logger/run id for observability.
type Engine struct {
	// RoboticsSemantics selects the stricter realizability test from
	// extensions/RoboticsSemantics.hpp: every state admitted by
	// initE ∧ initS must be winning, rather than only every initE-admitted
	// input needing some winning initS-output.
	RoboticsSemantics bool

	log   zerolog.Logger
	runID uuid.UUID
}

// NewEngine builds an Engine stamped with a fresh run id.
func NewEngine() *Engine {
	return &Engine{runID: uuid.New()}
}

// SetLogger attaches a structured logger; the zero value keeps the engine
// silent.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.log = l
}

// RunID returns the identifier stamped on every log record this engine
// emits.
func (e *Engine) RunID() uuid.UUID {
	return e.runID
}

// ComputeWinningPositions runs the classical GR(1) nested fixpoint
//
//	winning = nuZ. AND_j muY. OR_i nuX. cox( safeS AND (
//	            (livG[j] AND swap(Z)) OR swap(Y) OR (NOT livE[i] AND swap(X)) ))
//
// over ctx, and then decides realizability. It mutates no state outside the
// BDD manager's own node table.
func (e *Engine) ComputeWinningPositions(ctx *game.Context) (*Result, error) {
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

	log := []LoggedTransition{}
	iterations := 0

	nu2 := bdd.NewFixpointVar(m.True())
	for !nu2.Reached() {
		iterations++
		log = log[:0]

		nextForGoals := m.True()
		for j, goal := range ctx.LivG {
			liveTransitions := m.Apply(goal, m.Replace(nu2.Value(), swap), bdd.OPand)

			mu1 := bdd.NewFixpointVar(m.False())
			for !mu1.Reached() {
				liveTransitions = m.Apply(liveTransitions, m.Replace(mu1.Value(), swap), bdd.OPor)

				goodForAnyAssumption := mu1.Value()
				var foundPaths bdd.Node
				for _, assumption := range ctx.LivE {
					foundPaths = m.True()

					nu0 := bdd.NewFixpointVar(m.True())
					for !nu0.Reached() {
						foundPaths = m.Apply(liveTransitions,
							m.Apply(m.Replace(nu0.Value(), swap), m.Not(assumption), bdd.OPand), bdd.OPor)
						foundPaths = m.Apply(foundPaths, ctx.SafeS, bdd.OPand)

						cox := e.cox(m, ctx, foundPaths, postInputCube, postOutputCube)
						nu0.Update(cox)
					}

					goodForAnyAssumption = m.Apply(goodForAnyAssumption, nu0.Value(), bdd.OPor)
					log = append(log, LoggedTransition{Goal: j, Transitions: foundPaths})
				}

				mu1.Update(goodForAnyAssumption)
			}

			nextForGoals = m.Apply(nextForGoals, mu1.Value(), bdd.OPand)
		}

		nu2.Update(nextForGoals)
	}

	winning := nu2.Value()
	realizable, err := e.checkRealizability(m, ctx, winning)
	if err != nil {
		return nil, err
	}

	e.log.Debug().Str("run", e.runID.String()).Int("iterations", iterations).Bool("realizable", realizable).Msg("fixpoint: winning positions computed")

	return &Result{Winning: winning, Realizable: realizable, Log: log, Iterations: iterations}, nil
}

// cox is the enforceable-predecessor operator: from which positions can the
// system force a transition in T, against any environment move. Concretely
// forall postInput. (safeE => exists postOutput. T).
func (e *Engine) cox(m *bdd.Manager, ctx *game.Context, t, postInputCube, postOutputCube bdd.Node) bdd.Node {
	imp := m.Apply(ctx.SafeE, t, bdd.OPimp)
	return m.Forall(m.Exist(imp, postOutputCube), postInputCube)
}

// checkRealizability runs the classical or robotics quantifier pattern over
// the winning-positions predicate and asserts the result reduces to a
// constant, per §4.4/§7.
func (e *Engine) checkRealizability(m *bdd.Manager, ctx *game.Context, winning bdd.Node) (bool, error) {
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
		initBoth := m.Apply(ctx.InitE, ctx.InitS, bdd.OPand)
		result = m.Forall(m.Forall(m.Apply(initBoth, winning, bdd.OPimp), preOutputCube), preInputCube)
	} else {
		inner := m.Exist(m.Apply(winning, ctx.InitS, bdd.OPand), preOutputCube)
		result = m.Forall(m.Apply(ctx.InitE, inner, bdd.OPimp), preInputCube)
	}

	if *result != 0 && *result != 1 {
		return false, ErrNonConstantResult
	}
	return *result == 1, nil
}
