// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package fixpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/gr1synth/bdd"
	"github.com/dalzilio/gr1synth/game"
	"github.com/dalzilio/gr1synth/varmgr"
)

// newTestGame wires a 2-variable game: environment bit "e", system bit "y",
// giving bit indices e=0 e'=1 y=2 y'=3.
func newTestGame(t *testing.T) (*bdd.Manager, *varmgr.Manager) {
	t.Helper()
	m, err := bdd.New(4)
	require.NoError(t, err)
	v := varmgr.New(m)
	_, err = v.AddVariable(varmgr.PreInput, "e")
	require.NoError(t, err)
	_, err = v.AddVariable(varmgr.PreOutput, "y")
	require.NoError(t, err)
	require.NoError(t, v.Freeze())
	return m, v
}

func TestComputeWinningPositionsRealizableWhenGoalIsFree(t *testing.T) {
	m, v := newTestGame(t)
	yPrime := v.Handle(3)

	ctx, err := game.NewContext(v, m.True(), m.True(), m.True(), m.True(), nil, []bdd.Node{yPrime})
	require.NoError(t, err)

	e := NewEngine()
	result, err := e.ComputeWinningPositions(ctx)
	require.NoError(t, err)
	assert.True(t, result.Realizable)
	assert.Equal(t, m.True(), result.Winning)
	assert.Greater(t, result.Iterations, 0)
}

func TestComputeWinningPositionsUnrealizableWhenSafetyForbidsGoal(t *testing.T) {
	m, v := newTestGame(t)
	yPrime := v.Handle(3)
	safeS := m.Not(yPrime) // system can never let y' hold

	ctx, err := game.NewContext(v, m.True(), m.True(), m.True(), safeS, nil, []bdd.Node{yPrime})
	require.NoError(t, err)

	e := NewEngine()
	result, err := e.ComputeWinningPositions(ctx)
	require.NoError(t, err)
	assert.False(t, result.Realizable)
	assert.Equal(t, m.False(), result.Winning)
}

func TestComputeLosingPositionsDualizesRealizability(t *testing.T) {
	m, v := newTestGame(t)
	yPrime := v.Handle(3)

	freeGoal, err := game.NewContext(v, m.True(), m.True(), m.True(), m.True(), nil, []bdd.Node{yPrime})
	require.NoError(t, err)
	e := NewEngine()
	counter, err := e.ComputeLosingPositions(freeGoal)
	require.NoError(t, err)
	assert.False(t, counter.Unrealizable, "system wins, so the environment has no counterstrategy")

	safeS := m.Not(yPrime)
	forbiddenGoal, err := game.NewContext(v, m.True(), m.True(), m.True(), safeS, nil, []bdd.Node{yPrime})
	require.NoError(t, err)
	counter, err = e.ComputeLosingPositions(forbiddenGoal)
	require.NoError(t, err)
	assert.True(t, counter.Unrealizable, "system cannot win, so the environment must have a counterstrategy")
}

func TestRoboticsSemanticsIsAtLeastAsStrict(t *testing.T) {
	m, v := newTestGame(t)
	yPrime := v.Handle(3)

	ctx, err := game.NewContext(v, m.True(), m.True(), m.True(), m.True(), nil, []bdd.Node{yPrime})
	require.NoError(t, err)

	classical := NewEngine()
	robotics := &Engine{RoboticsSemantics: true}

	rc, err := classical.ComputeWinningPositions(ctx)
	require.NoError(t, err)
	rr, err := robotics.ComputeWinningPositions(ctx)
	require.NoError(t, err)

	assert.True(t, rc.Realizable)
	assert.True(t, rr.Realizable)
}

func TestComputeWinningPositionsLogsOnePreferredTransitionPerInnerIteration(t *testing.T) {
	m, v := newTestGame(t)
	yPrime := v.Handle(3)

	ctx, err := game.NewContext(v, m.True(), m.True(), m.True(), m.True(), nil, []bdd.Node{yPrime})
	require.NoError(t, err)

	e := NewEngine()
	result, err := e.ComputeWinningPositions(ctx)
	require.NoError(t, err)
	// The single goal's Y iteration goes False -> True -> True: one entry
	// per assumption for each of its two iterations in the final pass.
	assert.Len(t, result.Log, 2)
	assert.Equal(t, 0, result.Log[0].Goal)
}
