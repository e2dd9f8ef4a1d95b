// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package strategy

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/gr1synth/bdd"
	"github.com/dalzilio/gr1synth/fixpoint"
	"github.com/dalzilio/gr1synth/game"
	"github.com/dalzilio/gr1synth/varmgr"
)

// newTestGame wires a 3-variable game: environment bit "e" (0,1), system
// bit "y" (2,3), and a spare bit "strat" (4,5) reserved to play the role of
// the symbolic strategy's strat_type selector.
func newTestGame(t *testing.T) (*bdd.Manager, *varmgr.Manager) {
	t.Helper()
	m, err := bdd.New(6)
	require.NoError(t, err)
	v := varmgr.New(m)
	_, err = v.AddVariable(varmgr.PreInput, "e")
	require.NoError(t, err)
	_, err = v.AddVariable(varmgr.PreOutput, "y")
	require.NoError(t, err)
	_, err = v.AddVariable(varmgr.PreInput, "strat")
	require.NoError(t, err)
	require.NoError(t, v.Freeze())
	return m, v
}

func TestExtractExplicitAndWriters(t *testing.T) {
	m, v := newTestGame(t)
	yPrime := v.Handle(3)

	ctx, err := game.NewContext(v, m.True(), m.True(), m.True(), m.True(), nil, []bdd.Node{yPrime})
	require.NoError(t, err)

	e := fixpoint.NewEngine()
	result, err := e.ComputeWinningPositions(ctx)
	require.NoError(t, err)
	require.True(t, result.Realizable)

	strat, err := ExtractExplicit(ctx, result)
	require.NoError(t, err)
	require.NotEmpty(t, strat.States)
	assert.Equal(t, []string{"e", "y", "strat"}, strat.Variables)
	for _, st := range strat.States {
		assert.NotEmpty(t, st.Successors, "a winning strategy state always has a move")
	}

	var text bytes.Buffer
	require.NoError(t, WriteExplicitText(&text, strat))
	assert.Contains(t, text.String(), "State 0 with rank 0")

	var jsonBuf bytes.Buffer
	require.NoError(t, WriteExplicitJSON(&jsonBuf, strat))
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &doc))
	assert.Equal(t, "0.0.1", doc["slugs"])
}

func TestExtractExplicitRejectsUnrealizable(t *testing.T) {
	m, v := newTestGame(t)
	yPrime := v.Handle(3)
	safeS := m.Not(yPrime)

	ctx, err := game.NewContext(v, m.True(), m.True(), m.True(), safeS, nil, []bdd.Node{yPrime})
	require.NoError(t, err)

	e := fixpoint.NewEngine()
	result, err := e.ComputeWinningPositions(ctx)
	require.NoError(t, err)
	require.False(t, result.Realizable)

	_, err = ExtractExplicit(ctx, result)
	assert.ErrorIs(t, err, ErrNotRealizable)
}

func TestExtractCounterstrategyAndWriters(t *testing.T) {
	m, v := newTestGame(t)
	yPrime := v.Handle(3)
	safeS := m.Not(yPrime)

	ctx, err := game.NewContext(v, m.True(), m.True(), m.True(), safeS, nil, []bdd.Node{yPrime})
	require.NoError(t, err)

	e := fixpoint.NewEngine()
	result, err := e.ComputeLosingPositions(ctx)
	require.NoError(t, err)
	require.True(t, result.Unrealizable)

	counter, err := ExtractCounterstrategy(ctx, result)
	require.NoError(t, err)
	require.NotEmpty(t, counter.States)

	var text bytes.Buffer
	require.NoError(t, WriteCounterstrategyText(&text, counter))
	assert.Contains(t, text.String(), "State 0 with rank (0,0)")
}

// newMultiGoalGame wires a game with two system output bits, "y1" and
// "y2", that cannot hold simultaneously (safetySys forbids it), and two
// system-liveness goals, one per bit. Since the system fully controls both
// bits every round, it is realizable, and satisfying one goal per round
// necessarily rules out the other, forcing the extracted strategy to
// alternate between them (spec.md's two-goal rotation scenario).
func newMultiGoalGame(t *testing.T) (*bdd.Manager, *game.Context) {
	t.Helper()
	m, err := bdd.New(6)
	require.NoError(t, err)
	v := varmgr.New(m)
	_, err = v.AddVariable(varmgr.PreInput, "e")
	require.NoError(t, err)
	_, err = v.AddVariable(varmgr.PreOutput, "y1")
	require.NoError(t, err)
	_, err = v.AddVariable(varmgr.PreOutput, "y2")
	require.NoError(t, err)
	require.NoError(t, v.Freeze())

	y1Prime := v.Handle(3)
	y2Prime := v.Handle(5)
	safeS := m.Not(m.Apply(y1Prime, y2Prime, bdd.OPand))

	ctx, err := game.NewContext(v, m.True(), m.True(), m.True(), safeS, nil, []bdd.Node{y1Prime, y2Prime})
	require.NoError(t, err)
	return m, ctx
}

func TestExtractExplicitRotatesThroughMultipleGoals(t *testing.T) {
	_, ctx := newMultiGoalGame(t)
	require.Len(t, ctx.LivG, 2)

	e := fixpoint.NewEngine()
	result, err := e.ComputeWinningPositions(ctx)
	require.NoError(t, err)
	require.True(t, result.Realizable)

	strat, err := ExtractExplicit(ctx, result)
	require.NoError(t, err)
	require.NotEmpty(t, strat.States)

	ranks := make(map[int]bool)
	for _, st := range strat.States {
		ranks[st.Rank] = true
		assert.NotEmpty(t, st.Successors, "a winning strategy state always has a move")
	}
	assert.Len(t, ranks, 2, "both goal ranks should be reachable under rotation")
}

// newMultiAssumptionGame wires an unrealizable game (safetySys forbids the
// system's only output from ever holding) whose environment has two
// liveness assumptions over two input bits, "e1" and "e2", which
// safetyEnv forbids from holding simultaneously - forcing the
// counterstrategy's assumption rotation loop to actually alternate.
func newMultiAssumptionGame(t *testing.T) (*bdd.Manager, *game.Context) {
	t.Helper()
	m, err := bdd.New(6)
	require.NoError(t, err)
	v := varmgr.New(m)
	_, err = v.AddVariable(varmgr.PreInput, "e1")
	require.NoError(t, err)
	_, err = v.AddVariable(varmgr.PreInput, "e2")
	require.NoError(t, err)
	_, err = v.AddVariable(varmgr.PreOutput, "y")
	require.NoError(t, err)
	require.NoError(t, v.Freeze())

	e1Prime := v.Handle(1)
	e2Prime := v.Handle(3)
	yPrime := v.Handle(5)
	safeE := m.Not(m.Apply(e1Prime, e2Prime, bdd.OPand))
	safeS := m.Not(yPrime)

	ctx, err := game.NewContext(v, m.True(), m.True(), safeE, safeS, []bdd.Node{e1Prime, e2Prime}, []bdd.Node{yPrime})
	require.NoError(t, err)
	return m, ctx
}

func TestExtractCounterstrategyRotatesThroughMultipleAssumptions(t *testing.T) {
	_, ctx := newMultiAssumptionGame(t)
	require.Len(t, ctx.LivE, 2)

	e := fixpoint.NewEngine()
	result, err := e.ComputeLosingPositions(ctx)
	require.NoError(t, err)
	require.True(t, result.Unrealizable)

	counter, err := ExtractCounterstrategy(ctx, result)
	require.NoError(t, err)
	require.NotEmpty(t, counter.States)

	assumptions := make(map[int]bool)
	for _, st := range counter.States {
		assumptions[st.Assumption] = true
		if !st.Deadlock {
			assert.NotEmpty(t, st.Successors, "a non-deadlock counterstrategy state always has a move")
		}
	}
	assert.Len(t, assumptions, 2, "both assumption ranks should be reachable under rotation")
}

func TestExtractSymbolicAndDump(t *testing.T) {
	m, v := newTestGame(t)
	yPrime := v.Handle(3)

	ctx, err := game.NewContext(v, m.True(), m.True(), m.True(), m.True(), nil, []bdd.Node{yPrime})
	require.NoError(t, err)

	e := fixpoint.NewEngine()
	result, err := e.ComputeWinningPositions(ctx)
	require.NoError(t, err)
	require.True(t, result.Realizable)

	bits := SymbolicStrategyBits{GoalCounterBits: nil, StratType: 4}
	combined, err := ExtractSymbolic(ctx, result, bits)
	require.NoError(t, err)
	require.NotNil(t, combined)

	path := filepath.Join(t.TempDir(), "strategy.bdd")
	require.NoError(t, WriteSymbolicDump(m, path, combined, bits, len(ctx.LivG), []string{"e", "e'", "y", "y'", "strat", "strat'"}))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(contents), "# This file is a BDD exported"))
}
