// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package varmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/gr1synth/bdd"
)

func newTestRegistry(t *testing.T, varnum int) (*bdd.Manager, *Manager) {
	t.Helper()
	m, err := bdd.New(varnum)
	require.NoError(t, err)
	return m, New(m)
}

func TestAddVariablePairsPrimedBit(t *testing.T) {
	_, v := newTestRegistry(t, 4)
	idx, err := v.AddVariable(PreInput, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, v.byName["a'"])
	assert.Equal(t, PreInput, v.TypeOf(0))
	assert.Equal(t, PostInput, v.TypeOf(1))

	_, err = v.AddVariable(PreOutput, "b")
	require.NoError(t, err)
	assert.Equal(t, PreOutput, v.TypeOf(2))
	assert.Equal(t, PostOutput, v.TypeOf(3))
}

func TestAddVariableRejectsDuplicateNames(t *testing.T) {
	_, v := newTestRegistry(t, 2)
	_, err := v.AddVariable(PreInput, "a")
	require.NoError(t, err)
	_, err = v.AddVariable(PreInput, "a")
	assert.Error(t, err)
}

func TestAddVariableRejectsPostTypeDirectly(t *testing.T) {
	_, v := newTestRegistry(t, 2)
	_, err := v.AddVariable(PostInput, "a")
	assert.Error(t, err)
}

func TestFreezeRequiresExactVarnum(t *testing.T) {
	_, v := newTestRegistry(t, 4)
	_, err := v.AddVariable(PreInput, "a")
	require.NoError(t, err)
	err = v.Freeze()
	assert.Error(t, err, "bdd manager has 4 vars but only 2 were declared")
}

func TestBitsOfTypeIncludesSubtypes(t *testing.T) {
	m, v := newTestRegistry(t, 4)
	_ = m
	_, err := v.AddVariable(PreInput, "a")
	require.NoError(t, err)
	_, err = v.AddVariable(PreOutput, "b")
	require.NoError(t, err)
	require.NoError(t, v.Freeze())

	assert.ElementsMatch(t, []int{0, 2}, v.BitsOfType(Pre, true))
	assert.ElementsMatch(t, []int{0}, v.BitsOfType(PreInput, false))
}

func TestCubeHasExpectedSize(t *testing.T) {
	m, v := newTestRegistry(t, 4)
	_, err := v.AddVariable(PreInput, "a")
	require.NoError(t, err)
	_, err = v.AddVariable(PreOutput, "b")
	require.NoError(t, err)
	require.NoError(t, v.Freeze())

	cube, err := v.Cube(Pre)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 2}, m.Scanset(cube))
}

func TestPreToPostSwapRoundtrips(t *testing.T) {
	m, v := newTestRegistry(t, 2)
	_, err := v.AddVariable(PreInput, "a")
	require.NoError(t, err)
	require.NoError(t, v.Freeze())

	swap, err := v.PreToPostSwap()
	require.NoError(t, err)
	a := v.Handle(0)
	aprime := v.Handle(1)
	assert.Equal(t, aprime, m.Replace(a, swap))
	assert.Equal(t, a, m.Replace(aprime, swap))
}
