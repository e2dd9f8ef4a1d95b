// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/gr1synth/bdd"
	"github.com/dalzilio/gr1synth/varmgr"
)

func newTestGame(t *testing.T) (*bdd.Manager, *varmgr.Manager) {
	t.Helper()
	m, err := bdd.New(4)
	require.NoError(t, err)
	v := varmgr.New(m)
	_, err = v.AddVariable(varmgr.PreInput, "a")
	require.NoError(t, err)
	_, err = v.AddVariable(varmgr.PreOutput, "b")
	require.NoError(t, err)
	require.NoError(t, v.Freeze())
	return m, v
}

func TestNewContextFillsEmptyLiveness(t *testing.T) {
	m, v := newTestGame(t)
	ctx, err := NewContext(v, m.True(), m.True(), m.True(), m.True(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, ctx.LivE, 1)
	assert.Len(t, ctx.LivG, 1)
	assert.Equal(t, m.True(), ctx.LivE[0])
	assert.Equal(t, m.True(), ctx.LivG[0])
}

func TestNewContextRejectsDisallowedVariableUse(t *testing.T) {
	m, v := newTestGame(t)
	b := v.Handle(2) // pre-output bit "b"
	_, err := NewContext(v, b, m.True(), m.True(), m.True(), nil, nil)
	assert.Error(t, err, "initE may only use pre-input variables")
}

func TestNewContextAllowsSafeSOverAllFourClasses(t *testing.T) {
	m, v := newTestGame(t)
	a, b := v.Handle(0), v.Handle(2)
	aprime, bprime := v.Handle(1), v.Handle(3)
	safeS := m.Apply(m.Apply(a, aprime, bdd.OPor), m.Apply(b, bprime, bdd.OPor), bdd.OPand)
	_, err := NewContext(v, m.True(), m.True(), m.True(), safeS, nil, nil)
	assert.NoError(t, err)
}
