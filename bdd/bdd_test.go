// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, varnum int) *Manager {
	t.Helper()
	m, err := New(varnum)
	require.NoError(t, err)
	return m
}

func TestConstants(t *testing.T) {
	m := newTestManager(t, 4)
	assert.Equal(t, m.True(), m.True())
	assert.NotEqual(t, *m.True(), *m.False())
	assert.Equal(t, bddone, m.From(true))
	assert.Equal(t, bddzero, m.From(false))
}

func TestIthvarNot(t *testing.T) {
	m := newTestManager(t, 3)
	x0 := m.Ithvar(0)
	nx0 := m.NIthvar(0)
	assert.Equal(t, nx0, m.Not(x0))
	assert.Equal(t, x0, m.Not(nx0))
	require.False(t, m.Errored())
}

func TestApplyAnd(t *testing.T) {
	m := newTestManager(t, 2)
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	and := m.Apply(x0, x1, OPand)
	assert.Equal(t, m.False(), m.Apply(and, m.Not(x0), OPand))
	assert.Equal(t, and, m.Apply(x1, x0, OPand), "and is commutative")
}

func TestIteIsIf(t *testing.T) {
	m := newTestManager(t, 3)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	ite := m.Ite(x0, x1, x2)
	expect := m.Apply(m.Apply(x0, x1, OPand), m.Apply(m.Not(x0), x2, OPand), OPor)
	assert.Equal(t, expect, ite)
}

func TestExistForallDuality(t *testing.T) {
	m := newTestManager(t, 2)
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	f := m.Apply(x0, x1, OPor)
	cube := m.Makeset([]int{0})
	exist := m.Exist(f, cube)
	forall := m.Forall(f, cube)
	assert.Equal(t, m.True(), exist, "x0 | x1 is satisfiable for either value of x0")
	assert.Equal(t, x1, forall, "forall x0. (x0 | x1) == x1")
}

func TestAndExistIsRelationalProduct(t *testing.T) {
	m := newTestManager(t, 3)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	rel := m.Apply(x0, x1, OPbiimp)
	cube := m.Makeset([]int{0})
	got := m.AndExist(rel, x2, cube)
	want := m.Exist(m.Apply(rel, x2, OPand), cube)
	assert.Equal(t, want, got)
}

func TestSatcount(t *testing.T) {
	m := newTestManager(t, 3)
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	f := m.Apply(x0, x1, OPor)
	count := m.Satcount(f)
	assert.Equal(t, int64(6), count.Int64(), "x0|x1 has 3 models over 2 vars, times 2 for the unused x2")
}

func TestAllsatCoversEverySatisfyingPoint(t *testing.T) {
	m := newTestManager(t, 2)
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	f := m.Apply(x0, x1, OPand)
	seen := 0
	m.Allsat(f, func(assignment []int8) bool {
		seen++
		assert.Equal(t, int8(1), assignment[0])
		assert.Equal(t, int8(1), assignment[1])
		return true
	})
	assert.Equal(t, 1, seen)
}

func TestMakesetScanset(t *testing.T) {
	m := newTestManager(t, 4)
	cube := m.Makeset([]int{0, 2, 3})
	assert.ElementsMatch(t, []int{0, 2, 3}, m.Scanset(cube))
}

func TestRestrict(t *testing.T) {
	m := newTestManager(t, 2)
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	f := m.Apply(x0, x1, OPand)
	restricted := m.Restrict(f, x0)
	assert.Equal(t, x1, restricted, "fixing x0=1 leaves x1")
}

func TestMinimizeUsingCareset(t *testing.T) {
	m := newTestManager(t, 2)
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	f := m.Apply(x0, x1, OPor)
	care := x0
	got := m.MinimizeUsingCareset(f, care)
	assert.Equal(t, m.True(), got, "on the x0=1 subspace, x0|x1 is always true")
}

func TestReplace(t *testing.T) {
	m := newTestManager(t, 2)
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	r, err := m.NewReplacer([][2]int{{0, 1}, {1, 0}})
	require.NoError(t, err)
	assert.Equal(t, x0, m.Replace(x1, r))
	assert.Equal(t, x1, m.Replace(x0, r))
}

func TestSwap(t *testing.T) {
	m := newTestManager(t, 4)
	r, err := m.NewSwap([]int{0, 1}, []int{2, 3})
	require.NoError(t, err)
	x0 := m.Ithvar(0)
	assert.Equal(t, m.Ithvar(2), m.Replace(x0, r))
}

func TestGcReclaimsUnreferencedNodes(t *testing.T) {
	m := newTestManager(t, 8)
	for i := 0; i < 200; i++ {
		_ = m.Apply(m.Ithvar(i%8), m.Ithvar((i+1)%8), OPxor)
	}
	m.gbc()
	stats := m.Stats()
	assert.GreaterOrEqual(t, stats.NodesFree, 0)
}

func TestErroredNodeOutOfRange(t *testing.T) {
	m := newTestManager(t, 2)
	bogus := new(int)
	*bogus = 9999
	assert.Nil(t, m.Not(bogus))
	assert.True(t, m.Errored())
}
