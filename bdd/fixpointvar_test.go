// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixpointVarConvergence(t *testing.T) {
	m := newTestManager(t, 2)
	f := NewFixpointVar(m.True())
	assert.False(t, f.Reached())
	f.Update(m.True())
	assert.True(t, f.Reached())

	g := NewFixpointVar(m.False())
	g.Update(m.Ithvar(0))
	assert.False(t, g.Reached())
	g.Update(m.Ithvar(0))
	assert.True(t, g.Reached())
}
