// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package varmgr maps declared variable names onto BDD bits, tags each bit
// with a type drawn from a small pre/post, input/output hierarchy, and
// materializes the cubes and vectors the fixpoint and strategy layers need.
package varmgr

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/dalzilio/gr1synth/bdd"
)

// bitinfo is one entry of the registry: a declared bit's name, type, and its
// BDD handle.
type bitinfo struct {
	name   string
	typ    Type
	handle bdd.Node
}

// Manager is the variable manager: it owns no BDD nodes itself beyond the
// per-variable handles, deferring all graph construction to the bdd.Manager
// it was built over.
type Manager struct {
	m *bdd.Manager

	bits    []bitinfo
	byName  map[string]int
	byType  map[Type]*bitset.BitSet

	frozen bool
}

// New builds an empty variable manager backed by m. The underlying bdd
// manager must not have any variables consumed by another client; varmgr
// owns the whole variable order.
func New(m *bdd.Manager) *Manager {
	return &Manager{
		m:      m,
		byName: make(map[string]int),
		byType: map[Type]*bitset.BitSet{
			PreInput:   bitset.New(0),
			PreOutput:  bitset.New(0),
			PostInput:  bitset.New(0),
			PostOutput: bitset.New(0),
		},
	}
}

// AddVariable declares a fresh pair of bits for a pre-side type (PreInput or
// PreOutput): one bit named name carrying t, and a second bit named name+"'"
// carrying the matching post-side type. It returns the index of the pre bit;
// the post bit's index is always one more.
func (v *Manager) AddVariable(t Type, name string) (int, error) {
	if v.frozen {
		return 0, fmt.Errorf("varmgr: manager is frozen, cannot add variable %q", name)
	}
	if t != PreInput && t != PreOutput {
		return 0, fmt.Errorf("varmgr: add_variable requires a pre-side type, got %s", t)
	}
	if _, ok := v.byName[name]; ok {
		return 0, fmt.Errorf("varmgr: variable %q already declared", name)
	}
	primed := name + "'"
	if _, ok := v.byName[primed]; ok {
		return 0, fmt.Errorf("varmgr: variable %q already declared", primed)
	}

	postType := PostInput
	if t == PreOutput {
		postType = PostOutput
	}

	preIdx := v.declareBit(name, t)
	postIdx := v.declareBit(primed, postType)
	if postIdx != preIdx+1 {
		return 0, fmt.Errorf("varmgr: internal error, post bit for %q not contiguous with pre bit", name)
	}
	return preIdx, nil
}

func (v *Manager) declareBit(name string, t Type) int {
	idx := len(v.bits)
	v.bits = append(v.bits, bitinfo{name: name, typ: t, handle: nil})
	v.byName[name] = idx
	v.byType[t].Set(uint(idx))
	return idx
}

// Freeze allocates the underlying BDD variable for every declared bit, in
// declaration order, and forbids further declarations. It must be called
// before Handle, CheckSupport, PreToPostSwap, or any cube/vector
// materialization is used, mirroring the original compute_variable_information
// pass that ran once every bit was known. FindByName, Name, TypeOf and
// BitsOfType work before Freeze as well.
func (v *Manager) Freeze() error {
	if v.frozen {
		return nil
	}
	if len(v.bits) != v.m.Varnum() {
		return fmt.Errorf("varmgr: declared %d bits but bdd manager has %d variables", len(v.bits), v.m.Varnum())
	}
	for i := range v.bits {
		h := v.m.Ithvar(i)
		if v.m.Errored() {
			return fmt.Errorf("varmgr: %s", v.m.Error())
		}
		v.bits[i].handle = h
	}
	v.frozen = true
	return nil
}

// FindByName returns the bit index for a declared name, or an error if no
// such variable exists.
func (v *Manager) FindByName(name string) (int, error) {
	idx, ok := v.byName[name]
	if !ok {
		return 0, fmt.Errorf("varmgr: unknown variable %q", name)
	}
	return idx, nil
}

// Name returns the declared name of bit index.
func (v *Manager) Name(index int) string {
	return v.bits[index].name
}

// TypeOf returns the concrete type of bit index.
func (v *Manager) TypeOf(index int) Type {
	return v.bits[index].typ
}

// Handle returns the BDD variable (in positive form) for bit index. It
// panics if called before Freeze, matching the original's assertion that
// computeVariableInformation must run first.
func (v *Manager) Handle(index int) bdd.Node {
	if !v.frozen {
		panic("varmgr: Handle called before Freeze")
	}
	return v.bits[index].handle
}

// BitsOfType enumerates every declared bit whose type is ancestor or a
// descendant of it (e.g. BitsOfType(Pre, true) returns every PreInput and
// PreOutput bit). With includeSubtypes false, only bits whose type equals
// ancestor exactly are returned.
func (v *Manager) BitsOfType(ancestor Type, includeSubtypes bool) []int {
	var res []int
	if !includeSubtypes {
		if b, ok := v.byType[ancestor]; ok {
			for i, e := b.NextSet(0); e; i, e = b.NextSet(i + 1) {
				res = append(res, int(i))
			}
		}
		return res
	}
	for _, c := range concreteTypes {
		if !c.Is(ancestor) {
			continue
		}
		b := v.byType[c]
		for i, e := b.NextSet(0); e; i, e = b.NextSet(i + 1) {
			res = append(res, int(i))
		}
	}
	return res
}

// BddManager returns the BDD manager this registry allocates bits over.
func (v *Manager) BddManager() *bdd.Manager {
	return v.m
}

// Len returns the number of declared bits (primed and unprimed counted
// separately), equal to the variable count of the underlying bdd.Manager
// once Freeze has run.
func (v *Manager) Len() int {
	return len(v.bits)
}
