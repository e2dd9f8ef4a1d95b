// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package strategy

import (
	"fmt"

	"github.com/dalzilio/gr1synth/bdd"
	"github.com/dalzilio/gr1synth/fixpoint"
	"github.com/dalzilio/gr1synth/game"
	"github.com/dalzilio/gr1synth/varmgr"
)

// SymbolicStrategyBits names the extra bits a game's variable manager must
// reserve up front for symbolic strategy encoding. Unlike the original,
// where these bits are declared lazily right before the dump (the BDD
// manager there grows its variable count on demand), our bdd.Manager fixes
// its variable count at construction (bdd.New), so the caller must include
// these bits among the ones passed in. GoalCounterBits is a binary counter
// (b0 = LSB) wide enough to index every system-liveness goal; StratType
// selects "still pursuing the current goal" (0) from "switching to the
// next one" (1). Grounded on extensionExtractSymbolicStrategy.hpp's
// counterVarNumbers/goalTransitionSelectorVar allocation.
type SymbolicStrategyBits struct {
	GoalCounterBits []int
	StratType       int
}

// ExtractSymbolic folds the per-goal positional strategies of an already
// computed winning-positions result into one combined BDD, selected by the
// goal counter and gated by strat_type. Grounded on
// extensionExtractSymbolicStrategy.hpp's computeAndPrintSymbolicStrategy.
func ExtractSymbolic(ctx *game.Context, result *fixpoint.Result, bits SymbolicStrategyBits) (bdd.Node, error) {
	if !result.Realizable {
		return nil, ErrNotRealizable
	}
	m := ctx.Vars.BddManager()
	m.FreezeReordering()
	defer m.UnfreezeReordering()

	postOutputCube, err := ctx.Vars.Cube(varmgr.PostOutput)
	if err != nil {
		return nil, err
	}

	for k, entry := range result.Log {
		if entry.Goal < 0 || entry.Goal >= len(ctx.LivG) || (k > 0 && entry.Goal < result.Log[k-1].Goal) {
			return nil, fmt.Errorf("strategy: preferred-transition log entry %d (goal %d) is out of goal order", k, entry.Goal)
		}
	}

	positional, err := positionalStrategiesPerGoal(m, ctx, result.Log, len(ctx.LivG), postOutputCube)
	if err != nil {
		return nil, err
	}

	combined := m.False()
	for i, goal := range ctx.LivG {
		encoding := m.True()
		for j, bit := range bits.GoalCounterBits {
			if i&(1<<uint(j)) != 0 {
				encoding = m.Apply(encoding, m.Ithvar(bit), bdd.OPand)
			} else {
				encoding = m.Apply(encoding, m.NIthvar(bit), bdd.OPand)
			}
		}
		gated := m.Apply(m.NIthvar(bits.StratType), goal, bdd.OPor)
		thisGoal := m.Apply(m.Apply(encoding, positional[i], bdd.OPand), gated, bdd.OPand)
		combined = m.Apply(combined, thisGoal, bdd.OPor)
	}
	return combined, nil
}
