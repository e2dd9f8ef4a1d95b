// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package strategy

import "errors"

// ErrNotRealizable is returned by the system-side extractors when asked to
// extract a strategy from a game whose winning-positions computation found
// the specification unrealizable.
var ErrNotRealizable = errors.New("strategy: specification is not realizable, no system strategy to extract")

// ErrNotUnrealizable is returned by the environment-side extractors when
// asked to extract a counterstrategy from a game whose dual fixpoint found
// the specification realizable (so the environment has no winning move).
var ErrNotUnrealizable = errors.New("strategy: specification is realizable, no counterstrategy to extract")
