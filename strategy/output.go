// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package strategy

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dalzilio/gr1synth/bdd"
)

// WriteExplicitText writes s in the JTLV-compatible textual format used by
// the original's non-JSON explicit-strategy dump: one line per state giving
// its rank and variable valuation, followed by its successor state numbers.
// Grounded on extensionExtractExplicitStrategy.hpp's text branch.
func WriteExplicitText(w io.Writer, s *ExplicitStrategy) error {
	for _, st := range s.States {
		fmt.Fprintf(w, "State %d with rank %d -> <", st.ID, st.Rank)
		for i, name := range s.Variables {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%s:%s", name, boolDigit(st.Values[i]))
		}
		fmt.Fprint(w, ">\n\tWith successors : ")
		for i, succ := range st.Successors {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%d", succ)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// explicitJSONNode and explicitJSON mirror the object shape produced by the
// original's `jsonOutput` branch (contributed there by GitHub user
// "johnyf").
type explicitJSONNode struct {
	Rank  int   `json:"rank"`
	State []int `json:"state"`
	Trans []int `json:"trans"`
}

type explicitJSON struct {
	Version   int                         `json:"version"`
	Slugs     string                      `json:"slugs"`
	Variables []string                    `json:"variables"`
	Nodes     map[string]explicitJSONNode `json:"nodes"`
}

// WriteExplicitJSON writes s in the slugs JSON explicit-strategy format.
func WriteExplicitJSON(w io.Writer, s *ExplicitStrategy) error {
	doc := explicitJSON{
		Version:   0,
		Slugs:     "0.0.1",
		Variables: s.Variables,
		Nodes:     make(map[string]explicitJSONNode, len(s.States)),
	}
	for _, st := range s.States {
		state := make([]int, len(st.Values))
		for i, v := range st.Values {
			state[i] = boolInt(v)
		}
		trans := st.Successors
		if trans == nil {
			trans = []int{}
		}
		doc.Nodes[fmt.Sprint(st.ID)] = explicitJSONNode{Rank: st.Rank, State: state, Trans: trans}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	return enc.Encode(doc)
}

// WriteCounterstrategyText is WriteExplicitText's counterpart for a
// Counterstrategy, printing the (assumption, goal) rank pair and the
// deadlock convention. Grounded on
// extensionExtractExplicitCounterstrategy.hpp's print loop.
func WriteCounterstrategyText(w io.Writer, s *Counterstrategy) error {
	for _, st := range s.States {
		fmt.Fprintf(w, "State %d with rank (%d,%d) -> <", st.ID, st.Assumption, st.Goal)
		for i, name := range s.Variables {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%s:%s", name, boolDigit(st.Values[i]))
		}
		fmt.Fprint(w, ">\n")
		if st.Deadlock {
			fmt.Fprint(w, "\tWith no successors.\n")
			continue
		}
		fmt.Fprint(w, "\tWith successors : ")
		for i, succ := range st.Successors {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%d", succ)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteSymbolicDump writes a combined symbolic strategy BDD to filename in
// the node-table textual dump format of rudd's Set.Print (id, level, low,
// high), preceded by a comment header describing the goal-counter and
// strat_type encoding. Grounded on
// extensionExtractSymbolicStrategy.hpp's fileExtraHeader and the teacher's
// stdio.go traversal. Transient write failures (e.g. a momentarily
// unavailable network mount backing filename) are retried with backoff.
func WriteSymbolicDump(m *bdd.Manager, filename string, strategy bdd.Node, bits SymbolicStrategyBits, numGoals int, variableNames []string) error {
	write := func() error {
		f, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer f.Close()

		w := bufio.NewWriter(f)
		fmt.Fprintln(w, "# This file is a BDD exported by the synthesizer")
		fmt.Fprintln(w, "#")
		fmt.Fprintln(w, "# This BDD is a strategy.")
		fmt.Fprintln(w, "#")
		fmt.Fprintln(w, "# Some special variables are added:")
		fmt.Fprintln(w, "#       - `_jx_b*` are used as a binary vector (b0 is LSB) to indicate")
		fmt.Fprintln(w, "#         the index of the currently-pursued goal.")
		fmt.Fprintln(w, "#       - `strat_type` is a binary variable used to indicate whether we are")
		fmt.Fprintln(w, "#          moving closer to the current goal (0) or transitioning to the next goal (1)")
		fmt.Fprintln(w, "#")
		fmt.Fprintf(w, "# Num goals: %d\n", numGoals)
		fmt.Fprintf(w, "# Goal counter bits: %v\n", bits.GoalCounterBits)
		fmt.Fprintf(w, "# strat_type bit: %d\n", bits.StratType)
		fmt.Fprintln(w, "# Variable names:")
		for i, name := range variableNames {
			fmt.Fprintf(w, "#\t%d: %s\n", i, name)
		}
		fmt.Fprintln(w, "#")

		if *strategy == 0 {
			fmt.Fprintln(w, "False")
			return w.Flush()
		}
		if *strategy == 1 {
			fmt.Fprintln(w, "True")
			return w.Flush()
		}
		werr := m.Allnodes([]bdd.Node{strategy}, func(id, level, low, high int) {
			if id > 1 {
				fmt.Fprintf(w, "%d\t[%d\t] ? \t%d\t : %d\n", id, level, low, high)
			}
		})
		if werr != nil {
			return werr
		}
		return w.Flush()
	}

	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = 5 * time.Second
	return backoff.Retry(write, backoff.WithMaxRetries(expo, 3))
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
