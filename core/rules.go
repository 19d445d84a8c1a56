/* Copyright 2019 The Kimmo Authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"sort"
	"strings"

	"github.com/twolevel/kimmo/fsa"
)

// Reject is the rule-state sentinel for a path that no longer has any
// valid continuation.  Rejection is a normal outcome during search.
const Reject = fsa.Reject

// Rule is one phonological constraint: a named finite automaton over
// Pair labels.  A Rule is immutable once constructed.
type Rule struct {
	name string
	fsa  *fsa.FSA

	// labels maps an automaton label back to its parsed Pair.
	labels map[string]Pair

	// reject is the explicit dead state, or fsa.Reject if none.  A
	// transition landing there has no valid continuation, but it must
	// stay in the table so that a specific label can veto a more
	// general one.
	reject int
}

// NewRule wraps an existing automaton whose labels are pair notations.
func NewRule(name string, m *fsa.FSA) (*Rule, error) {
	r := &Rule{
		name:   name,
		fsa:    m,
		labels: map[string]Pair{},
		reject: fsa.Reject,
	}
	var bad error
	m.Each(func(from int, label string, to int) {
		if bad != nil || label == fsa.Epsilon {
			return
		}
		p, err := MakePair(label)
		if err != nil {
			bad = err
			return
		}
		r.labels[label] = p
	})
	if bad != nil {
		return nil, bad
	}
	return r, nil
}

func (r *Rule) Name() string {
	return r.name
}

// FSA returns the rule's automaton.
func (r *Rule) FSA() *fsa.FSA {
	return r.fsa
}

// Pairs returns the pairs mentioned in the rule's transition labels.
func (r *Rule) Pairs() []Pair {
	acc := make([]Pair, 0, len(r.labels))
	for _, p := range r.labels {
		acc = append(acc, p)
	}
	sort.Slice(acc, func(i, j int) bool {
		return acc[i].String() < acc[j].String()
	})
	return acc
}

// Start returns the rule automaton's start state.
func (r *Rule) Start() int {
	return r.fsa.Start()
}

// Rejecting reports whether a state is the rule's explicit dead state.
func (r *Rule) Rejecting(state int) bool {
	return state != Reject && state == r.reject
}

// Final reports whether a rule state accepts the pair sequence so far.
func (r *Rule) Final(state int) bool {
	return state != Reject && state != r.reject && r.fsa.IsFinal(state)
}

// Advance moves the rule automaton one step for a candidate literal
// pair.  The labels leaving the current state are tried most specific
// first, and the first label that includes the candidate decides the
// transition.  Returns Reject when no label matches or the matching
// transition lands in the dead state.
func (r *Rule) Advance(state int, candidate Pair, subsets Subsets, null string) int {
	if state == Reject || state == r.reject {
		return Reject
	}
	labels := r.fsa.Labels(state)
	pairs := make([]Pair, 0, len(labels))
	for _, label := range labels {
		pairs = append(pairs, r.labels[label])
	}
	for _, p := range SortSubsets(pairs, subsets) {
		if !p.Includes(candidate, subsets, null) {
			continue
		}
		next := r.fsa.NextState(state, p.String())
		if next == r.reject {
			return Reject
		}
		return next
	}
	return Reject
}

// RuleTable is the explicit state-table notation for a rule: a start
// state, an optional list of final states (all states are final when
// the list is empty), and per-state transition rows mapping pair
// labels to target state names.  The targets "0" and "reject" mean
// rejection.
type RuleTable struct {
	Start  string                       `json:"start" yaml:"start"`
	Finals []string                     `json:"final,omitempty" yaml:"final,omitempty"`
	States map[string]map[string]string `json:"states" yaml:"states"`
}

func rejectName(name string) bool {
	return name == "0" || strings.EqualFold(name, "reject")
}

// Compile builds a Rule from the table.
func (t *RuleTable) Compile(name string) (*Rule, error) {
	if len(t.States) == 0 {
		return nil, &BadStateTable{"no states"}
	}
	start := t.Start
	if start == "" {
		return nil, &BadStateTable{"no start state"}
	}
	if _, have := t.States[start]; !have {
		return nil, &BadStateTable{`start state "` + start + `" not defined`}
	}

	m := fsa.New()
	states := map[string]int{start: m.Start()}
	stateNames := make([]string, 0, len(t.States))
	for stateName := range t.States {
		stateNames = append(stateNames, stateName)
	}
	sort.Strings(stateNames)
	for _, stateName := range stateNames {
		if rejectName(stateName) {
			return nil, &BadStateTable{`state named "` + stateName + `" collides with the reject convention`}
		}
		if _, have := states[stateName]; !have {
			states[stateName] = m.NewState()
		}
	}

	reject := m.NewState()

	r := &Rule{
		name:   name,
		fsa:    m,
		labels: map[string]Pair{},
		reject: reject,
	}

	for _, stateName := range stateNames {
		from := states[stateName]
		for label, target := range t.States[stateName] {
			p, err := MakePair(label)
			if err != nil {
				return nil, err
			}
			r.labels[p.String()] = p
			to := reject
			if !rejectName(target) {
				var have bool
				if to, have = states[target]; !have {
					return nil, &BadStateTable{`target state "` + target + `" not defined`}
				}
			}
			if err := m.Insert(from, p.String(), to); err != nil {
				return nil, &BadStateTable{err.Error()}
			}
		}
	}

	if len(t.Finals) == 0 {
		for _, state := range states {
			m.AddFinal(state)
		}
	} else {
		for _, stateName := range t.Finals {
			state, have := states[stateName]
			if !have {
				return nil, &BadStateTable{`final state "` + stateName + `" not defined`}
			}
			m.AddFinal(state)
		}
	}

	return r, nil
}

// ParseTable parses the textual FSA-table notation:
//
//	FSA
//	a b +  @
//	a b 0  @
//	1: 2 1 1 1
//	2. 1 0 2 1
//
// The first two rows give the lexical and surface sides of the column
// labels.  Each remaining row names a state ("1:" final, "1."
// nonfinal) followed by one target per column; target 0 rejects.  The
// first state row is the start state.
func ParseTable(name, text string) (*Rule, error) {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "FSA") {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	if len(rows) < 3 {
		return nil, &BadStateTable{"table needs two header rows and at least one state row"}
	}
	ins, outs := rows[0], rows[1]
	if len(ins) != len(outs) {
		return nil, &BadStateTable{"header rows differ in length"}
	}

	columns := make([]Pair, len(ins))
	for i := range ins {
		columns[i] = Pair{ins[i], outs[i]}
	}

	table := &RuleTable{States: map[string]map[string]string{}}
	for i, row := range rows[2:] {
		if len(row) != len(columns)+1 {
			return nil, &BadStateTable{"state row of wrong size: " + strings.Join(row, " ")}
		}
		stateName := row[0]
		final := true
		switch {
		case strings.HasSuffix(stateName, ":"):
			stateName = stateName[:len(stateName)-1]
		case strings.HasSuffix(stateName, "."):
			stateName = stateName[:len(stateName)-1]
			final = false
		}
		if stateName == "" {
			return nil, &BadStateTable{"empty state name"}
		}
		if i == 0 {
			table.Start = stateName
		}
		if final {
			table.Finals = append(table.Finals, stateName)
		}
		row := row[1:]
		arrows := map[string]string{}
		for col, target := range row {
			arrows[columns[col].String()] = target
		}
		table.States[stateName] = arrows
	}
	// At least one state row carried the "." marker iff Finals is
	// shorter than States; an all-final table may leave Finals empty.
	if len(table.Finals) == len(table.States) {
		table.Finals = nil
	}
	return table.Compile(name)
}
