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

// Package fsa provides a small finite-state automaton over string labels.
//
// States are small integer indices into a flat transition table.  The
// automaton is nondeterministic in general; Determinize returns an
// equivalent deterministic automaton via subset construction.  The empty
// label Epsilon marks an epsilon transition.
package fsa

import (
	"fmt"
	"sort"
	"strings"
)

// Epsilon is the label of an epsilon transition.
const Epsilon = ""

// Reject is the sentinel returned by NextState when no transition exists.
// Rejection is a normal outcome, not an error.
const Reject = -1

// FSA is a finite-state automaton.  The zero value is not useful; use New.
type FSA struct {
	transitions []map[string][]int
	start       int
	finals      map[int]bool
}

// New creates an automaton with a single state (0), which is the start
// state.
func New() *FSA {
	return &FSA{
		transitions: []map[string][]int{{}},
		finals:      map[int]bool{},
	}
}

// NewState adds a state and returns its index.
func (m *FSA) NewState() int {
	m.transitions = append(m.transitions, map[string][]int{})
	return len(m.transitions) - 1
}

// Len reports the number of states.
func (m *FSA) Len() int {
	return len(m.transitions)
}

// Start returns the start state.
func (m *FSA) Start() int {
	return m.start
}

// SetStart designates the start state.
func (m *FSA) SetStart(state int) {
	m.start = state
}

// AddFinal marks a state as accepting.
func (m *FSA) AddFinal(state int) {
	m.finals[state] = true
}

// SetFinal replaces the set of accepting states.
func (m *FSA) SetFinal(states ...int) {
	m.finals = map[int]bool{}
	for _, state := range states {
		m.finals[state] = true
	}
}

// IsFinal reports whether a state is accepting.
func (m *FSA) IsFinal(state int) bool {
	return m.finals[state]
}

// Finals returns the accepting states in increasing order.
func (m *FSA) Finals() []int {
	acc := make([]int, 0, len(m.finals))
	for state := range m.finals {
		acc = append(acc, state)
	}
	sort.Ints(acc)
	return acc
}

// Insert adds a transition.  Both states must already exist.
func (m *FSA) Insert(from int, label string, to int) error {
	if from < 0 || len(m.transitions) <= from {
		return fmt.Errorf("state %d does not exist", from)
	}
	if to < 0 || len(m.transitions) <= to {
		return fmt.Errorf("state %d does not exist", to)
	}
	targets := m.transitions[from][label]
	for _, target := range targets {
		if target == to {
			return nil
		}
	}
	m.transitions[from][label] = append(targets, to)
	return nil
}

// Labels returns the (sorted) labels of transitions leaving a state,
// excluding epsilon.
func (m *FSA) Labels(state int) []string {
	if state < 0 || len(m.transitions) <= state {
		return nil
	}
	acc := make([]string, 0, len(m.transitions[state]))
	for label := range m.transitions[state] {
		if label == Epsilon {
			continue
		}
		acc = append(acc, label)
	}
	sort.Strings(acc)
	return acc
}

// Targets returns the states reached from a state via an exact label hit.
// No epsilon closure is applied.
func (m *FSA) Targets(state int, label string) []int {
	if state < 0 || len(m.transitions) <= state {
		return nil
	}
	return m.transitions[state][label]
}

// Each calls f for every transition.
func (m *FSA) Each(f func(from int, label string, to int)) {
	for from, arrows := range m.transitions {
		labels := make([]string, 0, len(arrows))
		for label := range arrows {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			for _, to := range arrows[label] {
				f(from, label, to)
			}
		}
	}
}

// EClosure returns the epsilon closure of a set of states (sorted).
func (m *FSA) EClosure(states []int) []int {
	seen := map[int]bool{}
	stack := append([]int{}, states...)
	for _, state := range states {
		seen[state] = true
	}
	for 0 < len(stack) {
		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, target := range m.Targets(state, Epsilon) {
			if !seen[target] {
				seen[target] = true
				stack = append(stack, target)
			}
		}
	}
	acc := make([]int, 0, len(seen))
	for state := range seen {
		acc = append(acc, state)
	}
	sort.Ints(acc)
	return acc
}

// Move returns the epsilon closure of the states reached from a set of
// states via an exact label hit.
func (m *FSA) Move(states []int, label string) []int {
	var acc []int
	seen := map[int]bool{}
	for _, state := range states {
		for _, target := range m.Targets(state, label) {
			if !seen[target] {
				seen[target] = true
				acc = append(acc, target)
			}
		}
	}
	return m.EClosure(acc)
}

// Deterministic reports whether every label leads from a state to at most
// one target and no epsilon transitions exist.
func (m *FSA) Deterministic() bool {
	for _, arrows := range m.transitions {
		for label, targets := range arrows {
			if label == Epsilon || 1 < len(targets) {
				return false
			}
		}
	}
	return true
}

// NextState returns the single state reached from a state via an exact
// label hit, or Reject.  The automaton must be deterministic for the
// answer to mean much.
func (m *FSA) NextState(state int, label string) int {
	targets := m.Targets(state, label)
	if len(targets) == 0 {
		return Reject
	}
	return targets[0]
}

// key renders a state set as a map key for subset construction.
func key(states []int) string {
	parts := make([]string, len(states))
	for i, state := range states {
		parts[i] = fmt.Sprintf("%d", state)
	}
	return strings.Join(parts, ",")
}

// Determinize returns a deterministic automaton accepting the same label
// sequences, via subset construction.
func (m *FSA) Determinize() *FSA {
	dfa := New()
	initial := m.EClosure([]int{m.start})
	names := map[string]int{key(initial): dfa.Start()}
	if m.anyFinal(initial) {
		dfa.AddFinal(dfa.Start())
	}
	pending := [][]int{initial}
	sets := map[int][]int{dfa.Start(): initial}

	for 0 < len(pending) {
		set := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		from := names[key(set)]

		labels := map[string]bool{}
		for _, state := range set {
			for _, label := range m.Labels(state) {
				labels[label] = true
			}
		}
		for label := range labels {
			next := m.Move(set, label)
			if len(next) == 0 {
				continue
			}
			to, have := names[key(next)]
			if !have {
				to = dfa.NewState()
				names[key(next)] = to
				sets[to] = next
				if m.anyFinal(next) {
					dfa.AddFinal(to)
				}
				pending = append(pending, next)
			}
			dfa.Insert(from, label, to)
		}
	}
	return dfa
}

func (m *FSA) anyFinal(states []int) bool {
	for _, state := range states {
		if m.finals[state] {
			return true
		}
	}
	return false
}

// Prune returns an equivalent automaton without states that are off every
// start-to-final path.  States are renumbered.
func (m *FSA) Prune() *FSA {
	forward := map[int]bool{m.start: true}
	m.walk(m.start, forward, m.successors)

	backward := map[int]bool{}
	for state := range m.finals {
		if !backward[state] {
			backward[state] = true
			m.walk(state, backward, m.predecessors)
		}
	}

	keep := []int{}
	for state := range forward {
		if backward[state] {
			keep = append(keep, state)
		}
	}
	sort.Ints(keep)

	out := New()
	renum := map[int]int{}
	for i, state := range keep {
		to := out.Start()
		if 0 < i {
			to = out.NewState()
		}
		renum[state] = to
	}
	if _, have := renum[m.start]; !have {
		// Nothing survives; return an empty automaton.
		return out
	}
	out.SetStart(renum[m.start])
	for _, state := range keep {
		if m.finals[state] {
			out.AddFinal(renum[state])
		}
		for label, targets := range m.transitions[state] {
			for _, target := range targets {
				if to, have := renum[target]; have {
					out.Insert(renum[state], label, to)
				}
			}
		}
	}
	return out
}

func (m *FSA) walk(state int, seen map[int]bool, step func(int) []int) {
	for _, next := range step(state) {
		if !seen[next] {
			seen[next] = true
			m.walk(next, seen, step)
		}
	}
}

func (m *FSA) successors(state int) []int {
	var acc []int
	for _, targets := range m.transitions[state] {
		acc = append(acc, targets...)
	}
	return acc
}

func (m *FSA) predecessors(state int) []int {
	var acc []int
	for from, arrows := range m.transitions {
		for _, targets := range arrows {
			for _, target := range targets {
				if target == state {
					acc = append(acc, from)
				}
			}
		}
	}
	return acc
}

// String renders the automaton, one transition per line.
func (m *FSA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "start %d finals %v\n", m.start, m.Finals())
	m.Each(func(from int, label string, to int) {
		if label == Epsilon {
			label = "ε"
		}
		fmt.Fprintf(&b, "%d -%s-> %d\n", from, label, to)
	})
	return b.String()
}
