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
	"unicode/utf8"
)

var (
	// MorphologyStart is the lexicon's initial state name.
	MorphologyStart = "Begin"

	// MorphologyEnd is the state name (case-insensitive) marking a
	// recognized word boundary.
	MorphologyEnd = "End"
)

// LexEntry is one continuation in the lexicon: a morpheme, the state it
// leads to, and an optional feature tag emitted when it is taken.
type LexEntry struct {
	Morpheme string `json:"morpheme" yaml:"morpheme"`
	Next     string `json:"next" yaml:"next"`
	Feature  string `json:"feature,omitempty" yaml:",omitempty"`
}

// MorphArc is a lexicon transition reachable after consuming some word
// prefix: a new state and the feature (possibly empty) for the
// morpheme that was consumed.
type MorphArc struct {
	State   string
	Feature string
}

// Morphology is the lexicon automaton.  It guides recognition: at each
// position it can say which lexical characters could legally extend
// the word so far, and which states a completed morpheme leads to.  A
// Morphology is queried, never mutated, during search.
type Morphology struct {
	start   string
	entries map[string][]LexEntry
}

// NewMorphology builds a lexicon automaton from per-state entries.
// The start state defaults to MorphologyStart.
func NewMorphology(start string, entries map[string][]LexEntry) *Morphology {
	if start == "" {
		start = MorphologyStart
	}
	return &Morphology{start: start, entries: entries}
}

// Start returns the initial lexicon state.
func (m *Morphology) Start() string {
	return m.start
}

// Recognized reports whether a state marks a completed word.
func (m *Morphology) Recognized(state string) bool {
	return strings.EqualFold(state, MorphologyEnd)
}

// NextStates returns the arcs reachable from state by treating the
// accumulated word prefix as a completed morpheme.  The result is
// derived fresh on every call.
func (m *Morphology) NextStates(state, word string) []MorphArc {
	var acc []MorphArc
	for _, e := range m.entries[state] {
		if e.Morpheme == word {
			acc = append(acc, MorphArc{State: e.Next, Feature: e.Feature})
		}
	}
	return acc
}

// ValidLexical returns the lexical characters that could extend the
// accumulated word prefix from state.  The engine uses this to prune
// candidate pairs before consulting the rules.
func (m *Morphology) ValidLexical(state, word string) map[string]bool {
	acc := map[string]bool{}
	for _, e := range m.entries[state] {
		if strings.HasPrefix(e.Morpheme, word) && len(word) < len(e.Morpheme) {
			r, _ := utf8.DecodeRuneInString(e.Morpheme[len(word):])
			acc[string(r)] = true
		}
	}
	return acc
}

// States returns the lexicon's state names, sorted.
func (m *Morphology) States() []string {
	acc := make([]string, 0, len(m.entries))
	for state := range m.entries {
		acc = append(acc, state)
	}
	sort.Strings(acc)
	return acc
}

// Entries returns the entries for one state.
func (m *Morphology) Entries(state string) []LexEntry {
	return m.entries[state]
}

// ParseLexicon parses a lexicon section mapping each state name to
// entry lines of the form "morpheme next-state [feature]".  A morpheme
// equal to the null symbol denotes the empty morpheme.  A cycle of
// empty morphemes is an error.
func ParseLexicon(section map[string][]string, null string) (*Morphology, error) {
	entries := map[string][]LexEntry{}
	empty := map[string][]emptyArc{}
	for state, lines := range section {
		for _, line := range lines {
			fields := strings.Fields(line)
			if len(fields) < 2 || 3 < len(fields) {
				return nil, &BadLexicon{State: state, Entry: line}
			}
			e := LexEntry{Morpheme: fields[0], Next: fields[1]}
			if e.Morpheme == null {
				e.Morpheme = ""
			}
			if len(fields) == 3 {
				e.Feature = fields[2]
			}
			entries[state] = append(entries[state], e)
			if e.Morpheme == "" {
				empty[state] = append(empty[state], emptyArc{next: e.Next, line: line})
			}
		}
	}
	if state, line, cyclic := emptyCycle(empty); cyclic {
		return nil, &BadLexicon{State: state, Entry: line}
	}
	return NewMorphology(MorphologyStart, entries), nil
}

type emptyArc struct {
	next string
	line string
}

// emptyCycle looks for a cycle of empty-morpheme entries.  An empty
// morpheme consumes nothing, so the search would follow such a cycle
// forever.
func emptyCycle(empty map[string][]emptyArc) (string, string, bool) {
	const (
		visiting = 1
		done     = 2
	)
	color := map[string]int{}

	var badState, badLine string
	var visit func(state string) bool
	visit = func(state string) bool {
		color[state] = visiting
		for _, arc := range empty[state] {
			if color[arc.next] == visiting {
				badState, badLine = state, arc.line
				return true
			}
			if color[arc.next] == 0 && visit(arc.next) {
				return true
			}
		}
		color[state] = done
		return false
	}

	states := make([]string, 0, len(empty))
	for state := range empty {
		states = append(states, state)
	}
	sort.Strings(states)
	for _, state := range states {
		if color[state] == 0 && visit(state) {
			return badState, badLine, true
		}
	}
	return "", "", false
}
