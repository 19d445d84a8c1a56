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

package tools

import (
	"sort"

	"github.com/twolevel/kimmo/core"

	"gopkg.in/yaml.v2"
)

// RuleAnalysis summarizes one compiled rule.
type RuleAnalysis struct {
	States      int      `yaml:"states"`
	Finals      int      `yaml:"finals"`
	Labels      []string `yaml:"labels,omitempty"`
	Unreachable int      `yaml:"unreachable,omitempty"`
}

// RuleSetAnalysis reports structural facts about a compiled ruleset:
// sizes, alphabets, and things that look like authoring mistakes.
type RuleSetAnalysis struct {
	Errors []string `yaml:"errors,omitempty"`

	Rules    map[string]*RuleAnalysis `yaml:"rules,omitempty"`
	Alphabet []string                 `yaml:"alphabet,omitempty"`

	// OrphanPairs are alphabet pairs no rule can ever match, not
	// even via a catch-all label.
	OrphanPairs []string `yaml:"orphanPairs,omitempty"`

	LexiconStates  int `yaml:"lexiconStates,omitempty"`
	LexiconEntries int `yaml:"lexiconEntries,omitempty"`

	// DanglingLexiconStates are lexicon continuations that name a
	// state with no entries and that is not an end state.
	DanglingLexiconStates []string `yaml:"danglingLexiconStates,omitempty"`
}

// Analyze examines a compiled ruleset.  The returned analysis is
// purely informational; a ruleset with a non-empty Errors list still
// works, it just probably doesn't mean what its author intended.
func Analyze(rs *core.RuleSet) *RuleSetAnalysis {
	a := &RuleSetAnalysis{
		Errors: make([]string, 0, 8),
		Rules:  map[string]*RuleAnalysis{},
	}

	for _, p := range rs.Alphabet() {
		a.Alphabet = append(a.Alphabet, p.String())
	}
	sort.Strings(a.Alphabet)

	for _, r := range rs.Rules() {
		m := r.FSA()
		ra := &RuleAnalysis{States: m.Len()}
		for state := 0; state < m.Len(); state++ {
			if m.IsFinal(state) && !r.Rejecting(state) {
				ra.Finals++
			}
		}
		for _, p := range r.Pairs() {
			ra.Labels = append(ra.Labels, p.String())
		}
		sort.Strings(ra.Labels)
		pruned := m.Len() - m.Prune().Len()
		// the dead state never survives pruning; don't report it
		for state := 0; 0 < pruned && state < m.Len(); state++ {
			if r.Rejecting(state) {
				pruned--
			}
		}
		ra.Unreachable = pruned
		if ra.Finals == 0 {
			a.Errors = append(a.Errors, "rule "+r.Name()+" has no accepting state")
		}
		a.Rules[r.Name()] = ra
	}

	// The search advances every rule in lock step, so a pair that
	// some rule rejects from every state can never be used.
	for _, p := range rs.Alphabet() {
		orphan := false
		for _, r := range rs.Rules() {
			m := r.FSA()
			usable := false
			for state := 0; state < m.Len(); state++ {
				if r.Rejecting(state) {
					continue
				}
				if r.Advance(state, p, rs.Subsets(), rs.Null()) != core.Reject {
					usable = true
					break
				}
			}
			if !usable {
				orphan = true
				break
			}
		}
		if orphan {
			a.OrphanPairs = append(a.OrphanPairs, p.String())
		}
	}
	sort.Strings(a.OrphanPairs)

	if m := rs.Morphology(); m != nil {
		states := map[string]bool{}
		for _, state := range m.States() {
			states[state] = true
			a.LexiconStates++
			a.LexiconEntries += len(m.Entries(state))
		}
		dangling := map[string]bool{}
		for _, state := range m.States() {
			for _, e := range m.Entries(state) {
				if !states[e.Next] && !m.Recognized(e.Next) && !dangling[e.Next] {
					dangling[e.Next] = true
					a.DanglingLexiconStates = append(a.DanglingLexiconStates, e.Next)
					a.Errors = append(a.Errors, "lexicon state "+e.Next+" has no entries")
				}
			}
		}
		sort.Strings(a.DanglingLexiconStates)
	}

	return a
}

// Marshal renders the analysis as YAML.
func (a *RuleSetAnalysis) Marshal() ([]byte, error) {
	return yaml.Marshal(a)
}
