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
	"errors"
	"sort"
	"strings"
)

// Stop can be returned by a yield callback to end a search early.
// DoGenerate and DoRecognize treat it as a clean termination.
var Stop = errors.New("stop")

// RuleSet is a compiled two-level ruleset: the ordered rules, the
// subsets, the default pair alphabet, the null and boundary symbols,
// and an optional lexicon.  A RuleSet is read-only after construction;
// all search state lives in the recursion of a single generate or
// recognize call, so concurrent searches are safe.
type RuleSet struct {
	subsets    Subsets
	rules      []*Rule
	alphabet   []Pair
	null       string
	boundary   string
	morphology *Morphology
}

// NewRuleSet builds a RuleSet with the default null ("0") and boundary
// ("#") symbols.  The pair alphabet is the defaults plus every fully
// literal pair mentioned by a rule.  Rule order matters only for
// tracing.
func NewRuleSet(subsets Subsets, defaults []Pair, rules []*Rule, morphology *Morphology) (*RuleSet, error) {
	return NewRuleSetSymbols(subsets, defaults, rules, morphology, DefaultNull, DefaultBoundary)
}

// NewRuleSetSymbols is NewRuleSet with explicit null and boundary
// symbols.
func NewRuleSetSymbols(subsets Subsets, defaults []Pair, rules []*Rule, morphology *Morphology, null, boundary string) (*RuleSet, error) {
	rs := &RuleSet{
		subsets:    subsets,
		rules:      rules,
		null:       null,
		boundary:   boundary,
		morphology: morphology,
	}

	seen := map[string]bool{}
	add := func(p Pair) {
		if !seen[p.String()] {
			seen[p.String()] = true
			rs.alphabet = append(rs.alphabet, p)
		}
	}

	for _, p := range defaults {
		if subsets.IsSubset(p.In) || subsets.IsSubset(p.Out) {
			return nil, &BadDefault{p}
		}
		add(p)
	}
	for _, rule := range rules {
		for _, p := range rule.Pairs() {
			if subsets.IsSubset(p.In) || subsets.IsSubset(p.Out) {
				continue
			}
			if p.In == Elsewhere || p.Out == Elsewhere {
				continue
			}
			add(p)
		}
	}
	sort.Slice(rs.alphabet, func(i, j int) bool {
		return rs.alphabet[i].String() < rs.alphabet[j].String()
	})

	return rs, nil
}

func (rs *RuleSet) Rules() []*Rule          { return rs.rules }
func (rs *RuleSet) Subsets() Subsets        { return rs.subsets }
func (rs *RuleSet) Null() string            { return rs.null }
func (rs *RuleSet) Boundary() string        { return rs.boundary }
func (rs *RuleSet) Morphology() *Morphology { return rs.morphology }

// Alphabet returns the default pair alphabet (sorted).
func (rs *RuleSet) Alphabet() []Pair {
	return append([]Pair{}, rs.alphabet...)
}

// pairtext is the string a symbol contributes to a lexical or surface
// string; the null symbol contributes nothing.
func (rs *RuleSet) pairtext(symbol string) string {
	if symbol == rs.null {
		return ""
	}
	return symbol
}

func (rs *RuleSet) startStates() []int {
	acc := make([]int, len(rs.rules))
	for i, rule := range rs.rules {
		acc[i] = rule.Start()
	}
	return acc
}

func (rs *RuleSet) allFinal(states []int) bool {
	for i, rule := range rs.rules {
		if !rule.Final(states[i]) {
			return false
		}
	}
	return true
}

func (rs *RuleSet) sideText(pairs []Pair, out bool) string {
	var b strings.Builder
	for _, p := range pairs {
		symbol := p.In
		if out {
			symbol = p.Out
		}
		text := rs.pairtext(symbol)
		if text == rs.boundary {
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

type searchCall struct {
	tracer Tracer
	yield  func(pairs []Pair, features string) error
}

// search is the lock-step depth-first search.  Each recursive call
// represents one committed Pair.  lexical and surface are the
// remaining unconsumed strings; a nil pointer means that side is
// unconstrained.  It reports whether anything was yielded.
func (rs *RuleSet) search(pairs []Pair, states []int, mstate, word string, lexical, surface *string, features string, call *searchCall) (bool, error) {

	yielded := false

	if mstate != "" {
		// Try to consume the accumulated word as a completed
		// morpheme first.
		morphed := false
		for _, arc := range rs.morphology.NextStates(mstate, word) {
			feats := features + arc.Feature
			sub, err := rs.search(pairs, states, arc.State, "", lexical, surface, feats, call)
			if sub {
				morphed = true
				yielded = true
			}
			if err != nil {
				return yielded, err
			}
		}
		if morphed {
			return yielded, nil
		}
	}

	var lexicalChars map[string]bool
	if mstate != "" {
		lexicalChars = rs.morphology.ValidLexical(mstate, word)
		lexicalChars[rs.null] = true
	}

	if (lexical != nil && *lexical == "") || (surface != nil && *surface == "") {
		if mstate == "" || rs.morphology.Recognized(mstate) {
			if !rs.allFinal(states) {
				return yielded, nil
			}
			call.tracer.Succeed(pairs)
			if err := call.yield(pairs, features); err != nil {
				return true, err
			}
			return true, nil
		}
	}

	for _, p := range rs.alphabet {
		if p.In == rs.null && p.Out == rs.null {
			continue
		}
		if lexical != nil && !strings.HasPrefix(*lexical, rs.pairtext(p.In)) {
			continue
		}
		if surface != nil && !strings.HasPrefix(*surface, rs.pairtext(p.Out)) {
			continue
		}
		// Cheap filter first: the lexicon knows which lexical
		// characters could continue the word.
		if lexicalChars != nil && !lexicalChars[p.In] {
			continue
		}
		// Without a lexicon nothing bounds a run of surface-null
		// pairs during recognition, so skip them.
		if lexical == nil && mstate == "" && rs.pairtext(p.Out) == "" {
			continue
		}

		next := make([]int, len(rs.rules))
		for i, rule := range rs.rules {
			next[i] = rule.Advance(states[i], p, rs.subsets, rs.null)
		}

		newWord := word + rs.pairtext(p.In)
		call.tracer.Step(pairs, p, rs.rules, states, next, mstate, newWord)

		rejected := false
		for _, state := range next {
			if state == Reject {
				rejected = true
				break
			}
		}
		if rejected {
			continue
		}

		newLex, newSurf := lexical, surface
		if lexical != nil && *lexical != "" {
			rest := (*lexical)[len(rs.pairtext(p.In)):]
			newLex = &rest
		}
		if surface != nil && *surface != "" {
			rest := (*surface)[len(rs.pairtext(p.Out)):]
			newSurf = &rest
		}

		committed := append(append([]Pair{}, pairs...), p)
		sub, err := rs.search(committed, next, mstate, newWord, newLex, newSurf, features, call)
		if sub {
			yielded = true
		}
		if err != nil {
			return yielded, err
		}
	}

	return yielded, nil
}

// DoGenerate enumerates the surface strings for a lexical string,
// calling yield for each in discovery order.  Ambiguous inputs yield
// several results; an input with no valid path yields none.  yield may
// return Stop (or any error) to end the search.
func (rs *RuleSet) DoGenerate(lexical string, tracer Tracer, yield func(surface string) error) error {
	if tracer == nil {
		tracer = NopTracer{}
	}
	if !strings.HasSuffix(lexical, rs.boundary) {
		lexical += rs.boundary
	}
	call := &searchCall{
		tracer: tracer,
		yield: func(pairs []Pair, features string) error {
			return yield(rs.sideText(pairs, true))
		},
	}
	_, err := rs.search(nil, rs.startStates(), "", "", &lexical, nil, "", call)
	if err == Stop {
		err = nil
	}
	return err
}

// Analysis is one recognition result: the recovered lexical string and
// the concatenated feature tags along its lexicon path.
type Analysis struct {
	Lexical  string `json:"lexical"`
	Features string `json:"features,omitempty"`
}

// DoRecognize enumerates the analyses of a surface string, calling
// yield for each in discovery order.  Duplicate lexical strings with
// distinct feature paths are distinct results.  yield may return Stop
// (or any error) to end the search.
func (rs *RuleSet) DoRecognize(surface string, tracer Tracer, yield func(a Analysis) error) error {
	if tracer == nil {
		tracer = NopTracer{}
	}
	if !strings.HasSuffix(surface, rs.boundary) {
		surface += rs.boundary
	}
	mstate := ""
	if rs.morphology != nil {
		mstate = rs.morphology.Start()
	}
	call := &searchCall{
		tracer: tracer,
		yield: func(pairs []Pair, features string) error {
			return yield(Analysis{Lexical: rs.sideText(pairs, false), Features: features})
		},
	}
	_, err := rs.search(nil, rs.startStates(), mstate, "", nil, &surface, "", call)
	if err == Stop {
		err = nil
	}
	return err
}

// Generate collects every DoGenerate result.
func (rs *RuleSet) Generate(lexical string, tracer Tracer) []string {
	var acc []string
	rs.DoGenerate(lexical, tracer, func(surface string) error {
		acc = append(acc, surface)
		return nil
	})
	return acc
}

// Recognize collects every DoRecognize result.
func (rs *RuleSet) Recognize(surface string, tracer Tracer) []Analysis {
	var acc []Analysis
	rs.DoRecognize(surface, tracer, func(a Analysis) error {
		acc = append(acc, a)
		return nil
	})
	return acc
}
