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
	"fmt"
	"io"
	"strings"
)

// Tracer receives a snapshot of every search step and every success.
// The engine works with any implementation; tracing has no effect on
// the search itself.
type Tracer interface {
	// Step reports one attempted pair: the pairs committed so far,
	// the candidate, the rules with their states before and after,
	// the morphology state (empty when morphology is inactive), and
	// the accumulated word prefix.
	Step(pairs []Pair, current Pair, rules []*Rule, prev, next []int, morphState, word string)

	// Succeed reports a completed pair sequence.
	Succeed(pairs []Pair)
}

// NopTracer ignores everything.
type NopTracer struct{}

func (NopTracer) Step([]Pair, Pair, []*Rule, []int, []int, string, string) {}
func (NopTracer) Succeed([]Pair)                                           {}

// TextTracer writes a human-readable trace.  Higher verbosity prints
// more per step.
type TextTracer struct {
	Writer    io.Writer
	Verbosity int

	null string
}

// NewTextTracer makes a TextTracer for the given ruleset's null
// symbol.
func NewTextTracer(w io.Writer, verbosity int, rs *RuleSet) *TextTracer {
	return &TextTracer{Writer: w, Verbosity: verbosity, null: rs.Null()}
}

func (t *TextTracer) text(symbol string) string {
	if symbol == t.null {
		return ""
	}
	return symbol
}

func (t *TextTracer) sides(pairs []Pair) (string, string) {
	var lex, surf strings.Builder
	for _, p := range pairs {
		lex.WriteString(t.text(p.In))
		surf.WriteString(t.text(p.Out))
	}
	return lex.String(), surf.String()
}

func stateName(state int) string {
	if state == Reject {
		return "reject"
	}
	return fmt.Sprintf("%d", state)
}

func blockedBy(rules []*Rule, states []int) []string {
	var acc []string
	for i, rule := range rules {
		if states[i] == Reject {
			acc = append(acc, rule.Name())
		}
	}
	return acc
}

func (t *TextTracer) Step(pairs []Pair, current Pair, rules []*Rule, prev, next []int, morphState, word string) {
	lex, surf := t.sides(pairs)
	indent := strings.Repeat(" ", len(lex))

	if 2 < t.Verbosity {
		fmt.Fprintf(t.Writer, "%s%s<%s>\n", indent, lex, current.In)
		fmt.Fprintf(t.Writer, "%s%s<%s>\n", indent, surf, current.Out)
		for i, rule := range rules {
			fmt.Fprintf(t.Writer, "%s%s: %s => %s\n", indent, rule.Name(),
				stateName(prev[i]), stateName(next[i]))
		}
		if morphState != "" {
			fmt.Fprintf(t.Writer, "%sMorphology: %q => %s\n", indent, word, morphState)
		}
		fmt.Fprintln(t.Writer)
		return
	}

	fmt.Fprintf(t.Writer, "%s%s<%s> | %s<%s>", indent, lex, current.In, surf, current.Out)
	if morphState != "" {
		fmt.Fprintf(t.Writer, "\t%q => %s", word, morphState)
	}
	if blocked := blockedBy(rules, next); 0 < len(blocked) {
		fmt.Fprintf(t.Writer, " [blocked by %s]", strings.Join(blocked, ", "))
	}
	fmt.Fprintln(t.Writer)
}

func (t *TextTracer) Succeed(pairs []Pair) {
	lex, surf := t.sides(pairs)
	indent := strings.Repeat(" ", len(lex))
	fmt.Fprintf(t.Writer, "%s%s\n", indent, lex)
	fmt.Fprintf(t.Writer, "%s%s\n", indent, surf)
	fmt.Fprintf(t.Writer, "%sSUCCESS: %s <=> %s\n\n", indent, lex, surf)
}
