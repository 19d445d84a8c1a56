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

// Compilation of arrow (context rewrite) rules into rule automata.
//
// An arrow rule "x:y OP left _ right" constrains where the pair x:y
// may or must occur.  The compiled automaton tracks two things: a
// subset of left-context states recording whether the left context is
// satisfied at the current position, and a set of pending
// right-context obligations opened by earlier occurrences.  A
// restriction obligation rejects when no continuation of the right
// context remains; a coercion obligation rejects when the right
// context of a competing pair completes.  The transition alphabet is
// the finite set of pairs mentioned by the rule plus the elsewhere
// pair, resolved at traversal time by specificity order.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/twolevel/kimmo/fsa"
)

// Arrow operators.
const (
	ArrowRestrict = "==>" // occurs only in this context
	ArrowCoerce   = "<==" // must occur in this context
	ArrowBoth     = "<=>"
	ArrowNever    = "/<=" // never occurs in this context
)

var arrowAliases = map[string]string{
	"=>":          ArrowRestrict,
	"<=":          ArrowCoerce,
	ArrowRestrict: ArrowRestrict,
	ArrowCoerce:   ArrowCoerce,
	ArrowBoth:     ArrowBoth,
	ArrowNever:    ArrowNever,
}

// tokenization

var arrowTokens = []string{ArrowBoth, ArrowRestrict, ArrowCoerce, ArrowNever, "=>", "<="}

const specials = "()[]*&?_:"

func tokenizeArrow(text string) ([]string, error) {
	var acc []string
	i := 0
	for i < len(text) {
		c := text[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		arrowed := false
		for _, arrow := range arrowTokens {
			if strings.HasPrefix(text[i:], arrow) {
				acc = append(acc, arrow)
				i += len(arrow)
				arrowed = true
				break
			}
		}
		if arrowed {
			continue
		}
		if strings.IndexByte(specials, c) >= 0 {
			acc = append(acc, string(c))
			i++
			continue
		}
		j := i
		for j < len(text) && !strings.ContainsAny(string(text[j]), specials+" \t\n\r") &&
			text[j] != '=' && text[j] != '<' && text[j] != '/' {
			j++
		}
		if j == i {
			return nil, &BadArrowRule{fmt.Sprintf("unexpected character %q", text[i])}
		}
		acc = append(acc, text[i:j])
		i = j
	}
	return acc, nil
}

// context expression trees

type rexpr interface{}

type rePair Pair                 // one pair
type reSeq struct{ a, b rexpr }  // concatenation
type reOr struct{ a, b rexpr }   // alternation
type reStar struct{ x rexpr }    // zero or more
type rePlus struct{ x rexpr }    // one or more
type reOpt struct{ x rexpr }     // zero or one

type arrowParser struct {
	tokens []string
	at     int
}

func (p *arrowParser) peek() string {
	if p.at >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.at]
}

func (p *arrowParser) next() (string, error) {
	t := p.peek()
	if t == "" {
		return "", &BadArrowRule{"ran off end of input"}
	}
	p.at++
	return t, nil
}

func isSpecial(t string) bool {
	if len(t) == 1 && strings.Contains(specials, t) {
		return true
	}
	_, is := arrowAliases[t]
	return is
}

func (p *arrowParser) pair() (Pair, error) {
	t1, err := p.next()
	if err != nil {
		return Pair{}, err
	}
	if isSpecial(t1) {
		return Pair{}, &BadArrowRule{"expected identifier, not " + t1}
	}
	if p.peek() != ":" {
		return Pair{t1, t1}, nil
	}
	p.at++
	t2, err := p.next()
	if err != nil {
		return Pair{}, err
	}
	if isSpecial(t2) {
		return Pair{}, &BadArrowRule{"expected identifier, not " + t2}
	}
	return Pair{t1, t2}, nil
}

// list parses a sequence of singletons.  It returns nil when no
// singleton is present at the current position.
func (p *arrowParser) list(or bool) (rexpr, error) {
	t := p.peek()
	if t == "" || t == ")" || t == "]" || t == "_" || isArrow(t) ||
		t == "*" || t == "&" || t == "?" || t == ":" {
		return nil, nil
	}
	s, err := p.singleton()
	if err != nil {
		return nil, err
	}
	rest, err := p.list(or)
	if err != nil {
		return nil, err
	}
	if rest == nil {
		return s, nil
	}
	if or {
		return reOr{s, rest}, nil
	}
	return reSeq{s, rest}, nil
}

func isArrow(t string) bool {
	_, is := arrowAliases[t]
	return is
}

func (p *arrowParser) singleton() (rexpr, error) {
	t := p.peek()
	var result rexpr
	switch t {
	case "(":
		p.at++
		inner, err := p.list(false)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, &BadArrowRule{"missing contents of (...)"}
		}
		if closing, err := p.next(); err != nil || closing != ")" {
			return nil, &BadArrowRule{"missing final parenthesis"}
		}
		result = inner
	case "[":
		p.at++
		inner, err := p.list(true)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, &BadArrowRule{"missing contents of [...]"}
		}
		if closing, err := p.next(); err != nil || closing != "]" {
			return nil, &BadArrowRule{"missing final bracket"}
		}
		result = inner
	default:
		if isSpecial(t) {
			return nil, &BadArrowRule{"expected identifier, found " + t}
		}
		pr, err := p.pair()
		if err != nil {
			return nil, err
		}
		result = rePair(pr)
	}
	switch p.peek() {
	case "*":
		p.at++
		result = reStar{result}
	case "&":
		p.at++
		result = rePlus{result}
	case "?":
		p.at++
		result = reOpt{result}
	}
	return result, nil
}

// buildNFA translates a context tree into an automaton via Thompson's
// construction, returning the exit state.
func buildNFA(m *fsa.FSA, entry int, tree rexpr) int {
	switch t := tree.(type) {
	case rePair:
		exit := m.NewState()
		m.Insert(entry, Pair(t).String(), exit)
		return exit
	case reSeq:
		mid := buildNFA(m, entry, t.a)
		return buildNFA(m, mid, t.b)
	case reOr:
		e1 := m.NewState()
		e2 := m.NewState()
		x1 := buildNFA(m, e1, t.a)
		x2 := buildNFA(m, e2, t.b)
		exit := m.NewState()
		m.Insert(entry, fsa.Epsilon, e1)
		m.Insert(entry, fsa.Epsilon, e2)
		m.Insert(x1, fsa.Epsilon, exit)
		m.Insert(x2, fsa.Epsilon, exit)
		return exit
	case rePlus:
		exit := buildNFA(m, entry, t.x)
		m.Insert(exit, fsa.Epsilon, entry)
		return exit
	case reOpt:
		e1 := m.NewState()
		x1 := buildNFA(m, e1, t.x)
		exit := m.NewState()
		m.Insert(entry, fsa.Epsilon, e1)
		m.Insert(entry, fsa.Epsilon, exit)
		m.Insert(x1, fsa.Epsilon, exit)
		return exit
	case reStar:
		e1 := m.NewState()
		x1 := buildNFA(m, e1, t.x)
		exit := m.NewState()
		m.Insert(entry, fsa.Epsilon, e1)
		m.Insert(entry, fsa.Epsilon, exit)
		m.Insert(x1, fsa.Epsilon, e1)
		m.Insert(x1, fsa.Epsilon, exit)
		return exit
	}
	return entry
}

func contextNFA(tree rexpr) *fsa.FSA {
	if tree == nil {
		return nil
	}
	m := fsa.New()
	exit := buildNFA(m, m.Start(), tree)
	m.SetFinal(exit)
	return m
}

func collectPairs(tree rexpr, acc map[string]Pair) {
	switch t := tree.(type) {
	case nil:
	case rePair:
		acc[Pair(t).String()] = Pair(t)
	case reSeq:
		collectPairs(t.a, acc)
		collectPairs(t.b, acc)
	case reOr:
		collectPairs(t.a, acc)
		collectPairs(t.b, acc)
	case reStar:
		collectPairs(t.x, acc)
	case rePlus:
		collectPairs(t.x, acc)
	case reOpt:
		collectPairs(t.x, acc)
	}
}

// parsed arrow rule

type arrowRule struct {
	pair  Pair
	arrow string
	left  rexpr
	right rexpr
}

func parseArrow(text string) (*arrowRule, error) {
	tokens, err := tokenizeArrow(text)
	if err != nil {
		return nil, err
	}
	p := &arrowParser{tokens: tokens}

	lh, err := p.pair()
	if err != nil {
		return nil, err
	}
	op, err := p.next()
	if err != nil {
		return nil, err
	}
	arrow, is := arrowAliases[op]
	if !is {
		return nil, &BadArrowRule{"expected arrow, not " + op}
	}
	left, err := p.list(false)
	if err != nil {
		return nil, err
	}
	if slot, err := p.next(); err != nil || slot != "_" {
		return nil, &BadArrowRule{"expected _"}
	}
	right, err := p.list(false)
	if err != nil {
		return nil, err
	}
	if p.at != len(p.tokens) {
		return nil, &BadArrowRule{"unidentified tokens: " + strings.Join(p.tokens[p.at:], " ")}
	}
	return &arrowRule{pair: lh, arrow: arrow, left: left, right: right}, nil
}

// compilation

// moveFiring advances a set of context-automaton states by a candidate
// alphabet label.  A context transition fires when its pair includes
// the label.
func moveFiring(m *fsa.FSA, states []int, label Pair, subsets Subsets, null string) []int {
	var hits []int
	seen := map[int]bool{}
	for _, state := range m.EClosure(states) {
		for _, text := range m.Labels(state) {
			cp, err := MakePair(text)
			if err != nil {
				continue
			}
			if !cp.Includes(label, subsets, null) {
				continue
			}
			for _, target := range m.Targets(state, text) {
				if !seen[target] {
					seen[target] = true
					hits = append(hits, target)
				}
			}
		}
	}
	return m.EClosure(hits)
}

func anyFinal(m *fsa.FSA, states []int) bool {
	for _, state := range states {
		if m.IsFinal(state) {
			return true
		}
	}
	return false
}

func setKey(states []int) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ",")
}

// arrowState is one state of the compiled rule automaton.
type arrowState struct {
	left    []int   // left-context suffix tracker
	must    [][]int // pending restriction obligations
	mustNot [][]int // pending coercion obligations
}

func (s *arrowState) key() string {
	var b strings.Builder
	b.WriteString("L" + setKey(s.left))
	keys := make([]string, len(s.must))
	for i, o := range s.must {
		keys[i] = setKey(o)
	}
	sort.Strings(keys)
	b.WriteString("|M" + strings.Join(keys, ";"))
	keys = make([]string, len(s.mustNot))
	for i, o := range s.mustNot {
		keys[i] = setKey(o)
	}
	sort.Strings(keys)
	b.WriteString("|N" + strings.Join(keys, ";"))
	return b.String()
}

func addObligation(obs [][]int, o []int) [][]int {
	k := setKey(o)
	for _, have := range obs {
		if setKey(have) == k {
			return obs
		}
	}
	return append(obs, o)
}

type arrowCompiler struct {
	rule    *arrowRule
	subsets Subsets
	null    string

	leftNFA  *fsa.FSA
	rightNFA *fsa.FSA

	alphabet []Pair
	compete  Pair // the competing pair for coercion, if any
	coerces  bool
	limits   bool // restriction semantics active
	never    bool
}

func newArrowCompiler(r *arrowRule, subsets Subsets, null string) *arrowCompiler {
	c := &arrowCompiler{
		rule:     r,
		subsets:  subsets,
		null:     null,
		leftNFA:  contextNFA(r.left),
		rightNFA: contextNFA(r.right),
	}
	switch r.arrow {
	case ArrowRestrict:
		c.limits = true
	case ArrowCoerce:
		c.coerces = true
	case ArrowBoth:
		c.limits = true
		c.coerces = true
	case ArrowNever:
		c.never = true
	}

	mentioned := map[string]Pair{r.pair.String(): r.pair}
	collectPairs(r.left, mentioned)
	collectPairs(r.right, mentioned)
	if c.coerces {
		c.compete = Pair{r.pair.In, Elsewhere}
		mentioned[c.compete.String()] = c.compete
	}
	any := Pair{Elsewhere, Elsewhere}
	mentioned[any.String()] = any

	labels := make([]string, 0, len(mentioned))
	for label := range mentioned {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		c.alphabet = append(c.alphabet, mentioned[label])
	}
	return c
}

func (c *arrowCompiler) leftHeld(s *arrowState) bool {
	if c.leftNFA == nil {
		return true
	}
	return anyFinal(c.leftNFA, s.left)
}

// step computes the successor state for one alphabet label, or reports
// rejection.
func (c *arrowCompiler) step(s *arrowState, label Pair) (*arrowState, bool) {
	next := &arrowState{}
	held := c.leftHeld(s)

	for _, o := range s.must {
		moved := moveFiring(c.rightNFA, o, label, c.subsets, c.null)
		if anyFinal(c.rightNFA, moved) {
			continue // right context complete; obligation discharged
		}
		if len(moved) == 0 {
			return nil, true // right context can no longer hold
		}
		next.must = addObligation(next.must, moved)
	}
	for _, o := range s.mustNot {
		moved := moveFiring(c.rightNFA, o, label, c.subsets, c.null)
		if anyFinal(c.rightNFA, moved) {
			return nil, true // forbidden context completed
		}
		if 0 < len(moved) {
			next.mustNot = addObligation(next.mustNot, moved)
		}
	}

	restrictHit := c.limits && label == c.rule.pair
	coerceHit := c.coerces && label == c.compete
	neverHit := c.never && label == c.rule.pair

	if restrictHit {
		if !held {
			return nil, true // occurrence without its left context
		}
		if c.rightNFA != nil {
			o := c.rightNFA.EClosure([]int{c.rightNFA.Start()})
			if !anyFinal(c.rightNFA, o) {
				next.must = addObligation(next.must, o)
			}
		}
	}
	if (coerceHit || neverHit) && held {
		if c.rightNFA == nil {
			return nil, true
		}
		o := c.rightNFA.EClosure([]int{c.rightNFA.Start()})
		if anyFinal(c.rightNFA, o) {
			return nil, true
		}
		next.mustNot = addObligation(next.mustNot, o)
	}

	if c.leftNFA != nil {
		from := append([]int{}, s.left...)
		from = append(from, c.leftNFA.Start())
		next.left = moveFiring(c.leftNFA, from, label, c.subsets, c.null)
	}
	return next, false
}

func (c *arrowCompiler) compile(name string) (*Rule, error) {
	m := fsa.New()
	reject := m.NewState()

	start := &arrowState{}
	if c.leftNFA != nil {
		start.left = c.leftNFA.EClosure([]int{c.leftNFA.Start()})
	}

	states := map[string]int{start.key(): m.Start()}
	pending := []*arrowState{start}
	pendingIdx := []int{m.Start()}

	// A state accepts at the word edge when no restriction
	// obligation is still open.
	m.AddFinal(m.Start())

	for 0 < len(pending) {
		s := pending[len(pending)-1]
		from := pendingIdx[len(pendingIdx)-1]
		pending = pending[:len(pending)-1]
		pendingIdx = pendingIdx[:len(pendingIdx)-1]

		for _, label := range c.alphabet {
			next, rejected := c.step(s, label)
			if rejected {
				m.Insert(from, label.String(), reject)
				continue
			}
			to, have := states[next.key()]
			if !have {
				to = m.NewState()
				states[next.key()] = to
				if len(next.must) == 0 {
					m.AddFinal(to)
				}
				pending = append(pending, next)
				pendingIdx = append(pendingIdx, to)
			}
			m.Insert(from, label.String(), to)
		}
	}

	r := &Rule{
		name:   name,
		fsa:    m,
		labels: map[string]Pair{},
		reject: reject,
	}
	for _, label := range c.alphabet {
		r.labels[label.String()] = label
	}
	return r, nil
}

// NewArrowRule compiles arrow notation, e.g.
//
//	y:i <=> @:C _ +:0 [a:@ e:@]
//
// into a Rule.  Subsets referenced by the contexts must be the
// ruleset's subsets.
func NewArrowRule(name, text string, subsets Subsets) (*Rule, error) {
	return newArrowRuleNull(name, text, subsets, DefaultNull)
}

func newArrowRuleNull(name, text string, subsets Subsets, null string) (*Rule, error) {
	parsed, err := parseArrow(text)
	if err != nil {
		return nil, err
	}
	return newArrowCompiler(parsed, subsets, null).compile(name)
}
