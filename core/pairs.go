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
)

var (
	// DefaultNull is the null (epsilon) symbol shared by all automata
	// in a ruleset.
	DefaultNull = "0"

	// DefaultBoundary is the word-edge symbol.
	DefaultBoundary = "#"

	// Elsewhere is the wildcard symbol.  A transition labeled with an
	// Elsewhere slot matches any symbol, and such labels sort after
	// every more specific label.
	Elsewhere = "@"
)

// Pair is an ordered lexical:surface symbol pair.  Either slot may be a
// literal symbol, a subset name, a negated subset name ("~X"), the null
// symbol, or Elsewhere.
type Pair struct {
	In  string `json:"in" yaml:"in"`
	Out string `json:"out" yaml:"out"`
}

func (p Pair) String() string {
	return p.In + ":" + p.Out
}

// MakePair parses the textual notation for a pair: either "a:b" or a
// bare "a", which denotes a:a.
func MakePair(text string) (Pair, error) {
	switch parts := strings.Split(text, ":"); len(parts) {
	case 1:
		if parts[0] == "" {
			return Pair{}, &BadPairSyntax{text}
		}
		return Pair{parts[0], parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Pair{}, &BadPairSyntax{text}
		}
		return Pair{parts[0], parts[1]}, nil
	default:
		return Pair{}, &BadPairSyntax{text}
	}
}

// ParsePairs parses a whitespace-separated sequence of pair notations.
func ParsePairs(text string) ([]Pair, error) {
	var acc []Pair
	for _, field := range strings.Fields(text) {
		p, err := MakePair(field)
		if err != nil {
			return nil, err
		}
		acc = append(acc, p)
	}
	return acc, nil
}

// Subsets maps a subset name to its literal symbols.
type Subsets map[string][]string

// IsSubset reports whether a symbol names a subset (or the complement
// of one).
func (s Subsets) IsSubset(symbol string) bool {
	if symbol == "" {
		return false
	}
	if symbol[0] == '~' {
		return true
	}
	_, have := s[symbol]
	return have
}

func (s Subsets) contains(name, literal string) bool {
	for _, symbol := range s[name] {
		if symbol == literal {
			return true
		}
	}
	return false
}

// matches reports whether a pair-slot symbol matches a literal
// candidate symbol.  A literal matches only itself; Elsewhere matches
// anything; a subset name matches its members; a negated subset
// matches any literal outside the subset other than the null symbol.
func (s Subsets) matches(symbol, literal, null string) bool {
	if symbol == literal {
		return true
	}
	if symbol == Elsewhere {
		return true
	}
	if strings.HasPrefix(symbol, "~") {
		name := symbol[1:]
		if _, have := s[name]; !have {
			return false
		}
		return literal != null && !s.contains(name, literal)
	}
	if _, have := s[symbol]; have {
		return s.contains(symbol, literal)
	}
	return false
}

// Includes reports whether this (possibly subset-bearing) pair matches
// a literal candidate pair.
func (p Pair) Includes(candidate Pair, subsets Subsets, null string) bool {
	return subsets.matches(p.In, candidate.In, null) &&
		subsets.matches(p.Out, candidate.Out, null)
}

// specificity is the sort weight of one pair slot: literals first,
// then subsets by size, with Elsewhere and complements last.
func specificity(symbol string, subsets Subsets) int {
	if symbol == Elsewhere {
		return 1 << 30
	}
	if strings.HasPrefix(symbol, "~") {
		return 1 << 20
	}
	if members, have := subsets[symbol]; have {
		return 1 + len(members)
	}
	return 1
}

// SortSubsets orders transition labels so that more specific pairs are
// tried before more general ones.  When both a literal label and a
// subset label could match a candidate, the literal must win; symbol
// classes must not shadow literal exceptions.
func SortSubsets(pairs []Pair, subsets Subsets) []Pair {
	acc := append([]Pair{}, pairs...)
	sort.SliceStable(acc, func(i, j int) bool {
		a, b := acc[i], acc[j]
		ai, bi := specificity(a.In, subsets), specificity(b.In, subsets)
		if ai != bi {
			return ai < bi
		}
		ao, bo := specificity(a.Out, subsets), specificity(b.Out, subsets)
		if ao != bo {
			return ao < bo
		}
		return a.String() < b.String()
	})
	return acc
}
