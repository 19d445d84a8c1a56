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
	"sort"
	"strings"
)

// Spec is the external representation of a ruleset, ready for YAML or
// JSON unmarshaling.  Compile turns a Spec into a RuleSet.
//
// A rule value can take two forms:
//
//  1. A string.  If the string starts with "FSA", it is the textual
//     state-table notation (see ParseTable); otherwise it is an arrow
//     rule such as "a:b <=> c:c _ d:d".
//
//  2. A mapping with "start", optional "final", and "states" keys: the
//     explicit state-table notation (see RuleTable).
type Spec struct {
	// Doc is optional documentation for the ruleset.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Name optionally names the ruleset (used by tools, not by the
	// engine).
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Subsets maps a subset symbol to a space-separated list of its
	// member symbols.
	Subsets map[string]string `json:"subsets,omitempty" yaml:"subsets,omitempty"`

	// Defaults is a space-separated list of pairs allowed without any
	// rule mentioning them.
	Defaults string `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	// Null is the zero-length symbol (default "0").
	Null string `json:"null,omitempty" yaml:"null,omitempty"`

	// Boundary is the end-of-word symbol (default "#").
	Boundary string `json:"boundary,omitempty" yaml:"boundary,omitempty"`

	// Rules maps rule names to rule representations.  Rules compile
	// in name order.
	Rules map[string]interface{} `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Lexicon maps lexicon state names to entry lines of the form
	//
	//	MORPHEME NEXTSTATE [FEATURE...]
	//
	// Recognition is unconstrained by a lexicon when this section is
	// absent.
	Lexicon map[string][]string `json:"lexicon,omitempty" yaml:"lexicon,omitempty"`
}

// stringKeys rewrites the map[interface{}]interface{} values that
// yaml.v2 produces into map[string]interface{} so a Spec compiles the
// same whether it came from YAML or JSON.
func stringKeys(x interface{}) interface{} {
	switch v := x.(type) {
	case map[interface{}]interface{}:
		acc := make(map[string]interface{}, len(v))
		for key, val := range v {
			acc[fmt.Sprintf("%v", key)] = stringKeys(val)
		}
		return acc
	case map[string]interface{}:
		acc := make(map[string]interface{}, len(v))
		for key, val := range v {
			acc[key] = stringKeys(val)
		}
		return acc
	case []interface{}:
		acc := make([]interface{}, len(v))
		for i, val := range v {
			acc[i] = stringKeys(val)
		}
		return acc
	default:
		return x
	}
}

func specString(x interface{}) (string, bool) {
	s, is := x.(string)
	return s, is
}

func tableFromMap(m map[string]interface{}) (*RuleTable, error) {
	t := &RuleTable{States: map[string]map[string]string{}}
	for key, val := range m {
		switch strings.ToLower(key) {
		case "start":
			s, is := specString(val)
			if !is {
				return nil, &BadStateTable{fmt.Sprintf("start should be a string, not %T", val)}
			}
			t.Start = s
		case "final":
			switch finals := val.(type) {
			case string:
				t.Finals = strings.Fields(finals)
			case []interface{}:
				for _, f := range finals {
					s, is := specString(f)
					if !is {
						return nil, &BadStateTable{fmt.Sprintf("final state should be a string, not %T", f)}
					}
					t.Finals = append(t.Finals, s)
				}
			default:
				return nil, &BadStateTable{fmt.Sprintf("final should be a list of strings, not %T", val)}
			}
		case "states":
			states, is := val.(map[string]interface{})
			if !is {
				return nil, &BadStateTable{fmt.Sprintf("states should be a mapping, not %T", val)}
			}
			for stateName, row := range states {
				trans, is := row.(map[string]interface{})
				if !is {
					return nil, &BadStateTable{fmt.Sprintf("state %q should be a mapping, not %T", stateName, row)}
				}
				acc := map[string]string{}
				for label, target := range trans {
					s, is := specString(target)
					if !is {
						return nil, &BadStateTable{fmt.Sprintf("target for %q in state %q should be a string, not %T", label, stateName, target)}
					}
					acc[label] = s
				}
				t.States[stateName] = acc
			}
		default:
			return nil, &BadStateTable{fmt.Sprintf("unknown key %q", key)}
		}
	}
	return t, nil
}

func compileRule(name string, raw interface{}, subsets Subsets, null string) (*Rule, error) {
	switch rule := stringKeys(raw).(type) {
	case string:
		if strings.HasPrefix(strings.TrimSpace(rule), "FSA") {
			return ParseTable(name, rule)
		}
		return newArrowRuleNull(name, rule, subsets, null)
	case map[string]interface{}:
		t, err := tableFromMap(rule)
		if err != nil {
			return nil, err
		}
		return t.Compile(name)
	default:
		return nil, &BadStateTable{fmt.Sprintf("cannot interpret %T as a rule", raw)}
	}
}

// Compile builds the RuleSet a Spec describes.  Errors are wrapped in
// BadRule with the offending rule's name.
func (s *Spec) Compile() (*RuleSet, error) {
	null := s.Null
	if null == "" {
		null = DefaultNull
	}
	boundary := s.Boundary
	if boundary == "" {
		boundary = DefaultBoundary
	}

	subsets := Subsets{}
	for symbol, members := range s.Subsets {
		if symbol == "" {
			return nil, &BadSpec{"empty subset symbol"}
		}
		subsets[symbol] = strings.Fields(members)
	}

	defaults, err := ParsePairs(s.Defaults)
	if err != nil {
		return nil, &BadSpec{err.Error()}
	}

	names := make([]string, 0, len(s.Rules))
	for name := range s.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := make([]*Rule, 0, len(names))
	for _, name := range names {
		rule, err := compileRule(name, s.Rules[name], subsets, null)
		if err != nil {
			return nil, &BadRule{name, err}
		}
		rules = append(rules, rule)
	}

	var morphology *Morphology
	if 0 < len(s.Lexicon) {
		if morphology, err = ParseLexicon(s.Lexicon, null); err != nil {
			return nil, err
		}
	}

	return NewRuleSetSymbols(subsets, defaults, rules, morphology, null, boundary)
}
