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
	"testing"
)

func mustPair(t *testing.T, text string) Pair {
	t.Helper()
	p, err := MakePair(text)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// run pushes a sequence of literal pairs through a rule.
func run(t *testing.T, r *Rule, subsets Subsets, texts ...string) int {
	t.Helper()
	state := r.Start()
	for _, text := range texts {
		state = r.Advance(state, mustPair(t, text), subsets, "0")
		if state == Reject {
			return Reject
		}
	}
	return state
}

func TestRuleTableCompile(t *testing.T) {
	table := &RuleTable{
		Start: "start",
		States: map[string]map[string]string{
			"start": {
				"i:y": "step1",
				"@":   "start",
			},
			"step1": {
				"e:0": "start",
				"@":   "0",
			},
		},
		Finals: []string{"start"},
	}
	r, err := table.Compile("i-y")
	if err != nil {
		t.Fatal(err)
	}

	if got := run(t, r, nil, "a:a", "i:y", "e:0"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	// step1 is not final
	if got := run(t, r, nil, "i:y"); got == Reject || r.Final(got) {
		t.Fatal(got)
	}
	// the explicit reject target vetoes the path
	if got := run(t, r, nil, "i:y", "a:a"); got != Reject {
		t.Fatal(got)
	}
	// an unmapped pair in a state with no catch-all rejects: here
	// every state has "@", so nothing rejects from start
	if got := run(t, r, nil, "q:q"); got == Reject {
		t.Fatal("catch-all should have matched")
	}
}

func TestRuleTableSpecificVetoesGeneral(t *testing.T) {
	subsets := Subsets{"V": {"a", "e"}}
	table := &RuleTable{
		Start: "start",
		States: map[string]map[string]string{
			"start": {
				"a:a": "reject",
				"V:V": "start",
				"@":   "start",
			},
		},
	}
	r, err := table.Compile("no-a")
	if err != nil {
		t.Fatal(err)
	}

	// a:a is more specific than V:V, so it must win even though both
	// match
	if got := run(t, r, subsets, "a:a"); got != Reject {
		t.Fatal(got)
	}
	if got := run(t, r, subsets, "e:e"); got == Reject {
		t.Fatal("V:V should have matched")
	}
}

func TestRuleTableErrors(t *testing.T) {
	for _, table := range []*RuleTable{
		{},
		{Start: "start"},
		{Start: "gone", States: map[string]map[string]string{"start": {}}},
		{Start: "start", States: map[string]map[string]string{"start": {"a": "gone"}}},
		{Start: "start", States: map[string]map[string]string{"start": {}}, Finals: []string{"gone"}},
		{Start: "start", States: map[string]map[string]string{"start": {"::": "start"}}},
	} {
		if _, err := table.Compile("bad"); err == nil {
			t.Fatalf("wanted an error for %#v", table)
		}
	}
}

func TestParseTable(t *testing.T) {
	text := `FSA
    i  e  @
    y  0  @
1:  2  1  1
2.  0  1  0
`
	r, err := ParseTable("i-y", text)
	if err != nil {
		t.Fatal(err)
	}

	if got := run(t, r, nil, "i:y"); got == Reject || r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "i:y", "e:0"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	// target 0 rejects
	if got := run(t, r, nil, "i:y", "i:y"); got != Reject {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "x:x", "e:0"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
}

func TestParseTableErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"FSA\na b\na b\n",
		"FSA\na b\na b\n1: 2\n",
		"FSA\na b\na b\n1: 1 1 1\n",
	} {
		if _, err := ParseTable("bad", text); err == nil {
			t.Fatalf("wanted an error for %q", text)
		}
	}
}
