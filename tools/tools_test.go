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
	"testing"

	"github.com/twolevel/kimmo/core"
)

// testSpec is a small vowel-harmony ruleset used across the tool
// tests.
func testSpec(t *testing.T) *core.Spec {
	t.Helper()
	return &core.Spec{
		Name: "harmony",
		Doc:  "Suffix vowel harmony.\n\nThe suffix vowel mirrors the harmony class of the stem.",
		Subsets: map[string]string{
			"Vf": "e i",
			"Vb": "a o u",
		},
		Defaults: "k p r a e i o u +:0 #",
		Rules: map[string]interface{}{
			"harmony": map[string]interface{}{
				"start": "start",
				"states": map[string]interface{}{
					"start": map[string]interface{}{
						"Vf": "front", "Vb": "back",
						"Ø:e": "0", "Ø:a": "0",
						"@": "start",
					},
					"front": map[string]interface{}{
						"Vf": "front", "Vb": "back",
						"Ø:e": "front", "Ø:a": "0",
						"@": "front",
					},
					"back": map[string]interface{}{
						"Vf": "front", "Vb": "back",
						"Ø:a": "back", "Ø:e": "0",
						"@": "back",
					},
				},
			},
		},
		Lexicon: map[string][]string{
			"Begin": {"kop Stems +N", "kep Stems +N"},
			"Stems": {"+Ør End +sfx"},
			"End":   {"# End"},
		},
	}
}

func testRuleSet(t *testing.T) *core.RuleSet {
	t.Helper()
	rs, err := testSpec(t).Compile()
	if err != nil {
		t.Fatal(err)
	}
	return rs
}
