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

// These errors are user errors: something is wrong with a ruleset
// specification, not with the engine.  Search-time dead ends are not
// errors at all; they are just empty results.

// BadPairSyntax occurs when a pair notation cannot be parsed.
type BadPairSyntax struct {
	Text string
}

func (e *BadPairSyntax) Error() string {
	return `bad pair notation "` + e.Text + `"`
}

// BadRule occurs when a rule fails to compile.  It names the offending
// rule, and Err carries the underlying problem.
type BadRule struct {
	Name string
	Err  error
}

func (e *BadRule) Error() string {
	return `rule "` + e.Name + `": ` + e.Err.Error()
}

func (e *BadRule) Unwrap() error {
	return e.Err
}

// BadStateTable occurs when an explicit state table is inconsistent.
type BadStateTable struct {
	Reason string
}

func (e *BadStateTable) Error() string {
	return "bad state table: " + e.Reason
}

// BadArrowRule occurs when arrow notation cannot be parsed.
type BadArrowRule struct {
	Reason string
}

func (e *BadArrowRule) Error() string {
	return "bad arrow rule: " + e.Reason
}

// BadDefault occurs when a default pair mentions a subset.  Defaults
// must be literal.
type BadDefault struct {
	Pair Pair
}

func (e *BadDefault) Error() string {
	return `default "` + e.Pair.String() + `" contains a subset`
}

// BadLexicon occurs when a lexicon entry cannot be parsed.
type BadLexicon struct {
	State string
	Entry string
}

func (e *BadLexicon) Error() string {
	return `bad lexicon entry "` + e.Entry + `" in state "` + e.State + `"`
}

// BadSpec occurs when a ruleset document is structurally wrong in
// some way that isn't specific to one rule.
type BadSpec struct {
	Reason string
}

func (e *BadSpec) Error() string {
	return "bad ruleset spec: " + e.Reason
}
