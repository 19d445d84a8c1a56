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

// Package core provides the core gear for two-level morphological
// generation and recognition.  A ruleset specification is structured
// as a set of symbol subsets, a default pair alphabet, a collection
// of phonological rules, and an optional lexicon.
//
// The primary type is Spec(ification), whose Compile() produces a
// RuleSet.  A rule constrains which lexical:surface symbol Pairs may
// occur in which contexts; each rule is (or compiles into) a finite
// automaton over Pair labels.  The engine walks every rule automaton
// plus the lexicon in lock step over a candidate pair sequence,
// pruning any path that some automaton rejects.
//
// RuleSet.DoGenerate enumerates the surface strings for a lexical
// string; RuleSet.DoRecognize enumerates (lexical string, feature
// string) analyses for a surface string.  Both are depth-first and
// lazy: results are delivered to a yield callback as they are found,
// and the callback can stop the search early.
//
// A compiled RuleSet is never mutated by use, so independent
// searches may run concurrently against the same RuleSet.
//
// Rules carry no executable code.  The only external integration
// point is the Tracer, which receives a snapshot of every search
// step.
package core
