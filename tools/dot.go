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

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/twolevel/kimmo/core"
)

// Dot makes a Graphviz dot file for a rule's automaton.
//
// Final states are drawn as double circles, the dead state as a
// dashed circle.  Parallel transitions between the same two states
// are folded into one edge with a multi-line label.
func Dot(r *core.Rule, w io.WriteCloser) error {
	m := r.FSA()

	fmt.Fprintf(w, "digraph %q {\n", r.Name())
	fmt.Fprintf(w, `  graph [rankdir=LR,nodesep=0.3,ranksep=0.6]
  node [shape="circle"]
  edge [fontsize="12"]
`)

	for state := 0; state < m.Len(); state++ {
		shape := "circle"
		if m.IsFinal(state) && !r.Rejecting(state) {
			shape = "doublecircle"
		}
		style := "solid"
		label := fmt.Sprintf("%d", state)
		if r.Rejecting(state) {
			style = "dashed"
			label = "reject"
		}
		if state == m.Start() {
			style += ",bold"
		}
		fmt.Fprintf(w, "  s%d [shape=\"%s\", style=\"%s\", label=%q]\n",
			state, shape, style, label)
	}

	// fold edges by target
	for state := 0; state < m.Len(); state++ {
		edges := map[int][]string{}
		m.Each(func(from int, label string, to int) {
			if from != state {
				return
			}
			edges[to] = append(edges[to], label)
		})
		targets := make([]int, 0, len(edges))
		for to := range edges {
			targets = append(targets, to)
		}
		sort.Ints(targets)
		for _, to := range targets {
			labels := edges[to]
			sort.Strings(labels)
			fmt.Fprintf(w, "  s%d -> s%d [ label=%q ]\n",
				state, to, strings.Join(labels, "\n"))
		}
	}

	fmt.Fprintf(w, "}\n")
	return w.Close()
}

// LexiconDot makes a Graphviz dot file for a lexicon: one node per
// lexicon state, one edge per entry, labeled with the morpheme and
// its feature.
func LexiconDot(m *core.Morphology, w io.WriteCloser) error {
	fmt.Fprintf(w, "digraph lexicon {\n")
	fmt.Fprintf(w, `  graph [rankdir=LR,nodesep=0.3,ranksep=0.6]
  node [shape="box" style="rounded"]
  edge [fontsize="12"]
`)

	for _, state := range m.States() {
		style := "rounded"
		if state == m.Start() {
			style += ",bold"
		}
		if m.Recognized(state) {
			style += ",filled"
		}
		fmt.Fprintf(w, "  %q [style=\"%s\"]\n", state, style)
	}
	for _, state := range m.States() {
		for _, e := range m.Entries(state) {
			label := e.Morpheme
			if label == "" {
				label = "0"
			}
			if e.Feature != "" {
				label += " " + e.Feature
			}
			fmt.Fprintf(w, "  %q -> %q [ label=%q ]\n", state, e.Next, label)
		}
	}

	fmt.Fprintf(w, "}\n")
	return w.Close()
}

// PNG generates a PNG image based on output from Dot.
//
// This function will write two files: basename.dot and basename.png,
// where the basename is the given string.
func PNG(r *core.Rule, basename string) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	// ToDo: Use mktemp
	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(r, dotfile); err != nil {
		return pngname, err
	}
	cmd := "dot -Tpng " + dotname + " > " + pngname
	if err := exec.Command("bash", "-c", cmd).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}
