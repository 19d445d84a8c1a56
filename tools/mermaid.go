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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/twolevel/kimmo/core"
)

type MermaidOpts struct {
	// ShowLabels includes transition labels on the edges.
	ShowLabels bool `json:"showLabels"`

	// FinalFill is the fill color for accepting states.
	FinalFill string `json:"finalFill,omitempty"`

	// SkipReject omits the dead state and its incoming edges, which
	// usually dominate the picture.
	SkipReject bool `json:"skipReject,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for a rule's automaton.
func Mermaid(r *core.Rule, w io.WriteCloser, opts *MermaidOpts) error {
	if opts == nil {
		opts = &MermaidOpts{
			ShowLabels: true,
			FinalFill:  "#bcf2db",
			SkipReject: true,
		}
	}

	m := r.FSA()

	fmt.Fprintf(w, "graph LR\n")

	for state := 0; state < m.Len(); state++ {
		if opts.SkipReject && r.Rejecting(state) {
			continue
		}
		name := fmt.Sprintf("%d", state)
		if r.Rejecting(state) {
			name = "reject"
		}
		if m.IsFinal(state) && !r.Rejecting(state) {
			fmt.Fprintf(w, "  s%d((%s))\n", state, name)
			if opts.FinalFill != "" {
				fmt.Fprintf(w, "  style s%d fill:%s\n", state, opts.FinalFill)
			}
		} else {
			fmt.Fprintf(w, "  s%d(%s)\n", state, name)
		}
	}

	for state := 0; state < m.Len(); state++ {
		edges := map[int][]string{}
		m.Each(func(from int, label string, to int) {
			if from != state {
				return
			}
			if opts.SkipReject && r.Rejecting(to) {
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
			if opts.ShowLabels {
				labels := edges[to]
				sort.Strings(labels)
				fmt.Fprintf(w, "  s%d-- %q -->s%d\n",
					state, strings.Join(labels, " "), to)
			} else {
				fmt.Fprintf(w, "  s%d-->s%d\n", state, to)
			}
		}
	}

	return w.Close()
}
