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
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// batchCase is one direction of one suite line.
type batchCase struct {
	arrow   string
	input   string
	outputs []string
}

func (c *batchCase) run(rs *RuleSet, w io.Writer) bool {
	want := append([]string{}, c.outputs...)
	sort.Strings(want)
	if c.arrow == ArrowCoerce {
		fmt.Fprintf(w, "%s %s %s\n", strings.Join(want, ", "), c.arrow, c.input)
	} else {
		fmt.Fprintf(w, "%s %s %s\n", c.input, c.arrow, strings.Join(want, ", "))
	}

	var got []string
	if c.arrow == ArrowCoerce {
		for _, a := range rs.Recognize(c.input, nil) {
			got = append(got, a.Lexical)
		}
	} else {
		got = rs.Generate(c.input, nil)
	}
	sort.Strings(got)

	if len(got) != len(want) {
		return c.fail(w, got)
	}
	for i := range got {
		if got[i] != want[i] {
			return c.fail(w, got)
		}
	}
	return true
}

func (c *batchCase) fail(w io.Writer, got []string) bool {
	text := strings.Join(got, ", ")
	if text == "" {
		text = "no results"
	}
	fmt.Fprintf(w, "  Failed: got %s\n", text)
	return false
}

func splitForms(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	acc := strings.Split(text, ",")
	for i := range acc {
		acc[i] = strings.TrimSpace(acc[i])
	}
	return acc
}

// RunSuite checks a ruleset against a suite of expectations read from
// r, writing a report to w.
//
// Each line has lexical forms on the left and surface forms on the
// right of an arrow, comma-separated when there are several.  "=>"
// checks generation, "<=" checks recognition, "<=>" checks both.  A
// side can be empty to assert that the other side produces nothing.
// ";" starts a comment.
//
//	cat+s => cats       ; generation only
//	conoc+o <=> conozco ; both directions
//	 <= conoco          ; should fail to be recognized
//
// A case passes only if the produced forms match the expected forms
// exactly.  Feature tags on recognition results are ignored.
func RunSuite(rs *RuleSet, r io.Reader, w io.Writer) (passed, failed int, err error) {
	in := bufio.NewScanner(r)
	for lineNo := 1; in.Scan(); lineNo++ {
		line := in.Text()
		if i := strings.Index(line, ";"); 0 <= i {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		arrow := ""
		var lexicals, surfaces []string
		// Longer arrows first so "<=>" isn't read as "<=".
		for _, candidate := range []string{ArrowBoth, ArrowRestrict, ArrowCoerce, "=>", "<="} {
			if i := strings.Index(line, candidate); 0 <= i {
				arrow = arrowAliases[candidate]
				lexicals = splitForms(line[:i])
				surfaces = splitForms(line[i+len(candidate):])
				break
			}
		}
		if arrow == "" {
			return passed, failed, &BadSpec{fmt.Sprintf("suite line %d has no arrow: %s", lineNo, line)}
		}

		var cases []batchCase
		if arrow == ArrowRestrict || arrow == ArrowBoth {
			for _, input := range lexicals {
				cases = append(cases, batchCase{ArrowRestrict, input, surfaces})
			}
		}
		if arrow == ArrowCoerce || arrow == ArrowBoth {
			for _, input := range surfaces {
				cases = append(cases, batchCase{ArrowCoerce, input, lexicals})
			}
		}
		for _, c := range cases {
			if c.run(rs, w) {
				passed++
			} else {
				failed++
			}
		}
	}
	return passed, failed, in.Err()
}
