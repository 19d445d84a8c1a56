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

// Package main is a command-line interface to two-level rulesets.
//
//	kimmo -f harmony.yaml -g 'kop+Ør'
//	kimmo -f harmony.yaml -r kopar
//	kimmo -f harmony.yaml -z tests.suite
//	kimmo -f harmony.yaml -dot harmony | dot -Tpng > harmony.png
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/twolevel/kimmo/core"
	"github.com/twolevel/kimmo/tools"

	"github.com/jsccast/yaml"
)

func main() {
	var (
		filename  = flag.String("f", "", "ruleset YAML file")
		generate  = flag.String("g", "", "lexical form to generate from")
		recognize = flag.String("r", "", "surface form to recognize")
		suite     = flag.String("z", "", "expectation suite file to run")
		dot       = flag.String("dot", "", "write Graphviz for the named rule to stdout")
		lexdot    = flag.Bool("lexdot", false, "write Graphviz for the lexicon to stdout")
		verbosity = flag.Int("v", 0, "trace verbosity (1-3), written to stderr")
		asJSON    = flag.Bool("json", false, "print results as JSON")
	)

	flag.Parse()

	if *filename == "" {
		fmt.Fprintf(os.Stderr, "a ruleset file (-f) is required\n")
		os.Exit(1)
	}

	bs, err := tools.ReadFileWithInlines(*filename)
	if err != nil {
		fatal(err)
	}
	var spec core.Spec
	if err = yaml.Unmarshal(bs, &spec); err != nil {
		fatal(err)
	}
	rs, err := spec.Compile()
	if err != nil {
		fatal(err)
	}

	var tracer core.Tracer
	if 0 < *verbosity {
		tracer = core.NewTextTracer(os.Stderr, *verbosity, rs)
	}

	switch {
	case *dot != "":
		for _, r := range rs.Rules() {
			if r.Name() == *dot {
				if err = tools.Dot(r, os.Stdout); err != nil {
					fatal(err)
				}
				return
			}
		}
		fmt.Fprintf(os.Stderr, "no rule named %q\n", *dot)
		os.Exit(1)

	case *lexdot:
		if rs.Morphology() == nil {
			fmt.Fprintf(os.Stderr, "the ruleset has no lexicon\n")
			os.Exit(1)
		}
		if err = tools.LexiconDot(rs.Morphology(), os.Stdout); err != nil {
			fatal(err)
		}

	case *generate != "":
		emit(rs.Generate(*generate, tracer), *asJSON)

	case *recognize != "":
		emit(rs.Recognize(*recognize, tracer), *asJSON)

	case *suite != "":
		f, err := os.Open(*suite)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		passed, failed, err := core.RunSuite(rs, f, os.Stdout)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%d passed, %d failed\n", passed, failed)
		if 0 < failed {
			os.Exit(1)
		}

	default:
		// read forms from stdin: "g FORM" generates, "r FORM"
		// recognizes
		in := bufio.NewScanner(os.Stdin)
		for in.Scan() {
			line := strings.TrimSpace(in.Text())
			if line == "" || strings.HasPrefix(line, ";") {
				continue
			}
			switch {
			case strings.HasPrefix(line, "g "):
				emit(rs.Generate(strings.TrimSpace(line[2:]), tracer), *asJSON)
			case strings.HasPrefix(line, "r "):
				emit(rs.Recognize(strings.TrimSpace(line[2:]), tracer), *asJSON)
			default:
				fmt.Fprintf(os.Stderr, "say 'g FORM' or 'r FORM', not %q\n", line)
			}
		}
		if err := in.Err(); err != nil {
			fatal(err)
		}
	}
}

func emit(results interface{}, asJSON bool) {
	if asJSON {
		js, err := json.Marshal(results)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s\n", js)
		return
	}
	switch rs := results.(type) {
	case []string:
		if len(rs) == 0 {
			fmt.Println("(no results)")
		}
		for _, r := range rs {
			fmt.Println(r)
		}
	case []core.Analysis:
		if len(rs) == 0 {
			fmt.Println("(no results)")
		}
		for _, a := range rs {
			if a.Features == "" {
				fmt.Println(a.Lexical)
			} else {
				fmt.Printf("%s\t%s\n", a.Lexical, a.Features)
			}
		}
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
