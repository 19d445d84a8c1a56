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

// Package main is a grab bag of ruleset development utilities.
//
//	ktool yamltojson < harmony.yaml
//	ktool jsontoyaml < harmony.json
//	ktool check < harmony.yaml
//	ktool expand < harmony.yaml
//	ktool html harmony.yaml > harmony.html
//	ktool inline doc.md
package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/twolevel/kimmo/core"
	"github.com/twolevel/kimmo/tools"

	"github.com/jsccast/yaml"
)

func main() {

	if len(os.Args) < 2 {
		Usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "expand":
		bs, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			panic(err)
		}
		var x interface{}
		if err = yaml.Unmarshal(bs, &x); err != nil {
			panic(err)
		}

		if x, err = MacroExpand(x); err != nil {
			panic(err)
		}

		if bs, err = yaml.Marshal(&x); err != nil {
			panic(err)
		}

		fmt.Printf("%s\n", bs)

	case "yamltojson":
		pretty := false

		switch len(os.Args) {
		case 2:
		case 3:
			switch os.Args[2] {
			case "-p":
				pretty = true
			default:
				panic(fmt.Sprintf("unsupported args: %v", os.Args[1:]))
			}
		default:
			panic(fmt.Sprintf("unsupported args: %v", os.Args[1:]))
		}

		var s core.Spec
		readSpec(os.Stdin, &s)

		var bs []byte
		var err error
		if pretty {
			bs, err = json.MarshalIndent(&s, "", "  ")
		} else {
			bs, err = json.Marshal(&s)
		}
		if err != nil {
			fatal(err)
		}

		if _, err = os.Stdout.Write(bs); err != nil {
			fatal(err)
		}

	case "jsontoyaml":
		bs, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			fatal(err)
		}

		var s core.Spec
		if err = json.Unmarshal(bs, &s); err != nil {
			fatal(err)
		}

		if bs, err = yaml.Marshal(&s); err != nil {
			fatal(err)
		}

		if _, err = os.Stdout.Write(bs); err != nil {
			fatal(err)
		}

	case "check":
		var s core.Spec
		readSpec(os.Stdin, &s)

		rs, err := s.Compile()
		if err != nil {
			fatal(err)
		}

		bs, err := tools.Analyze(rs).Marshal()
		if err != nil {
			fatal(err)
		}
		if _, err = os.Stdout.Write(bs); err != nil {
			fatal(err)
		}

	case "html":
		if len(os.Args) != 3 {
			fatal(fmt.Errorf("usage: ktool html SPECFILE"))
		}
		if err := tools.ReadAndRenderSpecPage(os.Args[2], nil, os.Stdout); err != nil {
			fatal(err)
		}

	case "inline":
		if len(os.Args) != 3 {
			fatal(fmt.Errorf("usage: ktool inline FILE"))
		}
		bs, err := tools.ReadFileWithInlines(os.Args[2])
		if err != nil {
			fatal(err)
		}
		if _, err = os.Stdout.Write(bs); err != nil {
			fatal(err)
		}

	default:
		fmt.Printf("Unknown subcommand %q\n", os.Args[1])
		Usage()
		os.Exit(1)
	}
}

func readSpec(in *os.File, s *core.Spec) {
	bs, err := ioutil.ReadAll(in)
	if err != nil {
		fatal(err)
	}
	if err = yaml.Unmarshal(bs, s); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func Usage() {
	fmt.Printf("Subcommands:\n\n")
	fmt.Printf("  expand      expand JavaScript macros in a ruleset read from stdin\n")
	fmt.Printf("  yamltojson  convert a ruleset from YAML to JSON (-p to pretty-print)\n")
	fmt.Printf("  jsontoyaml  convert a ruleset from JSON to YAML\n")
	fmt.Printf("  check       compile a ruleset and report its structure\n")
	fmt.Printf("  html        render a ruleset file as an HTML page\n")
	fmt.Printf("  inline      expand %%inline(\"NAME\") in a file\n")
}
