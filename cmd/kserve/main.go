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

// Package main is a little HTTP service that serves one compiled
// ruleset.
//
//	kserve -f harmony.yaml -l :8080 -db analyses.db
//
//	curl -d '{"op":"generate","input":"kop+Ør"}' localhost:8080/analyze
//
// A websocket at /ws/trace streams search steps; see TraceEvent.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/twolevel/kimmo/core"
	"github.com/twolevel/kimmo/tools"

	"github.com/jsccast/yaml"
)

func main() {
	var (
		filename = flag.String("f", "", "ruleset YAML file")
		addr     = flag.String("l", ":8080", "listen address")
		dbFile   = flag.String("db", "", "cache filename (no caching if empty)")
		debug    = flag.Bool("d", false, "debug logging")
	)

	flag.Parse()

	if *filename == "" {
		fmt.Fprintf(os.Stderr, "a ruleset file (-f) is required\n")
		os.Exit(1)
	}

	bs, err := tools.ReadFileWithInlines(*filename)
	if err != nil {
		log.Fatal(err)
	}
	var spec core.Spec
	if err = yaml.Unmarshal(bs, &spec); err != nil {
		log.Fatal(err)
	}
	rs, err := spec.Compile()
	if err != nil {
		log.Fatal(err)
	}

	var cache *Storage
	if *dbFile != "" {
		cache, err = NewStorage(*dbFile)
		if err != nil {
			log.Fatal(err)
		}
		cache.Debug = *debug
		if err = cache.Open(); err != nil {
			log.Fatal(err)
		}
		defer cache.Close()
	}

	s := NewService(rs, cache)
	s.Debug = *debug

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.HandleAnalyze)
	mux.HandleFunc("/suite", s.HandleSuite)
	mux.HandleFunc("/ws/trace", s.HandleTrace)

	log.Printf("kserve listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}
