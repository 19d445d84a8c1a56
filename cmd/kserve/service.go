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

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/twolevel/kimmo/core"
)

// Service serves one compiled ruleset over HTTP.  The ruleset is
// read-only, so requests run concurrently without locking; only the
// cache serializes access internally.
type Service struct {
	Debug bool

	rs    *core.RuleSet
	cache *Storage
}

func NewService(rs *core.RuleSet, cache *Storage) *Service {
	return &Service{rs: rs, cache: cache}
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("Service."+format, args...)
	}
}

const (
	// OpGenerate maps a lexical form to surface forms.
	OpGenerate = "generate"
	// OpRecognize maps a surface form to analyses.
	OpRecognize = "recognize"
)

// AnalyzeRequest is the body of a POST to /analyze.
type AnalyzeRequest struct {
	Op    string `json:"op"`
	Input string `json:"input"`
}

// AnalyzeResponse is what /analyze returns.  Surfaces is set for
// generation, Analyses for recognition.  Either can be empty: an
// input with no valid path is a normal outcome, not an error.
type AnalyzeResponse struct {
	Op       string          `json:"op"`
	Input    string          `json:"input"`
	Surfaces []string        `json:"surfaces,omitempty"`
	Analyses []core.Analysis `json:"analyses,omitempty"`
	Cached   bool            `json:"cached,omitempty"`
}

func (s *Service) analyze(req *AnalyzeRequest) (*AnalyzeResponse, error) {
	resp := &AnalyzeResponse{Op: req.Op, Input: req.Input}
	switch req.Op {
	case OpGenerate:
		resp.Surfaces = s.rs.Generate(req.Input, nil)
	case OpRecognize:
		resp.Analyses = s.rs.Recognize(req.Input, nil)
	default:
		return nil, fmt.Errorf("unknown op %q", req.Op)
	}
	return resp, nil
}

// HandleAnalyze is the POST /analyze handler.
func (s *Service) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("can't parse: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if s.cache != nil {
		bs, hit, err := s.cache.Get(req.Op, req.Input)
		if err != nil {
			log.Printf("cache Get error %v", err)
		} else if hit {
			s.logf("HandleAnalyze cache hit %s %q", req.Op, req.Input)
			var resp AnalyzeResponse
			if err = json.Unmarshal(bs, &resp); err == nil {
				resp.Cached = true
				writeJSON(w, &resp)
				return
			}
			log.Printf("cache Unmarshal error %v", err)
		}
	}

	resp, err := s.analyze(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if s.cache != nil {
		bs, err := json.Marshal(resp)
		if err == nil {
			err = s.cache.Put(req.Op, req.Input, bs)
		}
		if err != nil {
			log.Printf("cache Put error %v", err)
		}
	}

	writeJSON(w, resp)
}

// HandleSuite is the POST /suite handler: the body is an expectation
// suite, and the response reports the counts and the full report.
func (s *Service) HandleSuite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var report struct {
		Passed int    `json:"passed"`
		Failed int    `json:"failed"`
		Report string `json:"report"`
	}

	var buf bytes.Buffer
	passed, failed, err := core.RunSuite(s.rs, r.Body, &buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report.Passed, report.Failed, report.Report = passed, failed, buf.String()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, &report)
}

func writeJSON(w http.ResponseWriter, x interface{}) {
	if err := json.NewEncoder(w).Encode(x); err != nil {
		log.Printf("writeJSON error %v", err)
	}
}
