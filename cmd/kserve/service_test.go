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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/twolevel/kimmo/core"

	"github.com/gorilla/websocket"
	yaml "gopkg.in/yaml.v2"
)

var harmonyYAML = `
name: harmony
subsets:
  Vf: e i
  Vb: a o u
defaults: "k p r a e i o u +:0 #"
rules:
  harmony:
    start: start
    states:
      start:
        Vf: front
        Vb: back
        "Ø:e": "0"
        "Ø:a": "0"
        "@": start
      front:
        Vf: front
        Vb: back
        "Ø:e": front
        "Ø:a": "0"
        "@": front
      back:
        Vf: front
        Vb: back
        "Ø:a": back
        "Ø:e": "0"
        "@": back
lexicon:
  Begin:
    - kop Stems +N
    - kep Stems +N
  Stems:
    - "+Ør End +sfx"
  End:
    - "# End"
`

func testService(t *testing.T, cache *Storage) *Service {
	t.Helper()
	var spec core.Spec
	if err := yaml.Unmarshal([]byte(harmonyYAML), &spec); err != nil {
		t.Fatal(err)
	}
	rs, err := spec.Compile()
	if err != nil {
		t.Fatal(err)
	}
	return NewService(rs, cache)
}

func testServer(t *testing.T, s *Service) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.HandleAnalyze)
	mux.HandleFunc("/suite", s.HandleSuite)
	mux.HandleFunc("/ws/trace", s.HandleTrace)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postAnalyze(t *testing.T, srv *httptest.Server, req *AnalyzeRequest) *AnalyzeResponse {
	t.Helper()
	js, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	httpResp, err := http.Post(srv.URL+"/analyze", "application/json", bytes.NewReader(js))
	if err != nil {
		t.Fatal(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		t.Fatal(httpResp.Status)
	}
	var resp AnalyzeResponse
	if err = json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	return &resp
}

func TestHandleAnalyze(t *testing.T) {
	srv := testServer(t, testService(t, nil))

	resp := postAnalyze(t, srv, &AnalyzeRequest{Op: OpGenerate, Input: "kop+Ør"})
	if len(resp.Surfaces) != 1 || resp.Surfaces[0] != "kopar" {
		t.Fatal(resp.Surfaces)
	}

	resp = postAnalyze(t, srv, &AnalyzeRequest{Op: OpRecognize, Input: "keper"})
	if len(resp.Analyses) != 1 || resp.Analyses[0].Lexical != "kep+Ør" {
		t.Fatal(resp.Analyses)
	}

	// No preceding vowel, so the suffix vowel can't be resolved.
	resp = postAnalyze(t, srv, &AnalyzeRequest{Op: OpGenerate, Input: "kp+Ør"})
	if 0 < len(resp.Surfaces) {
		t.Fatal(resp.Surfaces)
	}
}

func TestHandleAnalyzeBadOp(t *testing.T) {
	srv := testServer(t, testService(t, nil))

	httpResp, err := http.Post(srv.URL+"/analyze", "application/json",
		strings.NewReader(`{"op":"transmogrify","input":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusBadRequest {
		t.Fatal(httpResp.Status)
	}
}

func TestHandleAnalyzeCached(t *testing.T) {
	cache := testStorage(t)
	defer cache.Close()
	srv := testServer(t, testService(t, cache))

	req := &AnalyzeRequest{Op: OpGenerate, Input: "kop+Ør"}

	resp := postAnalyze(t, srv, req)
	if resp.Cached {
		t.Fatal("unexpected cache hit")
	}
	if len(resp.Surfaces) != 1 || resp.Surfaces[0] != "kopar" {
		t.Fatal(resp.Surfaces)
	}

	resp = postAnalyze(t, srv, req)
	if !resp.Cached {
		t.Fatal("expected cache hit")
	}
	if len(resp.Surfaces) != 1 || resp.Surfaces[0] != "kopar" {
		t.Fatal(resp.Surfaces)
	}
}

func TestHandleSuite(t *testing.T) {
	srv := testServer(t, testService(t, nil))

	suite := strings.Join([]string{
		"kop+Ør => kopar",
		"kep+Ør <=> keper",
		"kop+Ør => kopor",
	}, "\n")

	httpResp, err := http.Post(srv.URL+"/suite", "text/plain", strings.NewReader(suite))
	if err != nil {
		t.Fatal(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		t.Fatal(httpResp.Status)
	}

	var report struct {
		Passed int    `json:"passed"`
		Failed int    `json:"failed"`
		Report string `json:"report"`
	}
	if err = json.NewDecoder(httpResp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.Passed != 3 || report.Failed != 1 {
		t.Fatal(report)
	}
	if !strings.Contains(report.Report, "kopar") {
		t.Fatal(report.Report)
	}
}

func TestHandleTrace(t *testing.T) {
	srv := testServer(t, testService(t, nil))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/trace"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err = c.WriteJSON(&AnalyzeRequest{Op: OpGenerate, Input: "kop+Ør"}); err != nil {
		t.Fatal(err)
	}

	var steps, successes int
	for {
		var event TraceEvent
		if err = c.ReadJSON(&event); err != nil {
			t.Fatal(err)
		}
		switch event.Type {
		case "step":
			steps++
		case "success":
			successes++
		case "result":
			if steps == 0 || successes != 1 {
				t.Fatal(steps, successes)
			}
			r := event.Result
			if r == nil || len(r.Surfaces) != 1 || r.Surfaces[0] != "kopar" {
				t.Fatal(r)
			}
			return
		default:
			t.Fatal(event.Type)
		}
	}
}
