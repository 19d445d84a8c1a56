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
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/twolevel/kimmo/core"

	"github.com/gorilla/websocket"
)

// TraceEvent is one message on a /ws/trace connection.  Type is
// "step", "success", "result", or "error".
type TraceEvent struct {
	Type string `json:"type"`

	// Step and success fields.
	Lexical    string   `json:"lexical,omitempty"`
	Surface    string   `json:"surface,omitempty"`
	Pair       string   `json:"pair,omitempty"`
	Blocked    []string `json:"blocked,omitempty"`
	MorphState string   `json:"morphState,omitempty"`
	Word       string   `json:"word,omitempty"`

	// Result and error fields.
	Result *AnalyzeResponse `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// wsTracer streams search steps over a websocket connection.  The
// search runs in the handler goroutine, so writes here never race
// with anything else on the connection.
type wsTracer struct {
	c    *websocket.Conn
	null string
}

func (t *wsTracer) send(event *TraceEvent) {
	js, err := json.Marshal(event)
	if err != nil {
		log.Printf("wsTracer Marshal error %v on %#v", err, event)
		return
	}
	if err = t.c.WriteMessage(websocket.TextMessage, js); err != nil {
		log.Printf("wsTracer write error %v", err)
	}
}

func (t *wsTracer) sides(pairs []core.Pair) (string, string) {
	var lex, surf strings.Builder
	for _, p := range pairs {
		if p.In != t.null {
			lex.WriteString(p.In)
		}
		if p.Out != t.null {
			surf.WriteString(p.Out)
		}
	}
	return lex.String(), surf.String()
}

func (t *wsTracer) Step(pairs []core.Pair, current core.Pair, rules []*core.Rule, prev, next []int, morphState, word string) {
	lex, surf := t.sides(pairs)
	event := &TraceEvent{
		Type:       "step",
		Lexical:    lex,
		Surface:    surf,
		Pair:       fmt.Sprintf("%s:%s", current.In, current.Out),
		MorphState: morphState,
		Word:       word,
	}
	for i, rule := range rules {
		if next[i] == core.Reject {
			event.Blocked = append(event.Blocked, rule.Name())
		}
	}
	t.send(event)
}

func (t *wsTracer) Succeed(pairs []core.Pair) {
	lex, surf := t.sides(pairs)
	t.send(&TraceEvent{Type: "success", Lexical: lex, Surface: surf})
}

// HandleTrace is the GET /ws/trace handler.  Each message the client
// sends is an AnalyzeRequest; the service streams a TraceEvent per
// search step and then the final result.
func (s *Service) HandleTrace(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{} // use default options

	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade error", err)
		return
	}
	defer c.Close()

	s.logf("HandleTrace connection from %s", c.RemoteAddr())

	tracer := &wsTracer{c: c, null: s.rs.Null()}

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			log.Println("read error", err)
			break
		}

		var req AnalyzeRequest
		if err := json.Unmarshal(message, &req); err != nil {
			tracer.send(&TraceEvent{Type: "error", Error: fmt.Sprintf("can't parse: %v", err)})
			continue
		}

		resp := &AnalyzeResponse{Op: req.Op, Input: req.Input}
		switch req.Op {
		case OpGenerate:
			resp.Surfaces = s.rs.Generate(req.Input, tracer)
		case OpRecognize:
			resp.Analyses = s.rs.Recognize(req.Input, tracer)
		default:
			tracer.send(&TraceEvent{Type: "error", Error: fmt.Sprintf("unknown op %q", req.Op)})
			continue
		}

		tracer.send(&TraceEvent{Type: "result", Result: resp})
	}
}
