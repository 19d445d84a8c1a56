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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func inTempDir(t *testing.T) {
	t.Helper()
	dir, err := ioutil.TempDir("", "ktool-macros-test")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err = os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(wd)
		os.RemoveAll(dir)
	})
}

func TestMacroExpandDefault(t *testing.T) {
	inTempDir(t)

	x := map[string]interface{}{
		"name": "harmony",
	}

	got, err := MacroExpand(x)
	if err != nil {
		t.Fatal(err)
	}

	m, ok := got.(map[string]interface{})
	if !ok {
		t.Fatalf("%#v", got)
	}
	if m["name"] != "harmony" {
		t.Fatal(m)
	}
}

func TestMacroExpandDriver(t *testing.T) {
	inTempDir(t)

	driver := `function expand(x) { x.expanded = true; return x; }`
	if err := ioutil.WriteFile("driver.js", []byte(driver), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := MacroExpand(map[string]interface{}{"name": "harmony"})
	if err != nil {
		t.Fatal(err)
	}

	m, ok := got.(map[string]interface{})
	if !ok {
		t.Fatalf("%#v", got)
	}
	if m["expanded"] != true {
		t.Fatal(m)
	}
}

func TestMacroExpandMacros(t *testing.T) {
	inTempDir(t)

	if err := os.Mkdir("macros", 0755); err != nil {
		t.Fatal(err)
	}
	macro := `function expand(x) { x.rules = {}; return x; }`
	if err := ioutil.WriteFile(filepath.Join("macros", "rules.js"), []byte(macro), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := MacroExpand(map[string]interface{}{})
	if err != nil {
		t.Fatal(err)
	}

	m, ok := got.(map[string]interface{})
	if !ok {
		t.Fatalf("%#v", got)
	}
	if _, have := m["rules"]; !have {
		t.Fatal(m)
	}
}
