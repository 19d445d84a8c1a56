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
	"io/ioutil"
	"path/filepath"
	"regexp"
)

var inlinePattern = regexp.MustCompile(`%inline *\("([^"]*)"\)`)

// Inline replaces '%inline("NAME")' with f(NAME).  Handy for keeping
// large rule tables and lexicons in their own files while documenting
// a ruleset.
func Inline(bs []byte, f func(string) ([]byte, error)) ([]byte, error) {
	var outer error
	acc := inlinePattern.ReplaceAllFunc(bs, func(match []byte) []byte {
		if outer != nil {
			return nil
		}
		name := inlinePattern.FindSubmatch(match)[1]
		replacement, err := f(string(name))
		if err != nil {
			outer = fmt.Errorf("inlining %s: %w", name, err)
			return nil
		}
		return replacement
	})
	if outer != nil {
		return nil, outer
	}
	return acc, nil
}

// ReadFileWithInlines is a replacement for ioutil.ReadFile that
// expands '%inline("NAME")' with the contents of NAME, resolved
// relative to the given file's directory.
func ReadFileWithInlines(filename string) ([]byte, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(filename)
	return Inline(bs, func(name string) ([]byte, error) {
		return ioutil.ReadFile(filepath.Join(dir, name))
	})
}
