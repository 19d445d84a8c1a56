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
	"log"
	"time"

	bolt "go.etcd.io/bbolt"
)

var cacheBucket = []byte("analyses")

// Storage is a persistent cache of analysis results.  A compiled
// ruleset always returns the same results for the same input, so
// entries never go stale while the ruleset file is unchanged.
type Storage struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

// NewStorage takes a filename and returns a Storage object.  Call
// Open before use.
func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		filename: filename,
	}, nil
}

func (s *Storage) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	if err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	}); err != nil {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("Storage."+format, args...)
	}
}

func cacheKey(op, input string) []byte {
	return append(append([]byte(op), 0), input...)
}

// Get returns the cached response body for an operation, if any.
func (s *Storage) Get(op, input string) ([]byte, bool, error) {
	var bs []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(cacheBucket).Get(cacheKey(op, input)); v != nil {
			bs = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	s.logf("Get %s %q hit=%v", op, input, bs != nil)
	return bs, bs != nil, nil
}

// Put stores a response body for an operation.
func (s *Storage) Put(op, input string, bs []byte) error {
	s.logf("Put %s %q (%d bytes)", op, input, len(bs))
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put(cacheKey(op, input), bs)
	})
}
