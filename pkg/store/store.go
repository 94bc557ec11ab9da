/*
 * Copyright (C) 2022 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package store keeps (prefix, label) records bucketed by prefix length, so that
// they can always be replayed broadest first whatever order they were read in.
package store

import (
	"iter"
	"strings"

	"github.com/netobserv/prefix-resolver/pkg/prefix"
	log "github.com/sirupsen/logrus"
)

// Store is a prefix collection grouped by prefix length.
type Store struct {
	levels [prefix.Width + 1][]prefix.Record
	count  int
}

func New() *Store {
	return &Store{}
}

// Load parses each line into a record and appends it to the bucket of its prefix
// length. Blank lines are skipped. The first malformed line aborts the load with a
// *prefix.ParseError, and the records added by this call are discarded.
func (s *Store) Load(lines iter.Seq[string]) error {
	var marks [prefix.Width + 1]int
	for l := range s.levels {
		marks[l] = len(s.levels[l])
	}
	countBefore := s.count

	lineNum := 0
	for text := range lines {
		lineNum++
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := prefix.ParseLine(text)
		if err != nil {
			for l := range s.levels {
				s.levels[l] = s.levels[l][:marks[l]]
			}
			s.count = countBefore
			return &prefix.ParseError{Line: lineNum, Text: text, Err: err}
		}
		s.Add(rec)
	}
	log.Debugf("store: loaded %d lines, %d records", lineNum, s.count-countBefore)
	return nil
}

// Add appends one record to the bucket of its prefix length.
func (s *Store) Add(rec prefix.Record) {
	s.levels[rec.Prefix.Len] = append(s.levels[rec.Prefix.Len], rec)
	s.count++
}

// All iterates over the records from length 0 to length Width,
// keeping insertion order within each length.
func (s *Store) All() iter.Seq[prefix.Record] {
	return func(yield func(prefix.Record) bool) {
		for l := range s.levels {
			for _, rec := range s.levels[l] {
				if !yield(rec) {
					return
				}
			}
		}
	}
}

// Count returns the number of records held.
func (s *Store) Count() int {
	return s.count
}

// CountByLength returns the number of records per prefix length, omitting empty lengths.
func (s *Store) CountByLength() map[int]int {
	counts := map[int]int{}
	for l := range s.levels {
		if n := len(s.levels[l]); n > 0 {
			counts[l] = n
		}
	}
	return counts
}
