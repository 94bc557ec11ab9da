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

package test

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/gaissmai/bart"
	"github.com/netobserv/prefix-resolver/pkg/prefix"
	"github.com/netobserv/prefix-resolver/pkg/store"
)

// NewPRNG returns a deterministic generator for reproducible random tests.
func NewPRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 42))
}

// RandomRecords returns n records with lengths up to maxLen. The leading bits
// are drawn from a small space so that many prefixes overlap.
func RandomRecords(prng *rand.Rand, n, maxLen int) []prefix.Record {
	recs := make([]prefix.Record, 0, n)
	for i := range n {
		recs = append(recs, prefix.Record{
			Prefix: prefix.New(RandomBits(prng), prng.IntN(maxLen+1)),
			Label:  fmt.Sprintf("L%d", i),
		})
	}
	return recs
}

// RandomBits draws the first 12 bits from a handful of values, the rest uniformly.
func RandomBits(prng *rand.Rand) prefix.Uint128 {
	top := uint64(prng.IntN(4)) << 62
	top |= uint64(prng.IntN(8)) << 52
	return prefix.Uint128{
		Hi: top | prng.Uint64()>>12,
		Lo: prng.Uint64(),
	}
}

// Lines renders records as input text lines.
func Lines(recs []prefix.Record) []string {
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, r.String())
	}
	return lines
}

// StoreOf loads records into a new store.
func StoreOf(recs ...prefix.Record) *store.Store {
	s := store.New()
	for _, r := range recs {
		s.Add(r)
	}
	return s
}

// Sorted returns the records of s as sorted text lines, to compare sets.
func Sorted(s *store.Store) []string {
	var out []string
	for r := range s.All() {
		out = append(out, r.String())
	}
	slices.Sort(out)
	return out
}

// Text returns the records of s in iteration order, one "<cidr> <label>" line each.
func Text(s *store.Store) string {
	var sb strings.Builder
	for r := range s.All() {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Oracle builds a longest-prefix-match table from s, replaying it in iteration
// order so that a duplicate prefix keeps its last label.
func Oracle(s *store.Store) *bart.Table[string] {
	tbl := new(bart.Table[string])
	for r := range s.All() {
		tbl.Insert(r.Prefix.NetIP(), r.Label)
	}
	return tbl
}
