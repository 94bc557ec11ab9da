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

// Package verify cross-checks a resolved prefix set against its input using an
// independent longest-prefix-match table.
package verify

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/gaissmai/bart"
	"github.com/netobserv/prefix-resolver/pkg/prefix"
	"github.com/netobserv/prefix-resolver/pkg/store"
	log "github.com/sirupsen/logrus"
)

const maxListed = 10

var ErrVerification = errors.New("verification failed")

// Report summarizes a Check run.
type Report struct {
	InputPrefixes  int
	OutputPrefixes int
	Violations     int
	// Listed holds the first violations found, at most 10.
	Listed []string
}

func (r *Report) add(format string, args ...any) {
	r.Violations++
	if len(r.Listed) < maxListed {
		r.Listed = append(r.Listed, fmt.Sprintf(format, args...))
	}
}

// Check verifies that output is a valid resolution of input:
//   - no output prefix overlaps another
//   - each output prefix carries the label of its most specific covering input prefix
//   - each input prefix is exactly tiled by the output prefixes it contains
//
// A non-nil error wraps ErrVerification.
func Check(input, output *store.Store) (Report, error) {
	log.Debugf("entering verify.Check")
	report := Report{InputPrefixes: input.Count(), OutputPrefixes: output.Count()}

	inTbl := new(bart.Table[string])
	for r := range input.All() {
		inTbl.Insert(r.Prefix.NetIP(), r.Label)
	}

	// output.All is ascending by length, so a containing prefix is always seen first
	outTbl := new(bart.Table[string])
	for r := range output.All() {
		pfx := r.Prefix.NetIP()
		if lbl, ok := outTbl.LookupPrefix(pfx); ok {
			report.add("%s: overlaps an earlier output labelled %s", r.Prefix, lbl)
		}
		outTbl.Insert(pfx, r.Label)

		lbl, ok := inTbl.LookupPrefix(pfx)
		switch {
		case !ok:
			report.add("%s: not covered by any input prefix", r.Prefix)
		case lbl != r.Label:
			report.add("%s: labelled %s, most specific input says %s", r.Prefix, r.Label, lbl)
		}
	}

	seen := map[prefix.Prefix]struct{}{}
	for r := range input.All() {
		if _, dup := seen[r.Prefix]; dup {
			continue
		}
		seen[r.Prefix] = struct{}{}
		covered := new(big.Int)
		for sub := range outTbl.Subnets(r.Prefix.NetIP()) {
			covered.Add(covered, size(sub.Bits()))
		}
		if want := size(r.Prefix.Len); covered.Cmp(want) != 0 {
			report.add("%s: output covers %s of %s addresses", r.Prefix, covered, want)
		}
	}

	if report.Violations > 0 {
		return report, fmt.Errorf("%w: %d violations: %s", ErrVerification, report.Violations, strings.Join(report.Listed, "; "))
	}
	return report, nil
}

// size returns the number of addresses in a prefix of the given length.
func size(length int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(prefix.Width-length))
}
