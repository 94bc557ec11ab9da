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

package trie

import (
	"slices"
	"testing"

	"github.com/netobserv/prefix-resolver/pkg/prefix"
	"github.com/netobserv/prefix-resolver/pkg/store"
	"github.com/netobserv/prefix-resolver/pkg/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flattened(t *Trie) []string {
	var out []string
	for r := range Flatten(t).All() {
		out = append(out, r.String())
	}
	return out
}

func resolve(in *store.Store) *store.Store {
	tr := New()
	tr.Load(in.All())
	return Flatten(tr)
}

func TestFlatten_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		inputs   []string
		expected []string
	}{
		{
			name:     "narrower half overrides",
			inputs:   []string{"8000::/1", "c000::/2"},
			expected: []string{"8000::/2 1", "c000::/2 2"},
		},
		{
			name:     "two levels down",
			inputs:   []string{"8000::/1", "a000::/3"},
			expected: []string{"c000::/2 1", "8000::/3 1", "a000::/3 3"},
		},
		{
			name:     "same stem one bit later",
			inputs:   []string{"8000::/2", "8000::/3"},
			expected: []string{"8000::/3 3", "a000::/3 2"},
		},
		{
			name:     "two pass-through levels",
			inputs:   []string{"8000::/2", "9000::/4"},
			expected: []string{"a000::/3 2", "8000::/4 2", "9000::/4 4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			insertByLength(tr, tt.inputs...)
			require.Equal(t, tt.expected, flattened(tr))
		})
	}
}

func TestFlatten_RoundTripDisjoint(t *testing.T) {
	in := store.New()
	require.NoError(t, in.Load(slices.Values([]string{
		"2001:db8::/32 doc",
		"fe80::/10 link",
		"10.0.0.0/8 rfc1918-a",
		"192.168.0.0/16 rfc1918-c",
		"172.16.0.0/12 rfc1918-b",
		"::1/128 loopback",
		"2001:db9::/32 next",
	})))
	out := resolve(in)
	assert.Equal(t, test.Sorted(in), test.Sorted(out))
	assert.Equal(t, in.Count(), out.Count())
}

func TestFlatten_Gaps(t *testing.T) {
	// nothing is invented between unrelated prefixes
	tr := New()
	tr.Insert(prefix.MustParse("::/8"), "low")
	tr.Insert(prefix.MustParse("ff00::/8"), "high")
	assert.Equal(t, []string{"::/8 low", "ff00::/8 high"}, flattened(tr))
}

func TestFlatten_WholeSpace(t *testing.T) {
	tr := New()
	tr.Insert(prefix.MustParse("::/0"), "all")
	once := flattened(tr)
	assert.Equal(t, []string{"::/1 all", "8000::/1 all"}, once)

	// the halves are a fixed point
	in := store.New()
	require.NoError(t, in.Load(slices.Values(once)))
	assert.Equal(t, once, test.Lines(slices.Collect(resolve(in).All())))
}

func TestFlatten_Idempotent(t *testing.T) {
	prng := test.NewPRNG()
	in := test.StoreOf(test.RandomRecords(prng, 300, 24)...)
	once := resolve(in)
	twice := resolve(once)
	assert.Equal(t, test.Sorted(once), test.Sorted(twice))
}

func TestFlatten_Properties(t *testing.T) {
	prng := test.NewPRNG()
	for round := range 5 {
		in := test.StoreOf(test.RandomRecords(prng, 200, 20+round*4)...)
		out := resolve(in)
		oracle := test.Oracle(in)

		var outs []prefix.Record
		prevLen := -1
		for r := range out.All() {
			// ascending length
			require.GreaterOrEqual(t, r.Prefix.Len, prevLen)
			prevLen = r.Prefix.Len
			// narrowest wins and nothing is gained
			lbl, ok := oracle.LookupPrefix(r.Prefix.NetIP())
			require.True(t, ok, "%s is not covered by the input", r.Prefix)
			require.Equal(t, lbl, r.Label, r.Prefix.String())
			outs = append(outs, r)
		}

		// disjointness
		for i := range outs {
			for j := i + 1; j < len(outs); j++ {
				require.False(t, outs[i].Prefix.Contains(outs[j].Prefix), "%s contains %s", outs[i].Prefix, outs[j].Prefix)
				require.False(t, outs[j].Prefix.Contains(outs[i].Prefix), "%s contains %s", outs[j].Prefix, outs[i].Prefix)
			}
		}

		// nothing is lost: every covered address maps to exactly one output with the same label
		for range 2000 {
			addr := prefix.New(test.RandomBits(prng), prefix.Width)
			lbl, covered := oracle.LookupPrefix(addr.NetIP())
			var found []prefix.Record
			for _, o := range outs {
				if o.Prefix.Contains(addr) {
					found = append(found, o)
				}
			}
			if !covered {
				require.Empty(t, found, addr.String())
				continue
			}
			require.Len(t, found, 1, addr.String())
			require.Equal(t, lbl, found[0].Label, addr.String())
		}
	}
}
