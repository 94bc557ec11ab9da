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
	"github.com/netobserv/prefix-resolver/pkg/prefix"
	"github.com/netobserv/prefix-resolver/pkg/store"
)

// Flatten walks t depth first, bit 0 before bit 1, and returns one record per
// leaf. The records are disjoint; empty slots are gaps and stay gaps.
// A whole-space ::/0 input comes out as its two /1 halves.
func Flatten(t *Trie) *store.Store {
	out := store.New()
	visit(out, t.root, prefix.Uint128{}, 0)
	return out
}

func visit(out *store.Store, n *node, bits prefix.Uint128, depth int) {
	for b, s := range n.slots {
		path := bits
		if b == 1 {
			path = bits.SetBit(depth)
		}
		switch s.state {
		case Internal:
			visit(out, s.child, path, depth+1)
		case Leaf:
			out.Add(prefix.Record{Prefix: prefix.New(path, depth+1), Label: s.label})
		}
	}
}
