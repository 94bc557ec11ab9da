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

// Package trie resolves overlapping prefixes with a binary trie over the address
// bits. Prefixes are inserted broadest first; a narrower prefix passing through a
// leaf splits it so that both the old and the new coverage survive. Flatten turns
// the result back into disjoint prefixes.
package trie

import (
	"iter"
	"strings"

	"github.com/netobserv/prefix-resolver/pkg/prefix"
)

// State is the state of one child slot of a trie node.
type State uint8

const (
	// Empty slots cover nothing.
	Empty State = iota
	// Internal slots own a child node.
	Internal
	// Leaf slots carry the label of every address below them.
	Leaf
)

func (s State) String() string {
	switch s {
	case Internal:
		return "internal"
	case Leaf:
		return "leaf"
	}
	return "empty"
}

// slot is a tagged variant: child is only set for Internal, label only for Leaf.
type slot struct {
	state State
	child *node
	label string
}

func leafSlot(label string) slot {
	return slot{state: Leaf, label: label}
}

type node struct {
	slots [2]slot
}

// Trie is the overlap resolution trie. A node reached after k bits sits at depth k
// and a leaf in one of its slots stands for a prefix of length k+1.
// It is not safe for concurrent use.
type Trie struct {
	root     *node
	nodes    []*node
	networks int
	observer Observer
}

type Option func(*Trie)

// WithObserver installs an observer notified of every insertion step.
func WithObserver(o Observer) Option {
	return func(t *Trie) {
		t.observer = o
	}
}

func New(opts ...Option) *Trie {
	t := &Trie{observer: NopObserver{}}
	for _, opt := range opts {
		opt(t)
	}
	t.root = t.newNode()
	return t
}

func (t *Trie) newNode() *node {
	n := &node{}
	t.nodes = append(t.nodes, n)
	return n
}

// Insert adds p with its label. Callers must insert in non-decreasing prefix
// length order; a narrower prefix inserted before a broader overlapping one
// leaves the overlap unresolved. Inserting the same prefix twice keeps the last label.
func (t *Trie) Insert(p prefix.Prefix, label string) {
	t.networks++
	t.observer.Inserting(p, label)

	if p.Len == 0 {
		// the whole space: both halves at the root
		t.root.slots[0] = leafSlot(label)
		t.root.slots[1] = leafSlot(label)
		t.observer.Attached(0, 0, label)
		t.observer.Attached(0, 1, label)
		return
	}

	n := t.root
	last := p.Len - 1
	for depth := 0; depth < last; depth++ {
		bit := p.Bits.Bit(depth)
		next := p.Bits.Bit(depth + 1)
		s := &n.slots[bit]
		t.observer.Step(depth, bit, s.state, next)
		switch s.state {
		case Empty:
			*s = slot{state: Internal, child: t.newNode()}
		case Leaf:
			// a broader prefix ends here: keep its label on the sibling range,
			// and on the path too while the walk is not at its last step
			old := s.label
			split := t.newNode()
			split.slots[next^1] = leafSlot(old)
			passThrough := depth+1 < last
			if passThrough {
				split.slots[next] = leafSlot(old)
			}
			*s = slot{state: Internal, child: split}
			t.observer.Split(depth, old, next, passThrough)
		}
		n = s.child
	}

	bit := p.Bits.Bit(last)
	n.slots[bit] = leafSlot(label)
	t.observer.Attached(last, bit, label)
}

// Load inserts every record in iteration order, see Insert for the ordering contract.
func (t *Trie) Load(records iter.Seq[prefix.Record]) {
	for rec := range records {
		t.Insert(rec.Prefix, rec.Label)
	}
}

// Networks returns the number of Insert calls.
func (t *Trie) Networks() int {
	return t.networks
}

// Nodes returns the number of nodes created, root included.
func (t *Trie) Nodes() int {
	return len(t.nodes)
}

// Dump renders every node in creation order as " ['a', 'b']", with x for an
// empty slot, i for an internal one and the label for a leaf.
func (t *Trie) Dump() string {
	var sb strings.Builder
	for _, n := range t.nodes {
		sb.WriteString(" ['")
		sb.WriteString(dumpSlot(n.slots[0]))
		sb.WriteString("', '")
		sb.WriteString(dumpSlot(n.slots[1]))
		sb.WriteString("']")
	}
	return sb.String()
}

func dumpSlot(s slot) string {
	switch s.state {
	case Internal:
		return "i"
	case Leaf:
		return s.label
	}
	return "x"
}
