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
	"fmt"
	"strconv"
	"testing"

	"github.com/netobserv/prefix-resolver/pkg/prefix"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// insertByLength labels every prefix with its length, as the dump expectations do.
func insertByLength(t *Trie, cidrs ...string) {
	for _, c := range cidrs {
		p := prefix.MustParse(c)
		t.Insert(p, strconv.Itoa(p.Len))
	}
}

func TestInsert_Dump(t *testing.T) {
	tests := []struct {
		name     string
		inputs   []string
		expected string
	}{
		{
			name:     "1bit prefix then 2bit prefix (next level)",
			inputs:   []string{"8000::/1", "c000::/2"},
			expected: " ['x', 'i'] ['1', '2']",
		},
		{
			name:     "1bit prefix then 3bit prefix (two levels down)",
			inputs:   []string{"8000::/1", "a000::/3"},
			expected: " ['x', 'i'] ['i', '1'] ['1', '3']",
		},
		{
			name:     "2bit prefix then 3bit prefix (next level)",
			inputs:   []string{"8000::/2", "8000::/3"},
			expected: " ['x', 'i'] ['i', 'x'] ['3', '2']",
		},
		{
			name:     "2bit prefix then 4bit prefix (two levels down)",
			inputs:   []string{"8000::/2", "9000::/4"},
			expected: " ['x', 'i'] ['i', 'x'] ['i', '2'] ['2', '4']",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			insertByLength(tr, tt.inputs...)
			require.Equal(t, tt.expected, tr.Dump())
			require.Equal(t, len(tt.inputs), tr.Networks())
		})
	}
}

func TestInsert_Empty(t *testing.T) {
	tr := New()
	assert.Equal(t, " ['x', 'x']", tr.Dump())
	assert.Equal(t, 1, tr.Nodes())
	assert.Zero(t, Flatten(tr).Count())
}

func TestInsert_RootLengths(t *testing.T) {
	tr := New()
	tr.Insert(prefix.MustParse("::/0"), "all")
	assert.Equal(t, " ['all', 'all']", tr.Dump())

	tr.Insert(prefix.MustParse("8000::/1"), "top")
	assert.Equal(t, " ['all', 'top']", tr.Dump())
	assert.Equal(t, 1, tr.Nodes())

	assert.Equal(t, []string{"::/1 all", "8000::/1 top"}, flattened(tr))
}

func TestInsert_Duplicate(t *testing.T) {
	tr := New()
	tr.Insert(prefix.MustParse("8000::/2"), "A")
	tr.Insert(prefix.MustParse("8000::/2"), "B")
	assert.Equal(t, []string{"8000::/2 B"}, flattened(tr))
	assert.Equal(t, 2, tr.Networks())
	assert.Equal(t, 2, tr.Nodes())
}

func TestInsert_NonOverlapping(t *testing.T) {
	tr := New()
	tr.Insert(prefix.MustParse("2001:db8::/32"), "doc")
	tr.Insert(prefix.MustParse("fe80::/10"), "link")
	assert.Equal(t, []string{"fe80::/10 link", "2001:db8::/32 doc"}, flattened(tr))
}

func TestInsert_HostRoute(t *testing.T) {
	tr := New()
	tr.Insert(prefix.MustParse("::/127"), "pair")
	tr.Insert(prefix.MustParse("::1/128"), "host")
	assert.Equal(t, []string{"::/128 pair", "::1/128 host"}, flattened(tr))
	// 126 nodes for the /127 walk, plus the split for the /128
	assert.Equal(t, 128, tr.Nodes())
}

func TestInsert_SplitValueSemantics(t *testing.T) {
	// splitting must not touch the label already attached at the sibling range,
	// nor the label of a split made for an earlier narrower prefix
	tr := New()
	tr.Insert(prefix.MustParse("8000::/1"), "one")
	tr.Insert(prefix.MustParse("8000::/3"), "three")
	tr.Insert(prefix.MustParse("c000::/3"), "three-b")
	tr.Insert(prefix.MustParse("8000::/5"), "five")
	assert.Equal(t, []string{
		"a000::/3 one",
		"c000::/3 three-b",
		"e000::/3 one",
		"9000::/4 three",
		"8000::/5 five",
		"8800::/5 three",
	}, flattened(tr))
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) Inserting(p prefix.Prefix, label string) {
	o.events = append(o.events, fmt.Sprintf("insert %s %s", p, label))
}

func (o *recordingObserver) Step(depth int, bit uint8, state State, nextBit uint8) {
	o.events = append(o.events, fmt.Sprintf("step %d %d %s %d", depth, bit, state, nextBit))
}

func (o *recordingObserver) Split(depth int, oldLabel string, nextBit uint8, passThrough bool) {
	o.events = append(o.events, fmt.Sprintf("split %d %s %d %t", depth, oldLabel, nextBit, passThrough))
}

func (o *recordingObserver) Attached(depth int, bit uint8, label string) {
	o.events = append(o.events, fmt.Sprintf("attach %d %d %s", depth, bit, label))
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	tr := New(WithObserver(obs))
	insertByLength(tr, "8000::/1", "a000::/3")
	assert.Equal(t, []string{
		"insert 8000::/1 1",
		"attach 0 1 1",
		"insert a000::/3 3",
		"step 0 1 leaf 0",
		"split 0 1 0 true",
		"step 1 0 leaf 1",
		"split 1 1 1 false",
		"attach 2 1 3",
	}, obs.events)
}

func TestLogObserver(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	tr := New(WithObserver(NewLogObserver(logger)))
	insertByLength(tr, "8000::/2", "9000::/4")

	entries := hook.AllEntries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "add", entries[0].Message)
	assert.Equal(t, "8000::/2", entries[0].Data["prefix"])
	last := hook.LastEntry()
	assert.Equal(t, "attach data to node", last.Message)
	assert.Equal(t, "4", last.Data["label"])

	var splits int
	for _, e := range entries {
		if e.Message == "split leaf" {
			splits++
		}
	}
	assert.Equal(t, 2, splits)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "internal", Internal.String())
	assert.Equal(t, "leaf", Leaf.String())
}
