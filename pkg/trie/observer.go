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
	"github.com/sirupsen/logrus"
)

// Observer is notified while prefixes are inserted. Depths are 0-based bit positions.
type Observer interface {
	// Inserting is called once per Insert, before any step.
	Inserting(p prefix.Prefix, label string)
	// Step is called for each bit walked before the last one, with the state
	// found in the slot selected by bit.
	Step(depth int, bit uint8, state State, nextBit uint8)
	// Split is called when a leaf found by Step is replaced by a new node.
	Split(depth int, oldLabel string, nextBit uint8, passThrough bool)
	// Attached is called when the label is written into its final slot.
	Attached(depth int, bit uint8, label string)
}

type NopObserver struct{}

func (NopObserver) Inserting(prefix.Prefix, string) {}
func (NopObserver) Step(int, uint8, State, uint8) {}
func (NopObserver) Split(int, string, uint8, bool) {}
func (NopObserver) Attached(int, uint8, string) {}

// LogObserver traces insertions at trace level.
type LogObserver struct {
	Log logrus.FieldLogger
}

func NewLogObserver(l logrus.FieldLogger) *LogObserver {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogObserver{Log: l}
}

func (o *LogObserver) Inserting(p prefix.Prefix, label string) {
	o.Log.WithField("prefix", p.String()).WithField("label", label).Trace("add")
}

func (o *LogObserver) Step(depth int, bit uint8, state State, nextBit uint8) {
	o.Log.WithFields(logrus.Fields{
		"level":         depth,
		"direction":     bit,
		"slot":          state.String(),
		"nextDirection": nextBit,
	}).Trace("walk")
}

func (o *LogObserver) Split(depth int, oldLabel string, nextBit uint8, passThrough bool) {
	o.Log.WithFields(logrus.Fields{
		"level":       depth,
		"label":       oldLabel,
		"openSlot":    nextBit,
		"passThrough": passThrough,
	}).Trace("split leaf")
}

func (o *LogObserver) Attached(depth int, bit uint8, label string) {
	o.Log.WithFields(logrus.Fields{
		"level":     depth,
		"direction": bit,
		"label":     label,
	}).Trace("attach data to node")
}
