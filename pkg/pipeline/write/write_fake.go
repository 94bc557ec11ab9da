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
package write

import (
	"context"
	"iter"

	"github.com/netobserv/prefix-resolver/pkg/prefix"
	log "github.com/sirupsen/logrus"
)

type WriteFake struct {
	AllRecords []prefix.Record
	Err        error
	Calls      int
}

// Write stores in memory all records, or fails with Err when set.
func (w *WriteFake) Write(_ context.Context, records iter.Seq[prefix.Record]) error {
	log.Debugf("entering writeFake Write")
	w.Calls++
	if w.Err != nil {
		return w.Err
	}
	for r := range records {
		w.AllRecords = append(w.AllRecords, r)
	}
	log.Debugf("writeFake: number of entries = %d", len(w.AllRecords))
	return nil
}

// NewWriteFake creates a new write.
func NewWriteFake() *WriteFake {
	log.Debugf("entering NewWriteFake")
	return &WriteFake{}
}
