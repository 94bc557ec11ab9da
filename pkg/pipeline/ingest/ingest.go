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
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/netobserv/prefix-resolver/pkg/api"
	"github.com/netobserv/prefix-resolver/pkg/store"
)

// MaxLineSize is the longest input line accepted.
const MaxLineSize = 1024 * 1024

// Ingester reads a whole record set. On error no partial store is returned.
type Ingester interface {
	Ingest(ctx context.Context) (*store.Store, error)
}

func NewIngester(params api.Ingest) (Ingester, error) {
	switch params.Type {
	case api.IngestTypeName("File"):
		return NewIngestFile(params)
	case api.IngestTypeName("Stdin"):
		return NewIngestStdin(), nil
	case api.IngestTypeName("S3"):
		return NewIngestS3(params)
	}
	return nil, fmt.Errorf("unknown ingest type %s", params.Type)
}

// loadLines scans r into a new store. A cancelled context stops the scan.
func loadLines(ctx context.Context, r io.Reader) (*store.Store, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	var scanErr error
	lines := func(yield func(string) bool) {
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				scanErr = err
				return
			}
			if !yield(scanner.Text()) {
				return
			}
		}
		scanErr = scanner.Err()
	}

	s := store.New()
	if err := s.Load(lines); err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return s, nil
}
