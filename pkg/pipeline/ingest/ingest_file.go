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
	"context"
	"io"
	"os"

	"github.com/netobserv/prefix-resolver/pkg/api"
	"github.com/netobserv/prefix-resolver/pkg/store"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type ingestFile struct {
	fileName string
}

// Ingest reads all records of the file
func (r *ingestFile) Ingest(ctx context.Context) (*store.Store, error) {
	file, err := os.Open(r.fileName)
	if err != nil {
		return nil, errors.Wrap(err, "can't open input")
	}
	defer func() {
		_ = file.Close()
	}()

	s, err := loadLines(ctx, file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", r.fileName)
	}
	log.Infof("Ingested %d prefixes from %s", s.Count(), r.fileName)
	return s, nil
}

// NewIngestFile create a new ingester
func NewIngestFile(params api.Ingest) (Ingester, error) {
	log.Debugf("entering NewIngestFile")
	if params.File == "" {
		return nil, errors.New("ingest filename not specified")
	}
	log.Infof("input file name = %s", params.File)
	return &ingestFile{fileName: params.File}, nil
}

type ingestReader struct {
	name string
	in   io.Reader
}

func (r *ingestReader) Ingest(ctx context.Context) (*store.Store, error) {
	s, err := loadLines(ctx, r.in)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", r.name)
	}
	log.Infof("Ingested %d prefixes from %s", s.Count(), r.name)
	return s, nil
}

// NewIngestStdin creates an ingester reading the standard input
func NewIngestStdin() Ingester {
	log.Debugf("entering NewIngestStdin")
	return &ingestReader{name: "stdin", in: os.Stdin}
}
