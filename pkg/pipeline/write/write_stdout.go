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
	"io"
	"iter"
	"os"

	"github.com/netobserv/prefix-resolver/pkg/api"
	"github.com/netobserv/prefix-resolver/pkg/prefix"
	log "github.com/sirupsen/logrus"
)

type writeStdout struct {
	format string
	out    io.Writer
}

// Write prints the records to the standard output
func (t *writeStdout) Write(ctx context.Context, records iter.Seq[prefix.Record]) error {
	log.Debugf("entering writeStdout Write")
	n, err := encode(ctx, t.out, t.format, records)
	log.Debugf("writeStdout: number of entries = %d", n)
	return err
}

// NewWriteStdout create a new write
func NewWriteStdout(params api.Write) (Writer, error) {
	log.Debugf("entering NewWriteStdout")
	return &writeStdout{
		format: params.Format,
		out:    os.Stdout,
	}, nil
}
