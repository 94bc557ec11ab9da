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
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/prefix-resolver/pkg/api"
	"github.com/netobserv/prefix-resolver/pkg/prefix"
)

// Writer outputs a resolved record set.
type Writer interface {
	Write(ctx context.Context, records iter.Seq[prefix.Record]) error
}

func NewWriter(params api.Write) (Writer, error) {
	switch params.Type {
	case api.WriteTypeName("File"):
		return NewWriteFile(params)
	case api.WriteTypeName("Stdout"):
		return NewWriteStdout(params)
	case api.WriteTypeName("S3"):
		return NewWriteS3(params)
	}
	return nil, fmt.Errorf("unknown write type %s", params.Type)
}

// contextCheckInterval is how many records are encoded between two context checks.
const contextCheckInterval = 1024

type jsonRecord struct {
	Prefix string `json:"prefix"`
	Label  string `json:"label"`
}

// encode writes records to w, one line each, in the given format.
// It returns the number of records written.
func encode(ctx context.Context, w io.Writer, format string, records iter.Seq[prefix.Record]) (int, error) {
	bw := bufio.NewWriter(w)
	var line func(prefix.Record) error
	switch format {
	case api.WriteFormatName("JSON"):
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(bw)
		line = func(r prefix.Record) error {
			return enc.Encode(jsonRecord{Prefix: r.Prefix.String(), Label: r.Label})
		}
	case api.WriteFormatName("Text"), "":
		line = func(r prefix.Record) error {
			_, err := fmt.Fprintf(bw, "%s %s\n", r.Prefix, r.Label)
			return err
		}
	default:
		return 0, fmt.Errorf("unknown write format %s", format)
	}

	n := 0
	for r := range records {
		if n%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		if err := line(r); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

func contentType(format string) string {
	if format == api.WriteFormatName("JSON") {
		return "application/x-ndjson"
	}
	return "text/plain"
}
