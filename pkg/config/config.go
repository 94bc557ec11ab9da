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
package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/netobserv/prefix-resolver/pkg/api"
	"github.com/sirupsen/logrus"
)

const DefaultMetricsPrefix = "prefix_resolver_"

// Options is the resolver configuration, filled from flags, environment and config file.
type Options struct {
	LogLevel string          `yaml:"log-level,omitempty" json:"log-level,omitempty"`
	Trace    bool            `yaml:"trace,omitempty" json:"trace,omitempty"`
	Verify   bool            `yaml:"verify,omitempty" json:"verify,omitempty"`
	Ingest   api.Ingest      `yaml:"ingest" json:"ingest"`
	Write    api.Write       `yaml:"write" json:"write"`
	Metrics  MetricsSettings `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

type MetricsSettings struct {
	File   string `yaml:"file,omitempty" json:"file,omitempty" doc:"textfile collector file to write metrics into after the run (default: disabled)"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty" doc:"prefix for names of the operational metrics"`
}

// NewOptions returns Options with the S3 sections allocated, so that flags can be bound to them.
func NewOptions() Options {
	return Options{
		Ingest: api.Ingest{S3: &api.S3Object{}},
		Write:  api.Write{S3: &api.S3Object{}},
	}
}

// ParseConfig applies defaults to a copy of opts and validates it.
func ParseConfig(opts *Options) (Options, error) {
	logrus.Debugf("entering ParseConfig")
	out := *opts
	if out.Ingest.S3 != nil {
		s3 := *out.Ingest.S3
		out.Ingest.S3 = &s3
	}
	if out.Write.S3 != nil {
		s3 := *out.Write.S3
		out.Write.S3 = &s3
	}
	out.Ingest.SetDefaults()
	out.Write.SetDefaults()
	if out.Metrics.Prefix == "" {
		out.Metrics.Prefix = DefaultMetricsPrefix
	}

	if err := out.Ingest.Validate(); err != nil {
		return out, fmt.Errorf("invalid ingest configuration: %w", err)
	}
	if err := out.Write.Validate(); err != nil {
		return out, fmt.Errorf("invalid write configuration: %w", err)
	}
	if out.Ingest.Type == api.IngestTypeName("File") && out.Write.Type == api.WriteTypeName("File") && out.Ingest.File == out.Write.File {
		return out, fmt.Errorf("input and output are the same file: %s", out.Ingest.File)
	}
	logrus.Debugf("config = %+v", out)
	return out, nil
}

// Redacted returns a copy of o without credentials, for display.
func (o Options) Redacted() Options {
	o.Ingest.S3 = redactS3(o.Ingest.S3)
	o.Write.S3 = redactS3(o.Write.S3)
	return o
}

func redactS3(s *api.S3Object) *api.S3Object {
	if s == nil || s.SecretAccessKey == "" {
		return s
	}
	c := *s
	c.SecretAccessKey = "<redacted>"
	return &c
}

// JsonUnmarshalStrict is like Unmarshal except that any fields that are found
// in the data that do not have corresponding struct members, or mapping
// keys that are duplicates, will result in an error.
func JsonUnmarshalStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
