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
package api

import "errors"

type Ingest struct {
	Type string    `yaml:"type" json:"type" enum:"IngestTypeEnum" doc:"one of the following:"`
	File string    `yaml:"file,omitempty" json:"file,omitempty" doc:"path of the input file, for type file"`
	S3   *S3Object `yaml:"s3,omitempty" json:"s3,omitempty" doc:"input object, for type s3"`
}

type IngestTypeEnum struct {
	File  string `yaml:"file" doc:"read records from a local file"`
	Stdin string `yaml:"stdin" doc:"read records from the standard input"`
	S3    string `yaml:"s3" doc:"read records from an S3 object"`
}

func IngestTypeName(t string) string {
	return GetEnumName(IngestTypeEnum{}, t)
}

func (i *Ingest) SetDefaults() {
	if i.Type == "" {
		if i.File == "" || i.File == "-" {
			i.Type = IngestTypeName("Stdin")
		} else {
			i.Type = IngestTypeName("File")
		}
	}
	if i.S3 != nil {
		i.S3.SetDefaults()
	}
}

func (i *Ingest) Validate() error {
	switch i.Type {
	case IngestTypeName("File"):
		if i.File == "" {
			return errors.New("ingest file can't be empty")
		}
	case IngestTypeName("Stdin"):
	case IngestTypeName("S3"):
		return i.S3.Validate()
	default:
		return errors.New("unknown ingest type " + i.Type)
	}
	return nil
}
