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

type Write struct {
	Type   string    `yaml:"type" json:"type" enum:"WriteTypeEnum" doc:"one of the following:"`
	File   string    `yaml:"file,omitempty" json:"file,omitempty" doc:"path of the output file, for type file"`
	Format string    `yaml:"format,omitempty" json:"format,omitempty" enum:"WriteFormatEnum" doc:"format of each line, one of the following:"`
	S3     *S3Object `yaml:"s3,omitempty" json:"s3,omitempty" doc:"output object, for type s3"`
}

type WriteTypeEnum struct {
	File   string `yaml:"file" doc:"write records to a local file, replacing it"`
	Stdout string `yaml:"stdout" doc:"write records to the standard output"`
	S3     string `yaml:"s3" doc:"upload records as a single S3 object"`
}

func WriteTypeName(t string) string {
	return GetEnumName(WriteTypeEnum{}, t)
}

type WriteFormatEnum struct {
	Text string `yaml:"text" doc:"<cidr> <label>, the input format (default)"`
	JSON string `yaml:"json" doc:"one JSON object per line with prefix and label fields"`
}

func WriteFormatName(f string) string {
	return GetEnumName(WriteFormatEnum{}, f)
}

func (w *Write) SetDefaults() {
	if w.Type == "" {
		if w.File == "" || w.File == "-" {
			w.Type = WriteTypeName("Stdout")
		} else {
			w.Type = WriteTypeName("File")
		}
	}
	if w.Format == "" {
		w.Format = WriteFormatName("Text")
	}
	if w.S3 != nil {
		w.S3.SetDefaults()
	}
}

func (w *Write) Validate() error {
	switch w.Format {
	case WriteFormatName("Text"), WriteFormatName("JSON"):
	default:
		return errors.New("unknown write format " + w.Format)
	}
	switch w.Type {
	case WriteTypeName("File"):
		if w.File == "" {
			return errors.New("write file can't be empty")
		}
	case WriteTypeName("Stdout"):
	case WriteTypeName("S3"):
		return w.S3.Validate()
	default:
		return errors.New("unknown write type " + w.Type)
	}
	return nil
}
