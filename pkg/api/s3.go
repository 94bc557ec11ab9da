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

import (
	"errors"
	"time"
)

const defaultS3Timeout = time.Minute

type S3Object struct {
	Endpoint        string   `yaml:"endpoint" json:"endpoint" doc:"address of s3 server"`
	Bucket          string   `yaml:"bucket" json:"bucket" doc:"bucket holding the object"`
	Object          string   `yaml:"object" json:"object" doc:"name of the object"`
	AccessKeyID     string   `yaml:"accessKeyId" json:"accessKeyId" doc:"username to connect to server"`
	SecretAccessKey string   `yaml:"secretAccessKey" json:"-" doc:"password to connect to server"`
	Secure          bool     `yaml:"secure,omitempty" json:"secure,omitempty" doc:"use https to connect to server"`
	Timeout         Duration `yaml:"timeout,omitempty" json:"timeout,omitempty" doc:"timeout of the transfer (default: 1m)"`
}

func (s *S3Object) SetDefaults() {
	if s.Timeout.Duration == 0 {
		s.Timeout = Duration{Duration: defaultS3Timeout}
	}
}

func (s *S3Object) Validate() error {
	if s == nil {
		return errors.New("you must provide an s3 configuration")
	}
	if s.Endpoint == "" {
		return errors.New("s3 endpoint can't be empty")
	}
	if s.Bucket == "" {
		return errors.New("s3 bucket can't be empty")
	}
	if s.Object == "" {
		return errors.New("s3 object can't be empty")
	}
	return nil
}
