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

const TagYaml = "yaml"
const TagDoc = "doc"
const TagEnum = "enum"

// Note: items beginning with doc: "## title" are top level items that get divided into sections inside api.md.

type API struct {
	Ingest   Ingest   `yaml:"ingest" doc:"## Ingest API\nFollowing is the supported API format for reading prefix records:\n"`
	Write    Write    `yaml:"write" doc:"## Write API\nFollowing is the supported API format for writing resolved prefix records:\n"`
	S3Object S3Object `yaml:"s3" doc:"## S3 object API\nFollowing is the supported API format for S3 objects used by ingest and write:\n"`
}
