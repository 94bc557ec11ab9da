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

	minio "github.com/minio/minio-go/v7"
	"github.com/netobserv/prefix-resolver/pkg/api"
	"github.com/netobserv/prefix-resolver/pkg/pipeline/utils"
	"github.com/netobserv/prefix-resolver/pkg/store"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type ingestS3 struct {
	s3Params     api.S3Object
	objectGetter objectGetter
}

type objectGetter interface {
	getObject(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

type minioGetter struct {
	client *minio.Client
}

func (g *minioGetter) getObject(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	obj, err := g.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Ingest downloads the object and reads all its records
func (r *ingestS3) Ingest(ctx context.Context) (*store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, r.s3Params.Timeout.Duration)
	defer cancel()

	name := "s3://" + r.s3Params.Bucket + "/" + r.s3Params.Object
	obj, err := r.objectGetter.getObject(ctx, r.s3Params.Bucket, r.s3Params.Object)
	if err != nil {
		return nil, errors.Wrapf(err, "can't get %s", name)
	}
	defer func() {
		_ = obj.Close()
	}()

	s, err := loadLines(ctx, obj)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	log.Infof("Ingested %d prefixes from %s", s.Count(), name)
	return s, nil
}

// NewIngestS3 creates an ingester reading one S3 object
func NewIngestS3(params api.Ingest) (Ingester, error) {
	log.Debugf("entering NewIngestS3")
	if params.S3 == nil {
		return nil, errors.New("ingest s3 configuration not specified")
	}
	client, err := utils.NewS3Client(params.S3)
	if err != nil {
		return nil, errors.Wrap(err, "can't create s3 client")
	}
	s3Params := *params.S3
	s3Params.SetDefaults()
	return &ingestS3{
		s3Params:     s3Params,
		objectGetter: &minioGetter{client: client},
	}, nil
}
