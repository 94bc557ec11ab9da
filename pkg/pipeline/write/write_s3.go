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
	"bytes"
	"context"
	"io"
	"iter"

	minio "github.com/minio/minio-go/v7"
	"github.com/netobserv/prefix-resolver/pkg/api"
	"github.com/netobserv/prefix-resolver/pkg/pipeline/utils"
	"github.com/netobserv/prefix-resolver/pkg/prefix"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type writeS3 struct {
	s3Params     api.S3Object
	format       string
	objectPutter objectPutter
}

type objectPutter interface {
	putObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, contentType string) error
}

type minioPutter struct {
	client *minio.Client
}

func (p *minioPutter) putObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, contentType string) error {
	info, err := p.client.PutObject(ctx, bucket, object, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return err
	}
	log.Debugf("uploaded %s/%s, %d bytes, etag %s", info.Bucket, info.Key, info.Size, info.ETag)
	return nil
}

// Write uploads all records as a single object
func (t *writeS3) Write(ctx context.Context, records iter.Seq[prefix.Record]) error {
	log.Debugf("entering writeS3 Write")
	var b bytes.Buffer
	n, err := encode(ctx, &b, t.format, records)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, t.s3Params.Timeout.Duration)
	defer cancel()
	name := "s3://" + t.s3Params.Bucket + "/" + t.s3Params.Object
	if err := t.objectPutter.putObject(ctx, t.s3Params.Bucket, t.s3Params.Object, &b, int64(b.Len()), contentType(t.format)); err != nil {
		return errors.Wrapf(err, "can't upload %s", name)
	}
	log.Infof("Wrote %d prefixes to %s", n, name)
	return nil
}

// NewWriteS3 create a new write
func NewWriteS3(params api.Write) (Writer, error) {
	log.Debugf("entering NewWriteS3")
	if params.S3 == nil {
		return nil, errors.New("write s3 configuration not specified")
	}
	client, err := utils.NewS3Client(params.S3)
	if err != nil {
		return nil, errors.Wrap(err, "can't create s3 client")
	}
	s3Params := *params.S3
	s3Params.SetDefaults()
	return &writeS3{
		s3Params:     s3Params,
		format:       params.Format,
		objectPutter: &minioPutter{client: client},
	}, nil
}
