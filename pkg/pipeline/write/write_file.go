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
	"iter"
	"os"
	"path/filepath"

	"github.com/netobserv/prefix-resolver/pkg/api"
	"github.com/netobserv/prefix-resolver/pkg/prefix"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type writeFile struct {
	fileName string
	format   string
}

// Write replaces the file with the records. The file is only replaced once
// every record has been written.
func (t *writeFile) Write(ctx context.Context, records iter.Seq[prefix.Record]) error {
	log.Debugf("entering writeFile Write")
	tmp, err := os.CreateTemp(filepath.Dir(t.fileName), "."+filepath.Base(t.fileName)+".*")
	if err != nil {
		return errors.Wrap(err, "can't create output")
	}
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmp.Name())
	}()

	n, err := encode(ctx, tmp, t.format, records)
	if err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", t.fileName)
	}
	// CreateTemp makes the file 0600: keep the mode of the file being replaced
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(t.fileName); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", t.fileName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", t.fileName)
	}
	if err := os.Rename(tmp.Name(), t.fileName); err != nil {
		return errors.Wrapf(err, "can't replace %s", t.fileName)
	}
	log.Infof("Wrote %d prefixes to %s", n, t.fileName)
	return nil
}

// NewWriteFile create a new write
func NewWriteFile(params api.Write) (Writer, error) {
	log.Debugf("entering NewWriteFile")
	if params.File == "" {
		return nil, errors.New("write filename not specified")
	}
	log.Infof("output file name = %s", params.File)
	return &writeFile{fileName: params.File, format: params.Format}, nil
}
