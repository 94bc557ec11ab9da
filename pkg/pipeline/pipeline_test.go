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
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/netobserv/prefix-resolver/pkg/config"
	"github.com/netobserv/prefix-resolver/pkg/operational"
	"github.com/netobserv/prefix-resolver/pkg/pipeline/write"
	"github.com/netobserv/prefix-resolver/pkg/prefix"
	"github.com/netobserv/prefix-resolver/pkg/store"
	"github.com/netobserv/prefix-resolver/pkg/test"
	"github.com/netobserv/prefix-resolver/pkg/verify"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngester struct {
	lines []string
	clk   *clock.Mock
	err   error
}

func (f *fakeIngester) Ingest(_ context.Context) (*store.Store, error) {
	if f.clk != nil {
		f.clk.Add(2 * time.Second)
	}
	if f.err != nil {
		return nil, f.err
	}
	s := store.New()
	if err := s.Load(slices.Values(f.lines)); err != nil {
		return nil, err
	}
	return s, nil
}

func newTestPipeline(t *testing.T, cfg *config.Options, opts ...Option) *Pipeline {
	parsed, err := config.ParseConfig(cfg)
	require.NoError(t, err)
	p, err := NewPipeline(&parsed, opts...)
	require.NoError(t, err)
	return p
}

func TestRun(t *testing.T) {
	clk := clock.NewMock()
	writer := write.NewWriteFake()
	cfg := config.NewOptions()
	cfg.Verify = true
	p := newTestPipeline(t, &cfg,
		WithClock(clk),
		WithIngester(&fakeIngester{lines: []string{"8000::/1 one", "c000::/2 two"}, clk: clk}),
		WithWriter(writer),
	)

	sum, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.InputPrefixes)
	assert.Equal(t, 2, sum.Networks)
	assert.Equal(t, 2, sum.Nodes)
	assert.Equal(t, 2, sum.OutputPrefixes)
	assert.Equal(t, 2*time.Second, sum.Elapsed)
	assert.Equal(t, 2*time.Second, sum.Stages[StageIngest])
	assert.Contains(t, sum.Stages, StageVerify)
	assert.Len(t, sum.Stages, 5)

	assert.Equal(t, []prefix.Record{
		{Prefix: prefix.MustParse("8000::/2"), Label: "one"},
		{Prefix: prefix.MustParse("c000::/2"), Label: "two"},
	}, writer.AllRecords)

	m := p.Metrics()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InputPrefixes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutputPrefixes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TrieNodes))
	assert.Zero(t, testutil.ToFloat64(m.VerificationFailures))
}

func TestRun_NoVerify(t *testing.T) {
	cfg := config.NewOptions()
	p := newTestPipeline(t, &cfg,
		WithIngester(&fakeIngester{lines: []string{"10.0.0.0/8 a"}}),
		WithWriter(write.NewWriteFake()),
	)
	sum, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, sum.Stages, StageVerify)
}

func TestRun_ParseError(t *testing.T) {
	writer := write.NewWriteFake()
	cfg := config.NewOptions()
	p := newTestPipeline(t, &cfg,
		WithIngester(&fakeIngester{lines: []string{"10.0.0.0/8 a", "10.0.0.0/33 b"}}),
		WithWriter(writer),
	)
	_, err := p.Run(context.Background())
	var perr *prefix.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Zero(t, writer.Calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Metrics().ParseErrors))
}

func TestRun_MetricsFileOnFailure(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "metrics.prom")
	cfg := config.NewOptions()
	cfg.Metrics.File = metrics
	p := newTestPipeline(t, &cfg,
		WithIngester(&fakeIngester{lines: []string{"8000::/1 one", "garbage"}}),
		WithWriter(write.NewWriteFake()),
	)
	_, err := p.Run(context.Background())
	var perr *prefix.ParseError
	require.ErrorAs(t, err, &perr)

	dump, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(dump), "prefix_resolver_parse_errors_total 1")
}

func TestRun_Errors(t *testing.T) {
	failure := errors.New("boom")
	cfg := config.NewOptions()

	p := newTestPipeline(t, &cfg, WithIngester(&fakeIngester{err: failure}), WithWriter(write.NewWriteFake()))
	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, failure)
	assert.Zero(t, testutil.ToFloat64(p.Metrics().ParseErrors))

	p = newTestPipeline(t, &cfg,
		WithIngester(&fakeIngester{lines: []string{"10.0.0.0/8 a"}}),
		WithWriter(&write.WriteFake{Err: failure}),
	)
	sum, err := p.Run(context.Background())
	require.ErrorIs(t, err, failure)
	assert.Equal(t, 1, sum.OutputPrefixes)
	assert.Zero(t, testutil.ToFloat64(p.Metrics().OutputPrefixes))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	writer := write.NewWriteFake()
	cfg := config.NewOptions()
	p := newTestPipeline(t, &cfg, WithIngester(&fakeIngester{lines: []string{"10.0.0.0/8 a"}}), WithWriter(writer))
	_, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, writer.Calls)
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	metrics := filepath.Join(dir, "metrics.prom")
	require.NoError(t, os.WriteFile(in, []byte("10.0.0.0/8 private\n10.1.0.0/16 lab\n"), 0o600))

	_, cfg := test.InitConfig(t, `
verify: true
ingest:
  file: `+in+`
write:
  file: `+out+`
metrics:
  file: `+metrics+`
`)
	p, err := NewPipeline(&cfg)
	require.NoError(t, err)
	sum, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, sum.OutputPrefixes)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	resolved := store.New()
	require.NoError(t, resolved.Load(slices.Values(strings.Split(strings.TrimSpace(string(content)), "\n"))))
	assert.Equal(t, 9, resolved.Count())

	input := store.New()
	require.NoError(t, input.Load(slices.Values([]string{"10.0.0.0/8 private", "10.1.0.0/16 lab"})))
	_, err = verify.Check(input, resolved)
	require.NoError(t, err)

	dump, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(dump), "prefix_resolver_output_prefixes_total 9")
}

func TestNewPipeline_Trace(t *testing.T) {
	cfg := config.NewOptions()
	cfg.Trace = true
	m := operational.NewMetrics(&config.MetricsSettings{Prefix: "test_"})
	p := newTestPipeline(t, &cfg, WithMetrics(m))
	assert.NotNil(t, p.observer)
	assert.Same(t, m, p.Metrics())
}
