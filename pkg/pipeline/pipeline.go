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
	"time"

	"github.com/benbjohnson/clock"
	"github.com/netobserv/prefix-resolver/pkg/config"
	"github.com/netobserv/prefix-resolver/pkg/operational"
	"github.com/netobserv/prefix-resolver/pkg/pipeline/ingest"
	"github.com/netobserv/prefix-resolver/pkg/pipeline/write"
	"github.com/netobserv/prefix-resolver/pkg/prefix"
	"github.com/netobserv/prefix-resolver/pkg/store"
	"github.com/netobserv/prefix-resolver/pkg/trie"
	"github.com/netobserv/prefix-resolver/pkg/verify"
	log "github.com/sirupsen/logrus"
)

// stage names, also used as the stage label of stage_duration_seconds
const (
	StageIngest  = "ingest"
	StageInsert  = "insert"
	StageFlatten = "flatten"
	StageVerify  = "verify"
	StageWrite   = "write"
)

// Pipeline resolves one input record set into one output record set.
type Pipeline struct {
	verify   bool
	ingester ingest.Ingester
	writer   write.Writer
	clock    clock.Clock
	metrics  *operational.Metrics
	observer trie.Observer
}

// Summary reports the outcome of a Run.
type Summary struct {
	InputPrefixes  int
	Nodes          int
	Networks       int
	OutputPrefixes int
	Elapsed        time.Duration
	Stages         map[string]time.Duration
}

type Option func(*Pipeline)

func WithIngester(i ingest.Ingester) Option {
	return func(p *Pipeline) { p.ingester = i }
}

func WithWriter(w write.Writer) Option {
	return func(p *Pipeline) { p.writer = w }
}

func WithClock(c clock.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

func WithMetrics(m *operational.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithObserver(o trie.Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// NewPipeline creates the stages described by cfg. Components given as options
// replace the configured ones.
func NewPipeline(cfg *config.Options, opts ...Option) (*Pipeline, error) {
	log.Debugf("entering NewPipeline")
	p := &Pipeline{verify: cfg.Verify}
	for _, opt := range opts {
		opt(p)
	}

	var err error
	if p.ingester == nil {
		if p.ingester, err = ingest.NewIngester(cfg.Ingest); err != nil {
			return nil, err
		}
	}
	if p.writer == nil {
		if p.writer, err = write.NewWriter(cfg.Write); err != nil {
			return nil, err
		}
	}
	if p.clock == nil {
		p.clock = clock.New()
	}
	if p.metrics == nil {
		p.metrics = operational.NewMetrics(&cfg.Metrics)
	}
	if p.observer == nil && cfg.Trace {
		p.observer = trie.NewLogObserver(log.StandardLogger())
	}
	return p, nil
}

// Metrics returns the metrics updated by Run.
func (p *Pipeline) Metrics() *operational.Metrics {
	return p.metrics
}

// Run reads the input, resolves the overlaps, optionally verifies the result and
// writes it. The context is checked between stages.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	log.Debugf("entering Pipeline Run")
	start := p.clock.Now()
	sum := Summary{Stages: map[string]time.Duration{}}
	// failed runs are dumped too, they carry the error counters
	defer func() {
		if err := p.metrics.WriteFile(); err != nil {
			log.Errorf("can't write metrics: %v", err)
		}
	}()

	var in *store.Store
	err := p.stage(ctx, &sum, StageIngest, func() error {
		var err error
		in, err = p.ingester.Ingest(ctx)
		return err
	})
	if err != nil {
		var perr *prefix.ParseError
		if errors.As(err, &perr) {
			p.metrics.ParseErrors.Inc()
		}
		return sum, err
	}
	sum.InputPrefixes = in.Count()
	p.metrics.InputPrefixes.Add(float64(sum.InputPrefixes))
	log.Infof("%d input prefixes", sum.InputPrefixes)
	for length, n := range in.CountByLength() {
		log.Debugf("  /%d: %d", length, n)
	}

	var opts []trie.Option
	if p.observer != nil {
		opts = append(opts, trie.WithObserver(p.observer))
	}
	t := trie.New(opts...)
	err = p.stage(ctx, &sum, StageInsert, func() error {
		t.Load(in.All())
		return nil
	})
	if err != nil {
		return sum, err
	}
	sum.Nodes, sum.Networks = t.Nodes(), t.Networks()
	p.metrics.TrieNodes.Set(float64(sum.Nodes))
	log.Infof("%d nodes %d networks", sum.Nodes, sum.Networks)

	var out *store.Store
	err = p.stage(ctx, &sum, StageFlatten, func() error {
		out = trie.Flatten(t)
		return nil
	})
	if err != nil {
		return sum, err
	}
	sum.OutputPrefixes = out.Count()
	log.Infof("%d output prefixes", sum.OutputPrefixes)

	if p.verify {
		err = p.stage(ctx, &sum, StageVerify, func() error {
			report, err := verify.Check(in, out)
			if err != nil {
				p.metrics.VerificationFailures.Inc()
				return err
			}
			log.Infof("verified %d output prefixes against %d input prefixes", report.OutputPrefixes, report.InputPrefixes)
			return nil
		})
		if err != nil {
			return sum, err
		}
	}

	err = p.stage(ctx, &sum, StageWrite, func() error {
		return p.writer.Write(ctx, out.All())
	})
	if err != nil {
		return sum, err
	}
	p.metrics.OutputPrefixes.Add(float64(sum.OutputPrefixes))

	sum.Elapsed = p.clock.Since(start)
	log.Infof("%s elapsed", sum.Elapsed)
	return sum, nil
}

func (p *Pipeline) stage(ctx context.Context, sum *Summary, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Debugf("starting stage %s", name)
	timer := p.metrics.StageTimer(p.clock, name)
	err := fn()
	sum.Stages[name] = timer.ObserveDuration()
	return err
}
