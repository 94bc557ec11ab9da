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
package operational

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/netobserv/prefix-resolver/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

type MetricType string

const (
	TypeCounter   MetricType = "counter"
	TypeGauge     MetricType = "gauge"
	TypeHistogram MetricType = "histogram"
)

var allMetrics = []MetricDefinition{}

type MetricDefinition struct {
	Name   string
	Help   string
	Type   MetricType
	Labels []string
}

func DefineMetric(name, help string, t MetricType, labels ...string) MetricDefinition {
	def := MetricDefinition{
		Name:   name,
		Help:   help,
		Type:   t,
		Labels: labels,
	}
	allMetrics = append(allMetrics, def)
	return def
}

var (
	inputPrefixes = DefineMetric(
		"input_prefixes_total",
		"Number of prefixes loaded from the input",
		TypeCounter,
	)
	outputPrefixes = DefineMetric(
		"output_prefixes_total",
		"Number of disjoint prefixes written to the output",
		TypeCounter,
	)
	parseErrors = DefineMetric(
		"parse_errors_total",
		"Number of runs aborted by a malformed input line",
		TypeCounter,
	)
	verificationFailures = DefineMetric(
		"verification_failures_total",
		"Number of runs whose output failed verification",
		TypeCounter,
	)
	trieNodes = DefineMetric(
		"trie_nodes",
		"Number of nodes in the overlap trie of the last run",
		TypeGauge,
	)
	stageDuration = DefineMetric(
		"stage_duration_seconds",
		"Duration of each resolution stage, in seconds",
		TypeHistogram,
		"stage",
	)
)

// Metrics holds the operational metrics of the resolver on a dedicated registry.
type Metrics struct {
	settings             *config.MetricsSettings
	registry             *prometheus.Registry
	InputPrefixes        prometheus.Counter
	OutputPrefixes       prometheus.Counter
	ParseErrors          prometheus.Counter
	VerificationFailures prometheus.Counter
	TrieNodes            prometheus.Gauge
	StageDuration        *prometheus.HistogramVec
}

func NewMetrics(settings *config.MetricsSettings) *Metrics {
	m := &Metrics{
		settings: settings,
		registry: prometheus.NewRegistry(),
	}
	m.InputPrefixes = m.newCounter(&inputPrefixes)
	m.OutputPrefixes = m.newCounter(&outputPrefixes)
	m.ParseErrors = m.newCounter(&parseErrors)
	m.VerificationFailures = m.newCounter(&verificationFailures)
	m.TrieNodes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: settings.Prefix + trieNodes.Name,
		Help: trieNodes.Help,
	})
	m.StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    settings.Prefix + stageDuration.Name,
		Help:    stageDuration.Help,
		Buckets: []float64{.001, .01, .1, 1, 10, 100},
	}, stageDuration.Labels)
	m.registry.MustRegister(
		m.InputPrefixes,
		m.OutputPrefixes,
		m.ParseErrors,
		m.VerificationFailures,
		m.TrieNodes,
		m.StageDuration,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) newCounter(def *MetricDefinition) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: m.settings.Prefix + def.Name,
		Help: def.Help,
	})
}

// Gatherer exposes the registry, mostly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteFile dumps the registry in the text exposition format, for the node
// exporter textfile collector. It does nothing when no file is configured.
func (m *Metrics) WriteFile() error {
	if m.settings.File == "" {
		return nil
	}
	log.Debugf("writing metrics to %s", m.settings.File)
	return prometheus.WriteToTextfile(m.settings.File, m.registry)
}

// Timer measures a stage with an injectable clock.
type Timer struct {
	clock    clock.Clock
	start    time.Time
	observer prometheus.Observer
}

func (m *Metrics) StageTimer(clk clock.Clock, stage string) *Timer {
	return &Timer{
		clock:    clk,
		start:    clk.Now(),
		observer: m.StageDuration.WithLabelValues(stage),
	}
}

// ObserveDuration records the time elapsed since the timer was created and returns it.
func (t *Timer) ObserveDuration() time.Duration {
	d := t.clock.Since(t.start)
	t.observer.Observe(d.Seconds())
	return d
}

func GetDocumentation() string {
	doc := ""
	sorted := make([]MetricDefinition, len(allMetrics))
	copy(sorted, allMetrics)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, opts := range sorted {
		doc += fmt.Sprintf(
			`
### %s
| **Name** | %s | 
|:---|:---|
| **Description** | %s | 
| **Type** | %s | 
| **Labels** | %s | 

`,
			opts.Name,
			config.DefaultMetricsPrefix+opts.Name,
			opts.Help,
			opts.Type,
			strings.Join(opts.Labels, ", "),
		)
	}

	return doc
}
