// Package compare wires the full pipeline: parse both netlists, label
// each graph, align them, derive the edit script, and emit the report.
//
// Every comparison is a pure function of its inputs: graphs are immutable
// once parsed, and the alignment and edit script are freshly allocated per
// comparison and never shared across concurrent comparisons.
package compare

import (
	"time"

	"github.com/pravallika10473/netlist-diff/pkg/align"
	"github.com/pravallika10473/netlist-diff/pkg/canon"
	"github.com/pravallika10473/netlist-diff/pkg/config"
	"github.com/pravallika10473/netlist-diff/pkg/diff"
	"github.com/pravallika10473/netlist-diff/pkg/logging"
	"github.com/pravallika10473/netlist-diff/pkg/metrics"
	"github.com/pravallika10473/netlist-diff/pkg/netlist"
	"github.com/pravallika10473/netlist-diff/pkg/report"
)

// Comparer runs netlist comparisons under one configuration. Safe for
// concurrent use: it holds no per-comparison state.
type Comparer struct {
	cfg     config.Config
	dialect netlist.Dialect
	log     logging.Logger
	metrics *metrics.Registry
}

// Option customizes a Comparer.
type Option func(*Comparer)

// WithLogger sets the structured logger. Default is a NopLogger.
func WithLogger(log logging.Logger) Option {
	return func(c *Comparer) { c.log = log }
}

// WithMetrics sets the metrics registry. Default is none.
func WithMetrics(r *metrics.Registry) Option {
	return func(c *Comparer) { c.metrics = r }
}

// New validates the configuration and builds a Comparer.
func New(cfg config.Config, opts ...Option) (*Comparer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialect, _ := netlist.ParseDialect(cfg.Dialect)
	c := &Comparer{
		cfg:     cfg,
		dialect: dialect,
		log:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Parse parses one netlist under the comparer's configuration. Exposed so
// callers can parse once and compare a graph against many others.
func (c *Comparer) Parse(id, source string) (*netlist.Graph, error) {
	g, err := netlist.Parse(id, source, c.dialect, netlist.ParserOptions{
		Strict:            c.cfg.Strict,
		ExpandSubcircuits: c.cfg.ExpandSubcircuits,
		Logger:            c.log,
	})
	if err != nil {
		if pe, ok := err.(*netlist.ParseError); ok {
			c.metrics.RecordParseError(pe.Kind.String())
			c.log.Error("netlist parse failed",
				logging.Field{Key: "netlist", Value: id},
				logging.Field{Key: "kind", Value: pe.Kind.String()},
				logging.Field{Key: "line", Value: pe.Line})
		}
		return nil, err
	}
	return g, nil
}

// Compare parses both sources and diffs them. A ParseError on either side
// fails only this comparison; it never aborts a batch.
func (c *Comparer) Compare(baselineID, baselineSrc, modifiedID, modifiedSrc string) (*report.Report, error) {
	a, err := c.Parse(baselineID, baselineSrc)
	if err != nil {
		return nil, err
	}
	b, err := c.Parse(modifiedID, modifiedSrc)
	if err != nil {
		return nil, err
	}
	return c.CompareGraphs(a, b), nil
}

// CompareGraphs diffs two already-parsed graphs. By construction it never
// fails: the worst case is a zero-pair alignment reported as wholesale
// removal and addition.
func (c *Comparer) CompareGraphs(a, b *netlist.Graph) *report.Report {
	start := time.Now()

	canonOpts := canon.Options{
		MaxRounds:  c.cfg.MaxRefinementRounds,
		StepBudget: c.cfg.StepBudget,
	}
	sa := canon.Label(a, canonOpts)
	sb := canon.Label(b, canonOpts)
	c.metrics.RecordRefinement(sa.Rounds, sa.Stabilized)
	c.metrics.RecordRefinement(sb.Rounds, sb.Stabilized)
	if !sa.Stabilized || !sb.Stabilized {
		c.log.Warn("color refinement did not stabilize",
			logging.Field{Key: "baseline", Value: a.ID},
			logging.Field{Key: "modified", Value: b.ID})
	}

	al := align.Align(a, b, sa, sb)
	es := diff.Compute(a, b, al, diff.Options{
		RewireConfidenceThreshold: c.cfg.RewireConfidenceThreshold,
	})
	r := report.Build(a, b, sa, sb, al, es)

	elapsed := time.Since(start)
	c.metrics.RecordComparison(elapsed, r.SimilarityScore)
	if r.Flags.Degraded {
		c.metrics.RecordDegraded()
	}
	if len(r.Operations) > 0 {
		byKind := make(map[string]int)
		for _, op := range r.Operations {
			byKind[op.Kind]++
		}
		c.metrics.RecordOperations(byKind)
	}

	c.log.Info("comparison complete",
		logging.Field{Key: "baseline", Value: a.ID},
		logging.Field{Key: "modified", Value: b.ID},
		logging.Field{Key: "similarity", Value: r.SimilarityScore},
		logging.Field{Key: "operations", Value: len(r.Operations)},
		logging.Field{Key: "elapsed", Value: elapsed.String()})
	return r
}
