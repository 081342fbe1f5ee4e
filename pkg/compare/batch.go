package compare

import (
	"github.com/pravallika10473/netlist-diff/pkg/report"
)

// PairRequest is one baseline/modified source pair in a batch.
type PairRequest struct {
	BaselineID  string
	BaselineSrc string
	ModifiedID  string
	ModifiedSrc string
}

// PairResult is the outcome for one pair: either a report or that pair's
// error, never both. Errors are isolated per pair; one malformed netlist
// never aborts the rest of the batch.
type PairResult struct {
	Report *report.Report
	Err    error
}

// CompareBatch runs every pair through the pipeline on a worker pool and
// returns results in input order.
func (c *Comparer) CompareBatch(pairs []PairRequest) []PairResult {
	results := make([]PairResult, len(pairs))
	if len(pairs) == 0 {
		return results
	}

	workers := c.cfg.EffectiveWorkers()
	if workers > len(pairs) {
		workers = len(pairs)
	}
	pool, err := newWorkerPool(workers)
	if err != nil {
		// Config validation caps the worker count; a pool failure here
		// means a single-worker fallback is the sane degradation.
		pool, _ = newWorkerPool(1)
	}

	for i, p := range pairs {
		i, p := i, p
		pool.submit(func() {
			r, err := c.Compare(p.BaselineID, p.BaselineSrc, p.ModifiedID, p.ModifiedSrc)
			results[i] = PairResult{Report: r, Err: err}
		})
	}
	pool.close()
	return results
}
