package compare

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pravallika10473/netlist-diff/pkg/config"
	"github.com/pravallika10473/netlist-diff/pkg/logging"
	"github.com/pravallika10473/netlist-diff/pkg/metrics"
	"github.com/pravallika10473/netlist-diff/pkg/netlist"
)

const baselineAmp = `* common source stage
M1 out inp src 0 nch w=10u l=1u
R1 vdd out 10k
R2 src 0 1k
V1 vdd 0 3.3
`

const modifiedAmp = `* same stage, larger load
M1 out inp src 0 nch w=10u l=1u
R1 vdd out 12k
R2 src 0 1k
V1 vdd 0 3.3
`

// counterValue extracts one labeled counter from gathered families, or 0.
func counterValue(families []*dto.MetricFamily, name, labelValue string) float64 {
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue == "" && len(m.GetLabel()) == 0 {
				return m.GetCounter().GetValue()
			}
			for _, l := range m.GetLabel() {
				if l.GetValue() == labelValue {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestComparerEndToEnd(t *testing.T) {
	reg := metrics.NewRegistry()
	var logBuf bytes.Buffer

	c, err := New(config.Default(),
		WithLogger(logging.NewJSONLogger(&logBuf, logging.DebugLevel)),
		WithMetrics(reg))
	require.NoError(t, err)

	r, err := c.Compare("amp-v1", baselineAmp, "amp-v2", modifiedAmp)
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, "amp-v1", r.BaselineID)
	assert.Equal(t, "amp-v2", r.ModifiedID)
	assert.Equal(t, 1.0, r.SimilarityScore, "a parameter-only edit keeps structural similarity at 1.0")
	require.Len(t, r.Operations, 1)
	assert.Equal(t, "parameter_change", r.Operations[0].Kind)
	assert.Equal(t, "R1", r.Operations[0].Ref)
	assert.False(t, r.Flags.Unstabilized)
	assert.False(t, r.Flags.Degraded)

	families, err := reg.Gatherer().Gather()
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(families, "netdiff_comparisons_total", "ok"))
	assert.Equal(t, 1.0, counterValue(families, "netdiff_operations_emitted_total", "parameter_change"))

	assert.Contains(t, logBuf.String(), "comparison complete")
	assert.Contains(t, logBuf.String(), "amp-v1")
}

func TestComparerParseErrorMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	c, err := New(config.Default(), WithMetrics(reg))
	require.NoError(t, err)

	_, err = c.Compare("bad", "R1 onlyone\n", "good", baselineAmp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, netlist.ErrDanglingTerminal))

	families, err := reg.Gatherer().Gather()
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(families, "netdiff_parse_errors_total", "dangling_terminal"))
	assert.Equal(t, 1.0, counterValue(families, "netdiff_comparisons_total", "parse_error"))
	assert.Equal(t, 0.0, counterValue(families, "netdiff_comparisons_total", "ok"))
}

func TestComparerRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Dialect = "verilog"
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dialect")
}

func TestComparerIdenticalGraphs(t *testing.T) {
	c, err := New(config.Default())
	require.NoError(t, err)

	r, err := c.Compare("a", baselineAmp, "b", baselineAmp)
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.SimilarityScore)
	assert.Empty(t, r.Operations)
	assert.Empty(t, r.UnmappedBaseline)
	assert.Empty(t, r.UnmappedModified)
}

func TestComparerDegradedFlag(t *testing.T) {
	cfg := config.Default()
	cfg.Dialect = "tabular"
	reg := metrics.NewRegistry()
	c, err := New(cfg, WithMetrics(reg))
	require.NoError(t, err)

	src := "U1 widget x y\n"
	r, err := c.Compare("a", src, "b", src)
	require.NoError(t, err)
	assert.True(t, r.Flags.Degraded)

	families, err := reg.Gatherer().Gather()
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(families, "netdiff_degraded_comparisons_total", ""))
}

func TestComparerConcurrentUse(t *testing.T) {
	c, err := New(config.Default())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := c.Compare("a", baselineAmp, "b", modifiedAmp)
			if err == nil && r.SimilarityScore != 1.0 {
				err = errors.New("unexpected similarity")
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		assert.NoError(t, err, "goroutine %d", i)
	}
}
