package compare

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pravallika10473/netlist-diff/pkg/config"
	"github.com/pravallika10473/netlist-diff/pkg/netlist"
)

func TestCompareBatchOrderAndIsolation(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 3
	c, err := New(cfg)
	require.NoError(t, err)

	pairs := []PairRequest{
		{BaselineID: "p0-a", BaselineSrc: baselineAmp, ModifiedID: "p0-b", ModifiedSrc: baselineAmp},
		{BaselineID: "p1-a", BaselineSrc: "R1 broken\n", ModifiedID: "p1-b", ModifiedSrc: baselineAmp},
		{BaselineID: "p2-a", BaselineSrc: baselineAmp, ModifiedID: "p2-b", ModifiedSrc: modifiedAmp},
	}
	results := c.CompareBatch(pairs)
	require.Len(t, results, len(pairs))

	require.NoError(t, results[0].Err)
	assert.Equal(t, "p0-a", results[0].Report.BaselineID)
	assert.Equal(t, 1.0, results[0].Report.SimilarityScore)

	require.Error(t, results[1].Err)
	assert.ErrorIs(t, results[1].Err, netlist.ErrDanglingTerminal)
	assert.Nil(t, results[1].Report)

	require.NoError(t, results[2].Err)
	assert.Equal(t, "p2-b", results[2].Report.ModifiedID)
	require.Len(t, results[2].Report.Operations, 1)
}

func TestCompareBatchEmpty(t *testing.T) {
	c, err := New(config.Default())
	require.NoError(t, err)
	assert.Empty(t, c.CompareBatch(nil))
}

func TestCompareBatchManyPairs(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 4
	c, err := New(cfg)
	require.NoError(t, err)

	var pairs []PairRequest
	for i := 0; i < 40; i++ {
		pairs = append(pairs, PairRequest{
			BaselineID:  fmt.Sprintf("b%d", i),
			BaselineSrc: baselineAmp,
			ModifiedID:  fmt.Sprintf("m%d", i),
			ModifiedSrc: modifiedAmp,
		})
	}
	results := c.CompareBatch(pairs)
	require.Len(t, results, 40)
	for i, res := range results {
		require.NoError(t, res.Err, "pair %d", i)
		assert.Equal(t, fmt.Sprintf("b%d", i), res.Report.BaselineID)
		assert.Equal(t, 1.0, res.Report.SimilarityScore)
	}
}
