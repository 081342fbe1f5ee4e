package canon

import (
	"testing"

	"github.com/pravallika10473/netlist-diff/pkg/netlist"
)

func parseFixture(t *testing.T, src string) *netlist.Graph {
	t.Helper()
	g, err := netlist.Parse("fixture", src, netlist.DialectSPICE, netlist.DefaultParserOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return g
}

const dividerSrc = `R1 vin mid 1k
R2 mid 0 2k
V1 vin 0 1.5
`

// Same circuit, every name changed, lines reordered.
const dividerRenamedSrc = `Vsupply alpha gnd 1.5
Rtop alpha beta 1k
Rbot beta gnd 2k
`

func TestLabelRenameInvariance(t *testing.T) {
	a := Label(parseFixture(t, dividerSrc), DefaultOptions())
	b := Label(parseFixture(t, dividerRenamedSrc), DefaultOptions())

	if a.Fingerprint != b.Fingerprint {
		t.Errorf("fingerprints differ across pure renaming: %x vs %x", a.Fingerprint, b.Fingerprint)
	}
	if !a.Stabilized || !b.Stabilized {
		t.Error("small graphs must stabilize within the default round cap")
	}
	if colorMultiset(a.Comps) != colorMultiset(b.Comps) {
		t.Error("component color multisets differ across pure renaming")
	}
}

func TestLabelDistinguishesStructure(t *testing.T) {
	a := Label(parseFixture(t, dividerSrc), DefaultOptions())
	// R2 moved from mid-0 to vin-0: different topology.
	b := Label(parseFixture(t, "R1 vin mid 1k\nR2 vin 0 2k\nV1 vin 0 1.5\n"), DefaultOptions())
	if a.Fingerprint == b.Fingerprint {
		t.Error("structurally different graphs share a fingerprint")
	}
}

// Refinement is monotonic: the partition in round k+1 is never coarser
// than in round k. The color history exposes this directly.
func TestLabelMonotonicRefinement(t *testing.T) {
	res := Label(parseFixture(t, `R1 vin mid 1k
R2 mid n2 1k
R3 n2 n3 1k
R4 n3 0 1k
V1 vin 0 1
`), DefaultOptions())

	prev := -1
	for round := range res.CompHistory {
		classes := distinctColors(res.CompHistory[round], res.NetHistory[round])
		if classes < prev {
			t.Fatalf("round %d has %d classes, coarser than previous %d", round, classes, prev)
		}
		prev = classes
	}
	if !res.Stabilized {
		t.Error("chain fixture must stabilize")
	}
}

// A differential pair's two halves are structurally symmetric. Color
// refinement cannot split them: equal colors here are the documented
// limitation of the approach, not a bug.
func TestLabelSymmetricDifferentialPair(t *testing.T) {
	res := Label(parseFixture(t, `M1 outp inp tail 0 nch
M2 outn inn tail 0 nch
R1 vdd outp 10k
R2 vdd outn 10k
I1 tail 0 1m
`), DefaultOptions())

	g := parseFixture(t, `M1 outp inp tail 0 nch
M2 outn inn tail 0 nch
R1 vdd outp 10k
R2 vdd outn 10k
I1 tail 0 1m
`)
	m1, _ := g.ComponentByName("M1")
	m2, _ := g.ComponentByName("M2")
	if res.Comps[m1.ID].Color != res.Comps[m2.ID].Color {
		t.Error("symmetric halves unexpectedly distinguished; expected equal colors")
	}
	r1, _ := g.ComponentByName("R1")
	r2, _ := g.ComponentByName("R2")
	if res.Comps[r1.ID].Color != res.Comps[r2.ID].Color {
		t.Error("symmetric loads unexpectedly distinguished")
	}
}

func TestLabelStepBudget(t *testing.T) {
	g := parseFixture(t, dividerSrc)
	res := Label(g, Options{MaxRounds: 10, StepBudget: 1})
	if res.Stabilized {
		t.Error("a one-step budget cannot stabilize; result must be flagged")
	}
	if res.Rounds != 0 {
		t.Errorf("rounds = %d, want 0 under a one-step budget", res.Rounds)
	}
	// Partial results still carry usable seed signatures.
	if len(res.Comps) != g.NumComponents() {
		t.Errorf("partial result has %d comp signatures, want %d", len(res.Comps), g.NumComponents())
	}
}

func TestLabelParameterBuckets(t *testing.T) {
	a := Label(parseFixture(t, "R1 a b 1k\n"), DefaultOptions())
	b := Label(parseFixture(t, "R9 x y 1.02k\n"), DefaultOptions())
	c := Label(parseFixture(t, "R5 p q 100k\n"), DefaultOptions())

	if a.Comps[0].Color != b.Comps[0].Color {
		t.Error("1k and 1.02k resistors must share a parameter bucket")
	}
	if a.Comps[0].Color == c.Comps[0].Color {
		t.Error("1k and 100k resistors must not share a parameter bucket")
	}
}

func TestLabelEmptyGraph(t *testing.T) {
	res := Label(parseFixture(t, ""), DefaultOptions())
	if !res.Stabilized {
		t.Error("empty graph must stabilize trivially")
	}
	if len(res.Comps) != 0 || len(res.Nets) != 0 {
		t.Error("empty graph must yield empty signature slices")
	}
}

func colorMultiset(sigs []Signature) [16]int {
	// Bucket colors into a small fixed histogram by low bits; enough to
	// compare multisets for the tiny fixtures used here.
	var hist [16]int
	for _, s := range sigs {
		hist[s.Color&15]++
	}
	return hist
}

func distinctColors(comps, nets []uint64) int {
	seen := make(map[uint64]struct{}, len(comps)+len(nets))
	for _, c := range comps {
		seen[c] = struct{}{}
	}
	for _, c := range nets {
		seen[c] = struct{}{}
	}
	return len(seen)
}
