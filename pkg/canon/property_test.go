package canon

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/pravallika10473/netlist-diff/pkg/netlist"
)

// randomNetlist builds a random tabular netlist with comps components
// spread over nets nets, deterministically from seed.
func randomNetlist(comps, nets int, seed int64, rename bool) string {
	rng := rand.New(rand.NewSource(seed))
	kinds := []string{"resistor", "capacitor", "inductor", "diode"}

	netName := func(i int) string {
		if rename {
			return fmt.Sprintf("w_%d_x", i)
		}
		return fmt.Sprintf("n%d", i)
	}
	compName := func(i int) string {
		if rename {
			return fmt.Sprintf("dev_%d", i)
		}
		return fmt.Sprintf("c%d", i)
	}

	var sb strings.Builder
	for i := 0; i < comps; i++ {
		kind := kinds[rng.Intn(len(kinds))]
		a := rng.Intn(nets)
		b := rng.Intn(nets)
		fmt.Fprintf(&sb, "%s %s %s %s v=%dk\n",
			compName(i), kind, netName(a), netName(b), 1+rng.Intn(9))
	}
	return sb.String()
}

// TestRefinementProperties verifies the labeling invariants over random
// graphs: the partition never coarsens between rounds, refinement always
// terminates within a node-count round cap, and pure renaming never
// changes the graph fingerprint.
func TestRefinementProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("partition only refines, and refinement terminates", prop.ForAll(
		func(comps, nets int, seed int64) bool {
			src := randomNetlist(comps, nets, seed, false)
			g, err := netlist.Parse("rand", src, netlist.DialectTabular, netlist.DefaultParserOptions())
			if err != nil {
				return false
			}
			// Any finite graph stabilizes within nodes+1 rounds.
			res := Label(g, Options{MaxRounds: g.NumComponents() + g.NumNets() + 1})
			if !res.Stabilized {
				return false
			}
			prev := -1
			for round := range res.CompHistory {
				classes := distinctColors(res.CompHistory[round], res.NetHistory[round])
				if classes < prev {
					return false
				}
				prev = classes
			}
			return true
		},
		gen.IntRange(1, 15),
		gen.IntRange(2, 6),
		gen.Int64(),
	))

	properties.Property("fingerprint is invariant under renaming", prop.ForAll(
		func(comps, nets int, seed int64) bool {
			orig := randomNetlist(comps, nets, seed, false)
			renamed := randomNetlist(comps, nets, seed, true)
			ga, err := netlist.Parse("a", orig, netlist.DialectTabular, netlist.DefaultParserOptions())
			if err != nil {
				return false
			}
			gb, err := netlist.Parse("b", renamed, netlist.DialectTabular, netlist.DefaultParserOptions())
			if err != nil {
				return false
			}
			return Label(ga, DefaultOptions()).Fingerprint == Label(gb, DefaultOptions()).Fingerprint
		},
		gen.IntRange(1, 15),
		gen.IntRange(2, 6),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
