// Package canon assigns renaming-invariant signatures to netlist graph
// nodes using iterative color refinement (1-dimensional Weisfeiler-Leman).
//
// Equal final colors are a necessary, not sufficient, condition for
// structural equivalence: highly symmetric structures (a differential
// pair's two halves, for example) can remain indistinguishable. That is a
// documented limitation of color refinement, not a bug; the aligner breaks
// such ties with local overlap scoring.
package canon

import (
	"math"
	"sort"

	"github.com/pravallika10473/netlist-diff/pkg/netlist"
)

// Options configures the refinement loop.
type Options struct {
	// MaxRounds caps refinement rounds. Refinement on a finite graph always
	// stabilizes within NumComponents+NumNets rounds; the cap bounds work on
	// pathological inputs.
	MaxRounds int
	// StepBudget, when positive, bounds total node recolorings. Hitting the
	// budget yields a partial result flagged as unstabilized.
	StepBudget int
}

// DefaultOptions returns the refinement defaults.
func DefaultOptions() Options {
	return Options{MaxRounds: 10}
}

// Signature is the renaming-invariant fingerprint of one node.
type Signature struct {
	Color  uint64
	Rounds int
	Degree []int
}

// Result carries the signatures for every component and net of one graph,
// indexed by arena id.
type Result struct {
	Comps []Signature
	Nets  []Signature

	// CompHistory[r][i] is component i's color after round r; row 0 is the
	// intrinsic seed coloring. The aligner matches finest tier first and
	// falls back to coarser tiers, so the full ladder is kept.
	CompHistory [][]uint64
	// NetHistory is the per-round color ladder for nets.
	NetHistory [][]uint64

	// Rounds is the number of refinement rounds executed.
	Rounds int
	// Stabilized is false when the round cap or step budget cut refinement
	// short. A recorded condition, never an error.
	Stabilized bool
	// Fingerprint is a whole-graph hash of the final color multiset.
	Fingerprint uint64
}

// Label computes signatures for every node of g. Pure function of the
// graph: no errors, no side effects.
func Label(g *netlist.Graph, opts Options) *Result {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultOptions().MaxRounds
	}

	nc, nn := g.NumComponents(), g.NumNets()
	compColors := make([]uint64, nc)
	netColors := make([]uint64, nn)

	for i := range g.Components() {
		compColors[i] = initialCompColor(&g.Components()[i], opts)
	}
	nh := newHash()
	nh.str("net")
	netSeed := nh.sum()
	for i := range netColors {
		netColors[i] = netSeed
	}

	res := &Result{Stabilized: true}
	res.CompHistory = append(res.CompHistory, append([]uint64(nil), compColors...))
	res.NetHistory = append(res.NetHistory, append([]uint64(nil), netColors...))
	prevClasses := countClasses(compColors, netColors)
	steps := 0

	for round := 0; round < opts.MaxRounds; round++ {
		if opts.StepBudget > 0 && steps+nc+nn > opts.StepBudget {
			res.Stabilized = false
			break
		}
		steps += nc + nn

		nextComp := make([]uint64, nc)
		for i := range g.Components() {
			c := &g.Components()[i]
			h := newHash()
			h.u64(compColors[i])
			// Terminal order is kind-significant: hash role-labeled
			// neighbor colors in declaration order.
			for t, netID := range c.Terminals {
				h.str(string(c.Roles[t]))
				h.u64(netColors[netID])
			}
			nextComp[i] = h.sum()
		}

		nextNet := make([]uint64, nn)
		for i := range g.Nets() {
			n := &g.Nets()[i]
			// Nets have no terminal order; hash the sorted multiset of
			// (role, component color).
			pairs := make([]uint64, 0, len(n.Terminals))
			for _, t := range n.Terminals {
				ph := newHash()
				ph.str(string(t.Role))
				ph.u64(compColors[t.Comp])
				pairs = append(pairs, ph.sum())
			}
			sort.Slice(pairs, func(a, b int) bool { return pairs[a] < pairs[b] })
			h := newHash()
			h.u64(netColors[i])
			for _, p := range pairs {
				h.u64(p)
			}
			nextNet[i] = h.sum()
		}

		compColors, netColors = nextComp, nextNet
		res.CompHistory = append(res.CompHistory, append([]uint64(nil), compColors...))
		res.NetHistory = append(res.NetHistory, append([]uint64(nil), netColors...))
		res.Rounds = round + 1

		// The old color participates in every new color, so the partition
		// only refines. An unchanged class count means it is stable.
		classes := countClasses(compColors, netColors)
		if classes == prevClasses {
			break
		}
		prevClasses = classes
		if round == opts.MaxRounds-1 {
			res.Stabilized = false
		}
	}

	res.Comps = make([]Signature, nc)
	for i := range g.Components() {
		res.Comps[i] = Signature{
			Color:  compColors[i],
			Rounds: res.Rounds,
			Degree: compDegree(g, &g.Components()[i]),
		}
	}
	res.Nets = make([]Signature, nn)
	for i := range g.Nets() {
		res.Nets[i] = Signature{
			Color:  netColors[i],
			Rounds: res.Rounds,
			Degree: []int{len(g.Nets()[i].Terminals)},
		}
	}
	res.Fingerprint = fingerprint(compColors, netColors)
	return res
}

// initialCompColor seeds a component's color from its intrinsic type:
// device kind, parameter bucket, and arity. Names and models never
// participate, keeping the color renaming-invariant across sources.
func initialCompColor(c *netlist.Component, opts Options) uint64 {
	h := newHash()
	h.str("comp")
	h.str(c.Kind.String())
	h.u64(uint64(len(c.Roles)))
	h.u64(uint64(paramBucket(c)))
	if c.Variant == netlist.SubcircuitExpanded && c.Inner != nil {
		// Expanded instances fold their inner structure into the seed so
		// two instances of different subcircuits never share a bucket.
		h.u64(Label(c.Inner, opts).Fingerprint)
	}
	return h.sum()
}

// paramBucket maps the kind's principal parameter to a log-decade bucket:
// 1.0k and 1.02k resistors share a bucket, 1k and 100k do not. Exact
// values still diff downstream as ParameterChange operations.
func paramBucket(c *netlist.Component) int {
	pk := c.Kind.PrimaryParam()
	if pk == "" {
		return 0
	}
	v, ok := c.Params[pk]
	if !ok || !v.Numeric {
		return 0
	}
	if v.Value == 0 {
		return math.MinInt32
	}
	return int(math.Floor(math.Log10(math.Abs(v.Value))))
}

// compDegree is the component's degree vector: arity first, then the
// attached nets' terminal counts in sorted order.
func compDegree(g *netlist.Graph, c *netlist.Component) []int {
	d := make([]int, 0, len(c.Terminals)+1)
	d = append(d, len(c.Terminals))
	fan := make([]int, 0, len(c.Terminals))
	for _, netID := range c.Terminals {
		fan = append(fan, len(g.Net(netID).Terminals))
	}
	sort.Ints(fan)
	return append(d, fan...)
}

func countClasses(compColors, netColors []uint64) int {
	seen := make(map[uint64]struct{}, len(compColors)+len(netColors))
	for _, c := range compColors {
		seen[c] = struct{}{}
	}
	for _, c := range netColors {
		// Component and net color spaces are disjoint by construction
		// (different seeds), so one set suffices.
		seen[c] = struct{}{}
	}
	return len(seen)
}

// fingerprint hashes the sorted multiset of final colors. Two isomorphic
// graphs always produce equal fingerprints.
func fingerprint(compColors, netColors []uint64) uint64 {
	all := make([]uint64, 0, len(compColors)+len(netColors))
	all = append(all, compColors...)
	all = append(all, netColors...)
	sort.Slice(all, func(a, b int) bool { return all[a] < all[b] })
	h := newHash()
	h.str("graph")
	for _, c := range all {
		h.u64(c)
	}
	return h.sum()
}
