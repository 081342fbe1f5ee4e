// Package align computes a best-effort correspondence between the
// components and nets of two labeled connectivity graphs.
//
// Matching runs tier by tier down the refinement ladder: nodes are first
// bucketed by their finest stabilized color, and whatever remains unmapped
// falls back to coarser rounds, ending at the intrinsic seed color. Within
// a bucket, ambiguity is resolved by a greedy best-first assignment.
// Greedy is a deliberate trade-off: buckets are typically small after
// refinement, so an exact per-bucket bipartite assignment could be swapped
// in without changing this contract, but cross-bucket optimality is not
// attempted.
package align

import (
	"sort"

	"github.com/pravallika10473/netlist-diff/pkg/canon"
	"github.com/pravallika10473/netlist-diff/pkg/netlist"
)

// Pair maps one node of graph A to one node of graph B with a confidence
// score in [0,1]. Indices are arena ids, never pointers, so an Alignment
// carries no lifetime coupling to the graphs it references.
type Pair struct {
	A, B       int
	Confidence float64
}

// Alignment is a partial injective mapping between two graphs. Unmapped
// elements are explicit, never silently dropped. It is a derived,
// read-only view; it never mutates either graph.
//
// Component confidence is the fraction of the pair's terminals whose net
// bindings are consistent under the net alignment; net confidence is the
// fraction of attachments preserved under the component alignment.
type Alignment struct {
	CompPairs []Pair
	NetPairs  []Pair

	// CompAtoB[i] is the B-side component aligned to A's component i, or
	// -1 when unmapped. Likewise for the other three index maps.
	CompAtoB []int
	CompBtoA []int
	NetAtoB  []int
	NetBtoA  []int

	UnmappedCompsA []netlist.CompID
	UnmappedCompsB []netlist.CompID
	UnmappedNetsA  []netlist.NetID
	UnmappedNetsB  []netlist.NetID
}

// Align matches the nodes of a to the nodes of b using their canonical
// signatures plus local structural similarity. It never fails: fully
// dissimilar graphs produce an alignment with zero pairs, which is a
// valid, meaningful result.
func Align(a, b *netlist.Graph, sa, sb *canon.Result) *Alignment {
	al := &Alignment{
		CompAtoB: filled(a.NumComponents(), -1),
		CompBtoA: filled(b.NumComponents(), -1),
		NetAtoB:  filled(a.NumNets(), -1),
		NetBtoA:  filled(b.NumNets(), -1),
	}

	// Tiers are comparable across graphs only at equal depth: colors are
	// hash chains, so tier t of A matches tier t of B.
	tiers := len(sa.CompHistory)
	if len(sb.CompHistory) < tiers {
		tiers = len(sb.CompHistory)
	}

	for t := tiers - 1; t >= 0; t-- {
		matchComponentsAtTier(a, b, sa, sb, t, al)
	}
	for t := tiers - 1; t >= 0; t-- {
		matchNetsAtTier(a, b, sa, sb, t, al)
	}

	// Final confidence: consistency of each pair's terminal bindings
	// under the completed net alignment.
	for i := range al.CompPairs {
		p := &al.CompPairs[i]
		p.Confidence = bindingConsistency(
			a.Component(netlist.CompID(p.A)),
			b.Component(netlist.CompID(p.B)), al)
	}
	sortPairs(al.CompPairs)
	sortPairs(al.NetPairs)

	for i := range a.Components() {
		if al.CompAtoB[i] < 0 {
			al.UnmappedCompsA = append(al.UnmappedCompsA, netlist.CompID(i))
		}
	}
	for i := range b.Components() {
		if al.CompBtoA[i] < 0 {
			al.UnmappedCompsB = append(al.UnmappedCompsB, netlist.CompID(i))
		}
	}
	for i := range a.Nets() {
		if al.NetAtoB[i] < 0 {
			al.UnmappedNetsA = append(al.UnmappedNetsA, netlist.NetID(i))
		}
	}
	for i := range b.Nets() {
		if al.NetBtoA[i] < 0 {
			al.UnmappedNetsB = append(al.UnmappedNetsB, netlist.NetID(i))
		}
	}
	return al
}

// CompConfidence returns the confidence of A-side component i's pair,
// or 0 when unmapped.
func (al *Alignment) CompConfidence(i netlist.CompID) float64 {
	for _, p := range al.CompPairs {
		if p.A == int(i) {
			return p.Confidence
		}
	}
	return 0
}

// candidate is one scored cross-graph node pairing within a bucket.
type candidate struct {
	a, b      int
	score     float64
	secondary float64
}

// matchComponentsAtTier pairs still-unmapped components whose tier-t
// colors agree. Candidates are scored by role-labeled overlap of their
// final net colors, with parameter closeness breaking ties: at coarse
// tiers structure is ambiguous and the principal parameter value is the
// strongest remaining evidence.
func matchComponentsAtTier(a, b *netlist.Graph, sa, sb *canon.Result, tier int, al *Alignment) {
	bucketsA := bucketUnmapped(sa.CompHistory[tier], al.CompAtoB)
	bucketsB := bucketUnmapped(sb.CompHistory[tier], al.CompBtoA)

	for color, aIDs := range bucketsA {
		bIDs, ok := bucketsB[color]
		if !ok {
			continue
		}
		cands := make([]candidate, 0, len(aIDs)*len(bIDs))
		for _, ai := range aIDs {
			for _, bi := range bIDs {
				ca, cb := a.Component(netlist.CompID(ai)), b.Component(netlist.CompID(bi))
				cands = append(cands, candidate{
					a:         ai,
					b:         bi,
					score:     finalColorOverlap(ca, cb, sa, sb),
					secondary: paramCloseness(ca, cb),
				})
			}
		}
		assignGreedy(cands, al.CompAtoB, al.CompBtoA, func(c candidate) {
			al.CompPairs = append(al.CompPairs, Pair{A: c.a, B: c.b})
		})
	}
}

// finalColorOverlap scores two components by the fraction of terminals
// agreeing on (role, final net color).
func finalColorOverlap(ca, cb *netlist.Component, sa, sb *canon.Result) float64 {
	n := len(ca.Terminals)
	if n == 0 && len(cb.Terminals) == 0 {
		return 1.0
	}
	if len(cb.Terminals) != n {
		return 0
	}
	match := 0
	for i := 0; i < n; i++ {
		if ca.Roles[i] == cb.Roles[i] &&
			sa.Nets[ca.Terminals[i]].Color == sb.Nets[cb.Terminals[i]].Color {
			match++
		}
	}
	return float64(match) / float64(n)
}

// paramCloseness is a secondary key in [0,1]: relative closeness of the
// kind's principal parameter values. Components without comparable values
// score the neutral 0.5.
func paramCloseness(ca, cb *netlist.Component) float64 {
	pk := ca.Kind.PrimaryParam()
	if pk == "" {
		return 0.5
	}
	va, oka := ca.Params[pk]
	vb, okb := cb.Params[pk]
	if !oka || !okb || !va.Numeric || !vb.Numeric {
		return 0.5
	}
	if va.Value == vb.Value {
		return 1.0
	}
	denom := maxAbs(va.Value, vb.Value)
	if denom == 0 {
		return 1.0
	}
	rel := abs(va.Value-vb.Value) / denom
	if rel > 1 {
		rel = 1
	}
	return 1 - rel
}

// matchNetsAtTier pairs still-unmapped nets whose tier-t colors agree,
// scored by how many attachments the component alignment preserves.
func matchNetsAtTier(a, b *netlist.Graph, sa, sb *canon.Result, tier int, al *Alignment) {
	bucketsA := bucketUnmapped(sa.NetHistory[tier], al.NetAtoB)
	bucketsB := bucketUnmapped(sb.NetHistory[tier], al.NetBtoA)

	for color, aIDs := range bucketsA {
		bIDs, ok := bucketsB[color]
		if !ok {
			continue
		}
		cands := make([]candidate, 0, len(aIDs)*len(bIDs))
		for _, ai := range aIDs {
			for _, bi := range bIDs {
				cands = append(cands, candidate{
					a:     ai,
					b:     bi,
					score: attachmentOverlap(a, b, netlist.NetID(ai), netlist.NetID(bi), al),
				})
			}
		}
		assignGreedy(cands, al.NetAtoB, al.NetBtoA, func(c candidate) {
			al.NetPairs = append(al.NetPairs, Pair{A: c.a, B: c.b, Confidence: c.score})
		})
	}
}

// attachmentOverlap counts (mapped component, role) attachments shared by
// the two nets, normalized by the larger degree.
func attachmentOverlap(a, b *netlist.Graph, na, nb netlist.NetID, al *Alignment) float64 {
	ta := a.Net(na).Terminals
	tb := b.Net(nb).Terminals
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	inB := make(map[attachment]bool, len(tb))
	for _, t := range tb {
		inB[attachment{comp: int(t.Comp), role: t.Role}] = true
	}
	match := 0
	for _, t := range ta {
		mapped := al.CompAtoB[t.Comp]
		if mapped >= 0 && inB[attachment{comp: mapped, role: t.Role}] {
			match++
		}
	}
	denom := len(ta)
	if len(tb) > denom {
		denom = len(tb)
	}
	return float64(match) / float64(denom)
}

// bindingConsistency is the final pair confidence: the fraction of
// terminals whose nets map to each other under the net alignment.
func bindingConsistency(ca, cb *netlist.Component, al *Alignment) float64 {
	n := len(ca.Terminals)
	if n == 0 && len(cb.Terminals) == 0 {
		return 1.0
	}
	if len(cb.Terminals) != n {
		return 0
	}
	match := 0
	for i := 0; i < n; i++ {
		if ca.Roles[i] == cb.Roles[i] && al.NetAtoB[ca.Terminals[i]] == int(cb.Terminals[i]) {
			match++
		}
	}
	return float64(match) / float64(n)
}

type attachment struct {
	comp int
	role netlist.TerminalRole
}

// assignGreedy takes candidates best-first. Order is deterministic:
// descending score, then descending secondary, then ascending A id, then
// ascending B id.
func assignGreedy(cands []candidate, aToB, bToA []int, accept func(candidate)) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		if cands[i].secondary != cands[j].secondary {
			return cands[i].secondary > cands[j].secondary
		}
		if cands[i].a != cands[j].a {
			return cands[i].a < cands[j].a
		}
		return cands[i].b < cands[j].b
	})
	for _, c := range cands {
		if aToB[c.a] >= 0 || bToA[c.b] >= 0 {
			continue
		}
		aToB[c.a] = c.b
		bToA[c.b] = c.a
		accept(c)
	}
}

// bucketUnmapped groups still-unmapped node ids by their tier color.
func bucketUnmapped(colors []uint64, mapped []int) map[uint64][]int {
	buckets := make(map[uint64][]int)
	for i, c := range colors {
		if mapped[i] >= 0 {
			continue
		}
		buckets[c] = append(buckets[c], i)
	}
	return buckets
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].A < pairs[j].A })
}

func filled(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxAbs(a, b float64) float64 {
	aa, ab := abs(a), abs(b)
	if aa > ab {
		return aa
	}
	return ab
}
