// Package diff derives a minimal, semantically meaningful edit script
// from an alignment of two connectivity graphs.
//
// The script is a pure derived artifact: it references both graphs by
// arena index and name only and never mutates either.
package diff

import (
	"sort"

	"github.com/pravallika10473/netlist-diff/pkg/align"
	"github.com/pravallika10473/netlist-diff/pkg/netlist"
)

// OpKind enumerates edit operations.
type OpKind int

const (
	OpAddComponent OpKind = iota
	OpRemoveComponent
	OpRewireTerminal
	OpParameterChange
	OpAddNet
	OpRemoveNet
)

// String returns the operation name used in the report schema.
func (k OpKind) String() string {
	switch k {
	case OpAddComponent:
		return "add_component"
	case OpRemoveComponent:
		return "remove_component"
	case OpRewireTerminal:
		return "rewire_terminal"
	case OpParameterChange:
		return "parameter_change"
	case OpAddNet:
		return "add_net"
	case OpRemoveNet:
		return "remove_net"
	default:
		return "unknown"
	}
}

// Op is one edit operation. Ref names the component or net it applies to
// (the baseline-side name when the element exists there). Old and New
// carry net names for rewires and parameter values for parameter changes.
type Op struct {
	Kind          OpKind
	Ref           string
	Role          netlist.TerminalRole
	Param         string
	Old           string
	New           string
	Confidence    float64
	HasConfidence bool
}

// Options configures edit-script derivation.
type Options struct {
	// RewireConfidenceThreshold is the tie-break between "rewired" and
	// "removed + added" for a changed component: at or above the threshold
	// the pair stays mapped and differences become rewires; below it the
	// pair is demoted to an add/remove pair. Zero means the default.
	RewireConfidenceThreshold float64
}

// DefaultOptions returns the diff defaults.
func DefaultOptions() Options {
	return Options{RewireConfidenceThreshold: 0.6}
}

// EditScript is the ordered operation list for one comparison, plus the
// aggregate structural similarity score.
//
// Operation order is fixed: component removals, component additions,
// rewires, parameter changes, net removals, net additions; each group in
// ascending arena-id order.
type EditScript struct {
	Ops []Op

	// Similarity is (mapped pairs with no rewiring) / (mapped pairs +
	// unmapped on both sides), in [0,1]. Parameter-only changes do not
	// reduce it; demoted pairs count as unmapped on both sides.
	Similarity float64

	// DemotedA and DemotedB list components whose pairing fell below the
	// rewire threshold and was reported as remove+add instead.
	DemotedA []netlist.CompID
	DemotedB []netlist.CompID

	EmptyBaseline bool
	EmptyModified bool
}

// Compute derives the edit script for baseline a versus modified b under
// the given alignment. It never fails; a fully dissimilar pair yields a
// script that removes everything and adds everything.
func Compute(a, b *netlist.Graph, al *align.Alignment, opts Options) *EditScript {
	if opts.RewireConfidenceThreshold == 0 {
		opts.RewireConfidenceThreshold = DefaultOptions().RewireConfidenceThreshold
	}

	es := &EditScript{
		EmptyBaseline: a.IsEmpty(),
		EmptyModified: b.IsEmpty(),
	}

	type keptPair struct {
		pair    align.Pair
		rewires []Op
		params  []Op
	}
	var kept []keptPair

	for _, p := range al.CompPairs {
		ca := a.Component(netlist.CompID(p.A))
		cb := b.Component(netlist.CompID(p.B))
		if p.Confidence < opts.RewireConfidenceThreshold || len(ca.Terminals) != len(cb.Terminals) {
			es.DemotedA = append(es.DemotedA, ca.ID)
			es.DemotedB = append(es.DemotedB, cb.ID)
			continue
		}
		kept = append(kept, keptPair{
			pair:    p,
			rewires: rewireOps(a, b, ca, cb, al, p.Confidence),
			params:  paramOps(ca, cb, p.Confidence),
		})
	}

	// Removals: unmapped baseline components plus demoted pairs.
	removedA := append(append([]netlist.CompID(nil), al.UnmappedCompsA...), es.DemotedA...)
	addedB := append(append([]netlist.CompID(nil), al.UnmappedCompsB...), es.DemotedB...)
	sortCompIDs(removedA)
	sortCompIDs(addedB)

	for _, id := range removedA {
		es.Ops = append(es.Ops, Op{Kind: OpRemoveComponent, Ref: a.Component(id).Name})
	}
	for _, id := range addedB {
		es.Ops = append(es.Ops, Op{Kind: OpAddComponent, Ref: b.Component(id).Name})
	}

	clean := 0
	for _, kp := range kept {
		if len(kp.rewires) == 0 {
			clean++
		}
		es.Ops = append(es.Ops, kp.rewires...)
	}
	for _, kp := range kept {
		es.Ops = append(es.Ops, kp.params...)
	}

	es.Ops = append(es.Ops, netOps(a, b, al, es)...)

	// Effective element count: every component is either one mapped pair
	// or one unmapped entry on its side. Two identical graphs score 1.0;
	// empty-vs-nonempty scores 0.0.
	total := len(kept) + len(removedA) + len(addedB)
	if total == 0 {
		es.Similarity = 1.0
	} else {
		es.Similarity = float64(clean) / float64(total)
	}
	return es
}

// rewireOps compares a mapped pair's terminal bindings. Net identity is
// compared through the net alignment, never through raw names: a renamed
// net is not a rewire, a reconnected one is.
func rewireOps(a, b *netlist.Graph, ca, cb *netlist.Component, al *align.Alignment, conf float64) []Op {
	var ops []Op
	for i := range ca.Terminals {
		oldNet := ca.Terminals[i]
		newNet := cb.Terminals[i]
		if al.NetAtoB[oldNet] == int(newNet) {
			continue
		}
		ops = append(ops, Op{
			Kind:          OpRewireTerminal,
			Ref:           ca.Name,
			Role:          ca.Roles[i],
			Old:           a.Net(oldNet).Name,
			New:           b.Net(newNet).Name,
			Confidence:    conf,
			HasConfidence: true,
		})
	}
	return ops
}

// paramOps diffs the parameter maps of a mapped pair. Numeric values
// compare with a relative epsilon so scale-suffix respellings (1k vs
// 1000) are not reported as changes.
func paramOps(ca, cb *netlist.Component, conf float64) []Op {
	keys := make(map[string]struct{}, len(ca.Params)+len(cb.Params))
	for k := range ca.Params {
		keys[k] = struct{}{}
	}
	for k := range cb.Params {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var ops []Op
	for _, k := range sorted {
		va, oka := ca.Params[k]
		vb, okb := cb.Params[k]
		if oka && okb && paramEqual(va, vb) {
			continue
		}
		op := Op{
			Kind:          OpParameterChange,
			Ref:           ca.Name,
			Param:         k,
			Confidence:    conf,
			HasConfidence: true,
		}
		if oka {
			op.Old = va.Raw
		}
		if okb {
			op.New = vb.Raw
		}
		ops = append(ops, op)
	}
	return ops
}

func paramEqual(a, b netlist.ParamValue) bool {
	if a.Numeric && b.Numeric {
		diff := a.Value - b.Value
		if diff < 0 {
			diff = -diff
		}
		scale := 1.0
		if av := abs(a.Value); av > scale {
			scale = av
		}
		if bv := abs(b.Value); bv > scale {
			scale = bv
		}
		return diff <= 1e-9*scale
	}
	return a.Raw == b.Raw
}

// netOps emits Add/RemoveNet for unmapped nets that are not solely
// artifacts of component add/remove: a net qualifies only when at least
// one of its terminals belongs to a component that survived the mapping.
func netOps(a, b *netlist.Graph, al *align.Alignment, es *EditScript) []Op {
	demotedA := make(map[netlist.CompID]bool, len(es.DemotedA))
	for _, id := range es.DemotedA {
		demotedA[id] = true
	}
	demotedB := make(map[netlist.CompID]bool, len(es.DemotedB))
	for _, id := range es.DemotedB {
		demotedB[id] = true
	}

	var ops []Op
	for _, id := range al.UnmappedNetsA {
		n := a.Net(id)
		for _, t := range n.Terminals {
			if al.CompAtoB[t.Comp] >= 0 && !demotedA[t.Comp] {
				ops = append(ops, Op{Kind: OpRemoveNet, Ref: n.Name})
				break
			}
		}
	}
	for _, id := range al.UnmappedNetsB {
		n := b.Net(id)
		for _, t := range n.Terminals {
			if al.CompBtoA[t.Comp] >= 0 && !demotedB[t.Comp] {
				ops = append(ops, Op{Kind: OpAddNet, Ref: n.Name})
				break
			}
		}
	}
	return ops
}

func sortCompIDs(ids []netlist.CompID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
