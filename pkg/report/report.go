// Package report serializes edit scripts into the stable schema consumed
// by the external prompting layer. It performs no analysis of its own.
package report

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pravallika10473/netlist-diff/pkg/align"
	"github.com/pravallika10473/netlist-diff/pkg/canon"
	"github.com/pravallika10473/netlist-diff/pkg/diff"
	"github.com/pravallika10473/netlist-diff/pkg/netlist"
)

// Operation is one edit-script entry in wire form. Ref names the affected
// component or net; net refs in the unmapped lists carry a "net:" prefix
// to keep the flat lists unambiguous.
type Operation struct {
	Kind       string   `json:"kind"`
	Ref        string   `json:"ref"`
	Role       string   `json:"role,omitempty"`
	Param      string   `json:"param,omitempty"`
	Old        string   `json:"old,omitempty"`
	New        string   `json:"new,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Flags records comparison conditions that are not errors but that the
// downstream layer must see; a comparison never yields a silent empty
// result without one of these set or operations present.
type Flags struct {
	// Unstabilized: color refinement hit its round cap or step budget on
	// at least one side; signatures are coarser than usual.
	Unstabilized bool `json:"unstabilized,omitempty"`
	// Degraded: at least one unrecognized device kind was bucketed as
	// an opaque generic device.
	Degraded      bool `json:"degraded,omitempty"`
	EmptyBaseline bool `json:"empty_baseline,omitempty"`
	EmptyModified bool `json:"empty_modified,omitempty"`
}

// Report is one comparison record, the engine's only output artifact.
type Report struct {
	ComparisonID     string      `json:"comparison_id"`
	BaselineID       string      `json:"baseline_id"`
	ModifiedID       string      `json:"modified_id"`
	SimilarityScore  float64     `json:"similarity_score"`
	Operations       []Operation `json:"operations"`
	UnmappedBaseline []string    `json:"unmapped_baseline"`
	UnmappedModified []string    `json:"unmapped_modified"`
	Flags            Flags       `json:"flags"`
}

// Build assembles the report for one comparison. A fresh comparison id is
// generated; the caller's baseline/modified ids pass through untouched.
func Build(a, b *netlist.Graph, sa, sb *canon.Result, al *align.Alignment, es *diff.EditScript) *Report {
	r := &Report{
		ComparisonID:     uuid.New().String(),
		BaselineID:       a.ID,
		ModifiedID:       b.ID,
		SimilarityScore:  es.Similarity,
		Operations:       make([]Operation, 0, len(es.Ops)),
		UnmappedBaseline: []string{},
		UnmappedModified: []string{},
		Flags: Flags{
			Unstabilized:  !sa.Stabilized || !sb.Stabilized,
			Degraded:      hasUnknownDevices(a) || hasUnknownDevices(b),
			EmptyBaseline: es.EmptyBaseline,
			EmptyModified: es.EmptyModified,
		},
	}

	for _, op := range es.Ops {
		wire := Operation{
			Kind:  op.Kind.String(),
			Ref:   op.Ref,
			Role:  string(op.Role),
			Param: op.Param,
			Old:   op.Old,
			New:   op.New,
		}
		if op.HasConfidence {
			c := op.Confidence
			wire.Confidence = &c
		}
		r.Operations = append(r.Operations, wire)
	}

	for _, id := range al.UnmappedCompsA {
		r.UnmappedBaseline = append(r.UnmappedBaseline, a.Component(id).Name)
	}
	for _, id := range es.DemotedA {
		r.UnmappedBaseline = append(r.UnmappedBaseline, a.Component(id).Name)
	}
	for _, id := range al.UnmappedCompsB {
		r.UnmappedModified = append(r.UnmappedModified, b.Component(id).Name)
	}
	for _, id := range es.DemotedB {
		r.UnmappedModified = append(r.UnmappedModified, b.Component(id).Name)
	}
	for _, id := range al.UnmappedNetsA {
		r.UnmappedBaseline = append(r.UnmappedBaseline, "net:"+a.Net(id).Name)
	}
	for _, id := range al.UnmappedNetsB {
		r.UnmappedModified = append(r.UnmappedModified, "net:"+b.Net(id).Name)
	}
	return r
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func hasUnknownDevices(g *netlist.Graph) bool {
	for i := range g.Components() {
		if g.Components()[i].Kind == netlist.DeviceUnknown {
			return true
		}
	}
	return false
}
