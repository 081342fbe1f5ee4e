package netlist

import (
	"fmt"
	"sort"
	"strings"
)

// Serialize re-emits the graph as netlist text in its own dialect.
// Component and net names are preserved, so parse(Serialize(g)) yields a
// graph isomorphic to g. Expanded subcircuit instances are emitted as
// opaque instance lines; the inner graph is a parse-time artifact.
func Serialize(g *Graph) string {
	var sb strings.Builder
	switch g.Dialect {
	case DialectTabular:
		sb.WriteString("# netlist " + g.ID + "\n")
		for i := range g.Components() {
			writeTabularLine(&sb, g, &g.Components()[i])
		}
	default:
		sb.WriteString("* netlist " + g.ID + "\n")
		for i := range g.Components() {
			writeSPICELine(&sb, g, &g.Components()[i])
		}
		sb.WriteString(".end\n")
	}
	return sb.String()
}

func writeSPICELine(sb *strings.Builder, g *Graph, c *Component) {
	sb.WriteString(c.Name)
	for _, t := range c.Terminals {
		sb.WriteByte(' ')
		sb.WriteString(g.Net(t).Name)
	}
	switch c.Kind {
	case DeviceNMOS, DevicePMOS, DeviceBJT, DeviceDiode, DeviceSubcircuit:
		model := c.Model
		if model == "" {
			// The kind must survive a round trip even without a model card.
			model = c.Kind.String()
		}
		sb.WriteByte(' ')
		sb.WriteString(model)
	}
	if pk := c.Kind.PrimaryParam(); pk != "" {
		if v, ok := c.Params[pk]; ok {
			sb.WriteByte(' ')
			sb.WriteString(v.Raw)
		}
	}
	for _, k := range sortedParamKeys(c.Params) {
		if k == c.Kind.PrimaryParam() {
			continue
		}
		fmt.Fprintf(sb, " %s=%s", k, c.Params[k].Raw)
	}
	sb.WriteByte('\n')
}

func writeTabularLine(sb *strings.Builder, g *Graph, c *Component) {
	sb.WriteString(c.Name)
	sb.WriteByte(' ')
	sb.WriteString(c.Kind.String())
	for _, t := range c.Terminals {
		sb.WriteByte(' ')
		sb.WriteString(g.Net(t).Name)
	}
	if c.Model != "" {
		fmt.Fprintf(sb, " model=%s", c.Model)
	}
	for _, k := range sortedParamKeys(c.Params) {
		fmt.Fprintf(sb, " %s=%s", k, c.Params[k].Raw)
	}
	sb.WriteByte('\n')
}

func sortedParamKeys(p Params) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
