package netlist

import (
	"strings"

	"github.com/pravallika10473/netlist-diff/pkg/logging"
)

// parseTabular parses the custom tabular dialect:
//
//	name kind net1 net2 ... [key=value ...]
//
// Kind words are explicit (resistor, nmos, ...), '#' starts a comment, and
// '+' continues the previous line. Net count must match the kind's arity.
func parseTabular(id string, source string, opts ParserOptions) (*Graph, error) {
	lines := splitLogicalLines(source,
		func(s string) bool { return strings.HasPrefix(s, "#") },
		[]string{"#"},
	)

	b := newBuilder(id, DialectTabular)
	for _, ln := range lines {
		fields := strings.Fields(ln.text)
		if len(fields) < 2 {
			return nil, parseErrorf(MalformedLine, ln.num, "need at least a name and a kind")
		}
		name := fields[0]
		kindWord := strings.ToLower(fields[1])
		kind := ParseDeviceKind(kindWord)
		if kind == DeviceUnknown && kindWord != "unknown" {
			if opts.Strict {
				return nil, parseErrorf(UnknownDeviceType, ln.num, "kind %q", kindWord)
			}
			opts.Logger.Warn("unknown device kind, treating as opaque generic device",
				logging.Field{Key: "name", Value: name},
				logging.Field{Key: "kind", Value: kindWord},
				logging.Field{Key: "line", Value: ln.num})
		}

		var nets []string
		params := Params{}
		model := ""
		for _, tok := range fields[2:] {
			if k, v, ok := strings.Cut(tok, "="); ok {
				if strings.EqualFold(k, "model") {
					model = strings.ToLower(v)
					continue
				}
				params[strings.ToLower(k)] = parseParamValue(v)
				continue
			}
			if len(params) > 0 {
				return nil, parseErrorf(MalformedLine, ln.num, "net token %q after parameters", tok)
			}
			nets = append(nets, tok)
		}

		c := Component{Name: name, Kind: kind, Model: model, Params: params}
		if kind == DeviceSubcircuit {
			c.Variant = SubcircuitOpaque
		}
		roles := kind.TerminalRoles()
		if roles != nil {
			if len(nets) != len(roles) {
				return nil, parseErrorf(DanglingTerminal, ln.num,
					"%s needs %d nets, got %d", kind, len(roles), len(nets))
			}
		} else {
			roles = make([]TerminalRole, len(nets))
			for i := range nets {
				roles[i] = PositionalRole(i)
			}
		}
		bindNets(b, &c, nets, roles)

		if _, ok := b.addComponent(c); !ok {
			return nil, parseErrorf(DuplicateComponentName, ln.num, "component %q already declared", name)
		}
	}
	return b.graph(), nil
}
