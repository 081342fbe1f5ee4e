package netlist

import (
	"strings"

	"github.com/pravallika10473/netlist-diff/pkg/logging"
)

// subcktDef is a .subckt definition: its port names and body lines.
type subcktDef struct {
	name  string
	ports []string
	body  []logicalLine
}

// parseSPICE parses a SPICE-like netlist. First pass collects .model cards
// and .subckt definitions; second pass builds components. Terminal order is
// preserved exactly as declared.
func parseSPICE(id string, source string, opts ParserOptions) (*Graph, error) {
	lines := splitLogicalLines(source,
		func(s string) bool { return strings.HasPrefix(s, "*") },
		[]string{";", "$ "},
	)

	models := map[string]string{} // model name -> lowercased model type
	subckts := map[string]*subcktDef{}
	var body []logicalLine

	var curDef *subcktDef
	for _, ln := range lines {
		fields := strings.Fields(ln.text)
		head := strings.ToLower(fields[0])
		switch {
		case head == ".subckt":
			if len(fields) < 2 {
				return nil, parseErrorf(MalformedLine, ln.num, ".subckt requires a name")
			}
			curDef = &subcktDef{name: strings.ToLower(fields[1]), ports: fields[2:]}
		case head == ".ends":
			if curDef != nil {
				subckts[curDef.name] = curDef
				curDef = nil
			}
		case curDef != nil:
			curDef.body = append(curDef.body, ln)
		case head == ".model":
			if len(fields) >= 3 {
				models[strings.ToLower(fields[1])] = strings.ToLower(strings.SplitN(fields[2], "(", 2)[0])
			}
		case strings.HasPrefix(head, "."):
			// .end, .options, analysis cards: not connectivity.
		default:
			body = append(body, ln)
		}
	}

	b := newBuilder(id, DialectSPICE)
	for _, ln := range body {
		if err := parseSPICELine(b, ln, models, subckts, opts); err != nil {
			return nil, err
		}
	}
	return b.graph(), nil
}

// parseSPICELine parses one component declaration.
func parseSPICELine(b *builder, ln logicalLine, models map[string]string, subckts map[string]*subcktDef, opts ParserOptions) error {
	fields := strings.Fields(ln.text)
	name := fields[0]
	args := fields[1:]

	// key=value tokens are parameters wherever they appear; everything
	// before them is positional (nets, then model/value).
	var positional []string
	params := Params{}
	for _, tok := range args {
		if k, v, ok := strings.Cut(tok, "="); ok {
			params[strings.ToLower(k)] = parseParamValue(v)
			continue
		}
		if len(params) > 0 {
			return parseErrorf(MalformedLine, ln.num, "positional token %q after key=value parameters", tok)
		}
		positional = append(positional, tok)
	}

	c := Component{Name: name, Params: params}
	letter := name[0] | 0x20 // ASCII lowercase

	switch letter {
	case 'r', 'c', 'l':
		switch letter {
		case 'r':
			c.Kind = DeviceResistor
		case 'c':
			c.Kind = DeviceCapacitor
		default:
			c.Kind = DeviceInductor
		}
		if len(positional) < 2 {
			return parseErrorf(DanglingTerminal, ln.num, "%s needs 2 nets, got %d", c.Kind, len(positional))
		}
		bindNets(b, &c, positional[:2], c.Kind.TerminalRoles())
		if len(positional) >= 3 {
			c.Params[c.Kind.PrimaryParam()] = parseParamValue(positional[2])
		}

	case 'm':
		if len(positional) < 4 {
			return parseErrorf(DanglingTerminal, ln.num, "mosfet needs 4 nets, got %d", len(positional))
		}
		c.Kind = DeviceNMOS
		if len(positional) >= 5 {
			c.Model = strings.ToLower(positional[4])
		}
		if isPChannel(c.Model, models) {
			c.Kind = DevicePMOS
		}
		bindNets(b, &c, positional[:4], rolesMOSFET)

	case 'q':
		if len(positional) < 3 {
			return parseErrorf(DanglingTerminal, ln.num, "bjt needs 3 nets, got %d", len(positional))
		}
		c.Kind = DeviceBJT
		if len(positional) >= 4 {
			c.Model = strings.ToLower(positional[3])
		}
		bindNets(b, &c, positional[:3], rolesBJT)

	case 'd':
		if len(positional) < 2 {
			return parseErrorf(DanglingTerminal, ln.num, "diode needs 2 nets, got %d", len(positional))
		}
		c.Kind = DeviceDiode
		if len(positional) >= 3 {
			c.Model = strings.ToLower(positional[2])
		}
		bindNets(b, &c, positional[:2], rolesDiode)

	case 'v', 'i':
		if letter == 'v' {
			c.Kind = DeviceVSource
		} else {
			c.Kind = DeviceISource
		}
		if len(positional) < 2 {
			return parseErrorf(DanglingTerminal, ln.num, "source needs 2 nets, got %d", len(positional))
		}
		bindNets(b, &c, positional[:2], rolesTwoTerminal)
		// Remaining positional tokens: optional DC keyword then value.
		rest := positional[2:]
		if len(rest) > 0 && strings.EqualFold(rest[0], "dc") {
			rest = rest[1:]
		}
		if len(rest) > 0 {
			c.Params["dc"] = parseParamValue(rest[0])
		}

	case 'x':
		if len(positional) < 2 {
			return parseErrorf(MalformedLine, ln.num, "subcircuit instance needs nets and a name")
		}
		c.Kind = DeviceSubcircuit
		c.Variant = SubcircuitOpaque
		c.Model = strings.ToLower(positional[len(positional)-1])
		nets := positional[:len(positional)-1]
		def := subckts[c.Model]
		roles := make([]TerminalRole, len(nets))
		for i := range nets {
			if def != nil && i < len(def.ports) {
				roles[i] = TerminalRole(strings.ToLower(def.ports[i]))
			} else {
				roles[i] = PositionalRole(i)
			}
		}
		bindNets(b, &c, nets, roles)
		if opts.ExpandSubcircuits && def != nil {
			inner, err := expandSubckt(b.graph().ID+"/"+name, def, models, subckts, opts)
			if err != nil {
				return err
			}
			c.Variant = SubcircuitExpanded
			c.Inner = inner
		}

	default:
		if opts.Strict {
			return parseErrorf(UnknownDeviceType, ln.num, "device letter %q", string(name[0]))
		}
		opts.Logger.Warn("unknown device type, treating as opaque generic device",
			logging.Field{Key: "name", Value: name},
			logging.Field{Key: "line", Value: ln.num})
		c.Kind = DeviceUnknown
		roles := make([]TerminalRole, len(positional))
		for i := range positional {
			roles[i] = PositionalRole(i)
		}
		bindNets(b, &c, positional, roles)
	}

	if _, ok := b.addComponent(c); !ok {
		return parseErrorf(DuplicateComponentName, ln.num, "component %q already declared", name)
	}
	return nil
}

// bindNets allocates nets by name and binds them to the component in
// declaration order.
func bindNets(b *builder, c *Component, netNames []string, roles []TerminalRole) {
	c.Roles = append([]TerminalRole(nil), roles[:len(netNames)]...)
	c.Terminals = make([]NetID, len(netNames))
	for i, nn := range netNames {
		c.Terminals[i] = b.net(nn)
	}
}

// isPChannel resolves MOSFET polarity from the model card, falling back to
// a "p" prefix heuristic when the card is missing.
func isPChannel(model string, models map[string]string) bool {
	if t, ok := models[model]; ok {
		return t == "pmos"
	}
	return strings.HasPrefix(model, "p")
}

// expandSubckt instantiates a .subckt body as a standalone inner graph.
// Net names stay local to the definition; the instance's terminal roles
// carry the port binding to the outer graph.
func expandSubckt(id string, def *subcktDef, models map[string]string, subckts map[string]*subcktDef, opts ParserOptions) (*Graph, error) {
	inner := newBuilder(id, DialectSPICE)
	// Ports exist even if the body never references them.
	for _, p := range def.ports {
		inner.net(p)
	}
	for _, ln := range def.body {
		if err := parseSPICELine(inner, ln, models, subckts, opts); err != nil {
			return nil, err
		}
	}
	g := inner.graph()
	for _, n := range g.Nets() {
		if len(n.Terminals) == 0 {
			return nil, parseErrorf(DanglingTerminal, 0, "subcircuit %q port %q is unconnected", def.name, n.Name)
		}
	}
	return g, nil
}
