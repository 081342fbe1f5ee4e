package netlist

// Graph is the full netlist as a bipartite-like structure: components and
// nets, with edges (component, terminal role) -> net. A Graph is immutable
// once returned by the parser; all derived artifacts (signatures,
// alignments, edit scripts) reference it by arena index only.
type Graph struct {
	ID      string
	Dialect Dialect

	comps []Component
	nets  []Net

	compByName map[string]CompID
	netByName  map[string]NetID
}

// NumComponents returns the component count.
func (g *Graph) NumComponents() int { return len(g.comps) }

// NumNets returns the net count.
func (g *Graph) NumNets() int { return len(g.nets) }

// Component returns the component with the given arena id.
// The returned pointer must be treated as read-only.
func (g *Graph) Component(id CompID) *Component {
	if id < 0 || int(id) >= len(g.comps) {
		return nil
	}
	return &g.comps[id]
}

// Net returns the net with the given arena id, read-only.
func (g *Graph) Net(id NetID) *Net {
	if id < 0 || int(id) >= len(g.nets) {
		return nil
	}
	return &g.nets[id]
}

// ComponentByName looks up a component by its source name.
func (g *Graph) ComponentByName(name string) (*Component, bool) {
	id, ok := g.compByName[name]
	if !ok {
		return nil, false
	}
	return &g.comps[id], true
}

// NetByName looks up a net by its source name.
func (g *Graph) NetByName(name string) (*Net, bool) {
	id, ok := g.netByName[name]
	if !ok {
		return nil, false
	}
	return &g.nets[id], true
}

// Components iterates all components in arena order.
func (g *Graph) Components() []Component { return g.comps }

// Nets iterates all nets in arena order.
func (g *Graph) Nets() []Net { return g.nets }

// IsEmpty reports whether the graph has no components. Empty graphs are
// valid comparison inputs: the other side diffs as pure addition.
func (g *Graph) IsEmpty() bool { return len(g.comps) == 0 }

// builder assembles a Graph during parsing. The parser is the only writer;
// once Graph() is called the result is frozen by convention.
type builder struct {
	g *Graph
}

func newBuilder(id string, dialect Dialect) *builder {
	return &builder{g: &Graph{
		ID:         id,
		Dialect:    dialect,
		compByName: make(map[string]CompID),
		netByName:  make(map[string]NetID),
	}}
}

// net returns the id for name, allocating the net on first reference.
// Net lifecycle begins when any terminal references it.
func (b *builder) net(name string) NetID {
	if id, ok := b.g.netByName[name]; ok {
		return id
	}
	id := NetID(len(b.g.nets))
	b.g.nets = append(b.g.nets, Net{ID: id, Name: name})
	b.g.netByName[name] = id
	return id
}

// addComponent binds a fully-specified component into the arena and
// records the reverse terminal references on each net.
func (b *builder) addComponent(c Component) (CompID, bool) {
	if _, dup := b.g.compByName[c.Name]; dup {
		return 0, false
	}
	c.ID = CompID(len(b.g.comps))
	b.g.comps = append(b.g.comps, c)
	b.g.compByName[c.Name] = c.ID
	for i, netID := range c.Terminals {
		n := &b.g.nets[netID]
		n.Terminals = append(n.Terminals, Terminal{Comp: c.ID, Role: c.Roles[i]})
	}
	return c.ID, true
}

func (b *builder) graph() *Graph { return b.g }
