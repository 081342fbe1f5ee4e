package netlist

import "fmt"

// CompID identifies a component within a single Graph.
// IDs are arena indices: dense, starting at 0, never reused, and only
// meaningful for the Graph that allocated them.
type CompID int

// NetID identifies a net within a single Graph. Same arena scoping as CompID.
type NetID int

// DeviceKind enumerates the supported circuit element types.
type DeviceKind int

const (
	// DeviceUnknown is the degraded bucket for device types the parser
	// does not recognize. Diffing proceeds with these, just with weaker
	// signatures.
	DeviceUnknown DeviceKind = iota
	DeviceResistor
	DeviceCapacitor
	DeviceInductor
	DeviceNMOS
	DevicePMOS
	DeviceBJT
	DeviceDiode
	DeviceVSource
	DeviceISource
	DeviceSubcircuit
)

// String returns the lowercase name used in tabular netlists and reports.
func (k DeviceKind) String() string {
	switch k {
	case DeviceResistor:
		return "resistor"
	case DeviceCapacitor:
		return "capacitor"
	case DeviceInductor:
		return "inductor"
	case DeviceNMOS:
		return "nmos"
	case DevicePMOS:
		return "pmos"
	case DeviceBJT:
		return "bjt"
	case DeviceDiode:
		return "diode"
	case DeviceVSource:
		return "vsource"
	case DeviceISource:
		return "isource"
	case DeviceSubcircuit:
		return "subckt"
	default:
		return "unknown"
	}
}

// ParseDeviceKind converts a tabular kind word to a DeviceKind.
// Unrecognized words map to DeviceUnknown, not an error; strict-mode
// handling is the parser's decision.
func ParseDeviceKind(s string) DeviceKind {
	switch s {
	case "resistor", "r":
		return DeviceResistor
	case "capacitor", "c":
		return DeviceCapacitor
	case "inductor", "l":
		return DeviceInductor
	case "nmos":
		return DeviceNMOS
	case "pmos":
		return DevicePMOS
	case "bjt", "npn", "pnp":
		return DeviceBJT
	case "diode", "d":
		return DeviceDiode
	case "vsource", "v":
		return DeviceVSource
	case "isource", "i":
		return DeviceISource
	case "subckt", "x":
		return DeviceSubcircuit
	default:
		return DeviceUnknown
	}
}

// TerminalRole names one terminal of a component. Role order is
// kind-significant: swapping drain and source changes circuit meaning,
// so roles are always carried in declaration order.
type TerminalRole string

// Canonical terminal roles per device kind.
var (
	rolesTwoTerminal = []TerminalRole{"p", "n"}
	rolesMOSFET      = []TerminalRole{"drain", "gate", "source", "bulk"}
	rolesBJT         = []TerminalRole{"collector", "base", "emitter"}
	rolesDiode       = []TerminalRole{"anode", "cathode"}
)

// TerminalRoles returns the canonical ordered role list for the kind.
// Subcircuit and unknown devices have variable arity; their roles are
// generated positionally (port0, port1, ...) by the parser.
func (k DeviceKind) TerminalRoles() []TerminalRole {
	switch k {
	case DeviceResistor, DeviceCapacitor, DeviceInductor, DeviceVSource, DeviceISource:
		return rolesTwoTerminal
	case DeviceNMOS, DevicePMOS:
		return rolesMOSFET
	case DeviceBJT:
		return rolesBJT
	case DeviceDiode:
		return rolesDiode
	default:
		return nil
	}
}

// PositionalRole builds the generated role name for variable-arity devices.
func PositionalRole(i int) TerminalRole {
	return TerminalRole(fmt.Sprintf("port%d", i))
}

// PrimaryParam returns the parameter key that carries the kind's principal
// value (resistance, capacitance, ...), or "" when the kind has none.
// The principal value seeds the canonical labeler's parameter bucket.
func (k DeviceKind) PrimaryParam() string {
	switch k {
	case DeviceResistor:
		return "r"
	case DeviceCapacitor:
		return "c"
	case DeviceInductor:
		return "l"
	case DeviceVSource, DeviceISource:
		return "dc"
	default:
		return ""
	}
}

// SubcircuitVariant tags how a subcircuit instance is represented.
// Modeled as a variant tag rather than separate types so the aligner can
// treat opaque and expanded instances uniformly.
type SubcircuitVariant int

const (
	// SubcircuitNone marks components that are not subcircuit instances.
	SubcircuitNone SubcircuitVariant = iota
	// SubcircuitOpaque keeps the instance as a single composite node.
	// This is the default: it bounds alignment complexity.
	SubcircuitOpaque
	// SubcircuitExpanded carries the instantiated inner graph.
	SubcircuitExpanded
)

// ParamValue holds one device parameter. Raw preserves the source spelling;
// Value is the scaled numeric interpretation when Numeric is true.
type ParamValue struct {
	Raw     string
	Value   float64
	Numeric bool
}

// Params maps parameter names (lowercased) to values. Parameters are
// attributes, not structure: they diff as ParameterChange operations,
// never as connectivity changes.
type Params map[string]ParamValue

// Terminal is a back-reference from a net to one attached component terminal.
type Terminal struct {
	Comp CompID
	Role TerminalRole
}

// Component is one circuit element with its terminal-to-net bindings.
// Terminals is parallel to Roles and preserves declaration order exactly.
type Component struct {
	ID        CompID
	Name      string
	Kind      DeviceKind
	Model     string
	Roles     []TerminalRole
	Terminals []NetID
	Params    Params
	Variant   SubcircuitVariant
	Inner     *Graph // non-nil only when Variant == SubcircuitExpanded
}

// Net is a named equipotential wire and the set of terminals bound to it.
type Net struct {
	ID        NetID
	Name      string
	Terminals []Terminal
}
