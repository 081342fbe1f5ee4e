package netlist

import (
	"strings"

	"github.com/pravallika10473/netlist-diff/pkg/logging"
)

// Dialect selects the netlist syntax the parser expects. Sources are never
// sniffed: the caller declares the dialect and gets a typed ParseError
// instead of a silent misread.
type Dialect int

const (
	// DialectSPICE covers SPICE-like netlists: one component per line,
	// leading device letter, '+' continuations, '*' comment lines.
	DialectSPICE Dialect = iota
	// DialectTabular covers the custom tabular form: explicit kind word,
	// whitespace-separated nets, '#' comments.
	DialectTabular
)

// String returns the dialect name used in configs and reports.
func (d Dialect) String() string {
	switch d {
	case DialectSPICE:
		return "spice"
	case DialectTabular:
		return "tabular"
	default:
		return "unknown"
	}
}

// ParseDialect converts a config string to a Dialect.
func ParseDialect(s string) (Dialect, bool) {
	switch strings.ToLower(s) {
	case "spice":
		return DialectSPICE, true
	case "tabular":
		return DialectTabular, true
	default:
		return DialectSPICE, false
	}
}

// ParserOptions configures parsing behavior.
type ParserOptions struct {
	// Strict makes unknown device types fatal. When false (default) they
	// degrade to DeviceUnknown components and diffing proceeds.
	Strict bool
	// ExpandSubcircuits instantiates .subckt bodies into inner graphs on
	// each X line. Default false: instances stay opaque composite nodes.
	ExpandSubcircuits bool
	// Logger receives degraded-parse warnings. Nil means no logging.
	Logger logging.Logger
}

// DefaultParserOptions returns the parser defaults.
func DefaultParserOptions() ParserOptions {
	return ParserOptions{Logger: logging.NewNopLogger()}
}

// Parse turns netlist source text into a connectivity graph. The id tags
// the returned graph and all downstream artifacts referencing it.
// The parser is stateless across calls; its only side effect is the
// allocation of the returned graph.
func Parse(id string, source string, dialect Dialect, opts ParserOptions) (*Graph, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	switch dialect {
	case DialectSPICE:
		return parseSPICE(id, source, opts)
	case DialectTabular:
		return parseTabular(id, source, opts)
	default:
		return nil, ErrUnknownDialect
	}
}

// logical line with its source line number, after comment stripping and
// continuation joining.
type logicalLine struct {
	text string
	num  int
}

// splitLogicalLines folds '+' continuations into their parent line and
// drops blank and comment lines. lineComment matches full-line comments;
// trailComment starts an end-of-line comment.
func splitLogicalLines(source string, isComment func(string) bool, trailComment []string) []logicalLine {
	var out []logicalLine
	for num, raw := range strings.Split(source, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isComment(trimmed) {
			continue
		}
		for _, tc := range trailComment {
			if i := strings.Index(trimmed, tc); i >= 0 {
				trimmed = strings.TrimSpace(trimmed[:i])
			}
		}
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "+") && len(out) > 0 {
			out[len(out)-1].text += " " + strings.TrimSpace(trimmed[1:])
			continue
		}
		out = append(out, logicalLine{text: trimmed, num: num + 1})
	}
	return out
}
