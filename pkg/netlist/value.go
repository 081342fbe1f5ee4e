package netlist

import (
	"strconv"
	"strings"
)

// spiceScale maps SPICE magnitude suffixes to multipliers. "meg" must be
// checked before "m": 1meg is 1e6, 1m is 1e-3.
var spiceScale = []struct {
	suffix string
	mult   float64
}{
	{"meg", 1e6},
	{"t", 1e12},
	{"g", 1e9},
	{"k", 1e3},
	{"m", 1e-3},
	{"u", 1e-6},
	{"n", 1e-9},
	{"p", 1e-12},
	{"f", 1e-15},
}

// parseParamValue interprets a parameter token. Numeric tokens accept SPICE
// magnitude suffixes and trailing unit letters (1k, 2.2u, 100nF, 0.5).
// Non-numeric tokens are kept raw; they still diff by string equality.
func parseParamValue(raw string) ParamValue {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ParamValue{Raw: raw}
	}

	// Longest numeric prefix.
	end := 0
	seenDot, seenExp := false, false
	for end < len(s) {
		ch := s[end]
		switch {
		case ch >= '0' && ch <= '9':
		case ch == '.' && !seenDot && !seenExp:
			seenDot = true
		case (ch == 'e') && end > 0 && !seenExp && end+1 < len(s) &&
			(s[end+1] == '+' || s[end+1] == '-' || (s[end+1] >= '0' && s[end+1] <= '9')):
			seenExp = true
		case (ch == '+' || ch == '-') && (end == 0 || (seenExp && (s[end-1] == 'e'))):
		default:
			goto done
		}
		end++
	}
done:
	if end == 0 {
		return ParamValue{Raw: raw}
	}
	num, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return ParamValue{Raw: raw}
	}

	rest := s[end:]
	mult := 1.0
	for _, sc := range spiceScale {
		if strings.HasPrefix(rest, sc.suffix) {
			mult = sc.mult
			rest = rest[len(sc.suffix):]
			break
		}
	}
	// Anything left after the scale suffix is a unit (F, ohm, H) and is
	// ignored for the numeric value.
	return ParamValue{Raw: raw, Value: num * mult, Numeric: true}
}
