package queryfmt

import (
	"strings"

	"github.com/bytedance/sonic"
)

// strictJSON keeps numbers as json.Number so thresholds and periods render
// exactly as they were written.
var strictJSON = sonic.Config{UseNumber: true}.Froze()

// parseStrict decodes well-formed JSON. The boolean reports success; the
// decoded value may be any JSON value, including null.
func parseStrict(s string) (interface{}, bool) {
	var v interface{}
	if err := strictJSON.UnmarshalFromString(s, &v); err != nil {
		return nil, false
	}
	return v, true
}

// coerceToMap attempts to recover a mapping from a semi-structured
// descriptor, trying strategies in strict order: well-formed JSON first,
// then the loose literal syntax, then one level of unwrapping for
// double-encoded descriptors, and finally a naive quote substitution.
// Each strategy is isolated; failure falls through to the next. Returns
// nil when nothing yields a mapping.
func coerceToMap(raw string) map[string]interface{} {
	if raw == "" {
		return nil
	}

	// Fast path: proper JSON.
	if v, ok := parseStrict(raw); ok {
		if m, ok := v.(map[string]interface{}); ok {
			return m
		}
	}

	// Loose literal style (single quotes, unquoted True/False/None).
	if v, err := parseLiteral(raw); err == nil {
		if m, ok := v.(map[string]interface{}); ok {
			return m
		}
		// Some descriptors are a stringified document nested inside quotes.
		if s, ok := v.(string); ok {
			if inner, ok := parseStrict(s); ok {
				if m, ok := inner.(map[string]interface{}); ok {
					return m
				}
			} else if inner, err := parseLiteral(s); err == nil {
				if m, ok := inner.(map[string]interface{}); ok {
					return m
				}
			}
		}
	}

	// Last resort: swap quote styles and retry the strict parse. Unsafe
	// for values containing apostrophes; kept for parity with stored data.
	if v, ok := parseStrict(strings.ReplaceAll(raw, "'", `"`)); ok {
		if m, ok := v.(map[string]interface{}); ok {
			return m
		}
	}

	return nil
}
