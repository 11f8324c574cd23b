// Package queryfmt recovers a structured filter list from the
// semi-structured query descriptors stored with each strategy and renders
// it as a human-readable query string. Descriptors are producer-controlled
// and inconsistently serialized, so parsing is tolerant and every failure
// resolves to a fixed fallback string rather than an error.
package queryfmt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fallback outputs. Format always returns one of these or a rendered query.
const (
	msgNoQuery        = "No query available"
	msgInvalidFormat  = "Invalid query format"
	msgNoFilters      = "No filters defined"
	msgNoValidFilters = "No valid filters found"
)

// signSymbols maps short comparison codes to their rendered form.
// Unrecognized codes pass through verbatim.
var signSymbols = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
	"eq":  "=",
	"ne":  "!=",
}

// Format renders a raw strategy descriptor as a human-readable query
// string. It never fails: malformed input resolves to one of the fixed
// fallback strings, and any residual fault surfaces as a
// "Query parsing error" message. The function is pure and safe for
// concurrent use.
func Format(raw string) string {
	if raw == "" {
		return msgNoQuery
	}

	// Cheap path: well-formed JSON. Only on a parse failure do we fall
	// back to the full coercion chain; a successful parse that yields a
	// non-mapping is already conclusive.
	doc, ok := parseStrict(raw)
	if !ok {
		if m := coerceToMap(raw); m != nil {
			doc = m
		}
	}

	return render(doc)
}

// render walks the decoded descriptor and assembles the query string. Any
// fault raised while walking is caught here and reported as a
// "Query parsing error" message; nothing escapes to the caller.
func render(doc interface{}) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("Query parsing error: %v", r)
		}
	}()

	m, ok := doc.(map[string]interface{})
	if !ok {
		return msgInvalidFormat
	}

	// Some datasets nest the descriptor under a "query" key. Unwrap a
	// single level; deeper nesting is not a shape the producers emit.
	if inner, ok := m["query"]; ok {
		switch q := inner.(type) {
		case string:
			if im := coerceToMap(q); im != nil {
				m = im
			}
		case map[string]interface{}:
			m = q
		}
	}

	filters, ok := m["filters"].([]interface{})
	if !ok || len(filters) == 0 {
		return msgNoFilters
	}

	clauses := make([]string, 0, len(filters))
	for _, item := range filters {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		data, _ := field(entry, "Data", "data").(map[string]interface{})
		operator, _ := field(entry, "Operator", "operator").(string)

		param, _ := field(data, "param").(map[string]interface{})
		name := "Unknown"
		if v := field(param, "name", "field"); v != nil {
			name = stringify(v)
		}

		sign := "eq"
		if v := field(data, "sign", "op"); v != nil {
			sign = stringify(v)
		}
		symbol, ok := signSymbols[strings.ToLower(sign)]
		if !ok {
			symbol = sign
		}

		threshold := data["threshold"]
		var thresholdText string
		if seq, ok := threshold.([]interface{}); ok {
			parts := make([]string, len(seq))
			for i, v := range seq {
				parts[i] = stringify(v)
			}
			thresholdText = strings.Join(parts, ",")
		} else {
			thresholdText = stringify(threshold)
		}

		// period defaults by key presence, not truthiness: an explicit 0
		// stays 0.
		period, ok := data["period"]
		if !ok {
			period = int64(1)
		}

		clause := strings.TrimSpace(fmt.Sprintf("%s %s Years %s %s",
			name, stringify(period), symbol, thresholdText))
		if op := strings.TrimSpace(operator); op != "" {
			clause = clause + " " + op
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) == 0 {
		return msgNoValidFilters
	}

	// Strip a user-appended trailing connector so the rendered query does
	// not end in a dangling AND. Exact case, final occurrence only.
	result := strings.TrimRight(strings.Join(clauses, " "), " \t\r\n")
	result = strings.TrimSuffix(result, "AND")
	return strings.TrimRight(result, " \t\r\n")
}

// field resolves an ordered list of key aliases against a mapping and
// returns the first value that is present and truthy (empty strings, zero
// numbers, empty collections and nil all fall through to the next alias).
func field(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	default:
		return true
	}
}

// stringify renders a decoded value the way the descriptors' producer
// would: None/True/False for nil and booleans, numbers as written.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		return t
	case json.Number:
		return t.String()
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		// The parse chain only emits the types above; anything else is
		// a walk gone wrong, reported through the render boundary.
		panic(fmt.Sprintf("unexpected descriptor value of type %T", v))
	}
}
