package queryfmt

import (
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "empty input",
			raw:  "",
			want: "No query available",
		},
		{
			name: "unparsable garbage",
			raw:  "not a descriptor at all",
			want: "Invalid query format",
		},
		{
			name: "json but not a mapping",
			raw:  `[1, 2, 3]`,
			want: "Invalid query format",
		},
		{
			name: "json null",
			raw:  `null`,
			want: "Invalid query format",
		},
		{
			name: "single filter",
			raw:  `{"filters": [{"Data": {"param": {"name": "ROE"}, "sign": "gt", "threshold": 0.15, "period": 5}, "Operator": "AND"}]}`,
			want: "ROE 5 Years > 0.15",
		},
		{
			name: "two filters with trailing connector stripped",
			raw: `{"filters": [
				{"Data": {"param": {"name": "ROE"}, "sign": "gt", "threshold": 0.1}, "Operator": "AND"},
				{"Data": {"param": {"name": "PE"}, "sign": "lt", "threshold": 20}, "Operator": "AND"}
			]}`,
			want: "ROE 1 Years > 0.1 AND PE 1 Years < 20",
		},
		{
			name: "mid-string AND is preserved",
			raw: `{"filters": [
				{"Data": {"param": {"name": "ROE"}, "sign": "gt", "threshold": 0.1}, "Operator": "AND"},
				{"Data": {"param": {"name": "PE"}, "sign": "lt", "threshold": 20}, "Operator": "OR"}
			]}`,
			want: "ROE 1 Years > 0.1 AND PE 1 Years < 20 OR",
		},
		{
			name: "empty filters list",
			raw:  `{"filters": []}`,
			want: "No filters defined",
		},
		{
			name: "filters missing",
			raw:  `{"other": 1}`,
			want: "No filters defined",
		},
		{
			name: "filters not a sequence",
			raw:  `{"filters": "ROE > 5"}`,
			want: "No filters defined",
		},
		{
			name: "only malformed entries",
			raw:  `{"filters": [1, "x"]}`,
			want: "No valid filters found",
		},
		{
			name: "malformed entries are skipped silently",
			raw:  `{"filters": [42, {"Data": {"param": {"name": "PB"}, "sign": "lte", "threshold": 3}}]}`,
			want: "PB 1 Years <= 3",
		},
		{
			name: "lowercase key aliases",
			raw:  `{"filters": [{"data": {"param": {"field": "DividendYield"}, "op": "gte", "threshold": 0.02}, "operator": "AND"}]}`,
			want: "DividendYield 1 Years >= 0.02",
		},
		{
			name: "defaults for missing fields",
			raw:  `{"filters": [{"Data": {}}]}`,
			want: "Unknown 1 Years = None",
		},
		{
			name: "Data of wrong type reads as empty",
			raw:  `{"filters": [{"Data": "bogus", "Operator": "AND"}]}`,
			want: "Unknown 1 Years = None",
		},
		{
			name: "param of wrong type reads as empty",
			raw:  `{"filters": [{"Data": {"param": "ROE", "threshold": 1}}]}`,
			want: "Unknown 1 Years = 1",
		},
		{
			name: "unrecognized sign passes through verbatim",
			raw:  `{"filters": [{"Data": {"param": {"name": "Beta"}, "sign": "approx", "threshold": 1}}]}`,
			want: "Beta 1 Years approx 1",
		},
		{
			name: "sign lookup is case-insensitive",
			raw:  `{"filters": [{"Data": {"param": {"name": "ROE"}, "sign": "GT", "threshold": 5}}]}`,
			want: "ROE 1 Years > 5",
		},
		{
			name: "threshold sequence joined with commas",
			raw:  `{"filters": [{"Data": {"param": {"name": "ROE"}, "sign": "eq", "threshold": [0.1, 0.2, 0.3]}}]}`,
			want: "ROE 1 Years = 0.1,0.2,0.3",
		},
		{
			name: "explicit zero period is kept",
			raw:  `{"filters": [{"Data": {"param": {"name": "ROE"}, "sign": "gt", "threshold": 5, "period": 0}}]}`,
			want: "ROE 0 Years > 5",
		},
		{
			name: "python literal style with None threshold",
			raw:  `{'filters': [{'Data': {'param': {'name': 'PE'}, 'sign': 'lt', 'threshold': None}, 'Operator': ''}]}`,
			want: "PE 1 Years < None",
		},
		{
			name: "nested query as encoded string",
			raw:  `{"query": "{\"filters\": [{\"Data\": {\"param\": {\"name\": \"ROE\"}, \"sign\": \"gt\", \"threshold\": 0.2}}]}"}`,
			want: "ROE 1 Years > 0.2",
		},
		{
			name: "nested query as mapping",
			raw:  `{"query": {"filters": [{"Data": {"param": {"name": "PE"}, "sign": "lt", "threshold": 15}}]}}`,
			want: "PE 1 Years < 15",
		},
		{
			name: "nested query of unusable type stays on outer mapping",
			raw:  `{"query": 42, "filters": [{"Data": {"param": {"name": "ROE"}, "sign": "ne", "threshold": 0}}]}`,
			want: "ROE 1 Years != 0",
		},
		{
			name: "single-quoted outer string unwraps to inner json",
			raw:  `'{"filters": [{"Data": {"param": {"name": "ROA"}, "sign": "gte", "threshold": 0.05}}]}'`,
			want: "ROA 1 Years >= 0.05",
		},
		{
			name: "quote substitution fallback",
			raw:  `{'filters': [{'Data': {'param': {'name': 'Growth'}, 'sign': 'gt', 'threshold': true}}]}`,
			want: "Growth 1 Years > True",
		},
		{
			name: "operator whitespace trimmed",
			raw:  `{"filters": [{"Data": {"param": {"name": "ROE"}, "sign": "gt", "threshold": 5}, "Operator": "  OR  "}]}`,
			want: "ROE 1 Years > 5 OR",
		},
		{
			name: "blank operator omitted",
			raw:  `{"filters": [{"Data": {"param": {"name": "ROE"}, "sign": "gt", "threshold": 5}, "Operator": "   "}]}`,
			want: "ROE 1 Years > 5",
		},
		{
			name: "empty Data falls through to lowercase alias",
			raw:  `{"filters": [{"Data": {}, "data": {"param": {"name": "ROE"}, "sign": "gt", "threshold": 1}}]}`,
			want: "ROE 1 Years > 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.raw)
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// Formatting is a pure function: repeated calls on the same malformed
// input must return the same fallback string.
func TestFormatIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"garbage",
		`{"filters": []}`,
		`{"filters": [1]}`,
		`{'filters': [{'Data': {'param': {'name': 'PE'}, 'sign': 'lt', 'threshold': None}}]}`,
	}
	for _, raw := range inputs {
		first := Format(raw)
		second := Format(raw)
		if first != second {
			t.Errorf("Format(%q) not stable: %q then %q", raw, first, second)
		}
	}
}

func TestFormatOrderPreserved(t *testing.T) {
	raw := `{"filters": [
		{"Data": {"param": {"name": "A"}, "sign": "gt", "threshold": 1}, "Operator": "AND"},
		{"Data": {"param": {"name": "B"}, "sign": "lt", "threshold": 2}, "Operator": "AND"},
		{"Data": {"param": {"name": "C"}, "sign": "eq", "threshold": 3}}
	]}`
	want := "A 1 Years > 1 AND B 1 Years < 2 AND C 1 Years = 3"
	if got := Format(raw); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

// faultyValue is a type the parse chain never emits, so walking a
// descriptor that contains one raises.
type faultyValue struct{}

// render is the last line of the no-fault guarantee: whatever goes wrong
// while walking a descriptor must come back as a "Query parsing error"
// message, never as a fault in the caller.
func TestRenderFaultReported(t *testing.T) {
	doc := map[string]interface{}{
		"filters": []interface{}{
			map[string]interface{}{
				"Data": map[string]interface{}{
					"param":     map[string]interface{}{"name": "ROE"},
					"threshold": faultyValue{},
				},
			},
		},
	}

	got := render(doc)
	if !strings.HasPrefix(got, "Query parsing error: ") {
		t.Fatalf("render() = %q, want a query-parsing-error message", got)
	}
	if !strings.Contains(got, "faultyValue") {
		t.Errorf("render() = %q, want the fault message preserved verbatim", got)
	}
}
