package queryfmt

import "testing"

func TestCoerceToMap(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantNil  bool
		wantKeys []string
	}{
		{
			name:     "strict json",
			raw:      `{"filters": [], "name": "x"}`,
			wantKeys: []string{"filters", "name"},
		},
		{
			name:     "python literal dict",
			raw:      `{'filters': [], 'active': True, 'note': None}`,
			wantKeys: []string{"filters", "active", "note"},
		},
		{
			name:     "double-encoded json inside literal string",
			raw:      `'{"filters": [1]}'`,
			wantKeys: []string{"filters"},
		},
		{
			name:     "literal dict inside literal string",
			raw:      `"{'filters': [1]}"`,
			wantKeys: []string{"filters"},
		},
		{
			name:     "quote substitution rescue",
			raw:      `{'ok': true}`,
			wantKeys: []string{"ok"},
		},
		{
			name:    "empty input",
			raw:     "",
			wantNil: true,
		},
		{
			name:    "garbage",
			raw:     "definitely not structured",
			wantNil: true,
		},
		{
			name:    "json array is not a mapping",
			raw:     `[1, 2]`,
			wantNil: true,
		},
		{
			name:    "bare string literal",
			raw:     `'just text'`,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceToMap(tt.raw)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("coerceToMap(%q) = %v, want nil", tt.raw, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("coerceToMap(%q) = nil, want mapping", tt.raw)
			}
			for _, k := range tt.wantKeys {
				if _, ok := got[k]; !ok {
					t.Errorf("coerceToMap(%q) missing key %q", tt.raw, k)
				}
			}
		})
	}
}

// The quote-substitution fallback corrupts values containing apostrophes.
// That behavior is intentional parity with historical data; this test pins
// it down so a change is deliberate.
func TestCoerceToMapApostrophe(t *testing.T) {
	raw := `{'name': "O'Brien"}`
	if got := coerceToMap(raw); got != nil {
		// The literal parser handles this document; the apostrophe only
		// becomes a problem when the last-resort substitution runs.
		if got["name"] != "O'Brien" {
			t.Errorf("literal parse mangled value: %v", got["name"])
		}
	}
}

func TestParseStrictNumbersPreserved(t *testing.T) {
	v, ok := parseStrict(`{"threshold": 0.15, "period": 5}`)
	if !ok {
		t.Fatal("parseStrict failed on valid json")
	}
	m := v.(map[string]interface{})
	if got := stringify(m["threshold"]); got != "0.15" {
		t.Errorf("threshold rendered %q, want %q", got, "0.15")
	}
	if got := stringify(m["period"]); got != "5" {
		t.Errorf("period rendered %q, want %q", got, "5")
	}
}
