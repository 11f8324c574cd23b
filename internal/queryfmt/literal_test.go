package queryfmt

import (
	"reflect"
	"testing"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want interface{}
	}{
		{"single-quoted string", `'hello'`, "hello"},
		{"double-quoted string", `"hello"`, "hello"},
		{"string with apostrophe", `"O'Brien"`, "O'Brien"},
		{"escaped quote", `'it\'s'`, "it's"},
		{"unknown escape kept verbatim", `'a\qb'`, `a\qb`},
		{"int", `42`, int64(42)},
		{"negative int", `-7`, int64(-7)},
		{"float", `0.15`, 0.15},
		{"exponent", `1e3`, 1000.0},
		{"true", `True`, true},
		{"false", `False`, false},
		{"none", `None`, nil},
		{"empty list", `[]`, []interface{}{}},
		{"list", `[1, 'a', None]`, []interface{}{int64(1), "a", nil}},
		{"tuple", `(1, 2)`, []interface{}{int64(1), int64(2)}},
		{"trailing comma", `[1, 2,]`, []interface{}{int64(1), int64(2)}},
		{"empty dict", `{}`, map[string]interface{}{}},
		{
			"nested dict",
			`{'a': {'b': [1.5]}, 'c': True}`,
			map[string]interface{}{
				"a": map[string]interface{}{"b": []interface{}{1.5}},
				"c": true,
			},
		},
		{
			"dict with trailing comma",
			`{'a': 1,}`,
			map[string]interface{}{"a": int64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLiteral(tt.raw)
			if err != nil {
				t.Fatalf("parseLiteral(%q) error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseLiteral(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseLiteralErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ``},
		{"bare word", `hello`},
		{"lowercase true", `true`},
		{"unterminated string", `'abc`},
		{"unterminated dict", `{'a': 1`},
		{"unterminated list", `[1, 2`},
		{"non-string dict key", `{1: 'a'}`},
		{"missing colon", `{'a' 1}`},
		{"trailing data", `1 2`},
		{"bad number", `1.2.3`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v, err := parseLiteral(tt.raw); err == nil {
				t.Errorf("parseLiteral(%q) = %#v, want error", tt.raw, v)
			}
		})
	}
}
