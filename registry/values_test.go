package registry

import (
	"errors"
	"testing"

	"github.com/gogpu/vkreg/typedb"
)

func TestParseConstantValue(t *testing.T) {
	tests := []struct {
		input    string
		expected typedb.ConstantValue
	}{
		{"0", typedb.ConstantValue{Kind: typedb.ConstInt, Int: 0}},
		{"256", typedb.ConstantValue{Kind: typedb.ConstInt, Int: 256}},
		{"-1", typedb.ConstantValue{Kind: typedb.ConstInt, Int: -1}},
		{"0x7FFFFFFF", typedb.ConstantValue{Kind: typedb.ConstUint, Uint: 0x7FFFFFFF, Int: 0x7FFFFFFF}},
		// Hex literals ending in f/F must not be taken for float suffixes.
		{"0xF", typedb.ConstantValue{Kind: typedb.ConstUint, Uint: 0xF, Int: 0xF}},
		{"0X3f", typedb.ConstantValue{Kind: typedb.ConstUint, Uint: 0x3F, Int: 0x3F}},
		{"1000.0f", typedb.ConstantValue{Kind: typedb.ConstFloat, Float: 1000.0}},
		{"1000.0F", typedb.ConstantValue{Kind: typedb.ConstFloat, Float: 1000.0}},
		{"(~0U)", typedb.ConstantValue{Kind: typedb.ConstUint, Uint: 0xFFFFFFFF, Int: 0xFFFFFFFF}},
		{"(~1U)", typedb.ConstantValue{Kind: typedb.ConstUint, Uint: 0xFFFFFFFE, Int: 0xFFFFFFFE}},
		{"(~0ULL)", typedb.ConstantValue{Kind: typedb.ConstUint, Uint: ^uint64(0), Int: -1}},
		{"(~0UL)", typedb.ConstantValue{Kind: typedb.ConstUint, Uint: ^uint64(0), Int: -1}},
		{`"VK_KHR_surface"`, typedb.ConstantValue{Kind: typedb.ConstString, Str: "VK_KHR_surface"}},
	}
	for _, tt := range tests {
		got, err := parseConstantValue(tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("%q: expected %+v, got %+v", tt.input, tt.expected, got)
		}
	}
}

func TestParseConstantValueMalformed(t *testing.T) {
	tests := []string{"abc", "1.5x", "0xZZ", "(~U)", "(~0)", "12.5f5"}
	for _, input := range tests {
		_, err := parseConstantValue(input)
		if err == nil {
			t.Errorf("%q: expected an error", input)
			continue
		}
		var lit *LiteralError
		if !errors.As(err, &lit) {
			t.Errorf("%q: expected a LiteralError, got %T", input, err)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"0", 0},
		{"95", 95},
		{"-4", -4},
		{"0x10", 16},
		{"0XFF", 255},
		// A leading zero is plain decimal, not octal.
		{"0755", 755},
	}
	for _, tt := range tests {
		got, err := parseInt(tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("%q: expected %d, got %d", tt.input, tt.expected, got)
		}
	}

	// Go literal forms outside the registry dialect are rejected.
	for _, input := range []string{"0b101", "0o755", "1_000", "0x_FF", ""} {
		if _, err := parseInt(input); err == nil {
			t.Errorf("%q: expected an error", input)
		}
	}
}

func TestParseBool(t *testing.T) {
	if !parseBool("true") {
		t.Error(`Expected "true" to parse as true`)
	}
	for _, s := range []string{"", "false", "TRUE", "1"} {
		if parseBool(s) {
			t.Errorf("Expected %q to parse as false", s)
		}
	}
}
