package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/vkreg/typedb"
)

// LiteralError reports a numeric or float attribute that failed to
// parse. It is the one error class that fails a run; everything else
// degrades to placeholder records.
type LiteralError struct {
	Literal string
	Err     error
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("malformed literal %q: %v", e.Literal, e.Err)
}

func (e *LiteralError) Unwrap() error {
	return e.Err
}

// parseBool decodes the registry's boolean convention: the literal
// substring "true" and nothing else.
func parseBool(s string) bool {
	return s == "true"
}

// parseInt decodes a decimal or 0x-prefixed hex integer. The registry
// dialect has no octal, binary or underscore-separated forms.
func parseInt(s string) (int64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		u, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, &LiteralError{Literal: s, Err: err}
		}
		return int64(u), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &LiteralError{Literal: s, Err: err}
	}
	return v, nil
}

// parseConstantValue decodes a registry constant expression: a quoted
// string, a decimal or hex integer, a float with an F suffix, or the
// (~N U) / (~N ULL) bitwise-NOT forms.
func parseConstantValue(s string) (typedb.ConstantValue, error) {
	s = strings.TrimSpace(s)

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return typedb.ConstantValue{Kind: typedb.ConstString, Str: s[1 : len(s)-1]}, nil
	}

	if strings.HasPrefix(s, "(~") && strings.HasSuffix(s, ")") {
		return parseBitNot(s)
	}

	// The hex check must come first: a hex literal may end in f or F.
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return typedb.ConstantValue{}, &LiteralError{Literal: s, Err: err}
		}
		return typedb.ConstantValue{Kind: typedb.ConstUint, Uint: v, Int: int64(v)}, nil
	}

	if f, ok := strings.CutSuffix(s, "f"); ok {
		return parseFloat(s, f)
	}
	if f, ok := strings.CutSuffix(s, "F"); ok {
		return parseFloat(s, f)
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return typedb.ConstantValue{}, &LiteralError{Literal: s, Err: err}
	}
	return typedb.ConstantValue{Kind: typedb.ConstInt, Int: v}, nil
}

// parseBitNot decodes (~<digits>U), (~<digits>UL) and (~<digits>ULL):
// the bitwise NOT of the digits at the stated width.
func parseBitNot(s string) (typedb.ConstantValue, error) {
	inner := s[2 : len(s)-1]
	width := 32
	switch {
	case strings.HasSuffix(inner, "ULL"):
		inner = inner[:len(inner)-3]
		width = 64
	case strings.HasSuffix(inner, "UL"):
		inner = inner[:len(inner)-2]
		width = 64
	case strings.HasSuffix(inner, "U"):
		inner = inner[:len(inner)-1]
	default:
		return typedb.ConstantValue{}, &LiteralError{Literal: s, Err: fmt.Errorf("missing width suffix")}
	}
	n, err := strconv.ParseUint(inner, 10, 64)
	if err != nil {
		return typedb.ConstantValue{}, &LiteralError{Literal: s, Err: err}
	}
	v := ^n
	if width == 32 {
		v = uint64(^uint32(n))
	}
	return typedb.ConstantValue{Kind: typedb.ConstUint, Uint: v, Int: int64(v)}, nil
}

func parseFloat(orig, digits string) (typedb.ConstantValue, error) {
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return typedb.ConstantValue{}, &LiteralError{Literal: orig, Err: err}
	}
	return typedb.ConstantValue{Kind: typedb.ConstFloat, Float: v}, nil
}
