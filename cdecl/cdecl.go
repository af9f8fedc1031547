// Package cdecl decodes the C declarator fragments of a registry member
// or parameter into a canonical shape.
//
// The registry splits one declarator into a prefix ("const"), a base type
// name, a suffix ("* const*"), an optional fixed-array dimension string
// and an optional comma-separated length hint. Decode turns those
// fragments into pointer levels and array dimensions that the type
// database can intern.
package cdecl

import "strings"

// Multiplicity says whether a pointer level addresses one element or a
// run of elements.
type Multiplicity uint8

const (
	Single Multiplicity = iota
	Slice
)

// String returns a human-readable name for the multiplicity.
func (m Multiplicity) String() string {
	if m == Slice {
		return "slice"
	}
	return "single"
}

// Level describes one pointer level of a declarator. Const means the
// level's pointee is const qualified.
type Level struct {
	Const          bool
	Mult           Multiplicity
	ZeroTerminated bool
}

// ArraySize is one fixed-array dimension: either a literal expression
// ("2", "3*4") or a reference to a named constant ("VK_UUID_SIZE").
type ArraySize struct {
	Expr     string
	Constant string
}

// Shape is the canonical form of a declarator. Levels are ordered
// outermost first, matching the order of length-hint entries. Arrays are
// ordered outermost dimension first.
type Shape struct {
	Levels []Level
	Arrays []ArraySize
}

// PointerDepth returns the number of pointer levels.
func (s Shape) PointerDepth() int {
	return len(s.Levels)
}

// Decode turns raw declarator fragments into a Shape.
//
// Pointer depth is the number of asterisks in the suffix. A "const" in
// the prefix qualifies the innermost (type-adjacent) level; a "const"
// after n asterisks in the suffix qualifies level n counting outward
// from the base type.
//
// The length hint, when present, lists one entry per level, outermost
// first: "1" makes the level an ordinary single pointer,
// "null-terminated" a sentinel-terminated slice, anything else an
// ordinary slice. Entries beyond the declared asterisk depth introduce
// additional inner levels. Without a length hint every level is a plain
// single pointer.
//
// In argument context (arg true) a fixed-array declarator decays to a
// single pointer to the element type.
func Decode(prefix, base, suffix, dims, length string, arg bool) Shape {
	var s Shape

	depth := strings.Count(suffix, "*")
	var hints []string
	if length != "" {
		hints = strings.Split(length, ",")
		for i := range hints {
			hints[i] = strings.TrimSpace(hints[i])
		}
	}
	levels := depth
	if len(hints) > levels {
		levels = len(hints)
	}
	if levels > 0 {
		s.Levels = make([]Level, levels)
		for i := range s.Levels {
			switch {
			case length == "", i < len(hints) && hints[i] == "1":
				s.Levels[i].Mult = Single
			case i < len(hints) && hints[i] == "null-terminated":
				s.Levels[i].Mult = Slice
				s.Levels[i].ZeroTerminated = true
			default:
				// A declared level with no matching hint entry defaults to
				// an ordinary slice. Registry folklore rather than a
				// documented contract; pinned by tests.
				s.Levels[i].Mult = Slice
			}
		}
	}

	if depth == 0 && dims != "" {
		s.Arrays = parseDims(dims)
		if arg && len(s.Arrays) > 0 {
			// By-value array decay: the outermost dimension becomes a
			// single pointer to the element type.
			s.Arrays = s.Arrays[1:]
			if len(s.Arrays) == 0 {
				s.Arrays = nil
			}
			s.Levels = append([]Level{{Mult: Single}}, s.Levels...)
		}
	}

	if len(s.Levels) > 0 {
		if hasConst(prefix) {
			s.Levels[len(s.Levels)-1].Const = true
		}
		markSuffixConst(suffix, s.Levels)
	}

	// An element run of void has no representable element size; collapse
	// the type-adjacent level to a plain pointer (the database retargets
	// it at the opaque builtin).
	if base == "void" && len(s.Levels) > 0 {
		inner := &s.Levels[len(s.Levels)-1]
		if inner.Mult == Slice {
			inner.Mult = Single
			inner.ZeroTerminated = false
		}
	}

	return s
}

// markSuffixConst applies "const" words found in the suffix. A const
// after n asterisks qualifies pointer level n counting from the base
// type; levels is ordered outermost first.
func markSuffixConst(suffix string, levels []Level) {
	stars := 0
	for _, word := range strings.FieldsFunc(suffix, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n'
	}) {
		for _, seg := range strings.Split(word, "*") {
			if seg == "const" && stars >= 1 && stars < len(levels) {
				levels[len(levels)-1-stars].Const = true
			}
			stars++
		}
		stars-- // Split yields one more segment than asterisks.
	}
}

func hasConst(prefix string) bool {
	for _, f := range strings.Fields(prefix) {
		if f == "const" {
			return true
		}
	}
	return false
}

// parseDims splits a raw dimension string into its dimensions. Each
// dimension is either a bracketed literal/expression or a bare name
// resolving to a named constant; bracketed names are constant references
// as well.
func parseDims(dims string) []ArraySize {
	dims = strings.TrimSpace(dims)
	if dims == "" {
		return nil
	}
	if !strings.HasPrefix(dims, "[") {
		return []ArraySize{makeDim(dims)}
	}
	var out []ArraySize
	for dims != "" {
		if dims[0] != '[' {
			break
		}
		end := strings.IndexByte(dims, ']')
		if end < 0 {
			out = append(out, makeDim(strings.TrimSpace(dims[1:])))
			break
		}
		out = append(out, makeDim(strings.TrimSpace(dims[1:end])))
		dims = strings.TrimSpace(dims[end+1:])
	}
	return out
}

func makeDim(s string) ArraySize {
	if isLiteralExpr(s) {
		return ArraySize{Expr: s}
	}
	return ArraySize{Constant: s}
}

// isLiteralExpr reports whether the dimension is a numeric literal or
// arithmetic expression rather than a named constant.
func isLiteralExpr(s string) bool {
	if s == "" {
		return true
	}
	c := s[0]
	return c >= '0' && c <= '9'
}
