package xmltok

import (
	"strings"
	"testing"
)

func BenchmarkTokenizer(b *testing.B) {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><registry>`)
	for i := 0; i < 200; i++ {
		sb.WriteString(`<type category="struct" name="S"><member optional="true">const <type>uint32_t</type>* <name>p</name></member></type>`)
	}
	sb.WriteString(`</registry>`)
	src := sb.String()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tok := New(src)
		for {
			if _, ok := tok.Next(); !ok {
				break
			}
		}
	}
}
