package xmltok

import "testing"

func collect(src string) []Token {
	tok := New(src)
	var out []Token
	for {
		tk, ok := tok.Next()
		if !ok {
			return out
		}
		out = append(out, tk)
	}
}

func TestTokenizerElements(t *testing.T) {
	tokens := collect(`<a><b/></a>`)
	expected := []Token{
		{Kind: TokenElemStart, Name: "a"},
		{Kind: TokenAttrListEnd},
		{Kind: TokenElemStart, Name: "b"},
		{Kind: TokenAttrListEndEmpty},
		{Kind: TokenElemEnd, Name: "a"},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, tk := range tokens {
		if tk != expected[i] {
			t.Errorf("Token %d: expected %+v, got %+v", i, expected[i], tk)
		}
	}
}

func TestTokenizerAttributes(t *testing.T) {
	tokens := collect(`<type category="bitmask" requires='VkAccessFlagBits'>x</type>`)
	expected := []Token{
		{Kind: TokenElemStart, Name: "type"},
		{Kind: TokenAttr, Name: "category", Value: "bitmask"},
		{Kind: TokenAttr, Name: "requires", Value: "VkAccessFlagBits"},
		{Kind: TokenAttrListEnd},
		{Kind: TokenText, Value: "x"},
		{Kind: TokenElemEnd, Name: "type"},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, tk := range tokens {
		if tk != expected[i] {
			t.Errorf("Token %d: expected %+v, got %+v", i, expected[i], tk)
		}
	}
}

func TestTokenizerText(t *testing.T) {
	tokens := collect(`<m>const <t>char</t>* const*</m>`)
	expected := []Token{
		{Kind: TokenElemStart, Name: "m"},
		{Kind: TokenAttrListEnd},
		{Kind: TokenText, Value: "const "},
		{Kind: TokenElemStart, Name: "t"},
		{Kind: TokenAttrListEnd},
		{Kind: TokenText, Value: "char"},
		{Kind: TokenElemEnd, Name: "t"},
		{Kind: TokenText, Value: "* const*"},
		{Kind: TokenElemEnd, Name: "m"},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, tk := range tokens {
		if tk != expected[i] {
			t.Errorf("Token %d: expected %+v, got %+v", i, expected[i], tk)
		}
	}
}

func TestTokenizerSkipsCommentsAndPI(t *testing.T) {
	tokens := collect(`<?xml version="1.0"?><!-- note --><r><!-- inner --></r>`)
	expected := []Token{
		{Kind: TokenElemStart, Name: "r"},
		{Kind: TokenAttrListEnd},
		{Kind: TokenElemEnd, Name: "r"},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, tk := range tokens {
		if tk != expected[i] {
			t.Errorf("Token %d: expected %+v, got %+v", i, expected[i], tk)
		}
	}
}

func TestTokenizerEntities(t *testing.T) {
	tokens := collect(`<m len="a-&gt;n">x &amp; y</m>`)
	if tokens[1].Value != "a->n" {
		t.Errorf("Attribute entity: expected %q, got %q", "a->n", tokens[1].Value)
	}
	if tokens[3].Value != "x & y" {
		t.Errorf("Text entity: expected %q, got %q", "x & y", tokens[3].Value)
	}
}

func TestTokenizerSnapshotRestore(t *testing.T) {
	tok := New(`<a x="1">body</a>`)

	save := tok
	tk, ok := tok.Next()
	if !ok || tk.Kind != TokenElemStart || tk.Name != "a" {
		t.Fatalf("Expected ElemStart a, got %+v", tk)
	}
	tok.Next()
	tok.Next()

	tok = save
	tk, ok = tok.Next()
	if !ok || tk.Kind != TokenElemStart || tk.Name != "a" {
		t.Errorf("After restore: expected ElemStart a, got %+v", tk)
	}
	tk, ok = tok.Next()
	if !ok || tk.Kind != TokenAttr || tk.Name != "x" || tk.Value != "1" {
		t.Errorf("After restore: expected Attr x=1, got %+v", tk)
	}
}

func TestTokenizerPeekDoesNotConsume(t *testing.T) {
	tok := New(`<a/>`)
	p1, _ := tok.Peek()
	p2, _ := tok.Peek()
	if p1 != p2 {
		t.Errorf("Peek changed the cursor: %+v vs %+v", p1, p2)
	}
	n, _ := tok.Next()
	if n != p1 {
		t.Errorf("Next disagrees with Peek: %+v vs %+v", n, p1)
	}
}

func TestTokenizerTruncatedInput(t *testing.T) {
	tests := []string{
		`<a`,
		`<a attr`,
		`<a attr="unterminated`,
		`</`,
		`<a><b`,
		`<!-- unterminated`,
	}
	for _, src := range tests {
		tok := New(src)
		for i := 0; i < 20; i++ {
			if _, ok := tok.Next(); !ok {
				break
			}
		}
		// Terminal state must be sticky.
		if _, ok := tok.Next(); ok {
			t.Errorf("%q: tokenizer produced a token after end of stream", src)
		}
	}
}
