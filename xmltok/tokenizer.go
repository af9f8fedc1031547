// Package xmltok implements a pull tokenizer for the XML dialect used by
// hardware API registry documents.
//
// The Tokenizer is a plain value: copying it snapshots the cursor, and
// assigning a saved copy back restores it. Parsers use this to attempt one
// parse shape and fall back to another, which is how the registry's
// context-dependent element meanings are handled.
//
// Malformed or truncated input never produces an error. The tokenizer
// simply reports end of stream, and callers treat a premature end as a
// structural mismatch.
package xmltok

import "strings"

// Tokenizer is a cursor over a registry document. The zero value is not
// usable; construct one with New. Tokenizer values are cheap to copy and
// a copy is a fully independent snapshot.
type Tokenizer struct {
	src     string
	pos     int
	inAttrs bool
}

// New creates a tokenizer over the given source.
func New(src string) Tokenizer {
	return Tokenizer{src: src}
}

// Next consumes and returns the next token. It returns false at end of
// input or on malformed input; once it has returned false it keeps
// returning false.
func (t *Tokenizer) Next() (Token, bool) {
	if t.inAttrs {
		return t.nextAttr()
	}
	return t.nextElem()
}

// Peek returns the next token without consuming it.
func (t Tokenizer) Peek() (Token, bool) {
	return t.Next()
}

func (t *Tokenizer) nextElem() (Token, bool) {
	for {
		if t.pos >= len(t.src) {
			return Token{}, false
		}
		if t.src[t.pos] != '<' {
			return t.textToken()
		}

		rest := t.src[t.pos:]
		switch {
		case strings.HasPrefix(rest, "<?"):
			// Processing instruction, skipped without a token.
			if !t.skipPast("?>") {
				return t.fail()
			}
		case strings.HasPrefix(rest, "<!--"):
			if !t.skipPast("-->") {
				return t.fail()
			}
		case strings.HasPrefix(rest, "<!"):
			// DOCTYPE and friends.
			if !t.skipPast(">") {
				return t.fail()
			}
		case strings.HasPrefix(rest, "</"):
			t.pos += 2
			name := t.readName()
			if name == "" {
				return t.fail()
			}
			t.skipSpace()
			if t.pos >= len(t.src) || t.src[t.pos] != '>' {
				return t.fail()
			}
			t.pos++
			return Token{Kind: TokenElemEnd, Name: name}, true
		default:
			t.pos++
			name := t.readName()
			if name == "" {
				return t.fail()
			}
			t.inAttrs = true
			return Token{Kind: TokenElemStart, Name: name}, true
		}
	}
}

func (t *Tokenizer) nextAttr() (Token, bool) {
	t.skipSpace()
	if t.pos >= len(t.src) {
		return t.fail()
	}
	if strings.HasPrefix(t.src[t.pos:], "/>") {
		t.pos += 2
		t.inAttrs = false
		return Token{Kind: TokenAttrListEndEmpty}, true
	}
	if t.src[t.pos] == '>' {
		t.pos++
		t.inAttrs = false
		return Token{Kind: TokenAttrListEnd}, true
	}

	name := t.readName()
	if name == "" {
		return t.fail()
	}
	t.skipSpace()
	if t.pos >= len(t.src) || t.src[t.pos] != '=' {
		return t.fail()
	}
	t.pos++
	t.skipSpace()
	if t.pos >= len(t.src) {
		return t.fail()
	}
	quote := t.src[t.pos]
	if quote != '"' && quote != '\'' {
		return t.fail()
	}
	t.pos++
	end := strings.IndexByte(t.src[t.pos:], quote)
	if end < 0 {
		return t.fail()
	}
	value := t.src[t.pos : t.pos+end]
	t.pos += end + 1
	return Token{Kind: TokenAttr, Name: name, Value: unescape(value)}, true
}

func (t *Tokenizer) textToken() (Token, bool) {
	start := t.pos
	end := strings.IndexByte(t.src[t.pos:], '<')
	if end < 0 {
		t.pos = len(t.src)
	} else {
		t.pos += end
	}
	return Token{Kind: TokenText, Value: unescape(t.src[start:t.pos])}, true
}

// fail puts the tokenizer into its terminal state. Malformed input is
// indistinguishable from a truncated document on purpose.
func (t *Tokenizer) fail() (Token, bool) {
	t.pos = len(t.src)
	t.inAttrs = false
	return Token{}, false
}

func (t *Tokenizer) skipPast(marker string) bool {
	i := strings.Index(t.src[t.pos:], marker)
	if i < 0 {
		t.pos = len(t.src)
		return false
	}
	t.pos += i + len(marker)
	return true
}

func (t *Tokenizer) skipSpace() {
	for t.pos < len(t.src) && isSpace(t.src[t.pos]) {
		t.pos++
	}
}

func (t *Tokenizer) readName() string {
	start := t.pos
	for t.pos < len(t.src) && isNameByte(t.src[t.pos]) {
		t.pos++
	}
	return t.src[start:t.pos]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_', b == '-', b == '.', b == ':':
		return true
	}
	return false
}

var unescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", "\"",
	"&apos;", "'",
	"&amp;", "&",
)

func unescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return unescaper.Replace(s)
}
