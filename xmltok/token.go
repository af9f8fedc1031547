package xmltok

// TokenKind represents the type of token.
type TokenKind uint8

const (
	// TokenText is character data between elements.
	TokenText TokenKind = iota

	// TokenElemStart is the opening of a start tag: "<name".
	// The tokenizer switches to attribute state until the tag is closed.
	TokenElemStart

	// TokenElemEnd is a full end tag: "</name>".
	TokenElemEnd

	// TokenAttr is one name="value" pair inside a start tag.
	TokenAttr

	// TokenAttrListEnd is the ">" closing a start tag that has a body.
	TokenAttrListEnd

	// TokenAttrListEndEmpty is the "/>" closing a self-closing tag.
	TokenAttrListEndEmpty
)

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "Text"
	case TokenElemStart:
		return "ElemStart"
	case TokenElemEnd:
		return "ElemEnd"
	case TokenAttr:
		return "Attr"
	case TokenAttrListEnd:
		return "AttrListEnd"
	case TokenAttrListEndEmpty:
		return "AttrListEndEmpty"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit of the registry document.
//
// Name is set for ElemStart, ElemEnd and Attr tokens. Value is set for
// Text (the character data) and Attr (the attribute value) tokens.
type Token struct {
	Kind  TokenKind
	Name  string
	Value string
}
