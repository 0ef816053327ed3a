package expression

import "fmt"

type TokenKind int

const (
	OperatorToken TokenKind = iota
	NumberToken
	ParenthesisToken
	EndOfInputToken
)

func (k TokenKind) String() string {
	switch k {
	case OperatorToken:
		return "OPERATOR"
	case NumberToken:
		return "NUMBER"
	case ParenthesisToken:
		return "PARENTHESIS"
	case EndOfInputToken:
		return "EOI"
	default:
		return "?"
	}
}

func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Position is a half-open byte range [Start, End) of the source.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Start, p.End)
}

type Token struct {
	Kind    TokenKind `json:"kind"`
	Pos     Position  `json:"position"`
	Content string    `json:"content"`
}

func (t Token) is(kind TokenKind, content string) bool {
	return t.Kind == kind && t.Content == content
}

func (t Token) String() string {
	return fmt.Sprintf("%s `%s` %s", t.Kind, t.Content, t.Pos)
}

func makeToken(kind TokenKind, begins int, content string) Token {
	return Token{
		Kind:    kind,
		Pos:     Position{Start: begins, End: begins + len(content)},
		Content: content,
	}
}
