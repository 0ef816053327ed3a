package expression

import (
	"unicode/utf8"

	"github.com/karupanerura/prattcalc/internal/types"
)

const endOfInput byte = 0

type lexer struct {
	source string
	index  int
	tokens []Token
}

func newLexer(source string) *lexer {
	return &lexer{
		source: source,
		index:  0,
		tokens: nil,
	}
}

// Lex scans source into a token sequence terminated by exactly one EOI token.
func Lex(source string) ([]Token, error) {
	return newLexer(source).lex()
}

func (l *lexer) isCompleted() bool {
	return l.index >= len(l.source)
}

func (l *lexer) push(t Token) {
	l.tokens = append(l.tokens, t)
}

func (l *lexer) lex() ([]Token, error) {
	for !l.isCompleted() {
		switch c := l.peek(); c {
		case ' ', '\t', '\r', '\n':
			l.index++ // just skip white spaces
		case '+', '-', '*', '/':
			if err := l.lexSingle(OperatorToken); err != nil {
				return nil, err
			}
		case '(', ')':
			if err := l.lexSingle(ParenthesisToken); err != nil {
				return nil, err
			}
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			tok, err := l.lexNumber()
			if err != nil {
				return nil, err
			}
			l.push(tok)
		default:
			r, size := utf8.DecodeRuneInString(l.source[l.index:])
			pos := Position{Start: l.index, End: l.index + size}
			return nil, types.NewLexError(types.UnrecognizedCharacterTag, map[string]any{
				"char":     string(r),
				"position": pos,
			}, "unrecognized character %q at %d", r, l.index)
		}
	}

	l.push(makeToken(EndOfInputToken, len(l.source), ""))
	return l.tokens, nil
}

func (l *lexer) lexSingle(kind TokenKind) error {
	begins := l.index
	c, err := l.consume()
	if err != nil {
		return err
	}
	l.push(makeToken(kind, begins, string(c)))
	return nil
}

func (l *lexer) lexNumber() (Token, error) {
	begins := l.index
	for !l.isCompleted() && isDigit(l.peek()) {
		if _, err := l.consume(); err != nil {
			return Token{}, err
		}
	}
	if begins == l.index {
		return Token{}, types.NewLexError(types.InternalBoundsFaultTag, map[string]any{
			"position": Position{Start: begins, End: begins},
		}, "lexed number of length 0 at %d", begins)
	}

	return makeToken(NumberToken, begins, l.source[begins:l.index]), nil
}

// peek returns endOfInput once the index reaches the end of the source.
func (l *lexer) peek() byte {
	if l.isCompleted() {
		return endOfInput
	}
	return l.source[l.index]
}

func (l *lexer) consume() (byte, error) {
	if l.isCompleted() {
		return 0, types.NewLexError(types.InternalBoundsFaultTag, map[string]any{
			"position": Position{Start: l.index, End: l.index},
		}, "tried to consume beyond length of input: index=%d length=%d", l.index, len(l.source))
	}

	c := l.source[l.index]
	l.index++
	return c, nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
