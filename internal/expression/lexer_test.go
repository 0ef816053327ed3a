package expression_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/prattcalc/internal/expression"
	"github.com/karupanerura/prattcalc/internal/types"
)

func tok(kind expression.TokenKind, start int, content string) expression.Token {
	return expression.Token{
		Kind:    kind,
		Pos:     expression.Position{Start: start, End: start + len(content)},
		Content: content,
	}
}

func TestLex(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source   string
		expected []expression.Token
		errTag   types.ErrorTag
	}{
		{
			source: "",
			expected: []expression.Token{
				tok(expression.EndOfInputToken, 0, ""),
			},
		},
		{
			source: " \t\r\n",
			expected: []expression.Token{
				tok(expression.EndOfInputToken, 4, ""),
			},
		},
		{
			source: "0",
			expected: []expression.Token{
				tok(expression.NumberToken, 0, "0"),
				tok(expression.EndOfInputToken, 1, ""),
			},
		},
		{
			source: "00123",
			expected: []expression.Token{
				tok(expression.NumberToken, 0, "00123"),
				tok(expression.EndOfInputToken, 5, ""),
			},
		},
		{
			source: "1 + 2 * 3 - 4",
			expected: []expression.Token{
				tok(expression.NumberToken, 0, "1"),
				tok(expression.OperatorToken, 2, "+"),
				tok(expression.NumberToken, 4, "2"),
				tok(expression.OperatorToken, 6, "*"),
				tok(expression.NumberToken, 8, "3"),
				tok(expression.OperatorToken, 10, "-"),
				tok(expression.NumberToken, 12, "4"),
				tok(expression.EndOfInputToken, 13, ""),
			},
		},
		{
			source: "(12)/-3",
			expected: []expression.Token{
				tok(expression.ParenthesisToken, 0, "("),
				tok(expression.NumberToken, 1, "12"),
				tok(expression.ParenthesisToken, 3, ")"),
				tok(expression.OperatorToken, 4, "/"),
				tok(expression.OperatorToken, 5, "-"),
				tok(expression.NumberToken, 6, "3"),
				tok(expression.EndOfInputToken, 7, ""),
			},
		},
		{
			source: "12\n+\t34 ",
			expected: []expression.Token{
				tok(expression.NumberToken, 0, "12"),
				tok(expression.OperatorToken, 3, "+"),
				tok(expression.NumberToken, 5, "34"),
				tok(expression.EndOfInputToken, 8, ""),
			},
		},
		{
			// lexing is not parsing
			source: ")(+",
			expected: []expression.Token{
				tok(expression.ParenthesisToken, 0, ")"),
				tok(expression.ParenthesisToken, 1, "("),
				tok(expression.OperatorToken, 2, "+"),
				tok(expression.EndOfInputToken, 3, ""),
			},
		},
		{
			source: "1 % 2",
			errTag: types.UnrecognizedCharacterTag,
		},
		{
			source: "x",
			errTag: types.UnrecognizedCharacterTag,
		},
		{
			source: "1.5",
			errTag: types.UnrecognizedCharacterTag,
		},
		{
			source: "3 × 4",
			errTag: types.UnrecognizedCharacterTag,
		},
		{
			source: "1\x00",
			errTag: types.UnrecognizedCharacterTag,
		},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			tokens, err := expression.Lex(tt.source)
			if tt.errTag != "" {
				if err == nil {
					t.Fatalf("should be lex error: %v", tokens)
				}
				if !errors.Is(err, &types.Error{Tag: types.LexErrorTag}) {
					t.Errorf("expected LexError but got %v", err)
				}
				if !errors.Is(err, &types.Error{Tag: tt.errTag}) {
					t.Errorf("expected %s but got %v", tt.errTag, err)
				}
				t.Logf("expected lex error: %v", err)
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tt.expected, tokens); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexUnrecognizedCharacterException(t *testing.T) {
	t.Parallel()

	_, err := expression.Lex("12 é")
	var exception types.Exception
	if !errors.As(err, &exception) {
		t.Fatalf("expected exception but got %v", err)
	}

	got, ok := exception.Exception().(map[string]any)
	if !ok {
		t.Fatalf("unexpected exception payload: %T", exception.Exception())
	}
	if diff := cmp.Diff([]any{types.LexErrorTag, types.UnrecognizedCharacterTag}, got["tags"]); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if got["char"] != "é" {
		t.Errorf("expect to é but got %v", got["char"])
	}
	if diff := cmp.Diff(expression.Position{Start: 3, End: 5}, got["position"]); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
}

func TestLexSingleNumber(t *testing.T) {
	t.Parallel()

	for _, source := range []string{"0", "7", "42", "1234567890", "9223372036854775807"} {
		tokens, err := expression.Lex(source)
		if err != nil {
			t.Fatal(err)
		}
		if len(tokens) != 2 {
			t.Fatalf("expect 2 tokens but got %d: %v", len(tokens), tokens)
		}
		if tokens[0].Kind != expression.NumberToken || tokens[0].Content != source {
			t.Errorf("unexpected first token: %v", tokens[0])
		}
		if tokens[1].Kind != expression.EndOfInputToken {
			t.Errorf("unexpected last token: %v", tokens[1])
		}
	}
}

func TestTokenString(t *testing.T) {
	t.Parallel()

	tokens, err := expression.Lex("(1)")
	if err != nil {
		t.Fatal(err)
	}

	got := make([]string, len(tokens))
	for i, tok := range tokens {
		got[i] = tok.String()
	}
	expected := []string{
		"PARENTHESIS `(` (0, 1)",
		"NUMBER `1` (1, 2)",
		"PARENTHESIS `)` (2, 3)",
		"EOI `` (3, 3)",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
