package expression

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/prattcalc/internal/types"
)

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("PRATTCALC_EXPRESSION_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type parser struct {
	tokens []Token
	index  int
	debug  bool

	infixOperators  map[string]infixOperator
	binaryOperators map[string]BinaryOp
}

func newParser(tokens []Token, debug bool) *parser {
	return &parser{
		tokens:          tokens,
		debug:           debug,
		infixOperators:  infixOperatorPrecedenceMap,
		binaryOperators: binaryOperatorMap,
	}
}

// Parse builds the tree for a token sequence produced by Lex.
func Parse(tokens []Token) (*Root, error) {
	return newParser(tokens, parserDebugLog).parse()
}

func ParseWithDebugOutput(tokens []Token) (*Root, error) {
	return newParser(tokens, true).parse()
}

func (p *parser) parse() (*Root, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != EndOfInputToken {
		if p.debug {
			log.Println("not consumed token: ", tok)
		}
		return nil, types.NewParseError(types.UnconsumedInputTag, map[string]any{
			"found":    tok.Kind,
			"content":  tok.Content,
			"position": tok.Pos,
		}, "unconsumed token %s %q at %d", tok.Kind, tok.Content, tok.Pos.Start)
	}

	root := &Root{Expr: expr}
	if p.debug {
		pp.Println(p.tokens)
		pp.Println(root)
		log.Println(Render(root))
	}
	return root, nil
}

func (p *parser) parseExpression(minBP int) (Node, error) {
	var left Node

	tok := p.peek()
	if p.debug {
		log.Println("first token: ", tok, "minBP: ", minBP)
	}
	if bp := prefixBindingPower(tok); bp >= minBP {
		p.consume()
		op, err := prefixOperatorOf(tok)
		if err != nil {
			return nil, p.createUnexpectedTokenError(tok, "", err)
		}

		operand, err := p.parseExpression(bp)
		if err != nil {
			return nil, err
		}

		left = &UnaryOperator{
			Operator: op,
			Operand:  operand,
			Pos:      Position{Start: tok.Pos.Start, End: nodePos(operand).End},
		}
	} else {
		atom, err := p.parseAtomic()
		if err != nil {
			return nil, err
		}
		left = atom
	}

	for {
		tok := p.peek()
		if bp := postfixBindingPower(tok); bp < minBP {
			break
		}
		if p.debug {
			log.Println("postfix token: ", tok)
		}

		p.consume()
		op, err := postfixOperatorOf(tok)
		if err != nil {
			return nil, p.createUnexpectedTokenError(tok, "", err)
		}

		left = &UnaryOperator{
			Operator: op,
			Operand:  left,
			Pos:      Position{Start: nodePos(left).Start, End: tok.Pos.End},
		}
	}

	for {
		tok := p.peek()
		leftBP, rightBP := infixBindingPowerIn(p.infixOperators, tok)
		if leftBP < minBP {
			break
		}
		if p.debug {
			log.Println("infix token: ", tok, "bp: ", leftBP, rightBP, "left: ", Render(left))
		}

		p.consume()
		op, err := binaryOperatorIn(p.binaryOperators, tok)
		if err != nil {
			return nil, p.createUnexpectedTokenError(tok, "", err)
		}

		right, err := p.parseExpression(rightBP)
		if err != nil {
			return nil, err
		}

		left = &BinaryOperator{
			Operator: op,
			Left:     left,
			Right:    right,
			Pos:      Position{Start: nodePos(left).Start, End: nodePos(right).End},
		}
	}

	return left, nil
}

func (p *parser) parseAtomic() (Node, error) {
	switch tok := p.peek(); {
	case tok.Kind == NumberToken:
		p.consume()
		return &Number{Value: tok.Content, Pos: tok.Pos}, nil

	case tok.is(ParenthesisToken, "("):
		p.consume()
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ParenthesisToken, ")"); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.createUnexpectedTokenError(tok, "", nil)
	}
}

// peek returns the trailing EOI token once the sequence is exhausted.
func (p *parser) peek() Token {
	if p.index < len(p.tokens) {
		return p.tokens[p.index]
	}
	if len(p.tokens) != 0 {
		if last := p.tokens[len(p.tokens)-1]; last.Kind == EndOfInputToken {
			return last
		}
		end := p.tokens[len(p.tokens)-1].Pos.End
		return Token{Kind: EndOfInputToken, Pos: Position{Start: end, End: end}}
	}
	return Token{Kind: EndOfInputToken}
}

func (p *parser) consume() Token {
	tok := p.peek()
	if p.index < len(p.tokens) {
		p.index++
	}
	return tok
}

func (p *parser) expect(kind TokenKind, content string) (Token, error) {
	if tok := p.peek(); !tok.is(kind, content) {
		return Token{}, p.createUnexpectedTokenError(tok, fmt.Sprintf("%s %q", kind, content), nil)
	}
	return p.consume(), nil
}

func (p *parser) createUnexpectedTokenError(t Token, expected string, cause error) error {
	extra := map[string]any{
		"found":    t.Kind,
		"content":  t.Content,
		"position": t.Pos,
	}
	msg := fmt.Sprintf("unexpected token %s %q at %d", t.Kind, t.Content, t.Pos.Start)
	if expected != "" {
		extra["expected"] = expected
		msg = fmt.Sprintf("expected %s but got %s %q at %d", expected, t.Kind, t.Content, t.Pos.Start)
	}
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return types.NewParseError(types.UnexpectedTokenTag, extra, "%s", msg)
}

func nodePos(n Node) Position {
	switch n := n.(type) {
	case *Number:
		return n.Pos
	case *UnaryOperator:
		return n.Pos
	case *BinaryOperator:
		return n.Pos
	case *Root:
		return nodePos(n.Expr)
	default:
		return Position{}
	}
}
