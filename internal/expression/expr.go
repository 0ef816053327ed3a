package expression

import (
	"fmt"
)

// Expr is a parsed source with the tokens it was built from.
type Expr struct {
	Source string
	Tokens []Token
	Root   *Root
}

func (e *Expr) String() string {
	return e.Source
}

func (e *Expr) Evaluate() (int64, error) {
	return Evaluate(e.Root)
}

func ParseExpr(source string) (*Expr, error) {
	return parseExpr(source, Parse)
}

func ParseExprWithDebugOutput(source string) (*Expr, error) {
	return parseExpr(source, ParseWithDebugOutput)
}

func parseExpr(source string, parse func([]Token) (*Root, error)) (*Expr, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, fmt.Errorf("expression.Lex: %w", err)
	}

	root, err := parse(tokens)
	if err != nil {
		return nil, fmt.Errorf("expression.Parse: %w", err)
	}

	return &Expr{
		Source: source,
		Tokens: tokens,
		Root:   root,
	}, nil
}

// Result holds every stage output of one run.
type Result struct {
	Tokens []Token `json:"tokens"`
	Tree   string  `json:"tree"`
	Value  int64   `json:"result"`
	Root   *Root   `json:"-"`
}

// Run lexes, parses and evaluates source in one call.
func Run(source string) (*Result, error) {
	expr, err := ParseExpr(source)
	if err != nil {
		return nil, err
	}

	v, err := expr.Evaluate()
	if err != nil {
		return nil, fmt.Errorf("expression.Evaluate: %w", err)
	}

	return &Result{
		Tokens: expr.Tokens,
		Tree:   Render(expr.Root),
		Value:  v,
		Root:   expr.Root,
	}, nil
}
