package expression

import (
	"fmt"

	"github.com/samber/lo"
)

// Node is implemented by *Number, *UnaryOperator, *BinaryOperator and *Root only.
type Node interface {
	node()
}

type UnaryOp int

const (
	Positive UnaryOp = iota
	Negative
)

func (op UnaryOp) String() string {
	if s, ok := unaryOperatorSymbols[op]; ok {
		return s
	}
	return "?"
}

type BinaryOp int

const (
	Addition BinaryOp = iota
	Subtraction
	Multiplication
	Division
)

func (op BinaryOp) String() string {
	if s, ok := binaryOperatorSymbols[op]; ok {
		return s
	}
	return "?"
}

var (
	prefixOperatorMap = map[string]UnaryOp{
		"+": Positive,
		"-": Negative,
	}
	postfixOperatorMap = map[string]UnaryOp{}
	binaryOperatorMap  = map[string]BinaryOp{
		"+": Addition,
		"-": Subtraction,
		"*": Multiplication,
		"/": Division,
	}

	unaryOperatorSymbols  = lo.Invert(prefixOperatorMap)
	binaryOperatorSymbols = lo.Invert(binaryOperatorMap)
)

func prefixOperatorOf(t Token) (UnaryOp, error) {
	if op, ok := prefixOperatorMap[t.Content]; ok && t.Kind == OperatorToken {
		return op, nil
	}
	return 0, fmt.Errorf("unrecognized prefix operator %q", t.Content)
}

func postfixOperatorOf(t Token) (UnaryOp, error) {
	if op, ok := postfixOperatorMap[t.Content]; ok && t.Kind == OperatorToken {
		return op, nil
	}
	return 0, fmt.Errorf("unrecognized postfix operator %q", t.Content)
}

func binaryOperatorIn(table map[string]BinaryOp, t Token) (BinaryOp, error) {
	if op, ok := table[t.Content]; ok && t.Kind == OperatorToken {
		return op, nil
	}
	return 0, fmt.Errorf("unrecognized binary operator %q", t.Content)
}

// Number keeps the literal digits; conversion happens in Evaluate.
type Number struct {
	Value string
	Pos   Position
}

type UnaryOperator struct {
	Operator UnaryOp
	Operand  Node
	Pos      Position
}

type BinaryOperator struct {
	Operator BinaryOp
	Left     Node
	Right    Node
	Pos      Position
}

type Root struct {
	Expr Node
}

func (*Number) node()         {}
func (*UnaryOperator) node()  {}
func (*BinaryOperator) node() {}
func (*Root) node()           {}
