package expression

import (
	"fmt"
	"io"
	"strings"
)

const prettyIndentDepth = 8

// Render returns the tree as an S-expression, e.g. "(- (+ 1 (* 2 3)) 4)".
func Render(node Node) string {
	var b strings.Builder
	render(&b, node)
	return b.String()
}

func render(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("nil")
	case *Root:
		render(b, n.Expr)
	case *Number:
		b.WriteString(n.Value)
	case *UnaryOperator:
		b.WriteByte('(')
		b.WriteString(n.Operator.String())
		b.WriteByte(' ')
		render(b, n.Operand)
		b.WriteByte(')')
	case *BinaryOperator:
		b.WriteByte('(')
		b.WriteString(n.Operator.String())
		b.WriteByte(' ')
		render(b, n.Left)
		b.WriteByte(' ')
		render(b, n.Right)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<%T>", node)
	}
}

// PrettyPrint writes an indented, one-field-per-line dump of the tree.
func PrettyPrint(w io.Writer, node Node) error {
	return prettyPrint(w, node, 0)
}

func prettyPrint(w io.Writer, node Node, indent int) error {
	pad := strings.Repeat(" ", indent)
	var lines []string
	var children []Node
	switch n := node.(type) {
	case *Root:
		lines = []string{"root", "- expr:"}
		children = []Node{n.Expr}
	case *Number:
		lines = []string{"number " + n.Value}
	case *UnaryOperator:
		lines = []string{"unary-op", "- op: " + n.Operator.String(), "- operand:"}
		children = []Node{n.Operand}
	case *BinaryOperator:
		if _, err := fmt.Fprintf(w, "%sbinary-op\n%s- op: %s\n%s- left:\n", pad, pad, n.Operator, pad); err != nil {
			return err
		}
		if err := prettyPrint(w, n.Left, indent+prettyIndentDepth); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s- right:\n", pad); err != nil {
			return err
		}
		return prettyPrint(w, n.Right, indent+prettyIndentDepth)
	default:
		return fmt.Errorf("unexpected node type: %T", node)
	}

	for _, line := range lines {
		if _, err := io.WriteString(w, pad+line+"\n"); err != nil {
			return err
		}
	}
	for _, child := range children {
		if err := prettyPrint(w, child, indent+prettyIndentDepth); err != nil {
			return err
		}
	}
	return nil
}
