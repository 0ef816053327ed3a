package expression

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/karupanerura/prattcalc/internal/types"
)

// Evaluate reduces a tree to a signed 64-bit integer. Overflow is reported
// as an error and never wraps.
func Evaluate(node Node) (int64, error) {
	switch n := node.(type) {
	case *Root:
		if n == nil || n.Expr == nil {
			return 0, fmt.Errorf("empty root")
		}
		return Evaluate(n.Expr)

	case *Number:
		return n.Int64()

	case *UnaryOperator:
		if n == nil {
			return 0, errNilNode(node)
		}
		return evaluateUnary(n)

	case *BinaryOperator:
		if n == nil {
			return 0, errNilNode(node)
		}
		return evaluateBinary(n)

	default:
		return 0, fmt.Errorf("unexpected node type: %T", node)
	}
}

func errNilNode(node Node) error {
	return fmt.Errorf("nil %T in tree", node)
}

// Int64 converts the literal digits, reporting out-of-range literals as overflow.
func (n *Number) Int64() (int64, error) {
	if n == nil {
		return 0, errNilNode(n)
	}

	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err == nil {
		return v, nil
	}

	extra := map[string]any{
		"text":     n.Value,
		"position": n.Pos,
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, types.NewEvalError(types.OverflowErrorTag, extra, "integer literal %s at %d out of range", n.Value, n.Pos.Start)
	}
	return 0, types.NewEvalError(types.MalformedLiteralTag, extra, "invalid integer literal %q at %d", n.Value, n.Pos.Start)
}

func evaluateUnary(n *UnaryOperator) (int64, error) {
	v, err := Evaluate(n.Operand)
	if err != nil {
		return 0, fmt.Errorf("operand of unary operator %q: %w", n.Operator, err)
	}

	switch n.Operator {
	case Positive:
		return v, nil
	case Negative:
		if v == math.MinInt64 {
			return 0, overflowError(n.Pos, "-(%d)", v)
		}
		return -v, nil
	default:
		return 0, fmt.Errorf("unknown unary operator: %d", n.Operator)
	}
}

func evaluateBinary(n *BinaryOperator) (int64, error) {
	lhs, err := Evaluate(n.Left)
	if err != nil {
		return 0, fmt.Errorf("left of operator %q: %w", n.Operator, err)
	}

	rhs, err := Evaluate(n.Right)
	if err != nil {
		return 0, fmt.Errorf("right of operator %q: %w", n.Operator, err)
	}

	switch n.Operator {
	case Addition:
		if (rhs > 0 && lhs > math.MaxInt64-rhs) || (rhs < 0 && lhs < math.MinInt64-rhs) {
			return 0, overflowError(n.Pos, "%d + %d", lhs, rhs)
		}
		return lhs + rhs, nil

	case Subtraction:
		if (rhs < 0 && lhs > math.MaxInt64+rhs) || (rhs > 0 && lhs < math.MinInt64+rhs) {
			return 0, overflowError(n.Pos, "%d - %d", lhs, rhs)
		}
		return lhs - rhs, nil

	case Multiplication:
		if lhs == 0 || rhs == 0 {
			return 0, nil
		}
		if (lhs == -1 && rhs == math.MinInt64) || (rhs == -1 && lhs == math.MinInt64) {
			return 0, overflowError(n.Pos, "%d * %d", lhs, rhs)
		}
		v := lhs * rhs
		if v/rhs != lhs {
			return 0, overflowError(n.Pos, "%d * %d", lhs, rhs)
		}
		return v, nil

	case Division:
		if rhs == 0 {
			return 0, types.NewEvalError(types.ZeroDivisionErrorTag, map[string]any{
				"position": n.Pos,
			}, "%d / 0 at %d", lhs, n.Pos.Start)
		}
		if lhs == math.MinInt64 && rhs == -1 {
			return 0, overflowError(n.Pos, "%d / %d", lhs, rhs)
		}
		return lhs / rhs, nil // truncates toward zero

	default:
		return 0, fmt.Errorf("unknown binary operator: %d", n.Operator)
	}
}

func overflowError(pos Position, format string, args ...any) error {
	return types.NewEvalError(types.OverflowErrorTag, map[string]any{
		"position": pos,
	}, "integer overflow: "+format, args...)
}
