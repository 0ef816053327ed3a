package codegen

import (
	"fmt"
	"math"

	"github.com/karupanerura/prattcalc/internal/expression"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

var overflowIntrinsicNames = map[expression.BinaryOp]string{
	expression.Addition:       "llvm.sadd.with.overflow.i64",
	expression.Subtraction:    "llvm.ssub.with.overflow.i64",
	expression.Multiplication: "llvm.smul.with.overflow.i64",
}

// Compile lowers root into a module whose main prints the value of the
// expression and exits 0, or prints the failure and exits 1 on division by
// zero or overflow.
func Compile(root *expression.Root) (*ir.Module, error) {
	b := newLLVMIRBuilder()
	if err := b.main(root); err != nil {
		return nil, err
	}
	return b.mod, nil
}

type llvmIRBuilder struct {
	mod   *ir.Module
	fn    *ir.Func
	block *ir.Block

	printf     *ir.Func
	intrinsics map[expression.BinaryOp]*ir.Func

	zeroDivisionBlock *ir.Block
	overflowBlock     *ir.Block

	blocks int
}

func newLLVMIRBuilder() *llvmIRBuilder {
	b := &llvmIRBuilder{
		mod:        ir.NewModule(),
		intrinsics: make(map[expression.BinaryOp]*ir.Func, len(overflowIntrinsicNames)),
	}

	b.printf = b.mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	b.printf.Sig.Variadic = true
	return b
}

func (b *llvmIRBuilder) main(root *expression.Root) error {
	if root == nil || root.Expr == nil {
		return fmt.Errorf("empty root")
	}

	b.fn = b.mod.NewFunc("main", types.I32)
	b.block = b.fn.NewBlock("entry")

	v, err := b.recursiveLoad(root.Expr)
	if err != nil {
		return err
	}

	b.block.NewCall(b.printf, b.cString(".fmt.result", "%lld\n"), v)
	b.block.NewRet(constant.NewInt(types.I32, exitSuccess))
	return nil
}

func (b *llvmIRBuilder) recursiveLoad(node expression.Node) (value.Value, error) {
	switch n := node.(type) {
	case *expression.Number:
		v, err := n.Int64()
		if err != nil {
			return nil, err
		}
		return constant.NewInt(types.I64, v), nil

	case *expression.UnaryOperator:
		if n == nil {
			return nil, fmt.Errorf("nil %T in tree", node)
		}
		return b.unaryExpression(n)

	case *expression.BinaryOperator:
		if n == nil {
			return nil, fmt.Errorf("nil %T in tree", node)
		}
		return b.binaryExpression(n)

	case *expression.Root:
		if n == nil {
			return nil, fmt.Errorf("nil %T in tree", node)
		}
		return b.recursiveLoad(n.Expr)

	default:
		return nil, fmt.Errorf("unexpected node type: %T", node)
	}
}

func (b *llvmIRBuilder) unaryExpression(n *expression.UnaryOperator) (value.Value, error) {
	v, err := b.recursiveLoad(n.Operand)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case expression.Positive:
		return v, nil
	case expression.Negative:
		return b.checkedArithmetic(expression.Subtraction, constant.NewInt(types.I64, 0), v), nil
	default:
		return nil, fmt.Errorf("unexpected unary op: %s", n.Operator)
	}
}

func (b *llvmIRBuilder) binaryExpression(n *expression.BinaryOperator) (value.Value, error) {
	lhs, err := b.recursiveLoad(n.Left)
	if err != nil {
		return nil, err
	}
	rhs, err := b.recursiveLoad(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case expression.Addition, expression.Subtraction, expression.Multiplication:
		return b.checkedArithmetic(n.Operator, lhs, rhs), nil

	case expression.Division:
		isZero := b.block.NewICmp(enum.IPredEQ, rhs, constant.NewInt(types.I64, 0))
		b.branchOnFailure(isZero, b.zeroDivision())

		isMin := b.block.NewICmp(enum.IPredEQ, lhs, constant.NewInt(types.I64, math.MinInt64))
		isMinusOne := b.block.NewICmp(enum.IPredEQ, rhs, constant.NewInt(types.I64, -1))
		b.branchOnFailure(b.block.NewAnd(isMin, isMinusOne), b.overflow())

		return b.block.NewSDiv(lhs, rhs), nil

	default:
		return nil, fmt.Errorf("unexpected binary op: %s", n.Operator)
	}
}

func (b *llvmIRBuilder) checkedArithmetic(op expression.BinaryOp, lhs, rhs value.Value) value.Value {
	call := b.block.NewCall(b.intrinsic(op), lhs, rhs)
	result := b.block.NewExtractValue(call, 0)
	overflowed := b.block.NewExtractValue(call, 1)
	b.branchOnFailure(overflowed, b.overflow())
	return result
}

// branchOnFailure ends the current block with a jump to failure when cond
// holds and continues emitting into a fresh block otherwise.
func (b *llvmIRBuilder) branchOnFailure(cond value.Value, failure *ir.Block) {
	b.blocks++
	next := b.fn.NewBlock(fmt.Sprintf("cont.%d", b.blocks))
	b.block.NewCondBr(cond, failure, next)
	b.block = next
}

func (b *llvmIRBuilder) intrinsic(op expression.BinaryOp) *ir.Func {
	if f, ok := b.intrinsics[op]; ok {
		return f
	}

	f := b.mod.NewFunc(overflowIntrinsicNames[op],
		types.NewStruct(types.I64, types.I1),
		ir.NewParam("a", types.I64),
		ir.NewParam("b", types.I64),
	)
	b.intrinsics[op] = f
	return f
}

func (b *llvmIRBuilder) zeroDivision() *ir.Block {
	if b.zeroDivisionBlock == nil {
		b.zeroDivisionBlock = b.failureBlock("division_by_zero", ".msg.division_by_zero", "ZeroDivisionError: division by zero\n")
	}
	return b.zeroDivisionBlock
}

func (b *llvmIRBuilder) overflow() *ir.Block {
	if b.overflowBlock == nil {
		b.overflowBlock = b.failureBlock("overflow", ".msg.overflow", "OverflowError: integer overflow\n")
	}
	return b.overflowBlock
}

func (b *llvmIRBuilder) failureBlock(name, global, message string) *ir.Block {
	block := b.fn.NewBlock(name)
	block.NewCall(b.printf, b.cString(global, message))
	block.NewRet(constant.NewInt(types.I32, exitFailure))
	return block
}

func (b *llvmIRBuilder) cString(name, s string) constant.Constant {
	str := constant.NewCharArrayFromString(s + "\x00")
	glob := b.mod.NewGlobalDef(name, str)
	glob.Immutable = true

	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(str.Typ, glob, zero, zero)
}
