package expression

// precedence levels, lowest first
const (
	assignmentPrecedence = iota
	additionPrecedence
	multiplicationPrecedence
	negationPrecedence
	exponentiationPrecedence
)

// noBindingPower is returned for tokens that cannot continue an expression,
// which ends every loop in parseExpression.
const noBindingPower = -1

type associativity int

const (
	leftAssociative associativity = iota
	rightAssociative
)

type infixOperator struct {
	level int
	assoc associativity
}

var prefixOperatorPrecedenceMap = map[string]int{
	"+": negationPrecedence,
	"-": negationPrecedence,
}

var postfixOperatorPrecedenceMap = map[string]int{}

var infixOperatorPrecedenceMap = map[string]infixOperator{
	"+": {level: additionPrecedence, assoc: leftAssociative},
	"-": {level: additionPrecedence, assoc: leftAssociative},
	"*": {level: multiplicationPrecedence, assoc: leftAssociative},
	"/": {level: multiplicationPrecedence, assoc: leftAssociative},
}

func leftAssociativeBindingPower(level int) (int, int) {
	return (level+1)*2 - 1, (level + 1) * 2
}

func rightAssociativeBindingPower(level int) (int, int) {
	return (level + 1) * 2, (level+1)*2 - 1
}

func unaryBindingPower(level int) int {
	return (level + 1) * 2
}

func prefixBindingPower(t Token) int {
	if t.Kind != OperatorToken {
		return noBindingPower
	}
	if level, ok := prefixOperatorPrecedenceMap[t.Content]; ok {
		return unaryBindingPower(level)
	}
	return noBindingPower
}

func postfixBindingPower(t Token) int {
	if t.Kind != OperatorToken {
		return noBindingPower
	}
	if level, ok := postfixOperatorPrecedenceMap[t.Content]; ok {
		return unaryBindingPower(level)
	}
	return noBindingPower
}

func infixBindingPower(t Token) (int, int) {
	return infixBindingPowerIn(infixOperatorPrecedenceMap, t)
}

func infixBindingPowerIn(table map[string]infixOperator, t Token) (int, int) {
	if t.Kind != OperatorToken {
		return noBindingPower, noBindingPower
	}
	op, ok := table[t.Content]
	if !ok {
		return noBindingPower, noBindingPower
	}
	switch op.assoc {
	case rightAssociative:
		return rightAssociativeBindingPower(op.level)
	default:
		return leftAssociativeBindingPower(op.level)
	}
}
