package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type ErrorTag string

const (
	// stage tags
	LexErrorTag   ErrorTag = "LexError"
	ParseErrorTag ErrorTag = "ParseError"
	EvalErrorTag  ErrorTag = "EvalError"

	// lexer
	UnrecognizedCharacterTag ErrorTag = "UnrecognizedCharacter"
	InternalBoundsFaultTag   ErrorTag = "InternalBoundsFault"

	// parser
	UnexpectedTokenTag ErrorTag = "UnexpectedToken"
	UnconsumedInputTag ErrorTag = "UnconsumedInput"

	// evaluator
	MalformedLiteralTag  ErrorTag = "MalformedLiteral"
	ZeroDivisionErrorTag ErrorTag = "ZeroDivisionError"
	OverflowErrorTag     ErrorTag = "OverflowError"
)

var (
	ErrUnrecognizedCharacter = &Error{Tag: UnrecognizedCharacterTag}
	ErrInternalBoundsFault   = &Error{Tag: InternalBoundsFaultTag}
	ErrUnexpectedToken       = &Error{Tag: UnexpectedTokenTag}
	ErrUnconsumedInput       = &Error{Tag: UnconsumedInputTag}
	ErrMalformedLiteral      = &Error{Tag: MalformedLiteralTag}
	ErrDivisionByZero        = &Error{Tag: ZeroDivisionErrorTag}
	ErrOverflow              = &Error{Tag: OverflowErrorTag}
)

type Exception interface {
	error
	Exception() any
}

type Error struct {
	Tag   ErrorTag
	Err   error
	Extra map[string]any
}

var _ Exception = (*Error)(nil)

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Tag)
	}

	var b strings.Builder
	b.WriteString(string(e.Tag))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a bare *Error carrying the same tag.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Err != nil || len(t.Extra) != 0 {
		return false
	}
	return t.Tag == e.Tag
}

func (e *Error) Exception() any {
	var tags []any
	extra := map[string]any{}
	for err := error(e); err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
			extra = lo.Assign(extra, e.Extra)
		}
	}

	o := map[string]any{
		"tags":    tags,
		"message": e.Error(),
	}
	if len(extra) != 0 {
		o = lo.Assign(o, extra)
	}
	return o
}

// Tags lists the tags of every *Error in the chain, outermost first.
func Tags(err error) []ErrorTag {
	var tags []ErrorTag
	for ; err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
		}
	}
	return tags
}

func NewLexError(kind ErrorTag, extra map[string]any, format string, args ...any) *Error {
	return newStageError(LexErrorTag, kind, extra, format, args...)
}

func NewParseError(kind ErrorTag, extra map[string]any, format string, args ...any) *Error {
	return newStageError(ParseErrorTag, kind, extra, format, args...)
}

func NewEvalError(kind ErrorTag, extra map[string]any, format string, args ...any) *Error {
	return newStageError(EvalErrorTag, kind, extra, format, args...)
}

func newStageError(stage, kind ErrorTag, extra map[string]any, format string, args ...any) *Error {
	return &Error{
		Tag: stage,
		Err: &Error{
			Tag:   kind,
			Err:   fmt.Errorf(format, args...),
			Extra: extra,
		},
	}
}
