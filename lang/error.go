package lang

import (
	"github.com/cedric-h/spoodly/lang/lexer"
	"github.com/cedric-h/spoodly/lang/parser"
	"github.com/cedric-h/spoodly/lang/token"
)

// Error represents an error with optional structured logging attributes.
// Every hard error reported by the interpreter is an *Error.
type Error = token.Error

// NewError creates a new Error with a message.
func NewError(msg string) *Error { return token.NewError(msg) }

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error { return token.WrapError(err) }

// Predefined errors (sentinel values).
var (
	ErrUnknownIdentifier       = NewError("unknown identifier")
	ErrNotCallable             = NewError("value is not callable")
	ErrUnsupportedVariableKind = NewError("unsupported variable kind")
	ErrInvalidScope            = NewError("invalid scope handle")
	ErrInvalidNode             = NewError("invalid syntax node")
	ErrNotLambda               = NewError("value is not a lambda")
	ErrNotDisplayable          = NewError("value cannot be displayed")
	ErrCoerce                  = NewError("value cannot be coerced")
	ErrArity                   = NewError("wrong number of arguments")
	ErrHostIO                  = NewError("host i/o failed")
	ErrEndOfInput              = NewError("no more input")
	ErrCanceled                = NewError("evaluation canceled")
)

// Errors reported while reading source text.
var (
	ErrUnterminatedString = lexer.ErrUnterminatedString
	ErrUnbalancedBlock    = parser.ErrUnbalancedBlock
	ErrUnbalancedArgs     = parser.ErrUnbalancedArgs
	ErrIdentifierAtEnd    = parser.ErrIdentifierAtEnd
	ErrArrowMissingValue  = parser.ErrArrowMissingValue
	ErrMissingOperand     = parser.ErrMissingOperand
	ErrArgumentsNotAList  = parser.ErrArgumentsNotAList
	ErrUnexpectedToken    = parser.ErrUnexpectedToken
)
