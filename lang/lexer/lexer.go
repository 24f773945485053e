// Package lexer converts source text into the flat token stream consumed by
// package parser.
//
// Besides the tokens spelled out in the source, the lexer inserts the block
// markers that give a program its statement structure: the whole program is
// wrapped in a block, every physical line is framed as a statement block, and
// the right-hand side of each "<-" is wrapped in a block that closes at the
// end of the line.
package lexer

import (
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/cedric-h/spoodly/lang/token"
	"github.com/cedric-h/spoodly/log"
)

// ErrUnterminatedString is returned when a string literal has no closing
// quote before the end of input.
var ErrUnterminatedString = token.NewError("unterminated string literal")

// Option configures a call to [Tokenize].
type Option func(*lexer)

// WithLogger sets the logger that receives diagnostics about skipped input.
func WithLogger(logger log.Logger) Option {
	return func(l *lexer) { l.logger = logger }
}

// words maps the alphabetic spellings of binary operators.
var words = map[string]bool{
	"MOD": true,
	"AND": true,
	"OR":  true,
}

// symbols lists the single-rune binary operators.
var symbols = map[rune]bool{
	'+': true,
	'-': true,
	'*': true,
	'/': true,
	'^': true,
	'=': true,
	'>': true,
}

// frame records a construct that is still open at the scan position.
type frame int

const (
	frameArgs  frame = iota // "(" awaiting ")"
	frameBrace              // "{" awaiting "}"
	frameArrow              // "<-" awaiting end of line
)

type lexer struct {
	src    string
	toks   []token.Token
	frames []frame
	logger log.Logger

	pos  token.Position // position of the next rune
	mark token.Position // position of the rune being scanned
}

// Tokenize scans source from left to right with one rune of lookahead.
//
// The only fatal condition is an unterminated string literal. Any rune that
// does not start a token is skipped and reported at debug level.
func Tokenize(source string, opts ...Option) ([]token.Token, error) {
	l := &lexer{
		src:  source,
		toks: make([]token.Token, 0, len(source)/2+4),
		pos:  token.Position{Line: 1, Column: 1},
	}

	for _, opt := range opts {
		opt(l)
	}

	if err := l.run(); err != nil {
		return nil, err
	}

	l.logger.Trace("tokenized",
		slog.Int("bytes", len(source)),
		slog.Int("tokens", len(l.toks)))

	return l.toks, nil
}

func (l *lexer) run() error {
	// Program block, then the block of the first statement.
	l.mark = l.pos
	l.emit(token.BlockOpen)
	l.emit(token.BlockOpen)

	for !l.eof() {
		l.mark = l.pos
		r := l.next()

		switch {
		case r == '\n':
			if l.innermost() == frameArgs {
				continue
			}

			l.closeArrows()
			l.emit(token.BlockClose)
			l.emit(token.BlockOpen)

		case r == '<':
			if l.peek() == '-' {
				l.next()
				l.emit(token.StorageArrow)
				l.emit(token.BlockOpen)
				l.frames = append(l.frames, frameArrow)
			} else {
				l.emitText(token.LessThan, "<")
			}

		case r == '(':
			l.emit(token.ArgsOpen)
			l.frames = append(l.frames, frameArgs)

		case r == ')':
			l.closeArrows()
			l.pop(frameArgs)
			l.emit(token.ArgsClose)

		case r == '{':
			l.emit(token.BlockOpen)
			l.emit(token.BlockOpen)
			l.frames = append(l.frames, frameBrace)

		case r == '}':
			l.closeArrows()
			l.pop(frameBrace)
			l.emit(token.BlockClose)
			l.emit(token.BlockClose)

		case r == '\\':
			l.emit(token.LambdaStart)

		case symbols[r]:
			l.emitText(token.BinaryOperation, string(r))

		case r == '"':
			if err := l.scanString(); err != nil {
				return err
			}

		case isWord(r):
			l.scanWord(r)

		case unicode.IsSpace(r):
			// skip
		default:
			l.logger.Debug("ignoring character",
				slog.String("char", strconv.QuoteRune(r)),
				slog.String("pos", l.mark.String()))
		}
	}

	l.closeArrows()
	l.emit(token.BlockClose)
	l.emit(token.BlockClose)

	return nil
}

// scanString consumes a string literal body and its closing quote.
// The opening quote has already been consumed.
func (l *lexer) scanString() error {
	start := l.pos.Offset

	for !l.eof() {
		if l.peek() == '"' {
			body := l.src[start:l.pos.Offset]
			l.next()
			l.emitText(token.StringLiteral, body)

			return nil
		}

		l.next()
	}

	return ErrUnterminatedString.WithPosition(l.mark)
}

// scanWord consumes an alphanumeric run beginning with first.
//
// A run that begins with a digit may contain '.' and becomes a Number when it
// parses as a float. Everything else is an Identifier, or a BinaryOperation
// when it spells an operator word.
func (l *lexer) scanWord(first rune) {
	start := l.mark.Offset
	numeric := unicode.IsDigit(first)

	for !l.eof() {
		r := l.peek()
		if !isWord(r) && !(numeric && r == '.') {
			break
		}

		l.next()
	}

	text := l.src[start:l.pos.Offset]

	if numeric {
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			l.toks = append(l.toks, token.Token{
				Kind:   token.Number,
				Text:   text,
				Number: n,
				Pos:    l.mark,
			})

			return
		}
	}

	if words[text] {
		l.emitText(token.BinaryOperation, text)

		return
	}

	l.emitText(token.Identifier, text)
}

// closeArrows closes every assignment block opened since the innermost
// bracket, so a right-hand side never outlives the bracket containing it.
func (l *lexer) closeArrows() {
	for len(l.frames) > 0 && l.frames[len(l.frames)-1] == frameArrow {
		l.frames = l.frames[:len(l.frames)-1]
		l.emit(token.BlockClose)
	}
}

// pop removes the innermost frame if it is f. Unbalanced brackets are left
// for the parser to report.
func (l *lexer) pop(f frame) {
	if n := len(l.frames); n > 0 && l.frames[n-1] == f {
		l.frames = l.frames[:n-1]
	}
}

// innermost returns the innermost open bracket, ignoring assignment frames.
func (l *lexer) innermost() frame {
	for i := len(l.frames) - 1; i >= 0; i-- {
		if l.frames[i] != frameArrow {
			return l.frames[i]
		}
	}

	return frameArrow
}

func (l *lexer) emit(kind token.Kind) {
	l.toks = append(l.toks, token.Token{Kind: kind, Pos: l.mark})
}

func (l *lexer) emitText(kind token.Kind, text string) {
	l.toks = append(l.toks, token.Token{Kind: kind, Text: text, Pos: l.mark})
}

func (l *lexer) eof() bool { return l.pos.Offset >= len(l.src) }

func (l *lexer) peek() rune {
	if l.eof() {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos.Offset:])

	return r
}

func (l *lexer) next() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.pos.Offset:])
	l.pos.Offset += size

	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}

	return r
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
