package ast

import "strconv"

// RawType indicates which literal a [Raw] holds.
type RawType int

const (
	RawNumber RawType = iota // number
	RawText                  // text
	RawBool                  // bool
)

var rawTypeName = [...]string{
	RawNumber: "number",
	RawText:   "text",
	RawBool:   "bool",
}

// String returns the lower-case name of the literal type.
func (t RawType) String() string {
	if t < 0 || int(t) >= len(rawTypeName) {
		return "raw(" + strconv.Itoa(int(t)) + ")"
	}

	return rawTypeName[t]
}

// MarshalText implements [encoding.TextMarshaler].
func (t RawType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Raw is a literal value. It is immutable and compared by value.
type Raw struct {
	Type RawType `json:"type" yaml:"type"`
	// Exactly one of these will be set based on Type
	Number float64 `json:"number,omitempty" yaml:"number,omitempty"`
	Text   string  `json:"text,omitempty"   yaml:"text,omitempty"`
	Bool   bool    `json:"bool,omitempty"   yaml:"bool,omitempty"`
}

// Number returns a numeric literal.
func Number(n float64) Raw { return Raw{Type: RawNumber, Number: n} }

// Text returns a text literal.
func Text(s string) Raw { return Raw{Type: RawText, Text: s} }

// Bool returns a boolean literal.
func Bool(b bool) Raw { return Raw{Type: RawBool, Bool: b} }

// String returns the display form of the literal: numbers in their shortest
// decimal form (12, not 12.0), text verbatim, and booleans as true/false.
func (r Raw) String() string {
	switch r.Type {
	case RawNumber:
		return strconv.FormatFloat(r.Number, 'f', -1, 64)
	case RawText:
		return r.Text
	case RawBool:
		return strconv.FormatBool(r.Bool)
	default:
		return ""
	}
}

// Quote is like String but quotes text literals.
func (r Raw) Quote() string {
	if r.Type == RawText {
		return strconv.Quote(r.Text)
	}

	return r.String()
}
