// Package token defines the structural JSON token vocabulary shared by the
// binding and generation layers, the pull Stream and push Sink contracts, and
// the pluggable low-level backend registry. A backend only has to tokenize
// conformant JSON text; the binder places no other requirement on it.
package token

import "fmt"

// Kind identifies a structural JSON token.
type Kind int

const (
	//EOF indicates end of input
	EOF Kind = iota
	StartObject
	EndObject
	StartArray
	EndArray
	FieldName
	String
	NumberInt
	NumberFloat
	Bool
	Null
)

// Token is a single structural token. Numeric tokens carry the raw literal in
// Literal so that arbitrarily large values survive untouched until a
// destination type is known.
type Token struct {
	Kind    Kind
	Name    string //field name for FieldName tokens
	Text    string //string payload for String tokens
	Literal string //raw numeric literal for NumberInt/NumberFloat tokens
	Flag    bool   //payload for Bool tokens
}

// Stream is a pull based producer of structural tokens. Next advances the
// stream by exactly one token; malformed input surfaces as an error and is
// never recovered downstream. A stream is single use and not safe for
// concurrent use.
type Stream interface {
	Next() (Token, error)
}

// Sink consumes structural tokens in document order. Implementations own the
// output encoding; the generator performs no I/O of its own.
type Sink interface {
	StartObject() error
	EndObject() error
	StartArray() error
	EndArray() error
	FieldName(name string) error
	String(value string) error
	Number(literal string) error
	Bool(value bool) error
	Null() error
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case StartObject:
		return "StartObject"
	case EndObject:
		return "EndObject"
	case StartArray:
		return "StartArray"
	case EndArray:
		return "EndArray"
	case FieldName:
		return "FieldName"
	case String:
		return "String"
	case NumberInt:
		return "NumberInt"
	case NumberFloat:
		return "NumberFloat"
	case Bool:
		return "Bool"
	case Null:
		return "Null"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}
