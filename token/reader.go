package token

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Factory produces a Stream over raw JSON text.
type Factory func(data []byte) Stream

var factory Factory = func(data []byte) Stream {
	return NewReader(bytes.NewReader(data))
}

// SetFactory swaps the process wide stream backend. All backends must emit an
// identical token sequence for identical input.
func SetFactory(f Factory) {
	factory = f
}

// Instance returns the current stream backend.
func Instance() Factory {
	return factory
}

// New tokenizes the given JSON text with the current backend.
func New(data []byte) Stream {
	return factory(data)
}

type frame byte

const (
	frameObject frame = '{'
	frameArray  frame = '['
)

//reader adapts a goccy decoder token sequence to the Stream contract
type reader struct {
	dec       *gojson.Decoder
	stack     []frame
	expectKey bool
	done      bool
}

// NewReader returns a Stream tokenizing the reader's content as UTF-8 JSON
// text through the goccy decoder.
func NewReader(r io.Reader) Stream {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	return &reader{dec: dec}
}

func (r *reader) Next() (Token, error) {
	if r.done {
		return Token{Kind: EOF}, nil
	}
	tok, err := r.dec.Token()
	if err == io.EOF {
		r.done = true
		if len(r.stack) > 0 {
			return Token{}, fmt.Errorf("unexpected end of JSON input")
		}
		return Token{Kind: EOF}, nil
	}
	if err != nil {
		return Token{}, err
	}
	switch actual := tok.(type) {
	case gojson.Delim:
		switch actual {
		case '{':
			r.push(frameObject)
			r.expectKey = true
			return Token{Kind: StartObject}, nil
		case '}':
			if err := r.pop(frameObject); err != nil {
				return Token{}, err
			}
			return Token{Kind: EndObject}, nil
		case '[':
			r.push(frameArray)
			return Token{Kind: StartArray}, nil
		case ']':
			if err := r.pop(frameArray); err != nil {
				return Token{}, err
			}
			return Token{Kind: EndArray}, nil
		}
		return Token{}, fmt.Errorf("unexpected delimiter: %v", actual)
	case string:
		if r.inObject() && r.expectKey {
			r.expectKey = false
			return Token{Kind: FieldName, Name: actual}, nil
		}
		r.valueDone()
		return Token{Kind: String, Text: actual}, nil
	case gojson.Number:
		literal := actual.String()
		r.valueDone()
		if strings.ContainsAny(literal, ".eE") {
			return Token{Kind: NumberFloat, Literal: literal}, nil
		}
		return Token{Kind: NumberInt, Literal: literal}, nil
	case bool:
		r.valueDone()
		return Token{Kind: Bool, Flag: actual}, nil
	case nil:
		r.valueDone()
		return Token{Kind: Null}, nil
	}
	return Token{}, fmt.Errorf("unsupported token: %T", tok)
}

func (r *reader) push(f frame) {
	r.stack = append(r.stack, f)
}

func (r *reader) pop(f frame) error {
	if len(r.stack) == 0 || r.stack[len(r.stack)-1] != f {
		return fmt.Errorf("unbalanced %c", f)
	}
	r.stack = r.stack[:len(r.stack)-1]
	r.valueDone()
	return nil
}

func (r *reader) inObject() bool {
	return len(r.stack) > 0 && r.stack[len(r.stack)-1] == frameObject
}

//valueDone marks a completed value so the next object token is a key
func (r *reader) valueDone() {
	if r.inObject() {
		r.expectKey = true
	}
}
