package bindly

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/bindly/token"
)

//bufferedPair is one object field captured before the discriminator was seen
type bufferedPair struct {
	key  string
	span []token.Token
}

//parserStream exposes the parser's lookahead-aware token cursor as a Stream
//so a recorder can capture spans without bypassing it
type parserStream struct {
	parser *Parser
}

func (s parserStream) Next() (token.Token, error) {
	return s.parser.take()
}

//parseVariant binds a heterogeneous object: the discriminator key may occur
//at any position, so field values are buffered as raw token spans until it
//is seen, then replayed against the resolved subtype schema; the remainder
//of the object binds directly with no further buffering.
func (p *Parser) parseVariant(d *Descriptor) (interface{}, error) {
	table := p.registry.variantsFor(d.Type)
	if table == nil {
		return nil, fmt.Errorf("interface %s has no registered variants", d.Type)
	}
	if err := p.expect(token.StartObject); err != nil {
		return nil, err
	}
	var pairs []bufferedPair
	var concrete reflect.Type
	for concrete == nil {
		tok, err := p.take()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EndObject {
			return nil, fmt.Errorf("heterogeneous schema without type field specified")
		}
		if tok.Kind != token.FieldName {
			return nil, fmt.Errorf("expected field name, got %v", tok.Kind)
		}
		span, err := p.recordValue()
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", tok.Name, err)
		}
		pairs = append(pairs, bufferedPair{key: tok.Name, span: span})
		if tok.Name != table.key {
			continue
		}
		//first occurrence of the discriminator selects the subtype
		value, err := discriminatorValue(span)
		if err != nil {
			return nil, err
		}
		if concrete, err = table.resolve(value); err != nil {
			return nil, err
		}
	}

	structType := concrete
	asPtr := false
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
		asPtr = true
	}
	schema, err := p.registry.Schema(structType)
	if err != nil {
		return nil, err
	}
	holder := reflect.New(structType)
	ptr := unsafe.Pointer(holder.Pointer())

	//replay everything buffered, the discriminator pair included
	for _, pair := range pairs {
		replay := NewParser(token.Replay(pair.span), WithRegistry(p.registry))
		if err = replay.bindField(schema, holder, ptr, pair.key); err != nil {
			return nil, err
		}
	}
	//bind the remaining fields straight off the live stream
	for {
		tok, err := p.take()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EndObject {
			break
		}
		if tok.Kind != token.FieldName {
			return nil, fmt.Errorf("expected field name, got %v", tok.Kind)
		}
		if err = p.bindField(schema, holder, ptr, tok.Name); err != nil {
			return nil, err
		}
	}
	return variantValue(d, holder, asPtr), nil
}

//variantValue shapes a bound subtype to the declared field: a pointer to
//interface destination gets a freshly allocated interface holder, so the
//value written always carries the field's own type
func variantValue(d *Descriptor, holder reflect.Value, asPtr bool) interface{} {
	bound := holder
	if !asPtr {
		bound = holder.Elem()
	}
	if !d.Ptr {
		return bound.Interface()
	}
	result := reflect.New(d.Type)
	result.Elem().Set(bound)
	return result.Interface()
}

//recordValue captures one balanced value as a replayable token span
func (p *Parser) recordValue() ([]token.Token, error) {
	first, err := p.take()
	if err != nil {
		return nil, err
	}
	recorder := &token.Recorder{}
	if err = recorder.Record(first, parserStream{parser: p}); err != nil {
		return nil, err
	}
	return recorder.Tokens(), nil
}

func discriminatorValue(span []token.Token) (string, error) {
	if len(span) != 1 {
		return "", fmt.Errorf("discriminator value must be a scalar")
	}
	switch span[0].Kind {
	case token.String:
		return span[0].Text, nil
	case token.NumberInt:
		return span[0].Literal, nil
	}
	return "", fmt.Errorf("discriminator value must be a string or integer, got %v", span[0].Kind)
}
