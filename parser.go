package bindly

import (
	"fmt"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/viant/bindly/conv"
	"github.com/viant/bindly/token"
)

type (
	//Parser is a recursive descent consumer that materializes typed values
	//from a token stream. It keeps a single token of lookahead; the stream
	//only ever advances until the enclosing value is fully consumed, with
	//no backtracking outside polymorphic dispatch.
	Parser struct {
		registry *Registry
		stream   token.Stream
		cur      token.Token
		started  bool
	}

	//ParserOption customizes a parser
	ParserOption func(p *Parser)
)

//WithRegistry binds a parser to a registry other than the default
func WithRegistry(registry *Registry) ParserOption {
	return func(p *Parser) {
		p.registry = registry
	}
}

// NewParser returns a parser over the given token stream.
func NewParser(stream token.Stream, opts ...ParserOption) *Parser {
	result := &Parser{registry: Default, stream: stream}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

func (p *Parser) peek() (token.Token, error) {
	if !p.started {
		tok, err := p.stream.Next()
		if err != nil {
			return token.Token{}, err
		}
		p.cur = tok
		p.started = true
	}
	return p.cur, nil
}

func (p *Parser) take() (token.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return token.Token{}, err
	}
	next, err := p.stream.Next()
	if err != nil {
		return token.Token{}, err
	}
	p.cur = next
	return tok, nil
}

// Parse consumes one JSON value into dest, which must be a non-nil pointer.
// A struct destination is bound in place, so a partially populated instance
// can absorb an object; any other destination is overwritten with the bound
// value. The stream is left positioned after the value.
func (p *Parser) Parse(dest interface{}) error {
	holder := reflect.ValueOf(dest)
	if !holder.IsValid() || holder.Kind() != reflect.Ptr || holder.IsNil() {
		return fmt.Errorf("destination must be a non-nil pointer, got %T", dest)
	}
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok.Kind == token.EOF {
		return fmt.Errorf("no JSON input found")
	}
	elem := holder.Type().Elem()
	if elem.Kind() == reflect.Struct && elem != timeType && elem != bigIntType && elem != bigFloatType {
		schema, err := p.registry.Schema(elem)
		if err != nil {
			return err
		}
		return p.parseStructInto(schema, holder)
	}
	descriptor, err := p.registry.descriptorFor(elem)
	if err != nil {
		return err
	}
	value, err := p.parseValue(descriptor, false)
	if err != nil {
		return err
	}
	if value == nil {
		holder.Elem().Set(reflect.Zero(elem))
		return nil
	}
	rValue := reflect.ValueOf(value)
	if !rValue.Type().AssignableTo(elem) {
		return fmt.Errorf("cannot assign bound %s to destination %s", rValue.Type(), elem)
	}
	holder.Elem().Set(rValue)
	return nil
}

// ParseValue consumes one JSON value against the given descriptor and
// returns the materialized value.
func (p *Parser) ParseValue(descriptor *Descriptor) (interface{}, error) {
	return p.parseValue(descriptor, false)
}

// Skip consumes one balanced JSON value without materializing it.
func (p *Parser) Skip() error {
	depth := 0
	for {
		tok, err := p.take()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case token.StartObject, token.StartArray:
			depth++
		case token.EndObject, token.EndArray:
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced %v", tok.Kind)
			}
		case token.EOF:
			return fmt.Errorf("unexpected end of input")
		}
		if depth == 0 {
			return nil
		}
	}
}

// SkipToKey skips object fields until one of the given keys is found,
// leaving the stream positioned at that key's value. It returns the matched
// key, or the empty string once the enclosing object ends.
func (p *Parser) SkipToKey(keys ...string) (string, error) {
	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		wanted[key] = true
	}
	tok, err := p.peek()
	if err != nil {
		return "", err
	}
	if tok.Kind == token.StartObject {
		if _, err = p.take(); err != nil {
			return "", err
		}
	}
	for {
		tok, err = p.take()
		if err != nil {
			return "", err
		}
		switch tok.Kind {
		case token.EndObject:
			return "", nil
		case token.FieldName:
			if wanted[tok.Name] {
				return tok.Name, nil
			}
			if err = p.Skip(); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("expected field name, got %v", tok.Kind)
		}
	}
}

func (p *Parser) parseValue(d *Descriptor, quoted bool) (interface{}, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.Null {
		if _, err = p.take(); err != nil {
			return nil, err
		}
		return nullValueFor(d)
	}
	switch d.Kind {
	case KindVoid:
		return nil, p.Skip()
	case KindAny:
		return p.parseAny()
	case KindString:
		return p.parseString(d)
	case KindTime:
		return p.parseTime(d)
	case KindEnum:
		return p.parseEnum(d)
	case KindSlice:
		return p.parseSlice(d)
	case KindArray:
		return p.parseArray(d)
	case KindMap:
		return p.parseMap(d)
	case KindStruct:
		return p.parseStruct(d)
	case KindVariant:
		return p.parseVariant(d)
	}
	return p.parseScalar(d, quoted)
}

func (p *Parser) parseString(d *Descriptor) (interface{}, error) {
	tok, err := p.take()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.String {
		return nil, fmt.Errorf("expected JSON string for %s, got %v", d.Type, tok.Kind)
	}
	value := reflect.New(d.Type).Elem()
	value.SetString(tok.Text)
	return wrapPtr(d, value), nil
}

func (p *Parser) parseTime(d *Descriptor) (interface{}, error) {
	tok, err := p.take()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.String {
		return nil, fmt.Errorf("expected JSON string for %s, got %v", d.Type, tok.Kind)
	}
	parsed, err := conv.ParseTime(tok.Text)
	if err != nil {
		return nil, err
	}
	return wrapPtr(d, reflect.ValueOf(parsed)), nil
}

func (p *Parser) parseEnum(d *Descriptor) (interface{}, error) {
	tok, err := p.take()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.String {
		return nil, fmt.Errorf("expected JSON string for enum %s, got %v", d.Type, tok.Kind)
	}
	constant, err := d.enum.constantFor(tok.Text)
	if err != nil {
		return nil, err
	}
	return wrapPtr(d, reflect.ValueOf(constant)), nil
}

//parseScalar binds one numeric or bool token, honoring the quoted modifier:
//a quoted field must carry its literal inside a JSON string, an unquoted
//numeric field must not
func (p *Parser) parseScalar(d *Descriptor, quoted bool) (interface{}, error) {
	tok, err := p.take()
	if err != nil {
		return nil, err
	}
	var literal string
	switch tok.Kind {
	case token.String:
		if !quoted {
			return nil, fmt.Errorf("%s field bound from a JSON string requires the quoted modifier", d.Type)
		}
		literal = tok.Text
	case token.NumberInt, token.NumberFloat:
		if quoted {
			return nil, fmt.Errorf("%s field declared quoted cannot bind a bare JSON number", d.Type)
		}
		literal = tok.Literal
	case token.Bool:
		if quoted {
			return nil, fmt.Errorf("%s field declared quoted cannot bind a bare JSON literal", d.Type)
		}
		if d.Kind != KindBool {
			return nil, fmt.Errorf("expected JSON number for %s, got bool", d.Type)
		}
		value := reflect.New(d.Type).Elem()
		value.SetBool(tok.Flag)
		return wrapPtr(d, value), nil
	default:
		return nil, fmt.Errorf("expected scalar for %s, got %v", d.Type, tok.Kind)
	}

	switch d.Kind {
	case KindBool:
		parsed, err := conv.ParseBool(literal)
		if err != nil {
			return nil, err
		}
		value := reflect.New(d.Type).Elem()
		value.SetBool(parsed)
		return wrapPtr(d, value), nil
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		parsed, err := conv.ParseInt(literal, bitSize(d.Kind))
		if err != nil {
			return nil, err
		}
		value := reflect.New(d.Type).Elem()
		value.SetInt(parsed)
		return wrapPtr(d, value), nil
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		parsed, err := conv.ParseUint(literal, bitSize(d.Kind))
		if err != nil {
			return nil, err
		}
		value := reflect.New(d.Type).Elem()
		value.SetUint(parsed)
		return wrapPtr(d, value), nil
	case KindFloat32, KindFloat64:
		parsed, err := conv.ParseFloat(literal, bitSize(d.Kind))
		if err != nil {
			return nil, err
		}
		value := reflect.New(d.Type).Elem()
		value.SetFloat(parsed)
		return wrapPtr(d, value), nil
	case KindBigInt:
		parsed, err := conv.ParseBigInt(literal)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	case KindBigFloat:
		parsed, err := conv.ParseBigFloat(literal)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	}
	return nil, fmt.Errorf("unexpected scalar kind for %s", d.Type)
}

func (p *Parser) parseSlice(d *Descriptor) (interface{}, error) {
	if err := p.expect(token.StartArray); err != nil {
		return nil, err
	}
	result := reflect.MakeSlice(d.Type, 0, 4)
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EndArray {
			if _, err = p.take(); err != nil {
				return nil, err
			}
			return wrapPtr(d, result), nil
		}
		element, err := p.parseValue(d.Elem, false)
		if err != nil {
			return nil, err
		}
		result = reflect.Append(result, elementValue(d.Elem, element))
	}
}

func (p *Parser) parseArray(d *Descriptor) (interface{}, error) {
	if err := p.expect(token.StartArray); err != nil {
		return nil, err
	}
	result := reflect.New(d.Type).Elem()
	index := 0
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EndArray {
			if _, err = p.take(); err != nil {
				return nil, err
			}
			return wrapPtr(d, result), nil
		}
		if index >= d.Type.Len() {
			return nil, fmt.Errorf("too many elements for %s", d.Type)
		}
		element, err := p.parseValue(d.Elem, false)
		if err != nil {
			return nil, err
		}
		result.Index(index).Set(elementValue(d.Elem, element))
		index++
	}
}

func (p *Parser) parseMap(d *Descriptor) (interface{}, error) {
	if err := p.expect(token.StartObject); err != nil {
		return nil, err
	}
	result := reflect.MakeMap(d.Type)
	for {
		tok, err := p.take()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EndObject {
			return wrapPtr(d, result), nil
		}
		if tok.Kind != token.FieldName {
			return nil, fmt.Errorf("expected field name, got %v", tok.Kind)
		}
		value, err := p.parseValue(d.Elem, false)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", tok.Name, err)
		}
		key := reflect.New(d.Type.Key()).Elem()
		key.SetString(tok.Name)
		result.SetMapIndex(key, elementValue(d.Elem, value))
	}
}

func (p *Parser) parseStruct(d *Descriptor) (interface{}, error) {
	schema, err := p.registry.Schema(d.Type)
	if err != nil {
		return nil, err
	}
	holder := reflect.New(d.Type)
	if err = p.parseStructInto(schema, holder); err != nil {
		return nil, err
	}
	if d.Ptr {
		return holder.Interface(), nil
	}
	return holder.Elem().Interface(), nil
}

func (p *Parser) parseStructInto(schema *Schema, holder reflect.Value) error {
	if err := p.expect(token.StartObject); err != nil {
		return err
	}
	ptr := unsafe.Pointer(holder.Pointer())
	for {
		tok, err := p.take()
		if err != nil {
			return err
		}
		if tok.Kind == token.EndObject {
			return nil
		}
		if tok.Kind != token.FieldName {
			return fmt.Errorf("expected field name, got %v", tok.Kind)
		}
		if err = p.bindField(schema, holder, ptr, tok.Name); err != nil {
			return err
		}
	}
}

//bindField binds the value the stream is positioned at: declared keys write
//through the schema field, everything else lands in the open container
func (p *Parser) bindField(schema *Schema, holder reflect.Value, ptr unsafe.Pointer, key string) error {
	field := schema.Lookup(key)
	if field == nil {
		if !schema.hasOpen() {
			return p.Skip()
		}
		value, err := p.parseAny()
		if err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}
		schema.openData(ptr).Set(key, value)
		return nil
	}
	value, err := p.parseValue(field.Descriptor, field.Quoted)
	if err != nil {
		return fmt.Errorf("key %s: %w", key, err)
	}
	if err = field.setValue(holder, ptr, value); err != nil {
		return fmt.Errorf("key %s: %w", key, err)
	}
	if schema.presence != nil {
		schema.presence.mark(ptr, field.Name)
	}
	return nil
}

//parseAny infers a natural representation from the next token alone
func (p *Parser) parseAny() (interface{}, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.StartObject:
		if _, err = p.take(); err != nil {
			return nil, err
		}
		result := &Data{}
		for {
			if tok, err = p.take(); err != nil {
				return nil, err
			}
			if tok.Kind == token.EndObject {
				return result, nil
			}
			if tok.Kind != token.FieldName {
				return nil, fmt.Errorf("expected field name, got %v", tok.Kind)
			}
			value, err := p.parseAny()
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", tok.Name, err)
			}
			result.Set(tok.Name, value)
		}
	case token.StartArray:
		if _, err = p.take(); err != nil {
			return nil, err
		}
		result := make([]interface{}, 0, 4)
		for {
			if tok, err = p.peek(); err != nil {
				return nil, err
			}
			if tok.Kind == token.EndArray {
				if _, err = p.take(); err != nil {
					return nil, err
				}
				return result, nil
			}
			element, err := p.parseAny()
			if err != nil {
				return nil, err
			}
			result = append(result, element)
		}
	case token.String:
		_, err = p.take()
		return tok.Text, err
	case token.NumberInt, token.NumberFloat:
		_, err = p.take()
		return conv.Number(tok.Literal), err
	case token.Bool:
		_, err = p.take()
		return tok.Flag, err
	case token.Null:
		_, err = p.take()
		return Null(anyType), err
	}
	return nil, fmt.Errorf("unexpected token: %v", tok.Kind)
}

func (p *Parser) expect(kind token.Kind) error {
	tok, err := p.take()
	if err != nil {
		return err
	}
	if tok.Kind != kind {
		return fmt.Errorf("expected %v, got %v", kind, tok.Kind)
	}
	return nil
}

func errNullNotRepresentable(d *Descriptor) error {
	return fmt.Errorf("%s field cannot represent a JSON null, use a pointer, slice, map or interface type", d.Type)
}

func wrapPtr(d *Descriptor, value reflect.Value) interface{} {
	if !d.Ptr {
		return value.Interface()
	}
	ptr := reflect.New(d.Type)
	ptr.Elem().Set(value)
	return ptr.Interface()
}

//elementValue normalizes a bound element back to a reflect value of the
//declared element type; sentinels keep their identity
func elementValue(d *Descriptor, element interface{}) reflect.Value {
	if element == nil {
		target := d.Type
		if d.Ptr {
			target = reflect.PtrTo(d.Type)
		}
		return reflect.Zero(target)
	}
	return reflect.ValueOf(element)
}

func bitSize(kind Kind) int {
	switch kind {
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32:
		return 32
	case KindInt, KindUint:
		return strconv.IntSize
	}
	return 64
}
