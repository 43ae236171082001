package bindly

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"time"
	"unsafe"

	"github.com/viant/bindly/conv"
	"github.com/viant/bindly/token"
)

type (
	//Generator mirrors the parser without a token stream: it walks an in
	//memory value and emits tokens to a sink, fields in ascending
	//lexicographic wire key order so output is canonical and comparable by
	//plain string equality. Null sentinels emit null, absent fields emit
	//nothing.
	Generator struct {
		registry *Registry
		sink     token.Sink
	}

	//GeneratorOption customizes a generator
	GeneratorOption func(g *Generator)
)

//WithGeneratorRegistry binds a generator to a registry other than the default
func WithGeneratorRegistry(registry *Registry) GeneratorOption {
	return func(g *Generator) {
		g.registry = registry
	}
}

// NewGenerator returns a generator emitting to the given sink.
func NewGenerator(sink token.Sink, opts ...GeneratorOption) *Generator {
	result := &Generator{registry: Default, sink: sink}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

// Write serializes one value.
func (g *Generator) Write(value interface{}) error {
	return g.writeValue(value, false)
}

func (g *Generator) writeValue(value interface{}, quoted bool) error {
	if value == nil || IsNull(value) {
		return g.sink.Null()
	}
	switch actual := value.(type) {
	case string:
		return g.sink.String(actual)
	case bool:
		return g.writeBool(actual, quoted)
	case conv.Number:
		return g.writeNumber(string(actual), quoted)
	case int:
		return g.writeNumber(conv.FormatInt(int64(actual)), quoted)
	case int8:
		return g.writeNumber(conv.FormatInt(int64(actual)), quoted)
	case int16:
		return g.writeNumber(conv.FormatInt(int64(actual)), quoted)
	case int32:
		return g.writeNumber(conv.FormatInt(int64(actual)), quoted)
	case int64:
		return g.writeNumber(conv.FormatInt(actual), quoted)
	case uint:
		return g.writeNumber(conv.FormatUint(uint64(actual)), quoted)
	case uint8:
		return g.writeNumber(conv.FormatUint(uint64(actual)), quoted)
	case uint16:
		return g.writeNumber(conv.FormatUint(uint64(actual)), quoted)
	case uint32:
		return g.writeNumber(conv.FormatUint(uint64(actual)), quoted)
	case uint64:
		return g.writeNumber(conv.FormatUint(actual), quoted)
	case float32:
		return g.writeFloat(float64(actual), 32, quoted)
	case float64:
		return g.writeFloat(actual, 64, quoted)
	case *big.Int:
		return g.writeNumber(actual.String(), quoted)
	case *big.Float:
		return g.writeNumber(conv.FormatBigFloat(actual), quoted)
	case time.Time:
		return g.sink.String(conv.FormatTime(actual))
	case *Data:
		return g.writeData(actual)
	case Data:
		return g.writeData(&actual)
	}
	return g.writeReflect(reflect.ValueOf(value), quoted)
}

func (g *Generator) writeReflect(rValue reflect.Value, quoted bool) error {
	rType := rValue.Type()
	if table := g.registry.enumFor(rType); table != nil {
		constant := rValue.Interface()
		if table.hasNull && constant == table.nullConst {
			return g.sink.Null()
		}
		wire, ok := table.wireFor(constant)
		if !ok {
			return fmt.Errorf("value %v is not a registered %s constant", constant, rType)
		}
		return g.sink.String(wire)
	}
	switch rType.Kind() {
	case reflect.Ptr:
		if rValue.IsNil() {
			return g.sink.Null()
		}
		return g.writeValue(rValue.Elem().Interface(), quoted)
	case reflect.Interface:
		if rValue.IsNil() {
			return g.sink.Null()
		}
		return g.writeValue(rValue.Elem().Interface(), quoted)
	case reflect.Slice, reflect.Array:
		if err := g.sink.StartArray(); err != nil {
			return err
		}
		for i := 0; i < rValue.Len(); i++ {
			if err := g.writeValue(rValue.Index(i).Interface(), quoted); err != nil {
				return err
			}
		}
		return g.sink.EndArray()
	case reflect.Map:
		return g.writeMap(rValue)
	case reflect.Struct:
		return g.writeStruct(rValue)
	case reflect.String:
		return g.sink.String(rValue.String())
	case reflect.Bool:
		return g.writeBool(rValue.Bool(), quoted)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return g.writeNumber(conv.FormatInt(rValue.Int()), quoted)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return g.writeNumber(conv.FormatUint(rValue.Uint()), quoted)
	case reflect.Float32:
		return g.writeFloat(rValue.Float(), 32, quoted)
	case reflect.Float64:
		return g.writeFloat(rValue.Float(), 64, quoted)
	}
	return fmt.Errorf("cannot serialize %s", rType)
}

func (g *Generator) writeMap(rValue reflect.Value) error {
	if rValue.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("map key must be a string: %s", rValue.Type())
	}
	keys := make([]string, 0, rValue.Len())
	iter := rValue.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)
	if err := g.sink.StartObject(); err != nil {
		return err
	}
	for _, key := range keys {
		if err := g.sink.FieldName(key); err != nil {
			return err
		}
		element := rValue.MapIndex(reflect.ValueOf(key).Convert(rValue.Type().Key()))
		if err := g.writeValue(element.Interface(), false); err != nil {
			return err
		}
	}
	return g.sink.EndObject()
}

//fieldEntry is one wire key scheduled for output, declared or open
type fieldEntry struct {
	key    string
	value  interface{}
	quoted bool
}

func (g *Generator) writeStruct(rValue reflect.Value) error {
	rType := rValue.Type()
	schema, err := g.registry.Schema(rType)
	if err != nil {
		return err
	}
	holder := reflect.New(rType)
	holder.Elem().Set(rValue)
	ptr := unsafe.Pointer(holder.Pointer())

	entries := make([]fieldEntry, 0, len(schema.sorted))
	for _, field := range schema.sorted {
		value := field.value(holder, ptr)
		if absent(value) {
			continue
		}
		entries = append(entries, fieldEntry{key: field.Key, value: value, quoted: field.Quoted})
	}
	if schema.hasOpen() {
		open := schema.openData(ptr)
		for _, key := range open.Keys() {
			value, _ := open.Get(key)
			entries = append(entries, fieldEntry{key: key, value: value})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].key < entries[j].key
		})
	}
	if err = g.sink.StartObject(); err != nil {
		return err
	}
	for _, entry := range entries {
		if err = g.sink.FieldName(entry.key); err != nil {
			return err
		}
		if err = g.writeValue(entry.value, entry.quoted); err != nil {
			return err
		}
	}
	return g.sink.EndObject()
}

func (g *Generator) writeData(data *Data) error {
	keys := append([]string{}, data.Keys()...)
	sort.Strings(keys)
	if err := g.sink.StartObject(); err != nil {
		return err
	}
	for _, key := range keys {
		value, _ := data.Get(key)
		if err := g.sink.FieldName(key); err != nil {
			return err
		}
		if err := g.writeValue(value, false); err != nil {
			return err
		}
	}
	return g.sink.EndObject()
}

func (g *Generator) writeBool(value bool, quoted bool) error {
	if quoted {
		if value {
			return g.sink.String("true")
		}
		return g.sink.String("false")
	}
	return g.sink.Bool(value)
}

func (g *Generator) writeNumber(literal string, quoted bool) error {
	if quoted {
		return g.sink.String(literal)
	}
	return g.sink.Number(literal)
}

func (g *Generator) writeFloat(value float64, bitSize int, quoted bool) error {
	literal, err := conv.FormatFloat(value, bitSize)
	if err != nil {
		return err
	}
	return g.writeNumber(literal, quoted)
}

//absent reports a field with nothing to emit: a typed nil that is not a
//null sentinel
func absent(value interface{}) bool {
	if value == nil {
		return true
	}
	if IsNull(value) {
		return false
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return rValue.IsNil()
	}
	return false
}
