package bindly

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/tagly/format/text"
)

type (
	//Registry owns the per type binding metadata: cached schemas, enum
	//tables, variant tables and generic type arguments. Lookups are lock
	//free once an entry is published; construction runs at most once per
	//type and failures are cached so a broken schema fails identically and
	//cheaply every time.
	Registry struct {
		schemas    sync.Map //reflect.Type -> *schemaEntry
		enums      sync.Map //reflect.Type -> *enumTable
		variants   sync.Map //reflect.Type -> *VariantTable
		typeArgs   sync.Map //reflect.Type -> map[string]reflect.Type
		caseFormat text.CaseFormat
	}

	schemaEntry struct {
		once   sync.Once
		schema *Schema
		err    error
	}

	//EnumValue maps one wire value to one enum constant
	EnumValue struct {
		Wire     string
		Constant interface{}
	}

	enumTable struct {
		rType       reflect.Type
		byWire      map[string]reflect.Value
		wireByConst map[interface{}]string
		nullConst   interface{}
		hasNull     bool
	}

	//Variant maps one discriminator wire value to one concrete type
	Variant struct {
		Value string
		Type  reflect.Type
	}

	//VariantTable is a discriminator keyed subtype map registered for an
	//interface type
	VariantTable struct {
		key      string
		variants []Variant
		byValue  map[string]reflect.Type
	}
)

//Default is the process wide registry used by the package level API.
var Default = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	result := &Registry{}
	Options(opts).Apply(result)
	return result
}

// Descriptor resolves the binding shape of a declared type against the
// registry's enum and variant tables.
func (r *Registry) Descriptor(t reflect.Type) (*Descriptor, error) {
	return r.descriptorFor(t)
}

// Schema returns the cached binding schema for the given struct type,
// building it on first use. Safe for concurrent use; the first caller pays
// the introspection cost.
func (r *Registry) Schema(t reflect.Type) (*Schema, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	value, _ := r.schemas.LoadOrStore(t, &schemaEntry{})
	entry := value.(*schemaEntry)
	entry.once.Do(func() {
		entry.schema, entry.err = r.buildSchema(t)
	})
	return entry.schema, entry.err
}

// Register records registration options for a concrete type ahead of its
// first schema use, most notably generic type argument bindings.
func (r *Registry) Register(prototype interface{}, opts ...RegisterOption) error {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("registration requires a struct type, got %s", t)
	}
	registration := &registration{}
	for _, opt := range opts {
		opt(registration)
	}
	if len(registration.typeArgs) > 0 {
		r.typeArgs.Store(t, registration.typeArgs)
	}
	return nil
}

func (r *Registry) typeArgumentsFor(t reflect.Type) map[string]reflect.Type {
	value, ok := r.typeArgs.Load(t)
	if !ok {
		return nil
	}
	return value.(map[string]reflect.Type)
}

// RegisterEnum declares the wire value table for a named scalar type.
// Duplicate wire values are a registration error.
func (r *Registry) RegisterEnum(prototype interface{}, values []EnumValue, opts ...EnumOption) error {
	t := reflect.TypeOf(prototype)
	switch t.Kind() {
	case reflect.String, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return fmt.Errorf("enum base must be a string or integer type, got %s", t)
	}
	if len(values) == 0 {
		return fmt.Errorf("enum %s has no values", t)
	}
	table := &enumTable{
		rType:       t,
		byWire:      make(map[string]reflect.Value, len(values)),
		wireByConst: make(map[interface{}]string, len(values)),
	}
	for _, value := range values {
		constant := reflect.ValueOf(value.Constant)
		if constant.Type() != t {
			return fmt.Errorf("enum %s constant %v has type %s", t, value.Constant, constant.Type())
		}
		if _, ok := table.byWire[value.Wire]; ok {
			return fmt.Errorf("enum %s declares wire value %q twice", t, value.Wire)
		}
		table.byWire[value.Wire] = constant
		table.wireByConst[value.Constant] = value.Wire
	}
	for _, opt := range opts {
		if err := opt(table); err != nil {
			return err
		}
	}
	if _, loaded := r.enums.LoadOrStore(t, table); loaded {
		return fmt.Errorf("enum %s already registered", t)
	}
	return nil
}

func (r *Registry) enumFor(t reflect.Type) *enumTable {
	value, ok := r.enums.Load(t)
	if !ok {
		return nil
	}
	return value.(*enumTable)
}

func (t *enumTable) constantFor(wire string) (interface{}, error) {
	constant, ok := t.byWire[wire]
	if !ok {
		return nil, fmt.Errorf("unknown %s wire value %q", t.rType, wire)
	}
	return constant.Interface(), nil
}

func (t *enumTable) wireFor(constant interface{}) (string, bool) {
	wire, ok := t.wireByConst[constant]
	return wire, ok
}

func (t *enumTable) nullValue() (interface{}, error) {
	if !t.hasNull {
		return nil, fmt.Errorf("enum %s has no designated null constant", t.rType)
	}
	return t.nullConst, nil
}

// RegisterVariants declares a discriminator keyed subtype table for an
// interface type. The discriminator key may be declared by a subtype schema
// at most once and only as a string or integer field; duplicate
// discriminator values fail registration.
func (r *Registry) RegisterVariants(prototype interface{}, key string, variants ...Variant) error {
	t := reflect.TypeOf(prototype)
	if t != nil && t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Interface {
		return fmt.Errorf("variant base must be an interface type, use a *iface prototype")
	}
	if key == "" {
		return fmt.Errorf("variant table for %s has an empty discriminator key", t)
	}
	if len(variants) == 0 {
		return fmt.Errorf("variant table for %s has no variants", t)
	}
	table := &VariantTable{key: key, variants: variants, byValue: make(map[string]reflect.Type, len(variants))}
	for _, variant := range variants {
		if _, ok := table.byValue[variant.Value]; ok {
			return fmt.Errorf("variant table for %s declares discriminator value %q twice", t, variant.Value)
		}
		concrete := variant.Type
		if concrete.Kind() == reflect.Ptr {
			concrete = concrete.Elem()
		}
		if concrete.Kind() != reflect.Struct {
			return fmt.Errorf("variant %q of %s must be a struct type, got %s", variant.Value, t, variant.Type)
		}
		if !variant.Type.Implements(t) && !reflect.PtrTo(concrete).Implements(t) {
			return fmt.Errorf("variant %q type %s does not implement %s", variant.Value, variant.Type, t)
		}
		schema, err := r.Schema(concrete)
		if err != nil {
			return fmt.Errorf("variant %q of %s: %w", variant.Value, t, err)
		}
		if field := schema.Lookup(key); field != nil {
			if !discriminatorKind(field.Descriptor.Kind) {
				return fmt.Errorf("variant %q of %s declares discriminator %q as %s, a string or integer field is required",
					variant.Value, t, key, field.Descriptor.Type)
			}
		}
		table.byValue[variant.Value] = variant.Type
	}
	if _, loaded := r.variants.LoadOrStore(t, table); loaded {
		return fmt.Errorf("variant table for %s already registered", t)
	}
	return nil
}

func (r *Registry) variantsFor(t reflect.Type) *VariantTable {
	value, ok := r.variants.Load(t)
	if !ok {
		return nil
	}
	return value.(*VariantTable)
}

// Key returns the discriminator wire key.
func (t *VariantTable) Key() string {
	return t.key
}

func (t *VariantTable) resolve(value string) (reflect.Type, error) {
	concrete, ok := t.byValue[value]
	if !ok {
		known := make([]string, 0, len(t.variants))
		for _, variant := range t.variants {
			known = append(known, variant.Value)
		}
		return nil, fmt.Errorf("no variant registered for discriminator value %q, known values: %v", value, known)
	}
	return concrete, nil
}

func discriminatorKind(kind Kind) bool {
	switch kind {
	case KindString, KindEnum,
		KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
	return false
}
