package bindly

import (
	"fmt"
	"reflect"
	"sort"
	"unsafe"

	"github.com/viant/tagly/format/text"
	"github.com/viant/xunsafe"
)

type (
	//Schema is the immutable binding schema of one concrete struct type.
	//Built once on first use, cached by the owning registry and shared
	//read-only across concurrent binds.
	Schema struct {
		rType         reflect.Type
		fields        []*Field
		byKey         map[string]*Field
		sorted        []*Field       //ascending wire key order used by the generator
		open          *xunsafe.Field //embedded Data absorbing undeclared keys
		presence      *Presence
		presenceField *reflect.StructField
	}

	//Field is a single wire key to struct field binding
	Field struct {
		Name       string
		Key        string
		Quoted     bool
		TypeVar    string
		Descriptor *Descriptor
		xField     *xunsafe.Field
		index      []int
		useReflect bool //interface typed fields go through reflect to keep the itab intact
	}
)

// Type returns the schema's struct type.
func (s *Schema) Type() reflect.Type {
	return s.rType
}

// Fields returns declared fields in declaration order.
func (s *Schema) Fields() []*Field {
	return s.fields
}

// Lookup returns the field bound to the given wire key or nil.
func (s *Schema) Lookup(key string) *Field {
	return s.byKey[key]
}

//hasOpen reports whether undeclared keys have a destination
func (s *Schema) hasOpen() bool {
	return s.open != nil
}

// Presence returns the schema's field set marker or nil.
func (s *Schema) Presence() *Presence {
	return s.presence
}

func (s *Schema) openData(ptr unsafe.Pointer) *Data {
	return (*Data)(s.open.Pointer(ptr))
}

func (f *Field) setValue(holder reflect.Value, ptr unsafe.Pointer, value interface{}) error {
	if f.useReflect {
		target := holder.Elem().FieldByIndex(f.index)
		if value == nil {
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		rValue := reflect.ValueOf(value)
		if !rValue.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("cannot assign %s to field %s of type %s", rValue.Type(), f.Name, target.Type())
		}
		target.Set(rValue)
		return nil
	}
	f.xField.SetValue(ptr, value)
	return nil
}

func (f *Field) value(holder reflect.Value, ptr unsafe.Pointer) interface{} {
	if f.useReflect {
		target := holder.Elem().FieldByIndex(f.index)
		if target.IsNil() {
			return nil
		}
		return target.Interface()
	}
	return f.xField.Value(ptr)
}

func (r *Registry) buildSchema(t reflect.Type) (*Schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema requires a struct type, got %s", t.String())
	}
	result := &Schema{rType: t, byKey: map[string]*Field{}}
	subst := r.substitutionFor(t)
	if err := r.collectFields(result, t, nil, 0, subst); err != nil {
		return nil, err
	}
	result.sorted = make([]*Field, len(result.fields))
	copy(result.sorted, result.fields)
	sort.Slice(result.sorted, func(i, j int) bool {
		return result.sorted[i].Key < result.sorted[j].Key
	})
	if result.presenceField != nil {
		declared := make(map[string]bool, len(result.fields))
		for _, field := range result.fields {
			declared[field.Name] = true
		}
		presence, err := newPresence(t, *result.presenceField, declared)
		if err != nil {
			return nil, err
		}
		result.presence = presence
		result.presenceField = nil
	}
	return result, nil
}

func (r *Registry) collectFields(schema *Schema, t reflect.Type, path []int, offset uintptr, subst map[string]reflect.Type) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(append([]int{}, path...), i)
		if field.Type == dataType {
			if schema.open != nil {
				return fmt.Errorf("%s declares more than one open container", schema.rType)
			}
			adjusted := field
			adjusted.Offset += offset
			schema.open = xunsafe.NewField(adjusted)
			continue
		}
		if field.PkgPath != "" { //unexported
			continue
		}
		tag := parseFieldTag(field.Tag)
		if tag.Ignore {
			continue
		}
		if tag.Presence {
			if schema.presenceField != nil {
				return fmt.Errorf("%s declares more than one presence marker", schema.rType)
			}
			adjusted := field
			adjusted.Offset += offset
			schema.presenceField = &adjusted
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct && field.Type != timeType && field.Type != bigIntType && field.Type != bigFloatType {
			if err := r.collectFields(schema, field.Type, index, offset+field.Offset, subst); err != nil {
				return err
			}
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Ptr {
			return fmt.Errorf("%s: embedded pointer base %s is not supported", schema.rType, field.Type)
		}
		bound, err := r.buildField(schema.rType, field, index, offset, tag, subst)
		if err != nil {
			return err
		}
		if prev := schema.byKey[bound.Key]; prev != nil {
			return fmt.Errorf("%s declares wire key %q twice (%s, %s)", schema.rType, bound.Key, prev.Name, bound.Name)
		}
		schema.byKey[bound.Key] = bound
		schema.fields = append(schema.fields, bound)
	}
	return nil
}

func (r *Registry) buildField(owner reflect.Type, field reflect.StructField, index []int, offset uintptr, tag fieldTag, subst map[string]reflect.Type) (*Field, error) {
	declared := field.Type
	if tag.TypeVar != "" {
		if declared.Kind() != reflect.Interface {
			return nil, fmt.Errorf("%s.%s: type variable field must be interface typed, got %s", owner, field.Name, declared)
		}
		concrete, ok := subst[tag.TypeVar]
		if !ok {
			return nil, fmt.Errorf("%s.%s: unresolved type variable %q", owner, field.Name, tag.TypeVar)
		}
		declared = concrete
	}
	descriptor, err := r.descriptorFor(declared)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", owner, field.Name, err)
	}
	if tag.Quoted && !quotable(descriptor.Kind) {
		return nil, fmt.Errorf("%s.%s: quoted modifier requires a numeric or bool field", owner, field.Name)
	}
	adjusted := field
	adjusted.Offset += offset
	result := &Field{
		Name:       field.Name,
		Key:        r.wireKey(field.Name, tag),
		Quoted:     tag.Quoted,
		TypeVar:    tag.TypeVar,
		Descriptor: descriptor,
		xField:     xunsafe.NewField(adjusted),
		index:      index,
		useReflect: field.Type.Kind() == reflect.Interface,
	}
	return result, nil
}

func (r *Registry) wireKey(fieldName string, tag fieldTag) string {
	if tag.Key != "" {
		return tag.Key
	}
	if r.caseFormat == "" {
		return fieldName
	}
	src := text.DetectCaseFormat(fieldName)
	if !src.IsDefined() {
		src = text.CaseFormatUpperCamel
	}
	return src.Format(fieldName, r.caseFormat)
}

func quotable(kind Kind) bool {
	switch kind {
	case KindBool, KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64, KindBigInt, KindBigFloat:
		return true
	}
	return false
}
