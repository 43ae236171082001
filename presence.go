package bindly

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

//Presence is a field set marker: a destination struct may declare a pointer
//to a struct of bool fields named after its declared fields and tag it
//bind:"presence". The parser allocates the marker on first use and flags
//every declared field bound from the wire, so a caller can tell a bound zero
//value from an untouched one.
type Presence struct {
	owner      reflect.Type
	holder     *xunsafe.Field
	holderType reflect.Type
	flags      map[string]*xunsafe.Field //keyed by declared field name
}

func newPresence(owner reflect.Type, field reflect.StructField, declared map[string]bool) (*Presence, error) {
	if field.Type.Kind() != reflect.Ptr || field.Type.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s.%s: presence marker must be a struct pointer, got %s", owner, field.Name, field.Type)
	}
	holderType := field.Type.Elem()
	result := &Presence{
		owner:      owner,
		holder:     xunsafe.NewField(field),
		holderType: holderType,
		flags:      make(map[string]*xunsafe.Field, holderType.NumField()),
	}
	for i := 0; i < holderType.NumField(); i++ {
		markerField := holderType.Field(i)
		if markerField.Type.Kind() != reflect.Bool {
			return nil, fmt.Errorf("%s.%s: presence marker field %s must be a bool", owner, field.Name, markerField.Name)
		}
		if !declared[markerField.Name] {
			return nil, fmt.Errorf("presence marker field %q does not have a corresponding %s field", markerField.Name, owner)
		}
		result.flags[markerField.Name] = xunsafe.NewField(markerField)
	}
	if len(result.flags) == 0 {
		return nil, fmt.Errorf("presence marker %s has no fields", holderType)
	}
	return result, nil
}

//mark flags a declared field as bound, allocating the marker holder on
//first use
func (p *Presence) mark(ptr unsafe.Pointer, fieldName string) {
	flag, ok := p.flags[fieldName]
	if !ok {
		return
	}
	if p.holder.IsNil(ptr) {
		p.holder.SetValue(ptr, reflect.New(p.holderType).Interface())
	}
	flag.SetBool(p.holder.ValuePointer(ptr), true)
}

// IsSet reports whether the named field was flagged as bound. With no marker
// allocated every field counts as set. The target must be a pointer to the
// marker's owner struct.
func (p *Presence) IsSet(target interface{}, fieldName string) bool {
	ptr := xunsafe.AsPointer(target)
	if p.holder.IsNil(ptr) {
		return true
	}
	flag, ok := p.flags[fieldName]
	if !ok {
		return false
	}
	return flag.Bool(p.holder.ValuePointer(ptr))
}

// SetAll flags every marker field with the supplied value, allocating the
// marker holder on first use.
func (p *Presence) SetAll(target interface{}, flag bool) {
	ptr := xunsafe.AsPointer(target)
	if p.holder.IsNil(ptr) {
		p.holder.SetValue(ptr, reflect.New(p.holderType).Interface())
	}
	markerPtr := p.holder.ValuePointer(ptr)
	for _, field := range p.flags {
		field.SetBool(markerPtr, flag)
	}
}
