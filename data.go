package bindly

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

//Data is the ordered open container underlying every declared object: keys
//with no declared field land here during a bind and flow back out on
//generation, so undeclared wire content survives a round trip untouched.
//Embed it (or declare a field of this type) in a destination struct to opt
//in. Insertion order is preserved.
type Data struct {
	keys   []string
	values map[string]interface{}
}

// Set stores a value under the given key, keeping first insertion order.
func (d *Data) Set(key string, value interface{}) {
	if d.values == nil {
		d.values = map[string]interface{}{}
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *Data) Get(key string) (interface{}, bool) {
	value, ok := d.values[key]
	return value, ok
}

// Delete removes a key.
func (d *Data) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, candidate := range d.keys {
		if candidate == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns keys in insertion order.
func (d *Data) Keys() []string {
	return d.keys
}

// Len returns the number of stored keys.
func (d *Data) Len() int {
	return len(d.keys)
}

// Set routes a wire key through the target's declared schema: a declared key
// writes the struct field, anything else lands in the open container. The
// target must be a struct pointer.
func (r *Registry) Set(target interface{}, key string, value interface{}) error {
	schema, holder, ptr, err := r.schemaAndPointer(target)
	if err != nil {
		return err
	}
	if field := schema.Lookup(key); field != nil {
		return field.setValue(holder, ptr, value)
	}
	if !schema.hasOpen() {
		return fmt.Errorf("%s has no open container for undeclared key %q", schema.rType, key)
	}
	schema.openData(ptr).Set(key, value)
	return nil
}

// Get routes a wire key through the target's declared schema, falling back
// to the open container.
func (r *Registry) Get(target interface{}, key string) (interface{}, bool) {
	schema, holder, ptr, err := r.schemaAndPointer(target)
	if err != nil {
		return nil, false
	}
	if field := schema.Lookup(key); field != nil {
		return field.value(holder, ptr), true
	}
	if !schema.hasOpen() {
		return nil, false
	}
	return schema.openData(ptr).Get(key)
}

// Delete removes an undeclared key from the target's open container.
// Declared keys cannot be deleted, only overwritten.
func (r *Registry) Delete(target interface{}, key string) error {
	schema, _, ptr, err := r.schemaAndPointer(target)
	if err != nil {
		return err
	}
	if field := schema.Lookup(key); field != nil {
		return fmt.Errorf("cannot delete declared key %q of %s", field.Key, schema.rType)
	}
	if schema.hasOpen() {
		schema.openData(ptr).Delete(key)
	}
	return nil
}

func (r *Registry) schemaAndPointer(target interface{}) (*Schema, reflect.Value, unsafe.Pointer, error) {
	holder := reflect.ValueOf(target)
	if !holder.IsValid() || holder.Kind() != reflect.Ptr || holder.IsNil() || holder.Elem().Kind() != reflect.Struct {
		return nil, reflect.Value{}, nil, fmt.Errorf("target must be a non-nil struct pointer, got %T", target)
	}
	schema, err := r.Schema(holder.Elem().Type())
	if err != nil {
		return nil, reflect.Value{}, nil, err
	}
	return schema, holder, xunsafe.AsPointer(target), nil
}
