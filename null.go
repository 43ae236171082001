package bindly

import (
	"reflect"
	"sync"
)

//Sentinels marking "JSON null was present", one shared instance per
//representable shape. A sentinel is identity distinct from both the shape's
//zero value and from absence; serializing one always emits a JSON null
//token. The table is populated lazily, at most once per shape, and entries
//are immutable once published.
var nullSentinels sync.Map //reflect.Type -> interface{}

// Null returns the shared null sentinel for the given shape. Pointer, slice
// and map shapes keep their own type; any other type is represented through
// its pointer shape, so Null(reflect.TypeOf(0)) is a canonical *int.
func Null(t reflect.Type) interface{} {
	key := sentinelKey(t)
	if value, ok := nullSentinels.Load(key); ok {
		return value
	}
	var created interface{}
	switch key.Kind() {
	case reflect.Slice:
		//capacity 1 forces a unique backing array, zero capacity slices share one
		created = reflect.MakeSlice(key, 0, 1).Interface()
	case reflect.Map:
		created = reflect.MakeMap(key).Interface()
	default:
		created = reflect.New(key.Elem()).Interface()
	}
	value, _ := nullSentinels.LoadOrStore(key, created)
	return value
}

// IsNull reports whether the given value is a null sentinel.
func IsNull(value interface{}) bool {
	if value == nil {
		return false
	}
	rType := reflect.TypeOf(value)
	stored, ok := nullSentinels.Load(rType)
	if !ok {
		return false
	}
	switch rType.Kind() {
	case reflect.Slice:
		rValue := reflect.ValueOf(value)
		return rValue.Len() == 0 && rValue.Pointer() == reflect.ValueOf(stored).Pointer()
	case reflect.Map:
		return reflect.ValueOf(value).Pointer() == reflect.ValueOf(stored).Pointer()
	}
	return value == stored
}

//sentinelKey normalizes a shape to the dynamic type its sentinel carries
func sentinelKey(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map:
		return t
	}
	return reflect.PtrTo(t)
}

//nullValueFor binds an explicit JSON null against a descriptor. A variant
//interface has no sentinel shape, no concrete type stands in for every
//subtype, so its null collapses to the nil interface.
func nullValueFor(d *Descriptor) (interface{}, error) {
	if d.Kind == KindEnum {
		return d.enum.nullValue()
	}
	if d.Kind == KindVariant && !d.Ptr {
		return nil, nil
	}
	if !d.IsNilable() {
		return nil, errNullNotRepresentable(d)
	}
	return Null(d.sentinelType()), nil
}
