package bindly

import (
	"fmt"
	"math/big"
	"reflect"
	"time"
)

// Kind discriminates the closed set of descriptor variants.
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBigInt
	KindBigFloat
	KindString
	KindTime
	KindEnum
	KindArray
	KindSlice
	KindMap
	KindStruct
	KindAny
	KindVariant
)

var (
	bigIntType   = reflect.TypeOf(big.Int{})
	bigFloatType = reflect.TypeOf(big.Float{})
	timeType     = reflect.TypeOf(time.Time{})
	anyType      = reflect.TypeOf((*interface{})(nil)).Elem()
	dataType     = reflect.TypeOf(Data{})
)

type (
	//Descriptor is the resolved binding shape of a declared type. Struct
	//schemas and variant tables hang off the owning registry and are looked
	//up lazily so self referencing types do not recurse at build time.
	Descriptor struct {
		Kind Kind
		Type reflect.Type //non pointer declared type
		Ptr  bool         //declared through a pointer
		Elem *Descriptor  //array, slice or map element
		enum *enumTable
	}
)

// IsNilable reports whether the descriptor's Go representation can hold a
// null sentinel.
func (d *Descriptor) IsNilable() bool {
	if d.Ptr {
		return true
	}
	switch d.Kind {
	case KindSlice, KindMap, KindAny, KindVariant, KindBigInt, KindBigFloat:
		return true
	}
	return false
}

//sentinelType returns the shape the null registry keys this descriptor under
func (d *Descriptor) sentinelType() reflect.Type {
	if d.Ptr {
		return reflect.PtrTo(d.Type)
	}
	switch d.Kind {
	case KindBigInt, KindBigFloat:
		return reflect.PtrTo(d.Type)
	case KindAny:
		return anyType
	}
	return d.Type
}

func (r *Registry) descriptorFor(t reflect.Type) (*Descriptor, error) {
	result := &Descriptor{}
	if t.Kind() == reflect.Ptr {
		elem := t.Elem()
		if elem == bigIntType {
			return &Descriptor{Kind: KindBigInt, Type: bigIntType}, nil
		}
		if elem == bigFloatType {
			return &Descriptor{Kind: KindBigFloat, Type: bigFloatType}, nil
		}
		if elem.Kind() == reflect.Ptr {
			return nil, fmt.Errorf("multi-level pointer type is not supported: %s", t.String())
		}
		result.Ptr = true
		t = elem
	}
	result.Type = t
	if table := r.enumFor(t); table != nil {
		result.Kind = KindEnum
		result.enum = table
		return result, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		result.Kind = KindBool
	case reflect.Int:
		result.Kind = KindInt
	case reflect.Int8:
		result.Kind = KindInt8
	case reflect.Int16:
		result.Kind = KindInt16
	case reflect.Int32:
		result.Kind = KindInt32
	case reflect.Int64:
		result.Kind = KindInt64
	case reflect.Uint:
		result.Kind = KindUint
	case reflect.Uint8:
		result.Kind = KindUint8
	case reflect.Uint16:
		result.Kind = KindUint16
	case reflect.Uint32:
		result.Kind = KindUint32
	case reflect.Uint64:
		result.Kind = KindUint64
	case reflect.Float32:
		result.Kind = KindFloat32
	case reflect.Float64:
		result.Kind = KindFloat64
	case reflect.String:
		result.Kind = KindString
	case reflect.Struct:
		if t == timeType {
			result.Kind = KindTime
			return result, nil
		}
		if t == bigIntType || t == bigFloatType {
			return nil, fmt.Errorf("%s field must be declared as *%s", t, t)
		}
		result.Kind = KindStruct
	case reflect.Slice:
		elem, err := r.descriptorFor(t.Elem())
		if err != nil {
			return nil, err
		}
		result.Kind = KindSlice
		result.Elem = elem
	case reflect.Array:
		elem, err := r.descriptorFor(t.Elem())
		if err != nil {
			return nil, err
		}
		result.Kind = KindArray
		result.Elem = elem
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key must be a string: %s", t.String())
		}
		elem, err := r.descriptorFor(t.Elem())
		if err != nil {
			return nil, err
		}
		result.Kind = KindMap
		result.Elem = elem
	case reflect.Interface:
		if table := r.variantsFor(t); table != nil {
			result.Kind = KindVariant
			return result, nil
		}
		if t.NumMethod() == 0 {
			result.Kind = KindAny
			return result, nil
		}
		return nil, fmt.Errorf("interface %s has no registered variants", t.String())
	default:
		return nil, fmt.Errorf("unsupported binding type: %s", t.String())
	}
	return result, nil
}
