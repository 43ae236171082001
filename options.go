package bindly

import (
	"fmt"
	"reflect"

	"github.com/viant/tagly/format/text"
)

//Option registry option
type Option func(r *Registry)

//Options represents registry options
type Options []Option

//Apply applies options
func (o Options) Apply(r *Registry) {
	if len(o) == 0 {
		return
	}
	for _, opt := range o {
		opt(r)
	}
}

//WithCaseFormat derives default wire keys with the given case format
func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return func(r *Registry) {
		r.caseFormat = caseFormat
	}
}

type registration struct {
	typeArgs map[string]reflect.Type
}

//RegisterOption customizes one concrete type registration
type RegisterOption func(r *registration)

//WithTypeArgument binds a declared type variable to a concrete type for the
//registered leaf type and everything it embeds
func WithTypeArgument(name string, bound reflect.Type) RegisterOption {
	return func(r *registration) {
		if r.typeArgs == nil {
			r.typeArgs = map[string]reflect.Type{}
		}
		r.typeArgs[name] = bound
	}
}

//EnumOption customizes an enum registration
type EnumOption func(t *enumTable) error

//WithNullConstant designates the constant an explicit JSON null binds to
func WithNullConstant(constant interface{}) EnumOption {
	return func(t *enumTable) error {
		value := reflect.ValueOf(constant)
		if value.Type() != t.rType {
			return fmt.Errorf("enum %s null constant %v has type %s", t.rType, constant, value.Type())
		}
		t.nullConst = constant
		t.hasNull = true
		return nil
	}
}
