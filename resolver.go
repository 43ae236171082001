package bindly

import "reflect"

//substitutionFor builds the type variable substitution map for a concrete
//leaf type: embedded bases contribute first, each more derived level
//overriding, so a variable declared in a base resolves to the binding
//supplied closest to the leaf. Built once per concrete type as part of
//schema construction.
func (r *Registry) substitutionFor(t reflect.Type) map[string]reflect.Type {
	result := map[string]reflect.Type{}
	r.mergeTypeArguments(t, result, map[reflect.Type]bool{})
	return result
}

func (r *Registry) mergeTypeArguments(t reflect.Type, into map[string]reflect.Type, seen map[reflect.Type]bool) {
	if seen[t] {
		return
	}
	seen[t] = true
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct && field.Type != dataType {
			r.mergeTypeArguments(field.Type, into, seen)
		}
	}
	if args := r.typeArgumentsFor(t); args != nil {
		for name, bound := range args {
			into[name] = bound
		}
	}
}
