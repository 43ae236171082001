package bindly

import (
	"reflect"
	"strings"
)

const (
	//BindTag carries binder specific field modifiers
	BindTag = "bind"

	//JSONTag overrides the field wire key
	JSONTag = "json"
)

type fieldTag struct {
	Key      string //explicit wire key
	Quoted   bool   //scalar serialized as a JSON string
	TypeVar  string //declared type variable, resolved per concrete type
	Presence bool   //field holds the presence marker struct
	Ignore   bool
}

func parseFieldTag(tag reflect.StructTag) fieldTag {
	result := fieldTag{}
	if value, ok := tag.Lookup(JSONTag); ok {
		name := value
		if index := strings.Index(value, ","); index != -1 {
			name = value[:index]
		}
		if name == "-" {
			result.Ignore = true
			return result
		}
		result.Key = name
	}
	value, ok := tag.Lookup(BindTag)
	if !ok {
		return result
	}
	for _, fragment := range strings.Split(value, ",") {
		switch {
		case fragment == "quoted":
			result.Quoted = true
		case fragment == "presence":
			result.Presence = true
		case fragment == "-":
			result.Ignore = true
		case strings.HasPrefix(fragment, "type="):
			result.TypeVar = fragment[len("type="):]
		}
	}
	return result
}
