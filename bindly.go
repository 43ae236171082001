// Package bindly binds JSON data to statically typed Go values and back.
// A cached per type schema drives both directions: the parser materializes
// declared fields through unsafe field accessors, routes undeclared keys into
// an embedded Data container and keeps explicit JSON nulls distinguishable
// from absent keys through shared null sentinels; the generator emits
// canonical output with keys in ascending lexicographic order.
package bindly

import (
	"bytes"

	"github.com/viant/bindly/token"
)

// Unmarshal binds JSON text to dest, which must be a non-nil pointer.
// Types are served by the default registry.
func Unmarshal(data []byte, dest interface{}) error {
	return NewParser(token.New(data)).Parse(dest)
}

// Marshal serializes value as canonical JSON text with object keys in
// ascending lexicographic order.
func Marshal(value interface{}) ([]byte, error) {
	buffer := new(bytes.Buffer)
	if err := NewGenerator(token.NewWriter(buffer)).Write(value); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
