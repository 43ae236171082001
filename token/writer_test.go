package token

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter(t *testing.T) {
	var testCases = []struct {
		description string
		emit        func(sink Sink) error
		expect      string
	}{
		{
			description: "flat object",
			emit: func(sink Sink) error {
				_ = sink.StartObject()
				_ = sink.FieldName("id")
				_ = sink.Number("1")
				_ = sink.FieldName("name")
				_ = sink.String("abc")
				return sink.EndObject()
			},
			expect: `{"id":1,"name":"abc"}`,
		},
		{
			description: "nested array with null and bool",
			emit: func(sink Sink) error {
				_ = sink.StartObject()
				_ = sink.FieldName("items")
				_ = sink.StartArray()
				_ = sink.Bool(true)
				_ = sink.Null()
				_ = sink.Number("1.5")
				_ = sink.EndArray()
				return sink.EndObject()
			},
			expect: `{"items":[true,null,1.5]}`,
		},
		{
			description: "escaped string",
			emit: func(sink Sink) error {
				_ = sink.StartObject()
				_ = sink.FieldName("text")
				_ = sink.String("a\"b\nc")
				return sink.EndObject()
			},
			expect: `{"text":"a\"b\nc"}`,
		},
		{
			description: "empty containers",
			emit: func(sink Sink) error {
				_ = sink.StartArray()
				_ = sink.StartObject()
				_ = sink.EndObject()
				return sink.EndArray()
			},
			expect: `[{}]`,
		},
	}

	for _, testCase := range testCases {
		buffer := new(bytes.Buffer)
		writer := NewWriter(buffer)
		err := testCase.emit(writer)
		assert.Nil(t, err, testCase.description)
		assert.EqualValues(t, testCase.expect, buffer.String(), testCase.description)
	}
}

func TestWriter_Unbalanced(t *testing.T) {
	buffer := new(bytes.Buffer)
	writer := NewWriter(buffer)
	assert.Nil(t, writer.StartArray())
	assert.NotNil(t, writer.EndObject())
	assert.NotNil(t, writer.FieldName("id"))
}
