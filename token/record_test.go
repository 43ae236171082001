package token

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder_Record(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      string
	}{
		{
			description: "scalar span",
			input:       `"abc"`,
			expect:      `"abc"`,
		},
		{
			description: "object span",
			input:       `{"id":1,"tags":["a","b"]}`,
			expect:      `{"id":1,"tags":["a","b"]}`,
		},
		{
			description: "array span",
			input:       `[1,{"v":null},true]`,
			expect:      `[1,{"v":null},true]`,
		},
	}

	for _, testCase := range testCases {
		stream := New([]byte(testCase.input))
		first, err := stream.Next()
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		recorder := &Recorder{}
		err = recorder.Record(first, stream)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		actual, err := render(Replay(recorder.Tokens()))
		assert.Nil(t, err, testCase.description)
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestRecorder_Truncated(t *testing.T) {
	tokens := []Token{{Kind: StartObject}, {Kind: FieldName, Name: "id"}}
	stream := Replay(tokens)
	first, err := stream.Next()
	assert.Nil(t, err)
	recorder := &Recorder{}
	assert.NotNil(t, recorder.Record(first, stream))
}

//render pipes a stream back through a writer to compare spans as text
func render(stream Stream) (string, error) {
	buffer := new(bytes.Buffer)
	writer := NewWriter(buffer)
	for {
		tok, err := stream.Next()
		if err != nil {
			return "", err
		}
		switch tok.Kind {
		case EOF:
			return buffer.String(), nil
		case StartObject:
			err = writer.StartObject()
		case EndObject:
			err = writer.EndObject()
		case StartArray:
			err = writer.StartArray()
		case EndArray:
			err = writer.EndArray()
		case FieldName:
			err = writer.FieldName(tok.Name)
		case String:
			err = writer.String(tok.Text)
		case NumberInt, NumberFloat:
			err = writer.Number(tok.Literal)
		case Bool:
			err = writer.Bool(tok.Flag)
		case Null:
			err = writer.Null()
		}
		if err != nil {
			return "", err
		}
	}
}
