package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReader_Next(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      []Token
	}{
		{
			description: "flat object",
			input:       `{"id":1,"name":"abc","active":true}`,
			expect: []Token{
				{Kind: StartObject},
				{Kind: FieldName, Name: "id"},
				{Kind: NumberInt, Literal: "1"},
				{Kind: FieldName, Name: "name"},
				{Kind: String, Text: "abc"},
				{Kind: FieldName, Name: "active"},
				{Kind: Bool, Flag: true},
				{Kind: EndObject},
				{Kind: EOF},
			},
		},
		{
			description: "nested object and array",
			input:       `{"items":[{"v":1.5},null]}`,
			expect: []Token{
				{Kind: StartObject},
				{Kind: FieldName, Name: "items"},
				{Kind: StartArray},
				{Kind: StartObject},
				{Kind: FieldName, Name: "v"},
				{Kind: NumberFloat, Literal: "1.5"},
				{Kind: EndObject},
				{Kind: Null},
				{Kind: EndArray},
				{Kind: EndObject},
				{Kind: EOF},
			},
		},
		{
			description: "large integer keeps its literal",
			input:       `{"big":123456789012345678901234567890}`,
			expect: []Token{
				{Kind: StartObject},
				{Kind: FieldName, Name: "big"},
				{Kind: NumberInt, Literal: "123456789012345678901234567890"},
				{Kind: EndObject},
				{Kind: EOF},
			},
		},
		{
			description: "exponent literal is a float",
			input:       `[1e3]`,
			expect: []Token{
				{Kind: StartArray},
				{Kind: NumberFloat, Literal: "1e3"},
				{Kind: EndArray},
				{Kind: EOF},
			},
		},
		{
			description: "top level scalar",
			input:       `"hello"`,
			expect: []Token{
				{Kind: String, Text: "hello"},
				{Kind: EOF},
			},
		},
	}

	for _, testCase := range testCases {
		stream := New([]byte(testCase.input))
		var actual []Token
		for {
			tok, err := stream.Next()
			if !assert.Nil(t, err, testCase.description) {
				break
			}
			actual = append(actual, tok)
			if tok.Kind == EOF {
				break
			}
		}
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestReader_Malformed(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
	}{
		{
			description: "truncated object",
			input:       `{"id":1`,
		},
		{
			description: "not JSON",
			input:       `??`,
		},
	}

	for _, testCase := range testCases {
		stream := New([]byte(testCase.input))
		var err error
		for i := 0; i < 16; i++ {
			var tok Token
			tok, err = stream.Next()
			if err != nil || tok.Kind == EOF {
				break
			}
		}
		assert.NotNil(t, err, testCase.description)
	}
}
