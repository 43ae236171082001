package bindly

import (
	"reflect"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/viant/bindly/token"
)

func tokenStream(text string) token.Stream {
	return token.New([]byte(text))
}

func typeOf(prototype interface{}) reflect.Type {
	return reflect.TypeOf(prototype)
}

func TestRoundTrip(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
	}{
		{
			description: "declared fields only",
			input:       `{"age":30,"name":"abc"}`,
		},
		{
			description: "undeclared keys survive untouched",
			input:       `{"age":30,"extra":{"deep":[1,2,{"x":null}]},"name":"abc","score":1.25}`,
		},
		{
			description: "large numeric literal survives untouched",
			input:       `{"huge":123456789012345678901234567890123456789,"name":"abc"}`,
		},
		{
			description: "explicit null on a pointer survives",
			input:       `{"age":null,"name":"abc"}`,
		},
	}

	type Person struct {
		Data
		Name string `json:"name"`
		Age  *int   `json:"age"`
	}

	for _, testCase := range testCases {
		var person Person
		err := Unmarshal([]byte(testCase.input), &person)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		actual, err := Marshal(person)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.input, string(actual), testCase.description)
	}
}

func TestRoundTrip_Generated(t *testing.T) {
	type Address struct {
		City string `json:"city"`
		Zip  string `json:"zip"`
	}
	type Person struct {
		Name    string         `json:"name"`
		Age     int            `json:"age"`
		Emails  []string       `json:"emails"`
		Address *Address       `json:"address"`
		Counts  map[string]int `json:"counts"`
	}

	gofakeit.Seed(11)
	for i := 0; i < 10; i++ {
		expect := Person{
			Name:   gofakeit.Name(),
			Age:    gofakeit.Number(0, 120),
			Emails: []string{gofakeit.Email(), gofakeit.Email()},
			Address: &Address{
				City: gofakeit.City(),
				Zip:  gofakeit.Zip(),
			},
			Counts: map[string]int{
				gofakeit.Word(): gofakeit.Number(0, 100),
			},
		}
		data, err := Marshal(expect)
		if !assert.Nil(t, err) {
			continue
		}
		var actual Person
		if !assert.Nil(t, Unmarshal(data, &actual)) {
			continue
		}
		assert.EqualValues(t, "", cmp.Diff(expect, actual))
	}
}

func TestMarshal_Canonical(t *testing.T) {
	type Person struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	first, err := Marshal(Person{Name: "abc", Age: 30})
	assert.Nil(t, err)
	second, err := Marshal(Person{Age: 30, Name: "abc"})
	assert.Nil(t, err)
	assert.EqualValues(t, string(first), string(second))
	assert.EqualValues(t, `{"age":30,"name":"abc"}`, string(first))
}
