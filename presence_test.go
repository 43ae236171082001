package bindly

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresence_IsSet(t *testing.T) {
	type EntityHas struct {
		Id     bool
		Name   bool
		Active bool
	}
	type Entity struct {
		Id     int        `json:"id"`
		Name   string     `json:"name"`
		Active bool       `json:"active"`
		Has    *EntityHas `bind:"presence"`
	}

	var testCases = []struct {
		description string
		input       string
		expectSet   []string
		expectUnset []string
	}{
		{
			description: "bound fields are flagged",
			input:       `{"id":1,"active":true}`,
			expectSet:   []string{"Id", "Active"},
			expectUnset: []string{"Name"},
		},
		{
			description: "bound zero value still counts as set",
			input:       `{"name":""}`,
			expectSet:   []string{"Name"},
			expectUnset: []string{"Id", "Active"},
		},
	}

	for _, testCase := range testCases {
		var entity Entity
		err := Unmarshal([]byte(testCase.input), &entity)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		schema, err := Default.Schema(reflect.TypeOf(entity))
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		presence := schema.Presence()
		if !assert.NotNil(t, presence, testCase.description) {
			continue
		}
		for _, name := range testCase.expectSet {
			assert.True(t, presence.IsSet(&entity, name), testCase.description+" "+name)
		}
		for _, name := range testCase.expectUnset {
			assert.False(t, presence.IsSet(&entity, name), testCase.description+" "+name)
		}
	}
}

func TestPresence_NoMarkerHolder(t *testing.T) {
	type EntityHas struct {
		Id bool
	}
	type Entity struct {
		Id  int        `json:"id"`
		Has *EntityHas `bind:"presence"`
	}
	schema, err := Default.Schema(reflect.TypeOf(Entity{}))
	assert.Nil(t, err)
	entity := &Entity{Id: 1}
	assert.True(t, schema.Presence().IsSet(entity, "Id"))

	schema.Presence().SetAll(entity, false)
	assert.False(t, schema.Presence().IsSet(entity, "Id"))
	schema.Presence().SetAll(entity, true)
	assert.True(t, schema.Presence().IsSet(entity, "Id"))
}

func TestPresence_Errors(t *testing.T) {
	var testCases = []struct {
		description string
		prototype   interface{}
	}{
		{
			description: "marker field without a corresponding struct field",
			prototype: func() interface{} {
				type Has struct {
					Unknown bool
				}
				type Entity struct {
					Id  int  `json:"id"`
					Has *Has `bind:"presence"`
				}
				return Entity{}
			}(),
		},
		{
			description: "marker must be a struct pointer",
			prototype: func() interface{} {
				type Entity struct {
					Id  int  `json:"id"`
					Has bool `bind:"presence"`
				}
				return Entity{}
			}(),
		},
		{
			description: "marker fields must be bool",
			prototype: func() interface{} {
				type Has struct {
					Id int
				}
				type Entity struct {
					Id  int  `json:"id"`
					Has *Has `bind:"presence"`
				}
				return Entity{}
			}(),
		},
	}

	for _, testCase := range testCases {
		registry := NewRegistry()
		_, err := registry.Schema(reflect.TypeOf(testCase.prototype))
		assert.NotNil(t, err, testCase.description)
	}
}
