package bindly

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNull(t *testing.T) {
	var testCases = []struct {
		description string
		shape       reflect.Type
	}{
		{
			description: "pointer shape",
			shape:       reflect.TypeOf((*int)(nil)),
		},
		{
			description: "value shape promoted to its pointer",
			shape:       reflect.TypeOf(""),
		},
		{
			description: "slice shape",
			shape:       reflect.TypeOf([]string{}),
		},
		{
			description: "map shape",
			shape:       reflect.TypeOf(map[string]int{}),
		},
		{
			description: "interface shape",
			shape:       anyType,
		},
	}

	for _, testCase := range testCases {
		first := Null(testCase.shape)
		second := Null(testCase.shape)
		assert.True(t, IsNull(first), testCase.description)
		assert.EqualValues(t, first, second, testCase.description)
	}
}

func TestIsNull_DistinguishesOrdinaryValues(t *testing.T) {
	sentinel := Null(reflect.TypeOf([]string{}))
	assert.True(t, IsNull(sentinel))
	assert.False(t, IsNull([]string{}))
	assert.False(t, IsNull([]string(nil)))
	assert.False(t, IsNull(nil))

	number := 0
	assert.False(t, IsNull(&number))
	assert.True(t, IsNull(Null(reflect.TypeOf(&number))))
}

func TestUnmarshal_NullVersusAbsent(t *testing.T) {
	type Holder struct {
		Ptr   *int           `json:"ptr"`
		Items []string       `json:"items"`
		Pairs map[string]int `json:"pairs"`
		Any   interface{}    `json:"any"`
	}

	var explicit Holder
	err := Unmarshal([]byte(`{"ptr":null,"items":null,"pairs":null,"any":null}`), &explicit)
	assert.Nil(t, err)
	assert.True(t, IsNull(explicit.Ptr))
	assert.True(t, IsNull(explicit.Items))
	assert.True(t, IsNull(explicit.Pairs))
	assert.True(t, IsNull(explicit.Any))

	var absent Holder
	err = Unmarshal([]byte(`{}`), &absent)
	assert.Nil(t, err)
	assert.Nil(t, absent.Ptr)
	assert.False(t, IsNull(absent.Ptr))
	assert.Nil(t, absent.Items)
	assert.Nil(t, absent.Pairs)
	assert.Nil(t, absent.Any)
}

func TestUnmarshal_NullNotRepresentable(t *testing.T) {
	type Holder struct {
		Count int `json:"count"`
	}
	var actual Holder
	err := Unmarshal([]byte(`{"count":null}`), &actual)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "cannot represent a JSON null")
}
