package conv

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	var testCases = []struct {
		description string
		literal     Number
		expectInt   int64
		expectErr   bool
	}{
		{
			description: "plain integer",
			literal:     "42",
			expectInt:   42,
		},
		{
			description: "negative integer",
			literal:     "-7",
			expectInt:   -7,
		},
		{
			description: "fractional literal fails as integer",
			literal:     "1.5",
			expectErr:   true,
		},
		{
			description: "overflow fails",
			literal:     "92233720368547758080",
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		actual, err := testCase.literal.Int64()
		if testCase.expectErr {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		assert.Nil(t, err, testCase.description)
		assert.EqualValues(t, testCase.expectInt, actual, testCase.description)
	}
}

func TestNumber_Big(t *testing.T) {
	literal := Number("123456789012345678901234567890")
	value, err := literal.BigInt()
	assert.Nil(t, err)
	assert.EqualValues(t, "123456789012345678901234567890", value.String())

	decimal, err := Number("3.14").BigFloat()
	assert.Nil(t, err)
	assert.EqualValues(t, "3.14", FormatBigFloat(decimal))
}

func TestParseUint(t *testing.T) {
	value, err := ParseUint("18446744073709551615", 64)
	assert.Nil(t, err)
	assert.EqualValues(t, uint64(math.MaxUint64), value)

	_, err = ParseUint("-1", 64)
	assert.NotNil(t, err)
}

func TestParseBool(t *testing.T) {
	value, err := ParseBool("true")
	assert.Nil(t, err)
	assert.True(t, value)

	_, err = ParseBool("yes")
	assert.NotNil(t, err)
}

func TestFormatFloat(t *testing.T) {
	var testCases = []struct {
		description string
		value       float64
		expect      string
		expectErr   bool
	}{
		{
			description: "plain float",
			value:       1.5,
			expect:      "1.5",
		},
		{
			description: "integral float",
			value:       3,
			expect:      "3",
		},
		{
			description: "NaN has no literal",
			value:       math.NaN(),
			expectErr:   true,
		},
		{
			description: "infinity has no literal",
			value:       math.Inf(1),
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		actual, err := FormatFloat(testCase.value, 64)
		if testCase.expectErr {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		assert.Nil(t, err, testCase.description)
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestParseTime(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      time.Time
	}{
		{
			description: "RFC 3339",
			input:       "2024-03-01T10:30:00Z",
			expect:      time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, testCase := range testCases {
		actual, err := ParseTime(testCase.input)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.True(t, testCase.expect.Equal(actual), testCase.description)
	}

	plain, err := ParseTime("2024-03-01")
	if assert.Nil(t, err) {
		year, month, day := plain.Date()
		assert.EqualValues(t, 2024, year)
		assert.EqualValues(t, time.March, month)
		assert.EqualValues(t, 1, day)
	}

	_, err = ParseTime("not a time")
	assert.NotNil(t, err)
}

func TestFormatTime(t *testing.T) {
	value := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	assert.EqualValues(t, "2024-03-01T10:30:00Z", FormatTime(value))
}
