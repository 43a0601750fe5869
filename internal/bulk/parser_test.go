package bulk

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParseWithHeader(t *testing.T) {
	csv := "name,description,price,quantity,imageUrl\n" +
		"Rice,Long grain rice,4.50,100,https://img.grocery.dev/rice.jpg\n" +
		"Basmati,Aged basmati,5.10,90,https://img.grocery.dev/basmati.jpg\n"

	inputs, err := NewParser(10000).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	assert.Equal(t, "Rice", inputs[0].Name)
	assert.True(t, inputs[0].Price.Equal(decimal.NewFromFloat(4.50)))
	assert.Equal(t, 100, inputs[0].Quantity)
	assert.Equal(t, "https://img.grocery.dev/rice.jpg", inputs[0].ImageURL)

	assert.Equal(t, "Basmati", inputs[1].Name)
	assert.Equal(t, 90, inputs[1].Quantity)
}

func TestParseWithoutHeader(t *testing.T) {
	csv := "Rice,Long grain rice,4.50,100\n"

	inputs, err := NewParser(10000).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Empty(t, inputs[0].ImageURL)
}

func TestParseRejectsBatchOnPriceCeiling(t *testing.T) {
	csv := "name,description,price,quantity\n" +
		"Rice,Fine,4.50,100\n" +
		"Caviar,Too dear,15000,5\n"

	inputs, err := NewParser(10000).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Nil(t, inputs)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "ceiling")
}

func TestParseAggregatesRowErrors(t *testing.T) {
	csv := ",missing name,4.50,100\n" +
		"Rice,bad price,abc,100\n" +
		"Beans,negative,2.00,-5\n"

	_, err := NewParser(10000).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestParseRejectsMissingDescription(t *testing.T) {
	csv := "Rice,,4.50,100\n"

	_, err := NewParser(10000).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description is required")
}

func TestParseMalformedNumericsDefaultToZero(t *testing.T) {
	csv := "Rice,ok,4.50,not-a-number\n"

	inputs, err := NewParser(10000).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, 0, inputs[0].Quantity)
}

func TestParseEmptyFile(t *testing.T) {
	_, err := NewParser(10000).Parse(strings.NewReader(""))
	require.Error(t, err)

	_, err = NewParser(10000).Parse(strings.NewReader("name,description,price,quantity\n"))
	require.Error(t, err)
}

func TestParseShortRow(t *testing.T) {
	_, err := NewParser(10000).Parse(strings.NewReader("Rice,only-two\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns")
}
