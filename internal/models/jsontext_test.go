package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientList_RoundTrip(t *testing.T) {
	in := IngredientList{
		{Item: "flour", Amount: "2", Unit: "cups"},
		{Item: "milk", Amount: "1.5", Unit: "cups"},
		{Item: "salt", Amount: "a pinch"},
	}

	v, err := in.Value()
	require.NoError(t, err)

	var out IngredientList
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestParsers_DegradeToEmptyList(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"nil", nil},
		{"empty string", ""},
		{"not json", "flour, sugar"},
		{"wrong shape", `{"item":"flour"}`},
		{"bytes garbage", []byte("[{")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ingredients IngredientList
			require.NoError(t, ingredients.Scan(tt.value))
			assert.NotNil(t, ingredients)
			assert.Empty(t, ingredients)

			var tags StringList
			require.NoError(t, tags.Scan(tt.value))
			assert.NotNil(t, tags)
			assert.Empty(t, tags)

			var steps InstructionList
			require.NoError(t, steps.Scan(tt.value))
			assert.Empty(t, steps)

			var dims DimensionList
			require.NoError(t, dims.Scan(tt.value))
			assert.Empty(t, dims)
		})
	}
}

func TestParseInstructions_AcceptsObjects(t *testing.T) {
	got := ParseInstructions(`["Whisk eggs", {"step": 2, "text": "Fold in flour"}, 42]`)
	assert.Equal(t, InstructionList{"Whisk eggs", "Fold in flour", ""}, got)
}

func TestNilListsSerializeAsEmptyArray(t *testing.T) {
	var tags StringList
	v, err := tags.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestDimensionList_String(t *testing.T) {
	dims := DimensionList{{Width: 300, Height: 250}, {Width: 336, Height: 280}}
	assert.Equal(t, "300x250 / 336x280", dims.String())
}
