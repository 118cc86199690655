package itemtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuotingVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"double quoted", `[{"productId": "p1", "quantity": 2, "priceAtPurchase": 9.99}]`},
		{"single quoted", `[{'productId': 'p1', 'quantity': 2, 'priceAtPurchase': 9.99}]`},
		{"unquoted keys", `[{productId: "p1", quantity: 2, priceAtPurchase: 9.99}]`},
		{"mixed quoting", `[{productId: 'p1', "quantity": 2, priceAtPurchase: 9.99}]`},
		{"extra whitespace", ` [ { productId : "p1" , quantity : 2 , priceAtPurchase : 9.99 } ] `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Parse(tt.input)
			require.NoError(t, err)

			list, ok := value.([]interface{})
			require.True(t, ok, "top-level value should be a list")
			require.Len(t, list, 1)

			item, ok := list[0].(map[string]interface{})
			require.True(t, ok, "list element should be an object")
			assert.Equal(t, "p1", item["productId"])
			assert.Equal(t, float64(2), item["quantity"])
			assert.Equal(t, 9.99, item["priceAtPurchase"])
		})
	}
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  interface{}
	}{
		{"integer", "42", float64(42)},
		{"negative decimal", "-3.5", -3.5},
		{"double quoted string", `"hello"`, "hello"},
		{"single quoted string", `'hello'`, "hello"},
		{"bare identifier", "pending", "pending"},
		{"escaped quote", `"say \"hi\""`, `say "hi"`},
		{"empty list", "[]", []interface{}{}},
		{"empty object", "{}", map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestParseMultipleItems(t *testing.T) {
	input := `[{productId: 'a', quantity: 1, priceAtPurchase: 10},
		{productId: 'b', quantity: 3, priceAtPurchase: 0.5}]`

	value, err := Parse(input)
	require.NoError(t, err)

	list, ok := value.([]interface{})
	require.True(t, ok)
	require.Len(t, list, 2)

	second, ok := list[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "b", second["productId"])
	assert.Equal(t, float64(3), second["quantity"])
	assert.Equal(t, 0.5, second["priceAtPurchase"])
}

func TestParseNestedValues(t *testing.T) {
	value, err := Parse(`{outer: {inner: [1, 2]}, label: note_1}`)
	require.NoError(t, err)

	object, ok := value.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "note_1", object["label"])

	outer, ok := object["outer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{float64(1), float64(2)}, outer["inner"])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"unterminated list", `[{productId: "p1"}`},
		{"unterminated string", `["abc]`},
		{"missing colon", `{productId "p1"}`},
		{"missing value", `{productId: }`},
		{"bare dash", `[-]`},
		{"dangling decimal point", `{quantity: 3.}`},
		{"trailing garbage", `[] []`},
		{"unexpected character", `[{productId: @}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}
}

func TestParseNonListTopLevel(t *testing.T) {
	// A well-formed object still parses; deciding that the top-level value
	// must be a list is the pipeline's job, not the parser's.
	value, err := Parse(`{productId: "p1"}`)
	require.NoError(t, err)

	_, ok := value.(map[string]interface{})
	assert.True(t, ok)
}
