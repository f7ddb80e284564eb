package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStockOperation(t *testing.T) {
	tests := []struct {
		input       string
		expected    StockOperation
		expectError bool
	}{
		{input: "+", expected: StockAdd},
		{input: "-", expected: StockSubtract},
		{input: "", expectError: true},
		{input: "add", expectError: true},
		{input: "*", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			op, err := ParseStockOperation(tt.input)

			if tt.expectError {
				assert.ErrorIs(t, err, ErrUnknownStockOperation)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, op)
			assert.Equal(t, tt.input, op.String())
		})
	}
}

func TestStockOperation_JSON(t *testing.T) {
	data, err := json.Marshal(StockSubtract)
	require.NoError(t, err)
	assert.JSONEq(t, `"-"`, string(data))

	var op StockOperation
	require.NoError(t, json.Unmarshal([]byte(`"+"`), &op))
	assert.Equal(t, StockAdd, op)

	err = json.Unmarshal([]byte(`"x"`), &op)
	assert.ErrorIs(t, err, ErrUnknownStockOperation)

	_, err = json.Marshal(StockOperation('x'))
	assert.Error(t, err)
}
