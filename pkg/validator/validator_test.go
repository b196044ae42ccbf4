package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productInput struct {
	Name     string `json:"name" validate:"required"`
	SKU      string `json:"sku" validate:"required,sku"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

func TestValidateStruct(t *testing.T) {
	assert.Empty(t, ValidateStruct(productInput{Name: "Widget", SKU: "ABC", Color: "#3b82f6"}))

	t.Run("short sku after trim", func(t *testing.T) {
		errs := ValidateStruct(productInput{Name: "Widget", SKU: "  AB  "})
		require.Len(t, errs, 1)
		assert.Equal(t, "sku", errs[0].FailedField)
		assert.Equal(t, "sku", errs[0].Tag)
		assert.Equal(t, "SKU must be at least 3 characters", errs[0].Message())
	})

	t.Run("json field names", func(t *testing.T) {
		errs := ValidateStruct(productInput{SKU: "ABC", Quantity: -1, Color: "blue"})
		require.Len(t, errs, 3)
		fields := []string{errs[0].FailedField, errs[1].FailedField, errs[2].FailedField}
		assert.ElementsMatch(t, []string{"name", "quantity", "color"}, fields)
	})

	t.Run("messages", func(t *testing.T) {
		errs := ValidateStruct(productInput{SKU: "ABC"})
		require.Len(t, errs, 1)
		assert.Equal(t, "name is required", errs[0].Message())
	})
}
