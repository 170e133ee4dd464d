package book

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook_PriceBounds(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		valid bool
	}{
		{"零", 0, true},
		{"一分", 0.01, true},
		{"两位小数", 19.99, true},
		{"上限", MaxPrice, true},
		{"三位小数", 19.999, false},
		{"超过上限", MaxPrice + 0.01, false},
		{"负数", -0.01, false},
		{"NaN", math.NaN(), false},
		{"正无穷", math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBook("Dune", "Frank Herbert", "", tt.price, 1)
			if !tt.valid {
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.price, b.Price)
		})
	}
}

func TestSearchCriteria_Validate(t *testing.T) {
	negative, inverted, nan, inf := -5.0, 1.0, math.NaN(), math.Inf(-1)
	ten := 10.0

	assert.NoError(t, SearchCriteria{}.Validate())
	assert.NoError(t, SearchCriteria{MinPrice: &negative}.Validate())
	assert.NoError(t, SearchCriteria{MinPrice: &ten, MaxPrice: &inverted}.Validate())
	assert.ErrorIs(t, SearchCriteria{MinPrice: &nan}.Validate(), ErrInvalidSearchPrice)
	assert.ErrorIs(t, SearchCriteria{MaxPrice: &inf}.Validate(), ErrInvalidSearchPrice)
}

func TestSearchCriteria_Matches(t *testing.T) {
	b := &Book{Title: "Dear", Author: "Someone", Price: 50}
	padded, exact := " Dear ", "Dear"
	lo, hi := 60.0, 40.0

	assert.True(t, SearchCriteria{Title: &exact}.Matches(b))
	assert.False(t, SearchCriteria{Title: &padded}.Matches(b))
	assert.False(t, SearchCriteria{MinPrice: &lo, MaxPrice: &hi}.Matches(b))
}
