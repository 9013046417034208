package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizeMatchMode(t *testing.T) {
	tests := []struct {
		raw     string
		want    SizeMatchMode
		wantErr bool
	}{
		{raw: "", want: SizeMatchAll},
		{raw: "all", want: SizeMatchAll},
		{raw: " ALL ", want: SizeMatchAll},
		{raw: "any", want: SizeMatchAny},
		{raw: "Any", want: SizeMatchAny},
		{raw: "or", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSizeMatchMode(tt.raw)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSizeTokens(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "blank", raw: "  ", want: nil},
		{name: "single", raw: "medium", want: []string{"medium"}},
		{name: "trimmed", raw: " small , medium ", want: []string{"small", "medium"}},
		{name: "empty entries dropped", raw: "small,,large,", want: []string{"small", "large"}},
		{name: "case is kept", raw: "Small", want: []string{"Small"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSizeTokens(tt.raw))
		})
	}
}

func TestProduct_HasSize(t *testing.T) {
	p := Product{Sizes: []string{"small", "medium"}}

	assert.True(t, p.HasSize("small"))
	assert.False(t, p.HasSize("Small"))
	assert.False(t, Product{}.HasSize("small"))
}

func TestProduct_JSON(t *testing.T) {
	title := "A Red Trouser"
	p := Product{
		Title: &title,
		Price: decimal.RequireFromString("10.50"),
		Sizes: []string{"small"},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"A Red Trouser","price":10.5,"sizes":["small"],"description":null}`, string(data))

	var decoded Product
	require.NoError(t, json.Unmarshal([]byte(`{"title":null,"price":19.99,"sizes":null,"description":"x"}`), &decoded))
	assert.Nil(t, decoded.Title)
	assert.True(t, decoded.Price.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, "x", *decoded.Description)
}

func TestEmptyMetadata_JSON(t *testing.T) {
	data, err := json.Marshal(EmptyMetadata())

	require.NoError(t, err)
	assert.JSONEq(t, `{"minPrice":null,"maxPrice":null,"sizes":[],"commonWords":[]}`, string(data))
}

func TestFilteredResponse_OmitsEmptyWarnings(t *testing.T) {
	data, err := json.Marshal(FilteredResponse{Products: []Product{}, Filter: EmptyMetadata()})

	require.NoError(t, err)
	assert.NotContains(t, string(data), "warnings")
}
