package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a single catalog item as delivered by the upstream source
type Product struct {
	Title       *string         `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Sizes       []string        `json:"sizes"`
	Description *string         `json:"description"`
}

// HasSize reports whether the product offers the given size token (exact match)
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Credential is the pair of secrets the upstream source ships alongside its catalog
type Credential struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Catalog is the decoded upstream payload
type Catalog struct {
	Products []Product   `json:"products"`
	APIKeys  *Credential `json:"apiKeys"`
}

// FetchResult is what a single fetch produces. CredentialsValid carries the
// outcome of the credential check for this call only.
type FetchResult struct {
	Catalog          Catalog
	CredentialsValid bool
}

// SizeMatchMode controls how multiple size tokens combine
type SizeMatchMode string

const (
	// SizeMatchAll keeps a product only if it offers every requested size
	SizeMatchAll SizeMatchMode = "all"
	// SizeMatchAny keeps a product if it offers at least one requested size
	SizeMatchAny SizeMatchMode = "any"
)

// ParseSizeMatchMode converts a query value to a SizeMatchMode. Empty input means SizeMatchAll.
func ParseSizeMatchMode(raw string) (SizeMatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(SizeMatchAll):
		return SizeMatchAll, nil
	case string(SizeMatchAny):
		return SizeMatchAny, nil
	default:
		return "", ErrInvalidRequest
	}
}

// FilterCriteria holds the per-request filter constraints. Nil bounds and an
// empty token list mean "no constraint".
type FilterCriteria struct {
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SizeTokens []string
	SizeMatch  SizeMatchMode
}

// ParseSizeTokens splits a comma-separated size list, trimming entries and dropping empties
func ParseSizeTokens(raw string) []string {
	return SplitCommaList(raw)
}

// SplitCommaList splits on commas, trims each entry and drops the empty ones
func SplitCommaList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// FilterMetadata summarizes a filtered product set. MinPrice and MaxPrice are
// nil when the set was empty.
type FilterMetadata struct {
	MinPrice    *decimal.Decimal `json:"minPrice"`
	MaxPrice    *decimal.Decimal `json:"maxPrice"`
	Sizes       []string         `json:"sizes"`
	CommonWords []string         `json:"commonWords"`
}

// EmptyMetadata is the explicit "no data" summary returned for an empty set
func EmptyMetadata() FilterMetadata {
	return FilterMetadata{
		Sizes:       []string{},
		CommonWords: []string{},
	}
}

// FilteredResponse is the result handed back across the service boundary
type FilteredResponse struct {
	Products []Product      `json:"products"`
	Filter   FilterMetadata `json:"filter"`
	Warnings []string       `json:"warnings,omitempty"`
}
