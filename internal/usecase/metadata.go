package usecase

import (
	"regexp"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/productfilter/backend/internal/domain"
)

// Common-word window defaults: skip the 5 most frequent words, report the next 10
const (
	DefaultCommonWordsSkip = 5
	DefaultCommonWordsTake = 10
)

// wordRegex matches runs of word characters (letters, marks, digits, connectors)
var wordRegex = regexp.MustCompile(`[\p{L}\p{Mn}\p{Nd}\p{Pc}]+`)

// MetadataConfig holds configuration for the metadata generator
type MetadataConfig struct {
	CommonWordsSkip int
	CommonWordsTake int
}

// MetadataGenerator derives summary statistics from a filtered product set
type MetadataGenerator struct {
	skip int
	take int
}

// NewMetadataGenerator creates a new metadata generator. A zero config uses the
// default window.
func NewMetadataGenerator(config MetadataConfig) *MetadataGenerator {
	if config == (MetadataConfig{}) {
		config = MetadataConfig{
			CommonWordsSkip: DefaultCommonWordsSkip,
			CommonWordsTake: DefaultCommonWordsTake,
		}
	}
	if config.CommonWordsSkip < 0 {
		config.CommonWordsSkip = 0
	}
	if config.CommonWordsTake <= 0 {
		config.CommonWordsTake = DefaultCommonWordsTake
	}

	return &MetadataGenerator{
		skip: config.CommonWordsSkip,
		take: config.CommonWordsTake,
	}
}

// Summarize computes price bounds, distinct sizes and the common-word window.
// An empty set has no price bounds: it returns EmptyMetadata with ErrEmptySet.
func (g *MetadataGenerator) Summarize(products []domain.Product) (domain.FilterMetadata, error) {
	if len(products) == 0 {
		return domain.EmptyMetadata(), domain.ErrEmptySet
	}

	minPrice := products[0].Price
	maxPrice := products[0].Price
	for _, p := range products[1:] {
		if p.Price.LessThan(minPrice) {
			minPrice = p.Price
		}
		if p.Price.GreaterThan(maxPrice) {
			maxPrice = p.Price
		}
	}

	return domain.FilterMetadata{
		MinPrice:    &minPrice,
		MaxPrice:    &maxPrice,
		Sizes:       distinctSizes(products),
		CommonWords: window(rankWords(products), g.skip, g.take),
	}, nil
}

// distinctSizes lists every size offered across products, in first-seen order
func distinctSizes(products []domain.Product) []string {
	seen := make(map[string]bool)
	sizes := []string{}
	for _, p := range products {
		for _, size := range p.Sizes {
			if !seen[size] {
				seen[size] = true
				sizes = append(sizes, size)
			}
		}
	}
	return sizes
}

// rankWords counts lower-cased description words across all products and
// returns them by descending count. Equal counts are ordered lexicographically.
func rankWords(products []domain.Product) []string {
	lower := cases.Lower(language.Und)
	counts := make(map[string]int)

	for _, p := range products {
		if p.Description == nil {
			continue
		}
		for _, word := range wordRegex.FindAllString(lower.String(*p.Description), -1) {
			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	return words
}

// window returns ranked[skip:skip+take], clamped to the slice bounds
func window(ranked []string, skip, take int) []string {
	if skip >= len(ranked) {
		return []string{}
	}
	end := skip + take
	if end > len(ranked) {
		end = len(ranked)
	}
	result := make([]string, end-skip)
	copy(result, ranked[skip:end])
	return result
}
