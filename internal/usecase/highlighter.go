package usecase

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/productfilter/backend/internal/domain"
)

// ParseHighlightTerms splits a comma-separated term list, trimming entries and dropping empties
func ParseHighlightTerms(raw string) []string {
	return domain.SplitCommaList(raw)
}

// highlighter finds whole-word, case-insensitive occurrences of a term list.
// RE2's \b only knows ASCII word characters, so boundaries are checked on the
// surrounding runes with the same word-character classes the metadata
// tokenizer uses.
type highlighter struct {
	// find matches any term and locates candidate positions
	find *regexp.Regexp
	// anchored holds one ^-anchored pattern per term, longest term first
	anchored []*regexp.Regexp
}

// buildHighlighter compiles the term list. Terms are quoted so they always
// match literally.
func buildHighlighter(terms []string) (*highlighter, error) {
	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, len(sorted))
	anchored := make([]*regexp.Regexp, len(sorted))
	for i, term := range sorted {
		quoted[i] = regexp.QuoteMeta(term)
		re, err := regexp.Compile(`^(?i:` + quoted[i] + `)`)
		if err != nil {
			return nil, err
		}
		anchored[i] = re
	}

	find, err := regexp.Compile(`(?i:` + strings.Join(quoted, "|") + `)`)
	if err != nil {
		return nil, err
	}
	return &highlighter{find: find, anchored: anchored}, nil
}

// apply wraps every whole-word match in text with <em></em>
func (h *highlighter) apply(text string) string {
	var b strings.Builder
	last, pos := 0, 0

	for pos < len(text) {
		loc := h.find.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]

		if end, ok := h.wholeWordAt(text, start); ok {
			b.WriteString(text[last:start])
			b.WriteString("<em>")
			b.WriteString(text[start:end])
			b.WriteString("</em>")
			last, pos = end, end
			continue
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}

	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// wholeWordAt returns the end of the longest term matching at start with a
// word boundary on both sides.
func (h *highlighter) wholeWordAt(text string, start int) (int, bool) {
	if !isWordBoundary(text, start) {
		return 0, false
	}
	for _, re := range h.anchored {
		loc := re.FindStringIndex(text[start:])
		if loc == nil || loc[1] == 0 {
			continue
		}
		if end := start + loc[1]; isWordBoundary(text, end) {
			return end, true
		}
	}
	return 0, false
}

// isWordBoundary reports whether the runes on either side of byte offset i
// differ in being word characters. Text edges count as non-word.
func isWordBoundary(text string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWordRune(r)
	}
	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = isWordRune(r)
	}
	return before != after
}

// isWordRune matches the classes of wordRegex
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) || unicode.IsDigit(r) || unicode.Is(unicode.Pc, r)
}

// HighlightProducts wraps every whole-word, case-insensitive occurrence of the
// requested terms in product descriptions with <em></em>, keeping the matched
// casing. With no usable terms, or a term list too large to compile, the input
// slice is returned as is. Otherwise each product is copied and only its
// description differs.
func HighlightProducts(products []domain.Product, rawTerms string) []domain.Product {
	terms := ParseHighlightTerms(rawTerms)
	if len(terms) == 0 {
		return products
	}

	h, err := buildHighlighter(terms)
	if err != nil {
		// only reachable when the term list is too large to compile
		return products
	}

	highlighted := make([]domain.Product, len(products))
	for i, p := range products {
		highlighted[i] = p
		if p.Description == nil {
			continue
		}
		description := h.apply(*p.Description)
		highlighted[i].Description = &description
	}
	return highlighted
}
