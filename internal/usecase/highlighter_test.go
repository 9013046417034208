package usecase

import (
	"strings"
	"testing"

	"github.com/productfilter/backend/internal/domain"
)

func describedProduct(description string) domain.Product {
	p := product("item", "1", "medium")
	p.Description = strPtr(description)
	return p
}

func TestParseHighlightTerms(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "whitespace only", raw: "   ", want: nil},
		{name: "only commas", raw: " , ,, ", want: []string{}},
		{name: "single term", raw: "blue", want: []string{"blue"}},
		{name: "trims and drops empties", raw: " blue , ,green,", want: []string{"blue", "green"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseHighlightTerms(tc.raw)
			if !equalStrings(got, tc.want) {
				t.Errorf("ParseHighlightTerms(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestHighlightProducts(t *testing.T) {
	testCases := []struct {
		name        string
		description string
		terms       string
		want        string
	}{
		{
			name:        "single term",
			description: "A blue shirt",
			terms:       "blue",
			want:        "A <em>blue</em> shirt",
		},
		{
			name:        "preserves original casing",
			description: "Blue shirt, BLUE trim",
			terms:       "blue",
			want:        "<em>Blue</em> shirt, <em>BLUE</em> trim",
		},
		{
			name:        "multiple terms",
			description: "This trouser perfectly pairs with a green shirt.",
			terms:       "green,shirt",
			want:        "This trouser perfectly pairs with a <em>green</em> <em>shirt</em>.",
		},
		{
			name:        "whole words only",
			description: "bluegrass and blue and skyblue",
			terms:       "blue",
			want:        "bluegrass and <em>blue</em> and skyblue",
		},
		{
			name:        "terms are trimmed",
			description: "A blue shirt",
			terms:       "  shirt  , ",
			want:        "A blue <em>shirt</em>",
		},
		{
			name:        "metacharacters match literally",
			description: "size 1.5 and 105",
			terms:       "1.5",
			want:        "size <em>1.5</em> and 105",
		},
		{
			name:        "alternation syntax is not interpreted",
			description: "red or blue",
			terms:       "red|blue",
			want:        "red or blue",
		},
		{
			name:        "wildcard syntax is not interpreted",
			description: "anything goes",
			terms:       ".*",
			want:        "anything goes",
		},
		{
			name:        "term ending in a non-ASCII letter",
			description: "Un café noir",
			terms:       "café",
			want:        "Un <em>café</em> noir",
		},
		{
			name:        "non-ASCII letters are case-folded",
			description: "CAFÉ au lait",
			terms:       "café",
			want:        "<em>CAFÉ</em> au lait",
		},
		{
			name:        "non-ASCII letter before the term joins the word",
			description: "éblue shirt",
			terms:       "blue",
			want:        "éblue shirt",
		},
		{
			name:        "non-ASCII letter after the term joins the word",
			description: "blueé and blue",
			terms:       "blue",
			want:        "blueé and <em>blue</em>",
		},
		{
			name:        "shorter term matches where the longer one is not a whole word",
			description: "blue shirts",
			terms:       "blue shirt,blue",
			want:        "<em>blue</em> shirts",
		},
		{
			name:        "longer term wins when both are whole words",
			description: "blue shirt",
			terms:       "blue,blue shirt",
			want:        "<em>blue shirt</em>",
		},
		{
			name:        "no match leaves text alone",
			description: "A blue shirt",
			terms:       "green",
			want:        "A blue shirt",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := HighlightProducts([]domain.Product{describedProduct(tc.description)}, tc.terms)
			if len(got) != 1 {
				t.Fatalf("len = %d, want 1", len(got))
			}
			if *got[0].Description != tc.want {
				t.Errorf("description = %q, want %q", *got[0].Description, tc.want)
			}
		})
	}
}

func TestHighlightProducts_OnlyDescriptionChanges(t *testing.T) {
	original := describedProduct("A blue shirt")
	products := []domain.Product{original}

	got := HighlightProducts(products, "blue")

	if !strings.Contains(*got[0].Description, "<em>blue</em>") {
		t.Errorf("description = %q, want to contain <em>blue</em>", *got[0].Description)
	}
	if *products[0].Description != "A blue shirt" {
		t.Errorf("input description changed to %q", *products[0].Description)
	}
	if got[0].Title != original.Title || !got[0].Price.Equal(original.Price) || !equalStrings(got[0].Sizes, original.Sizes) {
		t.Errorf("non-description fields changed: %+v", got[0])
	}
}

func TestHighlightProducts_EmptyTermsReturnInput(t *testing.T) {
	products := []domain.Product{describedProduct("A blue shirt"), describedProduct("Green <b>hat</b>")}

	for _, terms := range []string{"", "   ", ",", " , , "} {
		got := HighlightProducts(products, terms)
		if &got[0] != &products[0] {
			t.Errorf("terms %q: expected the input slice back", terms)
		}
		for i := range products {
			if *got[i].Description != *products[i].Description {
				t.Errorf("terms %q: description = %q, want %q", terms, *got[i].Description, *products[i].Description)
			}
		}
	}
}

func TestHighlightProducts_NilDescription(t *testing.T) {
	products := []domain.Product{product("plain", "5", "small")}

	got := HighlightProducts(products, "plain")

	if got[0].Description != nil {
		t.Errorf("description = %q, want nil", *got[0].Description)
	}
}

func TestIsWordBoundary(t *testing.T) {
	testCases := []struct {
		text string
		at   int
		want bool
	}{
		{text: "blue", at: 0, want: true},
		{text: "blue", at: 4, want: true},
		{text: "blue", at: 2, want: false},
		{text: "éblue", at: len("é"), want: false},
		{text: "a b", at: 1, want: true},
		{text: "a  b", at: 2, want: false},
		{text: "", at: 0, want: false},
	}

	for _, tc := range testCases {
		if got := isWordBoundary(tc.text, tc.at); got != tc.want {
			t.Errorf("isWordBoundary(%q, %d) = %v, want %v", tc.text, tc.at, got, tc.want)
		}
	}
}

func TestHighlightAgreesWithWordRanking(t *testing.T) {
	description := "éblue café blue"

	words := rankWords([]domain.Product{describedProduct(description)})
	for _, w := range []string{"éblue", "café", "blue"} {
		found := false
		for _, got := range words {
			found = found || got == w
		}
		if !found {
			t.Fatalf("rankWords() = %v, missing %q", words, w)
		}
	}

	got := HighlightProducts([]domain.Product{describedProduct(description)}, "blue,café")
	want := "éblue <em>café</em> <em>blue</em>"
	if *got[0].Description != want {
		t.Errorf("description = %q, want %q", *got[0].Description, want)
	}
}
