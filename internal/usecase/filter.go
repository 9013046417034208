package usecase

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/productfilter/backend/internal/domain"
)

// FilterProducts returns the products satisfying every criterion, in input order.
//
// Each predicate yields a bitmap of matching product positions and the
// bitmaps are intersected, so an unset criterion simply contributes nothing.
// Size tokens combine according to criteria.SizeMatch: with SizeMatchAll (the
// default) a product must offer every requested size, with SizeMatchAny one
// is enough.
func FilterProducts(products []domain.Product, criteria domain.FilterCriteria) []domain.Product {
	result := roaring.New()
	result.AddRange(0, uint64(len(products)))

	if criteria.MinPrice != nil {
		minPrice := *criteria.MinPrice
		result.And(positionsWhere(products, func(p domain.Product) bool {
			return p.Price.GreaterThanOrEqual(minPrice)
		}))
	}

	if criteria.MaxPrice != nil {
		maxPrice := *criteria.MaxPrice
		result.And(positionsWhere(products, func(p domain.Product) bool {
			return p.Price.LessThanOrEqual(maxPrice)
		}))
	}

	if len(criteria.SizeTokens) > 0 {
		index := buildSizeIndex(products)
		result.And(sizePositions(index, criteria.SizeTokens, criteria.SizeMatch))
	}

	filtered := make([]domain.Product, 0, result.GetCardinality())
	it := result.Iterator()
	for it.HasNext() {
		filtered = append(filtered, products[it.Next()])
	}
	return filtered
}

// positionsWhere returns the positions of the products matching pred
func positionsWhere(products []domain.Product, pred func(domain.Product) bool) *roaring.Bitmap {
	bm := roaring.New()
	for i, p := range products {
		if pred(p) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// buildSizeIndex maps each size token to the positions of the products offering it
func buildSizeIndex(products []domain.Product) map[string]*roaring.Bitmap {
	index := make(map[string]*roaring.Bitmap)
	for i, p := range products {
		for _, size := range p.Sizes {
			bm, ok := index[size]
			if !ok {
				bm = roaring.New()
				index[size] = bm
			}
			bm.Add(uint32(i))
		}
	}
	return index
}

// sizePositions combines the per-token bitmaps according to mode
func sizePositions(index map[string]*roaring.Bitmap, tokens []string, mode domain.SizeMatchMode) *roaring.Bitmap {
	bitmaps := make([]*roaring.Bitmap, 0, len(tokens))
	for _, token := range tokens {
		bm, ok := index[token]
		if !ok {
			if mode == domain.SizeMatchAny {
				continue
			}
			// nobody offers this size, so nobody offers all of them
			return roaring.New()
		}
		bitmaps = append(bitmaps, bm)
	}

	if len(bitmaps) == 0 {
		return roaring.New()
	}
	if mode == domain.SizeMatchAny {
		return roaring.FastOr(bitmaps...)
	}
	return roaring.FastAnd(bitmaps...)
}
