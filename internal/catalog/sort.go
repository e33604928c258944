package catalog

import (
	"sort"

	"github.com/iliaxp/LiberaryApplication/internal/domain"
)

// SortedView returns a sorted copy of books. The sort is stable, so books that
// compare equal keep their catalog order. Unknown options return catalog order.
func SortedView(books []domain.Book, option domain.SortOption) []domain.Book {
	out := make([]domain.Book, len(books))
	copy(out, books)

	var less func(a, b domain.Book) bool
	switch option {
	case domain.SortMostPopular, domain.SortRating:
		less = func(a, b domain.Book) bool { return a.Rating > b.Rating }
	case domain.SortTitle:
		less = func(a, b domain.Book) bool { return a.Name < b.Name }
	case domain.SortPriceLowHigh:
		less = func(a, b domain.Book) bool { return a.Price < b.Price }
	case domain.SortPriceHighLow:
		less = func(a, b domain.Book) bool { return a.Price > b.Price }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
