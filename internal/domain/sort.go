package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/iliaxp/LiberaryApplication/pkg/errors"
)

// SortOption selects how the library list is ordered.
type SortOption string

const (
	SortMostPopular  SortOption = "most_popular"
	SortTitle        SortOption = "title"
	SortPriceLowHigh SortOption = "price_asc"
	SortPriceHighLow SortOption = "price_desc"
	SortRating       SortOption = "rating"
)

// DefaultSortOption is applied to new sessions.
const DefaultSortOption = SortMostPopular

// SortOptions lists the options in menu order.
var SortOptions = []SortOption{
	SortMostPopular,
	SortTitle,
	SortPriceLowHigh,
	SortPriceHighLow,
	SortRating,
}

// Label is the menu text for the option.
func (o SortOption) Label() string {
	switch o {
	case SortMostPopular:
		return "Most Popular"
	case SortTitle:
		return "Title"
	case SortPriceLowHigh:
		return "Price: Low to High"
	case SortPriceHighLow:
		return "Price: High to Low"
	case SortRating:
		return "Rating"
	default:
		return string(o)
	}
}

// ParseSortOption accepts the option name in any case.
func ParseSortOption(s string) (SortOption, error) {
	o := SortOption(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortOptions {
		if o == known {
			return o, nil
		}
	}
	return "", apperrors.InvalidInput(fmt.Sprintf("unknown sort option %q", s))
}
