package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/iliaxp/LiberaryApplication/pkg/errors"
	"github.com/iliaxp/LiberaryApplication/pkg/slug"
)

// Category is the closed set of book genres.
type Category string

const (
	// CategoryAll is a filter sentinel meaning "no restriction". No book carries it.
	CategoryAll            Category = "all"
	CategoryScience        Category = "science"
	CategoryFiction        Category = "fiction"
	CategoryHorror         Category = "horror"
	CategoryHistory        Category = "history"
	CategoryRomance        Category = "romance"
	CategoryDrama          Category = "drama"
	CategoryFantasy        Category = "fantasy"
	CategoryScienceFiction Category = "science_fiction"
)

// Categories lists every category in declaration order, CategoryAll first.
var Categories = []Category{
	CategoryAll,
	CategoryScience,
	CategoryFiction,
	CategoryHorror,
	CategoryHistory,
	CategoryRomance,
	CategoryDrama,
	CategoryFantasy,
	CategoryScienceFiction,
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label is the display name: "science_fiction" -> "Science fiction".
func (c Category) Label() string {
	s := strings.ReplaceAll(string(c), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Slug is the URL form: "science_fiction" -> "science-fiction".
func (c Category) Slug() string {
	return slug.Generate(string(c))
}

// ParseCategory accepts the enum name, the slug or the label, ignoring case.
func ParseCategory(s string) (Category, error) {
	want := slug.Generate(strings.TrimSpace(s))
	for _, c := range Categories {
		if c.Slug() == want {
			return c, nil
		}
	}
	return "", apperrors.InvalidInput(fmt.Sprintf("unknown category %q", s))
}

// NormalizeFilter maps CategoryAll to nil so both mean "no restriction".
func NormalizeFilter(c *Category) *Category {
	if c == nil || *c == CategoryAll {
		return nil
	}
	v := *c
	return &v
}
