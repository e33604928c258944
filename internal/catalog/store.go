// Package catalog owns the book list and the library view filter: selected
// category, search query and sort option.
package catalog

import (
	"slices"
	"strings"

	"github.com/iliaxp/LiberaryApplication/internal/domain"
	"github.com/iliaxp/LiberaryApplication/internal/state"
)

// Filter is a snapshot of the library view settings.
type Filter struct {
	Category     *domain.Category  `json:"category"`
	Query        string            `json:"query"`
	SearchActive bool              `json:"search_active"`
	Sort         domain.SortOption `json:"sort"`
}

// Store holds the immutable book list and the observable view filter. It is
// not safe for concurrent mutation; callers serialize access per session.
type Store struct {
	books []domain.Book
	index map[string]int

	category     *state.Value[*domain.Category]
	query        *state.Value[string]
	searchActive *state.Value[bool]
	sortOption   *state.Value[domain.SortOption]
	filtered     *state.Value[[]domain.Book]
}

// NewStore creates a store over books with no filter applied.
func NewStore(books []domain.Book) *Store {
	books = slices.Clone(books)
	s := &Store{
		books:        books,
		index:        make(map[string]int, len(books)),
		category:     state.NewValue[*domain.Category](nil),
		query:        state.NewValue(""),
		searchActive: state.NewValue(false),
		sortOption:   state.NewValue(domain.DefaultSortOption),
		filtered:     state.NewValue(slices.Clone(books)),
	}
	for i, b := range books {
		if _, dup := s.index[b.ID]; !dup {
			s.index[b.ID] = i
		}
	}
	return s
}

// Books returns a copy of the full catalog in catalog order.
func (s *Store) Books() []domain.Book {
	return slices.Clone(s.books)
}

// BookByID looks a book up by id. Unknown ids report false.
func (s *Store) BookByID(id string) (domain.Book, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Book{}, false
	}
	return s.books[i], true
}

// SetCategory restricts the list to c. Nil and CategoryAll remove the restriction.
func (s *Store) SetCategory(c *domain.Category) {
	s.category.Set(domain.NormalizeFilter(c))
	s.recompute()
}

// SetSearchQuery sets the free-text query and recomputes the list.
func (s *Store) SetSearchQuery(q string) {
	s.query.Set(q)
	s.recompute()
}

// SetSearchActive toggles the search bar. Closing it clears the query.
func (s *Store) SetSearchActive(active bool) {
	s.searchActive.Set(active)
	if !active {
		s.query.Set("")
		s.recompute()
	}
}

// SetSortOption changes the ordering used by SortedBooks.
func (s *Store) SetSortOption(o domain.SortOption) {
	s.sortOption.Set(o)
}

// Filter returns the current view settings.
func (s *Store) Filter() Filter {
	return Filter{
		Category:     s.category.Get(),
		Query:        s.query.Get(),
		SearchActive: s.searchActive.Get(),
		Sort:         s.sortOption.Get(),
	}
}

// FilteredBooks returns the books passing the category and query filter, in
// catalog order.
func (s *Store) FilteredBooks() []domain.Book {
	return slices.Clone(s.filtered.Get())
}

// SortedBooks returns FilteredBooks ordered by the current sort option.
func (s *Store) SortedBooks() []domain.Book {
	return SortedView(s.filtered.Get(), s.sortOption.Get())
}

// Observables for renderers.

func (s *Store) Category() *state.Value[*domain.Category]    { return s.category }
func (s *Store) Query() *state.Value[string]                 { return s.query }
func (s *Store) SearchActive() *state.Value[bool]            { return s.searchActive }
func (s *Store) SortOption() *state.Value[domain.SortOption] { return s.sortOption }
func (s *Store) Filtered() *state.Value[[]domain.Book]       { return s.filtered }

func (s *Store) recompute() {
	s.filtered.Set(Apply(s.books, s.category.Get(), s.query.Get()))
}

// Apply returns the books matching category and query, keeping their order.
func Apply(books []domain.Book, category *domain.Category, query string) []domain.Book {
	category = domain.NormalizeFilter(category)
	q := strings.ToLower(query)

	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if category != nil && b.Category != *category {
			continue
		}
		if q != "" && !matches(b, q) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matches(b domain.Book, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(b.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(b.Description), lowerQuery) ||
		strings.Contains(strings.ToLower(b.Author), lowerQuery)
}
