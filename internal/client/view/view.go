// Package view derives the filtered, paginated table shown to the operator
// from a roster snapshot.
package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
)

// PageSizes are the page sizes the operator can pick from.
var PageSizes = []int{5, 10, 25}

const DefaultPageSize = 10

var ErrInvalidPageSize = errors.New("invalid page size")

// Params are the transient view parameters. Page is zero-based.
type Params struct {
	Term     string
	Page     int
	PageSize int
}

func DefaultParams() Params {
	return Params{PageSize: DefaultPageSize}
}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, v := range PageSizes {
		if v == n {
			return true
		}
	}
	return false
}

// Model owns the view parameters. It is not safe for concurrent use.
type Model struct {
	params Params
}

func NewModel(pageSize int) (*Model, error) {
	if !ValidPageSize(pageSize) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	return &Model{params: Params{PageSize: pageSize}}, nil
}

func (m *Model) Params() Params { return m.params }

// SetSearchTerm changes the term and goes back to the first page.
func (m *Model) SetSearchTerm(term string) {
	m.params.Term = term
	m.params.Page = 0
}

// SetPage moves to page; negative values clamp to the first page.
func (m *Model) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	m.params.Page = page
}

// SetPageSize changes the page size and goes back to the first page.
func (m *Model) SetPageSize(size int) error {
	if !ValidPageSize(size) {
		return fmt.Errorf("%w: %d (choose one of %v)", ErrInvalidPageSize, size, PageSizes)
	}
	m.params.PageSize = size
	m.params.Page = 0
	return nil
}

// Next advances one page unless p is already the last page.
func (m *Model) Next(p Projection) {
	if m.params.Page+1 < p.Pages {
		m.params.Page++
	}
}

func (m *Model) Prev() {
	if m.params.Page > 0 {
		m.params.Page--
	}
}

// Project applies p to roster for the model's current parameters.
func (m *Model) Project(roster []models.User) Projection {
	return Project(roster, m.params)
}

// Projection is one rendered page.
type Projection struct {
	Items    []models.User
	Total    int
	Page     int
	PageSize int
	Pages    int
}

func (p Projection) Empty() bool { return p.Total == 0 }

// Range is the 1-based label of the visible rows, like "11-20 of 42".
func (p Projection) Range() string {
	if len(p.Items) == 0 {
		return fmt.Sprintf("0 of %d", p.Total)
	}
	from := p.Page*p.PageSize + 1
	return fmt.Sprintf("%d-%d of %d", from, from+len(p.Items)-1, p.Total)
}

// Project filters roster by params.Term and cuts out params.Page. Roster
// order is preserved and every record appears at most once. A page past the
// end yields no items but still reports the filtered total.
func Project(roster []models.User, params Params) Projection {
	size := params.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := params.Page
	if page < 0 {
		page = 0
	}

	matched := Filter(roster, params.Term)
	total := len(matched)

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	items := make([]models.User, end-start)
	copy(items, matched[start:end])

	return Projection{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: size,
		Pages:    (total + size - 1) / size,
	}
}

// Filter keeps the records with term as a case-insensitive substring of
// their email, first name, last name, department or role.
func Filter(roster []models.User, term string) []models.User {
	needle := strings.ToLower(term)
	if needle == "" {
		return roster
	}

	out := make([]models.User, 0, len(roster))
	for _, u := range roster {
		if matches(u, needle) {
			out = append(out, u)
		}
	}
	return out
}

func matches(u models.User, needle string) bool {
	fields := [...]string{
		u.Email,
		u.FirstName,
		u.LastName,
		string(u.Department),
		string(u.Role),
		u.Role.Label(),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
