// Package pagination computes page metadata for paginated listings and the
// compressed page-index window shown by pagination controls.
package pagination

import (
	"encoding/json"
	"errors"
	"strconv"
)

// DefaultPageSize is the number of products returned per page.
const DefaultPageSize = 4

// maxFullWindow is the largest page count rendered without ellipses.
const maxFullWindow = 7

// Ellipsis marks a gap in the page window. It is never a navigable page.
const Ellipsis = "…"

var ErrInvalidPage = errors.New("page must be positive number")

// Meta describes one page of a listing.
type Meta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPage   int  `json:"totalPage"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	TotalItems  int  `json:"totalItems"`
}

// Validate rejects page numbers below 1.
func Validate(page int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	return nil
}

// Offset returns the number of items preceding the given 1-based page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// Compute builds the metadata for page out of totalItems. An empty listing has
// zero pages. Callers must Validate page first.
func Compute(page, pageSize, totalItems int) Meta {
	totalPage := 0
	if pageSize > 0 && totalItems > 0 {
		totalPage = (totalItems + pageSize - 1) / pageSize
	}

	return Meta{
		CurrentPage: page,
		TotalPage:   totalPage,
		HasNextPage: page < totalPage,
		HasPrevPage: page > 1,
		TotalItems:  totalItems,
	}
}

// Token is one entry of a page window: a page number or an ellipsis.
type Token struct {
	Page     int
	Ellipsis bool
}

// PageToken returns a navigable token for page.
func PageToken(page int) Token {
	return Token{Page: page}
}

// GapToken returns the ellipsis token.
func GapToken() Token {
	return Token{Ellipsis: true}
}

func (t Token) String() string {
	if t.Ellipsis {
		return Ellipsis
	}
	return strconv.Itoa(t.Page)
}

// MarshalJSON encodes pages as numbers and gaps as the ellipsis string.
func (t Token) MarshalJSON() ([]byte, error) {
	if t.Ellipsis {
		return json.Marshal(Ellipsis)
	}
	return json.Marshal(t.Page)
}

// UnmarshalJSON accepts either a page number or the ellipsis string.
func (t *Token) UnmarshalJSON(data []byte) error {
	var page int
	if err := json.Unmarshal(data, &page); err == nil {
		*t = PageToken(page)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != Ellipsis {
		return errors.New("pagination: unknown window token " + strconv.Quote(s))
	}
	*t = GapToken()
	return nil
}

// Window returns the page indices to render for currentPage out of totalPage.
// Up to seven pages are listed in full; beyond that the first and last pages
// are always present and the rest collapse around the current page.
func Window(currentPage, totalPage int) []Token {
	if totalPage <= maxFullWindow {
		tokens := make([]Token, 0, max(totalPage, 0))
		for i := 1; i <= totalPage; i++ {
			tokens = append(tokens, PageToken(i))
		}
		return tokens
	}

	tokens := []Token{PageToken(1)}

	switch {
	case currentPage <= 3:
		tokens = append(tokens,
			PageToken(2), PageToken(3), PageToken(4),
			GapToken(),
			PageToken(totalPage),
		)
	case currentPage > totalPage-2:
		tokens = append(tokens,
			GapToken(),
			PageToken(totalPage-3), PageToken(totalPage-2), PageToken(totalPage-1),
			PageToken(totalPage),
		)
	default:
		tokens = append(tokens,
			GapToken(),
			PageToken(currentPage-1), PageToken(currentPage), PageToken(currentPage+1),
			GapToken(),
			PageToken(totalPage),
		)
	}

	return tokens
}
