package market

import "strconv"

// buttonWindow is the number of numbered page buttons shown at once.
const buttonWindow = 5

// Paginator splits a record set into fixed-size pages.
type Paginator struct {
	PerPage int
	Page    int // 1-based
}

// NewPaginator creates a Paginator on page 1.
func NewPaginator(perPage int) Paginator {
	if perPage <= 0 {
		perPage = 10
	}
	return Paginator{PerPage: perPage, Page: 1}
}

// TotalPages returns ceil(n / PerPage), and at least 1 so an empty set still
// has a current page.
func (p Paginator) TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + p.PerPage - 1) / p.PerPage
}

// SetPage moves to page number page. Requests outside [1, TotalPages] are
// rejected; the return value reports whether the page changed.
func (p *Paginator) SetPage(page, n int) bool {
	if page < 1 || page > p.TotalPages(n) {
		return false
	}
	p.Page = page
	return true
}

// Slice returns the records of the current page.
func (p Paginator) Slice(records []Record) []Record {
	start := (p.Page - 1) * p.PerPage
	if start >= len(records) {
		return nil
	}
	end := start + p.PerPage
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// PageButton is one entry of the pagination control. Page 0 marks an
// ellipsis placeholder.
type PageButton struct {
	Label   string
	Page    int
	Current bool
}

// Buttons builds the pagination control: a sliding window of up to five
// numbered buttons around the current page, with first/last shortcuts and
// ellipses when the page count exceeds the window.
func (p Paginator) Buttons(n int) []PageButton {
	total := p.TotalPages(n)

	start := p.Page - buttonWindow/2
	if start < 1 {
		start = 1
	}
	end := start + buttonWindow - 1
	if end > total {
		end = total
		if start = end - buttonWindow + 1; start < 1 {
			start = 1
		}
	}

	var buttons []PageButton
	if start > 1 {
		buttons = append(buttons, numberButton(1, p.Page))
		if start > 2 {
			buttons = append(buttons, PageButton{Label: "…"})
		}
	}
	for page := start; page <= end; page++ {
		buttons = append(buttons, numberButton(page, p.Page))
	}
	if end < total {
		if end < total-1 {
			buttons = append(buttons, PageButton{Label: "…"})
		}
		buttons = append(buttons, numberButton(total, p.Page))
	}
	return buttons
}

func numberButton(page, current int) PageButton {
	return PageButton{
		Label:   strconv.Itoa(page),
		Page:    page,
		Current: page == current,
	}
}
