package table

import "strconv"

// ButtonKind tells the renderer how to draw a page button
type ButtonKind int

const (
	ButtonFirst ButtonKind = iota
	ButtonPrev
	ButtonNumber
	ButtonEllipsis
	ButtonNext
	ButtonLast
)

// PageButton is one element of the pager row
type PageButton struct {
	Label   string
	Page    int
	Kind    ButtonKind
	Current bool
}

// PageButtons returns first/prev, a window of up to three page numbers
// around the current page with ellipsis markers for skipped pages, then next/last
func (t *Table[T]) PageButtons() []PageButton {
	total := t.TotalPages()
	page := t.page

	prev := page - 1
	if prev < 1 {
		prev = 1
	}
	last := total
	if last < 1 {
		last = 1
	}
	next := page + 1
	if next > last {
		next = last
	}

	buttons := []PageButton{
		{Label: "<<", Page: 1, Kind: ButtonFirst},
		{Label: "<", Page: prev, Kind: ButtonPrev},
	}

	lo, hi := windowBounds(page, total)
	if lo > 1 {
		buttons = append(buttons, PageButton{Label: "…", Kind: ButtonEllipsis})
	}
	for p := lo; p <= hi; p++ {
		buttons = append(buttons, PageButton{Label: strconv.Itoa(p), Page: p, Kind: ButtonNumber, Current: p == page})
	}
	if hi < total {
		buttons = append(buttons, PageButton{Label: "…", Kind: ButtonEllipsis})
	}

	return append(buttons,
		PageButton{Label: ">", Page: next, Kind: ButtonNext},
		PageButton{Label: ">>", Page: last, Kind: ButtonLast},
	)
}

// windowBounds picks three consecutive pages containing page, or all pages
// when there are fewer than four
func windowBounds(page, total int) (int, int) {
	switch {
	case total <= 1:
		return 1, 1
	case total <= 3:
		return 1, total
	case page <= 2:
		return 1, 3
	case page >= total-1:
		return total - 2, total
	default:
		return page - 1, page + 1
	}
}
