// Package extract turns portal pages into records. Every function here is
// pure, it only reads the document it is given.
package extract

import (
	"fmt"
	"lmssynergy/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var ErrLayout = fmt.Errorf("unexpected page layout")

// LayoutError means a structural element every version of the page has
// is missing, usually because the portal changed or the session expired.
type LayoutError struct {
	Page     string
	Selector string
	Reason   string
}

func (e *LayoutError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Page, e.Reason, e.Selector)
	}
	return fmt.Sprintf("%s: could not find %s", e.Page, e.Selector)
}

func (e *LayoutError) Is(target error) bool {
	return target == ErrLayout
}

func mustFind(doc *goquery.Document, page, selector string) (*goquery.Selection, error) {
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return nil, &LayoutError{Page: page, Selector: selector}
	}
	return sel, nil
}

// walkRows calls fn for each row until the single cell row that marks the
// end of a listing, it reports whether that row was reached.
func walkRows(rows *goquery.Selection, fn func(row, cells *goquery.Selection) error) (bool, error) {
	for i := range rows.Nodes {
		row := rows.Eq(i)
		cells := row.ChildrenFiltered("td")
		if cells.Length() == 1 {
			return true, nil
		}
		err := fn(row, cells)
		if err != nil {
			return false, err
		}
	}
	return false, nil
}

func cell(cells *goquery.Selection, i int) string {
	return htmlutil.Text(cells.Eq(i))
}

func cellOr(cells *goquery.Selection, i int) string {
	return htmlutil.TextOr(cells.Eq(i), htmlutil.Missing)
}
