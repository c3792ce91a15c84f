package extract

import (
	"lmssynergy/lib/htmlutil"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

type Event struct {
	Name         string `json:"name"`
	AccessWindow string `json:"access_window"`
	MaxGrade     string `json:"max_grade"`
	Result       string `json:"result"`
	URL          string `json:"url"`
}

type DisciplineEvents struct {
	Discipline   string  `json:"discipline"`
	Events       []Event `json:"events"`
	CurrentGrade string  `json:"current_grade"`
}

// Events reads a discipline's detail page, the page linked from the title
// of a discipline row. The current grade is the last cell of the footer.
func Events(doc *goquery.Document, base *url.URL, discipline string) (DisciplineEvents, error) {
	table, err := mustFind(doc, "events", listingSelector)
	if err != nil {
		return DisciplineEvents{}, err
	}
	table = table.First()

	out := DisciplineEvents{
		Discipline:   discipline,
		Events:       []Event{},
		CurrentGrade: htmlutil.TextOr(table.Find("tfoot tr td").Last(), htmlutil.Missing),
	}
	_, err = walkRows(table.Find("tbody tr"), func(_, cells *goquery.Selection) error {
		if cells.Length() < 4 {
			return nil
		}
		out.Events = append(out.Events, Event{
			Name:         cell(cells, 0),
			AccessWindow: cell(cells, 1),
			MaxGrade:     cell(cells, 2),
			Result:       cellOr(cells, 3),
			URL:          htmlutil.HrefOr(base, cells.Eq(0), htmlutil.Missing),
		})
		return nil
	})
	if err != nil {
		return DisciplineEvents{}, err
	}
	return out, nil
}
