package extract

import (
	"github.com/PuerkitoBio/goquery"
)

type Mark struct {
	Discipline string `json:"discipline"`
	Type       string `json:"type"`
	Teacher    string `json:"teacher"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Mark       string `json:"mark"`
	Hours      string `json:"hours"`
}

// Marks reads the journal at /student/journal.
func Marks(doc *goquery.Document) ([]Mark, error) {
	table, err := mustFind(doc, "journal", listingSelector)
	if err != nil {
		return nil, err
	}

	marks := []Mark{}
	_, err = walkRows(table.First().Find("tbody tr"), func(_, cells *goquery.Selection) error {
		if cells.Length() < 7 {
			return nil
		}
		marks = append(marks, Mark{
			Discipline: cell(cells, 0),
			Type:       cell(cells, 1),
			Teacher:    cell(cells, 2),
			Date:       cell(cells, 3),
			Time:       cell(cells, 4),
			Mark:       cellOr(cells, 5),
			Hours:      cell(cells, 6),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return marks, nil
}
