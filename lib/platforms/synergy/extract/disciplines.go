package extract

import (
	"lmssynergy/lib/htmlutil"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

type Discipline struct {
	Title        string `json:"title"`
	ControlType  string `json:"control_type"`
	CurrentScore string `json:"current_score"`
	FinalGrade   string `json:"final_grade"`
	// absolute link to the discipline's events, "-" when the title is not a link
	DetailURL string `json:"detail_url"`
}

// Disciplines reads /student/up. Only five cell rows are disciplines, the
// table also holds semester headers.
func Disciplines(doc *goquery.Document, base *url.URL) ([]Discipline, error) {
	body, err := mustFind(doc, "disciplines", "tbody.expanded")
	if err != nil {
		return nil, err
	}

	disciplines := []Discipline{}
	_, err = walkRows(body.Find("tr"), func(_, cells *goquery.Selection) error {
		if cells.Length() != 5 {
			return nil
		}
		disciplines = append(disciplines, Discipline{
			Title:        cell(cells, 1),
			ControlType:  cell(cells, 2),
			CurrentScore: cellOr(cells, 3),
			FinalGrade:   cellOr(cells, 4),
			DetailURL:    htmlutil.HrefOr(base, cells.Eq(1), htmlutil.Missing),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return disciplines, nil
}
