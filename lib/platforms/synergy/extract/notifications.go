package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Notification struct {
	Discipline   string `json:"discipline"`
	Teacher      string `json:"teacher"`
	Event        string `json:"event"`
	CurrentScore string `json:"current_score"`
	Message      string `json:"message"`
}

const listingSelector = "table.table-list"

// Notifications reads one page of /notification or /notification/archive.
// It reports whether the page ended with the end of listing row.
//
// A message ending in "0" is how the portal marks a notification without
// content, those rows are left out.
func Notifications(doc *goquery.Document) ([]Notification, bool, error) {
	table, err := mustFind(doc, "notifications", listingSelector)
	if err != nil {
		return nil, false, err
	}

	notifications := []Notification{}
	sentinel, err := walkRows(table.First().Find("tbody tr"), func(_, cells *goquery.Selection) error {
		if cells.Length() < 5 {
			return nil
		}
		message := cell(cells, 4)
		if strings.HasSuffix(message, "0") {
			return nil
		}
		notifications = append(notifications, Notification{
			Discipline:   cell(cells, 0),
			Teacher:      cell(cells, 1),
			Event:        cell(cells, 2),
			CurrentScore: cellOr(cells, 3),
			Message:      message,
		})
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return notifications, sentinel, nil
}
