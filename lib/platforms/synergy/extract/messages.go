package extract

import (
	"lmssynergy/lib/htmlutil"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

type UnreadMessage struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	URL     string `json:"url"`
}

// UnreadMessages reads one page of /message/unread and reports whether the
// page ended with the end of listing row.
func UnreadMessages(doc *goquery.Document, base *url.URL) ([]UnreadMessage, bool, error) {
	table, err := mustFind(doc, "unread messages", listingSelector)
	if err != nil {
		return nil, false, err
	}

	messages := []UnreadMessage{}
	sentinel, err := walkRows(table.First().Find("tbody tr"), func(_, cells *goquery.Selection) error {
		if cells.Length() < 3 {
			return nil
		}
		messages = append(messages, UnreadMessage{
			Sender:  cell(cells, 0),
			Subject: cell(cells, 1),
			Date:    cell(cells, 2),
			URL:     htmlutil.HrefOr(base, cells.Eq(1), htmlutil.Missing),
		})
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return messages, sentinel, nil
}
