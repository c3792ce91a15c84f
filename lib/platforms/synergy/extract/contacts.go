package extract

import (
	"lmssynergy/lib/htmlutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Contact struct {
	Name   string   `json:"name"`
	Phones []string `json:"phones"`
	Emails []string `json:"emails"`
}

// Contacts reads /student/curators and /student/tutors. Phone numbers are
// the text following a phone icon, either list may be empty.
func Contacts(doc *goquery.Document) ([]Contact, error) {
	table, err := mustFind(doc, "contacts", listingSelector)
	if err != nil {
		return nil, err
	}

	contacts := []Contact{}
	_, err = walkRows(table.First().Find("tbody tr"), func(_, cells *goquery.Selection) error {
		if cells.Length() < 2 {
			return nil
		}
		details := cells.Eq(1)

		emails := []string{}
		details.Find(`a[href^="mailto:"]`).Each(func(_ int, a *goquery.Selection) {
			email := htmlutil.Text(a)
			if email == "" {
				email = strings.TrimPrefix(a.AttrOr("href", ""), "mailto:")
			}
			if email != "" {
				emails = append(emails, email)
			}
		})

		contacts = append(contacts, Contact{
			Name:   cell(cells, 0),
			Phones: htmlutil.NextSiblingText(details.Find("i.icon-phone")),
			Emails: emails,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}
