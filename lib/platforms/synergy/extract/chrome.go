package extract

import (
	"fmt"
	"lmssynergy/lib/htmlutil"
	"lmssynergy/lib/platforms/synergy/core"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// SignedIn reports whether the page was rendered for a signed in user.
func SignedIn(doc *goquery.Document) bool {
	return doc.Find("div.user-name").Length() > 0
}

func UserName(doc *goquery.Document) (string, error) {
	sel, err := mustFind(doc, "navigation", "div.user-name")
	if err != nil {
		return "", err
	}
	return htmlutil.Text(sel.First()), nil
}

type CounterKind int

const (
	CounterMessages CounterKind = iota
	CounterNotifications
	CounterUnverified
)

func (k CounterKind) String() string {
	switch k {
	case CounterMessages:
		return "messages"
	case CounterNotifications:
		return "notifications"
	case CounterUnverified:
		return "unverified"
	}
	return fmt.Sprintf("counter(%d)", int(k))
}

// tooltips of the navigation counters
var counterTitles = map[core.Locale]map[CounterKind]string{
	core.LocaleRussian: {
		CounterMessages:      "Личные сообщения",
		CounterNotifications: "Уведомления",
		CounterUnverified:    "Непроверенные работы",
	},
	core.LocaleEnglish: {
		CounterMessages:      "Private messages",
		CounterNotifications: "Notifications",
		CounterUnverified:    "Unverified works",
	},
}

// Counter reads a number badge from the navigation chrome. The portal hides
// badges that would show 0.
func Counter(doc *goquery.Document, locale core.Locale, kind CounterKind) (int, error) {
	titles, ok := counterTitles[locale]
	if !ok {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidLocale, locale)
	}
	title := titles[kind]

	anchor := doc.Find("a[title]").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return a.AttrOr("title", "") == title
	}).First()
	if anchor.Length() == 0 {
		return 0, nil
	}

	text := htmlutil.Text(anchor)
	if text == "" {
		return 0, nil
	}
	count, err := strconv.Atoi(text)
	if err != nil {
		return 0, &LayoutError{
			Page:     "navigation",
			Selector: fmt.Sprintf("a[title=%q]", title),
			Reason:   fmt.Sprintf("%s counter %q is not a number", kind, text),
		}
	}
	return count, nil
}

type PaginatorLink struct {
	Text string
	Href string
}

// PaginatorLinks returns the links of the first paginator in document order,
// hrefs are left as written.
func PaginatorLinks(doc *goquery.Document) []PaginatorLink {
	var out []PaginatorLink
	doc.Find(".paginator").First().Find("a").Each(func(_ int, a *goquery.Selection) {
		out = append(out, PaginatorLink{
			Text: htmlutil.Text(a),
			Href: a.AttrOr("href", ""),
		})
	})
	return out
}
