package extract

import (
	"lmssynergy/lib/htmlutil"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Link        string `json:"link"`
}

// News reads /announce, links are resolved against base.
func News(doc *goquery.Document, base *url.URL) ([]NewsItem, error) {
	list, err := mustFind(doc, "announce", "div.events-list.rssNews")
	if err != nil {
		return nil, err
	}

	news := []NewsItem{}
	list.First().Find("div.item").Each(func(_ int, item *goquery.Selection) {
		news = append(news, NewsItem{
			Title:       htmlutil.Text(item.Find("h3").First()),
			Description: htmlutil.Text(item.Find("div.awrap").First()),
			Date:        htmlutil.Text(item.Find("div.meta").First()),
			Link:        htmlutil.HrefOr(base, item.Find("a.more").First(), htmlutil.Missing),
		})
	})
	return news, nil
}
