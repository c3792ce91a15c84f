// Package paginate crawls the portal's paged listings. Two kinds exist:
// indexed listings take the page number as a query parameter and show the
// total in the paginator, next-link listings only link to the following page.
package paginate

import (
	"context"
	"fmt"
	"lmssynergy/lib/platforms/synergy/extract"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("platforms/synergy/paginate")

// InertLink is the href of the paginator's "next" arrow on the last page.
const InertLink = "javascript:void(0);"

// Page is one fetched page of a listing, Sentinel is set when the page
// ended with the end of listing row.
type Page[T any] struct {
	Rows     []T
	Sentinel bool
}

// IndexedTotal reads the page count of an indexed listing from its first
// page. The last paginator link is the "next" arrow so the count is the
// text of the one before it. Without a paginator there is a single page.
func IndexedTotal(doc *goquery.Document) (int, error) {
	links := extract.PaginatorLinks(doc)
	if len(links) == 0 {
		return 1, nil
	}
	if len(links) < 2 {
		return 0, &extract.LayoutError{
			Page:     "paginator",
			Selector: ".paginator a",
			Reason:   "expected at least 2 links",
		}
	}
	text := links[len(links)-2].Text
	total, err := strconv.Atoi(text)
	if err != nil {
		return 0, &extract.LayoutError{
			Page:     "paginator",
			Selector: ".paginator a",
			Reason:   fmt.Sprintf("page count %q is not a number", text),
		}
	}
	return total, nil
}

// CrawlNext walks a next-link listing from its first page. Every page is
// fetched and parsed once. The walk ends after a page that reported the end
// of listing row or when the last paginator link is inert, empty or was
// already followed.
func CrawlNext[T any](
	ctx context.Context,
	first *goquery.Document,
	parse func(doc *goquery.Document) (Page[T], error),
	fetch func(ctx context.Context, href string) (*goquery.Document, error),
) ([]T, error) {
	ctx, span := tracer.Start(ctx, "paginate:CrawlNext")
	defer span.End()

	out := []T{}
	followed := map[string]bool{}
	doc := first
	pages := 0
	for {
		pages++
		page, err := parse(doc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, fmt.Sprintf("failed to parse page %d", pages))
			return nil, err
		}
		out = append(out, page.Rows...)
		if page.Sentinel {
			span.SetAttributes(attribute.Int("stopped_at", pages))
			break
		}

		next := nextHref(doc)
		if next == "" || next == InertLink || followed[next] {
			break
		}
		followed[next] = true

		err = ctx.Err()
		if err != nil {
			return nil, err
		}
		doc, err = fetch(ctx, next)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch next page")
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int("total", pages))
	return out, nil
}

// the "next" arrow is the last paginator link, "" without a paginator
func nextHref(doc *goquery.Document) string {
	links := extract.PaginatorLinks(doc)
	if len(links) == 0 {
		return ""
	}
	return links[len(links)-1].Href
}

// Crawl fetches pages 1 to total in order and concatenates their rows. It
// stops after a page that reported the end of listing row and checks ctx
// before every page.
func Crawl[T any](
	ctx context.Context,
	total int,
	fetchPage func(ctx context.Context, page int) (Page[T], error),
) ([]T, error) {
	ctx, span := tracer.Start(ctx, "paginate:Crawl")
	defer span.End()
	span.SetAttributes(attribute.Int("total", total))

	out := []T{}
	for page := 1; page <= total; page++ {
		err := ctx.Err()
		if err != nil {
			return nil, err
		}
		result, err := fetchPage(ctx, page)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, fmt.Sprintf("failed to fetch page %d", page))
			return nil, err
		}
		out = append(out, result.Rows...)
		if result.Sentinel {
			span.SetAttributes(attribute.Int("stopped_at", page))
			break
		}
	}
	return out, nil
}
