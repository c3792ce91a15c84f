package synergy

import (
	"context"
	"lmssynergy/lib/platforms/synergy/core"
	"lmssynergy/lib/platforms/synergy/extract"
	"lmssynergy/lib/platforms/synergy/paginate"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func toPage[T any](doc *goquery.Document, parse func(*goquery.Document) ([]T, bool, error)) (paginate.Page[T], error) {
	rows, sentinel, err := parse(doc)
	if err != nil {
		return paginate.Page[T]{}, err
	}
	return paginate.Page[T]{Rows: rows, Sentinel: sentinel}, nil
}

func (c *Client) fetchIndexed(ctx context.Context, path string, page int) (*goquery.Document, error) {
	uri := IndexedPageURL(path, page)
	if page < 1 {
		return nil, &core.PageNotExistError{URL: c.Session.Resolve(uri)}
	}
	return c.Session.Fetch(ctx, uri)
}

func (c *Client) fetchUnread(ctx context.Context, page int) (*goquery.Document, error) {
	uri := UnreadPageURL(page)
	if page < 1 {
		return nil, &core.PageNotExistError{URL: c.Session.Resolve(uri)}
	}
	return c.Session.Fetch(ctx, uri)
}

// crawlIndexed reads the total from page 1 and then reuses that page as
// the first page of the crawl.
func crawlIndexed[T any](
	ctx context.Context,
	c *Client,
	path string,
	parse func(*goquery.Document) ([]T, bool, error),
) ([]T, error) {
	first, err := c.fetchIndexed(ctx, path, 1)
	if err != nil {
		return nil, err
	}
	total, err := paginate.IndexedTotal(first)
	if err != nil {
		return nil, err
	}
	return paginate.Crawl(ctx, total, func(ctx context.Context, page int) (paginate.Page[T], error) {
		if page == 1 {
			return toPage(first, parse)
		}
		doc, err := c.fetchIndexed(ctx, path, page)
		if err != nil {
			return paginate.Page[T]{}, err
		}
		return toPage(doc, parse)
	})
}

func notifications(doc *goquery.Document) ([]extract.Notification, bool, error) {
	return extract.Notifications(doc)
}

// NotificationsPage reads one page of the notification listing, pages
// start at 1.
func (c *Client) NotificationsPage(ctx context.Context, page int) (paginate.Page[extract.Notification], error) {
	doc, err := c.fetchIndexed(ctx, PathNotification, page)
	if err != nil {
		return paginate.Page[extract.Notification]{}, err
	}
	return toPage(doc, notifications)
}

// ArchivePage reads one page of the notification archive, pages start at 1.
func (c *Client) ArchivePage(ctx context.Context, page int) (paginate.Page[extract.Notification], error) {
	doc, err := c.fetchIndexed(ctx, PathArchive, page)
	if err != nil {
		return paginate.Page[extract.Notification]{}, err
	}
	return toPage(doc, notifications)
}

// Notifications reads every page of the notification listing.
func (c *Client) Notifications(ctx context.Context) ([]extract.Notification, error) {
	ctx, span := tracer.Start(ctx, "client:Notifications")
	defer span.End()

	out, err := crawlIndexed(ctx, c, PathNotification, notifications)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to crawl notifications")
		return nil, err
	}
	span.SetAttributes(attribute.Int("count", len(out)))
	return out, nil
}

// NotificationsArchive reads every page of the notification archive.
func (c *Client) NotificationsArchive(ctx context.Context) ([]extract.Notification, error) {
	ctx, span := tracer.Start(ctx, "client:NotificationsArchive")
	defer span.End()

	out, err := crawlIndexed(ctx, c, PathArchive, notifications)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to crawl notification archive")
		return nil, err
	}
	span.SetAttributes(attribute.Int("count", len(out)))
	return out, nil
}

// UnreadMessagesPage reads one page of the unread messages, pages start at 1.
func (c *Client) UnreadMessagesPage(ctx context.Context, page int) (paginate.Page[extract.UnreadMessage], error) {
	doc, err := c.fetchUnread(ctx, page)
	if err != nil {
		return paginate.Page[extract.UnreadMessage]{}, err
	}
	return toPage(doc, c.unreadMessages)
}

func (c *Client) unreadMessages(doc *goquery.Document) ([]extract.UnreadMessage, bool, error) {
	return extract.UnreadMessages(doc, c.Session.BaseUrl)
}

// UnreadMessages reads every unread message. The listing has no page
// count, its pages are walked by following the "next" links. When the
// unread badge shows nothing the listing is not fetched at all.
func (c *Client) UnreadMessages(ctx context.Context) ([]extract.UnreadMessage, error) {
	ctx, span := tracer.Start(ctx, "client:UnreadMessages")
	defer span.End()

	count, err := c.UnreadCount(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read unread count")
		return nil, err
	}
	if count == 0 {
		return []extract.UnreadMessage{}, nil
	}

	first, err := c.fetchUnread(ctx, 1)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch first page")
		return nil, err
	}
	out, err := paginate.CrawlNext(ctx, first, func(doc *goquery.Document) (paginate.Page[extract.UnreadMessage], error) {
		return toPage(doc, c.unreadMessages)
	}, c.Session.Fetch)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to crawl unread messages")
		return nil, err
	}
	span.SetAttributes(attribute.Int("count", len(out)))
	return out, nil
}
