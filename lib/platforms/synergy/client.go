package synergy

import (
	"context"
	"fmt"
	"lmssynergy/lib/platforms/synergy/core"
	"lmssynergy/lib/platforms/synergy/extract"
	"lmssynergy/lib/textutil"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("platforms/synergy")

var ErrNotTeacher = fmt.Errorf("only available to teachers")
var ErrNotStudent = fmt.Errorf("only available to students")

type Role = extract.Role

const (
	RoleStudent = extract.RoleStudent
	RoleTeacher = extract.RoleTeacher
)

const (
	PathSchedule     = "/schedule/academ"
	PathNews         = "/announce"
	PathDisciplines  = "/student/up"
	PathNotification = "/notification"
	PathArchive      = "/notification/archive"
	PathUnread       = "/message/unread"
	PathJournal      = "/student/journal"
	PathCurators     = "/student/curators"
	PathTutors       = "/student/tutors"
)

const pageSize = 10

func IndexedPageURL(path string, page int) string {
	return fmt.Sprintf("%s?page=%d&pageSize=%d", path, page, pageSize)
}

func UnreadPageURL(page int) string {
	return fmt.Sprintf("%s/page/%d", PathUnread, page)
}

type Profile struct {
	Name           string `json:"name"`
	UnreadMessages int    `json:"unread_messages"`
	Notifications  int    `json:"notifications"`
}

// Client is the portal seen by one account. Like its session it is meant
// for sequential use. The role is resolved once and cached on the session,
// every other call fetches the portal again.
type Client struct {
	Session *core.Session
}

// New signs in and returns a client for the account.
func New(ctx context.Context, opts core.Options) (*Client, error) {
	session, err := core.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{Session: session}, nil
}

// FromSession wraps an existing session, for example one whose cookies
// were restored from storage.
func FromSession(session *core.Session) *Client {
	return &Client{Session: session}
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	c.Session.Close()
}

func (c *Client) Cookies() map[string]string {
	return c.Session.Cookies()
}

func (c *Client) SetCookies(cookies map[string]string) {
	c.Session.SetCookies(cookies)
}

func (c *Client) fetchSchedulePage(ctx context.Context) (*goquery.Document, error) {
	return c.Session.Fetch(ctx, PathSchedule)
}

func (c *Client) roleFrom(doc *goquery.Document) (Role, error) {
	if c.Session.Role != "" {
		return Role(c.Session.Role), nil
	}
	role, err := extract.ResolveRole(doc)
	if err != nil {
		return "", err
	}
	c.Session.Role = string(role)
	slog.Debug("resolved role", "session", c.Session.Id, "role", role)
	return role, nil
}

// Role returns whether the account is a student or a teacher, read from
// the account switcher on the schedule page.
func (c *Client) Role(ctx context.Context) (Role, error) {
	if c.Session.Role != "" {
		return Role(c.Session.Role), nil
	}

	ctx, span := tracer.Start(ctx, "client:Role")
	defer span.End()

	doc, err := c.fetchSchedulePage(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch schedule page")
		return "", err
	}
	role, err := c.roleFrom(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve role")
		return "", err
	}
	span.SetAttributes(attribute.String("role", string(role)))
	return role, nil
}

// Verify reports whether the session is still signed in.
func (c *Client) Verify(ctx context.Context) (bool, error) {
	ctx, span := tracer.Start(ctx, "client:Verify")
	defer span.End()

	doc, err := c.fetchSchedulePage(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch schedule page")
		return false, err
	}
	return extract.SignedIn(doc), nil
}

func (c *Client) counter(ctx context.Context, kind extract.CounterKind) (int, error) {
	doc, err := c.fetchSchedulePage(ctx)
	if err != nil {
		return 0, err
	}
	return extract.Counter(doc, c.Session.Locale, kind)
}

// UnreadCount is the unread private message badge.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "client:UnreadCount")
	defer span.End()

	count, err := c.counter(ctx, extract.CounterMessages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return count, err
}

// NotificationCount is the notification badge.
func (c *Client) NotificationCount(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "client:NotificationCount")
	defer span.End()

	count, err := c.counter(ctx, extract.CounterNotifications)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return count, err
}

// UnverifiedWorks is the badge of submitted works waiting for review.
func (c *Client) UnverifiedWorks(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "client:UnverifiedWorks")
	defer span.End()

	role, err := c.Role(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve role")
		return 0, err
	}
	if role != RoleTeacher {
		span.SetStatus(codes.Error, ErrNotTeacher.Error())
		return 0, ErrNotTeacher
	}

	count, err := c.counter(ctx, extract.CounterUnverified)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return count, err
}

// Profile reads the user's name and both badges from a single page.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	ctx, span := tracer.Start(ctx, "client:Profile")
	defer span.End()

	doc, err := c.fetchSchedulePage(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch schedule page")
		return Profile{}, err
	}

	name, err := extract.UserName(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read user name")
		return Profile{}, err
	}
	messages, err := extract.Counter(doc, c.Session.Locale, extract.CounterMessages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read message count")
		return Profile{}, err
	}
	notifications, err := extract.Counter(doc, c.Session.Locale, extract.CounterNotifications)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read notification count")
		return Profile{}, err
	}

	return Profile{
		Name:           name,
		UnreadMessages: messages,
		Notifications:  notifications,
	}, nil
}

// Schedule reads the academic schedule in the shape of the account's role.
func (c *Client) Schedule(ctx context.Context) ([]extract.ScheduleDay, error) {
	ctx, span := tracer.Start(ctx, "client:Schedule")
	defer span.End()

	doc, err := c.fetchSchedulePage(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch schedule page")
		return nil, err
	}
	role, err := c.roleFrom(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve role")
		return nil, err
	}
	days, err := extract.Schedule(doc, role)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read schedule")
		return nil, err
	}
	return days, nil
}

func (c *Client) News(ctx context.Context) ([]extract.NewsItem, error) {
	ctx, span := tracer.Start(ctx, "client:News")
	defer span.End()

	doc, err := c.Session.Fetch(ctx, PathNews)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch announcements")
		return nil, err
	}
	news, err := extract.News(doc, c.Session.BaseUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read announcements")
		return nil, err
	}
	return news, nil
}

func (c *Client) Disciplines(ctx context.Context) ([]extract.Discipline, error) {
	ctx, span := tracer.Start(ctx, "client:Disciplines")
	defer span.End()

	doc, err := c.Session.Fetch(ctx, PathDisciplines)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch disciplines")
		return nil, err
	}
	disciplines, err := extract.Disciplines(doc, c.Session.BaseUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read disciplines")
		return nil, err
	}
	return disciplines, nil
}

// DisciplineEvents reads the events of one discipline. Disciplines without
// a detail page have no events.
func (c *Client) DisciplineEvents(ctx context.Context, discipline extract.Discipline) (extract.DisciplineEvents, error) {
	ctx, span := tracer.Start(ctx, "client:DisciplineEvents")
	defer span.End()
	span.SetAttributes(attribute.String("discipline", discipline.Title))

	if discipline.DetailURL == "" || discipline.DetailURL == "-" {
		return extract.DisciplineEvents{
			Discipline:   discipline.Title,
			Events:       []extract.Event{},
			CurrentGrade: "-",
		}, nil
	}

	doc, err := c.Session.Fetch(ctx, discipline.DetailURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch discipline page")
		return extract.DisciplineEvents{}, err
	}
	events, err := extract.Events(doc, c.Session.BaseUrl, discipline.Title)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read events")
		return extract.DisciplineEvents{}, err
	}
	return events, nil
}

// Events reads the events of every discipline that has a detail page, in
// the order of the disciplines listing.
func (c *Client) Events(ctx context.Context) ([]extract.DisciplineEvents, error) {
	ctx, span := tracer.Start(ctx, "client:Events")
	defer span.End()

	disciplines, err := c.Disciplines(ctx)
	if err != nil {
		return nil, err
	}

	out := []extract.DisciplineEvents{}
	for _, d := range disciplines {
		if d.DetailURL == "-" {
			continue
		}
		err := ctx.Err()
		if err != nil {
			return nil, err
		}
		events, err := c.DisciplineEvents(ctx, d)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read events")
			return nil, err
		}
		out = append(out, events)
	}
	return out, nil
}

// FindDiscipline returns the discipline whose title is closest to query.
func FindDiscipline(disciplines []extract.Discipline, query string) (extract.Discipline, bool) {
	titles := make([]string, len(disciplines))
	for i, d := range disciplines {
		titles[i] = d.Title
	}
	i := textutil.MostSimilar(query, titles)
	if i < 0 {
		return extract.Discipline{}, false
	}
	return disciplines[i], true
}

// Marks reads the attendance and grade journal.
func (c *Client) Marks(ctx context.Context) ([]extract.Mark, error) {
	ctx, span := tracer.Start(ctx, "client:Marks")
	defer span.End()

	doc, err := c.Session.Fetch(ctx, PathJournal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch journal")
		return nil, err
	}
	marks, err := extract.Marks(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read journal")
		return nil, err
	}
	return marks, nil
}

func (c *Client) contacts(ctx context.Context, path string) ([]extract.Contact, error) {
	role, err := c.Role(ctx)
	if err != nil {
		return nil, err
	}
	if role != RoleStudent {
		return nil, ErrNotStudent
	}
	doc, err := c.Session.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	return extract.Contacts(doc)
}

// Curators lists the student's curators.
func (c *Client) Curators(ctx context.Context) ([]extract.Contact, error) {
	ctx, span := tracer.Start(ctx, "client:Curators")
	defer span.End()

	contacts, err := c.contacts(ctx, PathCurators)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return contacts, err
}

// Tutors lists the student's tutors.
func (c *Client) Tutors(ctx context.Context) ([]extract.Contact, error) {
	ctx, span := tracer.Start(ctx, "client:Tutors")
	defer span.End()

	contacts, err := c.contacts(ctx, PathTutors)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return contacts, err
}
