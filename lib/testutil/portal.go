package testutil

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const SessionCookie = "PHPSESSID"

type User struct {
	Username string
	Password string
	Name     string
	// "student" or "teacher"
	Role string
	// the label shown on the account switcher, defaults to the program name
	// of the first menu entry
	CurrentLabel  string
	Messages      int
	Notifications int
	Unverified    int
}

type session struct {
	user   string
	locale string
}

// Portal is an in-process stand-in for the portal. Content is registered
// per request uri and served inside the navigation chrome of whichever
// user the session cookie belongs to.
type Portal struct {
	Server *httptest.Server

	lock     sync.Mutex
	users    map[string]User
	sessions map[string]*session
	pages    map[string]string
	status   map[string]int
	requests []string
}

func NewPortal(t testing.TB, users ...User) *Portal {
	p := &Portal{
		users:    map[string]User{},
		sessions: map[string]*session{},
		pages:    map[string]string{},
		status:   map[string]int{},
	}
	for _, u := range users {
		p.users[u.Username] = u
	}
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Server.Close)
	return p
}

func (p *Portal) URL() string {
	return p.Server.URL
}

// SetPage registers the content served at uri (path plus query).
func (p *Portal) SetPage(uri, content string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.pages[uri] = content
}

// SetStatus makes uri answer with the given status code.
func (p *Portal) SetStatus(uri string, status int) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.status[uri] = status
}

// Requests returns the requests served so far as "METHOD uri".
func (p *Portal) Requests() []string {
	p.lock.Lock()
	defer p.lock.Unlock()
	out := make([]string, len(p.requests))
	copy(out, p.requests)
	return out
}

func (p *Portal) ResetRequests() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.requests = nil
}

// Locale returns the locale ("ru" or "en") last selected by the session.
func (p *Portal) Locale(sessionId string) string {
	p.lock.Lock()
	defer p.lock.Unlock()
	s, ok := p.sessions[sessionId]
	if !ok {
		return ""
	}
	return s.locale
}

func (p *Portal) serve(w http.ResponseWriter, r *http.Request) {
	p.lock.Lock()
	defer p.lock.Unlock()

	uri := r.URL.RequestURI()
	p.requests = append(p.requests, fmt.Sprintf("%s %s", r.Method, uri))

	if status, ok := p.status[uri]; ok {
		w.WriteHeader(status)
		return
	}

	var current *session
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		current = p.sessions[cookie.Value]
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/user/login":
		p.login(w, r)
		return
	case strings.HasPrefix(r.URL.Path, "/user/lng/"):
		switch strings.TrimPrefix(r.URL.Path, "/user/lng/") {
		case "1":
			if current != nil {
				current.locale = "ru"
			}
		case "2":
			if current != nil {
				current.locale = "en"
			}
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("<html><body></body></html>"))
		return
	}

	content, ok := p.pages[uri]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if current == nil {
		w.Write([]byte(RenderPage(nil, "ru", content)))
		return
	}
	user := p.users[current.user]
	w.Write([]byte(RenderPage(&user, current.locale, content)))
}

func (p *Portal) login(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	user, ok := p.users[r.PostForm.Get("popupUsername")]
	if !ok || user.Password != r.PostForm.Get("popupPassword") {
		w.Write([]byte(RenderPage(nil, "ru", `<form id="popupLogin"></form>`)))
		return
	}
	id := "session-" + strconv.Itoa(len(p.sessions)+1)
	p.sessions[id] = &session{user: user.Username, locale: "ru"}
	http.SetCookie(w, &http.Cookie{
		Name:  SessionCookie,
		Value: id,
		Path:  "/",
	})
	w.Write([]byte(RenderPage(&user, "ru", "")))
}

var counterTitles = map[string][3]string{
	"ru": {"Личные сообщения", "Уведомления", "Непроверенные работы"},
	"en": {"Private messages", "Notifications", "Unverified works"},
}

var roleLabels = map[string]map[string]string{
	"ru": {"student": "Студент", "teacher": "Преподаватель"},
	"en": {"student": "Student", "teacher": "Teacher"},
}

const programName = "Прикладная информатика"

// RenderPage wraps content in the portal's navigation chrome. A nil user
// renders the signed out layout.
func RenderPage(user *User, locale string, content string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><title>Synergy</title></head><body>\n<div class=\"header\">\n")
	if user != nil {
		titles := counterTitles[locale]
		label := user.CurrentLabel
		if label == "" {
			label = programName
		}
		fmt.Fprintf(&b, "<div class=\"user-name\">\n  %s\n</div>\n", html.EscapeString(user.Name))
		fmt.Fprintf(
			&b,
			`<div id="switch-accounts">
  <div class="drop-menu-label"><span class="title">%s</span></div>
  <div class="drop-menu drop-select small"><ul>
    <li><b>%s</b></li>
    <li><a href="/user/switch/1">%s</a></li>
  </ul></div>
</div>
`,
			html.EscapeString(label),
			programName,
			roleLabels[locale][user.Role],
		)
		if user.Messages > 0 {
			fmt.Fprintf(&b, "<a href=\"/message/unread\" title=\"%s\"> %d </a>\n", titles[0], user.Messages)
		}
		if user.Notifications > 0 {
			fmt.Fprintf(&b, "<a href=\"/notification\" title=\"%s\"> %d </a>\n", titles[1], user.Notifications)
		}
		if user.Role == "teacher" && user.Unverified > 0 {
			fmt.Fprintf(&b, "<a href=\"/teacher/works\" title=\"%s\"> %d </a>\n", titles[2], user.Unverified)
		}
	}
	b.WriteString("</div>\n<div class=\"content\">\n")
	b.WriteString(content)
	b.WriteString("\n</div>\n</body></html>")
	return b.String()
}

// Row renders a table row with one td per cell, cells are raw html.
func Row(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>")
		b.WriteString(c)
		b.WriteString("</td>")
	}
	b.WriteString("</tr>\n")
	return b.String()
}

// SentinelRow is the single cell row the portal uses to mark the end of a listing.
const SentinelRow = `<tr><td colspan="5">Нет данных</td></tr>`

// Table renders a listing table with the given class attribute.
func Table(class string, rows ...string) string {
	return fmt.Sprintf(
		"<table class=\"%s\"><tbody>\n%s</tbody></table>",
		class, strings.Join(rows, ""),
	)
}

// IndexedPaginator renders page links 1..total followed by a "next" arrow.
func IndexedPaginator(base string, total int) string {
	var b strings.Builder
	b.WriteString(`<div class="paginator">`)
	for i := 1; i <= total; i++ {
		fmt.Fprintf(&b, `<a href="%s?page=%d&amp;pageSize=10">%d</a>`, base, i, i)
	}
	fmt.Fprintf(&b, `<a href="%s?page=2&amp;pageSize=10">»</a>`, base)
	b.WriteString(`</div>`)
	return b.String()
}

// NextPaginator renders a paginator whose last link points at next, an
// empty next renders the inert link of the last page.
func NextPaginator(previous, next string) string {
	if previous == "" {
		previous = "javascript:void(0);"
	}
	if next == "" {
		next = "javascript:void(0);"
	}
	return fmt.Sprintf(
		`<div class="paginator"><a href="%s">«</a><a href="%s">»</a></div>`,
		previous, next,
	)
}
