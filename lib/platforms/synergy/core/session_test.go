package core

import (
	"context"
	"errors"
	devenv "lmssynergy/dev/env"
	"lmssynergy/lib/htmlutil"
	"lmssynergy/lib/telemetry"
	"lmssynergy/lib/testutil"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

var demo = testutil.User{
	Username: "demo",
	Password: "demo",
	Name:     "Student Demonstratsionnyiy",
	Role:     "student",
}

func testOptions(portal *testutil.Portal, locale Locale) Options {
	return Options{
		BaseUrl:  portal.URL(),
		Username: demo.Username,
		Password: demo.Password,
		Locale:   locale,
		Headers:  map[string]string{"User-Agent": "lmssynergy-test"},
	}
}

func TestOpenInvalidLocale(t *testing.T) {
	portal := testutil.NewPortal(t, demo)

	_, err := Open(context.Background(), testOptions(portal, "de"))
	require.ErrorIs(t, err, ErrInvalidLocale)
	require.Empty(t, portal.Requests())
}

func TestOpen(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:synergy/core")
	defer cleanup()

	portal := testutil.NewPortal(t, demo)
	s, err := Open(context.Background(), testOptions(portal, LocaleEnglish))
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, []string{
		"POST /user/login",
		"GET /user/lng/2",
	}, portal.Requests())

	cookies := s.Cookies()
	require.Contains(t, cookies, testutil.SessionCookie)
	require.Equal(t, "en", portal.Locale(cookies[testutil.SessionCookie]))
	require.NotEmpty(t, s.Id)
}

func TestOpenStatus(t *testing.T) {
	portal := testutil.NewPortal(t, demo)
	portal.SetStatus("/user/login", http.StatusServiceUnavailable)

	_, err := Open(context.Background(), testOptions(portal, LocaleRussian))
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestFetchSelectsLocale(t *testing.T) {
	portal := testutil.NewPortal(t, demo)
	portal.SetPage("/schedule/academ", "<p>schedule</p>")
	portal.SetPage("/announce", "<p>news</p>")

	ctx := context.Background()
	s, err := Open(ctx, testOptions(portal, LocaleRussian))
	require.NoError(t, err)
	defer s.Close()

	// another client of the same session switches the language
	other, err := New(testOptions(portal, LocaleEnglish))
	require.NoError(t, err)
	defer other.Close()
	other.SetCookies(s.Cookies())
	require.NoError(t, other.SelectLocale(ctx))
	require.Equal(t, "en", portal.Locale(s.Cookies()[testutil.SessionCookie]))

	portal.ResetRequests()
	doc, err := s.Fetch(ctx, "/schedule/academ")
	require.NoError(t, err)
	require.Equal(t, "schedule", htmlutil.Text(doc.Find(".content p")))
	require.Equal(t, "ru", portal.Locale(s.Cookies()[testutil.SessionCookie]))

	_, err = s.Fetch(ctx, portal.URL()+"/announce")
	require.NoError(t, err)

	require.Equal(t, []string{
		"GET /user/lng/1",
		"GET /schedule/academ",
		"GET /user/lng/1",
		"GET /announce",
	}, portal.Requests())
}

func TestFetchStatus(t *testing.T) {
	portal := testutil.NewPortal(t, demo)
	portal.SetStatus("/announce", http.StatusInternalServerError)

	s, err := Open(context.Background(), testOptions(portal, LocaleRussian))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Fetch(context.Background(), "/announce")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)

	_, err = s.Fetch(context.Background(), "/missing")
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestCookieRoundTrip(t *testing.T) {
	portal := testutil.NewPortal(t, demo)
	portal.SetPage("/schedule/academ", "")
	ctx := context.Background()

	first, err := Open(ctx, testOptions(portal, LocaleRussian))
	require.NoError(t, err)
	defer first.Close()

	second, err := New(testOptions(portal, LocaleRussian))
	require.NoError(t, err)
	defer second.Close()

	doc, err := second.Fetch(ctx, "/schedule/academ")
	require.NoError(t, err)
	require.Equal(t, 0, doc.Find("div.user-name").Length())

	second.SetCookies(first.Cookies())
	require.Equal(t, first.Cookies(), second.Cookies())

	expected, err := first.Fetch(ctx, "/schedule/academ")
	require.NoError(t, err)
	doc, err = second.Fetch(ctx, "/schedule/academ")
	require.NoError(t, err)
	require.Equal(t, demo.Name, htmlutil.Text(doc.Find("div.user-name")))
	require.Equal(t, htmlutil.Text(expected.Find("div.user-name")), htmlutil.Text(doc.Find("div.user-name")))
}

func TestUserAgent(t *testing.T) {
	portal := testutil.NewPortal(t, demo)

	opts := testOptions(portal, LocaleRussian)
	opts.Headers = nil
	s, err := New(opts)
	require.NoError(t, err)
	defer s.Close()
	// the agent is random, only its presence is stable
	require.NotEmpty(t, s.Http.Header.Get("User-Agent"))

	s, err = New(testOptions(portal, LocaleRussian))
	require.NoError(t, err)
	defer s.Close()
	require.Equal(t, "lmssynergy-test", s.Http.Header.Get("User-Agent"))
}

func TestUserAgentFallback(t *testing.T) {
	offline := func() string { return "" }
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		userAgent, err := randomUserAgent(offline)
		require.NoError(t, err)
		require.Contains(t, fallbackUserAgents, userAgent)
		seen[userAgent] = true
	}
	require.Greater(t, len(seen), 1)

	userAgent, err := randomUserAgent(func() string { return "catalogue-agent" })
	require.NoError(t, err)
	require.Equal(t, "catalogue-agent", userAgent)
}

func TestDefaultLocale(t *testing.T) {
	portal := testutil.NewPortal(t, demo)

	s, err := Open(context.Background(), testOptions(portal, ""))
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, LocaleEnglish, s.Locale)
	require.Equal(t, []string{
		"POST /user/login",
		"GET /user/lng/2",
	}, portal.Requests())
}

func TestClose(t *testing.T) {
	var missing *Session
	missing.Close()

	portal := testutil.NewPortal(t, demo)
	s, err := Open(context.Background(), testOptions(portal, LocaleRussian))
	require.NoError(t, err)
	s.Close()
	s.Close()
}

func TestParseLocale(t *testing.T) {
	locale, err := ParseLocale(" EN ")
	require.NoError(t, err)
	require.Equal(t, LocaleEnglish, locale)
	require.Equal(t, "/user/lng/2", locale.SelectPath())
	require.Equal(t, "/user/lng/1", LocaleRussian.SelectPath())

	_, err = ParseLocale("fr")
	require.ErrorIs(t, err, ErrInvalidLocale)
}

func TestPageNotExistError(t *testing.T) {
	var err error = &PageNotExistError{URL: "/notification?page=0&pageSize=10"}
	require.ErrorIs(t, err, ErrPageNotExist)
	require.Contains(t, err.Error(), "/notification?page=0&pageSize=10")
	require.False(t, errors.Is(err, ErrInvalidLocale))
}

func TestLiveSession(t *testing.T) {
	config, err := devenv.GetStateConfig[devenv.SynergyTestConfig]("synergy_test.json5")
	if err != nil || config.Username == "" {
		t.Skip("no live portal credentials in dev/.state")
	}
	locale, err := ParseLocale(config.Locale)
	if err != nil {
		locale = LocaleRussian
	}

	ctx := context.Background()
	s, err := Open(ctx, Options{
		BaseUrl:  config.BaseUrl,
		Username: config.Username,
		Password: config.Password,
		Locale:   locale,
	})
	require.NoError(t, err)
	defer s.Close()

	doc, err := s.Fetch(ctx, "/schedule/academ")
	require.NoError(t, err)
	require.NotEmpty(t, htmlutil.Text(doc.Find("div.user-name")))
}
