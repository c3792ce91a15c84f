package synergy

import (
	"context"
	"fmt"
	devenv "lmssynergy/dev/env"
	"lmssynergy/lib/platforms/synergy/core"
	"lmssynergy/lib/platforms/synergy/extract"
	"lmssynergy/lib/telemetry"
	"lmssynergy/lib/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var student = testutil.User{
	Username:      "student",
	Password:      "student-password",
	Name:          "Student Demonstratsionnyiy",
	Role:          "student",
	Messages:      3,
	Notifications: 5,
}

var teacher = testutil.User{
	Username:   "teacher",
	Password:   "teacher-password",
	Name:       "Teacher Demonstratsionnyiy",
	Role:       "teacher",
	Unverified: 4,
}

var quiet = testutil.User{
	Username: "quiet",
	Password: "quiet-password",
	Name:     "Quiet Student",
	Role:     "student",
}

func notificationRow(discipline, message string) string {
	return testutil.Row(discipline, "Teacher Demonstratsionnyiy", "Test", "10", message)
}

func newPortal(t *testing.T) *testutil.Portal {
	portal := testutil.NewPortal(t, student, teacher, quiet)

	portal.SetPage(PathSchedule, testutil.Table(
		"table-list v-scrollable",
		`<tr><th colspan="5">31.01.23, Tue</th></tr>`,
		testutil.Row("09:55 - 11:40", "Mathematics", "D-101", "lecture", "Teacher Demonstratsionnyiy"),
		testutil.Row("11:50 - 13:35", "Physics", "D-102", "seminar", "Ivanov I. I."),
	))

	portal.SetPage(PathNews, `<div class="events-list rssNews">
		<div class="item"><h3>Session</h3><div class="awrap">Starts soon</div><div class="meta">20.01.2023</div>
		<a class="more" href="/announce/view/1">more</a></div>
	</div>`)

	portal.SetPage(PathDisciplines, `<table class="table-list"><tbody class="expanded">`+
		testutil.Row("1", `<a href="/student/up/discipline/11">Mathematics</a>`, "Exam", "15", "")+
		testutil.Row("2", "Physical education", "Credit", "", "")+
		`</tbody></table>`)
	portal.SetPage("/student/up/discipline/11", `<table class="table-list"><tbody>`+
		testutil.Row(`<a href="/lms/event/1">Test 1</a>`, "01.02.23 - 15.02.23", "20", "15")+
		`</tbody><tfoot><tr><td colspan="3">Total</td><td>15</td></tr></tfoot></table>`)

	portal.SetPage(PathJournal, testutil.Table(
		"table-list",
		testutil.Row("Mathematics", "lecture", "Teacher Demonstratsionnyiy", "31.01.23", "09:55 - 11:40", "present", "2"),
	))

	contacts := testutil.Table(
		"table-list",
		testutil.Row("Sidorova Anna", `<i class="icon-phone"></i> +7 (495) 800-10-01 <br><a href="mailto:as@synergy.ru">as@synergy.ru</a>`),
	)
	portal.SetPage(PathCurators, contacts)
	portal.SetPage(PathTutors, contacts)

	// three pages are advertised, the second one ends the listing
	portal.SetPage(IndexedPageURL(PathNotification, 1), testutil.Table(
		"table-list",
		notificationRow("Mathematics", "first"),
		notificationRow("Physics", "second"),
		notificationRow("Physics", "flagged 0"),
		notificationRow("History", "third"),
	)+testutil.IndexedPaginator(PathNotification, 3))
	portal.SetPage(IndexedPageURL(PathNotification, 2), testutil.Table(
		"table-list",
		notificationRow("History", "fourth"),
		testutil.SentinelRow,
		notificationRow("History", "hidden"),
	)+testutil.IndexedPaginator(PathNotification, 3))
	portal.SetPage(IndexedPageURL(PathNotification, 3), testutil.Table(
		"table-list",
		notificationRow("Chemistry", "never"),
	)+testutil.IndexedPaginator(PathNotification, 3))

	portal.SetPage(IndexedPageURL(PathArchive, 1), testutil.Table(
		"table-list",
		notificationRow("Mathematics", "archived"),
	))

	portal.SetPage(UnreadPageURL(1), testutil.Table(
		"table-list",
		testutil.Row("Деканат", `<a href="/message/view/1">Справка</a>`, "30.01.2023"),
		testutil.Row("Ivanov I. I.", `<a href="/message/view/2">Lab</a>`, "29.01.2023"),
	)+testutil.NextPaginator("", UnreadPageURL(2)))
	portal.SetPage(UnreadPageURL(2), testutil.Table(
		"table-list",
		testutil.Row("Petrov P. P.", `<a href="/message/view/3">Essay</a>`, "28.01.2023"),
	)+testutil.NextPaginator(UnreadPageURL(1), ""))

	return portal
}

func newClient(t *testing.T, portal *testutil.Portal, user testutil.User) *Client {
	client, err := New(context.Background(), core.Options{
		BaseUrl:  portal.URL(),
		Username: user.Username,
		Password: user.Password,
		Locale:   core.LocaleEnglish,
		Headers:  map[string]string{"User-Agent": "lmssynergy-test"},
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	portal.ResetRequests()
	return client
}

func countRequests(requests []string, prefix string) int {
	count := 0
	for _, r := range requests {
		if strings.HasPrefix(r, prefix) {
			count++
		}
	}
	return count
}

func TestRole(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:synergy")
	defer cleanup()

	portal := newPortal(t)
	ctx := context.Background()

	client := newClient(t, portal, student)
	role, err := client.Role(ctx)
	require.NoError(t, err)
	require.Equal(t, RoleStudent, role)
	role, err = client.Role(ctx)
	require.NoError(t, err)
	require.Equal(t, RoleStudent, role)
	require.Equal(t, 1, countRequests(portal.Requests(), "GET "+PathSchedule))

	client = newClient(t, portal, teacher)
	role, err = client.Role(ctx)
	require.NoError(t, err)
	require.Equal(t, RoleTeacher, role)
}

func TestRoleSharedBySession(t *testing.T) {
	portal := newPortal(t)
	ctx := context.Background()

	first := newClient(t, portal, student)
	second := FromSession(first.Session)

	role, err := first.Role(ctx)
	require.NoError(t, err)
	require.Equal(t, RoleStudent, role)
	role, err = second.Role(ctx)
	require.NoError(t, err)
	require.Equal(t, RoleStudent, role)
	require.Equal(t, 1, countRequests(portal.Requests(), "GET "+PathSchedule))
	require.Equal(t, string(RoleStudent), first.Session.Role)

	// another account on the same jar resolves again
	err = first.Session.SignIn(ctx, teacher.Username, teacher.Password)
	require.NoError(t, err)
	require.Empty(t, second.Session.Role)
	role, err = second.Role(ctx)
	require.NoError(t, err)
	require.Equal(t, RoleTeacher, role)
	require.Equal(t, 2, countRequests(portal.Requests(), "GET "+PathSchedule))
}

func TestSchedule(t *testing.T) {
	portal := newPortal(t)
	ctx := context.Background()

	days, err := newClient(t, portal, student).Schedule(ctx)
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Len(t, days[0].Lessons, 2)
	for _, lesson := range days[0].Lessons {
		require.NotNil(t, lesson.Student)
		require.Nil(t, lesson.Teacher)
	}
	require.Equal(t, "Teacher Demonstratsionnyiy", days[0].Lessons[0].Student.Teacher)

	days, err = newClient(t, portal, teacher).Schedule(ctx)
	require.NoError(t, err)
	for _, lesson := range days[0].Lessons {
		require.Nil(t, lesson.Student)
		require.NotNil(t, lesson.Teacher)
	}
	require.Equal(t, "D-101", days[0].Lessons[0].Teacher.Group)
	require.Equal(t, "lecture", days[0].Lessons[0].Teacher.Classroom)
}

func TestRoleGates(t *testing.T) {
	portal := newPortal(t)
	ctx := context.Background()

	client := newClient(t, portal, student)
	_, err := client.UnverifiedWorks(ctx)
	require.ErrorIs(t, err, ErrNotTeacher)
	curators, err := client.Curators(ctx)
	require.NoError(t, err)
	require.Len(t, curators, 1)
	require.Equal(t, []string{"+7 (495) 800-10-01"}, curators[0].Phones)
	require.Equal(t, []string{"as@synergy.ru"}, curators[0].Emails)
	tutors, err := client.Tutors(ctx)
	require.NoError(t, err)
	require.Len(t, tutors, 1)

	client = newClient(t, portal, teacher)
	_, err = client.Curators(ctx)
	require.ErrorIs(t, err, ErrNotStudent)
	_, err = client.Tutors(ctx)
	require.ErrorIs(t, err, ErrNotStudent)
	require.Zero(t, countRequests(portal.Requests(), "GET "+PathCurators))
	require.Zero(t, countRequests(portal.Requests(), "GET "+PathTutors))

	unverified, err := client.UnverifiedWorks(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, unverified)
}

func TestPageNotExist(t *testing.T) {
	portal := newPortal(t)
	ctx := context.Background()
	client := newClient(t, portal, student)

	for _, page := range []int{0, -1} {
		_, err := client.NotificationsPage(ctx, page)
		require.ErrorIs(t, err, core.ErrPageNotExist)
		var notExist *core.PageNotExistError
		require.ErrorAs(t, err, &notExist)
		require.Equal(t, portal.URL()+fmt.Sprintf("/notification?page=%d&pageSize=10", page), notExist.URL)

		_, err = client.ArchivePage(ctx, page)
		require.ErrorIs(t, err, core.ErrPageNotExist)
		require.ErrorAs(t, err, &notExist)
		require.Equal(t, portal.URL()+fmt.Sprintf("/notification/archive?page=%d&pageSize=10", page), notExist.URL)

		_, err = client.UnreadMessagesPage(ctx, page)
		require.ErrorIs(t, err, core.ErrPageNotExist)
	}
	require.Empty(t, portal.Requests())
}

func TestNotifications(t *testing.T) {
	portal := newPortal(t)
	client := newClient(t, portal, student)

	notifications, err := client.Notifications(context.Background())
	require.NoError(t, err)

	messages := make([]string, len(notifications))
	for i, n := range notifications {
		messages[i] = n.Message
	}
	require.Equal(t, []string{"first", "second", "third", "fourth"}, messages)

	requests := portal.Requests()
	require.Equal(t, 1, countRequests(requests, "GET "+IndexedPageURL(PathNotification, 1)))
	require.Equal(t, 1, countRequests(requests, "GET "+IndexedPageURL(PathNotification, 2)))
	require.Zero(t, countRequests(requests, "GET "+IndexedPageURL(PathNotification, 3)))

	// every listing request directly follows a locale selection
	for i, r := range requests {
		if strings.HasPrefix(r, "GET "+PathNotification) {
			require.Equal(t, "GET /user/lng/2", requests[i-1])
		}
	}
}

func TestNotificationsPage(t *testing.T) {
	portal := newPortal(t)
	client := newClient(t, portal, student)

	page, err := client.NotificationsPage(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, page.Sentinel)
	require.Len(t, page.Rows, 1)

	archive, err := client.NotificationsArchive(context.Background())
	require.NoError(t, err)
	require.Len(t, archive, 1)
	require.Equal(t, "archived", archive[0].Message)
}

func TestUnreadMessages(t *testing.T) {
	portal := newPortal(t)
	client := newClient(t, portal, student)

	messages, err := client.UnreadMessages(context.Background())
	require.NoError(t, err)
	require.Equal(t, []extract.UnreadMessage{
		{Sender: "Деканат", Subject: "Справка", Date: "30.01.2023", URL: portal.URL() + "/message/view/1"},
		{Sender: "Ivanov I. I.", Subject: "Lab", Date: "29.01.2023", URL: portal.URL() + "/message/view/2"},
		{Sender: "Petrov P. P.", Subject: "Essay", Date: "28.01.2023", URL: portal.URL() + "/message/view/3"},
	}, messages)
}

func TestUnreadMessagesFetchesEachPageOnce(t *testing.T) {
	portal := newPortal(t)
	portal.SetPage(UnreadPageURL(1), testutil.Table(
		"table-list",
		testutil.Row("Деканат", `<a href="/message/view/1">Справка</a>`, "30.01.2023"),
	)+testutil.NextPaginator("", UnreadPageURL(2)))
	portal.SetPage(UnreadPageURL(2), testutil.Table(
		"table-list",
		testutil.Row("Ivanov I. I.", `<a href="/message/view/2">Lab</a>`, "29.01.2023"),
		testutil.SentinelRow,
	)+testutil.NextPaginator(UnreadPageURL(1), UnreadPageURL(3)))
	portal.SetPage(UnreadPageURL(3), testutil.Table(
		"table-list",
		testutil.Row("Petrov P. P.", `<a href="/message/view/3">Essay</a>`, "28.01.2023"),
	)+testutil.NextPaginator(UnreadPageURL(2), ""))
	client := newClient(t, portal, student)

	messages, err := client.UnreadMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "Справка", messages[0].Subject)
	require.Equal(t, "Lab", messages[1].Subject)

	requests := portal.Requests()
	require.Equal(t, 1, countRequests(requests, "GET "+UnreadPageURL(1)))
	require.Equal(t, 1, countRequests(requests, "GET "+UnreadPageURL(2)))
	require.Zero(t, countRequests(requests, "GET "+UnreadPageURL(3)))
}

func TestUnreadMessagesNone(t *testing.T) {
	portal := newPortal(t)
	client := newClient(t, portal, quiet)

	messages, err := client.UnreadMessages(context.Background())
	require.NoError(t, err)
	require.Empty(t, messages)
	require.NotNil(t, messages)
	require.Zero(t, countRequests(portal.Requests(), "GET "+PathUnread))
}

func TestProfile(t *testing.T) {
	portal := newPortal(t)
	ctx := context.Background()
	client := newClient(t, portal, student)

	profile, err := client.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, Profile{
		Name:           "Student Demonstratsionnyiy",
		UnreadMessages: 3,
		Notifications:  5,
	}, profile)

	count, err := client.NotificationCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, count)
	count, err = client.UnreadCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestVerify(t *testing.T) {
	portal := newPortal(t)
	ctx := context.Background()
	client := newClient(t, portal, student)

	ok, err := client.Verify(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	client.SetCookies(map[string]string{testutil.SessionCookie: "expired"})
	ok, err = client.Verify(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCookieRoundTrip(t *testing.T) {
	portal := newPortal(t)
	ctx := context.Background()
	original := newClient(t, portal, student)

	session, err := core.New(core.Options{
		BaseUrl: portal.URL(),
		Locale:  core.LocaleEnglish,
		Headers: map[string]string{"User-Agent": "lmssynergy-test"},
	})
	require.NoError(t, err)
	restored := FromSession(session)
	defer restored.Close()
	restored.SetCookies(original.Cookies())

	expected, err := original.Profile(ctx)
	require.NoError(t, err)
	profile, err := restored.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, expected, profile)
}

func TestNewsAndMarks(t *testing.T) {
	portal := newPortal(t)
	ctx := context.Background()
	client := newClient(t, portal, student)

	news, err := client.News(ctx)
	require.NoError(t, err)
	require.Len(t, news, 1)
	require.Equal(t, portal.URL()+"/announce/view/1", news[0].Link)

	marks, err := client.Marks(ctx)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	require.Equal(t, "present", marks[0].Mark)
}

func TestEvents(t *testing.T) {
	portal := newPortal(t)
	ctx := context.Background()
	client := newClient(t, portal, student)

	disciplines, err := client.Disciplines(ctx)
	require.NoError(t, err)
	require.Len(t, disciplines, 2)
	require.Equal(t, "-", disciplines[0].FinalGrade)
	require.Equal(t, "-", disciplines[1].DetailURL)

	events, err := client.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Mathematics", events[0].Discipline)
	require.Equal(t, "15", events[0].CurrentGrade)
	require.Equal(t, portal.URL()+"/lms/event/1", events[0].Events[0].URL)

	none, err := client.DisciplineEvents(ctx, disciplines[1])
	require.NoError(t, err)
	require.Empty(t, none.Events)
	require.Equal(t, "-", none.CurrentGrade)
}

func TestFindDiscipline(t *testing.T) {
	disciplines := []extract.Discipline{
		{Title: "Mathematics"},
		{Title: "Physical education"},
	}
	found, ok := FindDiscipline(disciplines, "physical")
	require.True(t, ok)
	require.Equal(t, "Physical education", found.Title)

	found, ok = FindDiscipline(disciplines, "Mathematcs")
	require.True(t, ok)
	require.Equal(t, "Mathematics", found.Title)

	_, ok = FindDiscipline(nil, "anything")
	require.False(t, ok)
}

func TestCloseNil(t *testing.T) {
	var client *Client
	client.Close()
}

func TestLiveClient(t *testing.T) {
	config, err := devenv.GetStateConfig[devenv.SynergyTestConfig]("synergy_test.json5")
	if err != nil || config.Username == "" {
		t.Skip("no live portal credentials in dev/.state")
	}
	locale, err := core.ParseLocale(config.Locale)
	if err != nil {
		locale = core.LocaleRussian
	}

	ctx := context.Background()
	client, err := New(ctx, core.Options{
		BaseUrl:  config.BaseUrl,
		Username: config.Username,
		Password: config.Password,
		Locale:   locale,
	})
	require.NoError(t, err)
	defer client.Close()

	role, err := client.Role(ctx)
	require.NoError(t, err)
	_, err = client.Schedule(ctx)
	require.NoError(t, err)

	if role != RoleStudent || config.Discipline == "" {
		return
	}
	disciplines, err := client.Disciplines(ctx)
	require.NoError(t, err)
	discipline, ok := FindDiscipline(disciplines, config.Discipline)
	require.True(t, ok, "no discipline like %q", config.Discipline)
	events, err := client.DisciplineEvents(ctx, discipline)
	require.NoError(t, err)
	require.NotEmpty(t, events.Events)
}
