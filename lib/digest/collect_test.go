package digest

import (
	"context"
	"lmssynergy/lib/platforms/synergy"
	"lmssynergy/lib/platforms/synergy/core"
	"lmssynergy/lib/testutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	user := testutil.User{
		Username:      "student",
		Password:      "student-password",
		Name:          "Student Demonstratsionnyiy",
		Role:          "student",
		Notifications: 1,
	}
	portal := testutil.NewPortal(t, user)
	portal.SetPage(synergy.PathSchedule, testutil.Table("table-list v-scrollable"))
	portal.SetPage(synergy.IndexedPageURL(synergy.PathNotification, 1), testutil.Table(
		"table-list",
		testutil.Row("Mathematics", "Ivanov I. I.", "Test 1", "15", "Graded"),
	))

	client, err := synergy.New(context.Background(), core.Options{
		BaseUrl:  portal.URL(),
		Username: user.Username,
		Password: user.Password,
		Locale:   core.LocaleEnglish,
		Headers:  map[string]string{"User-Agent": "lmssynergy-test"},
	})
	require.NoError(t, err)
	defer client.Close()

	d, err := Collect(context.Background(), client)
	require.NoError(t, err)
	require.Equal(t, "Student Demonstratsionnyiy", d.Profile.Name)
	require.Len(t, d.Notifications, 1)
	require.Equal(t, "Graded", d.Notifications[0].Message)
	require.Empty(t, d.UnreadMessages)
	require.False(t, d.GeneratedAt.IsZero())
}
