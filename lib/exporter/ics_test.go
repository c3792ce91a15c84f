package exporter

import (
	"bytes"
	"lmssynergy/lib/platforms/synergy/extract"
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"
)

func TestScheduleICS(t *testing.T) {
	days := []extract.ScheduleDay{
		{
			Date: "31.01.23, Tue",
			Lessons: []extract.Lesson{
				{Time: "09:55 - 11:40", Student: &extract.StudentLesson{
					Name: "Mathematics", Classroom: "D-101", Type: "lecture", Teacher: "Teacher Demonstratsionnyiy",
				}},
				{Time: "whenever", Student: &extract.StudentLesson{Name: "Broken"}},
			},
		},
		{
			Date: "01.02.23, Wed",
			Lessons: []extract.Lesson{
				{Time: "18:00 - 19:30", Teacher: &extract.TeacherLesson{
					Name: "History", Group: "ПИ-201", Classroom: "online", Type: "webinar",
				}},
			},
		},
	}

	var out bytes.Buffer
	require.NoError(t, ScheduleICS(days, &out))

	cal, err := ics.ParseCalendar(strings.NewReader(out.String()))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	require.Equal(t, "Mathematics", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	require.Equal(t, "D-101", events[0].GetProperty(ics.ComponentPropertyLocation).Value)
	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	// 09:55 in Moscow
	require.Equal(t, "2023-01-31T06:55:00Z", start.UTC().Format("2006-01-02T15:04:05Z"))

	end, err := events[1].GetEndAt()
	require.NoError(t, err)
	require.Equal(t, "2023-02-01T16:30:00Z", end.UTC().Format("2006-01-02T15:04:05Z"))
	require.Equal(t, "History", events[1].GetProperty(ics.ComponentPropertySummary).Value)
}
