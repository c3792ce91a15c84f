package exporter

import (
	"fmt"
	"io"
	"lmssynergy/lib/platforms/synergy/extract"
	"lmssynergy/lib/timezone"
	"log/slog"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ScheduleICS writes the schedule as an iCalendar file. Lessons whose date
// or time cannot be read are left out.
func ScheduleICS(days []extract.ScheduleDay, w io.Writer) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//lmssynergy//schedule//RU")

	now := time.Now()
	for _, day := range days {
		for i, lesson := range day.Lessons {
			start, end, err := timezone.LessonBounds(day.Date, lesson.Time)
			if err != nil {
				slog.Warn("skipping lesson", "date", day.Date, "time", lesson.Time, "err", err)
				continue
			}

			event := cal.AddEvent(fmt.Sprintf("%s-%d@lms.synergy.ru", start.UTC().Format("20060102T150405Z"), i))
			event.SetDtStampTime(now)
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(lesson.Name())
			event.SetLocation(lesson.Classroom())
			event.SetDescription(describe(lesson))
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

func describe(lesson extract.Lesson) string {
	var lines []string
	switch {
	case lesson.Student != nil:
		lines = append(lines,
			fmt.Sprintf("Type: %s", lesson.Student.Type),
			fmt.Sprintf("Teacher: %s", lesson.Student.Teacher),
		)
	case lesson.Teacher != nil:
		lines = append(lines,
			fmt.Sprintf("Type: %s", lesson.Teacher.Type),
			fmt.Sprintf("Group: %s", lesson.Teacher.Group),
		)
	}
	return strings.Join(lines, "\n")
}
