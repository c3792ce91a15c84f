package timezone

import (
	"fmt"
	"strings"
	"time"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		// environments without tzdata, moscow has had a fixed offset since 2014
		Location = time.FixedZone("MSK", 3*60*60)
	}
}

// the portal renders every date and time in moscow time regardless of where
// the client runs
func Now() time.Time {
	return time.Now().In(Location)
}

const (
	dateLayout = "02.01.06"
	timeLayout = "15:04"
)

// LessonBounds turns a schedule section date ("31.01.23, Tue") and a lesson
// time range ("09:55 - 11:40") into absolute start and end times.
func LessonBounds(date, span string) (time.Time, time.Time, error) {
	day, _, _ := strings.Cut(strings.TrimSpace(date), ",")
	day = strings.TrimSpace(day)

	from, to, found := strings.Cut(span, "-")
	if !found {
		return time.Time{}, time.Time{}, fmt.Errorf("time range '%s' has no separator", span)
	}

	start, err := time.ParseInLocation(
		dateLayout+" "+timeLayout,
		day+" "+strings.TrimSpace(from),
		Location,
	)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation(
		dateLayout+" "+timeLayout,
		day+" "+strings.TrimSpace(to),
		Location,
	)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("time range '%s' ends before it starts", span)
	}

	return start, end, nil
}
