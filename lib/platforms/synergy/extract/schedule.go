package extract

import (
	"fmt"
	"lmssynergy/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type StudentLesson struct {
	Name      string `json:"name"`
	Classroom string `json:"classroom"`
	Type      string `json:"type"`
	Teacher   string `json:"teacher"`
}

type TeacherLesson struct {
	Name      string `json:"name"`
	Group     string `json:"group"`
	Classroom string `json:"classroom"`
	Type      string `json:"type"`
}

// Lesson has exactly one of Student or Teacher set, matching the role the
// schedule was read for.
type Lesson struct {
	Time    string         `json:"time"`
	Student *StudentLesson `json:"student,omitempty"`
	Teacher *TeacherLesson `json:"teacher,omitempty"`
}

func (l Lesson) Name() string {
	switch {
	case l.Student != nil:
		return l.Student.Name
	case l.Teacher != nil:
		return l.Teacher.Name
	}
	return ""
}

func (l Lesson) Classroom() string {
	switch {
	case l.Student != nil:
		return l.Student.Classroom
	case l.Teacher != nil:
		return l.Teacher.Classroom
	}
	return ""
}

type ScheduleDay struct {
	Date    string   `json:"date"`
	Lessons []Lesson `json:"lessons"`
}

const scheduleSelector = "table.table-list.v-scrollable"

// Schedule reads /schedule/academ. Date headers are <th> rows, the lessons
// of a date follow it.
func Schedule(doc *goquery.Document, role Role) ([]ScheduleDay, error) {
	if role != RoleStudent && role != RoleTeacher {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	table, err := mustFind(doc, "schedule", scheduleSelector)
	if err != nil {
		return nil, err
	}

	days := []ScheduleDay{}
	_, err = walkRows(table.First().Find("tbody tr"), func(row, cells *goquery.Selection) error {
		if header := row.ChildrenFiltered("th"); header.Length() > 0 {
			days = append(days, ScheduleDay{
				Date:    htmlutil.Text(header.First()),
				Lessons: []Lesson{},
			})
			return nil
		}
		if cells.Length() == 0 {
			return nil
		}
		if len(days) == 0 {
			return &LayoutError{
				Page:     "schedule",
				Selector: scheduleSelector + " tbody tr th",
				Reason:   "lesson row before the first date",
			}
		}
		if cells.Length() < 5 {
			return &LayoutError{
				Page:     "schedule",
				Selector: scheduleSelector + " tbody tr td",
				Reason:   fmt.Sprintf("lesson row has %d cells, expected 5", cells.Length()),
			}
		}

		lesson := Lesson{Time: cell(cells, 0)}
		switch role {
		case RoleStudent:
			lesson.Student = &StudentLesson{
				Name:      cell(cells, 1),
				Classroom: cell(cells, 2),
				Type:      cell(cells, 3),
				Teacher:   cell(cells, 4),
			}
		case RoleTeacher:
			lesson.Teacher = &TeacherLesson{
				Name:      cell(cells, 1),
				Group:     cell(cells, 2),
				Classroom: cell(cells, 3),
				Type:      cell(cells, 4),
			}
		}

		day := &days[len(days)-1]
		day.Lessons = append(day.Lessons, lesson)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return days, nil
}
