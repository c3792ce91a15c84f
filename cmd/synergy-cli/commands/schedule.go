package commands

import (
	"fmt"
	"lmssynergy/lib/exporter"
	"lmssynergy/lib/platforms/synergy"
	"lmssynergy/lib/platforms/synergy/extract"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var icsPath *string

func init() {
	icsPath = scheduleCmd.Flags().String("ics", "", "Also write the schedule as an iCalendar file to this path.")
	rootCmd.AddCommand(scheduleCmd)
}

func lessonRow(date string, lesson extract.Lesson) table.Row {
	switch {
	case lesson.Student != nil:
		return table.Row{date, lesson.Time, lesson.Student.Name, lesson.Student.Type, lesson.Student.Classroom, lesson.Student.Teacher}
	case lesson.Teacher != nil:
		return table.Row{date, lesson.Time, lesson.Teacher.Name, lesson.Teacher.Type, lesson.Teacher.Classroom, lesson.Teacher.Group}
	}
	return table.Row{date, lesson.Time}
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule [--ics <path/to/schedule.ics>]",
	Short: "Prints the lessons of the current schedule.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			days, err := client.Schedule(cmd.Context())
			if err != nil {
				return err
			}

			if *icsPath != "" {
				f, err := os.Create(*icsPath)
				if err != nil {
					return err
				}
				defer f.Close()
				err = exporter.ScheduleICS(days, f)
				if err != nil {
					return fmt.Errorf("write %s: %w", *icsPath, err)
				}
			}

			return render(days, func() {
				t := newTable(table.Row{"Date", "Time", "Lesson", "Type", "Classroom", "Teacher / Group"})
				for _, day := range days {
					for _, lesson := range day.Lessons {
						t.AppendRow(lessonRow(day.Date, lesson))
					}
				}
				t.Render()
			})
		})
	},
}
