package commands

import (
	"context"
	"errors"
	"fmt"
	"lmssynergy/lib/platforms/synergy"
	"lmssynergy/lib/platforms/synergy/extract"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	archive    *bool
	discipline *string
)

func init() {
	archive = notificationsCmd.Flags().Bool("archive", false, "Read the notification archive instead of the current notifications.")
	discipline = eventsCmd.Flags().StringP("discipline", "d", "", "Only the discipline whose title is closest to this.")
	rootCmd.AddCommand(
		newsCmd,
		disciplinesCmd,
		eventsCmd,
		marksCmd,
		notificationsCmd,
		messagesCmd,
		curatorsCmd,
		tutorsCmd,
	)
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Prints the portal announcements.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			news, err := client.News(cmd.Context())
			if err != nil {
				return err
			}
			return render(news, func() {
				t := newTable(table.Row{"Date", "Title", "Link"})
				for _, item := range news {
					t.AppendRow(table.Row{item.Date, item.Title, item.Link})
				}
				t.Render()
			})
		})
	},
}

var disciplinesCmd = &cobra.Command{
	Use:   "disciplines",
	Short: "Prints the disciplines of the student with their scores.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			disciplines, err := client.Disciplines(cmd.Context())
			if err != nil {
				return err
			}
			return render(disciplines, func() {
				t := newTable(table.Row{"Discipline", "Control", "Score", "Grade"})
				for _, d := range disciplines {
					t.AppendRow(table.Row{d.Title, d.ControlType, d.CurrentScore, d.FinalGrade})
				}
				t.Render()
			})
		})
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events [--discipline <title>]",
	Short: "Prints the graded events of every discipline, or of one.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			var all []extract.DisciplineEvents
			if *discipline == "" {
				var err error
				all, err = client.Events(cmd.Context())
				if err != nil {
					return err
				}
			} else {
				disciplines, err := client.Disciplines(cmd.Context())
				if err != nil {
					return err
				}
				match, ok := synergy.FindDiscipline(disciplines, *discipline)
				if !ok {
					return fmt.Errorf("no discipline matches %q", *discipline)
				}
				events, err := client.DisciplineEvents(cmd.Context(), match)
				if err != nil {
					return err
				}
				all = []extract.DisciplineEvents{events}
			}

			return render(all, func() {
				t := newTable(table.Row{"Discipline", "Event", "Window", "Max", "Result"})
				for _, d := range all {
					for _, e := range d.Events {
						t.AppendRow(table.Row{d.Discipline, e.Name, e.AccessWindow, e.MaxGrade, e.Result})
					}
					t.AppendRow(table.Row{d.Discipline, "current grade", "", "", d.CurrentGrade})
				}
				t.Render()
			})
		})
	},
}

var marksCmd = &cobra.Command{
	Use:   "marks",
	Short: "Prints the journal marks.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			marks, err := client.Marks(cmd.Context())
			if err != nil {
				return err
			}
			return render(marks, func() {
				t := newTable(table.Row{"Date", "Time", "Discipline", "Type", "Teacher", "Mark", "Hours"})
				for _, m := range marks {
					t.AppendRow(table.Row{m.Date, m.Time, m.Discipline, m.Type, m.Teacher, m.Mark, m.Hours})
				}
				t.Render()
			})
		})
	},
}

func notificationTable(notifications []extract.Notification) func() {
	return func() {
		t := newTable(table.Row{"Discipline", "Teacher", "Event", "Score", "Message"})
		for _, n := range notifications {
			t.AppendRow(table.Row{n.Discipline, n.Teacher, n.Event, n.CurrentScore, n.Message})
		}
		t.Render()
	}
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications [--archive]",
	Short: "Prints every page of notifications.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			read := client.Notifications
			if *archive {
				read = client.NotificationsArchive
			}
			notifications, err := read(cmd.Context())
			if err != nil {
				return err
			}
			return render(notifications, notificationTable(notifications))
		})
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Prints the unread messages.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			messages, err := client.UnreadMessages(cmd.Context())
			if err != nil {
				return err
			}
			return render(messages, func() {
				t := newTable(table.Row{"Date", "Sender", "Subject", "Link"})
				for _, m := range messages {
					t.AppendRow(table.Row{m.Date, m.Sender, m.Subject, m.URL})
				}
				t.Render()
			})
		})
	},
}

func contactTable(contacts []extract.Contact) func() {
	return func() {
		t := newTable(table.Row{"Name", "Phones", "Emails"})
		for _, c := range contacts {
			t.AppendRow(table.Row{c.Name, strings.Join(c.Phones, "\n"), strings.Join(c.Emails, "\n")})
		}
		t.Render()
	}
}

func contactsCommand(use, short string, read func(*synergy.Client, context.Context) ([]extract.Contact, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
				contacts, err := read(client, cmd.Context())
				if errors.Is(err, synergy.ErrNotStudent) {
					return errors.New("only student accounts have curators and tutors")
				}
				if err != nil {
					return err
				}
				return render(contacts, contactTable(contacts))
			})
		},
	}
}

var curatorsCmd = contactsCommand(
	"curators",
	"Prints the contacts of the student's curators.",
	(*synergy.Client).Curators,
)

var tutorsCmd = contactsCommand(
	"tutors",
	"Prints the contacts of the student's tutors.",
	(*synergy.Client).Tutors,
)
