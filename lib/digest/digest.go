// Package digest mails a summary of what is new on the portal.
package digest

import (
	"context"
	"fmt"
	"lmssynergy/lib/platforms/synergy"
	"lmssynergy/lib/platforms/synergy/extract"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("digest")

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Digest struct {
	Profile        synergy.Profile
	Notifications  []extract.Notification
	UnreadMessages []extract.UnreadMessage
	GeneratedAt    time.Time
}

func (d Digest) Empty() bool {
	return len(d.Notifications) == 0 && len(d.UnreadMessages) == 0
}

func (d Digest) Subject() string {
	return fmt.Sprintf(
		"Synergy: %d notifications, %d unread messages",
		len(d.Notifications), len(d.UnreadMessages),
	)
}

func (d Digest) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, here is what is new on the portal", d.Profile.Name)
	if !d.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, " as of %s", d.GeneratedAt.Format("02.01.2006 15:04"))
	}
	b.WriteString(".\n")

	if len(d.Notifications) > 0 {
		b.WriteString("\nNotifications\n")
		for _, n := range d.Notifications {
			fmt.Fprintf(&b, "- %s, %s (%s): %s\n", n.Discipline, n.Event, n.Teacher, n.Message)
		}
	}
	if len(d.UnreadMessages) > 0 {
		b.WriteString("\nUnread messages\n")
		for _, m := range d.UnreadMessages {
			fmt.Fprintf(&b, "- %s from %s at %s\n  %s\n", m.Subject, m.Sender, m.Date, m.URL)
		}
	}
	if d.Empty() {
		b.WriteString("\nNothing new.\n")
	}
	return b.String()
}

// Email builds the message without sending it.
func (d Digest) Email(from string, to []string) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Synergy Digest <%s>", from)
	mail.To = to
	mail.Subject = d.Subject()
	mail.Text = []byte(d.Text())
	return mail
}

// Send mails the digest, falling back to an unauthenticated connection for
// relays that do not support AUTH.
func Send(ctx context.Context, config SmtpConfig, to []string, d Digest) error {
	_, span := tracer.Start(ctx, "digest:Send")
	defer span.End()

	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	mail := d.Email(config.EmailAddress, to)
	addr := fmt.Sprintf("%s:%d", config.Server, config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", config.EmailAddress, config.Password, config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
