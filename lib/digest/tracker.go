package digest

import (
	"lmssynergy/lib/platforms/synergy/extract"
	"strings"
)

// Tracker remembers the items of previous digests so a long running
// watcher mails each notification and message once.
type Tracker struct {
	seen map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{seen: map[string]struct{}{}}
}

func notificationKey(n extract.Notification) string {
	return strings.Join([]string{"notification", n.Discipline, n.Event, n.Message}, "\x00")
}

func messageKey(m extract.UnreadMessage) string {
	if m.URL != "" && m.URL != "-" {
		return "message\x00" + m.URL
	}
	return strings.Join([]string{"message", m.Sender, m.Subject, m.Date}, "\x00")
}

func (t *Tracker) mark(key string) bool {
	_, ok := t.seen[key]
	if ok {
		return false
	}
	t.seen[key] = struct{}{}
	return true
}

// Fresh returns d without the items returned by earlier calls.
func (t *Tracker) Fresh(d Digest) Digest {
	out := d
	out.Notifications = nil
	out.UnreadMessages = nil
	for _, n := range d.Notifications {
		if t.mark(notificationKey(n)) {
			out.Notifications = append(out.Notifications, n)
		}
	}
	for _, m := range d.UnreadMessages {
		if t.mark(messageKey(m)) {
			out.UnreadMessages = append(out.UnreadMessages, m)
		}
	}
	return out
}
