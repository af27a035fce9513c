package update

import (
	"fmt"
	"time"
)

const maxNotifications = 40

type Notification struct {
	Level string
	Body  string
	At    time.Time
}

// eventLog is the organizer's renderer. Bubble Tea redraws the whole screen
// from organizer state on every update, so the log only keeps the
// notifications worth showing and a revision counter.
type eventLog struct {
	revision      uint64
	notifications []Notification
	now           func() time.Time
	// title resolves a todo id for messages.
	title         func(id string) string
}

func newEventLog() *eventLog {
	return &eventLog{now: time.Now, title: shortID}
}

func (e *eventLog) touch() { e.revision++ }

func (e *eventLog) notify(level, body string) {
	e.touch()
	e.notifications = append(e.notifications, Notification{Level: level, Body: body, At: e.now()})
	if len(e.notifications) > maxNotifications {
		e.notifications = e.notifications[len(e.notifications)-maxNotifications:]
	}
}

func (e *eventLog) last() (Notification, bool) {
	if len(e.notifications) == 0 {
		return Notification{}, false
	}
	return e.notifications[len(e.notifications)-1], true
}

func (e *eventLog) TodoAdded(string, string)                {}
func (e *eventLog) TodoRemoved(string, string)              {}
func (e *eventLog) TodoChanged(string)                      { e.touch() }
func (e *eventLog) CompletedToggled(string, bool)           { e.touch() }
func (e *eventLog) DueLabelChanged(string, string)          { e.touch() }
func (e *eventLog) CategoryRenamed(string, string)          { e.touch() }
func (e *eventLog) CategoryOrganized(string, []string, int) { e.touch() }
func (e *eventLog) TodoDeleted(string)                      { e.touch() }
func (e *eventLog) CategoryAdded(string, string)            { e.touch() }
func (e *eventLog) CategoryDeleted(string)                  { e.touch() }

// OverdueMarked is the one change that happens without a user action.
func (e *eventLog) OverdueMarked(id string) {
	e.notify("warn", fmt.Sprintf("%q is overdue", e.title(id)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
