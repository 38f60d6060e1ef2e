package planner

import (
	"context"
	"fmt"
	"time"

	"studyplan-api/domain"
)

// A reminder only fires when a check runs within a minute of its timestamp; a
// check cadence coarser than the window can skip it.
const reminderWindow = time.Minute

var reminderLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

// DueReminders returns the incomplete tasks whose reminder falls within one
// minute of now and marks each as shown, so a reminder fires at most once.
// The marks are persisted before the due tasks are returned.
func (s *Store) DueReminders(ctx context.Context) ([]domain.Task, error) {
	now := s.now()
	due := []domain.Task{}
	changed := false
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.Reminder == "" || t.Completed || t.ReminderShown {
			continue
		}
		at, err := parseReminder(t.Reminder)
		if err != nil {
			continue
		}
		delta := now.Sub(at)
		if delta < 0 {
			delta = -delta
		}
		if delta < reminderWindow {
			t.ReminderShown = true
			changed = true
			due = append(due, *t)
		}
	}
	if changed {
		if err := s.db.SaveTasks(ctx, s.userID, s.tasks); err != nil {
			return nil, err
		}
		s.notify()
	}
	return due, nil
}

func parseReminder(value string) (time.Time, error) {
	for _, layout := range reminderLayouts {
		if at, err := time.Parse(layout, value); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized reminder timestamp %q", value)
}
