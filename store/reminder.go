package store

import (
	"sort"
	"time"
)

// ReminderStatus is the lifecycle state of a reminder.
type ReminderStatus string

const (
	ReminderStatusPending ReminderStatus = "pending"
	// Completed and cancelled are reserved for a future firing mechanism;
	// no current flow produces them.
	ReminderStatusCompleted ReminderStatus = "completed"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

// Reminder is a user-owned, time-stamped note. Reminders are inert data:
// they are listed on demand and never fire on their own.
type Reminder struct {
	ID            string
	UserID        string
	Content       string
	ScheduledTime time.Time
	Status        ReminderStatus
	CreatedAt     time.Time
}

// CreateReminder creates a pending reminder for the user and returns a
// copy of it.
func (s *Store) CreateReminder(userID, content string, scheduledTime time.Time) *Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminder := &Reminder{
		ID:            newID("reminder"),
		UserID:        userID,
		Content:       content,
		ScheduledTime: scheduledTime,
		Status:        ReminderStatusPending,
		CreatedAt:     time.Now(),
	}
	s.reminders[reminder.ID] = reminder

	snapshot := *reminder
	return &snapshot
}

// ListReminders returns the user's pending reminders ordered by
// ascending scheduled time. The result is a copy.
func (s *Store) ListReminders(userID string) []*Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Reminder
	for _, r := range s.reminders {
		if r.UserID == userID && r.Status == ReminderStatusPending {
			snapshot := *r
			result = append(result, &snapshot)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ScheduledTime.Equal(result[j].ScheduledTime) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ScheduledTime.Before(result[j].ScheduledTime)
	})
	return result
}

// DeleteReminder deletes the reminder with the given ID if and only if
// it belongs to the user. Returns false when the reminder does not exist
// or is owned by someone else; cross-user deletion is indistinguishable
// from not-found.
func (s *Store) DeleteReminder(id, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminder, ok := s.reminders[id]
	if !ok || reminder.UserID != userID {
		return false
	}
	delete(s.reminders, id)
	return true
}
