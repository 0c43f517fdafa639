package store

import (
	"sort"
	"time"
)

// Schedule is a user-owned titled event at an absolute date-time with
// optional participants. There is no delete or update operation.
type Schedule struct {
	ID           string
	UserID       string
	Title        string
	Date         time.Time
	Participants []string
	CreatedAt    time.Time
}

// CreateSchedule creates a schedule entry for the user and returns a
// copy of it.
func (s *Store) CreateSchedule(userID, title string, date time.Time, participants []string) *Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := &Schedule{
		ID:           newID("schedule"),
		UserID:       userID,
		Title:        title,
		Date:         date,
		Participants: append([]string(nil), participants...),
		CreatedAt:    time.Now(),
	}
	s.schedules[schedule.ID] = schedule

	snapshot := *schedule
	snapshot.Participants = append([]string(nil), schedule.Participants...)
	return &snapshot
}

// ListSchedules returns the user's schedules within the optional
// inclusive [start, end] bounds, ordered by ascending date.
func (s *Store) ListSchedules(userID string, start, end *time.Time) []*Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Schedule
	for _, sc := range s.schedules {
		if sc.UserID != userID {
			continue
		}
		if start != nil && sc.Date.Before(*start) {
			continue
		}
		if end != nil && sc.Date.After(*end) {
			continue
		}
		snapshot := *sc
		snapshot.Participants = append([]string(nil), sc.Participants...)
		result = append(result, &snapshot)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}
