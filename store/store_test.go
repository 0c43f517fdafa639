package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationFIFOTrim(t *testing.T) {
	s := New(20)

	for i := 0; i < 25; i++ {
		s.AppendConversationMessage("user-a", RoleUser, fmt.Sprintf("message %d", i))
	}

	conv := s.GetConversation("user-a")
	require.NotNil(t, conv)
	require.Len(t, conv.Messages, 20)
	// Oldest five evicted; order preserved oldest-first.
	assert.Equal(t, "message 5", conv.Messages[0].Content)
	assert.Equal(t, "message 24", conv.Messages[19].Content)
}

func TestConversationSnapshotIsolation(t *testing.T) {
	s := New(0)
	s.AppendConversationMessage("user-a", RoleUser, "hello")

	conv := s.GetConversation("user-a")
	conv.Messages[0].Content = "mutated"

	again := s.GetConversation("user-a")
	assert.Equal(t, "hello", again.Messages[0].Content)
}

func TestRecentMessagesWindow(t *testing.T) {
	s := New(20)
	for i := 0; i < 15; i++ {
		s.AppendConversationMessage("user-a", RoleUser, fmt.Sprintf("m%d", i))
	}

	recent := s.RecentMessages("user-a", 10)
	require.Len(t, recent, 10)
	assert.Equal(t, "m5", recent[0].Content)
	assert.Equal(t, "m14", recent[9].Content)

	assert.Nil(t, s.RecentMessages("nobody", 10))
}

func TestReminderOwnership(t *testing.T) {
	s := New(0)
	created := s.CreateReminder("user-a", "買菜", time.Now().Add(time.Hour))

	// User B cannot delete A's reminder by ID.
	assert.False(t, s.DeleteReminder(created.ID, "user-b"))

	// Still listable for user A afterward.
	reminders := s.ListReminders("user-a")
	require.Len(t, reminders, 1)
	assert.Equal(t, "買菜", reminders[0].Content)

	// Owner delete succeeds.
	assert.True(t, s.DeleteReminder(created.ID, "user-a"))
	assert.Empty(t, s.ListReminders("user-a"))
}

func TestListRemindersSortedByScheduledTime(t *testing.T) {
	s := New(0)
	base := time.Now()
	// Created out of order on purpose.
	s.CreateReminder("user-a", "third", base.Add(3*time.Hour))
	s.CreateReminder("user-a", "first", base.Add(1*time.Hour))
	s.CreateReminder("user-a", "second", base.Add(2*time.Hour))
	s.CreateReminder("user-b", "other", base.Add(time.Minute))

	reminders := s.ListReminders("user-a")
	require.Len(t, reminders, 3)
	assert.Equal(t, "first", reminders[0].Content)
	assert.Equal(t, "second", reminders[1].Content)
	assert.Equal(t, "third", reminders[2].Content)
}

func TestListSchedulesBounds(t *testing.T) {
	s := New(0)
	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 18, 0, 0, 0, time.UTC)
	}
	s.CreateSchedule("user-a", "early", day(5), nil)
	s.CreateSchedule("user-a", "middle", day(15), []string{"爸爸", "媽媽"})
	s.CreateSchedule("user-a", "late", day(25), nil)

	start := day(10)
	end := day(20)
	schedules := s.ListSchedules("user-a", &start, &end)
	require.Len(t, schedules, 1)
	assert.Equal(t, "middle", schedules[0].Title)
	assert.Equal(t, []string{"爸爸", "媽媽"}, schedules[0].Participants)

	all := s.ListSchedules("user-a", nil, nil)
	require.Len(t, all, 3)
	assert.Equal(t, "early", all[0].Title)
	assert.Equal(t, "late", all[2].Title)
}

func TestClearUserData(t *testing.T) {
	s := New(0)
	s.AppendConversationMessage("user-a", RoleUser, "hi")
	s.AppendConversationMessage("user-a", RoleAssistant, "hello")
	s.CreateReminder("user-a", "買菜", time.Now().Add(time.Hour))
	s.CreateSchedule("user-a", "聚餐", time.Now().Add(24*time.Hour), nil)

	// Another user's data must survive the clear.
	s.CreateReminder("user-b", "keep", time.Now().Add(time.Hour))

	s.ClearUserData("user-a")

	assert.Nil(t, s.GetConversation("user-a"))
	assert.Empty(t, s.ListReminders("user-a"))
	assert.Empty(t, s.ListSchedules("user-a", nil, nil))
	assert.Len(t, s.ListReminders("user-b"), 1)
}

func TestIDGeneration(t *testing.T) {
	s := New(0)
	a := s.CreateReminder("u", "a", time.Now())
	b := s.CreateReminder("u", "b", time.Now())
	assert.NotEqual(t, a.ID, b.ID)
	assert.Contains(t, a.ID, "reminder_")
}
