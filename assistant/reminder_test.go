package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin42127/familygroup/ai/llm"
	"github.com/Kevin42127/familygroup/store"
)

// stubLLM satisfies llm.Service without network access. It records the
// last prompt it was called with.
type stubLLM struct {
	reply  string
	err    error
	models []string

	gotMessages []llm.Message
}

func (s *stubLLM) Chat(_ context.Context, messages []llm.Message) (string, *llm.CallStats, error) {
	s.gotMessages = messages
	if s.err != nil {
		return "", nil, s.err
	}
	return s.reply, &llm.CallStats{}, nil
}

func (s *stubLLM) ListModels(_ context.Context) ([]string, error) {
	return s.models, s.err
}

func (s *stubLLM) Warmup(_ context.Context) {}

func newTestAssistant(svc llm.Service) *Assistant {
	if svc == nil {
		svc = &stubLLM{reply: "好的"}
	}
	a := New(store.New(0), svc, DefaultTimezone, 0)
	a.now = func() time.Time { return testNow }
	a.loc = testLoc
	return a
}

func TestHandleReminderCommandAdd(t *testing.T) {
	a := newTestAssistant(nil)

	reply := a.HandleReminderCommand("user1", []string{"新增", "買菜", "明天"})
	assert.Contains(t, reply, "已建立提醒事項")
	assert.Contains(t, reply, "買菜")
	assert.Contains(t, reply, "2024-12-11 09:00")

	reminders := a.store.ListReminders("user1")
	require.Len(t, reminders, 1)
	assert.Equal(t, "買菜", reminders[0].Content)
}

func TestHandleReminderCommandAddDefaultsToTomorrow(t *testing.T) {
	a := newTestAssistant(nil)

	reply := a.HandleReminderCommand("user1", []string{"新增", "買菜"})
	assert.Contains(t, reply, "2024-12-11 09:00")
}

func TestHandleReminderCommandAddMultiWordContent(t *testing.T) {
	a := newTestAssistant(nil)

	reply := a.HandleReminderCommand("user1", []string{"新增", "買", "菜", "明天"})
	assert.Contains(t, reply, "買 菜")
	assert.Contains(t, reply, "2024-12-11 09:00")
}

func TestHandleReminderCommandAddBadTime(t *testing.T) {
	a := newTestAssistant(nil)

	reply := a.HandleReminderCommand("user1", []string{"新增", "買菜", "亂寫"})
	assert.Equal(t, reminderTimeFormatHelp, reply)
	assert.Empty(t, a.store.ListReminders("user1"), "failed add must not create a reminder")
}

func TestHandleReminderCommandList(t *testing.T) {
	a := newTestAssistant(nil)

	assert.Equal(t, noPendingReminders, a.HandleReminderCommand("user1", []string{"查詢"}))

	a.HandleReminderCommand("user1", []string{"新增", "開會", "後天"})
	a.HandleReminderCommand("user1", []string{"新增", "買菜", "明天"})

	reply := a.HandleReminderCommand("user1", []string{"查詢"})
	assert.Contains(t, reply, "您有 2 個待處理的提醒事項")
	// Sorted by scheduled time: 買菜 (tomorrow) before 開會 (day after).
	assert.Contains(t, reply, "1. 買菜")
	assert.Contains(t, reply, "2. 開會")
}

func TestDeleteReminderByOrdinal(t *testing.T) {
	a := newTestAssistant(nil)
	a.HandleReminderCommand("user1", []string{"新增", "買菜", "明天"})
	a.HandleReminderCommand("user1", []string{"新增", "開會", "後天"})

	reply := a.HandleReminderCommand("user1", []string{"刪除", "1"})
	assert.Equal(t, "已刪除提醒事項：買菜", reply)

	reminders := a.store.ListReminders("user1")
	require.Len(t, reminders, 1)
	assert.Equal(t, "開會", reminders[0].Content)
}

func TestDeleteReminderOrdinalOutOfRange(t *testing.T) {
	a := newTestAssistant(nil)
	a.HandleReminderCommand("user1", []string{"新增", "買菜", "明天"})

	reply := a.HandleReminderCommand("user1", []string{"刪除", "3"})
	assert.Equal(t, "找不到第 3 個提醒事項，目前只有 1 個。", reply)
	assert.Len(t, a.store.ListReminders("user1"), 1)
}

func TestDeleteReminderByContent(t *testing.T) {
	a := newTestAssistant(nil)
	a.HandleReminderCommand("user1", []string{"新增", "買菜", "明天"})
	a.HandleReminderCommand("user1", []string{"新增", "開會", "後天"})

	reply := a.HandleReminderCommand("user1", []string{"刪除", "開會"})
	assert.Equal(t, "已刪除提醒事項：開會", reply)
	assert.Len(t, a.store.ListReminders("user1"), 1)
}

func TestDeleteReminderAmbiguousContent(t *testing.T) {
	a := newTestAssistant(nil)
	a.HandleReminderCommand("user1", []string{"新增", "買菜", "明天"})
	a.HandleReminderCommand("user1", []string{"新增", "買水果", "後天"})

	reply := a.HandleReminderCommand("user1", []string{"刪除", "買"})
	assert.Contains(t, reply, "找到 2 個匹配的提醒事項")
	assert.Contains(t, reply, "請使用編號來指定要刪除的項目")
	assert.Len(t, a.store.ListReminders("user1"), 2, "ambiguous delete must not mutate")
}

func TestDeleteReminderContentNotFound(t *testing.T) {
	a := newTestAssistant(nil)
	a.HandleReminderCommand("user1", []string{"新增", "買菜", "明天"})

	reply := a.HandleReminderCommand("user1", []string{"刪除", "倒垃圾"})
	assert.Contains(t, reply, "找不到包含「倒垃圾」的提醒事項")
}

func TestHandleReminderCommandHelp(t *testing.T) {
	a := newTestAssistant(nil)

	assert.Equal(t, reminderUsageHelp, a.HandleReminderCommand("user1", nil))
	assert.Equal(t, reminderUsageHelp, a.HandleReminderCommand("user1", []string{"什麼"}))
}
