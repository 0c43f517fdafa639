package assistant

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// reminderAction is the closed set of reminder command verbs. Unknown
// tokens map to actionHelp rather than an error.
type reminderAction int

const (
	actionHelp reminderAction = iota
	actionAdd
	actionList
	actionDelete
)

// parseReminderAction maps the first argument token to an action.
// Chinese and English synonyms are accepted.
func parseReminderAction(token string) reminderAction {
	switch strings.ToLower(token) {
	case "新增", "建立", "add":
		return actionAdd
	case "查詢", "列表", "list":
		return actionList
	case "刪除", "取消", "delete", "remove":
		return actionDelete
	default:
		return actionHelp
	}
}

const reminderTimeFormatHelp = "時間格式錯誤，支援格式：\n" +
	"- 完整日期：2024-12-15 10:00\n" +
	"- 只有日期：2024-12-15（預設9:00）\n" +
	"- 相對時間：1小時後、30分鐘後\n" +
	"- 簡單時間：10:00、明天 10:00\n" +
	"- 關鍵字：明天、後天\n\n" +
	"如果不指定時間，預設為明天早上9點"

const reminderUsageHelp = "提醒事項指令：\n" +
	"- 提醒 新增 [內容] [時間]\n" +
	"- 提醒 查詢\n" +
	"- 提醒 刪除 [編號或內容]\n\n" +
	"或使用自然語言：\n" +
	"- 提醒我明天買菜\n" +
	"- 記得後天開會\n" +
	"- 幫我記一下明天10點買菜\n" +
	"- 提醒 刪除 1 或 提醒 刪除 買菜"

const noPendingReminders = "目前沒有待處理的提醒事項。"

// HandleReminderCommand dispatches a structured 提醒 command. args are
// the whitespace-split tokens after the 提醒 prefix.
func (a *Assistant) HandleReminderCommand(userID string, args []string) string {
	if len(args) == 0 {
		return reminderUsageHelp
	}

	switch parseReminderAction(args[0]) {
	case actionAdd:
		if len(args) < 2 {
			return "提醒事項格式：提醒 新增 [內容]\n例如：提醒 新增 買菜\n\n也可以指定時間：提醒 新增 買菜 明天"
		}
		// Time argument is optional: with only a content token the
		// reminder defaults to tomorrow morning.
		var content, timeExpr string
		if len(args) == 2 {
			content = args[1]
			timeExpr = "明天"
		} else {
			content = strings.Join(args[1:len(args)-1], " ")
			timeExpr = args[len(args)-1]
		}
		return a.addReminder(userID, content, timeExpr)

	case actionList:
		return a.listReminders(userID)

	case actionDelete:
		reminders := a.store.ListReminders(userID)
		if len(reminders) == 0 {
			return noPendingReminders
		}
		if len(args) < 2 {
			return fmt.Sprintf("請指定要刪除的提醒事項。\n例如：提醒 刪除 1 或 提醒 刪除 買菜\n\n目前有 %d 個提醒事項。", len(reminders))
		}
		return a.deleteReminder(userID, strings.Join(args[1:], " "))

	default:
		return reminderUsageHelp
	}
}

// addReminder resolves the time expression and creates the reminder.
// Resolution failure returns the format help without mutating the store.
func (a *Assistant) addReminder(userID, content, timeExpr string) string {
	scheduledTime, ok := ResolveTime(timeExpr, a.now())
	if !ok {
		return reminderTimeFormatHelp
	}

	reminder := a.store.CreateReminder(userID, content, scheduledTime)
	slog.Info("reminder created",
		"user_id", userID,
		"reminder_id", reminder.ID,
		"scheduled_time", reminder.ScheduledTime,
	)
	return fmt.Sprintf("已建立提醒事項：\n內容：%s\n時間：%s", content, formatTime(scheduledTime, a.loc))
}

func (a *Assistant) listReminders(userID string) string {
	reminders := a.store.ListReminders(userID)
	if len(reminders) == 0 {
		return noPendingReminders
	}

	var b strings.Builder
	fmt.Fprintf(&b, "您有 %d 個待處理的提醒事項：\n\n", len(reminders))
	for i, r := range reminders {
		fmt.Fprintf(&b, "%d. %s\n   時間：%s\n\n", i+1, r.Content, formatTime(r.ScheduledTime, a.loc))
	}
	return strings.TrimSpace(b.String())
}

// deleteReminder resolves target to a reminder and deletes it. target is
// either a 1-based index (digits or ordinal word) into the current
// pending list in list order, or a content keyword.
func (a *Assistant) deleteReminder(userID, target string) string {
	reminders := a.store.ListReminders(userID)
	if len(reminders) == 0 {
		return noPendingReminders
	}

	target = strings.TrimSpace(target)
	lowerTarget := strings.ToLower(target)

	// Ordinal path: bare integer or 第一..第十.
	index, hasOrdinal := 0, false
	if number := bareNumberRegex.FindString(lowerTarget); number != "" {
		if n, err := strconv.Atoi(number); err == nil {
			index, hasOrdinal = n, true
		}
	} else if word := ordinalRegex.FindString(target); word != "" {
		index, hasOrdinal = ordinalWords[word], true
	}
	if hasOrdinal {
		if index < 1 || index > len(reminders) {
			return fmt.Sprintf("找不到第 %d 個提醒事項，目前只有 %d 個。", index, len(reminders))
		}
		reminder := reminders[index-1]
		if !a.store.DeleteReminder(reminder.ID, userID) {
			return "刪除失敗。"
		}
		return fmt.Sprintf("已刪除提醒事項：%s", reminder.Content)
	}

	// Content path: bidirectional substring match against pending content.
	var matched []int
	for i, r := range reminders {
		content := strings.ToLower(r.Content)
		if strings.Contains(content, lowerTarget) || strings.Contains(lowerTarget, content) {
			matched = append(matched, i)
		}
	}

	switch len(matched) {
	case 0:
		return fmt.Sprintf("找不到包含「%s」的提醒事項。\n\n目前有 %d 個提醒事項，請使用編號或內容關鍵字刪除。", target, len(reminders))
	case 1:
		reminder := reminders[matched[0]]
		if !a.store.DeleteReminder(reminder.ID, userID) {
			return "刪除失敗。"
		}
		return fmt.Sprintf("已刪除提醒事項：%s", reminder.Content)
	default:
		// Ambiguous: list candidates numbered against the full pending
		// list and let the user retry with an ordinal. Nothing is
		// deleted.
		var b strings.Builder
		fmt.Fprintf(&b, "找到 %d 個匹配的提醒事項：\n\n", len(matched))
		for _, i := range matched {
			r := reminders[i]
			fmt.Fprintf(&b, "%d. %s\n   時間：%s\n\n", i+1, r.Content, formatTime(r.ScheduledTime, a.loc))
		}
		b.WriteString("請使用編號來指定要刪除的項目，例如：提醒 刪除 1")
		return b.String()
	}
}
