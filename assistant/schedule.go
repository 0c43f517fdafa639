package assistant

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// scheduleAction mirrors reminderAction for the 行程 command surface.
type scheduleAction int

const (
	scheduleActionHelp scheduleAction = iota
	scheduleActionAdd
	scheduleActionList
)

func parseScheduleAction(token string) scheduleAction {
	switch strings.ToLower(token) {
	case "新增", "建立", "add":
		return scheduleActionAdd
	case "查詢", "列表", "list":
		return scheduleActionList
	default:
		return scheduleActionHelp
	}
}

const scheduleUsageHelp = "行程指令：\n" +
	"- 行程 新增 [標題] [日期時間] [參與者...]\n" +
	"- 行程 查詢 [開始日期] [結束日期]"

const scheduleAddHelp = "行程格式：行程 新增 [標題] [日期時間] [參與者...]\n" +
	"例如：行程 新增 家庭聚餐 2024-01-15 18:00 爸爸 媽媽"

const scheduleDateFormatHelp = "日期格式錯誤，請使用：YYYY-MM-DD HH:mm"

var (
	scheduleDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	scheduleClockRegex = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// parseScheduleDate parses the strict schedule date formats: full
// YYYY-MM-DD HH:mm, or bare YYYY-MM-DD at midnight (list bounds only).
// No relative or keyword forms, no rollover.
func parseScheduleDate(expr string, loc *time.Location) (time.Time, bool) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", expr, loc); err == nil {
		return t, true
	}
	if scheduleDateRegex.MatchString(expr) {
		if t, err := time.ParseInLocation("2006-01-02", expr, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// HandleScheduleCommand dispatches a structured 行程 command. args are
// the whitespace-split tokens after the 行程 prefix. Since splitting
// separates the date from the clock, add rejoins an adjacent HH:mm token
// onto the date argument.
func (a *Assistant) HandleScheduleCommand(userID string, args []string) string {
	if len(args) == 0 {
		return scheduleUsageHelp
	}

	switch parseScheduleAction(args[0]) {
	case scheduleActionAdd:
		if len(args) < 4 || !scheduleClockRegex.MatchString(args[3]) {
			if len(args) < 3 {
				return scheduleAddHelp
			}
			return scheduleDateFormatHelp
		}
		title := args[1]
		dateExpr := args[2] + " " + args[3]
		participants := args[4:]

		date, ok := parseScheduleDate(dateExpr, a.loc)
		if !ok {
			return scheduleDateFormatHelp
		}

		schedule := a.store.CreateSchedule(userID, title, date, participants)
		slog.Info("schedule created",
			"user_id", userID,
			"schedule_id", schedule.ID,
			"date", schedule.Date,
		)

		var b strings.Builder
		fmt.Fprintf(&b, "已建立行程：\n標題：%s\n時間：%s", title, formatTime(date, a.loc))
		if len(participants) > 0 {
			fmt.Fprintf(&b, "\n參與者：%s", strings.Join(participants, "、"))
		}
		fmt.Fprintf(&b, "\nID：%s", schedule.ID)
		return b.String()

	case scheduleActionList:
		start := a.now()
		var end *time.Time
		if len(args) > 1 {
			t, ok := parseScheduleDate(args[1], a.loc)
			if !ok {
				return scheduleDateFormatHelp
			}
			start = t
		}
		if len(args) > 2 {
			t, ok := parseScheduleDate(args[2], a.loc)
			if !ok {
				return scheduleDateFormatHelp
			}
			end = &t
		}

		schedules := a.store.ListSchedules(userID, &start, end)
		if len(schedules) == 0 {
			return "目前沒有行程。"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "您有 %d 個行程：\n\n", len(schedules))
		for i, sc := range schedules {
			fmt.Fprintf(&b, "%d. %s\n   時間：%s", i+1, sc.Title, formatTime(sc.Date, a.loc))
			if len(sc.Participants) > 0 {
				fmt.Fprintf(&b, "\n   參與者：%s", strings.Join(sc.Participants, "、"))
			}
			fmt.Fprintf(&b, "\n   ID：%s\n\n", sc.ID)
		}
		return strings.TrimSpace(b.String())

	default:
		return scheduleUsageHelp
	}
}
