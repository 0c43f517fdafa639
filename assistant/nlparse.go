package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// reminderKeywords gate natural-language reminder detection. Text with
// none of these falls through to general chat.
var reminderKeywords = []string{
	"提醒", "記得", "幫我記", "幫我提醒", "記一下", "記住", "別忘了",
}

// deleteVerbs mark a deletion intent inside free text.
var deleteVerbs = []string{"刪除", "取消", "移除", "刪掉", "不要"}

// leadingFillerRegex strips one leading connective left over after the
// trigger keyword is removed (提醒我... -> 我...).
var leadingFillerRegex = regexp.MustCompile(`^(我|你|要|一下|的|啊|喔|哦|呢|吧)`)

// ParsedReminder is the output of natural-language reminder detection.
// Time is the raw expression, not a resolved instant; separating content
// from the time expression is all this parser does.
type ParsedReminder struct {
	Content string
	Time    string
}

// Extraction patterns, tried in order. Each pattern is total: it either
// matches with the documented capture layout or it does not. New forms
// are added to these slices, not to the dispatch code.
var (
	// Time leads, content trails: capture 1 = time, capture 2 = content.
	timeFirstPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(明天|後天|大後天|今天)\s*(.*)$`),
		regexp.MustCompile(`^(\d{1,2}:\d{2}|明天\s+\d{1,2}:\d{2}|後天\s+\d{1,2}:\d{2})\s*(.*)$`),
		regexp.MustCompile(`^(\d+\s*小時後|\d+\s*分鐘後)\s*(.*)$`),
		regexp.MustCompile(`^(\d{4}[-/]\d{2}[-/]\d{2}(?:\s+\d{1,2}:\d{2})?)\s*(.*)$`),
	}

	// Content leads, time trails: capture 1 = content, capture 2 = time,
	// optional capture 3 = clock suffix joined onto a date keyword.
	// The compound 明天 10:00 suffix must precede the bare clock form or
	// the clock pattern would swallow the keyword into the content.
	contentFirstPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?)\s+(明天|後天|大後天|今天)$`),
		regexp.MustCompile(`^(.+?)\s+(明天|後天)\s+(\d{1,2}:\d{2})$`),
		regexp.MustCompile(`^(.+?)\s+(\d{1,2}:\d{2})$`),
		regexp.MustCompile(`^(.+?)\s+(\d+\s*小時後|\d+\s*分鐘後)$`),
		regexp.MustCompile(`^(.+?)\s+(\d{4}[-/]\d{2}[-/]\d{2}(?:\s+\d{1,2}:\d{2})?)$`),
	}

	// timeHintRegex detects whether any time-ish token appears at all.
	timeHintRegex = regexp.MustCompile(`\d|明天|後天|今天|小時|分鐘`)

	// compoundRegex is the best-effort last resort for interleaved
	// keyword/clock/content text such as 明天10:00買菜 after cleaning.
	compoundRegex = regexp.MustCompile(`^(.+?)\s+(明天|後天|今天)?\s*(\d{1,2}:\d{2})?\s*(.+)$`)
)

// ParseReminder detects a reminder-creation intent in free text and
// splits it into content and a raw time expression. Returns nil when the
// text carries no reminder keyword or no content survives cleaning.
func ParseReminder(text string) *ParsedReminder {
	lower := strings.ToLower(text)
	if !containsAny(lower, reminderKeywords) {
		return nil
	}

	clean := text
	for _, keyword := range reminderKeywords {
		clean = strings.ReplaceAll(clean, keyword, "")
	}
	clean = strings.TrimSpace(clean)
	clean = strings.TrimSpace(leadingFillerRegex.ReplaceAllString(clean, ""))
	if clean == "" {
		return nil
	}

	for _, pattern := range timeFirstPatterns {
		if m := pattern.FindStringSubmatch(clean); m != nil && strings.TrimSpace(m[2]) != "" {
			return &ParsedReminder{
				Content: strings.TrimSpace(m[2]),
				Time:    strings.TrimSpace(m[1]),
			}
		}
	}

	for _, pattern := range contentFirstPatterns {
		m := pattern.FindStringSubmatch(clean)
		if m == nil || strings.TrimSpace(m[1]) == "" || strings.TrimSpace(m[2]) == "" {
			continue
		}
		timeExpr := strings.TrimSpace(m[2])
		if len(m) > 3 && m[3] != "" {
			timeExpr = timeExpr + " " + strings.TrimSpace(m[3])
		}
		return &ParsedReminder{
			Content: strings.TrimSpace(m[1]),
			Time:    timeExpr,
		}
	}

	// Content only: no time token anywhere, default to tomorrow. The
	// default-at-09:00 policy belongs to the time resolver.
	if !timeHintRegex.MatchString(clean) {
		return &ParsedReminder{Content: clean, Time: "明天"}
	}

	if m := compoundRegex.FindStringSubmatch(clean); m != nil {
		var parts []string
		if m[2] != "" {
			parts = append(parts, m[2])
		}
		if m[3] != "" {
			parts = append(parts, m[3])
		}
		timeExpr := strings.Join(parts, " ")
		if timeExpr == "" {
			timeExpr = "明天"
		}
		content := strings.TrimSpace(m[4])
		if content == "" {
			content = strings.TrimSpace(m[1])
		}
		if content != "" {
			return &ParsedReminder{Content: content, Time: timeExpr}
		}
	}

	return nil
}

// ordinalWords maps 第一..第十 to 1-based positions.
var ordinalWords = map[string]int{
	"第一": 1, "第二": 2, "第三": 3, "第四": 4, "第五": 5,
	"第六": 6, "第七": 7, "第八": 8, "第九": 9, "第十": 10,
}

var (
	ordinalRegex    = regexp.MustCompile(`第[一二三四五六七八九十]`)
	bareNumberRegex = regexp.MustCompile(`\d+`)
	deleteTailRegex = regexp.MustCompile(`(?:刪除|取消|移除|刪掉|不要)\s*(.+)$`)
)

// ParseDeleteTarget extracts a deletion target token from free text:
// either a 1-based index (from an ordinal word or a bare integer) or a
// content keyword trailing a deletion verb. Returns "" when neither form
// is present.
func ParseDeleteTarget(text string) string {
	clean := text
	for _, keyword := range reminderKeywords {
		clean = strings.ReplaceAll(clean, keyword, "")
	}
	clean = strings.TrimSpace(clean)

	if word := ordinalRegex.FindString(clean); word != "" {
		if index, ok := ordinalWords[word]; ok {
			return strconv.Itoa(index)
		}
	}
	if number := bareNumberRegex.FindString(clean); number != "" {
		return number
	}
	if m := deleteTailRegex.FindStringSubmatch(clean); m != nil {
		if target := strings.TrimSpace(m[1]); target != "" {
			return target
		}
	}
	return ""
}

// HasDeleteIntent reports whether text passes the NL deletion gate: a
// deletion verb plus either a reminder keyword, an ordinal word, or a
// digit. The extra condition keeps unrelated 刪除 usage out of the
// reminder flow.
func HasDeleteIntent(text string) bool {
	if !containsAny(text, deleteVerbs) {
		return false
	}
	if containsAny(text, reminderKeywords) {
		return true
	}
	return ordinalRegex.MatchString(text) || bareNumberRegex.MatchString(text)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
