// Package assistant routes incoming chat messages to the reminder and
// schedule managers or to the LLM, and turns natural-language Chinese
// phrasing into structured commands.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/Kevin42127/familygroup/ai/llm"
	"github.com/Kevin42127/familygroup/plugin/markdown"
	"github.com/Kevin42127/familygroup/server/metrics"
	"github.com/Kevin42127/familygroup/store"
)

const (
	// systemPrompt is the persona sent ahead of every chat completion.
	systemPrompt = "你是一個友善的家庭群組助理，名叫 Kevin AI。" +
		"請用繁體中文回答，語氣親切自然，回答簡潔實用。" +
		"如果使用者詢問提醒或行程相關功能，可以告訴他們輸入「提醒」或「行程」查看用法。"

	// defaultContextWindow is how many prior messages are replayed to
	// the LLM when no explicit window is configured.
	defaultContextWindow = 10

	// maxConcurrentChats bounds in-flight LLM completions across all users.
	maxConcurrentChats = 8

	chatErrorReply = "抱歉，處理您的訊息時發生錯誤。"

	clearDataReply = "已清除您的所有資料（對話紀錄、提醒事項、行程）。"

	rateLimitReply = "訊息有點太快了，請稍等幾秒再試一次。"
)

var clearCommands = []string{"清除資料", "清除數據", "/clear"}

var modelListKeywords = []string{"模型列表", "有哪些模型", "list models"}

// Assistant holds the per-user store, the LLM service, and the routing
// state for a single bot instance.
type Assistant struct {
	store         *store.Store
	llm           llm.Service
	loc           *time.Location
	contextWindow int

	sem *semaphore.Weighted

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	// now is swappable for tests.
	now func() time.Time
}

// New creates an Assistant. timezone falls back to Asia/Taipei when
// empty or unknown; contextWindow bounds the history replayed to the
// LLM, values <= 0 fall back to the default.
func New(st *store.Store, svc llm.Service, timezone string, contextWindow int) *Assistant {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	if contextWindow <= 0 {
		contextWindow = defaultContextWindow
	}
	return &Assistant{
		store:         st,
		llm:           svc,
		loc:           Location(timezone),
		contextWindow: contextWindow,
		sem:           semaphore.NewWeighted(maxConcurrentChats),
		limiters:      make(map[string]*rate.Limiter),
		now:           time.Now,
	}
}

// IsClearCommand reports whether text is one of the clear-data commands.
func IsClearCommand(text string) bool {
	t := strings.TrimSpace(text)
	for _, cmd := range clearCommands {
		if t == cmd {
			return true
		}
	}
	return false
}

// ClearData drops all stored data for userID and returns the
// confirmation message.
func (a *Assistant) ClearData(userID string) string {
	a.store.ClearUserData(userID)
	slog.Info("cleared user data", "user_id", userID)
	return clearDataReply
}

// Respond routes a single user message and returns the reply text.
// Routing precedence: clear-data, model list, natural-language reminder
// add, natural-language reminder delete, structured 提醒/行程 commands,
// and finally LLM chat.
func (a *Assistant) Respond(ctx context.Context, userID, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if IsClearCommand(text) {
		return a.ClearData(userID)
	}

	if containsAny(strings.ToLower(text), modelListKeywords) {
		return a.listModels(ctx)
	}

	// Structured commands take precedence over natural language so
	// 提醒 新增 買菜 明天 is never re-parsed as a reminder named 新增 買菜.
	fields := strings.Fields(text)
	switch fields[0] {
	case "提醒":
		if len(fields) > 1 {
			return a.HandleReminderCommand(userID, fields[1:])
		}
		return reminderUsageHelp
	case "行程":
		return a.HandleScheduleCommand(userID, fields[1:])
	}

	// Natural-language reminder creation, e.g. 提醒我明天買菜.
	// Delete phrasing also contains reminder keywords, so the delete
	// intent is checked first to keep 刪除第一個提醒 out of the add path.
	if !HasDeleteIntent(text) {
		if parsed := ParseReminder(text); parsed != nil {
			return a.HandleReminderCommand(userID, []string{"新增", parsed.Content, parsed.Time})
		}
	} else {
		if len(a.store.ListReminders(userID)) == 0 {
			return noPendingReminders
		}
		if target := ParseDeleteTarget(text); target != "" {
			return a.deleteReminder(userID, target)
		}
	}

	return a.chat(ctx, userID, text)
}

func (a *Assistant) listModels(ctx context.Context) string {
	models, err := a.llm.ListModels(ctx)
	if err != nil {
		slog.Error("list models failed", "error", err)
		return chatErrorReply
	}
	if len(models) == 0 {
		return "目前沒有可用的模型。"
	}
	var sb strings.Builder
	sb.WriteString("可用模型：\n")
	for _, m := range models {
		sb.WriteString("- ")
		sb.WriteString(m)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (a *Assistant) chat(ctx context.Context, userID, text string) string {
	if !a.limiter(userID).Allow() {
		slog.Warn("chat rate limited", "user_id", userID)
		return rateLimitReply
	}

	if err := a.sem.Acquire(ctx, 1); err != nil {
		slog.Error("chat semaphore acquire failed", "error", err)
		return chatErrorReply
	}
	defer a.sem.Release(1)

	history := toLLMMessages(a.store.RecentMessages(userID, a.contextWindow))
	messages := llm.FormatMessages(systemPrompt, text, history)

	reply, stats, err := a.llm.Chat(ctx, messages)
	if err != nil {
		metrics.LLMRequests.WithLabelValues("error").Inc()
		slog.Error("llm chat failed", "user_id", userID, "error", err)
		return chatErrorReply
	}
	metrics.LLMRequests.WithLabelValues("ok").Inc()
	if stats != nil {
		metrics.LLMDuration.Observe(float64(stats.TotalDurationMs) / 1000)
		slog.Debug("llm chat completed",
			"user_id", userID,
			"total_tokens", stats.TotalTokens,
			"duration_ms", stats.TotalDurationMs,
		)
	}

	reply = markdown.ToPlainText(reply)
	if reply == "" {
		return chatErrorReply
	}

	a.store.AppendConversationMessage(userID, store.RoleUser, text)
	a.store.AppendConversationMessage(userID, store.RoleAssistant, reply)

	return reply
}

// limiter returns the per-user chat limiter, creating it on first use.
// 1 request per 2 seconds with a burst of 3.
func (a *Assistant) limiter(userID string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()
	lim, ok := a.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(2*time.Second), 3)
		a.limiters[userID] = lim
	}
	return lim
}

func toLLMMessages(msgs []store.Message) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case store.RoleAssistant:
			out = append(out, llm.AssistantMessage(m.Content))
		default:
			out = append(out, llm.UserMessage(m.Content))
		}
	}
	return out
}
