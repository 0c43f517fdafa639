package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Kevin42127/familygroup/plugin/line"
	"github.com/Kevin42127/familygroup/server/metrics"
)

const (
	welcomeTitle = "👋 歡迎"

	welcomeMessage = "大家好！我是 Kevin 最近建立的 AI 助手。\n\n我可以幫大家：\n\n- 翻譯文字（中英日韓等）\n\n- 回答問題、解釋概念\n\n- 提供建議和協助\n\n使用方式：\n@Kevin AI 你好\n@Kevin AI 你是誰\n\n如果需要清除對話記錄，可以輸入：\n@ Kevin AI 清除資料"

	eventErrorReply = "處理訊息時發生錯誤，請稍後再試。"
)

// webhookHandler processes a LINE webhook POST. Platform verification
// pings (no signature or empty body) get an immediate success response;
// signed requests are validated and their events handled sequentially.
// The batch always answers 200 so the platform does not redeliver.
func (s *Server) webhookHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		slog.Error("webhook: read body failed", "error", err)
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}

	signature := c.Request().Header.Get(line.SignatureHeader)
	bodyString := string(body)
	if signature == "" || bodyString == "" || bodyString == "{}" {
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}

	if !line.ValidateSignature(s.line.ChannelSecret(), signature, body) {
		metrics.WebhooksRejected.Inc()
		slog.Warn("webhook: invalid signature")
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
	}
	metrics.WebhooksReceived.Inc()

	var req line.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		slog.Error("webhook: decode body failed", "error", err)
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}

	ctx := c.Request().Context()
	for _, event := range req.Events {
		s.processEvent(ctx, event)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// processEvent handles one event, absorbing panics and errors so a bad
// event cannot take down the rest of the batch.
func (s *Server) processEvent(ctx context.Context, event line.Event) {
	traceID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			metrics.EventsProcessed.WithLabelValues("error").Inc()
			slog.Error("webhook: event handler panicked",
				"trace_id", traceID,
				"event_type", event.Type,
				"panic", r,
			)
		}
	}()

	switch event.Type {
	case line.EventTypeJoin:
		s.handleJoin(ctx, traceID, event)
	case line.EventTypeMessage:
		s.handleMessage(ctx, traceID, event)
	default:
		metrics.EventsProcessed.WithLabelValues("skipped").Inc()
	}
}

func (s *Server) handleJoin(ctx context.Context, traceID string, event line.Event) {
	targetID := event.Source.ConversationID()
	if targetID == "" {
		metrics.EventsProcessed.WithLabelValues("skipped").Inc()
		return
	}

	slog.Info("joined conversation",
		"trace_id", traceID,
		"source_type", event.Source.Type,
		"target_id", targetID,
	)

	card := line.NewCardMessage(welcomeTitle, welcomeMessage, s.line.IconURL())
	if err := s.line.PushCard(ctx, targetID, card); err != nil {
		slog.Warn("webhook: welcome card failed, falling back to text",
			"trace_id", traceID,
			"error", err,
		)
		if err := s.line.PushText(ctx, targetID, welcomeMessage); err != nil {
			metrics.EventsProcessed.WithLabelValues("error").Inc()
			slog.Error("webhook: welcome text failed", "trace_id", traceID, "error", err)
			return
		}
	}
	metrics.EventsProcessed.WithLabelValues("ok").Inc()
}

func (s *Server) handleMessage(ctx context.Context, traceID string, event line.Event) {
	if event.Message == nil || event.Message.Type != line.MessageTypeText {
		metrics.EventsProcessed.WithLabelValues("skipped").Inc()
		return
	}
	userID := event.Source.UserID
	if userID == "" {
		metrics.EventsProcessed.WithLabelValues("skipped").Inc()
		return
	}

	text := event.Message.Text
	if s.profile.RequireMention {
		if !s.mentionRe.MatchString(text) {
			metrics.EventsProcessed.WithLabelValues("skipped").Inc()
			return
		}
	}
	text = strings.TrimSpace(s.mentionRe.ReplaceAllString(text, ""))
	if text == "" {
		metrics.EventsProcessed.WithLabelValues("skipped").Inc()
		return
	}

	slog.Info("handling message",
		"trace_id", traceID,
		"user_id", userID,
		"text_length", len(text),
	)

	reply := s.respond(ctx, traceID, userID, text)
	if reply == "" {
		metrics.EventsProcessed.WithLabelValues("skipped").Inc()
		return
	}

	card := line.NewCardMessage(s.line.BotName(), reply, s.line.IconURL())
	if err := s.line.ReplyCard(ctx, event.ReplyToken, card); err != nil {
		slog.Warn("webhook: card reply failed, falling back to text",
			"trace_id", traceID,
			"error", err,
		)
		if err := s.line.ReplyText(ctx, event.ReplyToken, reply); err != nil {
			metrics.EventsProcessed.WithLabelValues("error").Inc()
			slog.Error("webhook: text reply failed", "trace_id", traceID, "error", err)
			return
		}
	}
	metrics.EventsProcessed.WithLabelValues("ok").Inc()
}

// respond runs the assistant, converting a panic or empty routing into
// the generic error reply so the user always hears back.
func (s *Server) respond(ctx context.Context, traceID, userID, text string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("webhook: assistant panicked",
				"trace_id", traceID,
				"user_id", userID,
				"panic", r,
			)
			reply = eventErrorReply
		}
	}()
	return s.assistant.Respond(ctx, userID, text)
}

// buildMentionRegex matches an @-mention of the bot, tolerating space
// after the @ and case variants, e.g. "@Kevin AI" and "@ kevin ai".
func buildMentionRegex(botName string) *regexp.Regexp {
	parts := strings.Fields(botName)
	if len(parts) == 0 {
		parts = []string{"AI"}
	}
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = regexp.QuoteMeta(p)
	}
	pattern := `(?i)@\s*` + strings.Join(quoted, `\s+`) + `\s*`
	return regexp.MustCompile(pattern)
}
