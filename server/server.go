// Package server hosts the HTTP surface: the LINE webhook, a health
// endpoint, and Prometheus metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kevin42127/familygroup/ai/llm"
	"github.com/Kevin42127/familygroup/assistant"
	"github.com/Kevin42127/familygroup/internal/profile"
	"github.com/Kevin42127/familygroup/internal/version"
	"github.com/Kevin42127/familygroup/plugin/line"
	"github.com/Kevin42127/familygroup/store"
)

// Server wires the webhook handler, the assistant, and the LINE client
// behind an echo instance.
type Server struct {
	echo      *echo.Echo
	profile   *profile.Profile
	store     *store.Store
	assistant *assistant.Assistant
	line      *line.Client
	mentionRe *regexp.Regexp
}

// NewServer creates a Server. The store and LLM service are injected
// so tests can substitute fakes.
func NewServer(p *profile.Profile, st *store.Store, svc llm.Service) (*Server, error) {
	lineClient, err := line.NewClient(line.Config{
		ChannelAccessToken: p.LineAccessToken,
		ChannelSecret:      p.LineChannelSecret,
		BotName:            p.BotName,
		IconURL:            p.BotIconURL,
	})
	if err != nil {
		return nil, err
	}
	return newServer(p, st, svc, lineClient), nil
}

// NewServerWithClient is NewServer with a pre-built LINE client.
// Used by tests to point the client at a local endpoint.
func NewServerWithClient(p *profile.Profile, st *store.Store, svc llm.Service, lineClient *line.Client) *Server {
	return newServer(p, st, svc, lineClient)
}

func newServer(p *profile.Profile, st *store.Store, svc llm.Service, lineClient *line.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	s := &Server{
		echo:      e,
		profile:   p,
		store:     st,
		assistant: assistant.New(st, svc, p.Timezone, p.ContextWindow),
		line:      lineClient,
		mentionRe: buildMentionRegex(p.BotName),
	}

	e.GET("/", s.healthHandler)
	e.GET("/healthz", s.healthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/webhook", s.webhookHandler)

	return s
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.String(),
	})
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo { return s.echo }

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	slog.Info("server started",
		"addr", addr,
		"mode", s.profile.Mode,
		"version", version.String(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		return err
	}
	slog.Info("server stopped")
	return nil
}
