// Package metrics defines the Prometheus instrumentation for the
// webhook server and the LLM bridge.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhooksReceived counts webhook POSTs that passed signature
	// validation.
	WebhooksReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "familygroup_webhooks_received_total",
		Help: "Webhook requests accepted after signature validation.",
	})

	// WebhooksRejected counts webhook POSTs rejected by signature
	// validation.
	WebhooksRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "familygroup_webhooks_rejected_total",
		Help: "Webhook requests rejected by signature validation.",
	})

	// EventsProcessed counts processed webhook events by result
	// (ok, skipped, error).
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "familygroup_events_processed_total",
		Help: "Webhook events processed, labelled by result.",
	}, []string{"result"})

	// LLMRequests counts chat completion calls by outcome (ok, error).
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "familygroup_llm_requests_total",
		Help: "LLM chat completion requests, labelled by outcome.",
	}, []string{"outcome"})

	// LLMDuration observes chat completion latency in seconds.
	LLMDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "familygroup_llm_request_duration_seconds",
		Help:    "LLM chat completion latency.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)
