// Package metrics exposes the bot's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrbot_updates_total",
		Help: "Telegram updates received by kind",
	}, []string{"kind"}) // kind=message|callback|other

	repliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrbot_replies_total",
		Help: "Messages sent or edited in reply to updates",
	}, []string{"keyboard"}) // keyboard=true|false

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrbot_rate_limited_total",
		Help: "Updates dropped by the per-user rate limit",
	})

	sendFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrbot_send_failures_total",
		Help: "Outbound Telegram calls that failed after retries",
	}, []string{"kind"}) // kind=timeout|dns|dial|tls|http_4xx|http_5xx|unknown

	panicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrbot_handler_panics_total",
		Help: "Handler panics recovered by middleware",
	})

	rendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrbot_renders_total",
		Help: "QR renders by source and color",
	}, []string{"source", "color"}) // source=generate|batch|cli

	renderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrbot_render_failures_total",
		Help: "QR renders that failed",
	}, []string{"source"})

	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrbot_scans_total",
		Help: "Scan attempts by outcome",
	}, []string{"outcome"}) // outcome=ok|not_found|fail

	decodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qrbot_decode_duration_seconds",
		Help:    "Latency of the remote decode call",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	journalErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrbot_journal_errors_total",
		Help: "Journal operations that failed",
	}, []string{"op"}) // op=record|prune
)

func IncUpdate(kind string) { updatesTotal.WithLabelValues(kind).Inc() }

func IncReply(keyboard bool) {
	label := "false"
	if keyboard {
		label = "true"
	}
	repliesTotal.WithLabelValues(label).Inc()
}

func IncSendFailure(kind string) { sendFailures.WithLabelValues(kind).Inc() }

func IncRateLimited() { rateLimitedTotal.Inc() }
func IncPanic()       { panicsTotal.Inc() }

// RecordRender counts a render attempt; failed renders are not attributed to a color.
func RecordRender(source, color string, err error) {
	if err != nil {
		renderFailures.WithLabelValues(source).Inc()
		return
	}
	rendersTotal.WithLabelValues(source, color).Inc()
}

// RecordScan counts a scan by outcome and observes the decode latency when it ran.
func RecordScan(outcome string, took time.Duration) {
	scansTotal.WithLabelValues(outcome).Inc()
	if took > 0 {
		decodeDuration.Observe(took.Seconds())
	}
}

func IncJournalError(op string) { journalErrors.WithLabelValues(op).Inc() }
