// Package metrics exposes Prometheus counters for commands, presence
// decisions and playback.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	registry = prometheus.NewRegistry()

	commands        *prometheus.CounterVec
	presence        *prometheus.CounterVec
	playbackStarted prometheus.Counter
	playbackFailed  prometheus.Counter
	activePlayback  prometheus.Gauge
)

// Init registers metrics (idempotent). Every helper calls it, so callers
// never need to.
func Init() {
	once.Do(func() {
		commands = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zara_commands_total",
			Help: "Dispatched text commands by command and outcome",
		}, []string{"command", "status"})
		presence = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zara_presence_decisions_total",
			Help: "Voice presence transitions by decision",
		}, []string{"decision"})
		playbackStarted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zara_playback_started_total",
			Help: "Clip playbacks started",
		})
		playbackFailed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zara_playback_failed_total",
			Help: "Clip playbacks that ended with an error",
		})
		activePlayback = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zara_playback_active",
			Help: "Sinks currently streaming a clip",
		})

		registry.MustRegister(
			commands, presence, playbackStarted, playbackFailed, activePlayback,
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		)
	})
}

// Registry is the registry served on /metrics.
func Registry() *prometheus.Registry {
	Init()
	return registry
}

func CommandDispatched(command, status string) {
	Init()
	commands.WithLabelValues(command, status).Inc()
}

func PresenceDecision(decision string) {
	Init()
	presence.WithLabelValues(decision).Inc()
}

// PlaybackStarted marks a sink as streaming.
func PlaybackStarted() {
	Init()
	playbackStarted.Inc()
	activePlayback.Inc()
}

// PlaybackFinished marks a sink as idle again; failed counts the error.
func PlaybackFinished(failed bool) {
	Init()
	activePlayback.Dec()
	if failed {
		playbackFailed.Inc()
	}
}
