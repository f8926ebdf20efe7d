package observability

import (
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// RealtimeStats aggregates delivery counters and process self-stats for the
// diagnostic endpoint.
type RealtimeStats struct {
	EventsPublished uint64 `json:"events_published"`
	EventsDelivered uint64 `json:"events_delivered"`
	SendFailures    uint64 `json:"send_failures"`
	SessionsOpened  uint64 `json:"sessions_opened"`
	SessionsClosed  uint64 `json:"sessions_closed"`
	SessionsReaped  uint64 `json:"sessions_reaped"`
	TypingSignals   uint64 `json:"typing_signals"`

	RamBytes   uint64  `json:"ram_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	UptimeSec  int64   `json:"uptime_sec"`
}

// Monitor collects realtime delivery telemetry. All counters are atomic so
// dispatch hot paths never take a lock for bookkeeping.
type Monitor struct {
	log       *slog.Logger
	startedAt time.Time
	proc      *process.Process

	eventsPublished uint64
	eventsDelivered uint64
	sendFailures    uint64
	sessionsOpened  uint64
	sessionsClosed  uint64
	sessionsReaped  uint64
	typingSignals   uint64
}

func NewMonitor(log *slog.Logger) *Monitor {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Self process handle unavailable, stats will omit CPU/RAM", "err", err)
	}
	return &Monitor{log: log, startedAt: time.Now(), proc: p}
}

func (m *Monitor) IncrEventsPublished() { atomic.AddUint64(&m.eventsPublished, 1) }
func (m *Monitor) IncrEventsDelivered() { atomic.AddUint64(&m.eventsDelivered, 1) }
func (m *Monitor) IncrSendFailures()    { atomic.AddUint64(&m.sendFailures, 1) }
func (m *Monitor) IncrSessionsOpened()  { atomic.AddUint64(&m.sessionsOpened, 1) }
func (m *Monitor) IncrSessionsClosed()  { atomic.AddUint64(&m.sessionsClosed, 1) }
func (m *Monitor) IncrSessionsReaped()  { atomic.AddUint64(&m.sessionsReaped, 1) }
func (m *Monitor) IncrTypingSignals()   { atomic.AddUint64(&m.typingSignals, 1) }

// Snapshot returns a point-in-time copy of the counters plus process memory
// and CPU readings.
func (m *Monitor) Snapshot() RealtimeStats {
	stats := RealtimeStats{
		EventsPublished: atomic.LoadUint64(&m.eventsPublished),
		EventsDelivered: atomic.LoadUint64(&m.eventsDelivered),
		SendFailures:    atomic.LoadUint64(&m.sendFailures),
		SessionsOpened:  atomic.LoadUint64(&m.sessionsOpened),
		SessionsClosed:  atomic.LoadUint64(&m.sessionsClosed),
		SessionsReaped:  atomic.LoadUint64(&m.sessionsReaped),
		TypingSignals:   atomic.LoadUint64(&m.typingSignals),
		UptimeSec:       int64(time.Since(m.startedAt).Seconds()),
	}

	if m.proc != nil {
		if memInfo, err := m.proc.MemoryInfo(); err == nil {
			stats.RamBytes = memInfo.RSS
		}
		if cpu, err := m.proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		}
	}
	return stats
}
