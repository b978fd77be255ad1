package observability

import (
	"context"
	"eyesup/domain/event"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// MonitoringStats aggregates the relay metrics served by the health endpoint.
type MonitoringStats struct {
	// --- RELAY METRICS ---
	MessagesIngested uint64     `json:"messages_ingested"`
	RepliesSent      uint64     `json:"replies_sent"`
	Announcements    uint64     `json:"announcements"`
	LiveChannels     int        `json:"live_channels"`
	LastMessageAt    *time.Time `json:"last_message_at,omitempty"`

	// --- PROCESS METRICS ---
	Status     string  `json:"status"`
	CPUPercent float64 `json:"cpu_percent"`
	RAMPercent float32 `json:"ram_percent"`

	// --- SYSTEM METRICS ---
	AllocMemMb uint64 `json:"alloc_mem_mb"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
	UptimeSec  int64  `json:"uptime_sec"`
}

// MonitoringManager counts relay activity. It is fed as a side sink and by
// the health monitoring worker.
type MonitoringManager struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats MonitoringStats
	startedAt   time.Time

	messagesIngested atomic.Uint64
	repliesSent      atomic.Uint64
	announcements    atomic.Uint64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log, startedAt: time.Now()}
}

// Consume implements contract.EventSink.
func (mm *MonitoringManager) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageIngested:
		if evt.Message.Outgoing {
			mm.repliesSent.Add(1)
		} else {
			mm.messagesIngested.Add(1)
		}
		at := evt.Message.Timestamp
		mm.mu.Lock()
		mm.latestStats.LastMessageAt = &at
		mm.mu.Unlock()
	case event.Announcement:
		mm.announcements.Add(1)
	}
	return nil
}

// RecordProcess stores the last process sample and the live channel count.
func (mm *MonitoringManager) RecordProcess(status string, cpu float64, ram float32, liveChannels int) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.latestStats.Status = status
	mm.latestStats.CPUPercent = cpu
	mm.latestStats.RAMPercent = ram
	mm.latestStats.LiveChannels = liveChannels
}

// GetLatest returns a copy of the stats with the counters and Go runtime
// figures read at call time.
func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	stats := mm.latestStats
	mm.mu.RUnlock()

	stats.MessagesIngested = mm.messagesIngested.Load()
	stats.RepliesSent = mm.repliesSent.Load()
	stats.Announcements = mm.announcements.Load()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats.AllocMemMb = m.Alloc / 1024 / 1024
	stats.NumGC = m.NumGC
	stats.Goroutines = runtime.NumGoroutine()
	stats.UptimeSec = int64(time.Since(mm.startedAt).Seconds())
	return stats
}
