package workers

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessRecorder receives each process sample.
type ProcessRecorder interface {
	RecordProcess(status string, cpu float64, ram float32, liveChannels int)
}

// HealthMonitoringWorker samples the relay process on every tick.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	recorder       ProcessRecorder
	liveChannels   func() int
	metricInterval time.Duration
	pid            int32
}

func NewHealthMonitoringWorker(log *slog.Logger, recorder ProcessRecorder, liveChannels func() int, metricInterval time.Duration) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		recorder:       recorder,
		liveChannels:   liveChannels,
		metricInterval: metricInterval,
		pid:            int32(os.Getpid()),
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(w.pid)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			w.sample(p)
		}
	}
}

func (w *HealthMonitoringWorker) sample(p *process.Process) {
	status, err := processStatus(p)
	if err != nil {
		w.log.Error("Error while finding process status", "err", err)
		return
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		w.log.Error("Error while finding process cpu usage", "err", err)
		return
	}
	ram, err := p.MemoryPercent()
	if err != nil {
		w.log.Error("Error while finding process ram usage", "err", err)
		return
	}
	w.recorder.RecordProcess(toStatus(status), cpu, ram, w.liveChannels())
}

// processStatus accepts both shapes gopsutil has returned for Status.
func processStatus(p *process.Process) (string, error) {
	raw, err := p.Status()
	if err != nil {
		return "", err
	}
	var status any = raw
	switch v := status.(type) {
	case string:
		return v, nil
	case []string:
		if len(v) > 0 {
			return v[0], nil
		}
	}
	return "", nil
}

// toStatus maps the single letter ps codes returned by gopsutil.
func toStatus(code string) string {
	switch strings.ToUpper(code) {
	case "R":
		return "running"
	case "S":
		return "sleeping"
	case "D":
		return "waiting"
	case "T":
		return "stopped"
	case "Z":
		return "zombie"
	case "I":
		return "idle"
	case "RUNNING":
		return "running"
	case "SLEEP":
		return "sleeping"
	case "STOP":
		return "stopped"
	case "IDLE":
		return "idle"
	case "ZOMBIE":
		return "zombie"
	case "WAIT":
		return "waiting"
	default:
		return "unknown"
	}
}
