package workers

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type processRecorder struct {
	mu      sync.Mutex
	samples int
	live    int
	status  string
}

func (r *processRecorder) RecordProcess(status string, _ float64, _ float32, liveChannels int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples++
	r.live = liveChannels
	r.status = status
}

func (r *processRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.samples
}

func TestHealthMonitoringWorker_Samples_Own_Process(t *testing.T) {
	req := require.New(t)
	recorder := &processRecorder{}
	worker := NewHealthMonitoringWorker(logs.GetLoggerFromLevel(slog.LevelDebug), recorder,
		func() int { return 3 }, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	req.NoError(worker.Run(ctx))

	req.Positive(recorder.count())
	req.Equal(3, recorder.live)
	req.NotEmpty(recorder.status)
}

func TestToStatus(t *testing.T) {
	req := require.New(t)
	req.Equal("running", toStatus("R"))
	req.Equal("sleeping", toStatus("s"))
	req.Equal("unknown", toStatus(""))
}
