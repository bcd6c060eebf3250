package reporter

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	goutils "go.viam.com/utils"
)

// DefaultInterval is how often a pending artifact is offered to the
// station when the caller does not say otherwise.
const DefaultInterval = time.Second

// Reporter periodically reads the buffer and, while an artifact is
// pending, re-sends it to the station every tick until an acknowledgment
// clears the buffer or a newer artifact supersedes it. The tick itself
// never changes buffer state.
type Reporter struct {
	buffer   *Buffer
	client   Client
	station  string
	interval time.Duration
	clock    clock.Clock
	logger   golog.Logger

	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewReporter wires a reporter to a buffer and a comms client. The clock
// is injected so tests can drive ticks with a mock; production callers
// pass clock.New(). A non-positive interval falls back to DefaultInterval.
func NewReporter(buffer *Buffer, client Client, station string, interval time.Duration, clk clock.Clock, logger golog.Logger) *Reporter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	return &Reporter{
		buffer:     buffer,
		client:     client,
		station:    station,
		interval:   interval,
		clock:      clk,
		logger:     logger,
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
}

// Start launches the tick loop. The ticker is created before the worker
// goroutine runs, so once Start returns the clock already carries it and
// a mock clock can be advanced immediately.
func (r *Reporter) Start() {
	ticker := r.clock.Ticker(r.interval)
	r.activeBackgroundWorkers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer r.activeBackgroundWorkers.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.reportPending(r.cancelCtx)
			case <-r.cancelCtx.Done():
				return
			}
		}
	})
}

// reportPending sends the pending artifact, if any. Failures leave the
// buffer untouched so the next tick retries.
func (r *Reporter) reportPending(ctx context.Context) {
	artifact, ok := r.buffer.Pending()
	if !ok {
		return
	}
	data, err := EncodeReport(artifact)
	if err != nil {
		r.logger.Errorw("error serializing artifact report", "error", err)
		return
	}
	if err := r.client.Send(ctx, r.station, data); err != nil {
		r.logger.Errorw("error sending artifact report", "error", err)
	}
}

// HandleAcknowledgment processes an inbound score response from the
// station. A payload that cannot be decoded leaves the buffer pending;
// an unconfirmable acknowledgment must not discard the artifact.
func (r *Reporter) HandleAcknowledgment(src string, data []byte) {
	acked, err := DecodeScore(data)
	if err != nil {
		r.logger.Errorw("error deserializing acknowledgment", "src", src, "error", err)
		return
	}
	r.logger.Infow("artifact received by base station",
		"type", acked.Type.String(),
		"x", acked.Location.X, "y", acked.Location.Y, "z", acked.Location.Z)
	r.buffer.Acknowledge()
}

// Close stops the tick loop.
func (r *Reporter) Close() {
	r.cancelFunc()
	r.activeBackgroundWorkers.Wait()
}
