package detection

import (
	"context"
	"sync"

	"github.com/edaniels/golog"
	goutils "go.viam.com/utils"

	"github.com/ArghyaChatterjee/SubT-Object-Detection/pointcloud"
)

// DefaultQueueSize bounds how many unmatched messages the synchronizer
// holds per input before dropping the oldest.
const DefaultQueueSize = 10

// Handler receives a point cloud and the box batch captured at the same
// instant. It runs on the synchronizer's worker, so a slow handler delays
// subsequent matches.
type Handler func(cloud *pointcloud.OrganizedCloud, batch Batch)

// Synchronizer pairs organized point clouds with bounding box batches
// whose capture times match exactly. Each input keeps a small bounded
// queue of unmatched messages; when a message on one input matches the
// capture time of a queued message on the other, both are consumed and
// the handler fires.
type Synchronizer struct {
	handler   Handler
	queueSize int
	logger    golog.Logger

	clouds  chan *pointcloud.OrganizedCloud
	batches chan Batch

	pendingClouds  []*pointcloud.OrganizedCloud
	pendingBatches []Batch

	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewSynchronizer starts the pairing worker. A non-positive queueSize
// falls back to DefaultQueueSize.
func NewSynchronizer(queueSize int, handler Handler, logger golog.Logger) *Synchronizer {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	s := &Synchronizer{
		handler:    handler,
		queueSize:  queueSize,
		logger:     logger,
		clouds:     make(chan *pointcloud.OrganizedCloud, queueSize),
		batches:    make(chan Batch, queueSize),
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
	s.activeBackgroundWorkers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer s.activeBackgroundWorkers.Done()
		s.run()
	})
	return s
}

// AddCloud offers a point cloud for pairing. Drops the cloud if the
// synchronizer is backlogged.
func (s *Synchronizer) AddCloud(cloud *pointcloud.OrganizedCloud) {
	select {
	case s.clouds <- cloud:
	case <-s.cancelCtx.Done():
	default:
		s.logger.Debugw("synchronizer backlogged; dropping point cloud", "captured_at", cloud.CapturedAt)
	}
}

// AddBatch offers a bounding box batch for pairing. Drops the batch if
// the synchronizer is backlogged.
func (s *Synchronizer) AddBatch(batch Batch) {
	select {
	case s.batches <- batch:
	case <-s.cancelCtx.Done():
	default:
		s.logger.Debugw("synchronizer backlogged; dropping box batch", "captured_at", batch.CapturedAt)
	}
}

// Close stops the pairing worker and discards anything unmatched.
func (s *Synchronizer) Close() {
	s.cancelFunc()
	s.activeBackgroundWorkers.Wait()
}

func (s *Synchronizer) run() {
	for {
		select {
		case cloud := <-s.clouds:
			s.takeCloud(cloud)
		case batch := <-s.batches:
			s.takeBatch(batch)
		case <-s.cancelCtx.Done():
			return
		}
	}
}

func (s *Synchronizer) takeCloud(cloud *pointcloud.OrganizedCloud) {
	for i, batch := range s.pendingBatches {
		if batch.CapturedAt.Equal(cloud.CapturedAt) {
			s.pendingBatches = append(s.pendingBatches[:i], s.pendingBatches[i+1:]...)
			s.handler(cloud, batch)
			return
		}
	}
	s.pendingClouds = append(s.pendingClouds, cloud)
	if len(s.pendingClouds) > s.queueSize {
		s.logger.Debugw("no boxes arrived for point cloud; dropping", "captured_at", s.pendingClouds[0].CapturedAt)
		s.pendingClouds = s.pendingClouds[1:]
	}
}

func (s *Synchronizer) takeBatch(batch Batch) {
	for i, cloud := range s.pendingClouds {
		if cloud.CapturedAt.Equal(batch.CapturedAt) {
			s.pendingClouds = append(s.pendingClouds[:i], s.pendingClouds[i+1:]...)
			s.handler(cloud, batch)
			return
		}
	}
	s.pendingBatches = append(s.pendingBatches, batch)
	if len(s.pendingBatches) > s.queueSize {
		s.logger.Debugw("no point cloud arrived for boxes; dropping", "captured_at", s.pendingBatches[0].CapturedAt)
		s.pendingBatches = s.pendingBatches[1:]
	}
}
