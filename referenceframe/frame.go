// Package referenceframe names coordinate frames and converts positions
// observed in one frame into another, through a transform oracle that may
// need a bounded wait to resolve the relationship.
package referenceframe

import (
	"context"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrTransformUnavailable is returned when two frames cannot be related,
// either because one is unknown, the transform graph does not connect
// them, or the lookup did not resolve within its wait bound.
var ErrTransformUnavailable = errors.New("transform between frames unavailable")

// PoseInFrame is a data structure that packages a position with the name
// of the frame in which it was observed and the observation time.
type PoseInFrame struct {
	frame      string
	position   r3.Vector
	observedAt time.Time
}

// NewPoseInFrame generates a new PoseInFrame.
func NewPoseInFrame(frame string, position r3.Vector, observedAt time.Time) *PoseInFrame {
	return &PoseInFrame{
		frame:      frame,
		position:   position,
		observedAt: observedAt,
	}
}

// FrameName returns the name of the frame in which the pose was observed.
func (pF *PoseInFrame) FrameName() string {
	return pF.frame
}

// Position returns the position that was observed.
func (pF *PoseInFrame) Position() r3.Vector {
	return pF.position
}

// ObservedAt returns the time of observation.
func (pF *PoseInFrame) ObservedAt() time.Time {
	return pF.observedAt
}

// TransformProvider resolves poses between named reference frames. The
// call may block until the provider can relate the two frames or the
// context expires, so callers bound it with a context deadline.
type TransformProvider interface {
	Transform(ctx context.Context, pose *PoseInFrame, dstFrame string) (*PoseInFrame, error)
}
