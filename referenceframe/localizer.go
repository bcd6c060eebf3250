package referenceframe

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Localizer converts observed poses into one fixed target frame, waiting
// at most a configured duration for the transform oracle to resolve each
// lookup. A Localize call is a bounded suspension point for the caller;
// hold no locks across it.
type Localizer struct {
	provider    TransformProvider
	targetFrame string
	wait        time.Duration
}

// NewLocalizer wraps the given transform provider. A non-positive wait
// defaults to one second, the lookup bound the reporting pipeline was
// tuned with.
func NewLocalizer(provider TransformProvider, targetFrame string, wait time.Duration) *Localizer {
	if wait <= 0 {
		wait = time.Second
	}
	return &Localizer{
		provider:    provider,
		targetFrame: targetFrame,
		wait:        wait,
	}
}

// TargetFrame returns the frame every pose is localized into.
func (l *Localizer) TargetFrame() string {
	return l.targetFrame
}

// Localize returns the pose expressed in the target frame, or an error
// wrapping ErrTransformUnavailable if the oracle cannot relate the frames
// within the wait bound.
func (l *Localizer) Localize(ctx context.Context, pose *PoseInFrame) (*PoseInFrame, error) {
	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()
	transformed, err := l.provider.Transform(ctx, pose, l.targetFrame)
	if err != nil {
		if errors.Is(err, ErrTransformUnavailable) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, errors.Wrap(ErrTransformUnavailable, err.Error())
		}
		return nil, err
	}
	return transformed, nil
}
