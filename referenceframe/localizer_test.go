package referenceframe

import (
	"context"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

// slowProvider never answers before its context expires.
type slowProvider struct{}

func (p *slowProvider) Transform(ctx context.Context, pose *PoseInFrame, dstFrame string) (*PoseInFrame, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLocalizeSuccess(t *testing.T) {
	fs := NewStaticFrameSystem("robot")
	test.That(t, fs.AddFrame("camera", World, r3.Vector{X: 5, Y: 0, Z: 0}), test.ShouldBeNil)
	test.That(t, fs.AddFrame("artifact_origin", World, r3.Vector{X: 1, Y: 0, Z: 0}), test.ShouldBeNil)

	localizer := NewLocalizer(fs, "artifact_origin", time.Second)
	got, err := localizer.Localize(context.Background(), NewPoseInFrame("camera", r3.Vector{X: 1, Y: 2, Z: 3}, time.Now()))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.FrameName(), test.ShouldEqual, "artifact_origin")
	test.That(t, got.Position(), test.ShouldResemble, r3.Vector{X: 5, Y: 2, Z: 3})
}

func TestLocalizeBoundedWait(t *testing.T) {
	localizer := NewLocalizer(&slowProvider{}, "artifact_origin", 20*time.Millisecond)

	start := time.Now()
	_, err := localizer.Localize(context.Background(), NewPoseInFrame("camera", r3.Vector{}, time.Now()))
	test.That(t, errors.Is(err, ErrTransformUnavailable), test.ShouldBeTrue)
	test.That(t, time.Since(start), test.ShouldBeLessThan, 5*time.Second)
}

func TestLocalizeUnavailablePassesThrough(t *testing.T) {
	fs := NewStaticFrameSystem("robot")
	localizer := NewLocalizer(fs, "artifact_origin", time.Second)

	_, err := localizer.Localize(context.Background(), NewPoseInFrame("camera", r3.Vector{}, time.Now()))
	test.That(t, errors.Is(err, ErrTransformUnavailable), test.ShouldBeTrue)
}
