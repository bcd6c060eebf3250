package reporter

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/ArghyaChatterjee/SubT-Object-Detection/detection"
	"github.com/ArghyaChatterjee/SubT-Object-Detection/pointcloud"
	"github.com/ArghyaChatterjee/SubT-Object-Detection/referenceframe"
)

// Processor turns synchronized detections into localized artifacts in the
// report buffer: crop the cloud to each box, take the centroid of the
// finite points, localize it into the artifact origin frame, classify the
// label, and overwrite the buffer.
type Processor struct {
	localizer *referenceframe.Localizer
	buffer    *Buffer
	logger    golog.Logger
}

// NewProcessor returns a processor feeding the given buffer.
func NewProcessor(localizer *referenceframe.Localizer, buffer *Buffer, logger golog.Logger) *Processor {
	return &Processor{
		localizer: localizer,
		buffer:    buffer,
		logger:    logger,
	}
}

// ProcessDetection handles one synchronized point cloud and box batch.
// Boxes are processed in their given order and each success overwrites
// the buffer, so only the last successfully localized and classified box
// of a batch stays pending. A failing box is skipped, never the batch.
func (p *Processor) ProcessDetection(ctx context.Context, cloud *pointcloud.OrganizedCloud, batch detection.Batch) {
	for _, box := range batch.Boxes {
		if err := p.processBox(ctx, cloud, box); err != nil {
			p.logger.Debugw("skipping detection", "label", box.Label, "error", err)
		}
	}
}

func (p *Processor) processBox(ctx context.Context, cloud *pointcloud.OrganizedCloud, box detection.BoundingBox) error {
	cropped, err := pointcloud.Crop(cloud, box.Bounds())
	if err != nil {
		return errors.Wrap(err, "cannot crop cloud to box")
	}
	centroid, used, err := pointcloud.Centroid(cropped)
	if err != nil {
		return errors.Wrap(err, "cannot locate box contents")
	}

	observed := referenceframe.NewPoseInFrame(cloud.Frame, centroid, cloud.CapturedAt)
	localized, err := p.localizer.Localize(ctx, observed)
	if err != nil {
		return errors.Wrapf(err, "cannot localize box contents into %q", p.localizer.TargetFrame())
	}

	artifactType, ok := detection.ClassifyLabel(box.Label)
	if !ok {
		// not an artifact the station scores; ignore quietly
		return nil
	}

	p.buffer.Set(Artifact{Type: artifactType, Location: localized.Position()})
	p.logger.Infow("detected an artifact",
		"type", artifactType.String(),
		"frame", localized.FrameName(),
		"x", localized.Position().X,
		"y", localized.Position().Y,
		"z", localized.Position().Z,
		"points", used)
	return nil
}
