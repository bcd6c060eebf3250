package pointcloud

import (
	"image"

	"github.com/pkg/errors"
)

// ErrOutOfBounds is returned when a bounding box does not fit inside the
// cloud it is cropping.
var ErrOutOfBounds = errors.New("bounding box out of cloud bounds")

// Crop returns a new organized cloud containing exactly the samples of the
// given pixel region, copied row-major with the per-point byte layout
// unchanged. The region uses exclusive maxima, as image.Rectangle does.
// Boxes that are empty or reach outside the cloud are rejected rather than
// clamped, so the caller never computes a centroid over a different pixel
// set than the detector saw.
func Crop(cloud *OrganizedCloud, region image.Rectangle) (*OrganizedCloud, error) {
	if err := cloud.Validate(); err != nil {
		return nil, err
	}
	if region.Empty() || region.Min.X < 0 || region.Min.Y < 0 ||
		region.Max.X > cloud.Width || region.Max.Y > cloud.Height {
		return nil, errors.Wrapf(ErrOutOfBounds, "box %v on %dx%d cloud", region, cloud.Width, cloud.Height)
	}

	cropped := &OrganizedCloud{
		Width:       region.Dx(),
		Height:      region.Dy(),
		PointStride: cloud.PointStride,
		RowStride:   region.Dx() * cloud.PointStride,
		BigEndian:   cloud.BigEndian,
		Fields:      cloud.Fields,
		Data:        make([]byte, 0, region.Dy()*region.Dx()*cloud.PointStride),
		Frame:       cloud.Frame,
		CapturedAt:  cloud.CapturedAt,
	}
	for r := region.Min.Y; r < region.Max.Y; r++ {
		for c := region.Min.X; c < region.Max.X; c++ {
			start := r*cloud.RowStride + c*cloud.PointStride
			cropped.Data = append(cropped.Data, cloud.Data[start:start+cloud.PointStride]...)
		}
	}
	return cropped, nil
}
