package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrEmptyCentroid is returned when no finite point contributed to a
// centroid. Callers must treat it as "no valid detection" instead of
// reporting a meaningless location.
var ErrEmptyCentroid = errors.New("no finite points to take a centroid of")

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Centroid computes the arithmetic mean of every sample in the cloud whose
// x, y and z are all finite, along with the count of samples used. NaN and
// infinite samples are skipped alike; a NaN admitted into the running sum
// could never be recovered from. Accumulation is a running sum, so the
// memory cost is constant regardless of cloud size.
func Centroid(cloud *OrganizedCloud) (r3.Vector, int, error) {
	if err := cloud.Validate(); err != nil {
		return r3.Vector{}, 0, err
	}
	xOff, xOk := cloud.fieldOffset("x")
	yOff, yOk := cloud.fieldOffset("y")
	zOff, zOk := cloud.fieldOffset("z")
	if !xOk || !yOk || !zOk {
		return r3.Vector{}, 0, errors.New("cloud is missing an x, y or z field")
	}

	var sum r3.Vector
	used := 0
	for r := 0; r < cloud.Height; r++ {
		for c := 0; c < cloud.Width; c++ {
			base := r*cloud.RowStride + c*cloud.PointStride
			x := float64(cloud.float32At(base + xOff))
			y := float64(cloud.float32At(base + yOff))
			z := float64(cloud.float32At(base + zOff))
			if !isFinite(x) || !isFinite(y) || !isFinite(z) {
				continue
			}
			sum = sum.Add(r3.Vector{X: x, Y: y, Z: z})
			used++
		}
	}
	if used == 0 {
		return r3.Vector{}, 0, ErrEmptyCentroid
	}
	return sum.Mul(1 / float64(used)), used, nil
}
