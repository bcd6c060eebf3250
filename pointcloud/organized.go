// Package pointcloud defines an organized point cloud, a 2D grid of 3D
// samples as produced by a depth camera, and provides the operations the
// artifact pipeline needs: cropping a cloud to a bounding box and finding
// the centroid of the finite points within it.
package pointcloud

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// NewVector convenience method for creating a vector.
func NewVector(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// Field describes where one named component of a point lives within the
// point's byte span.
type Field struct {
	Name   string
	Offset int
}

// OrganizedCloud is a row-major grid of 3D samples read off a depth sensor.
// Every pixel (r,c) with 0 <= r < Height, 0 <= c < Width maps to byte
// offset r*RowStride + c*PointStride within Data. Samples may be
// non-finite where the sensor had no return.
type OrganizedCloud struct {
	Width       int
	Height      int
	PointStride int
	RowStride   int
	BigEndian   bool
	Fields      []Field
	Data        []byte

	// Frame names the sensor frame the samples are expressed in, and
	// CapturedAt is the capture time shared with any bounding boxes
	// detected on the matching image.
	Frame      string
	CapturedAt time.Time
}

// standard layout for clouds built in-process: three float32s plus padding,
// the shape RGBD drivers typically emit.
const (
	xyzPointStride = 16
	float32Size    = 4
)

// NewXYZCloud returns an empty organized cloud of the given dimensions with
// a little-endian x/y/z float32 layout. All samples start as NaN, i.e. no
// sensor return.
func NewXYZCloud(width, height int, frame string, capturedAt time.Time) *OrganizedCloud {
	cloud := &OrganizedCloud{
		Width:       width,
		Height:      height,
		PointStride: xyzPointStride,
		RowStride:   width * xyzPointStride,
		Fields: []Field{
			{Name: "x", Offset: 0},
			{Name: "y", Offset: 4},
			{Name: "z", Offset: 8},
		},
		Data:       make([]byte, height*width*xyzPointStride),
		Frame:      frame,
		CapturedAt: capturedAt,
	}
	nan := math.Float32bits(float32(math.NaN()))
	for i := 0; i < len(cloud.Data); i += float32Size {
		binary.LittleEndian.PutUint32(cloud.Data[i:], nan)
	}
	return cloud
}

// Validate checks that the cloud's strides and data length are coherent.
func (cloud *OrganizedCloud) Validate() error {
	if cloud.Width <= 0 || cloud.Height <= 0 {
		return errors.Errorf("cloud has degenerate dimensions %dx%d", cloud.Width, cloud.Height)
	}
	if cloud.PointStride <= 0 {
		return errors.Errorf("cloud has degenerate point stride %d", cloud.PointStride)
	}
	if cloud.RowStride < cloud.Width*cloud.PointStride {
		return errors.Errorf(
			"row stride %d shorter than %d points of %d bytes",
			cloud.RowStride, cloud.Width, cloud.PointStride)
	}
	if len(cloud.Data) < cloud.Height*cloud.RowStride {
		return errors.Errorf(
			"cloud data holds %d bytes but %d rows of stride %d need %d",
			len(cloud.Data), cloud.Height, cloud.RowStride, cloud.Height*cloud.RowStride)
	}
	return nil
}

// Size returns the number of samples in the cloud.
func (cloud *OrganizedCloud) Size() int {
	return cloud.Width * cloud.Height
}

func (cloud *OrganizedCloud) fieldOffset(name string) (int, bool) {
	for _, f := range cloud.Fields {
		if f.Name == name {
			return f.Offset, true
		}
	}
	return 0, false
}

func (cloud *OrganizedCloud) float32At(offset int) float32 {
	var bits uint32
	if cloud.BigEndian {
		bits = binary.BigEndian.Uint32(cloud.Data[offset:])
	} else {
		bits = binary.LittleEndian.Uint32(cloud.Data[offset:])
	}
	return math.Float32frombits(bits)
}

func (cloud *OrganizedCloud) putFloat32At(offset int, value float32) {
	bits := math.Float32bits(value)
	if cloud.BigEndian {
		binary.BigEndian.PutUint32(cloud.Data[offset:], bits)
	} else {
		binary.LittleEndian.PutUint32(cloud.Data[offset:], bits)
	}
}

// SetAt writes a sample at pixel (r,c). Used by tests and simulated
// sensors; live clouds arrive already filled.
func (cloud *OrganizedCloud) SetAt(r, c int, p r3.Vector) error {
	if r < 0 || r >= cloud.Height || c < 0 || c >= cloud.Width {
		return errors.Errorf("pixel (%d,%d) outside %dx%d cloud", r, c, cloud.Width, cloud.Height)
	}
	base := r*cloud.RowStride + c*cloud.PointStride
	for _, name := range []string{"x", "y", "z"} {
		off, ok := cloud.fieldOffset(name)
		if !ok {
			return errors.Errorf("cloud has no %q field", name)
		}
		var v float64
		switch name {
		case "x":
			v = p.X
		case "y":
			v = p.Y
		case "z":
			v = p.Z
		}
		cloud.putFloat32At(base+off, float32(v))
	}
	return nil
}

// At reads the sample at pixel (r,c).
func (cloud *OrganizedCloud) At(r, c int) (r3.Vector, error) {
	if r < 0 || r >= cloud.Height || c < 0 || c >= cloud.Width {
		return r3.Vector{}, errors.Errorf("pixel (%d,%d) outside %dx%d cloud", r, c, cloud.Width, cloud.Height)
	}
	xOff, xOk := cloud.fieldOffset("x")
	yOff, yOk := cloud.fieldOffset("y")
	zOff, zOk := cloud.fieldOffset("z")
	if !xOk || !yOk || !zOk {
		return r3.Vector{}, errors.New("cloud is missing an x, y or z field")
	}
	base := r*cloud.RowStride + c*cloud.PointStride
	return r3.Vector{
		X: float64(cloud.float32At(base + xOff)),
		Y: float64(cloud.float32At(base + yOff)),
		Z: float64(cloud.float32At(base + zOff)),
	}, nil
}
