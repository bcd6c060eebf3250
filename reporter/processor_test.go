package reporter

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/ArghyaChatterjee/SubT-Object-Detection/detection"
	"github.com/ArghyaChatterjee/SubT-Object-Detection/pointcloud"
	"github.com/ArghyaChatterjee/SubT-Object-Detection/referenceframe"
)

const (
	testCameraFrame = "anymal_b/base/camera_front"
	testOriginFrame = "artifact_origin"
)

func testLocalizer(t *testing.T) *referenceframe.Localizer {
	t.Helper()
	fs := referenceframe.NewStaticFrameSystem("anymal_b")
	test.That(t, fs.AddFrame(testCameraFrame, referenceframe.World, r3.Vector{X: 10, Y: 0, Z: 0}), test.ShouldBeNil)
	test.That(t, fs.AddFrame(testOriginFrame, referenceframe.World, r3.Vector{X: 4, Y: 4, Z: 0}), test.ShouldBeNil)
	return referenceframe.NewLocalizer(fs, testOriginFrame, time.Second)
}

// uniformCloud fills every sample with the same point.
func uniformCloud(t *testing.T, width, height int, p r3.Vector) *pointcloud.OrganizedCloud {
	t.Helper()
	cloud := pointcloud.NewXYZCloud(width, height, testCameraFrame, time.Now())
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			test.That(t, cloud.SetAt(r, c, p), test.ShouldBeNil)
		}
	}
	return cloud
}

func TestProcessDetectionLocalizesAndClassifies(t *testing.T) {
	buffer := NewBuffer()
	p := NewProcessor(testLocalizer(t), buffer, golog.NewTestLogger(t))

	cloud := uniformCloud(t, 5, 5, r3.Vector{X: 1, Y: 2, Z: 3})
	batch := detection.Batch{
		CapturedAt: cloud.CapturedAt,
		Boxes:      []detection.BoundingBox{{Label: "Drill", XMin: 2, YMin: 2, XMax: 3, YMax: 3}},
	}
	p.ProcessDetection(context.Background(), cloud, batch)

	got, ok := buffer.Pending()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, got.Type, test.ShouldEqual, detection.TypeDrill)
	// centroid (1,2,3) + camera offset (10,0,0) - origin offset (4,4,0)
	test.That(t, got.Location.X, test.ShouldAlmostEqual, 7, 1e-6)
	test.That(t, got.Location.Y, test.ShouldAlmostEqual, -2, 1e-6)
	test.That(t, got.Location.Z, test.ShouldAlmostEqual, 3, 1e-6)
}

func TestProcessDetectionLastBoxWins(t *testing.T) {
	buffer := NewBuffer()
	p := NewProcessor(testLocalizer(t), buffer, golog.NewTestLogger(t))

	cloud := uniformCloud(t, 6, 6, r3.Vector{X: 1, Y: 1, Z: 1})
	batch := detection.Batch{
		CapturedAt: cloud.CapturedAt,
		Boxes: []detection.BoundingBox{
			{Label: "Backpack", XMin: 0, YMin: 0, XMax: 1, YMax: 1},
			{Label: "Survivor", XMin: 2, YMin: 2, XMax: 3, YMax: 3},
			{Label: "Cell Phone", XMin: 4, YMin: 4, XMax: 5, YMax: 5},
		},
	}
	p.ProcessDetection(context.Background(), cloud, batch)

	got, ok := buffer.Pending()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, got.Type, test.ShouldEqual, detection.TypePhone)
}

func TestProcessDetectionSkipsFailingBoxes(t *testing.T) {
	buffer := NewBuffer()
	p := NewProcessor(testLocalizer(t), buffer, golog.NewTestLogger(t))

	cloud := uniformCloud(t, 5, 5, r3.Vector{X: 1, Y: 2, Z: 3})
	// poke a hole of non-finite returns for the empty-centroid box
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			test.That(t, cloud.SetAt(r, c, r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}), test.ShouldBeNil)
		}
	}
	batch := detection.Batch{
		CapturedAt: cloud.CapturedAt,
		Boxes: []detection.BoundingBox{
			{Label: "Drill", XMin: 3, YMin: 3, XMax: 9, YMax: 9}, // out of bounds
			{Label: "Drill", XMin: 4, YMin: 3, XMax: 2, YMax: 1}, // inverted extrema
			{Label: "Backpack", XMin: 0, YMin: 0, XMax: 1, YMax: 1}, // only NaN returns
			{Label: "Survivor", XMin: 2, YMin: 2, XMax: 3, YMax: 3},
			{Label: "Squirrel", XMin: 2, YMin: 2, XMax: 3, YMax: 3}, // not a scored artifact
		},
	}
	p.ProcessDetection(context.Background(), cloud, batch)

	// only the survivor box survives the batch
	got, ok := buffer.Pending()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, got.Type, test.ShouldEqual, detection.TypeRescueRandy)
}

func TestProcessDetectionTransformUnavailable(t *testing.T) {
	buffer := NewBuffer()
	p := NewProcessor(testLocalizer(t), buffer, golog.NewTestLogger(t))

	cloud := uniformCloud(t, 5, 5, r3.Vector{X: 1, Y: 2, Z: 3})
	cloud.Frame = "some_unknown_sensor"
	batch := detection.Batch{
		CapturedAt: cloud.CapturedAt,
		Boxes:      []detection.BoundingBox{{Label: "Drill", XMin: 2, YMin: 2, XMax: 3, YMax: 3}},
	}
	p.ProcessDetection(context.Background(), cloud, batch)

	_, ok := buffer.Pending()
	test.That(t, ok, test.ShouldBeFalse)
}

// TestReportLifecycleEndToEnd walks the full report lifecycle: detect,
// report on the next tick, acknowledge, and verify the following tick is
// silent.
func TestReportLifecycleEndToEnd(t *testing.T) {
	buffer := NewBuffer()
	client := newFakeClient()
	rep, mock := startTestReporter(t, buffer, client)
	defer rep.Close()
	client.Bind(rep.HandleAcknowledgment)

	p := NewProcessor(testLocalizer(t), buffer, golog.NewTestLogger(t))
	cloud := uniformCloud(t, 5, 5, r3.Vector{X: 1, Y: 2, Z: 3})
	p.ProcessDetection(context.Background(), cloud, detection.Batch{
		CapturedAt: cloud.CapturedAt,
		Boxes:      []detection.BoundingBox{{Label: "Drill", XMin: 2, YMin: 2, XMax: 3, YMax: 3}},
	})

	mock.Add(time.Second)
	sent := waitForSend(t, client)
	onWire, err := decodeReportForTest(sent)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, onWire.Type, test.ShouldEqual, detection.TypeDrill)
	test.That(t, onWire.Location.X, test.ShouldAlmostEqual, 7, 1e-6)
	test.That(t, onWire.Location.Y, test.ShouldAlmostEqual, -2, 1e-6)
	test.That(t, onWire.Location.Z, test.ShouldAlmostEqual, 3, 1e-6)

	// the station answers; the buffer clears and ticks go quiet
	client.handler("base_station", scoreResponse(t, onWire))
	_, pending := buffer.Pending()
	test.That(t, pending, test.ShouldBeFalse)

	mock.Add(time.Second)
	expectNoSend(t, client)
}
