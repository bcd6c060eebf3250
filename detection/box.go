// Package detection contains the labeled bounding boxes produced by the
// object detector, the mapping from detector labels to reportable
// artifact types, and a synchronizer that pairs box batches with the
// point clouds captured at the same instant.
package detection

import (
	"image"
	"time"
)

// BoundingBox is an axis-aligned pixel rectangle reported by the
// detector, with inclusive extrema the way detector messages carry them.
type BoundingBox struct {
	Label string
	XMin  int
	YMin  int
	XMax  int
	YMax  int
}

// Bounds returns the box as an image.Rectangle, converting the inclusive
// maxima to the exclusive form the rest of the image ecosystem uses. The
// rectangle is built literally rather than with image.Rect, which would
// swap the corners of an inverted box and hide the malformed input; an
// inverted box stays empty so downstream bound checks reject it.
func (bb BoundingBox) Bounds() image.Rectangle {
	return image.Rectangle{
		Min: image.Point{X: bb.XMin, Y: bb.YMin},
		Max: image.Point{X: bb.XMax + 1, Y: bb.YMax + 1},
	}
}

// Batch is the set of boxes the detector found in one frame, stamped with
// the capture time of that frame.
type Batch struct {
	CapturedAt time.Time
	Boxes      []BoundingBox
}
