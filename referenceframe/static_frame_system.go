package referenceframe

import (
	"context"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// World is the name of the root frame every static frame tree hangs off.
const World = "world"

// StaticFrameSystem is a TransformProvider backed by a fixed tree of
// frames, each offset from its parent by a constant translation. It covers
// the rig described in the process config; nothing updates it at runtime.
type StaticFrameSystem struct {
	mu      sync.RWMutex
	name    string
	parents map[string]string
	offsets map[string]r3.Vector
}

// NewStaticFrameSystem returns a frame system containing only the world
// frame.
func NewStaticFrameSystem(name string) *StaticFrameSystem {
	return &StaticFrameSystem{
		name:    name,
		parents: map[string]string{},
		offsets: map[string]r3.Vector{},
	}
}

// Name returns the name of the frame system.
func (sfs *StaticFrameSystem) Name() string {
	return sfs.name
}

// AddFrame registers a frame at a constant translation from its parent.
// The parent does not need to exist yet; connectivity is checked at
// transform time.
func (sfs *StaticFrameSystem) AddFrame(name, parent string, offset r3.Vector) error {
	if name == "" {
		return errors.New("frame needs a non-empty name")
	}
	if name == World {
		return errors.Errorf("cannot redefine the %q frame", World)
	}
	if parent == "" {
		return errors.Errorf("frame %q needs a parent", name)
	}
	sfs.mu.Lock()
	defer sfs.mu.Unlock()
	if _, ok := sfs.parents[name]; ok {
		return errors.Errorf("frame %q already in frame system %q", name, sfs.name)
	}
	sfs.parents[name] = parent
	sfs.offsets[name] = offset
	return nil
}

// rootwardOffset walks from a frame to the root of its tree, summing the
// translation of the frame's origin along the way, and returns the root
// reached.
func (sfs *StaticFrameSystem) rootwardOffset(frame string) (r3.Vector, string, error) {
	var offset r3.Vector
	seen := map[string]bool{}
	for frame != World {
		if seen[frame] {
			return r3.Vector{}, "", errors.Errorf("frame %q is part of a parent cycle", frame)
		}
		seen[frame] = true
		parent, ok := sfs.parents[frame]
		if !ok {
			// detached root; caller decides whether the trees connect
			return offset, frame, nil
		}
		offset = offset.Add(sfs.offsets[frame])
		frame = parent
	}
	return offset, World, nil
}

// Transform expresses the given pose in dstFrame. Both frames must belong
// to the same connected tree; otherwise the transform is unavailable.
func (sfs *StaticFrameSystem) Transform(ctx context.Context, pose *PoseInFrame, dstFrame string) (*PoseInFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(ErrTransformUnavailable, err.Error())
	}
	sfs.mu.RLock()
	defer sfs.mu.RUnlock()

	if !sfs.knows(pose.FrameName()) {
		return nil, errors.Wrapf(ErrTransformUnavailable, "unknown frame %q", pose.FrameName())
	}
	if !sfs.knows(dstFrame) {
		return nil, errors.Wrapf(ErrTransformUnavailable, "unknown frame %q", dstFrame)
	}

	srcOffset, srcRoot, err := sfs.rootwardOffset(pose.FrameName())
	if err != nil {
		return nil, err
	}
	dstOffset, dstRoot, err := sfs.rootwardOffset(dstFrame)
	if err != nil {
		return nil, err
	}
	if srcRoot != dstRoot {
		return nil, errors.Wrapf(ErrTransformUnavailable,
			"frames %q and %q are in disconnected trees", pose.FrameName(), dstFrame)
	}

	inRoot := pose.Position().Add(srcOffset)
	return NewPoseInFrame(dstFrame, inRoot.Sub(dstOffset), pose.ObservedAt()), nil
}

func (sfs *StaticFrameSystem) knows(frame string) bool {
	if frame == World {
		return true
	}
	_, ok := sfs.parents[frame]
	return ok
}
