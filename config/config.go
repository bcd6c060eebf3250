// Package config describes the startup configuration of the artifact
// reporter: which robot this is, which frames positions move between,
// where the base station lives, and how eagerly reports go out. Read
// once at startup, never re-read.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Defaults mirror the rig the reporter was originally tuned on.
const (
	DefaultRobotName      = "anymal_b"
	DefaultOriginFrame    = "artifact_origin"
	DefaultStationName    = "base_station"
	DefaultListenAddress  = ":9872"
	DefaultReportInterval = time.Second
	DefaultTransformWait  = time.Second
	DefaultSyncQueueSize  = 10
)

// FrameConfig places one named frame at a fixed translation from its
// parent.
type FrameConfig struct {
	Name        string      `json:"name"`
	Parent      string      `json:"parent"`
	Translation Translation `json:"translation"`
}

// Translation is a displacement in meters.
type Translation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector returns the translation as an r3.Vector.
func (tr Translation) Vector() r3.Vector {
	return r3.Vector{X: tr.X, Y: tr.Y, Z: tr.Z}
}

// Config is the process configuration.
type Config struct {
	RobotName           string `json:"robot_name,omitempty"`
	CameraFrame         string `json:"camera_frame,omitempty"`
	ArtifactOriginFrame string `json:"artifact_origin_frame,omitempty"`

	// source identifiers for the two detection inputs, kept for wiring
	// and diagnostics; the pairing itself only looks at capture times
	CloudSource string `json:"cloud_source,omitempty"`
	BoxSource   string `json:"box_source,omitempty"`

	BaseStationName    string `json:"base_station_name,omitempty"`
	BaseStationAddress string `json:"base_station_address"`
	ListenAddress      string `json:"listen_address,omitempty"`

	ReportIntervalMillis int `json:"report_interval_ms,omitempty"`
	TransformWaitMillis  int `json:"transform_wait_ms,omitempty"`
	SyncQueueSize        int `json:"sync_queue_size,omitempty"`

	Frames []FrameConfig `json:"frames,omitempty"`
}

// Read loads and validates a config file.
func Read(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open config %q", path)
	}
	defer f.Close()

	var cfg Config
	decoder := json.NewDecoder(f)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %q", path)
	}
	return &cfg, nil
}

// Validate fills defaults and rejects configs the process cannot run
// with.
func (cfg *Config) Validate() error {
	if cfg.RobotName == "" {
		cfg.RobotName = DefaultRobotName
	}
	if cfg.CameraFrame == "" {
		cfg.CameraFrame = cfg.RobotName + "/base/camera_front"
	}
	if cfg.ArtifactOriginFrame == "" {
		cfg.ArtifactOriginFrame = DefaultOriginFrame
	}
	if cfg.CloudSource == "" {
		cfg.CloudSource = "/" + cfg.RobotName + "/downward_realsense/points"
	}
	if cfg.BoxSource == "" {
		cfg.BoxSource = "/darknet_ros/bounding_boxes"
	}
	if cfg.BaseStationName == "" {
		cfg.BaseStationName = DefaultStationName
	}
	if cfg.BaseStationAddress == "" {
		return errors.New("base_station_address is required")
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.ReportIntervalMillis < 0 || cfg.TransformWaitMillis < 0 || cfg.SyncQueueSize < 0 {
		return errors.New("intervals and queue sizes cannot be negative")
	}
	if len(cfg.Frames) == 0 {
		// a flat rig: camera and artifact origin both at the world origin
		cfg.Frames = []FrameConfig{
			{Name: cfg.CameraFrame, Parent: "world"},
			{Name: cfg.ArtifactOriginFrame, Parent: "world"},
		}
	}
	for _, frame := range cfg.Frames {
		if frame.Name == "" || frame.Parent == "" {
			return errors.New("every frame needs a name and a parent")
		}
	}
	return nil
}

// ReportInterval returns the configured report interval.
func (cfg *Config) ReportInterval() time.Duration {
	if cfg.ReportIntervalMillis == 0 {
		return DefaultReportInterval
	}
	return time.Duration(cfg.ReportIntervalMillis) * time.Millisecond
}

// TransformWait returns the configured transform lookup bound.
func (cfg *Config) TransformWait() time.Duration {
	if cfg.TransformWaitMillis == 0 {
		return DefaultTransformWait
	}
	return time.Duration(cfg.TransformWaitMillis) * time.Millisecond
}

// QueueSize returns the configured synchronizer queue depth.
func (cfg *Config) QueueSize() int {
	if cfg.SyncQueueSize == 0 {
		return DefaultSyncQueueSize
	}
	return cfg.SyncQueueSize
}
