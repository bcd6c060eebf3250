// Package main runs the artifact reporter: it pairs detector bounding
// boxes with depth point clouds, localizes each detection into the
// artifact origin frame, and offers the newest artifact to the base
// station every tick until the station acknowledges it.
package main

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/ArghyaChatterjee/SubT-Object-Detection/comms"
	"github.com/ArghyaChatterjee/SubT-Object-Detection/config"
	"github.com/ArghyaChatterjee/SubT-Object-Detection/detection"
	"github.com/ArghyaChatterjee/SubT-Object-Detection/pointcloud"
	"github.com/ArghyaChatterjee/SubT-Object-Detection/referenceframe"
	"github.com/ArghyaChatterjee/SubT-Object-Detection/reporter"
)

var logger = golog.NewDevelopmentLogger("artifact_reporter")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"config,required,usage=path to the reporter config"`
	Simulate   bool   `flag:"simulate,usage=feed a synthetic drill detection instead of live sensors"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) (err error) {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	cfg, err := config.Read(argsParsed.ConfigFile)
	if err != nil {
		return err
	}
	logger.Infow("artifact reporter starting",
		"robot_name", cfg.RobotName,
		"camera_frame", cfg.CameraFrame,
		"artifact_origin_frame", cfg.ArtifactOriginFrame,
		"cloud_source", cfg.CloudSource,
		"box_source", cfg.BoxSource,
		"base_station", cfg.BaseStationAddress,
		"listen", cfg.ListenAddress)

	frameSystem := referenceframe.NewStaticFrameSystem(cfg.RobotName)
	for _, frame := range cfg.Frames {
		if err := frameSystem.AddFrame(frame.Name, frame.Parent, frame.Translation.Vector()); err != nil {
			return err
		}
	}
	localizer := referenceframe.NewLocalizer(frameSystem, cfg.ArtifactOriginFrame, cfg.TransformWait())

	buffer := reporter.NewBuffer()

	client, err := comms.NewClient(cfg.ListenAddress, map[string]string{
		cfg.BaseStationName: cfg.BaseStationAddress,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, client.Close(context.Background()))
	}()

	rep := reporter.NewReporter(buffer, client, cfg.BaseStationName, cfg.ReportInterval(), clock.New(), logger)
	client.Bind(rep.HandleAcknowledgment)
	rep.Start()
	defer rep.Close()

	processor := reporter.NewProcessor(localizer, buffer, logger)
	synchronizer := detection.NewSynchronizer(cfg.QueueSize(), func(cloud *pointcloud.OrganizedCloud, batch detection.Batch) {
		processor.ProcessDetection(ctx, cloud, batch)
	}, logger)
	defer synchronizer.Close()

	if argsParsed.Simulate {
		goutils.PanicCapturingGo(func() {
			simulateDetections(ctx, synchronizer, cfg.CameraFrame)
		})
	}

	<-ctx.Done()
	return nil
}

// simulateDetections feeds the synchronizer a synthetic drill sighting
// every couple seconds, for exercising the pipeline without a robot.
func simulateDetections(ctx context.Context, synchronizer *detection.Synchronizer, cameraFrame string) {
	for goutils.SelectContextOrWait(ctx, 2*time.Second) {
		now := time.Now()
		cloud := pointcloud.NewXYZCloud(8, 8, cameraFrame, now)
		for r := 2; r <= 5; r++ {
			for c := 2; c <= 5; c++ {
				if err := cloud.SetAt(r, c, r3.Vector{X: 1.5, Y: 0.25, Z: 4}); err != nil {
					return
				}
			}
		}
		synchronizer.AddCloud(cloud)
		synchronizer.AddBatch(detection.Batch{
			CapturedAt: now,
			Boxes:      []detection.BoundingBox{{Label: "Drill", XMin: 2, YMin: 2, XMax: 5, YMax: 5}},
		})
	}
}
