package reporter

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ArghyaChatterjee/SubT-Object-Detection/detection"
)

// The wire representation of a report is a protobuf Struct of the scoring
// protocol's artifact record: an integer type code and a pose whose
// orientation is carried as unused identity. The station's score response
// echoes the artifact back under an "artifact" key.

// EncodeReport serializes an artifact into the scoring record.
func EncodeReport(a Artifact) ([]byte, error) {
	record, err := structpb.NewStruct(map[string]interface{}{
		"type": int(a.Type),
		"pose": map[string]interface{}{
			"position": map[string]interface{}{
				"x": a.Location.X,
				"y": a.Location.Y,
				"z": a.Location.Z,
			},
			"orientation": map[string]interface{}{
				"x": 0.0, "y": 0.0, "z": 0.0, "w": 1.0,
			},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "cannot build artifact record")
	}
	data, err := proto.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize artifact record")
	}
	return data, nil
}

// DecodeScore deserializes a station score response, returning the
// artifact it confirms.
func DecodeScore(data []byte) (Artifact, error) {
	var record structpb.Struct
	if err := proto.Unmarshal(data, &record); err != nil {
		return Artifact{}, errors.Wrap(err, "cannot deserialize score response")
	}
	artifactField, ok := record.GetFields()["artifact"]
	if !ok {
		return Artifact{}, errors.New("score response has no artifact")
	}
	artifact := artifactField.GetStructValue()
	if artifact == nil {
		return Artifact{}, errors.New("score response artifact is not a record")
	}
	typeField, ok := artifact.GetFields()["type"]
	if !ok {
		return Artifact{}, errors.New("score response artifact has no type")
	}
	position := artifact.GetFields()["pose"].GetStructValue().GetFields()["position"].GetStructValue()
	if position == nil {
		return Artifact{}, errors.New("score response artifact has no position")
	}
	fields := position.GetFields()
	return Artifact{
		Type: detection.ArtifactType(typeField.GetNumberValue()),
		Location: r3.Vector{
			X: fields["x"].GetNumberValue(),
			Y: fields["y"].GetNumberValue(),
			Z: fields["z"].GetNumberValue(),
		},
	}, nil
}
