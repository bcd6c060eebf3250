package detection

// ArtifactType enumerates the objects the competition scores. The values
// are the wire codes of the scoring protocol; only the five with detector
// labels below are ever produced by this process, the rest exist so
// inbound records decode to something nameable.
type ArtifactType int32

// Scoring protocol artifact types.
const (
	TypeBackpack ArtifactType = iota
	TypeDrill
	TypeDuct
	TypeElectricalBox
	TypeExtinguisher
	TypePhone
	TypeRadio
	TypeRescueRandy
	TypeToolbox
	TypeValve
	TypeVent
	TypeGas
	TypeHelmet
	TypeRope
	TypeCube
)

func (at ArtifactType) String() string {
	switch at {
	case TypeBackpack:
		return "backpack"
	case TypeDrill:
		return "drill"
	case TypeDuct:
		return "duct"
	case TypeElectricalBox:
		return "electrical_box"
	case TypeExtinguisher:
		return "fire_extinguisher"
	case TypePhone:
		return "phone"
	case TypeRadio:
		return "radio"
	case TypeRescueRandy:
		return "rescue_randy"
	case TypeToolbox:
		return "toolbox"
	case TypeValve:
		return "valve"
	case TypeVent:
		return "vent"
	case TypeGas:
		return "gas"
	case TypeHelmet:
		return "helmet"
	case TypeRope:
		return "rope"
	case TypeCube:
		return "cube"
	default:
		return "unknown"
	}
}

// labelToType is the exact, case-sensitive mapping from detector class
// labels to reportable artifact types.
var labelToType = map[string]ArtifactType{
	"Backpack":          TypeBackpack,
	"Survivor":          TypeRescueRandy,
	"Cell Phone":        TypePhone,
	"Fire Extinguisher": TypeExtinguisher,
	"Drill":             TypeDrill,
}

// ClassifyLabel maps a detector label to the artifact type it reports as.
// Labels outside the reportable set return false and the detection is
// ignored; an unrecognized label is not an error.
func ClassifyLabel(label string) (ArtifactType, bool) {
	at, ok := labelToType[label]
	return at, ok
}
