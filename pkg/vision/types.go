package vision

// LandmarkCount is the cardinality of a refined face mesh as produced by the
// landmark service. A LandmarkSet is either empty (no face) or complete;
// partial sets are rejected at the provider boundary.
const LandmarkCount = 478

type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type LandmarkSet []Landmark

func (ls LandmarkSet) Complete() bool {
	return len(ls) >= LandmarkCount
}

// LandmarkIndices maps the named points the extractor reads to their ids in
// the canonical mesh. Injected so a different mesh topology only needs a new
// index table, not new formulas.
type LandmarkIndices struct {
	EyeOuterLeft   int
	EyeOuterRight  int
	EyeInnerRight  int
	EyeTopRight    int
	EyeBottomRight int
	BrowInnerLeft  int
	BrowInnerRight int
	MouthCornerL   int
	MouthCornerR   int
	UpperLipCenter int
	LipUpperInner  int
	LipLowerInner  int
	NoseTip        int
	Chin           int
}

func DefaultIndices() LandmarkIndices {
	return LandmarkIndices{
		EyeOuterLeft:   33,
		EyeOuterRight:  263,
		EyeInnerRight:  133,
		EyeTopRight:    159,
		EyeBottomRight: 145,
		BrowInnerLeft:  70,
		BrowInnerRight: 300,
		MouthCornerL:   61,
		MouthCornerR:   291,
		UpperLipCenter: 13,
		LipUpperInner:  14,
		LipLowerInner:  17,
		NoseTip:        1,
		Chin:           152,
	}
}

// Calibration carries every threshold and weight the pipeline uses. Values
// come from the reference calibration against real webcam footage; override
// per deployment through the environment, never by editing formulas.
type Calibration struct {
	// Confusion signal thresholds.
	BrowFurrowThreshold  float64 // inner-brow distance / eye width ratio
	SmileRaiseThreshold  float64 // upper-lip raise, normalized face units
	HeadTiltThresholdDeg float64 // degrees off horizontal
	EyeAspectThreshold   float64 // vertical / horizontal eye opening
	MouthOpenThreshold   float64 // lip gap, normalized face units

	// Weighted scoring. The five weights sum to 1.0, ordered by observed
	// reliability of each signal.
	WeightBrowFurrow   float64
	WeightSmileAbsence float64
	WeightHeadTilt     float64
	WeightEyeStrain    float64
	WeightMouthOpen    float64

	ConfusedScoreThreshold float64
	HappyScoreThreshold    float64

	// Gaze deviation.
	YawThresholdDeg   float64
	PitchThresholdDeg float64
	GazeGraceSeconds  float64

	// Face count integrity.
	MinFacesRequired int
	MaxFacesAllowed  int
}

func DefaultCalibration() Calibration {
	return Calibration{
		BrowFurrowThreshold:  0.75,
		SmileRaiseThreshold:  0.03,
		HeadTiltThresholdDeg: 12,
		EyeAspectThreshold:   0.20,
		MouthOpenThreshold:   0.04,

		WeightBrowFurrow:   0.35,
		WeightSmileAbsence: 0.25,
		WeightHeadTilt:     0.20,
		WeightEyeStrain:    0.15,
		WeightMouthOpen:    0.05,

		ConfusedScoreThreshold: 0.50,
		HappyScoreThreshold:    0.70,

		YawThresholdDeg:   35,
		PitchThresholdDeg: 25,
		GazeGraceSeconds:  4,

		MinFacesRequired: 1,
		MaxFacesAllowed:  1,
	}
}

// Signals are the five per-frame confusion indicators, each clamped to [0,1].
type Signals struct {
	BrowFurrow   float64 `json:"brow_furrow"`
	SmileAbsence float64 `json:"smile_absence"`
	HeadTilt     float64 `json:"head_tilt"`
	EyeStrain    float64 `json:"eye_strain"`
	MouthOpen    float64 `json:"mouth_open"`
}

// HeadPose approximates head rotation from landmark vector angles, not a 3D
// pose solve. Yaw follows the outer-eye line, pitch the nose-to-chin line
// measured against vertical, both in degrees with 0 = facing the camera.
type HeadPose struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

type EngagementState int

const (
	EngagementFocused EngagementState = iota
	EngagementConfused
	EngagementHappy
)

func (s EngagementState) String() string {
	switch s {
	case EngagementConfused:
		return "Confused"
	case EngagementHappy:
		return "Happy/Excited"
	default:
		return "Focused/Neutral"
	}
}

// Level is the timeline encoding: -1 confused, 0 neutral, +1 happy.
func (s EngagementState) Level() int {
	switch s {
	case EngagementConfused:
		return -1
	case EngagementHappy:
		return 1
	default:
		return 0
	}
}

type IntegrityStatus int

const (
	IntegrityOK IntegrityStatus = iota
	IntegrityNoFace
	IntegrityMultipleFaces
)

func (s IntegrityStatus) String() string {
	switch s {
	case IntegrityOK:
		return "OK"
	case IntegrityNoFace:
		return "NO_FACE"
	case IntegrityMultipleFaces:
		return "MULTIPLE_FACES"
	default:
		return "UNKNOWN"
	}
}
