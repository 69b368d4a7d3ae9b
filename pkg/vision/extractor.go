package vision

import (
	"math"
)

// epsilon guards every division against near-zero denominators from
// degenerate landmark geometry.
const epsilon = 1e-6

// Extractor derives the confusion signals and head pose from a complete
// landmark set. Pure computation, no state.
type Extractor struct {
	cal Calibration
	idx LandmarkIndices
}

func NewExtractor(cal Calibration) *Extractor {
	return &Extractor{
		cal: cal,
		idx: DefaultIndices(),
	}
}

func NewExtractorWithIndices(cal Calibration, idx LandmarkIndices) *Extractor {
	return &Extractor{cal: cal, idx: idx}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func distance(a, b Landmark) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func angleDeg(from, to Landmark) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi
}

// Signals computes the five component scores. The caller must pass a
// complete set; absence is an integrity condition handled upstream.
func (e *Extractor) Signals(lm LandmarkSet) Signals {
	eyeOuterL := lm[e.idx.EyeOuterLeft]
	eyeOuterR := lm[e.idx.EyeOuterRight]
	eyeWidth := distance(eyeOuterL, eyeOuterR)

	// Brow furrow: inner brows pulled together relative to eye width.
	browDistance := distance(lm[e.idx.BrowInnerLeft], lm[e.idx.BrowInnerRight])
	browRatio := browDistance / (eyeWidth + epsilon)
	browFurrow := clamp01((e.cal.BrowFurrowThreshold - browRatio) / e.cal.BrowFurrowThreshold)

	// Smile absence: upper lip raised above the mouth corners means a smile,
	// so a low or negative raise scores high.
	cornerAvgY := (lm[e.idx.MouthCornerL].Y + lm[e.idx.MouthCornerR].Y) / 2
	lipRaise := cornerAvgY - lm[e.idx.UpperLipCenter].Y
	smileAbsence := clamp01((e.cal.SmileRaiseThreshold - lipRaise) / e.cal.SmileRaiseThreshold)

	// Head tilt: the eye line off horizontal.
	rollDeg := math.Abs(angleDeg(eyeOuterL, eyeOuterR))
	headTilt := clamp01(rollDeg / e.cal.HeadTiltThresholdDeg)

	// Eye strain: aspect ratio of one eye, low ratio = squinting.
	vertical := distance(lm[e.idx.EyeTopRight], lm[e.idx.EyeBottomRight])
	horizontal := distance(lm[e.idx.EyeOuterLeft], lm[e.idx.EyeInnerRight])
	aspectRatio := vertical / (horizontal + epsilon)
	eyeStrain := clamp01((e.cal.EyeAspectThreshold - aspectRatio) / e.cal.EyeAspectThreshold)

	// Mouth open: lip gap past half the threshold. The half-threshold offset
	// biases the midpoint and is part of the reference calibration; keep it.
	mouthHeight := math.Abs(lm[e.idx.LipUpperInner].Y - lm[e.idx.LipLowerInner].Y)
	mouthOpen := clamp01((mouthHeight - e.cal.MouthOpenThreshold/2) / e.cal.MouthOpenThreshold)

	return Signals{
		BrowFurrow:   browFurrow,
		SmileAbsence: smileAbsence,
		HeadTilt:     headTilt,
		EyeStrain:    eyeStrain,
		MouthOpen:    mouthOpen,
	}
}

// HeadPose approximates yaw from the outer-eye line and pitch from the
// nose-to-chin line. The nose-chin vector points straight down on a face
// looking at the camera, so pitch is measured as its deviation from
// vertical.
func (e *Extractor) HeadPose(lm LandmarkSet) HeadPose {
	yaw := angleDeg(lm[e.idx.EyeOuterLeft], lm[e.idx.EyeOuterRight])
	pitch := angleDeg(lm[e.idx.NoseTip], lm[e.idx.Chin]) - 90

	return HeadPose{Yaw: yaw, Pitch: pitch}
}
