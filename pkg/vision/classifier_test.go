package vision

import (
	"math"
	"testing"
)

// boundaryCalibration uses binary-exact weights and thresholds so boundary
// comparisons are not at the mercy of float rounding.
func boundaryCalibration() Calibration {
	cal := DefaultCalibration()
	cal.WeightBrowFurrow = 0.5
	cal.WeightSmileAbsence = 0.25
	cal.WeightHeadTilt = 0.125
	cal.WeightEyeStrain = 0.0625
	cal.WeightMouthOpen = 0.0625
	cal.ConfusedScoreThreshold = 0.5
	cal.HappyScoreThreshold = 0.75
	return cal
}

func TestCombinedScoreIsWeightedSum(t *testing.T) {
	cal := DefaultCalibration()
	c := NewClassifier(cal)

	s := Signals{BrowFurrow: 1, SmileAbsence: 1, HeadTilt: 1, EyeStrain: 1, MouthOpen: 1}
	got := c.CombinedScore(s)
	want := cal.WeightBrowFurrow + cal.WeightSmileAbsence + cal.WeightHeadTilt +
		cal.WeightEyeStrain + cal.WeightMouthOpen

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("combined score = %v, want %v", got, want)
	}
	if math.Abs(want-1.0) > 1e-9 {
		t.Errorf("reference weights sum to %v, want 1.0", want)
	}
}

func TestCombinedScoreMonotonic(t *testing.T) {
	c := NewClassifier(DefaultCalibration())

	base := Signals{BrowFurrow: 0.3, SmileAbsence: 0.4, HeadTilt: 0.2, EyeStrain: 0.5, MouthOpen: 0.1}
	baseScore := c.CombinedScore(base)

	bump := []struct {
		name string
		s    Signals
	}{
		{"brow_furrow", Signals{0.9, 0.4, 0.2, 0.5, 0.1}},
		{"smile_absence", Signals{0.3, 0.9, 0.2, 0.5, 0.1}},
		{"head_tilt", Signals{0.3, 0.4, 0.9, 0.5, 0.1}},
		{"eye_strain", Signals{0.3, 0.4, 0.2, 0.9, 0.1}},
		{"mouth_open", Signals{0.3, 0.4, 0.2, 0.5, 0.9}},
	}

	for _, tt := range bump {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.CombinedScore(tt.s); got <= baseScore {
				t.Errorf("raising %s gave score %v, want > %v", tt.name, got, baseScore)
			}
		})
	}
}

func TestClassifyThresholdBoundaries(t *testing.T) {
	c := NewClassifier(boundaryCalibration())

	tests := []struct {
		name      string
		signals   Signals
		wantState EngagementState
		wantLevel int
	}{
		// brow weight is 0.5, so BrowFurrow 1.0 alone scores exactly 0.5.
		{"exactly at confused threshold", Signals{BrowFurrow: 1}, EngagementConfused, -1},
		{"just under confused threshold", Signals{BrowFurrow: 0.999}, EngagementFocused, 0},
		// 1 - happy threshold = 0.25: an exact hit stays Focused, not Happy.
		{"exactly at happy boundary", Signals{BrowFurrow: 0.5}, EngagementFocused, 0},
		{"below happy boundary", Signals{BrowFurrow: 0.4}, EngagementHappy, 1},
		{"all signals zero", Signals{}, EngagementHappy, 1},
		{"all signals maxed", Signals{1, 1, 1, 1, 1}, EngagementConfused, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(tt.signals)
			if v.State != tt.wantState {
				t.Errorf("state = %v (score %v), want %v", v.State, v.Score, tt.wantState)
			}
			if v.State.Level() != tt.wantLevel {
				t.Errorf("level = %d, want %d", v.State.Level(), tt.wantLevel)
			}
		})
	}
}

func TestClassifyConfusionScenario(t *testing.T) {
	// Heavy furrow plus a suppressed smile crosses the aggregate threshold
	// even with every other signal quiet. A furrow alone must not.
	cal := DefaultCalibration()
	ex := NewExtractor(cal)
	c := NewClassifier(cal)
	idx := DefaultIndices()

	lm := neutralFace()
	lm[idx.BrowInnerLeft] = Landmark{X: 0.495, Y: 0.33}
	lm[idx.BrowInnerRight] = Landmark{X: 0.505, Y: 0.33}
	// Mouth corners level with the upper lip: no smile at all.
	lm[idx.UpperLipCenter].Y = lm[idx.MouthCornerL].Y

	v := c.Classify(ex.Signals(lm))
	if v.State != EngagementConfused {
		t.Fatalf("state = %v (score %v), want Confused", v.State, v.Score)
	}
	if v.Score < cal.ConfusedScoreThreshold {
		t.Errorf("score = %v, want >= %v", v.Score, cal.ConfusedScoreThreshold)
	}

	// Same furrow with a genuine smile stays out of confused territory.
	lm[idx.UpperLipCenter].Y = lm[idx.MouthCornerL].Y - 0.05
	v = c.Classify(ex.Signals(lm))
	if v.State == EngagementConfused {
		t.Errorf("state = Confused (score %v) despite a clear smile", v.Score)
	}
}
