package vision

// Verdict is the engagement classification for one frame, carrying the
// combined score that produced it.
type Verdict struct {
	State EngagementState
	Score float64
}

// Classifier turns a signal vector into a discrete engagement state through
// a weighted combination. A single strong signal is deliberately not enough:
// concentration alone furrows brows, thinking alone tilts heads. Only several
// weak signals aligning should cross the confusion threshold.
type Classifier struct {
	cal Calibration
}

func NewClassifier(cal Calibration) *Classifier {
	return &Classifier{cal: cal}
}

// CombinedScore is the weighted linear sum of the five signals.
func (c *Classifier) CombinedScore(s Signals) float64 {
	return s.BrowFurrow*c.cal.WeightBrowFurrow +
		s.SmileAbsence*c.cal.WeightSmileAbsence +
		s.HeadTilt*c.cal.WeightHeadTilt +
		s.EyeStrain*c.cal.WeightEyeStrain +
		s.MouthOpen*c.cal.WeightMouthOpen
}

func (c *Classifier) Classify(s Signals) Verdict {
	score := c.CombinedScore(s)

	switch {
	case score >= c.cal.ConfusedScoreThreshold:
		return Verdict{State: EngagementConfused, Score: score}
	case score < 1-c.cal.HappyScoreThreshold:
		return Verdict{State: EngagementHappy, Score: score}
	default:
		return Verdict{State: EngagementFocused, Score: score}
	}
}
