package config

import (
	"os"
	"strconv"

	"SmartSession/pkg/vision"
)

// CalibrationFromEnv layers environment overrides on top of the reference
// calibration. Unset or malformed values keep the default.
func CalibrationFromEnv() vision.Calibration {
	cal := vision.DefaultCalibration()

	envFloat("BROW_FURROW_THRESHOLD", &cal.BrowFurrowThreshold)
	envFloat("SMILE_RAISE_THRESHOLD", &cal.SmileRaiseThreshold)
	envFloat("HEAD_TILT_THRESHOLD_DEG", &cal.HeadTiltThresholdDeg)
	envFloat("EYE_ASPECT_THRESHOLD", &cal.EyeAspectThreshold)
	envFloat("MOUTH_OPEN_THRESHOLD", &cal.MouthOpenThreshold)

	envFloat("WEIGHT_BROW_FURROW", &cal.WeightBrowFurrow)
	envFloat("WEIGHT_SMILE_ABSENCE", &cal.WeightSmileAbsence)
	envFloat("WEIGHT_HEAD_TILT", &cal.WeightHeadTilt)
	envFloat("WEIGHT_EYE_STRAIN", &cal.WeightEyeStrain)
	envFloat("WEIGHT_MOUTH_OPEN", &cal.WeightMouthOpen)

	envFloat("CONFUSED_SCORE_THRESHOLD", &cal.ConfusedScoreThreshold)
	envFloat("HAPPY_SCORE_THRESHOLD", &cal.HappyScoreThreshold)

	envFloat("YAW_THRESHOLD_DEG", &cal.YawThresholdDeg)
	envFloat("PITCH_THRESHOLD_DEG", &cal.PitchThresholdDeg)
	envFloat("GAZE_GRACE_SECONDS", &cal.GazeGraceSeconds)

	envInt("MIN_FACES_REQUIRED", &cal.MinFacesRequired)
	envInt("MAX_FACES_ALLOWED", &cal.MaxFacesAllowed)

	return cal
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
