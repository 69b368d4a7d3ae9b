package vision

// CheckFaceCount maps a detected face count to an integrity status. Runs
// before any landmark-dependent check: zero faces means landmarks cannot
// exist, and a second face in frame is a violation no matter how clean the
// mesh looks.
func CheckFaceCount(count int, cal Calibration) IntegrityStatus {
	switch {
	case count < cal.MinFacesRequired:
		return IntegrityNoFace
	case count > cal.MaxFacesAllowed:
		return IntegrityMultipleFaces
	default:
		return IntegrityOK
	}
}
