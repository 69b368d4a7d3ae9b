package vision

import "testing"

func TestCheckFaceCount(t *testing.T) {
	cal := DefaultCalibration()

	tests := []struct {
		count int
		want  IntegrityStatus
	}{
		{0, IntegrityNoFace},
		{1, IntegrityOK},
		{2, IntegrityMultipleFaces},
		{5, IntegrityMultipleFaces},
		{-1, IntegrityNoFace},
	}

	for _, tt := range tests {
		if got := CheckFaceCount(tt.count, cal); got != tt.want {
			t.Errorf("CheckFaceCount(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestCheckFaceCountCustomBounds(t *testing.T) {
	cal := DefaultCalibration()
	cal.MinFacesRequired = 1
	cal.MaxFacesAllowed = 2

	if got := CheckFaceCount(2, cal); got != IntegrityOK {
		t.Errorf("CheckFaceCount(2) with max 2 = %v, want OK", got)
	}
	if got := CheckFaceCount(3, cal); got != IntegrityMultipleFaces {
		t.Errorf("CheckFaceCount(3) with max 2 = %v, want MultipleFaces", got)
	}
}
