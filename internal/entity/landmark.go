package entity

// LandmarkResult is the landmark service's reply for one analyzed frame.
// Landmarks is either empty or the full refined mesh; a populated Error with
// a usable face count still invalidates the mesh.
type LandmarkResult struct {
	FaceCount int          `json:"face_count"`
	Landmarks [][2]float64 `json:"landmarks,omitempty"`
	Error     string       `json:"error,omitempty"`
}
