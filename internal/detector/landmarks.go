// Package detector provides face landmark detection interfaces and types for
// the Grinshot smile shutter.
package detector

import "math"

// Face mesh landmark indices following the MediaPipe face mesh convention.
// The classifier depends on this exact ordering; the indices must never be
// remapped.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	UpperLipCenter   = 13
	LowerLipCenter   = 14
	MouthCornerLeft  = 61
	CheekLeft        = 234
	MouthCornerRight = 291
	CheekRight       = 454
	NumLandmarks     = 468
)

// Point2D represents a landmark coordinate in image space.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FaceLandmarks represents one detected face's landmark set. A complete face
// mesh carries NumLandmarks points; detectors may return fewer on partial
// detections, and consumers must handle short sets.
type FaceLandmarks struct {
	Points []Point2D `json:"points"`
	Score  float64   `json:"score"`
}

// Complete reports whether the landmark set carries a full face mesh.
func (f *FaceLandmarks) Complete() bool {
	return len(f.Points) >= NumLandmarks
}

// Distance calculates the Euclidean distance between two landmark points.
func Distance(a, b Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
