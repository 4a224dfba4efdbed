package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	faces []FaceLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFaces sets the faces that will be returned by Detect.
func (m *MockDetector) SetFaces(faces []FaceLandmarks) {
	m.faces = faces
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured faces or error.
func (m *MockDetector) Detect(img *gocv.Mat) ([]FaceLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.faces, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// baseFaceLandmarks returns a full 468-point mesh laid out over a face box in
// a 1280x720 image. Points that the classifier consumes are overwritten by
// the preset constructors below.
func baseFaceLandmarks() FaceLandmarks {
	lm := FaceLandmarks{
		Points: make([]Point2D, NumLandmarks),
		Score:  0.95,
	}

	// Spread filler points over a 26x18 grid covering the face box so the
	// mesh has plausible geometry everywhere.
	const (
		left   = 140.0
		top    = 100.0
		width  = 1000.0
		height = 520.0
		cols   = 26
	)
	for i := range lm.Points {
		row := i / cols
		col := i % cols
		lm.Points[i] = Point2D{
			X: left + width*float64(col)/float64(cols-1),
			Y: top + height*float64(row)/17.0,
		}
	}

	// Cheeks span the full face box.
	lm.Points[CheekLeft] = Point2D{X: 140, Y: 360}
	lm.Points[CheekRight] = Point2D{X: 1140, Y: 360}

	return lm
}

// SmilingFaceLandmarks returns a preset face mesh of a broad smile: the mouth
// is 5% of the face width and ten times wider than it is tall.
func SmilingFaceLandmarks() FaceLandmarks {
	lm := baseFaceLandmarks()

	lm.Points[MouthCornerLeft] = Point2D{X: 615, Y: 500}
	lm.Points[MouthCornerRight] = Point2D{X: 665, Y: 500}
	lm.Points[UpperLipCenter] = Point2D{X: 640, Y: 497}
	lm.Points[LowerLipCenter] = Point2D{X: 640, Y: 502}

	return lm
}

// NeutralFaceLandmarks returns a preset face mesh of a relaxed mouth: narrow
// relative to the face and slightly open.
func NeutralFaceLandmarks() FaceLandmarks {
	lm := baseFaceLandmarks()

	lm.Points[MouthCornerLeft] = Point2D{X: 625, Y: 500}
	lm.Points[MouthCornerRight] = Point2D{X: 655, Y: 500}
	lm.Points[UpperLipCenter] = Point2D{X: 640, Y: 492}
	lm.Points[LowerLipCenter] = Point2D{X: 640, Y: 507}

	return lm
}
