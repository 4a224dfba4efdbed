package detector

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxFaces != 1 {
		t.Errorf("MaxFaces = %d, want 1", cfg.MaxFaces)
	}
	if cfg.MinConfidence != 0.5 {
		t.Errorf("MinConfidence = %f, want 0.5", cfg.MinConfidence)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want float64
	}{
		{
			name: "same point",
			a:    Point2D{X: 1, Y: 2},
			b:    Point2D{X: 1, Y: 2},
			want: 0,
		},
		{
			name: "horizontal",
			a:    Point2D{X: 0, Y: 0},
			b:    Point2D{X: 3, Y: 0},
			want: 3,
		},
		{
			name: "3-4-5 triangle",
			a:    Point2D{X: 0, Y: 0},
			b:    Point2D{X: 3, Y: 4},
			want: 5,
		},
		{
			name: "negative coordinates",
			a:    Point2D{X: -1, Y: -1},
			b:    Point2D{X: 2, Y: 3},
			want: 5,
		},
		{
			name: "sub-pixel delta",
			a:    Point2D{X: 0.25, Y: 0},
			b:    Point2D{X: 0.75, Y: 0},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFaceLandmarks_Complete(t *testing.T) {
	full := FaceLandmarks{Points: make([]Point2D, NumLandmarks)}
	if !full.Complete() {
		t.Error("468-point set should be complete")
	}

	short := FaceLandmarks{Points: make([]Point2D, 100)}
	if short.Complete() {
		t.Error("100-point set should not be complete")
	}
}

func TestLandmarkIndices(t *testing.T) {
	// The indices are a contract with the upstream detector's point
	// ordering; pin them so a reshuffle is caught.
	indices := map[string]int{
		"UpperLipCenter":   13,
		"LowerLipCenter":   14,
		"MouthCornerLeft":  61,
		"CheekLeft":        234,
		"MouthCornerRight": 291,
		"CheekRight":       454,
	}
	got := map[string]int{
		"UpperLipCenter":   UpperLipCenter,
		"LowerLipCenter":   LowerLipCenter,
		"MouthCornerLeft":  MouthCornerLeft,
		"CheekLeft":        CheekLeft,
		"MouthCornerRight": MouthCornerRight,
		"CheekRight":       CheekRight,
	}
	for name, want := range indices {
		if got[name] != want {
			t.Errorf("%s = %d, want %d", name, got[name], want)
		}
	}
	if NumLandmarks != 468 {
		t.Errorf("NumLandmarks = %d, want 468", NumLandmarks)
	}
}

func TestMockDetector(t *testing.T) {
	m := NewMockDetector()

	faces, err := m.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(faces) != 0 {
		t.Errorf("empty mock returned %d faces, want 0", len(faces))
	}

	m.SetFaces([]FaceLandmarks{SmilingFaceLandmarks()})
	faces, err = m.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(faces) != 1 {
		t.Fatalf("Detect() returned %d faces, want 1", len(faces))
	}

	wantErr := errors.New("boom")
	m.SetError(wantErr)
	if _, err := m.Detect(nil); !errors.Is(err, wantErr) {
		t.Errorf("Detect() error = %v, want %v", err, wantErr)
	}

	if m.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", m.Calls())
	}

	if err := m.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestPresetLandmarks(t *testing.T) {
	tests := []struct {
		name string
		face FaceLandmarks
	}{
		{"smiling", SmilingFaceLandmarks()},
		{"neutral", NeutralFaceLandmarks()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.face.Complete() {
				t.Fatalf("preset has %d points, want >= %d", len(tt.face.Points), NumLandmarks)
			}
			if faceWidth := Distance(tt.face.Points[CheekLeft], tt.face.Points[CheekRight]); faceWidth != 1000 {
				t.Errorf("face width = %f, want 1000", faceWidth)
			}
		})
	}
}

func TestSmilingFaceLandmarks_Geometry(t *testing.T) {
	face := SmilingFaceLandmarks()

	mouthWidth := Distance(face.Points[MouthCornerLeft], face.Points[MouthCornerRight])
	if mouthWidth != 50 {
		t.Errorf("mouth width = %f, want 50", mouthWidth)
	}

	mouthHeight := Distance(face.Points[UpperLipCenter], face.Points[LowerLipCenter])
	if mouthHeight != 5 {
		t.Errorf("mouth height = %f, want 5", mouthHeight)
	}
}
