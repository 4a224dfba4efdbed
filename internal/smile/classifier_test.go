package smile

import (
	"math"
	"testing"

	"github.com/anika/grinshot/internal/detector"
)

// meshWithMouth builds a full landmark set with the classifier's six contract
// points placed to produce the given mouth and face measurements.
func meshWithMouth(mouthWidth, mouthHeight, faceWidth float64) []detector.Point2D {
	points := make([]detector.Point2D, detector.NumLandmarks)

	points[detector.MouthCornerLeft] = detector.Point2D{X: 0, Y: 0}
	points[detector.MouthCornerRight] = detector.Point2D{X: mouthWidth, Y: 0}
	points[detector.UpperLipCenter] = detector.Point2D{X: mouthWidth / 2, Y: 0}
	points[detector.LowerLipCenter] = detector.Point2D{X: mouthWidth / 2, Y: mouthHeight}
	points[detector.CheekLeft] = detector.Point2D{X: 0, Y: 50}
	points[detector.CheekRight] = detector.Point2D{X: faceWidth, Y: 50}

	return points
}

func TestClassify_Smiling(t *testing.T) {
	// Mouth 50 wide on a 1000-wide face, lips 5 apart:
	// widthRatio 0.05 > 0.045 and aspectRatio 10 > 3.
	res := Classify(meshWithMouth(50, 5, 1000))

	if !res.IsSmiling {
		t.Error("expected smiling decision")
	}
	if math.Abs(res.MouthWidthRatio-0.05) > 1e-12 {
		t.Errorf("MouthWidthRatio = %v, want 0.05", res.MouthWidthRatio)
	}
}

func TestClassify_Thresholds(t *testing.T) {
	tests := []struct {
		name        string
		mouthWidth  float64
		mouthHeight float64
		faceWidth   float64
		want        bool
	}{
		{
			name:       "narrow mouth fails width ratio",
			mouthWidth: 30, mouthHeight: 5, faceWidth: 1000,
			want: false,
		},
		{
			name:       "open mouth fails aspect ratio",
			mouthWidth: 60, mouthHeight: 30, faceWidth: 1000,
			want: false,
		},
		{
			name:       "width ratio exactly at threshold is rejected",
			mouthWidth: 45, mouthHeight: 5, faceWidth: 1000,
			want: false,
		},
		{
			name:       "aspect ratio exactly at threshold is rejected",
			mouthWidth: 60, mouthHeight: 20, faceWidth: 1000,
			want: false,
		},
		{
			name:       "both ratios above threshold",
			mouthWidth: 60, mouthHeight: 10, faceWidth: 1000,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(meshWithMouth(tt.mouthWidth, tt.mouthHeight, tt.faceWidth))
			if res.IsSmiling != tt.want {
				t.Errorf("IsSmiling = %v, want %v (ratio %v)", res.IsSmiling, tt.want, res.MouthWidthRatio)
			}
		})
	}
}

func TestClassify_InsufficientLandmarks(t *testing.T) {
	points := make([]detector.Point2D, 100)
	for i := range points {
		points[i] = detector.Point2D{X: float64(i * 997), Y: float64(i * 31)}
	}

	res := Classify(points)

	if res.IsSmiling {
		t.Error("short landmark set must not be smiling")
	}
	if res.MouthWidthRatio != 0 {
		t.Errorf("MouthWidthRatio = %v, want 0", res.MouthWidthRatio)
	}
}

func TestClassify_DegenerateGeometry(t *testing.T) {
	tests := []struct {
		name        string
		mouthWidth  float64
		mouthHeight float64
		faceWidth   float64
	}{
		{"zero face width", 50, 5, 0},
		{"zero mouth height", 50, 0, 1000},
		{"everything zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(meshWithMouth(tt.mouthWidth, tt.mouthHeight, tt.faceWidth))
			if res.IsSmiling {
				t.Error("degenerate geometry must never be smiling")
			}
		})
	}
}

func TestClassify_Pure(t *testing.T) {
	points := meshWithMouth(50, 5, 1000)

	first := Classify(points)
	for i := 0; i < 10; i++ {
		if got := Classify(points); got != first {
			t.Fatalf("Classify() = %+v on call %d, want %+v", got, i+2, first)
		}
	}
}

func TestClassify_PresetFixtures(t *testing.T) {
	smiling := detector.SmilingFaceLandmarks()
	if res := Classify(smiling.Points); !res.IsSmiling {
		t.Errorf("smiling preset classified as %+v", res)
	}

	neutral := detector.NeutralFaceLandmarks()
	if res := Classify(neutral.Points); res.IsSmiling {
		t.Errorf("neutral preset classified as %+v", res)
	}
}
