// Package smile provides smile classification over face mesh landmarks and
// the debounce gate that turns classifications into capture triggers.
package smile

import (
	"math"

	"github.com/anika/grinshot/internal/detector"
)

// Classification thresholds. A mouth wider than 4.5% of the face that is at
// least three times wider than it is tall reads as a smile.
const (
	WidthRatioThreshold  = 0.045
	AspectRatioThreshold = 3.0
)

// Result is the outcome of classifying one landmark set.
type Result struct {
	IsSmiling       bool    `json:"isSmiling"`
	MouthWidthRatio float64 `json:"mouthWidthRatio"`
}

// Classify derives the smile decision from a face mesh landmark set. It is a
// pure function: identical input always yields an identical Result.
//
// Landmark sets shorter than the full mesh return the not-smiling default
// rather than guessing from partial geometry. Degenerate geometry (zero face
// width or a fully closed mouth) makes a ratio non-finite; a non-finite ratio
// is never a smile.
func Classify(points []detector.Point2D) Result {
	if len(points) < detector.NumLandmarks {
		return Result{}
	}

	mouthWidth := detector.Distance(points[detector.MouthCornerLeft], points[detector.MouthCornerRight])
	mouthHeight := detector.Distance(points[detector.UpperLipCenter], points[detector.LowerLipCenter])
	faceWidth := detector.Distance(points[detector.CheekLeft], points[detector.CheekRight])

	widthRatio := mouthWidth / faceWidth
	aspectRatio := mouthWidth / mouthHeight

	smiling := widthRatio > WidthRatioThreshold && aspectRatio > AspectRatioThreshold
	if !isFinite(widthRatio) || !isFinite(aspectRatio) {
		smiling = false
	}

	return Result{
		IsSmiling:       smiling,
		MouthWidthRatio: widthRatio,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
