package capture

import (
	"sync"

	"github.com/anika/grinshot/internal/frame"
)

// Activity detection constants
const (
	// LumaDiffThreshold is the per-pixel luma delta that counts as change.
	LumaDiffThreshold = 25
	// activitySampleStep subsamples the luma grid; comparing every fourth
	// pixel in each direction keeps the gate cheap at full frame rates.
	activitySampleStep = 4
)

// ActivityGate detects scene activity between consecutive frames by
// differencing their luma planes. It is the cheap pre-filter that lets the
// pipeline skip landmark detection while the scene is static.
type ActivityGate struct {
	threshold   float64
	prev        []byte
	prevW       int
	prevH       int
	initialized bool
	mu          sync.Mutex
}

// NewActivityGate creates an ActivityGate with the given threshold.
// The threshold is the percentage of sampled luma pixels that must change.
// For example, a threshold of 1.0 means 1% of pixels must change.
func NewActivityGate(threshold float64) *ActivityGate {
	return &ActivityGate{threshold: threshold}
}

// Detect compares a frame's luma plane against the previous frame's.
// Returns whether the scene changed and the percentage of sampled pixels
// that differed. The first frame establishes the baseline and reports no
// activity. Detect reads the frame but never releases it.
func (g *ActivityGate) Detect(f *frame.RawFrame) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if f == nil || f.Format() != frame.FormatYUV420 {
		return false, 0
	}

	w, h := f.Width(), f.Height()
	luma := f.Plane(0)
	sample := sampleLuma(luma, w, h)
	if sample == nil {
		return false, 0
	}

	if !g.initialized || g.prevW != w || g.prevH != h {
		g.prev = sample
		g.prevW, g.prevH = w, h
		g.initialized = true
		return false, 0
	}

	changed := 0
	for i := range sample {
		d := int(sample[i]) - int(g.prev[i])
		if d < 0 {
			d = -d
		}
		if d > LumaDiffThreshold {
			changed++
		}
	}

	changePercent := float64(changed) / float64(len(sample)) * 100.0
	g.prev = sample

	return changePercent > g.threshold, changePercent
}

// sampleLuma picks every activitySampleStep-th luma pixel, row-aware so
// padded strides stay out of the sample.
func sampleLuma(luma frame.Plane, w, h int) []byte {
	if w <= 0 || h <= 0 || luma.RowStride <= 0 {
		return nil
	}

	sample := make([]byte, 0, (w/activitySampleStep+1)*(h/activitySampleStep+1))
	for row := 0; row < h; row += activitySampleStep {
		for col := 0; col < w; col += activitySampleStep {
			idx := row*luma.RowStride + col
			if idx >= len(luma.Data) {
				return sample
			}
			sample = append(sample, luma.Data[idx])
		}
	}
	return sample
}

// Reset clears the gate's baseline so the next frame re-establishes it.
func (g *ActivityGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prev = nil
	g.initialized = false
}

// SetThreshold sets the activity threshold.
// Values less than or equal to 0 are ignored.
func (g *ActivityGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.threshold = threshold
}
