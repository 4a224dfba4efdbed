package app

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anika/grinshot/internal/capture"
	"github.com/anika/grinshot/internal/detector"
	"github.com/anika/grinshot/internal/frame"
	"github.com/anika/grinshot/internal/smile"
	"github.com/anika/grinshot/internal/store"
)

// movingScene returns two frames different enough to keep the activity gate
// in active mode while looping.
func movingScene() []*frame.RawFrame {
	return []*frame.RawFrame{
		capture.GradientFrame(64, 48, 0),
		capture.GradientFrame(64, 48, 120),
	}
}

func newIntegrationApp(t *testing.T) (*App, *capture.MockCamera, *detector.MockDetector, *store.Store) {
	t.Helper()

	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "grinshot.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	a := New(Config{
		Store:          st,
		SnapshotDir:    filepath.Join(dir, "snapshots"),
		DebounceWindow: time.Minute, // one capture per test run
	})

	cam := capture.NewMockCamera(movingScene(), true)
	a.SetCamera(cam)

	det := detector.NewMockDetector()
	a.SetDetector(det)

	return a, cam, det, st
}

func TestApp_SmileTriggersOneCapture(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test that requires OpenCV")
	}

	a, _, det, st := newIntegrationApp(t)
	det.SetFaces([]detector.FaceLandmarks{detector.SmilingFaceLandmarks()})

	captured := make(chan *store.Capture, 8)
	a.OnCapture(func(c *store.Capture) { captured <- c })

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()
	a.SetEnabled(true)

	var c *store.Capture
	select {
	case c = <-captured:
	case <-time.After(5 * time.Second):
		t.Fatal("no capture within 5s of smiling frames")
	}

	if c.WidthRatio <= smile.WidthRatioThreshold {
		t.Errorf("capture width ratio = %f, want > %f", c.WidthRatio, smile.WidthRatioThreshold)
	}

	// Smiling continues, but the debounce window suppresses retriggers.
	time.Sleep(600 * time.Millisecond)
	n, err := st.Captures().Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("capture count = %d inside one debounce window, want 1", n)
	}

	got, err := st.Captures().GetByID(c.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Path != c.Path {
		t.Errorf("recorded path = %s, want %s", got.Path, c.Path)
	}
}

func TestApp_NeutralFaceNeverCaptures(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test that requires OpenCV")
	}

	a, _, det, st := newIntegrationApp(t)
	det.SetFaces([]detector.FaceLandmarks{detector.NeutralFaceLandmarks()})

	results := make(chan smile.Result, 64)
	a.OnResult(func(r smile.Result) {
		select {
		case results <- r:
		default:
		}
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()
	a.SetEnabled(true)

	// Wait for a few analyses to flow through.
	for i := 0; i < 3; i++ {
		select {
		case r := <-results:
			if r.IsSmiling {
				t.Error("neutral face classified as smiling")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("no analysis results within 5s")
		}
	}

	if n, _ := st.Captures().Count(); n != 0 {
		t.Errorf("capture count = %d for neutral face, want 0", n)
	}
}

func TestApp_EveryFrameReleasedAfterStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test that requires OpenCV")
	}

	a, cam, det, _ := newIntegrationApp(t)
	det.SetFaces([]detector.FaceLandmarks{detector.NeutralFaceLandmarks()})

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	a.SetEnabled(true)

	time.Sleep(1200 * time.Millisecond)
	a.Stop()

	if reads, released := cam.Reads(), cam.Released(); reads != released {
		t.Errorf("%d frames read but %d released", reads, released)
	}
}

func TestApp_NoCallbacksAfterStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test that requires OpenCV")
	}

	a, _, det, _ := newIntegrationApp(t)
	det.SetFaces([]detector.FaceLandmarks{detector.NeutralFaceLandmarks()})

	var results atomic.Int64
	a.OnResult(func(smile.Result) { results.Add(1) })

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	a.SetEnabled(true)

	time.Sleep(800 * time.Millisecond)
	a.Stop()

	after := results.Load()
	time.Sleep(400 * time.Millisecond)
	if got := results.Load(); got != after {
		t.Errorf("results grew from %d to %d after Stop returned", after, got)
	}
}

func TestApp_StartIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test that requires OpenCV")
	}

	a, _, _, _ := newIntegrationApp(t)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := a.Start(); err != nil {
		t.Errorf("second Start() error = %v", err)
	}
	a.Stop()
	a.Stop() // second Stop must be a no-op
}

func TestApp_RestoreEnabled(t *testing.T) {
	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "grinshot.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	a1 := New(Config{Store: st})
	a1.SetEnabled(true)

	a2 := New(Config{Store: st})
	a2.RestoreEnabled()
	if !a2.IsEnabled() {
		t.Error("RestoreEnabled() did not restore the persisted toggle")
	}
}
