package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/anika/grinshot/internal/frame"
	"github.com/anika/grinshot/internal/hook"
	"github.com/anika/grinshot/internal/smile"
	"github.com/anika/grinshot/internal/store"
)

// runProducer is the frame acquisition loop. It reads frames at the current
// cadence, manages the idle/active transitions from the scene activity gate,
// and submits frames for analysis.
//
// Producer logic:
// 1. Start in idle mode (idleFPS=5)
// 2. On scene activity, switch to active mode (activeFPS=15)
// 3. In active mode, submit every frame to the analysis mailbox
// 4. After 2s without activity, switch back to idle mode
// Frames skipped in idle mode are released immediately.
func (a *App) runProducer(stopCh chan struct{}) {
	defer a.wg.Done()

	activeMode := false
	lastActivity := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip acquisition while capture is disabled
			if !a.IsEnabled() {
				continue
			}

			f, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			active, _ := a.activity.Detect(f)

			if active {
				lastActivity = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastActivity) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode {
				f.Close()
				continue
			}

			a.Submit(f)
		}
	}
}

// Submit hands a frame to the analysis worker. The mailbox holds a single
// frame: if an older frame is still waiting, it is released and replaced, so
// the worker always sees the latest frame and never builds a queue.
// Submit takes ownership of the frame.
func (a *App) Submit(f *frame.RawFrame) {
	for {
		select {
		case a.pending <- f:
			return
		default:
		}

		// Mailbox full: evict the stale frame, then retry. The worker
		// may have drained it in between, so this loops rather than
		// assuming the eviction succeeded.
		select {
		case old := <-a.pending:
			old.Close()
		default:
		}
	}
}

// runWorker is the analysis loop: one frame at a time, results delivered in
// submission order.
func (a *App) runWorker(stopCh chan struct{}) {
	defer a.wg.Done()

	for {
		select {
		case <-stopCh:
			return
		case f := <-a.pending:
			res := a.analyze(f)
			a.deliver(res)
		}
	}
}

// analyze runs the per-frame pipeline: convert, detect, classify, and fire
// the capture action when the throttle accepts. Every failure degrades to
// the not-smiling default; nothing here may kill the worker. The frame is
// released exactly once on every path.
func (a *App) analyze(f *frame.RawFrame) smile.Result {
	defer f.Close()

	img, err := a.converter.Convert(f)
	if err != nil {
		log.Printf("Frame conversion failed: %v", err)
		return smile.Result{}
	}
	defer img.Close()

	det := a.Detector()
	if det == nil {
		return smile.Result{}
	}

	faces, err := det.Detect(img)
	if err != nil {
		log.Printf("Landmark detection failed: %v", err)
		return smile.Result{}
	}
	if len(faces) == 0 {
		return smile.Result{}
	}

	// Single-subject design: only the first detected face counts.
	res := smile.Classify(faces[0].Points)

	if res.IsSmiling && a.throttle.ShouldTrigger(time.Now()) {
		a.capturePhoto(img, res)
	}

	return res
}

// capturePhoto performs the capture action: write the photograph, record it,
// and run the post-capture hooks.
func (a *App) capturePhoto(img *gocv.Mat, res smile.Result) {
	a.mu.RLock()
	snap := a.snapshotter
	a.mu.RUnlock()
	if snap == nil {
		return
	}

	id, path, err := snap.Save(img)
	if err != nil {
		log.Printf("Snapshot failed: %v", err)
		return
	}

	c := &store.Capture{
		ID:         id,
		Path:       path,
		WidthRatio: res.MouthWidthRatio,
		Width:      img.Cols(),
		Height:     img.Rows(),
		TakenAt:    time.Now(),
	}

	if a.config.Store != nil {
		if err := a.config.Store.Captures().Create(c); err != nil {
			log.Printf("Failed to record capture: %v", err)
		}
	}

	a.runHooks(c)

	a.mu.RLock()
	cb := a.onCapture
	a.mu.RUnlock()
	if cb != nil {
		cb(c)
	}

	log.Printf("Captured %s (width ratio %.3f)", path, res.MouthWidthRatio)
}

// runHooks executes every discovered hook with the capture payload. Hook
// failures are logged and never fatal.
func (a *App) runHooks(c *store.Capture) {
	hooks := a.hookMgr.List()
	if len(hooks) == 0 {
		return
	}

	payload := &hook.Payload{
		CaptureID:  c.ID,
		Path:       c.Path,
		WidthRatio: c.WidthRatio,
		TakenAt:    c.TakenAt,
	}

	for _, h := range hooks {
		if err := a.hookRunner.Run(h, payload); err != nil {
			log.Printf("Hook failed: %v", err)
		}
	}
}

// deliver hands a result to the registered callback, outside any lock.
func (a *App) deliver(res smile.Result) {
	a.mu.RLock()
	cb := a.onResult
	a.mu.RUnlock()

	if cb != nil {
		cb(res)
	}
}
