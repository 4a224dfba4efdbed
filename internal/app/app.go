// Package app provides the main application logic for the Grinshot smile
// shutter.
package app

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/anika/grinshot/internal/capture"
	"github.com/anika/grinshot/internal/detector"
	"github.com/anika/grinshot/internal/frame"
	"github.com/anika/grinshot/internal/hook"
	"github.com/anika/grinshot/internal/smile"
	"github.com/anika/grinshot/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while the scene is static.
	IdleFPS = 5
	// ActiveFPS is the frame rate while the scene shows activity.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds without activity before
	// switching back to idle mode.
	IdleTimeoutMs = 2000
	// HookTimeoutMs is the per-hook execution timeout in milliseconds.
	HookTimeoutMs = 5000
)

// settingEnabled is the settings key persisting the enabled toggle.
const settingEnabled = "enabled"

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	HookDir        string
	SnapshotDir    string
	CameraID       int
	ActivityThresh float64
	DebounceWindow time.Duration
}

// App is the main application that orchestrates frame analysis and the
// capture action.
type App struct {
	config      Config
	camera      capture.Camera
	activity    *capture.ActivityGate
	converter   *frame.Converter
	detector    detector.Detector
	throttle    *smile.Throttle
	snapshotter *capture.Snapshotter
	hookMgr     *hook.Manager
	hookRunner  *hook.Runner
	enabled     bool
	ready       bool
	mu          sync.RWMutex
	stopCh      chan struct{}
	wg          sync.WaitGroup
	pending     chan *frame.RawFrame
	onResult    func(smile.Result)
	onCapture   func(*store.Capture)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	activityThreshold := config.ActivityThresh
	if activityThreshold <= 0 {
		activityThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		activity:   capture.NewActivityGate(activityThreshold),
		converter:  frame.NewConverter(),
		throttle:   smile.NewThrottle(config.DebounceWindow),
		hookMgr:    hook.NewManager(config.HookDir),
		hookRunner: hook.NewRunner(HookTimeoutMs * time.Millisecond),
		enabled:    false,
		pending:    make(chan *frame.RawFrame, 1),
	}

	// Try the face mesh service first, fall back to the mock detector.
	// The mock keeps the pipeline alive but never detects a face, so the
	// readiness flag stays down.
	if fm, err := detector.NewFaceMeshDetector(detector.DefaultConfig()); err == nil {
		a.detector = fm
		a.ready = true
		log.Println("Using face mesh landmark detection")
	} else {
		log.Printf("Face mesh service not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables smile capture and persists the choice.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	st := a.config.Store
	a.mu.Unlock()

	if st != nil {
		if err := st.Settings().Set(settingEnabled, strconv.FormatBool(enabled)); err != nil {
			log.Printf("Failed to persist enabled setting: %v", err)
		}
	}
}

// IsEnabled returns whether smile capture is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// RestoreEnabled loads the persisted enabled toggle from the store, if any.
func (a *App) RestoreEnabled() {
	if a.config.Store == nil {
		return
	}

	value, err := a.config.Store.Settings().Get(settingEnabled)
	if err != nil {
		return
	}
	if enabled, err := strconv.ParseBool(value); err == nil {
		a.mu.Lock()
		a.enabled = enabled
		a.mu.Unlock()
	}
}

// Ready reports whether a landmark detector has been installed, either the
// face mesh service found at construction or one injected via SetDetector.
// The construction-time fallback mock does not count: it keeps frames flowing
// but every analysis yields the not-smiling default, so readiness stays down
// until a detector is deliberately provided. When Ready is false the status
// API reports the pipeline as not ready.
func (a *App) Ready() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ready
}

// SetDetector installs the landmark detector implementation to use. Any
// non-nil detector marks the pipeline ready; injection is an explicit choice,
// unlike the construction-time fallback.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
	a.ready = d != nil
}

// SetCamera sets the camera implementation to use. Only effective before
// Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// OnResult registers a callback invoked with every analyzed frame's result.
// The callback runs on the analysis worker goroutine; receivers that need a
// different execution context must hand the result off themselves. No
// callback fires after Stop has returned.
func (a *App) OnResult(fn func(smile.Result)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onResult = fn
}

// OnCapture registers a callback invoked after a photograph was taken and
// recorded. Runs on the analysis worker goroutine.
func (a *App) OnCapture(fn func(*store.Capture)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onCapture = fn
}

// DiscoverHooks scans the hook directory and loads available hooks.
func (a *App) DiscoverHooks() error {
	return a.hookMgr.Discover()
}

// Start begins the analysis pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if a.snapshotter == nil && a.config.SnapshotDir != "" {
		snap, err := capture.NewSnapshotter(a.config.SnapshotDir)
		if err != nil {
			return err
		}
		a.snapshotter = snap
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	// Start at the idle cadence until the scene moves
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	a.wg.Add(2)
	go a.runProducer(a.stopCh)
	go a.runWorker(a.stopCh)

	log.Println("Analysis pipeline started")
	return nil
}

// Stop halts the pipeline, releases any in-flight frame, and closes the
// detector. When Stop returns, no further result or capture callbacks fire.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	a.stopCh = nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	a.wg.Wait()

	// Release a frame parked in the mailbox so its buffer returns home.
	select {
	case f := <-a.pending:
		f.Close()
	default:
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.activity.Reset()

	a.mu.Lock()
	det := a.detector
	a.mu.Unlock()
	if det != nil {
		if err := det.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Analysis pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// ActivityGate returns the scene activity gate.
func (a *App) ActivityGate() *capture.ActivityGate {
	return a.activity
}

// Converter returns the pixel converter.
func (a *App) Converter() *frame.Converter {
	return a.converter
}

// Throttle returns the capture throttle.
func (a *App) Throttle() *smile.Throttle {
	return a.throttle
}

// HookManager returns the hook manager.
func (a *App) HookManager() *hook.Manager {
	return a.hookMgr
}

// Detector returns the landmark detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
