// Package capture provides camera frame acquisition, the scene activity
// gate, and snapshot writing for the Grinshot smile shutter.
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"

	"github.com/anika/grinshot/internal/frame"
)

// Default camera settings
const (
	DefaultFPS    = 5
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera defines the interface for camera capture implementations. Frames
// are delivered in the planar 4:2:0 sensor layout and must be closed by the
// consumer; the camera recycles a bounded buffer pool behind them.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*frame.RawFrame, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	deviceID int
	capture  *gocv.VideoCapture
	pool     *FramePool
	mu       sync.Mutex
	running  bool
	fps      int
}

// NewCamera creates a new Camera with the given device ID.
// The default FPS is 5 for performance reasons.
func NewCamera(deviceID int) Camera {
	return &cameraImpl{
		deviceID: deviceID,
		fps:      DefaultFPS,
	}
}

// Open opens the camera for capturing frames.
// It sets the resolution to 640x480 for performance.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}

	// Set resolution for performance
	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.pool = nil // sized lazily against delivered frames
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera as a planar 4:2:0 RawFrame.
// The caller must close the returned frame; when every pooled buffer is
// checked out, ReadFrame fails with ErrPoolExhausted until one is released.
func (c *cameraImpl) ReadFrame() (*frame.RawFrame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	defer mat.Close()
	if ok := c.capture.Read(&mat); !ok {
		return nil, errors.New("failed to read frame from camera")
	}
	if mat.Empty() {
		return nil, errors.New("captured frame is empty")
	}

	w, h := mat.Cols(), mat.Rows()

	yuv := gocv.NewMat()
	defer yuv.Close()
	gocv.CvtColor(mat, &yuv, gocv.ColorBGRToYUVI420)
	data := yuv.ToBytes()
	if len(data) < w*h*3/2 {
		return nil, errors.New("short planar conversion")
	}

	c.pool = ensurePool(c.pool, w*h*3/2)

	buf, err := c.pool.Get()
	if err != nil {
		return nil, err
	}
	copy(buf, data[:len(buf)])

	pool := c.pool
	return frame.NewRawFrame(frame.FormatYUV420, w, h, planesFor(buf, w, h), func() {
		pool.Put(buf)
	}), nil
}

// ensurePool returns a pool whose buffers hold size bytes, replacing the
// current one when the device changes frame dimensions mid-stream. Frames
// still holding old buffers release into the abandoned pool harmlessly.
func ensurePool(pool *FramePool, size int) *FramePool {
	if pool == nil || pool.BufSize() != size {
		return NewFramePool(DefaultPoolSize, size)
	}
	return pool
}

// planesFor slices a contiguous planar 4:2:0 buffer into its three planes.
func planesFor(buf []byte, w, h int) [3]frame.Plane {
	luma := w * h
	chroma := luma / 4
	return [3]frame.Plane{
		{Data: buf[:luma], RowStride: w, PixelStride: 1},
		{Data: buf[luma : luma+chroma], RowStride: w / 2, PixelStride: 1},
		{Data: buf[luma+chroma : luma+2*chroma], RowStride: w / 2, PixelStride: 1},
	}
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
