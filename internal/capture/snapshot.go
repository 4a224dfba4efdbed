package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// SnapshotQuality is the JPEG quality for saved photographs.
const SnapshotQuality = 95

// ErrSnapshotFailed is returned when the photograph cannot be written.
var ErrSnapshotFailed = errors.New("snapshot write failed")

// Snapshotter writes captured photographs into a directory.
type Snapshotter struct {
	dir string
}

// NewSnapshotter creates a Snapshotter writing into dir, creating it if
// needed.
func NewSnapshotter(dir string) (*Snapshotter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &Snapshotter{dir: dir}, nil
}

// Dir returns the snapshot directory.
func (s *Snapshotter) Dir() string {
	return s.dir
}

// Save writes the image as a JPEG and returns the capture ID and file path.
func (s *Snapshotter) Save(img *gocv.Mat) (string, string, error) {
	id := uuid.NewString()
	name := fmt.Sprintf("%s-%s.jpg", time.Now().Format("20060102-150405"), id[:8])
	path := filepath.Join(s.dir, name)

	ok := gocv.IMWriteWithParams(path, *img, []int{gocv.IMWriteJpegQuality, SnapshotQuality})
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrSnapshotFailed, path)
	}

	return id, path, nil
}
