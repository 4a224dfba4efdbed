package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// Runner executes hooks with timeout support. Hooks are fire-and-forget:
// they receive the capture payload on stdin and their exit status is the only
// contract.
type Runner struct {
	timeout time.Duration
}

// NewRunner creates a Runner with the given per-hook timeout.
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Runner{timeout: timeout}
}

// Run executes one hook with the given payload on its stdin.
func (r *Runner) Run(h *Hook, p *Payload) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, h.Executable)
	cmd.Dir = h.Path

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	cmd.Stdin = bytes.NewReader(payload)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("hook %s timed out after %s", h.Manifest.Name, r.timeout)
	}
	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("hook %s failed: %w, stderr: %s", h.Manifest.Name, err, s)
		}
		return fmt.Errorf("hook %s failed: %w", h.Manifest.Name, err)
	}

	return nil
}
