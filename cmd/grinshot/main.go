package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/anika/grinshot/internal/app"
	"github.com/anika/grinshot/internal/server"
	"github.com/anika/grinshot/internal/smile"
	"github.com/anika/grinshot/internal/store"
	"github.com/anika/grinshot/internal/tray"
)

const addr = ":8080"

func main() {
	fmt.Println("Grinshot - Smile-Triggered Camera Shutter")

	// Initialize the data directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".grinshot")
	for _, dir := range []string{dataDir, filepath.Join(dataDir, "snapshots"), filepath.Join(dataDir, "hooks")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	st, err := store.New(filepath.Join(dataDir, "grinshot.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Build the analysis pipeline
	a := app.New(app.Config{
		Store:       st,
		HookDir:     filepath.Join(dataDir, "hooks"),
		SnapshotDir: filepath.Join(dataDir, "snapshots"),
	})
	a.RestoreEnabled()

	if err := a.DiscoverHooks(); err != nil {
		log.Printf("Hook discovery failed: %v", err)
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	a.OnResult(func(res smile.Result) {
		srv.Live().Publish(res)
	})

	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main thread until quit
	tr := tray.New()
	tr.SetEnabled(a.IsEnabled())
	tr.OnToggle(a.SetEnabled)
	tr.OnDashboard(func() {
		if err := exec.Command("open", "http://localhost"+addr).Start(); err != nil {
			log.Printf("Failed to open dashboard: %v", err)
		}
	})
	tr.OnQuit(a.Stop)

	a.OnCapture(func(c *store.Capture) {
		tr.SetLastCapture(filepath.Base(c.Path))
	})

	tr.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.grinshot/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".grinshot", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
