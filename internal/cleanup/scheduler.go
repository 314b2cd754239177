package cleanup

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Scheduler removes abandoned recording spool files
type Scheduler struct {
	spoolDir string
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
}

// NewScheduler creates a new cleanup scheduler
func NewScheduler(spoolDir string, interval, maxAge time.Duration) *Scheduler {
	return &Scheduler{
		spoolDir: spoolDir,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Run sweeps once on startup and then every interval until ctx is done
func (s *Scheduler) Run(ctx context.Context) error {
	log.Println("Running initial spool cleanup...")
	s.Sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("Cleanup scheduler started (interval: %s, max age: %s)", s.interval, s.maxAge)

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			log.Println("Cleanup scheduler stopped")
			return nil
		}
	}
}

// Sweep removes files older than maxAge and reports how many were deleted
func (s *Scheduler) Sweep() int {
	now := s.now()

	var deletedCount int
	var deletedSize int64

	err := filepath.Walk(s.spoolDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files we can't access
		}
		if info.IsDir() {
			return nil
		}

		age := now.Sub(info.ModTime())
		if age <= s.maxAge {
			return nil
		}

		size := info.Size()
		if err := os.Remove(path); err != nil {
			log.Printf("Failed to delete old spool file %s: %v", path, err)
			return nil
		}
		deletedCount++
		deletedSize += size
		log.Printf("Deleted old spool file: %s (age: %s, size: %dKB)",
			filepath.Base(path), age.Round(time.Minute), size/1024)
		return nil
	})
	if err != nil {
		log.Printf("Error during cleanup: %v", err)
	}

	if deletedCount > 0 {
		log.Printf("Cleanup complete: %d files deleted, %.2fMB freed",
			deletedCount, float64(deletedSize)/(1024*1024))
	}
	return deletedCount
}

// EnsureDir creates the spool directory if it doesn't exist
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	log.Printf("Spool directory ready: %s", dir)
	return nil
}
