package tuning

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"ai-shopsearch-be/internal/pkg/logger"
)

// Loader owns the current tuning snapshot. Reload swaps the whole snapshot
// atomically, a failed reload keeps the last good one.
type Loader struct {
	path     string
	log      logger.ILogger
	snapshot atomic.Pointer[Settings]
}

func NewLoader(path string, log logger.ILogger) *Loader {
	l := &Loader{
		path: path,
		log:  log,
	}
	defaults := Defaults()
	l.snapshot.Store(&defaults)

	if err := l.Reload(); err != nil {
		log.Warn("tuning", "tuning artifact not loaded, running on defaults", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	return l
}

// Current returns the active snapshot. Callers must not mutate it.
func (l *Loader) Current() *Settings {
	return l.snapshot.Load()
}

// Reload parses the artifact and swaps the snapshot in.
func (l *Loader) Reload() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("read tuning artifact: %w", err)
	}

	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse tuning artifact: %w", err)
	}
	s.normalize()

	l.snapshot.Store(&s)
	l.log.Info("tuning", "tuning settings loaded", map[string]interface{}{"path": l.path})
	return nil
}

// StartReloader re-reads the artifact on an interval until ctx is done.
func (l *Loader) StartReloader(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := l.Reload(); err != nil {
					l.log.Warn("tuning", "tuning reload failed, keeping previous snapshot", map[string]interface{}{
						"error": err.Error(),
					})
				}
			}
		}
	}()
}
