// Package worker hosts the bot's background jobs.
package worker

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ExportCleaner prunes generated export files once they pass the
// configured retention.
type ExportCleaner struct {
	dir       string
	retention time.Duration
	logger    zerolog.Logger
	cron      *cron.Cron
}

func NewExportCleaner(dir string, retentionDays int, logger zerolog.Logger) *ExportCleaner {
	return &ExportCleaner{
		dir:       dir,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start schedules an hourly sweep and runs one immediately.
func (c *ExportCleaner) Start() error {
	if _, err := c.cron.AddFunc("@hourly", c.Sweep); err != nil {
		return err
	}
	c.cron.Start()
	go c.Sweep()
	return nil
}

func (c *ExportCleaner) Stop() {
	c.cron.Stop()
}

// Sweep deletes expired export files. Missing directory is fine, it
// just means no exports have been generated yet.
func (c *ExportCleaner) Sweep() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Error().Err(err).Str("dir", c.dir).Msg("export sweep: read dir")
		}
		return
	}

	cutoff := time.Now().Add(-c.retention)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(c.dir, e.Name())
		if err := os.Remove(path); err != nil {
			c.logger.Error().Err(err).Str("path", path).Msg("export sweep: remove")
			continue
		}
		removed++
	}
	if removed > 0 {
		c.logger.Info().Int("removed", removed).Msg("export sweep complete")
	}
}
