package worker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSweepRemovesExpiredOnly(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "listings_old.xlsx")
	fresh := filepath.Join(dir, "listings_fresh.xlsx")
	for _, p := range []string{old, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().Add(-8 * 24 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	c := NewExportCleaner(dir, 7, zerolog.Nop())
	c.Sweep()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expired export should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh export should survive: %v", err)
	}
}

func TestSweepMissingDirIsFine(t *testing.T) {
	c := NewExportCleaner(filepath.Join(t.TempDir(), "nope"), 7, zerolog.Nop())
	c.Sweep() // must not panic or log fatally
}
