package indexer

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"mindstream/internal/logging"
	"mindstream/internal/metrics"
)

const (
	fetchAttempts     = 3
	fetchInitialDelay = time.Second
)

// fetchAndCache downloads the catalog document and atomically replaces
// the file at CatalogPath. Transient failures are retried with a growing
// delay; on total failure the cached file from a previous run (if any)
// is left untouched.
func (idx *Indexer) fetchAndCache() error {
	client := &http.Client{Timeout: idx.cfg.FetchTimeout}

	var lastErr error
	delay := fetchInitialDelay
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		if attempt > 1 {
			logging.Debug("catalog fetch attempt %d/%d after %v", attempt, fetchAttempts, delay)
			select {
			case <-time.After(delay):
			case <-idx.done:
				return fmt.Errorf("fetch aborted: indexer stopped")
			}
			delay *= 2
		}

		if err := idx.fetchOnce(client); err != nil {
			lastErr = err
			metrics.CatalogFetchesTotal.WithLabelValues("error").Inc()
			logging.Warn("catalog fetch from %s failed: %v", idx.cfg.CatalogURL, err)
			continue
		}

		metrics.CatalogFetchesTotal.WithLabelValues("success").Inc()
		logging.Info("catalog fetched from %s and cached to %s", idx.cfg.CatalogURL, idx.cfg.CatalogPath)
		return nil
	}

	return fmt.Errorf("all %d fetch attempts failed: %w", fetchAttempts, lastErr)
}

func (idx *Indexer) fetchOnce(client *http.Client) error {
	resp, err := client.Get(idx.cfg.CatalogURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	// Download to a temp file in the target directory, then rename, so
	// the watcher and concurrent readers never see a partial document.
	dir := filepath.Dir(idx.cfg.CatalogPath)
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, idx.cfg.CatalogPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace catalog file: %w", err)
	}
	return nil
}
