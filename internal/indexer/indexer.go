package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"mindstream/internal/catalog"
	"mindstream/internal/logging"
	"mindstream/internal/metrics"
)

// Load triggers, used as metric labels and in logs.
const (
	TriggerStartup = "startup"
	TriggerWatch   = "watch"
	TriggerManual  = "manual"
)

// Config configures a catalog indexer.
type Config struct {
	// CatalogPath is the JSON document on disk.
	CatalogPath string
	// CatalogURL, when set, is fetched once at startup and cached to
	// CatalogPath so later runs work offline.
	CatalogURL string
	// FetchTimeout bounds the startup fetch.
	FetchTimeout time.Duration
	// Watch enables rebuilding when CatalogPath changes on disk.
	Watch bool
	// Debounce delays a watch-triggered rebuild so bursts of file
	// events collapse into one load.
	Debounce time.Duration
}

// Snapshot is one immutable view of the loaded catalog. Handlers read
// whole snapshots, so a reload can never expose a half-built tree.
type Snapshot struct {
	Tree     *catalog.CategoryNode
	Records  []catalog.MediaRecord
	Stats    catalog.Stats
	Dropped  []catalog.DroppedRecord
	LoadedAt time.Time
}

// HealthStatus describes the indexer for health endpoints.
type HealthStatus struct {
	Ready            bool
	Loading          bool
	Uptime           string
	LastLoaded       time.Time
	InitialLoadError string
	Records          int
	Sections         int
	Dropped          int
}

// Indexer loads catalog documents and publishes snapshots.
type Indexer struct {
	cfg       Config
	startTime time.Time

	snapshot atomic.Pointer[Snapshot]

	loadMu         sync.Mutex
	loading        bool
	initialLoadErr error

	watcher      *fsnotify.Watcher
	refreshMu    sync.Mutex
	refreshTimer *time.Timer

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates an indexer. Nothing is loaded until Start.
func New(cfg Config) *Indexer {
	// fsnotify reports event names relative to the watched directory,
	// which it cleans; clean the configured path once so the two
	// compare equal (e.g. "./data/catalog.json" vs "data/catalog.json").
	cfg.CatalogPath = filepath.Clean(cfg.CatalogPath)
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	return &Indexer{
		cfg:       cfg,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}
}

// Start performs the initial load and, when configured, begins watching
// the catalog file. An initial load failure is recorded but not
// returned: the service runs with an empty catalog rather than crash.
func (idx *Indexer) Start() error {
	if idx.cfg.CatalogURL != "" {
		if err := idx.fetchAndCache(); err != nil {
			logging.Warn("catalog fetch failed, falling back to cached file: %v", err)
		}
	}

	if err := idx.load(TriggerStartup); err != nil {
		idx.loadMu.Lock()
		idx.initialLoadErr = err
		idx.loadMu.Unlock()
		logging.Warn("initial catalog load failed, serving empty catalog: %v", err)
	}

	if !idx.cfg.Watch {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	idx.watcher = watcher

	// Watch the parent directory: crawlers and editors tend to replace
	// the file via rename, which a file-level watch would lose.
	if err := watcher.Add(filepath.Dir(idx.cfg.CatalogPath)); err != nil {
		watcher.Close()
		idx.watcher = nil
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	idx.wg.Add(1)
	go idx.run()
	return nil
}

// Stop shuts the watcher down and waits for in-flight work.
func (idx *Indexer) Stop() {
	idx.closeOnce.Do(func() {
		close(idx.done)

		idx.refreshMu.Lock()
		if idx.refreshTimer != nil {
			idx.refreshTimer.Stop()
			idx.refreshTimer = nil
		}
		idx.refreshMu.Unlock()

		if idx.watcher != nil {
			if err := idx.watcher.Close(); err != nil {
				logging.Warn("catalog watcher close error: %v", err)
			}
		}
		idx.wg.Wait()
	})
}

// Reload loads the catalog file now, on explicit request.
func (idx *Indexer) Reload() error {
	return idx.load(TriggerManual)
}

// Tree returns the current category tree, or an empty root before the
// first successful load.
func (idx *Indexer) Tree() *catalog.CategoryNode {
	if snap := idx.snapshot.Load(); snap != nil {
		return snap.Tree
	}
	return catalog.NewNode()
}

// Records returns the current flat record list.
func (idx *Indexer) Records() []catalog.MediaRecord {
	if snap := idx.snapshot.Load(); snap != nil {
		return snap.Records
	}
	return nil
}

// Stats returns statistics for the current snapshot.
func (idx *Indexer) Stats() catalog.Stats {
	if snap := idx.snapshot.Load(); snap != nil {
		return snap.Stats
	}
	return catalog.Stats{Sections: map[string]int{}}
}

// DroppedCount returns how many raw entries the last load skipped.
func (idx *Indexer) DroppedCount() int {
	if snap := idx.snapshot.Load(); snap != nil {
		return len(snap.Dropped)
	}
	return 0
}

// GetHealthStatus reports the indexer state for health endpoints.
func (idx *Indexer) GetHealthStatus() HealthStatus {
	idx.loadMu.Lock()
	loading := idx.loading
	initialErr := idx.initialLoadErr
	idx.loadMu.Unlock()

	status := HealthStatus{
		Loading: loading,
		Uptime:  time.Since(idx.startTime).Round(time.Second).String(),
	}
	if initialErr != nil {
		status.InitialLoadError = initialErr.Error()
	}

	if snap := idx.snapshot.Load(); snap != nil {
		status.Ready = true
		status.LastLoaded = snap.LoadedAt
		status.Records = snap.Stats.TotalRecords
		status.Sections = len(snap.Stats.Sections)
		status.Dropped = len(snap.Dropped)
	}
	return status
}

// load reads, validates and publishes the catalog file.
func (idx *Indexer) load(trigger string) error {
	idx.loadMu.Lock()
	if idx.loading {
		idx.loadMu.Unlock()
		logging.Debug("catalog load already in progress, skipping %s trigger", trigger)
		return nil
	}
	idx.loading = true
	idx.loadMu.Unlock()

	defer func() {
		idx.loadMu.Lock()
		idx.loading = false
		idx.loadMu.Unlock()
	}()

	start := time.Now()

	f, err := os.Open(idx.cfg.CatalogPath)
	if err != nil {
		metrics.CatalogLoadsTotal.WithLabelValues(trigger, "error").Inc()
		return fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	result, err := catalog.Load(f)
	if err != nil {
		metrics.CatalogLoadsTotal.WithLabelValues(trigger, "error").Inc()
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	snap := &Snapshot{
		Tree:     catalog.BuildTree(result.Records),
		Records:  result.Records,
		Stats:    catalog.CountStats(result.Records),
		Dropped:  result.Dropped,
		LoadedAt: time.Now(),
	}
	idx.snapshot.Store(snap)

	duration := time.Since(start)
	metrics.CatalogLoadsTotal.WithLabelValues(trigger, "success").Inc()
	metrics.CatalogLoadDuration.Set(duration.Seconds())
	metrics.CatalogLastLoadTimestamp.Set(float64(snap.LoadedAt.Unix()))
	metrics.CatalogRecords.Set(float64(snap.Stats.TotalRecords))
	metrics.CatalogSections.Set(float64(len(snap.Stats.Sections)))
	metrics.CatalogRecordsDropped.Set(float64(len(snap.Dropped)))

	for _, dropped := range snap.Dropped {
		logging.Debug("catalog entry %d dropped: %s", dropped.Index, dropped.Reason)
	}

	logging.Info("catalog loaded (%s): %d records, %d sections, %d dropped in %v",
		trigger, snap.Stats.TotalRecords, len(snap.Stats.Sections), len(snap.Dropped), duration)
	return nil
}

func (idx *Indexer) run() {
	defer idx.wg.Done()

	for {
		select {
		case event, ok := <-idx.watcher.Events:
			if !ok {
				return
			}
			idx.handleEvent(event)
		case err, ok := <-idx.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("catalog watcher error: %v", err)
		case <-idx.done:
			return
		}
	}
}

func (idx *Indexer) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != idx.cfg.CatalogPath {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	logging.Debug("catalog file event: %s", event)
	idx.scheduleReload()
}

// scheduleReload coalesces bursts of file events into one load.
func (idx *Indexer) scheduleReload() {
	idx.refreshMu.Lock()
	defer idx.refreshMu.Unlock()

	if idx.refreshTimer != nil {
		idx.refreshTimer.Stop()
	}
	idx.refreshTimer = time.AfterFunc(idx.cfg.Debounce, func() {
		select {
		case <-idx.done:
			return
		default:
		}
		if err := idx.load(TriggerWatch); err != nil {
			logging.Warn("catalog reload failed, keeping previous snapshot: %v", err)
		}
	})
}
