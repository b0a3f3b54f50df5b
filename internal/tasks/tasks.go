// package tasks implements the long-running home feed operations.
//
// The core abstraction is FeedEngine, which loads the feed lists concurrently and exports them to files.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonata/internal/formatter"
	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
	"golang.org/x/time/rate"
)

// Section names, in feed order.
const (
	SectionRecommended = "recommended"
	SectionPopular     = "popular"
	SectionTop         = "top"
)

var sectionTitles = map[string]string{
	SectionRecommended: "Recommended for you",
	SectionPopular:     "Popular right now",
	SectionTop:         "Top charts",
}

// SectionTitle returns the display heading for a feed section.
func SectionTitle(name string) string {
	if t, ok := sectionTitles[name]; ok {
		return t
	}
	return name
}

// FeedSource is the part of the catalog client the feed needs.
type FeedSource interface {
	Recommended(ctx context.Context, page int) []models.Song
	Popular(ctx context.Context, page int) []models.Song
	Top(ctx context.Context, page int) []models.Song
}

// Feed holds the home screen lists.
type Feed struct {
	Recommended []models.Song
	Popular     []models.Song
	Top         []models.Song
	FetchedAt   time.Time
}

// Section returns the list called name, or nil.
func (f *Feed) Section(name string) []models.Song {
	switch name {
	case SectionRecommended:
		return f.Recommended
	case SectionPopular:
		return f.Popular
	case SectionTop:
		return f.Top
	}
	return nil
}

// Sections returns the non-empty lists in feed order.
func (f *Feed) Sections() []formatter.Section {
	var out []formatter.Section
	for _, name := range []string{SectionRecommended, SectionPopular, SectionTop} {
		if songs := f.Section(name); len(songs) > 0 {
			out = append(out, formatter.Section{Name: name, Title: SectionTitle(name), Songs: songs})
		}
	}
	return out
}

// Len is the total number of songs across sections.
func (f *Feed) Len() int { return len(f.Recommended) + len(f.Popular) + len(f.Top) }

// LoadOpts configures [FeedEngine.Load].
type LoadOpts struct {
	Page      int     // Page to request (default: 1)
	RateLimit float64 // Requests per second (default: 5)
}

// ExportOpts configures [FeedEngine.Export].
type ExportOpts struct {
	Format     formatter.Format // Export format (default: csv)
	OutputDir  string           // Base output directory (default: sonata_feed_{epoch})
	NumWorkers int              // Concurrent writers (default: 3)
	Cover      bool             // Download cover art for Markdown exports
}

// SectionExportResult is the outcome of exporting one section.
type SectionExportResult struct {
	Section string   `json:"section"`
	Songs   int      `json:"songs"`
	Files   []string `json:"files"`
	Success bool     `json:"success"`
	Error   error    `json:"-"`
	Message string   `json:"error,omitempty"`
}

// ExportResult summarizes a feed export.
type ExportResult struct {
	OutputDirectory string                `json:"output_directory"`
	Format          formatter.Format      `json:"format"`
	Successful      int                   `json:"successful"`
	Failed          int                   `json:"failed"`
	Results         []SectionExportResult `json:"results"`
	ManifestPath    string                `json:"-"`
}

// FeedEngine loads and exports the home feed.
type FeedEngine struct {
	source FeedSource
	logger *log.Logger
}

// NewFeedEngine creates a FeedEngine reading from source.
func NewFeedEngine(source FeedSource, logger *log.Logger) *FeedEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &FeedEngine{source: source, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *FeedEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Load fetches the three feed lists concurrently, paced by a rate limiter.
//
// A failed list is empty rather than an error; only cancellation fails the load.
func (e *FeedEngine) Load(ctx context.Context, prog chan<- ProgressUpdate, opts LoadOpts) (*Feed, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	fetchers := []struct {
		name  string
		fetch func(context.Context, int) []models.Song
	}{
		{SectionRecommended, e.source.Recommended},
		{SectionPopular, e.source.Popular},
		{SectionTop, e.source.Top},
	}
	total := len(fetchers)
	e.sendProgress(prog, fetchingFeedUpdate(total))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	feed := &Feed{}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		done int
	)
	for _, f := range fetchers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			songs := f.fetch(ctx, opts.Page)

			mu.Lock()
			defer mu.Unlock()
			switch f.name {
			case SectionRecommended:
				feed.Recommended = songs
			case SectionPopular:
				feed.Popular = songs
			case SectionTop:
				feed.Top = songs
			}
			done++
			e.sendProgress(prog, fetchedSectionUpdate(done, total, f.name, len(songs)))
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	feed.FetchedAt = time.Now()
	e.logger.Debug("feed loaded", "recommended", len(feed.Recommended), "popular", len(feed.Popular), "top", len(feed.Top))
	return feed, nil
}

// Export writes every non-empty section of feed with a pool of workers and records an export_manifest.json.
func (e *FeedEngine) Export(ctx context.Context, prog chan<- ProgressUpdate, feed *Feed, opts ExportOpts) (*ExportResult, error) {
	if feed == nil {
		return nil, fmt.Errorf("%w: no feed to export", shared.ErrMissingArgument)
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatCSV
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("sonata_feed_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	sections := feed.Sections()
	total := len(sections)
	result := &ExportResult{
		OutputDirectory: opts.OutputDir,
		Format:          opts.Format,
		Results:         make([]SectionExportResult, 0, total),
	}

	jobs := make(chan formatter.Section, total)
	results := make(chan SectionExportResult, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	for i, s := range sections {
		e.sendProgress(prog, exportingSectionUpdate(i+1, total, s.Name))
		jobs <- s
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Success {
			result.Successful++
			e.sendProgress(prog, exportCompletedUpdate(completed, total, res.Section, len(res.Files)))
		} else {
			result.Failed++
			e.sendProgress(prog, exportFailedUpdate(completed, total, res.Section, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker writes sections from the jobs channel until it closes or ctx is done.
func (e *FeedEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan formatter.Section,
	results chan<- SectionExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for s := range jobs {
		if ctx.Err() != nil {
			return
		}

		res := SectionExportResult{Section: s.Name, Songs: len(s.Songs), Files: []string{}}
		out, err := formatter.WriteExport(ctx, s, formatter.Options{
			Dir:    opts.OutputDir,
			Format: opts.Format,
			Cover:  opts.Cover,
			Logger: e.logger,
		})
		if err != nil {
			res.Error = err
			res.Message = err.Error()
			e.logger.Warn("section export failed", "section", s.Name, "error", err)
		} else {
			res.Files = out.Files
			res.Success = true
		}
		results <- res
	}
}
