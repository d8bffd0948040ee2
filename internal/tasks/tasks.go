package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackrate/internal/formatter"
	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
	"golang.org/x/time/rate"
)

// Dataset names a listing that can be exported.
type Dataset string

const (
	DatasetTracks  Dataset = "tracks"
	DatasetUsers   Dataset = "users"
	DatasetReviews Dataset = "reviews"
)

// Datasets lists every exportable dataset in export order.
var Datasets = []Dataset{DatasetTracks, DatasetUsers, DatasetReviews}

// ParseDataset matches s against the known datasets.
func ParseDataset(s string) (Dataset, error) {
	for _, d := range Datasets {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown dataset %q", shared.ErrInvalidArgument, s)
}

// Source provides the listings exported by [ExportEngine]. The store satisfies it.
type Source interface {
	ListTracks(ctx context.Context) ([]models.TrackSummary, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	ListReviews(ctx context.Context) ([]models.ReviewSummary, error)
}

// ExportOpts contains configuration for a snapshot export.
type ExportOpts struct {
	Format     formatter.Format // Output format (default: text)
	OutputDir  string           // Output directory (default: trackrate_export_{epoch})
	Datasets   []Dataset        // Datasets to export (default: all)
	NumWorkers int              // Concurrent workers (default: 3)
	RateLimit  float64          // Listing queries per second (default: 5)
	Now        time.Time        // Anchor for relative dates (default: time.Now)
}

// DatasetResult is the outcome of exporting one dataset.
type DatasetResult struct {
	Dataset Dataset `json:"dataset"`
	Rows    int     `json:"rows"`
	File    string  `json:"file,omitempty"`
	Success bool    `json:"success"`
	Error   error   `json:"-"`
	Message string  `json:"error,omitempty"`
}

// ExportResult summarizes a snapshot export.
type ExportResult struct {
	Format          formatter.Format `json:"format"`
	OutputDirectory string           `json:"output_directory"`
	ExportedAt      time.Time        `json:"exported_at"`
	Results         []DatasetResult  `json:"results"`
	Successful      int              `json:"successful"`
	Failed          int              `json:"failed"`
	ManifestPath    string           `json:"-"`
}

// ExportEngine exports store listings to files.
type ExportEngine struct {
	src    Source
	logger *log.Logger
}

// NewExportEngine creates an ExportEngine reading from src.
func NewExportEngine(src Source, logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExportEngine{src: src, logger: shared.WithLogger(logger, "component", "export")}
}

// Export writes each requested dataset to its own file using a worker pool, then writes a manifest.
//
// Per-dataset failures are recorded in the result; the returned error is reserved for failures
// that affect the whole export, such as an unwritable output directory.
func (e *ExportEngine) Export(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.src == nil {
		return nil, fmt.Errorf("%w: export source not initialized", shared.ErrConnection)
	}

	opts = withDefaults(opts)
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		ExportedAt:      opts.Now,
		Results:         make([]DatasetResult, 0, len(opts.Datasets)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan Dataset, len(opts.Datasets))
	results := make(chan DatasetResult, len(opts.Datasets))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	for i, d := range opts.Datasets {
		sendProgress(prog, fetchingDatasetUpdate(i+1, len(opts.Datasets), d))
		jobs <- d
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
			sendProgress(prog, datasetWrittenUpdate(completed, len(opts.Datasets), res))
		} else {
			result.Failed++
			e.logger.Warn("dataset export failed", "dataset", res.Dataset, "error", res.Error)
			sendProgress(prog, datasetFailedUpdate(completed, len(opts.Datasets), res))
		}
	}

	order := make(map[Dataset]int, len(opts.Datasets))
	for i, d := range opts.Datasets {
		order[d] = i
	}
	sort.Slice(result.Results, func(i, j int) bool {
		return order[result.Results[i].Dataset] < order[result.Results[j].Dataset]
	})

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

func withDefaults(opts ExportOpts) ExportOpts {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatText
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("trackrate_export_%d", opts.Now.Unix())
	}
	if len(opts.Datasets) == 0 {
		opts.Datasets = Datasets
	}
	opts.Datasets = uniqueDatasets(opts.Datasets)
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > len(opts.Datasets) {
		opts.NumWorkers = len(opts.Datasets)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	return opts
}

// uniqueDatasets drops repeated entries, keeping first-seen order.
func uniqueDatasets(in []Dataset) []Dataset {
	seen := make(map[Dataset]struct{}, len(in))
	out := make([]Dataset, 0, len(in))
	for _, d := range in {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// exportWorker exports datasets from the jobs channel until it is drained or ctx is done.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan Dataset,
	results chan<- DatasetResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for d := range jobs {
		res := DatasetResult{Dataset: d}
		if err := limiter.Wait(ctx); err != nil {
			res.Error = fmt.Errorf("%w: %v", shared.ErrConnection, err)
		} else {
			res = e.exportDataset(ctx, d, opts)
		}
		if res.Error != nil {
			res.Message = res.Error.Error()
		}
		results <- res
	}
}

// exportDataset fetches, renders and writes a single dataset.
func (e *ExportEngine) exportDataset(ctx context.Context, d Dataset, opts ExportOpts) DatasetResult {
	res := DatasetResult{Dataset: d}

	rows, count, err := e.fetch(ctx, d)
	if err != nil {
		res.Error = fmt.Errorf("failed to fetch %s: %w", d, err)
		return res
	}

	data, err := formatter.Render(opts.Format, rows, opts.Now)
	if err != nil {
		res.Error = fmt.Errorf("failed to render %s: %w", d, err)
		return res
	}

	path := filepath.Join(opts.OutputDir, string(d)+opts.Format.Ext())
	if err := formatter.WriteFile(path, data); err != nil {
		res.Error = err
		return res
	}

	res.Rows = count
	res.File = path
	res.Success = true
	return res
}

// fetch runs the listing for d. An empty listing yields an empty slice of the right type.
func (e *ExportEngine) fetch(ctx context.Context, d Dataset) (any, int, error) {
	switch d {
	case DatasetTracks:
		rows, err := e.src.ListTracks(ctx)
		if errors.Is(err, shared.ErrNotFound) {
			return []models.TrackSummary{}, 0, nil
		}
		return rows, len(rows), err
	case DatasetUsers:
		rows, err := e.src.ListUsers(ctx)
		if errors.Is(err, shared.ErrNotFound) {
			return []models.UserProfile{}, 0, nil
		}
		return rows, len(rows), err
	case DatasetReviews:
		rows, err := e.src.ListReviews(ctx)
		if errors.Is(err, shared.ErrNotFound) {
			return []models.ReviewSummary{}, 0, nil
		}
		return rows, len(rows), err
	}
	return nil, 0, fmt.Errorf("%w: unknown dataset %q", shared.ErrInvalidArgument, d)
}

func writeManifest(result *ExportResult, path string) error {
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return formatter.WriteFile(path, data)
}
