package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackrate/internal/formatter"
	"github.com/desertthunder/trackrate/internal/tasks"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// Export writes a snapshot of the requested datasets to an output directory.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var datasets []tasks.Dataset
	for _, name := range cmd.StringSlice("dataset") {
		d, err := tasks.ParseDataset(name)
		if err != nil {
			return err
		}
		datasets = append(datasets, d)
	}

	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	engine := tasks.NewExportEngine(svc, r.logger)
	opts := tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		Datasets:   datasets,
		NumWorkers: int(cmd.Int("workers")),
		Now:        r.now(),
	}

	r.logger.Info("starting export", "format", format, "datasets", len(datasets))

	progressCh := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchDataset:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.WriteDataset:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Export(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Format: %s\n", result.Format)
	r.writePlain("Datasets: %d/%d written\n", result.Successful, len(result.Results))

	for _, res := range result.Results {
		if res.Success {
			r.writePlain("  ✓ %s: %s rows → %s\n", res.Dataset, humanize.Comma(int64(res.Rows)), res.File)
		} else {
			r.writePlain("  ✗ %s: %s\n", res.Dataset, res.Message)
		}
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d datasets failed to export", result.Failed, len(result.Results))
	}
	return nil
}
