package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchDataset Phase = iota
	WriteDataset
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchDataset:
		return "fetch_dataset"
	case WriteDataset:
		return "write_dataset"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchingDatasetUpdate(step, total int, d Dataset) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDataset,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s...", step, total, d),
	}
}

func datasetWrittenUpdate(step, total int, res DatasetResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteDataset,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d rows)", step, total, res.Dataset, res.Rows),
		Data:    res,
	}
}

func datasetFailedUpdate(step, total int, res DatasetResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteDataset,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Dataset, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
