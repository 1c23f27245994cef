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
	FetchCatalog Phase = iota
	CacheEntries
	ExportCatalog
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchCatalog:
		return "fetch_catalog"
	case CacheEntries:
		return "cache_entries"
	case ExportCatalog:
		return "export_catalog"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchCatalogUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    1,
		Total:   1,
		Message: "Fetching catalog from TunePeep...",
	}
}

func cacheEntryUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheEntries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Caching: %s", step, total, title),
	}
}

func cacheFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheEntries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

func exportEntryUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCatalog,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s", step, total, title),
	}
}

func exportFileUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote %s", path),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
		Data:    path,
	}
}
