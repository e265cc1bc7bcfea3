package tasks

import (
	"fmt"

	"github.com/desertthunder/libratech/internal/models"
)

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
	ParseFile Phase = iota
	ImportBooks
	ImportStudents
	Complete
)

func (p Phase) String() string {
	switch p {
	case ParseFile:
		return "parse_file"
	case ImportBooks:
		return "import_books"
	case ImportStudents:
		return "import_students"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func parseFileUpdate(kind string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseFile,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Reading %s file...", kind),
	}
}

func rowUpdate(phase Phase, step, total int, key string, out models.Outcome) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s", step, total, key)
	if !out.Success {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, key, out.Message)
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    out,
	}
}

func completeUpdate(r *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    r.Total,
		Total:   r.Total,
		Message: fmt.Sprintf("Imported %d of %d (%d skipped)", r.Imported, r.Total, r.Skipped),
		Data:    r,
	}
}
