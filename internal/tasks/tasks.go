package tasks

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
	"golang.org/x/time/rate"
)

// Catalog is the subset of the library store an import needs.
type Catalog interface {
	AddBook(ctx context.Context, in models.BookInput) (models.Outcome, error)
	AddStudent(ctx context.Context, in models.StudentInput) (models.Outcome, error)
}

// ImportOpts configures a CSV import.
type ImportOpts struct {
	RateLimit float64 // Inserts per second; 0 disables pacing
	DryRun    bool    // Parse and validate rows without writing
	Comma     rune    // Field delimiter (default: ',')
}

// RowResult is the outcome of importing one CSV row.
type RowResult struct {
	Line    int            // 1-based line number in the source file
	Key     string         // ISBN or student number
	Outcome models.Outcome // Store outcome; zero for dry runs
}

// ImportResult summarizes an import.
type ImportResult struct {
	Total    int
	Imported int
	Skipped  int
	Rows     []RowResult
}

// Failures returns the rows that were not imported.
func (r *ImportResult) Failures() []RowResult {
	var out []RowResult
	for _, row := range r.Rows {
		if !row.Outcome.Success {
			out = append(out, row)
		}
	}
	return out
}

// ImportEngine loads CSV data into a [Catalog].
type ImportEngine struct {
	lib Catalog
}

// NewImportEngine creates an [ImportEngine] over lib.
func NewImportEngine(lib Catalog) *ImportEngine {
	return &ImportEngine{lib: lib}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// row maps normalized header names to the cell values of one record.
type row struct {
	line   int
	fields map[string]string
}

func (r row) get(names ...string) string {
	for _, n := range names {
		if v, ok := r.fields[n]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func readRows(r io.Reader, opts ImportOpts, required ...[]string) ([]row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	present := map[string]bool{}
	for i, h := range header {
		columns[i] = shared.NormalizeKey(strings.TrimPrefix(h, "\ufeff"))
		present[columns[i]] = true
	}

	for _, alternatives := range required {
		found := false
		for _, name := range alternatives {
			if present[name] {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: missing %q column", shared.ErrInvalidInput, alternatives[0])
		}
	}

	var rows []row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		fields := make(map[string]string, len(columns))
		blank := true
		for i, v := range record {
			if i < len(columns) {
				fields[columns[i]] = v
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row{line: line, fields: fields})
	}
	return rows, nil
}

func newLimiter(opts ImportOpts) *rate.Limiter {
	if opts.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
}

var (
	studentNumberColumns = []string{"student number", "studentnumber", "number", "no"}
	isbnColumns          = []string{"isbn", "isbn/qr"}
)

// ImportBooks reads books from r and adds each one to the catalog.
//
// Rows that fail validation or collide with an existing ISBN are recorded as skipped. Storage
// faults and context cancellation stop the import and are returned with the partial result.
func (e *ImportEngine) ImportBooks(ctx context.Context, progress chan<- ProgressUpdate, r io.Reader, opts ImportOpts) (*ImportResult, error) {
	e.sendProgress(progress, parseFileUpdate("books"))

	rows, err := readRows(r, opts, []string{"title"}, isbnColumns)
	if err != nil {
		return nil, err
	}

	inputs := make([]models.BookInput, len(rows))
	keys := make([]string, len(rows))
	for i, rw := range rows {
		inputs[i] = models.BookInput{
			Title:    rw.get("title"),
			Author:   rw.get("author"),
			ISBN:     rw.get(isbnColumns...),
			Category: rw.get("category"),
		}
		keys[i] = inputs[i].ISBN
	}

	return e.run(ctx, progress, ImportBooks, rows, keys, opts, func(i int) (models.Outcome, error) {
		if opts.DryRun {
			return validated(inputs[i].Validate()), nil
		}
		return e.lib.AddBook(ctx, inputs[i])
	})
}

// ImportStudents reads students from r and registers each one.
func (e *ImportEngine) ImportStudents(ctx context.Context, progress chan<- ProgressUpdate, r io.Reader, opts ImportOpts) (*ImportResult, error) {
	e.sendProgress(progress, parseFileUpdate("students"))

	rows, err := readRows(r, opts, []string{"name"}, studentNumberColumns)
	if err != nil {
		return nil, err
	}

	inputs := make([]models.StudentInput, len(rows))
	keys := make([]string, len(rows))
	for i, rw := range rows {
		inputs[i] = models.StudentInput{
			Name:          rw.get("name"),
			StudentNumber: rw.get(studentNumberColumns...),
			Email:         rw.get("email"),
			Grade:         rw.get("grade", "class"),
		}
		keys[i] = inputs[i].StudentNumber
	}

	return e.run(ctx, progress, ImportStudents, rows, keys, opts, func(i int) (models.Outcome, error) {
		if opts.DryRun {
			return validated(inputs[i].Validate()), nil
		}
		return e.lib.AddStudent(ctx, inputs[i])
	})
}

func validated(err error) models.Outcome {
	if err != nil {
		return models.Failed(shared.ErrInvalidInput, err.Error())
	}
	return models.Succeeded("Valid.")
}

func (e *ImportEngine) run(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	phase Phase,
	rows []row,
	keys []string,
	opts ImportOpts,
	insert func(i int) (models.Outcome, error),
) (*ImportResult, error) {
	total := len(rows)
	result := &ImportResult{Total: total, Rows: make([]RowResult, 0, total)}
	limiter := newLimiter(opts)

	for i := range rows {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, fmt.Errorf("import interrupted at line %d: %w", rows[i].line, err)
			}
		} else if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("import interrupted at line %d: %w", rows[i].line, err)
		}

		out, err := insert(i)
		if err != nil {
			return result, fmt.Errorf("failed to import line %d: %w", rows[i].line, err)
		}

		result.Rows = append(result.Rows, RowResult{Line: rows[i].line, Key: keys[i], Outcome: out})
		if out.Success {
			result.Imported++
		} else {
			result.Skipped++
		}
		e.sendProgress(progress, rowUpdate(phase, i+1, total, keys[i], out))
	}

	e.sendProgress(progress, completeUpdate(result))
	return result, nil
}
