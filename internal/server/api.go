package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Library is the store surface served over HTTP.
type Library interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	SearchBooks(ctx context.Context, query string) ([]models.Book, error)
	AddBook(ctx context.Context, in models.BookInput) (models.Outcome, error)
	DeleteBook(ctx context.Context, id string) (models.Outcome, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	SearchStudents(ctx context.Context, query string) ([]models.Student, error)
	AddStudent(ctx context.Context, in models.StudentInput) (models.Outcome, error)
	DeleteStudent(ctx context.Context, id string) (models.Outcome, error)
	ListActiveLoans(ctx context.Context) ([]models.ActiveLoan, error)
	ListOverdueLoans(ctx context.Context) ([]models.ActiveLoan, error)
	IssueBook(ctx context.Context, isbn, studentNumber string, days int) (models.Outcome, error)
	ReturnBook(ctx context.Context, isbn string) (models.Outcome, error)
	ResetAll(ctx context.Context) error
}

// IssueRequest is the body of POST /loans/issue.
type IssueRequest struct {
	ISBN          string `json:"isbn"`
	StudentNumber string `json:"studentNumber"`
	Days          int    `json:"days,omitempty"`
}

// ReturnRequest is the body of POST /loans/return.
type ReturnRequest struct {
	ISBN string `json:"isbn"`
}

// ErrorResponse is written for malformed requests and storage faults.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LibraryHandler serves the library JSON API.
type LibraryHandler struct {
	lib    Library
	logger *log.Logger
}

// NewLibraryHandler creates a [LibraryHandler].
func NewLibraryHandler(lib Library, logger *log.Logger) *LibraryHandler {
	return &LibraryHandler{lib: lib, logger: logger}
}

// Register adds the API routes to r.
func (h *LibraryHandler) Register(r Router) {
	r.Handle(http.MethodGet, "/books", http.HandlerFunc(h.listBooks))
	r.Handle(http.MethodPost, "/books", http.HandlerFunc(h.addBook))
	r.Handle(http.MethodDelete, "/books/{id}", http.HandlerFunc(h.deleteBook))
	r.Handle(http.MethodGet, "/students", http.HandlerFunc(h.listStudents))
	r.Handle(http.MethodPost, "/students", http.HandlerFunc(h.addStudent))
	r.Handle(http.MethodDelete, "/students/{id}", http.HandlerFunc(h.deleteStudent))
	r.Handle(http.MethodGet, "/loans", http.HandlerFunc(h.listLoans))
	r.Handle(http.MethodPost, "/loans/issue", http.HandlerFunc(h.issue))
	r.Handle(http.MethodPost, "/loans/return", http.HandlerFunc(h.returnBook))
	r.Handle(http.MethodPost, "/reset", http.HandlerFunc(h.reset))
}

func (h *LibraryHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.lib.SearchBooks(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *LibraryHandler) addBook(w http.ResponseWriter, r *http.Request) {
	var in models.BookInput
	if !decode(w, r, &in) {
		return
	}
	out, err := h.lib.AddBook(r.Context(), in)
	h.outcome(w, out, err, http.StatusCreated)
}

func (h *LibraryHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	out, err := h.lib.DeleteBook(r.Context(), r.PathValue("id"))
	h.outcome(w, out, err, http.StatusOK)
}

func (h *LibraryHandler) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.lib.SearchStudents(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *LibraryHandler) addStudent(w http.ResponseWriter, r *http.Request) {
	var in models.StudentInput
	if !decode(w, r, &in) {
		return
	}
	out, err := h.lib.AddStudent(r.Context(), in)
	h.outcome(w, out, err, http.StatusCreated)
}

func (h *LibraryHandler) deleteStudent(w http.ResponseWriter, r *http.Request) {
	out, err := h.lib.DeleteStudent(r.Context(), r.PathValue("id"))
	h.outcome(w, out, err, http.StatusOK)
}

func (h *LibraryHandler) listLoans(w http.ResponseWriter, r *http.Request) {
	list := h.lib.ListActiveLoans
	if overdue, _ := strconv.ParseBool(r.URL.Query().Get("overdue")); overdue {
		list = h.lib.ListOverdueLoans
	}
	loans, err := list(r.Context())
	if err != nil {
		h.fault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func (h *LibraryHandler) issue(w http.ResponseWriter, r *http.Request) {
	var req IssueRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Days < 0 {
		writeError(w, http.StatusBadRequest, "days must not be negative")
		return
	}
	out, err := h.lib.IssueBook(r.Context(), req.ISBN, req.StudentNumber, req.Days)
	h.outcome(w, out, err, http.StatusOK)
}

func (h *LibraryHandler) returnBook(w http.ResponseWriter, r *http.Request) {
	var req ReturnRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.lib.ReturnBook(r.Context(), req.ISBN)
	h.outcome(w, out, err, http.StatusOK)
}

func (h *LibraryHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.lib.ResetAll(r.Context()); err != nil {
		h.fault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Succeeded("Library data reset."))
}

func (h *LibraryHandler) outcome(w http.ResponseWriter, out models.Outcome, err error, okStatus int) {
	if err != nil {
		h.fault(w, err)
		return
	}
	if out.Success {
		writeJSON(w, okStatus, out)
		return
	}
	writeJSON(w, StatusFor(out.Reason), out)
}

func (h *LibraryHandler) fault(w http.ResponseWriter, err error) {
	h.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// StatusFor maps a failed outcome's reason to an HTTP status.
func StatusFor(reason error) int {
	switch {
	case errors.Is(reason, shared.ErrBookNotFound), errors.Is(reason, shared.ErrStudentNotFound):
		return http.StatusNotFound
	case errors.Is(reason, shared.ErrDuplicateISBN),
		errors.Is(reason, shared.ErrDuplicateStudentNumber),
		errors.Is(reason, shared.ErrBookOnLoan),
		errors.Is(reason, shared.ErrNotOnLoan),
		errors.Is(reason, shared.ErrActiveLoans):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// HealthHandler answers liveness probes.
type HealthHandler struct{}

func (HealthHandler) Routes() []string { return []string{"GET /health"} }

func (HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	if err := codec.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := codec.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// NewHandler assembles the full API: health probe, library routes and middleware.
func NewHandler(lib Library, logger *log.Logger, limiter *ClientRateLimiter) http.Handler {
	r := NewBasicRouter()
	r.Use(Recover(logger), Logging(logger), RateLimit(limiter))
	r.Handler(HealthHandler{})
	NewLibraryHandler(lib, logger).Register(r)
	return r
}
