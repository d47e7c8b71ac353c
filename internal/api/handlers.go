package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/davidahmann/monetic/internal/batch"
	"github.com/davidahmann/monetic/internal/casefile"
	"github.com/davidahmann/monetic/internal/eligibility"
	"github.com/davidahmann/monetic/internal/ledger"
	"github.com/davidahmann/monetic/internal/pipeline"
	"github.com/davidahmann/monetic/internal/report"
)

// maxCaseBytes caps uploaded case payloads. Real case files are a few KB.
const maxCaseBytes = 1 << 20

type Handler struct {
	Pipeline *pipeline.Pipeline

	// ExportDir is the default batch export target; a request may override it.
	ExportDir string
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(rateLimit())

	r.Get("/healthz", h.Health)
	r.Post("/v1/process", h.Process)
	r.Post("/v1/batch", h.Batch)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Process evaluates one case. The case arrives either as a multipart upload
// (field "case", extension taken from the filename) or as a raw body whose
// format is sniffed from the first byte.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	if h.Pipeline == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "pipeline not configured"})
		return
	}

	path, cleanup, err := h.stageCaseFile(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer cleanup()

	result, err := h.Pipeline.RunCase(r.Context(), path)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"decision":      result.Decision,
		"ops":           result.Ops,
		"notify_status": result.NotifyStatus,
		"summary":       report.Decision(result.Decision),
	})
}

type batchRequest struct {
	Folder string `json:"folder"`
	Out    string `json:"out"`
}

// Batch runs the reconciler over a server-local folder of case files.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	if h.Pipeline == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "pipeline not configured"})
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Folder == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing folder"})
		return
	}

	exportDir := h.ExportDir
	if req.Out != "" {
		exportDir = req.Out
	}

	reconciler := batch.NewReconciler(h.Pipeline, exportDir)
	summary, err := reconciler.Run(r.Context(), req.Folder)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"batch_summary": summary,
		"summary":       report.Batch(summary),
	})
}

// stageCaseFile materializes the request payload as a file with an extension
// the loader's dispatch recognizes. The cleanup func removes the temp dir.
func (h *Handler) stageCaseFile(r *http.Request) (string, func(), error) {
	noop := func() {}

	var body []byte
	name := ""

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxCaseBytes); err != nil {
			return "", noop, fmt.Errorf("parse multipart form: %w", err)
		}
		file, header, err := r.FormFile("case")
		if err != nil {
			return "", noop, fmt.Errorf("missing case file field")
		}
		defer file.Close()

		body, err = io.ReadAll(io.LimitReader(file, maxCaseBytes))
		if err != nil {
			return "", noop, fmt.Errorf("read upload: %w", err)
		}
		name = filepath.Base(header.Filename)
	} else {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, maxCaseBytes))
		if err != nil {
			return "", noop, fmt.Errorf("read body: %w", err)
		}
		name = "case" + sniffExtension(body)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return "", noop, fmt.Errorf("empty case payload")
	}

	dir, err := os.MkdirTemp("", "monetic-case-")
	if err != nil {
		return "", noop, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		cleanup()
		return "", noop, err
	}
	return path, cleanup, nil
}

// sniffExtension guesses the format of a raw pasted body. XML opens with a
// tag, JSON with a brace; anything else is treated as CSV.
func sniffExtension(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	switch {
	case strings.HasPrefix(trimmed, "<"):
		return ".xml"
	case strings.HasPrefix(trimmed, "{"):
		return ".json"
	default:
		return ".csv"
	}
}

func statusForError(err error) int {
	var persistence *ledger.PersistenceError
	if errors.As(err, &persistence) {
		return http.StatusInternalServerError
	}

	var (
		format     *casefile.FormatError
		empty      *casefile.EmptyInputError
		missing    *casefile.MissingFieldError
		validation *casefile.ValidationError
		timestamp  *eligibility.TimestampError
	)
	if errors.As(err, &format) || errors.As(err, &empty) ||
		errors.As(err, &missing) || errors.As(err, &validation) ||
		errors.As(err, &timestamp) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
